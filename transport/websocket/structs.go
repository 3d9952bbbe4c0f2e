package websocket

import "encoding/json"

// Message is the envelope for every websocket exchange, both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	actionRequestToPlay    = "request_to_play"
	actionMoveFromClient   = "playerMoveFromClient"
	actionGameEnded        = "gameEnded"
	actionResetGame        = "resetGame"
	actionRequestAIHelp    = "requestAIHelp"
	actionMoveFromServer   = "playerMoveFromServer"
	actionOpponentFound    = "OpponentFound"
	actionOpponentNotFound = "OpponentNotFound"
	actionOpponentLeft     = "opponentLeftMatch"
	actionAISuggestion     = "aiSuggestion"
	actionAIError          = "aiError"
	actionError            = "error"
)

type PlayRequest struct {
	PlayerName string `json:"playerName"`
}

type MoveState struct {
	Sign string `json:"sign"`
	Cell *int   `json:"cell"`
}

type MoveRequest struct {
	State MoveState `json:"state"`
}

type GameEndedRequest struct {
	Winner string `json:"winner"`
	RoomID string `json:"roomId"`
}

type ResetRequest struct {
	RoomID string `json:"roomId"`
}

type AIHelpRequest struct {
	GameState [][]*string `json:"gameState"`
	RoomID    string      `json:"roomId"`
}

type OpponentFoundPayload struct {
	OpponentName string `json:"opponentName"`
	PlayingAs    string `json:"playingAs"`
	RoomID       string `json:"roomId"`
}

type AISuggestionPayload struct {
	BestMove int    `json:"bestMove"`
	AIUsed   bool   `json:"aiUsed"`
	Source   string `json:"source"`
}

type AIErrorPayload struct {
	Message string `json:"message"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
