package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hck84-jenggot-gaming/GP-ToeFastToeSerious/internal/apperror"
	"github.com/hck84-jenggot-gaming/GP-ToeFastToeSerious/internal/entity"
)

func (that *Server) handleRequestToPlay(ctx context.Context, playerID string, msg *Message) error {
	log := that.logger.With("method", "handleRequestToPlay", "playerID", playerID)

	var payload PlayRequest
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return that.sendErrorResponse(playerID, msg.Action, "malformed payload")
	}

	if payload.PlayerName == "" {
		return that.sendErrorResponse(playerID, msg.Action, "playerName is required")
	}

	match, err := that.manager.RequestToPlay(ctx, playerID, payload.PlayerName)
	if err != nil {
		log.Error("failed to request play", "error", err)
		return that.sendErrorResponse(playerID, msg.Action, "failed to join the pool")
	}

	if match == nil {
		return that.sendMessage(playerID, actionOpponentNotFound, nil)
	}

	// the waiting player moves first as cross, the requester answers as circle
	if err = that.sendMessage(match.RequesterID, actionOpponentFound, OpponentFoundPayload{
		OpponentName: match.OpponentName,
		PlayingAs:    entity.PlayerCircle,
		RoomID:       match.RoomID,
	}); err != nil {
		log.Error("failed to notify requester", "error", err)
	}

	if err = that.sendMessage(match.OpponentID, actionOpponentFound, OpponentFoundPayload{
		OpponentName: match.RequesterName,
		PlayingAs:    entity.PlayerCross,
		RoomID:       match.RoomID,
	}); err != nil {
		log.Error("failed to notify opponent", "error", err)
	}

	log.Info("players matched", "roomID", match.RoomID)

	return nil
}

func (that *Server) handleMove(_ context.Context, playerID string, msg *Message) error {
	var payload MoveRequest
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return that.sendErrorResponse(playerID, msg.Action, "malformed payload")
	}

	if payload.State.Sign != entity.PlayerCross && payload.State.Sign != entity.PlayerCircle {
		return that.sendErrorResponse(playerID, msg.Action, "state.sign is required")
	}

	result, err := that.manager.SubmitMove(playerID, payload.State.Sign, payload.State.Cell)
	if err != nil {
		return that.sendErrorResponse(playerID, msg.Action, err.Error())
	}

	// relayed verbatim so the opponent sees exactly what the mover sent
	if err = that.sendRaw(result.OpponentID, actionMoveFromServer, msg.Payload); err != nil {
		return fmt.Errorf("failed to relay move: %w", err)
	}

	return nil
}

func (that *Server) handleGameEnded(ctx context.Context, playerID string, msg *Message) error {
	log := that.logger.With("method", "handleGameEnded", "playerID", playerID)

	var payload GameEndedRequest
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return that.sendErrorResponse(playerID, msg.Action, "malformed payload")
	}

	if payload.RoomID == "" {
		return that.sendErrorResponse(playerID, msg.Action, "roomId is required")
	}

	// persistence or lookup trouble never bounces back to the client here
	if err := that.manager.GameEnded(ctx, playerID, payload.Winner, payload.RoomID); err != nil {
		log.Error("failed to end game", "roomID", payload.RoomID, "error", err)
	}

	return nil
}

func (that *Server) handleResetGame(_ context.Context, playerID string, msg *Message) error {
	var payload ResetRequest
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return that.sendErrorResponse(playerID, msg.Action, "malformed payload")
	}

	that.manager.Reset(payload.RoomID)

	return nil
}

func (that *Server) handleAIHelp(ctx context.Context, playerID string, msg *Message) error {
	log := that.logger.With("method", "handleAIHelp", "playerID", playerID)

	var payload AIHelpRequest
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return that.sendMessage(playerID, actionAIError, AIErrorPayload{Message: "Invalid session"})
	}

	board, err := boardFromGameState(payload.GameState)
	if err != nil {
		return that.sendMessage(playerID, actionAIError, AIErrorPayload{Message: "Invalid session"})
	}

	cell, source, err := that.manager.RequestAdvisory(ctx, playerID, board, payload.RoomID)
	if err != nil {
		return that.sendMessage(playerID, actionAIError, AIErrorPayload{Message: advisoryErrorMessage(err)})
	}

	log.Info("AI suggestion sent", "cell", cell, "source", source)

	return that.sendMessage(playerID, actionAISuggestion, AISuggestionPayload{
		BestMove: cell,
		AIUsed:   true,
		Source:   source,
	})
}

func advisoryErrorMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrAdvisoryUsed):
		return "AI help already used in this game"
	case errors.Is(err, apperror.ErrRoomNotFound):
		return "Room not found"
	default:
		return "Invalid session"
	}
}

// boardFromGameState - flattens the client's 3x3 nested grid into a board,
// rejecting anything but cross, circle or null cells.
func boardFromGameState(gameState [][]*string) (entity.Board, error) {
	var board entity.Board

	if len(gameState) != 3 {
		return board, fmt.Errorf("expected 3 rows, got %d", len(gameState))
	}

	for rowIdx, row := range gameState {
		if len(row) != 3 {
			return board, fmt.Errorf("expected 3 cells in row %d, got %d", rowIdx, len(row))
		}

		for colIdx, cell := range row {
			if cell == nil {
				continue
			}

			if *cell != entity.PlayerCross && *cell != entity.PlayerCircle {
				return board, fmt.Errorf("unexpected cell value %q", *cell)
			}

			board[rowIdx*3+colIdx] = *cell
		}
	}

	return board, nil
}
