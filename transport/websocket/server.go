package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/hck84-jenggot-gaming/GP-ToeFastToeSerious/internal/entity"
	"github.com/hck84-jenggot-gaming/GP-ToeFastToeSerious/internal/usecase"
)

type gameManager interface {
	Connect(playerID string)
	RequestToPlay(ctx context.Context, playerID, name string) (*usecase.MatchResult, error)
	SubmitMove(playerID, sign string, cell *int) (*usecase.MoveResult, error)
	GameEnded(ctx context.Context, playerID, winnerMark, roomID string) error
	Reset(roomID string)
	RequestAdvisory(ctx context.Context, playerID string, board entity.Board, roomID string) (int, string, error)
	Disconnect(ctx context.Context, playerID string) *usecase.ForfeitResult
}

// connection serializes writes; gorilla allows one concurrent writer only.
type connection struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (that *connection) writeJSON(v any) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.ws.WriteJSON(v)
}

type Server struct {
	logger  *slog.Logger
	manager gameManager

	upgrader websocket.Upgrader
	handlers map[string]func(ctx context.Context, playerID string, msg *Message) error

	connectionsMutex sync.RWMutex
	connections      map[string]*connection
}

func New(logger *slog.Logger, manager gameManager) *Server {
	server := &Server{
		logger:  logger,
		manager: manager,
		upgrader: websocket.Upgrader{
			// anonymous browser clients connect from anywhere
			CheckOrigin: func(*http.Request) bool { return true },
		},
		connections: make(map[string]*connection),
	}

	server.handlers = map[string]func(context.Context, string, *Message) error{
		actionRequestToPlay:  server.handleRequestToPlay,
		actionMoveFromClient: server.handleMove,
		actionGameEnded:      server.handleGameEnded,
		actionResetGame:      server.handleResetGame,
		actionRequestAIHelp:  server.handleAIHelp,
	}

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveConnection - upgrades the request and pumps messages until the client
// goes away. Every connection is a fresh anonymous participant.
func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConnection")

	ws, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	playerID := uuid.NewString()
	log = log.With("playerID", playerID)

	conn := &connection{ws: ws}

	that.connectionsMutex.Lock()
	that.connections[playerID] = conn
	that.connectionsMutex.Unlock()

	that.manager.Connect(playerID)

	log.Info("WebSocket connection established")

	defer that.closeConnection(ctx, playerID, ws)

	for {
		var message Message
		if err = ws.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			continue
		}

		if err = handler(ctx, playerID, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// closeConnection - tears down registry state and notifies a forfeited
// opponent, then drops the connection.
func (that *Server) closeConnection(ctx context.Context, playerID string, ws *websocket.Conn) {
	log := that.logger.With("method", "closeConnection", "playerID", playerID)

	that.connectionsMutex.Lock()
	delete(that.connections, playerID)
	that.connectionsMutex.Unlock()

	if forfeit := that.manager.Disconnect(ctx, playerID); forfeit != nil {
		if err := that.sendMessage(forfeit.OpponentID, actionOpponentLeft, nil); err != nil {
			log.Error("failed to notify opponent", "error", err)
		}
	}

	_ = ws.Close()

	log.Info("player disconnected")
}

// sendMessage - marshals the payload and writes it to the player's connection.
func (that *Server) sendMessage(playerID, action string, payload any) error {
	that.connectionsMutex.RLock()
	conn, ok := that.connections[playerID]
	that.connectionsMutex.RUnlock()

	if !ok {
		return fmt.Errorf("no connection for player %s", playerID)
	}

	message := Message{Action: action}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}

		message.Payload = raw
	}

	if err := conn.writeJSON(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// sendRaw - forwards an already-encoded payload untouched.
func (that *Server) sendRaw(playerID, action string, payload json.RawMessage) error {
	that.connectionsMutex.RLock()
	conn, ok := that.connections[playerID]
	that.connectionsMutex.RUnlock()

	if !ok {
		return fmt.Errorf("no connection for player %s", playerID)
	}

	if err := conn.writeJSON(Message{Action: action, Payload: payload}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendErrorResponse(playerID, action, errorMsg string) error {
	if err := that.sendMessage(playerID, actionError, ErrorPayload{Error: fmt.Sprintf("%s: %s", action, errorMsg)}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}
