package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/hck84-jenggot-gaming/GP-ToeFastToeSerious/internal/apperror"
	"github.com/hck84-jenggot-gaming/GP-ToeFastToeSerious/internal/entity"
)

type scoreRepo interface {
	FindOrCreate(ctx context.Context, name string) (*entity.Score, error)
	Increment(ctx context.Context, name string) (*entity.Score, error)
}

type moveAdvisor interface {
	AdviseMove(ctx context.Context, board entity.Board, mark string) (int, string)
}

// MatchResult carries what the transport needs to notify both sides of a fresh
// match. Plain copies, so readers never touch registry-owned state.
type MatchResult struct {
	RoomID        string
	RequesterID   string
	RequesterName string
	OpponentID    string
	OpponentName  string
}

type MoveResult struct {
	OpponentID string
}

type ForfeitResult struct {
	RoomID       string
	OpponentID   string
	OpponentName string
}

// GameManager owns the registry and the room table. Every mutation happens
// under one mutex; external calls (score store, advisor) run outside it so a
// slow collaborator never stalls other events.
type GameManager struct {
	logger *slog.Logger

	mu       sync.Mutex
	registry *Registry
	rooms    map[string]*entity.Room

	scores  scoreRepo
	advisor moveAdvisor
}

func NewGameManager(logger *slog.Logger, scores scoreRepo, advisor moveAdvisor) *GameManager {
	return &GameManager{
		logger:   logger,
		registry: NewRegistry(),
		rooms:    make(map[string]*entity.Room),
		scores:   scores,
		advisor:  advisor,
	}
}

// Connect - registers a fresh participant for the connection.
func (that *GameManager) Connect(playerID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.registry.Register(playerID)
}

// RequestToPlay - names the participant and tries to pair them. Returns nil
// when nobody is available; the requester stays in the pool. Opponent lookup
// and claim happen in one step under the lock, so two concurrent requests can
// never book the same opponent twice.
func (that *GameManager) RequestToPlay(ctx context.Context, playerID, name string) (*MatchResult, error) {
	that.mu.Lock()

	player := that.registry.Get(playerID)
	if player == nil {
		that.mu.Unlock()
		return nil, apperror.ErrPlayerNotFound
	}

	that.registry.SetName(playerID, name)

	// a participant already claimed by a concurrent request keeps their session
	if player.Playing {
		that.mu.Unlock()
		return nil, nil
	}

	opponent := that.registry.FindAvailableOpponent(playerID)
	if opponent == nil {
		that.mu.Unlock()
		that.ensureScoreRecord(ctx, name)

		return nil, nil
	}

	roomID := uuid.NewString()
	room := entity.NewRoom(roomID, opponent, player)
	that.rooms[roomID] = room

	that.registry.MarkPlaying(player.ID, roomID)
	that.registry.MarkPlaying(opponent.ID, roomID)

	result := &MatchResult{
		RoomID:        roomID,
		RequesterID:   player.ID,
		RequesterName: player.Name,
		OpponentID:    opponent.ID,
		OpponentName:  opponent.Name,
	}

	that.mu.Unlock()

	that.logger.Info("matched players", "roomID", roomID)
	that.ensureScoreRecord(ctx, name)

	return result, nil
}

// SubmitMove - validates a move against the authoritative board before the
// transport relays it. A nil cell skips the board check and only verifies turn
// ownership, for clients that do not report the cell index.
func (that *GameManager) SubmitMove(playerID, sign string, cell *int) (*MoveResult, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	player := that.registry.Get(playerID)
	if player == nil {
		return nil, apperror.ErrPlayerNotFound
	}

	if player.RoomID == "" {
		return nil, apperror.ErrNotInRoom
	}

	room, ok := that.rooms[player.RoomID]
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	if !room.IsActive() {
		return nil, apperror.ErrRoomNotActive
	}

	mark := room.MarkOf(playerID)
	if sign != mark {
		return nil, apperror.ErrWrongMark
	}

	if room.Turn != mark {
		return nil, apperror.ErrNotYourTurn
	}

	if cell != nil {
		board, err := room.Board.ApplyMove(*cell, mark)
		if err != nil {
			return nil, err
		}

		room.Board = board
	}

	room.Turn = entity.OpponentMark(mark)

	return &MoveResult{OpponentID: room.Opponent(playerID).ID}, nil
}

// GameEnded - credits the winner and marks the room finished. The room stays
// around until an explicit reset, mirroring the client-driven lifecycle.
func (that *GameManager) GameEnded(ctx context.Context, playerID, winnerMark, roomID string) error {
	log := that.logger.With("method", "GameEnded", "roomID", roomID)

	that.mu.Lock()

	room, ok := that.rooms[roomID]
	if !ok {
		that.mu.Unlock()
		return apperror.ErrRoomNotFound
	}

	if !room.IsActive() {
		that.mu.Unlock()
		return apperror.ErrRoomNotActive
	}

	winner := room.PlayerByMark(winnerMark)
	if winner == nil {
		that.mu.Unlock()

		// a mark matching neither member is a client-side anomaly; the room
		// stays active so the session keeps playing
		log.Warn("winner mark matches neither room member", "winner", winnerMark)

		return nil
	}

	room.Winner = winnerMark
	room.Status = entity.StatusFinished
	winnerName := winner.Name

	that.mu.Unlock()

	if _, err := that.scores.Increment(ctx, winnerName); err != nil {
		log.Error("failed to credit win", "player", winnerName, "error", err)
	} else {
		log.Info("credited win", "player", winnerName)
	}

	return nil
}

// Reset - removes the room and frees both participants. Resetting an unknown
// room is a no-op.
func (that *GameManager) Reset(roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[roomID]
	if !ok {
		return
	}

	that.registry.ClearPlaying(room.Cross.ID)
	that.registry.ClearPlaying(room.Circle.ID)

	delete(that.rooms, roomID)

	that.logger.Info("room reset", "roomID", roomID)
}

// RequestAdvisory - one advisory per room. The used flag is claimed under the
// lock before the remote call, so a second request racing the in-flight one
// fails instead of double-spending.
func (that *GameManager) RequestAdvisory(ctx context.Context, playerID string, board entity.Board, roomID string) (int, string, error) {
	that.mu.Lock()

	player := that.registry.Get(playerID)
	if player == nil || roomID == "" {
		that.mu.Unlock()
		return 0, "", apperror.ErrInvalidSession
	}

	room, ok := that.rooms[roomID]
	if !ok {
		that.mu.Unlock()
		return 0, "", apperror.ErrRoomNotFound
	}

	if !room.IsActive() {
		that.mu.Unlock()
		return 0, "", apperror.ErrInvalidSession
	}

	if room.AIUsed {
		that.mu.Unlock()
		return 0, "", apperror.ErrAdvisoryUsed
	}

	room.AIUsed = true

	that.mu.Unlock()

	// the advisory always speaks for the first mover
	cell, source := that.advisor.AdviseMove(ctx, board, entity.PlayerCross)

	return cell, source, nil
}

// Disconnect - tears down the participant and removes their room. Only a
// still-active game hands the opponent a forfeit win; leaving after the game
// finished is a normal exit.
func (that *GameManager) Disconnect(ctx context.Context, playerID string) *ForfeitResult {
	log := that.logger.With("method", "Disconnect", "playerID", playerID)

	that.mu.Lock()

	player := that.registry.Get(playerID)
	if player == nil {
		that.mu.Unlock()
		return nil
	}

	player.Online = false
	player.Playing = false

	var result *ForfeitResult

	if room, ok := that.rooms[player.RoomID]; ok {
		opponent := room.Opponent(playerID)

		delete(that.rooms, room.ID)
		that.registry.ClearPlaying(opponent.ID)

		if room.IsActive() {
			result = &ForfeitResult{
				RoomID:       room.ID,
				OpponentID:   opponent.ID,
				OpponentName: opponent.Name,
			}
		}
	}

	that.registry.Remove(playerID)

	that.mu.Unlock()

	if result == nil {
		return nil
	}

	if _, err := that.scores.Increment(ctx, result.OpponentName); err != nil {
		log.Error("failed to credit forfeit win", "player", result.OpponentName, "error", err)
	} else {
		log.Info("credited forfeit win", "player", result.OpponentName)
	}

	return result
}

// ensureScoreRecord - best effort: a missing record never blocks matchmaking.
func (that *GameManager) ensureScoreRecord(ctx context.Context, name string) {
	if _, err := that.scores.FindOrCreate(ctx, name); err != nil {
		that.logger.Error("failed to ensure score record", "player", name, "error", err)
	}
}
