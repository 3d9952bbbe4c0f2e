package usecase

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hck84-jenggot-gaming/GP-ToeFastToeSerious/internal/apperror"
	"github.com/hck84-jenggot-gaming/GP-ToeFastToeSerious/internal/entity"
)

type fakeScores struct {
	mu      sync.Mutex
	created []string
	wins    map[string]int
}

func newFakeScores() *fakeScores {
	return &fakeScores{wins: make(map[string]int)}
}

func (that *fakeScores) FindOrCreate(_ context.Context, name string) (*entity.Score, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.created = append(that.created, name)

	return &entity.Score{Username: name, TotalWins: that.wins[name]}, nil
}

func (that *fakeScores) Increment(_ context.Context, name string) (*entity.Score, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.wins[name]++

	return &entity.Score{Username: name, TotalWins: that.wins[name]}, nil
}

func (that *fakeScores) winsOf(name string) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.wins[name]
}

type fakeAdvisor struct {
	cell   int
	source string
}

func (that *fakeAdvisor) AdviseMove(_ context.Context, _ entity.Board, _ string) (int, string) {
	return that.cell, that.source
}

func newTestManager(scores *fakeScores) *GameManager {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	return NewGameManager(logger, scores, &fakeAdvisor{cell: 4, source: "fallback"})
}

// matchPair wires two connected players into one room and returns the match.
func matchPair(t *testing.T, manager *GameManager) *MatchResult {
	t.Helper()

	ctx := context.Background()

	// connect b only after a's request: any online non-playing connection is
	// fair game for matchmaking, named or not
	manager.Connect("conn-a")

	result, err := manager.RequestToPlay(ctx, "conn-a", "alice")
	require.NoError(t, err)
	require.Nil(t, result)

	manager.Connect("conn-b")

	result, err = manager.RequestToPlay(ctx, "conn-b", "bob")
	require.NoError(t, err)
	require.NotNil(t, result)

	return result
}

func intPtr(v int) *int { return &v }

func TestGameManager_RequestToPlay(t *testing.T) {
	ctx := context.Background()

	t.Run("First requester stays in the pool", func(t *testing.T) {
		// Given: a lone connected player
		manager := newTestManager(newFakeScores())
		manager.Connect("conn-a")

		// When: they request to play
		result, err := manager.RequestToPlay(ctx, "conn-a", "alice")

		// Then: no match is formed
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("Second requester is matched, first mover is the waiting player", func(t *testing.T) {
		manager := newTestManager(newFakeScores())

		result := matchPair(t, manager)

		// the player found in the pool plays cross, the requester circle
		assert.Equal(t, "conn-a", result.OpponentID)
		assert.Equal(t, "alice", result.OpponentName)
		assert.Equal(t, "conn-b", result.RequesterID)
		assert.Equal(t, "bob", result.RequesterName)
		assert.NotEmpty(t, result.RoomID)
	})

	t.Run("Creates score records on play request", func(t *testing.T) {
		scores := newFakeScores()
		manager := newTestManager(scores)

		matchPair(t, manager)

		assert.Equal(t, []string{"alice", "bob"}, scores.created)
	})

	t.Run("Unknown connection is rejected", func(t *testing.T) {
		manager := newTestManager(newFakeScores())

		_, err := manager.RequestToPlay(ctx, "ghost", "casper")

		assert.ErrorIs(t, err, apperror.ErrPlayerNotFound)
	})

	t.Run("Concurrent requests form exactly one room for the pair", func(t *testing.T) {
		// Given: two connected players racing their play requests
		manager := newTestManager(newFakeScores())
		manager.Connect("conn-a")
		manager.Connect("conn-b")

		var wg sync.WaitGroup
		results := make([]*MatchResult, 2)

		wg.Add(2)
		go func() {
			defer wg.Done()
			results[0], _ = manager.RequestToPlay(ctx, "conn-a", "alice")
		}()
		go func() {
			defer wg.Done()
			results[1], _ = manager.RequestToPlay(ctx, "conn-b", "bob")
		}()
		wg.Wait()

		// Then: exactly one request produced a match and it contains both
		var matches []*MatchResult
		for _, result := range results {
			if result != nil {
				matches = append(matches, result)
			}
		}

		require.Len(t, matches, 1)
		ids := []string{matches[0].RequesterID, matches[0].OpponentID}
		assert.ElementsMatch(t, []string{"conn-a", "conn-b"}, ids)
		assert.Len(t, manager.rooms, 1)
	})

	t.Run("A playing participant is never double-booked", func(t *testing.T) {
		manager := newTestManager(newFakeScores())
		matchPair(t, manager)

		manager.Connect("conn-c")

		// the matched player asks again while still in their room
		result, err := manager.RequestToPlay(ctx, "conn-a", "alice")

		require.NoError(t, err)
		assert.Nil(t, result)
		assert.Len(t, manager.rooms, 1)
	})
}

func TestGameManager_SubmitMove(t *testing.T) {
	t.Run("Relays a valid first move and flips the turn", func(t *testing.T) {
		// Given: a matched pair, cross to move
		manager := newTestManager(newFakeScores())
		match := matchPair(t, manager)

		// When: cross plays cell 0
		result, err := manager.SubmitMove("conn-a", entity.PlayerCross, intPtr(0))

		// Then: the move lands and circle is on turn
		require.NoError(t, err)
		assert.Equal(t, "conn-b", result.OpponentID)

		room := manager.rooms[match.RoomID]
		assert.Equal(t, entity.PlayerCross, room.Board[0])
		assert.Equal(t, entity.PlayerCircle, room.Turn)
	})

	t.Run("Rejects a move out of turn", func(t *testing.T) {
		manager := newTestManager(newFakeScores())
		matchPair(t, manager)

		_, err := manager.SubmitMove("conn-b", entity.PlayerCircle, intPtr(0))

		assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Rejects a mark the player does not hold", func(t *testing.T) {
		manager := newTestManager(newFakeScores())
		matchPair(t, manager)

		_, err := manager.SubmitMove("conn-a", entity.PlayerCircle, intPtr(0))

		assert.ErrorIs(t, err, apperror.ErrWrongMark)
	})

	t.Run("Rejects an occupied cell", func(t *testing.T) {
		manager := newTestManager(newFakeScores())
		matchPair(t, manager)

		_, err := manager.SubmitMove("conn-a", entity.PlayerCross, intPtr(4))
		require.NoError(t, err)

		_, err = manager.SubmitMove("conn-b", entity.PlayerCircle, intPtr(4))

		assert.ErrorIs(t, err, entity.ErrCellOccupied)
	})

	t.Run("Rejects a player without a room", func(t *testing.T) {
		manager := newTestManager(newFakeScores())
		manager.Connect("conn-a")

		_, err := manager.SubmitMove("conn-a", entity.PlayerCross, intPtr(0))

		assert.ErrorIs(t, err, apperror.ErrNotInRoom)
	})
}

func TestGameManager_GameEnded(t *testing.T) {
	ctx := context.Background()

	t.Run("Credits exactly the winner", func(t *testing.T) {
		// Given: a matched pair where alice plays cross
		scores := newFakeScores()
		manager := newTestManager(scores)
		match := matchPair(t, manager)

		// When: the game ends with a cross win
		err := manager.GameEnded(ctx, "conn-a", entity.PlayerCross, match.RoomID)

		// Then: alice gains one win, bob none
		require.NoError(t, err)
		assert.Equal(t, 1, scores.winsOf("alice"))
		assert.Equal(t, 0, scores.winsOf("bob"))

		room := manager.rooms[match.RoomID]
		assert.Equal(t, entity.StatusFinished, room.Status)
		assert.Equal(t, entity.PlayerCross, room.Winner)
	})

	t.Run("Unknown room is reported", func(t *testing.T) {
		manager := newTestManager(newFakeScores())

		err := manager.GameEnded(ctx, "conn-a", entity.PlayerCross, "missing")

		assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})

	t.Run("Unresolvable winner mark credits nobody and the game goes on", func(t *testing.T) {
		scores := newFakeScores()
		manager := newTestManager(scores)
		match := matchPair(t, manager)

		err := manager.GameEnded(ctx, "conn-a", "triangle", match.RoomID)

		require.NoError(t, err)
		assert.Equal(t, 0, scores.winsOf("alice"))
		assert.Equal(t, 0, scores.winsOf("bob"))

		// the room stays active, so moves keep flowing
		room := manager.rooms[match.RoomID]
		require.NotNil(t, room)
		assert.Equal(t, entity.StatusActive, room.Status)

		result, err := manager.SubmitMove("conn-a", entity.PlayerCross, intPtr(0))
		require.NoError(t, err)
		assert.Equal(t, "conn-b", result.OpponentID)
	})

	t.Run("A finished room cannot end twice", func(t *testing.T) {
		scores := newFakeScores()
		manager := newTestManager(scores)
		match := matchPair(t, manager)

		require.NoError(t, manager.GameEnded(ctx, "conn-a", entity.PlayerCross, match.RoomID))

		err := manager.GameEnded(ctx, "conn-a", entity.PlayerCross, match.RoomID)

		assert.ErrorIs(t, err, apperror.ErrRoomNotActive)
		assert.Equal(t, 1, scores.winsOf("alice"))
	})
}

func TestGameManager_Reset(t *testing.T) {
	t.Run("Frees both participants and removes the room", func(t *testing.T) {
		manager := newTestManager(newFakeScores())
		match := matchPair(t, manager)

		manager.Reset(match.RoomID)

		assert.Empty(t, manager.rooms)
		assert.False(t, manager.registry.Get("conn-a").Playing)
		assert.False(t, manager.registry.Get("conn-b").Playing)

		// both are matchable again
		result, err := manager.RequestToPlay(context.Background(), "conn-b", "bob")
		require.NoError(t, err)
		assert.NotNil(t, result)
	})

	t.Run("Resetting an unknown room is a no-op", func(t *testing.T) {
		manager := newTestManager(newFakeScores())

		manager.Reset("missing")
	})
}

func TestGameManager_RequestAdvisory(t *testing.T) {
	ctx := context.Background()

	t.Run("First request succeeds and claims the single use", func(t *testing.T) {
		// Given: a matched pair
		manager := newTestManager(newFakeScores())
		match := matchPair(t, manager)

		// When: circle asks for advice
		cell, source, err := manager.RequestAdvisory(ctx, "conn-b", entity.Board{}, match.RoomID)

		// Then: the advisor answer comes back and the room is marked used
		require.NoError(t, err)
		assert.Equal(t, 4, cell)
		assert.Equal(t, "fallback", source)
		assert.True(t, manager.rooms[match.RoomID].AIUsed)
	})

	t.Run("Second request in the same room is rejected", func(t *testing.T) {
		manager := newTestManager(newFakeScores())
		match := matchPair(t, manager)

		_, _, err := manager.RequestAdvisory(ctx, "conn-b", entity.Board{}, match.RoomID)
		require.NoError(t, err)

		_, _, err = manager.RequestAdvisory(ctx, "conn-a", entity.Board{}, match.RoomID)

		assert.ErrorIs(t, err, apperror.ErrAdvisoryUsed)
	})

	t.Run("Unknown room is rejected", func(t *testing.T) {
		manager := newTestManager(newFakeScores())
		manager.Connect("conn-a")

		_, _, err := manager.RequestAdvisory(ctx, "conn-a", entity.Board{}, "missing")

		assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})

	t.Run("Missing participant or room id is an invalid session", func(t *testing.T) {
		manager := newTestManager(newFakeScores())

		_, _, err := manager.RequestAdvisory(ctx, "ghost", entity.Board{}, "room")
		assert.ErrorIs(t, err, apperror.ErrInvalidSession)

		manager.Connect("conn-a")
		_, _, err = manager.RequestAdvisory(ctx, "conn-a", entity.Board{}, "")
		assert.ErrorIs(t, err, apperror.ErrInvalidSession)
	})
}

func TestGameManager_Disconnect(t *testing.T) {
	ctx := context.Background()

	t.Run("Mid-game disconnect forfeits to the opponent", func(t *testing.T) {
		// Given: a matched pair
		scores := newFakeScores()
		manager := newTestManager(scores)
		match := matchPair(t, manager)

		// When: alice disconnects
		result := manager.Disconnect(ctx, "conn-a")

		// Then: bob is credited and the room is gone
		require.NotNil(t, result)
		assert.Equal(t, "conn-b", result.OpponentID)
		assert.Equal(t, "bob", result.OpponentName)
		assert.Equal(t, 1, scores.winsOf("bob"))
		assert.Empty(t, manager.rooms)

		// alice is gone from the registry
		assert.Nil(t, manager.registry.Get("conn-a"))

		// a later reset of the dead room is a no-op
		manager.Reset(match.RoomID)

		// bob is matchable again
		manager.Connect("conn-c")
		match2, err := manager.RequestToPlay(ctx, "conn-c", "carol")
		require.NoError(t, err)
		require.NotNil(t, match2)
		assert.Equal(t, "conn-b", match2.OpponentID)
	})

	t.Run("Leaving a finished game is not a forfeit", func(t *testing.T) {
		// Given: a game alice already won
		scores := newFakeScores()
		manager := newTestManager(scores)
		match := matchPair(t, manager)
		require.NoError(t, manager.GameEnded(ctx, "conn-a", entity.PlayerCross, match.RoomID))
		require.Equal(t, 1, scores.winsOf("alice"))

		// When: the winner disconnects before a reset
		result := manager.Disconnect(ctx, "conn-a")

		// Then: the loser gains nothing, the room is still torn down
		assert.Nil(t, result)
		assert.Equal(t, 0, scores.winsOf("bob"))
		assert.Empty(t, manager.rooms)
		assert.Nil(t, manager.registry.Get("conn-a"))
		assert.False(t, manager.registry.Get("conn-b").Playing)
	})

	t.Run("Idle disconnect credits nobody", func(t *testing.T) {
		scores := newFakeScores()
		manager := newTestManager(scores)
		manager.Connect("conn-a")

		result := manager.Disconnect(ctx, "conn-a")

		assert.Nil(t, result)
		assert.Empty(t, scores.wins)
	})

	t.Run("Unknown connection is ignored", func(t *testing.T) {
		manager := newTestManager(newFakeScores())

		assert.Nil(t, manager.Disconnect(ctx, "ghost"))
	})
}
