package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	t.Run("Creates an online participant", func(t *testing.T) {
		registry := NewRegistry()

		player := registry.Register("conn-1")

		require.NotNil(t, player)
		assert.True(t, player.Online)
		assert.False(t, player.Playing)
	})

	t.Run("Is idempotent", func(t *testing.T) {
		registry := NewRegistry()

		first := registry.Register("conn-1")
		first.Name = "alice"

		second := registry.Register("conn-1")

		assert.Same(t, first, second)
		assert.Equal(t, "alice", second.Name)
	})
}

func TestRegistry_FindAvailableOpponent(t *testing.T) {
	t.Run("Returns first free participant in registration order", func(t *testing.T) {
		// Given: three participants registered in order
		registry := NewRegistry()
		registry.Register("a")
		registry.Register("b")
		registry.Register("c")

		// When: c looks for an opponent
		opponent := registry.FindAvailableOpponent("c")

		// Then: a is found first
		require.NotNil(t, opponent)
		assert.Equal(t, "a", opponent.ID)
	})

	t.Run("Skips the requester", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register("a")

		assert.Nil(t, registry.FindAvailableOpponent("a"))
	})

	t.Run("Skips playing and offline participants", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register("a")
		registry.Register("b")
		registry.Register("c")

		registry.MarkPlaying("a", "room-1")
		registry.Get("b").Online = false

		opponent := registry.FindAvailableOpponent("d")

		require.NotNil(t, opponent)
		assert.Equal(t, "c", opponent.ID)
	})

	t.Run("Returns nil when the pool is empty", func(t *testing.T) {
		registry := NewRegistry()

		assert.Nil(t, registry.FindAvailableOpponent("a"))
	})
}

func TestRegistry_Remove(t *testing.T) {
	registry := NewRegistry()
	registry.Register("a")
	registry.Register("b")

	registry.Remove("a")
	registry.Remove("a")

	assert.Nil(t, registry.Get("a"))

	opponent := registry.FindAvailableOpponent("c")
	require.NotNil(t, opponent)
	assert.Equal(t, "b", opponent.ID)
}

func TestRegistry_MarkAndClearPlaying(t *testing.T) {
	registry := NewRegistry()
	registry.Register("a")

	registry.MarkPlaying("a", "room-1")
	player := registry.Get("a")
	assert.True(t, player.Playing)
	assert.Equal(t, "room-1", player.RoomID)

	registry.ClearPlaying("a")
	assert.False(t, player.Playing)
	assert.Empty(t, player.RoomID)

	// unknown ids are ignored
	registry.MarkPlaying("ghost", "room-2")
	registry.ClearPlaying("ghost")
}
