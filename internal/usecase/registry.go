package usecase

import "github.com/hck84-jenggot-gaming/GP-ToeFastToeSerious/internal/entity"

// Registry holds every connected participant keyed by connection id. It is not
// safe for concurrent use on its own: the GameManager serializes all access
// behind its mutex.
type Registry struct {
	players map[string]*entity.Player
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{
		players: make(map[string]*entity.Player),
	}
}

// Register - creates a fresh online participant; repeated calls are no-ops.
func (that *Registry) Register(id string) *entity.Player {
	if player, ok := that.players[id]; ok {
		return player
	}

	player := &entity.Player{
		ID:     id,
		Online: true,
	}

	that.players[id] = player
	that.order = append(that.order, id)

	return player
}

func (that *Registry) Get(id string) *entity.Player {
	return that.players[id]
}

func (that *Registry) SetName(id, name string) {
	if player, ok := that.players[id]; ok {
		player.Name = name
	}
}

func (that *Registry) MarkPlaying(id, roomID string) {
	if player, ok := that.players[id]; ok {
		player.Playing = true
		player.RoomID = roomID
	}
}

func (that *Registry) ClearPlaying(id string) {
	if player, ok := that.players[id]; ok {
		player.Playing = false
		player.RoomID = ""
	}
}

// Remove - drops the participant entirely; called once on disconnect.
func (that *Registry) Remove(id string) {
	if _, ok := that.players[id]; !ok {
		return
	}

	delete(that.players, id)

	for i, existing := range that.order {
		if existing == id {
			that.order = append(that.order[:i], that.order[i+1:]...)
			break
		}
	}
}

// FindAvailableOpponent - returns the first online, non-playing participant in
// registration order, skipping the requester.
func (that *Registry) FindAvailableOpponent(excludeID string) *entity.Player {
	for _, id := range that.order {
		if id == excludeID {
			continue
		}

		player := that.players[id]
		if player.Online && !player.Playing {
			return player
		}
	}

	return nil
}
