package entity

const (
	StatusActive   = "active"
	StatusFinished = "finished"
)

// Room is one matched pair. Cross is the player found first in the pool and
// always moves first; Circle is the player whose play request closed the match.
type Room struct {
	ID     string  `json:"id"`
	Cross  *Player `json:"cross"`
	Circle *Player `json:"circle"`
	Turn   string  `json:"turn"`
	Board  Board   `json:"board"`
	Winner string  `json:"winner,omitempty"`
	Status string  `json:"status"`
	AIUsed bool    `json:"ai_used"`
}

func NewRoom(id string, cross, circle *Player) *Room {
	return &Room{
		ID:     id,
		Cross:  cross,
		Circle: circle,
		Turn:   PlayerCross,
		Status: StatusActive,
	}
}

func (that *Room) IsActive() bool {
	return that.Status == StatusActive
}

// MarkOf - returns the mark assigned to the player, or EmptyCell for strangers.
func (that *Room) MarkOf(playerID string) string {
	switch playerID {
	case that.Cross.ID:
		return PlayerCross
	case that.Circle.ID:
		return PlayerCircle
	default:
		return EmptyCell
	}
}

// PlayerByMark - resolves a mark back to the room member holding it.
func (that *Room) PlayerByMark(mark string) *Player {
	switch mark {
	case PlayerCross:
		return that.Cross
	case PlayerCircle:
		return that.Circle
	default:
		return nil
	}
}

// Opponent - returns the other member of the room, nil for strangers.
func (that *Room) Opponent(playerID string) *Player {
	switch playerID {
	case that.Cross.ID:
		return that.Circle
	case that.Circle.ID:
		return that.Cross
	default:
		return nil
	}
}

func (that *Room) HasPlayer(playerID string) bool {
	return that.Cross.ID == playerID || that.Circle.ID == playerID
}
