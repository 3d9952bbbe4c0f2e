package entity

// Player is one connected participant. The registry owns the record for the
// lifetime of the connection; rooms hold references only.
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Online  bool   `json:"online"`
	Playing bool   `json:"playing"`
	RoomID  string `json:"room_id,omitempty"`
}
