package entity

// Score is one persisted win counter, keyed by display name.
type Score struct {
	Username  string `json:"username"`
	TotalWins int    `json:"totalWins"`
}
