package entity

type Player struct {
	Name string `json:"name"`
	Mark Mark   `json:"mark"`
}

// DefaultPlayers returns the two fixed players of a session, X first.
func DefaultPlayers() [2]Player {
	return [2]Player{
		{Name: "Player X", Mark: MarkX},
		{Name: "Player O", Mark: MarkO},
	}
}
