package entities

// Category is a static question category shown to players.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Color    string `json:"color"`
	RemoteID int    `json:"-"` // Open Trivia DB category id, 0 when the remote API has no match
}
