package entities

import "time"

// User represents a Telegram player.
type User struct {
	ID        int64 // Telegram user ID
	ChatID    int64
	FirstName string
	Username  string
	CreatedAt time.Time
}

func NewUser(id, chatID int64, firstName, username string) *User {
	return &User{
		ID:        id,
		ChatID:    chatID,
		FirstName: firstName,
		Username:  username,
	}
}

// DisplayName returns the name shown on the leaderboard.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return "Player"
}
