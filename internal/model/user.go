package model

import "time"

// User is the profile of the token owner
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
}

// DisplayName returns the username, falling back to the full name
func (u *User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Name
}

// Capture sources
const (
	SourceSelection = "selection"
	SourceLink      = "link"
)

// Capture is a pending capture handed from the context menu to the popup
type Capture struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
}
