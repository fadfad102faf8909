package model

// Project is a task container on the remote service
type Project struct {
	ID         int64         `json:"id"`
	Title      string        `json:"title"`
	IsFavorite bool          `json:"is_favorite,omitempty"`
	Views      []ProjectView `json:"views,omitempty"`
}

// ProjectView is a view record attached to a project by the service.
// Only the timestamps matter here; the first non-empty one wins.
type ProjectView struct {
	ID       int64  `json:"id,omitempty"`
	Created  string `json:"created,omitempty"`
	Updated  string `json:"updated,omitempty"`
	ViewedAt string `json:"viewed_at,omitempty"`
}

// Timestamp returns the raw view time
func (v ProjectView) Timestamp() string {
	switch {
	case v.Created != "":
		return v.Created
	case v.Updated != "":
		return v.Updated
	default:
		return v.ViewedAt
	}
}

// IsPseudo reports whether the project is a synthetic grouping such as Favorites
func (p Project) IsPseudo() bool {
	return p.ID <= 0
}
