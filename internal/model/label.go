package model

// Label is a task label. A nil ID marks a pending label that only exists
// locally until the task is submitted.
type Label struct {
	ID       *int64 `json:"id"`
	Title    string `json:"title"`
	HexColor string `json:"hex_color"`
}

// NewPendingLabel creates a label that still has to be created remotely
func NewPendingLabel(title, color string) *Label {
	return &Label{Title: title, HexColor: color}
}

// IsPending returns true if the label has no server id yet
func (l *Label) IsPending() bool {
	return l.ID == nil
}

// IDValue returns the server id or 0 for pending labels
func (l *Label) IDValue() int64 {
	if l.ID == nil {
		return 0
	}
	return *l.ID
}

// Int64 returns a pointer to v
func Int64(v int64) *int64 {
	return &v
}
