// Package labels holds the label picker state and the create-then-attach
// sequence run when a task is submitted.
package labels

import (
	"strings"

	"github.com/existflow/quickadd/internal/model"
)

// Selection is the label state of one capture form
type Selection struct {
	known    []*model.Label
	selected []*model.Label
	newColor func() string
}

// NewSelection creates a selection over the known labels. newColor picks
// the color of labels typed in by the user.
func NewSelection(known []model.Label, newColor func() string) *Selection {
	s := &Selection{newColor: newColor}
	s.SetKnown(known)
	return s
}

// SetKnown replaces the known labels. The current selection is kept and
// pending labels carry over. A pending label whose title the new list
// already has is swapped for the server label.
func (s *Selection) SetKnown(known []model.Label) {
	old := s.known
	s.known = make([]*model.Label, 0, len(known))
	for i := range known {
		l := known[i]
		s.known = append(s.known, &l)
	}

	for _, p := range old {
		if !p.IsPending() {
			continue
		}
		l := s.byTitle(p.Title)
		if l == nil {
			s.known = append(s.known, p)
			continue
		}
		s.replaceSelected(p, l)
	}
}

func (s *Selection) byTitle(title string) *model.Label {
	for _, l := range s.known {
		if strings.EqualFold(l.Title, title) {
			return l
		}
	}
	return nil
}

// replaceSelected swaps from for to in the selection, dropping it if to is
// already selected
func (s *Selection) replaceSelected(from, to *model.Label) {
	for i, sel := range s.selected {
		if sel != from {
			continue
		}
		if s.isSelected(to) {
			s.Remove(i)
		} else {
			s.selected[i] = to
		}
		return
	}
}

// Known returns all known labels, including pending ones
func (s *Selection) Known() []*model.Label {
	return s.known
}

// Selected returns the selected labels in selection order
func (s *Selection) Selected() []*model.Label {
	return s.selected
}

func (s *Selection) isSelected(l *model.Label) bool {
	for _, sel := range s.selected {
		if sel == l {
			return true
		}
		if !l.IsPending() && !sel.IsPending() && sel.IDValue() == l.IDValue() {
			return true
		}
	}
	return false
}

// Suggest returns known labels whose title contains query (case-insensitive)
// and that are not selected yet
func (s *Selection) Suggest(query string) []*model.Label {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var out []*model.Label
	for _, l := range s.known {
		if strings.Contains(strings.ToLower(l.Title), q) && !s.isSelected(l) {
			out = append(out, l)
		}
	}
	return out
}

// Pick selects the known label whose title equals query ignoring case, or
// adds a new pending label. It returns the label and whether it was created.
func (s *Selection) Pick(query string) (*model.Label, bool) {
	title := strings.TrimSpace(query)
	if title == "" {
		return nil, false
	}

	if l := s.byTitle(title); l != nil {
		if !s.isSelected(l) {
			s.selected = append(s.selected, l)
		}
		return l, false
	}

	color := ""
	if s.newColor != nil {
		color = s.newColor()
	}
	l := model.NewPendingLabel(title, color)
	s.known = append(s.known, l)
	s.selected = append(s.selected, l)
	return l, true
}

// Select adds a known label to the selection
func (s *Selection) Select(l *model.Label) {
	if l != nil && !s.isSelected(l) {
		s.selected = append(s.selected, l)
	}
}

// Remove drops the selected label at index i
func (s *Selection) Remove(i int) {
	if i < 0 || i >= len(s.selected) {
		return
	}
	s.selected = append(s.selected[:i:i], s.selected[i+1:]...)
}

// Clear empties the selection
func (s *Selection) Clear() {
	s.selected = nil
}
