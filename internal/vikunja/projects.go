package vikunja

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/existflow/quickadd/internal/logger"
	"github.com/existflow/quickadd/internal/model"
	"github.com/existflow/quickadd/internal/ranking"
)

// MaxServerRecents is how many view-derived recents are kept
const MaxServerRecents = 5

// ProjectList is the normalized project listing
type ProjectList struct {
	Projects  []model.Project `json:"projects"`
	Favorites []int64         `json:"favorites"`
	Recents   []int64         `json:"recents"`
}

// Has reports whether id is one of the listed projects
func (l *ProjectList) Has(id int64) bool {
	for _, p := range l.Projects {
		if p.ID == id {
			return true
		}
	}
	return false
}

// projectListing is the listing response: either a bare array of projects or
// an object that already carries favorites and recents.
type projectListing struct {
	bare    []model.Project
	wrapped *wrappedListing
}

type wrappedListing struct {
	Projects       []model.Project `json:"projects"`
	Favorites      []int64         `json:"favorites"`
	Recents        []int64         `json:"recents"`
	RecentProjects []int64         `json:"recentProjects"`
}

func (l *projectListing) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty project listing", ErrMalformedResponse)
	}

	switch trimmed[0] {
	case '[':
		var projects []model.Project
		if err := json.Unmarshal(trimmed, &projects); err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
		l.bare = projects
		return nil

	case '{':
		var w wrappedListing
		if err := json.Unmarshal(trimmed, &w); err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
		if w.Projects == nil {
			return fmt.Errorf("%w: object without projects", ErrMalformedResponse)
		}
		l.wrapped = &w
		return nil

	default:
		return fmt.Errorf("%w: unexpected project listing", ErrMalformedResponse)
	}
}

// resolve turns either shape into a ProjectList. Pseudo-projects are dropped
// and favorites/recents only reference listed projects.
func (l projectListing) resolve() *ProjectList {
	var raw []model.Project
	var favorites, recents []int64

	if l.wrapped != nil {
		raw = l.wrapped.Projects
		favorites = l.wrapped.Favorites
		recents = l.wrapped.Recents
		if recents == nil {
			recents = l.wrapped.RecentProjects
		}
	} else {
		raw = l.bare
	}

	projects := make([]model.Project, 0, len(raw))
	for _, p := range raw {
		if !p.IsPseudo() {
			projects = append(projects, p)
		}
	}

	if favorites == nil {
		favorites = deriveFavorites(projects)
	}
	if recents == nil {
		recents = deriveRecents(projects)
	}
	favorites, recents = ranking.Prune(projects, favorites, recents)

	return &ProjectList{
		Projects:  projects,
		Favorites: favorites,
		Recents:   recents,
	}
}

func deriveFavorites(projects []model.Project) []int64 {
	favorites := make([]int64, 0)
	for _, p := range projects {
		if p.IsFavorite {
			favorites = append(favorites, p.ID)
		}
	}
	return favorites
}

// deriveRecents orders projects by their latest view time, newest first.
// Projects without a parseable view time are left out.
func deriveRecents(projects []model.Project) []int64 {
	type viewed struct {
		id int64
		at time.Time
	}

	var candidates []viewed
	for _, p := range projects {
		var latest time.Time
		for _, v := range p.Views {
			t, err := time.Parse(time.RFC3339, v.Timestamp())
			if err != nil {
				continue
			}
			if t.After(latest) {
				latest = t
			}
		}
		if !latest.IsZero() {
			candidates = append(candidates, viewed{id: p.ID, at: latest})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].at.After(candidates[j].at)
	})
	if len(candidates) > MaxServerRecents {
		candidates = candidates[:MaxServerRecents]
	}

	recents := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		recents = append(recents, c.id)
	}
	return recents
}

// ListProjects fetches all real projects with their favorites and
// view-derived recents. The metadata is persisted through the state writer
// when one is configured; persistence failures are only logged.
func (c *Client) ListProjects(ctx context.Context) (*ProjectList, error) {
	var listing projectListing
	if err := c.do(ctx, "list projects", http.MethodGet, "/api/v1/projects", nil, &listing); err != nil {
		return nil, err
	}

	list := listing.resolve()
	logger.Debug("Loaded projects",
		logger.F("projects", len(list.Projects)),
		logger.F("favorites", len(list.Favorites)),
		logger.F("recents", len(list.Recents)))

	if c.state != nil {
		if err := c.state.SaveProjectMetadata(ctx, list.Favorites, list.Recents); err != nil {
			logger.Warn("Failed to store project metadata", logger.Err(err))
		}
	}

	return list, nil
}
