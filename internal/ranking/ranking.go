// Package ranking orders projects for display. Every surface that shows a
// project list goes through Display so they all agree on the order.
package ranking

import (
	"slices"

	"github.com/existflow/quickadd/internal/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Policy selects how projects are ordered
type Policy string

const (
	Alphabetical          Policy = "alphabetical"
	FavoritesAlphabetical Policy = "favorites-alphabetical"
	RecentAlphabetical    Policy = "recent-alphabetical"
	Smart                 Policy = "smart"
)

// Display markers
const (
	FavoriteMarker = "★ "
	RecentMarker   = "↻ "
)

// Policies lists all policies, default first
var Policies = []Policy{Smart, Alphabetical, FavoritesAlphabetical, RecentAlphabetical}

// ParsePolicy returns the named policy, or Smart for anything unknown
func ParsePolicy(s string) Policy {
	switch p := Policy(s); p {
	case Alphabetical, FavoritesAlphabetical, RecentAlphabetical, Smart:
		return p
	default:
		return Smart
	}
}

func (p Policy) usesFavorites() bool {
	return p == FavoritesAlphabetical || p == Smart
}

func (p Policy) usesRecency() bool {
	return p == RecentAlphabetical || p == Smart
}

// Rank returns a stably sorted copy of projects. Ties fall through
// favorite membership, then recency index, then locale-aware title order,
// depending on the policy.
func Rank(projects []model.Project, policy Policy, favorites, recents []int64) []model.Project {
	policy = ParsePolicy(string(policy))

	favSet := make(map[int64]bool, len(favorites))
	for _, id := range favorites {
		favSet[id] = true
	}
	recentIdx := make(map[int64]int, len(recents))
	for i, id := range recents {
		if _, dup := recentIdx[id]; !dup {
			recentIdx[id] = i
		}
	}

	// Collators keep internal buffers, one per call
	coll := collate.New(language.Und)

	out := slices.Clone(projects)
	slices.SortStableFunc(out, func(a, b model.Project) int {
		if policy.usesFavorites() {
			af, bf := favSet[a.ID], favSet[b.ID]
			if af != bf {
				if af {
					return -1
				}
				return 1
			}
		}

		if policy.usesRecency() {
			ai, aok := recentIdx[a.ID]
			bi, bok := recentIdx[b.ID]
			switch {
			case aok && bok && ai != bi:
				return ai - bi
			case aok && !bok:
				return -1
			case !aok && bok:
				return 1
			}
		}

		return coll.CompareString(a.Title, b.Title)
	})
	return out
}

// Prune drops favorite and recent ids that are not in projects. Recency
// order is preserved.
func Prune(projects []model.Project, favorites, recents []int64) (validFavorites, validRecents []int64) {
	known := make(map[int64]bool, len(projects))
	for _, p := range projects {
		known[p.ID] = true
	}
	keep := func(ids []int64) []int64 {
		out := make([]int64, 0, len(ids))
		for _, id := range ids {
			if known[id] {
				out = append(out, id)
			}
		}
		return out
	}
	return keep(favorites), keep(recents)
}

// Marker returns the display prefix for a project. Favorite wins over recent.
func Marker(id int64, favorites, recents []int64) string {
	switch {
	case slices.Contains(favorites, id):
		return FavoriteMarker
	case slices.Contains(recents, id):
		return RecentMarker
	default:
		return ""
	}
}

// Options controls Display
type Options struct {
	Policy        Policy
	Favorites     []int64
	Recents       []int64 // most recent first
	FavoritesOnly bool
}

// Entry is a ranked project ready to render
type Entry struct {
	Project  model.Project
	Marker   string
	Favorite bool
	Recent   bool
}

// Label returns the marker followed by the title
func (e Entry) Label() string {
	return e.Marker + e.Project.Title
}

// Display prunes stale ids, optionally keeps only favorites, ranks and marks
// the projects.
func Display(projects []model.Project, opts Options) []Entry {
	favorites, recents := Prune(projects, opts.Favorites, opts.Recents)

	visible := projects
	if opts.FavoritesOnly {
		visible = make([]model.Project, 0, len(favorites))
		for _, p := range projects {
			if slices.Contains(favorites, p.ID) {
				visible = append(visible, p)
			}
		}
	}

	ranked := Rank(visible, opts.Policy, favorites, recents)
	entries := make([]Entry, len(ranked))
	for i, p := range ranked {
		entries[i] = Entry{
			Project:  p,
			Marker:   Marker(p.ID, favorites, recents),
			Favorite: slices.Contains(favorites, p.ID),
			Recent:   slices.Contains(recents, p.ID),
		}
	}
	return entries
}
