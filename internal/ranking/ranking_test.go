package ranking

import (
	"math/rand"
	"testing"

	"github.com/existflow/quickadd/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []model.Project {
	return []model.Project{
		{ID: 1, Title: "Zeta"},
		{ID: 2, Title: "Alpha"},
		{ID: 3, Title: "Mid"},
	}
}

func ids(projects []model.Project) []int64 {
	out := make([]int64, len(projects))
	for i, p := range projects {
		out[i] = p.ID
	}
	return out
}

func TestRank_Examples(t *testing.T) {
	tests := []struct {
		policy Policy
		want   []int64
	}{
		{Smart, []int64{2, 3, 1}},
		{Alphabetical, []int64{2, 3, 1}},
		{FavoritesAlphabetical, []int64{2, 3, 1}},
		{RecentAlphabetical, []int64{3, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			got := Rank(sample(), tt.policy, []int64{2}, []int64{3})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestRank_DoesNotModifyInput(t *testing.T) {
	in := sample()
	_ = Rank(in, Alphabetical, nil, nil)
	assert.Equal(t, []int64{1, 2, 3}, ids(in))
}

func TestRank_UnknownPolicyIsSmart(t *testing.T) {
	got := Rank(sample(), Policy("random"), []int64{1}, nil)
	assert.Equal(t, []int64{1, 2, 3}, ids(got))
}

func randomProjects(r *rand.Rand, n int) []model.Project {
	titles := []string{"Inbox", "inbox", "Work", "Home", "Ärger", "apple", "Zoo", "Home"}
	out := make([]model.Project, n)
	for i := range out {
		out[i] = model.Project{ID: int64(i + 1), Title: titles[r.Intn(len(titles))]}
	}
	return out
}

func randomIDs(r *rand.Rand, n, max int) []int64 {
	out := make([]int64, 0, n)
	for _, v := range r.Perm(max)[:n] {
		out = append(out, int64(v+1))
	}
	return out
}

func TestRank_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for iter := 0; iter < 200; iter++ {
		projects := randomProjects(r, 12)
		favorites := randomIDs(r, r.Intn(5), 12)
		recents := randomIDs(r, r.Intn(6), 12)

		favSet := map[int64]bool{}
		for _, id := range favorites {
			favSet[id] = true
		}
		recentIdx := map[int64]int{}
		for i, id := range recents {
			recentIdx[id] = i
		}

		for _, policy := range Policies {
			got := Rank(projects, policy, favorites, recents)
			require.ElementsMatch(t, ids(projects), ids(got), "policy %s must permute", policy)
		}

		smart := Rank(projects, Smart, favorites, recents)
		for i := 0; i < len(smart); i++ {
			for j := i + 1; j < len(smart); j++ {
				a, b := smart[i], smart[j]
				// a precedes b, so b cannot be "more important"
				require.False(t, favSet[b.ID] && !favSet[a.ID], "favorite %d after non-favorite %d", b.ID, a.ID)
				if favSet[a.ID] != favSet[b.ID] {
					continue
				}
				ai, aok := recentIdx[a.ID]
				bi, bok := recentIdx[b.ID]
				require.False(t, bok && !aok, "recent %d after non-recent %d", b.ID, a.ID)
				if aok && bok {
					require.Less(t, ai, bi)
				}
			}
		}

		plain := Rank(projects, Alphabetical, nil, nil)
		withSets := Rank(projects, Alphabetical, favorites, recents)
		require.Equal(t, ids(plain), ids(withSets))
	}
}

func TestRank_StableForEqualTitles(t *testing.T) {
	projects := []model.Project{
		{ID: 5, Title: "Same"},
		{ID: 3, Title: "Same"},
		{ID: 4, Title: "Same"},
	}
	got := Rank(projects, Alphabetical, nil, nil)
	assert.Equal(t, []int64{5, 3, 4}, ids(got))
}

func TestPrune(t *testing.T) {
	favorites, recents := Prune(sample(), []int64{2, 99}, []int64{7, 3, 1})
	assert.Equal(t, []int64{2}, favorites)
	assert.Equal(t, []int64{3, 1}, recents)
}

func TestMarker(t *testing.T) {
	assert.Equal(t, FavoriteMarker, Marker(2, []int64{2}, []int64{2}))
	assert.Equal(t, RecentMarker, Marker(3, []int64{2}, []int64{3}))
	assert.Equal(t, "", Marker(1, []int64{2}, []int64{3}))
}

func TestDisplay(t *testing.T) {
	entries := Display(sample(), Options{
		Policy:    Smart,
		Favorites: []int64{2, 42},
		Recents:   []int64{42, 3},
	})

	require.Len(t, entries, 3)
	assert.Equal(t, "★ Alpha", entries[0].Label())
	assert.Equal(t, "↻ Mid", entries[1].Label())
	assert.Equal(t, "Zeta", entries[2].Label())
	assert.True(t, entries[0].Favorite)
	assert.True(t, entries[1].Recent)
}

func TestDisplay_FavoritesOnly(t *testing.T) {
	entries := Display(sample(), Options{
		Policy:        Alphabetical,
		Favorites:     []int64{1, 3},
		FavoritesOnly: true,
	})

	require.Len(t, entries, 2)
	assert.Equal(t, int64(3), entries[0].Project.ID)
	assert.Equal(t, int64(1), entries[1].Project.ID)
}

func TestParsePolicy(t *testing.T) {
	assert.Equal(t, RecentAlphabetical, ParsePolicy("recent-alphabetical"))
	assert.Equal(t, Smart, ParsePolicy(""))
	assert.Equal(t, Smart, ParsePolicy("by-name"))
}

func TestPushRecent(t *testing.T) {
	tests := []struct {
		name    string
		recents []int64
		id      int64
		want    []int64
	}{
		{"empty", nil, 4, []int64{4}},
		{"moves to front", []int64{1, 2, 3}, 3, []int64{3, 1, 2}},
		{"truncates", []int64{1, 2, 3, 4, 5}, 6, []int64{6, 1, 2, 3, 4}},
		{"already first", []int64{6, 1}, 6, []int64{6, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PushRecent(tt.recents, tt.id))
		})
	}
}

func TestEffective(t *testing.T) {
	assert.Equal(t, []int64{1}, Effective([]int64{1}, []int64{2, 3}))
	assert.Equal(t, []int64{2, 3}, Effective(nil, []int64{2, 3}))
}
