package ranking

// MaxRecents is how many recently used projects are remembered
const MaxRecents = 5

// PushRecent moves id to the front of recents, removing duplicates and
// keeping at most MaxRecents entries. The input is not modified.
func PushRecent(recents []int64, id int64) []int64 {
	out := make([]int64, 0, MaxRecents)
	out = append(out, id)
	for _, r := range recents {
		if len(out) == MaxRecents {
			break
		}
		if r != id {
			out = append(out, r)
		}
	}
	return out
}

// Effective picks the recency list used for ranking. Local usage recents win
// once there is at least one; otherwise the server-derived list is used. The
// two are never merged.
func Effective(local, server []int64) []int64 {
	if len(local) > 0 {
		return local
	}
	return server
}
