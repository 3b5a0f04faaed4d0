package blog

// FilterAll is the sentinel category value that matches unconditionally.
const FilterAll = "all"

// FilterByCategory narrows posts to the given category. Empty or "all"
// returns the input unchanged; output order equals input order.
func FilterByCategory(in []*Post, category string) []*Post {
	if category == "" || category == FilterAll {
		return in
	}
	out := make([]*Post, 0, len(in))
	for _, p := range in {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}
