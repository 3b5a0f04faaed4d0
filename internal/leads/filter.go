package leads

import "strings"

// FilterAll is the sentinel criterion value that matches unconditionally.
const FilterAll = "all"

// Filter holds the admin listing criteria. Zero values match everything.
type Filter struct {
	// Search is matched case-insensitively as a substring of name, email
	// and company. Empty matches all records.
	Search string
	// Status and Service must equal the record's field exactly, unless
	// set to FilterAll or left empty.
	Status  string
	Service string
}

// Apply narrows the collection to records matching the search predicate AND
// every active exact-match predicate. Output order equals input order.
func (f Filter) Apply(in []*Lead) []*Lead {
	out := make([]*Lead, 0, len(in))
	for _, l := range in {
		if f.matches(l) {
			out = append(out, l)
		}
	}
	return out
}

func (f Filter) matches(l *Lead) bool {
	if !matchesExact(f.Status, l.Status) {
		return false
	}
	if !matchesExact(f.Service, l.Service) {
		return false
	}
	return matchesSearch(f.Search, l.Name, l.Email, l.Company)
}

func matchesExact(criterion, value string) bool {
	if criterion == "" || criterion == FilterAll {
		return true
	}
	return criterion == value
}

func matchesSearch(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
