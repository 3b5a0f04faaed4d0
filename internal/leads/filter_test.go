package leads

import (
	"testing"
)

func sampleLeads() []*Lead {
	return []*Lead{
		{ID: "1", Name: "Jane Doe", Email: "jane@acme.com", Company: "Acme Corp", Status: StatusNew, Service: "web-development"},
		{ID: "2", Name: "Bob Smith", Email: "bob@globex.com", Company: "Globex", Status: StatusQualified, Service: "seo-optimization"},
		{ID: "3", Name: "Ann Lee", Email: "ann@initech.io", Company: "Initech", Status: StatusNew, Service: "web-development"},
	}
}

func ids(in []*Lead) []string {
	out := make([]string, len(in))
	for i, l := range in {
		out[i] = l.ID
	}
	return out
}

func TestFilterMatchAllSentinelPreservesCollection(t *testing.T) {
	in := sampleLeads()
	out := Filter{Search: "", Status: FilterAll, Service: FilterAll}.Apply(in)
	if len(out) != len(in) {
		t.Fatalf("expected %d records, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i].ID != in[i].ID {
			t.Fatalf("expected original order, got %v", ids(out))
		}
	}
}

func TestFilterIdempotent(t *testing.T) {
	f := Filter{Search: "acme", Status: StatusNew}
	once := f.Apply(sampleLeads())
	twice := f.Apply(once)
	if len(once) != len(twice) {
		t.Fatalf("expected idempotent filtering: %v vs %v", ids(once), ids(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Fatalf("expected identical results: %v vs %v", ids(once), ids(twice))
		}
	}
}

func TestFilterSearchCaseInsensitive(t *testing.T) {
	for _, search := range []string{"acme", "ACME", "Acme"} {
		out := Filter{Search: search}.Apply(sampleLeads())
		if len(out) != 1 || out[0].ID != "1" {
			t.Fatalf("search %q: expected lead 1, got %v", search, ids(out))
		}
	}
	if out := (Filter{Search: "zzz-not-present"}).Apply(sampleLeads()); len(out) != 0 {
		t.Fatalf("expected no matches, got %v", ids(out))
	}
}

func TestFilterSearchAnySearchableField(t *testing.T) {
	// Matches email only.
	out := Filter{Search: "globex.com"}.Apply(sampleLeads())
	if len(out) != 1 || out[0].ID != "2" {
		t.Fatalf("expected lead 2 via email match, got %v", ids(out))
	}
	// Matches name only.
	out = Filter{Search: "ann"}.Apply(sampleLeads())
	if len(out) != 1 || out[0].ID != "3" {
		t.Fatalf("expected lead 3 via name match, got %v", ids(out))
	}
}

func TestFilterStatusExactMatchKeepsOrder(t *testing.T) {
	in := []*Lead{
		{ID: "1", Status: StatusNew},
		{ID: "2", Status: StatusQualified},
		{ID: "3", Status: StatusNew},
	}
	out := Filter{Status: StatusNew}.Apply(in)
	if len(out) != 2 || out[0].ID != "1" || out[1].ID != "3" {
		t.Fatalf("expected leads 1 and 3 in order, got %v", ids(out))
	}
}

func TestFilterCriteriaCompose(t *testing.T) {
	out := Filter{Search: "jane", Status: StatusNew, Service: "web-development"}.Apply(sampleLeads())
	if len(out) != 1 || out[0].ID != "1" {
		t.Fatalf("expected AND composition to keep lead 1 only, got %v", ids(out))
	}
	// Same search but wrong status excludes the record.
	out = Filter{Search: "jane", Status: StatusClosed}.Apply(sampleLeads())
	if len(out) != 0 {
		t.Fatalf("expected no matches, got %v", ids(out))
	}
}
