package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const testToken = "eyJtest-token"

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{BaseURL: "https://project.example.co", Token: testToken}, false},
		{"missing url", Config{Token: testToken}, true},
		{"missing token", Config{BaseURL: "https://project.example.co"}, true},
		{"insecure scheme", Config{BaseURL: "http://project.example.co", Token: testToken}, true},
		{"placeholder url", Config{BaseURL: "https://your-project-id.example.co", Token: testToken}, true},
		{"bad token prefix", Config{BaseURL: "https://project.example.co", Token: "sk-12345"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrNotConfigured) {
					t.Fatalf("expected ErrNotConfigured, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
		})
	}
}

func TestPlaceholderNeverReachesNetwork(t *testing.T) {
	// A well-formed token must not rescue a placeholder URL.
	cfg := Config{BaseURL: "https://your-project-id.example.co", Token: testToken}
	if _, err := NewClient(cfg); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

type row struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	// Validation requires https, so build the client around it.
	c, err := NewClient(Config{BaseURL: "https://project.example.co", Token: testToken})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	c.cfg.BaseURL = srv.URL
	c.httpClient = srv.Client()
	return c
}

func TestListOrdersDescending(t *testing.T) {
	var gotOrder string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotOrder = r.URL.Query().Get("order")
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			t.Errorf("missing bearer token")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"2","name":"b"},{"id":"1","name":"a"}]`))
	})

	var rows []row
	if err := c.List(context.Background(), "leads", "created_at", &rows); err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotOrder != "created_at.desc" {
		t.Fatalf("expected descending order param, got %q", gotOrder)
	}
	if len(rows) != 2 || rows[0].ID != "2" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestListSchemaMissing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"42P01","message":"relation \"public.leads\" does not exist"}`))
	})

	var rows []row
	err := c.List(context.Background(), "leads", "created_at", &rows)
	if !errors.Is(err, ErrSchemaMissing) {
		t.Fatalf("expected ErrSchemaMissing, got %v", err)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if !strings.Contains(apiErr.Remediation(), "schema setup") {
		t.Fatalf("expected schema remediation, got %q", apiErr.Remediation())
	}
}

func TestListGenericFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"permission denied"}`))
	})

	var rows []row
	err := c.List(context.Background(), "leads", "created_at", &rows)
	if err == nil || errors.Is(err, ErrSchemaMissing) {
		t.Fatalf("expected generic backend error, got %v", err)
	}
}

func TestGetByKey(t *testing.T) {
	t.Run("single match", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("slug"); got != "eq.intro" {
				t.Errorf("expected slug filter, got %q", got)
			}
			w.Write([]byte(`[{"id":"1","slug":"intro"}]`))
		})
		var out row
		if err := c.GetByKey(context.Background(), "blog_posts", "slug", "intro", &out); err != nil {
			t.Fatalf("get by key: %v", err)
		}
		if out.Slug != "intro" {
			t.Fatalf("unexpected record: %+v", out)
		}
	})

	t.Run("no match", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		})
		var out row
		err := c.GetByKey(context.Background(), "blog_posts", "slug", "nope", &out)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ambiguous", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"id":"1","slug":"dup"},{"id":"2","slug":"dup"}]`))
		})
		var out row
		err := c.GetByKey(context.Background(), "blog_posts", "slug", "dup", &out)
		if !errors.Is(err, ErrAmbiguous) {
			t.Fatalf("expected ErrAmbiguous, got %v", err)
		}
	})
}

func TestInsertReturnsServerFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Prefer") != "return=representation" {
			t.Errorf("expected representation preference")
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":"srv-1","name":"Jane"}]`))
	})

	var out row
	if err := c.Insert(context.Background(), "leads", map[string]string{"name": "Jane"}, &out); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if out.ID != "srv-1" {
		t.Fatalf("expected server-assigned id, got %+v", out)
	}
}

func TestUpdateMissingID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("expected PATCH, got %s", r.Method)
		}
		w.Write([]byte(`[]`))
	})

	var out row
	err := c.Update(context.Background(), "leads", "ghost", map[string]string{"name": "x"}, &out)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	t.Run("existing", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				t.Errorf("expected DELETE, got %s", r.Method)
			}
			w.Write([]byte(`[{"id":"1"}]`))
		})
		if err := c.Delete(context.Background(), "leads", "1"); err != nil {
			t.Fatalf("delete: %v", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		})
		if err := c.Delete(context.Background(), "leads", "ghost"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
