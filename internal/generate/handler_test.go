package generate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDisabledGeneratorReportsPlaceholder(t *testing.T) {
	g, err := NewGenerator(context.Background(), "", "")
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	if g.Enabled() {
		t.Fatal("generator without api key must be disabled")
	}

	h := NewHandler(g, nil)
	rec := httptest.NewRecorder()
	h.GenerateDraft(rec, httptest.NewRequest(http.MethodPost, "/admin/posts/generate", strings.NewReader(`{"topic":"cloud costs"}`)))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if enabled, _ := resp["enabled"].(bool); enabled {
		t.Fatal("response should mark the feature disabled")
	}
	if msg, _ := resp["message"].(string); !strings.Contains(msg, "GENAI_API_KEY") {
		t.Errorf("message should name the missing configuration: %q", msg)
	}
}

func TestGenerateDraftRequiresTopic(t *testing.T) {
	g, err := NewGenerator(context.Background(), "", "")
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	h := NewHandler(g, nil)

	rec := httptest.NewRecorder()
	h.GenerateDraft(rec, httptest.NewRequest(http.MethodPost, "/admin/posts/generate", strings.NewReader(`{"topic":"  "}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDisabledGeneratorDraftError(t *testing.T) {
	g, err := NewGenerator(context.Background(), "", "")
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	if _, err := g.GenerateDraft(context.Background(), "anything"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestNilGeneratorIsDisabled(t *testing.T) {
	var g *Generator
	if g.Enabled() {
		t.Fatal("nil generator must report disabled")
	}
}
