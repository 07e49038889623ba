package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jammyapp/jammy/internal/shared"
)

func newTestNLP(t *testing.T, handler http.HandlerFunc) *NLPService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc := NewNLPService(shared.NLPConfig{
		BaseURL: server.URL,
		Enabled: true,
	}, shared.NewLogger(io.Discard))
	if svc == nil {
		t.Fatal("expected service when enabled")
	}
	return svc
}

func TestNewNLPService(t *testing.T) {
	t.Run("Nil When Disabled", func(t *testing.T) {
		svc := NewNLPService(shared.NLPConfig{Enabled: false}, shared.NewLogger(io.Discard))
		if svc != nil {
			t.Error("expected nil service when disabled")
		}
	})
}

func TestIsPersonEntity(t *testing.T) {
	ctx := context.Background()

	t.Run("Detects Person Label", func(t *testing.T) {
		svc := newTestNLP(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/health":
				w.WriteHeader(http.StatusOK)
			case "/ner":
				json.NewEncoder(w).Encode(nerResponse{
					Entities: []struct {
						Text  string `json:"text"`
						Label string `json:"label"`
					}{{Text: "Gucci Mane", Label: "PER"}},
				})
			}
		})

		person, err := svc.IsPersonEntity(ctx, "Gucci Mane")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !person {
			t.Error("expected person verdict")
		}
	})

	t.Run("Non Person Label", func(t *testing.T) {
		svc := newTestNLP(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/health":
				w.WriteHeader(http.StatusOK)
			case "/ner":
				json.NewEncoder(w).Encode(nerResponse{
					Entities: []struct {
						Text  string `json:"text"`
						Label string `json:"label"`
					}{{Text: "Chicago", Label: "LOC"}},
				})
			}
		})

		person, err := svc.IsPersonEntity(ctx, "Chicago")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if person {
			t.Error("expected non-person verdict")
		}
	})

	t.Run("Memoizes Verdicts", func(t *testing.T) {
		var nerCalls int
		svc := newTestNLP(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/health":
				w.WriteHeader(http.StatusOK)
			case "/ner":
				nerCalls++
				json.NewEncoder(w).Encode(nerResponse{})
			}
		})

		for range 3 {
			if _, err := svc.IsPersonEntity(ctx, "Aphex Twin"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		// Key normalization folds case and whitespace into the same entry.
		if _, err := svc.IsPersonEntity(ctx, "  APHEX   twin "); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if nerCalls != 1 {
			t.Errorf("expected 1 inference call, got %d", nerCalls)
		}
	})

	t.Run("Unavailable Server", func(t *testing.T) {
		svc := NewNLPService(shared.NLPConfig{
			BaseURL: "http://127.0.0.1:1",
			Enabled: true,
		}, shared.NewLogger(io.Discard))

		_, err := svc.IsPersonEntity(ctx, "anything")
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("Probes Health Once", func(t *testing.T) {
		var healthCalls int
		svc := newTestNLP(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/health":
				healthCalls++
				w.WriteHeader(http.StatusOK)
			case "/ner":
				json.NewEncoder(w).Encode(nerResponse{})
			}
		})

		svc.IsPersonEntity(ctx, "one")
		svc.IsPersonEntity(ctx, "two")

		if healthCalls != 1 {
			t.Errorf("expected 1 health probe, got %d", healthCalls)
		}
	})
}

func TestClassifyLabels(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns Scores In Server Order", func(t *testing.T) {
		svc := newTestNLP(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/health":
				w.WriteHeader(http.StatusOK)
			case "/classify":
				var req classifyRequest
				json.NewDecoder(r.Body).Decode(&req)
				if req.Text != "trip hop" {
					t.Errorf("expected candidate text in request, got %q", req.Text)
				}
				json.NewEncoder(w).Encode(classifyResponse{
					Labels: []string{"music genre", "person name", "record label"},
					Scores: []float64{0.81, 0.12, 0.07},
				})
			}
		})

		scores, err := svc.ClassifyLabels(ctx, "trip hop", []string{"music genre", "person name", "record label"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(scores) != 3 {
			t.Fatalf("expected 3 scores, got %d", len(scores))
		}
		if scores[0].Label != "music genre" || scores[0].Score != 0.81 {
			t.Errorf("unexpected top score %+v", scores[0])
		}
	})

	t.Run("Rejects Mismatched Response", func(t *testing.T) {
		svc := newTestNLP(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/health":
				w.WriteHeader(http.StatusOK)
			case "/classify":
				json.NewEncoder(w).Encode(classifyResponse{
					Labels: []string{"music genre"},
					Scores: []float64{0.8, 0.2},
				})
			}
		})

		if _, err := svc.ClassifyLabels(ctx, "x", nil); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Propagates Server Error", func(t *testing.T) {
		svc := newTestNLP(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/health":
				w.WriteHeader(http.StatusOK)
			default:
				w.WriteHeader(http.StatusInternalServerError)
			}
		})

		if _, err := svc.ClassifyLabels(ctx, "x", nil); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}
