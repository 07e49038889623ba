package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jammyapp/jammy/internal/models"
	"github.com/jammyapp/jammy/internal/shared"
)

func newTestWikipedia(t *testing.T, handler http.HandlerFunc) (*WikipediaService, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc := NewWikipediaService(shared.WikipediaConfig{
		BaseURL:   server.URL,
		UserAgent: "jammy-test/0.1",
	}, shared.NewLogger(io.Discard))

	return svc, server
}

// opensearchBody builds the 4-element opensearch response array.
func opensearchBody(t *testing.T, query string, titles, descriptions, urls []string) []byte {
	t.Helper()

	body, err := json.Marshal([]any{query, titles, descriptions, urls})
	if err != nil {
		t.Fatalf("failed to marshal opensearch body: %v", err)
	}
	return body
}

// revisionBody builds a revisions query response with the given page content.
func revisionBody(t *testing.T, title, content string) []byte {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"query": map[string]any{
			"pages": map[string]any{
				"42": map[string]any{
					"title": title,
					"revisions": []any{
						map[string]any{
							"slots": map[string]any{
								"main": map[string]any{"*": content},
							},
						},
					},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("failed to marshal revision body: %v", err)
	}
	return body
}

func TestWikipediaSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("Tier Ordering", func(t *testing.T) {
		svc, _ := newTestWikipedia(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write(opensearchBody(t, "Drake",
				[]string{"Drake", "Drake (musician)", "Drake Passage"},
				[]string{"Canadian rapper and singer", "Canadian rapper", "body of water"},
				[]string{"u1", "u2", "u3"},
			))
		})

		candidates := svc.Search(ctx, "Drake")
		if len(candidates) != 2 {
			t.Fatalf("expected 2 candidates, got %d: %+v", len(candidates), candidates)
		}

		if candidates[0].Title != "Drake (musician)" || candidates[0].Tier != models.TierMusician {
			t.Errorf("expected Drake (musician) first in tier A, got %+v", candidates[0])
		}

		if candidates[1].Title != "Drake" || candidates[1].Tier != models.TierKeyword {
			t.Errorf("expected Drake in tier B via description, got %+v", candidates[1])
		}
	})

	t.Run("Fallback Only When No Music Signal", func(t *testing.T) {
		svc, _ := newTestWikipedia(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write(opensearchBody(t, "Mercury",
				[]string{"Mercury", "Mercury (planet)"},
				[]string{"chemical element", "planet"},
				[]string{"u1", "u2"},
			))
		})

		candidates := svc.Search(ctx, "Mercury")
		if len(candidates) != 1 {
			t.Fatalf("expected 1 fallback candidate, got %d", len(candidates))
		}
		if candidates[0].Title != "Mercury" || candidates[0].Tier != models.TierFallback {
			t.Errorf("expected exact-title fallback, got %+v", candidates[0])
		}
	})

	t.Run("Fallback Suppressed By Keyword Match", func(t *testing.T) {
		svc, _ := newTestWikipedia(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write(opensearchBody(t, "Nirvana",
				[]string{"Nirvana", "Nirvana (band)"},
				[]string{"concept in Buddhism", "American rock band"},
				[]string{"u1", "u2"},
			))
		})

		candidates := svc.Search(ctx, "Nirvana")
		if len(candidates) != 1 {
			t.Fatalf("expected 1 candidate, got %d: %+v", len(candidates), candidates)
		}
		if candidates[0].Title != "Nirvana (band)" {
			t.Errorf("expected band candidate, not bare fallback, got %+v", candidates[0])
		}
	})

	t.Run("Truncates To Five", func(t *testing.T) {
		titles := make([]string, 8)
		descriptions := make([]string, 8)
		urls := make([]string, 8)
		for i := range titles {
			titles[i] = fmt.Sprintf("Artist %d", i)
			descriptions[i] = "American singer"
			urls[i] = fmt.Sprintf("u%d", i)
		}

		svc, _ := newTestWikipedia(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write(opensearchBody(t, "Artist", titles, descriptions, urls))
		})

		candidates := svc.Search(ctx, "Artist")
		if len(candidates) != 5 {
			t.Errorf("expected 5 candidates, got %d", len(candidates))
		}
	})

	t.Run("Soft Fails On Server Error", func(t *testing.T) {
		svc, _ := newTestWikipedia(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		if candidates := svc.Search(ctx, "Drake"); len(candidates) != 0 {
			t.Errorf("expected no candidates on server error, got %+v", candidates)
		}
	})

	t.Run("Soft Fails On Malformed Body", func(t *testing.T) {
		svc, _ := newTestWikipedia(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		})

		if candidates := svc.Search(ctx, "Drake"); len(candidates) != 0 {
			t.Errorf("expected no candidates on malformed body, got %+v", candidates)
		}
	})

	t.Run("Sends User Agent", func(t *testing.T) {
		var gotAgent string
		svc, _ := newTestWikipedia(t, func(w http.ResponseWriter, r *http.Request) {
			gotAgent = r.Header.Get("User-Agent")
			w.Write(opensearchBody(t, "x", nil, nil, nil))
		})

		svc.Search(ctx, "x")
		if gotAgent != "jammy-test/0.1" {
			t.Errorf("expected custom user agent, got %q", gotAgent)
		}
	})
}

func TestWikipediaPageContent(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns Revision Content", func(t *testing.T) {
		svc, _ := newTestWikipedia(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write(revisionBody(t, "Beyoncé", "| genre = pop\n}}"))
		})

		content, ok := svc.PageContent(ctx, "Beyoncé")
		if !ok {
			t.Fatal("expected content")
		}
		if content != "| genre = pop\n}}" {
			t.Errorf("unexpected content %q", content)
		}
	})

	t.Run("Follows Redirect Stub", func(t *testing.T) {
		svc, _ := newTestWikipedia(t, func(w http.ResponseWriter, r *http.Request) {
			title := r.URL.Query().Get("titles")
			if title == "Stage Name" {
				w.Write(revisionBody(t, title, "#REDIRECT [[Real Page]]"))
				return
			}
			w.Write(revisionBody(t, title, "| genre = soul\n}}"))
		})

		content, ok := svc.PageContent(ctx, "Stage Name")
		if !ok {
			t.Fatal("expected content after redirect")
		}
		if content != "| genre = soul\n}}" {
			t.Errorf("expected target page content, got %q", content)
		}
	})

	t.Run("Bounds Redirect Loops", func(t *testing.T) {
		var requests int
		svc, _ := newTestWikipedia(t, func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.Write(revisionBody(t, "Loop", "#REDIRECT [[Loop]]"))
		})

		if _, ok := svc.PageContent(ctx, "Loop"); ok {
			t.Error("expected failure on redirect loop")
		}
		if requests > maxRedirectHops+1 {
			t.Errorf("expected at most %d requests, got %d", maxRedirectHops+1, requests)
		}
	})

	t.Run("Retries Truncated Content Via Parse", func(t *testing.T) {
		full := "| genre = {{flatlist|[[Pop music|Pop]]}}\n}}"
		svc, _ := newTestWikipedia(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("action") == "parse" {
				body, _ := json.Marshal(map[string]any{
					"parse": map[string]any{
						"wikitext": map[string]string{"*": full},
					},
				})
				w.Write(body)
				return
			}
			w.Write(revisionBody(t, "Beyoncé", "| genre = {{flatlist|[[Pop music|Pop]]"))
		})

		content, ok := svc.PageContent(ctx, "Beyoncé")
		if !ok {
			t.Fatal("expected content")
		}
		if content != full {
			t.Errorf("expected full parse content, got %q", content)
		}
	})

	t.Run("Empty On Missing Page", func(t *testing.T) {
		svc, _ := newTestWikipedia(t, func(w http.ResponseWriter, r *http.Request) {
			body, _ := json.Marshal(map[string]any{
				"query": map[string]any{
					"pages": map[string]any{
						"-1": map[string]any{"title": "Nope", "missing": ""},
					},
				},
			})
			w.Write(body)
		})

		if _, ok := svc.PageContent(ctx, "Nope"); ok {
			t.Error("expected no content for missing page")
		}
	})
}
