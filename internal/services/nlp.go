// NLP inference server client backing the validator's ambiguous-candidate path.
//
// The server is any HTTP service exposing zero-shot classification and named
// entity recognition; the documented thresholds live in the validator, so the
// backing model is substitutable.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jammyapp/jammy/internal/genres"
	"github.com/jammyapp/jammy/internal/shared"
	gocache "github.com/patrickmn/go-cache"
)

const defaultNLPURL = "http://localhost:8090"

// NLPService implements [genres.Classifier] against a local inference server.
//
// The server is probed lazily on first use and the result held for the life
// of the process; classification verdicts are memoized per candidate so model
// inference runs at most once for a given string.
type NLPService struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger

	probeOnce sync.Once
	available bool

	verdicts *gocache.Cache
}

// NewNLPService creates an NLPService from configuration. Returns nil when
// the NLP stage is disabled, which the validator treats as fail-open.
func NewNLPService(cfg shared.NLPConfig, logger *log.Logger) *NLPService {
	if !cfg.Enabled {
		return nil
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultNLPURL
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &NLPService{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		verdicts:   gocache.New(gocache.NoExpiration, 0),
	}
}

// ensureAvailable probes the inference server health endpoint once per process.
func (n *NLPService) ensureAvailable(ctx context.Context) bool {
	n.probeOnce.Do(func() {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/health", nil)
		if err != nil {
			return
		}
		resp, err := n.httpClient.Do(req)
		if err != nil {
			n.logger.Warn("nlp inference server unreachable, validator will fail open", "error", err)
			return
		}
		defer resp.Body.Close()
		n.available = resp.StatusCode >= 200 && resp.StatusCode < 300
		if !n.available {
			n.logger.Warn("nlp inference server unhealthy", "status", resp.StatusCode)
		}
	})
	return n.available
}

type nerRequest struct {
	Text string `json:"text"`
}

type nerResponse struct {
	Entities []struct {
		Text  string `json:"text"`
		Label string `json:"label"`
	} `json:"entities"`
}

// IsPersonEntity reports whether the text is recognized as a person name.
func (n *NLPService) IsPersonEntity(ctx context.Context, text string) (bool, error) {
	if !n.ensureAvailable(ctx) {
		return false, fmt.Errorf("%w: nlp inference server", shared.ErrServiceUnavailable)
	}

	cacheKey := "person:" + shared.NormalizeKey(text)
	if cached, found := n.verdicts.Get(cacheKey); found {
		return cached.(bool), nil
	}

	var resp nerResponse
	if err := n.post(ctx, "/ner", nerRequest{Text: text}, &resp); err != nil {
		return false, err
	}

	person := false
	for _, entity := range resp.Entities {
		if strings.EqualFold(entity.Label, "PER") || strings.EqualFold(entity.Label, "PERSON") {
			person = true
			break
		}
	}

	n.verdicts.Set(cacheKey, person, gocache.NoExpiration)
	return person, nil
}

type classifyRequest struct {
	Text   string   `json:"text"`
	Labels []string `json:"candidate_labels"`
}

type classifyResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// ClassifyLabels runs zero-shot classification of the text against the given
// label set and returns per-label scores in server order (highest first).
func (n *NLPService) ClassifyLabels(ctx context.Context, text string, labels []string) ([]genres.LabelScore, error) {
	if !n.ensureAvailable(ctx) {
		return nil, fmt.Errorf("%w: nlp inference server", shared.ErrServiceUnavailable)
	}

	cacheKey := "labels:" + shared.NormalizeKey(text)
	if cached, found := n.verdicts.Get(cacheKey); found {
		return cached.([]genres.LabelScore), nil
	}

	var resp classifyResponse
	if err := n.post(ctx, "/classify", classifyRequest{Text: text, Labels: labels}, &resp); err != nil {
		return nil, err
	}

	if len(resp.Labels) != len(resp.Scores) {
		return nil, fmt.Errorf("%w: mismatched labels and scores", shared.ErrAPIRequest)
	}

	scores := make([]genres.LabelScore, 0, len(resp.Labels))
	for i, label := range resp.Labels {
		scores = append(scores, genres.LabelScore{Label: label, Score: resp.Scores[i]})
	}

	n.verdicts.Set(cacheKey, scores, gocache.NoExpiration)
	return scores, nil
}

// post sends a JSON request to the inference server and decodes the response.
func (n *NLPService) post(ctx context.Context, path string, body, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
