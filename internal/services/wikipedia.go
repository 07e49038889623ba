// Wikipedia API implementation of the page resolver.
//
// Endpoints based on https://www.mediawiki.org/wiki/API:Opensearch and
// https://www.mediawiki.org/wiki/API:Revisions
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jammyapp/jammy/internal/models"
	"github.com/jammyapp/jammy/internal/shared"
	"github.com/jammyapp/jammy/internal/wikitext"
)

const (
	defaultWikipediaURL = "https://en.wikipedia.org/w/api.php"
	searchLimit         = 10
	maxCandidates       = 5
	maxRedirectHops     = 3
)

// musicSuffixes are the disambiguation suffixes that mark a page title as a
// musician article, e.g. "Drake (musician)".
var musicSuffixes = []string{"(musician)", "(singer)", "(rapper)", "(band)"}

// roleKeywords signal music relevance when found in a title or description.
var roleKeywords = []string{"singer", "musician", "band", "artist", "rapper"}

// WikipediaService resolves artist names to encyclopedia pages and fetches
// their markup. All methods degrade to empty results on upstream failure.
type WikipediaService struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *log.Logger
}

// NewWikipediaService creates a WikipediaService from configuration.
func NewWikipediaService(cfg shared.WikipediaConfig, logger *log.Logger) *WikipediaService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultWikipediaURL
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 12 * time.Second
	}

	return &WikipediaService{
		baseURL:    baseURL,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (w *WikipediaService) Name() string {
	return "Wikipedia"
}

// Search queries the opensearch endpoint and classifies results into
// music-relevance tiers. Tier ordering is stable: disambiguated musician
// titles first, then keyword matches, then (only when nothing else matched)
// an exact-title fallback. At most 5 candidates are returned.
//
// Fails soft: any network or parse error returns an empty slice.
func (w *WikipediaService) Search(ctx context.Context, name string) []models.PageCandidate {
	params := url.Values{
		"action": {"opensearch"},
		"format": {"json"},
		"search": {name},
		"limit":  {fmt.Sprintf("%d", searchLimit)},
	}

	var raw []json.RawMessage
	if err := w.get(ctx, params, &raw); err != nil {
		w.logger.Warn("wikipedia search failed", "name", name, "error", err)
		return nil
	}

	if len(raw) < 4 {
		w.logger.Warn("wikipedia search returned malformed response", "name", name)
		return nil
	}

	var titles, descriptions, urls []string
	if err := json.Unmarshal(raw[1], &titles); err != nil {
		w.logger.Warn("wikipedia search titles malformed", "name", name, "error", err)
		return nil
	}
	// Descriptions and URLs are best-effort; opensearch omits them sometimes.
	_ = json.Unmarshal(raw[2], &descriptions)
	_ = json.Unmarshal(raw[3], &urls)

	return classifyCandidates(name, titles, descriptions, urls)
}

// classifyCandidates buckets search results into tiers, preserving source
// order within each tier.
func classifyCandidates(name string, titles, descriptions, urls []string) []models.PageCandidate {
	nameLower := strings.ToLower(strings.TrimSpace(name))

	var musician, keyword []models.PageCandidate
	var fallback *models.PageCandidate

	for i, title := range titles {
		titleLower := strings.ToLower(title)

		candidate := models.PageCandidate{Title: title}
		if i < len(descriptions) {
			candidate.Description = descriptions[i]
		}
		if i < len(urls) {
			candidate.URL = urls[i]
		}

		descLower := strings.ToLower(candidate.Description)

		switch {
		case matchesMusicianTitle(nameLower, titleLower):
			candidate.Tier = models.TierMusician
			musician = append(musician, candidate)
		case hasMusicSignal(titleLower, descLower):
			candidate.Tier = models.TierKeyword
			keyword = append(keyword, candidate)
		case titleLower == nameLower && fallback == nil:
			c := candidate
			c.Tier = models.TierFallback
			fallback = &c
		}
	}

	ordered := append(musician, keyword...)
	if len(ordered) == 0 && fallback != nil {
		ordered = append(ordered, *fallback)
	}

	if len(ordered) > maxCandidates {
		ordered = ordered[:maxCandidates]
	}

	return ordered
}

// matchesMusicianTitle reports whether a title is exactly the queried name
// plus a music-disambiguation suffix.
func matchesMusicianTitle(nameLower, titleLower string) bool {
	for _, suffix := range musicSuffixes {
		if titleLower == nameLower+" "+suffix {
			return true
		}
	}
	return false
}

// hasMusicSignal reports whether the title carries a disambiguation suffix
// anywhere or either field mentions a music-role keyword.
func hasMusicSignal(titleLower, descLower string) bool {
	for _, suffix := range musicSuffixes {
		if strings.Contains(titleLower, suffix) {
			return true
		}
	}
	for _, kw := range roleKeywords {
		if strings.Contains(titleLower, kw) || strings.Contains(descLower, kw) {
			return true
		}
	}
	return false
}

// PageContent retrieves the raw markup of a page, asking the API to resolve
// redirects. Redirect stubs that survive resolution are followed manually up
// to 3 hops, and content with an unclosed list template is re-requested once
// through the parse endpoint, which returns the full page wikitext.
//
// Returns ("", false) on any failure.
func (w *WikipediaService) PageContent(ctx context.Context, title string) (string, bool) {
	return w.pageContent(ctx, title, 0)
}

func (w *WikipediaService) pageContent(ctx context.Context, title string, hops int) (string, bool) {
	if hops > maxRedirectHops {
		w.logger.Warn("redirect chain too deep", "title", title, "hops", hops)
		return "", false
	}

	content, ok := w.fetchRevision(ctx, title)
	if !ok {
		return "", false
	}

	if target, isRedirect := wikitext.IsRedirect(content); isRedirect {
		w.logger.Debug("following redirect", "from", title, "to", target)
		return w.pageContent(ctx, target, hops+1)
	}

	if wikitext.HasUnbalancedListTemplate(content) {
		w.logger.Debug("content looks truncated, retrying with parse endpoint", "title", title)
		if full, ok := w.fetchParsed(ctx, title); ok {
			return full, true
		}
	}

	return content, true
}

type revisionSlot struct {
	Content string `json:"*"`
}

type revision struct {
	Slots map[string]revisionSlot `json:"slots"`
}

type contentResponse struct {
	Query struct {
		Pages map[string]struct {
			Title     string     `json:"title"`
			Revisions []revision `json:"revisions"`
		} `json:"pages"`
	} `json:"query"`
}

// fetchRevision retrieves page markup via the revisions endpoint.
func (w *WikipediaService) fetchRevision(ctx context.Context, title string) (string, bool) {
	params := url.Values{
		"action":    {"query"},
		"format":    {"json"},
		"prop":      {"revisions"},
		"rvprop":    {"content"},
		"rvslots":   {"main"},
		"titles":    {title},
		"redirects": {"true"},
	}

	var resp contentResponse
	if err := w.get(ctx, params, &resp); err != nil {
		w.logger.Warn("wikipedia content fetch failed", "title", title, "error", err)
		return "", false
	}

	for _, page := range resp.Query.Pages {
		if len(page.Revisions) == 0 {
			continue
		}
		if slot, ok := page.Revisions[0].Slots["main"]; ok && slot.Content != "" {
			return slot.Content, true
		}
	}

	w.logger.Debug("page has no revision content", "title", title)
	return "", false
}

type parseResponse struct {
	Parse struct {
		Wikitext map[string]string `json:"wikitext"`
	} `json:"parse"`
}

// fetchParsed retrieves the complete page wikitext via the parse endpoint,
// used as the fuller retrieval mode when revision content is truncated.
func (w *WikipediaService) fetchParsed(ctx context.Context, title string) (string, bool) {
	params := url.Values{
		"action": {"parse"},
		"format": {"json"},
		"prop":   {"wikitext"},
		"page":   {title},
	}

	var resp parseResponse
	if err := w.get(ctx, params, &resp); err != nil {
		w.logger.Warn("wikipedia parse fetch failed", "title", title, "error", err)
		return "", false
	}

	if content, ok := resp.Parse.Wikitext["*"]; ok && content != "" {
		return content, true
	}
	return "", false
}

// get performs a GET against the API with the given query parameters and
// decodes the JSON response into result.
func (w *WikipediaService) get(ctx context.Context, params url.Values, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if w.userAgent != "" {
		req.Header.Set("User-Agent", w.userAgent)
	}

	resp, err := w.httpClient.Do(req)
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
