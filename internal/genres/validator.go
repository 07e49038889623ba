package genres

import (
	"context"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

// LabelScore is one label's likelihood from a zero-shot classification.
type LabelScore struct {
	Label string
	Score float64
}

// Classifier scores ambiguous candidate text. Implementations may be slow
// (model inference); the validator only consults it on suspicious shapes.
type Classifier interface {
	// IsPersonEntity reports whether the text names a person.
	IsPersonEntity(ctx context.Context, text string) (bool, error)

	// ClassifyLabels scores the text against the given candidate labels.
	ClassifyLabels(ctx context.Context, text string, labels []string) ([]LabelScore, error)
}

// GenreLabel is the target label for the zero-shot genre-likelihood check.
const GenreLabel = "music genre"

// classifierLabels is the fixed label set for ambiguous-candidate classification.
var classifierLabels = []string{GenreLabel, "person name", "company name", "website name", "band name"}

// denyTerms are substrings that mark a candidate as non-genre noise: record
// labels, companies, citation and markup leftovers, media outlets, and known
// proper nouns that show up in mangled infobox fields.
var denyTerms = []string{
	"records", "recordings", "sub pop", "death row", "def jam", "motown",
	"interscope", "roc-a-fella", "entertainment", "productions", "music group",
	"label",
	"citation", "cite", "http", "www.", ".com", "src=", "file:", "image:",
	"isbn", "see ", "section", "source",
	"wikipedia", "spotify", "billboard", "grammy", "allmusic", "pitchfork",
	"rolling stone", "mtv", "vh1", "bbc", "zane lowe", "funk flex",
}

// denySuffixes mark hip-hop collective and crew names masquerading as genres.
var denySuffixes = []string{"crew", "posse", "clique", "cartel", "squad", "gang"}

// genreKeywords shortcut validation: any candidate containing one of these is
// accepted without consulting the classifier.
var genreKeywords = []string{
	"rock", "pop", "jazz", "hip hop", "rap", "metal", "folk", "country",
	"electronic", "dance", "reggae", "blues", "punk", "alternative", "indie",
	"soul", "funk", "r&b", "classical", "gospel", "house", "techno", "trance",
	"dubstep", "ambient", "experimental",
}

// Validator decides whether a candidate string is a plausible music genre.
// The optional classifier is consulted only for suspicious shapes and the
// validator fails open when it is absent or erroring.
type Validator struct {
	classifier Classifier
	logger     *log.Logger
}

// NewValidator creates a Validator. classifier may be nil to run on rules alone.
func NewValidator(classifier Classifier, logger *log.Logger) *Validator {
	return &Validator{classifier: classifier, logger: logger}
}

// IsValid runs the rule cascade over a candidate. First matching rule wins.
func (v *Validator) IsValid(ctx context.Context, candidate string) bool {
	candidate = strings.TrimSpace(candidate)
	lower := strings.ToLower(candidate)
	length := utf8.RuneCountInString(candidate)

	// Rule 1: length bounds.
	if length < 2 || length > 40 {
		return false
	}

	// Rule 2: denylist.
	for _, term := range denyTerms {
		if strings.Contains(lower, term) {
			return false
		}
	}
	for _, suffix := range denySuffixes {
		if strings.HasSuffix(lower, suffix) {
			return false
		}
	}

	// Rule 3: structural noise.
	if v.isStructuralNoise(candidate, lower, length) {
		return false
	}

	// Rule 4: allowlist shortcut.
	for _, keyword := range genreKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}

	// Rule 5: suspicious shapes go to the classifier.
	if isSuspiciousShape(candidate, lower, length) {
		return v.classify(ctx, candidate)
	}

	// Rule 6: default accept.
	return true
}

func (v *Validator) isStructuralNoise(candidate, lower string, length int) bool {
	if strings.HasSuffix(lower, "discography") {
		return true
	}
	if strings.ContainsAny(candidate, "()=") {
		return true
	}
	if length > 3 && candidate == strings.ToUpper(candidate) && strings.IndexFunc(candidate, unicode.IsLetter) >= 0 {
		return true
	}
	if strings.Contains(candidate, " & ") || strings.Contains(lower, " and the ") {
		return true
	}
	if strings.Contains(lower, " and ") && len(strings.Fields(candidate)) > 3 {
		return true
	}
	if !strings.Contains(candidate, " ") && length > 8 && startsUpper(candidate) && !containsGenreKeyword(lower) {
		return true
	}
	return false
}

// classify routes an ambiguous candidate through the person-entity check and
// the zero-shot genre-likelihood check. Any classifier failure accepts the
// candidate: rules already filtered the obvious noise and a missing model
// should not cost real genres.
func (v *Validator) classify(ctx context.Context, candidate string) bool {
	if v.classifier == nil {
		return true
	}

	person, err := v.classifier.IsPersonEntity(ctx, candidate)
	if err != nil {
		v.logger.Debug("person check unavailable, accepting candidate", "candidate", candidate, "error", err)
		return true
	}
	if person {
		v.logger.Debug("rejected person entity", "candidate", candidate)
		return false
	}

	scores, err := v.classifier.ClassifyLabels(ctx, candidate, classifierLabels)
	if err != nil || len(scores) == 0 {
		v.logger.Debug("label classification unavailable, accepting candidate", "candidate", candidate, "error", err)
		return true
	}

	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })

	if scores[0].Label == GenreLabel && scores[0].Score > 0.5 {
		return true
	}
	if len(scores) > 1 && scores[1].Label == GenreLabel &&
		scores[1].Score > 0.4 && scores[0].Score-scores[1].Score < 0.2 {
		return true
	}

	v.logger.Debug("rejected by classifier", "candidate", candidate, "top", scores[0].Label, "score", scores[0].Score)
	return false
}

// isSuspiciousShape matches the shapes worth a model's opinion: a lone
// title-cased word, a fully title-cased multi-word phrase, or a very short
// lowercase token.
func isSuspiciousShape(candidate, lower string, length int) bool {
	words := strings.Fields(candidate)

	if len(words) == 1 && length > 3 && startsUpper(candidate) && candidate != lower {
		return true
	}

	if len(words) >= 2 {
		all := true
		for _, word := range words {
			if !startsUpper(word) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}

	return length <= 4 && candidate == lower
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func containsGenreKeyword(lower string) bool {
	for _, keyword := range genreKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
