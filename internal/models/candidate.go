package models

// Tier classifies a page candidate by music-relevance signals found in its
// title and description. Lower values sort first.
type Tier int

const (
	// TierMusician matches titles of the form "Name (musician)" where Name is
	// exactly the queried artist.
	TierMusician Tier = iota
	// TierKeyword matches titles or descriptions carrying a music-role keyword.
	TierKeyword
	// TierFallback is an exact-title match with no music signal, used only
	// when nothing better exists.
	TierFallback
)

func (t Tier) String() string {
	switch t {
	case TierMusician:
		return "disambiguated-musician"
	case TierKeyword:
		return "music-keyword-match"
	case TierFallback:
		return "fallback"
	default:
		return ""
	}
}

// PageCandidate is a knowledge-base article considered as the source of truth
// for an artist's genre field. Candidates are transient; they live for one
// extraction attempt.
type PageCandidate struct {
	Title       string
	Description string
	URL         string
	Tier        Tier
}
