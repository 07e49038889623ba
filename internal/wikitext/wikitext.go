// Package wikitext extracts infobox fields from MediaWiki markup and splits
// them into candidate tokens.
//
// Field extraction is deliberately regex-based: infobox fields are flat
// key-value lines and a bounded pattern is enough. Anything nested (flatlist
// and hlist containers, stacked templates) goes through an explicit
// balanced-brace scan instead, because regular expressions cannot track
// delimiter depth.
package wikitext

import (
	"regexp"
	"strings"
)

// GenreFieldNames are the infobox keys tried when hunting for genre data,
// in order. Each is extracted independently and the results unioned.
var GenreFieldNames = []string{"genre", "genres", "style", "musical_style"}

var (
	redirectRe = regexp.MustCompile(`(?i)^\s*#REDIRECT\s*\[\[([^\]\|#]+)`)
	commentRe  = regexp.MustCompile(`(?s)<!--.*?-->`)
	refPairRe  = regexp.MustCompile(`(?is)<ref[^>/]*>.*?</ref>`)
	refSoloRe  = regexp.MustCompile(`(?i)<ref[^>]*/>`)
	htmlTagRe  = regexp.MustCompile(`<[^>]+>`)
	entityRe   = regexp.MustCompile(`&[a-zA-Z#0-9]+;`)
	linkRe     = regexp.MustCompile(`\[\[([^\]\|#]+)(?:#[^\]\|]*)?(?:\|[^\]]*)?\]\]`)
	listMarkRe = regexp.MustCompile(`(?m)^\s*[\*#\-]+\s*`)
)

// ExtractField returns the raw value of an infobox field: the text between
// "| key =" and the next field marker ("\n|"), the block's closing "\n}}", or
// the end of the text, whichever comes first. The key match is
// case-insensitive. Returns ok=false when the field is absent.
func ExtractField(content, key string) (string, bool) {
	re := regexp.MustCompile(`(?is)\|\s*` + regexp.QuoteMeta(key) + `\s*=\s*(.*?)(?:\n\s*\||\n\}\}|\z)`)
	m := re.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	value := strings.TrimSpace(m[1])
	if value == "" {
		return "", false
	}
	return value, true
}

// ExtractGenreFields collects the raw values of every known genre-bearing
// field present in the content.
func ExtractGenreFields(content string) []string {
	var fields []string
	for _, key := range GenreFieldNames {
		if value, ok := ExtractField(content, key); ok {
			fields = append(fields, value)
		}
	}
	return fields
}

// IsRedirect reports whether the content is a redirect stub and, if so,
// returns the target page title.
func IsRedirect(content string) (string, bool) {
	m := redirectRe.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// HasUnbalancedListTemplate reports whether the content opens a flatlist or
// hlist container that never closes within the text. This is the signature of
// a truncated retrieval and callers should re-request with a fuller mode.
func HasUnbalancedListTemplate(content string) bool {
	lower := strings.ToLower(content)
	idx := listTemplateIndex(lower)
	if idx < 0 {
		return false
	}
	_, closed := scanBalanced(content, idx)
	return !closed
}

// SplitCandidates strips markup from a raw genre field and splits it into
// trimmed candidate tokens. Link targets win over display text; when no link
// markup exists the residual text splits on commas, semicolons, pipes,
// slashes, and interpunct bullets.
func SplitCandidates(field string) []string {
	text := commentRe.ReplaceAllString(field, "")
	text = refPairRe.ReplaceAllString(text, "")
	text = refSoloRe.ReplaceAllString(text, "")

	if idx := listTemplateIndex(strings.ToLower(text)); idx >= 0 {
		text = listTemplateBody(text, idx)
	}

	var fragments []string
	if links := linkRe.FindAllStringSubmatch(text, -1); len(links) > 0 {
		for _, m := range links {
			fragments = append(fragments, m[1])
		}
	} else {
		plain := dropNestedTemplates(text)
		plain = htmlTagRe.ReplaceAllString(plain, "")
		plain = entityRe.ReplaceAllString(plain, " ")
		plain = strings.ReplaceAll(plain, "'''", "")
		plain = strings.ReplaceAll(plain, "''", "")
		plain = listMarkRe.ReplaceAllString(plain, "")
		plain = strings.NewReplacer("\n", ",", ";", ",", "|", ",", "/", ",", "·", ",", "•", ",").Replace(plain)
		fragments = strings.Split(plain, ",")
	}

	candidates := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		token := strings.TrimSpace(fragment)
		if token == "" || isMarkupOnly(token) {
			continue
		}
		candidates = append(candidates, token)
	}

	return candidates
}

// listTemplateIndex finds the position of the first flatlist or hlist opener
// in already-lowercased text, -1 if none.
func listTemplateIndex(lower string) int {
	idx := strings.Index(lower, "{{flatlist")
	if hidx := strings.Index(lower, "{{hlist"); hidx >= 0 && (idx < 0 || hidx < idx) {
		idx = hidx
	}
	return idx
}

// listTemplateBody isolates the content between the container's first pipe
// and its balanced closing braces. Falls back to everything after the opener
// when the container never closes.
func listTemplateBody(text string, start int) string {
	end, closed := scanBalanced(text, start)
	pipe := strings.IndexByte(text[start:], '|')
	if pipe < 0 {
		return ""
	}
	bodyStart := start + pipe + 1
	if !closed || end <= bodyStart {
		return text[bodyStart:]
	}
	return text[bodyStart:end]
}

// scanBalanced walks the text from an opening "{{" and returns the index of
// the matching closing braces plus whether the scan found them.
func scanBalanced(text string, start int) (int, bool) {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i - 1, true
			}
		}
	}
	return len(text), false
}

// dropNestedTemplates removes any remaining {{...}} spans, innermost first,
// so stacked templates collapse without regex greediness.
func dropNestedTemplates(text string) string {
	for {
		open := strings.LastIndex(text, "{{")
		if open < 0 {
			return text
		}
		span := strings.Index(text[open:], "}}")
		if span < 0 {
			return text[:open]
		}
		text = text[:open] + text[open+span+2:]
	}
}

// isMarkupOnly reports whether a fragment is nothing but leftover wiki
// punctuation once markup stripping is done.
func isMarkupOnly(token string) bool {
	return strings.IndexFunc(token, func(r rune) bool {
		switch r {
		case '{', '}', '[', ']', '|', '*', '#', '=', '\'', '-', ' ':
			return false
		}
		return true
	}) < 0
}
