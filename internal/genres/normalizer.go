// Package genres decides whether extracted tokens are plausible music genres
// and folds accepted tokens into canonical display form.
package genres

import (
	"strings"
	"unicode"

	"github.com/jammyapp/jammy/internal/shared"
)

// synonyms maps known variant spellings (normalized key) to a canonical
// lowercase form. Applied before the casing rules.
var synonyms = map[string]string{
	"hip-hop":          "hip hop",
	"hiphop":           "hip hop",
	"hip hop music":    "hip hop",
	"hip-hop music":    "hip hop",
	"rock and roll":    "rock",
	"rock & roll":      "rock",
	"rock 'n' roll":    "rock",
	"rock n roll":      "rock",
	"rock'n'roll":      "rock",
	"rhythm and blues": "r&b",
	"rhythm & blues":   "r&b",
	"rnb":              "r&b",
	"r and b":          "r&b",
	"r'n'b":            "r&b",
	"contemporary r&b": "r&b",
	"kpop":             "k-pop",
	"k pop":            "k-pop",
	"drum'n'bass":      "drum and bass",
	"drum 'n' bass":    "drum and bass",
	"dnb":              "drum and bass",
	"electronica":      "electronic",
	"alt-rock":         "alternative rock",
	"alt rock":         "alternative rock",
}

var stripChars = strings.NewReplacer("<", "", ">", "", "{", "", "}", "")

// Normalize canonicalizes a raw genre token: trims stray markup characters,
// folds known synonym spellings, strips a trailing "music" qualifier, and
// applies the casing rules (multi-word results title-cased, single words
// lower-cased, with fixed R&B and K- capitalization).
//
// Pure and deterministic; Normalize(Normalize(x)) == Normalize(x).
func Normalize(genre string) string {
	key := shared.NormalizeKey(stripChars.Replace(genre))
	if key == "" {
		return ""
	}

	if canon, ok := synonyms[key]; ok {
		key = canon
	} else if cut, ok := strings.CutSuffix(key, " music"); ok && cut != "" {
		if canon, ok := synonyms[cut]; ok {
			key = canon
		} else {
			key = cut
		}
	}

	var result string
	if strings.Contains(key, " ") {
		result = titleCase(key)
	} else {
		result = key
	}

	result = fixRAndB(result)
	if len(result) >= 2 && strings.EqualFold(result[:2], "k-") {
		result = "K-" + result[2:]
	}

	return result
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// fixRAndB forces canonical R&B capitalization anywhere it appears.
func fixRAndB(s string) string {
	for _, variant := range []string{"r&b", "R&b", "r&B"} {
		s = strings.ReplaceAll(s, variant, "R&B")
	}
	return s
}
