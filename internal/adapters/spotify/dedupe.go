package spotify

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/toniu/playscore/internal/core/domain"
)

// maxDuplicateDistance is the Levenshtein distance under which a candidate's
// normalized title+artist key counts as the same song as a playlist track.
const maxDuplicateDistance = 3

var noiseTokens = map[string]struct{}{
	"clean":      {},
	"deluxe":     {},
	"edition":    {},
	"edit":       {},
	"explicit":   {},
	"feat":       {},
	"featuring":  {},
	"ft":         {},
	"live":       {},
	"mix":        {},
	"mono":       {},
	"radio":      {},
	"remaster":   {},
	"remastered": {},
	"stereo":     {},
	"version":    {},
}

// filterNearDuplicates drops candidates that are the same recording as a
// playlist track under a different ID (remasters, re-releases, singles vs
// album cuts). Recommending those would not improve any criterion.
func filterNearDuplicates(candidates []domain.Track, existing []domain.Track) []domain.Track {
	if len(candidates) == 0 || len(existing) == 0 {
		return candidates
	}

	keys := make([]string, 0, len(existing))
	for _, t := range existing {
		if key := matchKey(t); key != "|" {
			keys = append(keys, key)
		}
	}

	kept := make([]domain.Track, 0, len(candidates))
	for _, cand := range candidates {
		key := matchKey(cand)
		dup := false
		for _, existingKey := range keys {
			if levenshtein.ComputeDistance(key, existingKey) < maxDuplicateDistance {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, cand)
		}
	}
	return kept
}

func matchKey(t domain.Track) string {
	artist := ""
	if len(t.ArtistNames) > 0 {
		artist = t.ArtistNames[0]
	}
	return normalizeMatchInput(t.Title) + "|" + normalizeMatchInput(artist)
}

func normalizeMatchInput(input string) string {
	if input == "" {
		return ""
	}

	lower := strings.ToLower(input)
	filtered := stripBracketedSegments(lower)
	tokens := strings.Fields(cleanSeparators(filtered))

	cleaned := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, drop := noiseTokens[token]; drop {
			continue
		}
		cleaned = append(cleaned, token)
	}

	return strings.Join(cleaned, " ")
}

func stripBracketedSegments(input string) string {
	var out strings.Builder
	depth := 0
	for _, r := range input {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				out.WriteRune(r)
			}
		}
	}

	return out.String()
}

func cleanSeparators(input string) string {
	var out strings.Builder
	lastSpace := false
	for _, r := range input {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			out.WriteRune(' ')
			lastSpace = true
		}
	}

	return out.String()
}
