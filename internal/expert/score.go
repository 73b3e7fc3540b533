package expert

import (
	"strings"

	"gamescout/pkg/models"
)

// Score computes the affinity between a game and the stated preferences.
// Deterministic weighted sum, no hidden state:
//
//	3.0 per preferred genre in common
//	1.5 per preferred platform in common
//	2.0 when the preferred difficulty matches
//	max(0, 5 - price/20)    cheaper games score higher
//	min(5, playtime/20)     longer games score higher, capped
//	rating                  0-5, taken as-is
//	metacritic/20           0-100 scaled to 0-5
func Score(g models.GameCanonical, prefs models.PreferenceRequest) float64 {
	score := 0.0

	if len(prefs.Genres) > 0 {
		score += float64(overlapFold(g.Genres, prefs.Genres)) * 3.0
	}
	if len(prefs.Platforms) > 0 {
		score += float64(overlapFold(g.Platforms, prefs.Platforms)) * 1.5
	}
	if prefs.Difficulty != "" && strings.EqualFold(prefs.Difficulty, g.Difficulty) {
		score += 2.0
	}

	score += max(0.0, 5.0-g.Price/20.0)
	score += min(5.0, float64(g.PlaytimeHours)/20.0)
	score += g.Rating
	score += float64(g.Metacritic) / 20.0

	return score
}

// overlapFold counts the distinct members of wants that appear in values,
// case-insensitively.
func overlapFold(values []string, wants []string) int {
	have := lowerSet(values)
	seen := make(map[string]struct{}, len(wants))
	n := 0
	for _, w := range wants {
		lw := strings.ToLower(w)
		if _, dup := seen[lw]; dup {
			continue
		}
		seen[lw] = struct{}{}
		if _, ok := have[lw]; ok {
			n++
		}
	}
	return n
}
