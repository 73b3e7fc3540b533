package expert

import (
	"strings"

	"gamescout/pkg/models"
)

// ageByESRB maps an ESRB content-rating label to an approximate minimum age.
// The mapping is total: labels we do not recognize (and records with no label
// at all) fall back to 12.
var ageByESRB = map[string]int{
	"Everyone":     6,
	"Everyone 10+": 10,
	"Teen":         13,
	"Mature":       17,
	"Adults Only":  21,
}

const defaultAgeRating = 12

// Substrings that mark a tag as describing a play style. Matching is
// case-insensitive containment over the lower-cased tag list.
var (
	multiplayerMarks  = []string{"multiplayer"}
	singleplayerMarks = []string{"singleplayer", "single-player", "single player"}
	coopMarks         = []string{"co-op", "coop", "cooperative"}
	pvpMarks          = []string{"pvp", "competitive"}
)

// Normalize maps one raw catalog record into the canonical form. The second
// return value is false when the record cannot be minimally identified (no
// usable id); the batch reload drops such records.
func Normalize(raw models.RawGame) (models.GameCanonical, bool) {
	_, ok := asInt64(raw["id"])
	return NormalizeAny(raw), ok
}

// NormalizeAny maps a raw record without requiring an id; the streaming scan
// uses it so that unidentifiable records fail predicates naturally instead of
// being excluded up front. Every field is coerced defensively: missing, null
// or wrong-shaped input degrades to the zero value instead of failing.
func NormalizeAny(raw models.RawGame) models.GameCanonical {
	id, _ := asInt64(raw["id"])

	g := models.GameCanonical{
		ID:         id,
		Price:      0.0,      // source provides no price
		Difficulty: "normal", // source provides no difficulty
	}

	g.Title = asString(raw["name"])
	if g.Title == "" {
		g.Title = asString(raw["title"])
	}
	g.Slug = asString(raw["slug"])
	g.Released = asString(raw["released"])
	g.TBA = asBool(raw["tba"])
	g.BackgroundImage = asString(raw["background_image"])

	g.Genres, g.GenreSlugs = namedList(raw["genres"], "slug")
	g.Platforms = platformList(raw["platforms"])

	g.Rating = asFloat(raw["rating"])
	g.Metacritic = int(asFloat(raw["metacritic"]))
	g.PlaytimeHours = int(asFloat(raw["playtime"]))

	g.ESRB = esrbLabel(raw["esrb_rating"])
	g.AgeRating = defaultAgeRating
	if age, ok := ageByESRB[g.ESRB]; ok {
		g.AgeRating = age
	}

	tagNames, _ := namedList(raw["tags"], "")
	g.TopTags = tagNames
	if len(g.TopTags) > 10 {
		g.TopTags = g.TopTags[:10]
	}
	g.Tags = make([]string, 0, len(tagNames))
	for _, t := range tagNames {
		g.Tags = append(g.Tags, strings.ToLower(t))
	}

	g.Multiplayer = anyTagContains(g.Tags, multiplayerMarks)
	g.Singleplayer = anyTagContains(g.Tags, singleplayerMarks)
	g.Coop = anyTagContains(g.Tags, coopMarks)
	g.PvP = anyTagContains(g.Tags, pvpMarks)

	return g
}

func anyTagContains(tags []string, marks []string) bool {
	for _, t := range tags {
		for _, m := range marks {
			if strings.Contains(t, m) {
				return true
			}
		}
	}
	return false
}

// namedList accepts either a plain list of scalars or a list of objects
// carrying a "name" field, and returns the names. When slugKey is non-empty a
// parallel slug list is returned as well (objects without a slug fall back to
// their name). Unknown shapes degrade to empty.
func namedList(v any, slugKey string) (names []string, slugs []string) {
	items, ok := v.([]any)
	if !ok {
		return nil, nil
	}
	for _, item := range items {
		switch x := item.(type) {
		case map[string]any:
			name := asString(x["name"])
			if name == "" {
				continue
			}
			names = append(names, name)
			if slugKey != "" {
				slug := asString(x[slugKey])
				if slug == "" {
					slug = name
				}
				slugs = append(slugs, slug)
			}
		case string:
			if x == "" {
				continue
			}
			names = append(names, x)
			if slugKey != "" {
				slugs = append(slugs, x)
			}
		}
	}
	return names, slugs
}

// platformList handles the source's platform shape: a list of wrapper objects
// holding a nested {platform: {name}} object. Plain scalars are accepted too.
func platformList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var names []string
	for _, item := range items {
		switch x := item.(type) {
		case map[string]any:
			inner, ok := x["platform"].(map[string]any)
			if !ok {
				continue
			}
			if name := asString(inner["name"]); name != "" {
				names = append(names, name)
			}
		case string:
			if x != "" {
				names = append(names, x)
			}
		}
	}
	return names
}

func esrbLabel(v any) string {
	obj, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	return asString(obj["name"])
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// asFloat coerces the numeric shapes a JSON decode can produce. Missing and
// null both read as zero.
func asFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	}
	return 0
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case float64:
		return int64(x), true
	case int:
		return int64(x), true
	case int64:
		return x, true
	}
	return 0, false
}
