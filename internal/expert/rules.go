package expert

import (
	"strings"
	"time"
)

// The predicates below are pure: each one looks only at the canonical game
// and the relevant constraint values, and answers "keep this record?". Both
// the in-memory recommender and the streaming scan are built from them, so
// their order of application never changes the outcome.

// sensitiveTerms marks content that is suppressed for under-18 age ceilings
// and for callers that explicitly disallow violence. Matching is substring
// containment over the lower-cased tag list.
var sensitiveTerms = []string{
	"nsfw", "nudity", "sexual content", "sexual-content", "hentai",
	"porn", "erotic", "mature", "violence", "violent", "gore",
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// containsFold reports whether values contains want, case-insensitively.
func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

// anyInFold reports whether any of wants appears in values (case-insensitive).
func anyInFold(values []string, wants []string) bool {
	for _, w := range wants {
		if containsFold(values, w) {
			return true
		}
	}
	return false
}

// lowerSet builds a lower-cased lookup set out of a name list.
func lowerSet(values ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, list := range values {
		for _, v := range list {
			set[strings.ToLower(v)] = struct{}{}
		}
	}
	return set
}

// anyInSet reports whether any of wants (lower-cased) is a member of set.
func anyInSet(set map[string]struct{}, wants []string) bool {
	for _, w := range wants {
		if _, ok := set[strings.ToLower(w)]; ok {
			return true
		}
	}
	return false
}

// hasSensitiveTags reports whether any tag contains one of the sensitive
// terms.
func hasSensitiveTags(tags []string) bool {
	return anyTagContains(tags, sensitiveTerms)
}

// hasAnyTagExact reports whether any of wants matches a tag exactly
// (tags are already lower-cased by the normalizer).
func hasAnyTagExact(tags []string, wants []string) bool {
	for _, w := range wants {
		w = strings.ToLower(w)
		for _, t := range tags {
			if t == w {
				return true
			}
		}
	}
	return false
}

// withinReleaseWindow checks the record's release date against optional
// calendar bounds. A date that does not parse fails every bound that is set.
func withinReleaseWindow(released string, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}
	rd, ok := parseDate(released)
	if from != nil && (!ok || rd.Before(*from)) {
		return false
	}
	if to != nil && (!ok || rd.After(*to)) {
		return false
	}
	return true
}

// playsOffline reports whether no tag mentions online play.
func playsOffline(tags []string) bool {
	return !anyTagContains(tags, []string{"online"})
}
