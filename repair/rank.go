package repair

import (
	"sort"
	"strings"

	"github.com/fwojciec/fixhub"
)

// Rank orders candidate references by relevance to the query and
// de-duplicates them by identifier:
//
//  1. exact case-insensitive device-name matches first,
//  2. then by the number of query tokens appearing in the title, descending,
//  3. upstream order as the final tie-break (the sort is stable).
//
// Duplicate identifiers keep their first occurrence under that ordering.
func Rank(refs []fixhub.GuideReference, query string) []fixhub.GuideReference {
	q := strings.ToLower(strings.TrimSpace(query))
	tokens := strings.Fields(q)

	type scored struct {
		ref         fixhub.GuideReference
		deviceMatch bool
		tokenHits   int
	}

	scoredRefs := make([]scored, 0, len(refs))
	for _, ref := range refs {
		title := strings.ToLower(ref.Title)
		hits := 0
		for _, token := range tokens {
			if strings.Contains(title, token) {
				hits++
			}
		}
		scoredRefs = append(scoredRefs, scored{
			ref:         ref,
			deviceMatch: strings.EqualFold(strings.TrimSpace(ref.Device), q),
			tokenHits:   hits,
		})
	}

	sort.SliceStable(scoredRefs, func(i, j int) bool {
		a, b := scoredRefs[i], scoredRefs[j]
		if a.deviceMatch != b.deviceMatch {
			return a.deviceMatch
		}
		return a.tokenHits > b.tokenHits
	})

	seen := make(map[string]struct{}, len(scoredRefs))
	ranked := make([]fixhub.GuideReference, 0, len(scoredRefs))
	for _, s := range scoredRefs {
		if _, ok := seen[s.ref.ID]; ok {
			continue
		}
		seen[s.ref.ID] = struct{}{}
		ranked = append(ranked, s.ref)
	}
	return ranked
}
