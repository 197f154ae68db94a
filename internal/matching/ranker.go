// internal/matching/ranker.go
package matching

import "sort"

// MaxRankedMatches bounds the result list after ranking.
const MaxRankedMatches = 15

// Rank sorts matches descending by confidence-discounted score and truncates
// to the limit. Ties break on consultant id ascending so identical inputs
// always produce identical output order. A limit <= 0 uses MaxRankedMatches.
func Rank(matches []Match, limit int) []Match {
	if limit <= 0 {
		limit = MaxRankedMatches
	}

	ranked := make([]Match, len(matches))
	copy(ranked, matches)

	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := ranked[i].RankScore(), ranked[j].RankScore()
		if si != sj {
			return si > sj
		}
		return ranked[i].ConsultantID < ranked[j].ConsultantID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
