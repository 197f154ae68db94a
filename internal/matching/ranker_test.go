// internal/matching/ranker_test.go
package matching

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank_ConfidenceDiscountsScore(t *testing.T) {
	// 90 * 0.70 = 63 ranks below 85 * 0.80 = 68.
	sparse := Match{ConsultantID: "sparse", TotalMatchScore: 90, ConfidenceLevel: 70}
	documented := Match{ConsultantID: "documented", TotalMatchScore: 85, ConfidenceLevel: 80}

	ranked := Rank([]Match{sparse, documented}, 15)

	require.Len(t, ranked, 2)
	assert.Equal(t, "documented", ranked[0].ConsultantID)
	assert.Equal(t, "sparse", ranked[1].ConsultantID)
}

func TestRank_TieBreaksOnConsultantID(t *testing.T) {
	a := Match{ConsultantID: "b-consultant", TotalMatchScore: 80, ConfidenceLevel: 90}
	b := Match{ConsultantID: "a-consultant", TotalMatchScore: 80, ConfidenceLevel: 90}

	ranked := Rank([]Match{a, b}, 15)

	assert.Equal(t, "a-consultant", ranked[0].ConsultantID)
	assert.Equal(t, "b-consultant", ranked[1].ConsultantID)
}

func TestRank_TruncatesToLimit(t *testing.T) {
	matches := make([]Match, 0, 30)
	for i := 0; i < 30; i++ {
		matches = append(matches, Match{
			ConsultantID:    fmt.Sprintf("consultant-%02d", i),
			TotalMatchScore: 50 + i,
			ConfidenceLevel: 80,
		})
	}

	ranked := Rank(matches, 15)

	require.Len(t, ranked, 15)
	// Highest scores survive.
	assert.Equal(t, "consultant-29", ranked[0].ConsultantID)
	assert.Equal(t, "consultant-15", ranked[14].ConsultantID)
}

func TestRank_ZeroLimitUsesDefault(t *testing.T) {
	matches := make([]Match, 0, 20)
	for i := 0; i < 20; i++ {
		matches = append(matches, Match{
			ConsultantID:    fmt.Sprintf("consultant-%02d", i),
			TotalMatchScore: 60,
			ConfidenceLevel: 80,
		})
	}

	assert.Len(t, Rank(matches, 0), MaxRankedMatches)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	matches := []Match{
		{ConsultantID: "z", TotalMatchScore: 10, ConfidenceLevel: 100},
		{ConsultantID: "a", TotalMatchScore: 90, ConfidenceLevel: 100},
	}

	_ = Rank(matches, 15)

	assert.Equal(t, "z", matches[0].ConsultantID)
	assert.Equal(t, "a", matches[1].ConsultantID)
}

func TestRank_Deterministic(t *testing.T) {
	matches := []Match{
		{ConsultantID: "c1", TotalMatchScore: 77, ConfidenceLevel: 85},
		{ConsultantID: "c2", TotalMatchScore: 82, ConfidenceLevel: 70},
		{ConsultantID: "c3", TotalMatchScore: 77, ConfidenceLevel: 85},
		{ConsultantID: "c4", TotalMatchScore: 60, ConfidenceLevel: 100},
	}

	first := Rank(matches, 15)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Rank(matches, 15))
	}
}
