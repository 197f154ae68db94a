// internal/workers/matching/run-ai-matching/local.go
package runaimatching

import (
	"context"
	"math"

	"matchwise-workers/internal/matching"
)

// LocalScorer runs the deterministic engine. It never fails for an individual
// consultant; bad records are skipped inside the engine.
type LocalScorer struct {
	engine   *matching.Engine
	minScore int
	limit    int
}

func NewLocalScorer(engine *matching.Engine, minScore, limit int) *LocalScorer {
	return &LocalScorer{
		engine:   engine,
		minScore: minScore,
		limit:    limit,
	}
}

func (s *LocalScorer) Name() string {
	return "local"
}

func (s *LocalScorer) Score(ctx context.Context, assignment matching.Assignment, consultants []matching.Consultant) ([]MatchRecord, error) {
	availability := make(map[string]matching.AvailabilityStatus, len(consultants))
	for _, c := range consultants {
		availability[c.ID] = matching.ClassifyAvailability(c.Availability)
	}

	matches := s.engine.EvaluateAll(ctx, assignment, consultants, s.limit)

	records := make([]MatchRecord, 0, len(matches))
	for _, m := range matches {
		if m.TotalMatchScore < s.minScore {
			continue
		}
		records = append(records, MatchRecord{
			AssignmentID:       assignment.ID,
			ConsultantID:       m.ConsultantID,
			MatchScore:         m.TotalMatchScore,
			MatchedSkills:      m.MatchedSkills,
			HumanFactorsScore:  humanFactorsScore(m.Scores),
			CulturalMatch:      toFivePoint(m.Scores.CulturalFit),
			CommunicationMatch: toFivePoint(m.Scores.CommunicationFit),
			ValuesAlignment:    toFivePoint(m.Scores.CulturalFit),
			ResponseTimeHours:  responseTimeHours(availability[m.ConsultantID]),
			EstimatedSavings:   0,
			CoverLetter:        m.CoverLetter,
			Status:             "pending",
		})
	}

	return records, nil
}

// humanFactorsScore summarizes the non-technical dimensions on the 0-100
// scale used by the matches table.
func humanFactorsScore(scores matching.DimensionScores) int {
	return int(math.Round(float64(scores.CulturalFit+scores.CommunicationFit) / 2))
}

// toFivePoint maps a 0-100 dimension score onto the 1-5 scale the product
// shows to companies.
func toFivePoint(score int) int {
	v := int(math.Round(float64(score) / 20))
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

// responseTimeHours is a coarse expectation derived from availability.
func responseTimeHours(status matching.AvailabilityStatus) int {
	switch status {
	case matching.AvailabilityAvailable:
		return 24
	case matching.AvailabilityLimited:
		return 48
	case matching.AvailabilityFuture:
		return 72
	case matching.AvailabilityBusy:
		return 96
	default:
		return 48
	}
}
