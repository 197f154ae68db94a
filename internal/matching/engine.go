// internal/matching/engine.go
package matching

import (
	"context"
	"errors"

	"matchwise-workers/internal/common/logger"
)

// ErrInvalidConsultant marks a consultant record that cannot be scored at all.
var ErrInvalidConsultant = errors.New("consultant record has no id")

// Engine is the deterministic local scoring pipeline: normalize, score the
// six dimensions, aggregate, analyze. It holds no mutable state; evaluation
// order never affects results.
type Engine struct {
	logger logger.Logger
}

func NewEngine(log logger.Logger) *Engine {
	return &Engine{
		logger: log.WithFields(map[string]interface{}{"component": "matching-engine"}),
	}
}

// Evaluate scores one consultant against one assignment.
func (e *Engine) Evaluate(assignment Assignment, consultant Consultant) (Match, error) {
	if consultant.ID == "" {
		return Match{}, ErrInvalidConsultant
	}

	a := NormalizeAssignment(assignment)
	p := NormalizeConsultant(consultant)

	scores, matchedSkills, matchedValues := ScoreDimensions(a, p)
	total := TotalScore(scores)
	thoughtLeadership := ThoughtLeadership(p)

	return Match{
		ConsultantID:            p.ID,
		ConsultantName:          p.Name,
		Scores:                  scores,
		TotalMatchScore:         total,
		ConfidenceLevel:         ConfidenceLevel(p),
		MatchedSkills:           matchedSkills,
		MatchedValues:           matchedValues,
		StrengthAreas:           StrengthAreas(p, thoughtLeadership),
		DevelopmentAreas:        DevelopmentAreas(a, p, matchedSkills),
		RiskFactors:             RiskFactors(p),
		MatchReasoning:          MatchReasoning(p, scores),
		SuccessPrediction:       SuccessPrediction(total, p),
		EstimatedOnboardingTime: EstimatedOnboardingTime(p),
		CulturalAdaptation:      CulturalAdaptation(p),
		CoverLetter:             CoverLetter(a, p, matchedSkills),
	}, nil
}

// EvaluateAll scores every consultant and returns the ranked list. A bad
// record is skipped and logged; it never aborts the batch. The context is
// checked between consultants as a cooperative cancellation point.
func (e *Engine) EvaluateAll(ctx context.Context, assignment Assignment, consultants []Consultant, limit int) []Match {
	matches := make([]Match, 0, len(consultants))

	for _, c := range consultants {
		if ctx.Err() != nil {
			break
		}
		match, err := e.Evaluate(assignment, c)
		if err != nil {
			e.logger.Warn("skipping consultant", map[string]interface{}{
				"consultantId": c.ID,
				"error":        err.Error(),
			})
			continue
		}
		matches = append(matches, match)
	}

	return Rank(matches, limit)
}
