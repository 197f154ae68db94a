// internal/workers/matching/run-ai-matching/scorer.go
package runaimatching

import (
	"context"

	"matchwise-workers/internal/matching"
)

// MatchScorer produces persisted-shape match records for one assignment
// against a consultant pool. Implementations: RemoteScorer (GROQ) and
// LocalScorer (deterministic engine).
type MatchScorer interface {
	Score(ctx context.Context, assignment matching.Assignment, consultants []matching.Consultant) ([]MatchRecord, error)
	Name() string
}
