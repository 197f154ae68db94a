// internal/workers/matching/score-consultant/models.go
package scoreconsultant

import "matchwise-workers/internal/matching"

type Input struct {
	AssignmentID string `json:"assignmentId"`
	ConsultantID string `json:"consultantId"`

	// Optional inline records. When present they take precedence over the
	// database lookups, so upstream tasks can score unsaved drafts.
	Assignment *matching.Assignment `json:"assignment,omitempty"`
	Consultant *matching.Consultant `json:"consultant,omitempty"`
}

type Output struct {
	Success           bool                     `json:"success"`
	ConsultantID      string                   `json:"consultantId"`
	Scores            matching.DimensionScores `json:"scores"`
	TotalMatchScore   int                      `json:"totalMatchScore"`
	ConfidenceLevel   int                      `json:"confidenceLevel"`
	SuccessPrediction int                      `json:"successPrediction"`
	MatchedSkills     []string                 `json:"matchedSkills"`
	MatchedValues     []string                 `json:"matchedValues"`
	MatchReasoning    string                   `json:"matchReasoning"`
}
