// internal/workers/matching/run-ai-matching/models.go
package runaimatching

type Input struct {
	AssignmentID string `json:"assignmentId"`
}

type Output struct {
	Success       bool   `json:"success"`
	Matches       int    `json:"matches"`
	TotalAnalyzed int    `json:"totalAnalyzed"`
	Message       string `json:"message"`
}

// MatchRecord is the persisted shape of one match, aligned with the matches
// table. Remote and local scoring both produce this form.
type MatchRecord struct {
	AssignmentID       string   `json:"assignment_id"`
	ConsultantID       string   `json:"consultant_id"`
	MatchScore         int      `json:"score"`
	MatchedSkills      []string `json:"matched_skills"`
	HumanFactorsScore  int      `json:"human_factors_score"`
	CulturalMatch      int      `json:"cultural_match"`      // 1-5
	CommunicationMatch int      `json:"communication_match"` // 1-5
	ValuesAlignment    int      `json:"values_alignment"`    // 1-5
	ResponseTimeHours  int      `json:"response_time_hours"`
	EstimatedSavings   int      `json:"estimated_savings"`
	CoverLetter        string   `json:"cover_letter"`
	Status             string   `json:"status"`
}
