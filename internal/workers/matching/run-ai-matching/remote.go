// internal/workers/matching/run-ai-matching/remote.go
package runaimatching

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"matchwise-workers/internal/common/errors"
	"matchwise-workers/internal/common/logger"
	"matchwise-workers/internal/groq"
	"matchwise-workers/internal/matching"

	"github.com/xeipuuv/gojsonschema"
)

// ChatClient is the slice of the GROQ client the remote scorer needs.
type ChatClient interface {
	ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Enabled() bool
}

// RemoteScorer delegates scoring to the GROQ chat-completions API. One
// bounded attempt; any failure is returned to the caller, which falls back
// to local scoring.
type RemoteScorer struct {
	client   ChatClient
	minScore int
	limit    int
	logger   logger.Logger
}

func NewRemoteScorer(client ChatClient, minScore, limit int, log logger.Logger) *RemoteScorer {
	return &RemoteScorer{
		client:   client,
		minScore: minScore,
		limit:    limit,
		logger:   log,
	}
}

func (s *RemoteScorer) Name() string {
	return "remote"
}

// remoteResponseSchema validates the structural contract of the AI response
// before any field is trusted.
const remoteResponseSchema = `{
	"type": "object",
	"required": ["matches"],
	"properties": {
		"matches": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["consultant_id", "score"],
				"properties": {
					"consultant_id": {"type": "string"},
					"score": {"type": "number"},
					"matched_skills": {"type": "array", "items": {"type": "string"}},
					"human_factors_score": {"type": "number"},
					"cultural_match": {"type": "number"},
					"communication_match": {"type": "number"},
					"values_alignment": {"type": "number"},
					"response_time_hours": {"type": "number"},
					"estimated_savings": {"type": "number"},
					"cover_letter": {"type": "string"}
				}
			}
		}
	}
}`

type remoteMatch struct {
	ConsultantID       string   `json:"consultant_id"`
	Score              float64  `json:"score"`
	MatchedSkills      []string `json:"matched_skills"`
	HumanFactorsScore  float64  `json:"human_factors_score"`
	CulturalMatch      float64  `json:"cultural_match"`
	CommunicationMatch float64  `json:"communication_match"`
	ValuesAlignment    float64  `json:"values_alignment"`
	ResponseTimeHours  float64  `json:"response_time_hours"`
	EstimatedSavings   float64  `json:"estimated_savings"`
	CoverLetter        string   `json:"cover_letter"`
}

type remoteResponse struct {
	Matches []remoteMatch `json:"matches"`
}

func (s *RemoteScorer) Score(ctx context.Context, assignment matching.Assignment, consultants []matching.Consultant) ([]MatchRecord, error) {
	if !s.client.Enabled() {
		return nil, errors.NewRemoteScoringFailedError(fmt.Errorf("remote scoring disabled"))
	}

	userPrompt, err := buildMatchingPrompt(assignment, consultants)
	if err != nil {
		return nil, errors.NewRemoteScoringFailedError(err)
	}

	content, err := s.client.ChatCompletion(ctx, matchingSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	cleaned := groq.StripCodeFences(content)

	result := gojsonschema.NewStringLoader(remoteResponseSchema)
	doc := gojsonschema.NewStringLoader(cleaned)
	validation, err := gojsonschema.Validate(result, doc)
	if err != nil {
		return nil, errors.NewRemoteResponseInvalidError(fmt.Sprintf("response is not valid JSON: %v", err))
	}
	if !validation.Valid() {
		details := make([]string, 0, len(validation.Errors()))
		for _, e := range validation.Errors() {
			details = append(details, e.String())
		}
		return nil, errors.NewRemoteResponseInvalidError(strings.Join(details, "; "))
	}

	var resp remoteResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, errors.NewRemoteResponseInvalidError(err.Error())
	}

	knownIDs := make(map[string]bool, len(consultants))
	for _, c := range consultants {
		knownIDs[c.ID] = true
	}

	records := make([]MatchRecord, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		if !knownIDs[m.ConsultantID] {
			s.logger.Warn("remote match references unknown consultant", map[string]interface{}{
				"consultantId": m.ConsultantID,
			})
			continue
		}

		score := clampInt(int(m.Score+0.5), 0, 100)
		if score < s.minScore {
			continue
		}

		records = append(records, MatchRecord{
			AssignmentID:       assignment.ID,
			ConsultantID:       m.ConsultantID,
			MatchScore:         score,
			MatchedSkills:      nonNil(m.MatchedSkills),
			HumanFactorsScore:  clampInt(int(m.HumanFactorsScore+0.5), 0, 100),
			CulturalMatch:      clampInt(int(m.CulturalMatch+0.5), 1, 5),
			CommunicationMatch: clampInt(int(m.CommunicationMatch+0.5), 1, 5),
			ValuesAlignment:    clampInt(int(m.ValuesAlignment+0.5), 1, 5),
			ResponseTimeHours:  clampInt(int(m.ResponseTimeHours+0.5), 0, 24*30),
			EstimatedSavings:   maxInt(int(m.EstimatedSavings+0.5), 0),
			CoverLetter:        m.CoverLetter,
			Status:             "pending",
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].MatchScore != records[j].MatchScore {
			return records[i].MatchScore > records[j].MatchScore
		}
		return records[i].ConsultantID < records[j].ConsultantID
	})
	if len(records) > s.limit {
		records = records[:s.limit]
	}

	return records, nil
}

const matchingSystemPrompt = `You are an expert consultant-matching analyst for a staffing platform. ` +
	`You evaluate how well each consultant fits an assignment across technical skills, ` +
	`cultural fit, experience, availability, communication and industry background. ` +
	`Respond with JSON only, no prose, matching exactly this shape: ` +
	`{"matches":[{"consultant_id":"...","score":0,"matched_skills":[],"human_factors_score":0,` +
	`"cultural_match":1,"communication_match":1,"values_alignment":1,"response_time_hours":24,` +
	`"estimated_savings":0,"cover_letter":"..."}]}. Scores are 0-100; the 1-5 factors are integers.`

// buildMatchingPrompt embeds the full assignment and consultant data,
// including stored CV/LinkedIn analysis when present.
func buildMatchingPrompt(assignment matching.Assignment, consultants []matching.Consultant) (string, error) {
	assignmentJSON, err := json.MarshalIndent(assignment, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode assignment: %w", err)
	}
	consultantsJSON, err := json.MarshalIndent(consultants, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode consultants: %w", err)
	}

	var b strings.Builder
	b.WriteString("Assignment:\n")
	b.Write(assignmentJSON)
	b.WriteString("\n\nConsultants:\n")
	b.Write(consultantsJSON)
	b.WriteString("\n\nScore every consultant against the assignment and return the JSON object described in the system message. ")
	b.WriteString("Only include consultants that are a plausible fit.")
	return b.String(), nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(v, lo int) int {
	if v < lo {
		return lo
	}
	return v
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
