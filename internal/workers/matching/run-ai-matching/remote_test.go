// internal/workers/matching/run-ai-matching/remote_test.go
package runaimatching

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchwise-workers/internal/common/errors"
	"matchwise-workers/internal/common/logger"
	"matchwise-workers/internal/matching"
)

type fakeChatClient struct {
	content string
	err     error
	enabled bool
}

func (f *fakeChatClient) ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

func (f *fakeChatClient) Enabled() bool {
	return f.enabled
}

func remoteTestConsultants(n int) []matching.Consultant {
	consultants := make([]matching.Consultant, 0, n)
	for i := 0; i < n; i++ {
		consultants = append(consultants, matching.Consultant{
			ID:   fmt.Sprintf("consultant-%02d", i),
			Name: fmt.Sprintf("Consultant %d", i),
		})
	}
	return consultants
}

func TestRemoteScorer_Success(t *testing.T) {
	client := &fakeChatClient{
		enabled: true,
		content: "```json\n" + `{
			"matches": [
				{
					"consultant_id": "consultant-00",
					"score": 88,
					"matched_skills": ["React"],
					"human_factors_score": 82,
					"cultural_match": 4,
					"communication_match": 5,
					"values_alignment": 4,
					"response_time_hours": 24,
					"estimated_savings": 50000,
					"cover_letter": "I would be delighted to join."
				}
			]
		}` + "\n```",
	}

	scorer := NewRemoteScorer(client, 75, 15, logger.NewNoOpLogger())
	records, err := scorer.Score(context.Background(), testAssignment(), remoteTestConsultants(2))

	require.NoError(t, err)
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, "assignment-1", r.AssignmentID)
	assert.Equal(t, "consultant-00", r.ConsultantID)
	assert.Equal(t, 88, r.MatchScore)
	assert.Equal(t, []string{"React"}, r.MatchedSkills)
	assert.Equal(t, 50000, r.EstimatedSavings)
	assert.Equal(t, "pending", r.Status)
}

func TestRemoteScorer_InvalidResponses(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		expectedCode errors.ErrorCode
	}{
		{
			name:         "not json",
			content:      "Here are your matches: consultant-00 looks great!",
			expectedCode: errors.ErrCodeRemoteResponseInvalid,
		},
		{
			name:         "missing matches key",
			content:      `{"results": []}`,
			expectedCode: errors.ErrCodeRemoteResponseInvalid,
		},
		{
			name:         "matches not an array",
			content:      `{"matches": {"consultant_id": "x"}}`,
			expectedCode: errors.ErrCodeRemoteResponseInvalid,
		},
		{
			name:         "match missing required keys",
			content:      `{"matches": [{"cover_letter": "hi"}]}`,
			expectedCode: errors.ErrCodeRemoteResponseInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeChatClient{enabled: true, content: tt.content}
			scorer := NewRemoteScorer(client, 75, 15, logger.NewNoOpLogger())

			_, err := scorer.Score(context.Background(), testAssignment(), remoteTestConsultants(1))

			require.Error(t, err)
			stdErr, ok := err.(*errors.StandardError)
			require.True(t, ok)
			assert.Equal(t, tt.expectedCode, stdErr.Code)
		})
	}
}

func TestRemoteScorer_PropagatesClientError(t *testing.T) {
	client := &fakeChatClient{
		enabled: true,
		err:     errors.NewRemoteTimeoutError("deadline exceeded"),
	}
	scorer := NewRemoteScorer(client, 75, 15, logger.NewNoOpLogger())

	_, err := scorer.Score(context.Background(), testAssignment(), remoteTestConsultants(1))

	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeRemoteTimeout, stdErr.Code)
}

func TestRemoteScorer_SkipsUnknownConsultants(t *testing.T) {
	client := &fakeChatClient{
		enabled: true,
		content: `{"matches": [
			{"consultant_id": "consultant-00", "score": 90},
			{"consultant_id": "hallucinated-id", "score": 95}
		]}`,
	}
	scorer := NewRemoteScorer(client, 75, 15, logger.NewNoOpLogger())

	records, err := scorer.Score(context.Background(), testAssignment(), remoteTestConsultants(1))

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "consultant-00", records[0].ConsultantID)
}

func TestRemoteScorer_ThresholdAndClamping(t *testing.T) {
	client := &fakeChatClient{
		enabled: true,
		content: `{"matches": [
			{"consultant_id": "consultant-00", "score": 74},
			{"consultant_id": "consultant-01", "score": 75},
			{"consultant_id": "consultant-02", "score": 150,
			 "cultural_match": 9, "communication_match": 0, "values_alignment": -2,
			 "response_time_hours": -5, "estimated_savings": -1000}
		]}`,
	}
	scorer := NewRemoteScorer(client, 75, 15, logger.NewNoOpLogger())

	records, err := scorer.Score(context.Background(), testAssignment(), remoteTestConsultants(3))

	require.NoError(t, err)
	require.Len(t, records, 2)

	// Sorted by score descending: the clamped 150 comes first.
	assert.Equal(t, "consultant-02", records[0].ConsultantID)
	assert.Equal(t, 100, records[0].MatchScore)
	assert.Equal(t, 5, records[0].CulturalMatch)
	assert.Equal(t, 1, records[0].CommunicationMatch)
	assert.Equal(t, 1, records[0].ValuesAlignment)
	assert.Equal(t, 0, records[0].ResponseTimeHours)
	assert.Equal(t, 0, records[0].EstimatedSavings)

	assert.Equal(t, "consultant-01", records[1].ConsultantID)
	assert.Equal(t, 75, records[1].MatchScore)
}

func TestRemoteScorer_CapsResults(t *testing.T) {
	matches := make([]map[string]interface{}, 0, 30)
	for i := 0; i < 30; i++ {
		matches = append(matches, map[string]interface{}{
			"consultant_id": fmt.Sprintf("consultant-%02d", i),
			"score":         80 + i%10,
		})
	}
	body, err := json.Marshal(map[string]interface{}{"matches": matches})
	require.NoError(t, err)

	client := &fakeChatClient{enabled: true, content: string(body)}
	scorer := NewRemoteScorer(client, 75, 15, logger.NewNoOpLogger())

	records, err := scorer.Score(context.Background(), testAssignment(), remoteTestConsultants(30))

	require.NoError(t, err)
	assert.Len(t, records, 15)
	// Highest scores survive the cap.
	assert.Equal(t, 89, records[0].MatchScore)
}

func TestRemoteScorer_DisabledClient(t *testing.T) {
	scorer := NewRemoteScorer(&fakeChatClient{enabled: false}, 75, 15, logger.NewNoOpLogger())

	_, err := scorer.Score(context.Background(), testAssignment(), remoteTestConsultants(1))

	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeRemoteScoringFailed, stdErr.Code)
}
