// internal/workers/matching/run-ai-matching/handler_test.go
package runaimatching

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchwise-workers/internal/common/errors"
	"matchwise-workers/internal/common/logger"
	"matchwise-workers/internal/matching"
)

type stubScorer struct {
	name    string
	records []MatchRecord
	err     error
	calls   int
}

func (s *stubScorer) Score(ctx context.Context, assignment matching.Assignment, consultants []matching.Consultant) ([]MatchRecord, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func (s *stubScorer) Name() string {
	return s.name
}

func stubRecord(consultantID string, score int) MatchRecord {
	return MatchRecord{
		AssignmentID:       "assignment-1",
		ConsultantID:       consultantID,
		MatchScore:         score,
		MatchedSkills:      []string{"React"},
		HumanFactorsScore:  80,
		CulturalMatch:      4,
		CommunicationMatch: 4,
		ValuesAlignment:    4,
		ResponseTimeHours:  24,
		CoverLetter:        "Hello",
		Status:             "pending",
	}
}

func expectAssignmentQuery(mock sqlmock.Sqlmock, assignmentID string) {
	rows := sqlmock.NewRows(assignmentColumns()).AddRow(
		assignmentID, "Senior React Developer", "Frontend rebuild",
		[]byte(`["React","TypeScript"]`), []byte(`["Innovation"]`),
		"fintech", "", "", 0, 900000, "SEK", 0, "", "", "",
	)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description")).
		WithArgs(assignmentID).
		WillReturnRows(rows)
}

func expectConsultantsQuery(mock sqlmock.Sqlmock, n int) {
	rows := sqlmock.NewRows(consultantColumns())
	for i := 0; i < n; i++ {
		rows.AddRow(fmt.Sprintf("consultant-%02d", i), "Anna Andersson", nil,
			[]byte(`["React"]`), nil, "5+ years", "Available now", 4.5, 8,
			nil, nil, nil, nil, nil, nil, nil, nil)
	}
	mock.ExpectQuery(regexp.QuoteMeta("FROM consultants")).WillReturnRows(rows)
}

func newTestHandler(db *sql.DB, remote, local MatchScorer) *Handler {
	store := NewStore(db, nil, LoadConfig())
	return NewHandler(LoadConfig(), store, remote, local, nil, logger.NewNoOpLogger())
}

func TestExecute_RemotePath(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	expectAssignmentQuery(mock, "assignment-1")
	expectConsultantsQuery(mock, 2)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO matches")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	remote := &stubScorer{name: "remote", records: []MatchRecord{stubRecord("consultant-00", 88)}}
	local := &stubScorer{name: "local"}
	handler := newTestHandler(db, remote, local)

	output, err := handler.Execute(context.Background(), &Input{AssignmentID: "assignment-1"})

	require.NoError(t, err)
	assert.True(t, output.Success)
	assert.Equal(t, 1, output.Matches)
	assert.Equal(t, 2, output.TotalAnalyzed)
	assert.Contains(t, output.Message, "remote")
	assert.Equal(t, 1, remote.calls)
	assert.Equal(t, 0, local.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_FallsBackToLocal(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	expectAssignmentQuery(mock, "assignment-1")
	expectConsultantsQuery(mock, 2)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO matches")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO matches")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	remote := &stubScorer{name: "remote", err: errors.NewRemoteTimeoutError("deadline exceeded")}
	local := &stubScorer{name: "local", records: []MatchRecord{
		stubRecord("consultant-00", 62),
		stubRecord("consultant-01", 55),
	}}
	handler := newTestHandler(db, remote, local)

	output, err := handler.Execute(context.Background(), &Input{AssignmentID: "assignment-1"})

	require.NoError(t, err)
	assert.True(t, output.Success)
	assert.Equal(t, 2, output.Matches)
	assert.Contains(t, output.Message, "local")
	assert.Equal(t, 1, remote.calls)
	assert.Equal(t, 1, local.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_NoRemoteScorerConfigured(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	expectAssignmentQuery(mock, "assignment-1")
	expectConsultantsQuery(mock, 1)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO matches")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	local := &stubScorer{name: "local", records: []MatchRecord{stubRecord("consultant-00", 70)}}
	handler := newTestHandler(db, nil, local)

	output, err := handler.Execute(context.Background(), &Input{AssignmentID: "assignment-1"})

	require.NoError(t, err)
	assert.True(t, output.Success)
	assert.Equal(t, 1, local.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_AssignmentNotFoundIsFatal(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	remote := &stubScorer{name: "remote"}
	local := &stubScorer{name: "local"}
	handler := newTestHandler(db, remote, local)

	_, err := handler.Execute(context.Background(), &Input{AssignmentID: "missing"})

	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeAssignmentNotFound, stdErr.Code)
	// No scoring and no persistence happened.
	assert.Equal(t, 0, remote.calls)
	assert.Equal(t, 0, local.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_EmptyAssignmentID(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	handler := newTestHandler(db, nil, &stubScorer{name: "local"})

	_, err := handler.Execute(context.Background(), &Input{})

	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeAssignmentNotFound, stdErr.Code)
}

func TestExecute_PersistFailureSkipsRow(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	expectAssignmentQuery(mock, "assignment-1")
	expectConsultantsQuery(mock, 2)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO matches")).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO matches")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	remote := &stubScorer{name: "remote", records: []MatchRecord{
		stubRecord("consultant-00", 90),
		stubRecord("consultant-01", 85),
	}}
	handler := newTestHandler(db, remote, &stubScorer{name: "local"})

	output, err := handler.Execute(context.Background(), &Input{AssignmentID: "assignment-1"})

	require.NoError(t, err)
	assert.True(t, output.Success)
	// Only the successful upsert is counted.
	assert.Equal(t, 1, output.Matches)
	assert.NoError(t, mock.ExpectationsWereMet())
}
