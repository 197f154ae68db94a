// internal/workers/matching/notify-match-results/handler_test.go
package notifymatchresults

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchwise-workers/internal/common/errors"
	"matchwise-workers/internal/common/logger"
)

type fakeEmailSender struct {
	messageID string
	err       error
	sentTo    []string
	subjects  []string
	bodies    []string
}

func (f *fakeEmailSender) SendSimpleEmail(ctx context.Context, from, to, subject, body string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sentTo = append(f.sentTo, to)
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, body)
	return f.messageID, nil
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

func enabledConfig() *Config {
	return &Config{
		Timeout:   15 * time.Second,
		Enabled:   true,
		FromEmail: "noreply@matchwise.example",
	}
}

func expectContactQuery(mock sqlmock.Sqlmock, assignmentID, title, email string) {
	rows := sqlmock.NewRows([]string{"title", "owner_email"}).AddRow(title, email)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT title, owner_email FROM assignments")).
		WithArgs(assignmentID).
		WillReturnRows(rows)
}

func TestExecute_SendsSummaryEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	expectContactQuery(mock, "assignment-1", "Senior React Developer", "owner@company.example")

	sender := &fakeEmailSender{messageID: "ses-message-1"}
	handler := NewHandler(enabledConfig(), db, sender, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), &Input{
		AssignmentID:  "assignment-1",
		Matches:       7,
		TotalAnalyzed: 42,
	})

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.Equal(t, "ses-message-1", output.NotificationID)
	require.Len(t, sender.sentTo, 1)
	assert.Equal(t, "owner@company.example", sender.sentTo[0])
	assert.Contains(t, sender.subjects[0], "Senior React Developer")
	assert.Contains(t, sender.bodies[0], "7 strong matches")
	assert.Contains(t, sender.bodies[0], "42 consultants")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_ExplicitRecipientWins(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	expectContactQuery(mock, "assignment-1", "DevOps Engineer", "owner@company.example")

	sender := &fakeEmailSender{messageID: "ses-message-2"}
	handler := NewHandler(enabledConfig(), db, sender, logger.NewNoOpLogger())

	_, err := handler.Execute(context.Background(), &Input{
		AssignmentID:   "assignment-1",
		RecipientEmail: "override@company.example",
		Matches:        3,
		TotalAnalyzed:  10,
	})

	require.NoError(t, err)
	require.Len(t, sender.sentTo, 1)
	assert.Equal(t, "override@company.example", sender.sentTo[0])
}

func TestExecute_DisabledIsNoOpSuccess(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	sender := &fakeEmailSender{messageID: "never-used"}
	handler := NewHandler(LoadConfig(), db, sender, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), &Input{
		AssignmentID: "assignment-1",
		Matches:      5,
	})

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
	assert.NotEmpty(t, output.NotificationID)
	assert.Empty(t, sender.sentTo)
}

func TestExecute_SendFailureIsRetryable(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	expectContactQuery(mock, "assignment-1", "Senior React Developer", "owner@company.example")

	sender := &fakeEmailSender{err: fmt.Errorf("ses throttled")}
	handler := NewHandler(enabledConfig(), db, sender, logger.NewNoOpLogger())

	_, err := handler.Execute(context.Background(), &Input{AssignmentID: "assignment-1"})

	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNotificationSendFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestExecute_NoRecipientAnywhere(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	expectContactQuery(mock, "assignment-1", "Senior React Developer", "")

	handler := NewHandler(enabledConfig(), db, &fakeEmailSender{}, logger.NewNoOpLogger())

	_, err := handler.Execute(context.Background(), &Input{AssignmentID: "assignment-1"})

	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNotificationSendFailed, stdErr.Code)
}

func TestExecute_AssignmentNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT title, owner_email FROM assignments")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	handler := NewHandler(enabledConfig(), db, &fakeEmailSender{}, logger.NewNoOpLogger())

	_, err := handler.Execute(context.Background(), &Input{AssignmentID: "missing"})

	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeAssignmentNotFound, stdErr.Code)
}
