// internal/workers/matching/notify-match-results/handler.go
package notifymatchresults

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"matchwise-workers/internal/common/errors"
	"matchwise-workers/internal/common/logger"
	"matchwise-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "notify-match-results"
)

// EmailSender is the slice of the SES client this worker needs.
type EmailSender interface {
	SendSimpleEmail(ctx context.Context, from, to, subject, body string) (string, error)
}

// Handler emails the assignment owner a summary of a completed matching run.
type Handler struct {
	config *Config
	db     *sql.DB
	email  EmailSender
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, email EmailSender, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		email:  email,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, string(errors.ErrCodeParseError), fmt.Sprintf("parse input: %v", err))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := string(errors.ErrCodeNotificationSendFailed)
		if stdErr, ok := err.(*errors.StandardError); ok {
			errorCode = string(stdErr.Code)
		}
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
		h.failJob(client, job, errorCode, err.Error())
		return nil
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.completeJob(client, job, output)
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if !h.config.Enabled || h.email == nil {
		h.logger.Debug("email notifications disabled, skipping", map[string]interface{}{
			"assignmentId": input.AssignmentID,
		})
		return &Output{
			NotificationID: uuid.New().String(),
			Status:         StatusDisabled,
			SentAt:         time.Now().UTC().Format(time.RFC3339),
		}, nil
	}

	title, ownerEmail, err := h.getAssignmentContact(ctx, input.AssignmentID)
	if err != nil {
		return nil, err
	}

	recipient := input.RecipientEmail
	if recipient == "" {
		recipient = ownerEmail
	}
	if recipient == "" {
		return nil, errors.NewNotificationSendFailedError("email",
			fmt.Errorf("no recipient for assignment %s", input.AssignmentID))
	}

	subject := fmt.Sprintf("Your matches for \"%s\" are ready", title)
	body := fmt.Sprintf(
		"Hi,\n\nWe analyzed %d consultants for your assignment \"%s\" and found %d strong matches.\n\n"+
			"Log in to MatchWise to review the ranked list, match reasoning and cover letters.\n\n"+
			"Best regards,\nThe MatchWise team\n",
		input.TotalAnalyzed, title, input.Matches)

	messageID, err := h.email.SendSimpleEmail(ctx, h.config.FromEmail, recipient, subject, body)
	if err != nil {
		return nil, errors.NewNotificationSendFailedError("email", err)
	}

	h.logger.Info("match results notification sent", map[string]interface{}{
		"assignmentId": input.AssignmentID,
		"recipient":    recipient,
		"messageId":    messageID,
	})

	return &Output{
		NotificationID: messageID,
		Status:         StatusSent,
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *Handler) getAssignmentContact(ctx context.Context, assignmentID string) (title, ownerEmail string, err error) {
	row := h.db.QueryRowContext(ctx,
		`SELECT title, owner_email FROM assignments WHERE id = $1`, assignmentID)

	var dbTitle, dbEmail sql.NullString
	if scanErr := row.Scan(&dbTitle, &dbEmail); scanErr != nil {
		if scanErr == sql.ErrNoRows {
			return "", "", errors.NewAssignmentNotFoundError(assignmentID)
		}
		return "", "", errors.NewAssignmentFetchFailedError(scanErr)
	}
	return dbTitle.String, dbEmail.String, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

// Execute exposes the pipeline for direct invocation in tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
