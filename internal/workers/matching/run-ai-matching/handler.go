// internal/workers/matching/run-ai-matching/handler.go
package runaimatching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"matchwise-workers/internal/common/errors"
	"matchwise-workers/internal/common/logger"
	"matchwise-workers/internal/common/metrics"
	"matchwise-workers/internal/common/observability"
	"matchwise-workers/internal/matching"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "run-ai-matching"
)

// Handler is the matching run orchestrator: fetch inputs, score remotely
// with local fallback, filter, persist, report.
type Handler struct {
	config *Config
	store  *Store
	remote MatchScorer
	local  MatchScorer
	obs    *observability.Observability
	logger logger.Logger
}

func NewHandler(config *Config, store *Store, remote, local MatchScorer, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  store,
		remote: remote,
		local:  local,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, string(errors.ErrCodeParseError), fmt.Sprintf("parse input: %v", err))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, path, err := h.execute(ctx, &input)

	duration := time.Since(start)
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(duration.Seconds())

	if err != nil {
		errorCode := "MATCHING_RUN_FAILED"
		if stdErr, ok := err.(*errors.StandardError); ok {
			errorCode = string(stdErr.Code)
		}
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
		if h.obs != nil {
			h.obs.RecordRun(ctx, "failed", path)
			h.obs.RecordRunDuration(ctx, duration, "failed")
		}
		h.failJob(client, job, errorCode, err.Error())
		return nil
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.MatchingRuns.WithLabelValues(path).Inc()
	if h.obs != nil {
		h.obs.RecordRun(ctx, "completed", path)
		h.obs.RecordRunDuration(ctx, duration, "completed")
	}

	h.completeJob(client, job, output)
	return nil
}

// execute runs the full matching pipeline and returns the caller-facing
// output plus the scoring path that produced it ("remote" or "local").
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, string, error) {
	if input.AssignmentID == "" {
		return nil, "local", errors.NewAssignmentNotFoundError("")
	}

	assignment, err := h.store.GetAssignment(ctx, input.AssignmentID)
	if err != nil {
		// No partial persistence: a missing assignment aborts the whole run.
		return nil, "local", err
	}

	consultants, skipped, err := h.store.ListConsultants(ctx)
	if err != nil {
		return nil, "local", err
	}
	for _, id := range skipped {
		h.logger.Warn("skipping unreadable consultant row", map[string]interface{}{
			"consultantId": id,
		})
	}

	records, path := h.score(ctx, *assignment, consultants)

	persisted := 0
	for _, record := range records {
		if err := h.store.UpsertMatch(ctx, record); err != nil {
			metrics.MatchPersistErrors.Inc()
			h.logger.Error("match upsert failed, skipping row", map[string]interface{}{
				"assignmentId": record.AssignmentID,
				"consultantId": record.ConsultantID,
				"error":        err.Error(),
			})
			continue
		}
		persisted++
		metrics.MatchesPersisted.Inc()
	}

	h.logger.Info("matching run completed", map[string]interface{}{
		"assignmentId":  input.AssignmentID,
		"path":          path,
		"totalAnalyzed": len(consultants),
		"matches":       persisted,
	})

	return &Output{
		Success:       true,
		Matches:       persisted,
		TotalAnalyzed: len(consultants),
		Message:       fmt.Sprintf("created %d matches via %s scoring", persisted, path),
	}, path, nil
}

// score tries the remote scorer first and falls back to the local engine on
// any remote failure. Remote problems never surface to the caller.
func (h *Handler) score(ctx context.Context, assignment matching.Assignment, consultants []matching.Consultant) ([]MatchRecord, string) {
	if h.remote != nil {
		remoteCtx, cancel := context.WithTimeout(ctx, h.config.RemoteTimeout)
		records, err := h.remote.Score(remoteCtx, assignment, consultants)
		cancel()
		if err == nil {
			return records, h.remote.Name()
		}
		metrics.MatchingFallbacks.Inc()
		h.logger.Warn("remote scoring failed, falling back to local engine", map[string]interface{}{
			"assignmentId": assignment.ID,
			"error":        err.Error(),
		})
	}

	records, _ := h.local.Score(ctx, assignment, consultants)
	return records, h.local.Name()
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
	output, _, err := h.execute(ctx, input)
	return output, err
}
