// internal/workers/matching/score-consultant/handler.go
package scoreconsultant

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"matchwise-workers/internal/common/errors"
	"matchwise-workers/internal/common/logger"
	"matchwise-workers/internal/common/metrics"
	"matchwise-workers/internal/matching"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "score-consultant"
)

// Handler scores one consultant against one assignment on demand.
type Handler struct {
	config       *Config
	db           *sql.DB
	redis        *redis.Client
	engine       *matching.Engine
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redisClient *redis.Client, engine *matching.Engine, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
		redis:        redisClient,
		engine:       engine,
		errorHandler: errors.NewErrorHandler(scoped),
		logger:       scoped,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	start := time.Now()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job, errors.NewParseError(err))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)

	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode(err)).Inc()
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return nil
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.completeJob(client, job, output)
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	assignment := input.Assignment
	if assignment == nil {
		if input.AssignmentID == "" {
			return nil, errors.NewAssignmentNotFoundError("")
		}
		loaded, err := h.getAssignment(ctx, input.AssignmentID)
		if err != nil {
			return nil, err
		}
		assignment = loaded
	}

	consultant := input.Consultant
	if consultant == nil {
		if input.ConsultantID == "" {
			return nil, errors.NewConsultantNotFoundError("")
		}
		loaded, err := h.getConsultant(ctx, input.ConsultantID)
		if err != nil {
			return nil, err
		}
		consultant = loaded
	}

	match, err := h.engine.Evaluate(*assignment, *consultant)
	if err != nil {
		return nil, errors.NewScoringFailedError(err.Error())
	}

	h.logger.Info("consultant scored", map[string]interface{}{
		"assignmentId": assignment.ID,
		"consultantId": match.ConsultantID,
		"totalScore":   match.TotalMatchScore,
		"confidence":   match.ConfidenceLevel,
	})

	return &Output{
		Success:           true,
		ConsultantID:      match.ConsultantID,
		Scores:            match.Scores,
		TotalMatchScore:   match.TotalMatchScore,
		ConfidenceLevel:   match.ConfidenceLevel,
		SuccessPrediction: match.SuccessPrediction,
		MatchedSkills:     match.MatchedSkills,
		MatchedValues:     match.MatchedValues,
		MatchReasoning:    match.MatchReasoning,
	}, nil
}

func (h *Handler) getAssignment(ctx context.Context, assignmentID string) (*matching.Assignment, error) {
	row := h.db.QueryRowContext(ctx, `
		SELECT id, title, description, required_skills, required_values, industry,
		       team_culture, communication_style, budget_min, budget_max, currency,
		       team_size, remote_type, start_date, workload
		FROM assignments WHERE id = $1`, assignmentID)

	var a matching.Assignment
	var description, industry, teamCulture, commStyle, currency, remoteType, startDate, workload sql.NullString
	var requiredSkills, requiredValues []byte
	var budgetMin, budgetMax, teamSize sql.NullInt64

	err := row.Scan(&a.ID, &a.Title, &description, &requiredSkills, &requiredValues,
		&industry, &teamCulture, &commStyle, &budgetMin, &budgetMax, &currency,
		&teamSize, &remoteType, &startDate, &workload)
	if err == sql.ErrNoRows {
		return nil, errors.NewAssignmentNotFoundError(assignmentID)
	}
	if err != nil {
		return nil, errors.NewAssignmentFetchFailedError(err)
	}

	a.Description = description.String
	a.Industry = industry.String
	a.TeamCulture = teamCulture.String
	a.CommunicationStyle = commStyle.String
	a.Currency = currency.String
	a.RemoteType = remoteType.String
	a.StartDate = startDate.String
	a.Workload = workload.String
	a.BudgetMin = int(budgetMin.Int64)
	a.BudgetMax = int(budgetMax.Int64)
	a.TeamSize = int(teamSize.Int64)
	a.RequiredSkills = decodeList(requiredSkills)
	a.RequiredValues = decodeList(requiredValues)

	return &a, nil
}

// getConsultant loads one consultant profile, cache-aside through redis: the
// same consultant is often scored against many assignments in a row.
func (h *Handler) getConsultant(ctx context.Context, consultantID string) (*matching.Consultant, error) {
	cacheKey := "consultant:profile:" + consultantID
	if h.redis != nil {
		if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
			var c matching.Consultant
			if err := json.Unmarshal([]byte(val), &c); err == nil {
				return &c, nil
			}
		}
	}

	row := h.db.QueryRowContext(ctx, `
		SELECT id, name, email, skills, values, experience, availability, rating,
		       projects, certifications, industries, communication_style, work_style,
		       personality_traits, languages
		FROM consultants WHERE id = $1`, consultantID)

	var c matching.Consultant
	var name, email, experience, availability, commStyle, workStyle sql.NullString
	var rating sql.NullFloat64
	var projects sql.NullInt64
	var skills, values, certifications, industries, traits, languages []byte

	err := row.Scan(&c.ID, &name, &email, &skills, &values, &experience,
		&availability, &rating, &projects, &certifications, &industries,
		&commStyle, &workStyle, &traits, &languages)
	if err == sql.ErrNoRows {
		return nil, errors.NewConsultantNotFoundError(consultantID)
	}
	if err != nil {
		return nil, errors.NewConsultantFetchFailedError(err)
	}

	c.Name = name.String
	c.Email = email.String
	c.Experience = experience.String
	c.Availability = availability.String
	c.CommunicationStyle = commStyle.String
	c.WorkStyle = workStyle.String
	c.Rating = rating.Float64
	c.Projects = int(projects.Int64)
	c.Skills = decodeList(skills)
	c.Values = decodeList(values)
	c.Certifications = decodeList(certifications)
	c.Industries = decodeList(industries)
	c.PersonalityTraits = decodeList(traits)
	c.Languages = decodeList(languages)

	if h.redis != nil {
		if data, err := json.Marshal(c); err == nil {
			h.redis.Set(ctx, cacheKey, data, h.config.CacheTTL)
		}
	}

	return &c, nil
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

func errorCode(err error) string {
	if stdErr, ok := err.(*errors.StandardError); ok {
		return string(stdErr.Code)
	}
	return "INTERNAL_ERROR"
}

func decodeList(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		if list == nil {
			return []string{}
		}
		return list
	}
	parts := strings.Split(string(raw), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Execute exposes the pipeline for direct invocation in tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
