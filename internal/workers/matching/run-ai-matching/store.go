// internal/workers/matching/run-ai-matching/store.go
package runaimatching

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"matchwise-workers/internal/common/errors"
	"matchwise-workers/internal/matching"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store handles the orchestrator's persistence: id-keyed reads of assignments
// and consultants, and idempotent match upserts. Assignment reads go through
// a redis cache because the same assignment is re-read on every rerun.
type Store struct {
	db     *sql.DB
	redis  *redis.Client
	config *Config
}

func NewStore(db *sql.DB, redisClient *redis.Client, config *Config) *Store {
	return &Store{
		db:     db,
		redis:  redisClient,
		config: config,
	}
}

const assignmentQuery = `
	SELECT id, title, description, required_skills, required_values, industry,
	       team_culture, communication_style, budget_min, budget_max, currency,
	       team_size, remote_type, start_date, workload
	FROM assignments WHERE id = $1`

// GetAssignment loads one assignment by id, cache-aside through redis.
func (s *Store) GetAssignment(ctx context.Context, assignmentID string) (*matching.Assignment, error) {
	cacheKey := "assignment:" + assignmentID
	if s.redis != nil {
		if val, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var a matching.Assignment
			if err := json.Unmarshal([]byte(val), &a); err == nil {
				return &a, nil
			}
		}
	}

	row := s.db.QueryRowContext(ctx, assignmentQuery, assignmentID)

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
	a.RequiredSkills = decodeStringList(requiredSkills)
	a.RequiredValues = decodeStringList(requiredValues)

	if s.redis != nil {
		if data, err := json.Marshal(a); err == nil {
			s.redis.Set(ctx, cacheKey, data, s.config.CacheTTL)
		}
	}

	return &a, nil
}

const consultantsQuery = `
	SELECT id, name, email, skills, values, experience, availability, rating,
	       projects, certifications, industries, communication_style, work_style,
	       personality_traits, languages, cv_analysis, linkedin_analysis
	FROM consultants`

// ListConsultants loads every consultant. A row that fails to scan is
// skipped; sparse profiles are expected and handled downstream.
func (s *Store) ListConsultants(ctx context.Context) ([]matching.Consultant, []string, error) {
	rows, err := s.db.QueryContext(ctx, consultantsQuery)
	if err != nil {
		return nil, nil, errors.NewConsultantFetchFailedError(err)
	}
	defer rows.Close()

	var consultants []matching.Consultant
	var skipped []string

	for rows.Next() {
		var c matching.Consultant
		var name, email, experience, availability, commStyle, workStyle sql.NullString
		var rating sql.NullFloat64
		var projects sql.NullInt64
		var skills, values, certifications, industries, traits, languages []byte
		var cvAnalysis, linkedinAnalysis []byte

		err := rows.Scan(&c.ID, &name, &email, &skills, &values, &experience,
			&availability, &rating, &projects, &certifications, &industries,
			&commStyle, &workStyle, &traits, &languages, &cvAnalysis, &linkedinAnalysis)
		if err != nil {
			skipped = append(skipped, c.ID)
			continue
		}

		c.Name = name.String
		c.Email = email.String
		c.Experience = experience.String
		c.Availability = availability.String
		c.CommunicationStyle = commStyle.String
		c.WorkStyle = workStyle.String
		c.Rating = rating.Float64
		c.Projects = int(projects.Int64)
		c.Skills = decodeStringList(skills)
		c.Values = decodeStringList(values)
		c.Certifications = decodeStringList(certifications)
		c.Industries = decodeStringList(industries)
		c.PersonalityTraits = decodeStringList(traits)
		c.Languages = decodeStringList(languages)
		if len(cvAnalysis) > 0 {
			c.CVAnalysis = json.RawMessage(cvAnalysis)
		}
		if len(linkedinAnalysis) > 0 {
			c.LinkedInAnalysis = json.RawMessage(linkedinAnalysis)
		}

		consultants = append(consultants, c)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, errors.NewConsultantFetchFailedError(err)
	}

	return consultants, skipped, nil
}

const upsertMatchQuery = `
	INSERT INTO matches (
		id, assignment_id, consultant_id, match_score, matched_skills,
		human_factors_score, cultural_match, communication_match,
		values_alignment, response_time_hours, estimated_savings,
		cover_letter, status, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	ON CONFLICT (assignment_id, consultant_id) DO UPDATE SET
		match_score = EXCLUDED.match_score,
		matched_skills = EXCLUDED.matched_skills,
		human_factors_score = EXCLUDED.human_factors_score,
		cultural_match = EXCLUDED.cultural_match,
		communication_match = EXCLUDED.communication_match,
		values_alignment = EXCLUDED.values_alignment,
		response_time_hours = EXCLUDED.response_time_hours,
		estimated_savings = EXCLUDED.estimated_savings,
		cover_letter = EXCLUDED.cover_letter,
		status = EXCLUDED.status,
		updated_at = NOW()`

// UpsertMatch writes one match keyed by (assignment_id, consultant_id) so
// reruns overwrite instead of duplicating.
func (s *Store) UpsertMatch(ctx context.Context, record MatchRecord) error {
	matchedSkills, err := json.Marshal(record.MatchedSkills)
	if err != nil {
		matchedSkills = []byte("[]")
	}

	_, err = s.db.ExecContext(ctx, upsertMatchQuery,
		uuid.NewString(),
		record.AssignmentID,
		record.ConsultantID,
		record.MatchScore,
		matchedSkills,
		record.HumanFactorsScore,
		record.CulturalMatch,
		record.CommunicationMatch,
		record.ValuesAlignment,
		record.ResponseTimeHours,
		record.EstimatedSavings,
		record.CoverLetter,
		record.Status,
	)
	if err != nil {
		return errors.NewMatchPersistFailedError(err)
	}
	return nil
}

// decodeStringList tolerates NULL columns, JSON arrays, and legacy
// comma-separated text.
func decodeStringList(raw []byte) []string {
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
