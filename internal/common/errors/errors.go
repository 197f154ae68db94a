// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeAssignmentNotFound    ErrorCode = "ASSIGNMENT_NOT_FOUND"
	ErrCodeAssignmentFetchFailed ErrorCode = "ASSIGNMENT_FETCH_FAILED"
	ErrCodeConsultantFetchFailed ErrorCode = "CONSULTANT_FETCH_FAILED"
	ErrCodeConsultantNotFound    ErrorCode = "CONSULTANT_NOT_FOUND"

	ErrCodeRemoteScoringFailed   ErrorCode = "REMOTE_SCORING_FAILED"
	ErrCodeRemoteResponseInvalid ErrorCode = "REMOTE_RESPONSE_INVALID"
	ErrCodeRemoteTimeout         ErrorCode = "REMOTE_TIMEOUT"

	ErrCodeMatchPersistFailed ErrorCode = "MATCH_PERSIST_FAILED"
	ErrCodeScoringFailed      ErrorCode = "SCORING_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeParseError               ErrorCode = "PARSE_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewAssignmentNotFoundError marks a fatal input error: without an
// assignment there is nothing to match against.
func NewAssignmentNotFoundError(assignmentID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAssignmentNotFound,
		Message:   "Assignment not found",
		Details:   fmt.Sprintf("assignmentId: %s", assignmentID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAssignmentFetchFailedError creates a retryable database read error.
func NewAssignmentFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAssignmentFetchFailed,
		Message:   "Database error while loading assignment",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewConsultantFetchFailedError creates a retryable database read error.
func NewConsultantFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeConsultantFetchFailed,
		Message:   "Database error while loading consultants",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewConsultantNotFoundError creates a non-retryable lookup error.
func NewConsultantNotFoundError(consultantID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConsultantNotFound,
		Message:   "Consultant not found",
		Details:   fmt.Sprintf("consultantId: %s", consultantID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRemoteScoringFailedError wraps a remote AI call failure. It is not
// retryable at the workflow level because the orchestrator recovers by
// falling back to local scoring.
func NewRemoteScoringFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRemoteScoringFailed,
		Message:   "Remote AI scoring call failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRemoteTimeoutError marks a remote AI call that exceeded its deadline.
// Not retryable for the same fallback reason as NewRemoteScoringFailedError.
func NewRemoteTimeoutError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRemoteTimeout,
		Message:   "Remote AI scoring call timed out",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRemoteResponseInvalidError marks unusable remote AI output.
func NewRemoteResponseInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRemoteResponseInvalid,
		Message:   "Remote AI response failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMatchPersistFailedError creates a retryable upsert error.
func NewMatchPersistFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMatchPersistFailed,
		Message:   "Match upsert failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewScoringFailedError creates a non-retryable scoring pipeline error.
func NewScoringFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeScoringFailed,
		Message:   "Scoring pipeline failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewParseError creates a non-retryable input parse error.
func NewParseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeParseError,
		Message:   "Failed to parse job input",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      "AUTHENTICATION_ERROR",
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// retryCounts maps error codes to the number of workflow-level retries they
// deserve. Codes not listed get zero retries.
var retryCounts = map[ErrorCode]int{
	ErrCodeAssignmentFetchFailed:    3,
	ErrCodeConsultantFetchFailed:    3,
	ErrCodeMatchPersistFailed:       3,
	ErrCodeDatabaseConnectionFailed: 3,
	ErrCodeQueryExecutionFailed:     3,
	ErrCodeNotificationSendFailed:   2,
}

// GetRetryCount returns how many times a job with this error code should be
// retried by the workflow engine.
func GetRetryCount(code ErrorCode) int {
	return retryCounts[code]
}

// ConvertToBPMNError turns a StandardError into the shape thrown to Camunda.
func ConvertToBPMNError(err *StandardError) *BPMNError {
	return &BPMNError{
		Code:      string(err.Code),
		Message:   err.Message,
		Details:   err.Details,
		Retryable: err.Retryable,
		Retries:   GetRetryCount(err.Code),
		ErrorVariables: map[string]interface{}{
			"timestamp": err.Timestamp.Format(time.RFC3339),
		},
	}
}

// IsRetryable reports whether the error is a StandardError marked retryable.
func IsRetryable(err error) bool {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Retryable
	}
	return false
}
