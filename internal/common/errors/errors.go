// Package errors provides standardized error handling for the fiche pipeline.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeStepValidationFailed ErrorCode = "STEP_VALIDATION_FAILED"

	ErrCodeClientNotFound    ErrorCode = "CLIENT_NOT_FOUND"
	ErrCodeClientFetchFailed ErrorCode = "CLIENT_FETCH_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"

	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeIndexingFailed    ErrorCode = "INDEXING_FAILED"

	ErrCodeRenderFailed ErrorCode = "RENDER_FAILED"
	ErrCodeUploadFailed ErrorCode = "UPLOAD_FAILED"

	ErrCodeDraftPersistFailed ErrorCode = "DRAFT_PERSIST_FAILED"
	ErrCodeDraftRestoreFailed ErrorCode = "DRAFT_RESTORE_FAILED"

	ErrCodeTranslationFailed ErrorCode = "TRANSLATION_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeGenerationInFlight ErrorCode = "GENERATION_IN_FLIGHT"
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
// 2. User Alert Integration
// ==========================

// UserAlert is the single user-visible message assembled from a failure.
// Every backend failure during a user action collapses into one of these;
// validation failures instead carry the full message list.
type UserAlert struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Messages []string `json:"messages,omitempty"`
}

func (a *UserAlert) Error() string {
	return fmt.Sprintf("UserAlert[%s]: %s", a.Code, a.Message)
}

// NewValidationAlert bundles all step validation messages into one alert.
func NewValidationAlert(messages []string) *UserAlert {
	return &UserAlert{
		Code:     string(ErrCodeStepValidationFailed),
		Message:  strings.Join(messages, "\n"),
		Messages: messages,
	}
}

// ==========================
// 3. Error Constructors
// ==========================

// NewStepValidationError creates a non-retryable validation error carrying
// all collected field messages.
func NewStepValidationError(messages []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStepValidationFailed,
		Message:   "Step validation failed",
		Details:   strings.Join(messages, "; "),
		Retryable: false,
		Metadata:  map[string]interface{}{"messages": messages},
		Timestamp: time.Now().UTC(),
	}
}

// NewClientNotFoundError creates a non-retryable lookup error.
func NewClientNotFoundError(clientID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeClientNotFound,
		Message:   "Client not found",
		Details:   fmt.Sprintf("clientId: %s", clientID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewClientFetchFailedError creates a retryable client lookup error.
func NewClientFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeClientFetchFailed,
		Message:   "Database error during client lookup",
		Details:   err.Error(),
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

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(entity string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("entity: %s, error: %s", entity, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(index string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Elasticsearch query error",
		Details:   fmt.Sprintf("index: %s, error: %s", index, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIndexingFailedError creates a retryable indexing error.
func NewIndexingFailedError(index string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexingFailed,
		Message:   "Elasticsearch indexing error",
		Details:   fmt.Sprintf("index: %s, error: %s", index, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRenderFailedError creates a non-retryable document rendering error.
func NewRenderFailedError(kind string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRenderFailed,
		Message:   "Document rendering failed",
		Details:   fmt.Sprintf("kind: %s, error: %s", kind, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUploadFailedError creates a retryable storage upload error.
func NewUploadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUploadFailed,
		Message:   "Document upload failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDraftPersistFailedError creates a retryable draft persistence error.
func NewDraftPersistFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftPersistFailed,
		Message:   "Draft persistence failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDraftRestoreFailedError creates a non-retryable draft restore error.
// The store falls back to an empty draft when this happens.
func NewDraftRestoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftRestoreFailed,
		Message:   "Draft snapshot could not be restored",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTranslationFailedError creates a non-retryable translation error.
// Callers substitute the original text instead of retrying.
func NewTranslationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTranslationFailed,
		Message:   "Translation service error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationInFlightError rejects a generate request while one is running
// for the same draft.
func NewGenerationInFlightError() *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationInFlight,
		Message:   "A document generation is already in progress",
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

func NewResourceNotFoundError(entity, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found: %s", entity),
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
// 4. Error Conversion to Alert
// ==========================

// ConvertToUserAlert converts a StandardError into the single alert shown to
// the user. Validation errors keep their full message list; everything else
// concatenates the underlying message, as the dashboard shows one toast.
func ConvertToUserAlert(stdErr *StandardError) *UserAlert {
	if stdErr.Code == ErrCodeStepValidationFailed {
		if msgs, ok := stdErr.Metadata["messages"].([]string); ok {
			return NewValidationAlert(msgs)
		}
	}

	msg := stdErr.Message
	if stdErr.Details != "" {
		msg = fmt.Sprintf("%s: %s", stdErr.Message, stdErr.Details)
	}
	return &UserAlert{
		Code:    string(stdErr.Code),
		Message: msg,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryable checks whether an error is a retryable StandardError.
func IsRetryable(err error) bool {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Retryable
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "RENDER") || strings.Contains(codeStr, "UPLOAD"):
		return "DOCUMENT"
	case strings.Contains(codeStr, "DRAFT"):
		return "DRAFT"
	case strings.Contains(codeStr, "TRANSLATION"):
		return "TRANSLATION"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
