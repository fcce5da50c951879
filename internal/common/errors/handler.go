// internal/common/errors/handler.go
package errors

import "time"

// AlertHandler normalizes any error raised during a user action into the
// single alert the UI displays, logging the structured form on the way.
type AlertHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewAlertHandler(logger Logger) *AlertHandler {
	return &AlertHandler{logger: logger}
}

// Handle logs the failure and returns the user-visible alert. It never
// retries: per the error policy, all asynchronous failures are terminal for
// the current action but non-destructive to the in-memory draft.
func (h *AlertHandler) Handle(action string, err error) *UserAlert {
	stdErr := h.normalizeError(err)
	alert := ConvertToUserAlert(stdErr)

	h.logger.Error("action failed", map[string]interface{}{
		"action":        action,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	})

	return alert
}

// normalizeError ensures we always have a StandardError
func (h *AlertHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
