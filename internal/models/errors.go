package models

import (
	"errors"
	"fmt"
	"net/http"
)

// PipelineError is an error that knows how to present itself as a plain-text
// HTTP response. Every failure mode in the pipeline maps to one.
type PipelineError struct {
	Status  int
	Message string
}

func (e *PipelineError) Error() string { return e.Message }

// ErrNotReady is returned while the classifier bootstrap has not finished.
func ErrNotReady() *PipelineError {
	return &PipelineError{
		Status:  http.StatusServiceUnavailable,
		Message: "Model data not loaded yet, cannot serve this request",
	}
}

// ErrMalformedEvent covers undecodable notification bodies.
func ErrMalformedEvent(err error) *PipelineError {
	return &PipelineError{
		Status:  http.StatusInternalServerError,
		Message: fmt.Sprintf("Failed to decode event body: %v", err),
	}
}

// ErrDownloadFailed normalizes every transport failure into one error
// carrying the offending URL.
func ErrDownloadFailed(url string) *PipelineError {
	return &PipelineError{
		Status:  http.StatusServiceUnavailable,
		Message: fmt.Sprintf("Failed to download file: %s", url),
	}
}

// ErrLowConfidence is returned when no prediction clears the confidence
// threshold.
func ErrLowConfidence() *PipelineError {
	return &PipelineError{
		Status:  http.StatusServiceUnavailable,
		Message: "Sorry, couldn't figure out what this is... Not very confident.",
	}
}

// ErrPublishFailed covers any failure publishing the status update.
func ErrPublishFailed(err error) *PipelineError {
	return &PipelineError{
		Status:  http.StatusInternalServerError,
		Message: fmt.Sprintf("Failed to publish status update: %v", err),
	}
}

// ErrUnexpected is the catch-all for unanticipated failures; the stack is
// included in the response body.
func ErrUnexpected(cause interface{}, stack []byte) *PipelineError {
	return &PipelineError{
		Status:  http.StatusInternalServerError,
		Message: fmt.Sprintf("Unexpected error occurred: %v\n%s", cause, stack),
	}
}

// AsPipelineError returns err as a *PipelineError, classifying anything else
// as an internal server error.
func AsPipelineError(err error) *PipelineError {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe
	}
	return &PipelineError{Status: http.StatusInternalServerError, Message: err.Error()}
}
