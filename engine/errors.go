package engine

import (
	"errors"
	"strings"

	"github.com/campusbot/collegebot/rag"
)

// Fixed user-facing failure messages. Every failure inside Answer maps
// to one of these; raw errors never reach the caller.
const (
	// QuotaMessage is returned when the underlying provider reports
	// throttling or quota exhaustion.
	QuotaMessage = "I'm currently receiving too many requests (Quota Exceeded). Please wait 30-60 seconds and try again."

	// InternalErrorMessage is returned for every other failure.
	InternalErrorMessage = "Sorry, I encountered an internal error. Please try again later."
)

// isQuotaError reports whether the error indicates throttling or quota
// exhaustion. Tagged errors (rag.ErrRateLimited) are checked first; the
// textual signatures remain as a fallback for providers that surface
// untyped errors.
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, rag.ErrRateLimited) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, sig := range []string{"429", "quota", "rate limit", "resource exhausted", "resourceexhausted"} {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// failureMessage maps an internal error to its fixed user-facing text.
func failureMessage(err error) string {
	if isQuotaError(err) {
		return QuotaMessage
	}
	return InternalErrorMessage
}
