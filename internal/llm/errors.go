package llm

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RetryableError marks a transient failure, usually a rate limit.
type RetryableError struct {
	Err            error
	SuggestedDelay time.Duration // zero when the provider gave no hint
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.Err)
}

func (e *RetryableError) Unwrap() error { return e.Err }

// FatalError marks a failure that retrying will not fix.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: %v", e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// quotaStatusPattern matches an HTTP 429 status in error text, not any number
// that happens to contain the digits.
var quotaStatusPattern = regexp.MustCompile(`(?i)\b(?:error|code|status|http)[\s:=]*429\b|\b429 too many requests\b|\btoo many requests\b`)

var retryDelayPattern = regexp.MustCompile(`(?i)retry(?:[ _-]?delay)?["'\s:]*(?:in\s+)?(\d+(?:\.\d+)?)\s*s`)

// Classify tags err as *RetryableError or *FatalError. Already tagged errors
// and nil pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var re *RetryableError
	var fe *FatalError
	if errors.As(err, &re) || errors.As(err, &fe) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &FatalError{Err: err}
	}
	if isQuota(err) {
		return &RetryableError{Err: err, SuggestedDelay: suggestedDelay(err.Error())}
	}
	return &FatalError{Err: err}
}

// IsRetryable reports whether err is tagged retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

func isQuota(err error) bool {
	if status.Code(err) == codes.ResourceExhausted {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == 429 {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") || quotaStatusPattern.MatchString(msg) ||
		strings.Contains(msg, "resource exhausted") || strings.Contains(msg, "resource_exhausted")
}

func suggestedDelay(msg string) time.Duration {
	m := retryDelayPattern.FindStringSubmatch(msg)
	if m == nil {
		return 0
	}
	secs, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}
