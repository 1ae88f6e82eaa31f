package apperr

import (
	"fmt"
	"math"
	"net/http"
	"time"
)

const (
	CodeValidation = "validation_error"
	CodeExtraction = "extraction_failed"
	CodeUpstream   = "upstream_unavailable"
	CodeRateLimit  = "rate_limited"
	CodeRender     = "render_failed"
	CodeInternal   = "internal_error"
)

// Outcome is the user-facing translation of an error.
type Outcome struct {
	Status     int
	Code       string
	Message    string
	Transient  bool
	RetryAfter time.Duration
}

type policy struct {
	status    int
	code      string
	transient bool
	specific  bool
	generic   string
}

var policies = map[Kind]policy{
	KindValidation: {status: http.StatusBadRequest, code: CodeValidation, specific: true},
	KindExtraction: {status: http.StatusUnprocessableEntity, code: CodeExtraction, specific: true},
	KindUpstream: {
		status:    http.StatusBadGateway,
		code:      CodeUpstream,
		transient: true,
		generic:   "The extraction service is temporarily unavailable. Please try again later.",
	},
	KindRateLimit: {
		status:    http.StatusTooManyRequests,
		code:      CodeRateLimit,
		transient: true,
		generic:   "Too many requests. Please try again later.",
	},
	KindRender: {
		status:  http.StatusInternalServerError,
		code:    CodeRender,
		generic: "The document could not be rendered.",
	},
}

// Describe maps err onto its user-facing outcome. now is used to compute retry hints.
func Describe(err error, now time.Time) Outcome {
	appErr, ok := As(err)
	if !ok {
		return Outcome{
			Status:  http.StatusInternalServerError,
			Code:    CodeInternal,
			Message: "Unexpected server error",
		}
	}
	p, ok := policies[appErr.Kind]
	if !ok {
		return Outcome{
			Status:  http.StatusInternalServerError,
			Code:    CodeInternal,
			Message: "Unexpected server error",
		}
	}

	out := Outcome{
		Status:    p.status,
		Code:      p.code,
		Transient: p.transient,
		Message:   p.generic,
	}
	if p.specific {
		out.Message = appErr.Message
	}
	if appErr.Kind == KindRateLimit {
		out.RetryAfter = RetryAfter(appErr.ResetAt, now)
		out.Message = fmt.Sprintf("Too many requests. Please retry in %d seconds.", int(out.RetryAfter/time.Second))
	}
	return out
}

// RetryAfter rounds the wait until resetAt up to whole seconds, minimum one.
func RetryAfter(resetAt, now time.Time) time.Duration {
	wait := resetAt.Sub(now)
	seconds := int(math.Ceil(wait.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return time.Duration(seconds) * time.Second
}
