// Package structured turns extracted document text into a validated resume record
// with one call to a structured-completion provider.
package structured

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"resume-pipeline/internal/apperr"
	"resume-pipeline/internal/extract"
	"resume-pipeline/internal/llm"
	"resume-pipeline/internal/shared/telemetry"
	"resume-pipeline/resume/model"
)

const (
	// DefaultMaxInputChars bounds the prefix of text sent upstream.
	DefaultMaxInputChars = 12000
	// DefaultTemperature favours literal copying over rephrasing.
	DefaultTemperature float32 = 0.1
)

// Client calls the completer once per Extract. A nil Temperature sends
// DefaultTemperature; zero is a valid setting.
type Client struct {
	Completer     llm.Completer
	MaxInputChars int
	Temperature   *float32
}

// New returns a client with the default bounds.
func New(c llm.Completer) *Client {
	return &Client{Completer: c, MaxInputChars: DefaultMaxInputChars}
}

// WithTemperature sets the sampling temperature sent upstream.
func (c *Client) WithTemperature(t float32) *Client {
	c.Temperature = &t
	return c
}

// Extract returns a schema-conformant resume or fails. A provider failure or a
// payload that is not a resume-shaped JSON object is an UpstreamError; a
// well-formed record without any name is an ExtractionError.
func (c *Client) Extract(ctx context.Context, text extract.Text) (model.Resume, error) {
	if c == nil || c.Completer == nil {
		return model.Resume{}, apperr.Upstream("structured extraction is not configured", errors.New("nil completer"))
	}
	input, truncated := truncateRunes(strings.TrimSpace(text.Content), c.maxInputChars())
	if input == "" {
		return model.Resume{}, apperr.Validation("There is no document text to extract from.")
	}

	raw, err := c.Completer.CompleteJSON(ctx, llm.ResumeExtractionRequest(input, c.temperature()))
	if err != nil {
		return model.Resume{}, apperr.Upstream("structured extraction call failed", err)
	}

	payload := []byte(stripCodeFence(raw))
	if !json.Valid(payload) {
		return model.Resume{}, apperr.Upstream("structured extraction returned a non-JSON payload", nil)
	}
	payload, err = sanitize(payload)
	if err != nil {
		return model.Resume{}, apperr.Upstream("structured extraction returned an unexpected shape", err)
	}
	if err := llm.ValidateResumeJSON(payload); err != nil {
		return model.Resume{}, apperr.Upstream("structured extraction returned an unexpected shape", err)
	}

	var resume model.Resume
	if err := json.Unmarshal(payload, &resume); err != nil {
		return model.Resume{}, apperr.Upstream("structured extraction returned an unexpected shape", err)
	}
	resume = resume.Normalized()
	if !resume.HasName() {
		return model.Resume{}, apperr.Extraction(
			"No name could be found in the document. Check the file or enter your details manually.",
			model.ErrMissingName,
		)
	}
	if err := resume.Validate(); err != nil {
		return model.Resume{}, apperr.Upstream("structured extraction returned an incomplete record", err)
	}

	telemetry.Info("structured.complete", map[string]any{
		"prompt_version": llm.ExtractionPromptVersion,
		"input_chars":    utf8.RuneCountInString(input),
		"truncated":      truncated,
		"experience":     len(resume.Experience),
		"language":       resume.Language,
	})
	return resume, nil
}

func (c *Client) maxInputChars() int {
	if c.MaxInputChars <= 0 {
		return DefaultMaxInputChars
	}
	return c.MaxInputChars
}

func (c *Client) temperature() float32 {
	if c.Temperature == nil || *c.Temperature < 0 {
		return DefaultTemperature
	}
	return *c.Temperature
}

func truncateRunes(s string, limit int) (string, bool) {
	if utf8.RuneCountInString(s) <= limit {
		return s, false
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i], true
		}
		n++
	}
	return s, false
}

// stripCodeFence removes a Markdown fence some models wrap JSON in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

var scalarFields = []string{"firstName", "lastName", "email", "phone", "address", "skills", "objective", "language"}

// sanitize coerces numbers the model emits for text fields (phone numbers,
// graduation years) into strings and joins a skills array. Shapes it does not
// recognise are left for schema validation to reject.
func sanitize(payload []byte) ([]byte, error) {
	var m map[string]any
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("payload is not a JSON object")
	}
	for _, k := range scalarFields {
		m[k] = coerceScalar(m[k])
	}
	if list, ok := m["skills"].([]any); ok {
		parts := make([]string, 0, len(list))
		for _, v := range list {
			if s, ok := coerceScalar(v).(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		m["skills"] = strings.Join(parts, ", ")
	}
	if edu, ok := m["education"].(map[string]any); ok {
		for _, k := range []string{"degree", "institution", "year"} {
			edu[k] = coerceScalar(edu[k])
		}
	}
	if items, ok := m["experience"].([]any); ok {
		for _, item := range items {
			if exp, ok := item.(map[string]any); ok {
				for _, k := range []string{"role", "organization", "period", "description"} {
					if v, present := exp[k]; present {
						exp[k] = coerceScalar(v)
					}
				}
			}
		}
	}
	return json.Marshal(m)
}

func coerceScalar(v any) any {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return v
	}
}
