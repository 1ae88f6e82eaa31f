package llm

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractionPromptVersion tags log lines so prompt changes are traceable.
const ExtractionPromptVersion = "resume_extract_v1"

//go:embed prompts/resume_extract.txt
var resumeExtractPrompt string

// resumeSchemaText is the indented schema pasted into the system prompt.
var resumeSchemaText = mustIndentSchema(ResumeSchema())

func mustIndentSchema(schema map[string]any) string {
	b, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("llm: marshal resume schema: %v", err))
	}
	return string(b)
}

// ResumeExtractionRequest builds the request for one structured resume extraction.
// The caller has already bounded the length of text.
func ResumeExtractionRequest(text string, temperature float32) Request {
	system := strings.NewReplacer(
		"{{PROMPT_VERSION}}", ExtractionPromptVersion,
		"{{SCHEMA}}", resumeSchemaText,
	).Replace(resumeExtractPrompt)
	return Request{
		System:      system,
		User:        fmt.Sprintf("Resume Text:\n%s", text),
		Temperature: temperature,
	}
}
