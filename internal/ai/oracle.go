package ai

import (
	"context"
)

// Warning is one risk item flagged by the model.
type Warning struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// ResumeData is a structured CV extracted from an uploaded document.
type ResumeData struct {
	Summary     string             `json:"summary"`
	Skills      []string           `json:"skills"`
	Languages   []string           `json:"languages"`
	Experiences []ResumeExperience `json:"experiences"`
	Educations  []ResumeEducation  `json:"educations"`
}

type ResumeExperience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Dates       string `json:"dates"`
	Description string `json:"description"`
}

type ResumeEducation struct {
	Degree string `json:"degree"`
	School string `json:"school"`
	Dates  string `json:"dates"`
}

// GenerateOptions tune a text generation call.
type GenerateOptions struct {
	System   string // system instruction prepended to the conversation
	Thinking bool   // route to the heavier model
}

// Oracle is the narrow surface the rest of the app sees of the hosted model.
// Implementations are expected to be slow and flaky; callers degrade to
// neutral values instead of failing their own operation.
type Oracle interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	RiskWarnings(ctx context.Context, contextJSON string) ([]Warning, error)
	CertificateImage(ctx context.Context, templateB64, participantName string) (string, error)
	ParseResume(ctx context.Context, docB64, mimeType string) (*ResumeData, error)
}
