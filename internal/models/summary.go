package models

import (
	"time"
)

// Summary is a stored summarization result.
type Summary struct {
	ID         string    `json:"id" bson:"_id"`
	Title      string    `json:"title" bson:"title"`
	Content    string    `json:"content" bson:"content"`
	Source     string    `json:"source" bson:"source"`
	SourceType string    `json:"sourceType" bson:"source_type"` // "url" | "file" | "text"
	Mode       string    `json:"mode" bson:"mode"`
	Tone       string    `json:"tone" bson:"tone"`
	Depth      string    `json:"depth" bson:"depth"`
	Format     string    `json:"format" bson:"format"`
	Model      string    `json:"model" bson:"model"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
}

// SummarizeResponse is the uniform result of the summarize action.
type SummarizeResponse struct {
	Success    bool   `json:"success"`
	ID         string `json:"id,omitempty"`
	Title      string `json:"title,omitempty"`
	Summary    string `json:"summary"`
	Source     string `json:"source"`
	SourceType string `json:"sourceType"`
	Mode       string `json:"mode"`
	Tone       string `json:"tone"`
	Depth      string `json:"depth"`
	Format     string `json:"format"`
	Model      string `json:"model"`
}

// SummaryOption describes a single selectable value of one option axis.
type SummaryOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type SummaryOptions struct {
	Modes   []SummaryOption `json:"modes"`
	Tones   []SummaryOption `json:"tones"`
	Depths  []SummaryOption `json:"depths"`
	Formats []SummaryOption `json:"formats"`
}
