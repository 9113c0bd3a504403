package models

import "time"

const (
	MessageTypeUser = "user"
	MessageTypeBot  = "bot"
)

// ChatMessage is a single entry of a follow-up chat session.
type ChatMessage struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // "user" or "bot"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// FollowUpRequest is the payload sent to the follow-up endpoint.
type FollowUpRequest struct {
	SessionID       string `json:"sessionId"`
	Question        string `json:"question"`
	OriginalContent string `json:"originalContent"`
	PreviousSummary string `json:"previousSummary"`
	Model           string `json:"model,omitempty"`
	Tier            string `json:"tier,omitempty"`
}

// FollowUpResponse carries the answer plus the full session transcript.
type FollowUpResponse struct {
	Success   bool          `json:"success"`
	SessionID string        `json:"sessionId"`
	Answer    string        `json:"answer,omitempty"`
	Error     string        `json:"error,omitempty"`
	Messages  []ChatMessage `json:"messages"`
}
