package models

// ErrorResponse is the uniform failure body of every action.
type ErrorResponse struct {
	Success   bool              `json:"success"`
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// ModelTier is one named group of the model catalog.
type ModelTier struct {
	Name   string       `json:"name"`
	Models []ModelEntry `json:"models"`
}

type ModelEntry struct {
	Key   string `json:"key"`
	Model string `json:"model"`
}
