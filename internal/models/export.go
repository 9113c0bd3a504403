package models

// ExportRequest is the payload of the export action.
type ExportRequest struct {
	Format  string `json:"format"` // "markdown" | "pdf" | "word" | "notion" | "googledocs"
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ExportResult struct {
	Success     bool   `json:"success"`
	Content     string `json:"content,omitempty"`
	Filename    string `json:"filename,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
	Message     string `json:"message,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}
