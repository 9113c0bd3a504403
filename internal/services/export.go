package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"smartbrief-backend/internal/models"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

var filenameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Export renders a summary for download. Only markdown is generated; other
// known formats return a placeholder message.
func Export(format, title, content string) (*models.ExportResult, error) {
	switch format {
	case "markdown":
		return &models.ExportResult{
			Success:  true,
			Content:  "# " + title + "\n\n" + content,
			Filename: MarkdownFilename(title),
			MimeType: "text/markdown",
		}, nil
	case "pdf":
		return &models.ExportResult{
			Success:     true,
			Message:     "PDF export functionality would be implemented here",
			DownloadURL: "#",
		}, nil
	case "word":
		return &models.ExportResult{
			Success:     true,
			Message:     "Word export functionality would be implemented here",
			DownloadURL: "#",
		}, nil
	case "notion":
		return &models.ExportResult{
			Success: true,
			Message: "Notion export functionality would be implemented here",
		}, nil
	case "googledocs":
		return &models.ExportResult{
			Success: true,
			Message: "Google Docs export functionality would be implemented here",
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func MarkdownFilename(title string) string {
	return strings.ToLower(filenameUnsafe.ReplaceAllString(title, "_")) + ".md"
}
