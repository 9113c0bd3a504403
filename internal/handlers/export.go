package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"smartbrief-backend/internal/metrics"
	"smartbrief-backend/internal/models"
	"smartbrief-backend/internal/services"
)

type ExportHandler struct{}

func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// Export renders {format, title, content}. With ?download=1 a markdown export
// is streamed as an attachment instead of being wrapped in JSON.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	var req models.ExportRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
			return
		}
	} else {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid form data", r))
			return
		}
		req = models.ExportRequest{
			Format:  r.FormValue("format"),
			Title:   r.FormValue("title"),
			Content: r.FormValue("content"),
		}
	}

	result, err := services.Export(req.Format, req.Title, req.Content)
	metrics.ExportsTotal.WithLabelValues(exportFormatLabel(req.Format), metrics.Outcome(err)).Inc()
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedFormat) {
			writeJSON(w, http.StatusBadRequest, errorResp("UNSUPPORTED_FORMAT", "Unsupported export format: "+req.Format, r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Export failed", r))
		return
	}

	if r.URL.Query().Get("download") == "1" && result.Filename != "" {
		w.Header().Set("Content-Type", result.MimeType+"; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(result.Content))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// exportFormatLabel keeps metric cardinality bounded.
func exportFormatLabel(format string) string {
	switch format {
	case "markdown", "pdf", "word", "notion", "googledocs":
		return format
	default:
		return "other"
	}
}
