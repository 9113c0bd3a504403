package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"smartbrief-backend/internal/logger"
	"smartbrief-backend/internal/models"
	"smartbrief-backend/internal/services"
)

const maxUploadSize = 10 << 20 // 10MB

type summarizer interface {
	Summarize(ctx context.Context, in services.SummaryInput) (*models.Summary, error)
}

type SummarizeHandler struct {
	svc summarizer
	log *slog.Logger
}

func NewSummarizeHandler(svc summarizer, log *slog.Logger) *SummarizeHandler {
	if log == nil {
		log = slog.Default()
	}
	return &SummarizeHandler{svc: svc, log: log}
}

type summarizeRequest struct {
	Mode       string `json:"mode"`
	Tone       string `json:"tone"`
	Depth      string `json:"depth"`
	Format     string `json:"format"`
	SourceType string `json:"sourceType"`
	URL        string `json:"url"`
	Content    string `json:"content"`
	Model      string `json:"model"`
	Tier       string `json:"tier"`
}

// Summarize accepts multipart or urlencoded form fields (mode, tone, depth,
// format, sourceType, url | file | content). JSON bodies are accepted for
// url and text sources.
func (h *SummarizeHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > maxUploadSize+(1<<20) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "File size exceeds 10MB limit", r))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+(1<<20))

	in, ok := h.parseInput(w, r)
	if !ok {
		return
	}

	summary, err := h.svc.Summarize(r.Context(), in)
	if err != nil {
		logger.FromContext(r.Context(), h.log).Warn("summarize failed", "source_type", in.SourceType, "error", err)
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.SummarizeResponse{
		Success:    true,
		ID:         summary.ID,
		Title:      summary.Title,
		Summary:    summary.Content,
		Source:     summary.Source,
		SourceType: summary.SourceType,
		Mode:       summary.Mode,
		Tone:       summary.Tone,
		Depth:      summary.Depth,
		Format:     summary.Format,
		Model:      summary.Model,
	})
}

func (h *SummarizeHandler) parseInput(w http.ResponseWriter, r *http.Request) (services.SummaryInput, bool) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req summarizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
			return services.SummaryInput{}, false
		}
		return services.SummaryInput{
			Mode:       req.Mode,
			Tone:       req.Tone,
			Depth:      req.Depth,
			Format:     req.Format,
			SourceType: req.SourceType,
			URL:        req.URL,
			Content:    req.Content,
			Model:      req.Model,
			Tier:       req.Tier,
		}, true
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "File size exceeds 10MB limit", r))
		} else {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid form data", r))
		}
		return services.SummaryInput{}, false
	}

	in := services.SummaryInput{
		Mode:       r.FormValue("mode"),
		Tone:       r.FormValue("tone"),
		Depth:      r.FormValue("depth"),
		Format:     r.FormValue("format"),
		SourceType: r.FormValue("sourceType"),
		URL:        r.FormValue("url"),
		Content:    r.FormValue("content"),
		Model:      r.FormValue("model"),
		Tier:       r.FormValue("tier"),
	}

	if strings.EqualFold(strings.TrimSpace(in.SourceType), services.SourceTypeFile) {
		file, header, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "No file provided",
				map[string]string{"file": "required"}, r))
			return services.SummaryInput{}, false
		}
		defer file.Close()

		if header.Size > maxUploadSize {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "File size exceeds 10MB limit", r))
			return services.SummaryInput{}, false
		}

		data, err := io.ReadAll(file)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Failed to read file", r))
			return services.SummaryInput{}, false
		}

		in.FileName = header.Filename
		in.FileMIME = header.Header.Get("Content-Type")
		in.FileData = data
	}

	return in, true
}
