package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"smartbrief-backend/internal/metrics"
	"smartbrief-backend/internal/models"
)

const (
	actionSummarize = "summarize"
	actionFollowUp  = "follow_up"

	otherModelLabel = "other"
)

// SummaryStore keeps a history of produced summaries.
type SummaryStore interface {
	Create(ctx context.Context, s *models.Summary) error
}

// SummaryInput is one summarize action as submitted by the client.
type SummaryInput struct {
	Mode       string
	Tone       string
	Depth      string
	Format     string
	SourceType string

	URL      string
	Content  string
	FileName string
	FileMIME string
	FileData []byte

	Model string
	Tier  string
}

type FollowUpInput struct {
	Question        string
	OriginalContent string
	PreviousSummary string
	Model           string
	Tier            string
}

type SummarizeService struct {
	extractor    *ContentExtractor
	catalog      *Catalog
	completer    Completer
	store        SummaryStore
	defaultModel string
	log          *slog.Logger
}

func NewSummarizeService(
	extractor *ContentExtractor,
	catalog *Catalog,
	completer Completer,
	store SummaryStore,
	defaultModel string,
	log *slog.Logger,
) *SummarizeService {
	if log == nil {
		log = slog.Default()
	}
	return &SummarizeService{
		extractor:    extractor,
		catalog:      catalog,
		completer:    completer,
		store:        store,
		defaultModel: defaultModel,
		log:          log,
	}
}

// Summarize extracts the source, composes the prompt and issues exactly one
// completion call.
func (s *SummarizeService) Summarize(ctx context.Context, in SummaryInput) (*models.Summary, error) {
	extracted, err := s.extract(ctx, in)
	if err != nil {
		return nil, err
	}

	mode, tone, depth, format := NormalizeOptions(in.Mode, in.Tone, in.Depth, in.Format)
	model := s.catalog.Select(in.Tier, in.Model, s.defaultModel)
	prompt := ComposeSummaryPrompt(mode, tone, depth, format, extracted.Text)

	started := time.Now()
	text, err := s.completer.Complete(ctx, CompletionRequest{
		Model:     model,
		Prompt:    prompt,
		MaxTokens: SummaryMaxTokens,
	})
	metrics.ObserveInference(actionSummarize, s.modelLabel(model), started, err)
	if err != nil {
		s.log.Error("summarize completion failed", "model", model, "source_type", in.SourceType, "error", err)
		return nil, fmt.Errorf("generate summary: %w", err)
	}

	summary := &models.Summary{
		ID:         uuid.NewString(),
		Title:      extracted.Title,
		Content:    text,
		Source:     extracted.Source,
		SourceType: normalizeSourceType(in.SourceType),
		Mode:       mode,
		Tone:       tone,
		Depth:      depth,
		Format:     format,
		Model:      model,
		CreatedAt:  time.Now().UTC(),
	}

	if s.store != nil {
		if err := s.store.Create(ctx, summary); err != nil {
			s.log.Warn("failed to save summary history", "summary_id", summary.ID, "error", err)
		}
	}

	s.log.Info("summary generated",
		"summary_id", summary.ID,
		"model", model,
		"source_type", summary.SourceType,
		"input_chars", len(extracted.Text),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return summary, nil
}

func (s *SummarizeService) extract(ctx context.Context, in SummaryInput) (*Extracted, error) {
	switch normalizeSourceType(in.SourceType) {
	case SourceTypeURL:
		if strings.TrimSpace(in.URL) == "" {
			return nil, fmt.Errorf("%w: url is required", ErrValidation)
		}
		return s.extractor.ExtractFromURL(ctx, in.URL)
	case SourceTypeFile:
		if in.FileData == nil {
			return nil, fmt.Errorf("%w: file is required", ErrValidation)
		}
		return s.extractor.ExtractFromFile(in.FileName, in.FileMIME, in.FileData)
	default:
		return s.extractor.ExtractFromText(in.Content)
	}
}

// normalizeSourceType maps anything other than url or file to direct text.
func normalizeSourceType(v string) string {
	switch v = strings.ToLower(strings.TrimSpace(v)); v {
	case SourceTypeURL, SourceTypeFile:
		return v
	default:
		return SourceTypeText
	}
}

// modelLabel keeps the metrics model label bounded: client supplied ids
// outside the catalog are reported as "other".
func (s *SummarizeService) modelLabel(model string) string {
	if model == s.defaultModel || s.catalog.Contains(model) {
		return model
	}
	return otherModelLabel
}

// AskFollowUp answers one question about previously summarized content.
func (s *SummarizeService) AskFollowUp(ctx context.Context, in FollowUpInput) (string, error) {
	if strings.TrimSpace(in.Question) == "" {
		return "", fmt.Errorf("%w: question is required", ErrValidation)
	}

	model := s.catalog.Select(in.Tier, in.Model, s.defaultModel)
	started := time.Now()
	answer, err := s.completer.Complete(ctx, CompletionRequest{
		Model:     model,
		Prompt:    ComposeFollowUpPrompt(in.Question, in.OriginalContent, in.PreviousSummary),
		MaxTokens: FollowUpMaxTokens,
	})
	metrics.ObserveInference(actionFollowUp, s.modelLabel(model), started, err)
	if err != nil {
		s.log.Error("follow-up completion failed", "model", model, "error", err)
		return "", fmt.Errorf("answer question: %w", err)
	}
	return answer, nil
}
