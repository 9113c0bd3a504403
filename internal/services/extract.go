package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"mvdan.cc/xurls/v2"

	"smartbrief-backend/internal/metrics"
)

const (
	// MaxExtractedChars caps the text handed to the model for a fetched URL.
	MaxExtractedChars = 10000

	maxFetchBytes    = 5 << 20
	fetchTimeout     = 30 * time.Second
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	SourceTypeURL  = "url"
	SourceTypeFile = "file"
	SourceTypeText = "text"
)

var (
	ErrExtractionFailed = errors.New("failed to extract content")
	ErrValidation       = errors.New("validation failed")
)

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleBlockRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	anyTagRe      = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe  = regexp.MustCompile(`[\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]+`)
)

// Extracted is the normalized text payload of one source.
type Extracted struct {
	Text   string
	Title  string
	Source string
}

// TranscriptSource provides captions and titles for video URLs.
type TranscriptSource interface {
	GetTranscript(ctx context.Context, videoID string) (string, error)
	VideoTitle(ctx context.Context, videoURL string) (string, error)
}

type ContentExtractor struct {
	httpClient *http.Client
	files      *FileExtractService
	videos     TranscriptSource
	feeds      *gofeed.Parser
	urlRe      *regexp.Regexp
	log        *slog.Logger
}

func NewContentExtractor(httpClient *http.Client, videos TranscriptSource, log *slog.Logger) (*ContentExtractor, error) {
	urlRe, err := xurls.StrictMatchingScheme(`https?://`)
	if err != nil {
		return nil, fmt.Errorf("create regexp: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: fetchTimeout}
	}
	if log == nil {
		log = slog.Default()
	}

	return &ContentExtractor{
		httpClient: httpClient,
		files:      NewFileExtractService(),
		videos:     videos,
		feeds:      gofeed.NewParser(),
		urlRe:      urlRe,
		log:        log,
	}, nil
}

// ExtractFromURL fetches rawURL and reduces it to plain text.
func (e *ContentExtractor) ExtractFromURL(ctx context.Context, rawURL string) (*Extracted, error) {
	out, err := e.extractFromURL(ctx, strings.TrimSpace(rawURL))
	metrics.ExtractionsTotal.WithLabelValues(SourceTypeURL, metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("%w from URL: %v", ErrExtractionFailed, err)
	}
	return out, nil
}

func (e *ContentExtractor) extractFromURL(ctx context.Context, rawURL string) (*Extracted, error) {
	if e.urlRe.FindString(rawURL) != rawURL {
		return nil, fmt.Errorf("invalid URL %q", rawURL)
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid URL %q", rawURL)
	}

	if IsVideoURL(rawURL) {
		return e.extractVideo(ctx, rawURL), nil
	}

	body, contentType, err := e.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if looksLikeFeed(contentType, body) {
		feed, feedErr := e.feeds.ParseString(body)
		if feedErr == nil {
			return &Extracted{
				Text:   Truncate(renderFeed(feed), MaxExtractedChars),
				Title:  strings.TrimSpace(feed.Title),
				Source: rawURL,
			}, nil
		}
		e.log.Debug("feed parse failed, falling back to html", "url", rawURL, "error", feedErr)
	}

	title := htmlTitle(body)
	if title == "" {
		title = parsed.Host
	}

	return &Extracted{
		Text:   Truncate(StripHTML(body), MaxExtractedChars),
		Title:  title,
		Source: rawURL,
	}, nil
}

// extractVideo never fails: without a transcript the caller gets a placeholder.
func (e *ContentExtractor) extractVideo(ctx context.Context, videoURL string) *Extracted {
	out := &Extracted{
		Text:   videoPlaceholder(videoURL),
		Title:  "YouTube video",
		Source: videoURL,
	}
	if e.videos == nil {
		return out
	}

	videoID := YouTubeVideoID(videoURL)
	if videoID == "" {
		return out
	}

	transcript, err := e.videos.GetTranscript(ctx, videoID)
	if err != nil || strings.TrimSpace(transcript) == "" {
		e.log.Warn("transcript unavailable", "video_id", videoID, "error", err)
		return out
	}
	out.Text = Truncate(transcript, MaxExtractedChars)

	if title, err := e.videos.VideoTitle(ctx, videoURL); err == nil && title != "" {
		out.Title = title
	}
	return out
}

func (e *ContentExtractor) fetch(ctx context.Context, rawURL string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return "", "", fmt.Errorf("read body: %w", err)
	}

	return string(data), resp.Header.Get("Content-Type"), nil
}

// ExtractFromFile reads an uploaded file into text.
func (e *ContentExtractor) ExtractFromFile(name, mimeType string, data []byte) (*Extracted, error) {
	text, err := e.files.ExtractText(name, mimeType, data)
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("file contains no readable text")
	}
	metrics.ExtractionsTotal.WithLabelValues(SourceTypeFile, metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("%w from file %s: %v", ErrExtractionFailed, name, err)
	}

	return &Extracted{Text: text, Title: fileTitle(name), Source: name}, nil
}

// ExtractFromText validates pasted content.
func (e *ContentExtractor) ExtractFromText(content string) (*Extracted, error) {
	if strings.TrimSpace(content) == "" {
		metrics.ExtractionsTotal.WithLabelValues(SourceTypeText, "error").Inc()
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}
	metrics.ExtractionsTotal.WithLabelValues(SourceTypeText, "ok").Inc()
	return &Extracted{Text: content, Title: "Direct input", Source: "Direct input"}, nil
}

// StripHTML removes script and style blocks and every tag, then collapses
// whitespace.
func StripHTML(s string) string {
	s = scriptBlockRe.ReplaceAllString(s, "")
	s = styleBlockRe.ReplaceAllString(s, "")
	s = anyTagRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Truncate returns at most max runes of s.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func videoPlaceholder(videoURL string) string {
	return fmt.Sprintf("YouTube video content from: %s\n\nNo transcript could be retrieved for this video, so only the link is available.", videoURL)
}

func htmlTitle(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func looksLikeFeed(contentType, body string) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "rss") || strings.Contains(ct, "atom") || strings.Contains(ct, "xml") {
		return true
	}
	head := strings.ToLower(strings.TrimSpace(body))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<?xml") && (strings.Contains(head, "<rss") || strings.Contains(head, "<feed"))
}

func renderFeed(feed *gofeed.Feed) string {
	var b strings.Builder
	if title := strings.TrimSpace(feed.Title); title != "" {
		b.WriteString(title)
		b.WriteString("\n\n")
	}
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		body := item.Content
		if strings.TrimSpace(body) == "" {
			body = item.Description
		}
		b.WriteString(strings.TrimSpace(item.Title))
		b.WriteString("\n")
		b.WriteString(StripHTML(body))
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}

func fileTitle(name string) string {
	base := name
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}
