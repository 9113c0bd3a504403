package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

type stubTranscripts struct {
	transcript string
	title      string
	err        error
	gotID      string
}

func (s *stubTranscripts) GetTranscript(_ context.Context, videoID string) (string, error) {
	s.gotID = videoID
	return s.transcript, s.err
}

func (s *stubTranscripts) VideoTitle(_ context.Context, _ string) (string, error) {
	return s.title, nil
}

func newTestExtractor(t *testing.T, videos TranscriptSource) *ContentExtractor {
	t.Helper()
	e, err := NewContentExtractor(nil, videos, nil)
	if err != nil {
		t.Fatalf("NewContentExtractor: %v", err)
	}
	return e
}

func TestExtractFromURLTruncatesToLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua == "" {
			t.Errorf("expected user agent header")
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><head><title>Long page</title></head><body><p>" + strings.Repeat("é", MaxExtractedChars+2500) + "</p></body></html>"))
	}))
	defer srv.Close()

	got, err := newTestExtractor(t, nil).ExtractFromURL(context.Background(), srv.URL+"/article")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := utf8.RuneCountInString(got.Text); n != MaxExtractedChars {
		t.Fatalf("expected %d characters, got %d", MaxExtractedChars, n)
	}
	if got.Title != "Long page" {
		t.Fatalf("unexpected title %q", got.Title)
	}
	if got.Source != srv.URL+"/article" {
		t.Fatalf("unexpected source %q", got.Source)
	}
}

func TestExtractFromURLStripsMarkup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><SCRIPT type="text/javascript">var x = "<p>hidden</p>";</SCRIPT>
<style>.a { color: red }</style><h1>Hello</h1>

	<div>brave   new</div><p>world</p></body></html>`))
	}))
	defer srv.Close()

	got, err := newTestExtractor(t, nil).ExtractFromURL(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "Hello brave new world" {
		t.Fatalf("unexpected text %q", got.Text)
	}
	if !strings.HasPrefix(srv.URL, "http://"+got.Title) {
		t.Fatalf("expected host fallback title, got %q", got.Title)
	}
}

func TestStripHTMLCollapsesUnicodeSpaces(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"vertical tab", "a\vb"},
		{"no-break space", "a\u00a0b"},
		{"line separator", "a\u2028b"},
		{"paragraph separator", "a\u2029b"},
		{"byte order mark", "a\ufeffb"},
		{"mixed run", "a \v\u2028\ufeff\t b"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripHTML(tc.in); got != "a b" {
				t.Fatalf("expected %q, got %q", "a b", got)
			}
		})
	}
}

func TestExtractFromURLParsesFeeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?>
<rss version="2.0"><channel><title>Weekly digest</title>
<item><title>First post</title><description>&lt;p&gt;Intro text&lt;/p&gt;</description></item>
<item><title>Second post</title><description>More</description></item>
</channel></rss>`))
	}))
	defer srv.Close()

	got, err := newTestExtractor(t, nil).ExtractFromURL(context.Background(), srv.URL+"/feed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Weekly digest\n\nFirst post\nIntro text\n\nSecond post\nMore"
	if got.Text != want {
		t.Fatalf("unexpected text:\n%q\nwant\n%q", got.Text, want)
	}
	if got.Title != "Weekly digest" {
		t.Fatalf("unexpected title %q", got.Title)
	}
}

func TestExtractFromURLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	tests := []struct {
		name string
		url  string
	}{
		{"not found", srv.URL + "/missing"},
		{"not a url", "definitely not a url"},
		{"unsupported scheme", "ftp://example.com/file.txt"},
		{"empty", "   "},
	}

	e := newTestExtractor(t, nil)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.ExtractFromURL(context.Background(), tc.url)
			if !errors.Is(err, ErrExtractionFailed) {
				t.Fatalf("expected ErrExtractionFailed, got %v", err)
			}
			if !strings.HasPrefix(err.Error(), "failed to extract content from URL") {
				t.Fatalf("unexpected message %q", err.Error())
			}
		})
	}
}

func TestExtractFromURLVideo(t *testing.T) {
	const videoURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

	t.Run("transcript", func(t *testing.T) {
		videos := &stubTranscripts{transcript: "never gonna give you up", title: "Song"}
		got, err := newTestExtractor(t, videos).ExtractFromURL(context.Background(), videoURL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if videos.gotID != "dQw4w9WgXcQ" {
			t.Fatalf("unexpected video id %q", videos.gotID)
		}
		if got.Text != "never gonna give you up" || got.Title != "Song" {
			t.Fatalf("unexpected result %+v", got)
		}
	})

	t.Run("placeholder when transcript fails", func(t *testing.T) {
		videos := &stubTranscripts{err: errors.New("no captions")}
		got, err := newTestExtractor(t, videos).ExtractFromURL(context.Background(), videoURL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(got.Text, "YouTube video content from: "+videoURL) {
			t.Fatalf("unexpected placeholder %q", got.Text)
		}
	})

	t.Run("placeholder without transcript source", func(t *testing.T) {
		got, err := newTestExtractor(t, nil).ExtractFromURL(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(got.Text, "https://youtu.be/dQw4w9WgXcQ") {
			t.Fatalf("unexpected placeholder %q", got.Text)
		}
	})
}

func TestExtractFromFile(t *testing.T) {
	e := newTestExtractor(t, nil)

	got, err := e.ExtractFromFile("lecture-notes.txt", "text/plain", []byte("line one\nline two"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "line one\nline two" || got.Title != "lecture-notes" || got.Source != "lecture-notes.txt" {
		t.Fatalf("unexpected result %+v", got)
	}

	_, err = e.ExtractFromFile("empty.txt", "text/plain", []byte("  \n"))
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed for empty file, got %v", err)
	}
}

func TestExtractFromText(t *testing.T) {
	e := newTestExtractor(t, nil)

	got, err := e.ExtractFromText("pasted body")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Source != "Direct input" || got.Text != "pasted body" {
		t.Fatalf("unexpected result %+v", got)
	}

	if _, err := e.ExtractFromText("  "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo", 3); got != "hél" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Truncate("hi", 3); got != "hi" {
		t.Fatalf("unexpected %q", got)
	}
}
