package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"smartbrief-backend/internal/handlers"
	"smartbrief-backend/internal/middleware"
	"smartbrief-backend/internal/models"
	"smartbrief-backend/internal/services"
)

type nopChat struct{}

func (nopChat) Ask(context.Context, models.FollowUpRequest) (*models.FollowUpResponse, error) {
	return &models.FollowUpResponse{Success: true}, nil
}

func (nopChat) History(context.Context, string) ([]models.ChatMessage, error) {
	return []models.ChatMessage{}, nil
}

func testRouter() http.Handler {
	return New(Handlers{
		Chat:      handlers.NewChatHandler(nopChat{}, nil),
		Export:    handlers.NewExportHandler(),
		Catalog:   handlers.NewCatalogHandler(services.NewCatalog(), "deepseek/deepseek-chat"),
		Summaries: handlers.NewSummaryHandler(nil),
		Health:    handlers.NewHealthHandler(nil),
		ChatWS:    func(w http.ResponseWriter, r *http.Request) {},
	}, middleware.NewRateLimiter(1, time.Minute), "http://localhost:3000")
}

func TestRoutes(t *testing.T) {
	r := testRouter()

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/api/v1/models", "", http.StatusOK},
		{http.MethodGet, "/api/v1/options", "", http.StatusOK},
		{http.MethodGet, "/api/v1/chat/quick-questions", "", http.StatusOK},
		{http.MethodGet, "/api/v1/chat/some-session", "", http.StatusOK},
		{http.MethodGet, "/api/v1/summaries", "", http.StatusServiceUnavailable},
		{http.MethodPost, "/api/v1/export", `{"format":"markdown","title":"t","content":"c"}`, http.StatusOK},
		{http.MethodGet, "/api/v1/unknown", "", http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			if tc.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			if rr.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rr.Code)
			}
			if rr.Header().Get("X-Request-ID") == "" {
				t.Fatalf("expected request id header")
			}
		})
	}
}

func TestAIRoutesAreRateLimited(t *testing.T) {
	r := testRouter()

	do := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/ask", strings.NewReader(`{"question":"q"}`))
		req.RemoteAddr = "192.0.2.1:1234"
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := do(); code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := do(); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
}

func TestChatSocketUpgradeIsRateLimited(t *testing.T) {
	r := testRouter()

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/ws", nil)
		req.RemoteAddr = "192.0.2.2:1234"
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	want := []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, codes)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/export", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
}
