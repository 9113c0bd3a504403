package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"smartbrief-backend/internal/logger"
	"smartbrief-backend/internal/models"
	"smartbrief-backend/internal/services"
)

type chatService interface {
	Ask(ctx context.Context, req models.FollowUpRequest) (*models.FollowUpResponse, error)
	History(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
}

type ChatHandler struct {
	chat chatService
	log  *slog.Logger
}

func NewChatHandler(chat chatService, log *slog.Logger) *ChatHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ChatHandler{chat: chat, log: log}
}

// AskQuestion answers a follow-up question. A failed model call still
// returns the session transcript, with success=false and the error text as
// the last bot message.
func (h *ChatHandler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.FollowUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Question is required",
			map[string]string{"question": "required"}, r))
		return
	}

	resp, err := h.chat.Ask(r.Context(), req)
	if err != nil {
		logger.FromContext(r.Context(), h.log).Error("follow-up failed", "session_id", req.SessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to process follow-up question", r))
		return
	}

	status := http.StatusOK
	if !resp.Success {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, resp)
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(chi.URLParam(r, "sessionId"))
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return
	}

	msgs, err := h.chat.History(r.Context(), sessionID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load chat history", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"sessionId": sessionID,
		"messages":  msgs,
	})
}

func (h *ChatHandler) QuickQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"questions": services.QuickQuestions,
	})
}
