package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"smartbrief-backend/internal/models"
)

// ChatStore is the ordered message log of follow-up chat sessions.
type ChatStore interface {
	Append(ctx context.Context, sessionID string, msg models.ChatMessage) error
	List(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
}

// ChatNotifier is told about every message appended to a session.
type ChatNotifier interface {
	Publish(ctx context.Context, sessionID string, msg models.ChatMessage)
}

type FollowUpAnswerer interface {
	AskFollowUp(ctx context.Context, in FollowUpInput) (string, error)
}

type ChatService struct {
	answerer FollowUpAnswerer
	store    ChatStore
	notifier ChatNotifier
	now      func() time.Time
	log      *slog.Logger
}

func NewChatService(answerer FollowUpAnswerer, store ChatStore, notifier ChatNotifier, log *slog.Logger) *ChatService {
	if log == nil {
		log = slog.Default()
	}
	return &ChatService{
		answerer: answerer,
		store:    store,
		notifier: notifier,
		now:      time.Now,
		log:      log,
	}
}

// Ask records the question, asks the model once and records the answer. When
// the model call fails the error text is recorded as the bot reply and the
// response carries success=false.
func (s *ChatService) Ask(ctx context.Context, req models.FollowUpRequest) (*models.FollowUpResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", ErrValidation)
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if err := s.append(ctx, sessionID, models.MessageTypeUser, question); err != nil {
		return nil, err
	}

	resp := &models.FollowUpResponse{SessionID: sessionID}

	answer, askErr := s.answerer.AskFollowUp(ctx, FollowUpInput{
		Question:        question,
		OriginalContent: req.OriginalContent,
		PreviousSummary: req.PreviousSummary,
		Model:           req.Model,
		Tier:            req.Tier,
	})
	botText := answer
	if askErr != nil {
		resp.Error = askErr.Error()
		botText = resp.Error
		s.log.Warn("follow-up failed", "session_id", sessionID, "error", askErr)
	} else {
		resp.Success = true
		resp.Answer = answer
	}

	if err := s.append(ctx, sessionID, models.MessageTypeBot, botText); err != nil {
		return nil, err
	}

	msgs, err := s.store.List(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	resp.Messages = msgs
	return resp, nil
}

// History returns the messages of a session in append order.
func (s *ChatService) History(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	msgs, err := s.store.List(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	return msgs, nil
}

func (s *ChatService) append(ctx context.Context, sessionID, typ, content string) error {
	msg := models.ChatMessage{
		ID:        uuid.NewString(),
		Type:      typ,
		Content:   content,
		Timestamp: s.now().UTC(),
	}
	if err := s.store.Append(ctx, sessionID, msg); err != nil {
		return fmt.Errorf("append %s message: %w", typ, err)
	}
	if s.notifier != nil {
		s.notifier.Publish(ctx, sessionID, msg)
	}
	return nil
}
