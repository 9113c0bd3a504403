package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"smartbrief-backend/internal/models"
)

// ChatRepo is an append-only, ordered message log per chat session.
type ChatRepo interface {
	Append(ctx context.Context, sessionID string, msg models.ChatMessage) error
	List(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
}

const chatKeyPrefix = "chat:session:"

type RedisChatRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisChatRepo(client *redis.Client, ttl time.Duration) *RedisChatRepo {
	return &RedisChatRepo{client: client, ttl: ttl}
}

func chatKey(sessionID string) string {
	return chatKeyPrefix + sessionID
}

func (r *RedisChatRepo) Append(ctx context.Context, sessionID string, msg models.ChatMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	key := chatKey(sessionID)
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

func (r *RedisChatRepo) List(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	raw, err := r.client.LRange(ctx, chatKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	msgs := make([]models.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg models.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("unmarshal message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

type memorySession struct {
	messages    []models.ChatMessage
	lastTouched time.Time
}

// MemoryChatRepo keeps sessions in process. Idle sessions are dropped by Sweep.
type MemoryChatRepo struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryChatRepo(ttl time.Duration) *MemoryChatRepo {
	return &MemoryChatRepo{
		sessions: make(map[string]*memorySession),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (r *MemoryChatRepo) Append(_ context.Context, sessionID string, msg models.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		s = &memorySession{}
		r.sessions[sessionID] = s
	}
	s.messages = append(s.messages, msg)
	s.lastTouched = r.now()
	return nil
}

func (r *MemoryChatRepo) List(_ context.Context, sessionID string) ([]models.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return []models.ChatMessage{}, nil
	}
	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out, nil
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed.
func (r *MemoryChatRepo) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for id, s := range r.sessions {
		if s.lastTouched.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}
