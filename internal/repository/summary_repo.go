package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"smartbrief-backend/internal/models"
)

const (
	summariesCollection = "summaries"
	maxListLimit        = 100
)

var ErrNotFound = errors.New("not found")

type SummaryRepo struct {
	coll *mongo.Collection
}

func NewSummaryRepo(db *mongo.Database) *SummaryRepo {
	return &SummaryRepo{coll: db.Collection(summariesCollection)}
}

// EnsureIndexes creates the index backing ListRecent.
func (r *SummaryRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

func (r *SummaryRepo) Create(ctx context.Context, s *models.Summary) error {
	if _, err := r.coll.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}
	return nil
}

func (r *SummaryRepo) GetByID(ctx context.Context, id string) (*models.Summary, error) {
	s := &models.Summary{}
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find summary: %w", err)
	}
	return s, nil
}

// ListRecent returns the newest summaries first.
func (r *SummaryRepo) ListRecent(ctx context.Context, limit int) ([]models.Summary, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find summaries: %w", err)
	}
	defer cursor.Close(ctx)

	summaries := make([]models.Summary, 0, limit)
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("decode summaries: %w", err)
	}
	return summaries, nil
}
