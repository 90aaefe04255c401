package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medicare/booking-api/internal/core/domain"
)

const reviewsCollection = "reviews"

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(reviewsCollection)}
}

type mongoReview struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	DoctorID   string             `bson:"doctor_id"`
	UserID     string             `bson:"user_id"`
	ReviewText string             `bson:"review_text"`
	Rating     int                `bson:"rating"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (mr *mongoReview) toDomain() *domain.Review {
	return &domain.Review{
		ID:         mr.ID.Hex(),
		DoctorID:   mr.DoctorID,
		UserID:     mr.UserID,
		ReviewText: mr.ReviewText,
		Rating:     mr.Rating,
		CreatedAt:  mr.CreatedAt.UTC(),
	}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) (*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoReview{
		DoctorID:   rv.DoctorID,
		UserID:     rv.UserID,
		ReviewText: rv.ReviewText,
		Rating:     rv.Rating,
		CreatedAt:  rv.CreatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = id
	}
	return doc.toDomain(), nil
}

// List returns reviews newest first. An empty doctorID lists every review.
func (r *ReviewRepository) List(ctx context.Context, doctorID string) ([]*domain.Review, error) {
	filter := bson.M{}
	if doctorID != "" {
		filter["doctor_id"] = doctorID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoReview
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list reviews: decode: %w", err)
	}

	out := make([]*domain.Review, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// Summarize computes the average rating and review count for one doctor.
func (r *ReviewRepository) Summarize(ctx context.Context, doctorID string) (domain.RatingSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "doctor_id", Value: doctorID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$doctor_id"},
			{Key: "average", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.RatingSummary{}, fmt.Errorf("summarize reviews: %w", err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return domain.RatingSummary{}, fmt.Errorf("summarize reviews: %w", err)
		}
		return domain.RatingSummary{}, nil
	}

	var row struct {
		Average float64 `bson:"average"`
		Count   int     `bson:"count"`
	}
	if err := cur.Decode(&row); err != nil {
		return domain.RatingSummary{}, fmt.Errorf("summarize reviews: decode: %w", err)
	}
	return domain.RatingSummary{Average: row.Average, Count: row.Count}, nil
}

// EnsureIndexes creates necessary indexes on the reviews collection.
func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "doctor_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}
