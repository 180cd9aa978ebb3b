package repository

import (
	"context"
	"fmt"

	"go-courier/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReviewRepository reads and writes the reviews collection
type ReviewRepository struct {
	Collection *mongo.Collection
}

// NewReviewRepository creates a ReviewRepository on db
func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{Collection: db.Collection(reviewsCollection)}
}

// Upsert writes the review for review.BookingID, replacing the fields of any earlier one
func (r *ReviewRepository) Upsert(ctx context.Context, review *models.Review) (*models.WriteResult, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"reviewBy": bson.M{
				"name":  review.ReviewBy.Name,
				"photo": review.ReviewBy.Photo,
			},
			"rating":        review.Rating,
			"feedback":      review.Feedback,
			"deliveryMenId": review.DeliveryMenID,
			"bookingId":     review.BookingID,
			"reviewDate":    review.ReviewDate,
		},
	}
	opts := options.Update().SetUpsert(true)

	result, err := r.Collection.UpdateOne(ctx, bson.M{"bookingId": review.BookingID}, update, opts)
	if err != nil {
		return nil, fmt.Errorf("upsert review: %w", err)
	}
	return &models.WriteResult{
		MatchedCount:  result.MatchedCount,
		ModifiedCount: result.ModifiedCount,
		UpsertedID:    result.UpsertedID,
	}, nil
}

// ListByRider returns every review left for a rider
func (r *ReviewRepository) ListByRider(ctx context.Context, riderID string) ([]models.Review, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := r.Collection.Find(ctx, bson.M{"deliveryMenId": riderID})
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	return reviews, nil
}

// AverageRating computes a rider's mean rating over all their reviews
func (r *ReviewRepository) AverageRating(ctx context.Context, riderID string) (float64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"deliveryMenId": riderID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "avg": bson.M{"$avg": "$rating"}}}},
	}
	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate ratings: %w", err)
	}

	var results []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("decode ratings: %w", err)
	}
	if len(results) == 0 {
		return 0, ErrNotFound
	}
	return results[0].Avg, nil
}
