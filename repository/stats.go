package repository

import (
	"context"
	"fmt"

	"go-courier/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// StatsRepository computes dashboard counts over bookings and users
type StatsRepository struct {
	Bookings *mongo.Collection
	Users    *mongo.Collection
}

// NewStatsRepository creates a StatsRepository on db
func NewStatsRepository(db *mongo.Database) *StatsRepository {
	return &StatsRepository{
		Bookings: db.Collection(bookingsCollection),
		Users:    db.Collection(usersCollection),
	}
}

// Counts returns the estimated booking total and exact delivered/customer counts
func (r *StatsRepository) Counts(ctx context.Context) (*models.Counter, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	bookingCount, err := r.Bookings.EstimatedDocumentCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("estimate bookings: %w", err)
	}
	deliveryCount, err := r.Bookings.CountDocuments(ctx, bson.M{"status": models.StatusDelivered})
	if err != nil {
		return nil, fmt.Errorf("count delivered bookings: %w", err)
	}
	userCount, err := r.Users.CountDocuments(ctx, bson.M{"role": models.RoleUser})
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	return &models.Counter{
		BookingCount:  bookingCount,
		DeliveryCount: deliveryCount,
		UserCount:     userCount,
	}, nil
}
