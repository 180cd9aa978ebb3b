// Package repository holds the MongoDB access for users, bookings, reviews and coverage areas.
// Every call is bounded by queryTimeout on top of the caller's context.
package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

const queryTimeout = 5 * time.Second

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

// Repository groups the collections the HTTP layer works on
type Repository struct {
	Users    *UserRepository
	Bookings *BookingRepository
	Reviews  *ReviewRepository
	Coverage *CoverageRepository
	Stats    *StatsRepository
}

// NewRepository wires every repository to the same database handle
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		Users:    NewUserRepository(db),
		Bookings: NewBookingRepository(db),
		Reviews:  NewReviewRepository(db),
		Coverage: NewCoverageRepository(db),
		Stats:    NewStatsRepository(db),
	}
}
