package repository

import (
	"context"
	"fmt"

	"go-courier/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CoverageRepository reads the coverage reference collection
type CoverageRepository struct {
	Collection *mongo.Collection
}

// NewCoverageRepository creates a CoverageRepository on db
func NewCoverageRepository(db *mongo.Database) *CoverageRepository {
	return &CoverageRepository{Collection: db.Collection(coverageCollection)}
}

// List returns one page of coverage areas in natural order
func (r *CoverageRepository) List(ctx context.Context, page, limit int64) ([]models.CoverageArea, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSkip(page * limit).SetLimit(limit)
	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find coverage: %w", err)
	}
	areas := []models.CoverageArea{}
	if err := cursor.All(ctx, &areas); err != nil {
		return nil, fmt.Errorf("decode coverage: %w", err)
	}
	return areas, nil
}
