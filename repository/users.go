package repository

import (
	"context"
	"errors"
	"fmt"

	"go-courier/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository reads and writes the users collection
type UserRepository struct {
	Collection *mongo.Collection
}

// NewUserRepository creates a UserRepository on db
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{Collection: db.Collection(usersCollection)}
}

// Register inserts a new user. The unique email index turns a second registration into ErrAlreadyRegistered.
func (r *UserRepository) Register(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := r.Collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrAlreadyRegistered
		}
		return primitive.NilObjectID, fmt.Errorf("insert user: %w", err)
	}

	id, _ := result.InsertedID.(primitive.ObjectID)
	return id, nil
}

// ListByRole returns every user when role is empty or "All", otherwise the users with that role
func (r *UserRepository) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{}
	if role != "" && role != "All" {
		filter = bson.M{"role": role}
	}

	cursor, err := r.Collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

// GetRole returns the role of the user with the given email
func (r *UserRepository) GetRole(ctx context.Context, email string) (*models.UserRole, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"role": 1})
	var role models.UserRole
	err := r.Collection.FindOne(ctx, bson.M{"email": email}, opts).Decode(&role)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user role: %w", err)
	}
	return &role, nil
}

// SetRole changes the role of an existing user
func (r *UserRepository) SetRole(ctx context.Context, email string, role models.Role) (*models.WriteResult, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := r.Collection.UpdateOne(ctx, bson.M{"email": email}, bson.M{
		"$set": bson.M{"role": role},
	})
	if err != nil {
		return nil, fmt.Errorf("update user role: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return &models.WriteResult{MatchedCount: result.MatchedCount, ModifiedCount: result.ModifiedCount}, nil
}

// Delete removes a user by id
func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return 0, ErrNotFound
	}
	return result.DeletedCount, nil
}

// TopRiders returns the best riders by rating and, separately, by completed deliveries
func (r *UserRepository) TopRiders(ctx context.Context, limit int64) (*models.TopRiders, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	byRating, err := r.ridersSortedBy(ctx, "ratingAvg", limit)
	if err != nil {
		return nil, err
	}
	byDelivery, err := r.ridersSortedBy(ctx, "deliveryCount", limit)
	if err != nil {
		return nil, err
	}
	return &models.TopRiders{ByRating: byRating, ByDelivery: byDelivery}, nil
}

func (r *UserRepository) ridersSortedBy(ctx context.Context, field string, limit int64) ([]models.RiderSummary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: field, Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(limit).
		SetProjection(bson.M{"name": 1, "photo": 1, "ratingAvg": 1, "deliveryCount": 1})

	cursor, err := r.Collection.Find(ctx, bson.M{"role": models.RoleRider}, opts)
	if err != nil {
		return nil, fmt.Errorf("find riders by %s: %w", field, err)
	}
	riders := []models.RiderSummary{}
	if err := cursor.All(ctx, &riders); err != nil {
		return nil, fmt.Errorf("decode riders: %w", err)
	}
	return riders, nil
}

// IncrementDeliveryCount adds one completed delivery to a rider
func (r *UserRepository) IncrementDeliveryCount(ctx context.Context, riderID primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": riderID}, bson.M{
		"$inc": bson.M{"deliveryCount": 1},
	})
	if err != nil {
		return fmt.Errorf("increment delivery count: %w", err)
	}
	return nil
}

// SetRatingAvg stores a rider's recomputed average rating
func (r *UserRepository) SetRatingAvg(ctx context.Context, riderID primitive.ObjectID, avg float64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": riderID}, bson.M{
		"$set": bson.M{"ratingAvg": avg},
	})
	if err != nil {
		return fmt.Errorf("set rating average: %w", err)
	}
	return nil
}
