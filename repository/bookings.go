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

var (
	summaryProjection = bson.M{
		"name":            1,
		"phone":           1,
		"bookingDate":     1,
		"reqDeliveryDate": 1,
		"deliveryFee":     1,
		"status":          1,
	}
	consignmentProjection = bson.M{
		"name":               1,
		"receiverName":       1,
		"phone":              1,
		"reqDeliveryDate":    1,
		"approxDeliveryDate": 1,
		"receiverPhone":      1,
		"deliveryAddress":    1,
		"deliveryLat":        1,
		"deliveryLon":        1,
		"status":             1,
	}
)

// BookingRepository reads and writes the bookings collection
type BookingRepository struct {
	Collection *mongo.Collection
}

// NewBookingRepository creates a BookingRepository on db
func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{Collection: db.Collection(bookingsCollection)}
}

// Create stores a new booking and sets its ID
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) (primitive.ObjectID, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	if _, err := r.Collection.InsertOne(ctx, booking); err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert booking: %w", err)
	}
	return booking.ID, nil
}

// List returns the summary of every booking, or of those booked between dateFrom and dateTo inclusive
func (r *BookingRepository) List(ctx context.Context, dateFrom, dateTo string) ([]models.BookingSummary, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{}
	if dateFrom != "" && dateTo != "" {
		filter = bson.M{"bookingDate": bson.M{"$gte": dateFrom, "$lte": dateTo}}
	}

	cursor, err := r.Collection.Find(ctx, filter, options.Find().SetProjection(summaryProjection))
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	bookings := []models.BookingSummary{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	return bookings, nil
}

// ListByRequester returns the full bookings made by email
func (r *BookingRepository) ListByRequester(ctx context.Context, email string) ([]models.Booking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := r.Collection.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("find bookings by email: %w", err)
	}
	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	return bookings, nil
}

// ListByRider returns the consignments assigned to a rider
func (r *BookingRepository) ListByRider(ctx context.Context, riderID string) ([]models.Consignment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetProjection(consignmentProjection)
	cursor, err := r.Collection.Find(ctx, bson.M{"deliveryMen": riderID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find consignments: %w", err)
	}
	consignments := []models.Consignment{}
	if err := cursor.All(ctx, &consignments); err != nil {
		return nil, fmt.Errorf("decode consignments: %w", err)
	}
	return consignments, nil
}

// GetByID returns a single booking
func (r *BookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var booking models.Booking
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return &booking, nil
}

// Update sets the patch fields and returns the booking as it was before.
// A status change is refused once the booking has reached a terminal status,
// unless it sets the status it already has.
func (r *BookingRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.BookingPatch) (*models.Booking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	set := bson.M{}
	filter := bson.M{"_id": id}
	if patch.Status != nil {
		set["status"] = *patch.Status
		filter["$or"] = bson.A{
			bson.M{"status": bson.M{"$nin": models.TerminalStatuses}},
			bson.M{"status": *patch.Status},
		}
	}
	// a nil Value is stored as null
	if patch.DeliveryMen.Set {
		set["deliveryMen"] = patch.DeliveryMen.Value
	}
	if patch.ApproxDeliveryDate.Set {
		set["approxDeliveryDate"] = patch.ApproxDeliveryDate.Value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)
	var before models.Booking
	err := r.Collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&before)
	if err == nil {
		return &before, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update booking: %w", err)
	}
	if patch.Status == nil {
		return nil, ErrNotFound
	}

	count, err := r.Collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("count booking: %w", err)
	}
	if count == 0 {
		return nil, ErrNotFound
	}
	return nil, ErrStatusLocked
}
