package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go-courier/models"
	"go-courier/repository"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewStore is the review persistence the controller needs
type ReviewStore interface {
	Upsert(ctx context.Context, review *models.Review) (*models.WriteResult, error)
	ListByRider(ctx context.Context, riderID string) ([]models.Review, error)
	AverageRating(ctx context.Context, riderID string) (float64, error)
}

// RatingRecorder stores a rider's average rating
type RatingRecorder interface {
	SetRatingAvg(ctx context.Context, riderID primitive.ObjectID, avg float64) error
}

// ReviewController handles review-related requests
type ReviewController struct {
	Reviews ReviewStore
	Riders  RatingRecorder
	log     *slog.Logger
	now     func() time.Time
}

// NewReviewController creates a new ReviewController
func NewReviewController(reviews ReviewStore, riders RatingRecorder, log *slog.Logger) *ReviewController {
	return &ReviewController{Reviews: reviews, Riders: riders, log: log, now: time.Now}
}

type reviewRequest struct {
	BookingID     string          `json:"bookingId" validate:"required"`
	ReviewBy      models.Reviewer `json:"reviewBy"`
	Rating        float64         `json:"rating" validate:"gte=1,lte=5"`
	Feedback      string          `json:"feedback"`
	DeliveryMenID string          `json:"deliveryMenId"`
}

// UpsertReview writes the one review of a booking, then refreshes the rider's average rating
func (rc *ReviewController) UpsertReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	review := models.Review{
		BookingID:     req.BookingID,
		ReviewBy:      req.ReviewBy,
		Rating:        req.Rating,
		Feedback:      req.Feedback,
		DeliveryMenID: req.DeliveryMenID,
		ReviewDate:    rc.now().Format(dateLayout),
	}

	result, err := rc.Reviews.Upsert(r.Context(), &review)
	if err != nil {
		writeError(w, r, rc.log, err)
		return
	}

	rc.refreshRating(r.Context(), review.DeliveryMenID)
	writeJSON(w, http.StatusOK, result)
}

func (rc *ReviewController) refreshRating(ctx context.Context, rider string) {
	riderID, ok := parseObjectID(rider)
	if !ok {
		return
	}

	avg, err := rc.Reviews.AverageRating(ctx, rider)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			rc.log.Error("failed to compute rider rating", "rider", rider, "error", err)
		}
		return
	}
	if err := rc.Riders.SetRatingAvg(ctx, riderID, avg); err != nil {
		rc.log.Error("failed to store rider rating", "rider", rider, "error", err)
	}
}

// GetRiderReviews lists every review left for a rider
func (rc *ReviewController) GetRiderReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := rc.Reviews.ListByRider(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, rc.log, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
