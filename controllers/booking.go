// controllers/booking.go
package controllers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"go-courier/events"
	"go-courier/models"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingStore is the booking persistence the controller needs
type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) (primitive.ObjectID, error)
	List(ctx context.Context, dateFrom, dateTo string) ([]models.BookingSummary, error)
	ListByRequester(ctx context.Context, email string) ([]models.Booking, error)
	ListByRider(ctx context.Context, riderID string) ([]models.Consignment, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.BookingPatch) (*models.Booking, error)
}

// DeliveryCounter credits a rider with a completed delivery
type DeliveryCounter interface {
	IncrementDeliveryCount(ctx context.Context, riderID primitive.ObjectID) error
}

// EventPublisher receives booking events; delivery happens in the background
type EventPublisher interface {
	Publish(e events.Event)
}

// BookingController handles booking-related requests
type BookingController struct {
	Bookings BookingStore
	Riders   DeliveryCounter
	Events   EventPublisher
	log      *slog.Logger
	now      func() time.Time
}

// NewBookingController creates a new BookingController
func NewBookingController(bookings BookingStore, riders DeliveryCounter, ev EventPublisher, log *slog.Logger) *BookingController {
	return &BookingController{
		Bookings: bookings,
		Riders:   riders,
		Events:   ev,
		log:      log,
		now:      time.Now,
	}
}

type bookingRequest struct {
	Name            string  `json:"name"`
	Email           string  `json:"email" validate:"required,email"`
	Phone           string  `json:"phone"`
	Type            string  `json:"type"`
	Weight          *number `json:"weight" validate:"required,gte=0"`
	ReceiverName    string  `json:"receiverName"`
	ReceiverPhone   string  `json:"receiverPhone"`
	DeliveryAddress string  `json:"deliveryAddress"`
	ReqDeliveryDate string  `json:"reqDeliveryDate"`
	DeliveryLat     *number `json:"deliveryLat" validate:"required,gte=-90,lte=90"`
	DeliveryLon     *number `json:"deliveryLon" validate:"required,gte=-180,lte=180"`
}

// CreateBooking stores a new Pending booking with its fee worked out from the weight
func (bc *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	booking := models.Booking{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Type:            req.Type,
		Weight:          float64(*req.Weight),
		DeliveryFee:     models.DeliveryFee(float64(*req.Weight)),
		ReceiverName:    req.ReceiverName,
		ReceiverPhone:   req.ReceiverPhone,
		DeliveryAddress: req.DeliveryAddress,
		ReqDeliveryDate: req.ReqDeliveryDate,
		DeliveryLat:     float64(*req.DeliveryLat),
		DeliveryLon:     float64(*req.DeliveryLon),
		Status:          models.StatusPending,
		BookingDate:     bc.now().Format(dateLayout),
	}

	id, err := bc.Bookings.Create(r.Context(), &booking)
	if err != nil {
		writeError(w, r, bc.log, err)
		return
	}
	booking.ID = id

	bc.Events.Publish(events.NewEvent(events.BookingCreated, booking, bc.now()))
	writeJSON(w, http.StatusOK, map[string]interface{}{"insertedId": id})
}

// GetBookings lists booking summaries, optionally between dateFrom and dateTo (inclusive)
func (bc *BookingController) GetBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	dateFrom, dateTo := query.Get("dateFrom"), query.Get("dateTo")
	for _, d := range []string{dateFrom, dateTo} {
		if d != "" && !validDate(d) {
			writeMessage(w, http.StatusBadRequest, "Dates must be YYYY-MM-DD")
			return
		}
	}

	bookings, err := bc.Bookings.List(r.Context(), dateFrom, dateTo)
	if err != nil {
		writeError(w, r, bc.log, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// GetBookingsByEmail lists the full bookings of one requester
func (bc *BookingController) GetBookingsByEmail(w http.ResponseWriter, r *http.Request) {
	bookings, err := bc.Bookings.ListByRequester(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		writeError(w, r, bc.log, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// GetConsignments lists the bookings assigned to a rider
func (bc *BookingController) GetConsignments(w http.ResponseWriter, r *http.Request) {
	consignments, err := bc.Bookings.ListByRider(r.Context(), mux.Vars(r)["uId"])
	if err != nil {
		writeError(w, r, bc.log, err)
		return
	}
	writeJSON(w, http.StatusOK, consignments)
}

// GetBookingByID returns one booking
func (bc *BookingController) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseObjectID(mux.Vars(r)["id"])
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	booking, err := bc.Bookings.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, bc.log, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// UpdateBooking applies a partial update limited to status, deliveryMen and approxDeliveryDate
func (bc *BookingController) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := parseObjectID(mux.Vars(r)["id"])
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	patch, msg := decodePatch(r)
	if msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	before, err := bc.Bookings.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, bc.log, err)
		return
	}

	after := patch.Apply(*before)
	statusChanged := after.Status != before.Status
	modified := int64(0)
	if statusChanged || !sameString(before.DeliveryMen, after.DeliveryMen) || !sameString(before.ApproxDeliveryDate, after.ApproxDeliveryDate) {
		modified = 1
	}

	if statusChanged && after.Status == models.StatusDelivered && after.DeliveryMen != nil {
		bc.creditRider(r, *after.DeliveryMen)
	}

	if modified > 0 {
		e := events.NewEvent(events.BookingUpdated, after, bc.now())
		e.StatusChanged = statusChanged
		bc.Events.Publish(e)
	}

	writeJSON(w, http.StatusOK, models.WriteResult{MatchedCount: 1, ModifiedCount: modified})
}

func (bc *BookingController) creditRider(r *http.Request, rider string) {
	riderID, ok := parseObjectID(rider)
	if !ok {
		bc.log.Warn("delivered booking has a malformed rider id", "rider", rider)
		return
	}
	if err := bc.Riders.IncrementDeliveryCount(r.Context(), riderID); err != nil {
		bc.log.Error("failed to credit rider delivery", "rider", rider, "error", err)
	}
}

// decodePatch reads a booking patch, refusing unknown fields. A non-empty message means a bad request.
func decodePatch(r *http.Request) (models.BookingPatch, string) {
	var patch models.BookingPatch

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		return patch, "Only status, deliveryMen and approxDeliveryDate can be updated"
	}
	if patch.IsEmpty() {
		return patch, "Nothing to update"
	}
	if err := validate.Struct(patch); err != nil {
		return patch, validationMessage(err)
	}
	if d := patch.ApproxDeliveryDate.Value; d != nil && *d != "" && !validDate(*d) {
		return patch, "approxDeliveryDate must be YYYY-MM-DD"
	}
	return patch, ""
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
