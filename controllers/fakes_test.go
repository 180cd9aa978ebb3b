package controllers

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"go-courier/events"
	"go-courier/models"
	"go-courier/repository"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	discard   = slog.New(slog.NewTextHandler(io.Discard, nil))
	fixedTime = time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)
)

func fixedNow() time.Time { return fixedTime }

// serve routes a single request through a mux router so path variables resolve
func serve(t *testing.T, method, pattern, target, body string, h http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	router := mux.NewRouter()
	router.HandleFunc(pattern, h).Methods(method)

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type fakeEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakeEvents) Publish(e events.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

type fakeBookings struct {
	bookings map[primitive.ObjectID]models.Booking
	err      error

	from, to string
}

func newFakeBookings(seed ...models.Booking) *fakeBookings {
	f := &fakeBookings{bookings: map[primitive.ObjectID]models.Booking{}}
	for _, b := range seed {
		f.bookings[b.ID] = b
	}
	return f
}

func (f *fakeBookings) Create(_ context.Context, b *models.Booking) (primitive.ObjectID, error) {
	if f.err != nil {
		return primitive.NilObjectID, f.err
	}
	b.ID = primitive.NewObjectID()
	f.bookings[b.ID] = *b
	return b.ID, nil
}

func (f *fakeBookings) List(_ context.Context, from, to string) ([]models.BookingSummary, error) {
	f.from, f.to = from, to
	if f.err != nil {
		return nil, f.err
	}
	out := []models.BookingSummary{}
	for _, b := range f.bookings {
		out = append(out, models.BookingSummary{ID: b.ID, Name: b.Name, Status: b.Status, BookingDate: b.BookingDate})
	}
	return out, nil
}

func (f *fakeBookings) ListByRequester(_ context.Context, email string) ([]models.Booking, error) {
	out := []models.Booking{}
	for _, b := range f.bookings {
		if b.Email == email {
			out = append(out, b)
		}
	}
	return out, f.err
}

func (f *fakeBookings) ListByRider(_ context.Context, riderID string) ([]models.Consignment, error) {
	out := []models.Consignment{}
	for _, b := range f.bookings {
		if b.DeliveryMen != nil && *b.DeliveryMen == riderID {
			out = append(out, models.Consignment{ID: b.ID, Name: b.Name, Status: b.Status})
		}
	}
	return out, f.err
}

func (f *fakeBookings) GetByID(_ context.Context, id primitive.ObjectID) (*models.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (f *fakeBookings) Update(_ context.Context, id primitive.ObjectID, patch models.BookingPatch) (*models.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	before, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Status != nil && slices.Contains(models.TerminalStatuses, before.Status) && *patch.Status != before.Status {
		return nil, repository.ErrStatusLocked
	}
	f.bookings[id] = patch.Apply(before)
	return &before, nil
}

type fakeUsers struct {
	users map[string]models.User
	err   error

	listedRole string
	topLimit   int64
	credited   []primitive.ObjectID
	ratings    map[primitive.ObjectID]float64
}

func newFakeUsers(seed ...models.User) *fakeUsers {
	f := &fakeUsers{users: map[string]models.User{}, ratings: map[primitive.ObjectID]float64{}}
	for _, u := range seed {
		f.users[u.Email] = u
	}
	return f
}

func (f *fakeUsers) Register(_ context.Context, u *models.User) (primitive.ObjectID, error) {
	if f.err != nil {
		return primitive.NilObjectID, f.err
	}
	if _, ok := f.users[u.Email]; ok {
		return primitive.NilObjectID, repository.ErrAlreadyRegistered
	}
	u.ID = primitive.NewObjectID()
	f.users[u.Email] = *u
	return u.ID, nil
}

func (f *fakeUsers) ListByRole(_ context.Context, role string) ([]models.User, error) {
	f.listedRole = role
	out := []models.User{}
	for _, u := range f.users {
		if role == "" || role == "All" || string(u.Role) == role {
			out = append(out, u)
		}
	}
	return out, f.err
}

func (f *fakeUsers) GetRole(_ context.Context, email string) (*models.UserRole, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &models.UserRole{ID: u.ID, Role: u.Role}, nil
}

func (f *fakeUsers) SetRole(_ context.Context, email string, role models.Role) (*models.WriteResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	modified := int64(0)
	if u.Role != role {
		modified = 1
	}
	u.Role = role
	f.users[email] = u
	return &models.WriteResult{MatchedCount: 1, ModifiedCount: modified}, nil
}

func (f *fakeUsers) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	for email, u := range f.users {
		if u.ID == id {
			delete(f.users, email)
			return 1, nil
		}
	}
	return 0, repository.ErrNotFound
}

func (f *fakeUsers) TopRiders(_ context.Context, limit int64) (*models.TopRiders, error) {
	f.topLimit = limit
	return &models.TopRiders{ByRating: []models.RiderSummary{}, ByDelivery: []models.RiderSummary{}}, f.err
}

func (f *fakeUsers) IncrementDeliveryCount(_ context.Context, id primitive.ObjectID) error {
	f.credited = append(f.credited, id)
	return f.err
}

func (f *fakeUsers) SetRatingAvg(_ context.Context, id primitive.ObjectID, avg float64) error {
	f.ratings[id] = avg
	return f.err
}
