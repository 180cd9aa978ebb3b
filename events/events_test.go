package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go-courier/models"

	"github.com/gorilla/websocket"
	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type notifierFunc func(ctx context.Context, e Event) error

func (f notifierFunc) Notify(ctx context.Context, e Event) error {
	return f(ctx, e)
}

func sampleBooking() models.Booking {
	rider := "6530f1c2a1b2c3d4e5f60718"
	return models.Booking{
		ID:          primitive.NewObjectID(),
		Name:        "Rahim",
		Email:       "rahim@example.com",
		Status:      models.StatusAssigned,
		DeliveryMen: &rider,
	}
}

func TestDispatcherDeliversToEveryNotifier(t *testing.T) {
	var mu sync.Mutex
	got := map[string]Type{}
	record := func(name string) Notifier {
		return notifierFunc(func(_ context.Context, e Event) error {
			mu.Lock()
			defer mu.Unlock()
			got[name] = e.Type
			return nil
		})
	}

	var logs bytes.Buffer
	d := NewDispatcher(slog.New(slog.NewTextHandler(&logs, nil)))
	d.Register("a", record("a"))
	d.Register("b", record("b"))
	d.Register("broken", notifierFunc(func(context.Context, Event) error {
		return errors.New("broker down")
	}))

	d.Publish(NewEvent(BookingCreated, sampleBooking(), time.Now()))
	d.Wait()

	assert.Equal(t, map[string]Type{"a": BookingCreated, "b": BookingCreated}, got)
	assert.Contains(t, logs.String(), "notifier=broken")
	assert.Contains(t, logs.String(), "broker down")
}

type fakeMailer struct {
	confirmations []models.Booking
	statuses      []models.Booking
}

func (f *fakeMailer) SendBookingConfirmationEmail(b models.Booking) error {
	f.confirmations = append(f.confirmations, b)
	return nil
}

func (f *fakeMailer) SendBookingStatusEmail(b models.Booking) error {
	f.statuses = append(f.statuses, b)
	return nil
}

func TestMailNotifier(t *testing.T) {
	mailer := &fakeMailer{}
	n := NewMailNotifier(mailer)
	b := sampleBooking()

	require.NoError(t, n.Notify(context.Background(), NewEvent(BookingCreated, b, time.Now())))
	assert.Len(t, mailer.confirmations, 1)

	updated := NewEvent(BookingUpdated, b, time.Now())
	require.NoError(t, n.Notify(context.Background(), updated))
	assert.Empty(t, mailer.statuses, "no mail when the status did not change")

	updated.StatusChanged = true
	require.NoError(t, n.Notify(context.Background(), updated))
	assert.Len(t, mailer.statuses, 1)
	assert.Equal(t, b.Email, mailer.statuses[0].Email)
}

func TestBuildMessage(t *testing.T) {
	b := sampleBooking()
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	msg, err := buildMessage(NewEvent(BookingUpdated, b, at))
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp091.Persistent, msg.DeliveryMode)
	assert.Equal(t, "booking.updated", msg.Type)
	assert.Equal(t, at, msg.Timestamp)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Body, &body))
	assert.Equal(t, b.ID.Hex(), body["bookingId"])
	assert.Equal(t, "Assigned", body["status"])
	assert.Equal(t, "rahim@example.com", body["email"])
	assert.Equal(t, *b.DeliveryMen, body["deliveryMen"])
	assert.NotContains(t, body, "Booking")
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(discard, []string{"*"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	b := sampleBooking()
	require.NoError(t, hub.Notify(context.Background(), NewEvent(BookingCreated, b, time.Now())))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, BookingCreated, msg.Type)
	assert.Equal(t, b.ID.Hex(), msg.Payload.BookingID)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHubNotifyAfterStop(t *testing.T) {
	hub := NewHub(discard, nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	assert.NoError(t, hub.Notify(context.Background(), NewEvent(BookingCreated, sampleBooking(), time.Now())))
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://dash.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/ws/bookings", nil)
	assert.True(t, check(req), "non-browser clients send no origin")

	req.Header.Set("Origin", "https://dash.example.com")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, check(req))

	assert.True(t, originChecker([]string{"*"})(req))
}
