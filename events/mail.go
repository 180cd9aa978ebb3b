package events

import (
	"context"

	"go-courier/models"
)

// Mailer sends booking mails to the requester
type Mailer interface {
	SendBookingConfirmationEmail(booking models.Booking) error
	SendBookingStatusEmail(booking models.Booking) error
}

// MailNotifier mails a confirmation on creation and a notice on every status change
type MailNotifier struct {
	mailer Mailer
}

func NewMailNotifier(mailer Mailer) *MailNotifier {
	return &MailNotifier{mailer: mailer}
}

func (m *MailNotifier) Notify(_ context.Context, e Event) error {
	switch {
	case e.Type == BookingCreated:
		return m.mailer.SendBookingConfirmationEmail(e.Booking)
	case e.Type == BookingUpdated && e.StatusChanged:
		return m.mailer.SendBookingStatusEmail(e.Booking)
	}
	return nil
}
