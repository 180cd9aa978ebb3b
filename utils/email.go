// utils/email.go
package utils

import (
	"fmt"
	"go-courier/models"

	"github.com/keighl/postmark"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
	sender string
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService(apiToken, sender string) *EmailService {
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
		sender: sender,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendBookingConfirmationEmail tells the requester their booking was received
func (es *EmailService) SendBookingConfirmationEmail(booking models.Booking) error {
	subject := "Booking Confirmation"
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Your booking (ID: %s) for a parcel to <strong>%s</strong> has been received on %s.<br><br>Delivery fee: <strong>%d</strong><br>Requested delivery date: <strong>%s</strong><br><br>We will let you know once a rider is on the way.",
		booking.Name,
		booking.ID.Hex(),
		booking.ReceiverName,
		booking.BookingDate,
		booking.DeliveryFee,
		booking.ReqDeliveryDate,
	)

	return es.SendEmail(booking.Email, subject, htmlContent)
}

// SendBookingStatusEmail tells the requester their booking changed status
func (es *EmailService) SendBookingStatusEmail(booking models.Booking) error {
	subject := fmt.Sprintf("Booking %s", booking.Status)
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Your booking (ID: %s) is now <strong>%s</strong>.",
		booking.Name,
		booking.ID.Hex(),
		booking.Status,
	)
	if booking.ApproxDeliveryDate != nil && *booking.ApproxDeliveryDate != "" {
		htmlContent += fmt.Sprintf("<br>Approximate delivery date: <strong>%s</strong>", *booking.ApproxDeliveryDate)
	}

	return es.SendEmail(booking.Email, subject, htmlContent)
}
