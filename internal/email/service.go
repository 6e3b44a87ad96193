package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/doctorsportal/booking-api/internal/config"
	"github.com/doctorsportal/booking-api/internal/model"
)

// Service sends transactional mail. Sending is best-effort: the
// reservation engine logs failures and never rolls back a booking over
// a mail error.
type Service interface {
	SendBookingConfirmation(ctx context.Context, booking *model.Booking) error
	SendPaymentReceipt(ctx context.Context, booking *model.Booking) error
}

type smtpService struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
}

func NewService(cfg config.SMTPConfig) Service {
	return &smtpService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *smtpService) SendBookingConfirmation(ctx context.Context, booking *model.Booking) error {
	subject := fmt.Sprintf("Your appointment for %s on %s is confirmed", booking.Treatment, booking.Date)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour appointment for %s on %s at %s is booked.\n\nPlease arrive 10 minutes early.",
		booking.PatientName, booking.Treatment, booking.Date, booking.Slot,
	)
	return s.send(booking.PatientEmail, subject, body)
}

func (s *smtpService) SendPaymentReceipt(ctx context.Context, booking *model.Booking) error {
	txn := ""
	if booking.TransactionID != nil {
		txn = *booking.TransactionID
	}
	subject := fmt.Sprintf("Payment received for %s on %s", booking.Treatment, booking.Date)
	body := fmt.Sprintf(
		"Hello %s,\n\nWe received your payment for %s on %s at %s.\nTransaction: %s",
		booking.PatientName, booking.Treatment, booking.Date, booking.Slot, txn,
	)
	return s.send(booking.PatientEmail, subject, body)
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// NoopService discards all mail. Used in tests and when SMTP is not
// configured.
type NoopService struct{}

func (NoopService) SendBookingConfirmation(ctx context.Context, booking *model.Booking) error {
	return nil
}

func (NoopService) SendPaymentReceipt(ctx context.Context, booking *model.Booking) error {
	return nil
}
