// Package notification delivers user-facing messages for fee events.
// Delivery is best effort; callers fire and forget, failures are logged.
package notification

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"thrift/internal/models"
)

// Notifier delivers in-app notifications for fee lifecycle events.
type Notifier interface {
	NotifyFeeCharged(ctx context.Context, userID uint, entry *models.FeeEntry) error
	NotifyFeeRefunded(ctx context.Context, userID uint, entry *models.FeeEntry, amount float64, reason string) error
	NotifyPaymentRecorded(ctx context.Context, coordinatorID uint, payment *models.Payment) error
}

// Mailer sends report artifacts and summaries over email.
type Mailer interface {
	SendReport(ctx context.Context, to, subject, attachmentName string, attachment []byte) error
}

// Service is a minimal notification service implementation.
type Service struct{}

// NewService creates a new notification service.
func NewService() *Service { return &Service{} }

// NotifyFeeCharged logs a fee charged notification.
func (s *Service) NotifyFeeCharged(ctx context.Context, userID uint, entry *models.FeeEntry) error {
	log.Printf("Notify user %d of fee %.2f on payment %d", userID, entry.FeeAmount, entry.PaymentID)
	return nil
}

// NotifyFeeRefunded logs a refund notification.
func (s *Service) NotifyFeeRefunded(ctx context.Context, userID uint, entry *models.FeeEntry, amount float64, reason string) error {
	log.Printf("Notify user %d of refund %.2f on fee entry %d (%s)", userID, amount, entry.ID, reason)
	return nil
}

// NotifyPaymentRecorded logs a coordinator notification.
func (s *Service) NotifyPaymentRecorded(ctx context.Context, coordinatorID uint, payment *models.Payment) error {
	log.Printf("Notify coordinator %d of payment %d (%.2f)", coordinatorID, payment.ID, payment.Amount)
	return nil
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewSMTPMailer creates a mailer for the given relay.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{Host: host, Port: port, Username: username, Password: password, From: from}
}

// SendReport mails the artifact as a base64 attachment.
func (m *SMTPMailer) SendReport(_ context.Context, to, subject, attachmentName string, attachment []byte) error {
	msg := buildMIMEMessage(m.From, to, subject, attachmentName, attachment)

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	if err := smtp.SendMail(addr, auth, m.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send report email: %w", err)
	}
	return nil
}

const mimeBoundary = "fee-report-boundary"

func buildMIMEMessage(from, to, subject, attachmentName string, attachment []byte) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", mimeBoundary)

	fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString("Your requested fee report is attached.\r\n\r\n")

	fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
	fmt.Fprintf(&b, "Content-Type: application/octet-stream; name=%q\r\n", attachmentName)
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(&b, "Content-Disposition: attachment; filename=%q\r\n\r\n", attachmentName)

	encoded := base64.StdEncoding.EncodeToString(attachment)
	for len(encoded) > 76 {
		b.WriteString(encoded[:76] + "\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded + "\r\n")
	fmt.Fprintf(&b, "--%s--\r\n", mimeBoundary)

	return []byte(b.String())
}
