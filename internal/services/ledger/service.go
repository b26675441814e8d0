// Package ledger owns the fee entry lifecycle. Entries are append-only:
// they move PENDING -> PAID -> (PARTIALLY_REFUNDED ->) REFUNDED, or
// PENDING -> FAILED, and are never deleted.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"thrift/internal/models"
	"thrift/internal/repositories"
	"thrift/internal/services/fee"
	"thrift/internal/services/notification"
)

// Service errors
var (
	ErrFeeNotFound       = errors.New("fee entry not found")
	ErrInvalidTransition = errors.New("invalid fee status transition")
)

// Service records fees and drives their status transitions.
type Service interface {
	// RecordFee creates a PENDING ledger entry for a computed fee.
	RecordFee(ctx context.Context, payment *models.Payment, result *fee.FeeResult) (*models.FeeEntry, error)

	// MarkPaid moves a PENDING entry to PAID and stamps the paid date.
	MarkPaid(ctx context.Context, entryID uint) (*models.FeeEntry, error)

	// MarkFailed moves a PENDING entry to FAILED with the failure reason.
	MarkFailed(ctx context.Context, entryID uint, reason string) (*models.FeeEntry, error)

	// GetEntry fetches a single ledger entry.
	GetEntry(ctx context.Context, entryID uint) (*models.FeeEntry, error)

	// GetEntryByPayment fetches the ledger entry charged on a payment.
	GetEntryByPayment(ctx context.Context, paymentID uint) (*models.FeeEntry, error)
}

type service struct {
	entries  repositories.FeeEntryRepository
	notifier notification.Notifier
}

// NewService creates a new fee ledger service
func NewService(entries repositories.FeeEntryRepository, notifier notification.Notifier) Service {
	if entries == nil {
		panic("fee entry repository is required")
	}
	if notifier == nil {
		panic("notifier is required")
	}
	return &service{entries: entries, notifier: notifier}
}

func (s *service) RecordFee(ctx context.Context, payment *models.Payment, result *fee.FeeResult) (*models.FeeEntry, error) {
	entry := &models.FeeEntry{
		UserID:            payment.UserID,
		GroupID:           payment.GroupID,
		PaymentID:         payment.ID,
		OriginalAmount:    result.BaseAmount,
		FeeAmount:         result.FeeAmount,
		FeePercentage:     result.Rate,
		CalculationMethod: result.Method,
		Status:            models.FeeStatusPending,
		Details:           models.JSON(result.Details),
		ChargeDate:        time.Now(),
	}

	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record fee: %w", err)
	}

	// Best effort, never blocks the charge path.
	go func(e models.FeeEntry) {
		if err := s.notifier.NotifyFeeCharged(context.Background(), e.UserID, &e); err != nil {
			log.Printf("fee charged notification failed: %v", err)
		}
	}(*entry)

	return entry, nil
}

func (s *service) MarkPaid(ctx context.Context, entryID uint) (*models.FeeEntry, error) {
	entry, err := s.getEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != models.FeeStatusPending {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, entry.Status, models.FeeStatusPaid)
	}

	now := time.Now()
	entry.Status = models.FeeStatusPaid
	entry.PaidDate = &now

	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to mark fee paid: %w", err)
	}
	return entry, nil
}

func (s *service) MarkFailed(ctx context.Context, entryID uint, reason string) (*models.FeeEntry, error) {
	entry, err := s.getEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != models.FeeStatusPending {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, entry.Status, models.FeeStatusFailed)
	}

	entry.Status = models.FeeStatusFailed
	// Keep the calculation details recorded at charge time.
	if entry.Details == nil {
		entry.Details = models.JSON{}
	}
	entry.Details["failure_reason"] = reason

	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to mark fee failed: %w", err)
	}
	return entry, nil
}

func (s *service) GetEntry(ctx context.Context, entryID uint) (*models.FeeEntry, error) {
	return s.getEntry(ctx, entryID)
}

func (s *service) GetEntryByPayment(ctx context.Context, paymentID uint) (*models.FeeEntry, error) {
	entry, err := s.entries.GetByPaymentID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrFeeEntryNotFound) {
			return nil, ErrFeeNotFound
		}
		return nil, fmt.Errorf("failed to get fee entry: %w", err)
	}
	return entry, nil
}

func (s *service) getEntry(ctx context.Context, entryID uint) (*models.FeeEntry, error) {
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repositories.ErrFeeEntryNotFound) {
			return nil, ErrFeeNotFound
		}
		return nil, fmt.Errorf("failed to get fee entry: %w", err)
	}
	return entry, nil
}
