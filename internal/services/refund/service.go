// Package refund is the admin-facing engine for returning or correcting
// charged fees. Every mutation leaves an immutable audit record behind.
package refund

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"thrift/internal/models"
	"thrift/internal/repositories"
	"thrift/internal/services/notification"

	"github.com/google/uuid"
)

// Service defines the refund and adjustment operations.
type Service interface {
	// ProcessRefund refunds part or all of a charged fee. The amount is
	// bounded by the entry's remaining balance, not the original fee.
	ProcessRefund(ctx context.Context, req RefundRequest) (*models.RefundRecord, error)

	// ProcessAdjustment corrects the fee amount without moving refund money.
	ProcessAdjustment(ctx context.Context, req AdjustmentRequest) (*models.AdjustmentRecord, error)

	// ProcessBulkRefund refunds a percentage across many entries. Per-item
	// failures are collected, never fatal.
	ProcessBulkRefund(ctx context.Context, req BulkRefundRequest) (*BulkRefundResult, error)

	// BulkRefundCandidates lists PAID, unrefunded entries matching the
	// criteria. Read-only.
	BulkRefundCandidates(ctx context.Context, criteria repositories.RefundCandidateCriteria) ([]models.FeeEntry, error)
}

type service struct {
	entries  repositories.FeeEntryRepository
	refunds  repositories.RefundRepository
	payments repositories.PaymentRepository
	gateway  Gateway
	notifier notification.Notifier
}

// NewService creates a new refund service
func NewService(
	entries repositories.FeeEntryRepository,
	refunds repositories.RefundRepository,
	payments repositories.PaymentRepository,
	gateway Gateway,
	notifier notification.Notifier,
) Service {
	if entries == nil {
		panic("fee entry repository is required")
	}
	if refunds == nil {
		panic("refund repository is required")
	}
	if payments == nil {
		panic("payment repository is required")
	}
	if gateway == nil {
		gateway = NoopGateway{}
	}
	if notifier == nil {
		panic("notifier is required")
	}
	return &service{
		entries:  entries,
		refunds:  refunds,
		payments: payments,
		gateway:  gateway,
		notifier: notifier,
	}
}

func (s *service) ProcessRefund(ctx context.Context, req RefundRequest) (*models.RefundRecord, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !models.ValidRefundReason(req.Reason) {
		return nil, ErrInvalidReason
	}

	entry, err := s.getEntry(ctx, req.FeeEntryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != models.FeeStatusPaid && entry.Status != models.FeeStatusPartiallyRefunded {
		return nil, fmt.Errorf("%w: status %s", ErrNotRefundable, entry.Status)
	}
	if req.Amount > entry.RemainingBalance() {
		return nil, ErrExceedsOriginal
	}

	// Return the money first; the ledger is only touched after the gateway
	// accepted the refund.
	if err := s.executeGatewayRefund(ctx, entry, req.Amount); err != nil {
		return nil, err
	}

	entry.RefundedAmount = round2(entry.RefundedAmount + req.Amount)
	entry.Status = entry.DeriveRefundStatus()

	record := &models.RefundRecord{
		FeeEntryID: entry.ID,
		Amount:     req.Amount,
		Reason:     req.Reason,
		AdminID:    req.AdminID,
		Notes:      req.Notes,
		Reference:  uuid.New().String(),
	}

	if err := s.refunds.ApplyRefund(ctx, entry, record); err != nil {
		return nil, fmt.Errorf("failed to apply refund: %w", err)
	}

	go func(e models.FeeEntry, amount float64, reason models.RefundReason) {
		if err := s.notifier.NotifyFeeRefunded(context.Background(), e.UserID, &e, amount, string(reason)); err != nil {
			log.Printf("refund notification failed: %v", err)
		}
	}(*entry, req.Amount, req.Reason)

	return record, nil
}

func (s *service) ProcessAdjustment(ctx context.Context, req AdjustmentRequest) (*models.AdjustmentRecord, error) {
	entry, err := s.getEntry(ctx, req.FeeEntryID)
	if err != nil {
		return nil, err
	}
	if entry.FeeAmount+req.AdjustmentAmount < 0 {
		return nil, ErrNegativeFee
	}
	// The refunded amount must never exceed the fee on record.
	if entry.FeeAmount+req.AdjustmentAmount < entry.RefundedAmount {
		return nil, ErrBelowRefunded
	}

	entry.FeeAmount = round2(entry.FeeAmount + req.AdjustmentAmount)
	entry.Status = entry.DeriveRefundStatus()

	record := &models.AdjustmentRecord{
		FeeEntryID: entry.ID,
		Amount:     req.AdjustmentAmount,
		Reason:     req.Reason,
		AdminID:    req.AdminID,
		Notes:      req.Notes,
	}

	if err := s.refunds.ApplyAdjustment(ctx, entry, record); err != nil {
		return nil, fmt.Errorf("failed to apply adjustment: %w", err)
	}
	return record, nil
}

func (s *service) ProcessBulkRefund(ctx context.Context, req BulkRefundRequest) (*BulkRefundResult, error) {
	if req.RefundPercentage <= 0 || req.RefundPercentage > 100 {
		return nil, ErrInvalidAmount
	}
	if !models.ValidRefundReason(req.Reason) {
		return nil, ErrInvalidReason
	}

	result := &BulkRefundResult{Refunds: make([]models.RefundRecord, 0, len(req.FeeEntryIDs))}
	for _, id := range req.FeeEntryIDs {
		entry, err := s.getEntry(ctx, id)
		if err != nil {
			result.skip(id, err)
			continue
		}
		if entry.Status != models.FeeStatusPaid {
			result.skip(id, fmt.Errorf("%w: status %s", ErrNotRefundable, entry.Status))
			continue
		}

		amount := round2(entry.FeeAmount * req.RefundPercentage / 100)
		record, err := s.ProcessRefund(ctx, RefundRequest{
			FeeEntryID: id,
			Amount:     amount,
			Reason:     req.Reason,
			AdminID:    req.AdminID,
			Notes:      fmt.Sprintf("bulk refund %.0f%%", req.RefundPercentage),
		})
		if err != nil {
			result.skip(id, err)
			continue
		}
		result.Processed++
		result.Refunds = append(result.Refunds, *record)
	}
	return result, nil
}

func (s *service) BulkRefundCandidates(ctx context.Context, criteria repositories.RefundCandidateCriteria) ([]models.FeeEntry, error) {
	return s.entries.ListCandidates(ctx, criteria)
}

func (s *service) executeGatewayRefund(ctx context.Context, entry *models.FeeEntry, amount float64) error {
	payment, err := s.payments.GetByID(ctx, entry.PaymentID)
	if err != nil {
		// Entries recorded before payments are kept refundable as internal
		// credits.
		log.Printf("refund without payment record for fee entry %d: %v", entry.ID, err)
		return nil
	}
	if payment.ChargeID == "" {
		return nil
	}
	return s.gateway.Refund(ctx, payment.ChargeID, amount)
}

func (s *service) getEntry(ctx context.Context, id uint) (*models.FeeEntry, error) {
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrFeeEntryNotFound) {
			return nil, ErrFeeNotFound
		}
		return nil, fmt.Errorf("failed to get fee entry: %w", err)
	}
	return entry, nil
}

func (r *BulkRefundResult) skip(id uint, err error) {
	log.Printf("bulk refund skipped entry %d: %v", id, err)
	r.Skipped++
	r.Failures = append(r.Failures, BulkRefundFailure{FeeEntryID: id, Reason: err.Error()})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
