// Package payment records contribution payments and charges the service
// fee on each one through the fee ledger.
package payment

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
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrGroupNotFound     = errors.New("group not found")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrFeeAlreadyCharged = errors.New("fee already charged for payment")
)

type service struct {
	payments   repositories.PaymentRepository
	groups     repositories.GroupRepository
	calculator FeeCalculator
	ledger     FeeLedger
	notifier   notification.Notifier
}

// NewService creates a new payment service
func NewService(
	payments repositories.PaymentRepository,
	groups repositories.GroupRepository,
	calculator FeeCalculator,
	ledger FeeLedger,
	notifier notification.Notifier,
) Service {
	if payments == nil {
		panic("payment repository is required")
	}
	if groups == nil {
		panic("group repository is required")
	}
	if calculator == nil {
		panic("fee calculator is required")
	}
	if ledger == nil {
		panic("fee ledger is required")
	}
	if notifier == nil {
		panic("notifier is required")
	}
	return &service{
		payments:   payments,
		groups:     groups,
		calculator: calculator,
		ledger:     ledger,
		notifier:   notifier,
	}
}

func (s *service) RecordPayment(ctx context.Context, userID uint, req models.RecordPaymentRequest) (*models.Payment, *models.FeeEntry, error) {
	if req.Amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	group, err := s.groups.GetByID(ctx, req.GroupID)
	if err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return nil, nil, ErrGroupNotFound
		}
		return nil, nil, fmt.Errorf("failed to get group: %w", err)
	}

	method := models.CalculationMethod(req.Method)
	if method == "" {
		method = models.MethodStandard
	}

	result, err := s.calculator.ComputeFee(ctx, fee.FeeRequest{
		Amount:  req.Amount,
		UserID:  userID,
		GroupID: group.ID,
		Method:  method,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute fee: %w", err)
	}

	now := time.Now()
	payment := &models.Payment{
		UserID:   userID,
		GroupID:  group.ID,
		Amount:   req.Amount,
		Status:   models.PaymentStatusPaid,
		ChargeID: req.ChargeID,
		DueDate:  now,
		PaidDate: &now,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, nil, fmt.Errorf("failed to record payment: %w", err)
	}

	entry, err := s.ledger.RecordFee(ctx, payment, result)
	if err != nil {
		return nil, nil, err
	}

	// The contribution already settled, so the fee settles with it.
	entry, err = s.ledger.MarkPaid(ctx, entry.ID)
	if err != nil {
		return nil, nil, err
	}

	go func(coordinatorID uint, p models.Payment) {
		if err := s.notifier.NotifyPaymentRecorded(context.Background(), coordinatorID, &p); err != nil {
			log.Printf("payment notification failed: %v", err)
		}
	}(group.CoordinatorID, *payment)

	return payment, entry, nil
}

func (s *service) ChargeFee(ctx context.Context, paymentID uint, method string) (*models.FeeEntry, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	if existing, err := s.ledger.GetEntryByPayment(ctx, p.ID); err == nil && existing != nil {
		return nil, ErrFeeAlreadyCharged
	}

	calcMethod := models.CalculationMethod(method)
	if calcMethod == "" {
		calcMethod = models.MethodStandard
	}

	result, err := s.calculator.ComputeFee(ctx, fee.FeeRequest{
		Amount:  p.Amount,
		UserID:  p.UserID,
		GroupID: p.GroupID,
		Method:  calcMethod,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute fee: %w", err)
	}

	entry, err := s.ledger.RecordFee(ctx, p, result)
	if err != nil {
		return nil, err
	}

	// A settled contribution settles its fee immediately.
	if p.Status == models.PaymentStatusPaid {
		return s.ledger.MarkPaid(ctx, entry.ID)
	}
	return entry, nil
}

func (s *service) GetPayment(ctx context.Context, id uint) (*models.Payment, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

func (s *service) ListUserPayments(ctx context.Context, userID uint, limit, offset int) ([]models.Payment, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.payments.ListByUser(ctx, userID, limit, offset)
}
