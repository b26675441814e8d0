package payment

import (
	"context"

	"thrift/internal/models"
	"thrift/internal/services/fee"
)

// Service defines the contribution payment interface
type Service interface {
	// RecordPayment records a member's contribution, charges the service
	// fee and notifies the group coordinator.
	RecordPayment(ctx context.Context, userID uint, req models.RecordPaymentRequest) (*models.Payment, *models.FeeEntry, error)

	// ChargeFee computes and charges the service fee on an existing
	// payment that does not have one yet.
	ChargeFee(ctx context.Context, paymentID uint, method string) (*models.FeeEntry, error)

	// GetPayment fetches a single payment.
	GetPayment(ctx context.Context, id uint) (*models.Payment, error)

	// ListUserPayments pages through a member's contribution history.
	ListUserPayments(ctx context.Context, userID uint, limit, offset int) ([]models.Payment, int64, error)
}

// Dependencies required by the payment service

type FeeCalculator interface {
	ComputeFee(ctx context.Context, req fee.FeeRequest) (*fee.FeeResult, error)
}

type FeeLedger interface {
	RecordFee(ctx context.Context, payment *models.Payment, result *fee.FeeResult) (*models.FeeEntry, error)
	MarkPaid(ctx context.Context, entryID uint) (*models.FeeEntry, error)
	MarkFailed(ctx context.Context, entryID uint, reason string) (*models.FeeEntry, error)
	GetEntryByPayment(ctx context.Context, paymentID uint) (*models.FeeEntry, error)
}
