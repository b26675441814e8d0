package refund

import (
	"context"
	"testing"
	"time"

	"thrift/internal/models"
	"thrift/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockEntries struct {
	mock.Mock
}

func (m *MockEntries) Create(ctx context.Context, entry *models.FeeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntries) GetByID(ctx context.Context, id uint) (*models.FeeEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeeEntry), args.Error(1)
}

func (m *MockEntries) GetByPaymentID(ctx context.Context, paymentID uint) (*models.FeeEntry, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeeEntry), args.Error(1)
}

func (m *MockEntries) Update(ctx context.Context, entry *models.FeeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntries) ListCandidates(ctx context.Context, criteria repositories.RefundCandidateCriteria) ([]models.FeeEntry, error) {
	args := m.Called(ctx, criteria)
	return args.Get(0).([]models.FeeEntry), args.Error(1)
}

func (m *MockEntries) ListByDateRange(ctx context.Context, start, end time.Time) ([]models.FeeEntry, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]models.FeeEntry), args.Error(1)
}

func (m *MockEntries) Statistics(ctx context.Context, start, end time.Time) (*models.FeeStatistics, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(*models.FeeStatistics), args.Error(1)
}

func (m *MockEntries) TopUsers(ctx context.Context, start, end time.Time, limit int) ([]models.EntityFeeTotal, error) {
	args := m.Called(ctx, start, end, limit)
	return args.Get(0).([]models.EntityFeeTotal), args.Error(1)
}

func (m *MockEntries) TopGroups(ctx context.Context, start, end time.Time, limit int) ([]models.EntityFeeTotal, error) {
	args := m.Called(ctx, start, end, limit)
	return args.Get(0).([]models.EntityFeeTotal), args.Error(1)
}

func (m *MockEntries) DailyTotals(ctx context.Context, start, end time.Time) ([]models.DailyFeeTotal, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]models.DailyFeeTotal), args.Error(1)
}

type MockRefunds struct {
	mock.Mock
}

func (m *MockRefunds) ApplyRefund(ctx context.Context, entry *models.FeeEntry, record *models.RefundRecord) error {
	args := m.Called(ctx, entry, record)
	return args.Error(0)
}

func (m *MockRefunds) ApplyAdjustment(ctx context.Context, entry *models.FeeEntry, record *models.AdjustmentRecord) error {
	args := m.Called(ctx, entry, record)
	return args.Error(0)
}

func (m *MockRefunds) ListRefunds(ctx context.Context, feeEntryID uint) ([]models.RefundRecord, error) {
	args := m.Called(ctx, feeEntryID)
	return args.Get(0).([]models.RefundRecord), args.Error(1)
}

func (m *MockRefunds) ListAdjustments(ctx context.Context, feeEntryID uint) ([]models.AdjustmentRecord, error) {
	args := m.Called(ctx, feeEntryID)
	return args.Get(0).([]models.AdjustmentRecord), args.Error(1)
}

type MockPayments struct {
	mock.Mock
}

func (m *MockPayments) Create(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPayments) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPayments) Update(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPayments) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Payment, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPayments) VolumeSince(ctx context.Context, userID uint, since time.Time) (float64, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockPayments) SuccessfulCount(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayments) ActivitySince(ctx context.Context, userID uint, since time.Time) (*repositories.PaymentActivity, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(*repositories.PaymentActivity), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Refund(ctx context.Context, chargeID string, amount float64) error {
	args := m.Called(ctx, chargeID, amount)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyFeeCharged(ctx context.Context, userID uint, entry *models.FeeEntry) error {
	args := m.Called(ctx, userID, entry)
	return args.Error(0)
}

func (m *MockNotifier) NotifyFeeRefunded(ctx context.Context, userID uint, entry *models.FeeEntry, amount float64, reason string) error {
	args := m.Called(ctx, userID, entry, amount, reason)
	return args.Error(0)
}

func (m *MockNotifier) NotifyPaymentRecorded(ctx context.Context, coordinatorID uint, payment *models.Payment) error {
	args := m.Called(ctx, coordinatorID, payment)
	return args.Error(0)
}

type testDeps struct {
	entries  *MockEntries
	refunds  *MockRefunds
	payments *MockPayments
	gateway  *MockGateway
	notifier *MockNotifier
}

func newTestService() (Service, *testDeps) {
	d := &testDeps{
		entries:  new(MockEntries),
		refunds:  new(MockRefunds),
		payments: new(MockPayments),
		gateway:  new(MockGateway),
		notifier: new(MockNotifier),
	}
	d.notifier.On("NotifyFeeRefunded", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	svc := NewService(d.entries, d.refunds, d.payments, d.gateway, d.notifier)
	return svc, d
}

func paidEntry(id uint, feeAmount, refunded float64) *models.FeeEntry {
	e := &models.FeeEntry{
		ID:             id,
		UserID:         1,
		GroupID:        2,
		PaymentID:      id + 100,
		OriginalAmount: feeAmount * 100,
		FeeAmount:      feeAmount,
		RefundedAmount: refunded,
		Status:         models.FeeStatusPaid,
	}
	if refunded > 0 {
		e.Status = e.DeriveRefundStatus()
	}
	return e
}

func TestProcessRefund(t *testing.T) {
	t.Run("partial refund then full refund", func(t *testing.T) {
		svc, d := newTestService()
		entry := paidEntry(1, 100, 0)
		d.entries.On("GetByID", mock.Anything, uint(1)).Return(entry, nil)
		d.payments.On("GetByID", mock.Anything, uint(101)).Return(&models.Payment{}, nil)
		d.refunds.On("ApplyRefund", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		record, err := svc.ProcessRefund(context.Background(), RefundRequest{
			FeeEntryID: 1, Amount: 50, Reason: models.RefundReasonOvercharge, AdminID: 9,
		})
		assert.NoError(t, err)
		assert.Equal(t, 50.0, record.Amount)
		assert.NotEmpty(t, record.Reference)
		assert.Equal(t, models.FeeStatusPartiallyRefunded, entry.Status)
		assert.Equal(t, 50.0, entry.RefundedAmount)

		_, err = svc.ProcessRefund(context.Background(), RefundRequest{
			FeeEntryID: 1, Amount: 50, Reason: models.RefundReasonOvercharge, AdminID: 9,
		})
		assert.NoError(t, err)
		assert.Equal(t, models.FeeStatusRefunded, entry.Status)
		assert.Equal(t, 100.0, entry.RefundedAmount)
	})

	t.Run("refund above remaining balance is rejected without mutation", func(t *testing.T) {
		svc, d := newTestService()
		entry := paidEntry(1, 100, 0)
		d.entries.On("GetByID", mock.Anything, uint(1)).Return(entry, nil)

		_, err := svc.ProcessRefund(context.Background(), RefundRequest{
			FeeEntryID: 1, Amount: 150, Reason: models.RefundReasonOvercharge, AdminID: 9,
		})
		assert.ErrorIs(t, err, ErrExceedsOriginal)
		assert.Equal(t, 0.0, entry.RefundedAmount)
		assert.Equal(t, models.FeeStatusPaid, entry.Status)
		d.refunds.AssertNotCalled(t, "ApplyRefund")
	})

	t.Run("second refund is bounded by what remains", func(t *testing.T) {
		svc, d := newTestService()
		entry := paidEntry(1, 100, 70)
		d.entries.On("GetByID", mock.Anything, uint(1)).Return(entry, nil)

		_, err := svc.ProcessRefund(context.Background(), RefundRequest{
			FeeEntryID: 1, Amount: 40, Reason: models.RefundReasonCustomerRequest, AdminID: 9,
		})
		assert.ErrorIs(t, err, ErrExceedsOriginal)
	})

	t.Run("pending entry is not refundable", func(t *testing.T) {
		svc, d := newTestService()
		d.entries.On("GetByID", mock.Anything, uint(1)).
			Return(&models.FeeEntry{ID: 1, FeeAmount: 100, Status: models.FeeStatusPending}, nil)

		_, err := svc.ProcessRefund(context.Background(), RefundRequest{
			FeeEntryID: 1, Amount: 10, Reason: models.RefundReasonSystemError, AdminID: 9,
		})
		assert.ErrorIs(t, err, ErrNotRefundable)
	})

	t.Run("unknown reason is rejected", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.ProcessRefund(context.Background(), RefundRequest{
			FeeEntryID: 1, Amount: 10, Reason: models.RefundReason("GOODWILL"), AdminID: 9,
		})
		assert.ErrorIs(t, err, ErrInvalidReason)
	})

	t.Run("missing entry", func(t *testing.T) {
		svc, d := newTestService()
		d.entries.On("GetByID", mock.Anything, uint(404)).Return(nil, repositories.ErrFeeEntryNotFound)

		_, err := svc.ProcessRefund(context.Background(), RefundRequest{
			FeeEntryID: 404, Amount: 10, Reason: models.RefundReasonSystemError, AdminID: 9,
		})
		assert.ErrorIs(t, err, ErrFeeNotFound)
	})

	t.Run("card funded fee goes through the gateway", func(t *testing.T) {
		svc, d := newTestService()
		entry := paidEntry(1, 100, 0)
		d.entries.On("GetByID", mock.Anything, uint(1)).Return(entry, nil)
		d.payments.On("GetByID", mock.Anything, uint(101)).
			Return(&models.Payment{ChargeID: "ch_123"}, nil)
		d.gateway.On("Refund", mock.Anything, "ch_123", 25.0).Return(nil)
		d.refunds.On("ApplyRefund", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, err := svc.ProcessRefund(context.Background(), RefundRequest{
			FeeEntryID: 1, Amount: 25, Reason: models.RefundReasonOvercharge, AdminID: 9,
		})
		assert.NoError(t, err)
		d.gateway.AssertExpectations(t)
	})

	t.Run("gateway failure stops the ledger write", func(t *testing.T) {
		svc, d := newTestService()
		entry := paidEntry(1, 100, 0)
		d.entries.On("GetByID", mock.Anything, uint(1)).Return(entry, nil)
		d.payments.On("GetByID", mock.Anything, uint(101)).
			Return(&models.Payment{ChargeID: "ch_123"}, nil)
		d.gateway.On("Refund", mock.Anything, "ch_123", 25.0).Return(ErrGatewayFailed)

		_, err := svc.ProcessRefund(context.Background(), RefundRequest{
			FeeEntryID: 1, Amount: 25, Reason: models.RefundReasonOvercharge, AdminID: 9,
		})
		assert.ErrorIs(t, err, ErrGatewayFailed)
		assert.Equal(t, 0.0, entry.RefundedAmount)
		d.refunds.AssertNotCalled(t, "ApplyRefund")
	})
}

func TestProcessAdjustment(t *testing.T) {
	t.Run("downward adjustment", func(t *testing.T) {
		svc, d := newTestService()
		entry := paidEntry(1, 100, 0)
		d.entries.On("GetByID", mock.Anything, uint(1)).Return(entry, nil)
		d.refunds.On("ApplyAdjustment", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		record, err := svc.ProcessAdjustment(context.Background(), AdjustmentRequest{
			FeeEntryID: 1, AdjustmentAmount: -30, Reason: "rate correction", AdminID: 9,
		})
		assert.NoError(t, err)
		assert.Equal(t, -30.0, record.Amount)
		assert.Equal(t, 70.0, entry.FeeAmount)
		assert.Equal(t, 0.0, entry.RefundedAmount)
	})

	t.Run("adjustment below the refunded amount is rejected", func(t *testing.T) {
		svc, d := newTestService()
		entry := paidEntry(1, 100, 80)
		d.entries.On("GetByID", mock.Anything, uint(1)).Return(entry, nil)

		_, err := svc.ProcessAdjustment(context.Background(), AdjustmentRequest{
			FeeEntryID: 1, AdjustmentAmount: -50, Reason: "rate correction", AdminID: 9,
		})
		assert.ErrorIs(t, err, ErrBelowRefunded)
		assert.Equal(t, 100.0, entry.FeeAmount)
		assert.Equal(t, models.FeeStatusPartiallyRefunded, entry.Status)
		assert.LessOrEqual(t, entry.RefundedAmount, entry.FeeAmount)
		d.refunds.AssertNotCalled(t, "ApplyAdjustment")
	})

	t.Run("adjustment below zero is rejected", func(t *testing.T) {
		svc, d := newTestService()
		entry := paidEntry(1, 100, 0)
		d.entries.On("GetByID", mock.Anything, uint(1)).Return(entry, nil)

		_, err := svc.ProcessAdjustment(context.Background(), AdjustmentRequest{
			FeeEntryID: 1, AdjustmentAmount: -150, Reason: "oops", AdminID: 9,
		})
		assert.ErrorIs(t, err, ErrNegativeFee)
		assert.Equal(t, 100.0, entry.FeeAmount)
	})
}

func TestProcessBulkRefund(t *testing.T) {
	t.Run("skips non refundable entries and keeps going", func(t *testing.T) {
		svc, d := newTestService()
		d.entries.On("GetByID", mock.Anything, uint(1)).Return(paidEntry(1, 100, 0), nil)
		d.entries.On("GetByID", mock.Anything, uint(2)).
			Return(&models.FeeEntry{ID: 2, FeeAmount: 50, Status: models.FeeStatusPending}, nil)
		d.entries.On("GetByID", mock.Anything, uint(3)).Return(paidEntry(3, 40, 0), nil)
		d.payments.On("GetByID", mock.Anything, mock.Anything).Return(&models.Payment{}, nil)
		d.refunds.On("ApplyRefund", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		result, err := svc.ProcessBulkRefund(context.Background(), BulkRefundRequest{
			FeeEntryIDs:      []uint{1, 2, 3},
			Reason:           models.RefundReasonSystemError,
			AdminID:          9,
			RefundPercentage: 50,
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, result.Processed)
		assert.Equal(t, 1, result.Skipped)
		assert.Len(t, result.Refunds, 2)
		assert.Equal(t, 50.0, result.Refunds[0].Amount)
		assert.Equal(t, 20.0, result.Refunds[1].Amount)
		assert.Equal(t, uint(2), result.Failures[0].FeeEntryID)
	})

	t.Run("rejects percentage out of range", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.ProcessBulkRefund(context.Background(), BulkRefundRequest{
			FeeEntryIDs: []uint{1}, Reason: models.RefundReasonSystemError, RefundPercentage: 120,
		})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestBulkRefundCandidates(t *testing.T) {
	svc, d := newTestService()
	criteria := repositories.RefundCandidateCriteria{MinAmount: 10, Limit: 5}
	d.entries.On("ListCandidates", mock.Anything, criteria).
		Return([]models.FeeEntry{*paidEntry(1, 100, 0)}, nil)

	entries, err := svc.BulkRefundCandidates(context.Background(), criteria)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	d.entries.AssertExpectations(t)
}
