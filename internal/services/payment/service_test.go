package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"thrift/internal/models"
	"thrift/internal/repositories"
	"thrift/internal/services/fee"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPayments struct {
	mock.Mock
}

func (m *MockPayments) Create(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	payment.ID = 11
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

type MockGroups struct {
	mock.Mock
}

func (m *MockGroups) Create(ctx context.Context, group *models.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroups) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Group), args.Error(1)
}

func (m *MockGroups) GetByInviteCode(ctx context.Context, code string) (*models.Group, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Group), args.Error(1)
}

func (m *MockGroups) Update(ctx context.Context, group *models.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroups) ListByCoordinator(ctx context.Context, coordinatorID uint) ([]models.Group, error) {
	args := m.Called(ctx, coordinatorID)
	return args.Get(0).([]models.Group), args.Error(1)
}

type MockCalculator struct {
	mock.Mock
}

func (m *MockCalculator) ComputeFee(ctx context.Context, req fee.FeeRequest) (*fee.FeeResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fee.FeeResult), args.Error(1)
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) RecordFee(ctx context.Context, payment *models.Payment, result *fee.FeeResult) (*models.FeeEntry, error) {
	args := m.Called(ctx, payment, result)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeeEntry), args.Error(1)
}

func (m *MockLedger) MarkPaid(ctx context.Context, entryID uint) (*models.FeeEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeeEntry), args.Error(1)
}

func (m *MockLedger) MarkFailed(ctx context.Context, entryID uint, reason string) (*models.FeeEntry, error) {
	args := m.Called(ctx, entryID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeeEntry), args.Error(1)
}

func (m *MockLedger) GetEntryByPayment(ctx context.Context, paymentID uint) (*models.FeeEntry, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeeEntry), args.Error(1)
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

func TestRecordPayment(t *testing.T) {
	t.Run("records payment and settles the fee", func(t *testing.T) {
		payments := new(MockPayments)
		groups := new(MockGroups)
		calculator := new(MockCalculator)
		ledger := new(MockLedger)
		notifier := new(MockNotifier)

		groups.On("GetByID", mock.Anything, uint(2)).
			Return(&models.Group{ID: 2, CoordinatorID: 5}, nil)
		calculator.On("ComputeFee", mock.Anything, mock.MatchedBy(func(req fee.FeeRequest) bool {
			return req.Amount == 1000 && req.UserID == 1 && req.Method == models.MethodStandard
		})).Return(&fee.FeeResult{FeeAmount: 15, BaseAmount: 1000, Method: models.MethodPercentage}, nil)
		payments.On("Create", mock.Anything, mock.Anything).Return(nil)
		ledger.On("RecordFee", mock.Anything, mock.Anything, mock.Anything).
			Return(&models.FeeEntry{ID: 21, Status: models.FeeStatusPending}, nil)
		ledger.On("MarkPaid", mock.Anything, uint(21)).
			Return(&models.FeeEntry{ID: 21, Status: models.FeeStatusPaid}, nil)
		notifier.On("NotifyPaymentRecorded", mock.Anything, uint(5), mock.Anything).Return(nil).Maybe()

		svc := NewService(payments, groups, calculator, ledger, notifier)
		payment, entry, err := svc.RecordPayment(context.Background(), 1, models.RecordPaymentRequest{
			GroupID: 2, Amount: 1000,
		})

		assert.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPaid, payment.Status)
		assert.NotNil(t, payment.PaidDate)
		assert.Equal(t, models.FeeStatusPaid, entry.Status)
		payments.AssertExpectations(t)
		ledger.AssertExpectations(t)
	})

	t.Run("method override reaches the calculator", func(t *testing.T) {
		payments := new(MockPayments)
		groups := new(MockGroups)
		calculator := new(MockCalculator)
		ledger := new(MockLedger)
		notifier := new(MockNotifier)

		groups.On("GetByID", mock.Anything, uint(2)).Return(&models.Group{ID: 2}, nil)
		calculator.On("ComputeFee", mock.Anything, mock.MatchedBy(func(req fee.FeeRequest) bool {
			return req.Method == models.MethodLoyalty
		})).Return(&fee.FeeResult{FeeAmount: 8}, nil)
		payments.On("Create", mock.Anything, mock.Anything).Return(nil)
		ledger.On("RecordFee", mock.Anything, mock.Anything, mock.Anything).
			Return(&models.FeeEntry{ID: 22}, nil)
		ledger.On("MarkPaid", mock.Anything, uint(22)).
			Return(&models.FeeEntry{ID: 22, Status: models.FeeStatusPaid}, nil)
		notifier.On("NotifyPaymentRecorded", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

		svc := NewService(payments, groups, calculator, ledger, notifier)
		_, _, err := svc.RecordPayment(context.Background(), 1, models.RecordPaymentRequest{
			GroupID: 2, Amount: 500, Method: "LOYALTY",
		})
		assert.NoError(t, err)
		calculator.AssertExpectations(t)
	})

	t.Run("rejects non positive amounts", func(t *testing.T) {
		svc := NewService(new(MockPayments), new(MockGroups), new(MockCalculator), new(MockLedger), new(MockNotifier))
		_, _, err := svc.RecordPayment(context.Background(), 1, models.RecordPaymentRequest{GroupID: 2, Amount: 0})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("unknown group", func(t *testing.T) {
		groups := new(MockGroups)
		groups.On("GetByID", mock.Anything, uint(404)).Return(nil, repositories.ErrGroupNotFound)

		svc := NewService(new(MockPayments), groups, new(MockCalculator), new(MockLedger), new(MockNotifier))
		_, _, err := svc.RecordPayment(context.Background(), 1, models.RecordPaymentRequest{GroupID: 404, Amount: 100})
		assert.ErrorIs(t, err, ErrGroupNotFound)
	})

	t.Run("charges a fee on a settled payment after the fact", func(t *testing.T) {
		payments := new(MockPayments)
		calculator := new(MockCalculator)
		ledger := new(MockLedger)

		now := time.Now()
		payments.On("GetByID", mock.Anything, uint(11)).
			Return(&models.Payment{ID: 11, UserID: 1, GroupID: 2, Amount: 500,
				Status: models.PaymentStatusPaid, PaidDate: &now}, nil)
		ledger.On("GetEntryByPayment", mock.Anything, uint(11)).
			Return(nil, errors.New("fee entry not found"))
		calculator.On("ComputeFee", mock.Anything, mock.MatchedBy(func(req fee.FeeRequest) bool {
			return req.Amount == 500 && req.Method == models.MethodStandard
		})).Return(&fee.FeeResult{FeeAmount: 7.5}, nil)
		ledger.On("RecordFee", mock.Anything, mock.Anything, mock.Anything).
			Return(&models.FeeEntry{ID: 31, Status: models.FeeStatusPending}, nil)
		ledger.On("MarkPaid", mock.Anything, uint(31)).
			Return(&models.FeeEntry{ID: 31, Status: models.FeeStatusPaid}, nil)

		svc := NewService(payments, new(MockGroups), calculator, ledger, new(MockNotifier))
		entry, err := svc.ChargeFee(context.Background(), 11, "")
		assert.NoError(t, err)
		assert.Equal(t, models.FeeStatusPaid, entry.Status)
		ledger.AssertExpectations(t)
	})

	t.Run("refuses to charge the same payment twice", func(t *testing.T) {
		payments := new(MockPayments)
		ledger := new(MockLedger)

		payments.On("GetByID", mock.Anything, uint(11)).
			Return(&models.Payment{ID: 11, Amount: 500, Status: models.PaymentStatusPaid}, nil)
		ledger.On("GetEntryByPayment", mock.Anything, uint(11)).
			Return(&models.FeeEntry{ID: 31}, nil)

		svc := NewService(payments, new(MockGroups), new(MockCalculator), ledger, new(MockNotifier))
		_, err := svc.ChargeFee(context.Background(), 11, "")
		assert.ErrorIs(t, err, ErrFeeAlreadyCharged)
		ledger.AssertNotCalled(t, "RecordFee")
	})

	t.Run("fee failure stops the payment", func(t *testing.T) {
		payments := new(MockPayments)
		groups := new(MockGroups)
		calculator := new(MockCalculator)

		groups.On("GetByID", mock.Anything, uint(2)).Return(&models.Group{ID: 2}, nil)
		calculator.On("ComputeFee", mock.Anything, mock.Anything).Return(nil, fee.ErrNoActivePolicy)

		svc := NewService(payments, groups, calculator, new(MockLedger), new(MockNotifier))
		_, _, err := svc.RecordPayment(context.Background(), 1, models.RecordPaymentRequest{GroupID: 2, Amount: 100})
		assert.ErrorIs(t, err, fee.ErrNoActivePolicy)
		payments.AssertNotCalled(t, "Create")
	})
}
