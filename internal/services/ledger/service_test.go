package ledger

import (
	"context"
	"testing"
	"time"

	"thrift/internal/models"
	"thrift/internal/repositories"
	"thrift/internal/services/fee"

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

func TestRecordFee(t *testing.T) {
	entries := new(MockEntries)
	notifier := new(MockNotifier)
	entries.On("Create", mock.Anything, mock.Anything).Return(nil)
	notifier.On("NotifyFeeCharged", mock.Anything, uint(3), mock.Anything).Return(nil).Maybe()

	svc := NewService(entries, notifier)
	payment := &models.Payment{UserID: 3, GroupID: 4, Amount: 1000}
	payment.ID = 9

	entry, err := svc.RecordFee(context.Background(), payment, &fee.FeeResult{
		FeeAmount:  15,
		BaseAmount: 1000,
		Method:     models.MethodPercentage,
		Rate:       1.5,
		Details:    map[string]interface{}{},
	})

	assert.NoError(t, err)
	assert.Equal(t, models.FeeStatusPending, entry.Status)
	assert.Equal(t, uint(3), entry.UserID)
	assert.Equal(t, uint(9), entry.PaymentID)
	assert.Equal(t, 15.0, entry.FeeAmount)
	assert.Nil(t, entry.PaidDate)
	entries.AssertExpectations(t)
}

func TestMarkPaid(t *testing.T) {
	t.Run("pending entry becomes paid", func(t *testing.T) {
		entries := new(MockEntries)
		entries.On("GetByID", mock.Anything, uint(1)).
			Return(&models.FeeEntry{ID: 1, Status: models.FeeStatusPending}, nil)
		entries.On("Update", mock.Anything, mock.Anything).Return(nil)

		svc := NewService(entries, new(MockNotifier))
		entry, err := svc.MarkPaid(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, models.FeeStatusPaid, entry.Status)
		assert.NotNil(t, entry.PaidDate)
	})

	t.Run("paid entry cannot be paid again", func(t *testing.T) {
		entries := new(MockEntries)
		entries.On("GetByID", mock.Anything, uint(1)).
			Return(&models.FeeEntry{ID: 1, Status: models.FeeStatusPaid}, nil)

		svc := NewService(entries, new(MockNotifier))
		_, err := svc.MarkPaid(context.Background(), 1)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("missing entry", func(t *testing.T) {
		entries := new(MockEntries)
		entries.On("GetByID", mock.Anything, uint(1)).
			Return(nil, repositories.ErrFeeEntryNotFound)

		svc := NewService(entries, new(MockNotifier))
		_, err := svc.MarkPaid(context.Background(), 1)
		assert.ErrorIs(t, err, ErrFeeNotFound)
	})
}

func TestMarkFailed(t *testing.T) {
	t.Run("pending entry fails with reason", func(t *testing.T) {
		entries := new(MockEntries)
		entries.On("GetByID", mock.Anything, uint(1)).
			Return(&models.FeeEntry{ID: 1, Status: models.FeeStatusPending}, nil)
		entries.On("Update", mock.Anything, mock.Anything).Return(nil)

		svc := NewService(entries, new(MockNotifier))
		entry, err := svc.MarkFailed(context.Background(), 1, "card declined")
		assert.NoError(t, err)
		assert.Equal(t, models.FeeStatusFailed, entry.Status)
		assert.Equal(t, "card declined", entry.Details["failure_reason"])
	})

	t.Run("failure keeps the calculation details", func(t *testing.T) {
		entries := new(MockEntries)
		entries.On("GetByID", mock.Anything, uint(1)).
			Return(&models.FeeEntry{
				ID:      1,
				Status:  models.FeeStatusPending,
				Details: models.JSON{"tier": 1000.0, "rate": 0.5},
			}, nil)
		entries.On("Update", mock.Anything, mock.Anything).Return(nil)

		svc := NewService(entries, new(MockNotifier))
		entry, err := svc.MarkFailed(context.Background(), 1, "card declined")
		assert.NoError(t, err)
		assert.Equal(t, "card declined", entry.Details["failure_reason"])
		assert.Equal(t, 1000.0, entry.Details["tier"])
		assert.Equal(t, 0.5, entry.Details["rate"])
	})

	t.Run("refunded entry is terminal", func(t *testing.T) {
		entries := new(MockEntries)
		entries.On("GetByID", mock.Anything, uint(1)).
			Return(&models.FeeEntry{ID: 1, Status: models.FeeStatusRefunded}, nil)

		svc := NewService(entries, new(MockNotifier))
		_, err := svc.MarkFailed(context.Background(), 1, "late failure")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}
