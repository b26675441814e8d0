package analytics

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"thrift/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestReporter(entries *MockEntries) Reporter {
	return NewReporter(entries, NewService(entries))
}

func TestGenerateReport(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	t.Run("csv summary", func(t *testing.T) {
		entries := new(MockEntries)
		entries.On("DailyTotals", mock.Anything, start, end).
			Return(dailySeries(10, 20), nil)

		report, err := newTestReporter(entries).GenerateReport(context.Background(), ReportRequest{
			StartDate: start, EndDate: end, Format: FormatCSV,
		})
		assert.NoError(t, err)
		assert.Equal(t, "text/csv", report.ContentType)
		assert.True(t, strings.HasSuffix(report.FileName, ".csv"))

		content := string(report.Content)
		assert.Contains(t, content, "DATE,TOTAL FEES,TRANSACTIONS,AVERAGE FEE")
		assert.Contains(t, content, "2026-01-01,10.00,1,10.00")
	})

	t.Run("csv with details appends a second table", func(t *testing.T) {
		entries := new(MockEntries)
		entries.On("DailyTotals", mock.Anything, start, end).
			Return(dailySeries(10), nil)
		entries.On("ListByDateRange", mock.Anything, start, end).
			Return([]models.FeeEntry{{
				UserID: 7, GroupID: 3, FeeAmount: 12.5,
				Status: models.FeeStatusPaid, ChargeDate: start,
			}}, nil)

		report, err := newTestReporter(entries).GenerateReport(context.Background(), ReportRequest{
			StartDate: start, EndDate: end, Format: FormatCSV, IncludeDetails: true,
		})
		assert.NoError(t, err)
		assert.Contains(t, string(report.Content), "2026-02-01,7,3,12.50,PAID")
	})

	t.Run("pdf renders without error", func(t *testing.T) {
		entries := new(MockEntries)
		entries.On("DailyTotals", mock.Anything, start, end).
			Return(dailySeries(10, 20), nil)

		report, err := newTestReporter(entries).GenerateReport(context.Background(), ReportRequest{
			StartDate: start, EndDate: end, Format: FormatPDF,
		})
		assert.NoError(t, err)
		assert.Equal(t, "application/pdf", report.ContentType)
		assert.True(t, len(report.Content) > 0)
	})

	t.Run("json carries the summary", func(t *testing.T) {
		entries := new(MockEntries)
		entries.On("DailyTotals", mock.Anything, start, end).
			Return(dailySeries(10), nil)

		report, err := newTestReporter(entries).GenerateReport(context.Background(), ReportRequest{
			StartDate: start, EndDate: end, Format: FormatJSON,
		})
		assert.NoError(t, err)

		var payload map[string]interface{}
		assert.NoError(t, json.Unmarshal(report.Content, &payload))
		assert.Contains(t, payload, "summary")
		assert.NotContains(t, payload, "details")
	})

	t.Run("weekly bucketing rolls days into Monday buckets", func(t *testing.T) {
		entries := new(MockEntries)
		// 2026-01-01 is a Thursday, so the first week holds four days.
		entries.On("DailyTotals", mock.Anything, start, end).
			Return(dailySeries(10, 10, 10, 10, 20, 20), nil)

		report, err := newTestReporter(entries).GenerateReport(context.Background(), ReportRequest{
			StartDate: start, EndDate: end, Format: FormatCSV, GroupBy: GroupByWeek,
		})
		assert.NoError(t, err)

		content := string(report.Content)
		assert.Contains(t, content, "2025-12-29,40.00,4,10.00")
		assert.Contains(t, content, "2026-01-05,40.00,2,20.00")
	})

	t.Run("unknown groupBy rejected", func(t *testing.T) {
		entries := new(MockEntries)
		entries.On("DailyTotals", mock.Anything, start, end).
			Return(dailySeries(10), nil)

		_, err := newTestReporter(entries).GenerateReport(context.Background(), ReportRequest{
			StartDate: start, EndDate: end, Format: FormatCSV, GroupBy: "hour",
		})
		assert.ErrorIs(t, err, ErrInvalidGroupBy)
	})

	t.Run("unknown format rejected", func(t *testing.T) {
		entries := new(MockEntries)
		entries.On("DailyTotals", mock.Anything, start, end).
			Return(dailySeries(10), nil)

		_, err := newTestReporter(entries).GenerateReport(context.Background(), ReportRequest{
			StartDate: start, EndDate: end, Format: "XLSX",
		})
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestGenerateMonthlySummary(t *testing.T) {
	entries := new(MockEntries)
	entries.On("Statistics", mock.Anything, mock.Anything, mock.Anything).
		Return(&models.FeeStatistics{TotalFees: 300, TotalTransactions: 3}, nil)
	entries.On("TopGroups", mock.Anything, mock.Anything, mock.Anything, topLimit).
		Return([]models.EntityFeeTotal{{EntityID: 1, TotalFees: 200}}, nil)
	entries.On("DailyTotals", mock.Anything, mock.Anything, mock.Anything).
		Return(dailySeries(100, 100, 100), nil)

	summary, err := newTestReporter(entries).GenerateMonthlySummary(context.Background(), 2026, time.March)
	assert.NoError(t, err)
	assert.Equal(t, 2026, summary.Year)
	assert.Equal(t, time.March, summary.Month)
	assert.Equal(t, 300.0, summary.Statistics.TotalFees)
	assert.Len(t, summary.TopGroups, 1)
	assert.Len(t, summary.DailyTotals, 3)
}

func TestGenerateCustomReport(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	t.Run("only requested blocks are computed", func(t *testing.T) {
		entries := new(MockEntries)
		entries.On("Statistics", mock.Anything, start, end).
			Return(&models.FeeStatistics{TotalFees: 50}, nil)
		entries.On("TopUsers", mock.Anything, start, end, topLimit).
			Return([]models.EntityFeeTotal{{EntityID: 4}, {EntityID: 5}}, nil)

		report, err := newTestReporter(entries).GenerateCustomReport(context.Background(), CustomReportRequest{
			StartDate: start, EndDate: end,
			Metrics: []string{"statistics", "top_users"},
			Limit:   1,
		})
		assert.NoError(t, err)
		assert.NotNil(t, report.Statistics)
		assert.Len(t, report.TopUsers, 1)
		assert.Nil(t, report.Trends)
		assert.Empty(t, report.TopGroups)
		entries.AssertNotCalled(t, "TopGroups")
		entries.AssertNotCalled(t, "DailyTotals")
	})

	t.Run("breakdowns bucket the daily series", func(t *testing.T) {
		entries := new(MockEntries)
		entries.On("DailyTotals", mock.Anything, start, end).
			Return(dailySeries(10, 10, 10, 10, 20, 20), nil)

		report, err := newTestReporter(entries).GenerateCustomReport(context.Background(), CustomReportRequest{
			StartDate: start, EndDate: end,
			Breakdowns: []string{GroupByDay, GroupByWeek},
		})
		assert.NoError(t, err)
		assert.Len(t, report.Breakdowns[GroupByDay], 6)
		assert.Len(t, report.Breakdowns[GroupByWeek], 2)
		entries.AssertNumberOfCalls(t, "DailyTotals", 1)
	})

	t.Run("sortBy reorders the rankings", func(t *testing.T) {
		entries := new(MockEntries)
		entries.On("TopUsers", mock.Anything, start, end, topLimit).
			Return([]models.EntityFeeTotal{
				{EntityID: 4, TotalFees: 90, TransactionCount: 2},
				{EntityID: 5, TotalFees: 60, TransactionCount: 9},
			}, nil)

		report, err := newTestReporter(entries).GenerateCustomReport(context.Background(), CustomReportRequest{
			StartDate: start, EndDate: end,
			Metrics: []string{"top_users"},
			SortBy:  "transaction_count",
		})
		assert.NoError(t, err)
		assert.Equal(t, uint(5), report.TopUsers[0].EntityID)
	})
}
