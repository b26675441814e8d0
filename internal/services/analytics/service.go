// Package analytics turns the fee ledger into aggregate statistics,
// rankings, trend analysis and rendered reports for the admin dashboard.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"thrift/internal/models"
	"thrift/internal/repositories"
)

// Top rankings are capped at ten rows, matching the dashboard.
const topLimit = 10

// Service errors
var (
	ErrInvalidRange = errors.New("end date must not precede start date")
	ErrInvalidDays  = errors.New("projection days must be positive")
)

// Service defines the analytics queries over the fee ledger.
type Service interface {
	// Statistics aggregates PAID fees over the range. Empty ranges give
	// the zero value, never an error.
	Statistics(ctx context.Context, start, end time.Time) (*models.FeeStatistics, error)

	// TopUsers and TopGroups rank fee payers by total fees, descending.
	TopUsers(ctx context.Context, start, end time.Time) ([]models.EntityFeeTotal, error)
	TopGroups(ctx context.Context, start, end time.Time) ([]models.EntityFeeTotal, error)

	// Trends runs linear regression and moving averages over daily totals.
	Trends(ctx context.Context, start, end time.Time) (*TrendAnalysis, error)

	// ProjectedRevenue extrapolates the coming days from the trailing
	// window twice as long.
	ProjectedRevenue(ctx context.Context, days int) (*RevenueProjection, error)
}

type service struct {
	entries repositories.FeeEntryRepository
}

// NewService creates a new analytics service
func NewService(entries repositories.FeeEntryRepository) Service {
	if entries == nil {
		panic("fee entry repository is required")
	}
	return &service{entries: entries}
}

func (s *service) Statistics(ctx context.Context, start, end time.Time) (*models.FeeStatistics, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	stats, err := s.entries.Statistics(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate fee statistics: %w", err)
	}
	return stats, nil
}

func (s *service) TopUsers(ctx context.Context, start, end time.Time) ([]models.EntityFeeTotal, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	return s.entries.TopUsers(ctx, start, end, topLimit)
}

func (s *service) TopGroups(ctx context.Context, start, end time.Time) ([]models.EntityFeeTotal, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	return s.entries.TopGroups(ctx, start, end, topLimit)
}

func (s *service) Trends(ctx context.Context, start, end time.Time) (*TrendAnalysis, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	daily, err := s.entries.DailyTotals(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily totals: %w", err)
	}

	values := make([]float64, len(daily))
	for i, d := range daily {
		values[i] = d.TotalFees
	}

	return &TrendAnalysis{
		DailyTotals: daily,
		Indicators:  trendIndicators(values),
		MovingAverages: MovingAverages{
			Weekly:   sma(values, 7),
			Biweekly: sma(values, 14),
			Monthly:  sma(values, 30),
		},
	}, nil
}

func (s *service) ProjectedRevenue(ctx context.Context, days int) (*RevenueProjection, error) {
	if days <= 0 {
		return nil, ErrInvalidDays
	}

	end := time.Now()
	start := end.AddDate(0, 0, -2*days)
	daily, err := s.entries.DailyTotals(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily totals: %w", err)
	}

	avg, growth := revenueBaseline(daily)
	return &RevenueProjection{
		ProjectedRevenue: avg * float64(days) * (1 + growth),
		AvgDailyRevenue:  avg,
		GrowthRate:       growth,
		Confidence:       confidenceScore(growth),
		Days:             days,
	}, nil
}

// trendIndicators fits an ordinary least squares line through the series
// and normalizes the slope by the mean to make strength comparable
// across ranges.
func trendIndicators(values []float64) TrendIndicators {
	n := len(values)
	if n < 2 {
		return TrendIndicators{Trend: TrendInsufficientData}
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumX2 += x * x
	}

	fn := float64(n)
	slope := (fn*sumXY - sumX*sumY) / (fn*sumX2 - sumX*sumX)

	trend := TrendStable
	if slope > 0 {
		trend = TrendUpward
	} else if slope < 0 {
		trend = TrendDownward
	}

	strength := 0.0
	if mean := sumY / fn; mean != 0 {
		strength = math.Abs(slope) / mean
	}

	return TrendIndicators{Trend: trend, Slope: slope, Strength: strength}
}

func sma(values []float64, window int) []float64 {
	result := make([]float64, 0)
	if window <= 0 || len(values) < window {
		return result
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			result = append(result, sum/float64(window))
		}
	}
	return result
}

// revenueBaseline derives the average daily revenue and a growth rate by
// comparing the second half of the window against the first.
func revenueBaseline(daily []models.DailyFeeTotal) (avg, growth float64) {
	if len(daily) == 0 {
		return 0, 0
	}

	var total float64
	for _, d := range daily {
		total += d.TotalFees
	}
	avg = total / float64(len(daily))

	half := len(daily) / 2
	if half == 0 {
		return avg, 0
	}
	var firstHalf, secondHalf float64
	for i, d := range daily {
		if i < half {
			firstHalf += d.TotalFees
		} else {
			secondHalf += d.TotalFees
		}
	}
	firstAvg := firstHalf / float64(half)
	secondAvg := secondHalf / float64(len(daily)-half)
	if firstAvg > 0 {
		growth = (secondAvg - firstAvg) / firstAvg
	}
	return avg, growth
}

func confidenceScore(growth float64) float64 {
	confidence := 0.8 - math.Abs(growth)*0.2
	return math.Max(0, math.Min(1, confidence))
}

func checkRange(start, end time.Time) error {
	if end.Before(start) {
		return ErrInvalidRange
	}
	return nil
}
