package models

import (
	"time"
)

// FeeStatistics is the aggregate over PAID fee entries for a date range.
// A range with no entries yields the zero value.
type FeeStatistics struct {
	TotalFees          float64 `json:"total_fees"`
	TotalTransactions  int64   `json:"total_transactions"`
	AverageFee         float64 `json:"average_fee"`
	MaxFee             float64 `json:"max_fee"`
	MinFee             float64 `json:"min_fee"`
	PercentageFeeCount int64   `json:"percentage_fee_count"`
	FlatFeeCount       int64   `json:"flat_fee_count"`
}

// EntityFeeTotal is one row of a per-user or per-group fee ranking.
type EntityFeeTotal struct {
	EntityID         uint    `json:"entity_id"`
	TotalFees        float64 `json:"total_fees"`
	TransactionCount int64   `json:"transaction_count"`
	AverageFee       float64 `json:"average_fee"`
}

// DailyFeeTotal is one day's worth of collected fees.
type DailyFeeTotal struct {
	Date             time.Time `json:"date"`
	TotalFees        float64   `json:"total_fees"`
	TransactionCount int64     `json:"transaction_count"`
	AverageFee       float64   `json:"average_fee"`
}
