package analytics

import (
	"time"

	"thrift/internal/models"
)

// TrendDirection classifies the slope of the daily fee series.
type TrendDirection string

const (
	TrendUpward           TrendDirection = "UPWARD"
	TrendDownward         TrendDirection = "DOWNWARD"
	TrendStable           TrendDirection = "STABLE"
	TrendInsufficientData TrendDirection = "INSUFFICIENT_DATA"
)

// TrendIndicators carries the linear regression over daily totals.
// Strength is the slope normalized by the series mean.
type TrendIndicators struct {
	Trend    TrendDirection `json:"trend"`
	Slope    float64        `json:"slope"`
	Strength float64        `json:"strength"`
}

// MovingAverages are simple moving averages over the daily totals. A
// window longer than the series yields an empty slice.
type MovingAverages struct {
	Weekly   []float64 `json:"weekly"`
	Biweekly []float64 `json:"biweekly"`
	Monthly  []float64 `json:"monthly"`
}

// TrendAnalysis is the full trend report for a date range.
type TrendAnalysis struct {
	DailyTotals    []models.DailyFeeTotal `json:"daily_totals"`
	Indicators     TrendIndicators        `json:"indicators"`
	MovingAverages MovingAverages         `json:"moving_averages"`
}

// RevenueProjection extrapolates fee revenue over the coming days from
// the trailing window twice that long.
type RevenueProjection struct {
	ProjectedRevenue float64 `json:"projected_revenue"`
	AvgDailyRevenue  float64 `json:"avg_daily_revenue"`
	GrowthRate       float64 `json:"growth_rate"`
	Confidence       float64 `json:"confidence"`
	Days             int     `json:"days"`
}

// MonthlySummary is the canned per-month report.
type MonthlySummary struct {
	Year        int                     `json:"year"`
	Month       time.Month              `json:"month"`
	Statistics  *models.FeeStatistics   `json:"statistics"`
	TopGroups   []models.EntityFeeTotal `json:"top_groups"`
	DailyTotals []models.DailyFeeTotal  `json:"daily_totals"`
}

// Report formats
const (
	FormatPDF  = "PDF"
	FormatCSV  = "CSV"
	FormatJSON = "JSON"
)

// Summary bucketing granularities
const (
	GroupByDay   = "day"
	GroupByWeek  = "week"
	GroupByMonth = "month"
)

// ReportRequest describes an admin report over a date range.
type ReportRequest struct {
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Format         string    `json:"format"`
	GroupBy        string    `json:"group_by"`
	IncludeDetails bool      `json:"include_details"`
}

// Report is a rendered artifact ready to stream or mail.
type Report struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"-"`
}

// CustomReportRequest selects which metric blocks to compute.
type CustomReportRequest struct {
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Metrics    []string  `json:"metrics"`    // statistics, top_users, top_groups, trends
	Breakdowns []string  `json:"breakdowns"` // day, week, month
	SortBy     string    `json:"sort_by"`    // total_fees, transaction_count, average_fee
	Limit      int       `json:"limit"`
}

// CustomReport holds only the blocks the request asked for.
type CustomReport struct {
	StartDate  time.Time                         `json:"start_date"`
	EndDate    time.Time                         `json:"end_date"`
	Statistics *models.FeeStatistics             `json:"statistics,omitempty"`
	TopUsers   []models.EntityFeeTotal           `json:"top_users,omitempty"`
	TopGroups  []models.EntityFeeTotal           `json:"top_groups,omitempty"`
	Trends     *TrendAnalysis                    `json:"trends,omitempty"`
	Breakdowns map[string][]models.DailyFeeTotal `json:"breakdowns,omitempty"`
}
