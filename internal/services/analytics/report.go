package analytics

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"thrift/internal/models"
	"thrift/internal/repositories"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

// ErrUnsupportedFormat is returned for report formats other than PDF,
// CSV and JSON.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// ErrInvalidGroupBy is returned for bucketing granularities other than
// day, week and month.
var ErrInvalidGroupBy = errors.New("invalid groupBy, expected day, week or month")

// Reporter renders admin fee reports.
type Reporter interface {
	// GenerateReport renders the daily summary, optionally with the
	// per-entry detail section, in the requested format.
	GenerateReport(ctx context.Context, req ReportRequest) (*Report, error)

	// GenerateMonthlySummary builds the canned per-month report.
	GenerateMonthlySummary(ctx context.Context, year int, month time.Month) (*MonthlySummary, error)

	// GenerateCustomReport computes only the metric blocks asked for.
	GenerateCustomReport(ctx context.Context, req CustomReportRequest) (*CustomReport, error)
}

type reporter struct {
	entries   repositories.FeeEntryRepository
	analytics Service
}

// NewReporter creates a new report generator
func NewReporter(entries repositories.FeeEntryRepository, analytics Service) Reporter {
	if entries == nil {
		panic("fee entry repository is required")
	}
	if analytics == nil {
		panic("analytics service is required")
	}
	return &reporter{entries: entries, analytics: analytics}
}

func (r *reporter) GenerateReport(ctx context.Context, req ReportRequest) (*Report, error) {
	if err := checkRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	daily, err := r.entries.DailyTotals(ctx, req.StartDate, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily totals: %w", err)
	}
	daily, err = bucketTotals(daily, req.GroupBy)
	if err != nil {
		return nil, err
	}

	var details []models.FeeEntry
	if req.IncludeDetails {
		details, err = r.entries.ListByDateRange(ctx, req.StartDate, req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("failed to get fee entries: %w", err)
		}
	}

	name := fmt.Sprintf("fee-report-%s", uuid.New().String())
	switch req.Format {
	case FormatPDF, "":
		content, err := renderPDF(daily, details)
		if err != nil {
			return nil, err
		}
		return &Report{FileName: name + ".pdf", ContentType: "application/pdf", Content: content}, nil
	case FormatCSV:
		content, err := renderCSV(daily, details)
		if err != nil {
			return nil, err
		}
		return &Report{FileName: name + ".csv", ContentType: "text/csv", Content: content}, nil
	case FormatJSON:
		payload := map[string]interface{}{"summary": daily}
		if req.IncludeDetails {
			payload["details"] = details
		}
		content, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		return &Report{FileName: name + ".json", ContentType: "application/json", Content: content}, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

func (r *reporter) GenerateMonthlySummary(ctx context.Context, year int, month time.Month) (*MonthlySummary, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	stats, err := r.analytics.Statistics(ctx, start, end)
	if err != nil {
		return nil, err
	}
	topGroups, err := r.analytics.TopGroups(ctx, start, end)
	if err != nil {
		return nil, err
	}
	daily, err := r.entries.DailyTotals(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily totals: %w", err)
	}

	return &MonthlySummary{
		Year:        year,
		Month:       month,
		Statistics:  stats,
		TopGroups:   topGroups,
		DailyTotals: daily,
	}, nil
}

func (r *reporter) GenerateCustomReport(ctx context.Context, req CustomReportRequest) (*CustomReport, error) {
	if err := checkRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	report := &CustomReport{StartDate: req.StartDate, EndDate: req.EndDate}
	for _, metric := range req.Metrics {
		var err error
		switch metric {
		case "statistics":
			report.Statistics, err = r.analytics.Statistics(ctx, req.StartDate, req.EndDate)
		case "top_users":
			report.TopUsers, err = r.analytics.TopUsers(ctx, req.StartDate, req.EndDate)
		case "top_groups":
			report.TopGroups, err = r.analytics.TopGroups(ctx, req.StartDate, req.EndDate)
		case "trends":
			report.Trends, err = r.analytics.Trends(ctx, req.StartDate, req.EndDate)
		}
		if err != nil {
			return nil, err
		}
	}

	if len(req.Breakdowns) > 0 {
		daily, err := r.entries.DailyTotals(ctx, req.StartDate, req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("failed to get daily totals: %w", err)
		}
		report.Breakdowns = make(map[string][]models.DailyFeeTotal, len(req.Breakdowns))
		for _, granularity := range req.Breakdowns {
			bucketed, err := bucketTotals(daily, granularity)
			if err != nil {
				return nil, err
			}
			report.Breakdowns[granularity] = bucketed
		}
	}

	sortTotals(report.TopUsers, req.SortBy)
	sortTotals(report.TopGroups, req.SortBy)

	if req.Limit > 0 {
		if len(report.TopUsers) > req.Limit {
			report.TopUsers = report.TopUsers[:req.Limit]
		}
		if len(report.TopGroups) > req.Limit {
			report.TopGroups = report.TopGroups[:req.Limit]
		}
	}
	return report, nil
}

// sortTotals reorders a ranking in place. The repository already sorts
// by total fees, so that key is a no-op.
func sortTotals(totals []models.EntityFeeTotal, sortBy string) {
	switch sortBy {
	case "transaction_count":
		sort.SliceStable(totals, func(i, j int) bool {
			return totals[i].TransactionCount > totals[j].TransactionCount
		})
	case "average_fee":
		sort.SliceStable(totals, func(i, j int) bool {
			return totals[i].AverageFee > totals[j].AverageFee
		})
	}
}

// bucketTotals rolls the daily series into week or month buckets.
// Weeks start on Monday. The input is assumed date-ordered, which the
// repository query guarantees.
func bucketTotals(daily []models.DailyFeeTotal, groupBy string) ([]models.DailyFeeTotal, error) {
	switch groupBy {
	case GroupByDay, "":
		return daily, nil
	case GroupByWeek, GroupByMonth:
	default:
		return nil, ErrInvalidGroupBy
	}

	var out []models.DailyFeeTotal
	for _, d := range daily {
		start := bucketStart(d.Date, groupBy)
		if len(out) == 0 || !out[len(out)-1].Date.Equal(start) {
			out = append(out, models.DailyFeeTotal{Date: start})
		}
		b := &out[len(out)-1]
		b.TotalFees += d.TotalFees
		b.TransactionCount += d.TransactionCount
	}
	for i := range out {
		if out[i].TransactionCount > 0 {
			out[i].AverageFee = out[i].TotalFees / float64(out[i].TransactionCount)
		}
	}
	return out, nil
}

func bucketStart(t time.Time, groupBy string) time.Time {
	if groupBy == GroupByMonth {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	}
	offset := (int(t.Weekday()) + 6) % 7
	day := t.AddDate(0, 0, -offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.Location())
}

func renderPDF(daily []models.DailyFeeTotal, details []models.FeeEntry) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Fee Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 11)
	for _, d := range daily {
		line := fmt.Sprintf("%s: %.2f (%d transactions)",
			d.Date.Format("2006-01-02"), d.TotalFees, d.TransactionCount)
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}

	if len(details) > 0 {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, "Transaction Details", "", 1, "L", false, 0, "")
		pdf.Ln(2)

		pdf.SetFont("Helvetica", "", 9)
		for _, e := range details {
			line := fmt.Sprintf("%s - user %d - group %d - %.2f (%s)",
				e.ChargeDate.Format("2006-01-02"), e.UserID, e.GroupID, e.FeeAmount, e.Status)
			pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func renderCSV(daily []models.DailyFeeTotal, details []models.FeeEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"DATE", "TOTAL FEES", "TRANSACTIONS", "AVERAGE FEE"}); err != nil {
		return nil, fmt.Errorf("failed to render csv: %w", err)
	}
	for _, d := range daily {
		record := []string{
			d.Date.Format("2006-01-02"),
			strconv.FormatFloat(d.TotalFees, 'f', 2, 64),
			strconv.FormatInt(d.TransactionCount, 10),
			strconv.FormatFloat(d.AverageFee, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to render csv: %w", err)
		}
	}

	if len(details) > 0 {
		w.Write([]string{})
		w.Write([]string{"DATE", "USER", "GROUP", "FEE AMOUNT", "STATUS"})
		for _, e := range details {
			w.Write([]string{
				e.ChargeDate.Format("2006-01-02"),
				strconv.FormatUint(uint64(e.UserID), 10),
				strconv.FormatUint(uint64(e.GroupID), 10),
				strconv.FormatFloat(e.FeeAmount, 'f', 2, 64),
				e.Status,
			})
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to render csv: %w", err)
	}
	return buf.Bytes(), nil
}
