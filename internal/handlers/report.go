package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"thrift/internal/services/analytics"
	"thrift/internal/services/notification"
	"thrift/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler exposes the fee analytics and reporting endpoints.
type ReportHandler struct {
	analyticsService analytics.Service
	reporter         analytics.Reporter
	mailer           notification.Mailer
}

func NewReportHandler(analyticsService analytics.Service, reporter analytics.Reporter, mailer notification.Mailer) *ReportHandler {
	return &ReportHandler{
		analyticsService: analyticsService,
		reporter:         reporter,
		mailer:           mailer,
	}
}

// GenerateReport renders a fee report and either streams it back or
// mails it to the requested address
func (h *ReportHandler) GenerateReport(c *fiber.Ctx) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	req := analytics.ReportRequest{
		StartDate:      start,
		EndDate:        end,
		Format:         strings.ToUpper(c.Query("format")),
		GroupBy:        strings.ToLower(c.Query("groupBy")),
		IncludeDetails: c.QueryBool("includeDetails"),
	}

	report, err := h.reporter.GenerateReport(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, analytics.ErrUnsupportedFormat):
			return utils.BadRequest(c, "Unsupported report format")
		case errors.Is(err, analytics.ErrInvalidGroupBy):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, analytics.ErrInvalidRange):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to generate report")
		}
	}

	if email := c.Query("email"); email != "" {
		subject := fmt.Sprintf("Fee report %s to %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
		if err := h.mailer.SendReport(c.Context(), email, subject, report.FileName, report.Content); err != nil {
			return utils.InternalError(c, "Failed to email report")
		}
		return utils.Success(c, fiber.Map{
			"message":   "Report sent",
			"recipient": email,
			"file_name": report.FileName,
		})
	}

	c.Set(fiber.HeaderContentType, report.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", report.FileName))
	return c.Send(report.Content)
}

// MonthlySummary returns the canned per-month report
func (h *ReportHandler) MonthlySummary(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil || year < 2000 || year > 2200 {
		return utils.BadRequest(c, "Invalid year")
	}
	month, err := strconv.Atoi(c.Params("month"))
	if err != nil || month < 1 || month > 12 {
		return utils.BadRequest(c, "Invalid month")
	}

	summary, err := h.reporter.GenerateMonthlySummary(c.Context(), year, time.Month(month))
	if err != nil {
		return utils.InternalError(c, "Failed to generate monthly summary")
	}
	return utils.Success(c, summary)
}

// CustomReport computes only the metric blocks asked for
func (h *ReportHandler) CustomReport(c *fiber.Ctx) error {
	var input analytics.CustomReportRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	report, err := h.reporter.GenerateCustomReport(c.Context(), input)
	if err != nil {
		if errors.Is(err, analytics.ErrInvalidRange) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "Failed to generate custom report")
	}
	return utils.Success(c, report)
}

// Statistics aggregates fees over the requested range
func (h *ReportHandler) Statistics(c *fiber.Ctx) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	stats, err := h.analyticsService.Statistics(c.Context(), start, end)
	if err != nil {
		if errors.Is(err, analytics.ErrInvalidRange) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "Failed to get fee statistics")
	}
	return utils.Success(c, stats)
}

// TopUsers ranks fee payers by total fees, descending
func (h *ReportHandler) TopUsers(c *fiber.Ctx) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	totals, err := h.analyticsService.TopUsers(c.Context(), start, end)
	if err != nil {
		return utils.InternalError(c, "Failed to rank users")
	}
	return utils.Success(c, fiber.Map{"users": totals})
}

// TopGroups ranks groups by total fees, descending
func (h *ReportHandler) TopGroups(c *fiber.Ctx) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	totals, err := h.analyticsService.TopGroups(c.Context(), start, end)
	if err != nil {
		return utils.InternalError(c, "Failed to rank groups")
	}
	return utils.Success(c, fiber.Map{"groups": totals})
}

// Trends runs the trend analysis over the requested range
func (h *ReportHandler) Trends(c *fiber.Ctx) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	trends, err := h.analyticsService.Trends(c.Context(), start, end)
	if err != nil {
		if errors.Is(err, analytics.ErrInvalidRange) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "Failed to analyze trends")
	}
	return utils.Success(c, trends)
}

// Projection projects revenue over the next N days
func (h *ReportHandler) Projection(c *fiber.Ctx) error {
	days, _ := strconv.Atoi(c.Query("days", "30"))

	projection, err := h.analyticsService.ProjectedRevenue(c.Context(), days)
	if err != nil {
		if errors.Is(err, analytics.ErrInvalidDays) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "Failed to project revenue")
	}
	return utils.Success(c, projection)
}

// parseDateRange reads startDate and endDate query parameters. Missing
// values default to the trailing 30 days.
func parseDateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if raw := c.Query("startDate"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid startDate, expected YYYY-MM-DD")
		}
		start = parsed
	}
	if raw := c.Query("endDate"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid endDate, expected YYYY-MM-DD")
		}
		// Make the end date inclusive of the whole day.
		end = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return start, end, nil
}
