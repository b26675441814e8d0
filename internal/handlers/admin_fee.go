package handlers

import (
	"errors"
	"strconv"
	"time"

	"thrift/internal/models"
	"thrift/internal/repositories"
	"thrift/internal/services/feepolicy"
	"thrift/internal/services/refund"
	"thrift/internal/utils"
	"thrift/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AdminFeeHandler exposes the fee configuration and refund operations
// behind the admin routes.
type AdminFeeHandler struct {
	policyService feepolicy.Service
	refundService refund.Service
}

func NewAdminFeeHandler(policyService feepolicy.Service, refundService refund.Service) *AdminFeeHandler {
	return &AdminFeeHandler{
		policyService: policyService,
		refundService: refundService,
	}
}

// UpdateFeeConfig activates a new fee policy
func (h *AdminFeeHandler) UpdateFeeConfig(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input feepolicy.UpdateConfigRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	policy, err := h.policyService.Activate(c.Context(), input, claims.UserID)
	if err != nil {
		if errors.Is(err, feepolicy.ErrInvalidConfig) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "Failed to update fee configuration")
	}

	return utils.Success(c, fiber.Map{
		"message": "Fee configuration updated",
		"config":  policy,
	})
}

// GetFeeConfig returns the active fee policy
func (h *AdminFeeHandler) GetFeeConfig(c *fiber.Ctx) error {
	policy, err := h.policyService.GetActive(c.Context())
	if err != nil {
		if errors.Is(err, feepolicy.ErrNoActivePolicy) {
			return utils.NotFound(c, "No active fee configuration")
		}
		return utils.InternalError(c, "Failed to get fee configuration")
	}
	return utils.Success(c, policy)
}

// GetFeeConfigHistory pages through past policies, newest first
func (h *AdminFeeHandler) GetFeeConfigHistory(c *fiber.Ctx) error {
	pagination := utils.GetPagination(c, 1, 20)

	policies, total, err := h.policyService.History(c.Context(), pagination.Offset, pagination.Limit)
	if err != nil {
		return utils.InternalError(c, "Failed to get fee configuration history")
	}
	pagination.SetTotal(total)

	return utils.Success(c, utils.NewPaginatedResponse(policies, pagination))
}

// RefundFee refunds part or all of a charged fee
func (h *AdminFeeHandler) RefundFee(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	entryID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid fee entry ID")
	}

	var input struct {
		Amount float64 `json:"amount"`
		Reason string  `json:"reason"`
		Notes  string  `json:"notes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if len(input.Notes) > validation.MaxNotesLength {
		return utils.BadRequest(c, "Notes too long")
	}

	record, err := h.refundService.ProcessRefund(c.Context(), refund.RefundRequest{
		FeeEntryID: uint(entryID),
		Amount:     input.Amount,
		Reason:     models.RefundReason(input.Reason),
		AdminID:    claims.UserID,
		Notes:      input.Notes,
	})
	if err != nil {
		return h.refundError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"message": "Refund processed",
		"refund":  record,
	})
}

// AdjustFee corrects a fee amount without moving refund money
func (h *AdminFeeHandler) AdjustFee(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	entryID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid fee entry ID")
	}

	var input struct {
		AdjustmentAmount float64 `json:"adjustment_amount"`
		Reason           string  `json:"reason"`
		Notes            string  `json:"notes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	record, err := h.refundService.ProcessAdjustment(c.Context(), refund.AdjustmentRequest{
		FeeEntryID:       uint(entryID),
		AdjustmentAmount: input.AdjustmentAmount,
		Reason:           input.Reason,
		AdminID:          claims.UserID,
		Notes:            input.Notes,
	})
	if err != nil {
		return h.refundError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"message":    "Fee adjusted",
		"adjustment": record,
	})
}

// BulkRefund refunds a percentage of the fee across many entries
func (h *AdminFeeHandler) BulkRefund(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		FeeEntryIDs      []uint  `json:"fee_entry_ids"`
		Reason           string  `json:"reason"`
		RefundPercentage float64 `json:"refund_percentage"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	result, err := h.refundService.ProcessBulkRefund(c.Context(), refund.BulkRefundRequest{
		FeeEntryIDs:      input.FeeEntryIDs,
		Reason:           models.RefundReason(input.Reason),
		AdminID:          claims.UserID,
		RefundPercentage: input.RefundPercentage,
	})
	if err != nil {
		return h.refundError(c, err)
	}

	return utils.Success(c, result)
}

// RefundCandidates lists PAID, unrefunded entries matching the criteria
func (h *AdminFeeHandler) RefundCandidates(c *fiber.Ctx) error {
	criteria := repositories.RefundCandidateCriteria{
		MinAmount: parseFloatQuery(c, "minAmount"),
	}
	if start, err := time.Parse("2006-01-02", c.Query("startDate")); err == nil {
		criteria.StartDate = start
	}
	if end, err := time.Parse("2006-01-02", c.Query("endDate")); err == nil {
		criteria.EndDate = end
	}
	criteria.Limit, _ = strconv.Atoi(c.Query("limit", "100"))

	entries, err := h.refundService.BulkRefundCandidates(c.Context(), criteria)
	if err != nil {
		return utils.InternalError(c, "Failed to list refund candidates")
	}

	return utils.Success(c, fiber.Map{
		"candidates": entries,
		"count":      len(entries),
	})
}

func (h *AdminFeeHandler) refundError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, refund.ErrFeeNotFound):
		return utils.NotFound(c, "Fee entry not found")
	case errors.Is(err, refund.ErrInvalidAmount),
		errors.Is(err, refund.ErrExceedsOriginal),
		errors.Is(err, refund.ErrNegativeFee),
		errors.Is(err, refund.ErrBelowRefunded),
		errors.Is(err, refund.ErrInvalidReason),
		errors.Is(err, refund.ErrNotRefundable):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, refund.ErrGatewayFailed):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Payment gateway refund failed"})
	default:
		return utils.InternalError(c, "Refund operation failed")
	}
}

func parseFloatQuery(c *fiber.Ctx, key string) float64 {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil {
		return 0
	}
	return v
}
