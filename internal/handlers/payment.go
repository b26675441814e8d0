package handlers

import (
	"errors"
	"strconv"

	"thrift/internal/models"
	"thrift/internal/services/fee"
	"thrift/internal/services/payment"
	"thrift/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	paymentService payment.Service
}

func NewPaymentHandler(paymentService payment.Service) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// RecordPayment records a contribution and charges the service fee on it
func (h *PaymentHandler) RecordPayment(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input models.RecordPaymentRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	p, entry, err := h.paymentService.RecordPayment(c.Context(), claims.UserID, input)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidAmount):
			return utils.BadRequest(c, "Amount must be greater than zero")
		case errors.Is(err, payment.ErrGroupNotFound):
			return utils.NotFound(c, "Group not found")
		case errors.Is(err, fee.ErrNoActivePolicy):
			return utils.InternalError(c, "Fee configuration unavailable")
		default:
			return utils.InternalError(c, "Failed to record payment")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"payment": p,
		"fee":     entry,
	})
}

// ChargeFee charges the service fee on an existing payment
func (h *PaymentHandler) ChargeFee(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid payment ID")
	}

	var input struct {
		Method string `json:"method"`
	}
	// Body is optional; an empty body means the standard method.
	_ = c.BodyParser(&input)

	entry, err := h.paymentService.ChargeFee(c.Context(), uint(id), input.Method)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrPaymentNotFound):
			return utils.NotFound(c, "Payment not found")
		case errors.Is(err, payment.ErrFeeAlreadyCharged):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Fee already charged for this payment"})
		case errors.Is(err, fee.ErrNoActivePolicy):
			return utils.InternalError(c, "Fee configuration unavailable")
		default:
			return utils.InternalError(c, "Failed to charge fee")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"fee": entry})
}

// GetPayment returns a single contribution payment
func (h *PaymentHandler) GetPayment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid payment ID")
	}

	p, err := h.paymentService.GetPayment(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound) {
			return utils.NotFound(c, "Payment not found")
		}
		return utils.InternalError(c, "Failed to get payment")
	}

	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}
	if claims.Role != "admin" && p.UserID != claims.UserID {
		return utils.Forbidden(c, "Not your payment")
	}

	return utils.Success(c, p)
}

// ListPayments pages through the caller's contribution history
func (h *PaymentHandler) ListPayments(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	pagination := utils.GetPagination(c, 1, 20)

	payments, total, err := h.paymentService.ListUserPayments(c.Context(), claims.UserID, pagination.Limit, pagination.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to list payments")
	}
	pagination.SetTotal(total)

	return utils.Success(c, utils.NewPaginatedResponse(payments, pagination))
}
