package handlers

import (
	"errors"
	"strconv"

	"thrift/internal/models"
	"thrift/internal/services/group"
	"thrift/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type GroupHandler struct {
	groupService group.Service
}

func NewGroupHandler(groupService group.Service) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
	}
}

// CreateGroup creates a savings group run by the caller
func (h *GroupHandler) CreateGroup(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input group.CreateGroupRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	g, err := h.groupService.CreateGroup(c.Context(), claims.UserID, input)
	if err != nil {
		if errors.Is(err, group.ErrInvalidGroup) {
			return utils.BadRequest(c, "Invalid group data")
		}
		return utils.InternalError(c, "Failed to create group")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"group": g})
}

// GetGroup fetches a single group
func (h *GroupHandler) GetGroup(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid group ID")
	}

	g, err := h.groupService.GetGroup(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, group.ErrGroupNotFound) {
			return utils.NotFound(c, "Group not found")
		}
		return utils.InternalError(c, "Failed to get group")
	}
	return utils.Success(c, g)
}

// GetGroupByInviteCode resolves a shared invite code
func (h *GroupHandler) GetGroupByInviteCode(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return utils.BadRequest(c, "Invite code required")
	}

	g, err := h.groupService.GetByInviteCode(c.Context(), code)
	if err != nil {
		if errors.Is(err, group.ErrGroupNotFound) {
			return utils.NotFound(c, "Group not found")
		}
		return utils.InternalError(c, "Failed to look up invite code")
	}
	return utils.Success(c, g)
}

// ListGroups lists the groups the caller coordinates
func (h *GroupHandler) ListGroups(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	groups, err := h.groupService.ListCoordinatorGroups(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to list groups")
	}
	return utils.Success(c, fiber.Map{"groups": groups})
}
