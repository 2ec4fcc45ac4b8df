package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/bizhub-api/internal/service"
)

type AccountHandler struct {
	cs service.ConnectorService
}

func NewAccountHandler(cs service.ConnectorService) *AccountHandler {
	return &AccountHandler{cs: cs}
}

func (h *AccountHandler) ListAccounts(c *fiber.Ctx) error {
	accounts, err := h.cs.List(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return errorResponse(c, err, "Failed to fetch social accounts")
	}
	return c.Status(fiber.StatusOK).JSON(accounts)
}

func (h *AccountHandler) DeleteAccount(c *fiber.Ctx) error {
	if err := h.cs.Disconnect(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return errorResponse(c, err, "Unable to delete social account")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AccountHandler) RefreshAccount(c *fiber.Ctx) error {
	userID := GetUserID(c)
	accountID := c.Params("id")

	if _, err := h.cs.Owned(c.Context(), userID, accountID); err != nil {
		return errorResponse(c, err, "Unable to refresh token")
	}
	if err := h.cs.Refresh(c.Context(), accountID); err != nil {
		return errorResponse(c, err, "Unable to refresh token")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
