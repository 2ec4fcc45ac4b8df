package handlers

import (
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/bizhub-api/internal/service"
	"github.com/maheshrc27/bizhub-api/internal/transfer"
)

type BusinessHandler struct {
	bs service.BusinessService
}

func NewBusinessHandler(bs service.BusinessService) *BusinessHandler {
	return &BusinessHandler{bs: bs}
}

func (h *BusinessHandler) CreateBusiness(c *fiber.Ctx) error {
	var req transfer.BusinessCreation
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	b, err := h.bs.Create(c.Context(), GetUserID(c), req)
	if err != nil {
		return errorResponse(c, err, "Unable to create business")
	}
	return c.Status(fiber.StatusCreated).JSON(b)
}

func (h *BusinessHandler) ListBusinesses(c *fiber.Ctx) error {
	list, err := h.bs.List(c.Context(), GetUserID(c))
	if err != nil {
		return errorResponse(c, err, "Failed to fetch businesses")
	}
	return c.Status(fiber.StatusOK).JSON(list)
}

func (h *BusinessHandler) GetBusiness(c *fiber.Ctx) error {
	b, err := h.bs.Get(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return errorResponse(c, err, "Failed to fetch business")
	}
	return c.Status(fiber.StatusOK).JSON(b)
}

func (h *BusinessHandler) UploadLogo(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing logo file",
		})
	}
	if fileHeader.Size > service.MaxLogoSize {
		return errorResponse(c, service.ErrInvalidFile, "")
	}

	file, err := fileHeader.Open()
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to read logo file",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxLogoSize+1))
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to read logo file",
		})
	}

	url, err := h.bs.UploadLogo(c.Context(), GetUserID(c), c.Params("id"), data)
	if err != nil {
		return errorResponse(c, err, "Unable to upload logo")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"logo_url": url})
}
