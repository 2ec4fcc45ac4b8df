package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/bizhub-api/internal/models"
	"github.com/maheshrc27/bizhub-api/internal/service"
	"github.com/maheshrc27/bizhub-api/internal/transfer"
)

var contentTypes = map[string]string{
	"posts":    models.ContentTypePost,
	"personas": models.ContentTypePersona,
	"canvas":   models.ContentTypeCanvas,
}

type ContentHandler struct {
	cs service.ContentService
}

func NewContentHandler(cs service.ContentService) *ContentHandler {
	return &ContentHandler{cs: cs}
}

func (h *ContentHandler) Generate(c *fiber.Ctx) error {
	contentType, ok := contentTypes[c.Params("type")]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unknown content type",
		})
	}

	var opts transfer.GenerationOptions
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&opts); err != nil {
			slog.Info(err.Error())
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	req, err := h.cs.ForBusiness(c.Context(), GetUserID(c), c.Params("id"), contentType, opts)
	if err != nil {
		return errorResponse(c, err, "Unable to generate content")
	}

	switch contentType {
	case models.ContentTypePost:
		posts, err := h.cs.GeneratePosts(c.Context(), req, nil)
		if err != nil {
			return errorResponse(c, err, "Unable to generate content")
		}
		return c.Status(fiber.StatusOK).JSON(transfer.PostsResult{Posts: posts})
	case models.ContentTypePersona:
		personas, err := h.cs.GeneratePersonas(c.Context(), req)
		if err != nil {
			return errorResponse(c, err, "Unable to generate content")
		}
		return c.Status(fiber.StatusOK).JSON(transfer.PersonasResult{Personas: personas})
	default:
		canvas, err := h.cs.GenerateCanvas(c.Context(), req)
		if err != nil {
			return errorResponse(c, err, "Unable to generate content")
		}
		return c.Status(fiber.StatusOK).JSON(transfer.CanvasResult{Canvas: *canvas})
	}
}
