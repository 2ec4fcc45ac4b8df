package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/bizhub-api/internal/service"
	"github.com/maheshrc27/bizhub-api/internal/transfer"
)

type OAuthHandler struct {
	cs service.ConnectorService
}

func NewOAuthHandler(cs service.ConnectorService) *OAuthHandler {
	return &OAuthHandler{cs: cs}
}

func (h *OAuthHandler) Connect(c *fiber.Ctx) error {
	authURL, err := h.cs.AuthURL(c.Context(), c.Params("platform"), c.Query("business_id"), c.Query("redirect_uri"))
	if err != nil {
		return errorResponse(c, err, "Unable to start authorization")
	}
	return c.Redirect(authURL, fiber.StatusFound)
}

// Callback always answers with a redirect; failures travel as ?error=<reason>.
func (h *OAuthHandler) Callback(c *fiber.Ctx) error {
	outcome := h.cs.Callback(c.Context(), c.Params("platform"), transfer.CallbackParams{
		Code:  c.Query("code"),
		State: c.Query("state"),
		Error: c.Query("error"),
	})
	return c.Redirect(outcome.RedirectURL(), fiber.StatusFound)
}
