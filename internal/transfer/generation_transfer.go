package transfer

import "github.com/maheshrc27/bizhub-api/internal/models"

type GenerationRequest struct {
	BusinessName      string `json:"business_name" validate:"required,max=200"`
	Industry          string `json:"industry" validate:"required,max=100"`
	Description       string `json:"description" validate:"max=2000"`
	TargetAudience    string `json:"target_audience" validate:"max=500"`
	Platform          string `json:"platform" validate:"omitempty,oneof=facebook twitter instagram linkedin"`
	ContentType       string `json:"content_type" validate:"required,oneof=post persona canvas"`
	AdditionalContext string `json:"additional_context" validate:"max=2000"`
}

// GenerationOptions is the body accepted by the generate endpoint; business
// fields come from the stored business unless overridden.
type GenerationOptions struct {
	TargetAudience    string `json:"target_audience" validate:"max=500"`
	Platform          string `json:"platform" validate:"omitempty,oneof=facebook twitter instagram linkedin"`
	AdditionalContext string `json:"additional_context" validate:"max=2000"`
}

type PostsResult struct {
	Posts []models.GeneratedPost `json:"posts"`
}

type PersonasResult struct {
	Personas []models.GeneratedPersona `json:"personas"`
}

type CanvasResult struct {
	Canvas models.GeneratedCanvas `json:"canvas"`
}
