package prompt

import (
	"testing"

	"github.com/maheshrc27/bizhub-api/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostsDefaultsForMissingFields(t *testing.T) {
	p := Posts(transfer.GenerationRequest{BusinessName: "Acme Bakery", Industry: "Food", ContentType: "post"})

	assert.Contains(t, p, "Create 5 engaging social media posts for Acme Bakery, a Food business.")
	assert.Contains(t, p, "Business Description: Not provided")
	assert.Contains(t, p, "Target Audience: General audience")
	assert.Contains(t, p, "Platform: All platforms")
	assert.Contains(t, p, "Additional Context: None")
	assert.Contains(t, p, "Keep posts under 280 characters for Twitter compatibility")
}

func TestPostsPlatformGuidance(t *testing.T) {
	tests := []struct {
		platform string
		want     string
	}{
		{"twitter", "under 280 characters"},
		{"instagram", "under 2,200 characters"},
		{"linkedin", "under 3,000 characters"},
		{"facebook", "conversational tone"},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			p := Posts(transfer.GenerationRequest{BusinessName: "A", Industry: "B", Platform: tt.platform})
			assert.Contains(t, p, "Platform: "+tt.platform)
			assert.Contains(t, p, tt.want)
		})
	}
}

func TestPromptsAreDeterministic(t *testing.T) {
	req := transfer.GenerationRequest{BusinessName: "Acme", Industry: "Retail", Description: "Shoes", TargetAudience: "Runners"}
	assert.Equal(t, Personas(req), Personas(req))
	assert.Equal(t, Canvas(req), Canvas(req))
}

func TestPersonasUsesProvidedFields(t *testing.T) {
	p := Personas(transfer.GenerationRequest{BusinessName: "Acme", Industry: "Retail", Description: "Shoes", TargetAudience: "Runners"})
	assert.Contains(t, p, "Business Description: Shoes")
	assert.Contains(t, p, "Target Audience: Runners")
	assert.Contains(t, p, "Persona 1: [Name]")
}

func TestCanvasListsAllSections(t *testing.T) {
	p := Canvas(transfer.GenerationRequest{BusinessName: "Acme", Industry: "Retail"})
	assert.Contains(t, p, "1. KEY PARTNERS")
	assert.Contains(t, p, "9. REVENUE STREAMS")
}

func TestForDispatch(t *testing.T) {
	req := transfer.GenerationRequest{BusinessName: "Acme", Industry: "Retail", ContentType: "canvas"}
	p, err := For(req)
	require.NoError(t, err)
	assert.Equal(t, Canvas(req), p)

	req.ContentType = "video"
	_, err = For(req)
	assert.Error(t, err)
}
