package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanvasKeepsRawAndSplitsSections(t *testing.T) {
	raw := `Business Model Canvas for Acme

**1. KEY PARTNERS**
- Local flour mills
- Delivery apps

1. Regional distributors

## 4. Value Propositions:
* Fresh bread every morning
`
	canvas := Canvas(raw)
	assert.Equal(t, raw, canvas.Raw)

	require.Len(t, canvas.Sections, 2)
	assert.Equal(t, "KEY PARTNERS", canvas.Sections[0].Title)
	assert.Equal(t, []string{"Local flour mills", "Delivery apps", "1. Regional distributors"}, canvas.Sections[0].Items)
	assert.Equal(t, "VALUE PROPOSITIONS", canvas.Sections[1].Title)
	assert.Equal(t, []string{"Fresh bread every morning"}, canvas.Sections[1].Items)
}

func TestCanvasUnstructuredText(t *testing.T) {
	canvas := Canvas("Just a paragraph about the business.")
	assert.Equal(t, "Just a paragraph about the business.", canvas.Raw)
	assert.Empty(t, canvas.Sections)
}
