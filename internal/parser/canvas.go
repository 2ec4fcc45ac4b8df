package parser

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/maheshrc27/bizhub-api/internal/models"
	"github.com/maheshrc27/bizhub-api/internal/prompt"
)

var (
	canvasHeading = regexp.MustCompile(`^[#*\s]*\d+\.\s*\**\s*([A-Za-z][A-Za-z &/-]*[A-Za-z])\s*\**\s*:?\s*\**\s*$`)
	canvasItem    = regexp.MustCompile(`^\s*(?:[-*•]|\d+\))\s+`)
)

// Canvas keeps raw untouched and adds a best-effort split into numbered
// sections with their bullet items.
func Canvas(raw string) models.GeneratedCanvas {
	canvas := models.GeneratedCanvas{Raw: raw, Sections: []models.CanvasSection{}}
	var current *models.CanvasSection

	for _, line := range nonBlankLines(raw) {
		if title, ok := sectionTitle(line); ok {
			if current != nil {
				canvas.Sections = append(canvas.Sections, *current)
			}
			current = &models.CanvasSection{Title: title, Items: []string{}}
			continue
		}
		if current == nil {
			continue
		}
		item := strings.TrimSpace(canvasItem.ReplaceAllString(line, ""))
		item = strings.Trim(item, "*")
		if item = strings.TrimSpace(item); item != "" {
			current.Items = append(current.Items, item)
		}
	}
	if current != nil {
		canvas.Sections = append(canvas.Sections, *current)
	}

	if strings.TrimSpace(raw) == "" {
		slog.Info("parse_empty: empty canvas text")
	}
	return canvas
}

// sectionTitle accepts only the nine canvas headings so numbered answers are
// not mistaken for sections.
func sectionTitle(line string) (string, bool) {
	m := canvasHeading.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	title := strings.ToUpper(strings.Join(strings.Fields(m[1]), " "))
	for _, s := range prompt.CanvasSections {
		if s.Title == title {
			return title, true
		}
	}
	return "", false
}
