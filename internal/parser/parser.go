// Package parser turns free-form model output into generated records.
package parser

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/maheshrc27/bizhub-api/internal/models"
)

var (
	postMarker    = regexp.MustCompile(`^\d+\.`)
	postMarkerWS  = regexp.MustCompile(`^\d+\.\s*`)
	hashtag       = regexp.MustCompile(`#\w+`)
	personaMarker = regexp.MustCompile(`Persona \d+:`)
)

// Posts reads numbered posts. A line starting with "<n>." opens a post and
// following unnumbered lines are appended to it. Lines before the first marker
// belong to no post and are dropped.
func Posts(raw string) []models.GeneratedPost {
	posts := []models.GeneratedPost{}
	var current *models.GeneratedPost

	flush := func() {
		if current == nil {
			return
		}
		if content := strings.TrimSpace(current.Content); content != "" {
			current.Content = content
			posts = append(posts, *current)
		}
		current = nil
	}

	for _, line := range nonBlankLines(raw) {
		switch {
		case postMarker.MatchString(line):
			flush()
			content := postMarkerWS.ReplaceAllString(line, "")
			current = &models.GeneratedPost{Content: content, Hashtags: Hashtags(content)}
		case current != nil:
			current.Content += " " + strings.TrimSpace(line)
			current.Hashtags = Hashtags(current.Content)
		}
	}
	flush()

	if len(posts) == 0 {
		slog.Info("parse_empty: no numbered posts in generated text")
	}
	return posts
}

// Hashtags returns every #word token in order, duplicates included.
func Hashtags(text string) []string {
	tags := hashtag.FindAllString(text, -1)
	if tags == nil {
		return []string{}
	}
	return tags
}

type personaField int

const (
	fieldAge personaField = iota
	fieldOccupation
	fieldIncome
	fieldDemographics
	fieldPsychographics
	fieldPainPoints
	fieldGoals
	fieldPreferredChannels
	fieldBuyingBehavior
	fieldBenefits
)

var personaLabels = []struct {
	prefix string
	field  personaField
}{
	{"- Age:", fieldAge},
	{"- Occupation:", fieldOccupation},
	{"- Income:", fieldIncome},
	{"- Demographics:", fieldDemographics},
	{"- Psychographics:", fieldPsychographics},
	{"- Pain Points:", fieldPainPoints},
	{"- Goals:", fieldGoals},
	{"- Preferred Channels:", fieldPreferredChannels},
	{"- Buying Behavior:", fieldBuyingBehavior},
	{"- Benefits:", fieldBenefits},
}

// Personas splits raw on "Persona <n>:" and reads each segment. The first
// unlabeled line names the persona; segments that never get a name are dropped.
func Personas(raw string) []models.GeneratedPersona {
	personas := []models.GeneratedPersona{}

	for _, segment := range personaMarker.Split(raw, -1) {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		if p, ok := persona(segment); ok {
			personas = append(personas, p)
		}
	}

	if len(personas) == 0 {
		slog.Info("parse_empty: no personas in generated text")
	}
	return personas
}

func persona(segment string) (models.GeneratedPersona, bool) {
	p := models.GeneratedPersona{
		PainPoints:        []string{},
		Goals:             []string{},
		PreferredChannels: []string{},
	}

	for _, line := range nonBlankLines(segment) {
		line = strings.TrimSpace(line)

		field, value, labeled := matchLabel(line)
		if !labeled {
			if p.Name == "" {
				p.Name = line
			}
			continue
		}

		switch field {
		case fieldAge:
			p.Age = value
		case fieldOccupation:
			p.Occupation = value
		case fieldIncome:
			p.Income = value
		case fieldDemographics:
			p.Demographics = value
		case fieldPsychographics:
			p.Psychographics = value
		case fieldPainPoints:
			p.PainPoints = splitList(value)
		case fieldGoals:
			p.Goals = splitList(value)
		case fieldPreferredChannels:
			p.PreferredChannels = splitList(value)
		case fieldBuyingBehavior:
			p.BuyingBehavior = value
		case fieldBenefits:
			p.Benefits = value
		}
	}

	return p, p.Name != ""
}

func matchLabel(line string) (personaField, string, bool) {
	for _, l := range personaLabels {
		if strings.HasPrefix(line, l.prefix) {
			return l.field, strings.TrimSpace(strings.TrimPrefix(line, l.prefix)), true
		}
	}
	return 0, "", false
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, len(parts))
	for i, part := range parts {
		items[i] = strings.TrimSpace(part)
	}
	return items
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
