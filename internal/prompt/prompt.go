// Package prompt renders the instructions sent to the generative endpoint.
// Every builder is a pure function of the request.
package prompt

import (
	"fmt"
	"strings"

	"github.com/maheshrc27/bizhub-api/internal/models"
	"github.com/maheshrc27/bizhub-api/internal/transfer"
)

const (
	notProvided     = "Not provided"
	generalAudience = "General audience"
	allPlatforms    = "All platforms"
	noContext       = "None"
)

const postsTemplate = `Create 5 engaging social media posts for %s, a %s business.

Business Description: %s
Target Audience: %s
Platform: %s
Additional Context: %s

Requirements:
- Each post should be engaging and relevant to the target audience
- Include relevant hashtags
- %s
- Include call-to-actions where appropriate
- Mix of promotional, educational, and engaging content

Format each post as:
1. [Post content with hashtags]
2. [Post content with hashtags]
...and so on.

Make the content authentic, valuable, and engaging for the target audience.
`

const personasTemplate = `Create 3 detailed customer personas for %s, a %s business.

Business Description: %s
Target Audience: %s
Additional Context: %s

For each persona, include:
1. Name and Age
2. Occupation and Income Level
3. Demographics (location, education, etc.)
4. Psychographics (interests, values, lifestyle)
5. Pain Points and Challenges
6. Goals and Aspirations
7. Preferred Communication Channels
8. Buying Behavior
9. How they would benefit from this business

Format as:
Persona 1: [Name]
- Age: [Age]
- Occupation: [Occupation]
- Income: [Income Level]
- Demographics: [Details]
- Psychographics: [Interests, values, lifestyle]
- Pain Points: [Comma separated list of challenges]
- Goals: [Comma separated list of goals]
- Preferred Channels: [Comma separated list of channels]
- Buying Behavior: [How they make decisions]
- Benefits: [How this business helps them]

Repeat for 3 personas. Keep each field on a single line. Make them realistic and diverse.
`

const canvasTemplate = `Create a comprehensive Business Model Canvas for %s, a %s business.

Business Description: %s
Target Audience: %s
Additional Context: %s

Fill out each section of the Business Model Canvas:

%s
Start each section with its number and title on its own line and list the answers as "- " bullet points.
Provide detailed, specific answers for each section based on the business information provided.
`

// CanvasSections are the nine blocks of the business model canvas in order.
var CanvasSections = []struct {
	Title     string
	Questions []string
}{
	{"KEY PARTNERS", []string{"Who are your key partners and suppliers?", "What key resources are you acquiring from partners?"}},
	{"KEY ACTIVITIES", []string{"What key activities does your value proposition require?", "What are the most important activities for your business?"}},
	{"KEY RESOURCES", []string{"What key resources does your value proposition require?", "What resources are most important for your business?"}},
	{"VALUE PROPOSITIONS", []string{"What value do you deliver to your customers?", "What problems do you solve?", "What customer needs do you satisfy?"}},
	{"CUSTOMER RELATIONSHIPS", []string{"What type of relationship do your customers expect?", "How do you maintain relationships with customers?"}},
	{"CHANNELS", []string{"Through which channels do your customer segments want to be reached?", "How are you reaching them now?"}},
	{"CUSTOMER SEGMENTS", []string{"Who are your most important customers?", "What are the different customer segments?"}},
	{"COST STRUCTURE", []string{"What are the most important costs in your business model?", "Which key resources/activities are most expensive?"}},
	{"REVENUE STREAMS", []string{"For what value are your customers really willing to pay?", "How do you currently generate revenue?"}},
}

func Posts(req transfer.GenerationRequest) string {
	platform := req.Platform
	if platform == "" {
		platform = allPlatforms
	}
	return fmt.Sprintf(postsTemplate,
		req.BusinessName, req.Industry,
		orDefault(req.Description, notProvided),
		orDefault(req.TargetAudience, generalAudience),
		platform,
		orDefault(req.AdditionalContext, noContext),
		PlatformGuidance(req.Platform),
	)
}

func Personas(req transfer.GenerationRequest) string {
	return fmt.Sprintf(personasTemplate,
		req.BusinessName, req.Industry,
		orDefault(req.Description, notProvided),
		orDefault(req.TargetAudience, generalAudience),
		orDefault(req.AdditionalContext, noContext),
	)
}

func Canvas(req transfer.GenerationRequest) string {
	var sections strings.Builder
	for i, s := range CanvasSections {
		fmt.Fprintf(&sections, "%d. %s\n", i+1, s.Title)
		for _, q := range s.Questions {
			sections.WriteString("- " + q + "\n")
		}
		sections.WriteString("\n")
	}

	return fmt.Sprintf(canvasTemplate,
		req.BusinessName, req.Industry,
		orDefault(req.Description, notProvided),
		orDefault(req.TargetAudience, generalAudience),
		orDefault(req.AdditionalContext, noContext),
		sections.String(),
	)
}

// For dispatches on req.ContentType.
func For(req transfer.GenerationRequest) (string, error) {
	switch req.ContentType {
	case models.ContentTypePost:
		return Posts(req), nil
	case models.ContentTypePersona:
		return Personas(req), nil
	case models.ContentTypeCanvas:
		return Canvas(req), nil
	default:
		return "", fmt.Errorf("unknown content type %q", req.ContentType)
	}
}

// PlatformGuidance is the length and tone requirement for a platform.
func PlatformGuidance(platform string) string {
	switch platform {
	case models.PlatformTwitter:
		return "Keep each post under 280 characters"
	case models.PlatformInstagram:
		return "Keep each caption under 2,200 characters and write for a visual-first audience"
	case models.PlatformLinkedIn:
		return "Use a professional tone and keep each post under 3,000 characters"
	case models.PlatformFacebook:
		return "Use a conversational tone that invites comments and shares"
	default:
		return "Keep posts under 280 characters for Twitter compatibility"
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
