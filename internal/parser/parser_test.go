package parser

import (
	"testing"

	"github.com/maheshrc27/bizhub-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostsNumberedLines(t *testing.T) {
	posts := Posts("1. Great day! #fun #sale\n2. New arrivals #shop")

	assert.Equal(t, []models.GeneratedPost{
		{Content: "Great day! #fun #sale", Hashtags: []string{"#fun", "#sale"}},
		{Content: "New arrivals #shop", Hashtags: []string{"#shop"}},
	}, posts)
}

func TestPostsWithoutNumberedLinesIsEmpty(t *testing.T) {
	posts := Posts("Here is a post #one\nand another line #two")
	assert.NotNil(t, posts)
	assert.Empty(t, posts)

	assert.Empty(t, Posts(""))
	assert.Empty(t, Posts("\n\n   \n"))
}

func TestPostsContinuationLinesAreJoined(t *testing.T) {
	raw := "Here are your posts:\n\n1. Fresh bread daily\n   Come try it! #bakery\n\n2.   Weekend sale #sale #bakery #sale\n"
	posts := Posts(raw)

	require.Len(t, posts, 2)
	assert.Equal(t, "Fresh bread daily Come try it! #bakery", posts[0].Content)
	assert.Equal(t, []string{"#bakery"}, posts[0].Hashtags)
	assert.Equal(t, "Weekend sale #sale #bakery #sale", posts[1].Content)
	assert.Equal(t, []string{"#sale", "#bakery", "#sale"}, posts[1].Hashtags)
}

func TestPostsEmptyMarkerTakesFollowingLine(t *testing.T) {
	posts := Posts("1.\nOpening soon #new\n2. \n")

	require.Len(t, posts, 1)
	assert.Equal(t, "Opening soon #new", posts[0].Content)
	assert.Equal(t, []string{"#new"}, posts[0].Hashtags)
}

func TestPostsIndentedMarkerIsContinuation(t *testing.T) {
	posts := Posts("1. First\n  2. still first")

	require.Len(t, posts, 1)
	assert.Equal(t, "First 2. still first", posts[0].Content)
}

func TestPostsWithoutHashtags(t *testing.T) {
	posts := Posts("1. Plain text")
	require.Len(t, posts, 1)
	assert.Equal(t, []string{}, posts[0].Hashtags)
}

func TestPersonasSingle(t *testing.T) {
	personas := Personas("Persona 1:\nJane Doe\n- Age: 30\n- Goals: grow,save")

	require.Len(t, personas, 1)
	p := personas[0]
	assert.Equal(t, "Jane Doe", p.Name)
	assert.Equal(t, "30", p.Age)
	assert.Equal(t, []string{"grow", "save"}, p.Goals)
	assert.Equal(t, []string{}, p.PainPoints)
}

func TestPersonasAllFields(t *testing.T) {
	raw := `Persona 1: Maria Lopez
- Age: 34
- Occupation: Nurse
- Income: $55,000
- Demographics: Urban, bachelor's degree
- Psychographics: Health conscious
- Pain Points: long shifts, little time
- Goals: eat better , save money
- Preferred Channels: Instagram, Email
- Buying Behavior: Reads reviews first
- Benefits: Quick healthy meals

Persona 2: Tom Baker
- Age: 52
`
	personas := Personas(raw)
	require.Len(t, personas, 2)

	p := personas[0]
	assert.Equal(t, "Maria Lopez", p.Name)
	assert.Equal(t, "Nurse", p.Occupation)
	assert.Equal(t, "$55,000", p.Income)
	assert.Equal(t, "Urban, bachelor's degree", p.Demographics)
	assert.Equal(t, "Health conscious", p.Psychographics)
	assert.Equal(t, []string{"long shifts", "little time"}, p.PainPoints)
	assert.Equal(t, []string{"eat better", "save money"}, p.Goals)
	assert.Equal(t, []string{"Instagram", "Email"}, p.PreferredChannels)
	assert.Equal(t, "Reads reviews first", p.BuyingBehavior)
	assert.Equal(t, "Quick healthy meals", p.Benefits)

	assert.Equal(t, "Tom Baker", personas[1].Name)
	assert.Equal(t, "52", personas[1].Age)
}

func TestPersonasDropsSegmentsWithoutName(t *testing.T) {
	raw := "Persona 1:\n- Age: 30\n- Goals: a\nPersona 2:\nSam\n- Age: 41"
	personas := Personas(raw)

	require.Len(t, personas, 1)
	assert.Equal(t, "Sam", personas[0].Name)
}

func TestPersonasNameIsFirstUnlabeledLine(t *testing.T) {
	personas := Personas("Persona 1:\n- Age: 30\nAlex Kim\nSecond unlabeled line")

	require.Len(t, personas, 1)
	assert.Equal(t, "Alex Kim", personas[0].Name)
	assert.Equal(t, "30", personas[0].Age)
}

func TestPersonasEmptyInput(t *testing.T) {
	assert.Empty(t, Personas(""))
	assert.Empty(t, Personas("Persona 1:\n\nPersona 2:   "))
}
