package models

const (
	ContentTypePost    = "post"
	ContentTypePersona = "persona"
	ContentTypeCanvas  = "canvas"
)

type GeneratedPost struct {
	Content  string   `json:"content"`
	Hashtags []string `json:"hashtags"`
}

type GeneratedPersona struct {
	Name              string   `json:"name"`
	Age               string   `json:"age"`
	Occupation        string   `json:"occupation"`
	Income            string   `json:"income"`
	Demographics      string   `json:"demographics"`
	Psychographics    string   `json:"psychographics"`
	PainPoints        []string `json:"pain_points"`
	Goals             []string `json:"goals"`
	PreferredChannels []string `json:"preferred_channels"`
	BuyingBehavior    string   `json:"buying_behavior"`
	Benefits          string   `json:"benefits"`
}

// GeneratedCanvas keeps the model output as-is in Raw; Sections is a best-effort split.
type GeneratedCanvas struct {
	Raw      string          `json:"raw"`
	Sections []CanvasSection `json:"sections"`
}

type CanvasSection struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}
