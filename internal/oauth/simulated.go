package oauth

import (
	"context"
	"net/url"
	"strings"

	"github.com/maheshrc27/bizhub-api/internal/transfer"
	"golang.org/x/oauth2"
)

const SimulatedCode = "simulated"

// simulatedProvider has the shape of a real provider but talks to nobody.
// Its consent URL points straight back at our own callback.
type simulatedProvider struct {
	platform    string
	callbackURL string
}

func NewSimulatedProvider(platform, publicURL string) Provider {
	return &simulatedProvider{
		platform:    platform,
		callbackURL: strings.TrimRight(publicURL, "/") + "/oauth/" + platform + "/callback",
	}
}

func (p *simulatedProvider) Platform() string { return p.platform }

func (p *simulatedProvider) Simulated() bool { return true }

func (p *simulatedProvider) AuthCodeURL(state string) string {
	params := url.Values{"code": {SimulatedCode}, "state": {state}}
	return p.callbackURL + "?" + params.Encode()
}

func (p *simulatedProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return &oauth2.Token{}, nil
}

func (p *simulatedProvider) Profile(ctx context.Context, accessToken string) (*transfer.Profile, error) {
	return &transfer.Profile{}, nil
}

func (p *simulatedProvider) Pages(ctx context.Context, accessToken string) ([]transfer.Page, error) {
	return nil, nil
}

func (p *simulatedProvider) Refresh(ctx context.Context, accessToken, refreshToken string) (*transfer.RefreshedToken, error) {
	return nil, ErrRefreshUnsupported
}
