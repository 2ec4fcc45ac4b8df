// Package oauth holds the provider clients and state codecs used by the
// social account connector.
package oauth

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sort"

	config "github.com/maheshrc27/bizhub-api/configs"
	"github.com/maheshrc27/bizhub-api/internal/models"
	"github.com/maheshrc27/bizhub-api/internal/transfer"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
)

var (
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrRefreshUnsupported  = errors.New("token refresh is not supported for this platform")
)

type Provider interface {
	Platform() string
	// Simulated providers skip the code exchange and never hold tokens.
	Simulated() bool
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Profile(ctx context.Context, accessToken string) (*transfer.Profile, error)
	Pages(ctx context.Context, accessToken string) ([]transfer.Page, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*transfer.RefreshedToken, error)
}

type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Platform()] = p
	}
	return r
}

// NewRegistryFromConfig wires Facebook when credentials are present and the
// simulated platforms only when explicitly enabled outside production.
func NewRegistryFromConfig(cfg *config.Config, httpClient *http.Client) *Registry {
	var providers []Provider
	simulate := cfg.SimulatedProviders && !cfg.IsProduction()

	if cfg.FacebookEnabled() {
		providers = append(providers, NewFacebookProvider(cfg.Facebook, httpClient))
	} else if simulate {
		providers = append(providers, NewSimulatedProvider(models.PlatformFacebook, cfg.PublicURL))
	}

	if simulate {
		for _, platform := range []string{models.PlatformTwitter, models.PlatformInstagram, models.PlatformLinkedIn} {
			providers = append(providers, NewSimulatedProvider(platform, cfg.PublicURL))
		}
	}

	return NewRegistry(providers...)
}

func (r *Registry) Get(platform string) (Provider, error) {
	p, ok := r.providers[platform]
	if !ok {
		return nil, ErrUnsupportedPlatform
	}
	return p, nil
}

func (r *Registry) Platforms() []string {
	platforms := make([]string, 0, len(r.providers))
	for p := range r.providers {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms)
	return platforms
}

// ProviderMessage extracts the provider's own error text from a failed call.
func ProviderMessage(err error) string {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		body := retrieveErr.Body
		for _, path := range []string{"error.message", "error_description", "error"} {
			if msg := gjson.GetBytes(body, path); msg.Type == gjson.String && msg.String() != "" {
				return msg.String()
			}
		}
		if len(body) > 0 {
			return string(body)
		}
	}
	var graphErr *GraphError
	if errors.As(err, &graphErr) {
		return graphErr.Message
	}
	return err.Error()
}

func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
