package oauth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	config "github.com/maheshrc27/bizhub-api/configs"
	"github.com/maheshrc27/bizhub-api/internal/models"
	"github.com/maheshrc27/bizhub-api/internal/transfer"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
)

const FacebookScopes = "pages_manage_posts,pages_read_engagement,pages_show_list"

// GraphError is an error object returned by the Graph API.
type GraphError struct {
	StatusCode int
	Type       string
	Code       int64
	Message    string
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("graph api: %s (type %s, code %d, status %d)", e.Message, e.Type, e.Code, e.StatusCode)
}

type facebookProvider struct {
	conf       *oauth2.Config
	graphURL   string
	httpClient *http.Client
}

func NewFacebookProvider(cfg config.Facebook, httpClient *http.Client) Provider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	graphURL := strings.TrimRight(cfg.GraphURL, "/") + "/" + cfg.APIVersion
	dialogURL := strings.TrimRight(cfg.DialogURL, "/") + "/" + cfg.APIVersion

	return &facebookProvider{
		conf: &oauth2.Config{
			ClientID:     cfg.AppID,
			ClientSecret: cfg.AppSecret,
			RedirectURL:  cfg.RedirectURI,
			// Facebook takes a comma separated scope list.
			Scopes: []string{FacebookScopes},
			Endpoint: oauth2.Endpoint{
				AuthURL:   dialogURL + "/dialog/oauth",
				TokenURL:  graphURL + "/oauth/access_token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		graphURL:   graphURL,
		httpClient: httpClient,
	}
}

func (p *facebookProvider) Platform() string { return models.PlatformFacebook }

func (p *facebookProvider) Simulated() bool { return false }

func (p *facebookProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

func (p *facebookProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	base := p.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	client := &http.Client{
		Transport: &tokenErrorTransport{base: base},
		Timeout:   p.httpClient.Timeout,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, client)
	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return token, nil
}

func (p *facebookProvider) Profile(ctx context.Context, accessToken string) (*transfer.Profile, error) {
	result, err := p.get(ctx, "/me", url.Values{"fields": {"id,name,email"}}, accessToken)
	if err != nil {
		return nil, err
	}

	return &transfer.Profile{
		ID:    result.Get("id").String(),
		Name:  result.Get("name").String(),
		Email: result.Get("email").String(),
	}, nil
}

func (p *facebookProvider) Pages(ctx context.Context, accessToken string) ([]transfer.Page, error) {
	result, err := p.get(ctx, "/me/accounts", nil, accessToken)
	if err != nil {
		return nil, err
	}

	var pages []transfer.Page
	for _, item := range result.Get("data").Array() {
		page := transfer.Page{
			ID:          item.Get("id").String(),
			Name:        item.Get("name").String(),
			Category:    item.Get("category").String(),
			AccessToken: item.Get("access_token").String(),
		}
		for _, task := range item.Get("tasks").Array() {
			page.Tasks = append(page.Tasks, task.String())
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// Refresh trades the current user token for a new long-lived one. Facebook
// issues no refresh tokens, so refreshToken is ignored.
func (p *facebookProvider) Refresh(ctx context.Context, accessToken, refreshToken string) (*transfer.RefreshedToken, error) {
	params := url.Values{
		"grant_type":        {"fb_exchange_token"},
		"client_id":         {p.conf.ClientID},
		"client_secret":     {p.conf.ClientSecret},
		"fb_exchange_token": {accessToken},
	}

	result, err := p.get(ctx, "/oauth/access_token", params, "")
	if err != nil {
		return nil, err
	}

	newToken := result.Get("access_token").String()
	if newToken == "" {
		return nil, &GraphError{StatusCode: http.StatusOK, Message: "response missing access_token"}
	}

	refreshed := &transfer.RefreshedToken{AccessToken: newToken}
	if expiresIn := result.Get("expires_in").Int(); expiresIn > 0 {
		expiresAt := time.Now().Add(time.Duration(expiresIn) * time.Second).UTC()
		refreshed.ExpiresAt = &expiresAt
	}
	return refreshed, nil
}

func (p *facebookProvider) get(ctx context.Context, path string, params url.Values, accessToken string) (gjson.Result, error) {
	endpoint := p.graphURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return gjson.Result{}, err
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return gjson.Result{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, err
	}

	result := gjson.ParseBytes(body)
	if resp.StatusCode >= 400 || result.Get("error").IsObject() {
		graphErr := &GraphError{
			StatusCode: resp.StatusCode,
			Type:       result.Get("error.type").String(),
			Code:       result.Get("error.code").Int(),
			Message:    result.Get("error.message").String(),
		}
		if graphErr.Message == "" {
			graphErr.Message = http.StatusText(resp.StatusCode)
		}
		return gjson.Result{}, graphErr
	}
	return result, nil
}

// tokenErrorTransport turns a 2xx token response carrying a Graph error object
// into a 400, so x/oauth2 reports it as a RetrieveError with the body intact.
type tokenErrorTransport struct {
	base http.RoundTripper
}

func (t *tokenErrorTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	if gjson.GetBytes(body, "error").IsObject() {
		resp.StatusCode = http.StatusBadRequest
		resp.Status = "400 Bad Request"
	}
	return resp, nil
}
