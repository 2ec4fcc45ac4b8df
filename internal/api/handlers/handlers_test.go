package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/bizhub-api/internal/gemini"
	"github.com/maheshrc27/bizhub-api/internal/models"
	"github.com/maheshrc27/bizhub-api/internal/service"
	"github.com/maheshrc27/bizhub-api/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConnector struct {
	service.ConnectorService
	authURL   string
	authErr   error
	outcome   *service.CallbackOutcome
	params    transfer.CallbackParams
	ownedErr  error
	refreshed string
}

func (s *stubConnector) AuthURL(ctx context.Context, platform, businessID, redirectURI string) (string, error) {
	return s.authURL, s.authErr
}

func (s *stubConnector) Callback(ctx context.Context, platform string, params transfer.CallbackParams) *service.CallbackOutcome {
	s.params = params
	return s.outcome
}

func (s *stubConnector) Owned(ctx context.Context, userID, accountID string) (*models.SocialAccount, error) {
	return &models.SocialAccount{ID: accountID}, s.ownedErr
}

func (s *stubConnector) Refresh(ctx context.Context, accountID string) error {
	s.refreshed = accountID
	return nil
}

type stubContent struct {
	service.ContentService
	posts []models.GeneratedPost
	err   error
}

func (s *stubContent) ForBusiness(ctx context.Context, userID, businessID, contentType string, opts transfer.GenerationOptions) (transfer.GenerationRequest, error) {
	if businessID != "b1" {
		return transfer.GenerationRequest{}, service.ErrNotFound
	}
	return transfer.GenerationRequest{BusinessName: "Acme", Industry: "Food", ContentType: contentType}, nil
}

func (s *stubContent) GeneratePosts(ctx context.Context, req transfer.GenerationRequest, onGenerated func([]models.GeneratedPost)) ([]models.GeneratedPost, error) {
	return s.posts, s.err
}

type stubBusiness struct {
	service.BusinessService
	uploaded []byte
}

func (s *stubBusiness) UploadLogo(ctx context.Context, userID, businessID string, file []byte) (string, error) {
	s.uploaded = file
	return "https://cdn.example.com/logos/" + businessID + "/x.png", nil
}

func withUser(c *fiber.Ctx) error {
	c.Locals("user_id", "user-1")
	return c.Next()
}

func TestOAuthConnectRedirects(t *testing.T) {
	app := fiber.New()
	h := NewOAuthHandler(&stubConnector{authURL: "https://www.facebook.com/v18.0/dialog/oauth?state=abc"})
	app.Get("/oauth/:platform", h.Connect)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/oauth/facebook?business_id=b1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://www.facebook.com/v18.0/dialog/oauth?state=abc", resp.Header.Get("Location"))
}

func TestOAuthConnectUnsupportedPlatform(t *testing.T) {
	app := fiber.New()
	h := NewOAuthHandler(&stubConnector{authErr: service.ErrUnsupportedPlatform})
	app.Get("/oauth/:platform", h.Connect)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/oauth/myspace", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOAuthCallbackAlwaysRedirects(t *testing.T) {
	stub := &stubConnector{outcome: &service.CallbackOutcome{
		Platform:    "facebook",
		RedirectURI: "http://localhost:5173/dashboard/social",
		Reason:      service.ReasonUserDenied,
		Detail:      "Permissions error",
	}}
	app := fiber.New()
	h := NewOAuthHandler(stub)
	app.Get("/oauth/:platform/callback", h.Callback)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/oauth/facebook/callback?error=access_denied&state=s", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173/dashboard/social?error=user_denied", resp.Header.Get("Location"))
	assert.Equal(t, "access_denied", stub.params.Error)
	assert.Equal(t, "s", stub.params.State)
}

func TestRefreshAccountChecksOwnership(t *testing.T) {
	stub := &stubConnector{ownedErr: service.ErrNotFound}
	app := fiber.New()
	h := NewAccountHandler(stub)
	app.Post("/api/accounts/:id/refresh", withUser, h.RefreshAccount)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/accounts/a1/refresh", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, stub.refreshed)

	stub.ownedErr = nil
	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/api/accounts/a1/refresh", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "a1", stub.refreshed)
}

func contentApp(stub *stubContent) *fiber.App {
	app := fiber.New()
	h := NewContentHandler(stub)
	app.Post("/api/businesses/:id/generate/:type", withUser, h.Generate)
	return app
}

func TestGeneratePosts(t *testing.T) {
	stub := &stubContent{posts: []models.GeneratedPost{{Content: "Fresh bread #bakery", Hashtags: []string{"#bakery"}}}}
	req := httptest.NewRequest(http.MethodPost, "/api/businesses/b1/generate/posts", strings.NewReader(`{"platform":"twitter"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := contentApp(stub).Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body transfer.PostsResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, stub.posts, body.Posts)
}

func TestGenerateErrors(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"unknown type", "/api/businesses/b1/generate/memes", nil, http.StatusNotFound},
		{"foreign business", "/api/businesses/b2/generate/posts", nil, http.StatusNotFound},
		{"timeout", "/api/businesses/b1/generate/posts", &gemini.Error{Reason: gemini.ReasonTimeout}, http.StatusGatewayTimeout},
		{"upstream", "/api/businesses/b1/generate/posts", &gemini.Error{Reason: gemini.ReasonFailed, StatusCode: 500}, http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := contentApp(&stubContent{err: tc.err}).Test(httptest.NewRequest(http.MethodPost, tc.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestUploadLogo(t *testing.T) {
	stub := &stubBusiness{}
	app := fiber.New()
	h := NewBusinessHandler(stub)
	app.Post("/api/businesses/:id/logo", withUser, h.UploadLogo)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("logo", "logo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/businesses/b1/logo", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "https://cdn.example.com/logos/b1/x.png", body["logo_url"])
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, stub.uploaded)
}

func TestUploadLogoMissingFile(t *testing.T) {
	app := fiber.New()
	h := NewBusinessHandler(&stubBusiness{})
	app.Post("/api/businesses/:id/logo", withUser, h.UploadLogo)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/businesses/b1/logo", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
