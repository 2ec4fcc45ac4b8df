package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	config "github.com/maheshrc27/bizhub-api/configs"
	"github.com/maheshrc27/bizhub-api/internal/metrics"
	"github.com/maheshrc27/bizhub-api/internal/models"
	"github.com/maheshrc27/bizhub-api/internal/oauth"
	"github.com/maheshrc27/bizhub-api/internal/repository"
	"github.com/maheshrc27/bizhub-api/internal/transfer"
	"github.com/maheshrc27/bizhub-api/pkg/utils"
	"golang.org/x/oauth2"
)

const (
	ReasonUserDenied          = "user_denied"
	ReasonMissingCode         = "missing_code"
	ReasonStateDecodeFailed   = "state_decode_failed"
	ReasonTokenExchangeFailed = "token_exchange_failed"
	ReasonProviderTimeout     = "provider_timeout"
	ReasonPersistenceFailed   = "persistence_failed"
	ReasonUnsupportedPlatform = "unsupported_platform"
	ReasonOAuthFailed         = "oauth_failed"
)

const (
	defaultReturnPath  = "/dashboard/social"
	defaultHTTPTimeout = 20 * time.Second
)

// CallbackOutcome is the result of an OAuth callback. Reason is empty on
// success. Detail carries provider text for logs and never reaches the user.
type CallbackOutcome struct {
	Platform    string
	BusinessID  string
	AccountID   string
	RedirectURI string
	Reason      string
	Detail      string
	Persisted   bool
}

func (o *CallbackOutcome) Success() bool {
	return o.Reason == ""
}

// RedirectURL is where the browser goes next: the caller's redirect URI
// annotated with a success marker or a terse error code.
func (o *CallbackOutcome) RedirectURL() string {
	u, err := url.Parse(o.RedirectURI)
	if err != nil {
		u = &url.URL{Path: defaultReturnPath}
	}

	q := u.Query()
	if o.Success() {
		q.Set("success", o.Platform+"_connected")
		q.Set("business_id", o.BusinessID)
	} else {
		q.Set("error", o.Reason)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

type ConnectorService interface {
	AuthURL(ctx context.Context, platform, businessID, redirectURI string) (string, error)
	Callback(ctx context.Context, platform string, params transfer.CallbackParams) *CallbackOutcome
	Owned(ctx context.Context, userID, accountID string) (*models.SocialAccount, error)
	Disconnect(ctx context.Context, userID, accountID string) error
	Refresh(ctx context.Context, accountID string) error
	List(ctx context.Context, userID, businessID string) ([]*transfer.SocialAccountView, error)
}

type connectorService struct {
	cfg        config.Config
	providers  *oauth.Registry
	states     oauth.StateCodec
	accounts   repository.SocialAccountRepository
	businesses repository.BusinessRepository
}

func NewConnectorService(
	cfg config.Config,
	providers *oauth.Registry,
	states oauth.StateCodec,
	accounts repository.SocialAccountRepository,
	businesses repository.BusinessRepository) ConnectorService {
	return &connectorService{
		cfg:        cfg,
		providers:  providers,
		states:     states,
		accounts:   accounts,
		businesses: businesses,
	}
}

func (s *connectorService) AuthURL(ctx context.Context, platform, businessID, redirectURI string) (string, error) {
	provider, err := s.providers.Get(platform)
	if err != nil {
		slog.Info(err.Error(), "platform", platform)
		return "", err
	}

	state, err := s.states.Encode(ctx, transfer.OAuthState{
		BusinessID:  businessID,
		RedirectURI: s.safeRedirect(redirectURI),
	})
	if err != nil {
		return "", fmt.Errorf("encode oauth state: %w", err)
	}

	return provider.AuthCodeURL(state), nil
}

func (s *connectorService) Callback(ctx context.Context, platform string, params transfer.CallbackParams) (outcome *CallbackOutcome) {
	outcome = &CallbackOutcome{Platform: platform, RedirectURI: s.defaultRedirect()}

	defer func() {
		if r := recover(); r != nil {
			outcome.Reason = ReasonOAuthFailed
			outcome.Detail = fmt.Sprint(r)
		}
		label := outcome.Reason
		if outcome.Success() {
			label = "success"
		}
		metrics.RecordOAuthCallback(platform, label)
		slog.Info("oauth callback", "platform", platform, "outcome", label, "business_id", outcome.BusinessID, "detail", outcome.Detail)
	}()

	if params.Error != "" {
		outcome.Reason = ReasonUserDenied
		outcome.Detail = params.Error
		return outcome
	}
	if params.Code == "" {
		outcome.Reason = ReasonMissingCode
		return outcome
	}

	provider, err := s.providers.Get(platform)
	if err != nil {
		outcome.Reason = ReasonUnsupportedPlatform
		return outcome
	}

	state, err := s.states.Decode(ctx, params.State)
	if err != nil {
		outcome.Reason = ReasonStateDecodeFailed
		outcome.Detail = err.Error()
		return outcome
	}
	outcome.BusinessID = state.BusinessID
	outcome.RedirectURI = s.safeRedirect(state.RedirectURI)

	var account *models.SocialAccount
	if provider.Simulated() {
		account = simulatedAccount(platform)
	} else {
		account, err = s.exchange(ctx, provider, params.Code)
		if err != nil {
			outcome.Reason = ReasonTokenExchangeFailed
			if oauth.IsTimeout(err) {
				outcome.Reason = ReasonProviderTimeout
			}
			outcome.Detail = oauth.ProviderMessage(err)
			return outcome
		}
	}

	// A state without a business is a no-op connect.
	if state.BusinessID == "" {
		return outcome
	}

	account.BusinessID = state.BusinessID
	id, err := s.persist(ctx, account)
	if err != nil {
		outcome.Reason = ReasonPersistenceFailed
		outcome.Detail = err.Error()
		return outcome
	}
	outcome.AccountID = id
	outcome.Persisted = true
	return outcome
}

// exchange trades the code for tokens and gathers profile and pages. Only the
// token exchange can fail the flow.
func (s *connectorService) exchange(ctx context.Context, provider oauth.Provider, code string) (*models.SocialAccount, error) {
	exchangeCtx, cancel := s.withTimeout(ctx)
	token, err := provider.Exchange(exchangeCtx, code)
	cancel()
	if err != nil {
		return nil, err
	}

	profileCtx, cancel := s.withTimeout(ctx)
	profile, err := provider.Profile(profileCtx, token.AccessToken)
	cancel()
	if err != nil {
		slog.Info("profile fetch failed", "platform", provider.Platform(), "error", oauth.ProviderMessage(err))
		profile = &transfer.Profile{}
	}

	pagesCtx, cancel := s.withTimeout(ctx)
	pages, err := provider.Pages(pagesCtx, token.AccessToken)
	cancel()
	if err != nil {
		slog.Info("pages fetch failed", "platform", provider.Platform(), "error", oauth.ProviderMessage(err))
		pages = nil
	}

	return accountFromToken(provider.Platform(), token, profile, pages), nil
}

func accountFromToken(platform string, token *oauth2.Token, profile *transfer.Profile, pages []transfer.Page) *models.SocialAccount {
	account := &models.SocialAccount{
		Platform:    platform,
		AccountName: profile.Name,
		IsActive:    true,
	}
	if account.AccountName == "" {
		account.AccountName = models.PlatformName(platform) + " Account"
	}
	if profile.ID != "" {
		account.AccountID = &profile.ID
	}

	accessToken := token.AccessToken
	account.AccessToken = &accessToken
	if token.RefreshToken != "" {
		refreshToken := token.RefreshToken
		account.RefreshToken = &refreshToken
	}
	if !token.Expiry.IsZero() {
		expiresAt := token.Expiry.UTC()
		account.TokenExpiresAt = &expiresAt
	}

	pageList := make([]interface{}, 0, len(pages))
	for _, p := range pages {
		pageList = append(pageList, p)
	}
	scope, _ := token.Extra("scope").(string)

	account.Permissions = models.JSONMap{"pages": pageList, "scope": scope}
	account.Metadata = models.JSONMap{
		"profile": map[string]interface{}{"id": profile.ID, "name": profile.Name, "email": profile.Email},
		"pages":   pageList,
	}
	return account
}

func simulatedAccount(platform string) *models.SocialAccount {
	return &models.SocialAccount{
		Platform:    platform,
		AccountName: models.PlatformName(platform) + " Account",
		IsActive:    true,
		Permissions: models.JSONMap{},
		Metadata:    models.JSONMap{"simulated": true},
	}
}

// persist replaces any active record for the same business and platform.
func (s *connectorService) persist(ctx context.Context, account *models.SocialAccount) (string, error) {
	key := []byte(s.cfg.TokenEncryptionKey)

	var err error
	if account.AccessToken, err = utils.EncryptOptional(account.AccessToken, key); err != nil {
		return "", err
	}
	if account.RefreshToken, err = utils.EncryptOptional(account.RefreshToken, key); err != nil {
		return "", err
	}

	existing, err := s.accounts.ListByBusinessID(ctx, account.BusinessID)
	if err != nil {
		return "", err
	}
	var previous []string
	for _, e := range existing {
		if e.Platform == account.Platform && e.IsActive {
			previous = append(previous, e.ID)
		}
	}

	if _, err := s.accounts.DeactivatePlatform(ctx, account.BusinessID, account.Platform); err != nil {
		return "", err
	}

	id, err := s.accounts.Create(ctx, account)
	if err != nil {
		// Put the earlier connection back so a failed reconnect leaves it working.
		errs := []error{err}
		for _, prevID := range previous {
			if activateErr := s.accounts.Activate(ctx, prevID); activateErr != nil {
				errs = append(errs, activateErr)
			}
		}
		return "", errors.Join(errs...)
	}
	return id, nil
}

// Owned loads an account whose business belongs to userID.
func (s *connectorService) Owned(ctx context.Context, userID, accountID string) (*models.SocialAccount, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if _, err := ownedBusiness(ctx, s.businesses, userID, account.BusinessID); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *connectorService) Disconnect(ctx context.Context, userID, accountID string) error {
	if _, err := s.Owned(ctx, userID, accountID); err != nil {
		return err
	}

	// The provider grant is left in place; only our record goes away.
	return s.accounts.Remove(ctx, accountID)
}

func (s *connectorService) Refresh(ctx context.Context, accountID string) error {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	provider, err := s.providers.Get(account.Platform)
	if err != nil {
		return err
	}
	if provider.Simulated() {
		return ErrRefreshUnsupported
	}
	if account.AccessToken == nil || *account.AccessToken == "" {
		return ErrNoToken
	}

	key := []byte(s.cfg.TokenEncryptionKey)
	accessToken, err := utils.Decrypt(*account.AccessToken, key)
	if err != nil {
		return err
	}
	var refreshToken string
	if account.RefreshToken != nil && *account.RefreshToken != "" {
		if refreshToken, err = utils.Decrypt(*account.RefreshToken, key); err != nil {
			return err
		}
	}

	refreshCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	refreshed, err := provider.Refresh(refreshCtx, accessToken, refreshToken)
	if err != nil {
		metrics.RecordTokenRefresh(account.Platform, "failed")
		slog.Info("token refresh failed", "account_id", accountID, "error", oauth.ProviderMessage(err))
		if account.TokenExpiresAt != nil && account.TokenExpiresAt.Before(time.Now()) {
			if deactivateErr := s.accounts.Deactivate(ctx, accountID); deactivateErr != nil {
				return errors.Join(err, deactivateErr)
			}
		}
		return err
	}

	encAccess, err := utils.EncryptOptional(&refreshed.AccessToken, key)
	if err != nil {
		return err
	}
	var encRefresh *string
	if refreshed.RefreshToken != "" {
		if encRefresh, err = utils.EncryptOptional(&refreshed.RefreshToken, key); err != nil {
			return err
		}
	}

	if err := s.accounts.SetToken(ctx, accountID, encAccess, encRefresh, refreshed.ExpiresAt); err != nil {
		return err
	}
	metrics.RecordTokenRefresh(account.Platform, "refreshed")
	return nil
}

func (s *connectorService) List(ctx context.Context, userID, businessID string) ([]*transfer.SocialAccountView, error) {
	if _, err := ownedBusiness(ctx, s.businesses, userID, businessID); err != nil {
		return nil, err
	}

	accounts, err := s.accounts.ListByBusinessID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	views := make([]*transfer.SocialAccountView, 0, len(accounts))
	for _, a := range accounts {
		view := &transfer.SocialAccountView{
			ID:             a.ID,
			BusinessID:     a.BusinessID,
			Platform:       a.Platform,
			AccountName:    a.AccountName,
			TokenExpiresAt: a.TokenExpiresAt,
			IsActive:       a.IsActive,
			Permissions:    a.Permissions,
			CreatedAt:      a.CreatedAt,
		}
		if a.AccountID != nil {
			view.AccountID = *a.AccountID
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *connectorService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func (s *connectorService) defaultRedirect() string {
	return s.cfg.FrontendURL + defaultReturnPath
}

// safeRedirect keeps redirect URIs on an allowed origin and falls back to the
// dashboard otherwise.
func (s *connectorService) safeRedirect(raw string) string {
	if raw == "" {
		return s.defaultRedirect()
	}
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		return s.cfg.FrontendURL + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return s.defaultRedirect()
	}
	origin := u.Scheme + "://" + u.Host
	for _, allowed := range s.cfg.AllowedRedirectOrigins {
		if strings.EqualFold(origin, allowed) {
			return raw
		}
	}
	return s.defaultRedirect()
}
