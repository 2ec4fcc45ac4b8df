package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/maheshrc27/bizhub-api/internal/models"
	"github.com/maheshrc27/bizhub-api/internal/oauth"
	"github.com/maheshrc27/bizhub-api/internal/store"
	"github.com/maheshrc27/bizhub-api/internal/transfer"
	"golang.org/x/oauth2"
)

type fakeAccounts struct {
	mu        sync.Mutex
	rows      map[string]*models.SocialAccount
	createErr error
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{rows: map[string]*models.SocialAccount{}}
}

func (f *fakeAccounts) Create(ctx context.Context, sa *models.SocialAccount) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	row := *sa
	row.ID = uuid.NewString()
	row.CreatedAt = time.Now()
	f.rows[row.ID] = &row
	return row.ID, nil
}

func (f *fakeAccounts) GetByID(ctx context.Context, id string) (*models.SocialAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeAccounts) ListByBusinessID(ctx context.Context, businessID string) ([]*models.SocialAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.SocialAccount
	for _, row := range f.rows {
		if row.BusinessID == businessID {
			cp := *row
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeAccounts) ListExpiring(ctx context.Context, before time.Time) ([]*models.SocialAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.SocialAccount
	for _, row := range f.rows {
		if row.IsActive && row.TokenExpiresAt != nil && row.TokenExpiresAt.Before(before) {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAccounts) DeactivatePlatform(ctx context.Context, businessID, platform string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, row := range f.rows {
		if row.BusinessID == businessID && row.Platform == platform && row.IsActive {
			row.IsActive = false
			n++
		}
	}
	return n, nil
}

func (f *fakeAccounts) SetToken(ctx context.Context, id string, accessToken, refreshToken *string, expiresAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	row.AccessToken = accessToken
	if refreshToken != nil {
		row.RefreshToken = refreshToken
	}
	row.TokenExpiresAt = expiresAt
	now := time.Now()
	row.LastSyncAt = &now
	return nil
}

func (f *fakeAccounts) Deactivate(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	row.IsActive = false
	return nil
}

func (f *fakeAccounts) Activate(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	row.IsActive = true
	return nil
}

func (f *fakeAccounts) Remove(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeAccounts) all() []*models.SocialAccount {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*models.SocialAccount
	for _, row := range f.rows {
		cp := *row
		list = append(list, &cp)
	}
	return list
}

type fakeBusinesses struct {
	mu   sync.Mutex
	rows map[string]*models.Business
}

func newFakeBusinesses(list ...*models.Business) *fakeBusinesses {
	f := &fakeBusinesses{rows: map[string]*models.Business{}}
	for _, b := range list {
		f.rows[b.ID] = b
	}
	return f
}

func (f *fakeBusinesses) Create(ctx context.Context, b *models.Business) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row := *b
	row.ID = uuid.NewString()
	if row.SubscriptionPlan == "" {
		row.SubscriptionPlan = models.PlanStarter
	}
	f.rows[row.ID] = &row
	return row.ID, nil
}

func (f *fakeBusinesses) GetByID(ctx context.Context, id string) (*models.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeBusinesses) ListByUserID(ctx context.Context, userID string) ([]*models.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Business
	for _, row := range f.rows {
		if row.UserID == userID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeBusinesses) SetLogo(ctx context.Context, id, logoURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	row.LogoURL = &logoURL
	return nil
}

type fakeProvider struct {
	platform    string
	simulated   bool
	token       *oauth2.Token
	exchangeErr error
	profile     *transfer.Profile
	profileErr  error
	pages       []transfer.Page
	refreshed   *transfer.RefreshedToken
	refreshErr  error
	panics      bool

	exchanged    int
	refreshedFor string
}

func (p *fakeProvider) Platform() string { return p.platform }

func (p *fakeProvider) Simulated() bool { return p.simulated }

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://provider.example.com/dialog/oauth?state=" + state
}

func (p *fakeProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	p.exchanged++
	if p.panics {
		panic("provider blew up")
	}
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	return p.token, nil
}

func (p *fakeProvider) Profile(ctx context.Context, accessToken string) (*transfer.Profile, error) {
	if p.profileErr != nil {
		return nil, p.profileErr
	}
	if p.profile == nil {
		return &transfer.Profile{}, nil
	}
	return p.profile, nil
}

func (p *fakeProvider) Pages(ctx context.Context, accessToken string) ([]transfer.Page, error) {
	return p.pages, nil
}

func (p *fakeProvider) Refresh(ctx context.Context, accessToken, refreshToken string) (*transfer.RefreshedToken, error) {
	p.refreshedFor = accessToken
	if p.refreshErr != nil {
		return nil, p.refreshErr
	}
	return p.refreshed, nil
}

var _ oauth.Provider = (*fakeProvider)(nil)

var errBoom = errors.New("boom")
