package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/maheshrc27/bizhub-api/internal/models"
	"github.com/maheshrc27/bizhub-api/internal/store"
)

type SocialAccountRepository interface {
	Create(ctx context.Context, sa *models.SocialAccount) (string, error)
	GetByID(ctx context.Context, id string) (*models.SocialAccount, error)
	ListByBusinessID(ctx context.Context, businessID string) ([]*models.SocialAccount, error)
	ListExpiring(ctx context.Context, before time.Time) ([]*models.SocialAccount, error)
	DeactivatePlatform(ctx context.Context, businessID, platform string) (int64, error)
	SetToken(ctx context.Context, id string, accessToken, refreshToken *string, expiresAt *time.Time) error
	Deactivate(ctx context.Context, id string) error
	Activate(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
}

type socialAccountRepository struct {
	store store.RecordStore
}

func NewSocialAccountRepository(s store.RecordStore) SocialAccountRepository {
	return &socialAccountRepository{store: s}
}

func (r *socialAccountRepository) Create(ctx context.Context, sa *models.SocialAccount) (string, error) {
	rec := store.Record{
		"business_id":      sa.BusinessID,
		"platform":         sa.Platform,
		"account_name":     sa.AccountName,
		"account_id":       sa.AccountID,
		"access_token":     sa.AccessToken,
		"refresh_token":    sa.RefreshToken,
		"token_expires_at": sa.TokenExpiresAt,
		"is_active":        sa.IsActive,
		"permissions":      nonNil(sa.Permissions),
		"metadata":         nonNil(sa.Metadata),
	}

	id, err := r.store.Insert(ctx, store.TableSocialAccounts, rec)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	return id, nil
}

func (r *socialAccountRepository) GetByID(ctx context.Context, id string) (*models.SocialAccount, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, store.ErrNotFound
	}

	var accounts []*models.SocialAccount
	if err := r.store.Select(ctx, store.TableSocialAccounts, store.Filter{store.Eq("id", id)}, &accounts); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, store.ErrNotFound
	}
	return accounts[0], nil
}

func (r *socialAccountRepository) ListByBusinessID(ctx context.Context, businessID string) ([]*models.SocialAccount, error) {
	if _, err := uuid.Parse(businessID); err != nil {
		return nil, nil
	}

	var accounts []*models.SocialAccount
	if err := r.store.Select(ctx, store.TableSocialAccounts, store.Filter{store.Eq("business_id", businessID)}, &accounts); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return accounts, nil
}

// ListExpiring returns active accounts whose token expires before the given time,
// including ones that have already expired.
func (r *socialAccountRepository) ListExpiring(ctx context.Context, before time.Time) ([]*models.SocialAccount, error) {
	filter := store.Filter{
		store.Eq("is_active", true),
		store.Lt("token_expires_at", before),
	}

	var accounts []*models.SocialAccount
	if err := r.store.Select(ctx, store.TableSocialAccounts, filter, &accounts); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return accounts, nil
}

func (r *socialAccountRepository) DeactivatePlatform(ctx context.Context, businessID, platform string) (int64, error) {
	filter := store.Filter{
		store.Eq("business_id", businessID),
		store.Eq("platform", platform),
		store.Eq("is_active", true),
	}

	n, err := r.store.Update(ctx, store.TableSocialAccounts, filter, store.Record{"is_active": false})
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return n, nil
}

func (r *socialAccountRepository) SetToken(ctx context.Context, id string, accessToken, refreshToken *string, expiresAt *time.Time) error {
	patch := store.Record{
		"access_token":     accessToken,
		"token_expires_at": expiresAt,
		"last_sync_at":     time.Now().UTC(),
	}
	if refreshToken != nil {
		patch["refresh_token"] = refreshToken
	}
	return r.updateOne(ctx, id, patch)
}

func (r *socialAccountRepository) Deactivate(ctx context.Context, id string) error {
	return r.updateOne(ctx, id, store.Record{"is_active": false})
}

func (r *socialAccountRepository) Activate(ctx context.Context, id string) error {
	return r.updateOne(ctx, id, store.Record{"is_active": true})
}

func (r *socialAccountRepository) Remove(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return store.ErrNotFound
	}

	n, err := r.store.Delete(ctx, store.TableSocialAccounts, store.Filter{store.Eq("id", id)})
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *socialAccountRepository) updateOne(ctx context.Context, id string, patch store.Record) error {
	if _, err := uuid.Parse(id); err != nil {
		return store.ErrNotFound
	}

	n, err := r.store.Update(ctx, store.TableSocialAccounts, store.Filter{store.Eq("id", id)}, patch)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if n != 1 {
		return store.ErrNotFound
	}
	return nil
}

func nonNil(m models.JSONMap) models.JSONMap {
	if m == nil {
		return models.JSONMap{}
	}
	return m
}
