package repository

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/maheshrc27/bizhub-api/internal/models"
	"github.com/maheshrc27/bizhub-api/internal/store"
)

type BusinessRepository interface {
	Create(ctx context.Context, b *models.Business) (string, error)
	GetByID(ctx context.Context, id string) (*models.Business, error)
	ListByUserID(ctx context.Context, userID string) ([]*models.Business, error)
	SetLogo(ctx context.Context, id, logoURL string) error
}

type businessRepository struct {
	store store.RecordStore
}

func NewBusinessRepository(s store.RecordStore) BusinessRepository {
	return &businessRepository{store: s}
}

func (r *businessRepository) Create(ctx context.Context, b *models.Business) (string, error) {
	plan := b.SubscriptionPlan
	if plan == "" {
		plan = models.PlanStarter
	}

	id, err := r.store.Insert(ctx, store.TableBusinesses, store.Record{
		"user_id":           b.UserID,
		"name":              b.Name,
		"description":       b.Description,
		"industry":          b.Industry,
		"website":           b.Website,
		"subscription_plan": plan,
	})
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	return id, nil
}

func (r *businessRepository) GetByID(ctx context.Context, id string) (*models.Business, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, store.ErrNotFound
	}

	var businesses []*models.Business
	if err := r.store.Select(ctx, store.TableBusinesses, store.Filter{store.Eq("id", id)}, &businesses); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	if len(businesses) == 0 {
		return nil, store.ErrNotFound
	}
	return businesses[0], nil
}

func (r *businessRepository) ListByUserID(ctx context.Context, userID string) ([]*models.Business, error) {
	var businesses []*models.Business
	if err := r.store.Select(ctx, store.TableBusinesses, store.Filter{store.Eq("user_id", userID)}, &businesses); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return businesses, nil
}

func (r *businessRepository) SetLogo(ctx context.Context, id, logoURL string) error {
	n, err := r.store.Update(ctx, store.TableBusinesses, store.Filter{store.Eq("id", id)}, store.Record{"logo_url": logoURL})
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
