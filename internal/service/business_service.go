package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/h2non/filetype"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/maheshrc27/bizhub-api/internal/models"
	"github.com/maheshrc27/bizhub-api/internal/repository"
	"github.com/maheshrc27/bizhub-api/internal/transfer"
)

const MaxLogoSize = 2 << 20

type BusinessService interface {
	Create(ctx context.Context, userID string, req transfer.BusinessCreation) (*models.Business, error)
	List(ctx context.Context, userID string) ([]*models.Business, error)
	Get(ctx context.Context, userID, businessID string) (*models.Business, error)
	UploadLogo(ctx context.Context, userID, businessID string, file []byte) (string, error)
}

type businessService struct {
	businesses repository.BusinessRepository
	objects    ObjectStore
}

// NewBusinessService builds the service. objects may be nil, in which case
// logo uploads fail with ErrStorageDisabled.
func NewBusinessService(businesses repository.BusinessRepository, objects ObjectStore) BusinessService {
	return &businessService{
		businesses: businesses,
		objects:    objects,
	}
}

func (s *businessService) Create(ctx context.Context, userID string, req transfer.BusinessCreation) (*models.Business, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	b := &models.Business{
		UserID:           userID,
		Name:             req.Name,
		Industry:         req.Industry,
		SubscriptionPlan: req.SubscriptionPlan,
	}
	if req.Description != "" {
		b.Description = &req.Description
	}
	if req.Website != "" {
		b.Website = &req.Website
	}

	id, err := s.businesses.Create(ctx, b)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return s.businesses.GetByID(ctx, id)
}

func (s *businessService) List(ctx context.Context, userID string) ([]*models.Business, error) {
	return s.businesses.ListByUserID(ctx, userID)
}

func (s *businessService) Get(ctx context.Context, userID, businessID string) (*models.Business, error) {
	return ownedBusiness(ctx, s.businesses, userID, businessID)
}

func (s *businessService) UploadLogo(ctx context.Context, userID, businessID string, file []byte) (string, error) {
	if s.objects == nil {
		return "", ErrStorageDisabled
	}
	if _, err := ownedBusiness(ctx, s.businesses, userID, businessID); err != nil {
		return "", err
	}

	if len(file) == 0 || len(file) > MaxLogoSize || !filetype.IsImage(file) {
		return "", ErrInvalidFile
	}
	kind, err := filetype.Match(file)
	if err != nil {
		return "", ErrInvalidFile
	}

	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("logos/%s/%s.%s", businessID, id, kind.Extension)

	url, err := s.objects.Put(ctx, key, file, kind.MIME.Value)
	if err != nil {
		return "", err
	}
	if err := s.businesses.SetLogo(ctx, businessID, url); err != nil {
		return "", err
	}
	return url, nil
}
