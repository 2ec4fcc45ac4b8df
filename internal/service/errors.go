package service

import (
	"context"
	"errors"

	"github.com/maheshrc27/bizhub-api/internal/models"
	"github.com/maheshrc27/bizhub-api/internal/oauth"
	"github.com/maheshrc27/bizhub-api/internal/repository"
	"github.com/maheshrc27/bizhub-api/internal/store"
)

var (
	ErrNotFound            = store.ErrNotFound
	ErrUnsupportedPlatform = oauth.ErrUnsupportedPlatform
	ErrRefreshUnsupported  = oauth.ErrRefreshUnsupported
	ErrNoToken             = errors.New("account has no stored token")
	ErrInvalidFile         = errors.New("invalid file")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrStorageDisabled     = errors.New("object storage is not configured")
)

// ownedBusiness loads a business and hides it unless userID owns it.
func ownedBusiness(ctx context.Context, businesses repository.BusinessRepository, userID, businessID string) (*models.Business, error) {
	if userID == "" {
		return nil, ErrNotFound
	}
	b, err := businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrNotFound
	}
	return b, nil
}
