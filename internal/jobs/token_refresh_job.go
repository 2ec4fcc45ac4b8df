package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/bizhub-api/internal/models"
	"github.com/maheshrc27/bizhub-api/internal/repository"
	"github.com/maheshrc27/bizhub-api/internal/service"
)

const (
	// RefreshWindow is how far ahead of expiry a token is refreshed.
	RefreshWindow    = 7 * 24 * time.Hour
	concurrencyLimit = 10
)

type RefreshEnqueuer interface {
	EnqueueRefresh(ctx context.Context, accountID string) error
}

type TokenRefreshJob struct {
	sr repository.SocialAccountRepository
	cs service.ConnectorService
	eq RefreshEnqueuer
}

// NewTokenRefreshJob refreshes through eq when it is set and inline
// otherwise.
func NewTokenRefreshJob(
	sr repository.SocialAccountRepository,
	cs service.ConnectorService,
	eq RefreshEnqueuer) *TokenRefreshJob {
	return &TokenRefreshJob{
		sr: sr,
		cs: cs,
		eq: eq,
	}
}

func (j *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	accounts, err := j.sr.ListExpiring(ctx, time.Now().Add(RefreshWindow))
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, acc := range accounts {
		if acc.Metadata["simulated"] == true {
			continue
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *models.SocialAccount) {
			defer wg.Done()
			defer func() { <-semaphore }()

			var err error
			if j.eq != nil {
				err = j.eq.EnqueueRefresh(ctx, acc.ID)
			} else {
				err = j.cs.Refresh(ctx, acc.ID)
			}
			if err != nil {
				slog.Info("Unable to refresh token", "account_id", acc.ID, "platform", acc.Platform, "error", err)
			}
		}(acc)
	}

	wg.Wait()
}
