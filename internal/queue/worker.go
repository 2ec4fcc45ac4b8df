package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/bizhub-api/internal/service"
)

func (q *Queue) HandleRefreshTokenTask(ctx context.Context, task *asynq.Task) error {
	var payload RefreshTokenPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	err := q.cs.Refresh(ctx, payload.AccountID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrRefreshUnsupported),
		errors.Is(err, service.ErrNoToken):
		log.Printf("Skipping refresh for %s: %v", payload.AccountID, err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	default:
		log.Printf("Error refreshing token for %s: %v", payload.AccountID, err)
		return err
	}
}
