package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

// uniqueFor keeps overlapping refresh scans from queueing the same account twice.
const uniqueFor = 10 * time.Minute

func NewRefreshTokenTask(accountID string) (*asynq.Task, error) {
	payload, err := json.Marshal(RefreshTokenPayload{AccountID: accountID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeRefreshToken, payload, asynq.MaxRetry(3), asynq.Unique(uniqueFor)), nil
}

func (e *Enqueuer) EnqueueRefresh(ctx context.Context, accountID string) error {
	task, err := NewRefreshTokenTask(accountID)
	if err != nil {
		return err
	}

	_, err = e.client.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	if err != nil {
		return err
	}

	log.Printf("Task scheduled: refresh %s", accountID)
	return nil
}
