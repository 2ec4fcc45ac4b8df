package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/bizhub-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConnector struct {
	service.ConnectorService
	err       error
	refreshed []string
}

func (s *stubConnector) Refresh(ctx context.Context, accountID string) error {
	s.refreshed = append(s.refreshed, accountID)
	return s.err
}

func TestNewRefreshTokenTask(t *testing.T) {
	task, err := NewRefreshTokenTask("acc-1")
	require.NoError(t, err)
	assert.Equal(t, TaskTypeRefreshToken, task.Type())

	var payload RefreshTokenPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "acc-1", payload.AccountID)
}

func TestHandleRefreshTokenTask(t *testing.T) {
	stub := &stubConnector{}
	q := NewQueue(stub)

	task, err := NewRefreshTokenTask("acc-1")
	require.NoError(t, err)

	require.NoError(t, q.HandleRefreshTokenTask(context.Background(), task))
	assert.Equal(t, []string{"acc-1"}, stub.refreshed)
}

func TestHandleRefreshTokenTaskSkipsPermanentFailures(t *testing.T) {
	for _, cause := range []error{service.ErrNotFound, service.ErrRefreshUnsupported, service.ErrNoToken} {
		q := NewQueue(&stubConnector{err: cause})
		task, _ := NewRefreshTokenTask("acc-1")

		err := q.HandleRefreshTokenTask(context.Background(), task)
		assert.ErrorIs(t, err, asynq.SkipRetry)
	}
}

func TestHandleRefreshTokenTaskRetriesProviderErrors(t *testing.T) {
	q := NewQueue(&stubConnector{err: errors.New("graph unavailable")})
	task, _ := NewRefreshTokenTask("acc-1")

	err := q.HandleRefreshTokenTask(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleRefreshTokenTaskBadPayload(t *testing.T) {
	q := NewQueue(&stubConnector{})
	err := q.HandleRefreshTokenTask(context.Background(), asynq.NewTask(TaskTypeRefreshToken, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
