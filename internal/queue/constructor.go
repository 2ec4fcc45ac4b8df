package queue

import (
	"github.com/hibiken/asynq"
	"github.com/maheshrc27/bizhub-api/internal/service"
)

type Queue struct {
	cs service.ConnectorService
}

func NewQueue(cs service.ConnectorService) *Queue {
	return &Queue{cs: cs}
}

const TaskTypeRefreshToken = "social_account:refresh"

type RefreshTokenPayload struct {
	AccountID string `json:"account_id"`
}

// Enqueuer hands refresh work to the asynq server.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}
