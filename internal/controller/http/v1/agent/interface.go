package agent

import (
	"context"

	"vms/backend/internal/entity"
	"vms/backend/internal/repository/postgres/agent"
)

type Agent interface {
	GetList(ctx context.Context, filter agent.Filter) ([]entity.Agent, int, error)
	Create(ctx context.Context, request agent.CreateRequest) (entity.Agent, error)
}
