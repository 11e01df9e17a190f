package services

import (
	"context"

	types "github.com/yungbote/collective-backend/internal/domain"
	"github.com/yungbote/collective-backend/internal/platform/logger"
	"github.com/yungbote/collective-backend/internal/realtime"
	"github.com/yungbote/collective-backend/internal/realtime/bus"
)

// ActionPublisher announces committed actions on the bus. Publishing is best
// effort: the write has already committed, so failures are only logged.
type ActionPublisher struct {
	log *logger.Logger
	bus bus.Bus
}

func NewActionPublisher(baseLog *logger.Logger, b bus.Bus) *ActionPublisher {
	return &ActionPublisher{log: baseLog.With("service", "ActionPublisher"), bus: b}
}

func (p *ActionPublisher) Publish(ctx context.Context, entries []types.ActionEntry) {
	if p == nil || p.bus == nil {
		return
	}
	for _, entry := range entries {
		evt := realtime.EventFromAction(entry)
		if err := p.bus.Publish(context.WithoutCancel(ctx), evt); err != nil {
			p.log.Warn("publish action failed",
				"collective_address", evt.CollectiveAddress,
				"action_address", evt.ActionAddress,
				"error", err,
			)
		}
	}
}
