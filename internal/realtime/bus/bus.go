package bus

import (
	"context"

	"github.com/yungbote/collective-backend/internal/realtime"
)

// Bus fans committed actions out to other processes.
type Bus interface {
	Publish(ctx context.Context, evt realtime.ActionEvent) error
	StartForwarder(ctx context.Context, onEvt func(evt realtime.ActionEvent)) error
	Close() error
}
