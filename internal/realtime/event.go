package realtime

import (
	"time"

	types "github.com/yungbote/collective-backend/internal/domain"
)

// ActionEvent announces an action whose write has committed.
type ActionEvent struct {
	CollectiveAddress types.Address  `json:"collective_address"`
	ActionAddress     types.Address  `json:"action_address"`
	Op                types.ActionOp `json:"op"`
	Seq               int64          `json:"seq"`
	RecordedAt        time.Time      `json:"recorded_at"`
}

func EventFromAction(entry types.ActionEntry) ActionEvent {
	return ActionEvent{
		CollectiveAddress: entry.Action.CollectiveAddress,
		ActionAddress:     entry.Address,
		Op:                entry.Action.Op,
		Seq:               entry.Action.Seq,
		RecordedAt:        entry.Action.RecordedAt,
	}
}
