package governance

import (
	"encoding/json"
	"time"
)

type ActionOp string

const (
	ActionOpCreateCollective  ActionOp = "CreateCollective"
	ActionOpAddParticipant    ActionOp = "AddParticipant"
	ActionOpSetCollectiveName ActionOp = "SetCollectiveName"
)

type ActionStatus string

const (
	ActionStatusOpen     ActionStatus = "Open"
	ActionStatusExecuted ActionStatus = "Executed"
)

type ActionStrategy string

const (
	ActionStrategySystemAutomatic      ActionStrategy = "SystemAutomatic"
	ActionStrategyPrivilegedAction     ActionStrategy = "PrivilegedAction"
	ActionStrategyNewDiscussionMessage ActionStrategy = "NewDiscussionMessage"
)

// Per-action tags.
const (
	ActionTagCreateCollective    = "create_collective"
	ActionTagSetCollectiveName   = "set_collective_name"
	ActionTagAddCollectivePerson = "add_collective_person"
)

// Action is an immutable journal entry. Seq is allocated per collective and
// is the only ordering get_actions relies on.
type Action struct {
	Op                ActionOp        `json:"op"`
	Status            ActionStatus    `json:"status"`
	Data              json.RawMessage `json:"data"`
	PrevData          json.RawMessage `json:"prev_data"`
	Tag               string          `json:"tag"`
	Strategy          ActionStrategy  `json:"strategy"`
	CollectiveAddress Address         `json:"collective_address"`
	Seq               int64           `json:"seq"`
	RecordedAt        time.Time       `json:"recorded_at"`
}

type SetCollectiveNameData struct {
	Name string `json:"name"`
}

type AddParticipantData struct {
	ParticipantAddress Address `json:"participant_address"`
}
