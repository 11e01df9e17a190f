package governance

// RecordType names what kind of entry a stored record holds.
type RecordType string

const (
	RecordTypeCollective  RecordType = "Collective"
	RecordTypeParticipant RecordType = "Participant"
	RecordTypeLedger      RecordType = "Ledger"
	RecordTypeProposal    RecordType = "Proposal"
	RecordTypeAction      RecordType = "Action"
)

// Link tags.
const (
	LinkTagCollectiveAction  = "collective_action"
	LinkTagParentChildAction = "parent_action_child_action"
	LinkTagCollectivePerson  = "collective_person"
	LinkTagCollectiveLedger  = "collective_ledger"
)

// RoleCreator marks the collective_person link written at collective creation.
const RoleCreator = "Creator"

type CollectiveEntry struct {
	Address    Address    `json:"collective_address"`
	Collective Collective `json:"collective"`
}

type ParticipantEntry struct {
	Address     Address     `json:"participant_address"`
	Participant Participant `json:"participant"`
	Role        string      `json:"role,omitempty"`
}

type LedgerEntry struct {
	Address Address `json:"ledger_address"`
	Ledger  Ledger  `json:"ledger"`
}

type ProposalEntry struct {
	Address  Address  `json:"proposal_address"`
	Proposal Proposal `json:"proposal"`
}

type ActionEntry struct {
	Address Address `json:"action_address"`
	Action  Action  `json:"action"`
}
