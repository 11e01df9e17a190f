package domain

import (
	"github.com/yungbote/collective-backend/internal/domain/governance"
	"github.com/yungbote/collective-backend/internal/domain/records"
)

type (
	Address    = governance.Address
	Identity   = governance.Identity
	Sources    = governance.Sources
	RecordType = governance.RecordType

	Collective        = governance.Collective
	Participant       = governance.Participant
	ParticipantStatus = governance.ParticipantStatus
	Ledger            = governance.Ledger
	Proposal          = governance.Proposal
	Action            = governance.Action
	ActionOp          = governance.ActionOp
	ActionStatus      = governance.ActionStatus
	ActionStrategy    = governance.ActionStrategy

	SetCollectiveNameData = governance.SetCollectiveNameData
	AddParticipantData    = governance.AddParticipantData

	CollectiveEntry  = governance.CollectiveEntry
	ParticipantEntry = governance.ParticipantEntry
	LedgerEntry      = governance.LedgerEntry
	ProposalEntry    = governance.ProposalEntry
	ActionEntry      = governance.ActionEntry

	Record = records.Record
	Link   = records.Link
)

const (
	RecordTypeCollective  = governance.RecordTypeCollective
	RecordTypeParticipant = governance.RecordTypeParticipant
	RecordTypeLedger      = governance.RecordTypeLedger
	RecordTypeProposal    = governance.RecordTypeProposal
	RecordTypeAction      = governance.RecordTypeAction

	LinkTagCollectiveAction  = governance.LinkTagCollectiveAction
	LinkTagParentChildAction = governance.LinkTagParentChildAction
	LinkTagCollectivePerson  = governance.LinkTagCollectivePerson
	LinkTagCollectiveLedger  = governance.LinkTagCollectiveLedger
	RoleCreator              = governance.RoleCreator

	ParticipantActive        = governance.ParticipantActive
	ParticipantInactive      = governance.ParticipantInactive
	MaxParticipantNameLength = governance.MaxParticipantNameLength

	ActionOpCreateCollective  = governance.ActionOpCreateCollective
	ActionOpAddParticipant    = governance.ActionOpAddParticipant
	ActionOpSetCollectiveName = governance.ActionOpSetCollectiveName

	ActionStatusOpen     = governance.ActionStatusOpen
	ActionStatusExecuted = governance.ActionStatusExecuted

	ActionStrategySystemAutomatic      = governance.ActionStrategySystemAutomatic
	ActionStrategyPrivilegedAction     = governance.ActionStrategyPrivilegedAction
	ActionStrategyNewDiscussionMessage = governance.ActionStrategyNewDiscussionMessage

	ActionTagCreateCollective    = governance.ActionTagCreateCollective
	ActionTagSetCollectiveName   = governance.ActionTagSetCollectiveName
	ActionTagAddCollectivePerson = governance.ActionTagAddCollectivePerson

	DefaultLedgerName   = governance.DefaultLedgerName
	DefaultProposalName = governance.DefaultProposalName
)

var (
	NewSources             = governance.NewSources
	AddressPtr             = governance.AddressPtr
	NameTooLong            = governance.NameTooLong
	ParseParticipantStatus = governance.ParseParticipantStatus
	PrimaryLedgerName      = governance.PrimaryLedgerName
	NewProposal            = governance.NewProposal
)
