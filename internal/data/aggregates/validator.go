package aggregates

import (
	types "github.com/yungbote/collective-backend/internal/domain"
	"github.com/yungbote/collective-backend/internal/platform/dbctx"
)

// Admission-control messages.
const (
	msgCollectiveNeedsAdmin     = "Collective must have an admin"
	msgCollectiveAdminAgent     = "Collective must be created with same agent as given person"
	msgCollectiveModifyByAdmin  = "Collective can only be modified by the admin"
	msgCollectiveAdminFixed     = "Collective admin cannot be changed"
	msgCollectiveCannotDelete   = "Collective cannot be deleted"
	msgParticipantByAgent       = "Participant must be created by agent"
	msgNameTooLong              = "Name is too long"
	msgParticipantOwnerFixed    = "Participant cannot update agent_address"
	msgParticipantUpdateBySelf  = "Participant can only update by oneself"
	msgParticipantCannotDelete  = "Participant cannot be deleted"
	msgParticipantStatusUnknown = "Participant status must be Active or Inactive"
)

// ParticipantLookup resolves the participant an admin address points at.
type ParticipantLookup func(dbc dbctx.Context, address types.Address) (types.Participant, error)

// AuthorizationValidator runs before a write becomes visible. It has no side
// effects; collective rules read the admin participant and nothing else.
type AuthorizationValidator struct {
	participant ParticipantLookup
}

func NewAuthorizationValidator(lookup ParticipantLookup) *AuthorizationValidator {
	return &AuthorizationValidator{participant: lookup}
}

func (v *AuthorizationValidator) ValidateCollectiveCreate(dbc dbctx.Context, entry types.Collective, sources types.Sources) error {
	if !entry.HasAdmin() {
		return RejectedError(msgCollectiveNeedsAdmin)
	}
	admin, err := v.admin(dbc, *entry.AdminAddress)
	if err != nil {
		return err
	}
	if !sources.Contains(admin.OwnerIdentity) {
		return RejectedError(msgCollectiveAdminAgent)
	}
	return nil
}

func (v *AuthorizationValidator) ValidateCollectiveModify(dbc dbctx.Context, old types.Collective, next types.Collective, sources types.Sources) error {
	if !old.HasAdmin() {
		return RejectedError(msgCollectiveNeedsAdmin)
	}
	if !old.SameAdmin(next) {
		return RejectedError(msgCollectiveAdminFixed)
	}
	admin, err := v.admin(dbc, *old.AdminAddress)
	if err != nil {
		return err
	}
	if !sources.Contains(admin.OwnerIdentity) {
		return RejectedError(msgCollectiveModifyByAdmin)
	}
	return nil
}

func (v *AuthorizationValidator) ValidateCollectiveDelete() error {
	return RejectedError(msgCollectiveCannotDelete)
}

func (v *AuthorizationValidator) ValidateParticipantCreate(entry types.Participant, sources types.Sources) error {
	if !sources.Contains(entry.OwnerIdentity) {
		return RejectedError(msgParticipantByAgent)
	}
	if types.NameTooLong(entry.Name) {
		return RejectedError(msgNameTooLong)
	}
	return nil
}

func (v *AuthorizationValidator) ValidateParticipantModify(old types.Participant, next types.Participant, sources types.Sources) error {
	if old.OwnerIdentity != next.OwnerIdentity {
		return RejectedError(msgParticipantOwnerFixed)
	}
	if !sources.Contains(old.OwnerIdentity) {
		return RejectedError(msgParticipantUpdateBySelf)
	}
	if types.NameTooLong(next.Name) {
		return RejectedError(msgNameTooLong)
	}
	return nil
}

func (v *AuthorizationValidator) ValidateParticipantDelete() error {
	return RejectedError(msgParticipantCannotDelete)
}

func (v *AuthorizationValidator) admin(dbc dbctx.Context, address types.Address) (types.Participant, error) {
	if v == nil || v.participant == nil {
		return types.Participant{}, RejectedError(msgCollectiveNeedsAdmin)
	}
	return v.participant(dbc, address)
}
