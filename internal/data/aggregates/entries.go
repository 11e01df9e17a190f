package aggregates

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/collective-backend/internal/data/repos"
	types "github.com/yungbote/collective-backend/internal/domain"
	domainagg "github.com/yungbote/collective-backend/internal/domain/aggregates"
	"github.com/yungbote/collective-backend/internal/platform/contenthash"
	"github.com/yungbote/collective-backend/internal/platform/dbctx"
	"gorm.io/datatypes"
)

// EntryReader decodes stored records into typed entries. Reads resolve a
// version address to the newest version of its chain, and entries are
// addressed by the first version so links stay stable across supersedes.
type EntryReader struct {
	records repos.RecordRepo
}

func NewEntryReader(records repos.RecordRepo) *EntryReader {
	return &EntryReader{records: records}
}

func (r *EntryReader) Collective(dbc dbctx.Context, address types.Address) (types.CollectiveEntry, error) {
	var c types.Collective
	rec, err := r.latest(dbc, address, types.RecordTypeCollective, &c)
	if err != nil {
		return types.CollectiveEntry{}, err
	}
	return types.CollectiveEntry{Address: types.Address(rec.Origin), Collective: c}, nil
}

func (r *EntryReader) Participant(dbc dbctx.Context, address types.Address) (types.ParticipantEntry, error) {
	var p types.Participant
	rec, err := r.latest(dbc, address, types.RecordTypeParticipant, &p)
	if err != nil {
		return types.ParticipantEntry{}, err
	}
	return types.ParticipantEntry{Address: types.Address(rec.Origin), Participant: p}, nil
}

func (r *EntryReader) Ledger(dbc dbctx.Context, address types.Address) (types.LedgerEntry, error) {
	var l types.Ledger
	rec, err := r.latest(dbc, address, types.RecordTypeLedger, &l)
	if err != nil {
		return types.LedgerEntry{}, err
	}
	return types.LedgerEntry{Address: types.Address(rec.Origin), Ledger: l}, nil
}

func (r *EntryReader) Proposal(dbc dbctx.Context, address types.Address) (types.ProposalEntry, error) {
	var p types.Proposal
	rec, err := r.latest(dbc, address, types.RecordTypeProposal, &p)
	if err != nil {
		return types.ProposalEntry{}, err
	}
	return types.ProposalEntry{Address: types.Address(rec.Origin), Proposal: p}, nil
}

// Action loads an action by its exact address. Actions are never superseded.
func (r *EntryReader) Action(dbc dbctx.Context, address types.Address) (types.ActionEntry, error) {
	var a types.Action
	rec, err := r.records.GetByAddress(dbc, strings.TrimSpace(string(address)))
	if err != nil {
		return types.ActionEntry{}, err
	}
	if err := decodeRecord(rec, types.RecordTypeAction, &a); err != nil {
		return types.ActionEntry{}, err
	}
	return types.ActionEntry{Address: types.Address(rec.Address), Action: a}, nil
}

func (r *EntryReader) latest(dbc dbctx.Context, address types.Address, typ types.RecordType, out any) (*types.Record, error) {
	rec, err := r.records.GetLatest(dbc, strings.TrimSpace(string(address)))
	if err != nil {
		return nil, err
	}
	if err := decodeRecord(rec, typ, out); err != nil {
		return nil, err
	}
	return rec, nil
}

func decodeRecord(rec *types.Record, typ types.RecordType, out any) error {
	if rec == nil || rec.Type != string(typ) {
		return notFound(typ)
	}
	if err := json.Unmarshal(rec.Content, out); err != nil {
		return domainagg.NewError(domainagg.CodeInternal, "decode_"+strings.ToLower(string(typ)), "stored content is not valid "+string(typ), err)
	}
	return nil
}

func notFound(typ types.RecordType) error {
	return NotFoundError(fmt.Sprintf("%s hash not found", strings.ToLower(string(typ))))
}

// sealRecord builds the record for content without storing it. A non-empty
// replaces makes it a successor version.
func sealRecord(typ types.RecordType, content any, replaces string, author types.Identity, now time.Time) (*types.Record, error) {
	address, body, err := contenthash.Seal(string(typ), content, replaces)
	if err != nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, "seal_"+strings.ToLower(string(typ)), err.Error(), err)
	}
	return &types.Record{
		Address:   address,
		Type:      string(typ),
		Author:    string(author),
		Content:   datatypes.JSON(body),
		CreatedAt: now,
	}, nil
}

// commitEntry stores content as a first version. The bool is false when the
// same content was already stored.
func commitEntry(dbc dbctx.Context, records repos.RecordRepo, typ types.RecordType, content any, author types.Identity, now time.Time) (*types.Record, bool, error) {
	rec, err := sealRecord(typ, content, "", author, now)
	if err != nil {
		return nil, false, err
	}
	created, err := records.Create(dbc, rec)
	if err != nil {
		return nil, false, err
	}
	return rec, created, nil
}

// supersedeEntry stores content as the successor of prev.
func supersedeEntry(dbc dbctx.Context, records repos.RecordRepo, prev *types.Record, content any, author types.Identity, now time.Time) (*types.Record, error) {
	rec, err := sealRecord(types.RecordType(prev.Type), content, prev.Address, author, now)
	if err != nil {
		return nil, err
	}
	if _, err := records.Supersede(dbc, prev, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
