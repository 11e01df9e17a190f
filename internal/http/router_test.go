package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/collective-backend/internal/data/aggregates"
	"github.com/yungbote/collective-backend/internal/data/repos/memstore"
	types "github.com/yungbote/collective-backend/internal/domain"
	apphttp "github.com/yungbote/collective-backend/internal/http"
	httpH "github.com/yungbote/collective-backend/internal/http/handlers"
	httpMW "github.com/yungbote/collective-backend/internal/http/middleware"
	"github.com/yungbote/collective-backend/internal/http/response"
	"github.com/yungbote/collective-backend/internal/platform/logger"
	"github.com/yungbote/collective-backend/internal/realtime/bus"
	"github.com/yungbote/collective-backend/internal/services"
)

type apiClient struct {
	t      *testing.T
	engine *gin.Engine
	auth   services.AuthService
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()
	store := memstore.New()
	b := bus.NewMemoryBus()
	t.Cleanup(func() { _ = b.Close() })

	base := aggregates.BaseDeps{Log: log, Runner: store}
	actions := aggregates.NewActionLog(store.Records(), store.Links(), base)
	collectives := services.NewCollectiveService(log, aggregates.NewCollectiveAggregate(aggregates.CollectiveAggregateDeps{
		Base:    base,
		Records: store.Records(),
		Links:   store.Links(),
		Actions: actions,
	}), services.NewActionPublisher(log, b))
	participants := services.NewParticipantService(log, aggregates.NewParticipantAggregate(aggregates.ParticipantAggregateDeps{Base: base, Records: store.Records()}))
	proposals := services.NewProposalService(log, aggregates.NewProposalAggregate(aggregates.ProposalAggregateDeps{Base: base, Records: store.Records()}))
	ledgers := services.NewLedgerService(log, aggregates.NewLedgerAggregate(aggregates.LedgerAggregateDeps{Records: store.Records()}))
	queries := services.NewQueryService(log, store.Records(), store.Links(), actions)
	auth := services.NewAuthService(log, "router-test-secret", "collective-backend", time.Hour)

	engine := apphttp.NewRouter(apphttp.RouterConfig{
		Log:                log,
		AuthMiddleware:     httpMW.NewAuthMiddleware(log, auth),
		CollectiveHandler:  httpH.NewCollectiveHandler(collectives, queries),
		ParticipantHandler: httpH.NewParticipantHandler(participants),
		ProposalHandler:    httpH.NewProposalHandler(proposals),
		LedgerHandler:      httpH.NewLedgerHandler(ledgers),
		HealthHandler:      httpH.NewHealthHandler(),
	})
	return &apiClient{t: t, engine: engine, auth: auth}
}

func (a *apiClient) do(identity, method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if identity != "" {
		token, err := a.auth.IssueToken(identity, time.Minute)
		require.NoError(a.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type actionsResponse struct {
	CollectiveAddress types.Address       `json:"collective_address"`
	Actions           []types.ActionEntry `json:"actions"`
}

type participantsResponse struct {
	CollectiveAddress types.Address            `json:"collective_address"`
	Participants      []types.ParticipantEntry `json:"participants"`
}

func (a *apiClient) createCollective(identity, name string) types.CollectiveEntry {
	a.t.Helper()
	rec := a.do(identity, http.MethodPost, "/api/collectives", gin.H{"name": name})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[types.CollectiveEntry](a.t, rec)
}

func TestHealthcheckIsPublic(t *testing.T) {
	api := newAPI(t)
	rec := api.do("", http.MethodGet, "/healthcheck", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestAPIRequiresToken(t *testing.T) {
	api := newAPI(t)
	rec := api.do("", http.MethodPost, "/api/collectives", gin.H{"name": "Collective 0"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateCollectiveJournalsThreeActions(t *testing.T) {
	api := newAPI(t)
	created := api.createCollective("alice", "Collective 0")
	require.NotEmpty(t, created.Address)
	require.Equal(t, "Collective 0", created.Collective.Name)
	require.True(t, created.Collective.HasAdmin())

	rec := api.do("alice", http.MethodGet, "/api/collectives/"+created.Address.String()+"/actions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[actionsResponse](t, rec)
	require.Equal(t, created.Address, got.CollectiveAddress)
	require.Len(t, got.Actions, 3)
	require.Equal(t, types.ActionOpCreateCollective, got.Actions[0].Action.Op)
	require.Equal(t, types.ActionOpSetCollectiveName, got.Actions[1].Action.Op)
	require.Equal(t, types.ActionOpAddParticipant, got.Actions[2].Action.Op)
	for i, a := range got.Actions {
		require.Equal(t, int64(i+1), a.Action.Seq)
	}

	rec = api.do("alice", http.MethodGet, "/api/collectives/"+created.Address.String()+"/participants", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	members := decode[participantsResponse](t, rec)
	require.Len(t, members.Participants, 1)
	require.Equal(t, *created.Collective.AdminAddress, members.Participants[0].Address)
	require.Equal(t, types.RoleCreator, members.Participants[0].Role)

	rec = api.do("bob", http.MethodGet, "/api/collectives/"+created.Address.String()+"/creator", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	creator := decode[types.ParticipantEntry](t, rec)
	require.Equal(t, types.Identity("alice"), creator.Participant.OwnerIdentity)

	rec = api.do("alice", http.MethodGet, "/api/collectives/"+created.Address.String()+"/ledger", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ledger := decode[types.LedgerEntry](t, rec)
	require.Equal(t, "Primary Ledger for Collective 0", ledger.Ledger.Name)

	rec = api.do("alice", http.MethodGet, "/api/ledgers/"+ledger.Address.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, ledger.Ledger.Name, decode[types.LedgerEntry](t, rec).Ledger.Name)
}

func TestSetCollectiveNameByAdmin(t *testing.T) {
	api := newAPI(t)
	created := api.createCollective("alice", "Collective 0")
	path := "/api/collectives/" + created.Address.String()

	rec := api.do("alice", http.MethodPut, path+"/name", gin.H{"name": "Collective 1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	renamed := decode[types.CollectiveEntry](t, rec)
	require.Equal(t, created.Address, renamed.Address)
	require.Equal(t, "Collective 1", renamed.Collective.Name)

	rec = api.do("alice", http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Collective 1", decode[types.CollectiveEntry](t, rec).Collective.Name)

	rec = api.do("alice", http.MethodGet, path+"/actions", nil)
	got := decode[actionsResponse](t, rec)
	require.Len(t, got.Actions, 4)
	last := got.Actions[3].Action
	require.Equal(t, types.ActionOpSetCollectiveName, last.Op)
	require.JSONEq(t, `{"name":"Collective 1"}`, string(last.Data))
	require.JSONEq(t, `{"name":"Collective 0"}`, string(last.PrevData))
}

func TestSetCollectiveNameByStrangerIsForbidden(t *testing.T) {
	api := newAPI(t)
	created := api.createCollective("alice", "Collective 0")
	path := "/api/collectives/" + created.Address.String()

	rec := api.do("mallory", http.MethodPut, path+"/name", gin.H{"name": "Hijacked"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	env := decode[response.ErrorEnvelope](t, rec)
	require.Equal(t, "validation_rejected", env.Error.Code)
	require.Contains(t, env.Error.Message, "Collective can only be modified by the admin")

	rec = api.do("alice", http.MethodGet, path+"/actions", nil)
	require.Len(t, decode[actionsResponse](t, rec).Actions, 3)

	rec = api.do("alice", http.MethodGet, path, nil)
	require.Equal(t, "Collective 0", decode[types.CollectiveEntry](t, rec).Collective.Name)
}

func TestCreateParticipantNameTooLong(t *testing.T) {
	api := newAPI(t)
	rec := api.do("alice", http.MethodPost, "/api/participants", gin.H{"name": strings.Repeat("a", 65)})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decode[response.ErrorEnvelope](t, rec)
	require.Equal(t, "invariant_violation", env.Error.Code)
	require.Contains(t, env.Error.Message, "Name is too long")

	rec = api.do("alice", http.MethodPost, "/api/participants", gin.H{"name": strings.Repeat("a", 64)})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[types.ParticipantEntry](t, rec)
	require.Equal(t, types.ParticipantActive, created.Participant.Status)

	rec = api.do("bob", http.MethodGet, "/api/participants/"+created.Address.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, created.Address, decode[types.ParticipantEntry](t, rec).Address)
}

func TestUpdateParticipantOnlyBySelf(t *testing.T) {
	api := newAPI(t)
	rec := api.do("alice", http.MethodPost, "/api/participants", gin.H{"name": "Alice"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[types.ParticipantEntry](t, rec)
	path := "/api/participants/" + created.Address.String()

	rec = api.do("bob", http.MethodPut, path, gin.H{"name": "Bob was here"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do("alice", http.MethodPut, path, gin.H{"name": "Alice", "status": "Inactive"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, types.ParticipantInactive, decode[types.ParticipantEntry](t, rec).Participant.Status)
}

func TestDeletesAreForbidden(t *testing.T) {
	api := newAPI(t)
	created := api.createCollective("alice", "Collective 0")

	rec := api.do("alice", http.MethodDelete, "/api/collectives/"+created.Address.String(), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, decode[response.ErrorEnvelope](t, rec).Error.Message, "Collective cannot be deleted")

	rec = api.do("alice", http.MethodDelete, "/api/participants/"+created.Collective.AdminAddress.String(), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, decode[response.ErrorEnvelope](t, rec).Error.Message, "Participant cannot be deleted")
}

func TestUnknownAddressesAreNotFound(t *testing.T) {
	api := newAPI(t)
	for _, path := range []string{
		"/api/collectives/deadbeef",
		"/api/collectives/deadbeef/actions",
		"/api/collectives/deadbeef/participants",
		"/api/participants/deadbeef",
		"/api/proposals/deadbeef",
	} {
		rec := api.do("alice", http.MethodGet, path, nil)
		require.Equal(t, http.StatusNotFound, rec.Code, path)
		require.Equal(t, "not_found", decode[response.ErrorEnvelope](t, rec).Error.Code, path)
	}
}

func TestCreateAndGetProposal(t *testing.T) {
	api := newAPI(t)
	rec := api.do("alice", http.MethodPost, "/api/proposals", gin.H{"content": "raise dues"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[types.ProposalEntry](t, rec)
	require.Equal(t, types.DefaultProposalName, created.Proposal.Name)

	rec = api.do("alice", http.MethodGet, "/api/proposals/"+created.Address.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "raise dues", decode[types.ProposalEntry](t, rec).Proposal.Content)
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	api := newAPI(t)
	token, err := api.auth.IssueToken("alice", time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/collectives", strings.NewReader("{"))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	api.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_request", decode[response.ErrorEnvelope](t, rec).Error.Code)
}
