package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/collective-backend/internal/domain"
	"github.com/yungbote/collective-backend/internal/platform/logger"
	"github.com/yungbote/collective-backend/internal/realtime"
)

func memoryConfig() Config {
	return Config{
		Port:               "0",
		StoreBackend:       StoreMemory,
		LinkIndexBackend:   LinkIndexStore,
		RedisActionChannel: "collective.actions",
		JWTSecretKey:       "app-test-secret",
		JWTIssuer:          "collective-backend",
		AccessTokenTTL:     time.Hour,
	}
}

func TestNewWithConfigServesAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a, err := NewWithConfig(context.Background(), logger.Nop(), memoryConfig())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	token, err := a.Services.Auth.IssueToken("alice", time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/collectives", bytes.NewBufferString(`{"name":"Collective 0"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created types.CollectiveEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "Collective 0", created.Collective.Name)
}

func TestRunForwardsActionsUntilCancelled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a, err := NewWithConfig(context.Background(), logger.Nop(), memoryConfig())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	seen := make(chan realtime.ActionEvent, 8)
	require.NoError(t, a.Bus.StartForwarder(context.Background(), func(evt realtime.ActionEvent) { seen <- evt }))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	authed := context.Background()
	authed, err = a.Services.Auth.SetContextFromToken(authed, mustToken(t, a, "alice"))
	require.NoError(t, err)
	_, err = a.Services.Collectives.CreateCollective(authed, "Collective 0", nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		select {
		case evt := <-seen:
			require.Equal(t, int64(i+1), evt.Seq)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for action %d", i+1)
		}
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWireStoresRequiresNeo4jURI(t *testing.T) {
	unsetForTest(t, "NEO4J_URI")
	cfg := memoryConfig()
	cfg.LinkIndexBackend = LinkIndexNeo4j
	_, err := wireStores(context.Background(), logger.Nop(), cfg)
	require.ErrorContains(t, err, "NEO4J_URI")
}

func mustToken(t *testing.T, a *App, identity string) string {
	t.Helper()
	token, err := a.Services.Auth.IssueToken(identity, time.Minute)
	require.NoError(t, err)
	return token
}
