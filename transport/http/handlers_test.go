package http

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/rangda/adapters/store"
	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/ports"
	"github.com/layer-3/rangda/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var uiDApp = core.DAppMetadata{
	Name: "Example DApp",
	URL:  "https://app.example.com",
}

const uiOrigin = core.Origin("https://app.example.com")

type noopEscalator struct{}

func (noopEscalator) RequestApprovalAttention(ctx context.Context, approvalID string) error {
	return nil
}
func (noopEscalator) RequestIntentAttention(ctx context.Context, intentID string) error { return nil }

func newTestServer(t *testing.T) (*gin.Engine, *service.ConnectHost, ports.ApprovalStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	approvalStore := store.NewMemoryStore()
	host := service.NewConnectHost(approvalStore, noopEscalator{}, nil)
	host.Initialize(core.WalletHandle{SessionKey: key})

	return SetupRouter(host, approvalStore, nil), host, approvalStore
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPeekApprovalEmpty(t *testing.T) {
	router, _, _ := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/connect/approval", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResolveApprovalStale(t *testing.T) {
	router, _, _ := newTestServer(t)

	rec := doJSON(t, router, http.MethodPost, "/connect/approval/resolve", gin.H{
		"id":       "no-such-approval",
		"approved": true,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Resolved bool `json:"resolved"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Resolved)
}

func TestApprovalResolutionFlow(t *testing.T) {
	router, host, approvalStore := newTestServer(t)

	type result struct {
		decision core.ConnectDecision
		err      error
	}
	resultCh := make(chan result, 1)
	go func() {
		decision, err := host.OnConnectionRequest(
			context.Background(),
			uiDApp,
			[]core.PermissionScope{core.ScopeIdentityRead, core.ScopeBalanceRead},
			false,
		)
		resultCh <- result{decision, err}
	}()

	// The pending approval appears on the surface
	var info core.PendingApprovalInfo
	require.Eventually(t, func() bool {
		rec := doJSON(t, router, http.MethodGet, "/connect/approval", nil)
		if rec.Code != http.StatusOK {
			return false
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
		return true
	}, time.Second, time.Millisecond)
	assert.Equal(t, uiDApp, info.DApp)

	rec := doJSON(t, router, http.MethodPost, "/connect/approval/resolve", gin.H{
		"id":                 info.ID,
		"approved":           true,
		"grantedPermissions": []core.PermissionScope{core.ScopeTransferRequest},
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	res := <-resultCh
	require.NoError(t, res.err)
	assert.True(t, res.decision.Approved)
	assert.Equal(t, []core.PermissionScope{core.ScopeIdentityRead, core.ScopeTransferRequest}, res.decision.GrantedPermissions)

	entry, err := approvalStore.Get(context.Background(), uiOrigin)
	require.NoError(t, err)
	require.NotNil(t, entry)

	// A second resolve with the same id is stale
	rec = doJSON(t, router, http.MethodPost, "/connect/approval/resolve", gin.H{
		"id":       info.ID,
		"approved": false,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPeekIntentRendersAmount(t *testing.T) {
	router, host, _ := newTestServer(t)
	session := core.ConnectSession{SessionID: "s1", DApp: uiDApp, Origin: uiOrigin}

	go func() {
		_, _ = host.OnIntent(context.Background(), core.ActionSend, core.IntentParams{
			"to":     "0xabc",
			"amount": "1.50",
		}, session)
	}()

	var body map[string]any
	require.Eventually(t, func() bool {
		rec := doJSON(t, router, http.MethodGet, "/connect/intent", nil)
		if rec.Code != http.StatusOK {
			return false
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return true
	}, time.Second, time.Millisecond)

	assert.Equal(t, "send", body["action"])
	assert.Equal(t, "1.5", body["displayAmount"])

	id, _ := body["id"].(string)
	rec := doJSON(t, router, http.MethodPost, "/connect/intent/resolve", gin.H{
		"id":    id,
		"error": "user rejected",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminListAndRevoke(t *testing.T) {
	router, host, approvalStore := newTestServer(t)

	require.NoError(t, approvalStore.Upsert(context.Background(), uiOrigin, uiDApp, []core.PermissionScope{core.ScopeIdentityRead}))

	rec := doJSON(t, router, http.MethodGet, "/admin/origins", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Origins map[core.Origin]core.ApprovedOriginEntry `json:"origins"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Contains(t, list.Origins, uiOrigin)

	// Revoke works regardless of host lifecycle state
	host.Destroy()

	rec = doJSON(t, router, http.MethodDelete, "/admin/origins?origin=https://app.example.com", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	entry, err := approvalStore.Get(context.Background(), uiOrigin)
	require.NoError(t, err)
	assert.Nil(t, entry)

	// Idempotent
	rec = doJSON(t, router, http.MethodDelete, "/admin/origins?origin=https://app.example.com", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRevokeRequiresOrigin(t *testing.T) {
	router, _, _ := newTestServer(t)

	rec := doJSON(t, router, http.MethodDelete, "/admin/origins", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
