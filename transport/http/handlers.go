package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/ports"
	"github.com/layer-3/rangda/service"
)

// ConnectHandlers contains HTTP handlers for the approval surface and the
// administrative origin-management surface.
type ConnectHandlers struct {
	host   *service.ConnectHost
	store  ports.ApprovalStore
	events ports.EventPublisher
}

// NewConnectHandlers creates new connect handlers.
func NewConnectHandlers(host *service.ConnectHost, store ports.ApprovalStore, events ports.EventPublisher) *ConnectHandlers {
	return &ConnectHandlers{
		host:   host,
		store:  store,
		events: events,
	}
}

// PeekApproval returns the current pending connection approval.
func (h *ConnectHandlers) PeekApproval(c *gin.Context) {
	info, ok := h.host.PeekApproval()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no pending approval"})
		return
	}

	c.JSON(http.StatusOK, info)
}

// ResolveApproval resolves the pending approval identified by id.
func (h *ConnectHandlers) ResolveApproval(c *gin.Context) {
	var req struct {
		ID                 string                 `json:"id" binding:"required"`
		Approved           bool                   `json:"approved"`
		GrantedPermissions []core.PermissionScope `json:"grantedPermissions"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if !h.host.ResolveApproval(req.ID, req.Approved, req.GrantedPermissions) {
		// Already resolved by timeout or a prior call.
		c.JSON(http.StatusNotFound, gin.H{"resolved": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"resolved": true})
}

// PeekIntent returns the current pending intent. Amount-bearing params get
// a pre-rendered decimal so the surface can display them without its own
// number handling.
func (h *ConnectHandlers) PeekIntent(c *gin.Context) {
	info, ok := h.host.PeekIntent()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no pending intent"})
		return
	}

	resp := gin.H{
		"id":      info.ID,
		"action":  info.Action,
		"params":  info.Params,
		"session": info.Session,
	}
	if amount, err := info.Params.Decimal("amount"); err == nil {
		resp["displayAmount"] = amount.String()
	}

	c.JSON(http.StatusOK, resp)
}

// ResolveIntent resolves the pending intent identified by id.
func (h *ConnectHandlers) ResolveIntent(c *gin.Context) {
	var req struct {
		ID     string `json:"id" binding:"required"`
		Result any    `json:"result"`
		Error  string `json:"error"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	outcome := core.IntentOutcome{Result: req.Result}
	if req.Error != "" {
		outcome = core.IntentOutcome{Err: errors.New(req.Error)}
	}

	if !h.host.ResolveIntent(req.ID, outcome) {
		c.JSON(http.StatusNotFound, gin.H{"resolved": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"resolved": true})
}

// ListOrigins returns a snapshot of every approved origin. Works whether
// the host is Active or Inactive.
func (h *ConnectHandlers) ListOrigins(c *gin.Context) {
	entries, err := h.store.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list origins"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"origins": entries})
}

// RevokeOrigin removes the grant for an origin. Idempotent: revoking an
// unknown origin still succeeds.
func (h *ConnectHandlers) RevokeOrigin(c *gin.Context) {
	origin := core.Origin(c.Query("origin"))
	if origin == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "origin is required"})
		return
	}

	if err := h.store.Revoke(c.Request.Context(), origin); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke origin"})
		return
	}

	if h.events != nil {
		_ = h.events.PublishGrantRevoked(c.Request.Context(), origin)
	}

	c.JSON(http.StatusOK, gin.H{"revoked": origin})
}
