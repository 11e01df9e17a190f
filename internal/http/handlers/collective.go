package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/collective-backend/internal/domain"
	"github.com/yungbote/collective-backend/internal/http/response"
	"github.com/yungbote/collective-backend/internal/services"
)

type CollectiveHandler struct {
	collectives services.CollectiveService
	queries     services.QueryService
}

func NewCollectiveHandler(collectives services.CollectiveService, queries services.QueryService) *CollectiveHandler {
	return &CollectiveHandler{collectives: collectives, queries: queries}
}

func addressParam(c *gin.Context) types.Address {
	return types.Address(strings.TrimSpace(c.Param("address")))
}

// POST /api/collectives
// body: { "name": "...", "participant_address": "..." }
func (h *CollectiveHandler) CreateCollective(c *gin.Context) {
	var req struct {
		Name               string  `json:"name"`
		ParticipantAddress *string `json:"participant_address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var admin *types.Address
	if req.ParticipantAddress != nil {
		admin = types.AddressPtr(types.Address(strings.TrimSpace(*req.ParticipantAddress)))
	}
	entry, err := h.collectives.CreateCollective(c.Request.Context(), req.Name, admin)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, entry)
}

// GET /api/collectives/:address
func (h *CollectiveHandler) GetCollective(c *gin.Context) {
	entry, err := h.collectives.GetCollective(c.Request.Context(), addressParam(c))
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, entry)
}

// PUT /api/collectives/:address/name
// body: { "name": "..." }
func (h *CollectiveHandler) SetCollectiveName(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	entry, err := h.collectives.SetCollectiveName(c.Request.Context(), addressParam(c), req.Name)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, entry)
}

// DELETE /api/collectives/:address
func (h *CollectiveHandler) DeleteCollective(c *gin.Context) {
	if err := h.collectives.DeleteCollective(c.Request.Context(), addressParam(c)); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/collectives/:address/participants
func (h *CollectiveHandler) GetCollectiveParticipants(c *gin.Context) {
	collective, participants, err := h.queries.GetCollectiveParticipants(c.Request.Context(), addressParam(c))
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"collective_address": collective.Address,
		"participants":       participants,
	})
}

// GET /api/collectives/:address/creator
func (h *CollectiveHandler) GetCollectiveCreator(c *gin.Context) {
	creator, err := h.queries.GetCollectiveCreator(c.Request.Context(), addressParam(c))
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, creator)
}

// GET /api/collectives/:address/actions
func (h *CollectiveHandler) GetActions(c *gin.Context) {
	collective, actions, err := h.queries.GetActions(c.Request.Context(), addressParam(c))
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"collective_address": collective.Address,
		"actions":            actions,
	})
}

// GET /api/actions/:address/children
func (h *CollectiveHandler) GetChildActions(c *gin.Context) {
	parent := addressParam(c)
	children, err := h.queries.GetChildActions(c.Request.Context(), parent)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"action_address": parent,
		"actions":        children,
	})
}

// GET /api/collectives/:address/ledger
func (h *CollectiveHandler) GetCollectiveLedger(c *gin.Context) {
	ledger, err := h.queries.GetCollectiveLedger(c.Request.Context(), addressParam(c))
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, ledger)
}
