package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/collective-backend/internal/http/response"
	"github.com/yungbote/collective-backend/internal/services"
)

type ParticipantHandler struct {
	participants services.ParticipantService
}

func NewParticipantHandler(participants services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participants: participants}
}

type participantRequest struct {
	Name          string `json:"name"`
	OwnerIdentity string `json:"owner_identity"`
	Status        string `json:"status"`
}

// POST /api/participants
// body: { "name": "...", "owner_identity": "...", "status": "Active" | "Inactive" }
// owner_identity defaults to the caller.
func (h *ParticipantHandler) CreateParticipant(c *gin.Context) {
	var req participantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	entry, err := h.participants.CreateParticipant(c.Request.Context(), req.Name, req.OwnerIdentity, req.Status)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, entry)
}

// GET /api/participants/:address
func (h *ParticipantHandler) GetParticipant(c *gin.Context) {
	entry, err := h.participants.GetParticipant(c.Request.Context(), addressParam(c))
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, entry)
}

// PUT /api/participants/:address
func (h *ParticipantHandler) UpdateParticipant(c *gin.Context) {
	var req participantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	entry, err := h.participants.UpdateParticipant(c.Request.Context(), addressParam(c), req.Name, req.OwnerIdentity, req.Status)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, entry)
}

// DELETE /api/participants/:address
func (h *ParticipantHandler) DeleteParticipant(c *gin.Context) {
	if err := h.participants.DeleteParticipant(c.Request.Context(), addressParam(c)); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
