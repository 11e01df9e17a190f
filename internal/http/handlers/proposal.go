package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/collective-backend/internal/http/response"
	"github.com/yungbote/collective-backend/internal/services"
)

type ProposalHandler struct {
	proposals services.ProposalService
}

func NewProposalHandler(proposals services.ProposalService) *ProposalHandler {
	return &ProposalHandler{proposals: proposals}
}

// POST /api/proposals
// body: { "name": "...", "content": "..." }
func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	var req struct {
		Name    string `json:"name"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	entry, err := h.proposals.CreateProposal(c.Request.Context(), req.Name, req.Content)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, entry)
}

// GET /api/proposals/:address
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	entry, err := h.proposals.GetProposal(c.Request.Context(), addressParam(c))
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, entry)
}
