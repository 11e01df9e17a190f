package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/collective-backend/internal/http/response"
	"github.com/yungbote/collective-backend/internal/services"
)

type LedgerHandler struct {
	ledgers services.LedgerService
}

func NewLedgerHandler(ledgers services.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgers: ledgers}
}

// GET /api/ledgers/:address
func (h *LedgerHandler) GetLedger(c *gin.Context) {
	entry, err := h.ledgers.GetLedger(c.Request.Context(), addressParam(c))
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, entry)
}
