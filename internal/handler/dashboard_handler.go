package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-fees-ledger/internal/dto"
	"github.com/noah-isme/sma-fees-ledger/pkg/response"
)

type totalsProvider interface {
	Totals() dto.LedgerTotals
}

// DashboardHandler serves ledger totals.
type DashboardHandler struct {
	ledger totalsProvider
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(ledger totalsProvider) *DashboardHandler {
	return &DashboardHandler{ledger: ledger}
}

// Totals godoc
// @Summary Ledger totals
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Totals(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.ledger.Totals())
}
