package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-fees-ledger/internal/service"
	"github.com/noah-isme/sma-fees-ledger/pkg/response"
)

// BillHandler exposes invoice endpoints.
type BillHandler struct {
	ledger *service.LedgerStore
}

// NewBillHandler constructs a bill handler.
func NewBillHandler(ledger *service.LedgerStore) *BillHandler {
	return &BillHandler{ledger: ledger}
}

// List godoc
// @Summary List bills with student names
// @Tags Bills
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /bills [get]
func (h *BillHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.ledger.BillRows())
}

// Create godoc
// @Summary Create bill
// @Tags Bills
// @Accept json
// @Produce json
// @Param payload body service.BillRequest true "Bill payload"
// @Success 201 {object} response.Envelope
// @Router /bills [post]
func (h *BillHandler) Create(c *gin.Context) {
	var req service.BillRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	bill, err := h.ledger.AddBill(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, bill)
}

// Update godoc
// @Summary Update bill
// @Description Replaces student, description and amount. The bill date is kept.
// @Tags Bills
// @Accept json
// @Produce json
// @Param id path int true "Bill ID"
// @Param payload body service.BillRequest true "Bill payload"
// @Success 200 {object} response.Envelope
// @Router /bills/{id} [put]
func (h *BillHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.BillRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	bill, err := h.ledger.UpdateBill(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bill)
}

// Delete godoc
// @Summary Delete bill
// @Tags Bills
// @Param id path int true "Bill ID"
// @Success 204
// @Router /bills/{id} [delete]
func (h *BillHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.ledger.DeleteBill(c.Request.Context(), id)
	response.NoContent(c)
}
