package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-fees-ledger/internal/service"
	"github.com/noah-isme/sma-fees-ledger/pkg/response"
)

// PaymentHandler exposes payment endpoints. Payments are append-only.
type PaymentHandler struct {
	ledger *service.LedgerStore
}

// NewPaymentHandler constructs a payment handler.
func NewPaymentHandler(ledger *service.LedgerStore) *PaymentHandler {
	return &PaymentHandler{ledger: ledger}
}

// List godoc
// @Summary List payments with student names and balances
// @Tags Payments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.ledger.PaymentRows())
}

// Create godoc
// @Summary Record payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body service.PaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req service.PaymentRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	payment, err := h.ledger.RecordPayment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, payment)
}
