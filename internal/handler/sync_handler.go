package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-fees-ledger/internal/dto"
	"github.com/noah-isme/sma-fees-ledger/pkg/response"
)

type mirrorStatusProvider interface {
	Status() dto.MirrorStatusResponse
}

// SyncHandler reports the remote mirror state.
type SyncHandler struct {
	mirror mirrorStatusProvider
}

// NewSyncHandler constructs a sync handler.
func NewSyncHandler(mirror mirrorStatusProvider) *SyncHandler {
	return &SyncHandler{mirror: mirror}
}

// Status godoc
// @Summary Mirror status
// @Tags Sync
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sync/status [get]
func (h *SyncHandler) Status(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.mirror.Status())
}
