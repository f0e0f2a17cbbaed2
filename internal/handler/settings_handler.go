package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-fees-ledger/internal/middleware"
	"github.com/noah-isme/sma-fees-ledger/internal/models"
	"github.com/noah-isme/sma-fees-ledger/internal/service"
	appErrors "github.com/noah-isme/sma-fees-ledger/pkg/errors"
	"github.com/noah-isme/sma-fees-ledger/pkg/response"
)

const maxBackupSize = 32 << 20

type settingsManager interface {
	Export(role models.Role) ([]byte, error)
	Import(ctx context.Context, role models.Role, data []byte) ([]string, error)
	Clear(ctx context.Context, role models.Role) error
	PullMirror(ctx context.Context, role models.Role) ([]string, error)
}

// SettingsHandler exposes the data management surface.
type SettingsHandler struct {
	settings settingsManager
}

// NewSettingsHandler constructs a settings handler.
func NewSettingsHandler(settings settingsManager) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Export godoc
// @Summary Download backup
// @Tags Settings
// @Produce json
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /settings/export [get]
func (h *SettingsHandler) Export(c *gin.Context) {
	data, err := h.settings.Export(middleware.RoleFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, service.BackupFilename, "application/json", data)
}

// Import godoc
// @Summary Restore backup
// @Description Accepts the backup as the raw JSON body or as multipart field "file". Only the collections present are replaced.
// @Tags Settings
// @Accept json
// @Accept mpfd
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /settings/import [post]
func (h *SettingsHandler) Import(c *gin.Context) {
	data, err := readBackup(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	keys, err := h.settings.Import(c.Request.Context(), middleware.RoleFromContext(c), data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"imported": keys})
}

// Clear godoc
// @Summary Delete all data
// @Tags Settings
// @Success 204
// @Router /settings/clear [post]
func (h *SettingsHandler) Clear(c *gin.Context) {
	if err := h.settings.Clear(c.Request.Context(), middleware.RoleFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// PullMirror godoc
// @Summary Replace local data with the remote mirror copy
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /settings/mirror/pull [post]
func (h *SettingsHandler) PullMirror(c *gin.Context) {
	keys, err := h.settings.PullMirror(c.Request.Context(), middleware.RoleFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"imported": keys})
}

func readBackup(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable upload")
		}
		defer f.Close() //nolint:errcheck
		return readLimited(f)
	}
	return readLimited(c.Request.Body)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBackupSize+1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable backup")
	}
	if len(data) > maxBackupSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, "backup too large")
	}
	return data, nil
}
