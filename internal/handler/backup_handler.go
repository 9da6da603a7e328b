package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/centavoapp/centavo/centavo-backend/internal/middleware"
	"github.com/centavoapp/centavo/centavo-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// maxBackupSize caps the accepted import payload
const maxBackupSize = 10 << 20 // 10 MiB

// BackupHandler handles backup export and import HTTP requests
type BackupHandler struct {
	backupService *service.BackupService
}

// NewBackupHandler creates a new BackupHandler
func NewBackupHandler(backupService *service.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// ExportBackup godoc
// @Summary Export a backup
// @Description Download the full ledger as a versioned JSON document
// @Tags backup
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.BackupDocument
// @Failure 401 {object} ProblemDetails
// @Router /backup/export [get]
func (h *BackupHandler) ExportBackup(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	doc := h.backupService.Export(userID, time.Now().UTC())
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="centavo-backup.json"`)
	return c.JSON(http.StatusOK, doc)
}

// ImportBackup godoc
// @Summary Import a backup
// @Description Replace the ledger with a backup document. Accepts both the
// versioned format and the legacy flat export.
// @Tags backup
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 204
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /backup/import [post]
func (h *BackupHandler) ImportBackup(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBackupSize+1))
	if err != nil {
		return NewValidationError(c, "Failed to read request body", nil)
	}
	if len(body) > maxBackupSize {
		return NewValidationError(c, "Backup too large", nil)
	}

	if err := h.backupService.Import(userID, body, time.Now().UTC()); err != nil {
		if errors.Is(err, domain.ErrInvalidBackupFormat) {
			return NewValidationError(c, "Unrecognized backup format", nil)
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to import backup")
		return NewInternalError(c, "Failed to import backup")
	}

	return c.NoContent(http.StatusNoContent)
}

// ResetLedger godoc
// @Summary Reset all data
// @Description Permanently delete every income, expense, installment, and category
// @Tags backup
// @Produce json
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} ProblemDetails
// @Router /backup/reset [post]
func (h *BackupHandler) ResetLedger(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if err := h.backupService.Reset(userID); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to reset ledger")
		return NewInternalError(c, "Failed to reset ledger")
	}

	return c.NoContent(http.StatusNoContent)
}
