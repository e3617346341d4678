package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hearthfin/hearth_finance_app/internal/apperrors"
	portssvc "github.com/hearthfin/hearth_finance_app/internal/core/ports/services"
	"github.com/hearthfin/hearth_finance_app/internal/dto"
	"github.com/hearthfin/hearth_finance_app/internal/middleware"
)

// snapshotHandler handles HTTP requests for full-store backup and restore.
type snapshotHandler struct {
	snapshotService portssvc.SnapshotSvcFacade
	importTimeout   time.Duration
}

func newSnapshotHandler(ss portssvc.SnapshotSvcFacade, importTimeout time.Duration) *snapshotHandler {
	return &snapshotHandler{snapshotService: ss, importTimeout: importTimeout}
}

// registerSnapshotRoutes registers export/import routes on the sync group.
func registerSnapshotRoutes(rg *gin.RouterGroup, snapshotService portssvc.SnapshotSvcFacade, importTimeout time.Duration) {
	h := newSnapshotHandler(snapshotService, importTimeout)

	rg.GET("/export", h.export)
	rg.POST("/import", h.importSnapshot)
}

// export godoc
// @Summary Export the full store
// @Description Serializes every collection with version tokens into one self-contained snapshot.
// @Tags snapshot
// @Produce json
// @Success 200 {object} dto.SnapshotResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to export snapshot"
// @Security BearerAuth
// @Router /sync/export [get]
func (h *snapshotHandler) export(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	snap, err := h.snapshotService.Export(c.Request.Context(), actor)
	if err != nil {
		logger.Error("Failed to export snapshot", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export snapshot"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSnapshotResponse(snap))
}

// importSnapshot godoc
// @Summary Restore the store from a snapshot
// @Description Validates the snapshot and atomically replaces all current data with it, preserving IDs and version tokens.
// @Tags snapshot
// @Accept json
// @Produce json
// @Param snapshot body dto.ImportSnapshotRequest true "Previously exported snapshot"
// @Success 200 {object} dto.ImportSnapshotResponse
// @Failure 400 {object} map[string]string "Invalid snapshot"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to import snapshot"
// @Security BearerAuth
// @Router /sync/import [post]
func (h *snapshotHandler) importSnapshot(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ImportSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for snapshot import", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// A whole-store swap holds the store lock exclusively, so it must not
	// run unbounded.
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.importTimeout)
	defer cancel()

	snap := req.ToDomainSnapshot()
	if err := h.snapshotService.Import(ctx, actor, snap); err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Snapshot rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to import snapshot", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import snapshot"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ImportSnapshotResponse{
		Accounts:     len(snap.Accounts),
		Categories:   len(snap.Categories),
		Rules:        len(snap.Rules),
		Transactions: len(snap.Transactions),
	})
}
