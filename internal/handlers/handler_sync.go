package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hearthfin/hearth_finance_app/internal/apperrors"
	portssvc "github.com/hearthfin/hearth_finance_app/internal/core/ports/services"
	"github.com/hearthfin/hearth_finance_app/internal/dto"
	"github.com/hearthfin/hearth_finance_app/internal/middleware"
)

// syncHandler handles HTTP requests for the device synchronization engine.
type syncHandler struct {
	syncService portssvc.SyncSvcFacade
}

func newSyncHandler(ss portssvc.SyncSvcFacade) *syncHandler {
	return &syncHandler{syncService: ss}
}

// registerSyncRoutes registers pull/push routes on the rate-limited sync group.
func registerSyncRoutes(rg *gin.RouterGroup, syncService portssvc.SyncSvcFacade) {
	h := newSyncHandler(syncService)

	rg.GET("/pull", h.pull)
	rg.POST("/push", h.push)
}

// pull godoc
// @Summary Pull changes since a cursor
// @Description Returns every entity changed after the given cursor plus a new cursor. Omit the cursor for a full initial pull.
// @Tags sync
// @Produce json
// @Param cursor query string false "Cursor from a previous pull"
// @Success 200 {object} dto.PullResponse
// @Failure 400 {object} map[string]string "Malformed cursor"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to pull changes"
// @Security BearerAuth
// @Router /sync/pull [get]
func (h *syncHandler) pull(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.PullParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	cs, err := h.syncService.Pull(c.Request.Context(), params.Cursor)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Pull rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to pull changes", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to pull changes"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPullResponse(cs))
}

// push godoc
// @Summary Push a batch of mutations
// @Description Applies an ordered batch of device mutations. Stale mutations come back as conflicts; when any conflict occurs the response status is 409 and the applied mutations still stand.
// @Tags sync
// @Accept json
// @Produce json
// @Param batch body dto.PushRequest true "Ordered mutation batch"
// @Success 200 {object} dto.PushResponse
// @Failure 400 {object} map[string]string "Malformed batch"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} dto.PushResponse "Batch applied with conflicts"
// @Failure 500 {object} map[string]string "Failed to apply batch"
// @Security BearerAuth
// @Router /sync/push [post]
func (h *syncHandler) push(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for push", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.syncService.Push(c.Request.Context(), actor, req.ToDomainMutations())
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Push rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to apply push batch", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply batch"})
		}
		return
	}

	status := http.StatusOK
	if len(result.Conflicts) > 0 {
		status = http.StatusConflict
	}
	c.JSON(status, dto.ToPushResponse(result))
}
