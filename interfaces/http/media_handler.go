package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"artist-hub/domain/dto"
	"artist-hub/domain/model"
	"artist-hub/infrastructure/logger"
	"artist-hub/usecase"
)

type IMediaHandler interface {
	Sync(ctx *gin.Context)
	ListCatalog(ctx *gin.Context)
	Status(ctx *gin.Context)
}

type mediaHandler struct {
	syncUseCase   usecase.ISyncUseCase
	statusUseCase usecase.IStatusUseCase
}

func NewMediaHandler(syncUseCase usecase.ISyncUseCase, statusUseCase usecase.IStatusUseCase) IMediaHandler {
	return &mediaHandler{syncUseCase: syncUseCase, statusUseCase: statusUseCase}
}

// Sync triggers a reconciliation run for one platform.
func (h *mediaHandler) Sync(c *gin.Context) {
	platform := model.Platform(c.Param("platform"))
	if !platform.Known() {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown platform"})
		return
	}
	ownerID := c.GetString("user_id")
	if ownerID == "" {
		c.JSON(http.StatusUnauthorized, dto.Res{ResponseCode: "401", ResponseMessage: "Unauthorized"})
		return
	}

	run, err := h.syncUseCase.SyncMedia(c.Request.Context(), ownerID, platform)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotConnected):
			c.JSON(http.StatusOK, dto.SyncResult{Success: false, Message: string(platform) + " account not connected"})
		case errors.Is(err, usecase.ErrReconnectRequired):
			c.JSON(http.StatusOK, dto.SyncResult{Success: false, Message: "access token expired, please reconnect " + string(platform)})
		case errors.Is(err, model.ErrRemoteFetchFailed):
			c.JSON(http.StatusBadGateway, dto.SyncResult{Success: false, Message: "fetching the remote catalog failed"})
		default:
			logger.GetLogger().WithField("error", err).Error("sync failed")
			c.JSON(http.StatusInternalServerError, dto.SyncResult{Success: false, Message: "sync failed"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.SyncResult{
		Success: true,
		Message: "catalog synced",
		Synced:  run.Created,
		Skipped: run.Updated,
		Total:   run.Total,
	})
}

// ListCatalog serves the locally synced catalog.
func (h *mediaHandler) ListCatalog(c *gin.Context) {
	ownerID := c.GetString("user_id")
	if ownerID == "" {
		c.JSON(http.StatusUnauthorized, dto.Res{ResponseCode: "401", ResponseMessage: "Unauthorized"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "25"))
	req := dto.CatalogListRequest{
		Filter:   c.DefaultQuery("filter", "all"),
		Page:     page,
		PageSize: pageSize,
	}

	result, err := h.statusUseCase.ListCatalog(c.Request.Context(), ownerID, req)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("catalog read failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog read failed"})
		return
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "OK", Data: result})
}

// Status projects connection state and media counts for the owner.
func (h *mediaHandler) Status(c *gin.Context) {
	ownerID := c.GetString("user_id")
	if ownerID == "" {
		c.JSON(http.StatusUnauthorized, dto.Res{ResponseCode: "401", ResponseMessage: "Unauthorized"})
		return
	}

	status, err := h.statusUseCase.GetStatus(c.Request.Context(), ownerID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("status projection failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "status read failed"})
		return
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "OK", Data: status})
}
