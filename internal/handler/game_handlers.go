package handler

import (
	"errors"
	"net/http"

	"survival-server/internal/middleware"
	"survival-server/internal/models"
	"survival-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *GameHandler) getSession(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeUnauthorized, Message: err.Error()})
		return
	}

	snapshot, err := h.gameService.GetSessionSnapshot(c.Request.Context(), userID)
	if err != nil {
		if !errors.Is(err, models.ErrSessionNotFound) {
			h.logger.Error("Error getting session snapshot", zap.Int64("userID", userID), zap.Error(err))
		}
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (h *GameHandler) createOrResetSession(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeUnauthorized, Message: err.Error()})
		return
	}

	h.logger.Info("Creating or resetting game session", zap.Int64("userID", userID))

	snapshot, err := h.gameService.CreateOrResetSession(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Error creating session", zap.Int64("userID", userID), zap.Error(err))
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, snapshot)
}

func (h *GameHandler) listCharacterGroups(c *gin.Context) {
	groups, err := h.gameService.ListCharacterGroups(c.Request.Context())
	if err != nil {
		h.logger.Error("Error listing character groups", zap.Error(err))
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

type selectCharacterSetRequest struct {
	CharacterGroupID int64 `json:"characterGroupId" binding:"required"`
}

func (h *GameHandler) selectCharacterSet(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeUnauthorized, Message: err.Error()})
		return
	}

	var req selectCharacterSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: "Invalid request body: " + err.Error()})
		return
	}

	snapshot, err := h.gameService.SelectCharacterSet(c.Request.Context(), userID, req.CharacterGroupID)
	if err != nil {
		if !errors.Is(err, models.ErrSessionNotFound) &&
			!errors.Is(err, models.ErrNotFound) &&
			!errors.Is(err, models.ErrCharacterGroupEmpty) {
			h.logger.Error("Error selecting character set", zap.Int64("userID", userID), zap.Int64("groupID", req.CharacterGroupID), zap.Error(err))
		}
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (h *GameHandler) getSetupInfo(c *gin.Context) {
	info, err := h.gameService.GetSetupInfo(c.Request.Context())
	if err != nil {
		h.logger.Error("Error getting setup info", zap.Error(err))
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

func (h *GameHandler) confirmInventory(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeUnauthorized, Message: err.Error()})
		return
	}

	var req service.ConfirmInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: "Invalid request body: " + err.Error()})
		return
	}

	snapshot, err := h.gameService.ConfirmInventory(c.Request.Context(), userID, &req)
	if err != nil {
		if !errors.Is(err, models.ErrSessionNotFound) && !errors.Is(err, models.ErrBagNotFound) {
			h.logger.Error("Error confirming inventory", zap.Int64("userID", userID), zap.Int64("bagID", req.BagID), zap.Error(err))
		}
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
