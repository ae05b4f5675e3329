package handler

import (
	"errors"
	"net/http"
	"strconv"

	"survival-server/internal/middleware"
	"survival-server/internal/models"
	"survival-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// playIntro returns the authored intro sequence for the session's group.
func (h *GameHandler) playIntro(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeUnauthorized, Message: err.Error()})
		return
	}

	var req service.IntroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: "Invalid request body: " + err.Error()})
		return
	}

	resp, err := h.sessionService.PlayIntro(c.Request.Context(), userID, req.IntroMode)
	if err != nil {
		if !errors.Is(err, models.ErrSessionNotFound) &&
			!errors.Is(err, models.ErrCharacterGroupMissing) &&
			!errors.Is(err, models.ErrIntroSequenceNotFound) {
			h.logger.Error("Error playing intro (unhandled)", zap.Int64("userID", userID), zap.Error(err))
		}
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// nextAct is the single progression endpoint: a request without lastActId
// peeks the current act, a request with one completes it and advances.
func (h *GameHandler) nextAct(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeUnauthorized, Message: err.Error()})
		return
	}

	var req service.NextActRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: "Invalid request body: " + err.Error()})
		return
	}

	resp, err := h.sessionService.ExecuteNextAct(c.Request.Context(), userID, &req)
	if err != nil {
		if !expectedProgressionError(err) {
			h.logger.Error("Error executing next act (unhandled)", zap.Int64("userID", userID), zap.Error(err))
		}
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func expectedProgressionError(err error) bool {
	return errors.Is(err, models.ErrSessionNotFound) ||
		errors.Is(err, models.ErrCharacterSetRequired) ||
		errors.Is(err, models.ErrBagNotConfirmed) ||
		errors.Is(err, models.ErrCharacterGroupMissing) ||
		errors.Is(err, models.ErrNoActiveAct) ||
		errors.Is(err, models.ErrActMismatch) ||
		errors.Is(err, models.ErrChoiceNotFound) ||
		errors.Is(err, models.ErrNextActNotAvailable) ||
		errors.Is(err, models.ErrCharacterNotFound)
}

func (h *GameHandler) getSessionReport(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeUnauthorized, Message: err.Error()})
		return
	}

	sessionIDStr := c.Param("sessionId")
	sessionID, err := strconv.ParseInt(sessionIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("Invalid session ID format", zap.String("sessionId", sessionIDStr))
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: "Invalid session ID format"})
		return
	}

	report, err := h.reportService.GetSessionReport(c.Request.Context(), sessionID, userID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) && !errors.Is(err, models.ErrReportNotAvailable) {
			h.logger.Error("Error getting session report", zap.Int64("userID", userID), zap.Int64("sessionID", sessionID), zap.Error(err))
		}
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *GameHandler) getRanking(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeUnauthorized, Message: err.Error()})
		return
	}

	summary, err := h.reportService.GetRanking(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Error getting ranking", zap.Int64("userID", userID), zap.Error(err))
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *GameHandler) getEndingCollection(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeUnauthorized, Message: err.Error()})
		return
	}

	groups, err := h.reportService.GetEndingCollection(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Error getting ending collection", zap.Int64("userID", userID), zap.Error(err))
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (h *GameHandler) getHistory(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeUnauthorized, Message: err.Error()})
		return
	}

	page := 1
	if pageStr := c.Query("page"); pageStr != "" {
		parsed, err := strconv.Atoi(pageStr)
		if err != nil || parsed <= 0 {
			h.logger.Warn("Invalid page parameter", zap.String("page", pageStr))
			c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: "Invalid 'page' parameter"})
			return
		}
		page = parsed
	}

	size := 20
	if sizeStr := c.Query("limit"); sizeStr != "" {
		parsed, err := strconv.Atoi(sizeStr)
		if err != nil || parsed <= 0 {
			h.logger.Warn("Invalid limit parameter", zap.String("limit", sizeStr))
			c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: "Invalid 'limit' parameter"})
			return
		}
		if parsed > 100 {
			parsed = 100
		}
		size = parsed
	}

	history, err := h.reportService.GetHistory(c.Request.Context(), userID, page, size)
	if err != nil {
		h.logger.Error("Error getting play history", zap.Int64("userID", userID), zap.Error(err))
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}
