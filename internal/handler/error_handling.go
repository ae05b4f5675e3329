package handler

import (
	"errors"
	"net/http"

	"survival-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var errResp models.ErrorResponse

	switch {
	case errors.Is(err, models.ErrSessionNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeSessionNotFound, Message: "No active game session"}
	case errors.Is(err, models.ErrCharacterSetRequired):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Code: models.ErrCodeCharacterSetRequired, Message: "Character set must be selected first"}
	case errors.Is(err, models.ErrBagNotConfirmed):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Code: models.ErrCodeBagNotConfirmed, Message: "Inventory must be confirmed before progressing"}
	case errors.Is(err, models.ErrCharacterGroupMissing):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Code: models.ErrCodeCharacterGroupMissing, Message: "Session has no character group attached"}
	case errors.Is(err, models.ErrLastActRequired):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeLastActRequired, Message: "lastActId is required to complete an act"}
	case errors.Is(err, models.ErrNoActiveAct):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Code: models.ErrCodeNoActiveAct, Message: "Session has no active act"}
	case errors.Is(err, models.ErrActMismatch):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Code: models.ErrCodeActMismatch, Message: "Reported act does not match the session's current act"}
	case errors.Is(err, models.ErrActNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeActNotFound, Message: "Act not found"}
	case errors.Is(err, models.ErrChoiceNotFound):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeChoiceNotFound, Message: "Choice option does not belong to the current act"}
	case errors.Is(err, models.ErrNextActNotAvailable):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeNextActNotAvailable, Message: "No unlocked act available to continue"}
	case errors.Is(err, models.ErrCharacterNotFound):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeCharacterNotFound, Message: "Character not found in the playing set"}
	case errors.Is(err, models.ErrHPNotInitialized):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeHPNotInitialized, Message: "Character HP is not initialized"}
	case errors.Is(err, models.ErrMentalNotInitialized):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeMentalNotInitialized, Message: "Character mental is not initialized"}
	case errors.Is(err, models.ErrLifePointNotInitialized):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeLifePointNotInit, Message: "Session life point is not initialized"}
	case errors.Is(err, models.ErrIntroSequenceNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeIntroSequenceNotFound, Message: "Intro sequence not found for the session's group"}
	case errors.Is(err, models.ErrBagNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeBagNotFound, Message: "Bag not found"}
	case errors.Is(err, models.ErrCharacterGroupEmpty):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeCharacterGroupEmpty, Message: "Selected character group has no members"}
	case errors.Is(err, models.ErrReportNotAvailable):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Code: models.ErrCodeReportNotAvailable, Message: "Report is only available after the game has ended"}
	case errors.Is(err, models.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeValidation, Message: err.Error()}
	case errors.Is(err, models.ErrNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeNotFound, Message: "Resource not found"}
	default:
		zap.L().Error("Unhandled internal error in handleServiceError", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = models.ErrorResponse{Code: models.ErrCodeInternal, Message: "An unexpected internal error occurred"}
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}
