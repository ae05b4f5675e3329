package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/DB Errors
	ErrNotFound = errors.New("resource not found")

	// Session readiness errors
	ErrSessionNotFound      = errors.New("no in-progress game session for user")
	ErrCharacterSetRequired = errors.New("character set must be selected first")
	ErrBagNotConfirmed      = errors.New("bag must be confirmed before progressing")
	ErrCharacterGroupMissing = errors.New("session has no character group attached")

	// Progression errors
	ErrLastActRequired     = errors.New("lastActId is required")
	ErrNoActiveAct         = errors.New("session has no active act")
	ErrActMismatch         = errors.New("reported act does not match the session's current act")
	ErrActNotFound         = errors.New("act not found")
	ErrChoiceNotFound      = errors.New("choice option not found for the current act")
	ErrNextActNotAvailable = errors.New("no unlocked act available to continue")

	// Delta application errors
	ErrCharacterNotFound       = errors.New("character not found in playing set")
	ErrHPNotInitialized        = errors.New("character HP is not initialized")
	ErrMentalNotInitialized    = errors.New("character mental is not initialized")
	ErrLifePointNotInitialized = errors.New("session life point is not initialized")

	// Intro / lifecycle / reporting errors
	ErrIntroSequenceNotFound = errors.New("intro sequence not found")
	ErrBagNotFound           = errors.New("no bag available")
	ErrCharacterGroupEmpty   = errors.New("selected character group has no members")
	ErrReportNotAvailable    = errors.New("report is only available after the game has ended")

	// General Request/Server Errors
	ErrInternalServer = errors.New("internal server error")
	ErrInvalidInput   = errors.New("invalid input data")
)

// Stable error codes surfaced to clients alongside the HTTP status.
const (
	ErrCodeSessionNotFound       = "SESSION_NOT_FOUND"
	ErrCodeCharacterSetRequired  = "CHARACTER_SET_REQUIRED"
	ErrCodeBagNotConfirmed       = "BAG_NOT_CONFIRMED"
	ErrCodeCharacterGroupMissing = "CHARACTER_GROUP_MISSING"
	ErrCodeLastActRequired       = "LAST_ACT_REQUIRED"
	ErrCodeNoActiveAct           = "NO_ACTIVE_ACT"
	ErrCodeActMismatch           = "ACT_MISMATCH"
	ErrCodeActNotFound           = "ACT_NOT_FOUND"
	ErrCodeChoiceNotFound        = "CHOICE_NOT_FOUND"
	ErrCodeNextActNotAvailable   = "NEXT_ACT_NOT_AVAILABLE"
	ErrCodeCharacterNotFound     = "CHARACTER_NOT_FOUND"
	ErrCodeHPNotInitialized      = "HP_NOT_INITIALIZED"
	ErrCodeMentalNotInitialized  = "MENTAL_NOT_INITIALIZED"
	ErrCodeLifePointNotInit      = "LIFE_POINT_NOT_INITIALIZED"
	ErrCodeIntroSequenceNotFound = "INTRO_SEQUENCE_NOT_FOUND"
	ErrCodeBagNotFound           = "BAG_NOT_FOUND"
	ErrCodeCharacterGroupEmpty   = "CHARACTER_GROUP_EMPTY"
	ErrCodeReportNotAvailable    = "REPORT_NOT_AVAILABLE"
	ErrCodeValidation            = "VALIDATION_ERROR"
	ErrCodeUnauthorized          = "UNAUTHORIZED"
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeInternal              = "INTERNAL_ERROR"
)

// ErrorResponse is the standard JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
