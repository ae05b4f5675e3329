package service

import "survival-server/internal/models"

// DetermineNextStatus maps a choice's authored result code to the session
// flow status. A nil result leaves the status unchanged. Terminal codes map
// one to one; anything else (including CONTINUE) keeps play going.
func DetermineNextStatus(current models.SessionStatus, result *models.ChoiceResultCode) models.SessionStatus {
	if result == nil {
		return current
	}
	switch *result {
	case models.ChoiceResultDayEnd:
		return models.SessionStatusDayEnd
	case models.ChoiceResultGameEnd:
		return models.SessionStatusGameEnd
	case models.ChoiceResultGameOver:
		return models.SessionStatusGameOver
	default:
		return models.SessionStatusInProgress
	}
}
