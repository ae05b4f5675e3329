package service_test

import (
	"testing"

	"survival-server/internal/models"
	"survival-server/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestDetermineNextStatus(t *testing.T) {
	continueCode := models.ChoiceResultContinue
	dayEnd := models.ChoiceResultDayEnd
	gameEnd := models.ChoiceResultGameEnd
	gameOver := models.ChoiceResultGameOver

	tests := []struct {
		name     string
		current  models.SessionStatus
		result   *models.ChoiceResultCode
		expected models.SessionStatus
	}{
		{"nil result keeps current status", models.SessionStatusInProgress, nil, models.SessionStatusInProgress},
		{"continue stays in progress", models.SessionStatusInProgress, &continueCode, models.SessionStatusInProgress},
		{"day end", models.SessionStatusInProgress, &dayEnd, models.SessionStatusDayEnd},
		{"game end", models.SessionStatusInProgress, &gameEnd, models.SessionStatusGameEnd},
		{"game over", models.SessionStatusInProgress, &gameOver, models.SessionStatusGameOver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, service.DetermineNextStatus(tt.current, tt.result))
		})
	}
}
