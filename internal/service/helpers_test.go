package service_test

import (
	"time"

	"survival-server/internal/models"
)

func intPtr(v int) *int              { return &v }
func int64Ptr(v int64) *int64        { return &v }
func strPtr(v string) *string        { return &v }
func boolPtr(v bool) *bool           { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func testTime() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

// newTestState builds a ready-to-play session aggregate: group attached,
// character set selected, bag confirmed, two cast members alive.
func newTestState() *models.SessionState {
	now := testTime()
	groupID := int64(1)
	return &models.SessionState{
		Session: models.GameSession{
			ID:               100,
			UserID:           7,
			BagID:            1,
			Status:           models.SessionStatusInProgress,
			LifePoint:        intPtr(10),
			CharacterGroupID: &groupID,
			BagConfirmedAt:   &now,
		},
		CharacterSet: &models.PlayingCharacterSet{
			ID:               50,
			GameSessionID:    100,
			CharacterGroupID: groupID,
		},
		Characters: []*models.PlayingCharacter{
			{
				ID:            501,
				CharacterID:   11,
				CurrentHP:     intPtr(80),
				CurrentMental: intPtr(70),
				Character:     models.Character{ID: 11, Code: "JIWON", Name: "Jiwon"},
			},
			{
				ID:            502,
				CharacterID:   12,
				CurrentHP:     intPtr(60),
				CurrentMental: intPtr(55),
				Character:     models.Character{ID: 12, Code: "MINSU", Name: "Minsu"},
			},
		},
		Inventory: []*models.InventoryRecord{
			{
				SessionID: 100,
				ItemID:    99,
				Quantity:  4,
				Item:      models.Item{ID: 99, Name: "Canned Food", CapacityCost: 2, CategoryIDs: []int64{3}},
			},
		},
		CharacterGroup: &models.CharacterGroup{ID: groupID, Code: "SQUAD_A", Name: "Squad A"},
	}
}
