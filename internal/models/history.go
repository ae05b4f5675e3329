package models

import "time"

// StatHistoryType categorizes one audit row in the stat delta history.
type StatHistoryType string

const (
	StatHistoryHP           StatHistoryType = "HP"
	StatHistoryMental       StatHistoryType = "MENTAL"
	StatHistoryLifePoint    StatHistoryType = "LIFE_POINT"
	StatHistoryItemQuantity StatHistoryType = "ITEM_QUANTITY"
)

// ChoiceHistoryRecord is an append-only audit row for one choice made.
// The engine never reads these back for decisions.
type ChoiceHistoryRecord struct {
	ID             int64     `db:"id" json:"id"`
	SessionID      int64     `db:"session_id" json:"sessionId"`
	ActID          int64     `db:"act_id" json:"actId"`
	ChoiceOptionID int64     `db:"choice_option_id" json:"choiceOptionId"`
	ItemID         *int64    `db:"item_id" json:"itemId"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// StatHistoryRecord is an append-only audit row for one applied stat delta.
// Delta records the amount actually applied, which may differ from the
// requested amount when the item quantity floor clamps it.
type StatHistoryRecord struct {
	ID                int64           `db:"id" json:"id"`
	SessionID         int64           `db:"session_id" json:"sessionId"`
	StatType          StatHistoryType `db:"stat_type" json:"statType"`
	TargetCharacterID *int64          `db:"target_character_id" json:"targetCharacterId"`
	Delta             int             `db:"delta" json:"delta"`
	CreatedAt         time.Time       `db:"created_at" json:"createdAt"`
}

// SessionEndedEvent is published when a session reaches a terminal state.
type SessionEndedEvent struct {
	SessionID int64         `json:"sessionId"`
	UserID    int64         `json:"userId"`
	Status    SessionStatus `json:"status"`
	EndingID  *int64        `json:"endingId"`
	EndedAt   time.Time     `json:"endedAt"`
}
