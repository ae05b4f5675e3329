package models

import "time"

// SessionStatus is the coarse lifecycle state of a game session.
type SessionStatus string

const (
	SessionStatusInProgress  SessionStatus = "IN_PROGRESS"
	SessionStatusDayEnd      SessionStatus = "DAY_END"
	SessionStatusGameEnd     SessionStatus = "GAME_END"
	SessionStatusGameOver    SessionStatus = "GAME_OVER"
	SessionStatusSuddenDeath SessionStatus = "SUDDEN_DEATH"
	// SessionStatusGiveUp marks a session abandoned by starting a new one.
	// Produced only by the lifecycle reset path, never by the engine.
	SessionStatusGiveUp SessionStatus = "GIVE_UP"
)

// GameSession is one play-through for a user. At most one IN_PROGRESS
// session exists per user; the lifecycle service maintains that invariant.
type GameSession struct {
	ID               int64         `db:"id" json:"id"`
	UserID           int64         `db:"user_id" json:"userId"`
	BagID            int64         `db:"bag_id" json:"bagId"`
	BagCapacityUsed  int           `db:"bag_capacity_used" json:"bagCapacityUsed"`
	BagConfirmedAt   *time.Time    `db:"bag_confirmed_at" json:"bagConfirmedAt"`
	CharacterGroupID *int64        `db:"character_group_id" json:"characterGroupId"`
	Status           SessionStatus `db:"status" json:"status"`
	LifePoint        *int          `db:"life_point" json:"lifePoint"`
	CurrentDayID     *int64        `db:"current_day_id" json:"currentDayId"`
	CurrentActID     *int64        `db:"current_act_id" json:"currentActId"`
	EndingID         *int64        `db:"ending_id" json:"endingId"`
	EndedAt          *time.Time    `db:"ended_at" json:"endedAt"`
	CreatedAt        time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time     `db:"updated_at" json:"updatedAt"`
}

// PlayingCharacterSet is the instantiated cast container for a session.
type PlayingCharacterSet struct {
	ID               int64 `db:"id" json:"id"`
	GameSessionID    int64 `db:"game_session_id" json:"gameSessionId"`
	CharacterGroupID int64 `db:"character_group_id" json:"characterGroupId"`
}

// PlayingCharacter is one cast member with mutable current stats.
// Current stats are nullable: a nil value means the character was never
// initialized and any delta against it is a data-setup bug upstream.
type PlayingCharacter struct {
	ID                    int64 `db:"id" json:"id"`
	PlayingCharacterSetID int64 `db:"playing_character_set_id" json:"playingCharacterSetId"`
	CharacterID           int64 `db:"character_id" json:"characterId"`
	CurrentHP             *int  `db:"current_hp" json:"currentHp"`
	CurrentMental         *int  `db:"current_mental" json:"currentMental"`

	Character Character `db:"-" json:"character"`
}

// InventoryRecord is a (session, item) pair with a positive quantity.
// Zero-quantity rows are deleted, never stored.
type InventoryRecord struct {
	SessionID int64 `db:"session_id" json:"sessionId"`
	ItemID    int64 `db:"item_id" json:"itemId"`
	Quantity  int   `db:"quantity" json:"quantity"`

	Item Item `db:"-" json:"item"`
}

// SessionState is the full aggregate the progression engine operates on.
type SessionState struct {
	Session        GameSession
	CharacterSet   *PlayingCharacterSet
	Characters     []*PlayingCharacter
	Inventory      []*InventoryRecord
	CharacterGroup *CharacterGroup
	CurrentDay     *Day
}

// OwnedItemIDs returns the ids of items currently held in positive quantity.
func (s *SessionState) OwnedItemIDs() []int64 {
	ids := make([]int64, 0, len(s.Inventory))
	seen := make(map[int64]struct{}, len(s.Inventory))
	for _, rec := range s.Inventory {
		if rec.Quantity <= 0 {
			continue
		}
		if _, ok := seen[rec.ItemID]; ok {
			continue
		}
		seen[rec.ItemID] = struct{}{}
		ids = append(ids, rec.ItemID)
	}
	return ids
}
