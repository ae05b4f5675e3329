package service

import (
	"time"

	"survival-server/internal/models"
)

// Client-facing result vocabulary. CONTINUE is never exposed, it maps to
// ACT_END on the wire.
const (
	ResultActEnd   = "ACT_END"
	ResultDayEnd   = "DAY_END"
	ResultGameEnd  = "GAME_END"
	ResultGameOver = "GAME_OVER"
)

// StagedCharacter is one rendered character of a dialog event.
type StagedCharacter struct {
	CharacterCode string  `json:"characterCode"`
	Position      *string `json:"position,omitempty"`
	Emotion       *string `json:"emotion,omitempty"`
	IsSpeaker     bool    `json:"isSpeaker"`
	Image         string  `json:"image,omitempty"`
}

// CharacterEffect is one character-targeted stat delta of a status event.
type CharacterEffect struct {
	CharacterID   int64   `json:"characterId"`
	CharacterCode *string `json:"characterCode,omitempty"`
	EffectType    string  `json:"effectType"`
	EffectValue   *int    `json:"effectValue,omitempty"`
}

// SessionEffect is one session-targeted stat delta of a status event.
type SessionEffect struct {
	EffectType  string `json:"effectType"`
	EffectValue *int   `json:"effectValue,omitempty"`
}

// ItemPayload describes an item granted or displayed by an event.
type ItemPayload struct {
	ItemID       int64   `json:"itemId"`
	Name         string  `json:"name"`
	Image        *string `json:"image,omitempty"`
	CapacityCost int     `json:"capacityCost"`
}

// AssembledOption is the renderer-facing view of one choice option.
type AssembledOption struct {
	ID          int64   `json:"id"`
	OptionOrder int     `json:"optionOrder"`
	OptionType  string  `json:"optionType"`
	Title       *string `json:"title,omitempty"`
	Selectable  bool    `json:"selectable"`
	// Matched inventory item for item-type options, nil otherwise.
	ItemID   *int64  `json:"itemId,omitempty"`
	ItemName *string `json:"itemName,omitempty"`
	Quantity *int    `json:"quantity,omitempty"`
}

// AssembledEvent is the uniform renderer-facing event representation.
// Exactly the fields matching the event type are populated.
type AssembledEvent struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type"`
	Script      *string `json:"script,omitempty"`
	BgImage     *string `json:"bgImage,omitempty"`
	SceneEffect *string `json:"sceneEffect,omitempty"`
	BGM         *string `json:"bgm,omitempty"`
	BGMVolume   *int    `json:"bgmVolume,omitempty"`
	SE          *string `json:"se,omitempty"`
	SEVolume    *int    `json:"seVolume,omitempty"`
	SELoop      *bool   `json:"seLoop,omitempty"`

	Characters       []StagedCharacter  `json:"characters,omitempty"`
	ChoiceTitle      *string            `json:"choiceTitle,omitempty"`
	Thumbnail        *string            `json:"thumbnail,omitempty"`
	Options          []*AssembledOption `json:"options,omitempty"`
	CharacterEffects []CharacterEffect  `json:"characterEffects,omitempty"`
	SessionEffects   []SessionEffect    `json:"sessionEffects,omitempty"`
	Item             *ItemPayload       `json:"item,omitempty"`
}

// ChoiceOutcome is the precomputed consequence of selecting one option.
type ChoiceOutcome struct {
	ResultType string            `json:"resultType"`
	Events     []*AssembledEvent `json:"events"`
}

// ChoicePayload reports the option the player selected.
type ChoicePayload struct {
	ChoiceOptionID int64  `json:"choiceOptionId" binding:"required"`
	ChosenItemID   *int64 `json:"chosenItemId"`
}

// ItemChange is one client-reported inventory delta.
type ItemChange struct {
	ItemID         int64 `json:"itemId" binding:"required"`
	QuantityChange int   `json:"quantityChange"`
}

// CharacterStatusChange is one client-reported character stat delta.
type CharacterStatusChange struct {
	CharacterCode string `json:"characterCode" binding:"required"`
	HPChange      int    `json:"hpChange"`
	MentalChange  int    `json:"mentalChange"`
}

// SessionStatChange is one client-reported session stat delta.
type SessionStatChange struct {
	StatType string `json:"statType" binding:"required"`
	Change   int    `json:"change"`
}

// ReportedUpdates batches all client-reported deltas of one advance call.
type ReportedUpdates struct {
	ItemChanges            []ItemChange            `json:"itemChanges"`
	CharacterStatusChanges []CharacterStatusChange `json:"characterStatusChanges"`
	SessionStatChanges     []SessionStatChange     `json:"sessionStatChanges"`
}

// NextActRequest drives one advance (or peek, when LastActID is nil) call.
type NextActRequest struct {
	LastActID *int64           `json:"lastActId"`
	Choice    *ChoicePayload   `json:"choice"`
	Updates   *ReportedUpdates `json:"updates"`
}

// DayMeta is the day header of an advance response.
type DayMeta struct {
	ID        int64 `json:"id"`
	DayNumber int   `json:"dayNumber"`
}

// ActMeta is the act header of an advance response.
type ActMeta struct {
	ID             int64   `json:"id"`
	SequenceNumber int     `json:"sequenceNumber"`
	Title          *string `json:"title,omitempty"`
}

// EndingMeta describes the resolved ending of a terminal response.
type EndingMeta struct {
	ID       int64   `json:"id"`
	Priority int     `json:"priority"`
	Title    string  `json:"title"`
	Grade    *string `json:"grade,omitempty"`
	Image    *string `json:"image,omitempty"`
}

// NextActResponse is the advance/peek payload.
type NextActResponse struct {
	SessionID      int64                    `json:"sessionId"`
	Status         models.SessionStatus     `json:"status"`
	Day            *DayMeta                 `json:"day,omitempty"`
	Act            *ActMeta                 `json:"act,omitempty"`
	Events         []*AssembledEvent        `json:"events"`
	ChoiceOutcomes map[int64]*ChoiceOutcome `json:"choiceOutcomes,omitempty"`
	Ending         *EndingMeta              `json:"ending,omitempty"`
}

// IntroRequest selects which authored intro sequence to play.
type IntroRequest struct {
	IntroMode int `json:"introMode"`
}

// IntroResponse is the assembled intro sequence.
type IntroResponse struct {
	SessionID int64             `json:"sessionId"`
	IntroMode int               `json:"introMode"`
	Events    []*AssembledEvent `json:"events"`
}

// CastMember is one cast member in a session snapshot.
type CastMember struct {
	ID            int64   `json:"id"`
	CharacterID   int64   `json:"characterId"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	PortraitImage *string `json:"portraitImage,omitempty"`
	CurrentHP     *int    `json:"currentHp"`
	CurrentMental *int    `json:"currentMental"`
}

// InventoryItem is one held item in a session snapshot.
type InventoryItem struct {
	ItemID       int64   `json:"itemId"`
	Name         string  `json:"name"`
	Image        *string `json:"image,omitempty"`
	CapacityCost int     `json:"capacityCost"`
	Quantity     int     `json:"quantity"`
}

// SessionSnapshot is the read-only view of the user's active session.
type SessionSnapshot struct {
	SessionID        int64                `json:"sessionId"`
	Status           models.SessionStatus `json:"status"`
	CharacterGroupID *int64               `json:"characterGroupId,omitempty"`
	BagID            int64                `json:"bagId"`
	BagCapacityUsed  int                  `json:"bagCapacityUsed"`
	BagConfirmed     bool                 `json:"bagConfirmed"`
	LifePoint        *int                 `json:"lifePoint"`
	CurrentDayID     *int64               `json:"currentDayId,omitempty"`
	CurrentActID     *int64               `json:"currentActId,omitempty"`
	Characters       []*CastMember        `json:"characters"`
	Inventory        []*InventoryItem     `json:"inventory"`
}

// CharacterGroupView is one playable group with its cast for selection.
type CharacterGroupView struct {
	ID               int64            `json:"id"`
	Code             string           `json:"code"`
	Name             string           `json:"name"`
	GroupSelectImage *string          `json:"groupSelectImage,omitempty"`
	Description      *string          `json:"description,omitempty"`
	Characters       []*CharacterView `json:"characters"`
}

// CharacterView is a static character definition for selection screens.
type CharacterView struct {
	ID            int64   `json:"id"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Age           *int    `json:"age,omitempty"`
	Description   *string `json:"description,omitempty"`
	SelectImage   *string `json:"selectImage,omitempty"`
	DefaultHP     int     `json:"defaultHp"`
	DefaultMental int     `json:"defaultMental"`
}

// SetupInfo carries everything the preparation screen needs.
type SetupInfo struct {
	Bags     []*models.Bag          `json:"bags"`
	Sections []*models.StoreSection `json:"sections"`
}

// ConfirmInventoryRequest finalizes the bag and starting inventory.
type ConfirmInventoryRequest struct {
	BagID int64        `json:"bagId" binding:"required"`
	Items []ItemChange `json:"items"`
}

// SessionReport is the post-game result screen payload.
type SessionReport struct {
	SessionID    int64                `json:"sessionId"`
	Status       models.SessionStatus `json:"status"`
	Ending       *EndingMeta          `json:"ending,omitempty"`
	LifePoint    *int                 `json:"lifePoint"`
	XP           int                  `json:"xp"`
	Characters   []*CastMember        `json:"characters"`
	ChoicesMade  int                  `json:"choicesMade"`
	ItemsGained  int                  `json:"itemsGained"`
	ItemsLost    int                  `json:"itemsLost"`
	DamageTaken  int                  `json:"damageTaken"`
	EndedAt      *time.Time           `json:"endedAt,omitempty"`
	BagName      string               `json:"bagName,omitempty"`
	BagCapacity  int                  `json:"bagCapacity,omitempty"`
	CapacityUsed int                  `json:"capacityUsed"`
}

// RankingEntry is one row of the ranking response.
type RankingEntry struct {
	UserID   int64   `json:"userId"`
	Nickname *string `json:"nickname,omitempty"`
	TotalXP  int     `json:"totalXp"`
	Ranking  int     `json:"ranking"`
	IsMe     bool    `json:"isMe"`
}

// RankingSummary is the full ranking response: the top entries, the
// caller's own score and rank, and the caller's best ending per
// character group.
type RankingSummary struct {
	Top         []*RankingEntry    `json:"top"`
	Me          *RankingEntry      `json:"me,omitempty"`
	BestEndings []*GroupBestEnding `json:"bestEndings"`
}

// GroupBestEnding is the caller's best collected ending for one
// character group. Lower priority is better.
type GroupBestEnding struct {
	CharacterGroupID int64   `json:"characterGroupId"`
	GroupName        string  `json:"groupName,omitempty"`
	EndingID         int64   `json:"endingId"`
	Priority         int     `json:"priority"`
	Title            string  `json:"title"`
	Grade            *string `json:"grade,omitempty"`
}

// EndingCollectionGroup is one group's endings with collected flags.
type EndingCollectionGroup struct {
	CharacterGroupID int64                     `json:"characterGroupId"`
	Endings          []*EndingCollectionRecord `json:"endings"`
}

// EndingCollectionRecord is one ending with its collected flag. Title and
// image are withheld until collected.
type EndingCollectionRecord struct {
	ID        int64   `json:"id"`
	Priority  int     `json:"priority"`
	Collected bool    `json:"collected"`
	Title     *string `json:"title,omitempty"`
	Grade     *string `json:"grade,omitempty"`
	Image     *string `json:"image,omitempty"`
}

// HistoryEntry is one finished session in the play history.
type HistoryEntry struct {
	SessionID   int64                `json:"sessionId"`
	Status      models.SessionStatus `json:"status"`
	EndingTitle *string              `json:"endingTitle,omitempty"`
	EndingGrade *string              `json:"endingGrade,omitempty"`
	GroupName   *string              `json:"groupName,omitempty"`
	XP          int                  `json:"xp"`
	EndedAt     *time.Time           `json:"endedAt,omitempty"`
}

// HistoryPage is one page of play history.
type HistoryPage struct {
	Entries []*HistoryEntry `json:"entries"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	Size    int             `json:"size"`
}
