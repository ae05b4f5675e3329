package models

import "time"

// EventType discriminates the four authored event shapes. Choice events come
// in two flavors (story vs item) but share the same variant payload.
type EventType string

const (
	EventTypeDialog      EventType = "Dialog"
	EventTypeStoryChoice EventType = "StoryChoice"
	EventTypeItemChoice  EventType = "ItemChoice"
	EventTypeStatus      EventType = "Status"
	EventTypeSimpleText  EventType = "SimpleText"
)

// ChoiceResultCode is the authored outcome of a choice option.
type ChoiceResultCode string

const (
	ChoiceResultContinue ChoiceResultCode = "CONTINUE"
	ChoiceResultDayEnd   ChoiceResultCode = "DAY_END"
	ChoiceResultGameEnd  ChoiceResultCode = "GAME_END"
	ChoiceResultGameOver ChoiceResultCode = "GAME_OVER"
)

// ChoiceOptionType distinguishes regular options from the always-selectable
// skip option on item choices.
type ChoiceOptionType string

const (
	ChoiceOptionTypeNormal ChoiceOptionType = "NORMAL"
	ChoiceOptionTypeSkip   ChoiceOptionType = "SKIP"
)

// EndingConditionType is the kind of a single unlock clause.
type EndingConditionType string

const (
	EndingConditionCharacterStat EndingConditionType = "CHARACTER_STAT"
	EndingConditionItem          EndingConditionType = "ITEM"
	EndingConditionSessionStat   EndingConditionType = "SESSION_STAT"
)

// Stat names used by ending conditions and delta history.
const (
	StatHP        = "HP"
	StatMental    = "MENTAL"
	StatLifePoint = "LIFE_POINT"
)

// CharacterGroup is a playable cast with its own days, acts and endings.
type CharacterGroup struct {
	ID               int64   `db:"id" json:"id"`
	Code             string  `db:"code" json:"code"`
	Name             string  `db:"name" json:"name"`
	GroupSelectImage *string `db:"group_select_image" json:"groupSelectImage"`
	Description      *string `db:"description" json:"description"`
	// DeathEndingIndex matches the priority of the group's sudden-death
	// ending; nil when the group defines none.
	DeathEndingIndex *int `db:"death_ending_index" json:"deathEndingIndex"`
}

// Character is a static cast member definition.
type Character struct {
	ID            int64   `db:"id" json:"id"`
	Code          string  `db:"code" json:"code"`
	Name          string  `db:"name" json:"name"`
	Age           *int    `db:"age" json:"age"`
	Description   *string `db:"description" json:"description"`
	SelectImage   *string `db:"select_image" json:"selectImage"`
	PortraitImage *string `db:"portrait_image" json:"portraitImage"`
	DefaultHP     int     `db:"default_hp" json:"defaultHp"`
	DefaultMental int     `db:"default_mental" json:"defaultMental"`
}

// CharacterGroupMember links a character into a group with a display slot.
type CharacterGroupMember struct {
	CharacterGroupID int64 `db:"character_group_id" json:"characterGroupId"`
	CharacterID      int64 `db:"character_id" json:"characterId"`
	SlotOrder        int   `db:"slot_order" json:"slotOrder"`

	Character Character `db:"-" json:"character"`
}

// Day groups acts by day number for a character group.
type Day struct {
	ID               int64 `db:"id" json:"id"`
	CharacterGroupID int64 `db:"character_group_id" json:"characterGroupId"`
	DayNumber        int   `db:"day_number" json:"dayNumber"`
}

// Act is the smallest story unit. TriggerItemID, when set, gates the act:
// it is unlocked only while the session holds that item.
type Act struct {
	ID             int64   `db:"id" json:"id"`
	DayID          int64   `db:"day_id" json:"dayId"`
	SequenceNumber int     `db:"sequence_number" json:"sequenceNumber"`
	Title          *string `db:"title" json:"title"`
	TriggerItemID  *int64  `db:"trigger_item_id" json:"triggerItemId"`
}

// Unlocked reports whether the act is currently reachable given the owned
// item ids. Re-evaluated on every visit: losing the trigger item re-locks.
func (a *Act) Unlocked(ownedItemIDs []int64) bool {
	if a.TriggerItemID == nil {
		return true
	}
	for _, id := range ownedItemIDs {
		if id == *a.TriggerItemID {
			return true
		}
	}
	return false
}

// ActRef is a lightweight pointer to an act used for session advancement.
type ActRef struct {
	ID    int64 `db:"id"`
	DayID int64 `db:"day_id"`
}

// Event is the shared head of all authored events. Exactly one of the
// variant payloads on EventWithRelations is populated, matching Type.
type Event struct {
	ID          int64     `db:"id" json:"id"`
	Type        EventType `db:"event_type" json:"type"`
	BgImage     *string   `db:"bg_image" json:"bgImage"`
	SceneEffect *string   `db:"scene_effect" json:"sceneEffect"`
	BGM         *string   `db:"bgm" json:"bgm"`
	BGMVolume   *int      `db:"bgm_volume" json:"bgmVolume"`
	SE          *string   `db:"se" json:"se"`
	SEVolume    *int      `db:"se_volume" json:"seVolume"`
	SELoop      *bool     `db:"se_loop" json:"seLoop"`
	NextEventID *int64    `db:"next_event_id" json:"nextEventId"`
}

// EventDialog carries spoken script plus staged characters.
type EventDialog struct {
	Script     string            `json:"script"`
	Characters []DialogCharacter `json:"characters"`
}

// DialogCharacter is one staged character of a dialog event.
type DialogCharacter struct {
	CharacterCode string  `json:"characterCode"`
	Position      *string `json:"position"`
	Emotion       *string `json:"emotion"`
	IsSpeaker     *bool   `json:"isSpeaker"`
}

// EventChoice is the presentation payload of a choice event; options live on
// EventWithRelations.Options.
type EventChoice struct {
	Title     string  `json:"title"`
	Script    *string `json:"script"`
	Thumbnail *string `json:"thumbnail"`
}

// StatusEffect is one stat delta row of a status event. CharacterID nil
// means the effect targets the session rather than a character.
type StatusEffect struct {
	CharacterID   *int64  `json:"characterId"`
	CharacterCode *string `json:"characterCode"`
	EffectType    string  `json:"effectType"`
	EffectValue   *int    `json:"effectValue"`
}

// EventStatus carries stat effects and an optional granted item.
type EventStatus struct {
	Effects []StatusEffect `json:"effects"`
	Item    *Item          `json:"item"`
}

// EventSimpleText is plain narration.
type EventSimpleText struct {
	Script string `json:"script"`
}

// EventWithRelations is an event with its variant payload and, for choice
// events, the ordered option list.
type EventWithRelations struct {
	Event
	Dialog     *EventDialog     `json:"dialog,omitempty"`
	Choice     *EventChoice     `json:"choice,omitempty"`
	Status     *EventStatus     `json:"status,omitempty"`
	SimpleText *EventSimpleText `json:"simpleText,omitempty"`
	Options    []*ChoiceOption  `json:"options,omitempty"`
}

// IsChoice reports whether the event carries selectable options.
func (e *EventWithRelations) IsChoice() bool {
	return e.Type == EventTypeStoryChoice || e.Type == EventTypeItemChoice
}

// ChoiceOption is one selectable branch of a choice event.
type ChoiceOption struct {
	ID             int64            `db:"id" json:"id"`
	ChoiceEventID  int64            `db:"choice_event_id" json:"choiceEventId"`
	ActID          int64            `db:"act_id" json:"actId"`
	OptionOrder    int              `db:"option_order" json:"optionOrder"`
	OptionType     ChoiceOptionType `db:"option_type" json:"optionType"`
	Title          *string          `db:"title" json:"title"`
	ResultType     ChoiceResultCode `db:"result_type" json:"resultType"`
	ItemCategoryID *int64           `db:"item_category_id" json:"itemCategoryId"`
	NextActID      *int64           `db:"next_act_id" json:"nextActId"`
	NextEventID    *int64           `db:"next_event_id" json:"nextEventId"`
}

// ActWithEvents is an act joined with its day and ordered event list.
type ActWithEvents struct {
	Act
	Day    Day                   `json:"day"`
	Events []*EventWithRelations `json:"events"`
}

// Ending is a terminal narrative outcome. Conditions are ANDed; endings are
// evaluated in ascending priority order and the first satisfied one wins.
type Ending struct {
	ID               int64   `db:"id" json:"id"`
	CharacterGroupID int64   `db:"character_group_id" json:"characterGroupId"`
	Priority         int     `db:"priority" json:"priority"`
	Title            string  `db:"title" json:"title"`
	Grade            *string `db:"grade" json:"grade"`
	Image            *string `db:"image" json:"image"`
}

// EndingCondition is a single unlock clause.
type EndingCondition struct {
	ID         int64               `db:"id" json:"id"`
	EndingID   int64               `db:"ending_id" json:"endingId"`
	Type       EndingConditionType `db:"condition_type" json:"conditionType"`
	TargetID   *int64              `db:"target_id" json:"targetId"`
	StatType   *string             `db:"stat_type" json:"statType"`
	Comparison *string             `db:"comparison" json:"comparison"`
	Value      int                 `db:"value" json:"value"`
}

// EndingWithRelations bundles an ending with its conditions and ordered
// consequence events.
type EndingWithRelations struct {
	Ending
	Conditions []*EndingCondition    `json:"conditions"`
	Events     []*EventWithRelations `json:"events"`
}

// Item is a store/bag item.
type Item struct {
	ID             int64   `db:"id" json:"id"`
	Name           string  `db:"name" json:"name"`
	Image          *string `db:"image" json:"image"`
	CapacityCost   int     `db:"capacity_cost" json:"capacityCost"`
	IsConsumable   bool    `db:"is_consumable" json:"isConsumable"`
	StoreSectionID *int64  `db:"store_section_id" json:"storeSectionId"`
	IsVisible      bool    `db:"is_visible" json:"isVisible"`
	PositionX      *int    `db:"position_x" json:"positionX"`
	PositionY      *int    `db:"position_y" json:"positionY"`

	CategoryIDs []int64 `db:"-" json:"categoryIds"`
}

// Bag defines the carrying capacity the player confirms before day one.
type Bag struct {
	ID          int64   `db:"id" json:"id"`
	Code        string  `db:"code" json:"code"`
	Name        string  `db:"name" json:"name"`
	Capacity    int     `db:"capacity" json:"capacity"`
	Image       *string `db:"image" json:"image"`
	Description *string `db:"description" json:"description"`
}

// StoreSection groups items on the preparation screen.
type StoreSection struct {
	ID              int64   `db:"id" json:"id"`
	Code            string  `db:"code" json:"code"`
	DisplayName     string  `db:"display_name" json:"displayName"`
	BackgroundImage *string `db:"background_image" json:"backgroundImage"`

	Items []*Item `db:"-" json:"items"`
}

// CharacterEmotionImage maps (character code, emotion) to an image URL.
type CharacterEmotionImage struct {
	ID            int64      `db:"id" json:"id"`
	CharacterCode string     `db:"character_code" json:"characterCode"`
	Emotion       string     `db:"emotion" json:"emotion"`
	ImageURL      string     `db:"image_url" json:"imageUrl"`
	DeletedAt     *time.Time `db:"deleted_at" json:"deletedAt"`
}

// CharacterImageLookup indexes emotion image URLs by character code then
// emotion name ("default" when unset).
type CharacterImageLookup map[string]map[string]string

// Resolve returns the image for a character/emotion pair, falling back to
// the character's default image, else empty.
func (l CharacterImageLookup) Resolve(characterCode string, emotion *string) string {
	images, ok := l[characterCode]
	if !ok {
		return ""
	}
	key := "default"
	if emotion != nil && *emotion != "" {
		key = *emotion
	}
	if url, ok := images[key]; ok {
		return url
	}
	return images["default"]
}
