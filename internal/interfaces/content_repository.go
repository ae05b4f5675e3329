package interfaces

import (
	"context"

	"survival-server/internal/models"
)

// ContentRepository is read-only access to the authored story catalog.
//
//go:generate mockery --name ContentRepository --output ./mocks --outpkg mocks --case=underscore
type ContentRepository interface {
	// GetActWithEvents loads an act with its day and ordered events
	// (variant payloads and choice options included).
	GetActWithEvents(ctx context.Context, querier DBTX, actID int64) (*models.ActWithEvents, error)

	// GetAct loads the bare act row. Returns models.ErrActNotFound.
	GetAct(ctx context.Context, querier DBTX, actID int64) (*models.Act, error)

	// GetDay loads a day row.
	GetDay(ctx context.Context, querier DBTX, dayID int64) (*models.Day, error)

	// FindFirstUnlockedAct returns the first unlocked act for the group in
	// (day number, sequence) order. Returns models.ErrNotFound if none.
	FindFirstUnlockedAct(ctx context.Context, querier DBTX, characterGroupID int64, ownedItemIDs []int64) (*models.ActRef, error)

	// FindNextUnlockedActInDay returns the next unlocked act after the
	// given sequence within one day. Returns models.ErrNotFound if none.
	FindNextUnlockedActInDay(ctx context.Context, querier DBTX, dayID int64, afterSequence int, ownedItemIDs []int64) (*models.ActRef, error)

	// FindNextDayAct returns the first unlocked act of the next day (by
	// ascending day number) that has one. Returns models.ErrNotFound.
	FindNextDayAct(ctx context.Context, querier DBTX, characterGroupID int64, afterDayNumber int, ownedItemIDs []int64) (*models.ActRef, error)

	// GetEventWithRelations loads one event with its variant payload.
	GetEventWithRelations(ctx context.Context, querier DBTX, eventID int64) (*models.EventWithRelations, error)

	// GetChoiceOption loads a choice option together with the act id of
	// its owning choice event. Returns models.ErrNotFound.
	GetChoiceOption(ctx context.Context, querier DBTX, choiceOptionID int64) (*models.ChoiceOption, error)

	// ListOptionEventChains loads the precomputed consequence chains for
	// the given options, ordered by seq_order, keyed by option id. Options
	// without a chain are absent from the map.
	ListOptionEventChains(ctx context.Context, querier DBTX, choiceOptionIDs []int64) (map[int64][]*models.EventWithRelations, error)

	// ListEndings returns the group's endings with conditions and ordered
	// consequence events, ascending priority.
	ListEndings(ctx context.Context, querier DBTX, characterGroupID int64) ([]*models.EndingWithRelations, error)

	// GetEndingByPriority returns the group ending with the exact
	// priority, with its consequence events. Returns models.ErrNotFound.
	GetEndingByPriority(ctx context.Context, querier DBTX, characterGroupID int64, priority int) (*models.EndingWithRelations, error)

	// ListIntroEvents returns the ordered intro sequence events for a
	// group and intro mode. Empty slice when the sequence doesn't exist.
	ListIntroEvents(ctx context.Context, querier DBTX, characterGroupID int64, introMode int) ([]*models.EventWithRelations, error)

	// ListCharacterGroups lists all playable groups.
	ListCharacterGroups(ctx context.Context, querier DBTX) ([]*models.CharacterGroup, error)

	// GetCharacterGroup loads one group. Returns models.ErrNotFound.
	GetCharacterGroup(ctx context.Context, querier DBTX, characterGroupID int64) (*models.CharacterGroup, error)

	// ListGroupMembers lists a group's members with character definitions,
	// slot order ascending.
	ListGroupMembers(ctx context.Context, querier DBTX, characterGroupID int64) ([]*models.CharacterGroupMember, error)

	// ListEndingsForAllGroups returns every group's endings ordered by
	// priority (for the collection screen), keyed by group.
	ListEndingsForAllGroups(ctx context.Context, querier DBTX) (map[int64][]*models.Ending, error)

	// ListBags lists all bags.
	ListBags(ctx context.Context, querier DBTX) ([]*models.Bag, error)

	// GetFirstBag returns the default bag. Returns models.ErrBagNotFound.
	GetFirstBag(ctx context.Context, querier DBTX) (*models.Bag, error)

	// ListStoreSections lists store sections with their items.
	ListStoreSections(ctx context.Context, querier DBTX) ([]*models.StoreSection, error)

	// GetItem loads one item (capacity cost, categories).
	GetItem(ctx context.Context, querier DBTX, itemID int64) (*models.Item, error)

	// ListCharacterEmotionImages lists non-deleted emotion image rows.
	ListCharacterEmotionImages(ctx context.Context, querier DBTX) ([]*models.CharacterEmotionImage, error)
}
