package mocks

import (
	"context"

	"survival-server/internal/interfaces"
	"survival-server/internal/models"

	"github.com/stretchr/testify/mock"
)

// Mock ContentRepository
type ContentRepository struct {
	mock.Mock
}

var _ interfaces.ContentRepository = (*ContentRepository)(nil)

func (m *ContentRepository) GetActWithEvents(ctx context.Context, querier interfaces.DBTX, actID int64) (*models.ActWithEvents, error) {
	args := m.Called(ctx, querier, actID)
	var act *models.ActWithEvents
	if args.Get(0) != nil {
		act = args.Get(0).(*models.ActWithEvents)
	}
	return act, args.Error(1)
}

func (m *ContentRepository) GetAct(ctx context.Context, querier interfaces.DBTX, actID int64) (*models.Act, error) {
	args := m.Called(ctx, querier, actID)
	var act *models.Act
	if args.Get(0) != nil {
		act = args.Get(0).(*models.Act)
	}
	return act, args.Error(1)
}

func (m *ContentRepository) GetDay(ctx context.Context, querier interfaces.DBTX, dayID int64) (*models.Day, error) {
	args := m.Called(ctx, querier, dayID)
	var day *models.Day
	if args.Get(0) != nil {
		day = args.Get(0).(*models.Day)
	}
	return day, args.Error(1)
}

func (m *ContentRepository) FindFirstUnlockedAct(ctx context.Context, querier interfaces.DBTX, characterGroupID int64, ownedItemIDs []int64) (*models.ActRef, error) {
	args := m.Called(ctx, querier, characterGroupID, ownedItemIDs)
	var ref *models.ActRef
	if args.Get(0) != nil {
		ref = args.Get(0).(*models.ActRef)
	}
	return ref, args.Error(1)
}

func (m *ContentRepository) FindNextUnlockedActInDay(ctx context.Context, querier interfaces.DBTX, dayID int64, afterSequence int, ownedItemIDs []int64) (*models.ActRef, error) {
	args := m.Called(ctx, querier, dayID, afterSequence, ownedItemIDs)
	var ref *models.ActRef
	if args.Get(0) != nil {
		ref = args.Get(0).(*models.ActRef)
	}
	return ref, args.Error(1)
}

func (m *ContentRepository) FindNextDayAct(ctx context.Context, querier interfaces.DBTX, characterGroupID int64, afterDayNumber int, ownedItemIDs []int64) (*models.ActRef, error) {
	args := m.Called(ctx, querier, characterGroupID, afterDayNumber, ownedItemIDs)
	var ref *models.ActRef
	if args.Get(0) != nil {
		ref = args.Get(0).(*models.ActRef)
	}
	return ref, args.Error(1)
}

func (m *ContentRepository) GetEventWithRelations(ctx context.Context, querier interfaces.DBTX, eventID int64) (*models.EventWithRelations, error) {
	args := m.Called(ctx, querier, eventID)
	var event *models.EventWithRelations
	if args.Get(0) != nil {
		event = args.Get(0).(*models.EventWithRelations)
	}
	return event, args.Error(1)
}

func (m *ContentRepository) GetChoiceOption(ctx context.Context, querier interfaces.DBTX, choiceOptionID int64) (*models.ChoiceOption, error) {
	args := m.Called(ctx, querier, choiceOptionID)
	var option *models.ChoiceOption
	if args.Get(0) != nil {
		option = args.Get(0).(*models.ChoiceOption)
	}
	return option, args.Error(1)
}

func (m *ContentRepository) ListOptionEventChains(ctx context.Context, querier interfaces.DBTX, choiceOptionIDs []int64) (map[int64][]*models.EventWithRelations, error) {
	args := m.Called(ctx, querier, choiceOptionIDs)
	var chains map[int64][]*models.EventWithRelations
	if args.Get(0) != nil {
		chains = args.Get(0).(map[int64][]*models.EventWithRelations)
	}
	return chains, args.Error(1)
}

func (m *ContentRepository) ListEndings(ctx context.Context, querier interfaces.DBTX, characterGroupID int64) ([]*models.EndingWithRelations, error) {
	args := m.Called(ctx, querier, characterGroupID)
	var endings []*models.EndingWithRelations
	if args.Get(0) != nil {
		endings = args.Get(0).([]*models.EndingWithRelations)
	}
	return endings, args.Error(1)
}

func (m *ContentRepository) GetEndingByPriority(ctx context.Context, querier interfaces.DBTX, characterGroupID int64, priority int) (*models.EndingWithRelations, error) {
	args := m.Called(ctx, querier, characterGroupID, priority)
	var ending *models.EndingWithRelations
	if args.Get(0) != nil {
		ending = args.Get(0).(*models.EndingWithRelations)
	}
	return ending, args.Error(1)
}

func (m *ContentRepository) ListIntroEvents(ctx context.Context, querier interfaces.DBTX, characterGroupID int64, introMode int) ([]*models.EventWithRelations, error) {
	args := m.Called(ctx, querier, characterGroupID, introMode)
	var events []*models.EventWithRelations
	if args.Get(0) != nil {
		events = args.Get(0).([]*models.EventWithRelations)
	}
	return events, args.Error(1)
}

func (m *ContentRepository) ListCharacterGroups(ctx context.Context, querier interfaces.DBTX) ([]*models.CharacterGroup, error) {
	args := m.Called(ctx, querier)
	var groups []*models.CharacterGroup
	if args.Get(0) != nil {
		groups = args.Get(0).([]*models.CharacterGroup)
	}
	return groups, args.Error(1)
}

func (m *ContentRepository) GetCharacterGroup(ctx context.Context, querier interfaces.DBTX, characterGroupID int64) (*models.CharacterGroup, error) {
	args := m.Called(ctx, querier, characterGroupID)
	var group *models.CharacterGroup
	if args.Get(0) != nil {
		group = args.Get(0).(*models.CharacterGroup)
	}
	return group, args.Error(1)
}

func (m *ContentRepository) ListGroupMembers(ctx context.Context, querier interfaces.DBTX, characterGroupID int64) ([]*models.CharacterGroupMember, error) {
	args := m.Called(ctx, querier, characterGroupID)
	var members []*models.CharacterGroupMember
	if args.Get(0) != nil {
		members = args.Get(0).([]*models.CharacterGroupMember)
	}
	return members, args.Error(1)
}

func (m *ContentRepository) ListEndingsForAllGroups(ctx context.Context, querier interfaces.DBTX) (map[int64][]*models.Ending, error) {
	args := m.Called(ctx, querier)
	var endings map[int64][]*models.Ending
	if args.Get(0) != nil {
		endings = args.Get(0).(map[int64][]*models.Ending)
	}
	return endings, args.Error(1)
}

func (m *ContentRepository) ListBags(ctx context.Context, querier interfaces.DBTX) ([]*models.Bag, error) {
	args := m.Called(ctx, querier)
	var bags []*models.Bag
	if args.Get(0) != nil {
		bags = args.Get(0).([]*models.Bag)
	}
	return bags, args.Error(1)
}

func (m *ContentRepository) GetFirstBag(ctx context.Context, querier interfaces.DBTX) (*models.Bag, error) {
	args := m.Called(ctx, querier)
	var bag *models.Bag
	if args.Get(0) != nil {
		bag = args.Get(0).(*models.Bag)
	}
	return bag, args.Error(1)
}

func (m *ContentRepository) ListStoreSections(ctx context.Context, querier interfaces.DBTX) ([]*models.StoreSection, error) {
	args := m.Called(ctx, querier)
	var sections []*models.StoreSection
	if args.Get(0) != nil {
		sections = args.Get(0).([]*models.StoreSection)
	}
	return sections, args.Error(1)
}

func (m *ContentRepository) GetItem(ctx context.Context, querier interfaces.DBTX, itemID int64) (*models.Item, error) {
	args := m.Called(ctx, querier, itemID)
	var item *models.Item
	if args.Get(0) != nil {
		item = args.Get(0).(*models.Item)
	}
	return item, args.Error(1)
}

func (m *ContentRepository) ListCharacterEmotionImages(ctx context.Context, querier interfaces.DBTX) ([]*models.CharacterEmotionImage, error) {
	args := m.Called(ctx, querier)
	var images []*models.CharacterEmotionImage
	if args.Get(0) != nil {
		images = args.Get(0).([]*models.CharacterEmotionImage)
	}
	return images, args.Error(1)
}
