package service_test

import (
	"context"
	"testing"

	"survival-server/internal/interfaces/mocks"
	"survival-server/internal/models"
	"survival-server/internal/service"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testImages() models.CharacterImageLookup {
	return models.CharacterImageLookup{
		"JIWON": {"default": "jiwon_default.png", "angry": "jiwon_angry.png"},
	}
}

func TestAssembleEvent_ScriptPrecedence(t *testing.T) {
	assembler := service.NewEventAssembler(new(mocks.ContentRepository), zap.NewNop())

	t.Run("Dialog script wins over other payloads", func(t *testing.T) {
		ev := &models.EventWithRelations{
			Event:      models.Event{ID: 1, Type: models.EventTypeDialog},
			Dialog:     &models.EventDialog{Script: "dialog text"},
			SimpleText: &models.EventSimpleText{Script: "narration"},
		}
		out := assembler.AssembleEvent(ev, nil, nil)
		assert.Equal(t, "dialog text", *out.Script)
	})

	t.Run("Simple text script", func(t *testing.T) {
		ev := &models.EventWithRelations{
			Event:      models.Event{ID: 2, Type: models.EventTypeSimpleText},
			SimpleText: &models.EventSimpleText{Script: "narration"},
		}
		out := assembler.AssembleEvent(ev, nil, nil)
		assert.Equal(t, "narration", *out.Script)
	})

	t.Run("Choice script used when nothing else present", func(t *testing.T) {
		ev := &models.EventWithRelations{
			Event:  models.Event{ID: 3, Type: models.EventTypeStoryChoice},
			Choice: &models.EventChoice{Title: "Pick one", Script: strPtr("choice script")},
		}
		out := assembler.AssembleEvent(ev, nil, nil)
		assert.Equal(t, "choice script", *out.Script)
		assert.Equal(t, "Pick one", *out.ChoiceTitle)
	})
}

func TestAssembleEvent_DialogCharacters(t *testing.T) {
	assembler := service.NewEventAssembler(new(mocks.ContentRepository), zap.NewNop())

	ev := &models.EventWithRelations{
		Event: models.Event{ID: 1, Type: models.EventTypeDialog},
		Dialog: &models.EventDialog{
			Script: "hey",
			Characters: []models.DialogCharacter{
				{CharacterCode: "JIWON", Emotion: strPtr("angry"), IsSpeaker: boolPtr(true)},
				{CharacterCode: "JIWON", Emotion: strPtr("crying")},
				{CharacterCode: "GHOST"},
			},
		},
	}

	out := assembler.AssembleEvent(ev, testImages(), nil)
	assert.Len(t, out.Characters, 3)
	assert.Equal(t, "jiwon_angry.png", out.Characters[0].Image)
	assert.True(t, out.Characters[0].IsSpeaker)
	// Unknown emotion falls back to the default image.
	assert.Equal(t, "jiwon_default.png", out.Characters[1].Image)
	// Unknown character resolves to empty.
	assert.Equal(t, "", out.Characters[2].Image)
}

func TestAssembleEvent_StatusEffects(t *testing.T) {
	assembler := service.NewEventAssembler(new(mocks.ContentRepository), zap.NewNop())

	ev := &models.EventWithRelations{
		Event: models.Event{ID: 9, Type: models.EventTypeStatus},
		Status: &models.EventStatus{
			Effects: []models.StatusEffect{
				{CharacterID: int64Ptr(11), CharacterCode: strPtr("JIWON"), EffectType: "HP", EffectValue: intPtr(-10)},
				{EffectType: "LIFE_POINT", EffectValue: intPtr(2)},
			},
			Item: &models.Item{ID: 99, Name: "Canned Food", CapacityCost: 2},
		},
	}

	out := assembler.AssembleEvent(ev, nil, nil)
	assert.Len(t, out.CharacterEffects, 1)
	assert.Equal(t, int64(11), out.CharacterEffects[0].CharacterID)
	assert.Len(t, out.SessionEffects, 1)
	assert.Equal(t, "LIFE_POINT", out.SessionEffects[0].EffectType)
	assert.NotNil(t, out.Item)
	assert.Equal(t, int64(99), out.Item.ItemID)
}

func TestAssembleEvent_ItemChoiceSelectability(t *testing.T) {
	assembler := service.NewEventAssembler(new(mocks.ContentRepository), zap.NewNop())
	inventory := newTestState().Inventory // item 99, quantity 4, category 3

	ev := &models.EventWithRelations{
		Event:  models.Event{ID: 20, Type: models.EventTypeItemChoice},
		Choice: &models.EventChoice{Title: "Use an item?"},
		Options: []*models.ChoiceOption{
			{ID: 201, OptionOrder: 1, OptionType: models.ChoiceOptionTypeNormal, ItemCategoryID: int64Ptr(3)},
			{ID: 202, OptionOrder: 2, OptionType: models.ChoiceOptionTypeNormal, ItemCategoryID: int64Ptr(8)},
			{ID: 203, OptionOrder: 3, OptionType: models.ChoiceOptionTypeSkip},
		},
	}

	out := assembler.AssembleEvent(ev, nil, inventory)
	assert.Len(t, out.Options, 3)

	// Held category: selectable, annotated with the matched item.
	assert.True(t, out.Options[0].Selectable)
	assert.Equal(t, int64(99), *out.Options[0].ItemID)
	assert.Equal(t, 4, *out.Options[0].Quantity)
	assert.Equal(t, "Canned Food", *out.Options[0].ItemName)

	// Unheld category: greyed out.
	assert.False(t, out.Options[1].Selectable)
	assert.Nil(t, out.Options[1].ItemID)

	// Skip options never depend on inventory.
	assert.True(t, out.Options[2].Selectable)
}

func TestAssembleEvents_CollectsChoiceOptions(t *testing.T) {
	assembler := service.NewEventAssembler(new(mocks.ContentRepository), zap.NewNop())

	events := []*models.EventWithRelations{
		{Event: models.Event{ID: 1, Type: models.EventTypeSimpleText}, SimpleText: &models.EventSimpleText{Script: "a"}},
		{
			Event:   models.Event{ID: 2, Type: models.EventTypeStoryChoice},
			Choice:  &models.EventChoice{Title: "choose"},
			Options: []*models.ChoiceOption{{ID: 21}, {ID: 22}},
		},
	}

	assembled, optionsByEvent := assembler.AssembleEvents(events, nil, nil)
	assert.Len(t, assembled, 2)
	assert.Len(t, optionsByEvent, 1)
	assert.Len(t, optionsByEvent[2], 2)
}

func TestBuildEventChain(t *testing.T) {
	ctx := context.Background()

	t.Run("Walks next pointers in order", func(t *testing.T) {
		mockContent := new(mocks.ContentRepository)
		assembler := service.NewEventAssembler(mockContent, zap.NewNop())

		ev1 := &models.EventWithRelations{
			Event:      models.Event{ID: 1, Type: models.EventTypeSimpleText, NextEventID: int64Ptr(2)},
			SimpleText: &models.EventSimpleText{Script: "first"},
		}
		ev2 := &models.EventWithRelations{
			Event:      models.Event{ID: 2, Type: models.EventTypeSimpleText},
			SimpleText: &models.EventSimpleText{Script: "second"},
		}
		mockContent.On("GetEventWithRelations", ctx, nil, int64(1)).Return(ev1, nil).Once()
		mockContent.On("GetEventWithRelations", ctx, nil, int64(2)).Return(ev2, nil).Once()

		chain, err := assembler.BuildEventChain(ctx, nil, 1, nil, nil)
		assert.NoError(t, err)
		assert.Len(t, chain, 2)
		assert.Equal(t, int64(1), chain[0].ID)
		assert.Equal(t, int64(2), chain[1].ID)
	})

	t.Run("Cycle stops the walk instead of failing", func(t *testing.T) {
		mockContent := new(mocks.ContentRepository)
		assembler := service.NewEventAssembler(mockContent, zap.NewNop())

		ev1 := &models.EventWithRelations{Event: models.Event{ID: 1, Type: models.EventTypeSimpleText, NextEventID: int64Ptr(2)}}
		ev2 := &models.EventWithRelations{Event: models.Event{ID: 2, Type: models.EventTypeSimpleText, NextEventID: int64Ptr(1)}}
		mockContent.On("GetEventWithRelations", ctx, nil, int64(1)).Return(ev1, nil).Once()
		mockContent.On("GetEventWithRelations", ctx, nil, int64(2)).Return(ev2, nil).Once()

		chain, err := assembler.BuildEventChain(ctx, nil, 1, nil, nil)
		assert.NoError(t, err)
		assert.Len(t, chain, 2)
		mockContent.AssertExpectations(t)
	})

	t.Run("Missing event truncates the chain", func(t *testing.T) {
		mockContent := new(mocks.ContentRepository)
		assembler := service.NewEventAssembler(mockContent, zap.NewNop())

		ev1 := &models.EventWithRelations{Event: models.Event{ID: 1, Type: models.EventTypeSimpleText, NextEventID: int64Ptr(404)}}
		mockContent.On("GetEventWithRelations", ctx, nil, int64(1)).Return(ev1, nil).Once()
		mockContent.On("GetEventWithRelations", ctx, nil, int64(404)).Return(nil, models.ErrNotFound).Once()

		chain, err := assembler.BuildEventChain(ctx, nil, 1, nil, nil)
		assert.NoError(t, err)
		assert.Len(t, chain, 1)
	})
}
