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

func TestMapResultCode(t *testing.T) {
	assert.Equal(t, service.ResultActEnd, service.MapResultCode(models.ChoiceResultContinue))
	assert.Equal(t, service.ResultDayEnd, service.MapResultCode(models.ChoiceResultDayEnd))
	assert.Equal(t, service.ResultGameEnd, service.MapResultCode(models.ChoiceResultGameEnd))
	assert.Equal(t, service.ResultGameOver, service.MapResultCode(models.ChoiceResultGameOver))
}

func TestMapOutcomes(t *testing.T) {
	ctx := context.Background()

	t.Run("Precomputed chain wins over next event pointer", func(t *testing.T) {
		mockContent := new(mocks.ContentRepository)
		assembler := service.NewEventAssembler(mockContent, zap.NewNop())
		mapper := service.NewChoiceResultMapper(mockContent, assembler, zap.NewNop())

		options := []*models.ChoiceOption{
			{ID: 1, ResultType: models.ChoiceResultContinue, NextEventID: int64Ptr(500)},
		}
		chains := map[int64][]*models.EventWithRelations{
			1: {
				{Event: models.Event{ID: 10, Type: models.EventTypeSimpleText}, SimpleText: &models.EventSimpleText{Script: "canned"}},
				{Event: models.Event{ID: 11, Type: models.EventTypeSimpleText}, SimpleText: &models.EventSimpleText{Script: "chain"}},
			},
		}
		mockContent.On("ListOptionEventChains", ctx, nil, []int64{1}).Return(chains, nil).Once()

		outcomes, err := mapper.MapOutcomes(ctx, nil, options, nil, nil)
		assert.NoError(t, err)
		assert.Len(t, outcomes, 1)
		assert.Equal(t, service.ResultActEnd, outcomes[1].ResultType)
		assert.Len(t, outcomes[1].Events, 2)
		// The stored chain short-circuits the pointer walk.
		mockContent.AssertNotCalled(t, "GetEventWithRelations")
	})

	t.Run("Falls back to walking next pointers", func(t *testing.T) {
		mockContent := new(mocks.ContentRepository)
		assembler := service.NewEventAssembler(mockContent, zap.NewNop())
		mapper := service.NewChoiceResultMapper(mockContent, assembler, zap.NewNop())

		options := []*models.ChoiceOption{
			{ID: 2, ResultType: models.ChoiceResultDayEnd, NextEventID: int64Ptr(700)},
		}
		mockContent.On("ListOptionEventChains", ctx, nil, []int64{2}).Return(map[int64][]*models.EventWithRelations{}, nil).Once()
		mockContent.On("GetEventWithRelations", ctx, nil, int64(700)).Return(&models.EventWithRelations{
			Event:      models.Event{ID: 700, Type: models.EventTypeSimpleText},
			SimpleText: &models.EventSimpleText{Script: "walked"},
		}, nil).Once()

		outcomes, err := mapper.MapOutcomes(ctx, nil, options, nil, nil)
		assert.NoError(t, err)
		assert.Equal(t, service.ResultDayEnd, outcomes[2].ResultType)
		assert.Len(t, outcomes[2].Events, 1)
		mockContent.AssertExpectations(t)
	})

	t.Run("Option without consequences yields empty events", func(t *testing.T) {
		mockContent := new(mocks.ContentRepository)
		assembler := service.NewEventAssembler(mockContent, zap.NewNop())
		mapper := service.NewChoiceResultMapper(mockContent, assembler, zap.NewNop())

		options := []*models.ChoiceOption{
			{ID: 3, ResultType: models.ChoiceResultGameOver},
		}
		mockContent.On("ListOptionEventChains", ctx, nil, []int64{3}).Return(map[int64][]*models.EventWithRelations{}, nil).Once()

		outcomes, err := mapper.MapOutcomes(ctx, nil, options, nil, nil)
		assert.NoError(t, err)
		assert.Equal(t, service.ResultGameOver, outcomes[3].ResultType)
		assert.Empty(t, outcomes[3].Events)
	})
}
