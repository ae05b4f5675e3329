package service_test

import (
	"context"
	"errors"
	"testing"

	"survival-server/internal/interfaces/mocks"
	"survival-server/internal/models"
	"survival-server/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type sessionServiceEnv struct {
	sessionRepo *mocks.SessionRepository
	contentRepo *mocks.ContentRepository
	invRepo     *mocks.InventoryRepository
	historyRepo *mocks.HistoryRepository
	images      *mocks.CharacterImageProvider
	publisher   *mocks.SessionEventPublisher
	txManager   *mocks.TxManager
	svc         service.SessionService
}

func newSessionServiceEnv() *sessionServiceEnv {
	env := &sessionServiceEnv{
		sessionRepo: new(mocks.SessionRepository),
		contentRepo: new(mocks.ContentRepository),
		invRepo:     new(mocks.InventoryRepository),
		historyRepo: new(mocks.HistoryRepository),
		images:      new(mocks.CharacterImageProvider),
		publisher:   new(mocks.SessionEventPublisher),
		txManager:   new(mocks.TxManager),
	}
	env.svc = service.NewSessionService(
		nil,
		env.txManager,
		env.sessionRepo,
		env.contentRepo,
		env.invRepo,
		env.historyRepo,
		env.images,
		env.publisher,
		zap.NewNop(),
	)
	return env
}

// expectLoad wires the transactional load sequence every advance call runs:
// find active session, lock it, reload state, fetch the image catalog.
func (env *sessionServiceEnv) expectLoad(ctx context.Context, state *models.SessionState) {
	env.txManager.On("WithTransaction", ctx, mock.Anything).Return(nil)
	env.sessionRepo.On("FindActiveByUserID", ctx, nil, state.Session.UserID).Return(state, nil)
	env.sessionRepo.On("LockByID", ctx, nil, state.Session.ID).Return(nil)
	env.sessionRepo.On("GetStateByID", ctx, nil, state.Session.ID).Return(state, nil)
	env.images.On("GetCharacterImages", ctx).Return(models.CharacterImageLookup{}, nil)
}

func simpleAct(actID, dayID int64, seq int) *models.ActWithEvents {
	return &models.ActWithEvents{
		Act: models.Act{ID: actID, DayID: dayID, SequenceNumber: seq},
		Day: models.Day{ID: dayID, DayNumber: 1, CharacterGroupID: 1},
		Events: []*models.EventWithRelations{
			{
				Event:      models.Event{ID: actID * 100, Type: models.EventTypeSimpleText},
				SimpleText: &models.EventSimpleText{Script: "scene"},
			},
		},
	}
}

func TestExecuteNextAct_Peek(t *testing.T) {
	ctx := context.Background()

	t.Run("Serves the stored current act without advancing", func(t *testing.T) {
		env := newSessionServiceEnv()
		state := newTestState()
		state.Session.CurrentActID = int64Ptr(5)
		state.Session.CurrentDayID = int64Ptr(1)
		env.expectLoad(ctx, state)

		env.contentRepo.On("GetAct", ctx, nil, int64(5)).Return(&models.Act{ID: 5, DayID: 1, SequenceNumber: 1}, nil).Once()
		env.contentRepo.On("GetActWithEvents", ctx, nil, int64(5)).Return(simpleAct(5, 1, 1), nil).Once()

		resp, err := env.svc.ExecuteNextAct(ctx, 7, &service.NextActRequest{})
		assert.NoError(t, err)
		assert.Equal(t, models.SessionStatusInProgress, resp.Status)
		assert.Equal(t, int64(5), resp.Act.ID)
		assert.Len(t, resp.Events, 1)
		env.sessionRepo.AssertNotCalled(t, "AdvancePointers")
		env.publisher.AssertNotCalled(t, "PublishSessionEnded")
	})

	t.Run("Resolves the first unlocked act when none is stored", func(t *testing.T) {
		env := newSessionServiceEnv()
		state := newTestState()
		env.expectLoad(ctx, state)

		env.contentRepo.On("FindFirstUnlockedAct", ctx, nil, int64(1), []int64{99}).
			Return(&models.ActRef{ID: 5, DayID: 1}, nil).Once()
		env.sessionRepo.On("AdvancePointers", ctx, nil, int64(100), int64(5), int64(1)).Return(nil).Once()
		env.contentRepo.On("GetActWithEvents", ctx, nil, int64(5)).Return(simpleAct(5, 1, 1), nil).Once()

		resp, err := env.svc.ExecuteNextAct(ctx, 7, &service.NextActRequest{})
		assert.NoError(t, err)
		assert.Equal(t, int64(5), resp.Act.ID)
		env.sessionRepo.AssertExpectations(t)
	})

	t.Run("Re-locked current act triggers a forward search", func(t *testing.T) {
		env := newSessionServiceEnv()
		state := newTestState()
		state.Session.CurrentActID = int64Ptr(5)
		env.expectLoad(ctx, state)

		// The stored act requires item 777, which the session lost.
		env.contentRepo.On("GetAct", ctx, nil, int64(5)).
			Return(&models.Act{ID: 5, DayID: 1, SequenceNumber: 2, TriggerItemID: int64Ptr(777)}, nil).Once()
		env.contentRepo.On("FindNextUnlockedActInDay", ctx, nil, int64(1), 2, []int64{99}).
			Return(&models.ActRef{ID: 6, DayID: 1}, nil).Once()
		env.sessionRepo.On("AdvancePointers", ctx, nil, int64(100), int64(6), int64(1)).Return(nil).Once()
		env.contentRepo.On("GetActWithEvents", ctx, nil, int64(6)).Return(simpleAct(6, 1, 3), nil).Once()

		resp, err := env.svc.ExecuteNextAct(ctx, 7, &service.NextActRequest{})
		assert.NoError(t, err)
		assert.Equal(t, int64(6), resp.Act.ID)
	})

	t.Run("No unlocked act at all", func(t *testing.T) {
		env := newSessionServiceEnv()
		state := newTestState()
		env.expectLoad(ctx, state)

		env.contentRepo.On("FindFirstUnlockedAct", ctx, nil, int64(1), []int64{99}).
			Return(nil, models.ErrNotFound).Once()

		_, err := env.svc.ExecuteNextAct(ctx, 7, &service.NextActRequest{})
		assert.True(t, errors.Is(err, models.ErrNextActNotAvailable))
	})
}

func TestExecuteNextAct_ReadinessGates(t *testing.T) {
	ctx := context.Background()

	t.Run("Character set required", func(t *testing.T) {
		env := newSessionServiceEnv()
		state := newTestState()
		state.CharacterSet = nil
		state.Characters = nil
		env.expectLoad(ctx, state)

		_, err := env.svc.ExecuteNextAct(ctx, 7, &service.NextActRequest{})
		assert.True(t, errors.Is(err, models.ErrCharacterSetRequired))
	})

	t.Run("Bag not confirmed", func(t *testing.T) {
		env := newSessionServiceEnv()
		state := newTestState()
		state.Session.BagConfirmedAt = nil
		env.expectLoad(ctx, state)

		_, err := env.svc.ExecuteNextAct(ctx, 7, &service.NextActRequest{})
		assert.True(t, errors.Is(err, models.ErrBagNotConfirmed))
	})

	t.Run("Character group missing", func(t *testing.T) {
		env := newSessionServiceEnv()
		state := newTestState()
		state.Session.CharacterGroupID = nil
		state.CharacterGroup = nil
		env.expectLoad(ctx, state)

		_, err := env.svc.ExecuteNextAct(ctx, 7, &service.NextActRequest{})
		assert.True(t, errors.Is(err, models.ErrCharacterGroupMissing))
	})

	t.Run("No active session", func(t *testing.T) {
		env := newSessionServiceEnv()
		env.txManager.On("WithTransaction", ctx, mock.Anything).Return(nil)
		env.sessionRepo.On("FindActiveByUserID", ctx, nil, int64(7)).Return(nil, models.ErrSessionNotFound).Once()

		_, err := env.svc.ExecuteNextAct(ctx, 7, &service.NextActRequest{})
		assert.True(t, errors.Is(err, models.ErrSessionNotFound))
	})
}

func TestExecuteNextAct_CompleteAndAdvance(t *testing.T) {
	ctx := context.Background()

	t.Run("Act mismatch is rejected", func(t *testing.T) {
		env := newSessionServiceEnv()
		state := newTestState()
		state.Session.CurrentActID = int64Ptr(5)
		env.expectLoad(ctx, state)

		_, err := env.svc.ExecuteNextAct(ctx, 7, &service.NextActRequest{LastActID: int64Ptr(99)})
		assert.True(t, errors.Is(err, models.ErrActMismatch))
	})

	t.Run("Completing without an active act is rejected", func(t *testing.T) {
		env := newSessionServiceEnv()
		state := newTestState()
		env.expectLoad(ctx, state)

		_, err := env.svc.ExecuteNextAct(ctx, 7, &service.NextActRequest{LastActID: int64Ptr(5)})
		assert.True(t, errors.Is(err, models.ErrNoActiveAct))
	})

	t.Run("Choice from another act is rejected", func(t *testing.T) {
		env := newSessionServiceEnv()
		state := newTestState()
		state.Session.CurrentActID = int64Ptr(5)
		env.expectLoad(ctx, state)

		env.contentRepo.On("GetAct", ctx, nil, int64(5)).Return(&models.Act{ID: 5, DayID: 1, SequenceNumber: 1}, nil).Once()
		env.contentRepo.On("GetChoiceOption", ctx, nil, int64(201)).
			Return(&models.ChoiceOption{ID: 201, ActID: 6, ResultType: models.ChoiceResultContinue}, nil).Once()

		req := &service.NextActRequest{
			LastActID: int64Ptr(5),
			Choice:    &service.ChoicePayload{ChoiceOptionID: 201},
		}
		_, err := env.svc.ExecuteNextAct(ctx, 7, req)
		assert.True(t, errors.Is(err, models.ErrChoiceNotFound))
		env.historyRepo.AssertNotCalled(t, "AppendChoice")
	})

	t.Run("Continue choice advances within the day", func(t *testing.T) {
		env := newSessionServiceEnv()
		state := newTestState()
		state.Session.CurrentActID = int64Ptr(5)
		env.expectLoad(ctx, state)

		env.contentRepo.On("GetAct", ctx, nil, int64(5)).Return(&models.Act{ID: 5, DayID: 1, SequenceNumber: 1}, nil).Once()
		env.contentRepo.On("GetChoiceOption", ctx, nil, int64(201)).
			Return(&models.ChoiceOption{ID: 201, ActID: 5, ResultType: models.ChoiceResultContinue}, nil).Once()
		env.historyRepo.On("AppendChoice", ctx, nil, mock.MatchedBy(func(rec *models.ChoiceHistoryRecord) bool {
			return rec.SessionID == 100 && rec.ActID == 5 && rec.ChoiceOptionID == 201
		})).Return(nil).Once()
		env.contentRepo.On("FindNextUnlockedActInDay", ctx, nil, int64(1), 1, []int64{99}).
			Return(&models.ActRef{ID: 6, DayID: 1}, nil).Once()
		env.sessionRepo.On("AdvancePointers", ctx, nil, int64(100), int64(6), int64(1)).Return(nil).Once()
		env.contentRepo.On("GetActWithEvents", ctx, nil, int64(6)).Return(simpleAct(6, 1, 2), nil).Once()

		req := &service.NextActRequest{
			LastActID: int64Ptr(5),
			Choice:    &service.ChoicePayload{ChoiceOptionID: 201},
		}
		resp, err := env.svc.ExecuteNextAct(ctx, 7, req)
		assert.NoError(t, err)
		assert.Equal(t, models.SessionStatusInProgress, resp.Status)
		assert.Equal(t, int64(6), resp.Act.ID)
		env.historyRepo.AssertExpectations(t)
	})

	t.Run("Day end when no act remains in the day", func(t *testing.T) {
		env := newSessionServiceEnv()
		state := newTestState()
		state.Session.CurrentActID = int64Ptr(5)
		state.CurrentDay = &models.Day{ID: 1, DayNumber: 1, CharacterGroupID: 1}
		env.expectLoad(ctx, state)

		env.contentRepo.On("GetAct", ctx, nil, int64(5)).Return(&models.Act{ID: 5, DayID: 1, SequenceNumber: 3}, nil).Once()
		env.contentRepo.On("FindNextUnlockedActInDay", ctx, nil, int64(1), 3, []int64{99}).
			Return(nil, models.ErrNotFound).Once()
		env.contentRepo.On("FindNextDayAct", ctx, nil, int64(1), 1, []int64{99}).
			Return(&models.ActRef{ID: 10, DayID: 2}, nil).Once()
		env.sessionRepo.On("AdvancePointers", ctx, nil, int64(100), int64(10), int64(2)).Return(nil).Once()
		env.contentRepo.On("GetDay", ctx, nil, int64(2)).Return(&models.Day{ID: 2, DayNumber: 2, CharacterGroupID: 1}, nil).Once()

		resp, err := env.svc.ExecuteNextAct(ctx, 7, &service.NextActRequest{LastActID: int64Ptr(5)})
		assert.NoError(t, err)
		assert.Equal(t, models.SessionStatusDayEnd, resp.Status)
		assert.Equal(t, 2, resp.Day.DayNumber)
		// A day boundary carries no events; the client peeks again.
		assert.Empty(t, resp.Events)
		env.publisher.AssertNotCalled(t, "PublishSessionEnded")
	})

	t.Run("Game end when no day remains", func(t *testing.T) {
		env := newSessionServiceEnv()
		state := newTestState()
		state.Session.CurrentActID = int64Ptr(5)
		state.Session.CurrentDayID = int64Ptr(1)
		state.CurrentDay = &models.Day{ID: 1, DayNumber: 3, CharacterGroupID: 1}
		env.expectLoad(ctx, state)

		env.contentRepo.On("GetAct", ctx, nil, int64(5)).Return(&models.Act{ID: 5, DayID: 1, SequenceNumber: 3}, nil).Once()
		env.contentRepo.On("FindNextUnlockedActInDay", ctx, nil, int64(1), 3, []int64{99}).
			Return(nil, models.ErrNotFound).Once()
		env.contentRepo.On("FindNextDayAct", ctx, nil, int64(1), 3, []int64{99}).
			Return(nil, models.ErrNotFound).Once()
		env.contentRepo.On("ListEndings", ctx, nil, int64(1)).Return([]*models.EndingWithRelations{
			{Ending: models.Ending{ID: 40, Priority: 1, Title: "Survived"}},
		}, nil).Once()
		env.sessionRepo.On("MarkEnded", ctx, nil, int64(100), models.SessionStatusGameEnd, int64Ptr(1), int64Ptr(40)).
			Return(nil).Once()
		env.publisher.On("PublishSessionEnded", ctx, mock.MatchedBy(func(ev models.SessionEndedEvent) bool {
			return ev.SessionID == 100 && ev.Status == models.SessionStatusGameEnd && ev.EndingID != nil && *ev.EndingID == 40
		})).Return(nil).Once()

		resp, err := env.svc.ExecuteNextAct(ctx, 7, &service.NextActRequest{LastActID: int64Ptr(5)})
		assert.NoError(t, err)
		assert.Equal(t, models.SessionStatusGameEnd, resp.Status)
		assert.NotNil(t, resp.Ending)
		assert.Equal(t, int64(40), resp.Ending.ID)
		env.publisher.AssertExpectations(t)
	})

	t.Run("Authored game over skips ending resolution", func(t *testing.T) {
		env := newSessionServiceEnv()
		state := newTestState()
		state.Session.CurrentActID = int64Ptr(5)
		state.Session.CurrentDayID = int64Ptr(1)
		env.expectLoad(ctx, state)

		env.contentRepo.On("GetAct", ctx, nil, int64(5)).Return(&models.Act{ID: 5, DayID: 1, SequenceNumber: 1}, nil).Once()
		env.contentRepo.On("GetChoiceOption", ctx, nil, int64(300)).
			Return(&models.ChoiceOption{ID: 300, ActID: 5, ResultType: models.ChoiceResultGameOver}, nil).Once()
		env.historyRepo.On("AppendChoice", ctx, nil, mock.Anything).Return(nil).Once()
		env.sessionRepo.On("MarkEnded", ctx, nil, int64(100), models.SessionStatusGameOver, int64Ptr(1), (*int64)(nil)).
			Return(nil).Once()
		env.publisher.On("PublishSessionEnded", ctx, mock.Anything).Return(nil).Once()

		req := &service.NextActRequest{
			LastActID: int64Ptr(5),
			Choice:    &service.ChoicePayload{ChoiceOptionID: 300},
		}
		resp, err := env.svc.ExecuteNextAct(ctx, 7, req)
		assert.NoError(t, err)
		assert.Equal(t, models.SessionStatusGameOver, resp.Status)
		assert.Nil(t, resp.Ending)
		env.contentRepo.AssertNotCalled(t, "ListEndings")
	})
}

func TestExecuteNextAct_SuddenDeath(t *testing.T) {
	ctx := context.Background()

	t.Run("Lethal delta pre-empts a continue outcome", func(t *testing.T) {
		env := newSessionServiceEnv()
		state := newTestState()
		state.Session.CurrentActID = int64Ptr(5)
		state.Session.CurrentDayID = int64Ptr(1)
		state.CharacterGroup.DeathEndingIndex = intPtr(9)
		env.expectLoad(ctx, state)

		env.contentRepo.On("GetAct", ctx, nil, int64(5)).Return(&models.Act{ID: 5, DayID: 1, SequenceNumber: 1}, nil).Once()
		env.contentRepo.On("GetChoiceOption", ctx, nil, int64(201)).
			Return(&models.ChoiceOption{ID: 201, ActID: 5, ResultType: models.ChoiceResultContinue}, nil).Once()
		env.historyRepo.On("AppendChoice", ctx, nil, mock.Anything).Return(nil).Once()

		// HP 80 - 100 goes below zero.
		env.sessionRepo.On("IncrementCharacterStats", ctx, nil, int64(501), -100, 0).Return(nil).Once()
		env.historyRepo.On("AppendStatDelta", ctx, nil, mock.MatchedBy(func(rec *models.StatHistoryRecord) bool {
			return rec.StatType == models.StatHistoryHP && rec.Delta == -100
		})).Return(nil).Once()

		env.contentRepo.On("GetEndingByPriority", ctx, nil, int64(1), 9).Return(&models.EndingWithRelations{
			Ending: models.Ending{ID: 90, Priority: 9, Title: "Everyone Falls"},
		}, nil).Once()
		env.sessionRepo.On("MarkEnded", ctx, nil, int64(100), models.SessionStatusSuddenDeath, int64Ptr(1), int64Ptr(90)).
			Return(nil).Once()
		env.publisher.On("PublishSessionEnded", ctx, mock.MatchedBy(func(ev models.SessionEndedEvent) bool {
			return ev.Status == models.SessionStatusSuddenDeath
		})).Return(nil).Once()

		req := &service.NextActRequest{
			LastActID: int64Ptr(5),
			Choice:    &service.ChoicePayload{ChoiceOptionID: 201},
			Updates: &service.ReportedUpdates{
				CharacterStatusChanges: []service.CharacterStatusChange{
					{CharacterCode: "jiwon", HPChange: -100},
				},
			},
		}
		resp, err := env.svc.ExecuteNextAct(ctx, 7, req)
		assert.NoError(t, err)
		assert.Equal(t, models.SessionStatusSuddenDeath, resp.Status)
		assert.Equal(t, int64(90), resp.Ending.ID)
		// The authored CONTINUE never got a say.
		env.contentRepo.AssertNotCalled(t, "FindNextUnlockedActInDay")
	})

	t.Run("Unknown reported character fails the call", func(t *testing.T) {
		env := newSessionServiceEnv()
		state := newTestState()
		state.Session.CurrentActID = int64Ptr(5)
		env.expectLoad(ctx, state)

		env.contentRepo.On("GetAct", ctx, nil, int64(5)).Return(&models.Act{ID: 5, DayID: 1, SequenceNumber: 1}, nil).Once()

		req := &service.NextActRequest{
			LastActID: int64Ptr(5),
			Updates: &service.ReportedUpdates{
				CharacterStatusChanges: []service.CharacterStatusChange{
					{CharacterCode: "NOBODY", HPChange: -1},
				},
			},
		}
		_, err := env.svc.ExecuteNextAct(ctx, 7, req)
		assert.True(t, errors.Is(err, models.ErrCharacterNotFound))
	})

	t.Run("Delta against uninitialized HP fails fast", func(t *testing.T) {
		env := newSessionServiceEnv()
		state := newTestState()
		state.Session.CurrentActID = int64Ptr(5)
		state.Characters[0].CurrentHP = nil
		env.expectLoad(ctx, state)

		env.contentRepo.On("GetAct", ctx, nil, int64(5)).Return(&models.Act{ID: 5, DayID: 1, SequenceNumber: 1}, nil).Once()

		req := &service.NextActRequest{
			LastActID: int64Ptr(5),
			Updates: &service.ReportedUpdates{
				CharacterStatusChanges: []service.CharacterStatusChange{
					{CharacterCode: "JIWON", HPChange: -5},
				},
			},
		}
		_, err := env.svc.ExecuteNextAct(ctx, 7, req)
		assert.True(t, errors.Is(err, models.ErrHPNotInitialized))
		env.sessionRepo.AssertNotCalled(t, "IncrementCharacterStats")
	})
}

func TestExecuteNextAct_ItemChanges(t *testing.T) {
	ctx := context.Background()

	t.Run("Removal clamps at zero and records the applied delta", func(t *testing.T) {
		env := newSessionServiceEnv()
		state := newTestState()
		state.Session.CurrentActID = int64Ptr(5)
		state.Inventory[0].Quantity = 2
		env.expectLoad(ctx, state)

		env.contentRepo.On("GetAct", ctx, nil, int64(5)).Return(&models.Act{ID: 5, DayID: 1, SequenceNumber: 1}, nil).Once()

		// -5 against quantity 2: row deleted, history records -2.
		env.invRepo.On("Delete", ctx, nil, int64(100), int64(99)).Return(nil).Once()
		env.historyRepo.On("AppendStatDelta", ctx, nil, mock.MatchedBy(func(rec *models.StatHistoryRecord) bool {
			return rec.StatType == models.StatHistoryItemQuantity && rec.Delta == -2
		})).Return(nil).Once()

		// With item 99 gone the day has no further act and no next day.
		env.contentRepo.On("FindNextUnlockedActInDay", ctx, nil, int64(1), 1, []int64{}).
			Return(nil, models.ErrNotFound).Once()
		state.CurrentDay = &models.Day{ID: 1, DayNumber: 1, CharacterGroupID: 1}
		env.contentRepo.On("FindNextDayAct", ctx, nil, int64(1), 1, []int64{}).
			Return(nil, models.ErrNotFound).Once()
		env.contentRepo.On("ListEndings", ctx, nil, int64(1)).Return([]*models.EndingWithRelations{}, nil).Once()
		env.sessionRepo.On("MarkEnded", ctx, nil, int64(100), models.SessionStatusGameEnd, (*int64)(nil), (*int64)(nil)).
			Return(nil).Once()
		env.publisher.On("PublishSessionEnded", ctx, mock.Anything).Return(nil).Once()

		req := &service.NextActRequest{
			LastActID: int64Ptr(5),
			Updates: &service.ReportedUpdates{
				ItemChanges: []service.ItemChange{{ItemID: 99, QuantityChange: -5}},
			},
		}
		_, err := env.svc.ExecuteNextAct(ctx, 7, req)
		assert.NoError(t, err)
		env.invRepo.AssertExpectations(t)
		env.historyRepo.AssertExpectations(t)
		// Removals never consume bag capacity.
		env.sessionRepo.AssertNotCalled(t, "AddBagCapacityUsed")
	})

	t.Run("Gaining a new item charges bag capacity", func(t *testing.T) {
		env := newSessionServiceEnv()
		state := newTestState()
		state.Session.CurrentActID = int64Ptr(5)
		env.expectLoad(ctx, state)

		env.contentRepo.On("GetAct", ctx, nil, int64(5)).Return(&models.Act{ID: 5, DayID: 1, SequenceNumber: 1}, nil).Once()

		env.invRepo.On("SetQuantity", ctx, nil, int64(100), int64(55), 2).Return(nil).Once()
		env.contentRepo.On("GetItem", ctx, nil, int64(55)).
			Return(&models.Item{ID: 55, Name: "Rope", CapacityCost: 3}, nil).Once()
		env.sessionRepo.On("AddBagCapacityUsed", ctx, nil, int64(100), 6).Return(nil).Once()
		env.historyRepo.On("AppendStatDelta", ctx, nil, mock.MatchedBy(func(rec *models.StatHistoryRecord) bool {
			return rec.StatType == models.StatHistoryItemQuantity && rec.Delta == 2
		})).Return(nil).Once()

		env.contentRepo.On("FindNextUnlockedActInDay", ctx, nil, int64(1), 1, []int64{99, 55}).
			Return(&models.ActRef{ID: 6, DayID: 1}, nil).Once()
		env.sessionRepo.On("AdvancePointers", ctx, nil, int64(100), int64(6), int64(1)).Return(nil).Once()
		env.contentRepo.On("GetActWithEvents", ctx, nil, int64(6)).Return(simpleAct(6, 1, 2), nil).Once()

		req := &service.NextActRequest{
			LastActID: int64Ptr(5),
			Updates: &service.ReportedUpdates{
				ItemChanges: []service.ItemChange{{ItemID: 55, QuantityChange: 2}},
			},
		}
		resp, err := env.svc.ExecuteNextAct(ctx, 7, req)
		assert.NoError(t, err)
		assert.Equal(t, models.SessionStatusInProgress, resp.Status)
		env.sessionRepo.AssertExpectations(t)
	})
}

func TestPlayIntro(t *testing.T) {
	ctx := context.Background()

	t.Run("Assembles the group's intro sequence", func(t *testing.T) {
		env := newSessionServiceEnv()
		state := newTestState()
		env.sessionRepo.On("FindActiveByUserID", ctx, nil, int64(7)).Return(state, nil).Once()
		env.contentRepo.On("ListIntroEvents", ctx, nil, int64(1), 0).Return([]*models.EventWithRelations{
			{Event: models.Event{ID: 1, Type: models.EventTypeSimpleText}, SimpleText: &models.EventSimpleText{Script: "day zero"}},
		}, nil).Once()
		env.images.On("GetCharacterImages", ctx).Return(models.CharacterImageLookup{}, nil)

		resp, err := env.svc.PlayIntro(ctx, 7, 0)
		assert.NoError(t, err)
		assert.Equal(t, int64(100), resp.SessionID)
		assert.Len(t, resp.Events, 1)
	})

	t.Run("Missing sequence", func(t *testing.T) {
		env := newSessionServiceEnv()
		state := newTestState()
		env.sessionRepo.On("FindActiveByUserID", ctx, nil, int64(7)).Return(state, nil).Once()
		env.contentRepo.On("ListIntroEvents", ctx, nil, int64(1), 2).Return([]*models.EventWithRelations{}, nil).Once()

		_, err := env.svc.PlayIntro(ctx, 7, 2)
		assert.True(t, errors.Is(err, models.ErrIntroSequenceNotFound))
	})

	t.Run("Group must be attached", func(t *testing.T) {
		env := newSessionServiceEnv()
		state := newTestState()
		state.Session.CharacterGroupID = nil
		env.sessionRepo.On("FindActiveByUserID", ctx, nil, int64(7)).Return(state, nil).Once()

		_, err := env.svc.PlayIntro(ctx, 7, 0)
		assert.True(t, errors.Is(err, models.ErrCharacterGroupMissing))
	})
}
