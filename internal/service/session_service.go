package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"survival-server/internal/interfaces"
	"survival-server/internal/models"
)

// SessionService is the session progression engine. It decides what story
// content to serve next, applies client-reported deltas atomically and
// detects terminal conditions.
type SessionService interface {
	// ExecuteNextAct handles one peek (nil LastActID) or complete-and-advance
	// call for the user's active session.
	ExecuteNextAct(ctx context.Context, userID int64, req *NextActRequest) (*NextActResponse, error)

	// PlayIntro assembles the authored intro sequence for the session's
	// character group. No state-machine involvement.
	PlayIntro(ctx context.Context, userID int64, introMode int) (*IntroResponse, error)
}

type sessionServiceImpl struct {
	db            interfaces.DBTX
	txManager     interfaces.TxManager
	sessionRepo   interfaces.SessionRepository
	contentRepo   interfaces.ContentRepository
	inventoryRepo interfaces.InventoryRepository
	historyRepo   interfaces.HistoryRepository
	images        interfaces.CharacterImageProvider
	publisher     interfaces.SessionEventPublisher
	assembler     *EventAssembler
	mapper        *ChoiceResultMapper
	resolver      *EndingResolver
	logger        *zap.Logger
}

var _ SessionService = (*sessionServiceImpl)(nil)

// NewSessionService creates the progression engine.
func NewSessionService(
	db interfaces.DBTX,
	txManager interfaces.TxManager,
	sessionRepo interfaces.SessionRepository,
	contentRepo interfaces.ContentRepository,
	inventoryRepo interfaces.InventoryRepository,
	historyRepo interfaces.HistoryRepository,
	images interfaces.CharacterImageProvider,
	publisher interfaces.SessionEventPublisher,
	logger *zap.Logger,
) SessionService {
	log := logger.Named("SessionService")
	return &sessionServiceImpl{
		db:            db,
		txManager:     txManager,
		sessionRepo:   sessionRepo,
		contentRepo:   contentRepo,
		inventoryRepo: inventoryRepo,
		historyRepo:   historyRepo,
		images:        images,
		publisher:     publisher,
		assembler:     NewEventAssembler(contentRepo, log),
		mapper:        NewChoiceResultMapper(contentRepo, NewEventAssembler(contentRepo, log), log),
		resolver:      NewEndingResolver(contentRepo, log),
		logger:        log,
	}
}

func (s *sessionServiceImpl) ExecuteNextAct(ctx context.Context, userID int64, req *NextActRequest) (*NextActResponse, error) {
	var resp *NextActResponse
	var terminal *models.SessionEndedEvent

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		state, err := s.sessionRepo.FindActiveByUserID(ctx, tx, userID)
		if err != nil {
			return err
		}
		// Serialize concurrent advance calls for the same session, then
		// reload so the locked state is the one we operate on.
		if err := s.sessionRepo.LockByID(ctx, tx, state.Session.ID); err != nil {
			return err
		}
		state, err = s.sessionRepo.GetStateByID(ctx, tx, state.Session.ID)
		if err != nil {
			return err
		}

		if state.CharacterSet == nil || len(state.Characters) == 0 {
			return models.ErrCharacterSetRequired
		}
		if state.Session.BagConfirmedAt == nil {
			return models.ErrBagNotConfirmed
		}
		if state.Session.CharacterGroupID == nil || state.CharacterGroup == nil {
			return models.ErrCharacterGroupMissing
		}

		images := s.characterImages(ctx)

		if req.LastActID == nil {
			resp, err = s.peekCurrentAct(ctx, tx, state, images)
			return err
		}

		resp, terminal, err = s.completeAndAdvance(ctx, tx, state, req, images)
		return err
	})
	if err != nil {
		return nil, err
	}

	if terminal != nil {
		s.publishEnded(ctx, *terminal)
	}
	return resp, nil
}

// characterImages loads the emotion image catalog, degrading to an empty
// lookup on failure. Missing images are a rendering blemish, not a reason
// to fail progression.
func (s *sessionServiceImpl) characterImages(ctx context.Context) models.CharacterImageLookup {
	images, err := s.images.GetCharacterImages(ctx)
	if err != nil {
		s.logger.Warn("Failed to load character images, continuing without", zap.Error(err))
		return models.CharacterImageLookup{}
	}
	return images
}

// peekCurrentAct resolves and serves the current act without completing
// anything. The only permitted mutation is re-pointing the session when the
// stored act has become locked or was never set.
func (s *sessionServiceImpl) peekCurrentAct(ctx context.Context, tx interfaces.DBTX, state *models.SessionState, images models.CharacterImageLookup) (*NextActResponse, error) {
	owned := state.OwnedItemIDs()
	groupID := *state.Session.CharacterGroupID

	var actID int64
	switch {
	case state.Session.CurrentActID == nil:
		ref, err := s.contentRepo.FindFirstUnlockedAct(ctx, tx, groupID, owned)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, models.ErrNextActNotAvailable
			}
			return nil, err
		}
		if err := s.sessionRepo.AdvancePointers(ctx, tx, state.Session.ID, ref.ID, ref.DayID); err != nil {
			return nil, err
		}
		actID = ref.ID

	default:
		act, err := s.contentRepo.GetAct(ctx, tx, *state.Session.CurrentActID)
		if err != nil {
			return nil, err
		}
		if act.Unlocked(owned) {
			actID = act.ID
			break
		}
		// The stored act re-locked since it was set (its trigger item was
		// lost). Search forward from it.
		s.logger.Info("Stored current act re-locked, searching forward",
			zap.Int64("sessionID", state.Session.ID),
			zap.Int64("actID", act.ID))
		ref, err := s.contentRepo.FindNextUnlockedActInDay(ctx, tx, act.DayID, act.SequenceNumber, owned)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, models.ErrNextActNotAvailable
			}
			return nil, err
		}
		if err := s.sessionRepo.AdvancePointers(ctx, tx, state.Session.ID, ref.ID, ref.DayID); err != nil {
			return nil, err
		}
		actID = ref.ID
	}

	return s.buildActPayload(ctx, tx, state, actID, images)
}

// buildActPayload loads an act with its events and assembles the full
// IN_PROGRESS response including precomputed choice outcomes.
func (s *sessionServiceImpl) buildActPayload(ctx context.Context, tx interfaces.DBTX, state *models.SessionState, actID int64, images models.CharacterImageLookup) (*NextActResponse, error) {
	act, err := s.contentRepo.GetActWithEvents(ctx, tx, actID)
	if err != nil {
		return nil, err
	}

	events, optionsByEvent := s.assembler.AssembleEvents(act.Events, images, state.Inventory)

	var allOptions []*models.ChoiceOption
	for _, options := range optionsByEvent {
		allOptions = append(allOptions, options...)
	}
	outcomes, err := s.mapper.MapOutcomes(ctx, tx, allOptions, images, state.Inventory)
	if err != nil {
		return nil, err
	}

	return &NextActResponse{
		SessionID: state.Session.ID,
		Status:    models.SessionStatusInProgress,
		Day:       &DayMeta{ID: act.Day.ID, DayNumber: act.Day.DayNumber},
		Act:       &ActMeta{ID: act.ID, SequenceNumber: act.SequenceNumber, Title: act.Title},
		Events:    events,
		ChoiceOutcomes: outcomes,
	}, nil
}

// completeAndAdvance finishes the reported act: records the choice, applies
// deltas, then drives the state machine to the next act, day, or terminal
// state. Sudden death pre-empts every authored outcome.
func (s *sessionServiceImpl) completeAndAdvance(
	ctx context.Context,
	tx interfaces.DBTX,
	state *models.SessionState,
	req *NextActRequest,
	images models.CharacterImageLookup,
) (*NextActResponse, *models.SessionEndedEvent, error) {
	if state.Session.CurrentActID == nil {
		return nil, nil, models.ErrNoActiveAct
	}
	if *req.LastActID != *state.Session.CurrentActID {
		return nil, nil, models.ErrActMismatch
	}

	currentAct, err := s.contentRepo.GetAct(ctx, tx, *state.Session.CurrentActID)
	if err != nil {
		return nil, nil, err
	}

	var option *models.ChoiceOption
	if req.Choice != nil {
		option, err = s.contentRepo.GetChoiceOption(ctx, tx, req.Choice.ChoiceOptionID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, nil, models.ErrChoiceNotFound
			}
			return nil, nil, err
		}
		if option.ActID != currentAct.ID {
			return nil, nil, models.ErrChoiceNotFound
		}
		err = s.historyRepo.AppendChoice(ctx, tx, &models.ChoiceHistoryRecord{
			SessionID:      state.Session.ID,
			ActID:          currentAct.ID,
			ChoiceOptionID: option.ID,
			ItemID:         req.Choice.ChosenItemID,
		})
		if err != nil {
			return nil, nil, err
		}
	}

	if req.Updates != nil {
		if err := s.applyUpdates(ctx, tx, state, req.Updates); err != nil {
			return nil, nil, err
		}
	}

	owned := state.OwnedItemIDs()

	if castMemberDown(state.Characters) {
		return s.finishSuddenDeath(ctx, tx, state, images)
	}

	var resultCode *models.ChoiceResultCode
	if option != nil {
		code := option.ResultType
		resultCode = &code
	}
	status := DetermineNextStatus(models.SessionStatusInProgress, resultCode)

	if status == models.SessionStatusInProgress {
		resp, escalate, err := s.advanceWithinDay(ctx, tx, state, currentAct, option, owned, images)
		if err != nil {
			return nil, nil, err
		}
		if !escalate {
			return resp, nil, nil
		}
		status = models.SessionStatusDayEnd
	}

	if status == models.SessionStatusDayEnd {
		resp, escalate, err := s.advanceToNextDay(ctx, tx, state, currentAct, owned)
		if err != nil {
			return nil, nil, err
		}
		if !escalate {
			return resp, nil, nil
		}
		status = models.SessionStatusGameEnd
	}

	if status == models.SessionStatusGameEnd {
		return s.finishGameEnd(ctx, tx, state, option, images)
	}

	// GAME_OVER: no ending resolution, terminal events only from the
	// option's direct follow-up chain.
	return s.finishGameOver(ctx, tx, state, option, images)
}

// advanceWithinDay looks for the next unlocked act in the current day. The
// escalate return means no act was found and the day is over.
func (s *sessionServiceImpl) advanceWithinDay(
	ctx context.Context,
	tx interfaces.DBTX,
	state *models.SessionState,
	currentAct *models.Act,
	option *models.ChoiceOption,
	owned []int64,
	images models.CharacterImageLookup,
) (*NextActResponse, bool, error) {
	var next *models.ActRef

	// The option's explicit next act wins, but only while unlocked.
	if option != nil && option.NextActID != nil {
		act, err := s.contentRepo.GetAct(ctx, tx, *option.NextActID)
		if err != nil && !errors.Is(err, models.ErrActNotFound) {
			return nil, false, err
		}
		if err == nil && act.Unlocked(owned) {
			next = &models.ActRef{ID: act.ID, DayID: act.DayID}
		}
	}

	if next == nil {
		ref, err := s.contentRepo.FindNextUnlockedActInDay(ctx, tx, currentAct.DayID, currentAct.SequenceNumber, owned)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, true, nil
			}
			return nil, false, err
		}
		next = ref
	}

	if err := s.sessionRepo.AdvancePointers(ctx, tx, state.Session.ID, next.ID, next.DayID); err != nil {
		return nil, false, err
	}
	resp, err := s.buildActPayload(ctx, tx, state, next.ID, images)
	if err != nil {
		return nil, false, err
	}
	return resp, false, nil
}

// advanceToNextDay points the session at the first unlocked act of the next
// day. The DAY_END payload carries no events: the client fetches the new
// act with a follow-up peek. The escalate return means no day remains.
func (s *sessionServiceImpl) advanceToNextDay(
	ctx context.Context,
	tx interfaces.DBTX,
	state *models.SessionState,
	currentAct *models.Act,
	owned []int64,
) (*NextActResponse, bool, error) {
	day := state.CurrentDay
	if day == nil {
		loaded, err := s.contentRepo.GetDay(ctx, tx, currentAct.DayID)
		if err != nil {
			return nil, false, err
		}
		day = loaded
	}

	ref, err := s.contentRepo.FindNextDayAct(ctx, tx, *state.Session.CharacterGroupID, day.DayNumber, owned)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, true, nil
		}
		return nil, false, err
	}

	if err := s.sessionRepo.AdvancePointers(ctx, tx, state.Session.ID, ref.ID, ref.DayID); err != nil {
		return nil, false, err
	}

	newDay, err := s.contentRepo.GetDay(ctx, tx, ref.DayID)
	if err != nil {
		return nil, false, err
	}

	return &NextActResponse{
		SessionID: state.Session.ID,
		Status:    models.SessionStatusDayEnd,
		Day:       &DayMeta{ID: newDay.ID, DayNumber: newDay.DayNumber},
		Events:    []*AssembledEvent{},
	}, false, nil
}

func (s *sessionServiceImpl) finishGameEnd(
	ctx context.Context,
	tx interfaces.DBTX,
	state *models.SessionState,
	option *models.ChoiceOption,
	images models.CharacterImageLookup,
) (*NextActResponse, *models.SessionEndedEvent, error) {
	ending, err := s.resolver.ResolveEnding(ctx, tx, state)
	if err != nil {
		return nil, nil, err
	}

	var endingID *int64
	if ending != nil {
		endingID = &ending.ID
	}
	if err := s.sessionRepo.MarkEnded(ctx, tx, state.Session.ID, models.SessionStatusGameEnd, state.Session.CurrentDayID, endingID); err != nil {
		return nil, nil, err
	}

	events := []*AssembledEvent{}
	switch {
	case ending != nil && len(ending.Events) > 0:
		events, _ = s.assembler.AssembleEvents(ending.Events, images, state.Inventory)
	case option != nil && option.NextEventID != nil:
		events, err = s.assembler.BuildEventChain(ctx, tx, *option.NextEventID, images, state.Inventory)
		if err != nil {
			return nil, nil, err
		}
	}

	resp := &NextActResponse{
		SessionID: state.Session.ID,
		Status:    models.SessionStatusGameEnd,
		Events:    events,
		Ending:    endingMeta(ending),
	}
	return resp, s.endedEvent(state, models.SessionStatusGameEnd, endingID), nil
}

func (s *sessionServiceImpl) finishGameOver(
	ctx context.Context,
	tx interfaces.DBTX,
	state *models.SessionState,
	option *models.ChoiceOption,
	images models.CharacterImageLookup,
) (*NextActResponse, *models.SessionEndedEvent, error) {
	if err := s.sessionRepo.MarkEnded(ctx, tx, state.Session.ID, models.SessionStatusGameOver, state.Session.CurrentDayID, nil); err != nil {
		return nil, nil, err
	}

	events := []*AssembledEvent{}
	if option != nil && option.NextEventID != nil {
		var err error
		events, err = s.assembler.BuildEventChain(ctx, tx, *option.NextEventID, images, state.Inventory)
		if err != nil {
			return nil, nil, err
		}
	}

	resp := &NextActResponse{
		SessionID: state.Session.ID,
		Status:    models.SessionStatusGameOver,
		Events:    events,
	}
	return resp, s.endedEvent(state, models.SessionStatusGameOver, nil), nil
}

// finishSuddenDeath is the unconditional terminal path taken when any cast
// member's HP or Mental drops to zero or below after deltas.
func (s *sessionServiceImpl) finishSuddenDeath(
	ctx context.Context,
	tx interfaces.DBTX,
	state *models.SessionState,
	images models.CharacterImageLookup,
) (*NextActResponse, *models.SessionEndedEvent, error) {
	ending, err := s.resolver.ResolveDeathEnding(ctx, tx, state)
	if err != nil {
		return nil, nil, err
	}

	var endingID *int64
	if ending != nil {
		endingID = &ending.ID
	}
	if err := s.sessionRepo.MarkEnded(ctx, tx, state.Session.ID, models.SessionStatusSuddenDeath, state.Session.CurrentDayID, endingID); err != nil {
		return nil, nil, err
	}

	s.logger.Info("Sudden death triggered",
		zap.Int64("sessionID", state.Session.ID),
		zap.Int64p("endingID", endingID))

	events := []*AssembledEvent{}
	if ending != nil && len(ending.Events) > 0 {
		events, _ = s.assembler.AssembleEvents(ending.Events, images, state.Inventory)
	}

	resp := &NextActResponse{
		SessionID: state.Session.ID,
		Status:    models.SessionStatusSuddenDeath,
		Events:    events,
		Ending:    endingMeta(ending),
	}
	return resp, s.endedEvent(state, models.SessionStatusSuddenDeath, endingID), nil
}

// applyUpdates applies all client-reported deltas inside the caller's
// transaction, mutating the in-memory state alongside the store.
func (s *sessionServiceImpl) applyUpdates(ctx context.Context, tx interfaces.DBTX, state *models.SessionState, updates *ReportedUpdates) error {
	for _, change := range updates.CharacterStatusChanges {
		if err := s.applyCharacterChange(ctx, tx, state, change); err != nil {
			return err
		}
	}
	for _, change := range updates.SessionStatChanges {
		if err := s.applySessionStatChange(ctx, tx, state, change); err != nil {
			return err
		}
	}
	for _, change := range updates.ItemChanges {
		if err := s.applyItemChange(ctx, tx, state, change); err != nil {
			return err
		}
	}
	return nil
}

func (s *sessionServiceImpl) applyCharacterChange(ctx context.Context, tx interfaces.DBTX, state *models.SessionState, change CharacterStatusChange) error {
	var target *models.PlayingCharacter
	for _, pc := range state.Characters {
		if strings.EqualFold(pc.Character.Code, change.CharacterCode) {
			target = pc
			break
		}
	}
	if target == nil {
		s.logger.Warn("Reported character not in playing set",
			zap.Int64("sessionID", state.Session.ID),
			zap.String("characterCode", change.CharacterCode))
		return models.ErrCharacterNotFound
	}

	// A nil stat means broken content setup upstream, fail fast instead of
	// defaulting it.
	if change.HPChange != 0 && target.CurrentHP == nil {
		return models.ErrHPNotInitialized
	}
	if change.MentalChange != 0 && target.CurrentMental == nil {
		return models.ErrMentalNotInitialized
	}

	if change.HPChange == 0 && change.MentalChange == 0 {
		return nil
	}

	if err := s.sessionRepo.IncrementCharacterStats(ctx, tx, target.ID, change.HPChange, change.MentalChange); err != nil {
		return err
	}
	if target.CurrentHP != nil {
		*target.CurrentHP += change.HPChange
	}
	if target.CurrentMental != nil {
		*target.CurrentMental += change.MentalChange
	}

	if change.HPChange != 0 {
		err := s.historyRepo.AppendStatDelta(ctx, tx, &models.StatHistoryRecord{
			SessionID:         state.Session.ID,
			StatType:          models.StatHistoryHP,
			TargetCharacterID: &target.ID,
			Delta:             change.HPChange,
		})
		if err != nil {
			return err
		}
	}
	if change.MentalChange != 0 {
		err := s.historyRepo.AppendStatDelta(ctx, tx, &models.StatHistoryRecord{
			SessionID:         state.Session.ID,
			StatType:          models.StatHistoryMental,
			TargetCharacterID: &target.ID,
			Delta:             change.MentalChange,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *sessionServiceImpl) applySessionStatChange(ctx context.Context, tx interfaces.DBTX, state *models.SessionState, change SessionStatChange) error {
	// The survival score is the only session stat.
	if !strings.EqualFold(change.StatType, models.StatLifePoint) {
		s.logger.Warn("Unrecognized session stat in delta, skipping",
			zap.Int64("sessionID", state.Session.ID),
			zap.String("statType", change.StatType))
		return nil
	}
	if state.Session.LifePoint == nil {
		return models.ErrLifePointNotInitialized
	}
	if change.Change == 0 {
		return nil
	}

	if err := s.sessionRepo.IncrementLifePoint(ctx, tx, state.Session.ID, change.Change); err != nil {
		return err
	}
	*state.Session.LifePoint += change.Change

	return s.historyRepo.AppendStatDelta(ctx, tx, &models.StatHistoryRecord{
		SessionID: state.Session.ID,
		StatType:  models.StatHistoryLifePoint,
		Delta:     change.Change,
	})
}

func (s *sessionServiceImpl) applyItemChange(ctx context.Context, tx interfaces.DBTX, state *models.SessionState, change ItemChange) error {
	if change.QuantityChange == 0 {
		return nil
	}

	var rec *models.InventoryRecord
	for _, candidate := range state.Inventory {
		if candidate.ItemID == change.ItemID {
			rec = candidate
			break
		}
	}

	current := 0
	if rec != nil {
		current = rec.Quantity
	}

	// Quantities never go negative; the recorded delta is what actually
	// applied after the floor, not what was requested.
	newQuantity := current + change.QuantityChange
	if newQuantity < 0 {
		newQuantity = 0
	}
	actualDelta := newQuantity - current
	if actualDelta == 0 {
		return nil
	}

	if newQuantity == 0 {
		if err := s.inventoryRepo.Delete(ctx, tx, state.Session.ID, change.ItemID); err != nil {
			return err
		}
	} else {
		if err := s.inventoryRepo.SetQuantity(ctx, tx, state.Session.ID, change.ItemID, newQuantity); err != nil {
			return err
		}
	}

	if rec != nil {
		rec.Quantity = newQuantity
	} else {
		item, err := s.contentRepo.GetItem(ctx, tx, change.ItemID)
		if err != nil {
			return err
		}
		state.Inventory = append(state.Inventory, &models.InventoryRecord{
			SessionID: state.Session.ID,
			ItemID:    change.ItemID,
			Quantity:  newQuantity,
			Item:      *item,
		})
		rec = state.Inventory[len(state.Inventory)-1]
	}

	if actualDelta > 0 && rec.Item.CapacityCost != 0 {
		capacityDelta := rec.Item.CapacityCost * actualDelta
		if err := s.sessionRepo.AddBagCapacityUsed(ctx, tx, state.Session.ID, capacityDelta); err != nil {
			return err
		}
		state.Session.BagCapacityUsed += capacityDelta
	}

	return s.historyRepo.AppendStatDelta(ctx, tx, &models.StatHistoryRecord{
		SessionID: state.Session.ID,
		StatType:  models.StatHistoryItemQuantity,
		Delta:     actualDelta,
	})
}

func (s *sessionServiceImpl) PlayIntro(ctx context.Context, userID int64, introMode int) (*IntroResponse, error) {
	state, err := s.sessionRepo.FindActiveByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if state.Session.CharacterGroupID == nil {
		return nil, models.ErrCharacterGroupMissing
	}

	events, err := s.contentRepo.ListIntroEvents(ctx, s.db, *state.Session.CharacterGroupID, introMode)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, models.ErrIntroSequenceNotFound
	}

	images := s.characterImages(ctx)
	assembled, _ := s.assembler.AssembleEvents(events, images, state.Inventory)

	return &IntroResponse{
		SessionID: state.Session.ID,
		IntroMode: introMode,
		Events:    assembled,
	}, nil
}

// publishEnded emits the terminal lifecycle event after commit. Publish
// failures are logged and swallowed.
func (s *sessionServiceImpl) publishEnded(ctx context.Context, event models.SessionEndedEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSessionEnded(ctx, event); err != nil {
		s.logger.Error("Failed to publish session ended event",
			zap.Int64("sessionID", event.SessionID),
			zap.Error(err))
	}
}

func (s *sessionServiceImpl) endedEvent(state *models.SessionState, status models.SessionStatus, endingID *int64) *models.SessionEndedEvent {
	return &models.SessionEndedEvent{
		SessionID: state.Session.ID,
		UserID:    state.Session.UserID,
		Status:    status,
		EndingID:  endingID,
		EndedAt:   time.Now().UTC(),
	}
}

// castMemberDown reports whether any cast member's HP or Mental is at or
// below zero.
func castMemberDown(characters []*models.PlayingCharacter) bool {
	for _, pc := range characters {
		if pc.CurrentHP != nil && *pc.CurrentHP <= 0 {
			return true
		}
		if pc.CurrentMental != nil && *pc.CurrentMental <= 0 {
			return true
		}
	}
	return false
}

func endingMeta(ending *models.EndingWithRelations) *EndingMeta {
	if ending == nil {
		return nil
	}
	return &EndingMeta{
		ID:       ending.ID,
		Priority: ending.Priority,
		Title:    ending.Title,
		Grade:    ending.Grade,
		Image:    ending.Image,
	}
}
