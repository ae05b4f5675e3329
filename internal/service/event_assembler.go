package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"survival-server/internal/interfaces"
	"survival-server/internal/models"
)

// EventAssembler converts raw content events into the uniform renderer
// representation, resolving character images, stat effect payloads and
// per-option selectability against the session inventory.
type EventAssembler struct {
	content interfaces.ContentRepository
	logger  *zap.Logger
}

// NewEventAssembler creates an event assembler.
func NewEventAssembler(content interfaces.ContentRepository, logger *zap.Logger) *EventAssembler {
	return &EventAssembler{
		content: content,
		logger:  logger.Named("EventAssembler"),
	}
}

// AssembleEvents assembles the given events in order. Choice events also
// contribute their raw option rows to the returned side map so the choice
// result mapper can precompute consequence chains.
func (a *EventAssembler) AssembleEvents(
	events []*models.EventWithRelations,
	images models.CharacterImageLookup,
	inventory []*models.InventoryRecord,
) ([]*AssembledEvent, map[int64][]*models.ChoiceOption) {
	assembled := make([]*AssembledEvent, 0, len(events))
	optionsByEvent := make(map[int64][]*models.ChoiceOption)

	for _, ev := range events {
		assembled = append(assembled, a.AssembleEvent(ev, images, inventory))
		if ev.IsChoice() && len(ev.Options) > 0 {
			optionsByEvent[ev.ID] = ev.Options
		}
	}
	return assembled, optionsByEvent
}

// AssembleEvent assembles a single event.
func (a *EventAssembler) AssembleEvent(
	ev *models.EventWithRelations,
	images models.CharacterImageLookup,
	inventory []*models.InventoryRecord,
) *AssembledEvent {
	out := &AssembledEvent{
		ID:          ev.ID,
		Type:        string(ev.Type),
		Script:      resolveScript(ev),
		BgImage:     ev.BgImage,
		SceneEffect: ev.SceneEffect,
		BGM:         ev.BGM,
		BGMVolume:   ev.BGMVolume,
		SE:          ev.SE,
		SEVolume:    ev.SEVolume,
		SELoop:      ev.SELoop,
	}

	if ev.Dialog != nil {
		out.Characters = make([]StagedCharacter, 0, len(ev.Dialog.Characters))
		for _, dc := range ev.Dialog.Characters {
			staged := StagedCharacter{
				CharacterCode: dc.CharacterCode,
				Position:      dc.Position,
				Emotion:       dc.Emotion,
				Image:         images.Resolve(dc.CharacterCode, dc.Emotion),
			}
			if dc.IsSpeaker != nil {
				staged.IsSpeaker = *dc.IsSpeaker
			}
			out.Characters = append(out.Characters, staged)
		}
	}

	if ev.Choice != nil {
		out.ChoiceTitle = &ev.Choice.Title
		out.Thumbnail = ev.Choice.Thumbnail
	}
	if ev.IsChoice() {
		out.Options = a.assembleOptions(ev, inventory)
	}

	if ev.Status != nil {
		// Character-targeted and session-targeted effects stay separate
		// lists; the renderer treats them differently.
		for _, effect := range ev.Status.Effects {
			if effect.CharacterID != nil {
				out.CharacterEffects = append(out.CharacterEffects, CharacterEffect{
					CharacterID:   *effect.CharacterID,
					CharacterCode: effect.CharacterCode,
					EffectType:    effect.EffectType,
					EffectValue:   effect.EffectValue,
				})
			} else {
				out.SessionEffects = append(out.SessionEffects, SessionEffect{
					EffectType:  effect.EffectType,
					EffectValue: effect.EffectValue,
				})
			}
		}
		if ev.Status.Item != nil {
			out.Item = &ItemPayload{
				ItemID:       ev.Status.Item.ID,
				Name:         ev.Status.Item.Name,
				Image:        ev.Status.Item.Image,
				CapacityCost: ev.Status.Item.CapacityCost,
			}
		}
	}

	return out
}

// assembleOptions builds option DTOs with selectability. Story choices and
// skip options are always selectable; item choices require a held item in
// the option's category, and the first match supplies the displayed item.
func (a *EventAssembler) assembleOptions(ev *models.EventWithRelations, inventory []*models.InventoryRecord) []*AssembledOption {
	options := make([]*AssembledOption, 0, len(ev.Options))
	for _, opt := range ev.Options {
		dto := &AssembledOption{
			ID:          opt.ID,
			OptionOrder: opt.OptionOrder,
			OptionType:  string(opt.OptionType),
			Title:       opt.Title,
			Selectable:  true,
		}

		if ev.Type == models.EventTypeItemChoice &&
			opt.OptionType != models.ChoiceOptionTypeSkip &&
			opt.ItemCategoryID != nil {
			matched := matchInventoryItem(inventory, *opt.ItemCategoryID)
			if matched != nil {
				itemID := matched.ItemID
				quantity := matched.Quantity
				name := matched.Item.Name
				dto.ItemID = &itemID
				dto.Quantity = &quantity
				dto.ItemName = &name
			} else {
				dto.Selectable = false
			}
		}

		options = append(options, dto)
	}
	return options
}

// BuildEventChain walks nextEventId pointers from the given event,
// assembling every visited event. The visited set bounds the walk: an
// authoring cycle stops the chain at the point of repetition and is logged,
// never surfaced as a request failure.
func (a *EventAssembler) BuildEventChain(
	ctx context.Context,
	querier interfaces.DBTX,
	startEventID int64,
	images models.CharacterImageLookup,
	inventory []*models.InventoryRecord,
) ([]*AssembledEvent, error) {
	var chain []*AssembledEvent
	visited := make(map[int64]struct{})

	nextID := &startEventID
	for nextID != nil {
		eventID := *nextID
		if _, seen := visited[eventID]; seen {
			a.logger.Warn("Cycle detected in event chain, stopping walk",
				zap.Int64("startEventID", startEventID),
				zap.Int64("repeatedEventID", eventID))
			break
		}
		visited[eventID] = struct{}{}

		ev, err := a.content.GetEventWithRelations(ctx, querier, eventID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				a.logger.Warn("Event chain references missing event",
					zap.Int64("startEventID", startEventID),
					zap.Int64("eventID", eventID))
				break
			}
			return nil, err
		}

		chain = append(chain, a.AssembleEvent(ev, images, inventory))
		nextID = ev.NextEventID
	}
	return chain, nil
}

// resolveScript picks the script text in the fixed precedence order:
// dialog, simple text, choice.
func resolveScript(ev *models.EventWithRelations) *string {
	if ev.Dialog != nil {
		return &ev.Dialog.Script
	}
	if ev.SimpleText != nil {
		return &ev.SimpleText.Script
	}
	if ev.Choice != nil {
		return ev.Choice.Script
	}
	return nil
}

// matchInventoryItem returns the first positive-quantity inventory record
// whose item belongs to the given category.
func matchInventoryItem(inventory []*models.InventoryRecord, categoryID int64) *models.InventoryRecord {
	for _, rec := range inventory {
		if rec.Quantity <= 0 {
			continue
		}
		for _, cat := range rec.Item.CategoryIDs {
			if cat == categoryID {
				return rec
			}
		}
	}
	return nil
}
