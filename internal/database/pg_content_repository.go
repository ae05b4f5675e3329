package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"survival-server/internal/interfaces"
	"survival-server/internal/models"
)

const (
	getActQuery = `
        SELECT id, day_id, sequence_number, title, trigger_item_id
        FROM acts WHERE id = $1
    `
	getDayQuery = `
        SELECT id, character_group_id, day_number FROM days WHERE id = $1
    `
	listActEventsQuery = `
        SELECT id, event_type, bg_image, scene_effect, bgm, bgm_volume, se, se_volume, se_loop, next_event_id
        FROM events
        WHERE act_id = $1
        ORDER BY event_order
    `
	getEventQuery = `
        SELECT id, event_type, bg_image, scene_effect, bgm, bgm_volume, se, se_volume, se_loop, next_event_id
        FROM events WHERE id = $1
    `

	findFirstUnlockedActQuery = `
        SELECT a.id, a.day_id
        FROM acts a
        JOIN days d ON d.id = a.day_id
        WHERE d.character_group_id = $1
          AND (a.trigger_item_id IS NULL OR a.trigger_item_id = ANY($2))
        ORDER BY d.day_number, a.sequence_number
        LIMIT 1
    `
	findNextUnlockedActInDayQuery = `
        SELECT a.id, a.day_id
        FROM acts a
        WHERE a.day_id = $1
          AND a.sequence_number > $2
          AND (a.trigger_item_id IS NULL OR a.trigger_item_id = ANY($3))
        ORDER BY a.sequence_number
        LIMIT 1
    `
	findNextDayActQuery = `
        SELECT a.id, a.day_id
        FROM acts a
        JOIN days d ON d.id = a.day_id
        WHERE d.character_group_id = $1
          AND d.day_number > $2
          AND (a.trigger_item_id IS NULL OR a.trigger_item_id = ANY($3))
        ORDER BY d.day_number, a.sequence_number
        LIMIT 1
    `

	getDialogQuery = `SELECT script FROM event_dialogs WHERE event_id = $1`

	listDialogCharactersQuery = `
        SELECT character_code, position, emotion, is_speaker
        FROM event_dialog_characters
        WHERE event_id = $1
        ORDER BY display_order
    `
	getChoicePayloadQuery = `
        SELECT title, script, thumbnail FROM event_choices WHERE event_id = $1
    `
	listEventOptionsQuery = `
        SELECT id, choice_event_id, act_id, option_order, option_type, title,
               result_type, item_category_id, next_act_id, next_event_id
        FROM choice_options
        WHERE choice_event_id = $1
        ORDER BY option_order
    `
	getChoiceOptionQuery = `
        SELECT id, choice_event_id, act_id, option_order, option_type, title,
               result_type, item_category_id, next_act_id, next_event_id
        FROM choice_options
        WHERE id = $1
    `
	listOptionChainRowsQuery = `
        SELECT choice_option_id, event_id
        FROM choice_option_event_chains
        WHERE choice_option_id = ANY($1)
        ORDER BY choice_option_id, seq_order
    `

	getStatusPayloadQuery = `SELECT item_id FROM event_statuses WHERE event_id = $1`

	listStatusEffectsQuery = `
        SELECT character_id, character_code, effect_type, effect_value
        FROM event_status_effects
        WHERE event_id = $1
        ORDER BY display_order
    `
	getSimpleTextQuery = `SELECT script FROM event_simple_texts WHERE event_id = $1`

	listGroupEndingsQuery = `
        SELECT id, character_group_id, priority, title, grade, image
        FROM endings
        WHERE character_group_id = $1
        ORDER BY priority
    `
	getEndingQuery = `
        SELECT id, character_group_id, priority, title, grade, image
        FROM endings WHERE id = $1
    `
	getEndingByPriorityQuery = `
        SELECT id, character_group_id, priority, title, grade, image
        FROM endings
        WHERE character_group_id = $1 AND priority = $2
    `
	listEndingConditionsQuery = `
        SELECT id, ending_id, condition_type, target_id, stat_type, comparison, value
        FROM ending_conditions
        WHERE ending_id = $1
        ORDER BY id
    `
	listEndingEventIDsQuery = `
        SELECT event_id FROM ending_events WHERE ending_id = $1 ORDER BY event_order
    `
	listAllEndingsQuery = `
        SELECT id, character_group_id, priority, title, grade, image
        FROM endings
        ORDER BY character_group_id, priority
    `

	listIntroEventIDsQuery = `
        SELECT se.event_id
        FROM intro_sequences s
        JOIN intro_sequence_events se ON se.intro_sequence_id = s.id
        WHERE s.character_group_id = $1 AND s.intro_mode = $2
        ORDER BY se.event_order
    `

	listCharacterGroupsQuery = `
        SELECT id, code, name, group_select_image, description, death_ending_index
        FROM character_groups
        ORDER BY id
    `
	getCharacterGroupQuery = `
        SELECT id, code, name, group_select_image, description, death_ending_index
        FROM character_groups
        WHERE id = $1
    `
	listGroupMembersQuery = `
        SELECT m.character_group_id, m.character_id, m.slot_order,
               c.id AS "character.id", c.code AS "character.code", c.name AS "character.name",
               c.age AS "character.age", c.description AS "character.description",
               c.select_image AS "character.select_image", c.portrait_image AS "character.portrait_image",
               c.default_hp AS "character.default_hp", c.default_mental AS "character.default_mental"
        FROM character_group_members m
        JOIN characters c ON c.id = m.character_id
        WHERE m.character_group_id = $1
        ORDER BY m.slot_order
    `

	listBagsQuery    = `SELECT id, code, name, capacity, image, description FROM bags ORDER BY id`
	getFirstBagQuery = `SELECT id, code, name, capacity, image, description FROM bags ORDER BY id LIMIT 1`
	getBagQuery      = `SELECT id, code, name, capacity, image, description FROM bags WHERE id = $1`

	listStoreSectionsQuery = `
        SELECT id, code, display_name, background_image FROM store_sections ORDER BY id
    `
	listSectionItemsQuery = `
        SELECT id, name, image, capacity_cost, is_consumable, store_section_id, is_visible, position_x, position_y
        FROM items
        WHERE store_section_id = $1 AND is_visible
        ORDER BY id
    `
	getItemQuery = `
        SELECT id, name, image, capacity_cost, is_consumable, store_section_id, is_visible, position_x, position_y
        FROM items WHERE id = $1
    `
	listItemCategoryIDsQuery = `
        SELECT item_category_id FROM item_to_category WHERE item_id = $1 ORDER BY item_category_id
    `

	listEmotionImagesQuery = `
        SELECT id, character_code, emotion, image_url, deleted_at
        FROM character_emotion_images
        WHERE deleted_at IS NULL
        ORDER BY character_code, emotion
    `
)

// pgContentRepository implements ContentRepository for PostgreSQL.
type pgContentRepository struct {
	logger *zap.Logger
}

var _ interfaces.ContentRepository = (*pgContentRepository)(nil)

// NewPgContentRepository creates a story content repository.
func NewPgContentRepository(logger *zap.Logger) interfaces.ContentRepository {
	return &pgContentRepository{logger: logger.Named("PgContentRepo")}
}

func (r *pgContentRepository) GetActWithEvents(ctx context.Context, querier interfaces.DBTX, actID int64) (*models.ActWithEvents, error) {
	act, err := r.GetAct(ctx, querier, actID)
	if err != nil {
		return nil, err
	}

	var day models.Day
	if err := pgxscan.Get(ctx, querier, &day, getDayQuery, act.DayID); err != nil {
		return nil, fmt.Errorf("failed to load day %d for act %d: %w", act.DayID, actID, err)
	}

	var heads []*models.Event
	if err := pgxscan.Select(ctx, querier, &heads, listActEventsQuery, actID); err != nil {
		return nil, fmt.Errorf("failed to load events for act %d: %w", actID, err)
	}

	events := make([]*models.EventWithRelations, 0, len(heads))
	for _, head := range heads {
		ev := &models.EventWithRelations{Event: *head}
		if err := r.loadEventRelations(ctx, querier, ev); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	return &models.ActWithEvents{Act: *act, Day: day, Events: events}, nil
}

func (r *pgContentRepository) GetAct(ctx context.Context, querier interfaces.DBTX, actID int64) (*models.Act, error) {
	var act models.Act
	err := pgxscan.Get(ctx, querier, &act, getActQuery, actID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrActNotFound
		}
		return nil, fmt.Errorf("failed to get act %d: %w", actID, err)
	}
	return &act, nil
}

func (r *pgContentRepository) GetDay(ctx context.Context, querier interfaces.DBTX, dayID int64) (*models.Day, error) {
	var day models.Day
	err := pgxscan.Get(ctx, querier, &day, getDayQuery, dayID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get day %d: %w", dayID, err)
	}
	return &day, nil
}

func (r *pgContentRepository) FindFirstUnlockedAct(ctx context.Context, querier interfaces.DBTX, characterGroupID int64, ownedItemIDs []int64) (*models.ActRef, error) {
	return r.findActRef(ctx, querier, findFirstUnlockedActQuery, characterGroupID, nonNilIDs(ownedItemIDs))
}

func (r *pgContentRepository) FindNextUnlockedActInDay(ctx context.Context, querier interfaces.DBTX, dayID int64, afterSequence int, ownedItemIDs []int64) (*models.ActRef, error) {
	return r.findActRef(ctx, querier, findNextUnlockedActInDayQuery, dayID, afterSequence, nonNilIDs(ownedItemIDs))
}

func (r *pgContentRepository) FindNextDayAct(ctx context.Context, querier interfaces.DBTX, characterGroupID int64, afterDayNumber int, ownedItemIDs []int64) (*models.ActRef, error) {
	return r.findActRef(ctx, querier, findNextDayActQuery, characterGroupID, afterDayNumber, nonNilIDs(ownedItemIDs))
}

func (r *pgContentRepository) findActRef(ctx context.Context, querier interfaces.DBTX, query string, args ...any) (*models.ActRef, error) {
	var ref models.ActRef
	err := pgxscan.Get(ctx, querier, &ref, query, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find act: %w", err)
	}
	return &ref, nil
}

func (r *pgContentRepository) GetEventWithRelations(ctx context.Context, querier interfaces.DBTX, eventID int64) (*models.EventWithRelations, error) {
	var head models.Event
	err := pgxscan.Get(ctx, querier, &head, getEventQuery, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", eventID, err)
	}
	ev := &models.EventWithRelations{Event: head}
	if err := r.loadEventRelations(ctx, querier, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// loadEventRelations fills the variant payload matching the event type.
func (r *pgContentRepository) loadEventRelations(ctx context.Context, querier interfaces.DBTX, ev *models.EventWithRelations) error {
	switch ev.Type {
	case models.EventTypeDialog:
		var dialog models.EventDialog
		if err := querier.QueryRow(ctx, getDialogQuery, ev.ID).Scan(&dialog.Script); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				r.logger.Warn("Dialog event without payload", zap.Int64("eventID", ev.ID))
				return nil
			}
			return fmt.Errorf("failed to load dialog payload for event %d: %w", ev.ID, err)
		}
		if err := pgxscan.Select(ctx, querier, &dialog.Characters, listDialogCharactersQuery, ev.ID); err != nil {
			return fmt.Errorf("failed to load dialog characters for event %d: %w", ev.ID, err)
		}
		ev.Dialog = &dialog

	case models.EventTypeStoryChoice, models.EventTypeItemChoice:
		var choice models.EventChoice
		err := querier.QueryRow(ctx, getChoicePayloadQuery, ev.ID).Scan(&choice.Title, &choice.Script, &choice.Thumbnail)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				r.logger.Warn("Choice event without payload", zap.Int64("eventID", ev.ID))
				return nil
			}
			return fmt.Errorf("failed to load choice payload for event %d: %w", ev.ID, err)
		}
		ev.Choice = &choice
		if err := pgxscan.Select(ctx, querier, &ev.Options, listEventOptionsQuery, ev.ID); err != nil {
			return fmt.Errorf("failed to load options for event %d: %w", ev.ID, err)
		}

	case models.EventTypeStatus:
		var itemID *int64
		err := querier.QueryRow(ctx, getStatusPayloadQuery, ev.ID).Scan(&itemID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to load status payload for event %d: %w", ev.ID, err)
		}
		status := &models.EventStatus{}
		if itemID != nil {
			item, err := r.GetItem(ctx, querier, *itemID)
			if err != nil && !errors.Is(err, models.ErrNotFound) {
				return err
			}
			status.Item = item
		}
		if err := pgxscan.Select(ctx, querier, &status.Effects, listStatusEffectsQuery, ev.ID); err != nil {
			return fmt.Errorf("failed to load status effects for event %d: %w", ev.ID, err)
		}
		ev.Status = status

	case models.EventTypeSimpleText:
		var text models.EventSimpleText
		if err := querier.QueryRow(ctx, getSimpleTextQuery, ev.ID).Scan(&text.Script); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				r.logger.Warn("SimpleText event without payload", zap.Int64("eventID", ev.ID))
				return nil
			}
			return fmt.Errorf("failed to load text payload for event %d: %w", ev.ID, err)
		}
		ev.SimpleText = &text

	default:
		r.logger.Warn("Unknown event type",
			zap.Int64("eventID", ev.ID),
			zap.String("type", string(ev.Type)))
	}
	return nil
}

func (r *pgContentRepository) GetChoiceOption(ctx context.Context, querier interfaces.DBTX, choiceOptionID int64) (*models.ChoiceOption, error) {
	var option models.ChoiceOption
	err := pgxscan.Get(ctx, querier, &option, getChoiceOptionQuery, choiceOptionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get choice option %d: %w", choiceOptionID, err)
	}
	return &option, nil
}

func (r *pgContentRepository) ListOptionEventChains(ctx context.Context, querier interfaces.DBTX, choiceOptionIDs []int64) (map[int64][]*models.EventWithRelations, error) {
	chains := make(map[int64][]*models.EventWithRelations)
	if len(choiceOptionIDs) == 0 {
		return chains, nil
	}

	type chainRow struct {
		ChoiceOptionID int64 `db:"choice_option_id"`
		EventID        int64 `db:"event_id"`
	}
	var rows []chainRow
	if err := pgxscan.Select(ctx, querier, &rows, listOptionChainRowsQuery, choiceOptionIDs); err != nil {
		return nil, fmt.Errorf("failed to load option event chains: %w", err)
	}

	// The same event can appear in several chains, load each once.
	loaded := make(map[int64]*models.EventWithRelations)
	for _, row := range rows {
		ev, ok := loaded[row.EventID]
		if !ok {
			var err error
			ev, err = r.GetEventWithRelations(ctx, querier, row.EventID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					r.logger.Warn("Chain references missing event",
						zap.Int64("choiceOptionID", row.ChoiceOptionID),
						zap.Int64("eventID", row.EventID))
					continue
				}
				return nil, err
			}
			loaded[row.EventID] = ev
		}
		chains[row.ChoiceOptionID] = append(chains[row.ChoiceOptionID], ev)
	}
	return chains, nil
}

func (r *pgContentRepository) ListEndings(ctx context.Context, querier interfaces.DBTX, characterGroupID int64) ([]*models.EndingWithRelations, error) {
	var endings []*models.Ending
	if err := pgxscan.Select(ctx, querier, &endings, listGroupEndingsQuery, characterGroupID); err != nil {
		return nil, fmt.Errorf("failed to list endings for group %d: %w", characterGroupID, err)
	}

	result := make([]*models.EndingWithRelations, 0, len(endings))
	for _, ending := range endings {
		full, err := r.loadEndingRelations(ctx, querier, ending)
		if err != nil {
			return nil, err
		}
		result = append(result, full)
	}
	return result, nil
}

func (r *pgContentRepository) GetEndingByPriority(ctx context.Context, querier interfaces.DBTX, characterGroupID int64, priority int) (*models.EndingWithRelations, error) {
	var ending models.Ending
	err := pgxscan.Get(ctx, querier, &ending, getEndingByPriorityQuery, characterGroupID, priority)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ending with priority %d for group %d: %w", priority, characterGroupID, err)
	}
	return r.loadEndingRelations(ctx, querier, &ending)
}

func (r *pgContentRepository) loadEndingRelations(ctx context.Context, querier interfaces.DBTX, ending *models.Ending) (*models.EndingWithRelations, error) {
	full := &models.EndingWithRelations{Ending: *ending}

	if err := pgxscan.Select(ctx, querier, &full.Conditions, listEndingConditionsQuery, ending.ID); err != nil {
		return nil, fmt.Errorf("failed to load conditions for ending %d: %w", ending.ID, err)
	}

	var eventIDs []int64
	if err := pgxscan.Select(ctx, querier, &eventIDs, listEndingEventIDsQuery, ending.ID); err != nil {
		return nil, fmt.Errorf("failed to load event ids for ending %d: %w", ending.ID, err)
	}
	for _, eventID := range eventIDs {
		ev, err := r.GetEventWithRelations(ctx, querier, eventID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				r.logger.Warn("Ending references missing event",
					zap.Int64("endingID", ending.ID),
					zap.Int64("eventID", eventID))
				continue
			}
			return nil, err
		}
		full.Events = append(full.Events, ev)
	}
	return full, nil
}

func (r *pgContentRepository) ListIntroEvents(ctx context.Context, querier interfaces.DBTX, characterGroupID int64, introMode int) ([]*models.EventWithRelations, error) {
	var eventIDs []int64
	if err := pgxscan.Select(ctx, querier, &eventIDs, listIntroEventIDsQuery, characterGroupID, introMode); err != nil {
		return nil, fmt.Errorf("failed to load intro events for group %d mode %d: %w", characterGroupID, introMode, err)
	}

	events := make([]*models.EventWithRelations, 0, len(eventIDs))
	for _, eventID := range eventIDs {
		ev, err := r.GetEventWithRelations(ctx, querier, eventID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				r.logger.Warn("Intro sequence references missing event",
					zap.Int64("characterGroupID", characterGroupID),
					zap.Int64("eventID", eventID))
				continue
			}
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func (r *pgContentRepository) ListCharacterGroups(ctx context.Context, querier interfaces.DBTX) ([]*models.CharacterGroup, error) {
	var groups []*models.CharacterGroup
	if err := pgxscan.Select(ctx, querier, &groups, listCharacterGroupsQuery); err != nil {
		return nil, fmt.Errorf("failed to list character groups: %w", err)
	}
	return groups, nil
}

func (r *pgContentRepository) GetCharacterGroup(ctx context.Context, querier interfaces.DBTX, characterGroupID int64) (*models.CharacterGroup, error) {
	var group models.CharacterGroup
	err := pgxscan.Get(ctx, querier, &group, getCharacterGroupQuery, characterGroupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get character group %d: %w", characterGroupID, err)
	}
	return &group, nil
}

func (r *pgContentRepository) ListGroupMembers(ctx context.Context, querier interfaces.DBTX, characterGroupID int64) ([]*models.CharacterGroupMember, error) {
	var members []*models.CharacterGroupMember
	if err := pgxscan.Select(ctx, querier, &members, listGroupMembersQuery, characterGroupID); err != nil {
		return nil, fmt.Errorf("failed to list members of group %d: %w", characterGroupID, err)
	}
	return members, nil
}

func (r *pgContentRepository) ListEndingsForAllGroups(ctx context.Context, querier interfaces.DBTX) (map[int64][]*models.Ending, error) {
	var endings []*models.Ending
	if err := pgxscan.Select(ctx, querier, &endings, listAllEndingsQuery); err != nil {
		return nil, fmt.Errorf("failed to list endings: %w", err)
	}
	byGroup := make(map[int64][]*models.Ending)
	for _, ending := range endings {
		byGroup[ending.CharacterGroupID] = append(byGroup[ending.CharacterGroupID], ending)
	}
	return byGroup, nil
}

func (r *pgContentRepository) ListBags(ctx context.Context, querier interfaces.DBTX) ([]*models.Bag, error) {
	var bags []*models.Bag
	if err := pgxscan.Select(ctx, querier, &bags, listBagsQuery); err != nil {
		return nil, fmt.Errorf("failed to list bags: %w", err)
	}
	return bags, nil
}

func (r *pgContentRepository) GetFirstBag(ctx context.Context, querier interfaces.DBTX) (*models.Bag, error) {
	var bag models.Bag
	err := pgxscan.Get(ctx, querier, &bag, getFirstBagQuery)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrBagNotFound
		}
		return nil, fmt.Errorf("failed to get default bag: %w", err)
	}
	return &bag, nil
}

func (r *pgContentRepository) ListStoreSections(ctx context.Context, querier interfaces.DBTX) ([]*models.StoreSection, error) {
	var sections []*models.StoreSection
	if err := pgxscan.Select(ctx, querier, &sections, listStoreSectionsQuery); err != nil {
		return nil, fmt.Errorf("failed to list store sections: %w", err)
	}
	for _, section := range sections {
		if err := pgxscan.Select(ctx, querier, &section.Items, listSectionItemsQuery, section.ID); err != nil {
			return nil, fmt.Errorf("failed to list items of section %d: %w", section.ID, err)
		}
		for _, item := range section.Items {
			if err := pgxscan.Select(ctx, querier, &item.CategoryIDs, listItemCategoryIDsQuery, item.ID); err != nil {
				return nil, fmt.Errorf("failed to list categories of item %d: %w", item.ID, err)
			}
		}
	}
	return sections, nil
}

func (r *pgContentRepository) GetItem(ctx context.Context, querier interfaces.DBTX, itemID int64) (*models.Item, error) {
	var item models.Item
	err := pgxscan.Get(ctx, querier, &item, getItemQuery, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item %d: %w", itemID, err)
	}
	if err := pgxscan.Select(ctx, querier, &item.CategoryIDs, listItemCategoryIDsQuery, itemID); err != nil {
		return nil, fmt.Errorf("failed to list categories of item %d: %w", itemID, err)
	}
	return &item, nil
}

func (r *pgContentRepository) ListCharacterEmotionImages(ctx context.Context, querier interfaces.DBTX) ([]*models.CharacterEmotionImage, error) {
	var images []*models.CharacterEmotionImage
	if err := pgxscan.Select(ctx, querier, &images, listEmotionImagesQuery); err != nil {
		return nil, fmt.Errorf("failed to list character emotion images: %w", err)
	}
	return images, nil
}

// nonNilIDs keeps ANY($n) well-typed when the caller owns nothing.
func nonNilIDs(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
