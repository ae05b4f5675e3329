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
	findActiveSessionQuery = `
        SELECT id, user_id, bag_id, bag_capacity_used, bag_confirmed_at, character_group_id,
               status, life_point, current_day_id, current_act_id, ending_id, ended_at,
               created_at, updated_at
        FROM game_sessions
        WHERE user_id = $1 AND status = 'IN_PROGRESS'
        ORDER BY created_at DESC
        LIMIT 1
    `
	getSessionByIDQuery = `
        SELECT id, user_id, bag_id, bag_capacity_used, bag_confirmed_at, character_group_id,
               status, life_point, current_day_id, current_act_id, ending_id, ended_at,
               created_at, updated_at
        FROM game_sessions
        WHERE id = $1
    `
	lockSessionQuery = `SELECT id FROM game_sessions WHERE id = $1 FOR UPDATE`

	advanceSessionQuery = `
        UPDATE game_sessions
        SET current_act_id = $2, current_day_id = $3, status = 'IN_PROGRESS', updated_at = NOW()
        WHERE id = $1
    `
	markSessionEndedQuery = `
        UPDATE game_sessions
        SET status = $2, current_act_id = NULL, current_day_id = $3, ending_id = $4,
            ended_at = NOW(), updated_at = NOW()
        WHERE id = $1
    `
	incrementLifePointQuery = `
        UPDATE game_sessions SET life_point = life_point + $2, updated_at = NOW() WHERE id = $1
    `
	addBagCapacityUsedQuery = `
        UPDATE game_sessions SET bag_capacity_used = bag_capacity_used + $2, updated_at = NOW() WHERE id = $1
    `
	incrementCharacterStatsQuery = `
        UPDATE playing_characters
        SET current_hp = current_hp + $2, current_mental = current_mental + $3
        WHERE id = $1
    `
	createSessionQuery = `
        INSERT INTO game_sessions (user_id, bag_id, status, life_point)
        VALUES ($1, $2, 'IN_PROGRESS', 0)
        RETURNING id
    `
	terminateActiveSessionsQuery = `
        UPDATE game_sessions
        SET status = 'GIVE_UP', current_act_id = NULL, ended_at = NOW(), updated_at = NOW()
        WHERE user_id = $1 AND status = 'IN_PROGRESS'
    `
	upsertCharacterSetQuery = `
        INSERT INTO playing_character_sets (game_session_id, character_group_id)
        VALUES ($1, $2)
        ON CONFLICT (game_session_id) DO UPDATE SET character_group_id = EXCLUDED.character_group_id
        RETURNING id
    `
	setSessionGroupQuery = `
        UPDATE game_sessions SET character_group_id = $2, updated_at = NOW() WHERE id = $1
    `
	deleteSetCharactersQuery = `DELETE FROM playing_characters WHERE playing_character_set_id = $1`
	insertPlayingCharQuery   = `
        INSERT INTO playing_characters (playing_character_set_id, character_id, current_hp, current_mental)
        VALUES ($1, $2, $3, $4)
    `
	setBagAndConfirmQuery = `
        UPDATE game_sessions
        SET bag_id = $2, bag_confirmed_at = NOW(), updated_at = NOW()
        WHERE id = $1
    `
	getSessionForUserQuery = `
        SELECT id, user_id, bag_id, bag_capacity_used, bag_confirmed_at, character_group_id,
               status, life_point, current_day_id, current_act_id, ending_id, ended_at,
               created_at, updated_at
        FROM game_sessions
        WHERE id = $1 AND user_id = $2
    `

	getCharacterSetQuery = `
        SELECT id, game_session_id, character_group_id
        FROM playing_character_sets
        WHERE game_session_id = $1
    `
	getPlayingCharactersQuery = `
        SELECT pc.id, pc.playing_character_set_id, pc.character_id, pc.current_hp, pc.current_mental,
               c.id AS "character.id", c.code AS "character.code", c.name AS "character.name",
               c.age AS "character.age", c.description AS "character.description",
               c.select_image AS "character.select_image", c.portrait_image AS "character.portrait_image",
               c.default_hp AS "character.default_hp", c.default_mental AS "character.default_mental"
        FROM playing_characters pc
        JOIN characters c ON c.id = pc.character_id
        WHERE pc.playing_character_set_id = $1
        ORDER BY pc.id
    `
	getInventoryQuery = `
        SELECT inv.session_id, inv.item_id, inv.quantity,
               i.id AS "item.id", i.name AS "item.name", i.image AS "item.image",
               i.capacity_cost AS "item.capacity_cost", i.is_consumable AS "item.is_consumable",
               i.store_section_id AS "item.store_section_id", i.is_visible AS "item.is_visible",
               i.position_x AS "item.position_x", i.position_y AS "item.position_y"
        FROM game_session_inventory inv
        JOIN items i ON i.id = inv.item_id
        WHERE inv.session_id = $1
        ORDER BY inv.item_id
    `

	listInventoryCategoriesQuery = `
        SELECT item_id, item_category_id
        FROM item_to_category
        WHERE item_id = ANY($1)
        ORDER BY item_id, item_category_id
    `

	getChoiceHistoryQuery = `
        SELECT id, session_id, act_id, choice_option_id, item_id, created_at
        FROM game_session_choice_history
        WHERE session_id = $1
        ORDER BY created_at, id
    `
	getStatHistoryQuery = `
        SELECT id, session_id, stat_type, target_character_id, delta, created_at
        FROM session_stat_history
        WHERE session_id = $1
        ORDER BY created_at, id
    `

	listTerminalSessionsQuery = `
        SELECT id, user_id, bag_id, bag_capacity_used, bag_confirmed_at, character_group_id,
               status, life_point, current_day_id, current_act_id, ending_id, ended_at,
               created_at, updated_at
        FROM game_sessions
        WHERE user_id = $1 AND status != 'IN_PROGRESS'
        ORDER BY ended_at DESC NULLS LAST, id DESC
        OFFSET $2 LIMIT $3
    `
	countTerminalSessionsQuery = `
        SELECT COUNT(*) FROM game_sessions WHERE user_id = $1 AND status != 'IN_PROGRESS'
    `
	listSessionsWithEndingsQuery = `
        SELECT id, user_id, bag_id, bag_capacity_used, bag_confirmed_at, character_group_id,
               status, life_point, current_day_id, current_act_id, ending_id, ended_at,
               created_at, updated_at
        FROM game_sessions
        WHERE user_id = $1 AND ending_id IS NOT NULL
        ORDER BY ended_at DESC NULLS LAST, id DESC
    `
	collectedEndingIDsQuery = `
        SELECT DISTINCT ending_id FROM game_sessions
        WHERE user_id = $1 AND ending_id IS NOT NULL
    `

	// XP accumulates over every finished session, a game over included.
	// Each session scores life point plus the cast's remaining HP and
	// Mental; the per-user totals are densely ranked.
	rankingQuery = `
        WITH session_xp AS (
            SELECT gs.id, gs.user_id,
                   COALESCE(gs.life_point, 0)
                   + COALESCE((
                       SELECT SUM(COALESCE(pc.current_hp, 0) + COALESCE(pc.current_mental, 0))
                       FROM playing_character_sets pcs
                       JOIN playing_characters pc ON pc.playing_character_set_id = pcs.id
                       WHERE pcs.game_session_id = gs.id
                   ), 0) AS xp
            FROM game_sessions gs
            WHERE gs.status != 'IN_PROGRESS'
        ),
        totals AS (
            SELECT user_id, SUM(xp) AS total_xp
            FROM session_xp
            GROUP BY user_id
        )
        SELECT t.user_id, u.nickname, t.total_xp,
               DENSE_RANK() OVER (ORDER BY t.total_xp DESC) AS ranking
        FROM totals t
        LEFT JOIN users u ON u.id = t.user_id
        ORDER BY ranking, t.user_id
    `
)

// pgSessionRepository implements SessionRepository for PostgreSQL.
type pgSessionRepository struct {
	logger *zap.Logger
}

var _ interfaces.SessionRepository = (*pgSessionRepository)(nil)

// NewPgSessionRepository creates a session repository.
func NewPgSessionRepository(logger *zap.Logger) interfaces.SessionRepository {
	return &pgSessionRepository{logger: logger.Named("PgSessionRepo")}
}

func (r *pgSessionRepository) FindActiveByUserID(ctx context.Context, querier interfaces.DBTX, userID int64) (*models.SessionState, error) {
	var session models.GameSession
	err := pgxscan.Get(ctx, querier, &session, findActiveSessionQuery, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrSessionNotFound
		}
		r.logger.Error("Failed to find active session", zap.Int64("userID", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to find active session for user %d: %w", userID, err)
	}
	return r.loadState(ctx, querier, &session)
}

func (r *pgSessionRepository) GetStateByID(ctx context.Context, querier interfaces.DBTX, sessionID int64) (*models.SessionState, error) {
	var session models.GameSession
	err := pgxscan.Get(ctx, querier, &session, getSessionByIDQuery, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrSessionNotFound
		}
		r.logger.Error("Failed to get session", zap.Int64("sessionID", sessionID), zap.Error(err))
		return nil, fmt.Errorf("failed to get session %d: %w", sessionID, err)
	}
	return r.loadState(ctx, querier, &session)
}

// loadState hydrates the aggregate around an already fetched session row.
func (r *pgSessionRepository) loadState(ctx context.Context, querier interfaces.DBTX, session *models.GameSession) (*models.SessionState, error) {
	state := &models.SessionState{Session: *session}

	var set models.PlayingCharacterSet
	err := pgxscan.Get(ctx, querier, &set, getCharacterSetQuery, session.ID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to load character set for session %d: %w", session.ID, err)
	}
	if err == nil {
		state.CharacterSet = &set
		if err := pgxscan.Select(ctx, querier, &state.Characters, getPlayingCharactersQuery, set.ID); err != nil {
			return nil, fmt.Errorf("failed to load playing characters for set %d: %w", set.ID, err)
		}
	}

	if err := pgxscan.Select(ctx, querier, &state.Inventory, getInventoryQuery, session.ID); err != nil {
		return nil, fmt.Errorf("failed to load inventory for session %d: %w", session.ID, err)
	}
	if err := r.hydrateInventoryCategories(ctx, querier, state.Inventory); err != nil {
		return nil, err
	}

	if session.CharacterGroupID != nil {
		var group models.CharacterGroup
		err := pgxscan.Get(ctx, querier, &group, getCharacterGroupQuery, *session.CharacterGroupID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to load character group %d: %w", *session.CharacterGroupID, err)
		}
		if err == nil {
			state.CharacterGroup = &group
		}
	}

	if session.CurrentDayID != nil {
		var day models.Day
		err := pgxscan.Get(ctx, querier, &day, getDayQuery, *session.CurrentDayID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to load day %d: %w", *session.CurrentDayID, err)
		}
		if err == nil {
			state.CurrentDay = &day
		}
	}

	return state, nil
}

// hydrateInventoryCategories fills Item.CategoryIDs for the loaded rows.
// The column is not part of the items table, and item-choice option
// matching depends on it.
func (r *pgSessionRepository) hydrateInventoryCategories(ctx context.Context, querier interfaces.DBTX, inventory []*models.InventoryRecord) error {
	if len(inventory) == 0 {
		return nil
	}

	itemIDs := make([]int64, 0, len(inventory))
	for _, rec := range inventory {
		itemIDs = append(itemIDs, rec.ItemID)
	}

	var rows []struct {
		ItemID         int64 `db:"item_id"`
		ItemCategoryID int64 `db:"item_category_id"`
	}
	if err := pgxscan.Select(ctx, querier, &rows, listInventoryCategoriesQuery, itemIDs); err != nil {
		return fmt.Errorf("failed to load inventory item categories: %w", err)
	}

	byItem := make(map[int64][]int64, len(inventory))
	for _, row := range rows {
		byItem[row.ItemID] = append(byItem[row.ItemID], row.ItemCategoryID)
	}
	for _, rec := range inventory {
		rec.Item.CategoryIDs = byItem[rec.ItemID]
	}
	return nil
}

func (r *pgSessionRepository) LockByID(ctx context.Context, querier interfaces.DBTX, sessionID int64) error {
	var id int64
	err := querier.QueryRow(ctx, lockSessionQuery, sessionID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrSessionNotFound
		}
		return fmt.Errorf("failed to lock session %d: %w", sessionID, err)
	}
	return nil
}

func (r *pgSessionRepository) AdvancePointers(ctx context.Context, querier interfaces.DBTX, sessionID, actID, dayID int64) error {
	tag, err := querier.Exec(ctx, advanceSessionQuery, sessionID, actID, dayID)
	if err != nil {
		r.logger.Error("Failed to advance session pointers", zap.Int64("sessionID", sessionID), zap.Error(err))
		return fmt.Errorf("failed to advance session %d: %w", sessionID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrSessionNotFound
	}
	return nil
}

func (r *pgSessionRepository) MarkEnded(ctx context.Context, querier interfaces.DBTX, sessionID int64, status models.SessionStatus, currentDayID, endingID *int64) error {
	tag, err := querier.Exec(ctx, markSessionEndedQuery, sessionID, status, currentDayID, endingID)
	if err != nil {
		r.logger.Error("Failed to mark session ended",
			zap.Int64("sessionID", sessionID),
			zap.String("status", string(status)),
			zap.Error(err))
		return fmt.Errorf("failed to mark session %d ended: %w", sessionID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrSessionNotFound
	}
	r.logger.Info("Session marked ended",
		zap.Int64("sessionID", sessionID),
		zap.String("status", string(status)))
	return nil
}

func (r *pgSessionRepository) IncrementLifePoint(ctx context.Context, querier interfaces.DBTX, sessionID int64, delta int) error {
	if _, err := querier.Exec(ctx, incrementLifePointQuery, sessionID, delta); err != nil {
		return fmt.Errorf("failed to increment life point for session %d: %w", sessionID, err)
	}
	return nil
}

func (r *pgSessionRepository) AddBagCapacityUsed(ctx context.Context, querier interfaces.DBTX, sessionID int64, delta int) error {
	if _, err := querier.Exec(ctx, addBagCapacityUsedQuery, sessionID, delta); err != nil {
		return fmt.Errorf("failed to add bag capacity used for session %d: %w", sessionID, err)
	}
	return nil
}

func (r *pgSessionRepository) IncrementCharacterStats(ctx context.Context, querier interfaces.DBTX, playingCharacterID int64, hpDelta, mentalDelta int) error {
	if _, err := querier.Exec(ctx, incrementCharacterStatsQuery, playingCharacterID, hpDelta, mentalDelta); err != nil {
		return fmt.Errorf("failed to increment stats for playing character %d: %w", playingCharacterID, err)
	}
	return nil
}

func (r *pgSessionRepository) Create(ctx context.Context, querier interfaces.DBTX, userID, bagID int64) (int64, error) {
	var id int64
	if err := querier.QueryRow(ctx, createSessionQuery, userID, bagID).Scan(&id); err != nil {
		r.logger.Error("Failed to create session", zap.Int64("userID", userID), zap.Error(err))
		return 0, fmt.Errorf("failed to create session for user %d: %w", userID, err)
	}
	r.logger.Info("Session created", zap.Int64("sessionID", id), zap.Int64("userID", userID))
	return id, nil
}

func (r *pgSessionRepository) TerminateActive(ctx context.Context, querier interfaces.DBTX, userID int64) error {
	tag, err := querier.Exec(ctx, terminateActiveSessionsQuery, userID)
	if err != nil {
		return fmt.Errorf("failed to terminate active sessions for user %d: %w", userID, err)
	}
	if tag.RowsAffected() > 0 {
		r.logger.Info("Active sessions terminated",
			zap.Int64("userID", userID),
			zap.Int64("count", tag.RowsAffected()))
	}
	return nil
}

func (r *pgSessionRepository) UpsertCharacterSet(ctx context.Context, querier interfaces.DBTX, sessionID, characterGroupID int64) (int64, error) {
	var setID int64
	if err := querier.QueryRow(ctx, upsertCharacterSetQuery, sessionID, characterGroupID).Scan(&setID); err != nil {
		return 0, fmt.Errorf("failed to upsert character set for session %d: %w", sessionID, err)
	}
	if _, err := querier.Exec(ctx, setSessionGroupQuery, sessionID, characterGroupID); err != nil {
		return 0, fmt.Errorf("failed to record character group on session %d: %w", sessionID, err)
	}
	return setID, nil
}

func (r *pgSessionRepository) ReplaceCharacters(ctx context.Context, querier interfaces.DBTX, setID int64, members []*models.CharacterGroupMember) error {
	if _, err := querier.Exec(ctx, deleteSetCharactersQuery, setID); err != nil {
		return fmt.Errorf("failed to clear characters for set %d: %w", setID, err)
	}
	for _, m := range members {
		_, err := querier.Exec(ctx, insertPlayingCharQuery,
			setID, m.CharacterID, m.Character.DefaultHP, m.Character.DefaultMental)
		if err != nil {
			return fmt.Errorf("failed to insert playing character %d for set %d: %w", m.CharacterID, setID, err)
		}
	}
	return nil
}

func (r *pgSessionRepository) SetBagAndConfirm(ctx context.Context, querier interfaces.DBTX, sessionID, bagID int64) error {
	tag, err := querier.Exec(ctx, setBagAndConfirmQuery, sessionID, bagID)
	if err != nil {
		return fmt.Errorf("failed to confirm bag for session %d: %w", sessionID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrSessionNotFound
	}
	return nil
}

func (r *pgSessionRepository) GetReportData(ctx context.Context, querier interfaces.DBTX, sessionID, userID int64) (*models.SessionReportData, error) {
	var session models.GameSession
	err := pgxscan.Get(ctx, querier, &session, getSessionForUserQuery, sessionID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session %d for user %d: %w", sessionID, userID, err)
	}

	state, err := r.loadState(ctx, querier, &session)
	if err != nil {
		return nil, err
	}

	data := &models.SessionReportData{State: *state}

	var bag models.Bag
	err = pgxscan.Get(ctx, querier, &bag, getBagQuery, session.BagID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to load bag %d: %w", session.BagID, err)
	}
	if err == nil {
		data.Bag = &bag
	}

	if session.EndingID != nil {
		var ending models.Ending
		err = pgxscan.Get(ctx, querier, &ending, getEndingQuery, *session.EndingID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to load ending %d: %w", *session.EndingID, err)
		}
		if err == nil {
			data.Ending = &ending
		}
	}

	if err := pgxscan.Select(ctx, querier, &data.ChoiceHistory, getChoiceHistoryQuery, sessionID); err != nil {
		return nil, fmt.Errorf("failed to load choice history for session %d: %w", sessionID, err)
	}
	if err := pgxscan.Select(ctx, querier, &data.StatHistory, getStatHistoryQuery, sessionID); err != nil {
		return nil, fmt.Errorf("failed to load stat history for session %d: %w", sessionID, err)
	}

	return data, nil
}

func (r *pgSessionRepository) ListTerminalOutcomes(ctx context.Context, querier interfaces.DBTX, userID int64, offset, limit int) ([]*models.SessionOutcome, error) {
	var sessions []*models.GameSession
	if err := pgxscan.Select(ctx, querier, &sessions, listTerminalSessionsQuery, userID, offset, limit); err != nil {
		return nil, fmt.Errorf("failed to list finished sessions for user %d: %w", userID, err)
	}
	return r.loadOutcomes(ctx, querier, sessions)
}

func (r *pgSessionRepository) CountTerminal(ctx context.Context, querier interfaces.DBTX, userID int64) (int, error) {
	var count int
	if err := querier.QueryRow(ctx, countTerminalSessionsQuery, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count finished sessions for user %d: %w", userID, err)
	}
	return count, nil
}

func (r *pgSessionRepository) ListOutcomesWithEndings(ctx context.Context, querier interfaces.DBTX, userID int64) ([]*models.SessionOutcome, error) {
	var sessions []*models.GameSession
	if err := pgxscan.Select(ctx, querier, &sessions, listSessionsWithEndingsQuery, userID); err != nil {
		return nil, fmt.Errorf("failed to list ended sessions for user %d: %w", userID, err)
	}
	return r.loadOutcomes(ctx, querier, sessions)
}

// loadOutcomes attaches endings, groups and cast to finished session rows.
func (r *pgSessionRepository) loadOutcomes(ctx context.Context, querier interfaces.DBTX, sessions []*models.GameSession) ([]*models.SessionOutcome, error) {
	outcomes := make([]*models.SessionOutcome, 0, len(sessions))
	for _, session := range sessions {
		outcome := &models.SessionOutcome{Session: *session}

		if session.EndingID != nil {
			var ending models.Ending
			err := pgxscan.Get(ctx, querier, &ending, getEndingQuery, *session.EndingID)
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("failed to load ending %d: %w", *session.EndingID, err)
			}
			if err == nil {
				outcome.Ending = &ending
			}
		}
		if session.CharacterGroupID != nil {
			var group models.CharacterGroup
			err := pgxscan.Get(ctx, querier, &group, getCharacterGroupQuery, *session.CharacterGroupID)
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("failed to load character group %d: %w", *session.CharacterGroupID, err)
			}
			if err == nil {
				outcome.CharacterGroup = &group
			}
		}

		var set models.PlayingCharacterSet
		err := pgxscan.Get(ctx, querier, &set, getCharacterSetQuery, session.ID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to load character set for session %d: %w", session.ID, err)
		}
		if err == nil {
			if err := pgxscan.Select(ctx, querier, &outcome.Characters, getPlayingCharactersQuery, set.ID); err != nil {
				return nil, fmt.Errorf("failed to load playing characters for set %d: %w", set.ID, err)
			}
		}

		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (r *pgSessionRepository) RankingRows(ctx context.Context, querier interfaces.DBTX) ([]*models.RankingRow, error) {
	var rows []*models.RankingRow
	if err := pgxscan.Select(ctx, querier, &rows, rankingQuery); err != nil {
		return nil, fmt.Errorf("failed to compute ranking: %w", err)
	}
	return rows, nil
}

func (r *pgSessionRepository) CollectedEndingIDs(ctx context.Context, querier interfaces.DBTX, userID int64) ([]int64, error) {
	var ids []int64
	if err := pgxscan.Select(ctx, querier, &ids, collectedEndingIDsQuery, userID); err != nil {
		return nil, fmt.Errorf("failed to load collected endings for user %d: %w", userID, err)
	}
	return ids, nil
}
