package database

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"survival-server/internal/interfaces"
	"survival-server/internal/models"
)

const (
	appendChoiceHistoryQuery = `
        INSERT INTO game_session_choice_history (session_id, act_id, choice_option_id, item_id)
        VALUES ($1, $2, $3, $4)
    `
	appendStatHistoryQuery = `
        INSERT INTO session_stat_history (session_id, stat_type, target_character_id, delta)
        VALUES ($1, $2, $3, $4)
    `
)

// pgHistoryRepository implements HistoryRepository for PostgreSQL.
type pgHistoryRepository struct {
	logger *zap.Logger
}

var _ interfaces.HistoryRepository = (*pgHistoryRepository)(nil)

// NewPgHistoryRepository creates a history repository.
func NewPgHistoryRepository(logger *zap.Logger) interfaces.HistoryRepository {
	return &pgHistoryRepository{logger: logger.Named("PgHistoryRepo")}
}

func (r *pgHistoryRepository) AppendChoice(ctx context.Context, querier interfaces.DBTX, record *models.ChoiceHistoryRecord) error {
	_, err := querier.Exec(ctx, appendChoiceHistoryQuery,
		record.SessionID, record.ActID, record.ChoiceOptionID, record.ItemID)
	if err != nil {
		return fmt.Errorf("failed to append choice history for session %d: %w", record.SessionID, err)
	}
	return nil
}

func (r *pgHistoryRepository) AppendStatDelta(ctx context.Context, querier interfaces.DBTX, record *models.StatHistoryRecord) error {
	_, err := querier.Exec(ctx, appendStatHistoryQuery,
		record.SessionID, record.StatType, record.TargetCharacterID, record.Delta)
	if err != nil {
		return fmt.Errorf("failed to append stat history for session %d: %w", record.SessionID, err)
	}
	return nil
}
