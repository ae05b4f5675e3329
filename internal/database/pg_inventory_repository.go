package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"survival-server/internal/interfaces"
	"survival-server/internal/models"
)

const (
	getInventoryQuantityQuery = `
        SELECT quantity FROM game_session_inventory WHERE session_id = $1 AND item_id = $2
    `
	upsertInventoryQuery = `
        INSERT INTO game_session_inventory (session_id, item_id, quantity)
        VALUES ($1, $2, $3)
        ON CONFLICT (session_id, item_id) DO UPDATE SET quantity = EXCLUDED.quantity
    `
	deleteInventoryRowQuery = `
        DELETE FROM game_session_inventory WHERE session_id = $1 AND item_id = $2
    `
	deleteSessionInventoryQuery = `DELETE FROM game_session_inventory WHERE session_id = $1`
)

// pgInventoryRepository implements InventoryRepository for PostgreSQL.
type pgInventoryRepository struct {
	logger *zap.Logger
}

var _ interfaces.InventoryRepository = (*pgInventoryRepository)(nil)

// NewPgInventoryRepository creates an inventory repository.
func NewPgInventoryRepository(logger *zap.Logger) interfaces.InventoryRepository {
	return &pgInventoryRepository{logger: logger.Named("PgInventoryRepo")}
}

func (r *pgInventoryRepository) GetQuantity(ctx context.Context, querier interfaces.DBTX, sessionID, itemID int64) (int, error) {
	var quantity int
	err := querier.QueryRow(ctx, getInventoryQuantityQuery, sessionID, itemID).Scan(&quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get quantity of item %d in session %d: %w", itemID, sessionID, err)
	}
	return quantity, nil
}

func (r *pgInventoryRepository) SetQuantity(ctx context.Context, querier interfaces.DBTX, sessionID, itemID int64, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("refusing to store non-positive quantity %d for item %d in session %d", quantity, itemID, sessionID)
	}
	if _, err := querier.Exec(ctx, upsertInventoryQuery, sessionID, itemID, quantity); err != nil {
		return fmt.Errorf("failed to set quantity of item %d in session %d: %w", itemID, sessionID, err)
	}
	return nil
}

func (r *pgInventoryRepository) Delete(ctx context.Context, querier interfaces.DBTX, sessionID, itemID int64) error {
	if _, err := querier.Exec(ctx, deleteInventoryRowQuery, sessionID, itemID); err != nil {
		return fmt.Errorf("failed to delete item %d from session %d: %w", itemID, sessionID, err)
	}
	return nil
}

func (r *pgInventoryRepository) ReplaceAll(ctx context.Context, querier interfaces.DBTX, sessionID int64, items []*models.InventoryRecord) error {
	if _, err := querier.Exec(ctx, deleteSessionInventoryQuery, sessionID); err != nil {
		return fmt.Errorf("failed to clear inventory for session %d: %w", sessionID, err)
	}
	for _, rec := range items {
		if rec.Quantity <= 0 {
			continue
		}
		if _, err := querier.Exec(ctx, upsertInventoryQuery, sessionID, rec.ItemID, rec.Quantity); err != nil {
			return fmt.Errorf("failed to insert item %d into session %d: %w", rec.ItemID, sessionID, err)
		}
	}
	return nil
}
