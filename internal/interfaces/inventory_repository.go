package interfaces

import (
	"context"

	"survival-server/internal/models"
)

// InventoryRepository persists (session, item) quantity rows. Rows never
// store zero: reaching zero deletes the row.
//
//go:generate mockery --name InventoryRepository --output ./mocks --outpkg mocks --case=underscore
type InventoryRepository interface {
	// GetQuantity returns the stored quantity, 0 when no row exists.
	GetQuantity(ctx context.Context, querier DBTX, sessionID, itemID int64) (int, error)

	// SetQuantity upserts the row with a positive quantity.
	SetQuantity(ctx context.Context, querier DBTX, sessionID, itemID int64, quantity int) error

	// Delete removes the row, tolerating its absence.
	Delete(ctx context.Context, querier DBTX, sessionID, itemID int64) error

	// ReplaceAll wipes and recreates the session's inventory.
	ReplaceAll(ctx context.Context, querier DBTX, sessionID int64, items []*models.InventoryRecord) error
}

// HistoryRepository appends audit rows. The engine only writes here.
//
//go:generate mockery --name HistoryRepository --output ./mocks --outpkg mocks --case=underscore
type HistoryRepository interface {
	AppendChoice(ctx context.Context, querier DBTX, record *models.ChoiceHistoryRecord) error
	AppendStatDelta(ctx context.Context, querier DBTX, record *models.StatHistoryRecord) error
}

// CharacterImageProvider resolves the character emotion image catalog,
// typically through a cache in front of the content repository.
//
//go:generate mockery --name CharacterImageProvider --output ./mocks --outpkg mocks --case=underscore
type CharacterImageProvider interface {
	GetCharacterImages(ctx context.Context) (models.CharacterImageLookup, error)
}

// SessionEventPublisher emits session lifecycle events for external
// consumers (notification service). Failures must not fail the request.
//
//go:generate mockery --name SessionEventPublisher --output ./mocks --outpkg mocks --case=underscore
type SessionEventPublisher interface {
	PublishSessionEnded(ctx context.Context, event models.SessionEndedEvent) error
}
