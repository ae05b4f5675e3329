package mocks

import (
	"context"

	"survival-server/internal/interfaces"
	"survival-server/internal/models"

	"github.com/stretchr/testify/mock"
)

// Mock InventoryRepository
type InventoryRepository struct {
	mock.Mock
}

var _ interfaces.InventoryRepository = (*InventoryRepository)(nil)

func (m *InventoryRepository) GetQuantity(ctx context.Context, querier interfaces.DBTX, sessionID, itemID int64) (int, error) {
	args := m.Called(ctx, querier, sessionID, itemID)
	return args.Int(0), args.Error(1)
}

func (m *InventoryRepository) SetQuantity(ctx context.Context, querier interfaces.DBTX, sessionID, itemID int64, quantity int) error {
	args := m.Called(ctx, querier, sessionID, itemID, quantity)
	return args.Error(0)
}

func (m *InventoryRepository) Delete(ctx context.Context, querier interfaces.DBTX, sessionID, itemID int64) error {
	args := m.Called(ctx, querier, sessionID, itemID)
	return args.Error(0)
}

func (m *InventoryRepository) ReplaceAll(ctx context.Context, querier interfaces.DBTX, sessionID int64, items []*models.InventoryRecord) error {
	args := m.Called(ctx, querier, sessionID, items)
	return args.Error(0)
}

// Mock HistoryRepository
type HistoryRepository struct {
	mock.Mock
}

var _ interfaces.HistoryRepository = (*HistoryRepository)(nil)

func (m *HistoryRepository) AppendChoice(ctx context.Context, querier interfaces.DBTX, record *models.ChoiceHistoryRecord) error {
	args := m.Called(ctx, querier, record)
	return args.Error(0)
}

func (m *HistoryRepository) AppendStatDelta(ctx context.Context, querier interfaces.DBTX, record *models.StatHistoryRecord) error {
	args := m.Called(ctx, querier, record)
	return args.Error(0)
}

// Mock CharacterImageProvider
type CharacterImageProvider struct {
	mock.Mock
}

var _ interfaces.CharacterImageProvider = (*CharacterImageProvider)(nil)

func (m *CharacterImageProvider) GetCharacterImages(ctx context.Context) (models.CharacterImageLookup, error) {
	args := m.Called(ctx)
	var lookup models.CharacterImageLookup
	if args.Get(0) != nil {
		lookup = args.Get(0).(models.CharacterImageLookup)
	}
	return lookup, args.Error(1)
}

// Mock SessionEventPublisher
type SessionEventPublisher struct {
	mock.Mock
}

var _ interfaces.SessionEventPublisher = (*SessionEventPublisher)(nil)

func (m *SessionEventPublisher) PublishSessionEnded(ctx context.Context, event models.SessionEndedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// Mock TxManager. The callback runs inline against the configured querier
// so service tests exercise their transactional path without a database.
type TxManager struct {
	mock.Mock
	Querier interfaces.DBTX
}

var _ interfaces.TxManager = (*TxManager)(nil)

func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx interfaces.DBTX) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m.Querier)
}
