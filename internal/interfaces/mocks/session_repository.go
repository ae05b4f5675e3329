package mocks

import (
	"context"

	"survival-server/internal/interfaces"
	"survival-server/internal/models"

	"github.com/stretchr/testify/mock"
)

// Mock SessionRepository
type SessionRepository struct {
	mock.Mock
}

var _ interfaces.SessionRepository = (*SessionRepository)(nil)

func (m *SessionRepository) FindActiveByUserID(ctx context.Context, querier interfaces.DBTX, userID int64) (*models.SessionState, error) {
	args := m.Called(ctx, querier, userID)
	var state *models.SessionState
	if args.Get(0) != nil {
		state = args.Get(0).(*models.SessionState)
	}
	return state, args.Error(1)
}

func (m *SessionRepository) GetStateByID(ctx context.Context, querier interfaces.DBTX, sessionID int64) (*models.SessionState, error) {
	args := m.Called(ctx, querier, sessionID)
	var state *models.SessionState
	if args.Get(0) != nil {
		state = args.Get(0).(*models.SessionState)
	}
	return state, args.Error(1)
}

func (m *SessionRepository) LockByID(ctx context.Context, querier interfaces.DBTX, sessionID int64) error {
	args := m.Called(ctx, querier, sessionID)
	return args.Error(0)
}

func (m *SessionRepository) AdvancePointers(ctx context.Context, querier interfaces.DBTX, sessionID, actID, dayID int64) error {
	args := m.Called(ctx, querier, sessionID, actID, dayID)
	return args.Error(0)
}

func (m *SessionRepository) MarkEnded(ctx context.Context, querier interfaces.DBTX, sessionID int64, status models.SessionStatus, currentDayID, endingID *int64) error {
	args := m.Called(ctx, querier, sessionID, status, currentDayID, endingID)
	return args.Error(0)
}

func (m *SessionRepository) IncrementLifePoint(ctx context.Context, querier interfaces.DBTX, sessionID int64, delta int) error {
	args := m.Called(ctx, querier, sessionID, delta)
	return args.Error(0)
}

func (m *SessionRepository) AddBagCapacityUsed(ctx context.Context, querier interfaces.DBTX, sessionID int64, delta int) error {
	args := m.Called(ctx, querier, sessionID, delta)
	return args.Error(0)
}

func (m *SessionRepository) IncrementCharacterStats(ctx context.Context, querier interfaces.DBTX, playingCharacterID int64, hpDelta, mentalDelta int) error {
	args := m.Called(ctx, querier, playingCharacterID, hpDelta, mentalDelta)
	return args.Error(0)
}

func (m *SessionRepository) Create(ctx context.Context, querier interfaces.DBTX, userID, bagID int64) (int64, error) {
	args := m.Called(ctx, querier, userID, bagID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SessionRepository) TerminateActive(ctx context.Context, querier interfaces.DBTX, userID int64) error {
	args := m.Called(ctx, querier, userID)
	return args.Error(0)
}

func (m *SessionRepository) UpsertCharacterSet(ctx context.Context, querier interfaces.DBTX, sessionID, characterGroupID int64) (int64, error) {
	args := m.Called(ctx, querier, sessionID, characterGroupID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SessionRepository) ReplaceCharacters(ctx context.Context, querier interfaces.DBTX, setID int64, members []*models.CharacterGroupMember) error {
	args := m.Called(ctx, querier, setID, members)
	return args.Error(0)
}

func (m *SessionRepository) SetBagAndConfirm(ctx context.Context, querier interfaces.DBTX, sessionID, bagID int64) error {
	args := m.Called(ctx, querier, sessionID, bagID)
	return args.Error(0)
}

func (m *SessionRepository) GetReportData(ctx context.Context, querier interfaces.DBTX, sessionID, userID int64) (*models.SessionReportData, error) {
	args := m.Called(ctx, querier, sessionID, userID)
	var data *models.SessionReportData
	if args.Get(0) != nil {
		data = args.Get(0).(*models.SessionReportData)
	}
	return data, args.Error(1)
}

func (m *SessionRepository) ListTerminalOutcomes(ctx context.Context, querier interfaces.DBTX, userID int64, offset, limit int) ([]*models.SessionOutcome, error) {
	args := m.Called(ctx, querier, userID, offset, limit)
	var outcomes []*models.SessionOutcome
	if args.Get(0) != nil {
		outcomes = args.Get(0).([]*models.SessionOutcome)
	}
	return outcomes, args.Error(1)
}

func (m *SessionRepository) CountTerminal(ctx context.Context, querier interfaces.DBTX, userID int64) (int, error) {
	args := m.Called(ctx, querier, userID)
	return args.Int(0), args.Error(1)
}

func (m *SessionRepository) ListOutcomesWithEndings(ctx context.Context, querier interfaces.DBTX, userID int64) ([]*models.SessionOutcome, error) {
	args := m.Called(ctx, querier, userID)
	var outcomes []*models.SessionOutcome
	if args.Get(0) != nil {
		outcomes = args.Get(0).([]*models.SessionOutcome)
	}
	return outcomes, args.Error(1)
}

func (m *SessionRepository) RankingRows(ctx context.Context, querier interfaces.DBTX) ([]*models.RankingRow, error) {
	args := m.Called(ctx, querier)
	var rows []*models.RankingRow
	if args.Get(0) != nil {
		rows = args.Get(0).([]*models.RankingRow)
	}
	return rows, args.Error(1)
}

func (m *SessionRepository) CollectedEndingIDs(ctx context.Context, querier interfaces.DBTX, userID int64) ([]int64, error) {
	args := m.Called(ctx, querier, userID)
	var ids []int64
	if args.Get(0) != nil {
		ids = args.Get(0).([]int64)
	}
	return ids, args.Error(1)
}
