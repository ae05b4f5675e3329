package mocks

import (
	"context"

	"survival-server/internal/service"

	"github.com/stretchr/testify/mock"
)

// SessionService is a mock of service.SessionService.
type SessionService struct {
	mock.Mock
}

var _ service.SessionService = (*SessionService)(nil)

func (m *SessionService) ExecuteNextAct(ctx context.Context, userID int64, req *service.NextActRequest) (*service.NextActResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) != nil {
		return args.Get(0).(*service.NextActResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionService) PlayIntro(ctx context.Context, userID int64, introMode int) (*service.IntroResponse, error) {
	args := m.Called(ctx, userID, introMode)
	if args.Get(0) != nil {
		return args.Get(0).(*service.IntroResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// GameService is a mock of service.GameService.
type GameService struct {
	mock.Mock
}

var _ service.GameService = (*GameService)(nil)

func (m *GameService) GetSessionSnapshot(ctx context.Context, userID int64) (*service.SessionSnapshot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*service.SessionSnapshot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GameService) CreateOrResetSession(ctx context.Context, userID int64) (*service.SessionSnapshot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*service.SessionSnapshot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GameService) ListCharacterGroups(ctx context.Context) ([]*service.CharacterGroupView, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]*service.CharacterGroupView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GameService) SelectCharacterSet(ctx context.Context, userID, characterGroupID int64) (*service.SessionSnapshot, error) {
	args := m.Called(ctx, userID, characterGroupID)
	if args.Get(0) != nil {
		return args.Get(0).(*service.SessionSnapshot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GameService) GetSetupInfo(ctx context.Context) (*service.SetupInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).(*service.SetupInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GameService) ConfirmInventory(ctx context.Context, userID int64, req *service.ConfirmInventoryRequest) (*service.SessionSnapshot, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) != nil {
		return args.Get(0).(*service.SessionSnapshot), args.Error(1)
	}
	return nil, args.Error(1)
}

// ReportService is a mock of service.ReportService.
type ReportService struct {
	mock.Mock
}

var _ service.ReportService = (*ReportService)(nil)

func (m *ReportService) GetSessionReport(ctx context.Context, sessionID, userID int64) (*service.SessionReport, error) {
	args := m.Called(ctx, sessionID, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*service.SessionReport), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReportService) GetRanking(ctx context.Context, userID int64) (*service.RankingSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*service.RankingSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReportService) GetEndingCollection(ctx context.Context, userID int64) ([]*service.EndingCollectionGroup, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]*service.EndingCollectionGroup), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReportService) GetHistory(ctx context.Context, userID int64, page, size int) (*service.HistoryPage, error) {
	args := m.Called(ctx, userID, page, size)
	if args.Get(0) != nil {
		return args.Get(0).(*service.HistoryPage), args.Error(1)
	}
	return nil, args.Error(1)
}
