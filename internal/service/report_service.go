package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"survival-server/internal/interfaces"
	"survival-server/internal/models"
)

// ReportService serves the post-hoc read models: result reports, the
// global ranking, the ending collection and play history. Everything here
// projects already-computed session state; nothing mutates.
type ReportService interface {
	GetSessionReport(ctx context.Context, sessionID, userID int64) (*SessionReport, error)
	GetRanking(ctx context.Context, userID int64) (*RankingSummary, error)
	GetEndingCollection(ctx context.Context, userID int64) ([]*EndingCollectionGroup, error)
	GetHistory(ctx context.Context, userID int64, page, size int) (*HistoryPage, error)
}

type reportServiceImpl struct {
	db          interfaces.DBTX
	sessionRepo interfaces.SessionRepository
	contentRepo interfaces.ContentRepository
	logger      *zap.Logger
}

var _ ReportService = (*reportServiceImpl)(nil)

// NewReportService creates the reporting read service.
func NewReportService(
	db interfaces.DBTX,
	sessionRepo interfaces.SessionRepository,
	contentRepo interfaces.ContentRepository,
	logger *zap.Logger,
) ReportService {
	return &reportServiceImpl{
		db:          db,
		sessionRepo: sessionRepo,
		contentRepo: contentRepo,
		logger:      logger.Named("ReportService"),
	}
}

func (s *reportServiceImpl) GetSessionReport(ctx context.Context, sessionID, userID int64) (*SessionReport, error) {
	data, err := s.sessionRepo.GetReportData(ctx, s.db, sessionID, userID)
	if err != nil {
		return nil, err
	}
	status := data.State.Session.Status
	if status == models.SessionStatusInProgress || status == models.SessionStatusGameOver {
		return nil, models.ErrReportNotAvailable
	}
	if data.Ending == nil && status == models.SessionStatusSuddenDeath {
		data.Ending = s.deathEndingForDisplay(ctx, &data.State)
	}
	return assembleReport(data), nil
}

// deathEndingForDisplay resolves the group's authored death ending when a
// sudden-death session recorded none, so the report still shows a result.
func (s *reportServiceImpl) deathEndingForDisplay(ctx context.Context, state *models.SessionState) *models.Ending {
	group := state.CharacterGroup
	if group == nil || group.DeathEndingIndex == nil {
		return nil
	}
	ending, err := s.contentRepo.GetEndingByPriority(ctx, s.db, group.ID, *group.DeathEndingIndex)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Warn("Failed to load death ending for report display",
				zap.Int64("characterGroupID", group.ID), zap.Error(err))
		}
		return nil
	}
	return &ending.Ending
}

// rankingTopSize is how many leaders the ranking response carries.
const rankingTopSize = 5

func (s *reportServiceImpl) GetRanking(ctx context.Context, userID int64) (*RankingSummary, error) {
	rows, err := s.sessionRepo.RankingRows(ctx, s.db)
	if err != nil {
		return nil, err
	}

	summary := &RankingSummary{Top: make([]*RankingEntry, 0, rankingTopSize)}
	for _, row := range rows {
		entry := &RankingEntry{
			UserID:   row.UserID,
			Nickname: row.Nickname,
			TotalXP:  row.TotalXP,
			Ranking:  row.Ranking,
			IsMe:     row.UserID == userID,
		}
		if len(summary.Top) < rankingTopSize {
			summary.Top = append(summary.Top, entry)
		}
		if entry.IsMe {
			summary.Me = entry
		}
	}

	bestEndings, err := s.bestEndingsByGroup(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary.BestEndings = bestEndings
	return summary, nil
}

// bestEndingsByGroup picks the caller's best recorded ending for each
// character group they finished a run with. Lower priority wins.
func (s *reportServiceImpl) bestEndingsByGroup(ctx context.Context, userID int64) ([]*GroupBestEnding, error) {
	outcomes, err := s.sessionRepo.ListOutcomesWithEndings(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	best := make(map[int64]*GroupBestEnding)
	order := make([]int64, 0, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.Ending == nil || outcome.CharacterGroup == nil {
			continue
		}
		groupID := outcome.CharacterGroup.ID
		current, ok := best[groupID]
		if !ok {
			order = append(order, groupID)
		}
		if ok && current.Priority <= outcome.Ending.Priority {
			continue
		}
		best[groupID] = &GroupBestEnding{
			CharacterGroupID: groupID,
			GroupName:        outcome.CharacterGroup.Name,
			EndingID:         outcome.Ending.ID,
			Priority:         outcome.Ending.Priority,
			Title:            outcome.Ending.Title,
			Grade:            outcome.Ending.Grade,
		}
	}

	result := make([]*GroupBestEnding, 0, len(order))
	for _, groupID := range order {
		result = append(result, best[groupID])
	}
	return result, nil
}

func (s *reportServiceImpl) GetEndingCollection(ctx context.Context, userID int64) ([]*EndingCollectionGroup, error) {
	byGroup, err := s.contentRepo.ListEndingsForAllGroups(ctx, s.db)
	if err != nil {
		return nil, err
	}
	collectedIDs, err := s.sessionRepo.CollectedEndingIDs(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	collected := make(map[int64]struct{}, len(collectedIDs))
	for _, id := range collectedIDs {
		collected[id] = struct{}{}
	}

	groups, err := s.contentRepo.ListCharacterGroups(ctx, s.db)
	if err != nil {
		return nil, err
	}

	result := make([]*EndingCollectionGroup, 0, len(groups))
	for _, group := range groups {
		endings := byGroup[group.ID]
		view := &EndingCollectionGroup{
			CharacterGroupID: group.ID,
			Endings:          make([]*EndingCollectionRecord, 0, len(endings)),
		}
		for _, ending := range endings {
			record := &EndingCollectionRecord{
				ID:       ending.ID,
				Priority: ending.Priority,
			}
			// Uncollected endings stay hidden: priority slot only.
			if _, ok := collected[ending.ID]; ok {
				record.Collected = true
				title := ending.Title
				record.Title = &title
				record.Grade = ending.Grade
				record.Image = ending.Image
			}
			view.Endings = append(view.Endings, record)
		}
		result = append(result, view)
	}
	return result, nil
}

func (s *reportServiceImpl) GetHistory(ctx context.Context, userID int64, page, size int) (*HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	total, err := s.sessionRepo.CountTerminal(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	outcomes, err := s.sessionRepo.ListTerminalOutcomes(ctx, s.db, userID, (page-1)*size, size)
	if err != nil {
		return nil, err
	}

	entries := make([]*HistoryEntry, 0, len(outcomes))
	for _, outcome := range outcomes {
		entry := &HistoryEntry{
			SessionID: outcome.Session.ID,
			Status:    outcome.Session.Status,
			XP:        outcome.XP(),
			EndedAt:   outcome.Session.EndedAt,
		}
		if outcome.Ending != nil {
			title := outcome.Ending.Title
			entry.EndingTitle = &title
			entry.EndingGrade = outcome.Ending.Grade
		}
		if outcome.CharacterGroup != nil {
			name := outcome.CharacterGroup.Name
			entry.GroupName = &name
		}
		entries = append(entries, entry)
	}

	return &HistoryPage{Entries: entries, Total: total, Page: page, Size: size}, nil
}

// assembleReport flattens the report aggregate into the result screen
// payload, deriving audit aggregates from the history rows.
func assembleReport(data *models.SessionReportData) *SessionReport {
	state := data.State
	outcome := models.SessionOutcome{Session: state.Session, Characters: state.Characters}

	report := &SessionReport{
		SessionID:    state.Session.ID,
		Status:       state.Session.Status,
		LifePoint:    state.Session.LifePoint,
		XP:           outcome.XP(),
		Characters:   make([]*CastMember, 0, len(state.Characters)),
		ChoicesMade:  len(data.ChoiceHistory),
		EndedAt:      state.Session.EndedAt,
		CapacityUsed: state.Session.BagCapacityUsed,
	}

	for _, pc := range state.Characters {
		report.Characters = append(report.Characters, &CastMember{
			ID:            pc.ID,
			CharacterID:   pc.CharacterID,
			Code:          pc.Character.Code,
			Name:          pc.Character.Name,
			PortraitImage: pc.Character.PortraitImage,
			CurrentHP:     pc.CurrentHP,
			CurrentMental: pc.CurrentMental,
		})
	}

	if data.Bag != nil {
		report.BagName = data.Bag.Name
		report.BagCapacity = data.Bag.Capacity
	}
	if data.Ending != nil {
		report.Ending = &EndingMeta{
			ID:       data.Ending.ID,
			Priority: data.Ending.Priority,
			Title:    data.Ending.Title,
			Grade:    data.Ending.Grade,
			Image:    data.Ending.Image,
		}
	}

	for _, delta := range data.StatHistory {
		switch delta.StatType {
		case models.StatHistoryItemQuantity:
			if delta.Delta > 0 {
				report.ItemsGained += delta.Delta
			} else {
				report.ItemsLost -= delta.Delta
			}
		case models.StatHistoryHP:
			if delta.Delta < 0 {
				report.DamageTaken -= delta.Delta
			}
		}
	}

	return report
}
