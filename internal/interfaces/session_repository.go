package interfaces

import (
	"context"

	"survival-server/internal/models"
)

// SessionRepository persists game sessions, their cast and derived reads.
//
//go:generate mockery --name SessionRepository --output ./mocks --outpkg mocks --case=underscore
type SessionRepository interface {
	// FindActiveByUserID loads the user's single IN_PROGRESS session with
	// its full aggregate state (cast, inventory, group, current day).
	// Returns models.ErrSessionNotFound if none exists.
	FindActiveByUserID(ctx context.Context, querier DBTX, userID int64) (*models.SessionState, error)

	// GetStateByID reloads the full aggregate by session id.
	GetStateByID(ctx context.Context, querier DBTX, sessionID int64) (*models.SessionState, error)

	// LockByID takes a row lock on the session (SELECT ... FOR UPDATE) so
	// concurrent advance calls for the same session serialize.
	LockByID(ctx context.Context, querier DBTX, sessionID int64) error

	// AdvancePointers moves the session to the given act/day and keeps it
	// IN_PROGRESS.
	AdvancePointers(ctx context.Context, querier DBTX, sessionID, actID, dayID int64) error

	// MarkEnded finalizes the session: terminal status, cleared current
	// act, ended_at stamped, optional ending recorded. currentDayID keeps
	// the last day for reporting.
	MarkEnded(ctx context.Context, querier DBTX, sessionID int64, status models.SessionStatus, currentDayID, endingID *int64) error

	// IncrementLifePoint applies a signed delta to the survival score.
	IncrementLifePoint(ctx context.Context, querier DBTX, sessionID int64, delta int) error

	// AddBagCapacityUsed bumps the recorded capacity consumption.
	AddBagCapacityUsed(ctx context.Context, querier DBTX, sessionID int64, delta int) error

	// IncrementCharacterStats applies signed deltas to one cast member.
	IncrementCharacterStats(ctx context.Context, querier DBTX, playingCharacterID int64, hpDelta, mentalDelta int) error

	// Create inserts a fresh IN_PROGRESS session for the user.
	Create(ctx context.Context, querier DBTX, userID, bagID int64) (int64, error)

	// TerminateActive marks any IN_PROGRESS session of the user GIVE_UP.
	TerminateActive(ctx context.Context, querier DBTX, userID int64) error

	// UpsertCharacterSet creates or re-points the session's character set
	// and records the group on the session row. Returns the set id.
	UpsertCharacterSet(ctx context.Context, querier DBTX, sessionID, characterGroupID int64) (int64, error)

	// ReplaceCharacters recreates the cast from group members with their
	// default stats.
	ReplaceCharacters(ctx context.Context, querier DBTX, setID int64, members []*models.CharacterGroupMember) error

	// SetBagAndConfirm records the chosen bag and stamps bag_confirmed_at.
	SetBagAndConfirm(ctx context.Context, querier DBTX, sessionID, bagID int64) error

	// GetReportData loads everything the result report needs. Returns
	// models.ErrSessionNotFound when the session doesn't belong to the user.
	GetReportData(ctx context.Context, querier DBTX, sessionID, userID int64) (*models.SessionReportData, error)

	// ListTerminalOutcomes pages the user's finished sessions, most recent
	// first.
	ListTerminalOutcomes(ctx context.Context, querier DBTX, userID int64, offset, limit int) ([]*models.SessionOutcome, error)

	// CountTerminal counts the user's finished sessions.
	CountTerminal(ctx context.Context, querier DBTX, userID int64) (int, error)

	// ListOutcomesWithEndings returns the user's finished sessions that
	// recorded an ending (for ranking best-result aggregation).
	ListOutcomesWithEndings(ctx context.Context, querier DBTX, userID int64) ([]*models.SessionOutcome, error)

	// RankingRows computes the global XP ranking (window function).
	RankingRows(ctx context.Context, querier DBTX) ([]*models.RankingRow, error)

	// CollectedEndingIDs returns the distinct ending ids the user reached.
	CollectedEndingIDs(ctx context.Context, querier DBTX, userID int64) ([]int64, error)
}
