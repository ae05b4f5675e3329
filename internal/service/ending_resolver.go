package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"survival-server/internal/interfaces"
	"survival-server/internal/models"
)

// EndingResolver evaluates a character group's ordered endings against the
// session's current stats, inventory and survival score.
type EndingResolver struct {
	content interfaces.ContentRepository
	logger  *zap.Logger
}

// NewEndingResolver creates an ending resolver.
func NewEndingResolver(content interfaces.ContentRepository, logger *zap.Logger) *EndingResolver {
	return &EndingResolver{
		content: content,
		logger:  logger.Named("EndingResolver"),
	}
}

// ResolveEnding returns the first ending, in ascending priority order,
// whose conditions all hold. Returns nil when no ending matches.
func (r *EndingResolver) ResolveEnding(ctx context.Context, querier interfaces.DBTX, state *models.SessionState) (*models.EndingWithRelations, error) {
	if state.Session.CharacterGroupID == nil {
		return nil, models.ErrCharacterGroupMissing
	}

	endings, err := r.content.ListEndings(ctx, querier, *state.Session.CharacterGroupID)
	if err != nil {
		return nil, err
	}

	snap := buildConditionSnapshot(state)
	for _, ending := range endings {
		if r.conditionsHold(ending, snap) {
			r.logger.Info("Ending resolved",
				zap.Int64("sessionID", state.Session.ID),
				zap.Int64("endingID", ending.ID),
				zap.Int("priority", ending.Priority))
			return ending, nil
		}
	}
	return nil, nil
}

// ResolveDeathEnding returns the group's distinguished sudden-death ending,
// found by matching ending priority to the group's death ending index.
// Conditions are not evaluated. Returns nil when the group defines none.
func (r *EndingResolver) ResolveDeathEnding(ctx context.Context, querier interfaces.DBTX, state *models.SessionState) (*models.EndingWithRelations, error) {
	if state.CharacterGroup == nil || state.CharacterGroup.DeathEndingIndex == nil {
		return nil, nil
	}
	if state.Session.CharacterGroupID == nil {
		return nil, nil
	}

	ending, err := r.content.GetEndingByPriority(ctx, querier, *state.Session.CharacterGroupID, *state.CharacterGroup.DeathEndingIndex)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			r.logger.Warn("Death ending index points at no ending",
				zap.Int64("characterGroupID", *state.Session.CharacterGroupID),
				zap.Int("deathEndingIndex", *state.CharacterGroup.DeathEndingIndex))
			return nil, nil
		}
		return nil, err
	}
	return ending, nil
}

// conditionSnapshot is the in-memory view conditions evaluate against.
type conditionSnapshot struct {
	hpByCharacter     map[int64]*int
	mentalByCharacter map[int64]*int
	quantityByItem    map[int64]int
	lifePoint         *int
}

func buildConditionSnapshot(state *models.SessionState) *conditionSnapshot {
	snap := &conditionSnapshot{
		hpByCharacter:     make(map[int64]*int, len(state.Characters)),
		mentalByCharacter: make(map[int64]*int, len(state.Characters)),
		quantityByItem:    make(map[int64]int, len(state.Inventory)),
		lifePoint:         state.Session.LifePoint,
	}
	for _, pc := range state.Characters {
		snap.hpByCharacter[pc.CharacterID] = pc.CurrentHP
		snap.mentalByCharacter[pc.CharacterID] = pc.CurrentMental
	}
	for _, rec := range state.Inventory {
		snap.quantityByItem[rec.ItemID] += rec.Quantity
	}
	return snap
}

func (r *EndingResolver) conditionsHold(ending *models.EndingWithRelations, snap *conditionSnapshot) bool {
	for _, cond := range ending.Conditions {
		if !r.conditionHolds(cond, snap) {
			return false
		}
	}
	return true
}

// conditionHolds evaluates one clause. A condition referencing a target
// absent from the snapshot is false, not an error.
func (r *EndingResolver) conditionHolds(cond *models.EndingCondition, snap *conditionSnapshot) bool {
	switch cond.Type {
	case models.EndingConditionCharacterStat:
		if cond.TargetID == nil || cond.StatType == nil {
			return false
		}
		var stat *int
		var ok bool
		switch *cond.StatType {
		case models.StatHP:
			stat, ok = snap.hpByCharacter[*cond.TargetID]
		case models.StatMental:
			stat, ok = snap.mentalByCharacter[*cond.TargetID]
		default:
			return false
		}
		if !ok || stat == nil {
			return false
		}
		return compare(*stat, cond.Comparison, cond.Value)

	case models.EndingConditionItem:
		if cond.TargetID == nil {
			return false
		}
		// Absent item resolves to quantity 0, which still gets compared.
		return compare(snap.quantityByItem[*cond.TargetID], cond.Comparison, cond.Value)

	case models.EndingConditionSessionStat:
		if cond.StatType != nil && *cond.StatType != models.StatLifePoint {
			return false
		}
		if snap.lifePoint == nil {
			return false
		}
		return compare(*snap.lifePoint, cond.Comparison, cond.Value)

	default:
		r.logger.Warn("Unknown ending condition type",
			zap.Int64("conditionID", cond.ID),
			zap.String("type", string(cond.Type)))
		return false
	}
}

// compare applies the authored comparator. Unrecognized or missing
// comparators fall back to >=.
func compare(actual int, comparison *string, value int) bool {
	op := ">="
	if comparison != nil && *comparison != "" {
		op = *comparison
	}
	switch op {
	case ">":
		return actual > value
	case "<":
		return actual < value
	case "<=":
		return actual <= value
	case "==":
		return actual == value
	default:
		return actual >= value
	}
}
