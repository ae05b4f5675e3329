package models

// SessionReportData bundles everything the result report reads.
type SessionReportData struct {
	State         SessionState
	Bag           *Bag
	Ending        *Ending
	ChoiceHistory []*ChoiceHistoryRecord
	StatHistory   []*StatHistoryRecord
}

// SessionOutcome is a finished session with the relations the history and
// ranking projections need.
type SessionOutcome struct {
	Session        GameSession
	Ending         *Ending
	CharacterGroup *CharacterGroup
	Characters     []*PlayingCharacter
}

// XP is the session score: life point plus current HP and Mental sums.
func (o *SessionOutcome) XP() int {
	xp := 0
	if o.Session.LifePoint != nil {
		xp += *o.Session.LifePoint
	}
	for _, pc := range o.Characters {
		if pc.CurrentHP != nil {
			xp += *pc.CurrentHP
		}
		if pc.CurrentMental != nil {
			xp += *pc.CurrentMental
		}
	}
	return xp
}

// RankingRow is one row of the global XP ranking.
type RankingRow struct {
	UserID   int64   `db:"user_id"`
	Nickname *string `db:"nickname"`
	TotalXP  int     `db:"total_xp"`
	Ranking  int     `db:"ranking"`
}
