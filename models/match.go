package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Match is a fixture between two teams. Goals stay nil until the match is played.
type Match struct {
	bun.BaseModel `bun:"table:matches,alias:m"`

	MatchID    int       `bun:"match_id,pk,autoincrement" json:"matchID"`
	HomeTeamID int       `bun:"home_team_id,notnull" json:"homeTeamID"`
	AwayTeamID int       `bun:"away_team_id,notnull" json:"awayTeamID"`
	LeagueID   int       `bun:"league_id,notnull" json:"leagueID"`
	Kickoff    time.Time `bun:"kickoff,notnull" json:"kickoff"`
	HomeGoals  *int      `bun:"home_goals" json:"homeGoals,omitempty"`
	AwayGoals  *int      `bun:"away_goals" json:"awayGoals,omitempty"`
	Completed  bool      `bun:"completed,notnull,default:false" json:"completed"`

	HomeTeam *Team   `bun:"rel:belongs-to,join:home_team_id=team_id,on_delete:CASCADE" json:"-"`
	AwayTeam *Team   `bun:"rel:belongs-to,join:away_team_id=team_id,on_delete:CASCADE" json:"-"`
	League   *League `bun:"rel:belongs-to,join:league_id=league_id,on_delete:CASCADE" json:"-"`
}

// Result returns the actual outcome of a played match.
// ok is false until both scores are known.
func (m *Match) Result() (o Outcome, ok bool) {
	if m.HomeGoals == nil || m.AwayGoals == nil {
		return OutcomeHome, false
	}
	return OutcomeFromScore(*m.HomeGoals, *m.AwayGoals), true
}
