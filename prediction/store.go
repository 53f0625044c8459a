package prediction

import (
	"context"
	"time"

	"github.com/padraicbc/footyvalue/models"
)

// Store is the data boundary the pipeline reads from and writes to.
// Implementations return ErrNotFound for unknown ids.
type Store interface {
	// RecentTeamStats returns up to limit rows for the team, newest first.
	// A non-nil before restricts the rows to matches played strictly before it.
	RecentTeamStats(ctx context.Context, teamID int, before *time.Time, limit int) ([]models.TeamStat, error)
	Match(ctx context.Context, matchID int) (MatchRow, error)
	// Odds returns every quote for the match, newest first.
	Odds(ctx context.Context, matchID int) ([]models.Odds, error)
	// Fixtures returns matches not yet completed with kickoff in [from, to].
	// leagueID 0 means every league.
	Fixtures(ctx context.Context, from, to time.Time, leagueID int) ([]MatchRow, error)
	// CompletedMatches returns up to limit completed matches with both scores, oldest first.
	CompletedMatches(ctx context.Context, limit int) ([]MatchRow, error)
	Leagues(ctx context.Context) ([]models.League, error)

	UpsertPrediction(ctx context.Context, p *models.Prediction) error
	// PendingPredictions returns unreconciled predictions whose match is completed with both scores.
	PendingPredictions(ctx context.Context) ([]PendingPrediction, error)
	// SetCorrectness applies every update in one transaction.
	SetCorrectness(ctx context.Context, updates map[int]bool) error
	// ReconciledPredictions returns predictions with a correctness flag for matches kicked off after since.
	ReconciledPredictions(ctx context.Context, since time.Time) ([]models.Prediction, error)
	History(ctx context.Context, limit int) ([]HistoryEntry, error)
}

// MatchRow is a match joined with its team and league names.
type MatchRow struct {
	MatchID    int       `bun:"match_id" json:"matchID"`
	HomeTeamID int       `bun:"home_team_id" json:"homeTeamID"`
	AwayTeamID int       `bun:"away_team_id" json:"awayTeamID"`
	HomeTeam   string    `bun:"home_team" json:"homeTeam"`
	AwayTeam   string    `bun:"away_team" json:"awayTeam"`
	LeagueID   int       `bun:"league_id" json:"leagueID"`
	League     string    `bun:"league" json:"league"`
	Kickoff    time.Time `bun:"kickoff" json:"kickoff"`
	HomeGoals  *int      `bun:"home_goals" json:"homeGoals,omitempty"`
	AwayGoals  *int      `bun:"away_goals" json:"awayGoals,omitempty"`
	Completed  bool      `bun:"completed" json:"completed"`
}

// PendingPrediction is what reconciliation needs to settle one prediction.
type PendingPrediction struct {
	PredictionID     int            `bun:"prediction_id"`
	MatchID          int            `bun:"match_id"`
	PredictedOutcome models.Outcome `bun:"predicted_outcome"`
	HomeGoals        int            `bun:"home_goals"`
	AwayGoals        int            `bun:"away_goals"`
}

// HistoryEntry is one stored prediction with its match context.
type HistoryEntry struct {
	PredictionID     int            `bun:"prediction_id" json:"predictionID"`
	MatchID          int            `bun:"match_id" json:"matchID"`
	HomeTeam         string         `bun:"home_team" json:"homeTeam"`
	AwayTeam         string         `bun:"away_team" json:"awayTeam"`
	League           string         `bun:"league" json:"league"`
	Kickoff          time.Time      `bun:"kickoff" json:"kickoff"`
	HomeGoals        *int           `bun:"home_goals" json:"homeGoals,omitempty"`
	AwayGoals        *int           `bun:"away_goals" json:"awayGoals,omitempty"`
	PredictedOutcome models.Outcome `bun:"predicted_outcome" json:"predictedOutcome"`
	PredictedLabel   string         `bun:"-" json:"predictedLabel"`
	ProbHome         float64        `bun:"prob_home" json:"probHome"`
	ProbDraw         float64        `bun:"prob_draw" json:"probDraw"`
	ProbAway         float64        `bun:"prob_away" json:"probAway"`
	Correct          *bool          `bun:"correct" json:"correct,omitempty"`
	PredictedAt      time.Time      `bun:"predicted_at" json:"predictedAt"`
}
