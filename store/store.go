// Package store implements prediction.Store on PostgreSQL through bun.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/footyvalue/models"
	"github.com/padraicbc/footyvalue/prediction"
)

// matchSQL selects a match with its team and league names. Callers append
// the WHERE clause.
const matchSQL = `
	SELECT m.match_id, m.home_team_id, m.away_team_id,
	       ht.name AS home_team, awt.name AS away_team,
	       m.league_id, l.name AS league,
	       m.kickoff, m.home_goals, m.away_goals, m.completed
	FROM matches m
	INNER JOIN teams ht ON ht.team_id = m.home_team_id
	INNER JOIN teams awt ON awt.team_id = m.away_team_id
	INNER JOIN leagues l ON l.league_id = m.league_id
`

// Store reads and writes the prediction tables.
type Store struct {
	db  *bun.DB
	log *zap.Logger
}

var _ prediction.Store = (*Store)(nil)

func New(db *bun.DB, log *zap.Logger) *Store {
	return &Store{db: db, log: log.Named("store")}
}

func (s *Store) RecentTeamStats(ctx context.Context, teamID int, before *time.Time, limit int) ([]models.TeamStat, error) {
	var rows []models.TeamStat
	q := s.db.NewSelect().Model(&rows).Where("ts.team_id = ?", teamID)
	if before != nil {
		q = q.Where("ts.played_on < CAST(? AS date)", *before)
	}
	if err := q.Order("ts.played_on DESC").Limit(limit).Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) Match(ctx context.Context, matchID int) (prediction.MatchRow, error) {
	var row prediction.MatchRow
	err := s.db.NewRaw(matchSQL+`WHERE m.match_id = ?`, matchID).Scan(ctx, &row)
	if errors.Is(err, sql.ErrNoRows) {
		return row, prediction.ErrNotFound
	}
	return row, err
}

func (s *Store) Odds(ctx context.Context, matchID int) ([]models.Odds, error) {
	var odds []models.Odds
	err := s.db.NewSelect().Model(&odds).
		Where("o.match_id = ?", matchID).
		OrderExpr("o.recorded_at DESC, o.odds_id DESC").
		Scan(ctx)
	return odds, err
}

func (s *Store) Fixtures(ctx context.Context, from, to time.Time, leagueID int) ([]prediction.MatchRow, error) {
	var rows []prediction.MatchRow
	err := s.db.NewRaw(matchSQL+`
		WHERE NOT m.completed
		  AND m.kickoff BETWEEN ? AND ?
		  AND (? = 0 OR m.league_id = ?)
		ORDER BY m.kickoff, m.match_id`,
		from, to, leagueID, leagueID,
	).Scan(ctx, &rows)
	return rows, err
}

func (s *Store) CompletedMatches(ctx context.Context, limit int) ([]prediction.MatchRow, error) {
	var rows []prediction.MatchRow
	err := s.db.NewRaw(`
		SELECT * FROM (`+matchSQL+`
			WHERE m.completed AND m.home_goals IS NOT NULL AND m.away_goals IS NOT NULL
			ORDER BY m.kickoff DESC
			LIMIT ?
		) recent
		ORDER BY kickoff, match_id`,
		limit,
	).Scan(ctx, &rows)
	return rows, err
}

func (s *Store) Leagues(ctx context.Context) ([]models.League, error) {
	var leagues []models.League
	err := s.db.NewSelect().Model(&leagues).Order("l.name").Scan(ctx)
	return leagues, err
}

// UpsertPrediction inserts p or, when (match_id, predicted_at) already
// exists, overwrites its probabilities, values, confidence and class.
func (s *Store) UpsertPrediction(ctx context.Context, p *models.Prediction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.NewInsert().Model(p).
		On("CONFLICT (match_id, predicted_at) DO UPDATE").
		Set("prob_home = EXCLUDED.prob_home").
		Set("prob_draw = EXCLUDED.prob_draw").
		Set("prob_away = EXCLUDED.prob_away").
		Set("predicted_outcome = EXCLUDED.predicted_outcome").
		Set("value_home = EXCLUDED.value_home").
		Set("value_draw = EXCLUDED.value_draw").
		Set("value_away = EXCLUDED.value_away").
		Set("confidence = EXCLUDED.confidence").
		Returning("prediction_id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upserting prediction for match %d: %w", p.MatchID, err)
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) PendingPredictions(ctx context.Context) ([]prediction.PendingPrediction, error) {
	var rows []prediction.PendingPrediction
	err := s.db.NewRaw(`
		SELECT p.prediction_id, p.match_id, p.predicted_outcome, m.home_goals, m.away_goals
		FROM predictions p
		INNER JOIN matches m ON m.match_id = p.match_id
		WHERE p.correct IS NULL
		  AND m.completed
		  AND m.home_goals IS NOT NULL
		  AND m.away_goals IS NOT NULL
		ORDER BY p.prediction_id`,
	).Scan(ctx, &rows)
	return rows, err
}

// SetCorrectness applies every update or none of them.
func (s *Store) SetCorrectness(ctx context.Context, updates map[int]bool) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// fixed order keeps concurrent reconcilers from deadlocking
	for _, id := range slices.Sorted(maps.Keys(updates)) {
		_, err = tx.ExecContext(ctx,
			`UPDATE predictions SET correct = ? WHERE prediction_id = ?`,
			updates[id], id,
		)
		if err != nil {
			return fmt.Errorf("updating prediction %d: %w", id, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	s.log.Debug("correctness committed", zap.Int("rows", len(updates)))
	return nil
}

func (s *Store) ReconciledPredictions(ctx context.Context, since time.Time) ([]models.Prediction, error) {
	var preds []models.Prediction
	err := s.db.NewSelect().Model(&preds).
		Join("INNER JOIN matches AS m ON m.match_id = p.match_id").
		Where("p.correct IS NOT NULL").
		Where("m.kickoff > ?", since).
		Order("p.prediction_id").
		Scan(ctx)
	return preds, err
}

func (s *Store) History(ctx context.Context, limit int) ([]prediction.HistoryEntry, error) {
	var rows []prediction.HistoryEntry
	err := s.db.NewRaw(`
		SELECT p.prediction_id, p.match_id,
		       ht.name AS home_team, awt.name AS away_team, l.name AS league,
		       m.kickoff, m.home_goals, m.away_goals,
		       p.predicted_outcome, p.prob_home, p.prob_draw, p.prob_away,
		       p.correct, p.predicted_at
		FROM predictions p
		INNER JOIN matches m ON m.match_id = p.match_id
		INNER JOIN teams ht ON ht.team_id = m.home_team_id
		INNER JOIN teams awt ON awt.team_id = m.away_team_id
		INNER JOIN leagues l ON l.league_id = m.league_id
		ORDER BY p.predicted_at DESC, p.prediction_id DESC
		LIMIT ?`,
		limit,
	).Scan(ctx, &rows)
	return rows, err
}
