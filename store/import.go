package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/footyvalue/models"
)

const importBatch = 500

// Dump is a bulk load of already collected rows, as read by cmd/import.
type Dump struct {
	Leagues   []models.League   `json:"leagues"`
	Teams     []models.Team     `json:"teams"`
	Matches   []models.Match    `json:"matches"`
	Odds      []models.Odds     `json:"odds"`
	TeamStats []models.TeamStat `json:"teamStats"`
}

// ImportLeagues inserts leagues, keeping rows that already exist.
func (s *Store) ImportLeagues(ctx context.Context, rows []models.League) (int, error) {
	return insertBatches(ctx, s.db, rows, func(q *bun.InsertQuery) *bun.InsertQuery {
		return q.On("CONFLICT DO NOTHING")
	})
}

// ImportTeams inserts teams, keeping rows that already exist.
func (s *Store) ImportTeams(ctx context.Context, rows []models.Team) (int, error) {
	return insertBatches(ctx, s.db, rows, func(q *bun.InsertQuery) *bun.InsertQuery {
		return q.On("CONFLICT DO NOTHING")
	})
}

// ImportMatches upserts matches by id so a fixture loaded earlier picks up
// its score, completion flag and any kickoff change.
func (s *Store) ImportMatches(ctx context.Context, rows []models.Match) (int, error) {
	return insertBatches(ctx, s.db, rows, func(q *bun.InsertQuery) *bun.InsertQuery {
		return q.On("CONFLICT (match_id) DO UPDATE").
			Set("kickoff = EXCLUDED.kickoff").
			Set("home_goals = EXCLUDED.home_goals").
			Set("away_goals = EXCLUDED.away_goals").
			Set("completed = EXCLUDED.completed")
	})
}

// ImportOdds upserts one quote per (match, outcome, bookmaker). An older
// quote never replaces a newer one.
func (s *Store) ImportOdds(ctx context.Context, rows []models.Odds) (int, error) {
	return insertBatches(ctx, s.db, rows, func(q *bun.InsertQuery) *bun.InsertQuery {
		return q.On("CONFLICT (match_id, outcome, bookmaker) DO UPDATE").
			Set("price = EXCLUDED.price").
			Set("recorded_at = EXCLUDED.recorded_at").
			Where("?TableAlias.recorded_at < EXCLUDED.recorded_at")
	})
}

// ImportTeamStats upserts one line per team and day.
func (s *Store) ImportTeamStats(ctx context.Context, rows []models.TeamStat) (int, error) {
	return insertBatches(ctx, s.db, rows, func(q *bun.InsertQuery) *bun.InsertQuery {
		return q.On("CONFLICT (team_id, played_on) DO UPDATE").
			Set("is_home = EXCLUDED.is_home").
			Set("goals_for = EXCLUDED.goals_for").
			Set("goals_against = EXCLUDED.goals_against").
			Set("possession = EXCLUDED.possession").
			Set("xg = EXCLUDED.xg").
			Set("xga = EXCLUDED.xga")
	})
}

// insertBatches inserts rows in chunks inside one transaction.
func insertBatches[T any](ctx context.Context, db *bun.DB, rows []T, conflict func(*bun.InsertQuery) *bun.InsertQuery) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	total := 0
	for batch := range slices.Chunk(rows, importBatch) {
		if _, err := conflict(tx.NewInsert().Model(&batch)).Exec(ctx); err != nil {
			return 0, err
		}
		total += len(batch)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return total, nil
}

// ResetSequences advances each serial to MAX(id) so new inserts don't conflict
// with imported ids.
func (s *Store) ResetSequences(ctx context.Context) error {
	seqs := []struct{ table, col string }{
		{"leagues", "league_id"},
		{"teams", "team_id"},
		{"matches", "match_id"},
		{"odds", "odds_id"},
		{"team_stats", "stat_id"},
	}
	for _, seq := range seqs {
		q := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', '%s'), COALESCE((SELECT MAX(%s) FROM %s), 1))",
			seq.table, seq.col, seq.col, seq.table,
		)
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			s.log.Error("reset sequence", zap.String("table", seq.table), zap.Error(err))
			return fmt.Errorf("reset %s.%s: %w", seq.table, seq.col, err)
		}
	}
	return nil
}
