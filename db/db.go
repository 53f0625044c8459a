package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	"go.uber.org/zap"

	"github.com/padraicbc/footyvalue/config"
	"github.com/padraicbc/footyvalue/models"
)

// Setup opens a PostgreSQL connection using the provided config.
func Setup(ctx context.Context, cfg *config.Config) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	db := bun.NewDB(sqldb, pgdialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return db, nil
}

// CreateTables creates all tables in dependency order.
func CreateTables(ctx context.Context, db *bun.DB, log *zap.Logger) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.League)(nil),
		(*models.Team)(nil),
		(*models.Match)(nil),
		(*models.Odds)(nil),
		(*models.TeamStat)(nil),
		(*models.Prediction)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().WithForeignKeys().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	constraints := []string{
		addConstraint("matches", "matches_no_dupes", "UNIQUE (home_team_id, away_team_id, kickoff)"),
		addConstraint("odds", "odds_no_dupes", "UNIQUE (match_id, outcome, bookmaker)"),
		addConstraint("odds", "odds_outcome_check", "CHECK (outcome IN ('Home', 'Draw', 'Away'))"),
		addConstraint("team_stats", "team_stats_no_dupes", "UNIQUE (team_id, played_on)"),
		addConstraint("predictions", "predictions_no_dupes", "UNIQUE (match_id, predicted_at)"),
		addConstraint("predictions", "predictions_outcome_check", "CHECK (predicted_outcome BETWEEN 0 AND 2)"),
	}
	for _, stmt := range constraints {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Warn("constraint", zap.Error(err))
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS team_stats_recent ON team_stats (team_id, played_on DESC)`,
		`CREATE INDEX IF NOT EXISTS matches_upcoming ON matches (kickoff) WHERE NOT completed`,
		`CREATE INDEX IF NOT EXISTS predictions_pending ON predictions (match_id) WHERE correct IS NULL`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Warn("index", zap.Error(err))
		}
	}

	return nil
}

// addConstraint wraps ALTER TABLE in a guard so CreateTables stays idempotent.
func addConstraint(table, name, def string) string {
	return fmt.Sprintf(
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN ALTER TABLE %s ADD CONSTRAINT %s %s; END IF; END $$`,
		name, table, name, def,
	)
}
