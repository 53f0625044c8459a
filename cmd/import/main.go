// cmd/import/main.go
// Loads a JSON dump of leagues, teams, matches, odds and team stats into
// PostgreSQL. Re-running is safe: existing leagues and teams are kept,
// matches pick up scores, odds keep the newest quote and team stats are
// replaced.
//
// Usage:
//
//	go run ./cmd/import -file dump.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/padraicbc/footyvalue/config"
	bundb "github.com/padraicbc/footyvalue/db"
	applog "github.com/padraicbc/footyvalue/logger"
	"github.com/padraicbc/footyvalue/models"
	"github.com/padraicbc/footyvalue/store"
)

func main() {
	file := flag.String("file", "", "JSON dump to load (required)")
	flag.Parse()
	if *file == "" {
		log.Fatal("-file is required")
	}

	d, err := readDump(*file, time.Now())
	if err != nil {
		log.Fatalf("read dump: %v", err)
	}

	ctx := context.Background()
	cfg := config.LoadCLI()
	logger, err := applog.NewCLI(cfg.Debug)
	if err != nil {
		log.Fatal(err)
	}

	db, err := bundb.Setup(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Create tables (idempotent)
	if err := bundb.CreateTables(ctx, db, logger); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	st := store.New(db, logger)

	// dependency order
	steps := []struct {
		name string
		fn   func() (int, error)
	}{
		{"leagues", func() (int, error) { return st.ImportLeagues(ctx, d.Leagues) }},
		{"teams", func() (int, error) { return st.ImportTeams(ctx, d.Teams) }},
		{"matches", func() (int, error) { return st.ImportMatches(ctx, d.Matches) }},
		{"odds", func() (int, error) { return st.ImportOdds(ctx, d.Odds) }},
		{"team_stats", func() (int, error) { return st.ImportTeamStats(ctx, d.TeamStats) }},
	}

	for _, s := range steps {
		n, err := s.fn()
		if err != nil {
			log.Fatalf("import %s: %v", s.name, err)
		}
		log.Printf("%-12s  %d rows", s.name, n)
	}

	if err := st.ResetSequences(ctx); err != nil {
		log.Fatal(err)
	}
	log.Println("import complete")
}

// readDump decodes path, validates it and fills in defaults the database
// would otherwise apply.
func readDump(path string, now time.Time) (*store.Dump, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var d store.Dump
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	for i := range d.Odds {
		o := &d.Odds[i]
		if _, err := models.ParseOutcome(o.Outcome); err != nil {
			return nil, fmt.Errorf("odds %d: %w", i, err)
		}
		if o.RecordedAt.IsZero() {
			o.RecordedAt = now
		}
	}
	for i := range d.Matches {
		m := &d.Matches[i]
		if m.MatchID == 0 {
			return nil, fmt.Errorf("match %d: missing matchID", i)
		}
		if m.Kickoff.IsZero() {
			return nil, fmt.Errorf("match %d: missing kickoff", m.MatchID)
		}
		if m.HomeGoals != nil && m.AwayGoals != nil {
			m.Completed = true
		}
	}
	return &d, nil
}
