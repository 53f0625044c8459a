package prediction

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/padraicbc/footyvalue/models"
)

var errBoom = errors.New("boom")

// memStore is an in-memory Store for tests.
type memStore struct {
	mu sync.Mutex

	leagues []models.League
	matches map[int]MatchRow
	stats   map[int][]models.TeamStat
	odds    map[int][]models.Odds
	preds   []models.Prediction
	nextID  int

	brokenMatch map[int]bool
	statsErr    error
	oddsErr     error
	upsertErr   error
	setErr      error
}

func newMemStore() *memStore {
	return &memStore{
		matches:     map[int]MatchRow{},
		stats:       map[int][]models.TeamStat{},
		odds:        map[int][]models.Odds{},
		brokenMatch: map[int]bool{},
	}
}

func (m *memStore) addMatch(r MatchRow) { m.matches[r.MatchID] = r }

func (m *memStore) addStat(teamID int, on time.Time, isHome bool, gf, ga int) {
	m.stats[teamID] = append(m.stats[teamID], models.TeamStat{
		TeamID: teamID, PlayedOn: on, IsHome: isHome, GoalsFor: gf, GoalsAgainst: ga,
	})
}

func (m *memStore) addOdds(matchID int, outcome models.Outcome, price string, at time.Time) {
	m.odds[matchID] = append(m.odds[matchID], models.Odds{
		MatchID: matchID, Outcome: outcome.String(), Price: decimal.RequireFromString(price),
		Bookmaker: "test", RecordedAt: at,
	})
}

func (m *memStore) RecentTeamStats(_ context.Context, teamID int, before *time.Time, limit int) ([]models.TeamStat, error) {
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	var out []models.TeamStat
	for _, s := range m.stats[teamID] {
		if before != nil && !s.PlayedOn.Before(*before) {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PlayedOn.After(out[j].PlayedOn) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) Match(_ context.Context, matchID int) (MatchRow, error) {
	if m.brokenMatch[matchID] {
		return MatchRow{}, errBoom
	}
	r, ok := m.matches[matchID]
	if !ok {
		return MatchRow{}, ErrNotFound
	}
	return r, nil
}

func (m *memStore) Odds(_ context.Context, matchID int) ([]models.Odds, error) {
	if m.oddsErr != nil {
		return nil, m.oddsErr
	}
	out := append([]models.Odds(nil), m.odds[matchID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	return out, nil
}

func (m *memStore) sortedMatches(keep func(MatchRow) bool) []MatchRow {
	var out []MatchRow
	for _, r := range m.matches {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kickoff.Before(out[j].Kickoff) })
	return out
}

func (m *memStore) Fixtures(_ context.Context, from, to time.Time, leagueID int) ([]MatchRow, error) {
	return m.sortedMatches(func(r MatchRow) bool {
		return !r.Completed && !r.Kickoff.Before(from) && !r.Kickoff.After(to) &&
			(leagueID == 0 || r.LeagueID == leagueID)
	}), nil
}

func (m *memStore) CompletedMatches(_ context.Context, limit int) ([]MatchRow, error) {
	out := m.sortedMatches(func(r MatchRow) bool {
		return r.Completed && r.HomeGoals != nil && r.AwayGoals != nil
	})
	// most recent limit, oldest first
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (m *memStore) Leagues(context.Context) ([]models.League, error) { return m.leagues, nil }

func (m *memStore) UpsertPrediction(_ context.Context, p *models.Prediction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	for i := range m.preds {
		if m.preds[i].MatchID == p.MatchID && m.preds[i].PredictedAt.Equal(p.PredictedAt) {
			p.PredictionID = m.preds[i].PredictionID
			m.preds[i] = *p
			return nil
		}
	}
	m.nextID++
	p.PredictionID = m.nextID
	m.preds = append(m.preds, *p)
	return nil
}

func (m *memStore) PendingPredictions(context.Context) ([]PendingPrediction, error) {
	var out []PendingPrediction
	for _, p := range m.preds {
		r := m.matches[p.MatchID]
		if p.Correct != nil || !r.Completed || r.HomeGoals == nil || r.AwayGoals == nil {
			continue
		}
		out = append(out, PendingPrediction{
			PredictionID: p.PredictionID, MatchID: p.MatchID, PredictedOutcome: p.PredictedOutcome,
			HomeGoals: *r.HomeGoals, AwayGoals: *r.AwayGoals,
		})
	}
	return out, nil
}

func (m *memStore) SetCorrectness(_ context.Context, updates map[int]bool) error {
	if m.setErr != nil {
		return m.setErr
	}
	for i := range m.preds {
		if ok, found := updates[m.preds[i].PredictionID]; found {
			m.preds[i].Correct = &ok
		}
	}
	return nil
}

func (m *memStore) ReconciledPredictions(_ context.Context, since time.Time) ([]models.Prediction, error) {
	var out []models.Prediction
	for _, p := range m.preds {
		if p.Correct != nil && m.matches[p.MatchID].Kickoff.After(since) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) History(_ context.Context, limit int) ([]HistoryEntry, error) {
	var out []HistoryEntry
	for _, p := range m.preds {
		r := m.matches[p.MatchID]
		out = append(out, HistoryEntry{
			PredictionID: p.PredictionID, MatchID: p.MatchID,
			HomeTeam: r.HomeTeam, AwayTeam: r.AwayTeam, League: r.League, Kickoff: r.Kickoff,
			HomeGoals: r.HomeGoals, AwayGoals: r.AwayGoals,
			PredictedOutcome: p.PredictedOutcome,
			ProbHome:         p.ProbHome, ProbDraw: p.ProbDraw, ProbAway: p.ProbAway,
			Correct: p.Correct, PredictedAt: p.PredictedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PredictedAt.After(out[j].PredictedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
