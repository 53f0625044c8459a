package prediction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/padraicbc/footyvalue/models"
)

// NumFeatures is the length of a FeatureRow.
const NumFeatures = 21

// FeatureRow is the classifier input, in FeatureNames order.
type FeatureRow [NumFeatures]float64

// FeatureNames documents the fixed order of a FeatureRow.
var FeatureNames = [NumFeatures]string{
	"home_goals_for", "home_goals_against", "home_possession", "home_xg", "home_xga",
	"home_wins", "home_draws", "home_losses", "home_trend",
	"away_goals_for", "away_goals_against", "away_possession", "away_xg", "away_xga",
	"away_wins", "away_draws", "away_losses", "away_trend",
	"odds_home", "odds_draw", "odds_away",
}

// DefaultOdds replaces a missing quote, in outcome order.
var DefaultOdds = [3]float64{2.0, 3.0, 3.5}

// Slice returns the row as the []float64 the classifier consumes.
func (f FeatureRow) Slice() []float64 {
	out := make([]float64, NumFeatures)
	copy(out, f[:])
	return out
}

// Quotes holds the latest price per outcome; nil means no bookmaker quoted it.
type Quotes struct {
	Home *float64 `json:"home"`
	Draw *float64 `json:"draw"`
	Away *float64 `json:"away"`
}

// Prices returns the quotes in outcome order with DefaultOdds filled in.
func (q Quotes) Prices() [3]float64 {
	out := DefaultOdds
	for i, p := range [3]*float64{q.Home, q.Draw, q.Away} {
		if p != nil {
			out[i] = *p
		}
	}
	return out
}

// LatestQuotes picks the first quote per outcome from odds ordered newest first.
func LatestQuotes(odds []models.Odds) Quotes {
	var q Quotes
	for _, o := range odds {
		outcome, err := models.ParseOutcome(o.Outcome)
		if err != nil {
			continue
		}
		price := o.Price.InexactFloat64()
		switch outcome {
		case models.OutcomeHome:
			if q.Home == nil {
				q.Home = &price
			}
		case models.OutcomeDraw:
			if q.Draw == nil {
				q.Draw = &price
			}
		case models.OutcomeAway:
			if q.Away == nil {
				q.Away = &price
			}
		}
	}
	return q
}

// MatchInfo is what the presentation layer shows next to a prediction.
type MatchInfo struct {
	MatchID  int       `json:"matchID"`
	HomeTeam string    `json:"homeTeam"`
	AwayTeam string    `json:"awayTeam"`
	League   string    `json:"league"`
	Kickoff  time.Time `json:"kickoff"`
	Odds     Quotes    `json:"odds"`

	Home TeamSummary `json:"homeForm"`
	Away TeamSummary `json:"awayForm"`
}

// BuildRow assembles the feature row from both teams' summaries and prices.
func BuildRow(home, away TeamSummary, prices [3]float64) FeatureRow {
	return FeatureRow{
		home.GoalsFor, home.GoalsAgainst, home.Possession, home.XG, home.XGA,
		float64(home.Wins), float64(home.Draws), float64(home.Losses), home.Trend,
		away.GoalsFor, away.GoalsAgainst, away.Possession, away.XG, away.XGA,
		float64(away.Wins), float64(away.Draws), float64(away.Losses), away.Trend,
		prices[0], prices[1], prices[2],
	}
}

// BuildFeatures resolves a match and assembles its feature row from current form.
func (s *Service) BuildFeatures(ctx context.Context, matchID int) (FeatureRow, MatchInfo, error) {
	m, err := s.store.Match(ctx, matchID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return FeatureRow{}, MatchInfo{}, fmt.Errorf("match %d: %w", matchID, ErrNotFound)
		}
		return FeatureRow{}, MatchInfo{}, fmt.Errorf("%w: match %d: %v", ErrDataAccess, matchID, err)
	}
	return s.features(ctx, m, nil)
}

// snapshot builds the row a completed match would have had at kickoff.
func (s *Service) snapshot(ctx context.Context, m MatchRow) (FeatureRow, error) {
	kickoff := m.Kickoff
	row, _, err := s.features(ctx, m, &kickoff)
	return row, err
}

func (s *Service) features(ctx context.Context, m MatchRow, before *time.Time) (FeatureRow, MatchInfo, error) {
	odds, err := s.store.Odds(ctx, m.MatchID)
	if err != nil {
		s.log.Warn("odds unavailable, using defaults", zap.Int("match_id", m.MatchID), zap.Error(err))
		odds = nil
	}
	quotes := LatestQuotes(odds)

	home, err := s.TeamSummary(ctx, m.HomeTeamID, HomeVenue, before)
	if err != nil {
		home = FallbackSummary()
	}
	away, err := s.TeamSummary(ctx, m.AwayTeamID, AwayVenue, before)
	if err != nil {
		away = FallbackSummary()
	}

	info := MatchInfo{
		MatchID:  m.MatchID,
		HomeTeam: m.HomeTeam,
		AwayTeam: m.AwayTeam,
		League:   m.League,
		Kickoff:  m.Kickoff,
		Odds:     quotes,
		Home:     home,
		Away:     away,
	}
	return BuildRow(home, away, quotes.Prices()), info, nil
}
