package prediction

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/padraicbc/footyvalue/models"
)

// Venue restricts the conditional averages of a TeamSummary.
type Venue int

const (
	AnyVenue Venue = iota
	HomeVenue
	AwayVenue
)

func (v Venue) matches(isHome bool) bool {
	switch v {
	case HomeVenue:
		return isHome
	case AwayVenue:
		return !isHome
	}
	return true
}

// TeamSummary is a team's form over its most recent matches.
type TeamSummary struct {
	Matches           int     `json:"matches"`
	GoalsFor          float64 `json:"goalsFor"`
	GoalsAgainst      float64 `json:"goalsAgainst"`
	Possession        float64 `json:"possession"`
	XG                float64 `json:"xg"`
	XGA               float64 `json:"xga"`
	Wins              int     `json:"wins"`
	Draws             int     `json:"draws"`
	Losses            int     `json:"losses"`
	Trend             float64 `json:"trend"`
	VenueGoalsFor     float64 `json:"venueGoalsFor"`
	VenueGoalsAgainst float64 `json:"venueGoalsAgainst"`
}

// DefaultSummary is used for a team with no history.
func DefaultSummary() TeamSummary {
	return TeamSummary{Possession: 50}
}

// FallbackSummary stands in for a team whose stats could not be read.
func FallbackSummary() TeamSummary {
	return TeamSummary{Possession: 50, XG: 1.0, XGA: 1.0}
}

// trendRecent is how many of the newest matches the trend compares against the rest.
const trendRecent = 3

// Aggregate summarizes rows ordered newest first.
func Aggregate(rows []models.TeamStat, venue Venue) TeamSummary {
	if len(rows) == 0 {
		return DefaultSummary()
	}

	s := TeamSummary{Matches: len(rows)}
	var gf, ga, venueGF, venueGA float64
	var venueN int
	var poss, xg, xga meanAcc

	for _, r := range rows {
		gf += float64(r.GoalsFor)
		ga += float64(r.GoalsAgainst)
		poss.add(r.Possession)
		xg.add(r.XG)
		xga.add(r.XGA)

		switch {
		case r.GoalsFor > r.GoalsAgainst:
			s.Wins++
		case r.GoalsFor == r.GoalsAgainst:
			s.Draws++
		default:
			s.Losses++
		}

		if venue.matches(r.IsHome) {
			venueGF += float64(r.GoalsFor)
			venueGA += float64(r.GoalsAgainst)
			venueN++
		}
	}

	n := float64(len(rows))
	s.GoalsFor = gf / n
	s.GoalsAgainst = ga / n
	s.Possession = poss.mean(50)
	s.XG = xg.mean(1.0)
	s.XGA = xga.mean(1.0)

	if venueN > 0 {
		s.VenueGoalsFor = venueGF / float64(venueN)
		s.VenueGoalsAgainst = venueGA / float64(venueN)
	} else {
		s.VenueGoalsFor = s.GoalsFor
		s.VenueGoalsAgainst = s.GoalsAgainst
	}

	if len(rows) >= 5 {
		var recent, older float64
		for i, r := range rows {
			if i < trendRecent {
				recent += float64(r.GoalsFor)
			} else {
				older += float64(r.GoalsFor)
			}
		}
		s.Trend = recent/trendRecent - older/float64(len(rows)-trendRecent)
	}

	return s
}

// TeamSummary fetches the team's last window matches and aggregates them.
// A store failure is logged and returned; callers fall back to
// FallbackSummary.
func (s *Service) TeamSummary(ctx context.Context, teamID int, venue Venue, before *time.Time) (TeamSummary, error) {
	rows, err := s.store.RecentTeamStats(ctx, teamID, before, s.opts.Window)
	if err != nil {
		s.log.Warn("team stats unavailable", zap.Int("team_id", teamID), zap.Error(err))
		return TeamSummary{}, fmt.Errorf("%w: team %d stats: %v", ErrDataAccess, teamID, err)
	}
	return Aggregate(rows, venue), nil
}

type meanAcc struct {
	sum float64
	n   int
}

func (m *meanAcc) add(v *float64) {
	if v == nil {
		return
	}
	m.sum += *v
	m.n++
}

func (m meanAcc) mean(fallback float64) float64 {
	if m.n == 0 {
		return fallback
	}
	return m.sum / float64(m.n)
}
