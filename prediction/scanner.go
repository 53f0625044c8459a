package prediction

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/padraicbc/footyvalue/models"
)

// ScanParams filters value picks.
type ScanParams struct {
	Days          int
	MinValue      float64
	MinConfidence float64
}

// DefaultScanParams looks a week ahead for picks worth at least 5% with a
// 0.1 probability gap.
func DefaultScanParams() ScanParams {
	return ScanParams{Days: 7, MinValue: 0.05, MinConfidence: 0.1}
}

// ScanUpcoming predicts every fixture kicking off in the next p.Days days
// and returns those clearing both thresholds, best Score first. A failure on
// one match is logged and the scan moves on.
func (s *Service) ScanUpcoming(ctx context.Context, p ScanParams) ([]MatchPrediction, error) {
	if p.Days < 0 {
		return nil, fmt.Errorf("%w: days must not be negative", ErrMalformedInput)
	}

	log := s.log.With(zap.String("scan_id", uuid.NewString()))

	if err := s.EnsureModel(ctx); err != nil {
		return nil, err
	}

	now := s.now()
	fixtures, err := s.store.Fixtures(ctx, now, now.AddDate(0, 0, p.Days), 0)
	if err != nil {
		return nil, fmt.Errorf("%w: fixtures: %v", ErrDataAccess, err)
	}
	log.Info("scan started", zap.Int("fixtures", len(fixtures)), zap.Int("days", p.Days),
		zap.Float64("min_value", p.MinValue), zap.Float64("min_confidence", p.MinConfidence))

	var picks []MatchPrediction
	for _, f := range fixtures {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mp, err := s.PredictMatch(ctx, f.MatchID)
		if err != nil {
			log.Warn("skipping fixture", zap.Int("match_id", f.MatchID), zap.Error(err))
			continue
		}
		if mp.ExpectedValue >= p.MinValue && mp.Confidence >= p.MinConfidence {
			picks = append(picks, mp)
		}
	}

	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].Score() > picks[j].Score()
	})

	log.Info("scan finished", zap.Int("picks", len(picks)))
	return picks, nil
}

// Performance summarizes reconciled predictions. ROI is a percentage of
// one unit staked on every prediction.
type Performance struct {
	Days     int     `json:"days"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
	ROI      float64 `json:"roi"`
}

// ModelPerformance scores predictions for matches kicked off in the last days days.
func (s *Service) ModelPerformance(ctx context.Context, days int) (Performance, error) {
	if days < 0 {
		return Performance{}, fmt.Errorf("%w: days must not be negative", ErrMalformedInput)
	}
	since := s.now().AddDate(0, 0, -days)
	preds, err := s.store.ReconciledPredictions(ctx, since)
	if err != nil {
		return Performance{}, fmt.Errorf("%w: reconciled predictions: %v", ErrDataAccess, err)
	}
	return Summarize(preds, days), nil
}

// Summarize computes Performance over reconciled predictions. The payout of
// a correct pick is the decimal odds implied by its stored value and
// probability.
func Summarize(preds []models.Prediction, days int) Performance {
	perf := Performance{Days: days}
	var returned float64
	for i := range preds {
		p := &preds[i]
		if p.Correct == nil {
			continue
		}
		perf.Total++
		if !*p.Correct {
			continue
		}
		perf.Correct++
		k := p.PredictedOutcome
		if !k.Valid() {
			continue
		}
		prob := p.Probabilities()[k]
		if prob > 0 {
			returned += (1 + p.Values()[k]) / prob
		}
	}
	if perf.Total == 0 {
		return perf
	}
	total := float64(perf.Total)
	perf.Accuracy = float64(perf.Correct) / total
	perf.ROI = (returned - total) / total * 100
	return perf
}

// Fixture is an upcoming match with its current quotes.
type Fixture struct {
	MatchRow
	Odds Quotes `json:"odds"`
}

// Upcoming lists fixtures kicking off in the next days days, optionally for one league.
func (s *Service) Upcoming(ctx context.Context, days, leagueID int) ([]Fixture, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: days must not be negative", ErrMalformedInput)
	}
	now := s.now()
	rows, err := s.store.Fixtures(ctx, now, now.AddDate(0, 0, days), leagueID)
	if err != nil {
		return nil, fmt.Errorf("%w: fixtures: %v", ErrDataAccess, err)
	}

	out := make([]Fixture, 0, len(rows))
	for _, r := range rows {
		odds, err := s.store.Odds(ctx, r.MatchID)
		if err != nil {
			s.log.Warn("odds unavailable", zap.Int("match_id", r.MatchID), zap.Error(err))
		}
		out = append(out, Fixture{MatchRow: r, Odds: LatestQuotes(odds)})
	}
	return out, nil
}

// History returns the latest limit stored predictions, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrMalformedInput)
	}
	entries, err := s.store.History(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: history: %v", ErrDataAccess, err)
	}
	for i := range entries {
		entries[i].PredictedLabel = entries[i].PredictedOutcome.String()
	}
	return entries, nil
}

// Leagues lists every known league.
func (s *Service) Leagues(ctx context.Context) ([]models.League, error) {
	leagues, err := s.store.Leagues(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: leagues: %v", ErrDataAccess, err)
	}
	return leagues, nil
}
