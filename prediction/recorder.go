package prediction

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/padraicbc/footyvalue/models"
)

// Record stores p keyed by (match, now). A second record for the same key
// overwrites the probabilities, values, confidence and class.
func (s *Service) Record(ctx context.Context, p *models.Prediction) error {
	// postgres keeps microseconds; truncate so the conflict key round-trips
	p.PredictedAt = s.now().UTC().Truncate(time.Microsecond)

	if err := s.store.UpsertPrediction(ctx, p); err != nil {
		s.log.Error("recording prediction failed", zap.Int("match_id", p.MatchID), zap.Error(err))
		return fmt.Errorf("%w: recording prediction for match %d: %v", ErrDataAccess, p.MatchID, err)
	}
	s.log.Debug("prediction recorded",
		zap.Int("match_id", p.MatchID),
		zap.Stringer("predicted", p.PredictedOutcome),
		zap.Float64("confidence", p.Confidence))
	return nil
}

// Reconcile settles every pending prediction whose match now has a final
// score and returns how many were updated. Updates are all-or-nothing.
func (s *Service) Reconcile(ctx context.Context) (int, error) {
	pending, err := s.store.PendingPredictions(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: pending predictions: %v", ErrDataAccess, err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	updates := make(map[int]bool, len(pending))
	for _, p := range pending {
		actual := models.OutcomeFromScore(p.HomeGoals, p.AwayGoals)
		updates[p.PredictionID] = actual == p.PredictedOutcome
	}

	if err := s.store.SetCorrectness(ctx, updates); err != nil {
		s.log.Error("reconciliation rolled back", zap.Int("pending", len(pending)), zap.Error(err))
		return 0, fmt.Errorf("%w: reconciling: %v", ErrDataAccess, err)
	}

	s.log.Info("predictions reconciled", zap.Int("updated", len(updates)))
	return len(updates), nil
}
