// Package prediction turns team form and market odds into outcome
// probabilities, expected values and recorded predictions.
package prediction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/padraicbc/footyvalue/classifier"
	"github.com/padraicbc/footyvalue/models"
)

// Options configures a Service.
type Options struct {
	// Window is how many recent matches a TeamSummary covers.
	Window int
	// TrainingLimit caps how many completed matches feed a training run.
	TrainingLimit int
	ModelPath     string
	Classifier    classifier.Options
}

// Service runs the prediction pipeline. Build one at startup and share it.
type Service struct {
	store  Store
	engine *Engine
	opts   Options
	log    *zap.Logger
	now    func() time.Time
}

// New wires a Service to its store. The model starts Unloaded and is loaded
// or trained on first use.
func New(store Store, opts Options, log *zap.Logger) *Service {
	if opts.Window < 1 {
		opts.Window = 5
	}
	if opts.TrainingLimit < 1 {
		opts.TrainingLimit = 5000
	}
	if opts.Classifier.Iterations == 0 {
		opts.Classifier = classifier.DefaultOptions()
	}
	return &Service{
		store:  store,
		engine: NewEngine(opts.ModelPath, opts.Classifier, log),
		opts:   opts,
		log:    log.Named("prediction"),
		now:    time.Now,
	}
}

// Engine exposes the model lifecycle, mainly for status reporting.
func (s *Service) Engine() *Engine { return s.engine }

// Triple is a per-outcome value in home/draw/away order.
type Triple struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

func tripleOf(v [3]float64) Triple { return Triple{v[0], v[1], v[2]} }

// MatchPrediction is the full pipeline output for one match.
type MatchPrediction struct {
	Match          MatchInfo      `json:"match"`
	Predicted      models.Outcome `json:"predicted"`
	PredictedLabel string         `json:"predictedLabel"`
	Probabilities  Triple         `json:"probabilities"`
	Values         Triple         `json:"values"`
	Recommended    models.Outcome `json:"recommended"`
	RecommendedBet string         `json:"recommendedBet"`
	ExpectedValue  float64        `json:"expectedValue"`
	Confidence     float64        `json:"confidence"`
	ConfidenceBand string         `json:"confidenceBand"`
	ValueBand      string         `json:"valueBand"`
	Recorded       bool           `json:"recorded"`
}

// Score ranks value picks: expected value of the recommended bet weighted by confidence.
func (p MatchPrediction) Score() float64 {
	return p.ExpectedValue * p.Confidence
}

// PredictMatch runs the pipeline for one match and records the result.
// A recording failure is logged and reflected in Recorded only.
func (s *Service) PredictMatch(ctx context.Context, matchID int) (MatchPrediction, error) {
	row, info, err := s.BuildFeatures(ctx, matchID)
	if err != nil {
		return MatchPrediction{}, err
	}

	predicted, probs, err := s.engine.Predict(row)
	if errors.Is(err, ErrModelNotLoaded) {
		if err = s.EnsureModel(ctx); err == nil {
			predicted, probs, err = s.engine.Predict(row)
		}
	}
	if err != nil {
		return MatchPrediction{}, fmt.Errorf("predicting match %d: %w", matchID, err)
	}

	values := ExpectedValues(probs, info.Odds.Prices())
	best, bestValue := BestOutcome(values)
	confidence := Confidence(probs)

	mp := MatchPrediction{
		Match:          info,
		Predicted:      predicted,
		PredictedLabel: predicted.String(),
		Probabilities:  tripleOf(probs),
		Values:         tripleOf(values),
		Recommended:    best,
		RecommendedBet: best.String(),
		ExpectedValue:  bestValue,
		Confidence:     confidence,
		ConfidenceBand: ConfidenceBand(confidence),
		ValueBand:      ValueBand(bestValue),
	}

	rec := &models.Prediction{
		MatchID:          matchID,
		ProbHome:         probs[0],
		ProbDraw:         probs[1],
		ProbAway:         probs[2],
		PredictedOutcome: predicted,
		ValueHome:        values[0],
		ValueDraw:        values[1],
		ValueAway:        values[2],
		Confidence:       confidence,
	}
	mp.Recorded = s.Record(ctx, rec) == nil

	return mp, nil
}

// EnsureModel makes the engine Ready, loading the artifact or training a
// new model when none can be loaded.
func (s *Service) EnsureModel(ctx context.Context) error {
	if s.engine.Ready() {
		return nil
	}
	err := s.engine.Load()
	if err == nil {
		return nil
	}
	s.log.Info("no usable model artifact, training", zap.String("path", s.opts.ModelPath), zap.Error(err))

	_, err = s.Train(ctx)
	if errors.Is(err, ErrTrainingInProgress) {
		// another request is training; serve once it lands
		return ErrModelNotLoaded
	}
	return err
}

// Train rebuilds the training set from completed matches and fits a new model.
func (s *Service) Train(ctx context.Context) (classifier.Report, error) {
	examples, err := s.TrainingSet(ctx)
	if err != nil {
		return classifier.Report{}, err
	}
	return s.engine.Train(examples)
}

// TrainingSet labels every completed match with its result and pairs it
// with the features it had at kickoff.
func (s *Service) TrainingSet(ctx context.Context) ([]classifier.Example, error) {
	matches, err := s.store.CompletedMatches(ctx, s.opts.TrainingLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: completed matches: %v", ErrDataAccess, err)
	}

	examples := make([]classifier.Example, 0, len(matches))
	for _, m := range matches {
		if m.HomeGoals == nil || m.AwayGoals == nil {
			continue
		}
		row, err := s.snapshot(ctx, m)
		if err != nil {
			s.log.Warn("skipping training match", zap.Int("match_id", m.MatchID), zap.Error(err))
			continue
		}
		examples = append(examples, classifier.Example{
			Features: row.Slice(),
			Label:    int(models.OutcomeFromScore(*m.HomeGoals, *m.AwayGoals)),
		})
	}

	if len(examples) == 0 {
		return nil, classifier.ErrNoTrainingData
	}
	return examples, nil
}
