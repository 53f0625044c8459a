package prediction

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/padraicbc/footyvalue/classifier"
	"github.com/padraicbc/footyvalue/models"
)

// State is the lifecycle of the model held by an Engine.
type State int

const (
	Unloaded State = iota
	Training
	Loaded
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Training:
		return "training"
	case Loaded:
		return "loaded"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Engine owns the classifier artifact for a process.
//
//	Unloaded --Load ok--> Loaded
//	Unloaded --Load fails, Train--> Training --ok--> Loaded
//	                                         --fails--> Unloaded
//
// A Loaded engine may be retrained; it keeps serving the old model while
// in Training and returns to Loaded whatever the outcome.
type Engine struct {
	path string
	opts classifier.Options
	log  *zap.Logger

	// save persists a fitted model; swapped in tests.
	save func(m *classifier.Model, path string) error

	mu     sync.RWMutex
	state  State
	model  *classifier.Model
	report *classifier.Report
}

// NewEngine returns an Unloaded engine persisting artifacts under path.
func NewEngine(path string, opts classifier.Options, log *zap.Logger) *Engine {
	return &Engine{
		path: path,
		opts: opts,
		log:  log.Named("engine"),
		save: (*classifier.Model).Save,
	}
}

// State reports the current lifecycle state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Ready reports whether Predict can be served.
func (e *Engine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model != nil
}

// LastReport returns the report of the most recent training run, if any.
func (e *Engine) LastReport() *classifier.Report {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.report
}

// Load reads the artifact pair from disk. On failure the state is unchanged.
func (e *Engine) Load() error {
	m, err := classifier.Load(e.path)
	if err != nil {
		return err
	}
	if m.Dim() != NumFeatures {
		return fmt.Errorf("%w: artifact has %d features, want %d", classifier.ErrDimension, m.Dim(), NumFeatures)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Training {
		return ErrTrainingInProgress
	}
	e.model, e.state = m, Loaded
	e.log.Info("model loaded", zap.String("path", e.path), zap.Int("examples", m.Examples), zap.Time("trained_at", m.TrainedAt))
	return nil
}

// Train fits a new model and persists it. A save failure is logged; the
// fitted model is still installed. The old model keeps serving until then.
func (e *Engine) Train(examples []classifier.Example) (classifier.Report, error) {
	e.mu.Lock()
	if e.state == Training {
		e.mu.Unlock()
		return classifier.Report{}, ErrTrainingInProgress
	}
	prev := e.state
	e.state = Training
	e.mu.Unlock()

	m, report, err := classifier.Train(examples, e.opts)
	if err != nil {
		e.mu.Lock()
		e.state = prev
		e.mu.Unlock()
		return report, err
	}

	if report.LowData {
		e.log.Warn("model trained on few examples",
			zap.Error(ErrInsufficientTrainingData),
			zap.Int("examples", report.Examples),
			zap.Int("min_examples", classifier.MinExamples))
	}
	if err := e.save(m, e.path); err != nil {
		e.log.Error("saving model failed", zap.String("path", e.path), zap.Error(err))
	}

	e.mu.Lock()
	e.model, e.report, e.state = m, &report, Loaded
	e.mu.Unlock()

	e.log.Info("model trained",
		zap.Int("examples", report.Examples),
		zap.Int("holdout", report.HoldoutSize),
		zap.Float64("holdout_accuracy", report.Accuracy))
	return report, nil
}

// Predict classifies a feature row.
func (e *Engine) Predict(row FeatureRow) (models.Outcome, [3]float64, error) {
	e.mu.RLock()
	m := e.model
	e.mu.RUnlock()
	if m == nil {
		return 0, [3]float64{}, ErrModelNotLoaded
	}

	class, probs, err := m.Predict(row.Slice())
	if err != nil {
		return 0, probs, err
	}
	return models.Outcome(class), probs, nil
}
