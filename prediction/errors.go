package prediction

import "errors"

var (
	// ErrNotFound means a match or team id did not resolve.
	ErrNotFound = errors.New("not found")
	// ErrModelNotLoaded means inference ran before any model was trained or loaded.
	ErrModelNotLoaded = errors.New("model not loaded")
	// ErrTrainingInProgress is returned when a second training run is requested concurrently.
	ErrTrainingInProgress = errors.New("training already in progress")
	// ErrDataAccess wraps store failures.
	ErrDataAccess = errors.New("data access failure")
	// ErrInsufficientTrainingData is logged, never returned, when a model is fitted on too few rows.
	ErrInsufficientTrainingData = errors.New("insufficient training data")
	// ErrMalformedInput is returned for probability or odds vectors of the wrong length.
	ErrMalformedInput = errors.New("malformed input")
)
