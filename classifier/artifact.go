package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// ErrArtifactNotFound is returned by Load when either half of the pair is missing.
var ErrArtifactNotFound = errors.New("classifier: artifact not found")

type modelFile struct {
	Classes   int         `json:"classes"`
	Dim       int         `json:"dim"`
	Weights   [][]float64 `json:"weights"`
	Examples  int         `json:"examples"`
	TrainedAt time.Time   `json:"trainedAt"`
}

// ModelFile and ScalerFile name the two artifacts stored under path.
func ModelFile(path string) string  { return path + "_model.json" }
func ScalerFile(path string) string { return path + "_scaler.json" }

// Save writes the weights and the normalizer next to each other, creating
// the parent directory when needed.
func (m *Model) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating model dir: %w", err)
		}
	}

	mf := modelFile{
		Classes:   NumClasses,
		Dim:       m.Dim(),
		Weights:   m.Weights,
		Examples:  m.Examples,
		TrainedAt: m.TrainedAt,
	}
	if err := writeJSON(ModelFile(path), mf); err != nil {
		return err
	}
	return writeJSON(ScalerFile(path), m.Normalizer)
}

// Load reads a model pair written by Save.
func Load(path string) (*Model, error) {
	var mf modelFile
	if err := readJSON(ModelFile(path), &mf); err != nil {
		return nil, err
	}
	var norm Normalizer
	if err := readJSON(ScalerFile(path), &norm); err != nil {
		return nil, err
	}

	if mf.Classes != NumClasses || len(mf.Weights) != NumClasses {
		return nil, fmt.Errorf("classifier: %s has %d classes, want %d", ModelFile(path), len(mf.Weights), NumClasses)
	}
	if len(norm.Mean) != mf.Dim || len(norm.Std) != mf.Dim {
		return nil, fmt.Errorf("%w: scaler has %d features, model %d", ErrDimension, len(norm.Mean), mf.Dim)
	}
	for k, w := range mf.Weights {
		if len(w) != mf.Dim+1 {
			return nil, fmt.Errorf("%w: class %d has %d weights, want %d", ErrDimension, k, len(w), mf.Dim+1)
		}
	}

	return &Model{
		Normalizer: &norm,
		Weights:    mf.Weights,
		Examples:   mf.Examples,
		TrainedAt:  mf.TrainedAt,
	}, nil
}

func writeJSON(name string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	tmp := name + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := os.Rename(tmp, name); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

func readJSON(name string, v any) error {
	b, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrArtifactNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}
