package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/thalesfsp/mobo"
)

// Problem is the YAML schema for one bi-objective optimization problem:
// the domain, the engine options, and the observations collected so far.
type Problem struct {
	Bounds [][]float64 `yaml:"bounds"`

	Covariance  string `yaml:"covariance"`
	Acquisition string `yaml:"acquisition"`

	Normalize *bool `yaml:"normalize"`
	UseARD    *bool `yaml:"use_ard"`

	AcquisitionMultiplier float64 `yaml:"acquisition_multiplier"`

	Observations []Observation `yaml:"observations"`
}

// Observation pairs one evaluated input with its two objective values.
type Observation struct {
	X []float64 `yaml:"x"`
	Y []float64 `yaml:"y"`
}

// ParseProblemYAML parses a Problem from YAML bytes and validates it.
func ParseProblemYAML(data []byte) (*Problem, error) {
	var p Problem
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse problem yaml: %w", err)
	}

	if err := validateProblem(&p); err != nil {
		return nil, fmt.Errorf("invalid problem: %w", err)
	}

	return &p, nil
}

// LoadProblem reads and parses a problem file.
func LoadProblem(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read problem file: %w", err)
	}

	return ParseProblemYAML(data)
}

func validateProblem(p *Problem) error {
	if len(p.Bounds) == 0 {
		return fmt.Errorf("bounds must not be empty")
	}

	for i, b := range p.Bounds {
		if len(b) != 2 {
			return fmt.Errorf("bounds[%d] must be [lo, hi], got %d values", i, len(b))
		}

		if b[0] > b[1] {
			return fmt.Errorf("bounds[%d] has lo > hi (%v > %v)", i, b[0], b[1])
		}
	}

	if len(p.Observations) == 0 {
		return fmt.Errorf("at least one observation is required")
	}

	for i, obs := range p.Observations {
		if len(obs.X) != len(p.Bounds) {
			return fmt.Errorf("observation %d has %d coordinates, want %d", i, len(obs.X), len(p.Bounds))
		}

		if len(obs.Y) != 2 {
			return fmt.Errorf("observation %d has %d objective values, want exactly 2", i, len(obs.Y))
		}
	}

	return nil
}

// EngineConfig builds the engine configuration from the problem file,
// leaving unspecified options at their defaults.
func (p *Problem) EngineConfig() mobo.Config {
	bounds := make([][2]float64, len(p.Bounds))
	for i, b := range p.Bounds {
		bounds[i] = [2]float64{b[0], b[1]}
	}

	cfg := mobo.DefaultConfig(bounds)

	if p.Covariance != "" {
		cfg.CovarianceKind = p.Covariance
	}

	if p.Acquisition != "" {
		cfg.AcquisitionKind = p.Acquisition
	}

	if p.Normalize != nil {
		cfg.NormalizeResponses = *p.Normalize
	}

	if p.UseARD != nil {
		cfg.UseARD = *p.UseARD
	}

	if p.AcquisitionMultiplier > 0 {
		cfg.AcquisitionMultiplier = p.AcquisitionMultiplier
	}

	return cfg
}

// TrainingData splits the observations into the input matrix and the N×2
// response matrix the engine consumes.
func (p *Problem) TrainingData() (trainX [][]float64, trainY [][]float64) {
	trainX = make([][]float64, len(p.Observations))
	trainY = make([][]float64, len(p.Observations))

	for i, obs := range p.Observations {
		trainX[i] = obs.X
		trainY[i] = obs.Y
	}

	return trainX, trainY
}
