package kmsig

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/kmsig/kmeans"
	"gopkg.in/yaml.v3"
)

// DefaultClusters is the default number of clusters.
const DefaultClusters = 10

// Config describes one clustering run. It is loaded from YAML by LoadConfig
// and may be overridden field by field by the CLI.
type Config struct {
	// Signatures is the signature blob name, e.g. "docs.bin" or "docs.bin.zst".
	Signatures string `yaml:"signatures"`
	// Identifiers is the optional identifier blob name.
	Identifiers string `yaml:"identifiers,omitempty"`
	// Assignments is the CSV output with one "identifier,cluster" row per vector.
	Assignments string `yaml:"assignments"`
	// Trace is the optional CSV output with one "round,rmse" row per round.
	Trace string `yaml:"trace,omitempty"`
	// MaxVectors caps the number of records read. -1 reads all.
	MaxVectors int `yaml:"max_vectors"`

	Clusters           int     `yaml:"clusters"`
	Threads            int     `yaml:"threads"`
	MaxIters           int     `yaml:"max_iters"`
	Epsilon            float64 `yaml:"epsilon"`
	EnforceNumClusters bool    `yaml:"enforce_num_clusters"`
	SAStart            float64 `yaml:"sa_start"`
	SAIters            int     `yaml:"sa_iters"`
	Seeding            string  `yaml:"seeding"`
	LocalTrials        int     `yaml:"local_trials"`
	GrainSize          int     `yaml:"grain_size"`

	// Seed makes the run reproducible. nil seeds from the clock.
	Seed *uint64 `yaml:"seed,omitempty"`
}

// DefaultConfig returns a Config with the engine defaults and no blobs.
func DefaultConfig() Config {
	ec := kmeans.DefaultConfig(DefaultClusters)
	return Config{
		MaxVectors:  -1,
		Clusters:    ec.NumClusters,
		Threads:     ec.NumThreads,
		MaxIters:    ec.MaxIters,
		Epsilon:     ec.Epsilon,
		SAStart:     ec.SAStart,
		SAIters:     ec.SAIters,
		Seeding:     ec.Seeding.String(),
		LocalTrials: ec.LocalTrials,
		GrainSize:   ec.GrainSize,
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig. Unknown keys are
// rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("kmsig: load config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

// EngineConfig converts c to the engine configuration.
func (c Config) EngineConfig() (kmeans.Config, error) {
	seeding, err := kmeans.ParseSeeding(c.Seeding)
	if err != nil {
		return kmeans.Config{}, err
	}
	return kmeans.Config{
		NumClusters:        c.Clusters,
		NumThreads:         c.Threads,
		MaxIters:           c.MaxIters,
		Epsilon:            c.Epsilon,
		EnforceNumClusters: c.EnforceNumClusters,
		SAStart:            c.SAStart,
		SAIters:            c.SAIters,
		Seeding:            seeding,
		LocalTrials:        c.LocalTrials,
		GrainSize:          c.GrainSize,
	}, nil
}

// Validate checks the blob names and the engine settings.
func (c Config) Validate() error {
	if c.Signatures == "" {
		return ErrMissingSignatures
	}
	if c.Assignments == "" {
		return ErrMissingAssignments
	}
	ec, err := c.EngineConfig()
	if err != nil {
		return err
	}
	return ec.Validate()
}
