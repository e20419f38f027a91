// Package config provides configuration loading and management for the
// correlation core. It handles loading configuration from YAML files and
// provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML.
type Config struct {
	// Subset controls the size of the reference/target subsets centered on
	// each point of interest.
	Subset struct {
		// RadiusX, RadiusY, RadiusZ are the subset half-widths along each
		// axis, in pixels/voxels. RadiusZ is unused for 2D estimators.
		RadiusX int `yaml:"radiusX"`
		RadiusY int `yaml:"radiusY"`
		RadiusZ int `yaml:"radiusZ"`

		// MinNorm is the minimum zero-mean subset norm accepted before a
		// POI is flagged degenerate rather than correlated.
		MinNorm float64 `yaml:"minNorm"`
	} `yaml:"subset"`

	// Iteration controls the ICGN refinement loop.
	Iteration struct {
		// ConvCriterion is the maximum allowed weighted-norm deformation
		// increment at which iteration stops successfully.
		ConvCriterion float64 `yaml:"convCriterion"`

		// StopCondition is the maximum number of ICGN iterations attempted
		// before a POI is flagged diverged.
		StopCondition int `yaml:"stopCondition"`

		// MaxHessianCondition is the maximum acceptable condition number of
		// the assembled Hessian; POIs above this are flagged ill-conditioned
		// even when the linear solve itself succeeds.
		MaxHessianCondition float64 `yaml:"maxHessianCondition"`
	} `yaml:"iteration"`

	// Parallel controls the POI batch dispatcher.
	Parallel struct {
		// WorkerCount is the number of goroutines used to correlate a POI
		// batch. Zero means use runtime.NumCPU().
		WorkerCount int `yaml:"workerCount"`

		// ScratchPoolSize bounds the number of reusable FFT-CC scratch
		// instances kept alive concurrently. The ICGN estimators do not use
		// a scratch pool.
		ScratchPoolSize int `yaml:"scratchPoolSize"`
	} `yaml:"parallel"`

	// Speckle controls the FFT-CC speckle-size diagnostic.
	Speckle struct {
		// HalfPeakRatio is the fraction of the correlation peak height used
		// to bound the half-peak search when estimating speckle size.
		HalfPeakRatio float64 `yaml:"halfPeakRatio"`
	} `yaml:"speckle"`
}

// Default returns a configuration with default values.
func Default() *Config {
	cfg := &Config{}

	cfg.Subset.RadiusX = 16
	cfg.Subset.RadiusY = 16
	cfg.Subset.RadiusZ = 16
	cfg.Subset.MinNorm = 1e-6

	cfg.Iteration.ConvCriterion = 0.001
	cfg.Iteration.StopCondition = 20
	cfg.Iteration.MaxHessianCondition = 1e8

	cfg.Parallel.WorkerCount = runtime.NumCPU()
	cfg.Parallel.ScratchPoolSize = runtime.NumCPU()

	cfg.Speckle.HalfPeakRatio = 0.5

	return cfg
}

// Load loads configuration from a YAML file. If the file doesn't exist, it
// returns the default configuration.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func Save(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultFile creates a default configuration file at the specified path.
func CreateDefaultFile(configPath string) error {
	cfg := Default()
	return Save(cfg, configPath)
}
