// Package config loads impcheck's YAML configuration: the analysis
// knobs that the evaluator's widening discipline and the CLI's output
// layer otherwise default on their own.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Color selects when diagnostic output is colorized.
type Color string

const (
	ColorAuto   Color = "auto"
	ColorAlways Color = "always"
	ColorNever  Color = "never"
)

// Engine selects which evaluation strategy check runs.
type Engine string

const (
	EngineStructural Engine = "structural"
	EngineWorklist   Engine = "worklist"
)

// Config holds every analysis and presentation knob impcheck exposes.
// Zero value is not meaningful; use Default.
type Config struct {
	WideningThreshold   int    `yaml:"widening_threshold"`
	NarrowingIterations int    `yaml:"narrowing_iterations"`
	DisjunctionBound    int    `yaml:"disjunction_bound"`
	Color               Color  `yaml:"color"`
	Engine              Engine `yaml:"engine"`
	LogLevel            string `yaml:"log_level"`
}

// Default returns the configuration used when no file is present:
// widen after 5 join iterations (spec.md §4.4's "typically 3-7"),
// narrow for 2 steps, bound disjunctive components at 4.
func Default() Config {
	return Config{
		WideningThreshold:   5,
		NarrowingIterations: 2,
		DisjunctionBound:    4,
		Color:               ColorAuto,
		Engine:              EngineStructural,
		LogLevel:            "warn",
	}
}

// Load reads and parses the YAML file at path, filling in any field
// the file omits with Default's value. A missing file is not an
// error: Load returns Default() unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()

	var onDisk Config
	if err := yaml.NewDecoder(f).Decode(&onDisk); err != nil {
		return cfg, err
	}
	if onDisk.WideningThreshold > 0 {
		cfg.WideningThreshold = onDisk.WideningThreshold
	}
	if onDisk.NarrowingIterations > 0 {
		cfg.NarrowingIterations = onDisk.NarrowingIterations
	}
	if onDisk.DisjunctionBound > 0 {
		cfg.DisjunctionBound = onDisk.DisjunctionBound
	}
	if onDisk.Color != "" {
		cfg.Color = onDisk.Color
	}
	if onDisk.Engine != "" {
		cfg.Engine = onDisk.Engine
	}
	if onDisk.LogLevel != "" {
		cfg.LogLevel = onDisk.LogLevel
	}
	return cfg, nil
}

// Write marshals cfg as YAML and creates path, per impcheck init's
// contract. It overwrites an existing file.
func Write(path string, cfg Config) error {
	d, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(d)
	return err
}
