// Package config loads the YAML configuration for negotiation agents and the
// simulation that runs them.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Negotiation struct {
	RoundDuration time.Duration `yaml:"round_duration"`
	PollInterval  time.Duration `yaml:"poll_interval"`
	DrainLimit    int           `yaml:"drain_limit"`
	TieMargin     int           `yaml:"tie_margin"`
	MultiProposal bool          `yaml:"multi_proposal"`
}

// Strategy kinds
const (
	Template = "template"
	Random   = "random"
	Search   = "search"
)

type Strategy struct {
	Kind            string `yaml:"kind"`
	Seed            uint64 `yaml:"seed"`
	DMZs            int    `yaml:"dmzs"`
	Commitments     int    `yaml:"commitments"`
	ProvincesPerDMZ int    `yaml:"provinces_per_dmz"`
	SearchTries     int    `yaml:"search_tries"`
	PhasesAhead     int    `yaml:"phases_ahead"`
}

// Suggest points the template strategy at a suggestion server. An empty
// address uses the built-in policy.
type Suggest struct {
	Address string        `yaml:"address"`
	Timeout time.Duration `yaml:"timeout"`
}

// Journal is disabled when Path is empty.
type Journal struct {
	Path string `yaml:"path"`
}

// Metrics is disabled when Dir is empty.
type Metrics struct {
	Dir string `yaml:"dir"`
}

type Simulation struct {
	Rounds    int      `yaml:"rounds"`
	StartYear int      `yaml:"start_year"`
	Powers    []string `yaml:"powers"`
}

type Config struct {
	Negotiation Negotiation `yaml:"negotiation"`
	Strategy    Strategy    `yaml:"strategy"`
	Suggest     Suggest     `yaml:"suggest"`
	Journal     Journal     `yaml:"journal"`
	Metrics     Metrics     `yaml:"metrics"`
	Simulation  Simulation  `yaml:"simulation"`
}

func DefaultConfig() *Config {
	return &Config{
		Negotiation: Negotiation{
			RoundDuration: 2 * time.Second,
			PollInterval:  100 * time.Millisecond,
			DrainLimit:    32,
			TieMargin:     2,
		},
		Strategy: Strategy{
			Kind:            Template,
			Seed:            1,
			DMZs:            3,
			Commitments:     3,
			ProvincesPerDMZ: 3,
			SearchTries:     10,
		},
		Suggest: Suggest{
			Timeout: 500 * time.Millisecond,
		},
		Simulation: Simulation{
			Rounds:    10,
			StartYear: 1901,
			Powers:    []string{"ENG", "FRA", "GER", "ITA"},
		},
	}
}

// LoadConfig reads path over the defaults. An empty path or a missing file
// returns the defaults; invalid YAML or values are an error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Start with defaults, YAML overwrites only specified fields
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Negotiation.RoundDuration <= 0 {
		errs = append(errs, errors.New("negotiation.round_duration must be positive"))
	}
	if c.Negotiation.PollInterval <= 0 {
		errs = append(errs, errors.New("negotiation.poll_interval must be positive"))
	}
	if c.Negotiation.DrainLimit <= 0 {
		errs = append(errs, errors.New("negotiation.drain_limit must be positive"))
	}
	if c.Negotiation.TieMargin < 0 {
		errs = append(errs, errors.New("negotiation.tie_margin must not be negative"))
	}
	switch c.Strategy.Kind {
	case Template, Random, Search:
	default:
		errs = append(errs, fmt.Errorf("unknown strategy.kind %q", c.Strategy.Kind))
	}
	if c.Strategy.PhasesAhead < 0 {
		errs = append(errs, errors.New("strategy.phases_ahead must not be negative"))
	}
	if c.Strategy.DMZs < 0 {
		errs = append(errs, errors.New("strategy.dmzs must not be negative"))
	}
	if c.Strategy.Commitments < 0 {
		errs = append(errs, errors.New("strategy.commitments must not be negative"))
	}
	if c.Strategy.ProvincesPerDMZ <= 0 {
		errs = append(errs, errors.New("strategy.provinces_per_dmz must be positive"))
	}
	if c.Strategy.SearchTries < 0 {
		errs = append(errs, errors.New("strategy.search_tries must not be negative"))
	}
	if c.Simulation.Rounds < 0 {
		errs = append(errs, errors.New("simulation.rounds must not be negative"))
	}
	if len(c.Simulation.Powers) < 2 {
		errs = append(errs, errors.New("simulation.powers needs at least two powers"))
	}
	return errors.Join(errs...)
}
