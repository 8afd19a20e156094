package config

import (
	"fmt"
	"os"

	"connectfour/experiments"
	"connectfour/experiments/metrics"

	"gopkg.in/yaml.v3"
)

// Experiment is the YAML description of a set of matchups.
type Experiment struct {
	Name     string                `yaml:"name"`
	Games    int                   `yaml:"games"`
	Agents   []metrics.AgentConfig `yaml:"agents"`
	MatchUps [][]int               `yaml:"matchups"`
}

func LoadExperiment(path string) (Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Experiment{}, fmt.Errorf("failed to read experiment file: %w", err)
	}

	var exp Experiment
	if err := yaml.Unmarshal(data, &exp); err != nil {
		return Experiment{}, fmt.Errorf("failed to parse experiment file: %w", err)
	}
	if err := exp.Validate(); err != nil {
		return Experiment{}, fmt.Errorf("invalid experiment %s: %w", path, err)
	}
	return exp, nil
}

func (e Experiment) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("missing name")
	}
	if e.Games <= 0 {
		return fmt.Errorf("games must be positive, got %d", e.Games)
	}
	if len(e.MatchUps) == 0 {
		return fmt.Errorf("no matchups")
	}

	ids := map[int]bool{}
	for _, a := range e.Agents {
		if ids[a.ID] {
			return fmt.Errorf("duplicate agent id %d", a.ID)
		}
		ids[a.ID] = true
	}
	for i, m := range e.MatchUps {
		if len(m) != 2 {
			return fmt.Errorf("matchup %d needs two agent ids, got %d", i+1, len(m))
		}
		for _, id := range m {
			if !ids[id] {
				return fmt.Errorf("matchup %d references unknown agent %d", i+1, id)
			}
		}
	}
	return nil
}

func (e Experiment) Pairings() []experiments.MatchUp {
	pairings := make([]experiments.MatchUp, len(e.MatchUps))
	for i, m := range e.MatchUps {
		pairings[i] = experiments.MatchUp{Red: m[0], Yellow: m[1]}
	}
	return pairings
}
