package agent

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"connectfour/searcher"
)

const (
	KindHuman   = "human"
	KindRandom  = "random"
	KindRollout = "rollout"
	KindTree    = "tree"
)

// Config describes an agent. Zero numeric fields fall back to the searcher defaults.
type Config struct {
	Kind       string `yaml:"kind"`
	Iterations int    `yaml:"iterations"`
	Depth      int    `yaml:"depth"`
	Scoring    string `yaml:"scoring"`
	Episodes   int    `yaml:"episodes"`
	Goroutines int    `yaml:"goroutines"`
	Cutoff     int    `yaml:"cutoff"`
	Seed       uint64 `yaml:"seed"`
}

func (c Config) String() string {
	switch strings.ToLower(c.Kind) {
	case KindRollout:
		scoring := c.Scoring
		if scoring == "" {
			scoring = searcher.Decay.String()
		}
		return fmt.Sprintf("rollout(iterations=%d depth=%d scoring=%s)",
			orDefault(c.Iterations, searcher.DefaultIterations), orDefault(c.Depth, searcher.DefaultDepth), scoring)
	case KindTree:
		return fmt.Sprintf("tree(episodes=%d goroutines=%d cutoff=%d)",
			orDefault(c.Episodes, searcher.DefaultEpisodes), orDefault(c.Goroutines, runtime.GOMAXPROCS(0)),
			orDefault(c.Cutoff, searcher.MaxCutoff))
	default:
		return strings.ToLower(c.Kind)
	}
}

// New builds the agent described by cfg. A zero seed is replaced by the current time.
func New(cfg Config) (Agent, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	switch strings.ToLower(cfg.Kind) {
	case KindHuman:
		return NewHuman(), nil
	case KindRandom:
		return NewRandom(seed), nil
	case KindRollout:
		scoring, err := searcher.ParseScoring(cfg.Scoring)
		if err != nil {
			return nil, err
		}
		return NewRollout(seed,
			searcher.WithIterations(orDefault(cfg.Iterations, searcher.DefaultIterations)),
			searcher.WithDepth(orDefault(cfg.Depth, searcher.DefaultDepth)),
			searcher.WithScoring(scoring),
			searcher.WithRolloutMetrics(),
		), nil
	case KindTree:
		return NewTree(seed, orDefault(cfg.Goroutines, runtime.GOMAXPROCS(0)),
			searcher.WithEpisodes(cfg.Episodes),
			searcher.WithCutoff(cfg.Cutoff),
			searcher.WithTreeMetrics(),
		), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}

func orDefault(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}
