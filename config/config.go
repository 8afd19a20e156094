package config

import (
	"os"
	"strconv"
	"time"

	"connectfour/agent"

	"github.com/rs/zerolog/log"
)

const (
	ModePlay       = "play"
	ModeMatch      = "match"
	ModeExperiment = "experiment"
)

type Config struct {
	Mode           string
	Red            agent.Config
	Yellow         agent.Config
	Tick           time.Duration
	Games          int
	ExperimentFile string
	OutputDir      string
	LogLevel       string
}

// LoadConfig reads the environment. Both agents share the search settings
// and differ only by kind; SEED seeds red and SEED+1 yellow.
func LoadConfig() Config {
	seed := uint64(GetEnvAsInt("SEED", 0))
	search := agent.Config{
		Iterations: GetEnvAsInt("ROLLOUT_ITERATIONS", 250),
		Depth:      GetEnvAsInt("ROLLOUT_DEPTH", 5),
		Scoring:    GetEnv("ROLLOUT_SCORING", "decay"),
		Episodes:   GetEnvAsInt("TREE_EPISODES", 2000),
		Goroutines: GetEnvAsInt("TREE_GOROUTINES", 4),
		Cutoff:     GetEnvAsInt("TREE_CUTOFF", 42),
	}

	red, yellow := search, search
	red.Kind = GetEnv("RED_AGENT", agent.KindHuman)
	yellow.Kind = GetEnv("YELLOW_AGENT", agent.KindRollout)
	if seed != 0 {
		red.Seed, yellow.Seed = seed, seed+1
	}

	cfg := Config{
		Mode:           GetEnv("MODE", ModePlay),
		Red:            red,
		Yellow:         yellow,
		Tick:           GetEnvAsDuration("TICK_INTERVAL", 16*time.Millisecond),
		Games:          GetEnvAsInt("GAMES", 10),
		ExperimentFile: GetEnv("EXPERIMENT_FILE", ""),
		OutputDir:      GetEnv("OUTPUT_DIR", "experiments"),
		LogLevel:       GetEnv("LOG_LEVEL", "info"),
	}

	log.Debug().Msgf("Config loaded: mode=%s red=%s yellow=%s tick=%s games=%d", cfg.Mode, cfg.Red, cfg.Yellow, cfg.Tick, cfg.Games)
	return cfg
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Msgf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Warn().Msgf("Invalid duration value for %s: %s, using default: %s", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
