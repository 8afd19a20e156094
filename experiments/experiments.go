package experiments

import (
	"context"
	"fmt"
	"time"

	"connectfour/agent"
	"connectfour/engine"
	"connectfour/experiments/metrics"
	"connectfour/game"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
)

const (
	NumGames = 20 // Per match up
	Tick     = time.Millisecond
)

// MatchUp pairs two AgentConfig ids. Red keeps its color for the whole
// series while the starting player alternates.
type MatchUp struct {
	Red    int
	Yellow int
}

// Standing summarizes the games of a single matchup.
type Standing struct {
	MatchUp
	RedWins    int
	YellowWins int
	Draws      int
	// Think time per move in milliseconds
	ThinkMean float64
	ThinkStd  float64
}

func (s Standing) Games() int {
	return s.RedWins + s.YellowWins + s.Draws
}

type Summary struct {
	Name      string
	Dir       string
	Standings []Standing
}

var baselineRollout = metrics.AgentConfig{ID: 0, Config: agent.Config{Kind: agent.KindRollout}}

// RunScoringExperiment pits decaying against flat rollout scoring, each side starting half the games.
func RunScoringExperiment(ctx context.Context, games int, outDir string) (Summary, error) {
	configs := []metrics.AgentConfig{
		{ID: 1, Config: agent.Config{Kind: agent.KindRollout, Scoring: "decay"}},
		{ID: 2, Config: agent.Config{Kind: agent.KindRollout, Scoring: "flat"}},
	}
	matchUps := []MatchUp{{Red: 1, Yellow: 2}, {Red: 2, Yellow: 1}}

	return Run(ctx, "scoring", configs, matchUps, games, outDir)
}

// RunDepthExperiment plays rollout agents of several depths against the default one.
func RunDepthExperiment(ctx context.Context, games int, outDir string) (Summary, error) {
	configs := []metrics.AgentConfig{baselineRollout}
	matchUps := []MatchUp{}
	for i, depth := range []int{3, 5, 8} {
		config := metrics.AgentConfig{ID: i + 1, Config: agent.Config{Kind: agent.KindRollout, Depth: depth}}
		configs = append(configs, config)
		matchUps = append(matchUps, MatchUp{Red: baselineRollout.ID, Yellow: config.ID})
	}

	return Run(ctx, "depth", configs, matchUps, games, outDir)
}

// RunBaselineExperiment measures both search agents against random play.
func RunBaselineExperiment(ctx context.Context, games int, outDir string) (Summary, error) {
	random := metrics.AgentConfig{ID: 0, Config: agent.Config{Kind: agent.KindRandom}}
	configs := []metrics.AgentConfig{
		random,
		{ID: 1, Config: agent.Config{Kind: agent.KindRollout}},
		{ID: 2, Config: agent.Config{Kind: agent.KindTree}},
	}
	matchUps := []MatchUp{{Red: 1, Yellow: 0}, {Red: 2, Yellow: 0}}

	return Run(ctx, "baseline", configs, matchUps, games, outDir)
}

// Run plays games per matchup and stores every config, game and move under outDir.
func Run(ctx context.Context, name string, configs []metrics.AgentConfig, matchUps []MatchUp, games int, outDir string) (Summary, error) {
	byID := make(map[int]metrics.AgentConfig, len(configs))
	for _, config := range configs {
		byID[config.ID] = config
	}
	for _, m := range matchUps {
		if _, ok := byID[m.Red]; !ok {
			return Summary{}, fmt.Errorf("matchup references unknown agent %d", m.Red)
		}
		if _, ok := byID[m.Yellow]; !ok {
			return Summary{}, fmt.Errorf("matchup references unknown agent %d", m.Yellow)
		}
	}

	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}
	summary := Summary{Name: name}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, m := range matchUps {
		red, yellow := byID[m.Red], byID[m.Yellow]
		log.Info().Msgf("starting matchup %d of %d between red=%s and yellow=%s...", mi+1, len(matchUps), red, yellow)

		results, err := runSeries(ctx, red, yellow, games)
		if err != nil {
			return summary, fmt.Errorf("matchup %d: %w", mi+1, err)
		}

		standing := Standing{MatchUp: m}
		thinkTimes := []float64{}
		for _, result := range results {
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Red:        m.Red,
				Yellow:     m.Yellow,
				GameMetric: result.Game,
			})
			for _, mm := range result.Moves {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
				thinkTimes = append(thinkTimes, float64(mm.ThinkTime)/float64(time.Millisecond))
			}

			switch result.Winner {
			case game.Red:
				standing.RedWins++
			case game.Yellow:
				standing.YellowWins++
			default:
				standing.Draws++
			}
		}
		if len(thinkTimes) > 0 {
			standing.ThinkMean, standing.ThinkStd = stat.MeanStdDev(thinkTimes, nil)
		}
		summary.Standings = append(summary.Standings, standing)

		log.Info().Msgf("completed matchup %d of %d: red %d, yellow %d, draws %d, think time %.2f±%.2fms",
			mi+1, len(matchUps), standing.RedWins, standing.YellowWins, standing.Draws, standing.ThinkMean, standing.ThinkStd)
	}

	log.Info().Msgf("completed %s experiment", name)

	dir, err := store(name, outDir, configs, gameRecords, moveRecords)
	summary.Dir = dir
	return summary, err
}

func runSeries(ctx context.Context, red, yellow metrics.AgentConfig, games int) ([]engine.Result, error) {
	redAgent, err := agent.New(red.Config)
	if err != nil {
		return nil, err
	}
	yellowAgent, err := agent.New(yellow.Config)
	if err != nil {
		return nil, err
	}
	if redAgent.AwaitsInput() || yellowAgent.AwaitsInput() {
		return nil, fmt.Errorf("experiments cannot use %s agents", agent.KindHuman)
	}

	return engine.New(redAgent, yellowAgent, engine.WithTick(Tick)).RunSeries(ctx, games)
}

func store(name, outDir string, configs []metrics.AgentConfig, games []metrics.GameRecord, moves []metrics.MoveRecord) (string, error) {
	writer, err := metrics.NewWriter(outDir, name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	err = writer.WriteAgentConfigs(configs)
	if err != nil {
		return writer.Dir(), err
	}
	log.Info().Msg("stored agent configs")

	err = writer.WriteGameRecords(games)
	if err != nil {
		return writer.Dir(), err
	}
	log.Info().Msg("stored game records")

	err = writer.WriteMoveRecords(moves)
	if err != nil {
		return writer.Dir(), err
	}
	log.Info().Msgf("stored move records in %s", writer.Dir())
	return writer.Dir(), nil
}
