package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"connectfour/agent"
	"connectfour/config"
	"connectfour/engine"
	"connectfour/experiments"
	"connectfour/game"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}
	cfg := config.LoadConfig()

	flag.StringVar(&cfg.Mode, "mode", cfg.Mode, "play, match or experiment")
	flag.StringVar(&cfg.Red.Kind, "red", cfg.Red.Kind, "Red agent: human, random, rollout or tree")
	flag.StringVar(&cfg.Yellow.Kind, "yellow", cfg.Yellow.Kind, "Yellow agent: human, random, rollout or tree")
	flag.IntVar(&cfg.Games, "games", cfg.Games, "Games per match or matchup")
	flag.StringVar(&cfg.ExperimentFile, "experiment", cfg.ExperimentFile, "YAML experiment file")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Directory for experiment records")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "trace, debug, info, warn or error")
	flag.Parse()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Mode {
	case config.ModePlay:
		err = play(ctx, cfg, os.Stdin, os.Stdout)
	case config.ModeMatch:
		err = match(ctx, cfg)
	case config.ModeExperiment:
		err = experiment(ctx, cfg)
	default:
		err = fmt.Errorf("unknown mode %q", cfg.Mode)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msgf("%s failed", cfg.Mode)
	}
}

func newAgents(cfg config.Config) (agent.Agent, agent.Agent, error) {
	red, err := agent.New(cfg.Red)
	if err != nil {
		return nil, nil, fmt.Errorf("red agent: %w", err)
	}
	yellow, err := agent.New(cfg.Yellow)
	if err != nil {
		return nil, nil, fmt.Errorf("yellow agent: %w", err)
	}
	return red, yellow, nil
}

// play runs games in the terminal until q is typed or the context ends.
func play(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer) error {
	red, yellow, err := newAgents(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	input := make(chan int)
	// Unbuffered: r only counts while a finished game waits for it
	restart := make(chan struct{})
	go readCommands(ctx, cancel, in, input, restart)

	e := engine.New(red, yellow,
		engine.WithTick(cfg.Tick),
		engine.WithInput(input),
		engine.WithOnMove(func(m engine.Move) {
			fmt.Fprintf(out, "%s plays column %d\n%s\n", m.Player, m.Column+1, m.State)
		}),
	)

	for {
		state := e.State()
		fmt.Fprintf(out, "%s\n%s to move. Type a column from 1 to %d, r to restart, q to quit.\n",
			state, state.PlayerTurn(), game.Cols)

		result, err := e.Run(ctx)
		if err != nil {
			return err
		}
		if result.Winner == game.None {
			fmt.Fprintln(out, "Draw! Type r to play again or q to quit.")
		} else {
			fmt.Fprintf(out, "%s wins from column %d row %d to column %d row %d! Type r to play again or q to quit.\n",
				result.Winner, result.Line.Start.Col+1, result.Line.Start.Row+1, result.Line.End.Col+1, result.Line.End.Row+1)
		}

		if err := awaitRestart(ctx, input, restart); err != nil {
			return err
		}
		e.Restart()
	}
}

// awaitRestart blocks until r is typed, dropping the columns typed meanwhile.
func awaitRestart(ctx context.Context, input <-chan int, restart <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case col := <-input:
			log.Warn().Msgf("ignoring column %d, the game is over", col+1)
		case <-restart:
			return nil
		}
	}
}

func readCommands(ctx context.Context, quit context.CancelFunc, in io.Reader, input chan<- int, restart chan<- struct{}) {
	defer quit()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.ToLower(scanner.Text()))
		switch line {
		case "":
			continue
		case "q":
			return
		case "r":
			select {
			case restart <- struct{}{}:
			default:
				log.Warn().Msg("ignoring r, only a finished game can be restarted")
			}
			continue
		}

		col, err := strconv.Atoi(line)
		if err != nil {
			log.Warn().Msgf("ignoring %q, expected a column, r or q", line)
			continue
		}
		select {
		case input <- col - 1:
		case <-ctx.Done():
			return
		}
	}
}

func match(ctx context.Context, cfg config.Config) error {
	red, yellow, err := newAgents(cfg)
	if err != nil {
		return err
	}
	if red.AwaitsInput() || yellow.AwaitsInput() {
		return fmt.Errorf("match mode needs two computer agents, got red=%s yellow=%s", cfg.Red.Kind, cfg.Yellow.Kind)
	}

	log.Info().Msgf("starting %d games between red=%s and yellow=%s", cfg.Games, cfg.Red, cfg.Yellow)
	results, err := engine.New(red, yellow, engine.WithTick(cfg.Tick)).RunSeries(ctx, cfg.Games)

	score := map[game.Player]int{}
	for _, result := range results {
		score[result.Winner]++
	}
	log.Info().Msgf("red %d, yellow %d, draws %d", score[game.Red], score[game.Yellow], score[game.None])
	return err
}

func experiment(ctx context.Context, cfg config.Config) error {
	if cfg.ExperimentFile == "" {
		_, err := experiments.RunScoringExperiment(ctx, cfg.Games, cfg.OutputDir)
		return err
	}

	exp, err := config.LoadExperiment(cfg.ExperimentFile)
	if err != nil {
		return err
	}
	_, err = experiments.Run(ctx, exp.Name, exp.Agents, exp.Pairings(), exp.Games, cfg.OutputDir)
	return err
}
