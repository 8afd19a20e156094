package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"connectfour/agent"
	"connectfour/config"

	"github.com/stretchr/testify/require"
)

func testConfig(red, yellow string) config.Config {
	return config.Config{
		Red:    agent.Config{Kind: red, Seed: 1},
		Yellow: agent.Config{Kind: yellow, Seed: 2},
		Tick:   time.Millisecond,
		Games:  2,
	}
}

// playWithin fails the test if play does not return in time.
func playWithin(t *testing.T, cfg config.Config, script string, out *bytes.Buffer) error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		done <- play(context.Background(), cfg, strings.NewReader(script), out)
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("play did not return")
		return nil
	}
}

func TestPlay(t *testing.T) {
	t.Run("human move then quit", func(t *testing.T) {
		var out bytes.Buffer

		err := play(context.Background(), testConfig(agent.KindHuman, agent.KindRandom), strings.NewReader("x\n4\nq\n"), &out)

		require.ErrorIs(t, err, context.Canceled)
		require.Contains(t, out.String(), "red plays column 4")
	})

	t.Run("column typed after the game is dropped", func(t *testing.T) {
		var out bytes.Buffer
		// Red wins in column 1, then a stray column, a restart and quit
		script := "1\n2\n1\n2\n1\n2\n1\n5\nr\nq\n"

		err := playWithin(t, testConfig(agent.KindHuman, agent.KindHuman), script, &out)

		require.ErrorIs(t, err, context.Canceled)
		require.Contains(t, out.String(), "red wins from column 1 row 1 to column 1 row 4")
	})

	t.Run("restart typed during a game is ignored", func(t *testing.T) {
		var out bytes.Buffer
		script := "1\nr\n2\n1\n2\n1\n2\n1\nq\n"

		err := playWithin(t, testConfig(agent.KindHuman, agent.KindHuman), script, &out)

		require.ErrorIs(t, err, context.Canceled)
		require.Contains(t, out.String(), "red wins")
		require.Equal(t, 1, strings.Count(out.String(), "to move."), "Board should not restart without a new r")
	})

	t.Run("unknown agent", func(t *testing.T) {
		err := play(context.Background(), testConfig("oracle", agent.KindRandom), strings.NewReader(""), &bytes.Buffer{})

		require.ErrorIs(t, err, agent.ErrUnknownKind)
	})
}

func TestMatch(t *testing.T) {
	t.Run("computer agents", func(t *testing.T) {
		require.NoError(t, match(context.Background(), testConfig(agent.KindRandom, agent.KindRandom)))
	})

	t.Run("rejects humans", func(t *testing.T) {
		require.Error(t, match(context.Background(), testConfig(agent.KindHuman, agent.KindRandom)))
	})
}
