package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Writer struct {
	baseDir string
}

// NewWriter creates outDir/name/<timestamp> and writes every file there.
func NewWriter(outDir, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405.000")
	baseDir := filepath.Join(outDir, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "kind", "iterations", "depth", "scoring", "episodes", "goroutines", "cutoff", "seed"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Kind,
			strconv.Itoa(config.Iterations),
			strconv.Itoa(config.Depth),
			config.Scoring,
			strconv.Itoa(config.Episodes),
			strconv.Itoa(config.Goroutines),
			strconv.Itoa(config.Cutoff),
			strconv.FormatUint(config.Seed, 10),
		})
	}
	if err := w.write("agent_configs.csv", header, rows); err != nil {
		return fmt.Errorf("failed to write agent configs: %w", err)
	}
	return nil
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "red", "yellow", "starting_player", "winner", "start_time", "end_time", "duration", "total_moves"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Red),
			strconv.Itoa(record.Yellow),
			record.StartingPlayer.String(),
			record.Winner.String(),
			record.StartTime.Format(time.RFC3339Nano),
			record.EndTime.Format(time.RFC3339Nano),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
		})
	}
	if err := w.write("game_records.csv", header, rows); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	return nil
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "column", "think_time", "search_duration", "playouts", "wins", "losses", "scores"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		scores := make([]string, len(record.Scores))
		for i, score := range record.Scores {
			scores[i] = strconv.FormatFloat(score, 'g', 6, 64)
		}
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player.String(),
			strconv.Itoa(record.Column + 1),
			record.ThinkTime.String(),
			record.Duration.String(),
			strconv.FormatInt(record.Playouts, 10),
			strconv.FormatInt(record.Wins, 10),
			strconv.FormatInt(record.Losses, 10),
			strings.Join(scores, ";"),
		})
	}
	if err := w.write("move_records.csv", header, rows); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	return nil
}

func (w *Writer) write(file string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(w.baseDir, file))
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}
