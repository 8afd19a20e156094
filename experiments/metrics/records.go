package metrics

import (
	"time"

	"connectfour/agent"
	"connectfour/game"
	"connectfour/searcher"
)

// AgentConfig is an agent.Config with the id matchups refer to.
type AgentConfig struct {
	ID           int `yaml:"id"`
	agent.Config `yaml:",inline"`
}

type MoveMetric struct {
	Step      int
	Player    game.Player
	Column    int
	ThinkTime time.Duration // From StartProcess to the applied move
	searcher.SearchMetric
}

type GameMetric struct {
	StartingPlayer game.Player
	Winner         game.Player // None for a draw
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type GameRecord struct {
	ID     int
	Red    int // AgentConfig.ID
	Yellow int // AgentConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}
