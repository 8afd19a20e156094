package searcher

import (
	"sync/atomic"
	"time"
)

// SearchMetric describes a single decision.
type SearchMetric struct {
	StartTime time.Time
	Duration  time.Duration
	Playouts  int64
	Wins      int64 // Playouts won by the acting player
	Losses    int64 // Playouts lost by the acting player
	Scores    []float64
}

type Collector interface {
	Start()
	AddPlayout()
	AddWin()
	AddLoss()
	Complete() SearchMetric
}

type collector struct {
	startTime time.Time
	playouts  atomic.Int64
	wins      atomic.Int64
	losses    atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

// Start resets the counters, a collector is reused across decisions.
func (m *collector) Start() {
	m.startTime = time.Now()
	m.playouts.Store(0)
	m.wins.Store(0)
	m.losses.Store(0)
}

func (m *collector) AddPlayout() {
	m.playouts.Add(1)
}

func (m *collector) AddWin() {
	m.wins.Add(1)
}

func (m *collector) AddLoss() {
	m.losses.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		StartTime: m.startTime,
		Duration:  time.Since(m.startTime),
		Playouts:  m.playouts.Load(),
		Wins:      m.wins.Load(),
		Losses:    m.losses.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                 {}
func (m *dummyCollector) AddPlayout()            {}
func (m *dummyCollector) AddWin()                {}
func (m *dummyCollector) AddLoss()               {}
func (m *dummyCollector) Complete() SearchMetric { return SearchMetric{} }
