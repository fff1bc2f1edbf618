package searcher

import (
	"time"
)

type SearchMetric struct {
	StartTime    time.Time
	Duration     time.Duration
	Ply          int // Deepest completed ply
	Episodes     int // Monte-Carlo playouts
	FullPlayouts int // Rollouts that reached a terminal state
	Evaluations  int
	CacheHits    int
	Nodes        int
	Determined   bool
}

type Collector interface {
	Start()
	SetPly(ply int)
	AddEpisode()
	AddFullPlayout()
	AddEvaluation()
	AddCacheHit()
	Complete(nodes int, determined bool) SearchMetric
}

// Searches run on one goroutine, so plain counters suffice.
type collector struct {
	startTime    time.Time
	ply          int
	episodes     int
	fullPlayouts int
	evaluations  int
	cacheHits    int
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	*m = collector{startTime: time.Now()}
}

func (m *collector) SetPly(ply int) {
	m.ply = ply
}

func (m *collector) AddEpisode() {
	m.episodes++
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts++
}

func (m *collector) AddEvaluation() {
	m.evaluations++
}

func (m *collector) AddCacheHit() {
	m.cacheHits++
}

func (m *collector) Complete(nodes int, determined bool) SearchMetric {
	return SearchMetric{
		StartTime:    m.startTime,
		Duration:     time.Since(m.startTime),
		Ply:          m.ply,
		Episodes:     m.episodes,
		FullPlayouts: m.fullPlayouts,
		Evaluations:  m.evaluations,
		CacheHits:    m.cacheHits,
		Nodes:        nodes,
		Determined:   determined,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                          {}
func (m *dummyCollector) SetPly(int)                      {}
func (m *dummyCollector) AddEpisode()                     {}
func (m *dummyCollector) AddFullPlayout()                 {}
func (m *dummyCollector) AddEvaluation()                  {}
func (m *dummyCollector) AddCacheHit()                    {}
func (m *dummyCollector) Complete(int, bool) SearchMetric { return SearchMetric{} }
