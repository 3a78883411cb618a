package service

import (
	"sync/atomic"
	"time"

	"logsieve/src/internal/core"
	"logsieve/src/internal/filter"
	"logsieve/src/internal/metrics"
	"logsieve/src/internal/sink"

	"github.com/lixenwraith/log"
)

// Appender owns one filter chain and forwards the entries it allows to a
// sink. The chain is swapped atomically on reload, so evaluation never takes
// a lock.
type Appender struct {
	name    string
	chain   atomic.Pointer[filter.Chain]
	sink    sink.Sink
	metrics *metrics.Metrics
	logger  *log.Logger

	// Statistics
	startTime      time.Time
	totalProcessed atomic.Uint64
	totalAccepted  atomic.Uint64
	totalNeutral   atomic.Uint64
	totalRejected  atomic.Uint64
	totalPanics    atomic.Uint64
}

// statsProvider is implemented by filters that keep their own counters
type statsProvider interface {
	GetStats() map[string]any
}

func NewAppender(name string, chain *filter.Chain, snk sink.Sink, m *metrics.Metrics, logger *log.Logger) *Appender {
	a := &Appender{
		name:      name,
		sink:      snk,
		metrics:   m,
		logger:    logger,
		startTime: time.Now(),
	}
	a.chain.Store(chain)
	m.SetChainFilters(name, chain.Len())
	return a
}

func (a *Appender) Name() string {
	return a.name
}

// Chain returns the active chain
func (a *Appender) Chain() *filter.Chain {
	return a.chain.Load()
}

// Append evaluates entry against the chain once and forwards it to the sink
// unless a filter rejected it. Reports whether the entry was forwarded.
func (a *Appender) Append(entry core.LogEntry) bool {
	a.totalProcessed.Add(1)

	start := time.Now()
	response, index := a.evaluate(entry)
	a.metrics.RecordDecision(a.name, response.String(), time.Since(start))

	switch response {
	case filter.Accept:
		a.totalAccepted.Add(1)
	case filter.Reject:
		a.totalRejected.Add(1)
		a.logger.Debug("msg", "Entry filtered out",
			"component", "appender",
			"appender", a.name,
			"filter_index", index)
		return false
	default:
		a.totalNeutral.Add(1)
	}

	a.sink.Input() <- entry
	return true
}

// evaluate runs the chain, turning a panicking filter into a Reject for this
// entry only.
func (a *Appender) evaluate(entry core.LogEntry) (response filter.Response, index int) {
	defer func() {
		if r := recover(); r != nil {
			a.totalPanics.Add(1)
			a.logger.Error("msg", "Filter panicked, rejecting entry",
				"component", "appender",
				"appender", a.name,
				"panic", r)
			response, index = filter.Reject, -1
		}
	}()
	return a.chain.Load().Evaluate(entry)
}

// SwapChain installs chain and returns the previous one. Evaluations already
// in flight finish on the chain they started with.
func (a *Appender) SwapChain(chain *filter.Chain) *filter.Chain {
	old := a.chain.Swap(chain)
	a.metrics.SetChainFilters(a.name, chain.Len())
	return old
}

func (a *Appender) GetStats() map[string]any {
	chain := a.chain.Load()

	filters := make([]map[string]any, 0, chain.Len())
	for _, f := range chain.Filters() {
		entry := map[string]any{"filter": f.String()}
		if sp, ok := f.(statsProvider); ok {
			entry["stats"] = sp.GetStats()
		}
		filters = append(filters, entry)
	}

	sinkStats := a.sink.GetStats()

	return map[string]any{
		"name":            a.name,
		"uptime_seconds":  int(time.Since(a.startTime).Seconds()),
		"total_processed": a.totalProcessed.Load(),
		"total_accepted":  a.totalAccepted.Load(),
		"total_neutral":   a.totalNeutral.Load(),
		"total_rejected":  a.totalRejected.Load(),
		"total_panics":    a.totalPanics.Load(),
		"filter_count":    chain.Len(),
		"filters":         filters,
		"sink": map[string]any{
			"type":            sinkStats.Type,
			"total_processed": sinkStats.TotalProcessed,
			"total_failed":    sinkStats.TotalFailed,
			"start_time":      sinkStats.StartTime,
			"last_processed":  sinkStats.LastProcessed,
			"details":         sinkStats.Details,
		},
	}
}
