package stats

import (
	"sort"
	"sync"
)

// Outcome is the result class of one API call
type Outcome string

const (
	// Success counts calls that returned data
	Success Outcome = "success"

	// Failure counts calls that failed at the transport or API level
	Failure Outcome = "failure"

	// CacheHit counts lookups answered without a call
	CacheHit Outcome = "cache"
)

// Counts holds the tallies for one service and target
type Counts struct {
	Success int
	Failure int
	Cache   int
}

// Total returns the number of calls that actually went out
func (c Counts) Total() int {
	return c.Success + c.Failure
}

// SuccessRate returns the success percentage of outgoing calls, or 0 when none were made
func (c Counts) SuccessRate() float64 {
	if c.Total() == 0 {
		return 0
	}
	return float64(c.Success) / float64(c.Total()) * 100.0
}

// Row is one line of a snapshot
type Row struct {
	Service string
	Target  string // Endpoint path or region
	Counts
}

// Recorder tracks API call statistics by service and target
type Recorder struct {
	mu    sync.RWMutex
	stats map[string]map[string]*Counts // service -> target -> counts
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{stats: make(map[string]map[string]*Counts)}
}

// Record increments the counter of the given outcome. A nil recorder ignores the call.
func (r *Recorder) Record(service, target string, outcome Outcome) {
	if r == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.stats[service]; !exists {
		r.stats[service] = make(map[string]*Counts)
	}
	c, exists := r.stats[service][target]
	if !exists {
		c = &Counts{}
		r.stats[service][target] = c
	}

	switch outcome {
	case Success:
		c.Success++
	case Failure:
		c.Failure++
	case CacheHit:
		c.Cache++
	}
}

// Snapshot returns a sorted copy of the current statistics
func (r *Recorder) Snapshot() []Row {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var rows []Row
	for service, targets := range r.stats {
		for target, c := range targets {
			rows = append(rows, Row{Service: service, Target: target, Counts: *c})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Service != rows[j].Service {
			return rows[i].Service < rows[j].Service
		}
		return rows[i].Target < rows[j].Target
	})
	return rows
}
