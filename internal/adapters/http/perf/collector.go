package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind says which layer produced a timing entry.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
	KindCollection
)

// String returns the label used in logs and the admin perf payload.
func (k EntryKind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindQuery:
		return "query"
	case KindCollection:
		return "collection"
	}
	return "unknown"
}

// Entry is a single timing record.
// Path is "METHOD /route" for requests, the SQL op for queries and
// "collection.op" (e.g. "videos.update") for JSON collections.
// Role is set on requests only: the caller's role, or "anonimo".
type Entry struct {
	Kind       EntryKind
	Path       string
	Role       string
	StatusCode int
	DurationMs float64
	Timestamp  time.Time
}

// Collector keeps the most recent timing entries in a fixed ring.
// Record never blocks on aggregation; Snapshot does the sorting.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	size    int
	pos     int
	count   int64
}

// NewCollector creates a collector with the given ring capacity.
// A non-positive size falls back to DefaultRingSize.
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{
		entries: make([]Entry, size),
		size:    size,
	}
}

// Record stores e, overwriting the oldest entry once the ring is full.
// A nil collector discards the entry so callers need no guard.
func (c *Collector) Record(e Entry) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % c.size
	c.mu.Unlock()
	atomic.AddInt64(&c.count, 1)
}

// TotalRecorded returns how many entries were ever recorded.
func (c *Collector) TotalRecorded() int64 {
	if c == nil {
		return 0
	}
	return atomic.LoadInt64(&c.count)
}

// Snapshot is the aggregated view served on /api/admin/perf.
type Snapshot struct {
	TotalRecorded        int64      `json:"totalRecorded"`
	RequestP50Ms         float64    `json:"requestP50Ms"`
	RequestP95Ms         float64    `json:"requestP95Ms"`
	RequestP99Ms         float64    `json:"requestP99Ms"`
	SlowestPaths         []PathStat `json:"slowestPaths"`
	SlowestQueries       []PathStat `json:"slowestQueries"`
	SlowestCollectionOps []PathStat `json:"slowestCollectionOps"`
	RequestsByRole       []PathStat `json:"requestsByRole"`
}

// PathStat aggregates timings for one key.
type PathStat struct {
	Path    string  `json:"path"`
	AvgMs   float64 `json:"avgMs"`
	MaxMs   float64 `json:"maxMs"`
	Count   int     `json:"count"`
	TotalMs float64 `json:"totalMs"`
}

func (s *PathStat) add(ms float64) {
	s.Count++
	s.TotalMs += ms
	if ms > s.MaxMs {
		s.MaxMs = ms
	}
}

// Snapshot aggregates every entry recorded at or after since and keeps the
// topN slowest keys per kind, ordered by average duration.
// A nil collector yields an empty snapshot.
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	buf := make([]Entry, c.size)
	copy(buf, c.entries)
	c.mu.Unlock()

	var requestDurations []float64
	byRole := map[string]*PathStat{}
	stats := map[EntryKind]map[string]*PathStat{
		KindRequest:    {},
		KindQuery:      {},
		KindCollection: {},
	}

	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		byPath, ok := stats[e.Kind]
		if !ok {
			continue
		}
		if e.Kind == KindRequest {
			requestDurations = append(requestDurations, e.DurationMs)
			if e.Role != "" {
				r, ok := byRole[e.Role]
				if !ok {
					r = &PathStat{Path: e.Role}
					byRole[e.Role] = r
				}
				r.add(e.DurationMs)
			}
		}
		s, ok := byPath[e.Path]
		if !ok {
			s = &PathStat{Path: e.Path}
			byPath[e.Path] = s
		}
		s.add(e.DurationMs)
	}

	snap := Snapshot{
		TotalRecorded:        c.TotalRecorded(),
		SlowestPaths:         topByAvg(stats[KindRequest], topN),
		SlowestQueries:       topByAvg(stats[KindQuery], topN),
		SlowestCollectionOps: topByAvg(stats[KindCollection], topN),
		RequestsByRole:       topByAvg(byRole, -1),
	}

	if len(requestDurations) > 0 {
		sort.Float64s(requestDurations)
		snap.RequestP50Ms = percentile(requestDurations, 50)
		snap.RequestP95Ms = percentile(requestDurations, 95)
		snap.RequestP99Ms = percentile(requestDurations, 99)
	}

	return snap
}

// percentile interpolates the p-th percentile of an ascending slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

func topByAvg(stats map[string]*PathStat, n int) []PathStat {
	list := make([]PathStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].AvgMs == list[j].AvgMs {
			return list[i].Path < list[j].Path
		}
		return list[i].AvgMs > list[j].AvgMs
	})
	if n >= 0 && len(list) > n {
		list = list[:n]
	}
	return list
}
