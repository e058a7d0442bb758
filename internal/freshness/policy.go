// Package freshness decides, per read request, whether a cached
// collection is usable as-is or must be refreshed from the remote
// source. The decision is a pure function of the cache snapshot, the
// staleness threshold and current connectivity.
package freshness

import "time"

// Default staleness thresholds per entity kind.
const (
	DefaultCatalogTTL = 5 * time.Minute
	DefaultCartTTL    = 3 * time.Minute
)

// Verdict is the outcome of a freshness evaluation.
type Verdict int

const (
	// ServeCache means the cached collection is returned as-is.
	ServeCache Verdict = iota
	// Fetch means the remote source must be consulted.
	Fetch
	// NoData means the client is offline and nothing is cached; the
	// read cannot be satisfied.
	NoData
)

func (v Verdict) String() string {
	switch v {
	case ServeCache:
		return "serve-cache"
	case Fetch:
		return "fetch"
	case NoData:
		return "no-data"
	default:
		return "unknown"
	}
}

// Snapshot describes the cached state of one collection scope.
// LastUpdate is the max cache-write time in milliseconds since epoch;
// zero means no record carries a timestamp.
type Snapshot struct {
	Count      int64
	LastUpdate int64
}

// Stale reports whether the snapshot is older than the threshold at
// time now. An absent timestamp is vacuously stale.
func (s Snapshot) Stale(now time.Time, threshold time.Duration) bool {
	if s.LastUpdate == 0 {
		return true
	}
	return now.UnixMilli()-s.LastUpdate > threshold.Milliseconds()
}

// Evaluate applies the read-through policy: fetch from remote iff
// online and the cache is empty or stale. Offline reads never attempt
// remote; they serve the cache even when stale, or report NoData when
// the cache is empty.
func Evaluate(snap Snapshot, now time.Time, threshold time.Duration, online bool) Verdict {
	if !online {
		if snap.Count == 0 {
			return NoData
		}
		return ServeCache
	}
	if snap.Count == 0 || snap.Stale(now, threshold) {
		return Fetch
	}
	return ServeCache
}
