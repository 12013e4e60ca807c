package event

import (
	"github.com/honeyguard/honeygate/pkg/common"
)

// PathActivity keeps a short-lived in-process count of hits per decoy path.
// It backs the hot_paths block of the stats endpoint without a database
// round trip, so the dashboard sees a scan while it is still running.
type PathActivity struct {
	entries *common.TTLMap
}

func NewPathActivity(entries *common.TTLMap) *PathActivity {
	return &PathActivity{entries: entries}
}

// Bump increments the counter for a path and restarts its window.
func (a *PathActivity) Bump(path string) int64 {
	return a.entries.Increment(path, 1)
}

// Snapshot copies the live counters.
func (a *PathActivity) Snapshot() map[string]int64 {
	snapshot := make(map[string]int64)
	a.entries.Range(func(path string, value interface{}) {
		if count, ok := value.(int64); ok {
			snapshot[path] = count
		}
	})
	return snapshot
}
