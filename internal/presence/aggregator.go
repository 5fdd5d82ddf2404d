package presence

import (
	"sort"
	"sync"
)

// Aggregator maintains the in-memory presence view. Apply is the single
// writer; Snapshot and Count serve concurrent readers from a precomputed
// slice, so reads never pay for recomputation.
type Aggregator struct {
	mu       sync.RWMutex
	byUser   map[string]Record
	snapshot []Record
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		byUser:   make(map[string]Record),
		snapshot: []Record{},
	}
}

// Apply folds one channel message into the view.
func (a *Aggregator) Apply(msg Message) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch msg.Kind {
	case KindSync:
		// Full replacement. When several connections share a user key,
		// the first record observed in the snapshot wins.
		a.byUser = make(map[string]Record, len(msg.Records))
		for _, r := range msg.Records {
			if _, seen := a.byUser[r.UserID]; seen {
				continue
			}
			a.byUser[r.UserID] = r
		}
	case KindJoin:
		for _, r := range msg.Records {
			a.byUser[r.UserID] = r
		}
	case KindLeave:
		for _, r := range msg.Records {
			delete(a.byUser, r.UserID)
		}
	default:
		return
	}

	a.recompute()
}

// recompute rebuilds the reader-facing snapshot. Callers hold the write lock.
func (a *Aggregator) recompute() {
	snapshot := make([]Record, 0, len(a.byUser))
	for _, r := range a.byUser {
		snapshot = append(snapshot, r)
	}
	sort.Slice(snapshot, func(i, j int) bool {
		if snapshot[i].OnlineAt.Equal(snapshot[j].OnlineAt) {
			return snapshot[i].UserID < snapshot[j].UserID
		}
		return snapshot[i].OnlineAt.Before(snapshot[j].OnlineAt)
	})
	a.snapshot = snapshot
}

// Snapshot returns the current presence records, oldest connection first.
func (a *Aggregator) Snapshot() []Record {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]Record, len(a.snapshot))
	copy(out, a.snapshot)
	return out
}

func (a *Aggregator) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.snapshot)
}
