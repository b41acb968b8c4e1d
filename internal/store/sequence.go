package store

import "fmt"

// sequencer hands out monotonic sequence numbers per key and remembers the
// newest one applied, so late responses can be recognized and dropped.
// A key whose entity was deleted on the server is closed for good.
// Callers hold Store.mu.
type sequencer struct {
	issued  map[string]uint64
	applied map[string]uint64
	removed map[string]bool
}

func newSequencer() sequencer {
	return sequencer{
		issued:  make(map[string]uint64),
		applied: make(map[string]uint64),
		removed: make(map[string]bool),
	}
}

func (q sequencer) next(key string) uint64 {
	if key == keyCreate {
		return 0
	}
	q.issued[key]++
	return q.issued[key]
}

// accept records seq as applied if it is newer than the last applied one.
func (q sequencer) accept(key string, seq uint64) bool {
	if key == keyCreate {
		return true
	}
	if q.removed[key] || seq <= q.applied[key] {
		return false
	}
	q.applied[key] = seq
	return true
}

// remove closes key after a confirmed delete. Every later response for it
// is stale, whatever its sequence number.
func (q sequencer) remove(key string) {
	if key == keyCreate {
		return
	}
	q.removed[key] = true
}

// Keys for the sequencer. List loads replace whole collections; entity
// keys order mutations on a single task or event. Creates are never
// ordered against each other.
const (
	keyCreate    = ""
	keyTaskList  = "tasks"
	keyEventList = "events"
	keyDashboard = "dashboard"
)

func taskKey(id int64) string  { return fmt.Sprintf("task:%d", id) }
func eventKey(id int64) string { return fmt.Sprintf("event:%d", id) }
