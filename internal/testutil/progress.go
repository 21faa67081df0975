package testutil

import (
	"sync"

	"catalog-go/internal/catalog"
)

// RecordingNotifier keeps every update it receives.
type RecordingNotifier struct {
	mu      sync.Mutex
	updates []catalog.ProgressUpdate
}

func (n *RecordingNotifier) Notify(update catalog.ProgressUpdate) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updates = append(n.updates, update)
}

// Updates returns a copy of the updates recorded so far.
func (n *RecordingNotifier) Updates() []catalog.ProgressUpdate {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]catalog.ProgressUpdate(nil), n.updates...)
}

// ForJob returns the updates recorded for one job.
func (n *RecordingNotifier) ForJob(id string) []catalog.ProgressUpdate {
	var out []catalog.ProgressUpdate
	for _, u := range n.Updates() {
		if u.JobID == id {
			out = append(out, u)
		}
	}
	return out
}
