package testutil

import (
	"sync"

	"github.com/BruksfildServices01/supplier-directory/internal/audit"
)

// Recorder guarda os eventos de audit em memória.
type Recorder struct {
	mu     sync.Mutex
	Events []audit.Event
}

func (r *Recorder) Dispatch(ev audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, ev)
}

func (r *Recorder) Actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.Events))
	for _, ev := range r.Events {
		out = append(out, ev.Action)
	}
	return out
}

var _ audit.Recorder = (*Recorder)(nil)
