// Package pace holds the control loop to a fixed period.
package pace

import (
	"fmt"
	"runtime"
	"time"
)

// Regulator pads each control iteration out to Budget. It is used by a
// single goroutine.
type Regulator struct {
	budget time.Duration
	now    func() time.Duration
	yield  func()

	start    time.Duration
	overruns uint32
	worst    time.Duration
}

// New returns a regulator running at tickRate iterations per second against
// the given monotonic clock. A nil yield spins with runtime.Gosched.
func New(tickRate uint32, now func() time.Duration, yield func()) (*Regulator, error) {
	if tickRate == 0 {
		return nil, fmt.Errorf("pace: zero tick rate")
	}
	if now == nil {
		return nil, fmt.Errorf("pace: nil clock")
	}
	if yield == nil {
		yield = runtime.Gosched
	}
	return &Regulator{
		budget: time.Second / time.Duration(tickRate),
		now:    now,
		yield:  yield,
	}, nil
}

func (r *Regulator) Budget() time.Duration { return r.budget }

// Begin marks the top of an iteration.
func (r *Regulator) Begin() { r.start = r.now() }

// Wait returns once Budget has elapsed since Begin. An iteration that already
// overran its budget returns immediately and is counted.
func (r *Regulator) Wait() {
	deadline := r.start + r.budget
	if spent := r.now() - r.start; spent > r.budget {
		r.overruns++
		if spent > r.worst {
			r.worst = spent
		}
		return
	}
	for r.now() < deadline {
		r.yield()
	}
}

// Overruns reports how many iterations exceeded the budget.
func (r *Regulator) Overruns() uint32 { return r.overruns }

// Worst is the longest overrunning iteration seen.
func (r *Regulator) Worst() time.Duration { return r.worst }
