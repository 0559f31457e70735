// Package task runs the application's periodic jobs (failover sweep, lock
// poll, rotation check) as independently cancellable loops.  The jobs
// themselves take no arguments and read their own clocks, so tests invoke
// them directly with a simulated clock instead of waiting on real timers.
package task

import (
    "log"
    "sync"
    "time"
)

// Task invokes fn every interval until stopped.  Start and Stop are
// idempotent; the ticker goroutine exits before Stop returns.
type Task struct {
    name     string
    interval time.Duration
    fn       func()

    mu   sync.Mutex
    stop chan struct{}
    done chan struct{}
}

// New builds a task; it does not start it.
func New(name string, interval time.Duration, fn func()) *Task {
    return &Task{name: name, interval: interval, fn: fn}
}

// Start launches the ticker goroutine.  Calling Start on a running task
// has no effect.
func (t *Task) Start() {
    t.mu.Lock()
    defer t.mu.Unlock()
    if t.stop != nil {
        return
    }
    t.stop = make(chan struct{})
    t.done = make(chan struct{})
    go t.run(t.stop, t.done)
    log.Printf("task: %s started (every %s)", t.name, t.interval)
}

func (t *Task) run(stop, done chan struct{}) {
    defer close(done)
    ticker := time.NewTicker(t.interval)
    defer ticker.Stop()
    for {
        select {
        case <-ticker.C:
            t.fn()
        case <-stop:
            return
        }
    }
}

// Stop cancels the task and waits for the goroutine to exit.  Calling
// Stop on a stopped task has no effect.
func (t *Task) Stop() {
    t.mu.Lock()
    stop, done := t.stop, t.done
    t.stop, t.done = nil, nil
    t.mu.Unlock()
    if stop == nil {
        return
    }
    close(stop)
    <-done
    log.Printf("task: %s stopped", t.name)
}
