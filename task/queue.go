// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package task implements a queue of tasks with
// dependencies that run concurrently.
package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const prefix = "task: "

func newTaskErr(reason string) error { return errors.New(prefix + reason) }

var (
	// ErrCycle means that the dependencies form a cycle.
	ErrCycle = newTaskErr("dependency cycle")

	// ErrID means that a task ID is unknown to the queue.
	ErrID = newTaskErr("invalid task ID")
)

// Func is the work performed by a task.
type Func func(ctx context.Context) error

// ID identifies a task in a Queue.
type ID int

type task struct {
	name string
	fn   Func
	succ []ID
	npre int
}

// Queue holds tasks and their dependencies.
// It is not safe for concurrent registration; Run itself
// executes tasks concurrently.
type Queue struct {
	tasks  []task
	logger *slog.Logger
}

// New creates an empty queue.
// logger may be nil, in which case slog.Default() is used.
func New(logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{logger: logger}
}

// Register adds a task to q.
func (q *Queue) Register(name string, fn Func) ID {
	q.tasks = append(q.tasks, task{name: name, fn: fn})
	return ID(len(q.tasks) - 1)
}

// Len returns the number of registered tasks.
func (q *Queue) Len() int { return len(q.tasks) }

// Lookup returns the ID of the first task named name.
func (q *Queue) Lookup(name string) (ID, bool) {
	for i := range q.tasks {
		if q.tasks[i].name == name {
			return ID(i), true
		}
	}
	return -1, false
}

// Depend makes succ wait for pred to finish.
func (q *Queue) Depend(pred, succ ID) error {
	if !q.valid(pred) || !q.valid(succ) {
		return fmt.Errorf("%w: %d -> %d", ErrID, pred, succ)
	}
	if pred == succ {
		return fmt.Errorf("%w: %q depends on itself", ErrCycle, q.tasks[pred].name)
	}
	q.tasks[pred].succ = append(q.tasks[pred].succ, succ)
	q.tasks[succ].npre++
	return nil
}

// DependNamed is like Depend but identifies tasks by name.
// The dependency is created for the first task with each
// name.
func (q *Queue) DependNamed(pred, succ string) error {
	p, ok := q.Lookup(pred)
	if !ok {
		return fmt.Errorf("%w: no task named %q", ErrID, pred)
	}
	s, ok := q.Lookup(succ)
	if !ok {
		return fmt.Errorf("%w: no task named %q", ErrID, succ)
	}
	return q.Depend(p, s)
}

func (q *Queue) valid(id ID) bool { return id >= 0 && int(id) < len(q.tasks) }

// Reset removes all tasks from q.
func (q *Queue) Reset() {
	clear(q.tasks)
	q.tasks = q.tasks[:0]
}

// Run executes every task of q, using up to workers
// goroutines (runtime.NumCPU() if workers < 1).
// A task starts only after all of its predecessors have
// finished successfully.
// Run returns the first error produced by a task, after
// which no new tasks are started; the context given to
// tasks is canceled in that case.
// It returns ErrCycle without running anything if the
// dependencies cannot be satisfied.
// q is left unchanged, so it can be run again.
func (q *Queue) Run(ctx context.Context, workers int) error {
	if err := q.checkCycle(); err != nil {
		return err
	}
	if len(q.tasks) == 0 {
		return nil
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	start := time.Now()

	var (
		mu        sync.Mutex
		remaining = len(q.tasks)
		npre      = make([]int, len(q.tasks))
		// Each task is sent exactly once, so sends
		// never block.
		ready = make(chan ID, len(q.tasks))
	)
	for i := range q.tasks {
		npre[i] = q.tasks[i].npre
		if npre[i] == 0 {
			ready <- ID(i)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for range workers {
		g.Go(func() error {
			for {
				var id ID
				select {
				case <-ctx.Done():
					return ctx.Err()
				case x, ok := <-ready:
					if !ok {
						return nil
					}
					id = x
				}
				t := &q.tasks[id]
				if err := t.fn(ctx); err != nil {
					return fmt.Errorf("%s%q: %w", prefix, t.name, err)
				}
				mu.Lock()
				for _, s := range t.succ {
					if npre[s]--; npre[s] == 0 {
						ready <- s
					}
				}
				if remaining--; remaining == 0 {
					close(ready)
				}
				mu.Unlock()
			}
		})
	}
	err := g.Wait()
	q.logger.Debug("task: queue finished",
		"tasks", len(q.tasks),
		"workers", workers,
		"elapsed", time.Since(start),
		"error", err)
	return err
}

// checkCycle runs Kahn's algorithm over the dependencies.
func (q *Queue) checkCycle() error {
	npre := make([]int, len(q.tasks))
	var ready []ID
	for i := range q.tasks {
		npre[i] = q.tasks[i].npre
		if npre[i] == 0 {
			ready = append(ready, ID(i))
		}
	}
	n := 0
	for len(ready) > 0 {
		id := ready[len(ready)-1]
		ready = ready[:len(ready)-1]
		n++
		for _, s := range q.tasks[id].succ {
			npre[s]--
			if npre[s] == 0 {
				ready = append(ready, s)
			}
		}
	}
	if n != len(q.tasks) {
		return fmt.Errorf("%w: %d of %d tasks unreachable", ErrCycle, len(q.tasks)-n, len(q.tasks))
	}
	return nil
}
