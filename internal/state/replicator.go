package state

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/meltforce/athletelog/internal/observability"
)

const (
	defaultQueueSize     = 64
	defaultRemoteTimeout = 15 * time.Second
)

type job struct {
	scope Scope
	run   func(ctx context.Context) error
	// flushed, when set, marks a flush barrier instead of a write.
	flushed chan struct{}
}

// replicator applies remote writes one at a time, in enqueue order, on a
// single background goroutine. Failed writes are logged and dropped.
type replicator struct {
	log     *slog.Logger
	timeout time.Duration
	jobs    chan job
	done    chan struct{}

	// base parents every write; cancelling it aborts the write in flight and
	// skips the rest of the queue.
	base  context.Context
	abort context.CancelFunc

	mu     sync.Mutex
	closed bool
}

func newReplicator(log *slog.Logger, size int, timeout time.Duration) *replicator {
	if size <= 0 {
		size = defaultQueueSize
	}
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	base, abort := context.WithCancel(context.Background())
	r := &replicator{
		log:     log,
		timeout: timeout,
		jobs:    make(chan job, size),
		done:    make(chan struct{}),
		base:    base,
		abort:   abort,
	}
	go r.loop()
	return r
}

func (r *replicator) loop() {
	defer close(r.done)
	for j := range r.jobs {
		observability.SetRemoteQueueDepth(len(r.jobs))
		if j.flushed != nil {
			close(j.flushed)
			continue
		}
		if r.base.Err() != nil {
			observability.RecordRemoteDropped(string(j.scope))
			r.log.Warn("remote sync aborted, dropping write", "scope", j.scope)
			continue
		}
		ctx, cancel := context.WithTimeout(r.base, r.timeout)
		err := j.run(ctx)
		cancel()
		observability.RecordRemoteWrite(string(j.scope), err)
		if err != nil {
			r.log.Warn("remote sync failed", "scope", j.scope, "error", err)
		}
	}
}

// enqueue adds a write without blocking. A full queue drops the write.
func (r *replicator) enqueue(scope Scope, run func(ctx context.Context) error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	select {
	case r.jobs <- job{scope: scope, run: run}:
		observability.SetRemoteQueueDepth(len(r.jobs))
		return true
	default:
		observability.RecordRemoteDropped(string(scope))
		r.log.Warn("remote sync queue full, dropping write", "scope", scope)
		return false
	}
}

// flush blocks until every write queued before the call has been attempted.
func (r *replicator) flush(ctx context.Context) error {
	barrier := make(chan struct{})

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	// Sending under mu keeps close from racing the send. The worker never
	// takes mu, so a full queue still drains.
	select {
	case r.jobs <- job{flushed: barrier}:
	case <-ctx.Done():
		r.mu.Unlock()
		return ctx.Err()
	}
	r.mu.Unlock()

	select {
	case <-barrier:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close stops accepting writes and drains the queue. If ctx ends first the
// remaining writes are aborted and ctx's error is returned once the worker
// has exited.
func (r *replicator) close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.jobs)
	}
	r.mu.Unlock()

	defer r.abort()
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		r.abort()
		<-r.done
		return ctx.Err()
	}
}
