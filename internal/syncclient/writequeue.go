package syncclient

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrClosed is returned by Flush once the session has been logged out.
var ErrClosed = errors.New("syncclient: session closed")

// writeQueue runs at most one write at a time. Requests that arrive while a
// write is in flight collapse into a single follow-up write, which reads
// the state when it starts and so carries every mutation made before it.
type writeQueue struct {
	write   func(context.Context) error
	log     *slog.Logger
	timeout time.Duration

	mu        sync.Mutex
	requested uint64
	completed uint64
	lastErr   error
	progress  chan struct{}

	wake   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newWriteQueue(write func(context.Context) error, log *slog.Logger, timeout time.Duration) *writeQueue {
	ctx, cancel := context.WithCancel(context.Background())
	q := &writeQueue{
		write:    write,
		log:      log,
		timeout:  timeout,
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go q.run()
	return q
}

// request marks the state dirty. It never blocks.
func (q *writeQueue) request() {
	q.mu.Lock()
	q.requested++
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *writeQueue) run() {
	defer close(q.done)
	for {
		select {
		case <-q.ctx.Done():
			return
		case <-q.wake:
		}

		q.mu.Lock()
		target := q.requested
		pending := target > q.completed
		q.mu.Unlock()
		if !pending {
			continue
		}

		err := q.writeOnce()
		if err != nil && q.ctx.Err() == nil {
			q.log.Warn("document write failed", slog.String("error", err.Error()))
		}

		q.mu.Lock()
		q.completed = target
		q.lastErr = err
		close(q.progress)
		q.progress = make(chan struct{})
		q.mu.Unlock()
	}
}

func (q *writeQueue) writeOnce() error {
	ctx := q.ctx
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}
	return q.write(ctx)
}

// flush waits until every request made before the call has been attempted
// and returns the error of the write that covered them.
func (q *writeQueue) flush(ctx context.Context) error {
	q.mu.Lock()
	target := q.requested
	q.mu.Unlock()

	for {
		q.mu.Lock()
		if q.completed >= target {
			err := q.lastErr
			q.mu.Unlock()
			return err
		}
		ch := q.progress
		q.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		case <-q.done:
			return ErrClosed
		}
	}
}

// close cancels any in-flight write and stops the worker.
func (q *writeQueue) close() {
	q.cancel()
	<-q.done
}
