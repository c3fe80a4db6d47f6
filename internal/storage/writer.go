package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrWriterClosed is resolved onto writes enqueued after Close.
var ErrWriterClosed = errors.New("record writer closed")

// Pending is the handle for one durable write. The in-memory mutation it
// belongs to is already visible when the handle is returned; the composition
// root can await the handle or just log its failure.
type Pending struct {
	done chan struct{}
	err  error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// Resolved returns an already-completed handle. No-op mutations hand these
// out so callers never need to nil-check.
func Resolved(err error) *Pending {
	p := newPending()
	p.resolve(err)
	return p
}

func (p *Pending) resolve(err error) {
	p.err = err
	close(p.done)
}

// Done is closed once the durable write finished, successfully or not.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Err reports the write outcome. Only valid after Done is closed.
func (p *Pending) Err() error { return p.err }

// Wait blocks until the write completes or ctx expires.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

type writeJob struct {
	data    []byte
	pending *Pending
}

// Writer serializes the durable writes of one namespace. Jobs run strictly
// in enqueue order, so the record on disk always converges to the latest
// in-memory snapshot.
type Writer struct {
	rs        RecordStore
	namespace string

	mu     sync.Mutex
	queue  []writeJob
	closed bool
	wake   chan struct{}
	idle   chan struct{}
}

// NewWriter starts the background goroutine draining writes for namespace.
func NewWriter(rs RecordStore, namespace string) *Writer {
	w := &Writer{
		rs:        rs,
		namespace: namespace,
		wake:      make(chan struct{}, 1),
		idle:      make(chan struct{}),
	}
	go w.run()
	return w
}

// Enqueue schedules data to replace the namespace's record and returns the
// handle for that write.
func (w *Writer) Enqueue(data []byte) *Pending {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return Resolved(ErrWriterClosed)
	}
	p := newPending()
	w.queue = append(w.queue, writeJob{data: data, pending: p})
	w.mu.Unlock()
	select {
	case w.wake <- struct{}{}:
	default:
	}
	return p
}

// Close stops accepting writes and waits for the queue to drain, or for ctx
// to expire.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		select {
		case w.wake <- struct{}{}:
		default:
		}
	}
	w.mu.Unlock()
	select {
	case <-w.idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Writer) run() {
	for {
		w.mu.Lock()
		if len(w.queue) == 0 {
			if w.closed {
				w.mu.Unlock()
				close(w.idle)
				return
			}
			w.mu.Unlock()
			<-w.wake
			continue
		}
		job := w.queue[0]
		w.queue = w.queue[1:]
		w.mu.Unlock()

		job.pending.resolve(w.rs.Save(context.Background(), w.namespace, job.data))
	}
}
