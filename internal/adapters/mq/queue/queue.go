// Package queue buffers composed frames between the render loop and the
// encoder so a slow encoder write does not stall composition.
//
// Frames leave the queue in the order they were enqueued.
package queue

import (
	"context"
	"sync"

	"github.com/TrevorCOConnor/go-to-one/internal/render"
	"github.com/TrevorCOConnor/go-to-one/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultBufferSize = 64
)

// Frame is one composed output frame with its position in the stream.
type Frame struct {
	Index int
	Image render.Image
}

// Queue provides blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a frame, blocking while the buffer is full.
	// Returns false if the queue is closed or the context is cancelled.
	Enqueue(ctx context.Context, f Frame) bool

	// Dequeue returns a channel that receives frames in enqueue order.
	// The channel is closed once the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Frame

	// Len returns the current number of buffered frames.
	Len(ctx context.Context) int

	// Close stops accepting frames. Buffered frames still reach the
	// dequeue channel before it closes.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	frames     chan Frame
	bufferSize int
	mu         sync.RWMutex
	closed     bool
}

// NewInMemoryQueue creates a new in-memory frame queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		bufferSize: defaultBufferSize,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.frames = make(chan Frame, q.bufferSize)
	metrics.UpdateFrameBufferDepth(0)

	return q
}

// Enqueue adds a frame, blocking while the buffer is full.
func (q *InMemoryQueue) Enqueue(ctx context.Context, f Frame) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}

	select {
	case q.frames <- f:
		metrics.UpdateFrameBufferDepth(len(q.frames))
		return true
	case <-ctx.Done():
		return false
	}
}

// Dequeue returns a channel that receives frames in enqueue order.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Frame {
	out := make(chan Frame)
	go func() {
		defer close(out)
		for f := range q.frames {
			select {
			case out <- f:
				metrics.UpdateFrameBufferDepth(len(q.frames))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of buffered frames.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.frames)
	metrics.UpdateFrameBufferDepth(size)
	return size
}

// Close stops accepting frames.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.frames)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
