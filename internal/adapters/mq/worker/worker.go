// Package worker drains buffered frames into the encoder sink.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/TrevorCOConnor/go-to-one/internal/adapters/mq/queue"
	"github.com/TrevorCOConnor/go-to-one/internal/render"
	"github.com/TrevorCOConnor/go-to-one/pkg/logger"
	"github.com/TrevorCOConnor/go-to-one/pkg/metrics"
)

// Default worker configuration constants.
const (
	workerShutdownTimeout = 30 * time.Second
)

// Queue defines how the worker receives frames.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Frame
}

// Worker writes frames to the encoder until its queue is drained.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Err returns the first encoder write failure, if any.
	Err() error
}

// InMemoryWorker implements Worker for encoding frames.
type InMemoryWorker struct {
	queue Queue
	sink  render.Sink
	name  string

	// Shutdown control
	done chan struct{}

	// First write failure; later frames are discarded to keep the
	// producer from blocking on a full buffer.
	mu  sync.Mutex
	err error

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new encode worker with configuration options.
func NewInMemoryWorker(q Queue, sink render.Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:  q,
		sink:   sink,
		name:   "encoder",
		done:   make(chan struct{}),
		logger: logger.Get().Named("encoder"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "encoder" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	frameChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-frameChan:
			if !ok {
				return
			}
			w.processFrame(ctx, frame)
		}
	}
}

// Err returns the first encoder write failure, if any.
func (w *InMemoryWorker) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Wait blocks until the worker loop has finished or ctx expires.
func (w *InMemoryWorker) Wait(ctx context.Context) error {
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "encoder drain timed out")
		return fmt.Errorf("encoder drain timed out: %w", ctx.Err())
	}
}

// processFrame writes a single frame to the sink.
func (w *InMemoryWorker) processFrame(ctx context.Context, frame queue.Frame) {
	if w.Err() != nil {
		return
	}

	start := time.Now()
	err := w.sink.Write(frame.Image)
	metrics.RecordEncodeLatency(float64(time.Since(start).Microseconds()) / 1000)

	if err != nil {
		metrics.RecordEncodeError()
		w.logger.Error(ctx, "encoder write failed",
			logger.Int("frame", frame.Index),
			logger.Error(err),
		)
		w.mu.Lock()
		w.err = fmt.Errorf("write frame %d: %w", frame.Index, err)
		w.mu.Unlock()
	}
}
