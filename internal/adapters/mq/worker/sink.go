package worker

import (
	"context"
	"errors"

	"github.com/TrevorCOConnor/go-to-one/internal/adapters/mq/queue"
	"github.com/TrevorCOConnor/go-to-one/internal/render"
)

// EncodeSink wraps a blocking sink with a frame buffer and a background
// encode worker, so the render loop keeps composing while the encoder
// works through earlier frames. Close flushes the buffer before closing
// the wrapped sink.
type EncodeSink struct {
	ctx    context.Context
	queue  *queue.InMemoryQueue
	worker *InMemoryWorker
	inner  render.Sink
	next   int
}

var _ render.Sink = (*EncodeSink)(nil)

// NewEncodeSink starts the encode worker over the wrapped sink.
// The context bounds the whole pipeline; cancelling it abandons
// buffered frames.
func NewEncodeSink(ctx context.Context, inner render.Sink, opts ...Option) *EncodeSink {
	s := &EncodeSink{
		ctx:   ctx,
		queue: queue.NewInMemoryQueue(),
		inner: inner,
	}

	s.worker = NewInMemoryWorker(s.queue, inner, opts...)
	go s.worker.Run(ctx)

	return s
}

// Write buffers one frame for the encoder.
func (s *EncodeSink) Write(img render.Image) error {
	if err := s.worker.Err(); err != nil {
		return err
	}

	if !s.queue.Enqueue(s.ctx, queue.Frame{Index: s.next, Image: img}) {
		if err := s.worker.Err(); err != nil {
			return err
		}
		if err := s.ctx.Err(); err != nil {
			return err
		}
		return queue.ErrClosed
	}

	s.next++
	return nil
}

// Close drains the buffer, stops the worker, and closes the wrapped sink.
func (s *EncodeSink) Close() error {
	_ = s.queue.Close()

	drainCtx, cancel := context.WithTimeout(s.ctx, workerShutdownTimeout)
	defer cancel()
	waitErr := s.worker.Wait(drainCtx)

	return errors.Join(waitErr, s.worker.Err(), closeInner(s.inner))
}

func closeInner(sink render.Sink) error {
	if closer, ok := sink.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
