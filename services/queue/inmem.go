package queue

import (
	"context"

	"github.com/pkg/errors"
)

const defaultBuffer = 1024

// ErrFull is returned by Publish when the buffer has no room; the message
// is dropped rather than blocking the publisher.
var ErrFull = errors.New("queue full, message dropped")

// InMemory is a channel-backed queue for tests and single-process deploys.
type InMemory struct {
	ch chan []byte
}

func NewInMemory() *InMemory {
	return &InMemory{ch: make(chan []byte, defaultBuffer)}
}

func (q *InMemory) Publish(ctx context.Context, payload []byte) error {
	select {
	case q.ch <- payload:
		return nil
	default:
		return ErrFull
	}
}

func (q *InMemory) Consume(ctx context.Context) ([]byte, error) {
	select {
	case payload := <-q.ch:
		return payload, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
