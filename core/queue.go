package core

import "context"

// Queue is a minimal at-least-once message pipe. Publish never blocks on
// consumers; Consume blocks until a message arrives or ctx is done.
type Queue interface {
	Publish(ctx context.Context, payload []byte) error
	Consume(ctx context.Context) ([]byte, error)
}
