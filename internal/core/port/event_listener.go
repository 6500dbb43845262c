package port

import "context"

// EventListenerPort is an incoming adapter that blocks on Start until the
// context is cancelled or the underlying transport fails.
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}
