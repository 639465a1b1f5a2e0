package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	ErrMailNotConfigured = errors.New("email service is not configured")
	ErrMailVerification  = errors.New("mail transport verification failed")
	ErrMailSend          = errors.New("mail send failed")
)

// Dispatcher verifies the transport and sends a batch of messages concurrently.
// A batch either fully succeeds or reports a single error.
type Dispatcher struct {
	transport Transport
	timeout   time.Duration
}

// NewDispatcher creates a dispatcher; timeout <= 0 means no deadline of its own.
func NewDispatcher(transport Transport, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		transport: transport,
		timeout:   timeout,
	}
}

// Dispatch verifies the transport, then sends every message in parallel.
func (d *Dispatcher) Dispatch(ctx context.Context, msgs ...*Message) error {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	if err := d.transport.Verify(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrMailVerification, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, msg := range msgs {
		msg := msg
		g.Go(func() error {
			if err := d.transport.Send(gctx, msg); err != nil {
				return fmt.Errorf("%w to %s: %w", ErrMailSend, strings.Join(msg.To, ", "), err)
			}
			return nil
		})
	}
	return g.Wait()
}
