package mail

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mallfront/mallfront/internal/metrics"
)

// SendTimeout is the max time allowed for a single delivery attempt.
const SendTimeout = 10 * time.Second

// Dispatcher sends mail asynchronously so request handlers never block on
// SMTP round trips. Delivery failures are logged, not surfaced to callers.
type Dispatcher struct {
	sender  Sender
	logger  *slog.Logger
	metrics metrics.Recorder
	wg      sync.WaitGroup
}

// NewDispatcher creates a mail dispatcher around the given sender.
func NewDispatcher(sender Sender, logger *slog.Logger, recorder metrics.Recorder) *Dispatcher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Dispatcher{
		sender:  sender,
		logger:  logger.With("component", "mail.dispatcher"),
		metrics: recorder,
	}
}

// SendAsync delivers the message without blocking the caller.
// Errors are logged but not returned (fire-and-forget).
func (d *Dispatcher) SendAsync(msg Message) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), SendTimeout)
		defer cancel()

		if err := d.sender.Send(ctx, msg); err != nil {
			d.logger.Warn("failed to send mail",
				"to", msg.To,
				"subject", msg.Subject,
				"error", err,
			)
			d.metrics.IncVerificationMailSent("dropped")
			return
		}

		d.logger.Debug("mail sent", "to", msg.To, "subject", msg.Subject)
		d.metrics.IncVerificationMailSent("success")
	}()
}

// Shutdown waits for in-flight deliveries to finish or the context to expire.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
