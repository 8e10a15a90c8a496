// Package notification fans a completed transfer out to the configured channels.
package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"ticketd/internal/domain/customer"
	"ticketd/internal/domain/ticket"
	"ticketd/internal/shared/goroutine"
	"ticketd/internal/shared/logger"
)

// ErrChannelPanic marks a channel that panicked instead of returning.
var ErrChannelPanic = errors.New("notification channel panicked")

// Sender is one delivery channel for transfer confirmations.
type Sender interface {
	SendTransferConfirmation(ctx context.Context, t *ticket.Ticket, previousOwner, newOwner *customer.Customer) error
}

type namedSender struct {
	name   string
	sender Sender
}

// MultiNotifier delivers to every registered channel concurrently. A failing channel
// does not stop the others; the joined error names each failure.
type MultiNotifier struct {
	senders []namedSender
	logger  logger.Interface
}

func NewMultiNotifier(log logger.Interface) *MultiNotifier {
	return &MultiNotifier{logger: log.With("component", "notification")}
}

// Register adds a channel. Registering is not safe concurrently with sending.
func (n *MultiNotifier) Register(name string, s Sender) *MultiNotifier {
	n.senders = append(n.senders, namedSender{name: name, sender: s})
	return n
}

func (n *MultiNotifier) Channels() []string {
	names := make([]string, 0, len(n.senders))
	for _, s := range n.senders {
		names = append(names, s.name)
	}
	return names
}

func (n *MultiNotifier) SendTransferConfirmation(ctx context.Context, t *ticket.Ticket, previousOwner, newOwner *customer.Customer) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	fail := func(channel string, err error) {
		n.logger.Warnw("transfer notification failed",
			"channel", channel,
			"ticket_key", t.Key(),
			"error", err,
		)
		mu.Lock()
		errs = append(errs, &ChannelError{Channel: channel, Err: err})
		mu.Unlock()
	}

	for _, s := range n.senders {
		goroutine.SafeGoWait(n.logger, &wg, "notify-"+s.name, func() {
			defer func() {
				if r := recover(); r != nil {
					fail(s.name, fmt.Errorf("%w: %v", ErrChannelPanic, r))
				}
			}()
			if err := s.sender.SendTransferConfirmation(ctx, t, previousOwner, newOwner); err != nil {
				fail(s.name, err)
			}
		})
	}

	wg.Wait()
	return errors.Join(errs...)
}

type ChannelError struct {
	Channel string
	Err     error
}

func (e *ChannelError) Error() string {
	return e.Channel + ": " + e.Err.Error()
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}
