package notify

import (
	"context"

	"go.uber.org/multierr"
)

// Notifier delivers a titled text message to an external endpoint.
type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

// Multi fans a message out to every notifier. All notifiers are attempted;
// the returned error combines every failure.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, title, text string) error {
	var err error
	for _, n := range m {
		if n == nil {
			continue
		}
		err = multierr.Append(err, n.Send(ctx, title, text))
	}
	return err
}
