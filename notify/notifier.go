package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Notifier ties recipient resolution, composition and fanout together.
type Notifier struct {
	resolver   *RecipientResolver
	dispatcher *Dispatcher
	now        func() time.Time
}

func NewNotifier(resolver *RecipientResolver, dispatcher *Dispatcher) *Notifier {
	return &Notifier{resolver: resolver, dispatcher: dispatcher, now: time.Now}
}

// SetClock replaces the time source used for composition.
func (n *Notifier) SetClock(now func() time.Time) {
	n.now = now
}

// Notify resolves recipients and renders the event before returning, then
// delivers in the background. Call it only after the change is committed.
func (n *Notifier) Notify(ctx context.Context, ev Event) {
	recipients, err := n.resolver.Resolve(ctx, ev)
	if err != nil {
		log.Error().Err(err).
			Str("event", string(ev.Kind)).
			Str("order_number", ev.Order.OrderNumber).
			Msg("Failed to resolve notification recipients")
		return
	}

	comp := Compose(ev, n.now())
	n.dispatcher.Go(ctx, string(ev.Kind)+" "+ev.Order.OrderNumber, recipients, comp)
}

// Wait blocks until all background deliveries have finished.
func (n *Notifier) Wait() {
	n.dispatcher.Wait()
}
