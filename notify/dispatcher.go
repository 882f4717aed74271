package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/vee4group/order-tracker-api/errs"
)

// Channel is a delivery transport such as email or WhatsApp.
type Channel interface {
	// Name is the key used for the channel in a Result.
	Name() string
	// Enabled is false when the channel has no credentials configured.
	Enabled() bool
	// Address returns the recipient's address on this channel, or "" when the
	// recipient cannot be reached on it.
	Address(r Recipient) string
	// Send delivers content and returns the provider's acknowledgment id.
	Send(ctx context.Context, address string, content Content) (string, error)
}

// AttemptResult is the outcome of one (channel, recipient) delivery.
type AttemptResult struct {
	Address    string `json:"address"`
	Name       string `json:"name,omitempty"`
	UserID     *uint  `json:"user_id,omitempty"`
	Success    bool   `json:"success"`
	ProviderID string `json:"provider_id,omitempty"`
	Error      string `json:"error,omitempty"`
	Skipped    bool   `json:"skipped,omitempty"`
}

// CategoryResults splits a channel's attempts by recipient category.
type CategoryResults struct {
	Customer []AttemptResult `json:"customer"`
	Admin    []AttemptResult `json:"admin"`
}

// Result is keyed by channel name.
type Result map[string]*CategoryResults

// Count returns the number of successful, failed and skipped attempts.
func (r Result) Count() (succeeded, failed, skipped int) {
	for _, cr := range r {
		for _, list := range [][]AttemptResult{cr.Customer, cr.Admin} {
			for _, a := range list {
				switch {
				case a.Skipped:
					skipped++
				case a.Success:
					succeeded++
				default:
					failed++
				}
			}
		}
	}
	return succeeded, failed, skipped
}

// Dispatcher fans a composition out to every channel and recipient.
type Dispatcher struct {
	channels       []Channel
	sendTimeout    time.Duration
	maxConcurrency int
	logger         zerolog.Logger

	wg sync.WaitGroup
}

// NewDispatcher creates a dispatcher. sendTimeout bounds every single attempt;
// maxConcurrency bounds attempts in flight for one Dispatch call.
func NewDispatcher(channels []Channel, sendTimeout time.Duration, maxConcurrency int) *Dispatcher {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Dispatcher{
		channels:       channels,
		sendTimeout:    sendTimeout,
		maxConcurrency: maxConcurrency,
		logger:         log.With().Str("component", "dispatcher").Logger(),
	}
}

type attempt struct {
	channel   Channel
	category  Category
	recipient Recipient
	address   string
	content   Content
}

// Dispatch delivers synchronously and returns when every attempt has finished.
// One attempt failing, panicking or timing out never stops the others.
func (d *Dispatcher) Dispatch(ctx context.Context, recipients []Recipient, comp Composition) Result {
	result := make(Result, len(d.channels))
	var attempts []attempt

	for _, ch := range d.channels {
		result[ch.Name()] = &CategoryResults{Customer: []AttemptResult{}, Admin: []AttemptResult{}}
		for _, r := range recipients {
			addr := ch.Address(r)
			if addr == "" {
				continue
			}
			attempts = append(attempts, attempt{
				channel:   ch,
				category:  r.Category,
				recipient: r,
				address:   addr,
				content:   comp.For(r.Category),
			})
		}
	}

	outcomes := make([]AttemptResult, len(attempts))

	var g errgroup.Group
	g.SetLimit(d.maxConcurrency)
	for i, a := range attempts {
		if !a.channel.Enabled() {
			outcomes[i] = AttemptResult{Address: a.address, Skipped: true, Error: "channel not configured"}
			continue
		}
		g.Go(func() error {
			outcomes[i] = d.attempt(ctx, a)
			return nil
		})
	}
	_ = g.Wait()

	for i, a := range attempts {
		out := outcomes[i]
		out.Name = a.recipient.Name
		out.UserID = a.recipient.UserID

		cr := result[a.channel.Name()]
		if a.category == CategoryCustomer {
			cr.Customer = append(cr.Customer, out)
		} else {
			cr.Admin = append(cr.Admin, out)
		}
	}

	return result
}

func (d *Dispatcher) attempt(ctx context.Context, a attempt) AttemptResult {
	ctx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	type sendOutcome struct {
		id  string
		err error
	}
	done := make(chan sendOutcome, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- sendOutcome{err: fmt.Errorf("panic: %v", rec)}
			}
		}()
		id, err := a.channel.Send(ctx, a.address, a.content)
		done <- sendOutcome{id: id, err: err}
	}()

	var out sendOutcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out = sendOutcome{err: ctx.Err()}
	}

	if out.err != nil {
		derr := errs.NewDeliveryError(a.channel.Name(), a.address, out.err)
		d.logger.Warn().Err(derr).
			Str("channel", a.channel.Name()).
			Str("category", string(a.category)).
			Bool("timeout", errors.Is(out.err, context.DeadlineExceeded)).
			Msg("Delivery attempt failed")
		return AttemptResult{Address: a.address, Error: derr.Error()}
	}

	return AttemptResult{Address: a.address, Success: true, ProviderID: out.id}
}

// Go dispatches in the background, detached from ctx cancellation, and logs the
// outcome. label identifies the event in the log.
func (d *Dispatcher) Go(ctx context.Context, label string, recipients []Recipient, comp Composition) {
	ctx = context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				d.logger.Error().Str("event", label).Interface("panic", rec).Msg("Notification fanout panicked")
			}
		}()

		result := d.Dispatch(ctx, recipients, comp)
		ok, failed, skipped := result.Count()
		evt := d.logger.Info()
		if failed > 0 {
			evt = d.logger.Warn()
		}
		evt.Str("event", label).
			Int("succeeded", ok).
			Int("failed", failed).
			Int("skipped", skipped).
			Msg("Notification fanout finished")
	}()
}

// Wait blocks until every fanout started with Go has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
