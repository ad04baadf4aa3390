package dispatch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tinyland-inc/boardroom/pkg/bus"
)

// Dispatcher consumes inbound messages from the bus, runs the configured
// entity, and publishes responses back. Each message is handled in its own
// goroutine so a slow entity call never blocks other events.
type Dispatcher struct {
	target *Target
	bus    *bus.MessageBus
	log    zerolog.Logger
	wg     sync.WaitGroup
}

func NewDispatcher(target *Target, msgBus *bus.MessageBus, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		target: target,
		bus:    msgBus,
		log:    log.With().Str("component", "dispatcher").Logger(),
	}
}

// Run consumes inbound messages until ctx is cancelled or the bus closes.
// In-flight handlers are allowed to complete; Run returns after they do.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		msg, ok := d.bus.ConsumeInbound(ctx)
		if !ok {
			break
		}
		d.wg.Add(1)
		go func(msg bus.InboundMessage) {
			defer d.wg.Done()
			d.handle(ctx, msg)
		}(msg)
	}
	d.wg.Wait()
}

func (d *Dispatcher) handle(ctx context.Context, msg bus.InboundMessage) {
	reply, ok, _ := d.Dispatch(ctx, msg.Content, msg.SessionKey)
	if !ok {
		return
	}

	out := bus.OutboundMessage{
		ChannelID: msg.ChannelID,
		RootID:    msg.ThreadID(),
		Content:   reply,
	}
	// Publish with a detached context: a handler that finishes while the
	// gateway is shutting down can still deliver its response as long as
	// the bus is open.
	if err := d.bus.PublishOutbound(context.Background(), out); err != nil {
		d.log.Error().Err(err).Str("channel_id", msg.ChannelID).Msg("Failed to publish response")
	}
}

// Dispatch runs the entity with the given text and session key. Entity
// errors never crash the pipeline: they are logged and converted into a
// visible fallback message so the triggering event is always
// acknowledged. The error is still returned so synchronous callers can
// restrict the fallback to the invoker. The bool is false when there is
// nothing to send.
func (d *Dispatcher) Dispatch(ctx context.Context, text, sessionKey string) (string, bool, error) {
	resp, err := d.target.Entity().Run(ctx, text, sessionKey)
	if err != nil {
		d.log.Error().Err(err).
			Str("session_key", sessionKey).
			Str("entity", d.target.EntityName()).
			Msg("Entity run failed")
		return fmt.Sprintf("Sorry, I encountered an error: %s", err.Error()), true, err
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", false, nil
	}
	return resp.Content, true, nil
}

// EntityName exposes the configured entity's name for status endpoints.
func (d *Dispatcher) EntityName() string {
	return d.target.EntityName()
}
