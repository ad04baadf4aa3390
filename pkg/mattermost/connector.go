// Package mattermost implements the platform interface: the transport
// adapter, mention filter, session resolver, outbound chunker/sender,
// webhook endpoints, and the persistent connection lifecycle.
package mattermost

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/rs/zerolog"

	"github.com/tinyland-inc/boardroom/pkg/bus"
	"github.com/tinyland-inc/boardroom/pkg/config"
)

// Status is the connection lifecycle state.
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
	StatusClosing
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusClosing:
		return "closing"
	default:
		return "disconnected"
	}
}

const defaultSendPacing = 100 * time.Millisecond

// Connector owns the persistent Mattermost connection: authenticate,
// resolve self identity, listen, shut down. It feeds parsed events
// through the filter into the bus and delivers outbound responses back
// to the platform. Reconnection after a drop is deliberately not handled
// here; that is an external supervisory concern.
type Connector struct {
	cfg    config.MattermostConfig
	bus    *bus.MessageBus
	filter *Filter
	log    zerolog.Logger

	client *model.Client4
	ws     *model.WebSocketClient

	// pacing is the delay between consecutive chunk sends of one response.
	pacing time.Duration

	mu       sync.Mutex
	status   Status
	selfID   string
	selfName string
	stopChan chan struct{}
}

func NewConnector(cfg config.MattermostConfig, msgBus *bus.MessageBus, log zerolog.Logger) *Connector {
	return &Connector{
		cfg:      cfg,
		bus:      msgBus,
		filter:   NewFilter(cfg.ReplyToMentionsOnly, cfg.BotName),
		log:      log.With().Str("component", "mattermost").Logger(),
		pacing:   defaultSendPacing,
		status:   StatusDisconnected,
		selfName: cfg.BotName,
		stopChan: make(chan struct{}),
	}
}

// Connect logs in, resolves the bot's own identity, and opens the event
// stream. Login or identity failures are fatal to this attempt and
// surface to the caller; nothing retries silently.
func (c *Connector) Connect(ctx context.Context) error {
	stop, err := c.beginConnect()
	if err != nil {
		return err
	}

	c.client = model.NewAPIv4Client(c.cfg.ServerURL)
	c.client.SetToken(c.cfg.Token)

	if c.cfg.BotID != "" {
		c.setSelf(c.cfg.BotID, c.cfg.BotName)
		c.log.Info().Str("bot_id", c.cfg.BotID).Msg("Using configured bot ID")
	} else {
		me, _, err := c.client.GetMe(ctx, "")
		if err != nil {
			c.setStatus(StatusDisconnected)
			return fmt.Errorf("resolving bot identity: %w", err)
		}
		c.setSelf(me.Id, me.Username)
		c.log.Info().Str("username", me.Username).Str("bot_id", me.Id).Msg("Authenticated")
	}

	ws, err := model.NewWebSocketClient4(httpToWS(c.cfg.ServerURL), c.cfg.Token)
	if err != nil {
		c.setStatus(StatusDisconnected)
		return fmt.Errorf("creating websocket client: %w", err)
	}
	c.mu.Lock()
	c.ws = ws
	c.mu.Unlock()
	ws.Listen()

	go c.listen(stop, ws.EventChannel)

	c.setStatus(StatusConnected)
	c.log.Info().Str("server_url", c.cfg.ServerURL).Msg("Connected to Mattermost")
	return nil
}

// beginConnect gates the lifecycle transition and arms a fresh stop
// channel, so a connector that was disconnected can be connected again.
func (c *Connector) beginConnect() (chan struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != StatusDisconnected {
		return nil, fmt.Errorf("connect called while %s", c.status)
	}
	c.status = StatusConnecting
	c.stopChan = make(chan struct{})
	return c.stopChan, nil
}

// Disconnect terminates the session. Idempotent: calling it when already
// disconnected is a no-op.
func (c *Connector) Disconnect() {
	c.mu.Lock()
	if c.status == StatusDisconnected {
		c.mu.Unlock()
		return
	}
	c.status = StatusClosing
	select {
	case <-c.stopChan:
	default:
		close(c.stopChan)
	}
	ws := c.ws
	c.mu.Unlock()

	if ws != nil {
		ws.Close()
	}
	c.setStatus(StatusDisconnected)
	c.log.Info().Msg("Disconnected from Mattermost")
}

// listen consumes the event stream for one connection. The stop channel
// and event channel belong to that connection; a later reconnect starts
// a new listener with its own pair.
func (c *Connector) listen(stop <-chan struct{}, events <-chan *model.WebSocketEvent) {
	for {
		select {
		case <-stop:
			return
		case evt, ok := <-events:
			if !ok {
				c.log.Warn().Msg("WebSocket event channel closed")
				c.setStatus(StatusDisconnected)
				return
			}
			if evt == nil {
				continue
			}
			c.handleEvent(evt)
		}
	}
}

func (c *Connector) handleEvent(evt *model.WebSocketEvent) {
	switch evt.EventType() {
	case model.WebsocketEventHello:
		c.log.Info().Msg("Mattermost WebSocket connection established")
	case model.WebsocketEventPosted:
		c.handlePosted(evt)
	default:
		c.log.Debug().Str("event_type", string(evt.EventType())).Msg("Ignoring event")
	}
}

// handlePosted runs the inbound half of the pipeline: adapter, filter,
// session resolver, publish. Parse failures drop the event with a log
// line and never escape this boundary.
func (c *Connector) handlePosted(evt *model.WebSocketEvent) {
	msg, err := CanonicalFromEvent(evt)
	if err != nil {
		c.log.Error().Err(err).Msg("Dropping malformed posted event")
		return
	}
	if msg == nil {
		return
	}

	selfID, selfName := c.Self()
	cleaned, ok := c.filter.Apply(*msg, selfID, selfName)
	if !ok {
		return
	}
	msg.Content = cleaned
	msg.SessionKey = SessionKey(bus.SourceStream, msg.ChannelID, msg.ThreadID())

	c.log.Info().
		Str("channel_id", msg.ChannelID).
		Str("user_id", msg.UserID).
		Str("session_key", msg.SessionKey).
		Msg("Processing message")

	if err := c.bus.PublishInbound(context.Background(), *msg); err != nil {
		c.log.Error().Err(err).Msg("Failed to publish inbound message")
	}
}

// RunSender consumes outbound responses and delivers them until ctx is
// cancelled or the bus closes. Sends for one response are strictly
// sequential; different responses may interleave upstream.
func (c *Connector) RunSender(ctx context.Context) {
	for {
		out, ok := c.bus.ConsumeOutbound(ctx)
		if !ok {
			return
		}
		if err := c.SendMessage(ctx, out.ChannelID, out.Content, out.RootID); err != nil {
			c.log.Error().Err(err).Str("channel_id", out.ChannelID).Msg("Failed to send response")
		}
	}
}

// SendMessage posts text to a channel, splitting it into chunks within
// the platform limit and pacing consecutive posts. A failure on any
// chunk abandons the rest of that response; there is no automatic retry,
// so partial delivery is possible but duplicates are not.
func (c *Connector) SendMessage(ctx context.Context, channelID, text, rootID string) error {
	chunks := ChunkMessage(text, c.cfg.MaxMessageLength)
	for i, chunk := range chunks {
		if i > 0 {
			select {
			case <-time.After(c.pacing):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		post := &model.Post{
			ChannelId: channelID,
			Message:   chunk,
			RootId:    rootID,
		}
		if _, _, err := c.client.CreatePost(ctx, post); err != nil {
			return fmt.Errorf("posting chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}
	return nil
}

// Self returns the resolved bot identity. The ID is written once during
// Connect and treated as immutable afterwards.
func (c *Connector) Self() (id, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selfID, c.selfName
}

// Status returns the current lifecycle state.
func (c *Connector) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Connector) setSelf(id, name string) {
	c.mu.Lock()
	c.selfID = id
	if name != "" {
		c.selfName = name
	}
	c.mu.Unlock()
}

func (c *Connector) setStatus(s Status) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

// httpToWS converts an HTTP(S) URL to its WS(S) equivalent.
func httpToWS(url string) string {
	if strings.HasPrefix(url, "https://") {
		return "wss://" + strings.TrimPrefix(url, "https://")
	}
	if strings.HasPrefix(url, "http://") {
		return "ws://" + strings.TrimPrefix(url, "http://")
	}
	return url
}
