package bus

// Source identifies the ingress path a message arrived on.
type Source string

const (
	SourceStream  Source = "stream"  // persistent WebSocket event stream
	SourceWebhook Source = "webhook" // outgoing webhook HTTP callback
	SourceCommand Source = "command" // slash command HTTP callback
)

// InboundMessage is the canonical representation of a received platform
// message, independent of which ingress path produced it. It is created
// once per event and never mutated after publication.
type InboundMessage struct {
	Source       Source   `json:"source"`
	ChannelID    string   `json:"channel_id"`
	UserID       string   `json:"user_id"`
	PostID       string   `json:"post_id"`
	RootID       string   `json:"root_id,omitempty"` // thread parent, empty for thread starters
	IsDirect     bool     `json:"is_direct"`
	MentionedIDs []string `json:"mentioned_ids,omitempty"`
	Content      string   `json:"content"` // cleaned text, mention artifacts stripped
	SessionKey   string   `json:"session_key"`
}

// ThreadID returns the identifier of the thread this message belongs to.
// A message with no root starts its own thread.
func (m InboundMessage) ThreadID() string {
	if m.RootID != "" {
		return m.RootID
	}
	return m.PostID
}

// OutboundMessage is a response destined for the platform. Content may
// exceed the platform message limit; the sender splits it before delivery.
type OutboundMessage struct {
	ChannelID string `json:"channel_id"`
	RootID    string `json:"root_id,omitempty"`
	Content   string `json:"content"`
}
