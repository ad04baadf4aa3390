package mattermost

import (
	"encoding/json"
	"fmt"

	"github.com/mattermost/mattermost/server/public/model"

	"github.com/tinyland-inc/boardroom/pkg/bus"
)

// CanonicalFromEvent normalizes a WebSocket "posted" event into the
// canonical inbound shape. Returns (nil, nil) for events that carry no
// user content and should be ignored. Malformed payloads produce an
// error; the caller logs and drops, never propagates.
//
// The post arrives as a JSON string embedded in the event data (sometimes
// already decoded into an object by upstream layers), so both encodings
// are accepted.
func CanonicalFromEvent(evt *model.WebSocketEvent) (*bus.InboundMessage, error) {
	if evt.EventType() != model.WebsocketEventPosted {
		return nil, nil
	}

	data := evt.GetData()
	var post model.Post
	switch raw := data["post"].(type) {
	case string:
		if err := json.Unmarshal([]byte(raw), &post); err != nil {
			return nil, fmt.Errorf("unmarshal embedded post: %w", err)
		}
	case map[string]any:
		reencoded, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("re-encode post object: %w", err)
		}
		if err := json.Unmarshal(reencoded, &post); err != nil {
			return nil, fmt.Errorf("unmarshal post object: %w", err)
		}
	default:
		return nil, fmt.Errorf("posted event missing post data")
	}

	if post.Id == "" || post.ChannelId == "" {
		return nil, fmt.Errorf("post missing required identifiers")
	}

	channelType, _ := data["channel_type"].(string)

	return &bus.InboundMessage{
		Source:       bus.SourceStream,
		ChannelID:    post.ChannelId,
		UserID:       post.UserId,
		PostID:       post.Id,
		RootID:       post.RootId,
		IsDirect:     channelType == string(model.ChannelTypeDirect),
		MentionedIDs: mentionedIDs(&post),
		Content:      post.Message,
	}, nil
}

// mentionedIDs extracts the explicit mention list from post props,
// tolerating the mixed types a decoded JSON payload produces.
func mentionedIDs(post *model.Post) []string {
	raw, ok := post.GetProps()["mentioned_ids"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// OutgoingWebhookPayload is the form/JSON body Mattermost sends for
// outgoing webhooks.
type OutgoingWebhookPayload struct {
	Token       string `json:"token"`
	TeamID      string `json:"team_id"`
	ChannelID   string `json:"channel_id"`
	ChannelName string `json:"channel_name"`
	Timestamp   int64  `json:"timestamp"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	PostID      string `json:"post_id"`
	Text        string `json:"text"`
	TriggerWord string `json:"trigger_word"`
}

// SlashCommandPayload is the form-encoded body Mattermost sends for
// slash commands.
type SlashCommandPayload struct {
	Token       string
	TeamID      string
	ChannelID   string
	ChannelName string
	UserID      string
	UserName    string
	Command     string
	Text        string
	ResponseURL string
	TriggerID   string
}

// WebhookResponse is the structured reply for both webhook and slash
// command endpoints.
type WebhookResponse struct {
	Text         string `json:"text,omitempty"`
	ResponseType string `json:"response_type"` // "in_channel" | "ephemeral"
	Username     string `json:"username,omitempty"`
	IconURL      string `json:"icon_url,omitempty"`
}

const (
	ResponseTypeInChannel = "in_channel"
	ResponseTypeEphemeral = "ephemeral"
)
