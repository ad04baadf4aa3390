package mattermost

import (
	"encoding/json"
	"testing"

	"github.com/mattermost/mattermost/server/public/model"
)

func newPostedEvent(t *testing.T, post *model.Post, channelType string) *model.WebSocketEvent {
	t.Helper()
	raw, err := json.Marshal(post)
	if err != nil {
		t.Fatalf("marshal post: %v", err)
	}
	evt := model.NewWebSocketEvent(model.WebsocketEventPosted, "", post.ChannelId, "", nil, "")
	return evt.SetData(map[string]any{
		"post":         string(raw),
		"channel_type": channelType,
	})
}

func TestCanonicalFromEvent_Posted(t *testing.T) {
	post := &model.Post{
		Id:        "P1",
		ChannelId: "C1",
		UserId:    "U1",
		RootId:    "",
		Message:   "@executive-bot hello",
	}
	evt := newPostedEvent(t, post, "O")

	msg, err := CanonicalFromEvent(evt)
	if err != nil {
		t.Fatalf("CanonicalFromEvent() error: %v", err)
	}
	if msg == nil {
		t.Fatal("expected a message, got nil")
	}
	if msg.ChannelID != "C1" || msg.UserID != "U1" || msg.PostID != "P1" {
		t.Errorf("identifiers = %s/%s/%s, want C1/U1/P1", msg.ChannelID, msg.UserID, msg.PostID)
	}
	if msg.IsDirect {
		t.Error("open channel flagged as direct")
	}
	if msg.Content != "@executive-bot hello" {
		t.Errorf("Content = %q", msg.Content)
	}
}

func TestCanonicalFromEvent_DirectChannel(t *testing.T) {
	post := &model.Post{Id: "P1", ChannelId: "C1", UserId: "U1", Message: "hi"}
	evt := newPostedEvent(t, post, string(model.ChannelTypeDirect))

	msg, err := CanonicalFromEvent(evt)
	if err != nil {
		t.Fatalf("CanonicalFromEvent() error: %v", err)
	}
	if !msg.IsDirect {
		t.Error("direct channel not flagged")
	}
}

func TestCanonicalFromEvent_ThreadReply(t *testing.T) {
	post := &model.Post{Id: "P5", ChannelId: "C1", UserId: "U1", RootId: "P1", Message: "follow-up"}
	evt := newPostedEvent(t, post, "O")

	msg, err := CanonicalFromEvent(evt)
	if err != nil {
		t.Fatalf("CanonicalFromEvent() error: %v", err)
	}
	if msg.RootID != "P1" {
		t.Errorf("RootID = %q, want P1", msg.RootID)
	}
	if msg.ThreadID() != "P1" {
		t.Errorf("ThreadID() = %q, want P1", msg.ThreadID())
	}
}

func TestCanonicalFromEvent_MentionedIDsFromProps(t *testing.T) {
	post := &model.Post{Id: "P1", ChannelId: "C1", UserId: "U1", Message: "hey"}
	post.AddProp("mentioned_ids", []any{"bot1", "u2"})
	evt := newPostedEvent(t, post, "O")

	msg, err := CanonicalFromEvent(evt)
	if err != nil {
		t.Fatalf("CanonicalFromEvent() error: %v", err)
	}
	if len(msg.MentionedIDs) != 2 || msg.MentionedIDs[0] != "bot1" {
		t.Errorf("MentionedIDs = %v, want [bot1 u2]", msg.MentionedIDs)
	}
}

func TestCanonicalFromEvent_PostAsDecodedObject(t *testing.T) {
	// Some paths hand over the post already decoded instead of the usual
	// embedded JSON string.
	evt := model.NewWebSocketEvent(model.WebsocketEventPosted, "", "C1", "", nil, "").
		SetData(map[string]any{
			"post": map[string]any{
				"id":         "P1",
				"channel_id": "C1",
				"user_id":    "U1",
				"message":    "hello",
			},
			"channel_type": "O",
		})

	msg, err := CanonicalFromEvent(evt)
	if err != nil {
		t.Fatalf("CanonicalFromEvent() error: %v", err)
	}
	if msg.PostID != "P1" || msg.Content != "hello" {
		t.Errorf("msg = %+v", msg)
	}
}

func TestCanonicalFromEvent_NonPostedIgnored(t *testing.T) {
	evt := model.NewWebSocketEvent(model.WebsocketEventHello, "", "", "", nil, "")

	msg, err := CanonicalFromEvent(evt)
	if err != nil {
		t.Fatalf("CanonicalFromEvent() error: %v", err)
	}
	if msg != nil {
		t.Errorf("expected nil for non-posted event, got %+v", msg)
	}
}

func TestCanonicalFromEvent_MalformedPostJSON(t *testing.T) {
	evt := model.NewWebSocketEvent(model.WebsocketEventPosted, "", "C1", "", nil, "").
		SetData(map[string]any{"post": "{not json"})

	if _, err := CanonicalFromEvent(evt); err == nil {
		t.Error("expected error for malformed post JSON")
	}
}

func TestCanonicalFromEvent_MissingPost(t *testing.T) {
	evt := model.NewWebSocketEvent(model.WebsocketEventPosted, "", "C1", "", nil, "").
		SetData(map[string]any{})

	if _, err := CanonicalFromEvent(evt); err == nil {
		t.Error("expected error for posted event without post data")
	}
}

func TestCanonicalFromEvent_MissingIdentifiers(t *testing.T) {
	post := &model.Post{Message: "orphan"}
	evt := newPostedEvent(t, post, "O")

	if _, err := CanonicalFromEvent(evt); err == nil {
		t.Error("expected error for post missing id and channel_id")
	}
}
