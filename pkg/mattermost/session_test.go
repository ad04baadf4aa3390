package mattermost

import (
	"testing"

	"github.com/tinyland-inc/boardroom/pkg/bus"
)

func TestSessionKey_Format(t *testing.T) {
	tests := []struct {
		source  bus.Source
		channel string
		scope   string
		want    string
	}{
		{bus.SourceStream, "C1", "P1", "stream_C1_P1"},
		{bus.SourceWebhook, "C2", "P9", "webhook_C2_P9"},
		{bus.SourceCommand, "C3", "U7", "command_C3_U7"},
	}
	for _, tt := range tests {
		if got := SessionKey(tt.source, tt.channel, tt.scope); got != tt.want {
			t.Errorf("SessionKey(%s, %s, %s) = %q, want %q", tt.source, tt.channel, tt.scope, got, tt.want)
		}
	}
}

func TestSessionKey_Deterministic(t *testing.T) {
	a := SessionKey(bus.SourceStream, "C1", "P1")
	b := SessionKey(bus.SourceStream, "C1", "P1")
	if a != b {
		t.Errorf("same inputs produced different keys: %q vs %q", a, b)
	}
}

func TestSessionKey_SourcesDistinguishSessions(t *testing.T) {
	stream := SessionKey(bus.SourceStream, "C1", "X")
	webhook := SessionKey(bus.SourceWebhook, "C1", "X")
	if stream == webhook {
		t.Errorf("different sources collided on key %q", stream)
	}
}

func TestThreadID_RootPreferredOverPost(t *testing.T) {
	threaded := bus.InboundMessage{PostID: "P2", RootID: "P1"}
	if got := threaded.ThreadID(); got != "P1" {
		t.Errorf("ThreadID() = %q, want root P1", got)
	}

	topLevel := bus.InboundMessage{PostID: "P1"}
	if got := topLevel.ThreadID(); got != "P1" {
		t.Errorf("ThreadID() = %q, want post P1", got)
	}
}

func TestThreadID_RepliesShareStreamSession(t *testing.T) {
	root := bus.InboundMessage{ChannelID: "C1", PostID: "P1"}
	reply := bus.InboundMessage{ChannelID: "C1", PostID: "P5", RootID: "P1"}

	rootKey := SessionKey(bus.SourceStream, root.ChannelID, root.ThreadID())
	replyKey := SessionKey(bus.SourceStream, reply.ChannelID, reply.ThreadID())
	if rootKey != replyKey {
		t.Errorf("thread reply got key %q, root got %q; want shared session", replyKey, rootKey)
	}
}
