package bus

import (
	"testing"
	"time"
)

func TestBus_InboundRoundTrip(t *testing.T) {
	mb := NewMessageBus()
	defer mb.Close()

	in := InboundMessage{Source: SourceStream, ChannelID: "C1", PostID: "P1", Content: "hello"}
	if err := mb.PublishInbound(t.Context(), in); err != nil {
		t.Fatalf("PublishInbound() error: %v", err)
	}

	got, ok := mb.ConsumeInbound(t.Context())
	if !ok {
		t.Fatal("ConsumeInbound() returned not ok")
	}
	if got.ChannelID != "C1" || got.Content != "hello" {
		t.Errorf("got %+v", got)
	}
}

func TestBus_OutboundRoundTrip(t *testing.T) {
	mb := NewMessageBus()
	defer mb.Close()

	out := OutboundMessage{ChannelID: "C1", RootID: "P1", Content: "reply"}
	if err := mb.PublishOutbound(t.Context(), out); err != nil {
		t.Fatalf("PublishOutbound() error: %v", err)
	}

	got, ok := mb.ConsumeOutbound(t.Context())
	if !ok {
		t.Fatal("ConsumeOutbound() returned not ok")
	}
	if got != out {
		t.Errorf("got %+v, want %+v", got, out)
	}
}

func TestBus_PublishAfterClose(t *testing.T) {
	mb := NewMessageBus()
	mb.Close()

	if err := mb.PublishInbound(t.Context(), InboundMessage{}); err != ErrBusClosed {
		t.Errorf("PublishInbound() error = %v, want ErrBusClosed", err)
	}
	if err := mb.PublishOutbound(t.Context(), OutboundMessage{}); err != ErrBusClosed {
		t.Errorf("PublishOutbound() error = %v, want ErrBusClosed", err)
	}
}

func TestBus_CloseUnblocksConsumers(t *testing.T) {
	mb := NewMessageBus()
	done := make(chan bool)
	go func() {
		_, ok := mb.ConsumeInbound(t.Context())
		done <- ok
	}()

	mb.Close()
	select {
	case ok := <-done:
		if ok {
			t.Error("consumer reported ok after close")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("consumer still blocked after close")
	}
}

func TestBus_CloseIdempotent(t *testing.T) {
	mb := NewMessageBus()
	mb.Close()
	mb.Close()
}
