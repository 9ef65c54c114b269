package events

import (
	"context"
	"testing"
)

func TestTransactionEventRoundTrip(t *testing.T) {
	event := NewTransactionEvent("created", 42, 7)

	raw, err := event.ToJSON()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := TransactionEventFromJSON(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if decoded.Action != "created" || decoded.TransactionID != 42 || decoded.UserID != 7 {
		t.Errorf("decoded = %+v, want action=created id=42 user=7", decoded)
	}
	if decoded.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
}

func TestNilPublisherIsSafe(t *testing.T) {
	var p *Publisher
	// handlers call through the global without checking whether events are
	// configured; a nil publisher must be a no-op
	p.PublishTransactionEvent(context.Background(), "created", 1, 1)
	p.Close()
}
