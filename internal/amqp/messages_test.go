package amqp

import (
	"testing"
	"time"
)

func TestTransactionSyncMessageRoundTrip(t *testing.T) {
	msg := NewTransactionSyncMessage("tx-42", 7)
	if msg.Timestamp.IsZero() {
		t.Fatal("timestamp should be set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatal(err)
	}

	got, err := TransactionSyncMessageFromJSON(body)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "tx-42" || got.Seq != 7 {
		t.Fatalf("got %+v", got)
	}
	if !got.Timestamp.Truncate(time.Millisecond).Equal(msg.Timestamp.Truncate(time.Millisecond)) {
		t.Fatalf("timestamp drifted: %v vs %v", got.Timestamp, msg.Timestamp)
	}
}

func TestTransactionSyncMessageBadJSON(t *testing.T) {
	if _, err := TransactionSyncMessageFromJSON([]byte("{nope")); err == nil {
		t.Fatal("expected unmarshal error")
	}
}
