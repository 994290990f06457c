package amqp

import (
	"strings"
	"testing"
)

func TestStatementSyncMessageRoundTrip(t *testing.T) {
	msg := NewStatementSyncMessage(42)

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"transaction_id":42`) {
		t.Errorf("unexpected payload: %s", data)
	}

	got, err := StatementSyncMessageFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.TransactionID != 42 {
		t.Errorf("transaction id = %d", got.TransactionID)
	}
	if got.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestStatementSyncMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := StatementSyncMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error")
	}
}
