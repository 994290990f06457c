package amqp

import (
	"encoding/json"
	"time"
)

// StatementSyncMessage asks the export worker to refresh the spreadsheet
// after a transaction was recorded. It carries only the transaction id; the
// worker fetches the record and recomputes the owner's statements from the
// store.
type StatementSyncMessage struct {
	TransactionID int64     `json:"transaction_id"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewStatementSyncMessage(transactionID int64) *StatementSyncMessage {
	return &StatementSyncMessage{
		TransactionID: transactionID,
		Timestamp:     time.Now(),
	}
}

func (m *StatementSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func StatementSyncMessageFromJSON(data []byte) (*StatementSyncMessage, error) {
	var msg StatementSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
