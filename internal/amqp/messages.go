package amqp

import (
	"encoding/json"
	"time"
)

// TableSyncMessage queues one extracted table for mirroring to the
// spreadsheet. Only identifiers travel on the wire; the worker fetches
// the full table from storage.
type TableSyncMessage struct {
	TableID    string    `json:"table_id"`
	DocumentID string    `json:"document_id"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewTableSyncMessage(tableID, documentID string) *TableSyncMessage {
	return &TableSyncMessage{
		TableID:    tableID,
		DocumentID: documentID,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TableSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TableSyncMessageFromJSON creates a message from JSON bytes
func TableSyncMessageFromJSON(data []byte) (*TableSyncMessage, error) {
	var msg TableSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
