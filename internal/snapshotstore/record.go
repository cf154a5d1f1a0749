package snapshotstore

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no snapshot has been stored for a
// viewer id yet.
var ErrNotFound = errors.New("snapshotstore: record not found")

type wireRecord struct {
	ViewerID  string    `json:"viewer_id"`
	Data      []byte    `json:"data"`
	WrittenAt time.Time `json:"written_at"`
}

func encodeRecord(r Record) ([]byte, error) {
	return json.Marshal(wireRecord{ViewerID: r.ViewerID, Data: r.Data, WrittenAt: r.WrittenAt})
}

func decodeRecord(raw []byte) (*Record, error) {
	var w wireRecord
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	return &Record{ViewerID: w.ViewerID, Data: w.Data, WrittenAt: w.WrittenAt}, nil
}
