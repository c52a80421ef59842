package session

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"repolens/internal/errors"
)

var (
	encoder, _ = zstd.NewWriter(nil)
	decoder, _ = zstd.NewReader(nil)
)

// Encode serializes a snapshot to zstd-compressed JSON
func Encode(snap *Snapshot) ([]byte, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return encoder.EncodeAll(raw, nil), nil
}

// Decode deserializes a snapshot and validates its schema version. A version
// mismatch is a recoverable, explicitly reported error.
func Decode(data []byte) (*Snapshot, error) {
	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		// Snapshots written before compression was introduced are plain JSON.
		raw = data
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, errors.Wrap(errors.Internal, "decoding snapshot", err)
	}

	if snap.SchemaVersion != SchemaVersion {
		return nil, errors.New(errors.SchemaMismatch,
			fmt.Sprintf("snapshot schema version %d, this build reads %d", snap.SchemaVersion, SchemaVersion))
	}

	return &snap, nil
}
