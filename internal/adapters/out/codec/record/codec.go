// Package record implements the flat record snapshot format: one JSON
// document with arrays of accounts, merchants and orders and the allocator
// counters. Orders refer to accounts and merchants by id.
package record

import (
	"encoding/json"
	"io"

	"marketplace/internal/core/domain/model/snapshot"
	"marketplace/internal/pkg/errs"
)

// Name is the format name of the codec.
const Name = "record"

// Codec reads and writes the record format. The zero value is ready to use.
type Codec struct{}

func NewCodec() Codec {
	return Codec{}
}

func (Codec) Name() string {
	return Name
}

// Encode writes s as indented JSON.
func (Codec) Encode(w io.Writer, s snapshot.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fromSnapshot(s)); err != nil {
		return errs.NewPersistenceWriteError(Name, err)
	}
	return nil
}

// Decode reads one JSON document. Missing optional fields take their
// defaults: open merchants, Created orders, no allocators.
func (Codec) Decode(r io.Reader) (snapshot.Snapshot, error) {
	var doc documentDTO
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return snapshot.Snapshot{}, errs.NewPersistenceReadError(Name, err)
	}

	s, err := doc.toSnapshot()
	if err != nil {
		return snapshot.Snapshot{}, errs.NewPersistenceReadError(Name, err)
	}
	return s, nil
}
