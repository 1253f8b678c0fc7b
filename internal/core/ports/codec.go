// Package ports defines the contracts between the marketplace core and its
// infrastructure adapters.
package ports

import (
	"io"

	"marketplace/internal/core/domain/model/snapshot"
)

// Codec transcodes a whole snapshot to and from one serialized format.
//
// Decode substitutes defaults for missing optional fields and reports
// malformed input as a PersistenceRead error. It does not check references
// between entities; the store does that on restore.
type Codec interface {
	// Name identifies the format, e.g. "record" or "tree".
	Name() string

	Encode(w io.Writer, s snapshot.Snapshot) error

	Decode(r io.Reader) (snapshot.Snapshot, error)
}
