// Package tree implements the nested tree snapshot format: an XML document
// in which each merchant nests its catalog and each order nests its line
// items, while orders still refer to accounts and merchants by id.
package tree

import (
	"encoding/xml"
	"io"

	"marketplace/internal/core/domain/model/snapshot"
	"marketplace/internal/pkg/errs"
)

// Name is the format name of the codec.
const Name = "tree"

// Codec reads and writes the tree format. The zero value is ready to use.
type Codec struct{}

func NewCodec() Codec {
	return Codec{}
}

func (Codec) Name() string {
	return Name
}

// Encode writes s as an indented XML document with a declaration.
func (Codec) Encode(w io.Writer, s snapshot.Snapshot) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return errs.NewPersistenceWriteError(Name, err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(fromSnapshot(s)); err != nil {
		return errs.NewPersistenceWriteError(Name, err)
	}
	if err := enc.Close(); err != nil {
		return errs.NewPersistenceWriteError(Name, err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return errs.NewPersistenceWriteError(Name, err)
	}
	return nil
}

// Decode reads one XML document. Missing optional elements take their
// defaults: open merchants, Created orders, no allocators.
func (Codec) Decode(r io.Reader) (snapshot.Snapshot, error) {
	var doc documentXML
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return snapshot.Snapshot{}, errs.NewPersistenceReadError(Name, err)
	}

	s, err := doc.toSnapshot()
	if err != nil {
		return snapshot.Snapshot{}, errs.NewPersistenceReadError(Name, err)
	}
	return s, nil
}
