// archive.go - Gzip-compressed document export and import

package store

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/sambeau/tally/pkg/tally/document"
)

// ExportArchive writes a document as gzip-compressed JSON.
func ExportArchive(w io.Writer, doc *document.Document) error {
	gz, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("creating archive writer: %w", err)
	}
	if err := json.NewEncoder(gz).Encode(doc); err != nil {
		gz.Close()
		return fmt.Errorf("encoding archive: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	return nil
}

// ImportArchive reads a document written by ExportArchive.
func ImportArchive(r io.Reader) (*document.Document, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer gz.Close()

	var doc document.Document
	if err := json.NewDecoder(gz).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding archive: %w", err)
	}
	return &doc, nil
}
