// serialize.go - Flat JSON serialization of documents
//
// Variables marshal as an ordered list of (name, result) pairs rather than a
// map so the wire form is stable; timestamps are RFC 3339.

package document

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sambeau/tally/pkg/tally/engine"
)

type variablePair struct {
	Name   string                   `json:"name"`
	Result engine.CalculationResult `json:"result"`
}

type documentJSON struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Lines     []*Line        `json:"lines"`
	Variables []variablePair `json:"variables"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// MarshalJSON implements json.Marshaler.
func (d *Document) MarshalJSON() ([]byte, error) {
	pairs := make([]variablePair, 0, len(d.Variables))
	for name, res := range d.Variables {
		pairs = append(pairs, variablePair{Name: name, Result: res})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Name < pairs[j].Name })

	return json.Marshal(documentJSON{
		ID:        d.ID,
		Title:     d.Title,
		Lines:     d.Lines,
		Variables: pairs,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	})
}

// UnmarshalJSON implements json.Unmarshaler. The engine and options are
// reset to defaults; callers reattach fallbacks after loading.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw documentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding document: %w", err)
	}

	fresh := New(raw.Title)
	*d = *fresh
	d.ID = raw.ID
	d.CreatedAt = raw.CreatedAt
	d.UpdatedAt = raw.UpdatedAt
	if len(raw.Lines) > 0 {
		d.Lines = raw.Lines
		d.renumber()
	}
	d.Variables = make(map[string]engine.CalculationResult, len(raw.Variables))
	for _, pair := range raw.Variables {
		d.Variables[strings.ToLower(pair.Name)] = pair.Result
	}
	return nil
}
