package document

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDocumentRoundTrip(t *testing.T) {
	d := testDoc(t)
	setLines(t, d,
		"// groceries",
		"price = $25",
		"price * 3",
	)
	d.CalculateAll(context.Background())

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var loaded Document
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if loaded.ID != d.ID || loaded.Title != d.Title {
		t.Errorf("identity changed: %s/%s vs %s/%s", loaded.ID, loaded.Title, d.ID, d.Title)
	}
	if len(loaded.Lines) != len(d.Lines) {
		t.Fatalf("expected %d lines, got %d", len(d.Lines), len(loaded.Lines))
	}
	for i, l := range loaded.Lines {
		if l.Input != d.Lines[i].Input {
			t.Errorf("line %d input: expected %q, got %q", i, d.Lines[i].Input, l.Input)
		}
		if l.Order != i {
			t.Errorf("line %d order: expected %d, got %d", i, i, l.Order)
		}
	}

	price, ok := loaded.Variables["price"]
	if !ok {
		t.Fatal("price variable lost")
	}
	if !price.Value.Equal(decimal.NewFromInt(25)) || price.Currency != "USD" {
		t.Errorf("price variable: expected $25, got %+v", price)
	}

	res := loaded.Lines[2].Result
	if res == nil || res.Formatted != "$75.00" {
		t.Errorf("line result lost: %+v", res)
	}

	// A loaded document is still evaluable.
	loaded.CalculateAll(context.Background())
	if res := loaded.Lines[2].Result; res == nil || res.Formatted != "$75.00" {
		t.Errorf("recalculation after load: %+v", res)
	}
}

func TestUnmarshalNormalizesVariableNames(t *testing.T) {
	raw := `{"id":"abc","title":"t","lines":[{"id":"l1","input":"5","order":0}],
		"variables":[{"name":"Price","result":{"kind":"number","value":"5","formatted":"5"}}],
		"createdAt":"2026-08-31T00:00:00Z","updatedAt":"2026-08-31T00:00:00Z"}`

	var d Document
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := d.Variables["price"]; !ok {
		t.Error("expected lowercased variable name")
	}
}

func TestVariablesMarshalSorted(t *testing.T) {
	d := testDoc(t)
	setLines(t, d, "zebra = 1", "apple = 2")
	d.CalculateAll(context.Background())

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw struct {
		Variables []struct {
			Name string `json:"name"`
		} `json:"variables"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if len(raw.Variables) != 2 || raw.Variables[0].Name != "apple" || raw.Variables[1].Name != "zebra" {
		t.Errorf("expected sorted variables, got %+v", raw.Variables)
	}
}
