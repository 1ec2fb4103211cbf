package repl

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sambeau/tally/pkg/tally/document"
)

func replDoc(t *testing.T, inputs ...string) *document.Document {
	t.Helper()
	doc := document.New("repl")
	for _, input := range inputs {
		l := doc.AddLine()
		doc.SetInput(l.ID, input)
		doc.CalculateLine(context.Background(), l.ID)
	}
	return doc
}

func TestCommandVars(t *testing.T) {
	doc := replDoc(t, "price = 10", "amount = 3")
	out := &bytes.Buffer{}

	command(":vars", doc, out)

	got := out.String()
	if !strings.Contains(got, "amount = 3") || !strings.Contains(got, "price = 10") {
		t.Errorf("expected both variables, got %q", got)
	}
	// Sorted: amount before price.
	if strings.Index(got, "amount") > strings.Index(got, "price") {
		t.Errorf("expected sorted variable listing, got %q", got)
	}

	out.Reset()
	command(":vars", replDoc(t), out)
	if !strings.Contains(out.String(), "no variables") {
		t.Errorf("expected empty-vars message, got %q", out.String())
	}
}

func TestCommandTotal(t *testing.T) {
	doc := replDoc(t, "10", "20")
	out := &bytes.Buffer{}

	command(":total", doc, out)

	if !strings.Contains(out.String(), "30") {
		t.Errorf("expected 30, got %q", out.String())
	}
}

func TestCommandClear(t *testing.T) {
	doc := replDoc(t, "x = 5", "x * 2")
	out := &bytes.Buffer{}

	command(":clear", doc, out)

	if len(doc.Variables) != 0 {
		t.Errorf("expected no variables after :clear, got %v", doc.Variables)
	}
	if len(doc.Lines) != 1 || doc.Lines[0].Input != "" {
		t.Errorf("expected a single blank line after :clear")
	}
}

func TestCommandQuitAndUnknown(t *testing.T) {
	doc := replDoc(t)
	out := &bytes.Buffer{}

	if !command(":quit", doc, out) {
		t.Error(":quit should quit")
	}
	if command(":bogus", doc, out) {
		t.Error(":bogus should not quit")
	}
	if !strings.Contains(out.String(), "unknown command") {
		t.Errorf("expected unknown-command message, got %q", out.String())
	}
}

func TestComplete(t *testing.T) {
	doc := replDoc(t, "taxrate = 2")

	matches := complete("100 * ta", doc)
	joined := strings.Join(matches, "\n")
	if !strings.Contains(joined, "100 * taxrate") {
		t.Errorf("expected variable completion, got %v", matches)
	}
	if !strings.Contains(joined, "100 * tan") {
		t.Errorf("expected function completion, got %v", matches)
	}

	// Completion keeps everything before the last word.
	for _, m := range matches {
		if !strings.HasPrefix(m, "100 * ") {
			t.Errorf("completion dropped the prefix: %q", m)
		}
	}

	if got := complete("", doc); got != nil {
		t.Errorf("empty input should not complete, got %v", got)
	}
}
