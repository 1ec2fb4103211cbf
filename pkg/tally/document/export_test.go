package document

import (
	"context"
	"strings"
	"testing"
)

func TestMarkdownExport(t *testing.T) {
	d := testDoc(t)
	setLines(t, d,
		"// Groceries",
		"$10 + $5",
		"",
		"5 + 3",
	)
	d.CalculateAll(context.Background())

	md := d.Markdown()

	if !strings.HasPrefix(md, "# test\n") {
		t.Errorf("expected title heading, got %q", md)
	}
	if !strings.Contains(md, "Groceries\n") {
		t.Error("comment line missing from prose")
	}
	if strings.Contains(md, "| `// Groceries`") {
		t.Error("comment rendered as a table row")
	}
	if !strings.Contains(md, "| `$10 + $5` | **$15.00** |") {
		t.Errorf("calculation row missing:\n%s", md)
	}
	if !strings.Contains(md, "| `5 + 3` | **8** |") {
		t.Errorf("second table missing:\n%s", md)
	}
	if !strings.Contains(md, "Total: **23**") {
		t.Errorf("total missing:\n%s", md)
	}
}

func TestHTMLExport(t *testing.T) {
	d := testDoc(t)
	setLines(t, d, "5 + 3")
	d.CalculateAll(context.Background())

	html, err := d.HTML()
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(html, "<table>") {
		t.Errorf("expected a rendered table:\n%s", html)
	}
	if !strings.Contains(html, "<strong>8</strong>") {
		t.Errorf("expected the result in the table:\n%s", html)
	}
}
