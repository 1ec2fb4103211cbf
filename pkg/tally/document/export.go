// export.go - Markdown and HTML export
//
// Comment lines render as prose (they are often markdown already) and
// calculation lines render as a two-column table. HTML is the markdown run
// through goldmark.

package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// Markdown renders the document as a markdown fragment.
func (d *Document) Markdown() string {
	var sb strings.Builder
	if d.Title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", d.Title)
	}

	inTable := false
	flushTable := func() {
		if inTable {
			sb.WriteString("\n")
			inTable = false
		}
	}

	for _, l := range d.Lines {
		trimmed := strings.TrimSpace(l.Input)
		switch {
		case trimmed == "":
			flushTable()
		case strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#"):
			flushTable()
			text := strings.TrimSpace(strings.TrimLeft(trimmed, "/#"))
			sb.WriteString(text + "\n\n")
		default:
			if !inTable {
				sb.WriteString("| | |\n|---|---|\n")
				inTable = true
			}
			formatted := ""
			if l.Result != nil {
				formatted = l.Result.Formatted
			}
			fmt.Fprintf(&sb, "| `%s` | **%s** |\n", trimmed, formatted)
		}
	}
	flushTable()

	total := d.Total()
	if !total.IsZero() {
		fmt.Fprintf(&sb, "Total: **%s**\n", total.String())
	}
	return sb.String()
}

// HTML renders the markdown export to HTML.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(d.Markdown()), &buf); err != nil {
		return "", fmt.Errorf("rendering document: %w", err)
	}
	return buf.String(), nil
}
