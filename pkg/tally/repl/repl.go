// repl.go - Interactive calculator with line editing and history

package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"github.com/sambeau/tally/pkg/tally/document"
)

const PROMPT = "= "

const TALLY_LOGO = `
▀█▀ ▄▀█ █░░ █░░ █▄█
░█░ █▀█ █▄▄ █▄▄ ░█░ `

// Completion candidates: operator words, function names and unit tokens.
// Variable names defined during the session are added dynamically.
var completionWords = []string{
	// Operator words
	"times", "plus", "minus", "divided by", "over", "squared", "cubed",
	"to the power of", "of", "off", "as a % of",
	// Functions
	"sqrt", "cbrt", "sin", "cos", "tan", "asin", "acos", "atan",
	"log", "ln", "floor", "ceil", "round", "abs", "pi",
	// Dates
	"today", "tomorrow", "yesterday", "next week", "last week",
	"next month", "last month", "next year", "last year",
	// Common units
	"mm", "cm", "km", "inches", "feet", "yards", "miles",
	"ml", "tsp", "tbsp", "cup", "gal",
	"mg", "kg", "oz", "lb", "st",
	"seconds", "minutes", "hours", "days", "weeks",
	"kb", "mb", "gb", "tb",
	"celsius", "fahrenheit", "kelvin",
	"px", "em", "rem", "pt",
	"usd", "eur", "gbp", "jpy",
}

// Options configures the REPL.
type Options struct {
	HistoryFile string // defaults to a file in the user cache dir
	Doc         *document.Document
}

// Start runs the REPL until EOF or "exit". Input comes from the terminal via
// liner; out receives results and messages.
func Start(out io.Writer, version string, opts Options) {
	doc := opts.Doc
	if doc == nil {
		doc = document.New("repl")
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	line.SetCompleter(func(l string) []string {
		return complete(l, doc)
	})

	historyFile := opts.HistoryFile
	if historyFile == "" {
		historyFile = filepath.Join(os.TempDir(), ".tally_history")
	}
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(out, "%s", TALLY_LOGO)
	fmt.Fprintln(out, "v", version)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Type a calculation, or ':help' for commands")
	fmt.Fprintln(out, "")

	for {
		input, err := line.Prompt(PROMPT)
		if err != nil {
			if err == liner.ErrPromptAborted {
				continue
			}
			fmt.Fprintln(out, "")
			return
		}
		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		line.AppendHistory(input)

		if trimmed == "exit" || trimmed == "quit" {
			return
		}
		if strings.HasPrefix(trimmed, ":") {
			if quit := command(trimmed, doc, out); quit {
				return
			}
			continue
		}

		l := doc.AddLine()
		doc.SetInput(l.ID, input)
		doc.CalculateLine(context.Background(), l.ID)
		if l.Result == nil || l.Result.IsSilent() {
			continue
		}
		if l.Result.IsError() {
			fmt.Fprintf(out, "! %s\n", l.Result.Err)
			continue
		}
		fmt.Fprintln(out, l.Result.Formatted)
	}
}

func command(cmd string, doc *document.Document, out io.Writer) (quit bool) {
	switch cmd {
	case ":help", ":h":
		fmt.Fprintln(out, "Commands:")
		fmt.Fprintln(out, "  :vars    show defined variables")
		fmt.Fprintln(out, "  :total   sum of all results so far")
		fmt.Fprintln(out, "  :clear   forget all lines and variables")
		fmt.Fprintln(out, "  :help    this help")
		fmt.Fprintln(out, "  exit     quit (also Ctrl+D)")
	case ":vars", ":v":
		if len(doc.Variables) == 0 {
			fmt.Fprintln(out, "no variables defined")
			break
		}
		names := make([]string, 0, len(doc.Variables))
		for name := range doc.Variables {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "  %s = %s\n", name, doc.Variables[name].Formatted)
		}
	case ":total", ":t":
		fmt.Fprintln(out, doc.Total().String())
	case ":clear":
		doc.Reset()
		fmt.Fprintln(out, "cleared")
	case ":quit", ":exit":
		return true
	default:
		fmt.Fprintf(out, "unknown command %s (try :help)\n", cmd)
	}
	return false
}

// complete finishes the last word of the line from the completion table and
// the document's variables.
func complete(input string, doc *document.Document) []string {
	lastSpace := strings.LastIndexByte(input, ' ')
	prefix, word := "", input
	if lastSpace >= 0 {
		prefix, word = input[:lastSpace+1], input[lastSpace+1:]
	}
	if word == "" {
		return nil
	}
	word = strings.ToLower(word)

	candidates := append([]string{}, completionWords...)
	for name := range doc.Variables {
		candidates = append(candidates, name)
	}
	sort.Strings(candidates)

	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(c, word) {
			matches = append(matches, prefix+c)
		}
	}
	return matches
}
