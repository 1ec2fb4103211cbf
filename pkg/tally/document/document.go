// document.go - The calculation document: ordered lines + shared variables
//
// A document owns its lines and the variable namespace they share. Engine
// evaluation is side-effect-free, so this layer is the one place variables
// actually get written. Recalculation is a single top-to-bottom pass: a line
// can use variables from earlier lines, never later ones.

package document

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sambeau/tally/pkg/tally/ai"
	"github.com/sambeau/tally/pkg/tally/engine"
)

// Line is one editable row of a document.
type Line struct {
	ID       string                    `json:"id"`
	Input    string                    `json:"input"`
	Result   *engine.CalculationResult `json:"result,omitempty"`
	Order    int                       `json:"order"`
	Category engine.Category           `json:"category,omitempty"`
}

// Document is the aggregate root: an ordered sequence of lines with a shared
// variable namespace. It always has at least one line.
type Document struct {
	ID        string
	Title     string
	Lines     []*Line
	Variables map[string]engine.CalculationResult
	CreatedAt time.Time
	UpdatedAt time.Time

	eng      *engine.Engine
	fallback ai.Interpreter
	base     engine.Context
}

// Option configures a new document.
type Option func(*Document)

// WithBaseContext sets the em/ppi/decimal-places/clock configuration used
// for every evaluation in this document.
func WithBaseContext(base engine.Context) Option {
	return func(d *Document) { d.base = base }
}

// WithFallback sets the AI interpreter consulted when local evaluation
// fails on a non-trivial line.
func WithFallback(f ai.Interpreter) Option {
	return func(d *Document) { d.fallback = f }
}

// New creates a document with a single blank line.
func New(title string, opts ...Option) *Document {
	now := time.Now()
	d := &Document{
		ID:        uuid.NewString(),
		Title:     title,
		Variables: make(map[string]engine.CalculationResult),
		CreatedAt: now,
		UpdatedAt: now,
		eng:       engine.New(),
		base:      *engine.NewContext(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.Lines = []*Line{d.newLine(0)}
	return d
}

func (d *Document) newLine(order int) *Line {
	return &Line{ID: uuid.NewString(), Order: order}
}

func (d *Document) touch() { d.UpdatedAt = time.Now() }

// Line returns the line with the given id.
func (d *Document) Line(id string) (*Line, bool) {
	for _, l := range d.Lines {
		if l.ID == id {
			return l, true
		}
	}
	return nil, false
}

// AddLine appends a blank line and returns it.
func (d *Document) AddLine() *Line {
	l := d.newLine(len(d.Lines))
	d.Lines = append(d.Lines, l)
	d.touch()
	return l
}

// InsertLine inserts a blank line at the given position and renumbers.
func (d *Document) InsertLine(at int) *Line {
	if at < 0 {
		at = 0
	}
	if at > len(d.Lines) {
		at = len(d.Lines)
	}
	l := d.newLine(at)
	d.Lines = append(d.Lines, nil)
	copy(d.Lines[at+1:], d.Lines[at:])
	d.Lines[at] = l
	d.renumber()
	d.touch()
	return l
}

// RemoveLine deletes a line and renumbers the rest. Deleting the last
// remaining line leaves a fresh blank one: a document is never empty.
func (d *Document) RemoveLine(id string) bool {
	for i, l := range d.Lines {
		if l.ID == id {
			d.Lines = append(d.Lines[:i], d.Lines[i+1:]...)
			if len(d.Lines) == 0 {
				d.Lines = []*Line{d.newLine(0)}
			}
			d.renumber()
			d.touch()
			return true
		}
	}
	return false
}

// Reset forgets every line and variable but keeps the document's identity and
// configuration (base context, fallback interpreter).
func (d *Document) Reset() {
	d.Lines = []*Line{d.newLine(0)}
	d.Variables = make(map[string]engine.CalculationResult)
	d.touch()
}

func (d *Document) renumber() {
	for i, l := range d.Lines {
		l.Order = i
	}
}

// SetInput replaces a line's text. The stale result is cleared; it only
// comes back via a Calculate pass.
func (d *Document) SetInput(id, input string) bool {
	l, ok := d.Line(id)
	if !ok {
		return false
	}
	l.Input = input
	l.Result = nil
	l.Category = ""
	d.touch()
	return true
}

// evalContext builds the per-call context around the current variable view.
func (d *Document) evalContext(vars map[string]engine.CalculationResult) *engine.Context {
	ctx := d.base
	ctx.Variables = vars
	if ctx.Now.IsZero() {
		ctx.Now = time.Now()
	}
	return &ctx
}

// aiMinInput is the shortest input worth a round trip to the fallback
// interpreter; short garbage stays a local error.
const aiMinInput = 12

// evaluateLine runs one line through the engine, then through the optional
// AI fallback. The fallback is best-effort: any failure keeps the local
// error, and it is attempted exactly once.
func (d *Document) evaluateLine(ctx context.Context, l *Line, vars map[string]engine.CalculationResult) engine.CalculationResult {
	res := d.eng.Evaluate(l.Input, d.evalContext(vars))
	if res.IsError() && !res.IsSilent() && d.fallback != nil && len(strings.TrimSpace(l.Input)) >= aiMinInput {
		if aiRes, ok := d.tryFallback(ctx, l.Input); ok {
			return aiRes
		}
	}
	return res
}

func (d *Document) tryFallback(ctx context.Context, input string) (engine.CalculationResult, bool) {
	resp, err := d.fallback.Interpret(ctx, ai.Request{
		Input:        input,
		SystemPrompt: ai.CalculatorPrompt,
	})
	if err != nil || !resp.OK {
		return engine.CalculationResult{}, false
	}
	value := decimal.NewFromFloat(resp.Value)
	if resp.Unit != "" {
		return engine.UnitResult(value, resp.Unit, d.base.DecimalPlaces), true
	}
	return engine.NumberResult(value, d.base.DecimalPlaces), true
}

// CalculateLine evaluates a single line against the current variable
// snapshot. If the line is a successful assignment, the variable is written
// back to the document. Other lines are not recomputed.
func (d *Document) CalculateLine(ctx context.Context, id string) bool {
	l, ok := d.Line(id)
	if !ok {
		return false
	}
	res := d.evaluateLine(ctx, l, d.Variables)
	l.Result = &res
	l.Category = engine.DetectCategory(l.Input)
	if name, ok := engine.ExtractVariableName(l.Input); ok && !res.IsError() {
		d.Variables[strings.ToLower(name)] = res
	}
	d.touch()
	return true
}

// CalculateAll re-evaluates every line top to bottom. The variable map is
// rebuilt incrementally during the pass, so a line sees assignments from
// earlier lines only. No fixed point, no cycles: later values never feed
// earlier lines.
func (d *Document) CalculateAll(ctx context.Context) {
	vars := make(map[string]engine.CalculationResult, len(d.Variables))
	for _, l := range d.Lines {
		res := d.evaluateLine(ctx, l, vars)
		l.Result = &res
		l.Category = engine.DetectCategory(l.Input)
		if name, ok := engine.ExtractVariableName(l.Input); ok && !res.IsError() {
			vars[strings.ToLower(name)] = res
		}
	}
	d.Variables = vars
	d.touch()
}

// Total sums the value of every non-error line. Deliberately kind-blind:
// mixed currencies and units add as raw numbers, which is what a running
// same-kind tally wants and simple enough to reason about otherwise.
func (d *Document) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		if l.Result == nil || l.Result.IsError() {
			continue
		}
		total = total.Add(l.Result.Value)
	}
	return total
}
