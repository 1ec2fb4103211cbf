// interpreter.go - Optional AI-assisted interpretation of failed lines
//
// The interpreter is an unreliable, best-effort collaborator: the engine is
// never allowed to depend on it for correctness, callers must treat every
// failure as "keep the local error".

package ai

import "context"

// Request is one interpretation attempt.
type Request struct {
	Input        string
	SystemPrompt string
}

// Response carries a usable numeric reading of the input, if one was found.
type Response struct {
	OK    bool
	Value float64
	Unit  string
}

// Interpreter turns a line the local engine could not parse into a number.
type Interpreter interface {
	Interpret(ctx context.Context, req Request) (Response, error)
}

// CalculatorPrompt instructs the model to answer with bare structured data.
const CalculatorPrompt = `You are a calculator. The user gives you one line of natural language
describing a computation. Respond with JSON only, no prose:
{"value": <number>, "unit": "<unit label or empty string>"}
If the line is not a computation, respond {"value": null, "unit": ""}.`

// Disabled is the no-op interpreter: every request fails cleanly.
type Disabled struct{}

// Interpret always declines.
func (Disabled) Interpret(context.Context, Request) (Response, error) {
	return Response{}, nil
}
