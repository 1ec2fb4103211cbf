// gemini.go - Gemini-backed interpreter over the GenAI SDK

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Gemini interprets failed lines with a Gemini model. The zero value uses
// the default model and the GEMINI_API_KEY environment variable.
type Gemini struct {
	Model   string        // defaults to "gemini-2.0-flash"
	APIKey  string        // defaults to $GEMINI_API_KEY
	Timeout time.Duration // per-request deadline, defaults to 10s
}

var _ Interpreter = (*Gemini)(nil)

type geminiAnswer struct {
	Value *float64 `json:"value"`
	Unit  string   `json:"unit"`
}

// Interpret sends one request and parses the JSON answer. Any transport or
// parse failure is an error; the caller keeps its local result.
func (g *Gemini) Interpret(ctx context.Context, req Request) (Response, error) {
	apiKey := g.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return Response{}, fmt.Errorf("no API key configured")
	}
	model := g.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	timeout := g.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return Response{}, fmt.Errorf("creating client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0)),
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		},
	}
	result, err := client.Models.GenerateContent(ctx, model, genai.Text(req.Input), config)
	if err != nil {
		return Response{}, fmt.Errorf("generation failed: %w", err)
	}

	return parseAnswer(result.Text())
}

// parseAnswer decodes the model's JSON reply, tolerating code fences.
func parseAnswer(text string) (Response, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var answer geminiAnswer
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &answer); err != nil {
		return Response{}, fmt.Errorf("unparseable answer: %w", err)
	}
	if answer.Value == nil {
		return Response{}, nil
	}
	return Response{OK: true, Value: *answer.Value, Unit: answer.Unit}, nil
}
