package flavor

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

//go:embed prompts/flavor_event.txt
var flavorEventPrompt string

var flavorEventTmpl = template.Must(template.New("flavor_event").Parse(flavorEventPrompt))

const DefaultModel = "gemini-2.5-flash"

// Gemini generates flavor events with the Gemini API.
type Gemini struct {
	client       *genai.Client
	model        *genai.GenerativeModel
	achievements []string
}

// NewGemini connects to Gemini. achievements lists the ids the model may
// suggest.
func NewGemini(ctx context.Context, apiKey, model string, achievements []string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	m := client.GenerativeModel(model)
	m.ResponseMIMEType = "application/json"
	return &Gemini{client: client, model: m, achievements: achievements}, nil
}

func (g *Gemini) Close() {
	g.client.Close()
}

func (g *Gemini) Generate(ctx context.Context, summary string) (*Result, error) {
	var buf bytes.Buffer
	data := struct {
		Summary      string
		Achievements string
	}{
		Summary:      summary,
		Achievements: strings.Join(g.achievements, ", "),
	}
	if err := flavorEventTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(buf.String()))
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyResponse
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("flavor: unexpected response type %T", resp.Candidates[0].Content.Parts[0])
	}
	return Parse(string(text))
}
