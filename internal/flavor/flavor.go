// Package flavor fetches generated month-end events from a language model.
// Every failure is reported to the caller, which falls back to the local
// event tables.
package flavor

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tatianab/xjtu-sim/internal/models"
)

//go:embed prompts/flavor_event.schema.json
var responseSchemaText string

var responseSchema = jsonschema.MustCompileString("flavor_event.schema.json", responseSchemaText)

var (
	ErrNoAPIKey      = errors.New("flavor: api key is not set")
	ErrEmptyResponse = errors.New("flavor: no content returned")
)

// Result is a validated generated event.
type Result struct {
	Text        string
	Delta       models.Delta
	Achievement string
}

// Provider generates an event from a plain text description of the player.
type Provider interface {
	Generate(ctx context.Context, summary string) (*Result, error)
}

type payload struct {
	EventText string `json:"event_text"`
	Effects   struct {
		GPA     float64 `json:"gpa"`
		San     float64 `json:"san"`
		Stamina float64 `json:"stamina"`
		Money   float64 `json:"money"`
		Social  float64 `json:"social_score"`
	} `json:"effects"`
	AchievementID *string `json:"achievement_id"`
}

// Parse validates a raw model reply and maps it into a Result. Numeric
// effects are clamped to the documented ranges and stamina becomes energy.
func Parse(text string) (*Result, error) {
	clean := stripFences(text)

	var doc any
	if err := json.Unmarshal([]byte(clean), &doc); err != nil {
		return nil, fmt.Errorf("flavor: decode reply: %w", err)
	}
	if err := responseSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("flavor: invalid reply: %w", err)
	}

	var p payload
	if err := json.Unmarshal([]byte(clean), &p); err != nil {
		return nil, fmt.Errorf("flavor: decode reply: %w", err)
	}
	if strings.TrimSpace(p.EventText) == "" {
		return nil, fmt.Errorf("flavor: reply has no event_text")
	}

	res := &Result{
		Text: strings.TrimSpace(p.EventText),
		Delta: models.Delta{
			GPA:    models.ClampFloat(p.Effects.GPA, -0.5, 0.5),
			San:    clampRound(p.Effects.San, 20),
			Energy: clampRound(p.Effects.Stamina, 20),
			Money:  clampRound(p.Effects.Money, 500),
			Social: clampRound(p.Effects.Social, 10),
		},
	}
	if p.AchievementID != nil {
		res.Achievement = strings.TrimSpace(*p.AchievementID)
	}
	return res, nil
}

func clampRound(v, limit float64) int {
	return int(math.Round(models.ClampFloat(v, -limit, limit)))
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
