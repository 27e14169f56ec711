package engine

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/contract"
	openrouterx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/pkg/openrouter"
)

// Phase names the two calls of an orchestration pass.
type Phase string

const (
	PhasePlan    Phase = "plan"
	PhaseNarrate Phase = "narrate"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.3"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	// Optional per-phase overrides. Negative temperature means inherit.
	PlannerModel        string  `envconfig:"PLANNER_MODEL" split_words:"true"`
	NarratorModel       string  `envconfig:"NARRATOR_MODEL" split_words:"true"`
	PlannerTemperature  float32 `envconfig:"PLANNER_TEMPERATURE" split_words:"true" default:"-1"`
	NarratorTemperature float32 `envconfig:"NARRATOR_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrEngineUnavailable)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrEngineUnavailable)
	}
	return nil
}

func (c Config) openRouterFor(phase Phase) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch phase {
	case PhasePlan:
		if v := strings.TrimSpace(c.PlannerModel); v != "" {
			modelName = v
		}
		if c.PlannerTemperature >= 0 {
			temp = c.PlannerTemperature
		}
	case PhaseNarrate:
		if v := strings.TrimSpace(c.NarratorModel); v != "" {
			modelName = v
		}
		if c.NarratorTemperature >= 0 {
			temp = c.NarratorTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
