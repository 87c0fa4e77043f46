package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration.
type App struct {
	Name string `env:"APP_NAME" envDefault:"aiquiz"`
	Env  string `env:"APP_ENV" envDefault:"development"`

	Storage Storage
	AI      AI
	Quiz    Quiz
}

// Storage locates the per-topic JSON files and the credential file.
type Storage struct {
	DataDir    string `env:"TOPICS_DATA_DIR" envDefault:"topics_data"`
	SourcesDir string `env:"TOPICS_SOURCES_DIR" envDefault:"topics_sources"`
	KeyFile    string `env:"API_KEY_FILE" envDefault:"API_key.json"`
}

// AI configures the completion service client.
type AI struct {
	BaseURL     string        `env:"AI_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	Model       string        `env:"AI_MODEL" envDefault:"llama3-70b-8192"`
	HTTPTimeout time.Duration `env:"AI_HTTP_TIMEOUT" envDefault:"60s"`
}

// Quiz groups session defaults offered by the front-end.
type Quiz struct {
	DefaultQuestionCount int `env:"DEFAULT_QUESTION_COUNT" envDefault:"5"`
	DefaultReusePercent  int `env:"DEFAULT_REUSE_PERCENT" envDefault:"50"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
