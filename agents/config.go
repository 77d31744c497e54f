package agents

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/herald019/multi-agent-orchestrator-agentic-AI/framework"
)

// Config carries the pipeline knobs supplied by the CLI or a YAML file.
// Secrets are environment-only and never written to disk.
type Config struct {
	Model        string  `yaml:"model"`
	Temperature  float64 `yaml:"temperature"`
	MaxTokens    int     `yaml:"max_tokens"`
	MaxAttempts  int     `yaml:"max_attempts"`
	UseWeb       bool    `yaml:"use_web_research"`
	SearchTopK   int     `yaml:"search_top_k"`
	GroqEndpoint string  `yaml:"groq_endpoint"`

	Logging LoggingConfig `yaml:"logging"`

	GroqAPIKey   string `yaml:"-"`
	TavilyAPIKey string `yaml:"-"`
}

// LoggingConfig describes log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
	Debug bool   `yaml:"debug"`
}

// DefaultConfig returns the built-in settings used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Model:       "llama3-8b-8192",
		Temperature: 0.2,
		MaxAttempts: framework.DefaultMaxAttempts,
		UseWeb:      true,
		SearchTopK:  3,
	}
}

// LoadConfig reads the YAML config at path (defaults when the file is
// missing) and applies environment overrides: GROQ_API_KEY, GROQ_MODEL,
// TAVILY_API_KEY, USE_WEB_RESEARCH.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// fall through to defaults
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}
	cfg.applyEnv()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = framework.DefaultMaxAttempts
	}
	if cfg.SearchTopK <= 0 {
		cfg.SearchTopK = 3
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.GroqAPIKey = os.Getenv("GROQ_API_KEY")
	c.TavilyAPIKey = os.Getenv("TAVILY_API_KEY")
	if v := os.Getenv("GROQ_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("GROQ_ENDPOINT"); v != "" {
		c.GroqEndpoint = v
	}
	if v := os.Getenv("USE_WEB_RESEARCH"); v != "" {
		if parsed, err := strconv.ParseBool(strings.ToLower(v)); err == nil {
			c.UseWeb = parsed
		}
	}
}
