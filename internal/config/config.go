package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// ----------------------------
	// SMTP
	// ----------------------------
	SMTPHost     string `envconfig:"SMTP_HOST" default:"localhost"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"1025"`
	SMTPUser     string `envconfig:"SMTP_USER" default:""`
	SMTPPassword string `envconfig:"SMTP_PASSWORD" default:""`
	SMTPFrom     string `envconfig:"SMTP_FROM" default:"noreply@pitchguard.io"`

	// ----------------------------
	// LLM endpoint (OpenAI-compatible, e.g. a local Ollama)
	// ----------------------------
	LLMBaseURL      string        `envconfig:"LLM_BASE_URL" default:"http://localhost:11434/v1"`
	LLMAPIKey       string        `envconfig:"LLM_API_KEY" default:"ollama"`
	ProfessionalLLM string        `envconfig:"PROFESSIONAL_MODEL" default:"mistral:7b"`
	HumorousLLM     string        `envconfig:"HUMOROUS_MODEL" default:"qwen2.5:3b"`
	ConciseLLM      string        `envconfig:"CONCISE_MODEL" default:"llama3.2:3b"`
	SafetyLLM       string        `envconfig:"SAFETY_MODEL" default:"llama3.2:3b"`

	// ----------------------------
	// Guardrails
	// ----------------------------
	// PIIBlockThreshold and InjectionBlockCount are the tunables behind the
	// input guardrail's block decision; the defaults block on a single
	// injection match and on PII confidence above 0.7.
	PIIBlockThreshold   float64 `envconfig:"PII_BLOCK_THRESHOLD" default:"0.7"`
	InjectionBlockCount int     `envconfig:"INJECTION_BLOCK_COUNT" default:"1"`
	UseSafetyOpinion    bool    `envconfig:"USE_SAFETY_OPINION" default:"false"`

	// ----------------------------
	// Generation
	// ----------------------------
	StrategyTimeout time.Duration `envconfig:"STRATEGY_TIMEOUT" default:"90s"`
	RoundTimeout    time.Duration `envconfig:"ROUND_TIMEOUT" default:"5m"`

	// ----------------------------
	// Delivery
	// ----------------------------
	RateLimit     int `envconfig:"RATE_LIMIT" default:"10"`
	RetryAttempts int `envconfig:"RETRY_ATTEMPTS" default:"3"`

	// ----------------------------
	// HTTP API
	// ----------------------------
	APIPort string `envconfig:"API_PORT" default:"8080"`

	// ----------------------------
	// Metrics
	// ----------------------------
	MetricsPort string `envconfig:"METRICS_PORT" default:"9090"`
}

func Load() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return &cfg, err
}
