// Package config provides configuration loading and validation for the hiring agent.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// LLM provider names accepted in HIRING_LLM_PROVIDER.
const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// Config holds process configuration. It is loaded once at startup and treated
// as immutable afterwards; analyses never see a weight or threshold change
// mid-flight.
type Config struct {
	// Server
	Port        int    // HTTP listen port
	DatabaseURL string // PostgreSQL connection URL

	// LLM collaborator
	LLMProvider  string        // "ollama" or "gemini"
	LLMModel     string        // model name for the selected provider
	OllamaURL    string        // base URL of the local Ollama server
	GeminiAPIKey string        // API key, required for the gemini provider
	LLMTimeout   time.Duration // per-request timeout

	// Storage
	ResumeDir string // directory for uploaded resume files

	// Scoring
	Weights    Weights
	Thresholds Thresholds
}

// Weights are the five scoring dimension weights. They must be non-negative
// and sum to exactly 100.
type Weights struct {
	SkillMatch        float64
	Experience        float64
	DomainKnowledge   float64
	ProjectComplexity float64
	SoftSkills        float64
}

// Thresholds are the decision cut-offs on the final score.
type Thresholds struct {
	StrongHire float64 // final_score >= StrongHire => strong_hire
	Borderline float64 // final_score >= Borderline => borderline, else reject
}

// DefaultWeights returns the stock weight distribution.
func DefaultWeights() Weights {
	return Weights{
		SkillMatch:        40,
		Experience:        25,
		DomainKnowledge:   15,
		ProjectComplexity: 10,
		SoftSkills:        10,
	}
}

// DefaultThresholds returns the stock decision cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{StrongHire: 70, Borderline: 50}
}

// Load reads configuration from the environment and validates it.
// A weight or threshold violation is fatal here so the process refuses to
// start rather than producing wrong scores per request.
func Load() (*Config, error) {
	env := &envParser{}
	cfg := &Config{
		Port:         env.intVal("HIRING_PORT", 8080),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		LLMProvider:  envString("HIRING_LLM_PROVIDER", ProviderOllama),
		LLMModel:     envString("HIRING_LLM_MODEL", "llama3.1"),
		OllamaURL:    envString("OLLAMA_BASE_URL", "http://localhost:11434"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		LLMTimeout:   time.Duration(env.intVal("HIRING_LLM_TIMEOUT_SECONDS", 300)) * time.Second,
		ResumeDir:    envString("HIRING_RESUME_DIR", "data/resumes"),
		Weights: Weights{
			SkillMatch:        env.floatVal("WEIGHT_SKILL_MATCH", 40),
			Experience:        env.floatVal("WEIGHT_EXPERIENCE", 25),
			DomainKnowledge:   env.floatVal("WEIGHT_DOMAIN_KNOWLEDGE", 15),
			ProjectComplexity: env.floatVal("WEIGHT_PROJECT_COMPLEXITY", 10),
			SoftSkills:        env.floatVal("WEIGHT_SOFT_SKILLS", 10),
		},
		Thresholds: Thresholds{
			StrongHire: env.floatVal("THRESHOLD_STRONG_HIRE", 70),
			Borderline: env.floatVal("THRESHOLD_BORDERLINE", 50),
		},
	}
	if env.err != nil {
		return nil, env.err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: DATABASE_URL is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: invalid port %d", c.Port)
	}

	switch c.LLMProvider {
	case ProviderOllama:
		if c.OllamaURL == "" {
			return fmt.Errorf("config error: OLLAMA_BASE_URL is required for the ollama provider")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("config error: GEMINI_API_KEY is required for the gemini provider")
		}
	default:
		return fmt.Errorf("config error: unknown LLM provider %q", c.LLMProvider)
	}

	if err := c.Weights.Validate(); err != nil {
		return err
	}
	return c.Thresholds.Validate()
}

// Validate checks the configuration-time invariant: five non-negative weights
// summing to exactly 100.
func (w Weights) Validate() error {
	for name, value := range map[string]float64{
		"skill_match":        w.SkillMatch,
		"experience":         w.Experience,
		"domain_knowledge":   w.DomainKnowledge,
		"project_complexity": w.ProjectComplexity,
		"soft_skills":        w.SoftSkills,
	} {
		if value < 0 {
			return fmt.Errorf("config error: scoring weight %s must be non-negative, got %v", name, value)
		}
	}
	if total := w.Total(); total != 100 {
		return fmt.Errorf("config error: scoring weights must sum to 100, got %v", total)
	}
	return nil
}

// Total returns the sum of the five weights.
func (w Weights) Total() float64 {
	return w.SkillMatch + w.Experience + w.DomainKnowledge + w.ProjectComplexity + w.SoftSkills
}

// Validate checks that the strong-hire cut-off is not below the borderline one.
func (t Thresholds) Validate() error {
	if t.StrongHire < t.Borderline {
		return fmt.Errorf("config error: strong-hire threshold %v is below borderline threshold %v",
			t.StrongHire, t.Borderline)
	}
	return nil
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// envParser reads typed environment values, recording the first malformed one
// so Load can refuse to start instead of silently using a default.
type envParser struct {
	err error
}

func (p *envParser) intVal(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.fail(key, value, "an integer")
		return fallback
	}
	return n
}

func (p *envParser) floatVal(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		p.fail(key, value, "a number")
		return fallback
	}
	return f
}

func (p *envParser) fail(key, value, want string) {
	if p.err == nil {
		p.err = fmt.Errorf("config error: %s must be %s, got %q", key, want, value)
	}
}
