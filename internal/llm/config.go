package llm

import "os"

// Config holds the model configuration for the rewrite service.
type Config struct {
	Model       string
	Temperature float32
}

// DefaultModel is used when GEMINI_MODEL is not set.
const DefaultModel = "gemini-2.5-flash"

// DefaultConfig returns the default configuration. Temperature 0.7 keeps
// rewrites varied without losing the JSON schema contract.
func DefaultConfig() *Config {
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = DefaultModel
	}
	return &Config{
		Model:       model,
		Temperature: 0.7,
	}
}
