package agent

const (
	defaultMaxTokens     = 4096
	defaultTemperature   = 0.8
	maxToolUseIterations = 10
)

// Config configures a DM Agent.
type Config struct {
	// Model overrides the llm.Client's default model when non-empty.
	Model string
	// MaxTokens bounds each LLM response; defaults to 4096.
	MaxTokens int
	// Temperature controls response randomness; defaults to 0.8. A nil
	// value after DefaultConfig leaves the provider's own default in
	// effect.
	Temperature *float32
	// CustomSystemPrompt is appended to the assembled system prompt under
	// an "Additional Instructions" heading.
	CustomSystemPrompt string
}

// DefaultConfig returns the teacher-equivalent defaults: 4096 max tokens,
// temperature 0.8, no model override, no custom prompt.
func DefaultConfig() Config {
	temp := float32(defaultTemperature)
	return Config{
		MaxTokens:   defaultMaxTokens,
		Temperature: &temp,
	}
}
