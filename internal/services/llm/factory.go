package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nuntius/internal/common"
	"github.com/ternarybob/nuntius/internal/interfaces"
)

// NewLLMService creates the LLM service stack based on configuration.
//
// Gemini is always initialized: it is the sole embedding provider, so the
// vectors in storage stay within one model space regardless of which
// provider answers questions. The returned GenerationService is the
// provider selected by llm.default_provider ("gemini" or "claude").
func NewLLMService(cfg *common.Config, logger arbor.ILogger) (interfaces.LLMService, interfaces.GenerationService, error) {
	provider := cfg.LLM.DefaultProvider
	if provider == "" {
		provider = "gemini"
	}

	logger.Info().Str("provider", string(provider)).Msg("Initializing LLM service")

	gemini, err := NewGeminiService(&cfg.Gemini, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Gemini service: %w", err)
	}

	switch provider {
	case "gemini":
		return gemini, gemini, nil

	case "claude":
		claude, err := NewClaudeService(&cfg.Claude, logger)
		if err != nil {
			gemini.Close()
			return nil, nil, fmt.Errorf("failed to create Claude service: %w", err)
		}
		return gemini, claude, nil

	default:
		gemini.Close()
		return nil, nil, fmt.Errorf("invalid LLM provider '%s': must be 'gemini' or 'claude'", provider)
	}
}
