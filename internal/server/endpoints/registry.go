package endpoints

import (
	"github.com/jackzampolin/hastd/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	SwaggerSpecPath string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},

		// Extraction endpoints
		&ExtractEndpoint{},
		&DecomposeEndpoint{},
		&ListSchemasEndpoint{},

		// LLM call history endpoints
		&ListLLMCallsEndpoint{},
		&GetLLMCallEndpoint{},
		&LLMCallCountsEndpoint{},
		&RunHistoryEndpoint{},
		&MetricsSummaryEndpoint{},
		&MetricsBreakdownEndpoint{},

		// Prompt endpoints
		&ListPromptsEndpoint{},
		&GetPromptEndpoint{},
		&SetPromptEndpoint{},
		&ClearPromptEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{SpecPath: cfg.SwaggerSpecPath},
		&SwaggerUIEndpoint{},
	}
}

// LLMCallCommands returns endpoints for LLM call history operations.
// This groups llmcall-related commands under "llmcalls" subcommand.
func LLMCallCommands() []api.Endpoint {
	return []api.Endpoint{
		&ListLLMCallsEndpoint{},
		&GetLLMCallEndpoint{},
		&LLMCallCountsEndpoint{},
		&RunHistoryEndpoint{},
	}
}

// MetricsCommands returns endpoints for LLM call metrics.
// This groups metrics-related commands under "metrics" subcommand.
func MetricsCommands() []api.Endpoint {
	return []api.Endpoint{
		&MetricsSummaryEndpoint{},
		&MetricsBreakdownEndpoint{},
	}
}

// PromptCommands returns endpoints for prompt operations.
// This groups prompt-related commands under "prompts" subcommand.
func PromptCommands() []api.Endpoint {
	return []api.Endpoint{
		&ListPromptsEndpoint{},
		&GetPromptEndpoint{},
		&SetPromptEndpoint{},
		&ClearPromptEndpoint{},
	}
}
