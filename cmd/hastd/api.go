package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/hastd/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running hastd server via HTTP.

These commands require a running server (hastd serve).
Use --server to specify a custom server URL.

Examples:
  hastd api health                                       # Check server health
  hastd api extract --schema s.json --document d.txt     # Run an extraction
  hastd api llmcalls list --run <run-id>                 # Inspect LLM calls of a run
  hastd api prompts get extract.field                    # Show a prompt template`,
}

var llmcallsCmd = &cobra.Command{
	Use:   "llmcalls",
	Short: "LLM call history commands",
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "LLM call metrics commands",
}

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Prompt template commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	// Health endpoints at top level of api
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ReadyEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.StatusEndpoint{}).Command(getServerURL))

	// Extraction at top level of api
	apiCmd.AddCommand((&endpoints.ExtractEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.DecomposeEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ListSchemasEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.SwaggerEndpoint{}).Command(getServerURL))

	for _, ep := range endpoints.LLMCallCommands() {
		llmcallsCmd.AddCommand(ep.Command(getServerURL))
	}
	for _, ep := range endpoints.MetricsCommands() {
		metricsCmd.AddCommand(ep.Command(getServerURL))
	}
	for _, ep := range endpoints.PromptCommands() {
		promptsCmd.AddCommand(ep.Command(getServerURL))
	}

	apiCmd.AddCommand(llmcallsCmd)
	apiCmd.AddCommand(metricsCmd)
	apiCmd.AddCommand(promptsCmd)
	rootCmd.AddCommand(apiCmd)
}
