package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/hastd/internal/server"
)

var (
	serveHost     string
	servePort     string
	swaggerFile   string
	callLogLength int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the hastd server",
	Long: `Start the hastd HTTP server.

The server provides:
  - POST /extract    - Extract structured data from a document
  - POST /decompose  - Show the field tasks and order for a schema
  - /api/llmcalls    - LLM call history per run and field
  - /api/prompts     - View and override prompt templates
  - /health, /ready  - Liveness and readiness checks
  - /swagger/        - API documentation

The config file is watched while the server runs; provider changes
apply to the next request.

Examples:
  hastd serve                    # Start on the configured address
  hastd serve --port 3000        # Start on custom port
  hastd serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		h, mgr, err := loadConfig()
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		cfg := mgr.Get()
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		host := cfg.Server.Host
		if cmd.Flags().Changed("host") {
			host = serveHost
		}
		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		srv, err := server.New(server.Config{
			Host:            host,
			Port:            port,
			ConfigManager:   mgr,
			Home:            h,
			CallLogCapacity: callLogLength,
			SwaggerSpecPath: swaggerFile,
			Logger:          logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on (default from config)")
	serveCmd.Flags().StringVar(&swaggerFile, "swagger-spec", "", "Serve swagger.json from this file instead of the built-in spec")
	serveCmd.Flags().IntVar(&callLogLength, "call-log-size", 0, "LLM calls kept in memory (default 10000)")

	rootCmd.AddCommand(serveCmd)
}
