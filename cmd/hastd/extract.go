package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/hastd/internal/api"
	"github.com/jackzampolin/hastd/internal/extract"
	"github.com/jackzampolin/hastd/internal/home"
	"github.com/jackzampolin/hastd/internal/jobcfg"
	"github.com/jackzampolin/hastd/internal/llmcall"
	"github.com/jackzampolin/hastd/internal/pipeline"
	"github.com/jackzampolin/hastd/internal/prompts"
	"github.com/jackzampolin/hastd/internal/providers"
	"github.com/jackzampolin/hastd/internal/schema"
	"github.com/jackzampolin/hastd/internal/validate"
)

// mockProviderName is the provider registered by --mock-response.
const mockProviderName = "cli-mock"

var (
	extractSchema       string
	extractDocument     string
	extractProvider     string
	extractModel        string
	extractMaxAttempts  int
	extractConcurrency  int
	extractMaxChars     int
	extractMockResponse []string
	extractOut          string
	extractShowCalls    bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract structured data from a document without a server",
	Long: `Extract structured data from a document in this process.

The schema is a JSON or YAML file, or the name of a schema in the
schemas directory of the home directory (~/.hastd/schemas).

--mock-response replaces the LLM with scripted replies, one per call in
order, repeating the last one. Useful for trying out schemas offline.

Examples:
  hastd extract --schema invoice --document invoice.txt
  hastd extract --schema s.yaml --document - < d.txt -o json
  hastd extract --schema s.json --document d.txt --provider openai --max-attempts 5
  hastd extract --schema s.json --document d.txt --mock-response '{"title": "Report"}'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		h, mgr, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(mgr.Get())
		if err != nil {
			return err
		}

		root, err := loadSchema(h, extractSchema)
		if err != nil {
			return err
		}
		doc, err := readInput(extractDocument)
		if err != nil {
			return err
		}

		registry := providers.NewRegistry()
		registry.SetLogger(logger)
		provider := extractProvider
		if len(extractMockResponse) > 0 {
			mock := providers.NewMockClient()
			mock.Responses = extractMockResponse
			registry.RegisterLLM(mockProviderName, mock)
			provider = mockProviderName
		} else {
			registry.Reload(mgr.Get().ToProviderRegistryConfig())
		}

		calls := llmcall.NewStore(0)
		resolver := prompts.NewResolver(logger)
		extract.RegisterPrompts(resolver)

		builder, err := jobcfg.NewBuilder(jobcfg.BuilderConfig{
			Config:    mgr,
			Registry:  registry,
			Recorder:  calls,
			Prompts:   resolver,
			Validator: validate.NewJSONSchemaValidator(logger),
			Logger:    logger,
		})
		if err != nil {
			return err
		}

		p, rc, err := builder.Pipeline(ctx, jobcfg.Overrides{
			Provider:         provider,
			Model:            extractModel,
			MaxAttempts:      extractMaxAttempts,
			Concurrency:      extractConcurrency,
			MaxDocumentChars: extractMaxChars,
		})
		if err != nil {
			return err
		}

		res, err := p.Run(ctx, pipeline.Input{Schema: root, Document: string(doc)})
		if err != nil {
			return err
		}
		logger.Info("extract.complete",
			"run_id", res.RunID,
			"provider", rc.Provider,
			"succeeded", res.Succeeded,
			"failed", res.Failed,
			"duration", res.Duration)

		out := localResult{Result: res}
		if extractShowCalls {
			if out.Calls, err = calls.List(ctx, llmcall.QueryFilter{RunID: res.RunID}); err != nil {
				return err
			}
		}
		if extractOut != "" {
			return api.OutputToFile(extractOut, out)
		}
		return api.Output(out)
	},
}

// localResult is the output of a local extraction.
type localResult struct {
	*pipeline.Result
	Calls []llmcall.Call `json:"llm_calls,omitempty"`
}

func init() {
	extractCmd.Flags().StringVar(&extractSchema, "schema", "", "Schema file or name in the schema library (required)")
	extractCmd.Flags().StringVar(&extractDocument, "document", "-", "Document text file (- for stdin)")
	extractCmd.Flags().StringVar(&extractProvider, "provider", "", "LLM provider (default from config)")
	extractCmd.Flags().StringVar(&extractModel, "model", "", "Model override")
	extractCmd.Flags().IntVar(&extractMaxAttempts, "max-attempts", 0, "Oracle calls per field (default from config)")
	extractCmd.Flags().IntVar(&extractConcurrency, "concurrency", 0, "Fields extracted at once (default from config)")
	extractCmd.Flags().IntVar(&extractMaxChars, "max-chars", 0, "Cut the document to this many characters (default from config)")
	extractCmd.Flags().StringArrayVar(&extractMockResponse, "mock-response", nil, "Scripted LLM reply; repeat for a sequence")
	extractCmd.Flags().StringVar(&extractOut, "out", "", "Write the result to a file (.json or .yaml)")
	extractCmd.Flags().BoolVar(&extractShowCalls, "calls", false, "Include the LLM calls of the run in the output")
	_ = extractCmd.MarkFlagRequired("schema")
	extractCmd.MarkFlagsMutuallyExclusive("mock-response", "provider")

	rootCmd.AddCommand(extractCmd)
}

// loadSchema reads a schema from a file path or the schema library.
func loadSchema(h *home.Dir, ref string) (*schema.Schema, error) {
	path, err := h.ResolveSchema(ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	root, err := schema.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema %s: %w", path, err)
	}
	return root, nil
}

// readInput reads a file, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
