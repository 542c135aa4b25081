package endpoints

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/hastd/internal/api"
	"github.com/jackzampolin/hastd/internal/jobcfg"
	"github.com/jackzampolin/hastd/internal/pipeline"
	"github.com/jackzampolin/hastd/internal/schema"
	"github.com/jackzampolin/hastd/internal/svcctx"
)

// maxRequestBytes bounds extraction and decomposition request bodies.
const maxRequestBytes = 16 << 20

// ExtractRequest is the body of POST /extract. The schema is given inline
// as json_schema (an object or a JSON/YAML string) or by schema_name from
// the schema library.
type ExtractRequest struct {
	DocumentText     string          `json:"document_text"`
	JSONSchema       json.RawMessage `json:"json_schema,omitempty" swaggertype:"object"`
	SchemaName       string          `json:"schema_name,omitempty"`
	Provider         string          `json:"provider,omitempty"`
	Model            string          `json:"model,omitempty"`
	MaxAttempts      int             `json:"max_attempts,omitempty"`
	Concurrency      int             `json:"concurrency,omitempty"`
	MaxDocumentChars int             `json:"max_document_chars,omitempty"`
}

// ExtractResponse is the result of one extraction run.
type ExtractResponse struct {
	RunID            string                 `json:"run_id"`
	Provider         string                 `json:"provider"`
	Model            string                 `json:"model,omitempty"`
	ExtractedData    map[string]any         `json:"extracted_data"`
	CorrectedData    map[string]any         `json:"corrected_data"`
	ConfidenceScores map[string]float64     `json:"confidence_scores"`
	Errors           map[string][]string    `json:"errors"`
	Fields           []pipeline.FieldResult `json:"fields"`
	Order            []string               `json:"order"`
	Warnings         []string               `json:"warnings,omitempty"`
	Truncated        bool                   `json:"document_truncated,omitempty"`
	Succeeded        int                    `json:"succeeded"`
	Failed           int                    `json:"failed"`
	DurationMs       int64                  `json:"duration_ms"`
}

func newExtractResponse(res *pipeline.Result, rc jobcfg.RunConfig) ExtractResponse {
	return ExtractResponse{
		RunID:            res.RunID,
		Provider:         rc.Provider,
		Model:            rc.Model,
		ExtractedData:    res.Document,
		CorrectedData:    res.Corrected,
		ConfidenceScores: res.Confidence,
		Errors:           res.FieldErrors,
		Fields:           res.Fields,
		Order:            res.Order,
		Warnings:         res.Warnings,
		Truncated:        res.Truncated,
		Succeeded:        res.Succeeded,
		Failed:           res.Failed,
		DurationMs:       res.Duration.Milliseconds(),
	}
}

// ExtractEndpoint handles POST /extract.
type ExtractEndpoint struct{}

func (e *ExtractEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/extract", e.handler
}

func (e *ExtractEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Extract structured data
//	@Description	Decompose the schema into fields, extract each field from the document with validation and correction, and merge the results
//	@Tags			extract
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ExtractRequest	true	"Document and schema"
//	@Success		200		{object}	ExtractResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/extract [post]
func (e *ExtractEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := svcctx.LoggerFrom(ctx)

	var req ExtractRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	root, err := requestSchema(r, req.JSONSchema, req.SchemaName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	builder := svcctx.BuilderFrom(ctx)
	if builder == nil {
		writeError(w, http.StatusInternalServerError, "extraction service not available")
		return
	}

	p, rc, err := builder.Pipeline(ctx, jobcfg.Overrides{
		Provider:         req.Provider,
		Model:            req.Model,
		MaxAttempts:      req.MaxAttempts,
		Concurrency:      req.Concurrency,
		MaxDocumentChars: req.MaxDocumentChars,
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	res, err := p.Run(ctx, pipeline.Input{Schema: root, Document: req.DocumentText})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	logger.Info("extract.request.complete",
		"run_id", res.RunID,
		"provider", rc.Provider,
		"succeeded", res.Succeeded,
		"failed", res.Failed)
	writeJSON(w, http.StatusOK, newExtractResponse(res, rc))
}

func (e *ExtractEndpoint) Command(getServerURL func() string) *cobra.Command {
	var schemaFile, schemaName, documentFile, provider, model, outFile string
	var maxAttempts, concurrency int

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract structured data from a document on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readInput(documentFile)
			if err != nil {
				return err
			}
			req := ExtractRequest{
				DocumentText: string(doc),
				SchemaName:   schemaName,
				Provider:     provider,
				Model:        model,
				MaxAttempts:  maxAttempts,
				Concurrency:  concurrency,
			}
			if schemaFile != "" {
				raw, err := readInput(schemaFile)
				if err != nil {
					return err
				}
				if req.JSONSchema, err = json.Marshal(string(raw)); err != nil {
					return fmt.Errorf("failed to encode schema: %w", err)
				}
			}

			client := api.NewClient(getServerURL())
			var resp ExtractResponse
			if err := client.Post(cmd.Context(), "/extract", req, &resp); err != nil {
				return err
			}
			if outFile != "" {
				return api.OutputToFile(outFile, resp)
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&schemaFile, "schema", "", "Schema file (JSON or YAML)")
	cmd.Flags().StringVar(&schemaName, "schema-name", "", "Named schema from the server's schema library")
	cmd.Flags().StringVar(&documentFile, "document", "-", "Document text file (- for stdin)")
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider (default from config)")
	cmd.Flags().StringVar(&model, "model", "", "Model override")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "Oracle calls per field (default from config)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Fields extracted at once (default from config)")
	cmd.Flags().StringVar(&outFile, "out", "", "Write the result to a file (.json or .yaml)")
	cmd.MarkFlagsOneRequired("schema", "schema-name")
	cmd.MarkFlagsMutuallyExclusive("schema", "schema-name")
	return cmd
}

// requestSchema parses an inline schema or loads a named one from the
// schema library.
func requestSchema(r *http.Request, inline json.RawMessage, name string) (*schema.Schema, error) {
	raw := bytes.TrimSpace(inline)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		if name == "" {
			return nil, errors.New("json_schema or schema_name is required")
		}
		h := svcctx.HomeFrom(r.Context())
		if h == nil {
			return nil, errors.New("schema library not available")
		}
		data, err := h.ReadSchema(name)
		if err != nil {
			return nil, err
		}
		raw = data
	} else if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, fmt.Errorf("invalid json_schema string: %w", err)
		}
		raw = []byte(text)
	}
	return schema.Parse(raw)
}

// statusFor maps run errors to HTTP status codes: configuration faults are
// the caller's, anything else is ours.
func statusFor(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrNoTasks),
		errors.Is(err, pipeline.ErrEmptyDocument),
		errors.Is(err, schema.ErrEmptySchema),
		errors.Is(err, jobcfg.ErrUnknownProvider):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
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
