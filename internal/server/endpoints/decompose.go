package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/hastd/internal/api"
	"github.com/jackzampolin/hastd/internal/pipeline"
	"github.com/jackzampolin/hastd/internal/schema"
	"github.com/jackzampolin/hastd/internal/svcctx"
)

// DecomposeRequest is the body of POST /decompose.
type DecomposeRequest struct {
	JSONSchema json.RawMessage `json:"json_schema,omitempty" swaggertype:"object"`
	SchemaName string          `json:"schema_name,omitempty"`
}

// DecomposeResponse lists the tasks of a schema and their schedule.
type DecomposeResponse struct {
	Tasks    []schema.Task `json:"tasks"`
	Order    []string      `json:"order"`
	Levels   [][]string    `json:"levels"`
	Warnings []string      `json:"warnings,omitempty"`
}

// DecomposeEndpoint handles POST /decompose.
type DecomposeEndpoint struct{}

func (e *DecomposeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/decompose", e.handler
}

func (e *DecomposeEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Decompose a schema
//	@Description	Flatten a schema into field tasks and return the execution order
//	@Tags			extract
//	@Accept			json
//	@Produce		json
//	@Param			body	body		DecomposeRequest	true	"Schema"
//	@Success		200		{object}	DecomposeResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/decompose [post]
func (e *DecomposeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req DecomposeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	root, err := requestSchema(r, req.JSONSchema, req.SchemaName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := pipeline.NewPlan(root)
	if errors.Is(err, pipeline.ErrNoTasks) {
		writeJSON(w, http.StatusOK, DecomposeResponse{Tasks: []schema.Task{}, Order: []string{}, Levels: [][]string{}})
		return
	}
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	svcctx.LoggerFrom(r.Context()).Debug("decompose.request.complete", "tasks", len(plan.Tasks), "nodes", len(plan.Order))
	writeJSON(w, http.StatusOK, DecomposeResponse{
		Tasks:    plan.Tasks,
		Order:    plan.Order,
		Levels:   plan.Levels,
		Warnings: plan.Warnings,
	})
}

func (e *DecomposeEndpoint) Command(getServerURL func() string) *cobra.Command {
	var schemaFile, schemaName string
	cmd := &cobra.Command{
		Use:   "decompose",
		Short: "Decompose a schema into field tasks on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := DecomposeRequest{SchemaName: schemaName}
			if schemaFile != "" {
				raw, err := readInput(schemaFile)
				if err != nil {
					return err
				}
				if req.JSONSchema, err = json.Marshal(string(raw)); err != nil {
					return err
				}
			}
			client := api.NewClient(getServerURL())
			var resp DecomposeResponse
			if err := client.Post(cmd.Context(), "/decompose", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&schemaFile, "schema", "", "Schema file (JSON or YAML, - for stdin)")
	cmd.Flags().StringVar(&schemaName, "schema-name", "", "Named schema from the server's schema library")
	cmd.MarkFlagsOneRequired("schema", "schema-name")
	cmd.MarkFlagsMutuallyExclusive("schema", "schema-name")
	return cmd
}

// SchemasResponse lists the schema library.
type SchemasResponse struct {
	Schemas []string `json:"schemas"`
}

// ListSchemasEndpoint handles GET /api/schemas.
type ListSchemasEndpoint struct{}

func (e *ListSchemasEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/schemas", e.handler
}

func (e *ListSchemasEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		List named schemas
//	@Description	Names of the schemas stored in the home schema library
//	@Tags			schemas
//	@Produce		json
//	@Success		200	{object}	SchemasResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/schemas [get]
func (e *ListSchemasEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	h := svcctx.HomeFrom(r.Context())
	if h == nil {
		writeError(w, http.StatusInternalServerError, "schema library not available")
		return
	}
	names, err := h.ListSchemas()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, SchemasResponse{Schemas: names})
}

func (e *ListSchemasEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "List named schemas on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SchemasResponse
			if err := client.Get(cmd.Context(), "/api/schemas", &resp); err != nil {
				return err
			}
			return api.Output(resp.Schemas)
		},
	}
}
