package endpoints

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/hastd/internal/api"
	"github.com/jackzampolin/hastd/internal/llmcall"
	"github.com/jackzampolin/hastd/internal/svcctx"
)

// LLMCallsResponse is one page of recorded oracle calls, newest first.
type LLMCallsResponse struct {
	Calls []llmcall.Call `json:"calls"`
	Total int            `json:"total"`
}

// LLMCallResponse wraps a single recorded call.
type LLMCallResponse struct {
	Call  *llmcall.Call `json:"call,omitempty"`
	Error string        `json:"error,omitempty"`
}

// LLMCallCountsResponse holds call counts per prompt key.
type LLMCallCountsResponse struct {
	Counts map[string]int `json:"counts"`
}

// callStore fetches the call log or writes a 500.
func callStore(w http.ResponseWriter, r *http.Request) *llmcall.Store {
	store := svcctx.LLMCallStoreFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusInternalServerError, "LLM call store not available")
	}
	return store
}

// ListLLMCallsEndpoint handles GET /api/llmcalls.
type ListLLMCallsEndpoint struct{}

func (e *ListLLMCallsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/llmcalls", e.handler
}

func (e *ListLLMCallsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List LLM calls
//	@Description	Oracle call log, newest first, with optional filters
//	@Tags			llmcalls
//	@Produce		json
//	@Param			run_id		query		string	false	"Filter by extraction run ID"
//	@Param			field_path	query		string	false	"Filter by field path"
//	@Param			kind		query		string	false	"Filter by call kind (extract or correct)"
//	@Param			prompt_key	query		string	false	"Filter by prompt key"
//	@Param			provider	query		string	false	"Filter by provider"
//	@Param			model		query		string	false	"Filter by model"
//	@Param			success		query		bool	false	"Filter by success status"
//	@Param			after		query		string	false	"Only calls after this RFC3339 time"
//	@Param			before		query		string	false	"Only calls before this RFC3339 time"
//	@Param			limit		query		int		false	"Max results (default 100)"
//	@Param			offset		query		int		false	"Result offset"
//	@Success		200			{object}	LLMCallsResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/api/llmcalls [get]
func (e *ListLLMCallsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := callStore(w, r)
	if store == nil {
		return
	}

	q := r.URL.Query()
	filter, err := parseCallFilter(q)
	if err == nil {
		err = parsePage(q, &filter)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	calls, err := store.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, LLMCallsResponse{Calls: calls, Total: len(calls)})
}

func (e *ListLLMCallsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var filter callFilterFlags
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded LLM calls",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := filter.query()
			params.Set("limit", strconv.Itoa(limit))
			if offset > 0 {
				params.Set("offset", strconv.Itoa(offset))
			}
			var resp LLMCallsResponse
			if err := api.NewClient(getServerURL()).Get(cmd.Context(), withQuery("/api/llmcalls", params), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	filter.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", defaultCallLimit, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Result offset")
	return cmd
}

// GetLLMCallEndpoint handles GET /api/llmcalls/{id}.
type GetLLMCallEndpoint struct{}

func (e *GetLLMCallEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/llmcalls/{id}", e.handler
}

func (e *GetLLMCallEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get an LLM call
//	@Description	One recorded call by ID; evicted calls are not found
//	@Tags			llmcalls
//	@Produce		json
//	@Param			id	path		string	true	"LLM call ID"
//	@Success		200	{object}	LLMCallResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/llmcalls/{id} [get]
func (e *GetLLMCallEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := callStore(w, r)
	if store == nil {
		return
	}

	call, err := store.Get(r.Context(), r.PathValue("id"))
	switch {
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	case call == nil:
		writeError(w, http.StatusNotFound, "LLM call not found")
	default:
		writeJSON(w, http.StatusOK, LLMCallResponse{Call: call})
	}
}

func (e *GetLLMCallEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one recorded LLM call",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp LLMCallResponse
			if err := api.NewClient(getServerURL()).Get(cmd.Context(), "/api/llmcalls/"+url.PathEscape(args[0]), &resp); err != nil {
				return err
			}
			return api.Output(resp.Call)
		},
	}
}

// LLMCallCountsEndpoint handles GET /api/llmcalls/counts/{run_id}.
type LLMCallCountsEndpoint struct{}

func (e *LLMCallCountsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/llmcalls/counts/{run_id}", e.handler
}

func (e *LLMCallCountsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Count LLM calls by prompt key
//	@Description	Extraction and correction call counts for one run
//	@Tags			llmcalls
//	@Produce		json
//	@Param			run_id	path		string	true	"Run ID"
//	@Success		200		{object}	LLMCallCountsResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/llmcalls/counts/{run_id} [get]
func (e *LLMCallCountsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := callStore(w, r)
	if store == nil {
		return
	}

	counts, err := store.CountByPromptKey(r.Context(), r.PathValue("run_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, LLMCallCountsResponse{Counts: counts})
}

func (e *LLMCallCountsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "counts <run-id>",
		Short: "Count a run's LLM calls by prompt key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp LLMCallCountsResponse
			if err := api.NewClient(getServerURL()).Get(cmd.Context(), "/api/llmcalls/counts/"+url.PathEscape(args[0]), &resp); err != nil {
				return err
			}
			return api.Output(resp.Counts)
		},
	}
}

// RunHistoryEndpoint handles GET /api/runs/{run_id}.
type RunHistoryEndpoint struct{}

func (e *RunHistoryEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/runs/{run_id}", e.handler
}

func (e *RunHistoryEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get a run's attempt history
//	@Description	Calls of one extraction run grouped per field, in attempt order
//	@Tags			llmcalls
//	@Produce		json
//	@Param			run_id	path		string	true	"Run ID"
//	@Success		200		{object}	llmcall.RunHistory
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/runs/{run_id} [get]
func (e *RunHistoryEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := callStore(w, r)
	if store == nil {
		return
	}

	h, err := store.History(r.Context(), r.PathValue("run_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if h.Total == 0 {
		writeError(w, http.StatusNotFound, "no calls recorded for run")
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (e *RunHistoryEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "history <run-id>",
		Short: "Show a run's LLM calls grouped per field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp llmcall.RunHistory
			if err := api.NewClient(getServerURL()).Get(cmd.Context(), "/api/runs/"+url.PathEscape(args[0]), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
