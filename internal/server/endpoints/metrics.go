package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/hastd/internal/api"
	"github.com/jackzampolin/hastd/internal/metrics"
	"github.com/jackzampolin/hastd/internal/svcctx"
)

// MetricsBreakdownResponse holds call stats grouped by one dimension.
type MetricsBreakdownResponse struct {
	By     metrics.Dimension                 `json:"by" swaggertype:"string"`
	Groups map[string]*metrics.DetailedStats `json:"groups"`
}

// MetricsSummaryEndpoint handles GET /api/metrics/summary.
type MetricsSummaryEndpoint struct{}

func (e *MetricsSummaryEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/metrics/summary", e.handler
}

func (e *MetricsSummaryEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get LLM call metrics
//	@Description	Token, latency and outcome statistics over recorded oracle calls
//	@Tags			metrics
//	@Produce		json
//	@Param			run_id		query		string	false	"Filter by extraction run ID"
//	@Param			field_path	query		string	false	"Filter by field path"
//	@Param			kind		query		string	false	"Filter by call kind (extract or correct)"
//	@Param			provider	query		string	false	"Filter by provider"
//	@Param			model		query		string	false	"Filter by model"
//	@Param			prompt_key	query		string	false	"Filter by prompt key"
//	@Param			success		query		bool	false	"Filter by success status"
//	@Param			after		query		string	false	"Only calls after this RFC3339 time"
//	@Param			before		query		string	false	"Only calls before this RFC3339 time"
//	@Success		200			{object}	metrics.DetailedStats
//	@Failure		400			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/api/metrics/summary [get]
func (e *MetricsSummaryEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	query := svcctx.MetricsFrom(r.Context())
	if query == nil {
		writeError(w, http.StatusInternalServerError, "metrics not available")
		return
	}

	filter, err := parseCallFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := query.GetDetailedStats(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (e *MetricsSummaryEndpoint) Command(getServerURL func() string) *cobra.Command {
	var filter callFilterFlags
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show token and latency statistics for LLM calls",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp metrics.DetailedStats
			if err := api.NewClient(getServerURL()).Get(cmd.Context(), withQuery("/api/metrics/summary", filter.query()), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	filter.register(cmd)
	return cmd
}

// MetricsBreakdownEndpoint handles GET /api/metrics/breakdown.
type MetricsBreakdownEndpoint struct{}

func (e *MetricsBreakdownEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/metrics/breakdown", e.handler
}

func (e *MetricsBreakdownEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get LLM call metrics by group
//	@Description	Statistics over recorded oracle calls grouped by field, kind, provider, model, prompt_key or run
//	@Tags			metrics
//	@Produce		json
//	@Param			by			query		string	false	"Grouping dimension (default field)"
//	@Param			run_id		query		string	false	"Filter by extraction run ID"
//	@Param			field_path	query		string	false	"Filter by field path"
//	@Param			kind		query		string	false	"Filter by call kind (extract or correct)"
//	@Param			provider	query		string	false	"Filter by provider"
//	@Param			model		query		string	false	"Filter by model"
//	@Param			prompt_key	query		string	false	"Filter by prompt key"
//	@Param			success		query		bool	false	"Filter by success status"
//	@Param			after		query		string	false	"Only calls after this RFC3339 time"
//	@Param			before		query		string	false	"Only calls before this RFC3339 time"
//	@Success		200			{object}	MetricsBreakdownResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/api/metrics/breakdown [get]
func (e *MetricsBreakdownEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	query := svcctx.MetricsFrom(r.Context())
	if query == nil {
		writeError(w, http.StatusInternalServerError, "metrics not available")
		return
	}

	filter, err := parseCallFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dim := metrics.ByField
	if v := r.URL.Query().Get("by"); v != "" {
		d, err := metrics.ParseDimension(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		dim = d
	}

	groups, err := query.StatsBy(r.Context(), filter, dim)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, MetricsBreakdownResponse{By: dim, Groups: groups})
}

func (e *MetricsBreakdownEndpoint) Command(getServerURL func() string) *cobra.Command {
	var filter callFilterFlags
	var by string
	cmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Show LLM call statistics grouped by field, kind, provider, model, prompt_key or run",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := filter.query()
			params.Set("by", by)
			var resp MetricsBreakdownResponse
			if err := api.NewClient(getServerURL()).Get(cmd.Context(), withQuery("/api/metrics/breakdown", params), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	filter.register(cmd)
	cmd.Flags().StringVar(&by, "by", string(metrics.ByField), "Grouping dimension")
	return cmd
}
