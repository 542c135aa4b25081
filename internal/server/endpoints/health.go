package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/hastd/internal/api"
	"github.com/jackzampolin/hastd/internal/svcctx"
	"github.com/jackzampolin/hastd/version"
)

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider,omitempty"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Health check
//	@Description	Returns ok while the HTTP server is responding
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			return nil
		},
	}
}

// ReadyEndpoint handles GET /ready.
type ReadyEndpoint struct{}

func (e *ReadyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/ready", e.handler
}

func (e *ReadyEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Readiness check
//	@Description	Returns ok when the default LLM provider is registered
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Failure		503	{object}	HealthResponse
//	@Router			/ready [get]
func (e *ReadyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}

	registry := svcctx.RegistryFrom(r.Context())
	cfgMgr := svcctx.ConfigFrom(r.Context())
	if registry == nil || cfgMgr == nil {
		resp.Status = "degraded"
		resp.Provider = "not_initialized"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	name := cfgMgr.Get().Defaults.LLMProvider
	if !registry.HasLLM(name) {
		resp.Status = "degraded"
		resp.Provider = name + " unavailable"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	resp.Provider = name
	writeJSON(w, http.StatusOK, resp)
}

func (e *ReadyEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "ready",
		Short: "Check server readiness (includes the default provider)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/ready", &resp); err != nil {
				return err
			}
			fmt.Printf("Status:   %s\n", resp.Status)
			if resp.Provider != "" {
				fmt.Printf("Provider: %s\n", resp.Provider)
			}
			return nil
		},
	}
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server          string           `json:"server"`
	Version         string           `json:"version"`
	ConfigFile      string           `json:"config_file,omitempty"`
	DefaultProvider string           `json:"default_provider"`
	Providers       []ProviderStatus `json:"providers"`
	Extraction      ExtractionStatus `json:"extraction"`
	LLMCalls        int              `json:"llm_calls"`
}

// ProviderStatus shows one registered LLM provider.
type ProviderStatus struct {
	Name          string  `json:"name"`
	Type          string  `json:"type,omitempty"`
	Model         string  `json:"model,omitempty"`
	RatePerSecond float64 `json:"rate_per_second,omitempty"`
	Tokens        int     `json:"tokens_available,omitempty"`
}

// ExtractionStatus shows the extraction defaults in effect.
type ExtractionStatus struct {
	MaxAttempts      int `json:"max_attempts"`
	Concurrency      int `json:"concurrency"`
	MaxDocumentChars int `json:"max_document_chars"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct{}

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Server status
//	@Description	Registered providers, extraction defaults and call log size
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Router			/status [get]
func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := StatusResponse{
		Server:    "running",
		Version:   version.GitRelease,
		Providers: []ProviderStatus{},
	}

	if cfgMgr := svcctx.ConfigFrom(ctx); cfgMgr != nil {
		cfg := cfgMgr.Get()
		resp.ConfigFile = cfgMgr.ConfigFileUsed()
		resp.DefaultProvider = cfg.Defaults.LLMProvider
		resp.Extraction = ExtractionStatus{
			MaxAttempts:      cfg.Extraction.MaxAttempts,
			Concurrency:      cfg.Concurrency(),
			MaxDocumentChars: cfg.Extraction.MaxDocumentChars,
		}
	}

	if registry := svcctx.RegistryFrom(ctx); registry != nil {
		for _, name := range registry.ListLLM() {
			ps := ProviderStatus{Name: name}
			if pc, ok := registry.Config(name); ok {
				ps.Type = pc.Type
				ps.Model = pc.Model
			}
			if l := registry.Limiter(name); l != nil {
				st := l.Status()
				ps.RatePerSecond = st.RatePerSecond
				ps.Tokens = st.TokensAvailable
			}
			resp.Providers = append(resp.Providers, ps)
		}
	}

	if store := svcctx.LLMCallStoreFrom(ctx); store != nil {
		resp.LLMCalls = store.Len()
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
