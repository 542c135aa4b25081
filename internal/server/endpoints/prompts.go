package endpoints

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/hastd/internal/api"
	"github.com/jackzampolin/hastd/internal/prompts"
	"github.com/jackzampolin/hastd/internal/svcctx"
)

// PromptsListResponse contains all prompts.
type PromptsListResponse struct {
	Prompts []prompts.ResolvedPrompt `json:"prompts"`
}

// SetPromptRequest is the request body for setting a prompt override.
type SetPromptRequest struct {
	Text string `json:"text"`
}

// ListPromptsEndpoint handles GET /api/prompts.
type ListPromptsEndpoint struct{}

func (e *ListPromptsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/prompts", e.handler
}

func (e *ListPromptsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List all prompts
//	@Description	Get every prompt template in effect, with overrides applied
//	@Tags			prompts
//	@Produce		json
//	@Success		200	{object}	PromptsListResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/prompts [get]
func (e *ListPromptsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resolver := svcctx.PromptsFrom(r.Context())
	if resolver == nil {
		writeError(w, http.StatusInternalServerError, "prompt resolver not available")
		return
	}
	writeJSON(w, http.StatusOK, PromptsListResponse{Prompts: resolver.All()})
}

func (e *ListPromptsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all prompts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp PromptsListResponse
			if err := client.Get(cmd.Context(), "/api/prompts", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// GetPromptEndpoint handles GET /api/prompts/{key}.
type GetPromptEndpoint struct{}

func (e *GetPromptEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/prompts/{key}", e.handler
}

func (e *GetPromptEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get a prompt
//	@Description	Get the template in effect for a key
//	@Tags			prompts
//	@Produce		json
//	@Param			key	path		string	true	"Prompt key (e.g., extract.field)"
//	@Success		200	{object}	prompts.ResolvedPrompt
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/prompts/{key} [get]
func (e *GetPromptEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	key, ok := promptKey(w, r)
	if !ok {
		return
	}
	resolver := svcctx.PromptsFrom(r.Context())
	if resolver == nil {
		writeError(w, http.StatusInternalServerError, "prompt resolver not available")
		return
	}

	p, err := resolver.Resolve(key)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (e *GetPromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a prompt by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp prompts.ResolvedPrompt
			if err := client.Get(cmd.Context(), "/api/prompts/"+url.PathEscape(args[0]), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// SetPromptEndpoint handles PUT /api/prompts/{key}.
type SetPromptEndpoint struct{}

func (e *SetPromptEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/prompts/{key}", e.handler
}

func (e *SetPromptEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Override a prompt
//	@Description	Replace the template for a key until the override is cleared or the server restarts
//	@Tags			prompts
//	@Accept			json
//	@Produce		json
//	@Param			key		path		string				true	"Prompt key"
//	@Param			body	body		SetPromptRequest	true	"Template text"
//	@Success		200		{object}	prompts.ResolvedPrompt
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/prompts/{key} [put]
func (e *SetPromptEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	key, ok := promptKey(w, r)
	if !ok {
		return
	}

	var req SetPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	resolver := svcctx.PromptsFrom(r.Context())
	if resolver == nil {
		writeError(w, http.StatusInternalServerError, "prompt resolver not available")
		return
	}
	if _, err := resolver.Resolve(key); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err := resolver.SetOverride(key, req.Text); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := resolver.Resolve(key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (e *SetPromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "set <key>",
		Short: "Override a prompt template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(file)
			if err != nil {
				return err
			}
			client := api.NewClient(getServerURL())
			var resp prompts.ResolvedPrompt
			if err := client.Put(cmd.Context(), "/api/prompts/"+url.PathEscape(args[0]), SetPromptRequest{Text: string(text)}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "Template file (- for stdin)")
	return cmd
}

// ClearPromptEndpoint handles DELETE /api/prompts/{key}.
type ClearPromptEndpoint struct{}

func (e *ClearPromptEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/prompts/{key}", e.handler
}

func (e *ClearPromptEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Clear a prompt override
//	@Description	Restore the embedded default template for a key
//	@Tags			prompts
//	@Produce		json
//	@Param			key	path		string	true	"Prompt key"
//	@Success		200	{object}	prompts.ResolvedPrompt
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/prompts/{key} [delete]
func (e *ClearPromptEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	key, ok := promptKey(w, r)
	if !ok {
		return
	}
	resolver := svcctx.PromptsFrom(r.Context())
	if resolver == nil {
		writeError(w, http.StatusInternalServerError, "prompt resolver not available")
		return
	}
	if !resolver.ClearOverride(key) {
		writeError(w, http.StatusNotFound, "no override set for "+key)
		return
	}
	p, err := resolver.Resolve(key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (e *ClearPromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <key>",
		Short: "Clear a prompt override",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp prompts.ResolvedPrompt
			if err := client.Delete(cmd.Context(), "/api/prompts/"+url.PathEscape(args[0]), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

func promptKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key, err := url.PathUnescape(r.PathValue("key"))
	if err != nil || key == "" {
		writeError(w, http.StatusBadRequest, "invalid prompt key")
		return "", false
	}
	return key, true
}
