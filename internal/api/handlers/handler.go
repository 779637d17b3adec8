package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/daybook/daybook/internal/api/services"
	"github.com/daybook/daybook/internal/apperr"
	"github.com/daybook/daybook/internal/metrics"
	"github.com/daybook/daybook/internal/utils"
)

const maxBodyBytes = 5 << 20 // 5 MB

// Handler serves the REST API.
type Handler struct {
	identity      *services.IdentityService
	tokens        *services.TokenIssuer
	documents     *services.DocumentService
	summary       *services.SummaryService
	export        *services.ExportService
	metrics       *metrics.Metrics
	secureCookies bool
}

type Options struct {
	Identity  *services.IdentityService
	Tokens    *services.TokenIssuer
	Documents *services.DocumentService
	Summary   *services.SummaryService
	Export    *services.ExportService
	Metrics   *metrics.Metrics
	// SecureCookies marks the session cookie Secure and SameSite=None (production).
	SecureCookies bool
}

func New(opts Options) *Handler {
	return &Handler{
		identity:      opts.Identity,
		tokens:        opts.Tokens,
		documents:     opts.Documents,
		summary:       opts.Summary,
		export:        opts.Export,
		metrics:       opts.Metrics,
		secureCookies: opts.SecureCookies,
	}
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindDuplicateUsername:
		return http.StatusBadRequest
	case apperr.KindInvalidCredentials, apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case apperr.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes the JSON error envelope for err.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := StatusFor(kind)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()))
	}
	utils.JSONResponse(w, status, utils.Payload{
		Success: false,
		Message: apperr.MessageOf(err),
		Error:   string(kind),
	})
}

func allowMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	WriteError(w, r, apperr.New(apperr.KindMethodNotAllowed, "Method not allowed"))
	return false
}

// decodeJSON decodes a request body and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return decodeBody(w, r, dst, true)
}

// decodeDocument decodes a user document. Unknown fields on the document or
// its items are dropped rather than failing the whole save.
func decodeDocument(w http.ResponseWriter, r *http.Request, dst any) error {
	return decodeBody(w, r, dst, false)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any, strict bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Validation("Request body too large")
		}
		return apperr.Validation("Invalid input")
	}
	return nil
}

// NotFound answers unmatched routes with JSON, never HTML.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, apperr.New(apperr.KindNotFound, "Route not found"))
}

// Health godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.JSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
