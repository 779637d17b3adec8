package handlers

import (
	"net/http"

	"github.com/daybook/daybook/internal/metrics"
	"github.com/daybook/daybook/internal/utils"
)

type SummaryRequest struct {
	Messages string `json:"messages"`
}

type SummaryResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
}

// POST /api/summary
// Summarize godoc
// @Summary Generate an empathetic reply to journal entries
// @Tags Summary
// @Accept json
// @Produce json
// @Param body body SummaryRequest true "Entries joined by a separator"
// @Success 200 {object} SummaryResponse
// @Failure 400 {object} utils.Payload "No messages"
// @Failure 500 {object} utils.Payload "AI service error"
// @Failure 503 {object} utils.Payload "Summary not configured"
// @Router /api/summary [post]
func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req SummaryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	text, err := h.summary.Summarize(r.Context(), req.Messages)
	h.metrics.Summaries.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		WriteError(w, r, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, SummaryResponse{Success: true, Text: text})
}
