package handlers

import (
	"net/http"

	"github.com/daybook/daybook/internal/api/services"
	"github.com/daybook/daybook/internal/utils"
)

type ExportResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Key       string `json:"key"`
	URL       string `json:"url"`
	ExpiresIn string `json:"expiresIn"`
}

// POST /api/data/{userId}/export
// ExportUserData godoc
// @Summary Export a user's document to object storage
// @Description Returns a presigned download URL valid for 15 minutes.
// @Tags Data
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} ExportResponse
// @Failure 400 {object} utils.Payload "Invalid user id"
// @Failure 500 {object} utils.Payload
// @Failure 503 {object} utils.Payload "Export storage not configured"
// @Router /api/data/{userId}/export [post]
func (h *Handler) ExportUserData(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	userID, err := services.ParseUserID(r.PathValue("userId"))
	if err != nil {
		WriteError(w, r, err)
		return
	}

	exp, err := h.export.Export(r.Context(), userID)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, ExportResponse{
		Success:   true,
		Message:   "Export created",
		Key:       exp.Key,
		URL:       exp.URL,
		ExpiresIn: exp.ExpiresIn.String(),
	})
}
