package handlers

import (
	"net/http"

	"github.com/daybook/daybook/internal/api/services"
	"github.com/daybook/daybook/internal/models"
	"github.com/daybook/daybook/internal/utils"
)

type DataResponse struct {
	Success        bool                  `json:"success"`
	TodosByDate    models.TodosByDate    `json:"todosByDate"`
	MessagesByDate models.MessagesByDate `json:"messagesByDate"`
}

type SaveResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    *models.UserData `json:"data"`
}

// UserData dispatches GET (read, creating if absent) and POST (replace all).
func (h *Handler) UserData(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.GetUserData(w, r)
	case http.MethodPost:
		h.SaveUserData(w, r)
	default:
		allowMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// GET /api/data/{userId}
// GetUserData godoc
// @Summary Load a user's todos and journal
// @Description Creates an empty document on first read.
// @Tags Data
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} DataResponse
// @Failure 400 {object} utils.Payload "Invalid user id"
// @Failure 500 {object} utils.Payload
// @Router /api/data/{userId} [get]
func (h *Handler) GetUserData(w http.ResponseWriter, r *http.Request) {
	userID, err := services.ParseUserID(r.PathValue("userId"))
	if err != nil {
		WriteError(w, r, err)
		return
	}

	doc, err := h.documents.Get(r.Context(), userID)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, DataResponse{
		Success:        true,
		TodosByDate:    doc.TodosByDate,
		MessagesByDate: doc.MessagesByDate,
	})
}

// POST /api/data/{userId}
// SaveUserData godoc
// @Summary Replace a user's todos and journal
// @Description Total overwrite of both mappings in one write; nothing is merged.
// @Tags Data
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param body body models.Snapshot true "Complete mappings"
// @Success 200 {object} SaveResponse
// @Failure 400 {object} utils.Payload "Invalid user id or payload"
// @Failure 500 {object} utils.Payload
// @Router /api/data/{userId} [post]
func (h *Handler) SaveUserData(w http.ResponseWriter, r *http.Request) {
	userID, err := services.ParseUserID(r.PathValue("userId"))
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var snap models.Snapshot
	if err := decodeDocument(w, r, &snap); err != nil {
		WriteError(w, r, err)
		return
	}

	doc, err := h.documents.Replace(r.Context(), userID, snap)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, SaveResponse{
		Success: true,
		Message: "Data saved",
		Data:    doc,
	})
}
