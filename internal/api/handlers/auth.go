package handlers

import (
	"net/http"
	"time"

	"github.com/daybook/daybook/internal/api/services"
	"github.com/daybook/daybook/internal/apperr"
	"github.com/daybook/daybook/internal/metrics"
	"github.com/daybook/daybook/internal/models"
	"github.com/daybook/daybook/internal/utils"
)

const tokenCookie = "token"

type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  string `json:"userId"`
	Token   string `json:"token"`
}

type LoginResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

type UsernameAvailability struct {
	Available bool `json:"available"`
}

// POST /api/auth/register
// RegisterUser godoc
// @Summary Register a new user
// @Description Username must be at least 3 characters, password at least 6.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.Credentials true "Credentials"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} utils.Payload "Invalid input or username taken"
// @Failure 500 {object} utils.Payload
// @Router /api/auth/register [post]
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var input services.Credentials
	if err := decodeJSON(w, r, &input); err != nil {
		WriteError(w, r, err)
		return
	}

	user, err := h.identity.Register(r.Context(), input)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	h.metrics.UsersRegistered.Inc()

	token, err := h.issueSession(w, user)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	utils.JSONResponse(w, http.StatusCreated, RegisterResponse{
		Success: true,
		Message: "User registered successfully",
		UserID:  user.ID.String(),
		Token:   token,
	})
}

// POST /api/auth/login
// LoginUser godoc
// @Summary Log in
// @Description Unknown usernames and wrong passwords get the same 401 response.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.Credentials true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} utils.Payload "Invalid credentials"
// @Failure 500 {object} utils.Payload
// @Router /api/auth/login [post]
func (h *Handler) LoginUser(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var input services.Credentials
	if err := decodeJSON(w, r, &input); err != nil {
		WriteError(w, r, err)
		return
	}

	user, err := h.identity.Login(r.Context(), input)
	h.metrics.Logins.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		WriteError(w, r, err)
		return
	}

	token, err := h.issueSession(w, user)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, LoginResponse{
		Success:  true,
		Message:  "Login successful",
		UserID:   user.ID.String(),
		Username: user.Username,
		Token:    token,
	})
}

// POST /api/auth/logout
// Logout godoc
// @Summary Clear the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /api/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	// Delete the token cookie
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   h.secureCookies,
		HttpOnly: true,
		SameSite: h.sameSite(),
	})

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Logged out successfully",
	})
}

// GET /api/auth/check-username/{username}
// CheckUsername godoc
// @Summary Check whether a username is free
// @Tags Auth
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} UsernameAvailability
// @Failure 500 {object} utils.Payload
// @Router /api/auth/check-username/{username} [get]
func (h *Handler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	available, err := h.identity.CheckUsernameAvailable(r.Context(), r.PathValue("username"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, UsernameAvailability{Available: available})
}

// issueSession signs a token for user and sets it as an HttpOnly cookie.
func (h *Handler) issueSession(w http.ResponseWriter, user *models.User) (string, error) {
	token, expiration, err := h.tokens.Issue(user)
	if err != nil {
		return "", apperr.Internal("Failed to create token", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(time.Until(expiration).Seconds()),
		Secure:   h.secureCookies,
		HttpOnly: true,
		SameSite: h.sameSite(),
	})
	return token, nil
}

func (h *Handler) sameSite() http.SameSite {
	if h.secureCookies {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
