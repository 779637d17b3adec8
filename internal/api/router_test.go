package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/daybook/daybook/internal/api/services"
	"github.com/daybook/daybook/internal/metrics"
	"github.com/daybook/daybook/internal/models"
	"github.com/daybook/daybook/internal/repositories"
	"github.com/daybook/daybook/internal/testutil"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubModel struct {
	reply string
	err   error
}

func (s *stubModel) Generate(context.Context, string) (string, error) {
	return s.reply, s.err
}

type envOpts struct {
	authEnabled bool
	model       services.TextModel
	staticDir   string
}

func testEnv(t *testing.T, opts envOpts) http.Handler {
	t.Helper()

	db := testutil.OpenDB(t)
	docs := repositories.NewUserDataRepository(db)
	m := metrics.New()

	return SetupRouter(Deps{
		Identity:    services.NewIdentityService(repositories.NewUserRepository(db), bcrypt.MinCost),
		Tokens:      services.NewTokenIssuer("test-secret"),
		Documents:   services.NewDocumentService(docs, m),
		Summary:     services.NewSummaryService(opts.model),
		Export:      services.NewExportService(docs, nil),
		Metrics:     m,
		CorsOptions: cors.Options{AllowedOrigins: []string{"http://localhost:5173"}},
		AuthEnabled: opts.authEnabled,
		StaticDir:   opts.staticDir,
	})
}

func do(t *testing.T, h http.Handler, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func register(t *testing.T, h http.Handler, username, password string) (userID, token string) {
	t.Helper()
	w := do(t, h, http.MethodPost, "/api/auth/register", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	return body["userId"].(string), body["token"].(string)
}

func TestRegisterAndLogin(t *testing.T) {
	h := testEnv(t, envOpts{})

	userID, token := register(t, h, "alice1", "Secret1!")
	assert.NotEmpty(t, token)

	w := do(t, h, http.MethodPost, "/api/auth/login", map[string]string{"username": "alice1", "password": "Secret1!"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, userID, body["userId"])
	assert.Equal(t, "alice1", body["username"])
	assert.NotEmpty(t, body["message"])

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
}

func TestRegisterDuplicate(t *testing.T) {
	h := testEnv(t, envOpts{})
	register(t, h, "alice1", "Secret1!")

	w := do(t, h, http.MethodPost, "/api/auth/register", map[string]string{"username": "alice1", "password": "another-one"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "duplicate_username", body["error"])
	assert.NotEmpty(t, body["message"])
}

func TestRegisterValidation(t *testing.T) {
	h := testEnv(t, envOpts{})

	w := do(t, h, http.MethodPost, "/api/auth/register", map[string]string{"username": "al", "password": "Secret1!"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation", decode(t, w)["error"])

	w = do(t, h, http.MethodPost, "/api/auth/register", map[string]string{"username": "alice1", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginFailuresLookIdentical(t *testing.T) {
	h := testEnv(t, envOpts{})
	register(t, h, "alice1", "Secret1!")

	wrongPass := do(t, h, http.MethodPost, "/api/auth/login", map[string]string{"username": "alice1", "password": "wrong-pass"})
	noUser := do(t, h, http.MethodPost, "/api/auth/login", map[string]string{"username": "nobody", "password": "Secret1!"})

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, noUser.Code)
	assert.JSONEq(t, wrongPass.Body.String(), noUser.Body.String())
}

func TestCheckUsername(t *testing.T) {
	h := testEnv(t, envOpts{})

	w := do(t, h, http.MethodGet, "/api/auth/check-username/alice1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["available"])

	register(t, h, "alice1", "Secret1!")

	w = do(t, h, http.MethodGet, "/api/auth/check-username/alice1", nil)
	assert.Equal(t, false, decode(t, w)["available"])
}

func TestUserDataRoundTrip(t *testing.T) {
	h := testEnv(t, envOpts{})
	userID, _ := register(t, h, "alice1", "Secret1!")
	path := "/api/data/" + userID

	w := do(t, h, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"todosByDate":{},"messagesByDate":{}}`, w.Body.String())

	snap := models.Snapshot{
		TodosByDate:    models.TodosByDate{"2024-01-01": {{ID: "1", Text: "buy milk", Done: true}}},
		MessagesByDate: models.MessagesByDate{},
	}
	w = do(t, h, http.MethodPost, path, snap)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	saved := decode(t, w)
	assert.NotNil(t, saved["data"])
	assert.NotEmpty(t, saved["message"])

	w = do(t, h, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, snap.TodosByDate, got.TodosByDate)
}

func TestUserDataBadInput(t *testing.T) {
	h := testEnv(t, envOpts{})

	w := do(t, h, http.MethodGet, "/api/data/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/data/"+uuid.NewString(), map[string]any{
		"todosByDate": map[string]any{"tomorrow": []any{}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation", decode(t, w)["error"])

	w = do(t, h, http.MethodDelete, "/api/data/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "method_not_allowed", decode(t, w)["error"])
}

func TestNotFoundIsJSON(t *testing.T) {
	h := testEnv(t, envOpts{})

	for _, path := range []string{"/nope", "/api/nope", "/api/auth/check-username/"} {
		w := do(t, h, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
		assert.NotEmpty(t, decode(t, w)["message"])
	}
}

func TestSummary(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := testEnv(t, envOpts{model: &stubModel{reply: "Sounds like a good day."}})
		w := do(t, h, http.MethodPost, "/api/summary", map[string]string{"messages": "went hiking"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Sounds like a good day.", decode(t, w)["text"])
	})
	t.Run("empty input", func(t *testing.T) {
		h := testEnv(t, envOpts{model: &stubModel{reply: "x"}})
		w := do(t, h, http.MethodPost, "/api/summary", map[string]string{"messages": "   "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
	t.Run("upstream failure", func(t *testing.T) {
		h := testEnv(t, envOpts{model: &stubModel{err: errors.New("quota exceeded")}})
		w := do(t, h, http.MethodPost, "/api/summary", map[string]string{"messages": "went hiking"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decode(t, w)
		assert.Equal(t, "upstream", body["error"])
		assert.NotContains(t, body["message"], "quota")
	})
	t.Run("not configured", func(t *testing.T) {
		h := testEnv(t, envOpts{})
		w := do(t, h, http.MethodPost, "/api/summary", map[string]string{"messages": "went hiking"})
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestExportNotConfigured(t *testing.T) {
	h := testEnv(t, envOpts{})
	w := do(t, h, http.MethodPost, "/api/data/"+uuid.NewString()+"/export", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unavailable", decode(t, w)["error"])
}

func TestTokenModeProtectsData(t *testing.T) {
	h := testEnv(t, envOpts{authEnabled: true})
	aliceID, aliceToken := register(t, h, "alice1", "Secret1!")
	_, bobToken := register(t, h, "bob123", "Secret2!")
	path := "/api/data/" + aliceID

	w := do(t, h, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", decode(t, w)["error"])

	w = do(t, h, http.MethodGet, path, nil, "Authorization", "Bearer "+bobToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodGet, path, nil, "Authorization", "Bearer "+aliceToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, path, nil, "Cookie", "token="+aliceToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOperationalEndpoints(t *testing.T) {
	h := testEnv(t, envOpts{})
	register(t, h, "alice1", "Secret1!")

	w := do(t, h, http.MethodGet, "/health", nil)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "daybook_users_registered_total 1")

	w = do(t, h, http.MethodGet, "/docs/doc.json", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/data/{userId}")
}

func TestLogoutClearsCookie(t *testing.T) {
	h := testEnv(t, envOpts{})
	w := do(t, h, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestStaticDirMissesAreJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>daybook</h1>"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "empty"), 0o755))
	h := testEnv(t, envOpts{staticDir: dir})

	w := do(t, h, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "daybook")

	for _, path := range []string{"/nope", "/empty/", "/assets/app.js", "/api/nope"} {
		w := do(t, h, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json", path)
		assert.NotEmpty(t, decode(t, w)["message"], path)
	}
}

func TestUserDataIgnoresUnknownFields(t *testing.T) {
	h := testEnv(t, envOpts{})
	userID, _ := register(t, h, "alice1", "Secret1!")
	path := "/api/data/" + userID

	w := do(t, h, http.MethodPost, path, map[string]any{
		"todosByDate": map[string]any{
			"2024-01-01": []any{map[string]any{"id": "1", "text": "buy milk", "done": false, "color": "red"}},
		},
		"messagesByDate": map[string]any{},
		"version":        3,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []models.TodoItem{{ID: "1", Text: "buy milk"}}, got.TodosByDate["2024-01-01"])

	w = do(t, h, http.MethodPost, "/api/auth/login", map[string]string{"username": "alice1", "password": "Secret1!", "extra": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
