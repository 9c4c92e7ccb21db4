package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardenviki-prog/Cooking-Recipes/internal/application"
	"github.com/gardenviki-prog/Cooking-Recipes/pkg/validation"
)

// The handler rejects malformed payloads before the service runs, so a
// zero-value service is enough to exercise the binding path.
func registerTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	validation.Init()
	h := NewUserHandler(&application.UserService{}, nil, "", false)
	r := gin.New()
	r.POST("/api/register", h.Register)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return w, envelope
}

func TestUserHandler_RegisterValidation(t *testing.T) {
	r := registerTestRouter()

	details := func(envelope map[string]any) map[string]any {
		d, _ := envelope["error"].(map[string]any)
		return d
	}

	t.Run("malformed json", func(t *testing.T) {
		w, envelope := postJSON(t, r, "/api/register", "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, false, envelope["success"])
		assert.Contains(t, details(envelope), "payload")
	})

	t.Run("missing fields", func(t *testing.T) {
		w, envelope := postJSON(t, r, "/api/register", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		d := details(envelope)
		assert.Contains(t, d, "username")
		assert.Contains(t, d, "password")
		assert.Contains(t, d, "password2")
	})

	t.Run("short password", func(t *testing.T) {
		w, envelope := postJSON(t, r, "/api/register",
			`{"username":"olena","password":"12345","password2":"12345"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, details(envelope), "password")
	})

	t.Run("mismatched confirmation", func(t *testing.T) {
		w, envelope := postJSON(t, r, "/api/register",
			`{"username":"olena","password":"secret123","password2":"secret124"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, details(envelope), "password2")
	})

	t.Run("username too long", func(t *testing.T) {
		long := strings.Repeat("x", 31)
		w, envelope := postJSON(t, r, "/api/register",
			`{"username":"`+long+`","password":"secret123","password2":"secret123"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, details(envelope), "username")
	})
}
