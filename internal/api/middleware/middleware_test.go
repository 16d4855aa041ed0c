package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-schedule/config"
	"smart-schedule/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWTManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "middleware-test-secret-32bytes!!",
		AccessTokenTTL: time.Hour,
	})
}

func echoIdentity(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_id":    c.GetString(CtxUserID),
		"role":       c.GetString(CtxRole),
		"department": c.GetString(CtxDepartment),
	})
}

func TestJWTAuth(t *testing.T) {
	mgr := newJWTManager()
	token, err := mgr.GenerateAccessToken("u-1", "admin", "CS")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"no scheme", token, http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/me", JWTAuth(mgr), echoIdentity)

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"department":"CS"`)
			}
		})
	}
}

func TestRoleAuth(t *testing.T) {
	mgr := newJWTManager()

	tests := []struct {
		role   string
		status int
	}{
		{"admin", http.StatusOK},
		{"faculty", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			token, err := mgr.GenerateAccessToken("u-1", tt.role, "")
			require.NoError(t, err)

			r := gin.New()
			r.POST("/generate", JWTAuth(mgr), RoleAuth("admin"), echoIdentity)

			req := httptest.NewRequest(http.MethodPost, "/generate", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRoleAuth_WithoutIdentity(t *testing.T) {
	r := gin.New()
	r.GET("/x", RoleAuth("admin"), echoIdentity)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	t.Run("passthrough", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(requestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
		assert.Equal(t, "abc-123", w.Body.String())
	})

	t.Run("too long is replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(requestIDHeader, strings.Repeat("a", requestIDMaxLen+1))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Len(t, w.Header().Get(requestIDHeader), 36)
	})
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(strings.Repeat("x", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("{}")))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173/"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit_NilClientPassesThrough(t *testing.T) {
	r := gin.New()
	r.POST("/x", RateLimit(nil, 1, time.Minute, nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
