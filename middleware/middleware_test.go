package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillcheck/logger"
	"skillcheck/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(method, claims)
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func validClaims(userID uint, role string) Claims {
	return Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := NewAuthMiddleware(testSecret, logger.Nop())
	r := gin.New()
	r.GET("/me", auth.RequireAuth(), func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "admin": IsAdmin(c)})
	})
	r.GET("/admin", auth.RequireAuth(), auth.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name   string
		setup  func(req *http.Request)
		target string
		want   int
	}{
		{"no token", func(*http.Request) {}, "/me", http.StatusUnauthorized},
		{"bearer header", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.SigningMethodHS256, validClaims(5, models.RoleUser)))
		}, "/me", http.StatusOK},
		{"query token", func(*http.Request) {}, "/me?token=" + signToken(t, testSecret, jwt.SigningMethodHS256, validClaims(5, models.RoleUser)), http.StatusOK},
		{"wrong secret", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+signToken(t, "other", jwt.SigningMethodHS256, validClaims(5, models.RoleUser)))
		}, "/me", http.StatusUnauthorized},
		{"wrong algorithm", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.SigningMethodHS512, validClaims(5, models.RoleUser)))
		}, "/me", http.StatusUnauthorized},
		{"expired", func(req *http.Request) {
			c := validClaims(5, models.RoleUser)
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
			req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.SigningMethodHS256, c))
		}, "/me", http.StatusUnauthorized},
		{"no user id", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.SigningMethodHS256, validClaims(0, models.RoleUser)))
		}, "/me", http.StatusUnauthorized},
		{"unknown role", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.SigningMethodHS256, validClaims(5, "root")))
		}, "/me", http.StatusUnauthorized},
		{"user on admin route", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.SigningMethodHS256, validClaims(5, models.RoleUser)))
		}, "/admin", http.StatusForbidden},
		{"admin on admin route", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.SigningMethodHS256, validClaims(1, models.RoleAdmin)))
		}, "/admin", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.POST("/api/quizzes/submit", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/quizzes/submit", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
