package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gatewarden/gatewarden/internal/config"
	"github.com/gatewarden/gatewarden/internal/models"
	"github.com/gatewarden/gatewarden/internal/services"
)

func setupAuth(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsnName := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", dsnName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	authService := services.NewAuthService(db, config.Config{JWTSecret: "test-secret"})
	_, err = authService.Register("op@example.com", "hunter22", "Operator")
	require.NoError(t, err)
	token, err := authService.Login("op@example.com", "hunter22")
	require.NoError(t, err)

	router := gin.New()
	protected := router.Group("/", AuthMiddleware(authService))
	protected.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": c.GetString("role")})
	})
	protected.GET("/admin", RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	protected.GET("/reviewer", RequireRole("reviewer"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, token
}

func get(router *gin.Engine, path string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if len(header) == 2 {
		req.Header.Set(header[0], header[1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	router, _ := setupAuth(t)
	assert.Equal(t, http.StatusUnauthorized, get(router, "/me").Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	router, _ := setupAuth(t)
	w := get(router, "/me", "Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_BearerToken(t *testing.T) {
	router, token := setupAuth(t)
	w := get(router, "/me", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin")
}

func TestAuthMiddleware_CookieToken(t *testing.T) {
	router, token := setupAuth(t)
	w := get(router, "/me", "Cookie", "auth_token="+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	router, token := setupAuth(t)

	// Registered users default to the admin role.
	assert.Equal(t, http.StatusOK, get(router, "/admin", "Authorization", "Bearer "+token).Code)
	assert.Equal(t, http.StatusForbidden, get(router, "/reviewer", "Authorization", "Bearer "+token).Code)
}
