package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ccw_tracker/internal/auth"
	"ccw_tracker/internal/domain"
	"ccw_tracker/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// setupRouter builds a gin app with one guarded route that echoes the
// resolved principal
func setupRouter(db *gorm.DB, action auth.Action) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded", AuthMiddleware(db, testSecret), RequireAction(action), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": GetPrincipal(c).Role})
	})
	return r
}

// seedUser inserts an active user and returns it
func seedUser(t *testing.T, db *gorm.DB, username, role string) domain.User {
	t.Helper()
	user := domain.User{
		Username: username,
		Email:    username + "@example.org",
		Password: "irrelevant-hash",
		FullName: "Test " + username,
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// doRequest hits the guarded route, optionally with a bearer token
func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/guarded", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestMissingTokenIsUnauthorized sends the caller to login, never a 403
func TestMissingTokenIsUnauthorized(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db, auth.ActionView)

	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "/auth/login")

	w = doRequest(r, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestDeactivatedUserIsUnauthorized invalidates live tokens on deactivation
func TestDeactivatedUserIsUnauthorized(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "retired", domain.RoleAdmin)
	token, err := utils.GenerateJWT(user.ID, testSecret)
	require.NoError(t, err)
	r := setupRouter(db, auth.ActionView)

	w := doRequest(r, token)
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.Model(&user).Update("is_active", false).Error)
	w = doRequest(r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestInsufficientRoleIsForbidden is a 403, distinct from the login redirect
func TestInsufficientRoleIsForbidden(t *testing.T) {
	db := setupTestDB(t)
	viewer := seedUser(t, db, "viewer", domain.RoleViewer)
	token, err := utils.GenerateJWT(viewer.ID, testSecret)
	require.NoError(t, err)

	// The viewer may view
	viewRoute := setupRouter(db, auth.ActionView)
	w := doRequest(viewRoute, token)
	assert.Equal(t, http.StatusOK, w.Code)

	// But not edit: authenticated, so forbidden rather than unauthorized
	editRoute := setupRouter(db, auth.ActionEdit)
	w = doRequest(editRoute, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotContains(t, w.Body.String(), "/auth/login")
}

// TestPrincipalCarriesUserFields exposes role and site fields downstream
func TestPrincipalCarriesUserFields(t *testing.T) {
	db := setupTestDB(t)
	coord := seedUser(t, db, "coordinator", domain.RolePSSCoordinator)
	token, err := utils.GenerateJWT(coord.ID, testSecret)
	require.NoError(t, err)

	r := setupRouter(db, auth.ActionCoordinateReports)
	w := doRequest(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), domain.RolePSSCoordinator)
}
