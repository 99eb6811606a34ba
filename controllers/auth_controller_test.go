// controllers/auth_controller_test.go
package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-class-pulse/models"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("classpulse", store))
	router.POST("/login", PerformLogin)
	router.GET("/logout", Logout)
	return router
}

func withTestCreds(t *testing.T, username, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	old := loadTeacherCredsFunc
	loadTeacherCredsFunc = func() (*models.TeacherCreds, error) {
		return &models.TeacherCreds{
			Teachers: []models.Teacher{{Username: username, Password: string(hash)}},
		}, nil
	}
	t.Cleanup(func() { loadTeacherCredsFunc = old })
}

func TestPerformLogin_Success(t *testing.T) {
	withTestCreds(t, "teacher", "open sesame")
	router := newAuthRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"teacher","password":"open sesame"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Result().Cookies(), "login should issue a session cookie")
}

func TestPerformLogin_WrongPassword(t *testing.T) {
	withTestCreds(t, "teacher", "open sesame")
	router := newAuthRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"teacher","password":"guess"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPerformLogin_MissingFields(t *testing.T) {
	withTestCreds(t, "teacher", "open sesame")
	router := newAuthRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"teacher"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
