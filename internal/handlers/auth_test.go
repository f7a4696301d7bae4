package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/awaazhq/awaaz-api/internal/config"
	"github.com/awaazhq/awaaz-api/internal/constants"
	"github.com/awaazhq/awaaz-api/internal/database"
	"github.com/awaazhq/awaaz-api/internal/models"
	"github.com/awaazhq/awaaz-api/internal/repository"
	"github.com/awaazhq/awaaz-api/internal/services"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:    "test-secret",
		JWTExpiresIn: time.Hour,
		BcryptCost:   bcrypt.MinCost,
	}
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Complaint{},
		&models.Vote{},
		&models.Comment{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo, testConfig())
	handler := NewAuthHandler(authService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
	}
}

func postJSON(t *testing.T, r *gin.Engine, url string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/register", env.handler.Register)

	w := postJSON(t, r, "/api/auth/register", map[string]string{
		"username": "newuser",
		"email":    "newuser@example.com",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Status string `json:"status"`
		Token  string `json:"token"`
		Data   struct {
			User struct {
				Username string `json:"username"`
				Role     string `json:"role"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "success", response.Status)
	require.NotEmpty(t, response.Token)
	require.Equal(t, "newuser", response.Data.User.Username)
	require.Equal(t, "user", response.Data.User.Role)

	// The password hash must never be serialized
	require.NotContains(t, w.Body.String(), "password")
}

func TestAuthHandler_Register_DowngradesAdminRole(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/register", env.handler.Register)

	w := postJSON(t, r, "/api/auth/register", map[string]string{
		"username": "sneaky",
		"email":    "sneaky@example.com",
		"password": "supersecret",
		"role":     "admin",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var stored models.User
	require.NoError(t, env.db.Where("email = ?", "sneaky@example.com").First(&stored).Error)
	require.Equal(t, models.RoleUser, stored.Role)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, _, err := env.authService.Register(services.RegisterInput{
		Username: "existing",
		Email:    "taken@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	var before models.User
	require.NoError(t, env.db.Where("email = ?", "taken@example.com").First(&before).Error)

	r := gin.New()
	r.POST("/api/auth/register", env.handler.Register)

	w := postJSON(t, r, "/api/auth/register", map[string]string{
		"username": "someoneelse",
		"email":    "taken@example.com",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Email already in use")

	// The pre-existing record is untouched
	var after models.User
	require.NoError(t, env.db.Where("email = ?", "taken@example.com").First(&after).Error)
	require.Equal(t, before.Username, after.Username)
	require.Equal(t, before.UpdatedAt.Unix(), after.UpdatedAt.Unix())
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, _, err := env.authService.Register(services.RegisterInput{
		Username: "existing",
		Email:    "existing@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/login", env.handler.Login)

	w := postJSON(t, r, "/api/auth/login", map[string]string{
		"email":    "existing@example.com",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"token"`)
}

func TestAuthHandler_Login_UniformFailure(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, _, err := env.authService.Register(services.RegisterInput{
		Username: "existing",
		Email:    "existing@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/login", env.handler.Login)

	wrongPassword := postJSON(t, r, "/api/auth/login", map[string]string{
		"email":    "existing@example.com",
		"password": "wrongpassword",
	})
	unknownEmail := postJSON(t, r, "/api/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	// Same message for both, so accounts cannot be enumerated
	require.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, _, err := env.authService.Register(services.RegisterInput{
		Username: "current-user",
		Email:    "current@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyIdentity, models.Identity{ID: user.ID, Role: user.Role})

	env.handler.GetCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "current-user")
}

func TestAuthHandler_UpdatePassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, _, err := env.authService.Register(services.RegisterInput{
		Username: "rotating",
		Email:    "rotating@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	newContext := func(payload map[string]string) (*gin.Context, *httptest.ResponseRecorder) {
		body, err := json.Marshal(payload)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/api/auth/update-password", bytes.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set(constants.ContextKeyIdentity, models.Identity{ID: user.ID, Role: user.Role})
		return c, w
	}

	// Wrong current password is rejected
	c, w := newContext(map[string]string{
		"currentPassword": "wrongpassword",
		"newPassword":     "evenmoresecret",
	})
	env.handler.UpdatePassword(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Correct current password rotates the credential
	c, w = newContext(map[string]string{
		"currentPassword": "supersecret",
		"newPassword":     "evenmoresecret",
	})
	env.handler.UpdatePassword(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"token"`)

	_, _, err = env.authService.Login(services.LoginInput{
		Email:    "rotating@example.com",
		Password: "evenmoresecret",
	})
	require.NoError(t, err)
}
