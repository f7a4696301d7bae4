package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/awaazhq/awaaz-api/internal/constants"
	"github.com/awaazhq/awaaz-api/internal/database"
	"github.com/awaazhq/awaaz-api/internal/models"
	"github.com/awaazhq/awaaz-api/internal/repository"
	"github.com/awaazhq/awaaz-api/internal/services"
)

type userTestEnv struct {
	db      *gorm.DB
	handler *UserHandler
}

func setupUserTestEnv(t *testing.T) userTestEnv {
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

	handler := NewUserHandler(services.NewUserService(repository.NewUserRepository(db)))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return userTestEnv{db: db, handler: handler}
}

func createUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func userContext(identity models.Identity, method, url string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyIdentity, identity)
	return c, w
}

func TestUpdateProfile(t *testing.T) {
	env := setupUserTestEnv(t)
	user := createUser(t, env.db, "original", models.RoleUser)

	body, err := json.Marshal(map[string]string{
		"username":    "renamed",
		"phoneNumber": "+91-9999999999",
	})
	require.NoError(t, err)

	c, w := userContext(models.Identity{ID: user.ID, Role: user.Role}, http.MethodPatch, "/api/users/update-profile", body)
	env.handler.UpdateProfile(c)

	require.Equal(t, http.StatusOK, w.Code)

	var stored models.User
	require.NoError(t, env.db.First(&stored, user.ID).Error)
	require.Equal(t, "renamed", stored.Username)
	require.Equal(t, "+91-9999999999", stored.PhoneNumber)
}

func TestListUsers_Pagination(t *testing.T) {
	env := setupUserTestEnv(t)
	admin := createUser(t, env.db, "admin", models.RoleAdmin)
	for i := 0; i < 14; i++ {
		createUser(t, env.db, "citizen"+strconv.Itoa(i), models.RoleUser)
	}

	c, w := userContext(models.Identity{ID: admin.ID, Role: admin.Role}, http.MethodGet, "/api/users", nil)
	c.Request.URL.RawQuery = "page=2&limit=10"

	env.handler.ListUsers(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Results int `json:"results"`
		Data    struct {
			Users      []json.RawMessage `json:"users"`
			Pagination struct {
				Page  int   `json:"page"`
				Limit int   `json:"limit"`
				Total int64 `json:"total"`
			} `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, 5, response.Results)
	require.Equal(t, 2, response.Data.Pagination.Page)
	require.Equal(t, int64(15), response.Data.Pagination.Total)
}

func TestGetUser_NotFound(t *testing.T) {
	env := setupUserTestEnv(t)
	admin := createUser(t, env.db, "admin", models.RoleAdmin)

	c, w := userContext(models.Identity{ID: admin.ID, Role: admin.Role}, http.MethodGet, "/api/users/999", nil)
	c.Params = gin.Params{{Key: "id", Value: "999"}}

	env.handler.GetUser(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestMakeAdmin(t *testing.T) {
	env := setupUserTestEnv(t)
	admin := createUser(t, env.db, "admin", models.RoleAdmin)
	citizen := createUser(t, env.db, "citizen", models.RoleUser)

	c, w := userContext(models.Identity{ID: admin.ID, Role: admin.Role}, http.MethodPatch, "/api/users/2/make-admin", nil)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(citizen.ID, 10)}}

	env.handler.MakeAdmin(c)

	require.Equal(t, http.StatusOK, w.Code)

	var stored models.User
	require.NoError(t, env.db.First(&stored, citizen.ID).Error)
	require.Equal(t, models.RoleAdmin, stored.Role)
}

func TestDeleteUser(t *testing.T) {
	env := setupUserTestEnv(t)
	admin := createUser(t, env.db, "admin", models.RoleAdmin)
	citizen := createUser(t, env.db, "citizen", models.RoleUser)

	c, w := userContext(models.Identity{ID: admin.ID, Role: admin.Role}, http.MethodDelete, "/api/users/2", nil)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(citizen.ID, 10)}}

	env.handler.DeleteUser(c)
	c.Writer.WriteHeaderNow()

	require.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	env.db.Model(&models.User{}).Where("id = ?", citizen.ID).Count(&count)
	require.Equal(t, int64(0), count)
}

func TestDeleteUser_NotFound(t *testing.T) {
	env := setupUserTestEnv(t)
	admin := createUser(t, env.db, "admin", models.RoleAdmin)

	c, w := userContext(models.Identity{ID: admin.ID, Role: admin.Role}, http.MethodDelete, "/api/users/999", nil)
	c.Params = gin.Params{{Key: "id", Value: "999"}}

	env.handler.DeleteUser(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}
