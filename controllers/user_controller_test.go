package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kendall-kelly/fixnow-api/models"
	"github.com/kendall-kelly/fixnow-api/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	app := setupTestApp(t)

	w, env := app.do(t, http.MethodPost, "/users", map[string]any{
		"name":       "Ana",
		"email":      "ana@example.com",
		"password":   "secret",
		"role":       "TECHNICIAN",
		"profession": "Eletricista",
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	user := decode[map[string]any](t, env.Data)
	assert.Equal(t, "ana@example.com", user["email"])
	assert.Equal(t, "TECHNICIAN", user["role"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "PasswordHash")
}

func TestCreateUser_Failures(t *testing.T) {
	app := setupTestApp(t)
	testutil.CreateUser(t, app.db, "Taken", "taken@example.com", "secret", models.RoleClient)

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantCode   string
	}{
		{"missing fields", map[string]any{"name": "A"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"invalid email", map[string]any{"name": "A", "email": "nope", "password": "secret"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"short password", map[string]any{"name": "A", "email": "a@example.com", "password": "123"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"admin role", map[string]any{"name": "A", "email": "a@example.com", "password": "secret", "role": "ADMIN"}, http.StatusBadRequest, "ROLE_NOT_ALLOWED"},
		{"duplicate email", map[string]any{"name": "A", "email": "taken@example.com", "password": "secret"}, http.StatusBadRequest, "EMAIL_EXISTS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := app.do(t, http.MethodPost, "/users", tt.body, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestListAndGetUsers(t *testing.T) {
	app := setupTestApp(t)
	tech := testutil.CreateUser(t, app.db, "Tech", "tech@example.com", "secret", models.RoleTechnician)
	testutil.CreateUser(t, app.db, "Client", "client@example.com", "secret", models.RoleClient)

	w, env := app.do(t, http.MethodGet, "/users?role=TECHNICIAN", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode[[]models.User](t, env.Data)
	require.Len(t, users, 1)
	assert.Equal(t, tech.ID, users[0].ID)

	w, env = app.do(t, http.MethodGet, fmt.Sprintf("/users/%d", tech.ID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tech@example.com", decode[models.User](t, env.Data).Email)

	w, env = app.do(t, http.MethodGet, "/users/9999", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "USER_NOT_FOUND", env.Error.Code)

	w, env = app.do(t, http.MethodGet, "/users/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", env.Error.Code)
}

func TestUpdateUser(t *testing.T) {
	app := setupTestApp(t)
	user := testutil.CreateUser(t, app.db, "Ana", "ana@example.com", "secret", models.RoleClient)
	other := testutil.CreateUser(t, app.db, "Other", "other@example.com", "secret", models.RoleClient)

	w, env := app.do(t, http.MethodPut, fmt.Sprintf("/users/%d", user.ID), map[string]any{"name": "Ana Maria"}, user)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ana Maria", decode[models.User](t, env.Data).Name)

	w, env = app.do(t, http.MethodPut, fmt.Sprintf("/users/%d", other.ID), map[string]any{"name": "Hacked"}, user)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	var stored models.User
	require.NoError(t, app.db.First(&stored, other.ID).Error)
	assert.Equal(t, "Other", stored.Name, "other account unchanged")

	w, env = app.do(t, http.MethodPut, fmt.Sprintf("/users/%d", user.ID), map[string]any{"role": "ADMIN"}, user)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "ROLE_NOT_ALLOWED", env.Error.Code)

	w, env = app.do(t, http.MethodPut, fmt.Sprintf("/users/%d", user.ID), map[string]any{"email": "other@example.com"}, user)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "EMAIL_EXISTS", env.Error.Code)

	w, env = app.do(t, http.MethodPut, fmt.Sprintf("/users/%d", user.ID), map[string]any{"name": "X"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_MISSING", env.Error.Code)
}

func TestDeleteUser(t *testing.T) {
	app := setupTestApp(t)
	user := testutil.CreateUser(t, app.db, "Ana", "ana@example.com", "secret", models.RoleClient)
	other := testutil.CreateUser(t, app.db, "Other", "other@example.com", "secret", models.RoleTechnician)
	testutil.CreateAppointment(t, app.db, user, other, "Eletricista")

	w, _ := app.do(t, http.MethodDelete, fmt.Sprintf("/users/%d", other.ID), nil, user)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := app.do(t, http.MethodDelete, fmt.Sprintf("/users/%d", user.ID), nil, user)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User deleted successfully", decode[map[string]string](t, env.Data)["message"])

	var users, appointments int64
	app.db.Model(&models.User{}).Count(&users)
	app.db.Model(&models.Appointment{}).Count(&appointments)
	assert.Equal(t, int64(1), users)
	assert.Zero(t, appointments)
}

func TestUploadProfileImage(t *testing.T) {
	app := setupTestApp(t)
	user := testutil.CreateUser(t, app.db, "Ana", "ana@example.com", "secret", models.RoleClient)

	upload := func(field, filename string, content []byte) (*httptest.ResponseRecorder, envelope) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/users/%d/profile-image", user.ID), body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set("Authorization", testutil.BearerFor(t, user))
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, req)

		var env envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		return w, env
	}

	png := append([]byte("\x89PNG\r\n\x1a\n"), []byte("body")...)

	w, env := upload("image", "me.png", png)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[map[string]any](t, env.Data)
	assert.Contains(t, updated["profile_image_url"], "/api/v1/uploads/")

	w, env = upload("image", "me.txt", []byte("hello"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_FILE_FORMAT", env.Error.Code)

	w, env = upload("avatar", "me.png", png)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FILE", env.Error.Code)
}
