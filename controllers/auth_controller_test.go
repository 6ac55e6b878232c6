package controllers

import (
	"net/http"
	"testing"

	"github.com/kendall-kelly/fixnow-api/models"
	"github.com/kendall-kelly/fixnow-api/services"
	"github.com/kendall-kelly/fixnow-api/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	app := setupTestApp(t)
	user := testutil.CreateUser(t, app.db, "A", "a@x.com", "secret", models.RoleClient)

	w, env := app.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "a@x.com", "password": "secret"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	session := decode[services.Session](t, env.Data)
	require.NotEmpty(t, session.Token)
	assert.Equal(t, user.ID, session.User.ID)

	identity, err := testutil.TokenService().Validate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)
	assert.Equal(t, user.Email, identity.Email)
	assert.Equal(t, user.Role, identity.Role)
}

func TestLogin_Failures(t *testing.T) {
	app := setupTestApp(t)
	testutil.CreateUser(t, app.db, "A", "a@x.com", "secret", models.RoleClient)

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
		wantCode   string
	}{
		{"wrong password", map[string]string{"email": "a@x.com", "password": "wrong"}, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"unknown email", map[string]string{"email": "b@x.com", "password": "secret"}, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"missing password", map[string]string{"email": "a@x.com"}, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := app.do(t, http.MethodPost, "/auth/login", tt.body, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.NotContains(t, string(env.Data), "token")
		})
	}
}

func TestMe(t *testing.T) {
	app := setupTestApp(t)
	user := testutil.CreateUser(t, app.db, "A", "a@x.com", "secret", models.RoleTechnician)

	w, env := app.do(t, http.MethodGet, "/auth/me", nil, user)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[models.User](t, env.Data)
	assert.Equal(t, user.ID, me.ID)
	assert.Equal(t, models.RoleTechnician, me.Role)

	w, env = app.do(t, http.MethodGet, "/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_MISSING", env.Error.Code)
}
