package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/kendall-kelly/fixnow-api/models"
	"github.com/kendall-kelly/fixnow-api/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryEndpoints(t *testing.T) {
	app := setupTestApp(t)
	admin := testutil.CreateUser(t, app.db, "Admin", "admin@example.com", "secret", models.RoleAdmin)
	client := testutil.CreateUser(t, app.db, "Client", "client@example.com", "secret", models.RoleClient)
	body := map[string]string{"name": "Eletricista"}

	w, env := app.do(t, http.MethodPost, "/categories", body, client)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	w, env = app.do(t, http.MethodPost, "/categories", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var count int64
	app.db.Model(&models.Category{}).Count(&count)
	assert.Zero(t, count, "rejected requests create nothing")

	w, env = app.do(t, http.MethodPost, "/categories", body, admin)
	require.Equal(t, http.StatusCreated, w.Code)
	category := decode[models.Category](t, env.Data)

	w, env = app.do(t, http.MethodPost, "/categories", body, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "CATEGORY_EXISTS", env.Error.Code)
	assert.Contains(t, env.Error.Message, "already exists")

	w, env = app.do(t, http.MethodGet, "/categories", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Category](t, env.Data), 1)

	w, _ = app.do(t, http.MethodDelete, fmt.Sprintf("/categories/%d", category.ID), nil, client)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = app.do(t, http.MethodDelete, fmt.Sprintf("/categories/%d", category.ID), nil, admin)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = app.do(t, http.MethodDelete, fmt.Sprintf("/categories/%d", category.ID), nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CATEGORY_NOT_FOUND", env.Error.Code)
}
