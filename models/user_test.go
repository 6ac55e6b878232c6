package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "users", User{}.TableName())
	assert.Equal(t, "appointments", Appointment{}.TableName())
	assert.Equal(t, "categories", Category{}.TableName())
	assert.Equal(t, "reviews", Review{}.TableName())
}

func TestUserJSONHidesPassword(t *testing.T) {
	user := User{
		ID:           1,
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: "$2a$08$secret",
		Role:         RoleClient,
	}

	body, err := json.Marshal(user)
	require.NoError(t, err)

	assert.NotContains(t, string(body), "secret")
	assert.NotContains(t, string(body), "password")
	assert.Contains(t, string(body), `"role":"CLIENT"`)
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Role
		wantOK bool
	}{
		{"admin", "ADMIN", RoleAdmin, true},
		{"client lower case", "client", RoleClient, true},
		{"client alias", "CLIENTE", RoleClient, true},
		{"technician", " TECHNICIAN ", RoleTechnician, true},
		{"technician alias", "tecnico", RoleTechnician, true},
		{"unknown", "OWNER", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRole(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleClient.Valid())
	assert.True(t, RoleTechnician.Valid())
	assert.False(t, Role("CLIENTE").Valid())
	assert.False(t, Role("").Valid())
}

func TestAppointmentInvolves(t *testing.T) {
	a := Appointment{ClientID: 1, TechnicianID: 2}
	assert.True(t, a.Involves(1))
	assert.True(t, a.Involves(2))
	assert.False(t, a.Involves(3))
}
