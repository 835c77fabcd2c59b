package server

import (
	"net/http"
	"testing"

	"odbyte/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSignup_CreatesFreeAccountAndSession(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     "Asha",
		"email":    "asha@example.com",
		"password": "Sup3rSecretPw",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, resp, &body)

	assert.Len(t, body.Token, 64)
	assert.Equal(t, "Asha", body.User.Name)
	assert.Equal(t, models.PlanFree, body.User.Plan)
	assert.False(t, body.User.IsAdmin)

	// Token works immediately.
	me := env.request(t, http.MethodGet, "/api/me", body.Token, nil)
	assert.Equal(t, http.StatusOK, me.StatusCode)

	var profile models.User
	decodeBody(t, me, &profile)
	assert.Equal(t, body.User.ID, profile.ID)
	assert.Equal(t, "asha@example.com", profile.Email)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "First", "taken@example.com")

	resp := env.request(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     "Second",
		"email":    "taken@example.com",
		"password": "Sup3rSecretPw",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "DUPLICATE", body["code"])
}

func TestSignup_RejectsWeakPassword(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     "Weak",
		"email":    "weak@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "Asha", "asha@example.com")

	resp := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "asha@example.com",
		"password": "Sup3rSecretPw",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, resp, &body)
	assert.Len(t, body.Token, 64)
	assert.Equal(t, "asha@example.com", body.User.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "Asha", "asha@example.com")

	resp := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "asha@example.com",
		"password": "WrongPassw0rd",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "Invalid email or password", body["error"])
}

func TestLogin_UnknownEmailSameErrorAsWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "WhateverPassw0rd",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "Invalid email or password", body["error"])
}

func TestLogout_InvalidatesSession(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t, "Asha", "asha@example.com")

	resp := env.request(t, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "Logged out", body["message"])

	// Server-side state is gone; the token no longer authenticates.
	me := env.request(t, http.MethodGet, "/api/me", token, nil)
	defer func() { _ = me.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, me.StatusCode)
}
