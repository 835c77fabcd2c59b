package server

import (
	"net/http"
	"testing"

	"odbyte/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// submitPendingPrompt creates a top-tier author with one prompt submitted
// for premium review and returns the prompt.
func submitPendingPrompt(t *testing.T, env *testEnv) *models.Prompt {
	t.Helper()

	token, userID := env.signup(t, "Dia", "dia@example.com")
	env.setPlan(t, userID, models.PlanDiamond)

	prompt := env.createPrompt(t, token, map[string]string{"title": "Premium candidate"})
	resp := env.request(t, http.MethodPost, "/api/prompts/"+itoa(prompt.ID)+"/submit-premium", token, nil)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return prompt
}

func adminToken(t *testing.T, env *testEnv) string {
	t.Helper()
	token, id := env.signup(t, "Root", "root@example.com")
	env.makeAdmin(t, id)
	return token
}

func TestListPendingPrompts(t *testing.T) {
	env := newTestEnv(t)
	pending := submitPendingPrompt(t, env)
	admin := adminToken(t, env)

	resp := env.request(t, http.MethodGet, "/api/admin/prompts/pending", admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Prompts []models.Prompt `json:"prompts"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Prompts, 1)
	assert.Equal(t, pending.ID, body.Prompts[0].ID)
	assert.Equal(t, models.PremiumStatusPending, body.Prompts[0].PremiumStatus)
}

func TestApprovePrompt(t *testing.T) {
	env := newTestEnv(t)
	pending := submitPendingPrompt(t, env)
	admin := adminToken(t, env)

	resp := env.request(t, http.MethodPost, "/api/admin/prompts/"+itoa(pending.ID)+"/approve", admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var approved models.Prompt
	decodeBody(t, resp, &approved)
	assert.Equal(t, models.PremiumStatusApproved, approved.PremiumStatus)
	assert.True(t, approved.IsPremium)
	assert.Equal(t, models.VisibilityPublic, approved.Visibility)

	// The queue is now empty.
	list := env.request(t, http.MethodGet, "/api/admin/prompts/pending", admin, nil)
	var body struct {
		Prompts []models.Prompt `json:"prompts"`
	}
	decodeBody(t, list, &body)
	assert.Empty(t, body.Prompts)
}

func TestRejectPrompt(t *testing.T) {
	env := newTestEnv(t)
	pending := submitPendingPrompt(t, env)
	admin := adminToken(t, env)

	resp := env.request(t, http.MethodPost, "/api/admin/prompts/"+itoa(pending.ID)+"/reject", admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var rejected models.Prompt
	decodeBody(t, resp, &rejected)
	assert.Equal(t, models.PremiumStatusRejected, rejected.PremiumStatus)
}

func TestReviewPrompt_OnlyPendingReviewable(t *testing.T) {
	env := newTestEnv(t)
	admin := adminToken(t, env)

	ownerToken, _ := env.signup(t, "Asha", "asha@example.com")
	prompt := env.createPrompt(t, ownerToken, map[string]string{"title": "Never submitted"})

	resp := env.request(t, http.MethodPost, "/api/admin/prompts/"+itoa(prompt.ID)+"/approve", admin, nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRemovePremium(t *testing.T) {
	env := newTestEnv(t)
	pending := submitPendingPrompt(t, env)
	admin := adminToken(t, env)

	approve := env.request(t, http.MethodPost, "/api/admin/prompts/"+itoa(pending.ID)+"/approve", admin, nil)
	_ = approve.Body.Close()
	require.Equal(t, http.StatusOK, approve.StatusCode)

	resp := env.request(t, http.MethodPost, "/api/admin/prompts/"+itoa(pending.ID)+"/remove-premium", admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var demoted models.Prompt
	decodeBody(t, resp, &demoted)
	assert.False(t, demoted.IsPremium)
	assert.Equal(t, models.PremiumStatusNone, demoted.PremiumStatus)
}

func TestAdminListUsers(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "Asha", "asha@example.com")
	admin := adminToken(t, env)

	resp := env.request(t, http.MethodGet, "/api/admin/users", admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Users []models.User `json:"users"`
	}
	decodeBody(t, resp, &body)
	assert.Len(t, body.Users, 2)
}
