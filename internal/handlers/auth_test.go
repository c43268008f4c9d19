package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/riceguard/apiserver/types"
	"github.com/stretchr/testify/require"
)

func TestRegisterCreatesAccount(t *testing.T) {
	env := newTestEnv(t, &fixedBackend{label: "healthy", confidence: 0.9})

	rec := env.register(t, "Aye Chan", "aye@example.com", "s3cret-pass")
	require.Equal(t, http.StatusCreated, rec.Code)

	var user types.PublicUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	require.NotZero(t, user.ID)
	require.Equal(t, "Aye Chan", user.Name)
	require.Equal(t, "aye@example.com", user.Email)
	require.NotContains(t, rec.Body.String(), "password")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t, &fixedBackend{label: "healthy", confidence: 0.9})

	rec := env.register(t, "Aye Chan", "aye@example.com", "s3cret-pass")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.register(t, "Impostor", "AYE@EXAMPLE.COM", "other-pass")
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterWeakPassword(t *testing.T) {
	env := newTestEnv(t, &fixedBackend{label: "healthy", confidence: 0.9})

	rec := env.register(t, "Aye Chan", "aye@example.com", "short")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRegisterMissingFields(t *testing.T) {
	env := newTestEnv(t, &fixedBackend{label: "healthy", confidence: 0.9})

	rec := env.register(t, "", "aye@example.com", "s3cret-pass")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.postJSON(t, "/api/v1/auth/register", map[string]string{"name": "Aye"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginReturnsTokenWithExpiry(t *testing.T) {
	env := newTestEnv(t, &fixedBackend{label: "healthy", confidence: 0.9})
	env.register(t, "Aye Chan", "aye@example.com", "s3cret-pass")

	rec := env.postJSON(t, "/api/v1/auth/login", LoginRequest{Email: "aye@example.com", Password: "s3cret-pass"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.True(t, resp.ExpiresAt.After(time.Now()), "expiry must be explicit and in the future")
	require.Equal(t, "aye@example.com", resp.User.Email)

	subject, err := env.tokens.Verify(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, subject)
}

func TestLoginFailureIsUniform(t *testing.T) {
	env := newTestEnv(t, &fixedBackend{label: "healthy", confidence: 0.9})
	env.register(t, "Aye Chan", "aye@example.com", "s3cret-pass")

	wrongPassword := env.postJSON(t, "/api/v1/auth/login", LoginRequest{Email: "aye@example.com", Password: "wrong-pass"})
	unknownEmail := env.postJSON(t, "/api/v1/auth/login", LoginRequest{Email: "ghost@example.com", Password: "s3cret-pass"})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	require.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String(),
		"the response must not reveal whether the email exists")
}
