package crmapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/apexcrm/crm-console/internal/errors"
)

func loginBackend(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL}, nil)
}

func TestLogin_Success(t *testing.T) {
	client := loginBackend(t, http.StatusOK,
		`{"access_token":"tok2","token_type":"bearer","user_id":12,"email":"u@example.com","full_name":"U","tenant_id":42,"is_superuser":false}`)

	res, err := client.Login(context.Background(), "u@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok2", res.AccessToken)
	assert.Equal(t, int64(12), res.UserID)
	require.NotNil(t, res.TenantID)
	assert.Equal(t, int64(42), *res.TenantID)
	assert.False(t, res.IsSuperuser)
}

func TestLogin_CredentialsSentAsQuery(t *testing.T) {
	var gotEmail, gotPassword string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail = r.URL.Query().Get("email")
		gotPassword = r.URL.Query().Get("password")
		_, _ = w.Write([]byte(`{"access_token":"t"}`))
	}))
	t.Cleanup(srv.Close)
	client := NewClient(Config{BaseURL: srv.URL}, nil)

	_, err := client.Login(context.Background(), "user@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", gotEmail)
	assert.Equal(t, "s3cret", gotPassword)
}

func TestLogin_SuperuserStrictness(t *testing.T) {
	cases := []struct {
		name string
		body string
		want bool
	}{
		{"literal true", `{"access_token":"t","is_superuser":true}`, true},
		{"string true", `{"access_token":"t","is_superuser":"true"}`, false},
		{"number one", `{"access_token":"t","is_superuser":1}`, false},
		{"null", `{"access_token":"t","is_superuser":null}`, false},
		{"absent", `{"access_token":"t"}`, false},
		{"literal false", `{"access_token":"t","is_superuser":false}`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := loginBackend(t, http.StatusOK, tc.body)
			res, err := client.Login(context.Background(), "a@b.c", "x")
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.IsSuperuser)
		})
	}
}

func TestLogin_MissingAccessTokenRejected(t *testing.T) {
	client := loginBackend(t, http.StatusOK, `{"token_type":"bearer","user_id":3}`)

	_, err := client.Login(context.Background(), "a@b.c", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access token")
}

func TestLogin_BadCredentialsSurfaceDetail(t *testing.T) {
	client := loginBackend(t, http.StatusUnauthorized, `{"detail":"Incorrect email or password"}`)

	_, err := client.Login(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Equal(t, "Incorrect email or password", apperrors.Detail(err, ""))
}
