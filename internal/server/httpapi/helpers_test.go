package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/college/internal/logging"
	"github.com/dmitrijs2005/college/internal/server/auth"
	"github.com/dmitrijs2005/college/internal/server/metrics"
	"github.com/dmitrijs2005/college/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/college/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testUser     = "admin"
	testPassword = "correct horse"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type testAPI struct {
	handler http.Handler
	metrics *metrics.Metrics
	tokens  *auth.TokenService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	hash, err := auth.HashPassword(testPassword, bcrypt.MinCost)
	require.NoError(t, err)
	creds, err := auth.NewCredentialStore(testUser, hash)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(testSecret)
	require.NoError(t, err)

	m := metrics.New()
	h := NewHandlers(
		services.NewAuthService(creds, tokens, 30*time.Minute),
		services.NewStudentService(repomanager.NewMemoryRepositoryManager()),
		m,
		logging.Nop{},
	)
	return &testAPI{handler: NewRouter(h, m, logging.Nop{}), metrics: m, tokens: tokens}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) login(t *testing.T) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/login", "", map[string]string{"username": testUser, "password": testPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.AccessToken
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
