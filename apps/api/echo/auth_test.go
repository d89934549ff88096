package echoapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/testutil"
)

func requireAuth(conf *core.Config) {
	conf.Server.AuthRequired = true
}

func TestAuthApi_login(t *testing.T) {
	env := setup(t)
	testutil.CreateUser(t, env.repos.Users, "João Silva", "tenente@escola.mil.br", "s3nh4-forte", true)
	testutil.CreateUser(t, env.repos.Users, "Maria Costa", "sargento@escola.mil.br", "s3nh4-forte", false)

	login := func(email, pwd string) []byte {
		return marshallObj(t, LoginRequest{Email: email, Password: pwd})
	}

	tests := []httpTest{
		{
			name:     "wrong password",
			method:   http.MethodPost,
			path:     "/api/auth/login",
			body:     login("tenente@escola.mil.br", "errada"),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"error":"email ou senha inválidos"}`),
		},
		{
			name:     "unknown email",
			method:   http.MethodPost,
			path:     "/api/auth/login",
			body:     login("cabo@escola.mil.br", "s3nh4-forte"),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"error":"email ou senha inválidos"}`),
		},
		{
			name:     "inactive account",
			method:   http.MethodPost,
			path:     "/api/auth/login",
			body:     login("sargento@escola.mil.br", "s3nh4-forte"),
			wantCode: http.StatusForbidden,
			wantData: []byte(`{"error":"conta desativada"}`),
		},
		{
			name:     "missing password",
			method:   http.MethodPost,
			path:     "/api/auth/login",
			body:     []byte(`{"email":"tenente@escola.mil.br"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"senha":"este campo é obrigatório"}`),
		},
	}
	runHTTPTests(t, env, tests)

	rec := env.serve(httpTest{method: http.MethodPost, path: "/api/auth/login", body: login(" Tenente@Escola.mil.br ", "s3nh4-forte")})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res LoginResponse
	unmarshall(t, rec, &res)
	assert.NotEmpty(t, res.Token)
	require.NotNil(t, res.User)
	assert.Equal(t, "João Silva", res.User.Name)
	assert.NotContains(t, rec.Body.String(), "senha")

	token, err := env.app.auth.parseToken(res.Token)
	require.NoError(t, err)
	claims := token.Claims.(*Claims)
	assert.Equal(t, "tenente@escola.mil.br", claims.Email)
	assert.Equal(t, "Tenente", claims.Rank)
}

func TestAuthApi_guardedRoutes(t *testing.T) {
	env := setup(t, requireAuth)
	usr := testutil.CreateUser(t, env.repos.Users, "João Silva", "tenente@escola.mil.br", "s3nh4-forte", true)
	token := env.token(t, usr)

	otherKey := setup(t, requireAuth, func(conf *core.Config) { conf.SecretKey = "another-secret" })
	forged := otherKey.token(t, usr)

	tests := []httpTest{
		{
			name:     "no token",
			method:   http.MethodGet,
			path:     "/api/turmas",
			wantCode: http.StatusUnauthorized,
			wantData: []byte(`{"error":"usuário não autenticado"}`),
		},
		{
			name:     "forged token",
			method:   http.MethodGet,
			path:     "/api/turmas",
			token:    forged,
			wantCode: http.StatusUnauthorized,
			wantData: []byte(`{"error":"token inválido ou expirado"}`),
		},
		{
			name:     "valid token",
			method:   http.MethodGet,
			path:     "/api/turmas",
			token:    token,
			wantCode: http.StatusOK,
		},
		{
			name:     "health is public",
			method:   http.MethodGet,
			path:     "/api/health",
			wantCode: http.StatusOK,
		},
		{
			name:     "login is public",
			method:   http.MethodPost,
			path:     "/api/auth/login",
			body:     marshallObj(t, LoginRequest{Email: "tenente@escola.mil.br", Password: "s3nh4-forte"}),
			wantCode: http.StatusOK,
		},
	}
	runHTTPTests(t, env, tests)
}

func TestAuthApi_refreshToken(t *testing.T) {
	env := setup(t)
	usr := testutil.CreateUser(t, env.repos.Users, "João Silva", "tenente@escola.mil.br", "s3nh4-forte", true)
	inactive := testutil.CreateUser(t, env.repos.Users, "Maria Costa", "sargento@escola.mil.br", "s3nh4-forte", false)

	stale, err := env.app.auth.generateToken(env.app.auth.claims(usr, time.Now().Add(-48*time.Hour).Unix()))
	require.NoError(t, err)

	tests := []httpTest{
		{
			name:     "no token",
			method:   http.MethodPost,
			path:     "/api/auth/token-refresh",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "inactive user",
			method:   http.MethodPost,
			path:     "/api/auth/token-refresh",
			token:    env.token(t, inactive),
			wantCode: http.StatusForbidden,
			wantData: []byte(`{"error":"conta desativada"}`),
		},
		{
			name:     "refresh window elapsed",
			method:   http.MethodPost,
			path:     "/api/auth/token-refresh",
			token:    stale,
			wantCode: http.StatusForbidden,
			wantData: []byte(`{"error":"o prazo para renovar o token expirou"}`),
		},
	}
	runHTTPTests(t, env, tests)

	first := env.app.auth.claims(usr)
	token, err := env.app.auth.generateToken(first)
	require.NoError(t, err)

	rec := env.serve(httpTest{method: http.MethodPost, path: "/api/auth/token-refresh", token: token})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res LoginResponse
	unmarshall(t, rec, &res)
	refreshed, err := env.app.auth.parseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, first.OrigIssuedAt, refreshed.Claims.(*Claims).OrigIssuedAt)
	assert.Nil(t, res.User)
}
