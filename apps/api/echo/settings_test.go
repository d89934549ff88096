package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LionGab/sistema-disciplinar-jupiara/core/settings"
)

func TestSettingsApi(t *testing.T) {
	env := setup(t)

	rec := env.serve(httpTest{method: http.MethodGet, path: "/api/configuracoes"})
	require.Equal(t, http.StatusOK, rec.Code)

	var current settings.Settings
	unmarshall(t, rec, &current)
	assert.Equal(t, 1, current.Version)
	assert.Equal(t, "Escola Cívico Militar Jupiara", current.SchoolName)

	edited := current
	edited.SchoolName = "Colégio Cívico Militar Jupiara"
	edited.IndexTarget = 0.8

	invalid := current
	invalid.NotificationEmail = "tenente@"

	blank := current
	blank.SchoolName = " "

	tests := []httpTest{
		{
			name:     "invalid email",
			method:   http.MethodPut,
			path:     "/api/configuracoes",
			body:     marshallObj(t, invalid),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "blank school name",
			method:   http.MethodPut,
			path:     "/api/configuracoes",
			body:     marshallObj(t, blank),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"nomeEscola":"este campo é obrigatório"}`),
		},
		{
			name:     "save",
			method:   http.MethodPut,
			path:     "/api/configuracoes",
			body:     marshallObj(t, edited),
			wantCode: http.StatusOK,
		},
		{
			name:     "stale save",
			method:   http.MethodPut,
			path:     "/api/configuracoes",
			body:     marshallObj(t, edited),
			wantCode: http.StatusConflict,
			wantData: marshallObj(t, httpErr{settings.ErrStaleVersion.Error()}),
		},
	}
	runHTTPTests(t, env, tests)

	rec = env.serve(httpTest{method: http.MethodGet, path: "/api/configuracoes"})
	unmarshall(t, rec, &current)
	assert.Equal(t, 2, current.Version)
	assert.Equal(t, "Colégio Cívico Militar Jupiara", current.SchoolName)
	assert.Equal(t, "Colégio Cívico Militar Jupiara", env.app.deps.SettingsSvc.SchoolName())
}
