package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LionGab/sistema-disciplinar-jupiara/core/occurrence"
)

func newOccurrenceBody(t *testing.T, studentID, typeID int) []byte {
	return marshallObj(t, map[string]interface{}{
		"aluno_id":             studentID,
		"tipo_ocorrencia_id":   typeID,
		"data_ocorrencia":      "2024-08-20",
		"hora_ocorrencia":      "09:30",
		"descricao":            "Ofensas repetidas a um colega",
		"responsavel_registro": "Tenente Silva",
	})
}

func TestOccurrenceApi(t *testing.T) {
	env := setup(t)

	tests := []httpTest{
		{
			name:     "retrieve missing",
			method:   http.MethodGet,
			path:     "/api/ocorrencias/999",
			wantCode: http.StatusNotFound,
			wantData: []byte(`{"error":"Ocorrência não encontrada"}`),
		},
		{
			name:     "create invalid time",
			method:   http.MethodPost,
			path:     "/api/ocorrencias",
			body:     []byte(`{"aluno_id":1,"tipo_ocorrencia_id":1,"data_ocorrencia":"2024-08-20","hora_ocorrencia":"25:00","descricao":"x","responsavel_registro":"Tenente Silva"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "create unknown student",
			method:   http.MethodPost,
			path:     "/api/ocorrencias",
			body:     newOccurrenceBody(t, 999, 1),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"error":"aluno ou tipo de ocorrência inexistente"}`),
		},
		{
			name:     "delete",
			method:   http.MethodDelete,
			path:     "/api/ocorrencias/1",
			wantCode: http.StatusOK,
			wantData: []byte(`{"message":"Ocorrência removida com sucesso"}`),
		},
		{
			name:     "delete again",
			method:   http.MethodDelete,
			path:     "/api/ocorrencias/1",
			wantCode: http.StatusNotFound,
		},
	}
	runHTTPTests(t, env, tests)
}

func TestOccurrenceApi_types(t *testing.T) {
	env := setup(t)

	rec := env.serve(httpTest{method: http.MethodGet, path: "/api/ocorrencias/tipos"})
	require.Equal(t, http.StatusOK, rec.Code)

	var types []occurrence.Type
	unmarshall(t, rec, &types)
	assert.Len(t, types, 10)
}

func TestOccurrenceApi_query(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"all", "", 8},
		{"by student", "?aluno_id=4", 2},
		{"by class", "?turma_id=3", 2},
		{"by date range", "?data_inicio=2024-08-05&data_fim=2024-08-08", 4},
	}
	env := setup(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.serve(httpTest{method: http.MethodGet, path: "/api/ocorrencias" + tt.query})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var occurrences []occurrence.Occurrence
			unmarshall(t, rec, &occurrences)
			assert.Len(t, occurrences, tt.want)
		})
	}

	rec := env.serve(httpTest{method: http.MethodGet, path: "/api/ocorrencias?data_inicio=01/08/2024"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOccurrenceApi_graveAlert(t *testing.T) {
	env := setup(t)

	// Atraso is leve
	rec := env.serve(httpTest{method: http.MethodPost, path: "/api/ocorrencias", body: newOccurrenceBody(t, 1, 1)})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Empty(t, env.mailSvc.SentMessages())

	// Bullying is grave
	rec = env.serve(httpTest{method: http.MethodPost, path: "/api/ocorrencias", body: newOccurrenceBody(t, 1, 10)})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var o occurrence.Occurrence
	unmarshall(t, rec, &o)
	assert.Equal(t, occurrence.SeverityGrave, o.Severity)
	assert.Equal(t, occurrence.StatusPendente, o.Status)
	assert.Equal(t, "Ana Silva Santos", o.StudentName)

	sent := env.mailSvc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "Ocorrência grave: Ana Silva Santos", sent[0].Subject)
	require.Len(t, sent[0].To, 2)
	assert.Equal(t, "tenente@escola.mil.br", sent[0].To[0].Address)
	assert.Equal(t, "ana.santos@email.com", sent[0].To[1].Address)
}
