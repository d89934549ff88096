package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LionGab/sistema-disciplinar-jupiara/core/absence"
)

func TestAbsenceApi(t *testing.T) {
	env := setup(t)

	body := []byte(`{"aluno_id":4,"data_falta":"2024-08-01"}`)

	tests := []httpTest{
		{
			name:     "create",
			method:   http.MethodPost,
			path:     "/api/faltas",
			body:     body,
			wantCode: http.StatusCreated,
		},
		{
			name:     "create same day",
			method:   http.MethodPost,
			path:     "/api/faltas",
			body:     body,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"error":"Falta já registrada para este aluno nesta data"}`),
		},
		{
			name:     "create unknown student",
			method:   http.MethodPost,
			path:     "/api/faltas",
			body:     []byte(`{"aluno_id":999,"data_falta":"2024-08-01"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"aluno_id":"aluno inexistente"}`),
		},
		{
			name:     "create missing date",
			method:   http.MethodPost,
			path:     "/api/faltas",
			body:     []byte(`{"aluno_id":4}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"data_falta":"este campo é obrigatório"}`),
		},
		{
			name:     "retrieve missing",
			method:   http.MethodGet,
			path:     "/api/faltas/999",
			wantCode: http.StatusNotFound,
			wantData: []byte(`{"error":"Falta não encontrada"}`),
		},
		{
			name:     "class summary",
			method:   http.MethodGet,
			path:     "/api/faltas/resumo-turma/2",
			wantCode: http.StatusOK,
			wantData: []byte(`[
				{"aluno_id":4,"aluno_nome":"Diego Ferreira Souza","matricula":"2024004","total_faltas":3,"faltas_justificadas":1,"faltas_nao_justificadas":2},
				{"aluno_id":5,"aluno_nome":"Eduarda Mendes Silva","matricula":"2024005","total_faltas":0,"faltas_justificadas":0,"faltas_nao_justificadas":0}
			]`),
		},
		{
			name:     "delete",
			method:   http.MethodDelete,
			path:     "/api/faltas/13",
			wantCode: http.StatusOK,
			wantData: []byte(`{"message":"Falta removida com sucesso"}`),
		},
	}
	runHTTPTests(t, env, tests)
}

func TestAbsenceApi_justify(t *testing.T) {
	env := setup(t)

	rec := env.serve(httpTest{
		method: http.MethodPut,
		path:   "/api/faltas/1",
		body:   []byte(`{"justificada":true,"motivo":"Consulta médica","documento_justificativa":"Atestado"}`),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var a absence.Absence
	unmarshall(t, rec, &a)
	assert.True(t, a.Justified)
	assert.Equal(t, 4, a.StudentID)
	assert.Equal(t, "Consulta médica", a.Reason.String)
}

func TestAbsenceApi_query(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantCode int
		want     int
	}{
		{"all", "", http.StatusOK, 12},
		{"justified", "?justificada=true", http.StatusOK, 6},
		{"unjustified of class", "?justificada=false&turma_id=2", http.StatusOK, 1},
		{"bad flag", "?justificada=talvez", http.StatusBadRequest, 0},
	}
	env := setup(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.serve(httpTest{method: http.MethodGet, path: "/api/faltas" + tt.query})
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode != http.StatusOK {
				return
			}
			var absences []absence.Absence
			unmarshall(t, rec, &absences)
			assert.Len(t, absences, tt.want)
		})
	}
}
