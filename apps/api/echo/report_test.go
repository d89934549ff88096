package echoapi

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReportApi_errors(t *testing.T) {
	env := setup(t)

	tests := []httpTest{
		{
			name:     "unknown kind",
			method:   http.MethodGet,
			path:     "/api/relatorios/boletim",
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"error":"relatório inválido"}`),
		},
		{
			name:     "unknown format",
			method:   http.MethodGet,
			path:     "/api/relatorios/alunos?formato=docx",
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"error":"formato inválido (use xlsx, csv ou pdf)"}`),
		},
	}
	runHTTPTests(t, env, tests)
}

func TestReportApi_studentsCSV(t *testing.T) {
	env := setup(t)

	rec := env.serve(httpTest{method: http.MethodGet, path: "/api/relatorios/alunos?formato=csv"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	disposition := rec.Header().Get("Content-Disposition")
	assert.True(t, strings.HasPrefix(disposition, `attachment; filename="alunos_`), disposition)
	assert.True(t, strings.HasSuffix(disposition, `.csv"`), disposition)

	body := rec.Body.Bytes()
	require.True(t, bytes.HasPrefix(body, []byte("\ufeff")), "missing utf-8 bom")

	records, err := csv.NewReader(bytes.NewReader(body[3:])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 14)
}

func TestReportApi_filteredCSV(t *testing.T) {
	env := setup(t)

	rec := env.serve(httpTest{method: http.MethodGet, path: "/api/relatorios/faltas?formato=csv&turma_id=2&justificada=false"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	records, err := csv.NewReader(bytes.NewReader(rec.Body.Bytes()[3:])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestReportApi_completeXLSX(t *testing.T) {
	env := setup(t)

	rec := env.serve(httpTest{method: http.MethodGet, path: "/api/relatorios/completo"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "relatorio_completo_")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Alunos", "Ocorrências", "Faltas", "Resumo por Turma", "Resumo Geral"}, f.GetSheetList())

	rows, err := f.GetRows("Alunos")
	require.NoError(t, err)
	assert.Len(t, rows, 14)
}

func TestReportApi_pdf(t *testing.T) {
	env := setup(t)

	rec := env.serve(httpTest{method: http.MethodGet, path: "/api/relatorios/ocorrencias?formato=pdf"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}
