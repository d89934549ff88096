package echoapi

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LionGab/sistema-disciplinar-jupiara/core/discipline"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/metric"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/student"
)

func TestStudentApi(t *testing.T) {
	env := setup(t)

	newStudent := func(enrollment string, classID int) []byte {
		return marshallObj(t, map[string]interface{}{
			"matricula":         enrollment,
			"nome":              "Nicolas Prado Reis",
			"data_nascimento":   "2012-04-02",
			"turma_id":          classID,
			"email_responsavel": "nicolas.reis@email.com",
		})
	}

	tests := []httpTest{
		{
			name:     "retrieve missing",
			method:   http.MethodGet,
			path:     "/api/alunos/999",
			wantCode: http.StatusNotFound,
			wantData: []byte(`{"error":"Aluno não encontrado"}`),
		},
		{
			name:     "create missing fields",
			method:   http.MethodPost,
			path:     "/api/alunos",
			body:     []byte(`{"email_responsavel":"nope"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "create duplicate enrollment",
			method:   http.MethodPost,
			path:     "/api/alunos",
			body:     newStudent("2024001", 1),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"matricula":"já existe um aluno com esta matrícula"}`),
		},
		{
			name:     "create unknown class",
			method:   http.MethodPost,
			path:     "/api/alunos",
			body:     newStudent("2024014", 999),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"turma_id":"turma inexistente"}`),
		},
		{
			name:     "create",
			method:   http.MethodPost,
			path:     "/api/alunos",
			body:     newStudent("2024014", 1),
			wantCode: http.StatusCreated,
		},
		{
			name:     "delete",
			method:   http.MethodDelete,
			path:     "/api/alunos/14",
			wantCode: http.StatusOK,
			wantData: []byte(`{"message":"Aluno removido com sucesso"}`),
		},
	}
	runHTTPTests(t, env, tests)
}

func TestStudentApi_queryByClass(t *testing.T) {
	env := setup(t)

	rec := env.serve(httpTest{method: http.MethodGet, path: "/api/alunos?turma_id=2"})
	require.Equal(t, http.StatusOK, rec.Code)

	var students []student.Student
	unmarshall(t, rec, &students)
	require.Len(t, students, 2)
	assert.Equal(t, "Diego Ferreira Souza", students[0].Name)
	assert.Equal(t, "6B", students[0].ClassName)
	assert.Equal(t, 2, students[0].TotalOccurrences)
}

func TestStudentApi_record(t *testing.T) {
	env := setup(t)

	rec := env.serve(httpTest{method: http.MethodGet, path: "/api/alunos/4/ficha-completa"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var record metric.StudentRecord
	unmarshall(t, rec, &record)
	assert.Equal(t, "2024004", record.Student.Enrollment)
	assert.Len(t, record.Occurrences, 2)
	assert.Len(t, record.Absences, 2)
	assert.Equal(t, 3.0, record.Student.Index)
	assert.Equal(t, discipline.Critico, record.Student.Classification)

	rec = env.serve(httpTest{method: http.MethodGet, path: "/api/alunos/999/ficha-completa"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func newUploadRequest(t *testing.T, path, filename string, content []byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(importFileField, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req, httptest.NewRecorder()
}

const importHeader = "Matrícula,Nome Completo,Data de Nascimento,Turma ID,Telefone,Email\r\n"

func TestStudentApi_import(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		filename     string
		content      string
		wantCode     int
		wantData     string
		wantImported int
		wantInClass  int
	}{
		{
			name:        "preview",
			path:        "/api/alunos/importar",
			filename:    "alunos.csv",
			content:     importHeader + "2024020,Olívia Ramos,10/02/2012,1,(11) 90000-0000,olivia@email.com\r\n",
			wantCode:    http.StatusOK,
			wantInClass: 3,
		},
		{
			name:         "save",
			path:         "/api/alunos/importar?salvar=true",
			filename:     "alunos.csv",
			content:      importHeader + "2024020,Olívia Ramos,10/02/2012,1,(11) 90000-0000,olivia@email.com\r\n",
			wantCode:     http.StatusOK,
			wantImported: 1,
			wantInClass:  4,
		},
		{
			name:        "row errors",
			path:        "/api/alunos/importar?salvar=true",
			filename:    "alunos.csv",
			content:     importHeader + "2024020,Olívia Ramos,10/02/2012,1,(11) 90000-0000,olivia@email.com\r\n2024021,,10/02/2012,1,,paulo@email.com\r\n",
			wantCode:    http.StatusBadRequest,
			wantData:    `{"error":"Linha 3: campos obrigatórios ausentes: nome, telefone_responsavel"}`,
			wantInClass: 3,
		},
		{
			name:        "missing columns",
			path:        "/api/alunos/importar",
			filename:    "alunos.csv",
			content:     "matricula,nome\r\n2024020,Olívia Ramos\r\n",
			wantCode:    http.StatusBadRequest,
			wantData:    `{"error":"colunas obrigatórias ausentes: data_nascimento, turma_id, telefone_responsavel, email_responsavel"}`,
			wantInClass: 3,
		},
		{
			name:        "pdf is not importable",
			path:        "/api/alunos/importar",
			filename:    "alunos.pdf",
			content:     "%PDF-1.4",
			wantCode:    http.StatusBadRequest,
			wantData:    `{"error":"formato de importação inválido (use xlsx ou csv)"}`,
			wantInClass: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setup(t)

			req, rec := newUploadRequest(t, tt.path, tt.filename, []byte(tt.content))
			env.app.ServeHTTP(rec, req)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			if tt.wantData != "" {
				ok, err := jsonBytesEqual(rec.Body.Bytes(), []byte(tt.wantData))
				require.NoError(t, err)
				assert.True(t, ok, "data = %s; want %s", rec.Body.String(), tt.wantData)
			}
			if tt.wantCode == http.StatusOK {
				var res ImportResponse
				unmarshall(t, rec, &res)
				require.Len(t, res.Students, 1)
				assert.Equal(t, "Olívia Ramos", res.Students[0].Name)
				assert.Equal(t, tt.wantImported, res.Imported)
			}

			rec = env.serve(httpTest{method: http.MethodGet, path: "/api/turmas/1"})
			var cg struct {
				Total int `json:"total_alunos"`
			}
			unmarshall(t, rec, &cg)
			assert.Equal(t, tt.wantInClass, cg.Total)
		})
	}
}

func TestStudentApi_importWithoutFile(t *testing.T) {
	env := setup(t)

	rec := env.serve(httpTest{method: http.MethodPost, path: "/api/alunos/importar"})
	checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: []byte(`{"error":"nenhum arquivo enviado"}`)}, rec)
}
