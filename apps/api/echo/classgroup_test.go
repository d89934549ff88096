package echoapi

import (
	"net/http"
	"testing"

	"github.com/LionGab/sistema-disciplinar-jupiara/core/classgroup"
)

func TestClassGroupApi(t *testing.T) {
	env := setup(t)

	newClass := func(name string) []byte {
		return marshallObj(t, classgroup.NewClassGroup{Name: name, Year: "3º Ano EM", Shift: "Vespertino"})
	}

	tests := []httpTest{
		{
			name:     "retrieve",
			method:   http.MethodGet,
			path:     "/api/turmas/2",
			wantCode: http.StatusOK,
			wantData: []byte(`{"id":2,"nome":"6B","ano":"6º Ano","turno":"Matutino","total_alunos":2}`),
		},
		{
			name:     "retrieve missing",
			method:   http.MethodGet,
			path:     "/api/turmas/999",
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{classgroup.ErrNotFound.Error()}),
		},
		{
			name:     "retrieve invalid id",
			method:   http.MethodGet,
			path:     "/api/turmas/abc",
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"error":"id inválido"}`),
		},
		{
			name:     "create missing fields",
			method:   http.MethodPost,
			path:     "/api/turmas",
			body:     []byte(`{"nome":"  "}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"nome":"este campo é obrigatório","ano":"este campo é obrigatório","turno":"este campo é obrigatório"}`),
		},
		{
			name:     "create duplicate name",
			method:   http.MethodPost,
			path:     "/api/turmas",
			body:     newClass("6A"),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"nome":"já existe uma turma com este nome"}`),
		},
		{
			name:     "create",
			method:   http.MethodPost,
			path:     "/api/turmas",
			body:     newClass("3B"),
			wantCode: http.StatusCreated,
			wantData: []byte(`{"id":13,"nome":"3B","ano":"3º Ano EM","turno":"Vespertino","total_alunos":0}`),
		},
		{
			name:     "update missing",
			method:   http.MethodPut,
			path:     "/api/turmas/999",
			body:     newClass("3C"),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "delete",
			method:   http.MethodDelete,
			path:     "/api/turmas/13",
			wantCode: http.StatusOK,
			wantData: []byte(`{"message":"Turma removida com sucesso"}`),
		},
		{
			name:     "delete again",
			method:   http.MethodDelete,
			path:     "/api/turmas/13",
			wantCode: http.StatusNotFound,
		},
	}
	runHTTPTests(t, env, tests)
}

func TestClassGroupApi_query(t *testing.T) {
	env := setup(t)

	rec := env.serve(httpTest{method: http.MethodGet, path: "/api/turmas"})
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
	}
	var classes []classgroup.ClassGroup
	unmarshall(t, rec, &classes)

	if len(classes) != 12 {
		t.Fatalf("len(classes) = %v; want 12", len(classes))
	}
	// ordered by name
	if classes[0].Name != "1A" || classes[11].Name != "9B" {
		t.Errorf("classes = %v ... %v; want 1A ... 9B", classes[0].Name, classes[11].Name)
	}
	if classes[0].TotalStudents != 2 {
		t.Errorf("1A total_alunos = %v; want 2", classes[0].TotalStudents)
	}
}

func TestRoutes(t *testing.T) {
	env := setup(t)

	tests := []httpTest{
		{
			name:     "unknown route",
			method:   http.MethodGet,
			path:     "/api/desconhecida",
			wantCode: http.StatusNotFound,
			wantData: []byte(`{"error":"Rota não encontrada"}`),
		},
		{
			name:     "health",
			method:   http.MethodGet,
			path:     "/api/health",
			wantCode: http.StatusOK,
		},
		{
			name:     "trailing slash",
			method:   http.MethodGet,
			path:     "/api/turmas/2/",
			wantCode: http.StatusOK,
		},
	}
	runHTTPTests(t, env, tests)
}
