package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LionGab/sistema-disciplinar-jupiara/core/discipline"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/metric"
)

func TestMetricApi_overview(t *testing.T) {
	env := setup(t)

	rec := env.serve(httpTest{method: http.MethodGet, path: "/api/metricas/geral"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var ov metric.Overview
	unmarshall(t, rec, &ov)
	assert.Equal(t, 13, ov.TotalStudents)
	assert.Equal(t, 8, ov.TotalOccurrences)
	assert.Equal(t, 12, ov.TotalAbsences)
	assert.Equal(t, 6, ov.UnjustifiedAbsences)
	assert.Equal(t, discipline.Atencao, ov.Classification)
}

func TestMetricApi_byClass(t *testing.T) {
	env := setup(t)

	rec := env.serve(httpTest{method: http.MethodGet, path: "/api/metricas/por-turma"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rollups []metric.ClassMetrics
	unmarshall(t, rec, &rollups)
	require.Len(t, rollups, 12)

	byName := make(map[string]metric.ClassMetrics, len(rollups))
	for _, r := range rollups {
		byName[r.ClassName] = r
	}
	assert.Equal(t, 1.5, byName["6B"].Index)
	assert.Equal(t, discipline.Atencao, byName["6B"].Classification)
	assert.Equal(t, 0.0, byName["9B"].Index)
	assert.Equal(t, discipline.Exemplar, byName["9B"].Classification)
}

func TestMetricApi_classDetail(t *testing.T) {
	env := setup(t)

	tests := []httpTest{
		{
			name:     "missing class",
			method:   http.MethodGet,
			path:     "/api/metricas/turma/999",
			wantCode: http.StatusNotFound,
			wantData: []byte(`{"error":"Turma não encontrada"}`),
		},
		{
			name:     "invalid id",
			method:   http.MethodGet,
			path:     "/api/metricas/turma/zero",
			wantCode: http.StatusBadRequest,
		},
	}
	runHTTPTests(t, env, tests)

	rec := env.serve(httpTest{method: http.MethodGet, path: "/api/metricas/turma/2"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var detail metric.ClassDetail
	unmarshall(t, rec, &detail)
	assert.Equal(t, "6B", detail.Metrics.ClassName)
	require.NotEmpty(t, detail.TopStudents)
	assert.Equal(t, "Diego Ferreira Souza", detail.TopStudents[0].Name)
	assert.Len(t, detail.ByType, 2)
}

func TestMetricApi_monthlyTrend(t *testing.T) {
	env := setup(t)

	rec := env.serve(httpTest{method: http.MethodGet, path: "/api/metricas/evolucao-mensal"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var months []metric.MonthCount
	unmarshall(t, rec, &months)
	require.Len(t, months, env.conf.Metrics.TrendMonths)
	for i := 1; i < len(months); i++ {
		assert.Less(t, months[i-1].Month, months[i].Month)
	}
}
