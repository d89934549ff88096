package sqlxrepos

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/absence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/metric"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/occurrence"
)

func TestOccurrenceFilters(t *testing.T) {
	tests := []struct {
		name     string
		filter   occurrence.Filter
		wantSQL  []string
		wantArgs []interface{}
	}{
		{
			name:    "no filter",
			filter:  occurrence.Filter{},
			wantSQL: []string{"WHERE (1=1)"},
		},
		{
			name: "all filters",
			filter: occurrence.Filter{
				StudentID: 4,
				ClassID:   1,
				From:      core.NewDate(2024, 8, 1),
				To:        core.NewDate(2024, 8, 31),
			},
			wantSQL: []string{
				"o.aluno_id = $1", "a.turma_id = $2", "o.data_ocorrencia >= $3", "o.data_ocorrencia <= $4",
				"ORDER BY o.data_ocorrencia DESC, o.hora_ocorrencia DESC NULLS LAST",
			},
			// dates reach the driver through their Valuer
			wantArgs: []interface{}{4, 1, "2024-08-01", "2024-08-31"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, args, err := occurrenceQuery().Where(occurrencePredicates(tt.filter)).ToSql()
			require.NoError(t, err)
			for _, want := range tt.wantSQL {
				assert.Contains(t, q, want)
			}
			assert.Equal(t, len(tt.wantArgs), len(args))
			if len(tt.wantArgs) > 0 {
				assert.Equal(t, tt.wantArgs, args)
			}
			assert.Contains(t, q, "tipos_ocorrencia tp")
		})
	}
}

func TestAbsenceFilters(t *testing.T) {
	justified := false
	q, args, err := absenceQuery().Where(absencePredicates(absence.Filter{ClassID: 2, Justified: &justified})).ToSql()
	require.NoError(t, err)
	assert.Contains(t, q, "a.turma_id = $1")
	assert.Contains(t, q, "f.justificada = $2")
	assert.Equal(t, []interface{}{2, false}, args)
	assert.Contains(t, q, "ORDER BY f.data_falta DESC")
}

func TestSummarizeClassQuery(t *testing.T) {
	q, args, err := summarizeClassQuery(3).ToSql()
	require.NoError(t, err)
	assert.Contains(t, q, "LEFT JOIN faltas f ON f.aluno_id = a.id")
	assert.Contains(t, q, "ORDER BY a.nome")
	assert.Equal(t, []interface{}{3}, args)
}

func TestStudentQueryOrdering(t *testing.T) {
	q, _, err := studentQuery().ToSql()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(q, "ORDER BY t.nome, a.nome"), q)
	assert.Contains(t, q, "FILTER (WHERE NOT justificada)")
}

func TestClassRollupPlaceholders(t *testing.T) {
	filter := metric.Filter{ClassID: 1, From: core.NewDate(2024, 1, 1), To: core.NewDate(2024, 12, 31)}
	b, err := classRollupQuery(filter)
	require.NoError(t, err)
	q, args, err := b.ToSql()
	require.NoError(t, err)

	assert.NotContains(t, q, "?")
	// class + bounds for occurrences, class + bounds for absences, then the outer class id
	require.Len(t, args, 7)
	assert.Contains(t, q, "$7")
	assert.NotContains(t, q, "$8")
	assert.Equal(t, 1, args[6])
	assert.Contains(t, q, "FROM turmas t LEFT JOIN (SELECT turma_id, COUNT(*) AS total FROM alunos GROUP BY turma_id) s")
	assert.Contains(t, q, ") oc ON oc.turma_id = t.id")
	assert.Contains(t, q, ") fa ON fa.turma_id = t.id")
	assert.Contains(t, q, "WHERE t.id = $7")
	assert.Contains(t, q, "ORDER BY t.nome")
}

func TestMonthlyTrendQuery(t *testing.T) {
	window := metric.TrailingMonths(time.Date(2024, time.September, 10, 0, 0, 0, 0, time.UTC), 12)
	b, err := monthlyTrendQuery(window, metric.Filter{ClassID: 5})
	require.NoError(t, err)
	q, args, err := b.ToSql()
	require.NoError(t, err)

	assert.Contains(t, q, "generate_series($1::date, $2::date, '1 month'::interval)")
	assert.NotContains(t, q, "?")
	assert.Equal(t, window.Start, args[0])
	assert.Equal(t, window.End, args[1])
	// series bounds + (class, start, end) twice
	assert.Len(t, args, 8)
}

func TestTopStudentsQuery(t *testing.T) {
	q, args, err := topStudentsQuery(1, 5, metric.Filter{From: core.NewDate(2024, 8, 1)}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, q, "LEFT JOIN ocorrencias o ON (o.aluno_id = a.id AND o.data_ocorrencia >= $1)")
	assert.Contains(t, q, "a.turma_id = $2")
	assert.Contains(t, q, "LIMIT 5")
	assert.Equal(t, []interface{}{"2024-08-01", 1}, args)
}

func TestOverviewQuery(t *testing.T) {
	q, args, err := overviewQuery(core.NewDate(2024, 8, 16), metric.Filter{}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, q, "AS total_alunos")
	assert.Contains(t, q, "AS faltas_ultimo_mes")
	assert.NotContains(t, q, "?")
	assert.Len(t, args, 3) // justificada flag + two "since" bounds
}
