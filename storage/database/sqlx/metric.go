package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/metric"
)

// Subqueries are built with "?" placeholders; the outer psql builder numbers them.

type metricRepository struct {
	db core.DB
}

var _ metric.Repository = (*metricRepository)(nil) // interface compliance check

func NewMetricRepository(db core.DB) *metricRepository {
	return &metricRepository{db: db}
}

// eventPredicates filters a dated table (alias.dateCol) joined with alunos a.
func eventPredicates(alias, dateCol string, filter metric.Filter) sq.And {
	preds := sq.And{}
	if filter.StudentID != 0 {
		preds = append(preds, sq.Eq{alias + ".aluno_id": filter.StudentID})
	}
	if filter.ClassID != 0 {
		preds = append(preds, sq.Eq{"a.turma_id": filter.ClassID})
	}
	if !filter.From.IsZero() {
		preds = append(preds, sq.GtOrEq{alias + "." + dateCol: filter.From})
	}
	if !filter.To.IsZero() {
		preds = append(preds, sq.LtOrEq{alias + "." + dateCol: filter.To})
	}
	return preds
}

func occurrenceCount(filter metric.Filter, extra ...sq.Sqlizer) sq.SelectBuilder {
	q := sq.Select("COUNT(*)").
		From("ocorrencias o").
		Join("alunos a ON a.id = o.aluno_id").
		Where(eventPredicates("o", "data_ocorrencia", filter))
	for _, e := range extra {
		q = q.Where(e)
	}
	return q
}

func absenceCount(filter metric.Filter, extra ...sq.Sqlizer) sq.SelectBuilder {
	q := sq.Select("COUNT(*)").
		From("faltas f").
		Join("alunos a ON a.id = f.aluno_id").
		Where(eventPredicates("f", "data_falta", filter))
	for _, e := range extra {
		q = q.Where(e)
	}
	return q
}

func overviewQuery(since core.Date, filter metric.Filter) sq.SelectBuilder {
	students := sq.Select("COUNT(*)").From("alunos a")
	if filter.ClassID != 0 {
		students = students.Where(sq.Eq{"a.turma_id": filter.ClassID})
	}
	if filter.StudentID != 0 {
		students = students.Where(sq.Eq{"a.id": filter.StudentID})
	}

	return psql.Select().
		Column(sq.Alias(students, "total_alunos")).
		Column(sq.Alias(occurrenceCount(filter), "total_ocorrencias")).
		Column(sq.Alias(absenceCount(filter), "total_faltas")).
		Column(sq.Alias(absenceCount(filter, sq.Eq{"f.justificada": false}), "faltas_nao_justificadas")).
		Column(sq.Alias(occurrenceCount(filter, sq.GtOrEq{"o.data_ocorrencia": since}), "ocorrencias_ultimo_mes")).
		Column(sq.Alias(absenceCount(filter, sq.GtOrEq{"f.data_falta": since}), "faltas_ultimo_mes"))
}

func (repo metricRepository) Overview(ctx context.Context, since core.Date, filter metric.Filter) (metric.Overview, error) {
	var ov metric.Overview
	if err := getOne(ctx, repo.db, &ov, overviewQuery(since, filter)); err != nil {
		return metric.Overview{}, errors.Wrap(err, "selecting overview")
	}
	return ov, nil
}

// classRollupQuery aggregates each table in its own subquery so that joining
// occurrences and absences never multiplies rows.
func classRollupQuery(filter metric.Filter) (sq.SelectBuilder, error) {
	occ, occArgs, err := sq.
		Select(
			"a.turma_id",
			"COUNT(*) AS total",
			"AVG(tp.pontos) AS media_pontos",
			"SUM(tp.pontos) AS pontos",
			"COUNT(*) FILTER (WHERE tp.gravidade = 'grave') AS graves",
			"COUNT(*) FILTER (WHERE tp.gravidade = 'media') AS medias",
			"COUNT(*) FILTER (WHERE tp.gravidade = 'leve') AS leves",
		).
		From("ocorrencias o").
		Join("alunos a ON a.id = o.aluno_id").
		Join("tipos_ocorrencia tp ON tp.id = o.tipo_ocorrencia_id").
		Where(eventPredicates("o", "data_ocorrencia", filter)).
		GroupBy("a.turma_id").
		ToSql()
	if err != nil {
		return sq.SelectBuilder{}, err
	}
	abs, absArgs, err := sq.
		Select(
			"a.turma_id",
			"COUNT(*) AS total",
			"COUNT(*) FILTER (WHERE NOT f.justificada) AS nao_justificadas",
		).
		From("faltas f").
		Join("alunos a ON a.id = f.aluno_id").
		Where(eventPredicates("f", "data_falta", filter)).
		GroupBy("a.turma_id").
		ToSql()
	if err != nil {
		return sq.SelectBuilder{}, err
	}

	q := psql.
		Select(
			"t.id AS turma_id", "t.nome AS turma_nome", "t.ano", "t.turno",
			"COALESCE(s.total, 0) AS total_alunos",
			"COALESCE(oc.total, 0) AS total_ocorrencias",
			"COALESCE(fa.total, 0) AS total_faltas",
			"COALESCE(fa.nao_justificadas, 0) AS faltas_nao_justificadas",
			"COALESCE(ROUND(oc.media_pontos, 2), 0) AS media_pontos_ocorrencia",
			"COALESCE(oc.pontos, 0) AS pontos_totais",
			"COALESCE(oc.graves, 0) AS ocorrencias_graves",
			"COALESCE(oc.medias, 0) AS ocorrencias_medias",
			"COALESCE(oc.leves, 0) AS ocorrencias_leves",
		).
		From("turmas t").
		LeftJoin("(SELECT turma_id, COUNT(*) AS total FROM alunos GROUP BY turma_id) s ON s.turma_id = t.id").
		LeftJoin("("+occ+") oc ON oc.turma_id = t.id", occArgs...).
		LeftJoin("("+abs+") fa ON fa.turma_id = t.id", absArgs...).
		OrderBy("t.nome")
	if filter.ClassID != 0 {
		q = q.Where(sq.Eq{"t.id": filter.ClassID})
	}
	return q, nil
}

func (repo metricRepository) ClassRollups(ctx context.Context, filter metric.Filter) ([]metric.ClassMetrics, error) {
	q, err := classRollupQuery(filter)
	if err != nil {
		return nil, errors.Wrap(err, "building class rollup")
	}
	rollups := []metric.ClassMetrics{}
	if err = selectAll(ctx, repo.db, &rollups, q); err != nil {
		return nil, errors.Wrap(err, "selecting class rollups")
	}
	return rollups, nil
}

func topStudentsQuery(classID, limit int, filter metric.Filter) sq.SelectBuilder {
	// date bounds belong in the join so students without occurrences stay listed
	on := sq.And{sq.Expr("o.aluno_id = a.id")}
	if !filter.From.IsZero() {
		on = append(on, sq.GtOrEq{"o.data_ocorrencia": filter.From})
	}
	if !filter.To.IsZero() {
		on = append(on, sq.LtOrEq{"o.data_ocorrencia": filter.To})
	}
	onSQL, onArgs, _ := on.ToSql()

	return psql.
		Select(
			"a.id", "a.nome", "a.matricula",
			"COUNT(o.id) AS total_ocorrencias",
			"COALESCE(SUM(tp.pontos), 0) AS pontos_totais",
		).
		From("alunos a").
		LeftJoin("ocorrencias o ON "+onSQL, onArgs...).
		LeftJoin("tipos_ocorrencia tp ON tp.id = o.tipo_ocorrencia_id").
		Where(sq.Eq{"a.turma_id": classID}).
		GroupBy("a.id", "a.nome", "a.matricula").
		OrderBy("pontos_totais DESC", "total_ocorrencias DESC", "a.nome").
		Limit(uint64(limit))
}

func (repo metricRepository) TopStudents(ctx context.Context, classID, limit int, filter metric.Filter) ([]metric.TopStudent, error) {
	top := []metric.TopStudent{}
	if err := selectAll(ctx, repo.db, &top, topStudentsQuery(classID, limit, filter)); err != nil {
		return nil, errors.Wrap(err, "selecting top students")
	}
	return top, nil
}

func occurrencesByTypeQuery(classID int, filter metric.Filter) sq.SelectBuilder {
	filter.ClassID = classID
	return psql.
		Select("tp.nome AS tipo", "tp.gravidade", "COUNT(o.id) AS quantidade").
		From("ocorrencias o").
		Join("alunos a ON a.id = o.aluno_id").
		Join("tipos_ocorrencia tp ON tp.id = o.tipo_ocorrencia_id").
		Where(eventPredicates("o", "data_ocorrencia", filter)).
		GroupBy("tp.nome", "tp.gravidade").
		OrderBy("quantidade DESC", "tp.nome")
}

func (repo metricRepository) OccurrencesByType(ctx context.Context, classID int, filter metric.Filter) ([]metric.TypeCount, error) {
	counts := []metric.TypeCount{}
	if err := selectAll(ctx, repo.db, &counts, occurrencesByTypeQuery(classID, filter)); err != nil {
		return nil, errors.Wrap(err, "selecting occurrences by type")
	}
	return counts, nil
}

// monthlyTrendQuery emits a row for every month of the window, quiet months included.
func monthlyTrendQuery(window metric.Window, filter metric.Filter) (sq.SelectBuilder, error) {
	inWindow := func(alias, col string) sq.And {
		return append(eventPredicates(alias, col, filter),
			sq.GtOrEq{alias + "." + col: window.Start},
			sq.LtOrEq{alias + "." + col: window.End})
	}
	occ, occArgs, err := sq.
		Select("DATE_TRUNC('month', o.data_ocorrencia) AS mes", "COUNT(*) AS total").
		From("ocorrencias o").
		Join("alunos a ON a.id = o.aluno_id").
		Where(inWindow("o", "data_ocorrencia")).
		GroupBy("1").
		ToSql()
	if err != nil {
		return sq.SelectBuilder{}, err
	}
	abs, absArgs, err := sq.
		Select("DATE_TRUNC('month', f.data_falta) AS mes", "COUNT(*) AS total").
		From("faltas f").
		Join("alunos a ON a.id = f.aluno_id").
		Where(inWindow("f", "data_falta")).
		GroupBy("1").
		ToSql()
	if err != nil {
		return sq.SelectBuilder{}, err
	}

	series := sq.Select().Column(sq.Expr(
		"generate_series(?::date, ?::date, '1 month'::interval) AS serie", window.Start, window.End))

	return psql.
		Select(
			"TO_CHAR(s.serie, 'YYYY-MM') AS mes",
			"COALESCE(oc.total, 0) AS ocorrencias",
			"COALESCE(fa.total, 0) AS faltas",
		).
		FromSelect(series, "s").
		LeftJoin("("+occ+") oc ON oc.mes = DATE_TRUNC('month', s.serie)", occArgs...).
		LeftJoin("("+abs+") fa ON fa.mes = DATE_TRUNC('month', s.serie)", absArgs...).
		OrderBy("s.serie"), nil
}

func (repo metricRepository) MonthlyTrend(ctx context.Context, window metric.Window, filter metric.Filter) ([]metric.MonthCount, error) {
	q, err := monthlyTrendQuery(window, filter)
	if err != nil {
		return nil, errors.Wrap(err, "building monthly trend")
	}
	counts := []metric.MonthCount{}
	if err = selectAll(ctx, repo.db, &counts, q); err != nil {
		return nil, errors.Wrap(err, "selecting monthly trend")
	}
	return counts, nil
}
