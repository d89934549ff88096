package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/student"
	"github.com/LionGab/sistema-disciplinar-jupiara/storage/database"
)

type studentRepository struct {
	db core.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db core.DB) *studentRepository {
	return &studentRepository{db: db}
}

// studentQuery joins each student with its class and per-student counts. The
// counts come from grouped subqueries so occurrences and absences never multiply.
func studentQuery() sq.SelectBuilder {
	return psql.
		Select(
			"a.id", "a.matricula", "a.nome", "a.data_nascimento", "a.turma_id", "t.nome AS turma_nome",
			"a.telefone_responsavel", "a.email_responsavel", "a.endereco", "a.observacoes",
			"a.created_at", "a.updated_at",
			"COALESCE(oc.total_ocorrencias, 0) AS total_ocorrencias",
			"COALESCE(oc.pontos_totais, 0) AS pontos_totais",
			"COALESCE(f.total_faltas, 0) AS total_faltas",
			"COALESCE(f.faltas_nao_justificadas, 0) AS faltas_nao_justificadas",
		).
		From("alunos a").
		Join("turmas t ON t.id = a.turma_id").
		LeftJoin(`(
			SELECT o.aluno_id, COUNT(*) AS total_ocorrencias, SUM(tp.pontos) AS pontos_totais
			FROM ocorrencias o JOIN tipos_ocorrencia tp ON tp.id = o.tipo_ocorrencia_id
			GROUP BY o.aluno_id
		) oc ON oc.aluno_id = a.id`).
		LeftJoin(`(
			SELECT aluno_id, COUNT(*) AS total_faltas,
				COUNT(*) FILTER (WHERE NOT justificada) AS faltas_nao_justificadas
			FROM faltas
			GROUP BY aluno_id
		) f ON f.aluno_id = a.id`).
		OrderBy("t.nome", "a.nome")
}

func studentValues(ns student.NewStudent) map[string]interface{} {
	return map[string]interface{}{
		"matricula":            ns.Enrollment,
		"nome":                 ns.Name,
		"data_nascimento":      ns.BirthDate,
		"turma_id":             ns.ClassID,
		"telefone_responsavel": nullable(ns.GuardianPhone),
		"email_responsavel":    nullable(ns.GuardianEmail),
		"endereco":             nullable(ns.Address),
		"observacoes":          nullable(ns.Notes),
	}
}

func (repo studentRepository) trapConstraintErrs(err error, msg string) error {
	switch {
	case database.IsUniqueViolation(err, "alunos_matricula_key"):
		return student.ErrEnrollmentExists
	case database.IsForeignKeyViolation(err, "alunos_turma_id_fkey"):
		return student.ErrUnknownClass
	}
	return errors.Wrap(err, msg)
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter student.Filter) ([]student.Student, error) {
	q := studentQuery()
	if filter.ClassID != 0 {
		q = q.Where(sq.Eq{"a.turma_id": filter.ClassID})
	}
	students := []student.Student{}
	if err := selectAll(ctx, repo.db, &students, q); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}
	return students, nil
}

func (repo studentRepository) GetStudent(ctx context.Context, id int) (student.Student, error) {
	var s student.Student
	if err := getOne(ctx, repo.db, &s, studentQuery().Where(sq.Eq{"a.id": id})); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "selecting student")
	}
	return s, nil
}

func insertStudent(ctx context.Context, exec core.DBExecutor, ns student.NewStudent) (int, error) {
	return insertReturningID(ctx, exec, psql.Insert("alunos").SetMap(studentValues(ns)))
}

func (repo studentRepository) CreateStudent(ctx context.Context, ns student.NewStudent) (student.Student, error) {
	id, err := insertStudent(ctx, repo.db, ns)
	if err != nil {
		return student.Student{}, repo.trapConstraintErrs(err, "inserting student")
	}
	return repo.GetStudent(ctx, id)
}

func (repo studentRepository) CreateStudents(ctx context.Context, nss []student.NewStudent) ([]student.Student, error) {
	ids := make([]int, 0, len(nss))
	err := inTx(ctx, repo.db, func(tx core.DBExecutor) error {
		for i, ns := range nss {
			id, err := insertStudent(ctx, tx, ns)
			if err != nil {
				return errors.Wrapf(repo.trapConstraintErrs(err, "inserting student"), "aluno %s (item %d)", ns.Enrollment, i+1)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	students := []student.Student{}
	if err = selectAll(ctx, repo.db, &students, studentQuery().Where(sq.Eq{"a.id": ids})); err != nil {
		return nil, errors.Wrap(err, "selecting created students")
	}
	return students, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, id int, ns student.NewStudent) (student.Student, error) {
	err := execAffecting(ctx, repo.db, psql.
		Update("alunos").
		SetMap(studentValues(ns)).
		Set("updated_at", nowUTC).
		Where(sq.Eq{"id": id}), student.ErrNotFound)
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			return student.Student{}, err
		}
		return student.Student{}, repo.trapConstraintErrs(err, "updating student")
	}
	return repo.GetStudent(ctx, id)
}

func (repo studentRepository) DeleteStudent(ctx context.Context, id int) error {
	err := execAffecting(ctx, repo.db, psql.Delete("alunos").Where(sq.Eq{"id": id}), student.ErrNotFound)
	if err != nil && !errors.Is(err, student.ErrNotFound) {
		return errors.Wrap(err, "deleting student")
	}
	return err
}
