package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/absence"
	"github.com/LionGab/sistema-disciplinar-jupiara/storage/database"
)

const absenceUniqueConstraint = "faltas_aluno_id_data_falta_key"

type absenceRepository struct {
	db core.DB
}

var _ absence.Repository = (*absenceRepository)(nil) // interface compliance check

func NewAbsenceRepository(db core.DB) *absenceRepository {
	return &absenceRepository{db: db}
}

func absenceQuery() sq.SelectBuilder {
	return psql.
		Select(
			"f.id", "f.aluno_id", "f.data_falta", "f.justificada", "f.motivo", "f.documento_justificativa",
			"f.created_at", "a.nome AS aluno_nome", "a.matricula", "t.nome AS turma_nome",
		).
		From("faltas f").
		Join("alunos a ON a.id = f.aluno_id").
		Join("turmas t ON t.id = a.turma_id").
		OrderBy("f.data_falta DESC", "f.id DESC")
}

func absencePredicates(filter absence.Filter) sq.And {
	preds := sq.And{}
	if filter.StudentID != 0 {
		preds = append(preds, sq.Eq{"f.aluno_id": filter.StudentID})
	}
	if filter.ClassID != 0 {
		preds = append(preds, sq.Eq{"a.turma_id": filter.ClassID})
	}
	if !filter.From.IsZero() {
		preds = append(preds, sq.GtOrEq{"f.data_falta": filter.From})
	}
	if !filter.To.IsZero() {
		preds = append(preds, sq.LtOrEq{"f.data_falta": filter.To})
	}
	if filter.Justified != nil {
		preds = append(preds, sq.Eq{"f.justificada": *filter.Justified})
	}
	return preds
}

func (repo absenceRepository) QueryAbsences(ctx context.Context, filter absence.Filter) ([]absence.Absence, error) {
	absences := []absence.Absence{}
	if err := selectAll(ctx, repo.db, &absences, absenceQuery().Where(absencePredicates(filter))); err != nil {
		return nil, errors.Wrap(err, "selecting absences")
	}
	return absences, nil
}

func (repo absenceRepository) GetAbsence(ctx context.Context, id int) (absence.Absence, error) {
	var a absence.Absence
	if err := getOne(ctx, repo.db, &a, absenceQuery().Where(sq.Eq{"f.id": id})); err != nil {
		return absence.Absence{}, trapNoRowsErr(err, absence.ErrNotFound, "selecting absence")
	}
	return a, nil
}

func (repo absenceRepository) CreateAbsence(ctx context.Context, na absence.NewAbsence) (absence.Absence, error) {
	id, err := insertReturningID(ctx, repo.db, psql.
		Insert("faltas").
		Columns("aluno_id", "data_falta", "justificada", "motivo", "documento_justificativa").
		Values(na.StudentID, na.Date, na.Justified, nullable(na.Reason), nullable(na.Document)))
	switch {
	case database.IsUniqueViolation(err, absenceUniqueConstraint):
		return absence.Absence{}, absence.ErrAlreadyRecorded
	case database.IsForeignKeyViolation(err):
		return absence.Absence{}, absence.ErrUnknownStudent
	case err != nil:
		return absence.Absence{}, errors.Wrap(err, "inserting absence")
	}
	return repo.GetAbsence(ctx, id)
}

func (repo absenceRepository) UpdateAbsence(ctx context.Context, id int, ua absence.UpdateAbsence) (absence.Absence, error) {
	err := execAffecting(ctx, repo.db, psql.
		Update("faltas").
		Set("justificada", ua.Justified).
		Set("motivo", nullable(ua.Reason)).
		Set("documento_justificativa", nullable(ua.Document)).
		Where(sq.Eq{"id": id}), absence.ErrNotFound)
	if err != nil {
		if errors.Is(err, absence.ErrNotFound) {
			return absence.Absence{}, err
		}
		return absence.Absence{}, errors.Wrap(err, "updating absence")
	}
	return repo.GetAbsence(ctx, id)
}

func (repo absenceRepository) DeleteAbsence(ctx context.Context, id int) error {
	err := execAffecting(ctx, repo.db, psql.Delete("faltas").Where(sq.Eq{"id": id}), absence.ErrNotFound)
	if err != nil && !errors.Is(err, absence.ErrNotFound) {
		return errors.Wrap(err, "deleting absence")
	}
	return err
}

func summarizeClassQuery(classID int) sq.SelectBuilder {
	return psql.
		Select(
			"a.id AS aluno_id", "a.nome AS aluno_nome", "a.matricula",
			"COUNT(f.id) AS total_faltas",
			"COUNT(f.id) FILTER (WHERE f.justificada) AS faltas_justificadas",
			"COUNT(f.id) FILTER (WHERE NOT f.justificada) AS faltas_nao_justificadas",
		).
		From("alunos a").
		LeftJoin("faltas f ON f.aluno_id = a.id").
		Where(sq.Eq{"a.turma_id": classID}).
		GroupBy("a.id", "a.nome", "a.matricula").
		OrderBy("a.nome")
}

func (repo absenceRepository) SummarizeClass(ctx context.Context, classID int) ([]absence.StudentSummary, error) {
	summaries := []absence.StudentSummary{}
	if err := selectAll(ctx, repo.db, &summaries, summarizeClassQuery(classID)); err != nil {
		return nil, errors.Wrap(err, "summarizing class absences")
	}
	return summaries, nil
}
