package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/occurrence"
	"github.com/LionGab/sistema-disciplinar-jupiara/storage/database"
)

type occurrenceRepository struct {
	db core.DB
}

var _ occurrence.Repository = (*occurrenceRepository)(nil) // interface compliance check

func NewOccurrenceRepository(db core.DB) *occurrenceRepository {
	return &occurrenceRepository{db: db}
}

// tipos_ocorrencia is aliased tp: "to" is reserved.
func occurrenceQuery() sq.SelectBuilder {
	return psql.
		Select(
			"o.id", "o.aluno_id", "o.tipo_ocorrencia_id", "o.data_ocorrencia",
			"TO_CHAR(o.hora_ocorrencia, 'HH24:MI') AS hora_ocorrencia",
			"o.descricao", "o.medidas_tomadas", "o.responsavel_registro", "o.status",
			"o.created_at", "o.updated_at",
			"a.nome AS aluno_nome", "a.matricula", "t.nome AS turma_nome", "a.email_responsavel",
			"tp.nome AS tipo_nome", "tp.gravidade", "tp.pontos",
		).
		From("ocorrencias o").
		Join("alunos a ON a.id = o.aluno_id").
		Join("turmas t ON t.id = a.turma_id").
		Join("tipos_ocorrencia tp ON tp.id = o.tipo_ocorrencia_id").
		OrderBy("o.data_ocorrencia DESC", "o.hora_ocorrencia DESC NULLS LAST", "o.id DESC")
}

// occurrencePredicates composes the optional filters.
func occurrencePredicates(filter occurrence.Filter) sq.And {
	preds := sq.And{}
	if filter.StudentID != 0 {
		preds = append(preds, sq.Eq{"o.aluno_id": filter.StudentID})
	}
	if filter.ClassID != 0 {
		preds = append(preds, sq.Eq{"a.turma_id": filter.ClassID})
	}
	if !filter.From.IsZero() {
		preds = append(preds, sq.GtOrEq{"o.data_ocorrencia": filter.From})
	}
	if !filter.To.IsZero() {
		preds = append(preds, sq.LtOrEq{"o.data_ocorrencia": filter.To})
	}
	return preds
}

func occurrenceValues(no occurrence.NewOccurrence) map[string]interface{} {
	return map[string]interface{}{
		"aluno_id":             no.StudentID,
		"tipo_ocorrencia_id":   no.TypeID,
		"data_ocorrencia":      no.Date,
		"hora_ocorrencia":      nullable(no.Time),
		"descricao":            no.Description,
		"medidas_tomadas":      nullable(no.Measures),
		"responsavel_registro": no.Recorder,
		"status":               no.Status,
	}
}

func (repo occurrenceRepository) trapConstraintErrs(err error, msg string) error {
	if database.IsForeignKeyViolation(err) {
		return occurrence.ErrUnknownReference
	}
	return errors.Wrap(err, msg)
}

func (repo occurrenceRepository) QueryTypes(ctx context.Context) ([]occurrence.Type, error) {
	types := []occurrence.Type{}
	q := psql.
		Select("id", "nome", "gravidade", "pontos").
		From("tipos_ocorrencia").
		OrderBy("CASE gravidade WHEN 'leve' THEN 1 WHEN 'media' THEN 2 ELSE 3 END", "nome")
	if err := selectAll(ctx, repo.db, &types, q); err != nil {
		return nil, errors.Wrap(err, "selecting occurrence types")
	}
	return types, nil
}

func (repo occurrenceRepository) CreateType(ctx context.Context, nt occurrence.NewType) (occurrence.Type, error) {
	id, err := insertReturningID(ctx, repo.db, psql.
		Insert("tipos_ocorrencia").
		Columns("nome", "gravidade", "pontos").
		Values(nt.Name, nt.Severity, nt.Points))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return occurrence.Type{}, occurrence.ErrTypeNameExists
		}
		return occurrence.Type{}, errors.Wrap(err, "inserting occurrence type")
	}
	return occurrence.Type{ID: id, Name: nt.Name, Severity: nt.Severity, Points: nt.Points}, nil
}

func (repo occurrenceRepository) QueryOccurrences(ctx context.Context, filter occurrence.Filter) ([]occurrence.Occurrence, error) {
	occurrences := []occurrence.Occurrence{}
	q := occurrenceQuery().Where(occurrencePredicates(filter))
	if err := selectAll(ctx, repo.db, &occurrences, q); err != nil {
		return nil, errors.Wrap(err, "selecting occurrences")
	}
	return occurrences, nil
}

func (repo occurrenceRepository) GetOccurrence(ctx context.Context, id int) (occurrence.Occurrence, error) {
	var o occurrence.Occurrence
	if err := getOne(ctx, repo.db, &o, occurrenceQuery().Where(sq.Eq{"o.id": id})); err != nil {
		return occurrence.Occurrence{}, trapNoRowsErr(err, occurrence.ErrNotFound, "selecting occurrence")
	}
	return o, nil
}

func (repo occurrenceRepository) CreateOccurrence(ctx context.Context, no occurrence.NewOccurrence) (occurrence.Occurrence, error) {
	id, err := insertReturningID(ctx, repo.db, psql.Insert("ocorrencias").SetMap(occurrenceValues(no)))
	if err != nil {
		return occurrence.Occurrence{}, repo.trapConstraintErrs(err, "inserting occurrence")
	}
	return repo.GetOccurrence(ctx, id)
}

func (repo occurrenceRepository) UpdateOccurrence(ctx context.Context, id int, no occurrence.NewOccurrence) (occurrence.Occurrence, error) {
	err := execAffecting(ctx, repo.db, psql.
		Update("ocorrencias").
		SetMap(occurrenceValues(no)).
		Set("updated_at", nowUTC).
		Where(sq.Eq{"id": id}), occurrence.ErrNotFound)
	if err != nil {
		if errors.Is(err, occurrence.ErrNotFound) {
			return occurrence.Occurrence{}, err
		}
		return occurrence.Occurrence{}, repo.trapConstraintErrs(err, "updating occurrence")
	}
	return repo.GetOccurrence(ctx, id)
}

func (repo occurrenceRepository) DeleteOccurrence(ctx context.Context, id int) error {
	err := execAffecting(ctx, repo.db, psql.Delete("ocorrencias").Where(sq.Eq{"id": id}), occurrence.ErrNotFound)
	if err != nil && !errors.Is(err, occurrence.ErrNotFound) {
		return errors.Wrap(err, "deleting occurrence")
	}
	return err
}
