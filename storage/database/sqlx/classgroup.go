package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/classgroup"
	"github.com/LionGab/sistema-disciplinar-jupiara/storage/database"
)

type classGroupRepository struct {
	db core.DB
}

var _ classgroup.Repository = (*classGroupRepository)(nil) // interface compliance check

func NewClassGroupRepository(db core.DB) *classGroupRepository {
	return &classGroupRepository{db: db}
}

func classGroupQuery() sq.SelectBuilder {
	return psql.
		Select("t.id", "t.nome", "t.ano", "t.turno", "COUNT(a.id) AS total_alunos").
		From("turmas t").
		LeftJoin("alunos a ON a.turma_id = t.id").
		GroupBy("t.id").
		OrderBy("t.nome")
}

func (repo classGroupRepository) trapConstraintErrs(err error, msg string) error {
	if database.IsUniqueViolation(err) {
		return classgroup.ErrNameExists
	}
	return errors.Wrap(err, msg)
}

func (repo classGroupRepository) QueryClassGroups(ctx context.Context) ([]classgroup.ClassGroup, error) {
	classes := []classgroup.ClassGroup{}
	if err := selectAll(ctx, repo.db, &classes, classGroupQuery()); err != nil {
		return nil, errors.Wrap(err, "selecting classes")
	}
	return classes, nil
}

func (repo classGroupRepository) GetClassGroup(ctx context.Context, id int) (classgroup.ClassGroup, error) {
	var c classgroup.ClassGroup
	if err := getOne(ctx, repo.db, &c, classGroupQuery().Where(sq.Eq{"t.id": id})); err != nil {
		return classgroup.ClassGroup{}, trapNoRowsErr(err, classgroup.ErrNotFound, "selecting class")
	}
	return c, nil
}

func (repo classGroupRepository) CreateClassGroup(ctx context.Context, nc classgroup.NewClassGroup) (classgroup.ClassGroup, error) {
	id, err := insertReturningID(ctx, repo.db, psql.
		Insert("turmas").
		Columns("nome", "ano", "turno").
		Values(nc.Name, nc.Year, nc.Shift))
	if err != nil {
		return classgroup.ClassGroup{}, repo.trapConstraintErrs(err, "inserting class")
	}
	return repo.GetClassGroup(ctx, id)
}

func (repo classGroupRepository) UpdateClassGroup(ctx context.Context, id int, nc classgroup.NewClassGroup) (classgroup.ClassGroup, error) {
	err := execAffecting(ctx, repo.db, psql.
		Update("turmas").
		SetMap(map[string]interface{}{"nome": nc.Name, "ano": nc.Year, "turno": nc.Shift}).
		Where(sq.Eq{"id": id}), classgroup.ErrNotFound)
	if err != nil {
		if errors.Is(err, classgroup.ErrNotFound) {
			return classgroup.ClassGroup{}, err
		}
		return classgroup.ClassGroup{}, repo.trapConstraintErrs(err, "updating class")
	}
	return repo.GetClassGroup(ctx, id)
}

func (repo classGroupRepository) DeleteClassGroup(ctx context.Context, id int) error {
	err := execAffecting(ctx, repo.db, psql.Delete("turmas").Where(sq.Eq{"id": id}), classgroup.ErrNotFound)
	if err != nil && !errors.Is(err, classgroup.ErrNotFound) {
		return errors.Wrap(err, "deleting class")
	}
	return err
}
