package classgroup

import (
	"context"
	"errors"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
)

var (
	// errors
	ErrNotFound   = errors.New("Turma não encontrada")
	ErrNameExists = errors.New("já existe uma turma com este nome")
)

type (
	Repository interface {
		// QueryClassGroups lists every class ordered by name, with its student count.
		QueryClassGroups(ctx context.Context) ([]ClassGroup, error)
		GetClassGroup(ctx context.Context, id int) (ClassGroup, error)
		CreateClassGroup(ctx context.Context, nc NewClassGroup) (ClassGroup, error)
		UpdateClassGroup(ctx context.Context, id int, nc NewClassGroup) (ClassGroup, error)
		// DeleteClassGroup cascades to the class' students and their records.
		DeleteClassGroup(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) trapNameExists(err error) error {
	if errors.Is(err, ErrNameExists) {
		return core.NewValidationError(err, core.FieldError{Field: "nome", Error: err.Error()})
	}
	return err
}

func (svc *Service) QueryAll(ctx context.Context) ([]ClassGroup, error) {
	return svc.repo.QueryClassGroups(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (ClassGroup, error) {
	return svc.repo.GetClassGroup(ctx, id)
}

func (svc *Service) Create(ctx context.Context, nc NewClassGroup) (ClassGroup, error) {
	cg, err := svc.repo.CreateClassGroup(ctx, nc)
	return cg, svc.trapNameExists(err)
}

func (svc *Service) Update(ctx context.Context, id int, nc NewClassGroup) (ClassGroup, error) {
	cg, err := svc.repo.UpdateClassGroup(ctx, id, nc)
	return cg, svc.trapNameExists(err)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteClassGroup(ctx, id)
}
