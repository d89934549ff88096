package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/user"
	"github.com/LionGab/sistema-disciplinar-jupiara/storage/database"
)

type userRepository struct {
	db core.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db core.DB) *userRepository {
	return &userRepository{db: db}
}

func userQuery() sq.SelectBuilder {
	return psql.
		Select("id", "nome", "patente", "email", "ativo", "senha", "created_at", "last_login").
		From("usuarios")
}

func (repo userRepository) GetUser(ctx context.Context, id int) (user.User, error) {
	var u user.User
	if err := getOne(ctx, repo.db, &u, userQuery().Where(sq.Eq{"id": id})); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "selecting user")
	}
	return u, nil
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	if err := getOne(ctx, repo.db, &u, userQuery().Where("LOWER(email) = LOWER(?)", email)); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "selecting user")
	}
	return u, nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	id, err := insertReturningID(ctx, repo.db, psql.
		Insert("usuarios").
		Columns("nome", "patente", "email", "senha", "ativo").
		Values(usr.Name, usr.Rank, usr.Email, usr.PasswordHash, usr.IsActive))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return repo.GetUser(ctx, id)
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	err := execAffecting(ctx, repo.db, psql.
		Update("usuarios").
		SetMap(map[string]interface{}{
			"nome":       usr.Name,
			"patente":    usr.Rank,
			"ativo":      usr.IsActive,
			"senha":      usr.PasswordHash,
			"last_login": usr.LastLogin,
		}).
		Where(sq.Eq{"id": usr.ID}), user.ErrNotFound)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, err
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return repo.GetUser(ctx, usr.ID)
}
