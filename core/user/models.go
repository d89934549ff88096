package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
)

// User is an operator (usuario) allowed to sign in to the API.
type User struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"nome" db:"nome"`
	Rank         string    `json:"patente" db:"patente"`
	Email        string    `json:"email" db:"email"`
	IsActive     bool      `json:"ativo" db:"ativo"`
	PasswordHash string    `json:"-" db:"senha"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
	LastLogin    null.Time `json:"last_login" db:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(pwd))
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string `json:"nome" validate:"required,max=255"`
	Rank            string `json:"patente" validate:"required,max=50"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"senha" validate:"required"`
	PasswordConfirm string `json:"senha_confirmacao" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Rank = core.CleanString(nu.Rank)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	return validate.Struct(nu)
}
