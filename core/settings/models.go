package settings

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
)

// Settings is the institution configuration record. Version grows by one on every save.
type Settings struct {
	SchoolName        string    `json:"nomeEscola" db:"nome_escola" validate:"required,max=255"`
	SchoolYear        string    `json:"anoLetivo" db:"ano_letivo" validate:"max=10"`
	Period            string    `json:"periodo" db:"periodo" validate:"max=50"`
	OfficerName       string    `json:"oficialResponsavel" db:"oficial_responsavel" validate:"max=255"`
	OfficerRank       string    `json:"patente" db:"patente" validate:"max=50"`
	IndexTarget       float64   `json:"metaIndiceDisciplinar" db:"meta_indice_disciplinar" validate:"gte=0"`
	NotificationEmail string    `json:"emailNotificacoes" db:"email_notificacoes" validate:"omitempty,email"`
	AlertDays         int       `json:"diasAlertas" db:"dias_alertas" validate:"gte=0,lte=365"`
	Logo              string    `json:"logoEscola" db:"logo_escola"`
	Address           string    `json:"endereco" db:"endereco"`
	Phone             string    `json:"telefone" db:"telefone" validate:"max=20"`
	CNPJ              string    `json:"cnpj" db:"cnpj" validate:"max=18"`
	Version           int       `json:"version" db:"version"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// Defaults is the record stored on first start.
func Defaults() Settings {
	return Settings{
		SchoolName:        "Escola Cívico Militar Jupiara",
		SchoolYear:        "2024",
		Period:            "2º Semestre",
		OfficerName:       "João Silva",
		OfficerRank:       "Tenente",
		IndexTarget:       1.0,
		NotificationEmail: "tenente@escola.mil.br",
		AlertDays:         7,
		Address:           "Rua Principal, 123 - Centro - Jupiara/TO",
		Phone:             "(63) 3333-4444",
		CNPJ:              "12.345.678/0001-90",
	}
}

func (s *Settings) Validate(validate *validator.Validate) error {
	s.SchoolName = core.CleanString(s.SchoolName)
	s.SchoolYear = core.CleanString(s.SchoolYear)
	s.Period = core.CleanString(s.Period)
	s.OfficerName = core.CleanString(s.OfficerName)
	s.OfficerRank = core.CleanString(s.OfficerRank)
	s.NotificationEmail = core.CleanString(s.NotificationEmail, true /* lower */)
	s.Address = core.CleanString(s.Address)
	s.Phone = core.CleanString(s.Phone)
	s.CNPJ = core.CleanString(s.CNPJ)
	return validate.Struct(s)
}
