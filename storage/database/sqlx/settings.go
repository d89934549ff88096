package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/settings"
)

// configuracoes holds a single row (id = 1).
type settingsRepository struct {
	db core.DB
}

var _ settings.Repository = (*settingsRepository)(nil) // interface compliance check

func NewSettingsRepository(db core.DB) *settingsRepository {
	return &settingsRepository{db: db}
}

var settingsColumns = []string{
	"nome_escola", "ano_letivo", "periodo", "oficial_responsavel", "patente", "meta_indice_disciplinar",
	"email_notificacoes", "dias_alertas", "logo_escola", "endereco", "telefone", "cnpj", "version", "updated_at",
}

func settingsValues(s settings.Settings) []interface{} {
	return []interface{}{
		s.SchoolName, s.SchoolYear, s.Period, s.OfficerName, s.OfficerRank, s.IndexTarget,
		s.NotificationEmail, s.AlertDays, s.Logo, s.Address, s.Phone, s.CNPJ, s.Version, s.UpdatedAt.UTC(),
	}
}

func (repo settingsRepository) GetSettings(ctx context.Context) (settings.Settings, error) {
	var s settings.Settings
	q := psql.Select(settingsColumns...).From("configuracoes").Where(sq.Eq{"id": 1})
	if err := getOne(ctx, repo.db, &s, q); err != nil {
		return settings.Settings{}, trapNoRowsErr(err, settings.ErrNotFound, "selecting settings")
	}
	return s, nil
}

// SaveSettings is a compare-and-swap on the version column.
func (repo settingsRepository) SaveSettings(ctx context.Context, s settings.Settings, prevVersion int) (settings.Settings, error) {
	var b sq.Sqlizer
	if prevVersion == 0 {
		b = psql.
			Insert("configuracoes").
			Columns(settingsColumns...).
			Values(settingsValues(s)...).
			Suffix("ON CONFLICT (id) DO NOTHING")
	} else {
		set := make(map[string]interface{}, len(settingsColumns))
		for i, v := range settingsValues(s) {
			set[settingsColumns[i]] = v
		}
		b = psql.
			Update("configuracoes").
			SetMap(set).
			Where(sq.Eq{"id": 1, "version": prevVersion})
	}

	if err := execAffecting(ctx, repo.db, b, settings.ErrStaleVersion); err != nil {
		if errors.Is(err, settings.ErrStaleVersion) {
			return settings.Settings{}, err
		}
		return settings.Settings{}, errors.Wrap(err, "saving settings")
	}
	return s, nil
}
