package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/LionGab/sistema-disciplinar-jupiara/core/settings"
)

type settingsApi struct {
	svc      *settings.Service
	validate *validator.Validate
}

func registerSettingsAPI(g *echo.Group, deps Deps) {
	api := settingsApi{svc: deps.SettingsSvc, validate: deps.Validate}

	g.GET("/configuracoes", api.retrieve)
	g.PUT("/configuracoes", api.update)
}

func (api *settingsApi) retrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Current())
}

// update requires the version the client read; a stale version is answered with 409.
func (api *settingsApi) update(ctx echo.Context) error {
	var data settings.Settings
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Settings")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	saved, err := api.svc.Save(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "saving settings")
	}
	return ctx.JSON(http.StatusOK, saved)
}
