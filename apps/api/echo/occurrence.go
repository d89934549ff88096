package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/LionGab/sistema-disciplinar-jupiara/core/occurrence"
)

type occurrenceApi struct {
	svc      *occurrence.Service
	validate *validator.Validate
}

func registerOccurrenceAPI(g *echo.Group, deps Deps) {
	api := occurrenceApi{svc: deps.OccurrenceSvc, validate: deps.Validate}

	og := g.Group("/ocorrencias")
	og.GET("", api.query)
	og.POST("", api.create)
	og.GET("/tipos", api.queryTypes)
	og.GET("/:id", api.retrieve)
	og.PUT("/:id", api.update)
	og.DELETE("/:id", api.destroy)
}

func (api *occurrenceApi) queryTypes(ctx echo.Context) error {
	types, err := api.svc.QueryTypes(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying occurrence types")
	}
	return ctx.JSON(http.StatusOK, types)
}

func (api *occurrenceApi) query(ctx echo.Context) error {
	f, err := bindEventFilter(ctx)
	if err != nil {
		return err
	}
	occurrences, err := api.svc.Query(ctx.Request().Context(), f.occurrence())
	if err != nil {
		return errors.Wrap(err, "querying occurrences")
	}
	return ctx.JSON(http.StatusOK, occurrences)
}

func (api *occurrenceApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	o, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding occurrence by ID")
	}
	return ctx.JSON(http.StatusOK, o)
}

func (api *occurrenceApi) create(ctx echo.Context) error {
	var data occurrence.NewOccurrence
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOccurrence")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	o, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating occurrence")
	}
	return ctx.JSON(http.StatusCreated, o)
}

func (api *occurrenceApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data occurrence.NewOccurrence
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOccurrence")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}
	o, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating occurrence")
	}
	return ctx.JSON(http.StatusOK, o)
}

func (api *occurrenceApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting occurrence")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Ocorrência removida com sucesso"})
}
