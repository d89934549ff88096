package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/LionGab/sistema-disciplinar-jupiara/core/classgroup"
)

type classGroupApi struct {
	svc      *classgroup.Service
	validate *validator.Validate
}

func registerClassGroupAPI(g *echo.Group, deps Deps) {
	api := classGroupApi{svc: deps.ClassSvc, validate: deps.Validate}

	cg := g.Group("/turmas")
	cg.GET("", api.query)
	cg.POST("", api.create)
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
}

func (api *classGroupApi) query(ctx echo.Context) error {
	classes, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classGroupApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	cg, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding class by ID")
	}
	return ctx.JSON(http.StatusOK, cg)
}

func (api *classGroupApi) create(ctx echo.Context) error {
	var data classgroup.NewClassGroup
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClassGroup")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	cg, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, cg)
}

func (api *classGroupApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data classgroup.NewClassGroup
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClassGroup")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}
	cg, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating class")
	}
	return ctx.JSON(http.StatusOK, cg)
}

func (api *classGroupApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Turma removida com sucesso"})
}
