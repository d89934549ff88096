package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/LionGab/sistema-disciplinar-jupiara/core/absence"
)

type absenceApi struct {
	svc      *absence.Service
	validate *validator.Validate
}

func registerAbsenceAPI(g *echo.Group, deps Deps) {
	api := absenceApi{svc: deps.AbsenceSvc, validate: deps.Validate}

	ag := g.Group("/faltas")
	ag.GET("", api.query)
	ag.POST("", api.create)
	ag.GET("/resumo-turma/:turma_id", api.classSummary)
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
}

func (api *absenceApi) query(ctx echo.Context) error {
	f, err := bindEventFilter(ctx)
	if err != nil {
		return err
	}
	absences, err := api.svc.Query(ctx.Request().Context(), f.absence())
	if err != nil {
		return errors.Wrap(err, "querying absences")
	}
	return ctx.JSON(http.StatusOK, absences)
}

func (api *absenceApi) classSummary(ctx echo.Context) error {
	classID, err := pathID(ctx, classIDParam)
	if err != nil {
		return err
	}
	summary, err := api.svc.SummarizeClass(ctx.Request().Context(), classID)
	if err != nil {
		return errors.Wrap(err, "summarizing class absences")
	}
	return ctx.JSON(http.StatusOK, summary)
}

func (api *absenceApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	a, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding absence by ID")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *absenceApi) create(ctx echo.Context) error {
	var data absence.NewAbsence
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAbsence")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	a, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating absence")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *absenceApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data absence.UpdateAbsence
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAbsence")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}
	a, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating absence")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *absenceApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting absence")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Falta removida com sucesso"})
}
