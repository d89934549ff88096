package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/LionGab/sistema-disciplinar-jupiara/core/metric"
)

type metricApi struct {
	svc *metric.Service
}

func registerMetricAPI(g *echo.Group, deps Deps) {
	api := metricApi{svc: deps.MetricSvc}

	mg := g.Group("/metricas")
	mg.GET("/geral", api.overview)
	mg.GET("/por-turma", api.byClass)
	mg.GET("/turma/:id", api.classDetail)
	mg.GET("/evolucao-mensal", api.monthlyTrend)
}

func (api *metricApi) overview(ctx echo.Context) error {
	f, err := bindEventFilter(ctx)
	if err != nil {
		return err
	}
	ov, err := api.svc.Overview(ctx.Request().Context(), f.metric())
	if err != nil {
		return errors.Wrap(err, "computing overview")
	}
	return ctx.JSON(http.StatusOK, ov)
}

func (api *metricApi) byClass(ctx echo.Context) error {
	f, err := bindEventFilter(ctx)
	if err != nil {
		return err
	}
	rollups, err := api.svc.ByClass(ctx.Request().Context(), f.metric())
	if err != nil {
		return errors.Wrap(err, "computing class metrics")
	}
	return ctx.JSON(http.StatusOK, rollups)
}

func (api *metricApi) classDetail(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	f, err := bindEventFilter(ctx)
	if err != nil {
		return err
	}
	detail, err := api.svc.ClassDetail(ctx.Request().Context(), id, f.metric())
	if err != nil {
		return errors.Wrap(err, "computing class detail")
	}
	return ctx.JSON(http.StatusOK, detail)
}

func (api *metricApi) monthlyTrend(ctx echo.Context) error {
	f, err := bindEventFilter(ctx)
	if err != nil {
		return err
	}
	trend, err := api.svc.MonthlyTrend(ctx.Request().Context(), f.metric())
	if err != nil {
		return errors.Wrap(err, "computing monthly trend")
	}
	return ctx.JSON(http.StatusOK, trend)
}
