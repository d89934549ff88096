package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/report"
)

type ExportFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type reportApi struct {
	svc    *report.Service
	logger core.Logger
}

func registerReportAPI(g *echo.Group, deps Deps) {
	api := reportApi{svc: deps.ReportSvc, logger: deps.Logger}

	g.GET("/relatorios/:tipo", api.export)
}

// export streams the file as an attachment. Rendering is done in memory first,
// so a failure never sends a partial file.
func (api *reportApi) export(ctx echo.Context) error {
	kind, err := report.ParseKind(ctx.Param("tipo"))
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(ctx.QueryParam(formatParam))
	if err != nil {
		return err
	}
	f, err := bindEventFilter(ctx)
	if err != nil {
		return err
	}

	res, err := api.svc.Export(ctx.Request().Context(), kind, format, f.report())
	if err != nil {
		return errors.Wrap(err, "loading report data")
	}
	if !res.Success {
		api.logger.Error(fmt.Sprintf("rendering %s: %v", res.Filename, res.Err), res.Err)
		return ctx.JSON(http.StatusInternalServerError, ExportFailure{Error: res.Err.Error()})
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.Filename))
	return ctx.Blob(http.StatusOK, res.ContentType, res.Content)
}
