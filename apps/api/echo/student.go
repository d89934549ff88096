package echoapi

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/metric"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/report"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/student"
)

const (
	importFileField = "arquivo"
	importSaveParam = "salvar"
)

type studentApi struct {
	svc       *student.Service
	metricSvc *metric.Service
	reportSvc *report.Service
	validate  *validator.Validate
}

func registerStudentAPI(g *echo.Group, deps Deps) {
	api := studentApi{svc: deps.StudentSvc, metricSvc: deps.MetricSvc, reportSvc: deps.ReportSvc, validate: deps.Validate}

	sg := g.Group("/alunos")
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.POST("/importar", api.importFile)
	sg.GET("/:id", api.retrieve)
	sg.GET("/:id/ficha-completa", api.record)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.destroy)
}

func (api *studentApi) query(ctx echo.Context) error {
	f, err := bindEventFilter(ctx)
	if err != nil {
		return err
	}
	students, err := api.svc.Query(ctx.Request().Context(), f.student())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	s, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	return ctx.JSON(http.StatusOK, s)
}

// record answers the student with its occurrences and absences, fetched concurrently.
func (api *studentApi) record(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	rec, err := api.metricSvc.StudentRecord(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "loading student record")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	s, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *studentApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data student.NewStudent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}
	s, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Aluno removido com sucesso"})
}

type ImportResponse struct {
	Students []student.NewStudent `json:"alunos"`
	Imported int                  `json:"importados"`
}

// importFile validates an uploaded sheet; with salvar=true every row is stored, or none.
func (api *studentApi) importFile(ctx echo.Context) error {
	fh, err := ctx.FormFile(importFileField)
	if err != nil {
		return errMissingFile
	}
	format, err := report.ParseFormat(strings.TrimPrefix(filepath.Ext(fh.Filename), "."))
	if err != nil || format == report.PDF {
		return core.Invalid("formato de importação inválido (use xlsx ou csv)")
	}
	save, _ := strconv.ParseBool(ctx.QueryParam(importSaveParam))
	if !save {
		save, _ = strconv.ParseBool(ctx.FormValue(importSaveParam))
	}

	file, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer file.Close()

	parsed, created, err := api.reportSvc.Import(ctx.Request().Context(), file, format, save)
	if err != nil {
		return errors.Wrap(err, "importing students")
	}
	return ctx.JSON(http.StatusOK, ImportResponse{Students: parsed, Imported: len(created)})
}
