package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/absence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/metric"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/occurrence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/report"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/student"
)

// Query params shared by the list, metric and report endpoints.
const (
	classIDParam   = "turma_id"
	studentIDParam = "aluno_id"
	fromParam      = "data_inicio"
	toParam        = "data_fim"
	justifiedParam = "justificada"
	formatParam    = "formato"
)

// pathID reads a positive integer path param.
func pathID(ctx echo.Context, name ...string) (int, error) {
	param := "id"
	if len(name) > 0 {
		param = name[0]
	}
	id, err := strconv.Atoi(ctx.Param(param))
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// eventFilter is what occurrence, absence, metric and report listings share.
type eventFilter struct {
	ClassID   int
	StudentID int
	From, To  core.Date
	Justified *bool
}

func bindEventFilter(ctx echo.Context) (eventFilter, error) {
	var f eventFilter
	err := echo.QueryParamsBinder(ctx).
		Int(classIDParam, &f.ClassID).
		Int(studentIDParam, &f.StudentID).
		BindUnmarshaler(fromParam, &f.From).
		BindUnmarshaler(toParam, &f.To).
		BindError()
	if err != nil {
		return f, core.Invalid("parâmetros de consulta inválidos")
	}
	if raw := ctx.QueryParam(justifiedParam); raw != "" {
		justified, err := strconv.ParseBool(raw)
		if err != nil {
			return f, core.NewValidationError(err, core.FieldError{Field: justifiedParam, Error: "use true ou false"})
		}
		f.Justified = &justified
	}
	return f, nil
}

func (f eventFilter) student() student.Filter {
	return student.Filter{ClassID: f.ClassID}
}

func (f eventFilter) occurrence() occurrence.Filter {
	return occurrence.Filter{ClassID: f.ClassID, StudentID: f.StudentID, From: f.From, To: f.To}
}

func (f eventFilter) absence() absence.Filter {
	return absence.Filter{ClassID: f.ClassID, StudentID: f.StudentID, From: f.From, To: f.To, Justified: f.Justified}
}

func (f eventFilter) metric() metric.Filter {
	return metric.Filter{ClassID: f.ClassID, StudentID: f.StudentID, From: f.From, To: f.To}
}

func (f eventFilter) report() report.Filter {
	return report.Filter{ClassID: f.ClassID, StudentID: f.StudentID, From: f.From, To: f.To, Justified: f.Justified}
}

type MessageResponse struct {
	Message string `json:"message"`
}
