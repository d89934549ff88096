package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/absence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/classgroup"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/occurrence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/report"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/settings"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/student"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/user"
)

var (
	errUnauthorized     = echo.NewHTTPError(http.StatusUnauthorized, "usuário não autenticado")
	errInvalidToken     = echo.NewHTTPError(http.StatusUnauthorized, "token inválido ou expirado")
	errRefreshExpired   = echo.NewHTTPError(http.StatusForbidden, "o prazo para renovar o token expirou")
	errAccountInactive  = echo.NewHTTPError(http.StatusForbidden, user.ErrInactive.Error())
	errInvalidID        = echo.NewHTTPError(http.StatusBadRequest, "id inválido")
	errMissingFile      = echo.NewHTTPError(http.StatusBadRequest, "nenhum arquivo enviado")
	errHttpNotFound     = echo.NewHTTPError(http.StatusNotFound, "Rota não encontrada")
	internalErrorString = "Erro interno do servidor"
)

// statusOf maps domain errors to their HTTP status. 0 means unknown.
func statusOf(err error) int {
	switch {
	case errors.Is(err, classgroup.ErrNotFound),
		errors.Is(err, student.ErrNotFound),
		errors.Is(err, occurrence.ErrNotFound),
		errors.Is(err, occurrence.ErrTypeNotFound),
		errors.Is(err, absence.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, absence.ErrAlreadyRecorded),
		errors.Is(err, report.ErrUnknownFormat),
		errors.Is(err, report.ErrUnknownKind),
		errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, user.ErrInactive):
		return http.StatusForbidden
	case errors.Is(err, settings.ErrStaleVersion):
		return http.StatusConflict
	}
	return 0
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(
	logger core.Logger,
	translator ut.Translator,
	auth *authenticator,
	signalShutdown func(),
) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
			if code == http.StatusNotFound && origErr == echo.ErrNotFound {
				message = errHttpNotFound.Message
			}
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			if code = statusOf(err); code != 0 {
				message = errors.Cause(err).Error()
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			message = internalErrorString

			var usr user.User
			if claims, cErr := auth.contextClaims(ctx); cErr == nil {
				usr.ID, _ = claims.userID()
				usr.Name = claims.Name
				usr.Email = claims.Email
			}
			logger.Error(internalErrorString, errors.Wrap(err, ctx.Request().Method+" "+ctx.Path()), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
			if ctx.Echo().Debug {
				message = err.Error()
			}
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
