package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.uber.org/dig"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/absence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/classgroup"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/metric"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/occurrence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/report"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/settings"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/student"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/user"
)

type (
	// Deps are the services the handlers need. It is filled by the dig container.
	Deps struct {
		dig.In

		Config        *core.Config
		Logger        core.Logger
		Validate      *validator.Validate
		Translator    ut.Translator
		ClassSvc      *classgroup.Service
		StudentSvc    *student.Service
		OccurrenceSvc *occurrence.Service
		AbsenceSvc    *absence.Service
		MetricSvc     *metric.Service
		ReportSvc     *report.Service
		SettingsSvc   *settings.Service
		UserSvc       *user.Service
	}

	Server struct {
		deps     Deps
		app      *echo.Echo
		auth     *authenticator
		errors   chan error
		shutdown chan os.Signal

		DisableReqLogs bool
	}
)

func NewServer(deps Deps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		auth:     newAuthenticator(deps.Config),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Config

	s.app.HideBanner = true
	s.app.Debug = conf.Debug && !conf.TestMode
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.auth, s.signalShutdown)

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  conf.Server.AllowOrigins,
		ExposeHeaders: []string{echo.HeaderContentDisposition},
	}))

	s.app.GET("/", s.home)

	api := s.app.Group("/api")
	api.GET("/health", health)

	registerAuthAPI(api, s.auth, s.deps)

	// every other route is protected only when configured so
	var guarded []echo.MiddlewareFunc
	if conf.Server.AuthRequired {
		guarded = append(guarded, s.auth.middleware())
	}
	g := api.Group("", guarded...)

	registerClassGroupAPI(g, s.deps)
	registerStudentAPI(g, s.deps)
	registerOccurrenceAPI(g, s.deps)
	registerAbsenceAPI(g, s.deps)
	registerMetricAPI(g, s.deps)
	registerReportAPI(g, s.deps)
	registerSettingsAPI(g, s.deps)
}

// Start blocks serving HTTP; a failure is reported on Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Config.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{
		"message": "API " + s.deps.Config.AppName,
		"version": s.deps.Config.Build,
		"endpoints": echo.Map{
			"auth":          "/api/auth",
			"turmas":        "/api/turmas",
			"alunos":        "/api/alunos",
			"ocorrencias":   "/api/ocorrencias",
			"faltas":        "/api/faltas",
			"metricas":      "/api/metricas",
			"relatorios":    "/api/relatorios",
			"configuracoes": "/api/configuracoes",
			"health":        "/api/health",
		},
	})
}

func health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "OK", "message": "Sistema Disciplinar Jupiara - API funcionando"})
}
