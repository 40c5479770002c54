package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/Shriyanshsoni96/ERP/core"
	"github.com/Shriyanshsoni96/ERP/core/activity"
	"github.com/Shriyanshsoni96/ERP/core/attendance"
	"github.com/Shriyanshsoni96/ERP/core/checkin"
	"github.com/Shriyanshsoni96/ERP/core/medical"
	"github.com/Shriyanshsoni96/ERP/core/performance"
	"github.com/Shriyanshsoni96/ERP/core/report"
	"github.com/Shriyanshsoni96/ERP/core/user"
)

type (
	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		DisableReqLogs bool

		UserSvc        user.Service
		AttendanceSvc  *attendance.Service
		PerformanceSvc *performance.Service
		MedicalSvc     *medical.Service
		ReportSvc      *report.Service
		CheckinSvc     checkin.Service
		Summarizer     core.Summarizer
		Matcher        user.FaceMatcher
		Activity       *activity.Recorder

		// Shutdown asks the composition root to stop the server; wired into
		// the error handler for unrecoverable errors.
		Shutdown func()
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(metricsMiddleware())

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Shutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)
	s.app.GET("/metrics", metricsHandler())

	v1 := s.app.Group("/api/v1")
	jwt := middleware.JWTWithConfig(newJWTConfig(conf))

	registerAuthAPI(v1, jwt, s.opts)
	registerStudentAPI(v1, jwt, s.opts)
	registerTeacherAPI(v1, jwt, s.opts)
	registerDoctorAPI(v1, jwt, s.opts)
	registerAdminAPI(v1, jwt, s.opts)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Conf.ServerAddress())
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to EduOS API!")
}
