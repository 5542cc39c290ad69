package httpapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-vitaltrend/vitalset"
)

// BasePath is the root of the vital set routes.
const BasePath = "/api/v1/vitalsets"

// RecordService is the part of vitalset.Service exposed over HTTP.
type RecordService interface {
	CreateVitalSet(ctx context.Context, rec vitalset.VitalSet) (vitalset.VitalSet, error)
	FindAll(ctx context.Context) ([]vitalset.VitalSet, error)
	FindByID(ctx context.Context, id int64) (vitalset.VitalSet, error)
	UpdateVitalSet(ctx context.Context, id int64, rec vitalset.VitalSet) (vitalset.VitalSet, error)
	DeleteByID(ctx context.Context, id int64) (map[string]bool, error)
	SendMessage(ctx context.Context, payload vitalset.PayloadRequest)
}

var _ RecordService = (*vitalset.Service)(nil)

// Server is the REST boundary in front of a RecordService.
type Server struct {
	echo    *echo.Echo
	service RecordService
	logger  logrus.FieldLogger
	metrics http.Handler
}

type Option func(*Server)

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsHandler serves h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

func NewServer(service RecordService, opts ...Option) *Server {
	s := &Server{
		echo:    echo.New(),
		service: service,
		logger:  logrus.StandardLogger().WithField("type", "httpapi/server"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true

	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := s.logger.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency,
				"request_id": v.RequestID,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request failed")
				return nil
			}
			entry.Debug("request")
			return nil
		},
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics))
	}

	g := s.echo.Group(BasePath)
	g.POST("", s.createVitalSet)
	g.GET("", s.findAll)
	g.POST("/messages", s.sendMessage)
	g.GET("/:id", s.findByID)
	g.PUT("/:id", s.updateVitalSet)
	g.DELETE("/:id", s.deleteByID)
}

// ServeHTTP makes the Server usable as a plain http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start blocks serving on address until Shutdown is called.
func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
