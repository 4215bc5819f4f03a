// Package alertserver serves the alerts HTTP API backed by a local
// repository. It exists so the dashboard can run without the hosted service.
package alertserver

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexisbeaulieu97/weatherlens/internal/alert"
	"github.com/alexisbeaulieu97/weatherlens/internal/alertrepo"
	"github.com/alexisbeaulieu97/weatherlens/internal/alertstore"
	"github.com/alexisbeaulieu97/weatherlens/internal/logger"
	"github.com/alexisbeaulieu97/weatherlens/internal/observability"
	wlerrors "github.com/alexisbeaulieu97/weatherlens/pkg/errors"
)

// Options configures a Server. Metrics and Gatherer default to the global
// Prometheus registry.
type Options struct {
	Logger   *logger.Logger
	Metrics  *observability.Metrics
	Gatherer prometheus.Gatherer
}

// Server exposes the alerts API plus /healthz and /metrics.
type Server struct {
	echo    *echo.Echo
	repo    alertstore.Service
	log     *logger.Logger
	metrics *observability.Metrics
}

// New wires routes over repo.
func New(repo alertstore.Service, opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	metrics := opts.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		echo:    e,
		repo:    repo,
		log:     opts.Logger,
		metrics: metrics,
	}

	e.Use(s.instrument)

	api := e.Group("/api/alerts")
	api.GET("/:city", s.listAlerts)
	api.POST("", s.createAlert)
	api.DELETE("/:city/:id", s.deleteAlert)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return s
}

// ServeHTTP delegates to the router, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr. Returns http.ErrServerClosed after Shutdown.
func (s *Server) Start(addr string) error {
	s.log.WithFields(map[string]any{"addr": addr}).Info("alerts service starting")
	return s.echo.Start(addr)
}

// Shutdown drains connections within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) listAlerts(c echo.Context) error {
	city := pathParam(c, "city")

	rules, err := s.repo.List(c.Request().Context(), city)
	if err != nil {
		s.log.Rule(city, "").Error(err, "list alerts failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to fetch alerts"})
	}
	if len(rules) == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "No alerts found for " + city})
	}

	return c.JSON(http.StatusOK, map[string]any{"alerts": rules})
}

// createRequest is the POST body. Temperature is a pointer so an absent or
// null value is told apart from zero.
type createRequest struct {
	AlertName        string   `json:"alertName"`
	Email            string   `json:"email"`
	CityName         string   `json:"cityName"`
	Temperature      *float64 `json:"temperature"`
	Humidity         *float64 `json:"humidity"`
	WindSpeed        *float64 `json:"windSpeed"`
	CloudCoverage    *float64 `json:"cloudCoverage"`
	WeatherCondition string   `json:"weatherCondition"`
}

// draft normalises the request and validates it. Required fields are
// reported before number and condition checks.
func (r createRequest) draft() (alert.Draft, error) {
	d := alert.Draft{
		AlertName:        strings.TrimSpace(r.AlertName),
		Email:            strings.TrimSpace(r.Email),
		CityName:         strings.TrimSpace(r.CityName),
		Humidity:         r.Humidity,
		WindSpeed:        r.WindSpeed,
		CloudCoverage:    r.CloudCoverage,
		WeatherCondition: alert.Condition(strings.ToLower(strings.TrimSpace(r.WeatherCondition))),
	}

	for _, required := range []struct{ field, value string }{
		{alert.FieldAlertName, d.AlertName},
		{alert.FieldEmail, d.Email},
	} {
		if required.value == "" {
			return d, wlerrors.NewValidationError(wlerrors.MissingRequiredField, required.field, "", required.field+" is required", nil)
		}
	}
	if r.Temperature == nil {
		return d, wlerrors.NewValidationError(wlerrors.MissingRequiredField, alert.FieldTemperature, "", alert.FieldTemperature+" is required", nil)
	}
	d.Temperature = *r.Temperature

	return d, alert.ValidateDraft(d)
}

func (s *Server) createAlert(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		s.metrics.RulesRejected.WithLabelValues("body").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	draft, err := req.draft()
	if err != nil {
		var validationErr *wlerrors.ValidationError
		field := "unknown"
		message := err.Error()
		if errors.As(err, &validationErr) {
			field = validationErr.Field
			message = validationErr.Message
		}
		s.metrics.RulesRejected.WithLabelValues(field).Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"message": message})
	}

	rule, err := s.repo.Create(c.Request().Context(), draft)
	if err != nil {
		s.log.Rule(draft.CityName, "").Error(err, "create alert failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to create alert"})
	}

	s.metrics.RulesCreated.Inc()
	s.log.Rule(rule.CityName, rule.ID).Info("alert created")
	return c.JSON(http.StatusCreated, rule)
}

func (s *Server) deleteAlert(c echo.Context) error {
	city := pathParam(c, "city")
	id := pathParam(c, "id")

	err := s.repo.Delete(c.Request().Context(), city, id)
	switch {
	case errors.Is(err, alertrepo.ErrRuleNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Alert not found"})
	case err != nil:
		s.log.Rule(city, id).Error(err, "delete alert failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to delete alert"})
	}

	s.metrics.RulesDeleted.Inc()
	return c.NoContent(http.StatusNoContent)
}

// instrument records request metrics and a debug log line per request.
func (s *Server) instrument(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		if err := next(c); err != nil {
			c.Error(err)
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		status := c.Response().Status
		elapsed := time.Since(start)

		s.metrics.RequestsTotal.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
		s.metrics.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		s.log.WithFields(map[string]any{
			"method":      c.Request().Method,
			"route":       route,
			"status":      status,
			"duration_ms": elapsed.Milliseconds(),
		}).Debug("request served")
		return nil
	}
}

// pathParam returns an unescaped path parameter.
func pathParam(c echo.Context, name string) string {
	raw := c.Param(name)
	if value, err := url.PathUnescape(raw); err == nil {
		return value
	}
	return raw
}
