package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/frontlinebot/actlog/internal/config"
	"github.com/frontlinebot/actlog/internal/handler"
)

// Deps are the services the routes are served from.
type Deps struct {
	Recorder  handler.Recorder
	Stats     handler.StatsReader
	Archive   handler.ArchiveReader // nil when object storage is disabled
	Links     handler.LinkStore
	Watchlist handler.Watchlist
	Notifiers handler.TypeLister
	DB        handler.Pinger
	NewRelic  *newrelic.Application // nil when New Relic is disabled
}

// Server holds the Echo app and its config.
type Server struct {
	Echo   *echo.Echo
	Config *config.Config
	log    zerolog.Logger
}

// New builds the Echo server and registers routes.
func New(cfg *config.Config, log zerolog.Logger, d Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.JSONSerializer = jsonSerializer{}

	e.Use(middleware.Recover(), middleware.RequestID())
	if len(cfg.Server.CORSAllowedOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.Server.CORSAllowedOrigins}))
	}
	if d.NewRelic != nil {
		e.Use(newRelicMiddleware(d.NewRelic))
	}
	e.Use(requestLogger(log))

	matches := &handler.MatchHandler{Stats: d.Stats, Archive: d.Archive}
	records := &handler.RecordHandler{
		Recorder:       d.Recorder,
		MaxUploadBytes: cfg.Ingest.MaxUploadBytes,
		Logger:         log.With().Str("component", "act-records").Logger(),
	}
	links := &handler.LinkHandler{Links: d.Links}
	watchlist := &handler.WatchlistHandler{Watchlist: d.Watchlist}
	info := &handler.InfoHandler{Notifiers: d.Notifiers, DB: d.DB}

	e.POST("/act-records", records.Create, uploadLimit(cfg.Ingest.MaxUploadBytes))

	e.GET("/matches/:id", matches.GetMatch)
	e.GET("/matches/:id/raw", matches.GetRawLog)
	e.GET("/archives", matches.ListArchives)
	e.DELETE("/records/:id", matches.DeleteRecord)
	e.GET("/reporters/stats", matches.ReporterStats)

	e.GET("/links/:user_id", links.Get)
	e.PUT("/links/:user_id", links.Put)
	e.DELETE("/links/:user_id", links.Delete)

	e.POST("/watchlist", watchlist.Add)
	e.GET("/watchlist", watchlist.Check)
	e.DELETE("/watchlist", watchlist.Delete)

	e.GET("/frontline/today", info.Today)
	e.GET("/notifiers/types", info.NotifierTypes)
	e.GET("/notifiers/types/:type", info.NotifierType)
	e.GET("/health", info.Health)

	return &Server{Echo: e, Config: cfg, log: log}
}

// Start serves HTTP until ctx is cancelled or the listener fails.
// On cancel the server drains in-flight requests before returning.
func (s *Server) Start(ctx context.Context) error {
	s.Echo.Server.ReadTimeout = time.Duration(s.Config.Server.ReadTimeout) * time.Second
	s.Echo.Server.WriteTimeout = time.Duration(s.Config.Server.WriteTimeout) * time.Second
	s.Echo.Server.IdleTimeout = time.Duration(s.Config.Server.IdleTimeout) * time.Second

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			s.log.Error().Err(err).Msg("server shutdown")
		}
	}()

	addr := ":" + s.Config.Server.Port
	s.log.Info().Str("addr", addr).Msg("http server listening")
	if err := s.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}

// formOverhead leaves room for the form fields and multipart boundaries
// around the file; the handler enforces the exact file size.
const formOverhead = 64 << 10

// uploadLimit rejects bodies that cannot fit an allowed export before echo
// parses the multipart form.
func uploadLimit(maxUpload int64) echo.MiddlewareFunc {
	if maxUpload <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return middleware.BodyLimit(strconv.FormatInt(maxUpload+formOverhead, 10))
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

// newRelicMiddleware records one web transaction per request, named by route.
func newRelicMiddleware(app *newrelic.Application) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := app.StartTransaction(c.Request().Method + " " + c.Path())
			defer txn.End()

			txn.SetWebRequestHTTP(c.Request())
			c.Response().Writer = txn.SetWebResponse(c.Response().Writer)
			c.SetRequest(c.Request().WithContext(newrelic.NewContext(c.Request().Context(), txn)))

			err := next(c)
			if err != nil {
				txn.NoticeError(err)
			}
			return err
		}
	}
}
