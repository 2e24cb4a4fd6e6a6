package http

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"attendance/config"
	"attendance/internal/delivery"
	deliverymiddleware "attendance/internal/delivery/http/middleware"
	"attendance/internal/delivery/http/router"
	"attendance/internal/delivery/http/validator"
	"attendance/internal/delivery/middleware"
	"attendance/internal/domain/lifecycle"
	"attendance/internal/errors"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"golang.org/x/net/http2"
)

type HTTPParams struct {
	fx.In
	fx.Lifecycle

	Config              *config.Config
	Logger              *slog.Logger
	RouterParams        router.RouterParams
	ErrorMiddleware     *deliverymiddleware.ErrorMiddleware
	RequestIDMiddleware *middleware.RequestIDMiddleware
	LoggerMiddleware    *middleware.LoggerMiddleware
}

type httpServer struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
}

func NewServer(params HTTPParams) (delivery.Delivery, error) {
	echoServer := NewEcho(params)

	delivery := &httpServer{
		cfg:    params.Config,
		logger: params.Logger,
		server: echoServer,
	}

	params.Append(fx.Hook{
		OnStop: delivery.stop,
	})

	return delivery, nil
}

// NewEcho builds the echo instance with middlewares and routes registered
func NewEcho(params HTTPParams) *echo.Echo {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Validator = validator.New()
	echoServer.HTTPErrorHandler = params.ErrorMiddleware.HandleHTTPError

	echoServer.Use(echomiddleware.Recover())
	echoServer.Use(params.RequestIDMiddleware.Process)
	echoServer.Use(params.LoggerMiddleware.Handle)
	echoServer.Use(echomiddleware.CORS())
	if limit := params.Config.HTTP.MaxRequestBodySize; limit != "" {
		echoServer.Use(echomiddleware.BodyLimit(limit))
	}

	timeouts := params.Config.HTTP.Timeouts
	echoServer.Server.ReadTimeout = timeouts.ReadTimeout
	echoServer.Server.ReadHeaderTimeout = timeouts.ReadHeaderTimeout
	echoServer.Server.WriteTimeout = timeouts.WriteTimeout
	echoServer.Server.IdleTimeout = timeouts.IdleTimeout

	router := router.NewRouter(params.RouterParams)
	router.RegisterRoutes(echoServer)

	return echoServer
}

func (s *httpServer) Serve(ctx context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.HTTP.Port))
	s.logger.Info("Starting HTTP server", slog.String("host_port", hostPort))
	h2Server := &http2.Server{
		IdleTimeout: s.cfg.HTTP.Timeouts.IdleTimeout,
	}
	if err := s.server.StartH2CServer(hostPort, h2Server); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "failed to serve http")
	}

	return nil
}

func (s *httpServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
