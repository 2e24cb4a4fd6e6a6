package main

import (
	"context"
	"log/slog"
	"os"

	"attendance/config"
	"attendance/internal/delivery"
	"attendance/internal/delivery/http"
	httpmiddleware "attendance/internal/delivery/http/middleware"
	"attendance/internal/delivery/http/router/handler"
	"attendance/internal/delivery/middleware"
	"attendance/internal/delivery/websocket"
	"attendance/internal/domain/service"
	"attendance/internal/infra/archive"
	"attendance/internal/infra/backend"
	"attendance/internal/infra/clock"
	logs "attendance/internal/infra/log"
	"attendance/internal/infra/qrcode"
	"attendance/internal/usecase"
	"attendance/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

type sessionParams struct {
	fx.In
	fx.Lifecycle

	RotationUC usecase.RotationUsecase
	Logger     *slog.Logger
}

func main() {
	fx.New(
		injectInfra(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			bindSession,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		clock.New,
		archive.NewBoundaryArchive,
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				backend.NewClient,
				fx.As(new(service.QRTokenIssuer)),
				fx.As(new(service.OfficeAreaGateway)),
			),
			newQRCodeService,
			websocket.NewHub,
			websocket.NewDisplayNotifier,
		),
	)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	return qrcode.NewQRCodeService(cfg.QR.Size, cfg.QR.ErrorCorrectionLevel)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewRotationService,
			impl.NewOfficeAreaService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewRequestIDMiddleware,
			middleware.NewLoggerMiddleware,
			httpmiddleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewHealthHandler,
			handler.NewDisplayHandler,
			handler.NewGeofenceHandler,
			handler.NewOfficeAreaHandler,
			websocket.NewHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// bindSession ties the rotation session to the process lifetime
func bindSession(ctx context.Context, params sessionParams) {
	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			params.RotationUC.Open(ctx)

			return nil
		},
		OnStop: func(context.Context) error {
			params.RotationUC.Close()

			return nil
		},
	})
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
