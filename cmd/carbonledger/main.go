package main

import (
	"context"
	"log/slog"
	"os"

	"carbonledger/config"
	"carbonledger/internal/delivery"
	"carbonledger/internal/delivery/api"
	"carbonledger/internal/delivery/api/middleware"
	"carbonledger/internal/delivery/api/router/handler"
	"carbonledger/internal/delivery/scheduler"
	"carbonledger/internal/domain/lifecycle"
	"carbonledger/internal/infra/auth"
	"carbonledger/internal/infra/cache"
	"carbonledger/internal/infra/export"
	logs "carbonledger/internal/infra/log"
	"carbonledger/internal/infra/persistence/postgres"
	"carbonledger/internal/infra/pubsub"
	"carbonledger/internal/infra/qrcode"
	"carbonledger/internal/infra/routing"
	"carbonledger/internal/infra/storage"
	"carbonledger/internal/usecase"
	"carbonledger/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			seedAdmin,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
		storage.New,
		cache.New,
		pubsub.NewEventPublisher,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewRefreshTokenRepository,
			postgres.NewSDGRepository,
			postgres.NewProjectRepository,
			postgres.NewConsumptionRepository,
			postgres.NewPaymentProofRepository,
			postgres.NewInvestmentRepository,
			postgres.NewLeaderboardRepository,
			postgres.NewStatsRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasherFromConfig,
			auth.NewJWTService,
			qrcode.NewQRCodeServiceFromConfig,
			routing.NewPolicy,
			export.NewXLSXExporter,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAccountService,
			impl.NewProjectService,
			impl.NewConsumptionService,
			impl.NewProofService,
			impl.NewInvestmentService,
			impl.NewStatsService,
			impl.NewLeaderboardService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAccountHandler,
			handler.NewProjectHandler,
			handler.NewConsumptionHandler,
			handler.NewProofHandler,
			handler.NewInvestmentHandler,
			handler.NewStatsHandler,
			handler.NewFileHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
			fx.Annotate(
				scheduler.NewReconcileScheduler,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// seedAdmin runs after the database hook, so migrations are already applied.
func seedAdmin(lc fx.Lifecycle, accounts usecase.AccountUsecase) {
	lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			return accounts.EnsureAdmin(ctx)
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
