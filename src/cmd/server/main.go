package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/api-sage/treasury-engine/src/internal/adapter/http/controller"
	"github.com/api-sage/treasury-engine/src/internal/adapter/http/middleware"
	"github.com/api-sage/treasury-engine/src/internal/adapter/http/router"
	"github.com/api-sage/treasury-engine/src/internal/adapter/repository/postgres"
	"github.com/api-sage/treasury-engine/src/internal/config"
	"github.com/api-sage/treasury-engine/src/internal/eventbus"
	"github.com/api-sage/treasury-engine/src/internal/logger"
	"github.com/api-sage/treasury-engine/src/internal/statement"
	"github.com/api-sage/treasury-engine/src/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := postgres.RunMigrations(ctx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	accountRepo := postgres.NewAccountRepository(db)
	movementRepo := postgres.NewMovementRepository(db)
	batchRepo := postgres.NewImportBatchRepository(db)
	eventRepo := postgres.NewForecastEventRepository(db)
	recommendationRepo := postgres.NewRecommendationRepository(db)
	ruleRepo := postgres.NewRuleRepository(db)
	userRepo := postgres.NewUserRepository(db)

	bus := eventbus.New(nil)

	balanceService := services.NewBalanceService(accountRepo, movementRepo)
	projectionService := services.NewProjectionService(accountRepo, eventRepo, balanceService)
	recommendationService := services.NewRecommendationService(recommendationRepo, projectionService, cfg.ProjectionHorizonDays, cfg.SweepRoundingUnit)
	matchingService := services.NewMatchingService(eventRepo, movementRepo, bus, cfg.ReviewThreshold, cfg.AutoAcceptThreshold)
	forecastService := services.NewForecastService(eventRepo, accountRepo)
	importService := services.NewImportService(accountRepo, movementRepo, batchRepo, ruleRepo, statement.NewRegistry(), matchingService, bus)
	accountService := services.NewAccountService(accountRepo, movementRepo, ruleRepo, bus)
	ruleService := services.NewRuleService(ruleRepo, accountRepo)
	userService := services.NewUserService(userRepo)

	// Every movement or account change replays balances and refreshes the
	// liquidity recommendations before the publishing call returns.
	bus.SetCascade(services.NewRecalculationCascade(balanceService, recommendationService))

	authMiddleware := middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey)

	mux := router.New(
		authMiddleware,
		controller.NewAccountController(accountService),
		controller.NewImportController(importService),
		controller.NewMatchingController(matchingService),
		controller.NewProjectionController(projectionService, cfg.ProjectionHorizonDays),
		controller.NewRecommendationController(recommendationService),
		controller.NewForecastController(forecastService),
		controller.NewRuleController(ruleService),
		controller.NewUserController(userService),
	)

	logger.Info("server starting", logger.Fields{"addr": cfg.HTTPAddr})
	if err := http.ListenAndServe(cfg.HTTPAddr, mux); err != nil {
		log.Fatalf("serve http: %v", err)
	}
}
