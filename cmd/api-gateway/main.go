package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/childcare-cover-api/api/swagger"
	"github.com/noah-isme/childcare-cover-api/internal/handler"
	"github.com/noah-isme/childcare-cover-api/internal/middleware"
	"github.com/noah-isme/childcare-cover-api/internal/repository"
	"github.com/noah-isme/childcare-cover-api/internal/service"
	"github.com/noah-isme/childcare-cover-api/pkg/cache"
	"github.com/noah-isme/childcare-cover-api/pkg/config"
	"github.com/noah-isme/childcare-cover-api/pkg/database"
	"github.com/noah-isme/childcare-cover-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/childcare-cover-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/childcare-cover-api/pkg/middleware/requestid"
)

// @title Childcare Cover API
// @version 0.1.0
// @description Substitute matching and conflict-safe assignment for staff absences
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	// The slot lock is a fast-path guard only; without redis the storage
	// unique index still prevents double-booking.
	var locks *service.SlotLockService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, assignment slot locks disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
		locks = service.NewSlotLockService(redisClient, cfg.Assignments.SlotLockTTL)
	}

	validate := validator.New()

	coverageRepo := repository.NewCoverageRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	timeOffRepo := repository.NewTimeOffRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	metricsSvc := service.NewMetricsService()
	tokenSvc := service.NewTokenService(cfg.JWT.Secret)
	matcherSvc := service.NewMatcherService(
		coverageRepo,
		staffRepo,
		availabilityRepo,
		scheduleRepo,
		timeOffRepo,
		assignmentRepo,
		metricsSvc,
		validate,
		logr,
		service.MatcherConfig{
			CandidatePool:      cfg.Matcher.CandidatePool,
			MaxCombinationSize: cfg.Matcher.MaxCombinationSize,
			TopCombinations:    cfg.Matcher.TopCombinations,
			WorkerConcurrency:  cfg.Matcher.WorkerConcurrency,
		},
	)
	assignmentSvc := service.NewAssignmentService(
		coverageRepo,
		staffRepo,
		scheduleRepo,
		assignmentRepo,
		auditRepo,
		db,
		locks,
		metricsSvc,
		validate,
		logr,
	)
	exportSvc := service.NewExportService(coverageRepo, assignmentRepo, nil, nil, logr)

	matchHandler := handler.NewMatchHandler(matcherSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(tokenSvc))
	api.GET("/absences/:id/subs", matchHandler.FindSubs)
	api.POST("/coverage-requests/:id/assignments", assignmentHandler.Assign)
	if cfg.Reports.Enabled {
		api.GET("/absences/:id/coverage-sheet", exportHandler.CoverageSheet)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
