package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpadp "pass-iae-backend/internal/adapter/http"
	"pass-iae-backend/internal/adapter/middleware"
	"pass-iae-backend/internal/adapter/repository/mysql"
	"pass-iae-backend/internal/config"
	"pass-iae-backend/internal/infrastructure/cache"
	"pass-iae-backend/internal/infrastructure/db"
	approvalUC "pass-iae-backend/internal/usecase/approval"
	prolongationUC "pass-iae-backend/internal/usecase/prolongation"
	suspensionUC "pass-iae-backend/internal/usecase/suspension"
)

func main() {
	_ = godotenv.Load()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(os.Stderr)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("mysql connection failed")
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}

	approvals := mysql.NewApprovalRepository(gdb)
	suspensions := mysql.NewSuspensionRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	approvalUsecase := approvalUC.NewUsecase(approvals, suspensions, tx, cfg.IssuerPrefix)
	suspensionUsecase := suspensionUC.NewUsecase(tx)
	prolongationUsecase := prolongationUC.NewUsecase(tx)

	h := httpadp.NewHandler()
	approvalHandler := httpadp.NewApprovalHandler(approvalUsecase)
	suspensionHandler := httpadp.NewSuspensionHandler(suspensionUsecase)
	prolongationHandler := httpadp.NewProlongationHandler(prolongationUsecase)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())
	e.Use(middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	// routes
	e.GET("/health", h.Health)

	e.POST("/approvals", approvalHandler.Create)
	e.GET("/approvals/:number", approvalHandler.Get)
	e.POST("/approvals/:number/postpone", approvalHandler.Postpone)
	e.POST("/approvals/:number/unsuspend", approvalHandler.Unsuspend)
	e.DELETE("/approvals/:number", approvalHandler.Delete)

	e.POST("/approvals/:number/suspensions", suspensionHandler.Create)
	e.PUT("/approvals/:number/suspensions/:id", suspensionHandler.Update)
	e.DELETE("/approvals/:number/suspensions/:id", suspensionHandler.Delete)

	e.POST("/approvals/:number/prolongations", prolongationHandler.Create)

	addr := ":" + cfg.AppPort
	log.Info().Str("addr", addr).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
