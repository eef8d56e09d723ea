// Command sweep notifies the government employment agency of approvals whose
// notification is pending or marked for retry. Meant to run under cron.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pass-iae-backend/internal/adapter/peapi"
	"pass-iae-backend/internal/adapter/repository/mysql"
	"pass-iae-backend/internal/config"
	"pass-iae-backend/internal/infrastructure/cache"
	"pass-iae-backend/internal/infrastructure/db"
	notifyUC "pass-iae-backend/internal/usecase/notify"
)

func main() {
	wetRun := flag.Bool("wet-run", false, "actually call the remote system instead of reporting what would be notified")
	limit := flag.Int("limit", 0, "maximum number of approvals to process (default from NOTIFY_SWEEP_LIMIT)")
	delay := flag.Duration("delay", 0, "pause between two notifications (default from NOTIFY_SWEEP_DELAY_MS)")
	flag.Parse()

	_ = godotenv.Load()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(os.Stderr)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if *limit == 0 {
		*limit = cfg.SweepLimit
	}
	if *delay == 0 {
		*delay = cfg.SweepDelay()
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("mysql connection failed")
	}
	// Redis only caches the remote access token; the sweep survives without it.
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, the access token will not be shared")
		rdb = nil
	}

	client := peapi.NewClient(peapi.Config{
		BaseURL:      cfg.PEAPIBaseURL,
		AuthBaseURL:  cfg.PEAPIAuthBaseURL,
		ClientID:     cfg.PEAPIClientID,
		ClientSecret: cfg.PEAPIClientSecret,
		Scope:        cfg.PEAPIScope,
		Timeout:      cfg.PEAPITimeout(),
	}, rdb, log.Logger)

	uc := notifyUC.NewUsecase(
		mysql.NewApprovalRepository(gdb),
		mysql.NewPEApprovalRepository(gdb),
		mysql.NewUserDirectory(gdb),
		mysql.NewJobApplicationLedger(gdb),
		mysql.NewEnterpriseDirectory(gdb),
		mysql.NewPrescriberDirectory(gdb),
		client,
		log.Logger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	n, err := uc.Sweep(ctx, notifyUC.SweepInput{
		Limit:  *limit,
		Delay:  *delay,
		WetRun: *wetRun,
	})
	if err != nil {
		log.Fatal().Err(err).Int("processed", n).Msg("sweep aborted")
	}
	log.Info().Int("processed", n).Msg("sweep finished")
}
