package main

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"frontdesk/internal/adapters/observability"
	"frontdesk/internal/app"
	"frontdesk/internal/codec/settings"
	"frontdesk/internal/shared"
	mysqlrepo "frontdesk/internal/storage/mysql"
)

// nightaudit posts room charges for one night across every hotel that has
// autoPostRoomCharges enabled. AUDIT_DATE (YYYY-MM-DD) picks the night;
// the default is yesterday in UTC.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)
	observability.Serve(cfg.MetricsAddr, observability.InitRegistry())

	date := time.Now().UTC().AddDate(0, 0, -1)
	if v := os.Getenv("AUDIT_DATE"); v != "" {
		d, err := app.ParseDateKey(v)
		if err != nil {
			log.Fatal().Err(err).Msg("bad AUDIT_DATE")
		}
		date = d
	}

	log.Info().
		Str("date", date.Format("2006-01-02")).
		Int("workers", cfg.Workers).
		Msg("night audit starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")
	defer db.Close()

	repo := mysqlrepo.New(db)
	folio := app.NewFolioService(repo, repo, repo, repo)

	hotels, err := repo.ListHotels(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("list hotels failed")
	}

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup
	var failed atomic.Int32

	for _, h := range hotels {
		if !settings.Parse(h.Description).Settings.AutoPostRoomCharges {
			log.Debug().Str("hotel", h.ID).Msg("auto-post disabled; skipping")
			continue
		}

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(hotelID string) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := folio.PostRoomCharges(ctx, hotelID, date)
			if err != nil {
				failed.Add(1)
				log.Warn().Str("hotel", hotelID).Err(err).Int("posted", res.Posted).Msg("night audit incomplete")
				return
			}
			log.Info().Str("hotel", hotelID).Int("posted", res.Posted).Int("skipped", res.Skipped).Msg("night audit ok")
		}(h.ID)
	}

	wg.Wait()
	if n := failed.Load(); n > 0 {
		log.Error().Int32("hotels", n).Msg("night audit finished with failures")
		os.Exit(1)
	}
	log.Info().Msg("night audit completed")
}
