package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fardannozami/ecoscan-bot/internal/app/usecase"
	"github.com/fardannozami/ecoscan-bot/internal/catalog"
	"github.com/fardannozami/ecoscan-bot/internal/config"
	"github.com/fardannozami/ecoscan-bot/internal/domain"
	"github.com/fardannozami/ecoscan-bot/internal/httpapi"
	"github.com/fardannozami/ecoscan-bot/internal/infra/postgres"
	"github.com/fardannozami/ecoscan-bot/internal/infra/sqlite"
	"github.com/fardannozami/ecoscan-bot/internal/infra/wa"
	"github.com/fardannozami/ecoscan-bot/internal/logging"
	"github.com/fardannozami/ecoscan-bot/internal/scheduler"
)

// stores are the repositories behind the usecases, backed by one database.
type stores struct {
	activities  domain.ActivityRepository
	events      domain.PointEventRepository
	users       domain.UserRepository
	leaderboard domain.LeaderboardRepository
	redemptions domain.RedemptionRepository
	close       func() error
}

func main() {
	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Logger
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		stop()
		logging.Error().Err(err).Msg("bot stopped")
		os.Exit(1)
	}
}

// run wires everything and blocks until ctx is done. Every resource it
// opens is released before it returns.
func run(ctx context.Context, cfg config.Config) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// 3. Database & Repositories
	st, err := openStores(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}
	defer st.close()

	if cfg.SeedCatalog {
		if _, err := catalog.Seed(ctx, st.activities, catalog.Defaults); err != nil {
			logging.Error().Err(err).Msg("failed to seed catalog")
		}
	}

	// 4. Use Cases
	scanUC := usecase.NewCompleteScanUsecase(st.activities)
	pointsUC := usecase.NewPointsUsecase(st.events, loc)
	leaderboardUC := usecase.NewGetLeaderboardUsecase(st.leaderboard, cfg.LeaderboardLimit)
	catalogUC := usecase.NewListActivitiesUsecase(st.activities)
	redeemUC := usecase.NewRedeemPointsUsecase(st.redemptions)
	historyUC := usecase.NewActivityHistoryUsecase(st.events)
	usersUC := usecase.NewRegisterUserUsecase(st.users)

	// 5. HTTP API
	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.NewRouter(httpapi.Handlers{
			Scan:        scanUC,
			Points:      pointsUC,
			Leaderboard: leaderboardUC,
			Catalog:     catalogUC,
			Redeem:      redeemUC,
			History:     historyUC,
			Users:       usersUC,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logging.Info().Str("addr", cfg.HTTPAddr).Msg("http api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()
	defer func() {
		logging.Info().Msg("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("http shutdown")
		}
	}()

	// 6. WhatsApp
	var waService *wa.Service
	if cfg.WAEnabled {
		waService, err = startWhatsApp(ctx, cfg, usecase.NewHandleMessageUsecase(usecase.MessageHandlers{
			Scan:        scanUC,
			Points:      pointsUC,
			Leaderboard: leaderboardUC,
			Catalog:     catalogUC,
			Redeem:      redeemUC,
			History:     historyUC,
			Users:       usersUC,
		}))
		if err != nil {
			return fmt.Errorf("start whatsapp: %w", err)
		}
		defer waService.Disconnect()
	}

	// 7. Daily recap
	if cfg.RecapEnabled {
		if waService == nil || cfg.GroupID == "" {
			logging.Warn().Msg("RECAP_ENABLED needs WA_ENABLED and GROUP_ID, recap disabled")
		} else {
			hour, minute, _ := cfg.RecapClock()
			recap := scheduler.NewRecap(waService, leaderboardUC, cfg.GroupID)
			if err := recap.Start(hour, minute, loc); err != nil {
				logging.Error().Err(err).Msg("failed to schedule recap")
			} else {
				defer recap.Stop()
			}
		}
	}

	logging.Info().Msg("Bot is running... Press Ctrl+C to exit.")

	// 8. Wait for OS Signal
	<-ctx.Done()
	return nil
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	if cfg.DBDriver == "postgres" {
		pg, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &stores{
			activities:  pg,
			events:      pg,
			users:       pg,
			leaderboard: pg,
			redemptions: pg,
			close:       pg.Close,
		}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	if err := sqlite.InitTables(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &stores{
		activities:  sqlite.NewActivityRepository(db),
		events:      sqlite.NewPointEventRepository(db),
		users:       sqlite.NewUserRepository(db),
		leaderboard: sqlite.NewLeaderboardRepository(db),
		redemptions: sqlite.NewRedemptionRepository(db),
		close:       db.Close,
	}, nil
}

func startWhatsApp(ctx context.Context, cfg config.Config, handler wa.CommandHandler) (*wa.Service, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.SessionPath), 0o755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	waService := wa.NewService(cfg.SessionPath)

	// Initialize Client (DB, Device, etc) - DO NOT CONNECT YET
	if err := waService.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize whatsapp service: %w", err)
	}

	var resolver wa.PhoneResolver
	if sessionDB, err := sqlite.Open(cfg.SessionPath); err != nil {
		logging.Warn().Err(err).Msg("LID resolution disabled")
	} else {
		resolver = sqlite.NewLIDResolver(sessionDB)
		go func() {
			<-ctx.Done()
			closeQuietly(sessionDB)
		}()
	}

	responder := wa.NewResponder(handler, resolver, waService, wa.ReplyOptions{
		GroupID:    cfg.GroupID,
		DelayMin:   time.Duration(cfg.ReplyDelayMinMs) * time.Millisecond,
		DelayMax:   time.Duration(cfg.ReplyDelayMaxMs) * time.Millisecond,
		ShowTyping: cfg.ShowTyping,
	})
	waService.SetMessageHandler(responder.Handle)

	// Connect / Login Logic
	switch {
	case waService.IsLoggedIn():
		if err := waService.Connect(); err != nil {
			return nil, fmt.Errorf("connect: %w", err)
		}
		logging.Info().Msg("Client is already logged in.")
	case cfg.BotPhone != "":
		// Must connect first to pair
		if err := waService.Connect(); err != nil {
			return nil, fmt.Errorf("connect for pairing: %w", err)
		}
		logging.Info().Str("phone", cfg.BotPhone).Msg("Not logged in. Attempting to pair")
		code, err := waService.Pair(ctx, cfg.BotPhone)
		if err != nil {
			logging.Error().Err(err).Msg("failed to generate pair code")
		} else {
			fmt.Println("==================================================")
			fmt.Printf("PAIR CODE: %s\n", code)
			fmt.Println("==================================================")
			fmt.Println("Please verify this code on your WhatsApp (Linked Devices > Link with phone number)")
		}
	default:
		logging.Info().Msg("Not logged in. BOT_PHONE not set. Printing QR...")
		if err := waService.PrintQR(ctx); err != nil {
			return nil, err
		}
	}
	return waService, nil
}

func closeQuietly(db *sql.DB) {
	if err := db.Close(); err != nil {
		logging.Warn().Err(err).Msg("close session database")
	}
}
