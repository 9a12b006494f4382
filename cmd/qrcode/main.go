// Command qrcode prints the QR code to put up at an activity's location.
//
//	qrcode -code campus-cleanup
//	qrcode -all
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mdp/qrterminal"

	"github.com/fardannozami/ecoscan-bot/internal/catalog"
	"github.com/fardannozami/ecoscan-bot/internal/config"
	"github.com/fardannozami/ecoscan-bot/internal/domain"
	"github.com/fardannozami/ecoscan-bot/internal/infra/postgres"
	"github.com/fardannozami/ecoscan-bot/internal/infra/sqlite"
)

func main() {
	code := flag.String("code", "", "activity code")
	all := flag.Bool("all", false, "print every activity")
	flag.Parse()

	if *code == "" && !*all {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()
	repo, closeFn, err := openActivities(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer closeFn()

	if *all {
		list, err := repo.ListActivities(ctx, domain.ActivityFilter{})
		if err != nil {
			log.Fatalf("Failed to list activities: %v", err)
		}
		for _, a := range list {
			printQR(a.Code, a.Name, a.QRCodeValue)
		}
		return
	}

	a, err := repo.GetActivityByCode(ctx, *code)
	if err != nil {
		log.Fatalf("Failed to load activity: %v", err)
	}
	if a == nil {
		// Not seeded yet: print what the catalog would seed.
		printQR(*code, "(not in database)", catalog.DefaultQR(*code))
		return
	}
	printQR(a.Code, a.Name, a.QRCodeValue)
}

func printQR(code, name, value string) {
	fmt.Printf("%s - %s\n", code, name)
	fmt.Printf("Payload: %s\n", value)
	qrterminal.GenerateHalfBlock(value, qrterminal.M, os.Stdout)
	fmt.Println()
}

func openActivities(ctx context.Context, cfg config.Config) (domain.ActivityRepository, func() error, error) {
	if cfg.DBDriver == "postgres" {
		pg, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	}
	db, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	if err := sqlite.InitTables(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return sqlite.NewActivityRepository(db), db.Close, nil
}
