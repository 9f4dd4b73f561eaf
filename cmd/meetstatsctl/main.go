// meetstatsctl is the operator CLI for the meeting statistics service.
//
// Usage:
//
//	meetstatsctl daily                     sync today's events (JST)
//	meetstatsctl bulk START END            sync a date range (YYYY-MM-DD, end inclusive)
//	meetstatsctl revert DATE               revert and delete one day's data
//	meetstatsctl rebuild                   recompute all rollups from the event log
//
// revert and rebuild exist here on purpose: they are corrective operations
// and are not exposed over HTTP.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"meetstats/internal/calendar"
	"meetstats/internal/config"
	"meetstats/internal/db"
	"meetstats/internal/drive"
	syncpkg "meetstats/internal/sync"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	sqlDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	ctx := context.Background()
	command := os.Args[1]

	switch command {
	case "daily":
		orch := mustOrchestrator(ctx, cfg, sqlDB)
		res, err := orch.DailySync(ctx)
		if err != nil {
			log.Fatalf("daily sync failed: %v", err)
		}
		fmt.Printf("daily sync result: %+v\n", res)

	case "bulk":
		if len(os.Args) != 4 {
			usage()
			os.Exit(1)
		}
		orch := mustOrchestrator(ctx, cfg, sqlDB)
		res, err := orch.BulkSync(ctx, os.Args[2], os.Args[3])
		if err != nil {
			log.Fatalf("bulk sync failed: %v", err)
		}
		fmt.Printf("bulk sync result: %+v\n", res)

	case "revert":
		if len(os.Args) != 3 {
			usage()
			os.Exit(1)
		}
		// Reversal never talks to the calendar, so no Google wiring here.
		orch := syncpkg.New(nil, db.NewMeetingStore(sqlDB), db.NewStatsStore(sqlDB), nil, cfg.OwnDomain)
		reverted, err := orch.RevertDay(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("revert failed after %d reversals: %v", reverted, err)
		}
		fmt.Printf("reverted %d meetings for %s\n", reverted, os.Args[2])

	case "rebuild":
		events, buckets, err := db.RebuildStats(ctx, sqlDB)
		if err != nil {
			log.Fatalf("rebuild failed: %v", err)
		}
		fmt.Printf("rebuilt %d buckets from %d events\n", buckets, events)

	default:
		usage()
		os.Exit(1)
	}
}

func mustOrchestrator(ctx context.Context, cfg *config.Config, sqlDB *gorm.DB) *syncpkg.Orchestrator {
	key, err := cfg.ServiceAccountKey()
	if err != nil {
		log.Fatalf("failed to load service account key: %v", err)
	}
	source, err := calendar.NewGoogleSource(ctx, key, cfg.CalendarID)
	if err != nil {
		log.Fatalf("failed to create calendar source: %v", err)
	}
	strategies, err := drive.NewGoogleStrategies(ctx, key, cfg.ImpersonateUser)
	if err != nil {
		log.Fatalf("failed to create drive strategies: %v", err)
	}
	return syncpkg.New(source, db.NewMeetingStore(sqlDB), db.NewStatsStore(sqlDB), drive.NewResolver(strategies...), cfg.OwnDomain)
}

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  meetstatsctl daily                      # sync today's events (JST)")
	fmt.Println("  meetstatsctl bulk YYYY-MM-DD YYYY-MM-DD # sync a date range, end inclusive")
	fmt.Println("  meetstatsctl revert YYYY-MM-DD          # revert and delete one day's data")
	fmt.Println("  meetstatsctl rebuild                    # recompute rollups from the event log")
}
