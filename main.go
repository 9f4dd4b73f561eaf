package main

import (
	"context"
	"log"

	"github.com/fasthttp/router"
	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"meetstats/internal/calendar"
	"meetstats/internal/config"
	"meetstats/internal/db"
	"meetstats/internal/drive"
	"meetstats/internal/http/handlers"
	appmw "meetstats/internal/http/middleware"
	syncpkg "meetstats/internal/sync"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	sqlDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := db.EnsureBootstrapAdmin(sqlDB, cfg); err != nil {
		log.Fatalf("failed to ensure bootstrap admin: %v", err)
	}

	syncpkg.InitPrometheusMetrics()

	orch, err := buildOrchestrator(cfg, sqlDB)
	if err != nil {
		log.Fatalf("failed to build sync pipeline: %v", err)
	}

	if _, err := syncpkg.StartScheduler(orch, cfg.SyncCron); err != nil {
		log.Fatalf("failed to start sync scheduler: %v", err)
	}

	meetings := db.NewMeetingStore(sqlDB)
	stats := db.NewStatsStore(sqlDB)
	teachers := db.NewTeacherStore(sqlDB)

	r := router.New()

	r.GET("/healthz", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	})

	r.POST("/login", handlers.LoginSubmit(sqlDB))
	r.POST("/logout", handlers.Logout())

	admin := appmw.AdminAuth(sqlDB, cfg)
	r.POST("/v1/sync", admin(handlers.TriggerSync(orch)))
	r.GET("/v1/stats", admin(handlers.StatsSummary(stats)))
	r.GET("/v1/stats/calendar", admin(handlers.StatsCalendar(stats)))
	r.GET("/v1/meetings", admin(handlers.MeetingHistory(meetings)))
	r.GET("/v1/teachers", admin(handlers.ListTeachers(teachers)))
	r.POST("/v1/teachers", admin(handlers.SaveTeacher(teachers)))
	r.DELETE("/v1/teachers/{email}", admin(handlers.DeleteTeacher(teachers)))

	machine := appmw.BearerSecret(cfg.CronSecret)
	r.GET("/v1/cron/daily-sync", machine(handlers.CronDailySync(orch)))
	r.GET("/metrics", machine(handlers.PrometheusMetrics()))

	handler := handlers.RequestLogger(r.Handler)

	log.Printf("meetstats listening on %s", cfg.ListenAddr)
	if err := fasthttp.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// buildOrchestrator wires the Google calendar source, the Drive duration
// strategy chain and the postgres stores into the sync orchestrator.
func buildOrchestrator(cfg *config.Config, sqlDB *gorm.DB) (*syncpkg.Orchestrator, error) {
	ctx := context.Background()

	key, err := cfg.ServiceAccountKey()
	if err != nil {
		return nil, err
	}
	source, err := calendar.NewGoogleSource(ctx, key, cfg.CalendarID)
	if err != nil {
		return nil, err
	}
	strategies, err := drive.NewGoogleStrategies(ctx, key, cfg.ImpersonateUser)
	if err != nil {
		return nil, err
	}

	return syncpkg.New(
		source,
		db.NewMeetingStore(sqlDB),
		db.NewStatsStore(sqlDB),
		drive.NewResolver(strategies...),
		cfg.OwnDomain,
	), nil
}
