package handlers

import (
	"strconv"
	"time"

	"github.com/valyala/fasthttp"

	"meetstats/internal/calendar"
	dbpkg "meetstats/internal/db"
)

func categoryParam(ctx *fasthttp.RequestCtx) calendar.Category {
	c := calendar.Category(ctx.QueryArgs().Peek("category"))
	if !c.Valid() {
		return calendar.CategoryTeacher
	}
	return c
}

// StatsSummary serves the dashboard counters: day/month/year/all-time
// counts plus average minutes per granularity. With ?email= the teacher's
// own rollups are read, otherwise the global aggregate.
func StatsSummary(stats *dbpkg.StatsStore) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		email := string(ctx.QueryArgs().Peek("email"))
		category := categoryParam(ctx)

		sum, err := stats.Summary(ctx, email, category, time.Now())
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load stats")
			return
		}
		jsonResponse(ctx, sum)
	}
}

// StatsCalendar serves the per-day counts of one JST month for the month
// grid view.
func StatsCalendar(stats *dbpkg.StatsStore) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		year, err := strconv.Atoi(string(ctx.QueryArgs().Peek("year")))
		if err != nil || year < 2000 || year > 2200 {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid year")
			return
		}
		month, err := strconv.Atoi(string(ctx.QueryArgs().Peek("month")))
		if err != nil || month < 1 || month > 12 {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid month")
			return
		}
		email := string(ctx.QueryArgs().Peek("email"))
		category := categoryParam(ctx)

		days, err := stats.MonthDays(ctx, email, category, year, month)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load calendar stats")
			return
		}
		jsonResponse(ctx, map[string]any{"success": true, "days": days})
	}
}
