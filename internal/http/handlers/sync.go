package handlers

import (
	"encoding/json"
	"log"

	"github.com/valyala/fasthttp"

	syncpkg "meetstats/internal/sync"
)

type syncRequest struct {
	Type      string `json:"type"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// TriggerSync runs a daily or bulk sync on operator request. Per-event
// errors are reported inside the result, not as an HTTP failure; only a
// fetch-phase failure produces a 500.
func TriggerSync(orch *syncpkg.Orchestrator) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var req syncRequest
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
			return
		}

		var (
			res syncpkg.Result
			err error
		)
		switch {
		case req.Type == "daily":
			res, err = orch.DailySync(ctx)
		case req.Type == "bulk" && req.StartDate != "" && req.EndDate != "":
			res, err = orch.BulkSync(ctx, req.StartDate, req.EndDate)
		default:
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid request parameters")
			return
		}
		if err != nil {
			log.Printf("sync failed: %v", err)
			errResponse(ctx, fasthttp.StatusInternalServerError, err.Error())
			return
		}

		jsonResponse(ctx, map[string]any{
			"success": true,
			"message": "sync completed",
			"result":  res,
		})
	}
}

// CronDailySync is the machine entry point an external scheduler calls
// once per day. Auth is handled by the bearer-secret middleware.
func CronDailySync(orch *syncpkg.Orchestrator) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		log.Printf("starting scheduled daily sync")
		res, err := orch.DailySync(ctx)
		if err != nil {
			log.Printf("scheduled daily sync failed: %v", err)
			errResponse(ctx, fasthttp.StatusInternalServerError, err.Error())
			return
		}
		jsonResponse(ctx, map[string]any{
			"success": true,
			"message": "daily sync completed",
			"result":  res,
		})
	}
}
