package sync

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"meetstats/internal/jst"
)

// StartScheduler runs the daily sync on the given cron schedule, evaluated
// in JST. Returns the started scheduler so the caller can Stop it. An
// empty spec disables in-process scheduling (an external scheduler calls
// the cron endpoint instead).
func StartScheduler(o *Orchestrator, spec string) (*cron.Cron, error) {
	if spec == "" {
		return nil, nil
	}

	c := cron.New(cron.WithLocation(jst.Location))
	_, err := c.AddFunc(spec, func() {
		res, err := o.DailySync(context.Background())
		if err != nil {
			log.Printf("scheduled daily sync failed: %v", err)
			return
		}
		log.Printf("scheduled daily sync result: %+v", res)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("daily sync scheduled: %s (JST)", spec)
	return c, nil
}
