// services/scheduler.go
package services

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"
)

// StartReaper schedules Reap(ttl) every interval on the registry clock.
// Callers shut the returned scheduler down.
func (r *SessionRegistry) StartReaper(ttl, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler(gocron.WithClock(r.clock))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if n := r.Reap(ttl); n > 0 {
				log.Infof("[Scheduler] Reaped %d idle session(s), %d live", n, r.Len())
			}
		}),
		gocron.WithName("session-reaper"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to schedule session reaper: %w", err)
	}

	sched.Start()
	log.Infof("✅ [Scheduler] Reaping sessions idle for %s every %s", ttl, interval)
	return sched, nil
}
