package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

type Job struct {
	Name     string
	Interval time.Duration
	Task     func(ctx context.Context) error
}

// Start registers every job as a fixed interval task and starts the scheduler.
// Tasks receive ctx, which should be cancelled on shutdown.
func Start(ctx context.Context, jobs ...Job) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	for _, job := range jobs {
		job := job
		_, err = s.NewJob(
			gocron.DurationJob(job.Interval),
			gocron.NewTask(func() {
				if err := job.Task(ctx); err != nil {
					log.Error().Err(err).Str("component", "Scheduler").Str("job", job.Name).Msg("")
				}
			}),
			gocron.WithName(job.Name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return nil, err
		}
	}

	s.Start()

	return s, nil
}
