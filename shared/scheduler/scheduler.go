package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a unit of periodic maintenance work, such as reloading the
// industry knowledge table from its artifact.
type Job interface {
	Name() string
	RunOnce(ctx context.Context) error
}

// Scheduler runs jobs on cron schedules without overlapping runs.
type Scheduler struct {
	cron *cron.Cron
}

func New() *Scheduler {
	return &Scheduler{
		// Prevent overlapping runs
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// Add schedules job on the given cron expression.
func (s *Scheduler) Add(ctx context.Context, schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		start := time.Now()
		if err := job.RunOnce(ctx); err != nil {
			log.Printf("Error running scheduled job %s: %v", job.Name(), err)
			return
		}
		log.Printf("Scheduled job %s completed (took %v)", job.Name(), time.Since(start))
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job %s: %w", job.Name(), err)
	}
	log.Printf("Scheduled %s with schedule: %s", job.Name(), schedule)
	return nil
}

// Start runs the scheduler until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	go func() {
		<-ctx.Done()
		s.cron.Stop()
		log.Println("Scheduler stopped")
	}()
}
