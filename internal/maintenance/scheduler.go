// Package maintenance runs periodic cleanup jobs.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// retention is how long soft-deleted accounts are kept before the nightly
// purge removes the rows. Their visualizations are left in place.
const retention = 30 * 24 * time.Hour

type UserPurger interface {
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Scheduler struct {
	cron  *cron.Cron
	users UserPurger
}

func NewScheduler(users UserPurger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		users: users,
	}
}

// Start schedules the nightly purge (3:00 AM).
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("0 0 3 * * *", s.purgeUsers)
	if err != nil {
		return err
	}

	s.cron.Start()
	slog.Info("maintenance scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) purgeUsers() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.users.PurgeDeletedBefore(ctx, time.Now().Add(-retention))
	if err != nil {
		slog.Error("user purge failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("purged soft-deleted users", "count", n)
	}
}
