// services/scheduler.go
package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// TournamentJobInterval is how often tournaments are finalized and rolled
// over.
const TournamentJobInterval = time.Hour

// StartTournamentScheduler runs the tournament job now and then hourly. The
// caller shuts the returned scheduler down.
func (s *TournamentService) StartTournamentScheduler(ctx context.Context) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler(gocron.WithClock(s.Clock))
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(TournamentJobInterval),
		gocron.NewTask(func() {
			s.RunTournamentJob(ctx)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	return sched, nil
}

// RunTournamentJob finalizes ended tournaments and makes sure the current
// monthly one exists.
func (s *TournamentService) RunTournamentJob(ctx context.Context) {
	finished, err := s.FinalizeExpired(ctx)
	if err != nil {
		s.Log.Error("tournament_finalize_failed", zap.Error(err))
	}
	t, err := s.EnsureMonthlyTournament(ctx)
	if err != nil {
		s.Log.Error("tournament_ensure_failed", zap.Error(err))
		return
	}
	s.Log.Debug("tournament_job_done", zap.Int("finalized", len(finished)), zap.String("current", t.ID))
}
