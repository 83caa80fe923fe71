package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"civiceye/models"
	"civiceye/repository"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type TournamentService struct {
	Tournaments  repository.TournamentRepository
	Gamification *GamificationService
	Clock        clockwork.Clock
	Log          *zap.Logger
}

func NewTournamentService(tournaments repository.TournamentRepository, gamification *GamificationService, clock clockwork.Clock, log *zap.Logger) *TournamentService {
	return &TournamentService{Tournaments: tournaments, Gamification: gamification, Clock: clock, Log: log}
}

func (s *TournamentService) List(ctx context.Context) ([]models.Tournament, error) {
	return s.Tournaments.All(ctx)
}

// EnsureMonthlyTournament makes sure this month's tournament exists. The id
// repeats every year, so a stored one from another month is finalized and
// replaced.
func (s *TournamentService) EnsureMonthlyTournament(ctx context.Context) (models.Tournament, error) {
	now := s.Clock.Now().UTC()
	id := models.MonthlyTournamentID(now)

	t, err := s.Tournaments.Get(ctx, id)
	switch {
	case err == nil:
		start := t.StartDate.UTC()
		if start.Year() == now.Year() && start.Month() == now.Month() {
			return t, nil
		}
		if _, err := s.FinalizeExpired(ctx); err != nil {
			return models.Tournament{}, err
		}
	case !errors.Is(err, repository.ErrNotFound):
		return models.Tournament{}, err
	}

	fresh := models.NewMonthlyTournament(now)
	if err := s.Tournaments.Upsert(ctx, fresh); err != nil {
		return models.Tournament{}, fmt.Errorf("create tournament %s: %w", id, err)
	}
	s.Log.Info("tournament_created", zap.String("tournament_id", id), zap.Time("ends", fresh.EndDate))
	return fresh, nil
}

// Standings sorts participants by score, highest first. Ties keep join
// order.
func (s *TournamentService) Standings(ctx context.Context, id string) ([]models.TournamentParticipant, error) {
	t, err := s.Tournaments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return standings(t), nil
}

func standings(t models.Tournament) []models.TournamentParticipant {
	out := append([]models.TournamentParticipant{}, t.Participants...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// FinalizeExpired closes every active tournament whose end date passed and
// credits the prizes to its top participants.
func (s *TournamentService) FinalizeExpired(ctx context.Context) ([]models.Tournament, error) {
	now := s.Clock.Now()
	var finished []models.Tournament
	err := s.Tournaments.UpdateAll(ctx, func(ts []models.Tournament) ([]models.Tournament, error) {
		for i := range ts {
			t := &ts[i]
			if !t.Active || !now.After(t.EndDate) {
				continue
			}
			t.Active = false
			at := now
			t.FinalizedAt = &at
			finished = append(finished, *t)
		}
		if len(finished) == 0 {
			return nil, errNoChange
		}
		return ts, nil
	})
	if errors.Is(err, errNoChange) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	for _, t := range finished {
		ranked := standings(t)
		for _, prize := range t.Prizes {
			if prize.Position < 1 || prize.Position > len(ranked) {
				continue
			}
			winner := ranked[prize.Position-1]
			if err := s.awardPrize(ctx, t, winner, prize); err != nil {
				s.Log.Error("tournament_prize_failed",
					zap.String("tournament_id", t.ID),
					zap.String("user_id", winner.UserID),
					zap.Error(err),
				)
			}
		}
		s.Log.Info("tournament_finalized", zap.String("tournament_id", t.ID), zap.Int("participants", len(ranked)))
	}
	return finished, nil
}

func (s *TournamentService) awardPrize(ctx context.Context, t models.Tournament, winner models.TournamentParticipant, prize models.TournamentPrize) error {
	_, err := s.Gamification.apply(ctx, winner.UserID, actionInput{
		Action: models.ActionTournamentPrize,
		Reward: models.ActionReward{Points: prize.Points},
		Badge:  prize.Badge,
	})
	if err != nil {
		return err
	}
	s.Gamification.notify(ctx, winner.UserID, "¡Premio de torneo!",
		fmt.Sprintf("Quedaste en el puesto %d de %s - +%d puntos", prize.Position, t.Name, prize.Points),
		map[string]any{"tournamentId": t.ID, "position": prize.Position},
	)
	return nil
}
