package services

import (
	"context"
	"fmt"

	"civiceye/models"
	"civiceye/utils"

	"go.uber.org/zap"
)

// missionFor maps an action to the daily mission it advances.
func missionFor(a models.Action) string {
	switch a {
	case models.ActionAddComment:
		return models.MissionDailyComment
	case models.ActionViewPublication:
		return models.MissionDailyView
	case models.ActionSharePublication:
		return models.MissionDailyShare
	}
	return ""
}

// GetMissions returns today's missions, generating them on first access.
func (s *GamificationService) GetMissions(ctx context.Context, userID string) ([]models.Mission, error) {
	now := s.Clock.Now()
	day := now.UTC()
	missions, exists, err := s.Missions.ForDay(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if exists {
		return missions, nil
	}
	return s.Missions.UpdateDay(ctx, userID, day, func(ms []models.Mission, exists bool) ([]models.Mission, error) {
		if exists {
			return ms, nil
		}
		return models.DailyMissions(now), nil
	})
}

func (s *GamificationService) advanceMission(ctx context.Context, userID, missionID string) error {
	now := s.Clock.Now()
	_, err := s.Missions.UpdateDay(ctx, userID, now.UTC(), func(ms []models.Mission, exists bool) ([]models.Mission, error) {
		if !exists {
			ms = models.DailyMissions(now)
		}
		for i := range ms {
			m := &ms[i]
			if m.ID == missionID && !m.Completed && m.Current < m.Target {
				m.Current++
			}
		}
		return ms, nil
	})
	return err
}

// ClaimMission credits a finished mission's reward once.
func (s *GamificationService) ClaimMission(ctx context.Context, userID, missionID string) (models.ActionResult, error) {
	s.claimMu.Lock()
	defer s.claimMu.Unlock()

	missions, err := s.GetMissions(ctx, userID)
	if err != nil {
		return models.ActionResult{}, err
	}
	var mission *models.Mission
	for i := range missions {
		if missions[i].ID == missionID {
			mission = &missions[i]
			break
		}
	}
	now := s.Clock.Now()
	switch {
	case mission == nil:
		return models.ActionResult{}, fmt.Errorf("%s: %w", missionID, ErrMissionNotFound)
	case mission.Completed:
		return models.ActionResult{}, fmt.Errorf("%s: %w", missionID, ErrMissionAlreadyClaimed)
	case now.After(mission.ExpiresAt):
		return models.ActionResult{}, fmt.Errorf("%s: %w", missionID, ErrMissionExpired)
	case mission.Current < mission.Target:
		return models.ActionResult{}, fmt.Errorf("%s %d/%d: %w", missionID, mission.Current, mission.Target, ErrMissionIncomplete)
	}

	res, err := s.apply(ctx, userID, actionInput{
		Action:    models.ActionCompleteMission,
		Reward:    models.ActionReward{Points: mission.Reward.Points, Experience: mission.Reward.Experience},
		Badge:     mission.Reward.Badge,
		MissionID: mission.ID,
	})
	if err != nil {
		return models.ActionResult{}, err
	}

	_, err = s.Missions.UpdateDay(ctx, userID, now.UTC(), func(ms []models.Mission, _ bool) ([]models.Mission, error) {
		for i := range ms {
			if ms[i].ID == missionID {
				ms[i].Completed = true
			}
		}
		return ms, nil
	})
	if err != nil {
		return res, fmt.Errorf("mark mission %s claimed: %w", missionID, err)
	}

	utils.MissionClaims.WithLabelValues(missionID).Inc()
	s.Log.Info("mission_claimed", zap.String("user_id", userID), zap.String("mission", missionID), zap.Int("points", mission.Reward.Points))
	s.notify(ctx, userID, "¡Misión completada!",
		fmt.Sprintf("%s - +%d puntos", mission.Title, mission.Reward.Points),
		map[string]any{"missionId": missionID},
	)
	return res, nil
}
