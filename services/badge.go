package services

import (
	"context"
	"fmt"

	"civiceye/models"
	"civiceye/utils"

	"go.uber.org/zap"
)

// EvaluateBadges unlocks every catalog badge whose condition holds and that
// u does not have yet, crediting its points once. It returns the new ones.
func EvaluateBadges(u *models.User, stats models.UserStats) []models.Badge {
	var unlocked []models.Badge
	for _, b := range models.BadgeCatalog {
		if u.HasBadge(b.ID) || !b.Unlockable(*u, stats) {
			continue
		}
		u.Badges = append(u.Badges, b.ID)
		u.Points += b.Points
		unlocked = append(unlocked, b)
	}
	return unlocked
}

// grantBadge adds a catalog badge regardless of its condition.
func grantBadge(u *models.User, id string) (models.Badge, bool) {
	if u.HasBadge(id) {
		return models.Badge{}, false
	}
	b, ok := models.FindBadge(id)
	if !ok {
		return models.Badge{}, false
	}
	u.Badges = append(u.Badges, b.ID)
	u.Points += b.Points
	return b, true
}

// CheckAndAwardBadges re-runs badge evaluation for one user.
func (s *GamificationService) CheckAndAwardBadges(ctx context.Context, userID string) ([]models.Badge, error) {
	users, err := s.Users.All(ctx)
	if err != nil {
		return nil, err
	}
	var unlocked []models.Badge
	_, err = s.Users.Update(ctx, userID, func(u *models.User) error {
		unlocked = EvaluateBadges(u, statsFor(users, u))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("evaluate badges: %w", err)
	}
	s.announceBadges(ctx, userID, unlocked)
	return unlocked, nil
}

func (s *GamificationService) announceBadges(ctx context.Context, userID string, badges []models.Badge) {
	for _, b := range badges {
		utils.BadgeUnlocks.WithLabelValues(b.ID).Inc()
		s.Log.Info("badge_unlocked", zap.String("user_id", userID), zap.String("badge", b.ID), zap.Int("points", b.Points))
		s.notify(ctx, userID, "¡Nuevo logro desbloqueado!",
			fmt.Sprintf("%s %s: %s", b.Icon, b.Name, b.Description),
			map[string]any{"badgeId": b.ID},
		)
	}
}

// Badges lists the static catalog.
func (s *GamificationService) Badges() []models.Badge {
	return models.BadgeCatalog
}
