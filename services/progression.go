package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"civiceye/models"
	"civiceye/repository"
	"civiceye/utils"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// BaseXPPerLevel is the flat XP step between levels.
const BaseXPPerLevel = 100

// LevelFor derives the level from total experience.
func LevelFor(experience int) models.LevelInfo {
	if experience < 0 {
		experience = 0
	}
	level := experience/BaseXPPerLevel + 1
	return models.LevelInfo{
		Level:       level,
		NextLevelXP: level * BaseXPPerLevel,
		Progress:    experience % BaseXPPerLevel,
	}
}

// Notifier delivers an in-app notification when allowed accepts the
// recipient's preferences. A nil allowed always delivers.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification, allowed func(models.NotificationPreferences) bool) error
}

type GamificationService struct {
	Users       repository.UserRepository
	Missions    repository.MissionRepository
	Tournaments repository.TournamentRepository
	Notifier    Notifier
	Clock       clockwork.Clock
	Log         *zap.Logger

	claimMu sync.Mutex
}

func NewGamificationService(
	users repository.UserRepository,
	missions repository.MissionRepository,
	tournaments repository.TournamentRepository,
	notifier Notifier,
	clock clockwork.Clock,
	log *zap.Logger,
) *GamificationService {
	return &GamificationService{
		Users:       users,
		Missions:    missions,
		Tournaments: tournaments,
		Notifier:    notifier,
		Clock:       clock,
		Log:         log,
	}
}

// actionInput is one reward application. Badge is granted outright;
// MissionID is recorded as completed.
type actionInput struct {
	Action    models.Action
	Reward    models.ActionReward
	Badge     string
	MissionID string
}

// ApplyAction credits a user-triggered action. Mission and prize rewards go
// through ClaimMission and the tournament service instead.
func (s *GamificationService) ApplyAction(ctx context.Context, userID string, action models.Action) (models.ActionResult, error) {
	reward, ok := models.ActionRewards[action]
	switch action {
	case models.ActionSharePublication, models.ActionViewPublication:
		ok = true
	case models.ActionCompleteMission, models.ActionTournamentPrize:
		ok = false
	}
	if !ok {
		return models.ActionResult{}, fmt.Errorf("%q: %w", action, ErrUnknownAction)
	}
	return s.apply(ctx, userID, actionInput{Action: action, Reward: reward})
}

func (s *GamificationService) apply(ctx context.Context, userID string, in actionInput) (models.ActionResult, error) {
	users, err := s.Users.All(ctx)
	if err != nil {
		return models.ActionResult{}, err
	}
	now := s.Clock.Now()

	var res models.ActionResult
	updated, err := s.Users.Update(ctx, userID, func(u *models.User) error {
		oldLevel, oldPoints := u.Level, u.Points
		switch in.Action {
		case models.ActionPublishReport:
			u.TotalDenuncias++
		case models.ActionAddComment:
			u.TotalComentarios++
		case models.ActionRecoverObject:
			u.ObjetosRecuperados++
		case models.ActionDailyLogin:
			if u.LastLogin != nil && calendarDaysBetween(*u.LastLogin, now) == 0 {
				return ErrDailyLoginClaimed
			}
			updateStreak(u, now)
			u.LastLogin = &now
		}

		u.Points += in.Reward.Points
		u.Experience += in.Reward.Experience
		u.LastActivity = &now
		info := LevelFor(u.Experience)
		u.Level = info.Level
		if in.MissionID != "" && !u.HasCompletedMission(in.MissionID) {
			u.CompletedMissions = append(u.CompletedMissions, in.MissionID)
		}

		var unlocked []models.Badge
		if in.Badge != "" {
			if b, ok := grantBadge(u, in.Badge); ok {
				unlocked = append(unlocked, b)
			}
		}
		unlocked = append(unlocked, EvaluateBadges(u, statsFor(users, u))...)

		res = models.ActionResult{
			PointsEarned:   u.Points - oldPoints,
			XPEarned:       in.Reward.Experience,
			LeveledUp:      u.Level > oldLevel,
			LevelInfo:      info,
			UnlockedBadges: unlocked,
			At:             now,
		}
		return nil
	})
	if err != nil {
		return models.ActionResult{}, err
	}
	res.User = updated
	if res.UnlockedBadges == nil {
		res.UnlockedBadges = []models.Badge{}
	}

	utils.ActionCount.WithLabelValues(string(in.Action)).Inc()
	s.Log.Info("action_applied",
		zap.String("user_id", userID),
		zap.String("action", string(in.Action)),
		zap.Int("points", res.PointsEarned),
		zap.Int("xp", res.XPEarned),
		zap.Int("level", updated.Level),
	)

	if res.LeveledUp {
		s.notify(ctx, userID, "¡Subiste de nivel!", fmt.Sprintf("Ahora eres nivel %d", updated.Level), nil)
	}
	s.announceBadges(ctx, userID, res.UnlockedBadges)

	if id := missionFor(in.Action); id != "" {
		if err := s.advanceMission(ctx, userID, id); err != nil {
			s.Log.Warn("mission_progress_failed", zap.String("user_id", userID), zap.String("mission", id), zap.Error(err))
		}
	}
	if !updated.IsAdmin && res.PointsEarned > 0 && in.Action != models.ActionTournamentPrize {
		if err := s.scoreTournaments(ctx, updated, res.PointsEarned); err != nil {
			s.Log.Warn("tournament_score_failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return res, nil
}

// calendarDaysBetween counts UTC calendar days from a to b.
func calendarDaysBetween(a, b time.Time) int {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// updateStreak extends the streak after exactly one day, restarts it after
// a longer gap and leaves it alone on the same day.
func updateStreak(u *models.User, now time.Time) {
	if u.LastActivity == nil {
		u.Streak = 1
		return
	}
	switch gap := calendarDaysBetween(*u.LastActivity, now); {
	case gap == 1:
		u.Streak++
	case gap > 1:
		u.Streak = 1
	}
	if u.Streak == 0 {
		u.Streak = 1
	}
}

// statsFor builds the badge inputs; rank is the 1-based registration order.
func statsFor(users []models.User, u *models.User) models.UserStats {
	rank := 0
	for i := range users {
		if users[i].ID == u.ID {
			rank = i + 1
			break
		}
	}
	return models.UserStats{
		TotalUsers:         len(users),
		UserRank:           rank,
		TotalDenuncias:     u.TotalDenuncias,
		TotalComentarios:   u.TotalComentarios,
		ObjetosRecuperados: u.ObjetosRecuperados,
	}
}

func (s *GamificationService) notify(ctx context.Context, userID, title, message string, data map[string]any) {
	if s.Notifier == nil {
		return
	}
	n := models.Notification{
		UserID:   userID,
		Type:     models.NotificationSystem,
		Title:    title,
		Message:  message,
		Data:     data,
		Priority: models.PriorityMedium,
	}
	allowed := func(p models.NotificationPreferences) bool { return p.InApp.GamificationRewards }
	if err := s.Notifier.Notify(ctx, n, allowed); err != nil {
		s.Log.Warn("notify_failed", zap.String("user_id", userID), zap.String("title", title), zap.Error(err))
	}
}

var errNoChange = errors.New("no change")

// scoreTournaments adds points to every tournament running right now.
func (s *GamificationService) scoreTournaments(ctx context.Context, u models.User, points int) error {
	now := s.Clock.Now()
	err := s.Tournaments.UpdateAll(ctx, func(ts []models.Tournament) ([]models.Tournament, error) {
		changed := false
		for i := range ts {
			t := &ts[i]
			if !t.Running(now) {
				continue
			}
			changed = true
			found := false
			for j := range t.Participants {
				if t.Participants[j].UserID == u.ID {
					t.Participants[j].Score += points
					t.Participants[j].Name = u.Name
					found = true
					break
				}
			}
			if !found {
				t.Participants = append(t.Participants, models.TournamentParticipant{UserID: u.ID, Name: u.Name, Score: points})
			}
		}
		if !changed {
			return nil, errNoChange
		}
		return ts, nil
	})
	if errors.Is(err, errNoChange) {
		return nil
	}
	return err
}

// Profile gathers what a user sees about their own progress.
func (s *GamificationService) Profile(ctx context.Context, userID string) (models.GamificationProfile, error) {
	users, err := s.Users.All(ctx)
	if err != nil {
		return models.GamificationProfile{}, err
	}
	for i := range users {
		u := users[i]
		if u.ID != userID {
			continue
		}
		badges := make([]models.Badge, 0, len(u.Badges))
		for _, id := range u.Badges {
			if b, ok := models.FindBadge(id); ok {
				badges = append(badges, b)
			}
		}
		return models.GamificationProfile{
			User:      u,
			LevelInfo: LevelFor(u.Experience),
			Badges:    badges,
			Stats:     statsFor(users, &u),
		}, nil
	}
	return models.GamificationProfile{}, fmt.Errorf("user %s: %w", userID, repository.ErrNotFound)
}

// Leaderboard returns the top 10 non-admin users by the named field. Ties
// keep storage order.
func (s *GamificationService) Leaderboard(ctx context.Context, t models.LeaderboardType) ([]models.LeaderboardEntry, error) {
	var value func(u *models.User) int
	switch t {
	case models.LeaderboardPoints:
		value = func(u *models.User) int { return u.Points }
	case models.LeaderboardLevel:
		value = func(u *models.User) int { return u.Level }
	case models.LeaderboardStreak:
		value = func(u *models.User) int { return u.Streak }
	default:
		return nil, fmt.Errorf("%q: %w", t, ErrUnknownLeaderboard)
	}

	users, err := s.Users.All(ctx)
	if err != nil {
		return nil, err
	}
	ranked := make([]models.User, 0, len(users))
	for _, u := range users {
		if !u.IsAdmin {
			ranked = append(ranked, u)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return value(&ranked[i]) > value(&ranked[j]) })

	entries := make([]models.LeaderboardEntry, 0, 10)
	for i, u := range head(ranked, 10) {
		entries = append(entries, models.LeaderboardEntry{
			Rank:   i + 1,
			UserID: u.ID,
			Name:   u.Name,
			Value:  value(&u),
			Level:  u.Level,
			Badges: u.Badges,
		})
	}
	return entries, nil
}
