package models

import "time"

type MissionType string

const (
	MissionDaily   MissionType = "daily"
	MissionWeekly  MissionType = "weekly"
	MissionMonthly MissionType = "monthly"
)

type MissionReward struct {
	Points     int    `json:"points"`
	Experience int    `json:"experience"`
	Badge      string `json:"badge,omitempty"`
}

type Mission struct {
	ID          string        `json:"id" validate:"required"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Type        MissionType   `json:"type" validate:"oneof=daily weekly monthly"`
	Target      int           `json:"target" validate:"gte=1"`
	Current     int           `json:"current" validate:"gte=0"`
	Reward      MissionReward `json:"reward"`
	ExpiresAt   time.Time     `json:"expiresAt"`
	Completed   bool          `json:"completed"`
}

// Claimable is true once progress reached the target and it was not claimed.
func (m *Mission) Claimable() bool {
	return !m.Completed && m.Current >= m.Target
}

const (
	MissionDailyComment = "daily_comment"
	MissionDailyView    = "daily_view"
	MissionDailyShare   = "daily_share"
)

// DailyMissions is the set generated for every user each day.
func DailyMissions(now time.Time) []Mission {
	expires := now.Add(24 * time.Hour)
	return []Mission{
		{
			ID:          MissionDailyComment,
			Title:       "Ciudadano Activo",
			Description: "Comenta en 3 denuncias diferentes",
			Type:        MissionDaily,
			Target:      3,
			Reward:      MissionReward{Points: 30, Experience: 20},
			ExpiresAt:   expires,
		},
		{
			ID:          MissionDailyView,
			Title:       "Vigilante Atento",
			Description: "Revisa 10 denuncias",
			Type:        MissionDaily,
			Target:      10,
			Reward:      MissionReward{Points: 20, Experience: 15},
			ExpiresAt:   expires,
		},
		{
			ID:          MissionDailyShare,
			Title:       "Difusor Comunitario",
			Description: "Ayuda a difundir 1 denuncia",
			Type:        MissionDaily,
			Target:      1,
			Reward:      MissionReward{Points: 25, Experience: 10, Badge: "helpful_citizen"},
			ExpiresAt:   expires,
		},
	}
}
