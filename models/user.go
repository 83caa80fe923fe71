package models

import (
	"time"
)

// User is a registered citizen. Gamification counters live on the record
// itself so every action is a single read-modify-write of the users key.
type User struct {
	ID         string    `json:"id" validate:"required"`
	Email      string    `json:"email" validate:"required,email"`
	Name       string    `json:"name" validate:"required"`
	Avatar     string    `json:"avatar,omitempty"`
	Reputation int       `json:"reputation"`
	IsAdmin    bool      `json:"isAdmin"`
	CreatedAt  time.Time `json:"createdAt"`

	// Progression
	Level             int        `json:"level" validate:"gte=1"`
	Experience        int        `json:"experience" validate:"gte=0"`
	Points            int        `json:"points" validate:"gte=0"`
	Badges            []string   `json:"badges"`
	Streak            int        `json:"streak" validate:"gte=0"`
	LastActivity      *time.Time `json:"lastActivity,omitempty"`
	LastLogin         *time.Time `json:"lastLogin,omitempty"`
	CompletedMissions []string   `json:"completedMissions"`

	// Activity counters
	TotalDenuncias     int `json:"totalDenuncias" validate:"gte=0"`
	TotalComentarios   int `json:"totalComentarios" validate:"gte=0"`
	ObjetosRecuperados int `json:"objetosRecuperados" validate:"gte=0"`
}

// Normalize fills defaults older records may lack.
func (u *User) Normalize() {
	if u.Level < 1 {
		u.Level = 1
	}
	if u.Badges == nil {
		u.Badges = []string{}
	}
	if u.CompletedMissions == nil {
		u.CompletedMissions = []string{}
	}
}

func (u *User) HasBadge(id string) bool {
	return containsString(u.Badges, id)
}

func (u *User) HasCompletedMission(id string) bool {
	return containsString(u.CompletedMissions, id)
}

// LastSeen is the last activity, falling back to registration time.
func (u *User) LastSeen() time.Time {
	if u.LastActivity != nil {
		return *u.LastActivity
	}
	return u.CreatedAt
}

// UserStats are the aggregate figures badge conditions are evaluated against.
type UserStats struct {
	TotalUsers         int `json:"totalUsers"`
	UserRank           int `json:"userRank"`
	TotalDenuncias     int `json:"totalDenuncias"`
	TotalComentarios   int `json:"totalComentarios"`
	ObjetosRecuperados int `json:"objetosRecuperados"`
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// ToggleString adds v to list when missing and removes it otherwise.
func ToggleString(list []string, v string) ([]string, bool) {
	for i, s := range list {
		if s == v {
			return append(list[:i:i], list[i+1:]...), false
		}
	}
	return append(list, v), true
}
