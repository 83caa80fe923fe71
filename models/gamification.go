package models

import "time"

// Action is a stat-mutating user activity that earns points and XP.
type Action string

const (
	ActionPublishReport    Action = "publish_report"
	ActionAddComment       Action = "add_comment"
	ActionRecoverObject    Action = "recover_object"
	ActionDailyLogin       Action = "daily_login"
	ActionCompleteMission  Action = "complete_mission"
	ActionSharePublication Action = "share_publication"
	ActionViewPublication  Action = "view_publication"
	ActionTournamentPrize  Action = "tournament_prize"
)

type ActionReward struct {
	Points     int `json:"points"`
	Experience int `json:"experience"`
}

// ActionRewards is the fixed reward table. Missions and prizes bring their
// own rewards instead.
var ActionRewards = map[Action]ActionReward{
	ActionPublishReport: {Points: 20, Experience: 15},
	ActionAddComment:    {Points: 5, Experience: 3},
	ActionRecoverObject: {Points: 100, Experience: 50},
	ActionDailyLogin:    {Points: 10, Experience: 5},
}

type LevelInfo struct {
	Level       int `json:"level"`
	NextLevelXP int `json:"nextLevelXP"`
	Progress    int `json:"progress"`
}

type LeaderboardType string

const (
	LeaderboardPoints LeaderboardType = "points"
	LeaderboardLevel  LeaderboardType = "level"
	LeaderboardStreak LeaderboardType = "streak"
)

type LeaderboardEntry struct {
	Rank   int      `json:"rank"`
	UserID string   `json:"userId"`
	Name   string   `json:"name"`
	Value  int      `json:"value"`
	Level  int      `json:"level"`
	Badges []string `json:"badges"`
}

// ActionResult describes everything one action changed.
type ActionResult struct {
	User           User      `json:"user"`
	PointsEarned   int       `json:"pointsEarned"`
	XPEarned       int       `json:"xpEarned"`
	LeveledUp      bool      `json:"leveledUp"`
	LevelInfo      LevelInfo `json:"levelInfo"`
	UnlockedBadges []Badge   `json:"unlockedBadges"`
	At             time.Time `json:"at"`
}

// GamificationProfile is what a user sees about their own progress.
type GamificationProfile struct {
	User      User      `json:"user"`
	LevelInfo LevelInfo `json:"levelInfo"`
	Badges    []Badge   `json:"badges"`
	Stats     UserStats `json:"stats"`
}
