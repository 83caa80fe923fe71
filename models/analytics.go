package models

import "time"

type DailyStat struct {
	Date         string `json:"date"`
	Publications int    `json:"publications"`
	Comments     int    `json:"comments"`
	Recoveries   int    `json:"recoveries"`
	NewUsers     int    `json:"newUsers"`
}

type LocationStat struct {
	Location        string  `json:"location"`
	Count           int     `json:"count"`
	RecoveryRate    float64 `json:"recoveryRate"`
	AvgResponseTime float64 `json:"avgResponseTime"`
}

type CategoryStat struct {
	Category     string  `json:"category"`
	Count        int     `json:"count"`
	RecoveryRate float64 `json:"recoveryRate"`
	AvgValue     int     `json:"avgValue"`
}

type UserEngagement struct {
	UserID          string    `json:"userId"`
	UserName        string    `json:"userName"`
	Publications    int       `json:"publications"`
	Comments        int       `json:"comments"`
	Recoveries      int       `json:"recoveries"`
	LastActivity    time.Time `json:"lastActivity"`
	EngagementScore int       `json:"engagementScore"`
}

type SeasonalPattern struct {
	Month      string `json:"month"`
	Incidents  int    `json:"incidents"`
	Recoveries int    `json:"recoveries"`
}

type Trends struct {
	PublicationTrend float64           `json:"publicationTrend"`
	RecoveryTrend    float64           `json:"recoveryTrend"`
	UserGrowthTrend  float64           `json:"userGrowthTrend"`
	SeasonalPatterns []SeasonalPattern `json:"seasonalPatterns"`
}

type HourlyEffectiveness struct {
	Hour         int     `json:"hour"`
	RecoveryRate float64 `json:"recoveryRate"`
}

type Effectiveness struct {
	AvgRecoveryTime    float64               `json:"avgRecoveryTime"`
	MostEffectiveHours []HourlyEffectiveness `json:"mostEffectiveHours"`
	CommunityImpact    float64               `json:"communityImpact"`
	PlatformHealth     int                   `json:"platformHealth"`
}

// CommunicationStats are totals over the per-user chat and notification keys.
type CommunicationStats struct {
	Notifications       int `json:"notifications"`
	UnreadNotifications int `json:"unreadNotifications"`
	Conversations       int `json:"conversations"`
	Messages            int `json:"messages"`
}

// AnalyticsData is one full computation over the stored collections.
type AnalyticsData struct {
	TotalUsers        int                `json:"totalUsers"`
	TotalPublications int                `json:"totalPublications"`
	TotalComments     int                `json:"totalComments"`
	RecoveryRate      float64            `json:"recoveryRate"`
	DailyStats        []DailyStat        `json:"dailyStats"`
	LocationStats     []LocationStat     `json:"locationStats"`
	CategoryStats     []CategoryStat     `json:"categoryStats"`
	UserEngagement    []UserEngagement   `json:"userEngagement"`
	Trends            Trends             `json:"trends"`
	Effectiveness     Effectiveness      `json:"effectiveness"`
	Communication     CommunicationStats `json:"communication"`
	GeneratedAt       time.Time          `json:"generatedAt"`
}

type AdminTopUser struct {
	UserID     string `json:"userId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Reputation int    `json:"reputation"`
}

type AdminLocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

type RecentActivity struct {
	Publications int `json:"publications"`
	Comments     int `json:"comments"`
	NewUsers     int `json:"newUsers"`
}

// AdminStats backs the moderation dashboard.
type AdminStats struct {
	TotalUsers                int                  `json:"totalUsers"`
	TotalPublications         int                  `json:"totalPublications"`
	TotalComments             int                  `json:"totalComments"`
	ActivePublications        int                  `json:"activePublications"`
	RecoveredPublications     int                  `json:"recoveredPublications"`
	RecoveryRate              float64              `json:"recoveryRate"`
	TopUsers                  []AdminTopUser       `json:"topUsers"`
	TopLocations              []AdminLocationCount `json:"topLocations"`
	AvgCommentsPerPublication float64              `json:"avgCommentsPerPublication"`
	RecentActivity            RecentActivity       `json:"recentActivity"`
}
