package models

type ReportType string

const (
	ReportSummary        ReportType = "summary"
	ReportDetailed       ReportType = "detailed"
	ReportGeographic     ReportType = "geographic"
	ReportUserEngagement ReportType = "user_engagement"
	ReportEffectiveness  ReportType = "effectiveness"
	ReportTrends         ReportType = "trends"
)

type ReportFilters struct {
	Period string `json:"period,omitempty" query:"period"`
}

type Recommendation struct {
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type GeographicRecommendation struct {
	Type       string   `json:"type"`
	Title      string   `json:"title"`
	Areas      []string `json:"areas"`
	Suggestion string   `json:"suggestion"`
}

type SummaryMetrics struct {
	TotalUsers        int     `json:"totalUsers"`
	TotalPublications int     `json:"totalPublications"`
	TotalComments     int     `json:"totalComments"`
	RecoveryRate      float64 `json:"recoveryRate"`
	AvgRecoveryTime   float64 `json:"avgRecoveryTime"`
	PlatformHealth    int     `json:"platformHealth"`
}

type SummaryReport struct {
	Title         string         `json:"title"`
	Period        string         `json:"period"`
	Metrics       SummaryMetrics `json:"metrics"`
	Trends        Trends         `json:"trends"`
	TopLocations  []LocationStat `json:"topLocations"`
	TopCategories []CategoryStat `json:"topCategories"`
}

type TotalMetrics struct {
	Users        int     `json:"users"`
	Publications int     `json:"publications"`
	Comments     int     `json:"comments"`
	RecoveryRate float64 `json:"recoveryRate"`
}

type ExecutiveSummary struct {
	TotalMetrics  TotalMetrics  `json:"totalMetrics"`
	Trends        Trends        `json:"trends"`
	Effectiveness Effectiveness `json:"effectiveness"`
}

type DetailedAnalysis struct {
	DailyStats     []DailyStat      `json:"dailyStats"`
	LocationStats  []LocationStat   `json:"locationStats"`
	CategoryStats  []CategoryStat   `json:"categoryStats"`
	UserEngagement []UserEngagement `json:"userEngagement"`
}

type DetailedReport struct {
	Title            string           `json:"title"`
	Period           string           `json:"period"`
	ExecutiveSummary ExecutiveSummary `json:"executiveSummary"`
	DetailedAnalysis DetailedAnalysis `json:"detailedAnalysis"`
	Recommendations  []Recommendation `json:"recommendations"`
}

type HeatmapPoint struct {
	Location  string  `json:"location"`
	Intensity int     `json:"intensity"`
	Risk      float64 `json:"risk"`
}

type GeographicReport struct {
	Title            string                     `json:"title"`
	Period           string                     `json:"period"`
	LocationAnalysis []LocationStat             `json:"locationAnalysis"`
	HeatmapData      []HeatmapPoint             `json:"heatmapData"`
	Recommendations  []GeographicRecommendation `json:"recommendations"`
}

type EngagementMetrics struct {
	TotalActiveUsers   int              `json:"totalActiveUsers"`
	AvgEngagementScore float64          `json:"avgEngagementScore"`
	TopContributors    []UserEngagement `json:"topContributors"`
}

type EngagementSegmentation struct {
	HighEngagement   int `json:"highEngagement"`
	MediumEngagement int `json:"mediumEngagement"`
	LowEngagement    int `json:"lowEngagement"`
}

type UserEngagementReport struct {
	Title             string                 `json:"title"`
	Period            string                 `json:"period"`
	EngagementMetrics EngagementMetrics      `json:"engagementMetrics"`
	Segmentation      EngagementSegmentation `json:"segmentation"`
}

type EffectivenessReport struct {
	Title           string           `json:"title"`
	Period          string           `json:"period"`
	RecoveryRate    float64          `json:"recoveryRate"`
	Effectiveness   Effectiveness    `json:"effectiveness"`
	Recommendations []Recommendation `json:"recommendations"`
}

type TrendsReport struct {
	Title      string      `json:"title"`
	Period     string      `json:"period"`
	Trends     Trends      `json:"trends"`
	DailyStats []DailyStat `json:"dailyStats"`
}
