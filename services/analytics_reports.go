package services

import (
	"civiceye/models"
)

const defaultReportPeriod = "Últimos 30 días"

func reportPeriod(f models.ReportFilters) string {
	if f.Period == "" {
		return defaultReportPeriod
	}
	return f.Period
}

func head[T any](list []T, n int) []T {
	if len(list) > n {
		return list[:n]
	}
	return list
}

// BuildReport reshapes analytics data into the named report. An unknown
// type returns the data itself.
func BuildReport(t models.ReportType, data models.AnalyticsData, filters models.ReportFilters) any {
	period := reportPeriod(filters)
	switch t {
	case models.ReportSummary:
		return models.SummaryReport{
			Title:  "Reporte Resumen - CivicEye",
			Period: period,
			Metrics: models.SummaryMetrics{
				TotalUsers:        data.TotalUsers,
				TotalPublications: data.TotalPublications,
				TotalComments:     data.TotalComments,
				RecoveryRate:      data.RecoveryRate,
				AvgRecoveryTime:   data.Effectiveness.AvgRecoveryTime,
				PlatformHealth:    data.Effectiveness.PlatformHealth,
			},
			Trends:        data.Trends,
			TopLocations:  head(data.LocationStats, 5),
			TopCategories: head(data.CategoryStats, 5),
		}
	case models.ReportDetailed:
		return models.DetailedReport{
			Title:  "Reporte Detallado - CivicEye",
			Period: period,
			ExecutiveSummary: models.ExecutiveSummary{
				TotalMetrics: models.TotalMetrics{
					Users:        data.TotalUsers,
					Publications: data.TotalPublications,
					Comments:     data.TotalComments,
					RecoveryRate: data.RecoveryRate,
				},
				Trends:        data.Trends,
				Effectiveness: data.Effectiveness,
			},
			DetailedAnalysis: models.DetailedAnalysis{
				DailyStats:     data.DailyStats,
				LocationStats:  data.LocationStats,
				CategoryStats:  data.CategoryStats,
				UserEngagement: head(data.UserEngagement, 20),
			},
			Recommendations: Recommendations(data),
		}
	case models.ReportGeographic:
		heat := make([]models.HeatmapPoint, 0, len(data.LocationStats))
		for _, loc := range data.LocationStats {
			heat = append(heat, models.HeatmapPoint{
				Location:  loc.Location,
				Intensity: loc.Count,
				Risk:      100 - loc.RecoveryRate,
			})
		}
		return models.GeographicReport{
			Title:            "Análisis Geográfico - CivicEye",
			Period:           period,
			LocationAnalysis: data.LocationStats,
			HeatmapData:      heat,
			Recommendations:  GeographicRecommendations(data.LocationStats),
		}
	case models.ReportUserEngagement:
		return userEngagementReport(data, period)
	case models.ReportEffectiveness:
		return models.EffectivenessReport{
			Title:           "Análisis de Efectividad - CivicEye",
			Period:          period,
			RecoveryRate:    data.RecoveryRate,
			Effectiveness:   data.Effectiveness,
			Recommendations: Recommendations(data),
		}
	case models.ReportTrends:
		return models.TrendsReport{
			Title:      "Análisis de Tendencias - CivicEye",
			Period:     period,
			Trends:     data.Trends,
			DailyStats: data.DailyStats,
		}
	}
	return data
}

func userEngagementReport(data models.AnalyticsData, period string) models.UserEngagementReport {
	var active, total int
	var seg models.EngagementSegmentation
	for _, u := range data.UserEngagement {
		total += u.EngagementScore
		if u.EngagementScore > 0 {
			active++
		}
		switch {
		case u.EngagementScore > 100:
			seg.HighEngagement++
		case u.EngagementScore > 20:
			seg.MediumEngagement++
		default:
			seg.LowEngagement++
		}
	}
	avg := 0.0
	if n := len(data.UserEngagement); n > 0 {
		avg = float64(total) / float64(n)
	}
	return models.UserEngagementReport{
		Title:  "Análisis de Engagement - CivicEye",
		Period: period,
		EngagementMetrics: models.EngagementMetrics{
			TotalActiveUsers:   active,
			AvgEngagementScore: avg,
			TopContributors:    head(data.UserEngagement, 10),
		},
		Segmentation: seg,
	}
}

// Recommendations applies the fixed threshold rules in order.
func Recommendations(data models.AnalyticsData) []models.Recommendation {
	recs := []models.Recommendation{}
	if data.RecoveryRate < 30 {
		recs = append(recs, models.Recommendation{
			Priority:    "Alta",
			Category:    "Efectividad",
			Title:       "Mejorar tasa de recuperación",
			Description: "La tasa de recuperación está por debajo del 30%. Se recomienda implementar alertas más efectivas y mejorar la colaboración comunitaria.",
		})
	}
	if data.Trends.UserGrowthTrend < 0 {
		recs = append(recs, models.Recommendation{
			Priority:    "Media",
			Category:    "Crecimiento",
			Title:       "Impulsar crecimiento de usuarios",
			Description: "El crecimiento de usuarios está en declive. Considerar campañas de marketing y programas de referidos.",
		})
	}
	if data.Effectiveness.PlatformHealth < 70 {
		recs = append(recs, models.Recommendation{
			Priority:    "Alta",
			Category:    "Plataforma",
			Title:       "Mejorar salud de la plataforma",
			Description: "La salud general de la plataforma necesita atención. Revisar engagement y funcionalidades.",
		})
	}
	return recs
}

// GeographicRecommendations flags busy locations with a low recovery rate.
func GeographicRecommendations(locations []models.LocationStat) []models.GeographicRecommendation {
	var areas []string
	for _, loc := range locations {
		if loc.Count > 10 && loc.RecoveryRate < 20 {
			areas = append(areas, loc.Location)
		}
	}
	if len(areas) == 0 {
		return []models.GeographicRecommendation{}
	}
	return []models.GeographicRecommendation{{
		Type:       "Seguridad",
		Title:      "Zonas de alto riesgo identificadas",
		Areas:      areas,
		Suggestion: "Implementar alertas especiales y colaboración con autoridades locales",
	}}
}
