package services

import (
	"fmt"
	"math"
	"sort"

	"civiceye/models"
)

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// roundHalfUp rounds .5 towards +Inf, matching the product's projections.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func PredictRecoveryRate(data models.AnalyticsData) models.RecoveryRatePrediction {
	cur := data.RecoveryRate
	trend := data.Trends.RecoveryTrend
	confidence := "Media"
	if math.Abs(trend) < 10 {
		confidence = "Alta"
	}
	return models.RecoveryRatePrediction{
		Current:         cur,
		Predicted30Days: clampPercent(cur + trend*0.3),
		Predicted90Days: clampPercent(cur + trend*0.9),
		Confidence:      confidence,
	}
}

func PredictUserGrowth(data models.AnalyticsData) models.UserGrowthPrediction {
	users := float64(data.TotalUsers)
	g := data.Trends.UserGrowthTrend / 100
	return models.UserGrowthPrediction{
		Current:         data.TotalUsers,
		Predicted30Days: roundHalfUp(users * (1 + g*0.3)),
		Predicted90Days: roundHalfUp(users * (1 + g*0.9)),
		GrowthRate:      data.Trends.UserGrowthTrend,
	}
}

// PredictHotspots ranks locations with more than 5 reports by projected
// risk, top 10.
func PredictHotspots(data models.AnalyticsData) []models.HotspotPrediction {
	out := []models.HotspotPrediction{}
	for _, loc := range data.LocationStats {
		if loc.Count <= 5 {
			continue
		}
		risk := 100 - loc.RecoveryRate
		trend := "Estable"
		if loc.Count > 10 {
			trend = "Aumentando"
		}
		out = append(out, models.HotspotPrediction{
			Location:      loc.Location,
			CurrentRisk:   risk,
			PredictedRisk: math.Min(100, risk*1.1),
			Trend:         trend,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PredictedRisk > out[j].PredictedRisk })
	return head(out, 10)
}

func Predict(t models.PredictionType, data models.AnalyticsData) (any, error) {
	switch t {
	case models.PredictRecoveryRate:
		return PredictRecoveryRate(data), nil
	case models.PredictUserGrowth:
		return PredictUserGrowth(data), nil
	case models.PredictCrimeHotspots:
		return PredictHotspots(data), nil
	}
	return nil, fmt.Errorf("%q: %w", t, ErrUnknownPrediction)
}
