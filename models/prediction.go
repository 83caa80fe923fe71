package models

type PredictionType string

const (
	PredictRecoveryRate  PredictionType = "recovery_rate"
	PredictUserGrowth    PredictionType = "user_growth"
	PredictCrimeHotspots PredictionType = "crime_hotspots"
)

type RecoveryRatePrediction struct {
	Current         float64 `json:"current"`
	Predicted30Days float64 `json:"predicted30Days"`
	Predicted90Days float64 `json:"predicted90Days"`
	Confidence      string  `json:"confidence"`
}

type UserGrowthPrediction struct {
	Current         int     `json:"current"`
	Predicted30Days int     `json:"predicted30Days"`
	Predicted90Days int     `json:"predicted90Days"`
	GrowthRate      float64 `json:"growthRate"`
}

type HotspotPrediction struct {
	Location      string  `json:"location"`
	CurrentRisk   float64 `json:"currentRisk"`
	PredictedRisk float64 `json:"predictedRisk"`
	Trend         string  `json:"trend"`
}
