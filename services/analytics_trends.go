package services

import (
	"sort"
	"time"

	"civiceye/models"
)

// Trend is the percentage change from previous to current, 0 when previous
// is 0.
func Trend(current, previous int) float64 {
	if previous <= 0 {
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}

// windows returns the starts of the last and the previous 30-day windows.
func windows(now time.Time) (last, previous time.Time) {
	return now.AddDate(0, 0, -30), now.AddDate(0, 0, -60)
}

func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func ComputeTrends(now time.Time, pubs []models.Publication, users []models.User) models.Trends {
	lastStart, prevStart := windows(now)

	var curPubs, prevPubs, curRec, prevRec int
	for i := range pubs {
		p := &pubs[i]
		switch {
		case !p.CreatedAt.Before(lastStart):
			curPubs++
			if p.IsRecovered() {
				curRec++
			}
		case inWindow(p.CreatedAt, prevStart, lastStart):
			prevPubs++
			if p.IsRecovered() {
				prevRec++
			}
		}
	}

	var curUsers, prevUsers int
	for i := range users {
		switch c := users[i].CreatedAt; {
		case !c.Before(lastStart):
			curUsers++
		case inWindow(c, prevStart, lastStart):
			prevUsers++
		}
	}

	return models.Trends{
		PublicationTrend: Trend(curPubs, prevPubs),
		RecoveryTrend:    Trend(curRec, prevRec),
		UserGrowthTrend:  Trend(curUsers, prevUsers),
		SeasonalPatterns: SeasonalPatterns(pubs),
	}
}

var monthNames = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// SeasonalPatterns buckets all publications by calendar month, ignoring the
// year. Always 12 rows, January first.
func SeasonalPatterns(pubs []models.Publication) []models.SeasonalPattern {
	out := make([]models.SeasonalPattern, 12)
	for i, name := range monthNames {
		out[i].Month = name
	}
	for i := range pubs {
		m := pubs[i].CreatedAt.UTC().Month() - 1
		out[m].Incidents++
		if pubs[i].IsRecovered() {
			out[m].Recoveries++
		}
	}
	return out
}

// MostEffectiveHours ranks the 24 UTC creation hours by recovery rate and
// keeps the top 6. Equal rates keep hour order.
func MostEffectiveHours(pubs []models.Publication) []models.HourlyEffectiveness {
	var total, recovered [24]int
	for i := range pubs {
		h := pubs[i].CreatedAt.UTC().Hour()
		total[h]++
		if pubs[i].IsRecovered() {
			recovered[h]++
		}
	}
	hours := make([]models.HourlyEffectiveness, 24)
	for h := range hours {
		hours[h] = models.HourlyEffectiveness{Hour: h, RecoveryRate: rate(recovered[h], total[h])}
	}
	sort.SliceStable(hours, func(i, j int) bool { return hours[i].RecoveryRate > hours[j].RecoveryRate })
	return hours[:6]
}

// CommunityImpact is recoveries per interaction (publications plus
// comments), in percent.
func CommunityImpact(pubs []models.Publication, comments []models.Comment) float64 {
	return rate(countRecovered(pubs), len(pubs)+len(comments))
}

// PlatformHealth scores activity out of 100.
func PlatformHealth(publications, comments, recoveries int) int {
	score := 0
	if publications > 0 {
		score += 25
	}
	if comments > 0 {
		score += 25
	}
	if recoveries > 0 {
		score += 30
	}
	perPub := publications
	if perPub < 1 {
		perPub = 1
	}
	if float64(comments)/float64(perPub) > 1 {
		score += 20
	} else {
		score += 10
	}
	return score
}

// AvgRecoveryTime is the mean days from creation to recovery. Records
// without recoveredAt count up to now.
func AvgRecoveryTime(now time.Time, pubs []models.Publication) float64 {
	var total time.Duration
	n := 0
	for i := range pubs {
		p := &pubs[i]
		if !p.IsRecovered() {
			continue
		}
		end := now
		if p.RecoveredAt != nil {
			end = *p.RecoveredAt
		}
		total += end.Sub(p.CreatedAt)
		n++
	}
	if n == 0 {
		return 0
	}
	return total.Hours() / float64(n) / 24
}

func ComputeEffectiveness(now time.Time, pubs []models.Publication, comments []models.Comment) models.Effectiveness {
	return models.Effectiveness{
		AvgRecoveryTime:    AvgRecoveryTime(now, pubs),
		MostEffectiveHours: MostEffectiveHours(pubs),
		CommunityImpact:    CommunityImpact(pubs, comments),
		PlatformHealth:     PlatformHealth(len(pubs), len(comments), countRecovered(pubs)),
	}
}
