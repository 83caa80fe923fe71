package services

import (
	"sort"
	"strings"
	"time"

	"civiceye/models"
	"civiceye/utils"
)

const dayLayout = "2006-01-02"

// rate is part/total×100, 0 when total is 0.
func rate(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func countRecovered(pubs []models.Publication) int {
	n := 0
	for i := range pubs {
		if pubs[i].IsRecovered() {
			n++
		}
	}
	return n
}

// RecoveryRate is the share of recovered publications, in percent.
func RecoveryRate(pubs []models.Publication) float64 {
	return rate(countRecovered(pubs), len(pubs))
}

// DailyStats returns one row per calendar day (UTC) for the 30 days ending
// today, oldest first. Empty days are zero rows.
func DailyStats(now time.Time, pubs []models.Publication, comments []models.Comment, users []models.User) []models.DailyStat {
	now = now.UTC()
	stats := make([]models.DailyStat, 0, 30)
	index := make(map[string]int, 30)
	for i := 29; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format(dayLayout)
		index[day] = len(stats)
		stats = append(stats, models.DailyStat{Date: day})
	}

	for i := range pubs {
		if j, ok := index[pubs[i].CreatedAt.UTC().Format(dayLayout)]; ok {
			stats[j].Publications++
			if pubs[i].IsRecovered() {
				stats[j].Recoveries++
			}
		}
	}
	for i := range comments {
		if j, ok := index[comments[i].CreatedAt.UTC().Format(dayLayout)]; ok {
			stats[j].Comments++
		}
	}
	for i := range users {
		if j, ok := index[users[i].CreatedAt.UTC().Format(dayLayout)]; ok {
			stats[j].NewUsers++
		}
	}
	return stats
}

// firstCommentAt maps publication id to the time of its earliest comment.
func firstCommentAt(comments []models.Comment) map[string]time.Time {
	first := make(map[string]time.Time)
	for _, c := range comments {
		if t, ok := first[c.PublicationID]; !ok || c.CreatedAt.Before(t) {
			first[c.PublicationID] = c.CreatedAt
		}
	}
	return first
}

// LocationStats groups publications by primary location, most reported first.
// Groups with equal counts keep first-seen order.
func LocationStats(pubs []models.Publication, comments []models.Comment) []models.LocationStat {
	type group struct {
		count, recovered int
		responseHours    float64
		responded        int
	}
	first := firstCommentAt(comments)
	groups := make(map[string]*group)
	var order []string

	for i := range pubs {
		p := &pubs[i]
		loc := p.PrimaryLocation()
		g, ok := groups[loc]
		if !ok {
			g = &group{}
			groups[loc] = g
			order = append(order, loc)
		}
		g.count++
		if p.IsRecovered() {
			g.recovered++
		}
		if t, ok := first[p.ID]; ok {
			g.responseHours += t.Sub(p.CreatedAt).Hours()
			g.responded++
		}
	}

	stats := make([]models.LocationStat, 0, len(order))
	for _, loc := range order {
		g := groups[loc]
		avg := 0.0
		if g.responded > 0 {
			avg = g.responseHours / float64(g.responded)
		}
		stats = append(stats, models.LocationStat{
			Location:        loc,
			Count:           g.count,
			RecoveryRate:    rate(g.recovered, g.count),
			AvgResponseTime: avg,
		})
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Count > stats[j].Count })
	return stats
}

type categoryRule struct {
	Name     string
	Keywords []string
	AvgValue int
}

// CategoryOther catches every publication no rule matched.
const CategoryOther = "Otros"

// categoryRules are tried in order; the first match wins.
var categoryRules = []categoryRule{
	{Name: "Electrónicos", Keywords: []string{"celular", "laptop", "tablet", "auriculares", "cámara"}, AvgValue: 500},
	{Name: "Vehículos", Keywords: []string{"bicicleta", "moto", "auto", "carro", "vehiculo"}, AvgValue: 800},
	{Name: "Documentos", Keywords: []string{"dni", "pasaporte", "carnet", "documento", "cedula"}, AvgValue: 50},
	{Name: "Joyas", Keywords: []string{"anillo", "collar", "pulsera", "reloj", "joya"}, AvgValue: 300},
	{Name: "Ropa", Keywords: []string{"chaqueta", "zapatos", "bolso", "cartera", "ropa"}, AvgValue: 100},
	{Name: CategoryOther, AvgValue: 150},
}

// ClassifyPublication returns the first category whose keywords appear in
// the title or description, case-insensitively.
func ClassifyPublication(p models.Publication) string {
	title := utils.LowerES(p.Title)
	desc := utils.LowerES(p.Description)
	for _, rule := range categoryRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(title, kw) || strings.Contains(desc, kw) {
				return rule.Name
			}
		}
	}
	return CategoryOther
}

// CategoryStats partitions publications over the fixed categories. Empty
// categories are left out.
func CategoryStats(pubs []models.Publication) []models.CategoryStat {
	counts := make(map[string]int, len(categoryRules))
	recovered := make(map[string]int, len(categoryRules))
	for i := range pubs {
		cat := ClassifyPublication(pubs[i])
		counts[cat]++
		if pubs[i].IsRecovered() {
			recovered[cat]++
		}
	}

	var stats []models.CategoryStat
	for _, rule := range categoryRules {
		n := counts[rule.Name]
		if n == 0 {
			continue
		}
		stats = append(stats, models.CategoryStat{
			Category:     rule.Name,
			Count:        n,
			RecoveryRate: rate(recovered[rule.Name], n),
			AvgValue:     rule.AvgValue,
		})
	}
	if stats == nil {
		stats = []models.CategoryStat{}
	}
	return stats
}

func EngagementScore(publications, comments, recoveries int) int {
	return publications*10 + comments*2 + recoveries*50
}

// UserEngagementScores scores every user, highest first. Ties keep storage
// order.
func UserEngagementScores(users []models.User, pubs []models.Publication, comments []models.Comment) []models.UserEngagement {
	type tally struct{ pubs, comments, recoveries int }
	byUser := make(map[string]*tally, len(users))
	get := func(id string) *tally {
		t, ok := byUser[id]
		if !ok {
			t = &tally{}
			byUser[id] = t
		}
		return t
	}
	for i := range pubs {
		t := get(pubs[i].UserID)
		t.pubs++
		if pubs[i].IsRecovered() {
			t.recoveries++
		}
	}
	for i := range comments {
		get(comments[i].UserID).comments++
	}

	out := make([]models.UserEngagement, 0, len(users))
	for i := range users {
		u := &users[i]
		t := get(u.ID)
		out = append(out, models.UserEngagement{
			UserID:          u.ID,
			UserName:        u.Name,
			Publications:    t.pubs,
			Comments:        t.comments,
			Recoveries:      t.recoveries,
			LastActivity:    u.LastSeen(),
			EngagementScore: EngagementScore(t.pubs, t.comments, t.recoveries),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EngagementScore > out[j].EngagementScore })
	return out
}

// ComputeAnalytics builds the full analytics table set at instant now.
func ComputeAnalytics(now time.Time, users []models.User, pubs []models.Publication, comments []models.Comment) models.AnalyticsData {
	return models.AnalyticsData{
		TotalUsers:        len(users),
		TotalPublications: len(pubs),
		TotalComments:     len(comments),
		RecoveryRate:      RecoveryRate(pubs),
		DailyStats:        DailyStats(now, pubs, comments, users),
		LocationStats:     LocationStats(pubs, comments),
		CategoryStats:     CategoryStats(pubs),
		UserEngagement:    UserEngagementScores(users, pubs, comments),
		Trends:            ComputeTrends(now, pubs, users),
		Effectiveness:     ComputeEffectiveness(now, pubs, comments),
		GeneratedAt:       now,
	}
}
