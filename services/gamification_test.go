package services

import (
	"errors"
	"testing"
	"time"

	"civiceye/models"
)

func TestLevelFor(t *testing.T) {
	cases := []struct {
		xp   int
		want models.LevelInfo
	}{
		{0, models.LevelInfo{Level: 1, NextLevelXP: 100, Progress: 0}},
		{99, models.LevelInfo{Level: 1, NextLevelXP: 100, Progress: 99}},
		{100, models.LevelInfo{Level: 2, NextLevelXP: 200, Progress: 0}},
		{250, models.LevelInfo{Level: 3, NextLevelXP: 300, Progress: 50}},
	}
	for _, c := range cases {
		if got := LevelFor(c.xp); got != c.want {
			t.Errorf("LevelFor(%d) = %+v, want %+v", c.xp, got, c.want)
		}
	}
}

func TestApplyAction_PublishUnlocksBadgesOnce(t *testing.T) {
	e := newTestEnv(t)
	u := e.register(t, "ana@example.com", "Ana")

	res, err := e.gamification.ApplyAction(e.ctx, u.ID, models.ActionPublishReport)
	if err != nil {
		t.Fatalf("ApplyAction: %v", err)
	}
	// 20 for the action, 10 for first_post and 500 for early_adopter.
	if res.PointsEarned != 530 || res.XPEarned != 15 {
		t.Errorf("earned = %d points, %d xp, want 530, 15", res.PointsEarned, res.XPEarned)
	}
	if len(res.UnlockedBadges) != 2 || res.UnlockedBadges[0].ID != "first_post" || res.UnlockedBadges[1].ID != "early_adopter" {
		t.Errorf("unlocked = %+v", res.UnlockedBadges)
	}
	if res.User.TotalDenuncias != 1 || res.User.LastActivity == nil {
		t.Errorf("user = %+v", res.User)
	}

	res, err = e.gamification.ApplyAction(e.ctx, u.ID, models.ActionPublishReport)
	if err != nil {
		t.Fatalf("second ApplyAction: %v", err)
	}
	if res.PointsEarned != 20 || len(res.UnlockedBadges) != 0 {
		t.Errorf("second = %d points, badges %+v", res.PointsEarned, res.UnlockedBadges)
	}
	got := e.user(t, u.ID)
	if got.Points != 550 || len(got.Badges) != 2 {
		t.Errorf("stored = %d points, badges %v", got.Points, got.Badges)
	}
}

func TestApplyAction_LevelUpNotifies(t *testing.T) {
	e := newTestEnv(t)
	u := e.register(t, "ana@example.com", "Ana")
	var res models.ActionResult
	var err error
	for i := 0; i < 2; i++ {
		res, err = e.gamification.ApplyAction(e.ctx, u.ID, models.ActionRecoverObject)
		if err != nil {
			t.Fatalf("ApplyAction: %v", err)
		}
	}
	if !res.LeveledUp || res.User.Level != 2 {
		t.Errorf("level = %d, leveledUp = %v, want 2, true", res.User.Level, res.LeveledUp)
	}
	notes, _ := e.notify.List(e.ctx, u.ID)
	found := false
	for _, n := range notes {
		if n.Title == "¡Subiste de nivel!" {
			found = true
		}
	}
	if !found {
		t.Errorf("no level-up notification in %+v", notes)
	}
}

func TestApplyAction_RejectsInternalActions(t *testing.T) {
	e := newTestEnv(t)
	u := e.register(t, "ana@example.com", "Ana")
	for _, a := range []models.Action{models.ActionCompleteMission, models.ActionTournamentPrize, "dance"} {
		if _, err := e.gamification.ApplyAction(e.ctx, u.ID, a); !errors.Is(err, ErrUnknownAction) {
			t.Errorf("ApplyAction(%s) err = %v, want ErrUnknownAction", a, err)
		}
	}
}

func TestDailyLogin_OncePerDayAndStreak(t *testing.T) {
	e := newTestEnv(t)
	u := e.register(t, "ana@example.com", "Ana")

	res, err := e.gamification.ApplyAction(e.ctx, u.ID, models.ActionDailyLogin)
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	if res.User.Streak != 1 {
		t.Errorf("streak = %d, want 1", res.User.Streak)
	}
	if _, err := e.gamification.ApplyAction(e.ctx, u.ID, models.ActionDailyLogin); !errors.Is(err, ErrDailyLoginClaimed) {
		t.Errorf("same-day login err = %v, want ErrDailyLoginClaimed", err)
	}

	e.clock.Advance(24 * time.Hour)
	res, err = e.gamification.ApplyAction(e.ctx, u.ID, models.ActionDailyLogin)
	if err != nil {
		t.Fatalf("next-day login: %v", err)
	}
	if res.User.Streak != 2 {
		t.Errorf("streak = %d, want 2", res.User.Streak)
	}

	e.clock.Advance(72 * time.Hour)
	res, err = e.gamification.ApplyAction(e.ctx, u.ID, models.ActionDailyLogin)
	if err != nil {
		t.Fatalf("login after gap: %v", err)
	}
	if res.User.Streak != 1 {
		t.Errorf("streak after gap = %d, want 1", res.User.Streak)
	}
}

func TestCalendarDaysBetween(t *testing.T) {
	late := time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC)
	early := time.Date(2026, 10, 19, 0, 15, 0, 0, time.UTC)
	if got := calendarDaysBetween(late, early); got != 1 {
		t.Errorf("calendarDaysBetween = %d, want 1", got)
	}
	if got := calendarDaysBetween(early, early.Add(time.Hour)); got != 0 {
		t.Errorf("same day = %d, want 0", got)
	}
}

func TestEvaluateBadges_EarlyAdopterNeedsRank(t *testing.T) {
	u := models.User{ID: "x"}
	if got := EvaluateBadges(&u, models.UserStats{UserRank: 0}); len(got) != 0 {
		t.Errorf("rank 0 unlocked %+v", got)
	}
	if got := EvaluateBadges(&u, models.UserStats{UserRank: 101}); len(got) != 0 {
		t.Errorf("rank 101 unlocked %+v", got)
	}
	got := EvaluateBadges(&u, models.UserStats{UserRank: 100})
	if len(got) != 1 || got[0].ID != "early_adopter" || u.Points != 500 {
		t.Errorf("rank 100 unlocked %+v, points %d", got, u.Points)
	}
	if again := EvaluateBadges(&u, models.UserStats{UserRank: 100}); len(again) != 0 || u.Points != 500 {
		t.Errorf("re-evaluation unlocked %+v, points %d", again, u.Points)
	}
}

func TestLeaderboard(t *testing.T) {
	e := newTestEnv(t)
	admin := e.register(t, "admin@civiceye.com", "Admin")
	a := e.register(t, "a@example.com", "A")
	b := e.register(t, "b@example.com", "B")
	c := e.register(t, "c@example.com", "C")
	for _, id := range []string{admin.ID, b.ID, c.ID} {
		if _, err := e.gamification.ApplyAction(e.ctx, id, models.ActionPublishReport); err != nil {
			t.Fatalf("ApplyAction: %v", err)
		}
	}

	entries, err := e.gamification.Leaderboard(e.ctx, models.LeaderboardPoints)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3 (admin excluded)", len(entries))
	}
	// b and c tie; storage order keeps b first.
	want := []string{b.ID, c.ID, a.ID}
	for i, en := range entries {
		if en.UserID != want[i] || en.Rank != i+1 {
			t.Errorf("entries[%d] = %+v, want user %s rank %d", i, en, want[i], i+1)
		}
	}
	if _, err := e.gamification.Leaderboard(e.ctx, "karma"); !errors.Is(err, ErrUnknownLeaderboard) {
		t.Errorf("unknown type err = %v", err)
	}
}

func TestProfile(t *testing.T) {
	e := newTestEnv(t)
	u := e.register(t, "ana@example.com", "Ana")
	e.publish(t, u.ID, "Celular perdido", "Lima")

	p, err := e.gamification.Profile(e.ctx, u.ID)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.Stats.UserRank != 1 || p.Stats.TotalUsers != 1 || p.Stats.TotalDenuncias != 1 {
		t.Errorf("stats = %+v", p.Stats)
	}
	if len(p.Badges) != 2 || p.LevelInfo.Level != 1 || p.LevelInfo.Progress != 15 {
		t.Errorf("profile = %+v", p)
	}
}

func TestGetMissions_GeneratedOncePerDay(t *testing.T) {
	e := newTestEnv(t)
	u := e.register(t, "ana@example.com", "Ana")

	ms, err := e.gamification.GetMissions(e.ctx, u.ID)
	if err != nil {
		t.Fatalf("GetMissions: %v", err)
	}
	if len(ms) != 3 {
		t.Fatalf("len = %d, want 3", len(ms))
	}
	for _, m := range ms {
		if !m.ExpiresAt.Equal(testNow.Add(24*time.Hour)) || m.Current != 0 || m.Completed {
			t.Errorf("mission = %+v", m)
		}
	}

	if _, err := e.gamification.ApplyAction(e.ctx, u.ID, models.ActionViewPublication); err != nil {
		t.Fatalf("ApplyAction: %v", err)
	}
	ms, _ = e.gamification.GetMissions(e.ctx, u.ID)
	for _, m := range ms {
		if m.ID == models.MissionDailyView && m.Current != 1 {
			t.Errorf("daily_view current = %d, want 1", m.Current)
		}
	}
}

func TestClaimMission(t *testing.T) {
	e := newTestEnv(t)
	u := e.register(t, "ana@example.com", "Ana")

	if _, err := e.gamification.ClaimMission(e.ctx, u.ID, "nope"); !errors.Is(err, ErrMissionNotFound) {
		t.Errorf("unknown mission err = %v", err)
	}
	if _, err := e.gamification.ClaimMission(e.ctx, u.ID, models.MissionDailyComment); !errors.Is(err, ErrMissionIncomplete) {
		t.Errorf("incomplete mission err = %v", err)
	}

	if _, err := e.gamification.ApplyAction(e.ctx, u.ID, models.ActionSharePublication); err != nil {
		t.Fatalf("share: %v", err)
	}
	before := e.user(t, u.ID).Points

	res, err := e.gamification.ClaimMission(e.ctx, u.ID, models.MissionDailyShare)
	if err != nil {
		t.Fatalf("ClaimMission: %v", err)
	}
	// 25 for the mission and 75 for the helpful_citizen badge it grants.
	if res.PointsEarned != 100 || res.User.Points != before+100 {
		t.Errorf("earned = %d, points %d -> %d", res.PointsEarned, before, res.User.Points)
	}
	if len(res.UnlockedBadges) != 1 || res.UnlockedBadges[0].ID != "helpful_citizen" {
		t.Errorf("unlocked = %+v", res.UnlockedBadges)
	}
	if !res.User.HasCompletedMission(models.MissionDailyShare) {
		t.Errorf("completed missions = %v", res.User.CompletedMissions)
	}

	if _, err := e.gamification.ClaimMission(e.ctx, u.ID, models.MissionDailyShare); !errors.Is(err, ErrMissionAlreadyClaimed) {
		t.Errorf("second claim err = %v, want ErrMissionAlreadyClaimed", err)
	}
}

func TestClaimMission_Expired(t *testing.T) {
	e := newTestEnv(t)
	u := e.register(t, "ana@example.com", "Ana")

	_, err := e.missions.UpdateDay(e.ctx, u.ID, testNow, func(_ []models.Mission, _ bool) ([]models.Mission, error) {
		ms := models.DailyMissions(testNow.Add(-25 * time.Hour))
		for i := range ms {
			ms[i].Current = ms[i].Target
		}
		return ms, nil
	})
	if err != nil {
		t.Fatalf("UpdateDay: %v", err)
	}
	if _, err := e.gamification.ClaimMission(e.ctx, u.ID, models.MissionDailyShare); !errors.Is(err, ErrMissionExpired) {
		t.Errorf("err = %v, want ErrMissionExpired", err)
	}
}

func TestTournament_ScoresAndPrizes(t *testing.T) {
	e := newTestEnv(t)
	tour, err := e.tournament.EnsureMonthlyTournament(e.ctx)
	if err != nil {
		t.Fatalf("EnsureMonthlyTournament: %v", err)
	}
	if tour.ID != "monthly_9" || !tour.Active || len(tour.Prizes) != 3 {
		t.Fatalf("tournament = %+v", tour)
	}

	admin := e.register(t, "admin@civiceye.com", "Admin")
	a := e.register(t, "a@example.com", "A")
	b := e.register(t, "b@example.com", "B")
	e.publish(t, admin.ID, "Billetera", "Lima")
	e.publish(t, a.ID, "Mochila", "Lima")
	e.publish(t, a.ID, "Laptop", "Lima")
	e.publish(t, b.ID, "Celular", "Cusco")

	got, err := e.tournament.Standings(e.ctx, "monthly_9")
	if err != nil {
		t.Fatalf("Standings: %v", err)
	}
	if len(got) != 2 || got[0].UserID != a.ID || got[0].Score != 550 || got[1].UserID != b.ID || got[1].Score != 530 {
		t.Fatalf("standings = %+v", got)
	}

	e.clock.Advance(time.Date(2026, 11, 1, 0, 0, 1, 0, time.UTC).Sub(e.clock.Now()))
	finished, err := e.tournament.FinalizeExpired(e.ctx)
	if err != nil {
		t.Fatalf("FinalizeExpired: %v", err)
	}
	if len(finished) != 1 || finished[0].Active || finished[0].FinalizedAt == nil {
		t.Fatalf("finished = %+v", finished)
	}

	ua, ub := e.user(t, a.ID), e.user(t, b.ID)
	if ua.Points != 1550 || !ua.HasBadge("monthly_champion") {
		t.Errorf("winner = %d points, badges %v", ua.Points, ua.Badges)
	}
	if ub.Points != 1030 || !ub.HasBadge("monthly_runner_up") {
		t.Errorf("runner-up = %d points, badges %v", ub.Points, ub.Badges)
	}

	again, err := e.tournament.FinalizeExpired(e.ctx)
	if err != nil || len(again) != 0 {
		t.Errorf("second finalize = %+v, %v", again, err)
	}
	if e.user(t, a.ID).Points != 1550 {
		t.Errorf("prize credited twice")
	}
}

func TestEnsureMonthlyTournament_ReplacesLastYear(t *testing.T) {
	e := newTestEnv(t)
	stale := models.NewMonthlyTournament(testNow.AddDate(-1, 0, 0))
	stale.Participants = []models.TournamentParticipant{{UserID: "gone", Score: 5}}
	if err := e.tournaments.Upsert(e.ctx, stale); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	fresh, err := e.tournament.EnsureMonthlyTournament(e.ctx)
	if err != nil {
		t.Fatalf("EnsureMonthlyTournament: %v", err)
	}
	if fresh.ID != "monthly_9" || fresh.StartDate.Year() != 2026 || len(fresh.Participants) != 0 || !fresh.Active {
		t.Errorf("fresh = %+v", fresh)
	}
	all, _ := e.tournament.List(e.ctx)
	if len(all) != 1 {
		t.Errorf("stored tournaments = %d, want 1", len(all))
	}
}

func TestRunTournamentJob_RollsOverMonth(t *testing.T) {
	e := newTestEnv(t)
	e.tournament.RunTournamentJob(e.ctx)
	e.clock.Advance(time.Date(2026, 11, 1, 0, 0, 1, 0, time.UTC).Sub(e.clock.Now()))
	e.tournament.RunTournamentJob(e.ctx)

	all, err := e.tournament.List(e.ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	active := map[string]bool{}
	for _, tr := range all {
		active[tr.ID] = tr.Active
	}
	if len(all) != 2 || active["monthly_9"] || !active["monthly_10"] {
		t.Errorf("tournaments = %v", active)
	}
}
