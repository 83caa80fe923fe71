package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"civiceye/models"
	"civiceye/repository"
)

func note(userID, title string) models.Notification {
	return models.Notification{UserID: userID, Type: models.NotificationSystem, Title: title}
}

func TestNotify_DefaultsAndPreferences(t *testing.T) {
	e := newTestEnv(t)

	if err := e.notify.Notify(e.ctx, note("u1", "hola"), nil); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	rejected := func(models.NotificationPreferences) bool { return false }
	if err := e.notify.Notify(e.ctx, note("u1", "silenciada"), rejected); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	notes, err := e.notify.List(e.ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("len = %d, want 1", len(notes))
	}
	n := notes[0]
	if n.ID == "" || n.Timestamp != testNow.UnixMilli() || n.Priority != models.PriorityMedium || n.Read {
		t.Errorf("notification = %+v", n)
	}
}

func TestNotify_KeepsNewest(t *testing.T) {
	e := newTestEnv(t)
	for i := 0; i < NotificationKeep+5; i++ {
		if err := e.notify.Notify(e.ctx, note("u1", fmt.Sprintf("n%d", i)), nil); err != nil {
			t.Fatalf("Notify: %v", err)
		}
	}
	notes, _ := e.notify.List(e.ctx, "u1")
	if len(notes) != NotificationKeep {
		t.Fatalf("len = %d, want %d", len(notes), NotificationKeep)
	}
	if notes[0].Title != "n104" || notes[len(notes)-1].Title != "n5" {
		t.Errorf("kept %s..%s", notes[0].Title, notes[len(notes)-1].Title)
	}
}

func TestNotifications_ReadDeleteClear(t *testing.T) {
	e := newTestEnv(t)
	for _, title := range []string{"a", "b", "c"} {
		if err := e.notify.Notify(e.ctx, note("u1", title), nil); err != nil {
			t.Fatalf("Notify: %v", err)
		}
	}
	notes, _ := e.notify.List(e.ctx, "u1")

	if err := e.notify.MarkRead(e.ctx, "u1", notes[0].ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if n, _ := e.notify.UnreadCount(e.ctx, "u1"); n != 2 {
		t.Errorf("unread = %d, want 2", n)
	}
	if err := e.notify.MarkRead(e.ctx, "u1", "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("MarkRead(missing) err = %v", err)
	}

	if err := e.notify.Delete(e.ctx, "u1", notes[1].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := e.notify.Delete(e.ctx, "u1", notes[1].ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("second Delete err = %v", err)
	}

	if err := e.notify.MarkAllRead(e.ctx, "u1"); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if n, _ := e.notify.UnreadCount(e.ctx, "u1"); n != 0 {
		t.Errorf("unread = %d, want 0", n)
	}

	if err := e.notify.Clear(e.ctx, "u1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if notes, _ := e.notify.List(e.ctx, "u1"); len(notes) != 0 {
		t.Errorf("after Clear len = %d", len(notes))
	}
}

func TestUpdatePreferences_Patch(t *testing.T) {
	e := newTestEnv(t)
	freq := "weekly"
	inApp := models.InAppPreferences{NewComment: false, GamificationRewards: false}

	prefs, err := e.notify.UpdatePreferences(e.ctx, "u1", PreferencesPatch{InApp: &inApp, Frequency: &freq})
	if err != nil {
		t.Fatalf("UpdatePreferences: %v", err)
	}
	if prefs.Frequency != "weekly" || prefs.InApp.NewComment || !prefs.Email.WeeklyDigest {
		t.Errorf("prefs = %+v", prefs)
	}

	// Rewards are now muted, so no level or badge notifications arrive.
	if err := e.notify.Notify(e.ctx, note("u1", "premio"), func(p models.NotificationPreferences) bool {
		return p.InApp.GamificationRewards
	}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if notes, _ := e.notify.List(e.ctx, "u1"); len(notes) != 0 {
		t.Errorf("muted notification stored: %+v", notes)
	}
}

func TestUpdatePreferences_ConcurrentPatchesAllApply(t *testing.T) {
	e := newTestEnv(t)
	freq := "daily"
	quiet := models.QuietHours{Enabled: true, Start: "23:00", End: "07:00"}
	push := models.PushPreferences{}

	for i := 0; i < 30; i++ {
		userID := fmt.Sprintf("u%d", i)
		var wg sync.WaitGroup
		for _, patch := range []PreferencesPatch{{Frequency: &freq}, {QuietHours: &quiet}, {Push: &push}} {
			wg.Add(1)
			go func(patch PreferencesPatch) {
				defer wg.Done()
				if _, err := e.notify.UpdatePreferences(e.ctx, userID, patch); err != nil {
					t.Errorf("UpdatePreferences(%s): %v", userID, err)
				}
			}(patch)
		}
		wg.Wait()

		got, _ := e.notify.Preferences(e.ctx, userID)
		if got.Frequency != "daily" || got.QuietHours != quiet || got.Push != push {
			t.Fatalf("%s lost an update: %+v", userID, got)
		}
	}
}

func TestSettings_ExportImport(t *testing.T) {
	e := newTestEnv(t)

	file, err := e.notify.ExportSettings(e.ctx, "u1")
	if err != nil {
		t.Fatalf("ExportSettings: %v", err)
	}
	if file.Filename != "civiceye-settings-2026-10-18.json" || file.ContentType != "application/json" {
		t.Errorf("file = %s %s", file.Filename, file.ContentType)
	}
	var doc SettingsFile
	if err := json.Unmarshal(file.Content, &doc); err != nil {
		t.Fatalf("exported file does not parse: %v", err)
	}
	if doc.NotificationPreferences == nil || doc.NotificationPreferences.Frequency != "immediate" {
		t.Errorf("exported = %s", file.Content)
	}
	if !strings.HasPrefix(doc.ExportDate, "2026-10-18T12:00:00.000") {
		t.Errorf("exportDate = %s", doc.ExportDate)
	}

	prefs, err := e.notify.ImportSettings(e.ctx, "u1", []byte(`{"notificationPreferences":{"frequency":"daily","inApp":{"newComment":false}}}`))
	if err != nil {
		t.Fatalf("ImportSettings: %v", err)
	}
	if prefs.Frequency != "daily" || prefs.InApp.NewComment {
		t.Errorf("imported = %+v", prefs)
	}
	if !prefs.Push.UrgentAlerts {
		t.Errorf("untouched section was reset: %+v", prefs.Push)
	}
}

func TestImportSettings_RejectsBadFiles(t *testing.T) {
	e := newTestEnv(t)
	before, _ := e.notify.Preferences(e.ctx, "u1")

	for _, raw := range []string{
		`not json`,
		`{"notificationPreferences":{"frequency":"hourly"}}`,
		`{"notificationPreferences":{"inApp":"yes"}}`,
	} {
		if _, err := e.notify.ImportSettings(e.ctx, "u1", []byte(raw)); !errors.Is(err, ErrMalformedImport) {
			t.Errorf("ImportSettings(%s) err = %v, want ErrMalformedImport", raw, err)
		}
	}
	after, _ := e.notify.Preferences(e.ctx, "u1")
	if after != before {
		t.Errorf("preferences changed: %+v", after)
	}

	got, err := e.notify.ImportSettings(e.ctx, "u1", []byte(`{"exportDate":"2026-01-01"}`))
	if err != nil || got != before {
		t.Errorf("file without preferences = %+v, %v", got, err)
	}
}
