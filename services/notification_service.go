package services

import (
	"context"
	"encoding/json"
	"fmt"

	"civiceye/models"
	"civiceye/repository"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// NotificationKeep is how many notifications a user keeps.
const NotificationKeep = 100

type NotificationService struct {
	Repo  repository.NotificationRepository
	Clock clockwork.Clock
	Log   *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, clock clockwork.Clock, log *zap.Logger) *NotificationService {
	return &NotificationService{Repo: repo, Clock: clock, Log: log}
}

// Notify stores n unless the recipient's preferences reject it.
func (s *NotificationService) Notify(ctx context.Context, n models.Notification, allowed func(models.NotificationPreferences) bool) error {
	if allowed != nil {
		prefs, err := s.Repo.Preferences(ctx, n.UserID)
		if err != nil {
			return err
		}
		if !allowed(prefs) {
			s.Log.Debug("notification_suppressed", zap.String("user_id", n.UserID), zap.String("type", string(n.Type)))
			return nil
		}
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Timestamp == 0 {
		n.Timestamp = s.Clock.Now().UnixMilli()
	}
	if n.Priority == "" {
		n.Priority = models.PriorityMedium
	}
	n.Read = false
	return s.Repo.AddNotification(ctx, n, NotificationKeep)
}

// List returns a user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.Repo.Notifications(ctx, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	notes, err := s.Repo.Notifications(ctx, userID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, note := range notes {
		if !note.Read {
			n++
		}
	}
	return n, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	found := false
	_, err := s.Repo.UpdateNotifications(ctx, userID, func(notes []models.Notification) []models.Notification {
		for i := range notes {
			if notes[i].ID == id {
				notes[i].Read = true
				found = true
			}
		}
		return notes
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("notification %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.Repo.UpdateNotifications(ctx, userID, func(notes []models.Notification) []models.Notification {
		for i := range notes {
			notes[i].Read = true
		}
		return notes
	})
	return err
}

func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	found := false
	_, err := s.Repo.UpdateNotifications(ctx, userID, func(notes []models.Notification) []models.Notification {
		kept := notes[:0]
		for _, n := range notes {
			if n.ID == id {
				found = true
				continue
			}
			kept = append(kept, n)
		}
		return kept
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("notification %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (s *NotificationService) Clear(ctx context.Context, userID string) error {
	_, err := s.Repo.UpdateNotifications(ctx, userID, func([]models.Notification) []models.Notification {
		return []models.Notification{}
	})
	return err
}

func (s *NotificationService) Preferences(ctx context.Context, userID string) (models.NotificationPreferences, error) {
	return s.Repo.Preferences(ctx, userID)
}

// PreferencesPatch replaces only the sections that are set.
type PreferencesPatch struct {
	InApp      *models.InAppPreferences `json:"inApp,omitempty"`
	Email      *models.EmailPreferences `json:"email,omitempty"`
	Push       *models.PushPreferences  `json:"push,omitempty"`
	Frequency  *string                  `json:"frequency,omitempty"`
	QuietHours *models.QuietHours       `json:"quietHours,omitempty"`
}

func (s *NotificationService) UpdatePreferences(ctx context.Context, userID string, patch PreferencesPatch) (models.NotificationPreferences, error) {
	prefs, err := s.Repo.UpdatePreferences(ctx, userID, func(prefs *models.NotificationPreferences) error {
		if patch.InApp != nil {
			prefs.InApp = *patch.InApp
		}
		if patch.Email != nil {
			prefs.Email = *patch.Email
		}
		if patch.Push != nil {
			prefs.Push = *patch.Push
		}
		if patch.Frequency != nil {
			prefs.Frequency = *patch.Frequency
		}
		if patch.QuietHours != nil {
			prefs.QuietHours = *patch.QuietHours
		}
		return nil
	})
	if err != nil {
		return models.NotificationPreferences{}, err
	}
	return prefs, nil
}

// SettingsFile is the downloadable settings document.
type SettingsFile struct {
	NotificationPreferences *models.NotificationPreferences `json:"notificationPreferences"`
	ExportDate              string                          `json:"exportDate"`
}

// ExportSettings renders the user's settings as an indented JSON file.
func (s *NotificationService) ExportSettings(ctx context.Context, userID string) (ExportFile, error) {
	prefs, err := s.Repo.Preferences(ctx, userID)
	if err != nil {
		return ExportFile{}, err
	}
	now := s.Clock.Now().UTC()
	raw, err := json.MarshalIndent(SettingsFile{
		NotificationPreferences: &prefs,
		ExportDate:              now.Format("2006-01-02T15:04:05.000Z07:00"),
	}, "", "  ")
	if err != nil {
		return ExportFile{}, err
	}
	return ExportFile{
		Filename:    "civiceye-settings-" + now.Format(dayLayout) + ".json",
		ContentType: "application/json",
		Content:     raw,
	}, nil
}

// ImportSettings applies a previously exported file over the current
// preferences. Nothing changes when the file cannot be read.
func (s *NotificationService) ImportSettings(ctx context.Context, userID string, raw []byte) (models.NotificationPreferences, error) {
	var file struct {
		NotificationPreferences json.RawMessage `json:"notificationPreferences"`
	}
	if err := json.Unmarshal(raw, &file); err != nil {
		return models.NotificationPreferences{}, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	return s.Repo.UpdatePreferences(ctx, userID, func(prefs *models.NotificationPreferences) error {
		if len(file.NotificationPreferences) == 0 || string(file.NotificationPreferences) == "null" {
			return nil
		}
		if err := json.Unmarshal(file.NotificationPreferences, prefs); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedImport, err)
		}
		if err := repository.Validate(*prefs); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedImport, err)
		}
		return nil
	})
}
