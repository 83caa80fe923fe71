package repository

import (
	"context"
	"sync"

	"civiceye/models"
	"civiceye/store"

	"go.uber.org/zap"
)

// NotificationRepository holds the per-user notification and chat keys.
type NotificationRepository interface {
	Notifications(ctx context.Context, userID string) ([]models.Notification, error)
	// AddNotification prepends n to its owner's list and keeps the newest keep.
	AddNotification(ctx context.Context, n models.Notification, keep int) error
	UpdateNotifications(ctx context.Context, userID string, fn func([]models.Notification) []models.Notification) ([]models.Notification, error)

	Conversations(ctx context.Context, userID string) ([]models.Conversation, error)
	SaveConversation(ctx context.Context, userID string, c models.Conversation) error
	UpdateConversations(ctx context.Context, userID string, fn func([]models.Conversation) []models.Conversation) ([]models.Conversation, error)

	Messages(ctx context.Context, userID string) ([]models.Message, error)
	AddMessage(ctx context.Context, userID string, m models.Message) error
	UpdateMessages(ctx context.Context, userID string, fn func([]models.Message) []models.Message) error

	// Preferences returns the defaults when nothing usable is stored.
	Preferences(ctx context.Context, userID string) (models.NotificationPreferences, error)
	// UpdatePreferences applies fn to the stored preferences and saves them.
	// On error the preferences as loaded are returned and nothing is written.
	UpdatePreferences(ctx context.Context, userID string, fn func(*models.NotificationPreferences) error) (models.NotificationPreferences, error)
}

type Notifications struct {
	mu    sync.Mutex
	store store.Store
	log   *zap.Logger
}

func NewNotifications(s store.Store, log *zap.Logger) *Notifications {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifications{store: s, log: log}
}

func (r *Notifications) Notifications(ctx context.Context, userID string) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return loadList[models.Notification](ctx, r.store, store.NotificationsKey(userID), r.log)
}

func (r *Notifications) AddNotification(ctx context.Context, n models.Notification, keep int) error {
	if err := Validate(n); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := store.NotificationsKey(n.UserID)
	list, err := loadList[models.Notification](ctx, r.store, key, r.log)
	if err != nil {
		return err
	}
	list = append([]models.Notification{n}, list...)
	if keep > 0 && len(list) > keep {
		list = list[:keep]
	}
	return saveList(ctx, r.store, key, list)
}

func (r *Notifications) UpdateNotifications(ctx context.Context, userID string, fn func([]models.Notification) []models.Notification) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := store.NotificationsKey(userID)
	list, err := loadList[models.Notification](ctx, r.store, key, r.log)
	if err != nil {
		return nil, err
	}
	list = fn(list)
	if err := saveList(ctx, r.store, key, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Notifications) Conversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return loadList[models.Conversation](ctx, r.store, store.ConversationsKey(userID), r.log)
}

// SaveConversation replaces the conversation with the same id or puts it first.
func (r *Notifications) SaveConversation(ctx context.Context, userID string, c models.Conversation) error {
	if err := Validate(c); err != nil {
		return err
	}
	_, err := r.UpdateConversations(ctx, userID, func(list []models.Conversation) []models.Conversation {
		for i := range list {
			if list[i].ID == c.ID {
				list[i] = c
				return list
			}
		}
		return append([]models.Conversation{c}, list...)
	})
	return err
}

func (r *Notifications) UpdateConversations(ctx context.Context, userID string, fn func([]models.Conversation) []models.Conversation) ([]models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := store.ConversationsKey(userID)
	list, err := loadList[models.Conversation](ctx, r.store, key, r.log)
	if err != nil {
		return nil, err
	}
	list = fn(list)
	if err := saveList(ctx, r.store, key, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Notifications) Messages(ctx context.Context, userID string) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return loadList[models.Message](ctx, r.store, store.MessagesKey(userID), r.log)
}

func (r *Notifications) AddMessage(ctx context.Context, userID string, m models.Message) error {
	if err := Validate(m); err != nil {
		return err
	}
	return r.UpdateMessages(ctx, userID, func(list []models.Message) []models.Message {
		return append(list, m)
	})
}

func (r *Notifications) UpdateMessages(ctx context.Context, userID string, fn func([]models.Message) []models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := store.MessagesKey(userID)
	list, err := loadList[models.Message](ctx, r.store, key, r.log)
	if err != nil {
		return err
	}
	return saveList(ctx, r.store, key, fn(list))
}

func (r *Notifications) Preferences(ctx context.Context, userID string) (models.NotificationPreferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefs, _, err := loadDoc(ctx, r.store, store.PreferencesKey(userID), r.log, models.DefaultNotificationPreferences())
	if err != nil {
		return models.NotificationPreferences{}, err
	}
	return prefs, nil
}

func (r *Notifications) UpdatePreferences(ctx context.Context, userID string, fn func(*models.NotificationPreferences) error) (models.NotificationPreferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := store.PreferencesKey(userID)
	current, _, err := loadDoc(ctx, r.store, key, r.log, models.DefaultNotificationPreferences())
	if err != nil {
		return models.NotificationPreferences{}, err
	}
	next := current
	if err := fn(&next); err != nil {
		return current, err
	}
	if err := Validate(next); err != nil {
		return current, err
	}
	if err := saveDoc(ctx, r.store, key, next); err != nil {
		return current, err
	}
	return next, nil
}
