// Package store is the opaque key-value store every collection lives in.
package store

import (
	"context"
	"fmt"
	"time"
)

// Store reads and writes whole JSON documents by key. Get returns nil, nil
// when the key has never been written.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

const (
	UsersKey             = "civiceye_users"
	PublicationsKey      = "civiceye_publications"
	CommentsKey          = "civiceye_comments"
	TournamentsKey       = "civiceye_tournaments"
	AnalyticsSnapshotKey = "civiceye_analytics_snapshot"
)

// MissionDayLayout renders a calendar day the way mission keys are scoped,
// e.g. "Sun Oct 18 2026".
const MissionDayLayout = "Mon Jan 02 2006"

func MissionsKey(userID string, day time.Time) string {
	return fmt.Sprintf("civiceye_missions_%s_%s", userID, day.Format(MissionDayLayout))
}

func NotificationsKey(userID string) string {
	return "notifications_" + userID
}

func ConversationsKey(userID string) string {
	return "conversations_" + userID
}

func MessagesKey(userID string) string {
	return "messages_" + userID
}

func PreferencesKey(userID string) string {
	return "notification_preferences_" + userID
}
