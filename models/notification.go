package models

type NotificationType string

const (
	NotificationMessage     NotificationType = "message"
	NotificationComment     NotificationType = "comment"
	NotificationLike        NotificationType = "like"
	NotificationSystem      NotificationType = "system"
	NotificationPublication NotificationType = "publication"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

// Notification timestamps are epoch milliseconds, as the client stores them.
type Notification struct {
	ID        string               `json:"id" validate:"required"`
	UserID    string               `json:"userId" validate:"required"`
	Type      NotificationType     `json:"type" validate:"oneof=message comment like system publication"`
	Title     string               `json:"title" validate:"required"`
	Message   string               `json:"message"`
	Timestamp int64                `json:"timestamp"`
	Read      bool                 `json:"read"`
	ActionURL string               `json:"actionUrl,omitempty"`
	Data      map[string]any       `json:"data,omitempty"`
	Priority  NotificationPriority `json:"priority,omitempty"`
}

type Message struct {
	ID             string `json:"id" validate:"required"`
	ConversationID string `json:"conversationId" validate:"required"`
	SenderID       string `json:"senderId" validate:"required"`
	SenderName     string `json:"senderName"`
	Message        string `json:"message" validate:"required"`
	Timestamp      int64  `json:"timestamp"`
	Read           bool   `json:"read"`
}

type ConversationType string

const (
	ConversationDirect ConversationType = "direct"
	ConversationGroup  ConversationType = "group"
)

type Conversation struct {
	ID               string           `json:"id" validate:"required"`
	Participants     []string         `json:"participants" validate:"min=2"`
	ParticipantNames []string         `json:"participantNames"`
	Type             ConversationType `json:"type" validate:"oneof=direct group"`
	Title            string           `json:"title,omitempty"`
	LastMessage      *Message         `json:"lastMessage,omitempty"`
	LastActivity     int64            `json:"lastActivity"`
	UnreadCount      int              `json:"unreadCount"`
}

func (c *Conversation) HasParticipant(userID string) bool {
	return containsString(c.Participants, userID)
}

type InAppPreferences struct {
	NewComment          bool `json:"newComment"`
	ObjectRecovered     bool `json:"objectRecovered"`
	NewDenunciaInArea   bool `json:"newDenunciaInArea"`
	SystemUpdates       bool `json:"systemUpdates"`
	GamificationRewards bool `json:"gamificationRewards"`
}

type EmailPreferences struct {
	NewComment      bool `json:"newComment"`
	ObjectRecovered bool `json:"objectRecovered"`
	WeeklyDigest    bool `json:"weeklyDigest"`
	Marketing       bool `json:"marketing"`
	SystemUpdates   bool `json:"systemUpdates"`
}

type PushPreferences struct {
	NewComment      bool `json:"newComment"`
	ObjectRecovered bool `json:"objectRecovered"`
	UrgentAlerts    bool `json:"urgentAlerts"`
	DailyReminders  bool `json:"dailyReminders"`
}

type QuietHours struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

type NotificationPreferences struct {
	InApp      InAppPreferences `json:"inApp"`
	Email      EmailPreferences `json:"email"`
	Push       PushPreferences  `json:"push"`
	Frequency  string           `json:"frequency" validate:"oneof=immediate daily weekly"`
	QuietHours QuietHours       `json:"quietHours"`
}

func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		InApp: InAppPreferences{
			NewComment:          true,
			ObjectRecovered:     true,
			NewDenunciaInArea:   true,
			SystemUpdates:       true,
			GamificationRewards: true,
		},
		Email: EmailPreferences{
			ObjectRecovered: true,
			WeeklyDigest:    true,
			SystemUpdates:   true,
		},
		Push: PushPreferences{
			ObjectRecovered: true,
			UrgentAlerts:    true,
		},
		Frequency:  "immediate",
		QuietHours: QuietHours{Start: "22:00", End: "08:00"},
	}
}
