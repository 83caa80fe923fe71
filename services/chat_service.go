package services

import (
	"context"
	"fmt"
	"strings"

	"civiceye/models"
	"civiceye/repository"
	"civiceye/utils"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// ChatService keeps a copy of every conversation and message under each
// participant's keys.
type ChatService struct {
	Repo     repository.NotificationRepository
	Users    repository.UserRepository
	Notifier Notifier
	Clock    clockwork.Clock
	Log      *zap.Logger
}

func NewChatService(repo repository.NotificationRepository, users repository.UserRepository, notifier Notifier, clock clockwork.Clock, log *zap.Logger) *ChatService {
	return &ChatService{Repo: repo, Users: users, Notifier: notifier, Clock: clock, Log: log}
}

type CreateConversationInput struct {
	Participants []string `json:"participants" validate:"required,min=1,dive,required"`
	Title        string   `json:"title"`
}

// CreateConversation starts a conversation between creator and the given
// participants. A direct conversation between the same two users is reused.
func (s *ChatService) CreateConversation(ctx context.Context, creatorID string, in CreateConversationInput) (models.Conversation, error) {
	ids := []string{creatorID}
	for _, id := range in.Participants {
		id = strings.TrimSpace(id)
		if id == "" || containsID(ids, id) {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) < 2 {
		return models.Conversation{}, fmt.Errorf("conversation needs another participant: %w", ErrInvalidInput)
	}

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		u, err := s.Users.Get(ctx, id)
		if err != nil {
			return models.Conversation{}, err
		}
		names = append(names, u.Name)
	}

	kind := models.ConversationGroup
	if len(ids) == 2 {
		kind = models.ConversationDirect
		existing, err := s.Repo.Conversations(ctx, creatorID)
		if err != nil {
			return models.Conversation{}, err
		}
		for _, c := range existing {
			if c.Type == models.ConversationDirect && c.HasParticipant(ids[1]) {
				return c, nil
			}
		}
	}

	conv := models.Conversation{
		ID:               uuid.NewString(),
		Participants:     ids,
		ParticipantNames: names,
		Type:             kind,
		Title:            in.Title,
		LastActivity:     s.Clock.Now().UnixMilli(),
	}
	for _, id := range ids {
		if err := s.Repo.SaveConversation(ctx, id, conv); err != nil {
			return models.Conversation{}, err
		}
	}
	s.Log.Info("conversation_created", zap.String("conversation_id", conv.ID), zap.Int("participants", len(ids)))
	return conv, nil
}

func containsID(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func (s *ChatService) conversation(ctx context.Context, userID, id string) (models.Conversation, error) {
	convs, err := s.Repo.Conversations(ctx, userID)
	if err != nil {
		return models.Conversation{}, err
	}
	for _, c := range convs {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Conversation{}, fmt.Errorf("conversation %s: %w", id, ErrNotParticipant)
}

// SendMessage appends a message to every participant's copy and notifies the
// others.
func (s *ChatService) SendMessage(ctx context.Context, senderID, conversationID, text string) (models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Message{}, ErrEmptyMessage
	}
	conv, err := s.conversation(ctx, senderID, conversationID)
	if err != nil {
		return models.Message{}, err
	}
	sender, err := s.Users.Get(ctx, senderID)
	if err != nil {
		return models.Message{}, err
	}

	now := s.Clock.Now().UnixMilli()
	msg := models.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		SenderName:     sender.Name,
		Message:        text,
		Timestamp:      now,
	}

	for _, pid := range conv.Participants {
		m := msg
		m.Read = pid == senderID
		if err := s.Repo.AddMessage(ctx, pid, m); err != nil {
			return models.Message{}, err
		}
		_, err := s.Repo.UpdateConversations(ctx, pid, func(list []models.Conversation) []models.Conversation {
			for i := range list {
				if list[i].ID != conv.ID {
					continue
				}
				last := m
				list[i].LastMessage = &last
				list[i].LastActivity = now
				if pid != senderID {
					list[i].UnreadCount++
				}
			}
			return list
		})
		if err != nil {
			return models.Message{}, err
		}
		if pid == senderID || s.Notifier == nil {
			continue
		}
		note := models.Notification{
			UserID:    pid,
			Type:      models.NotificationMessage,
			Title:     "Nuevo mensaje",
			Message:   sender.Name + ": " + utils.Truncate(text, 50),
			ActionURL: "/chat/" + conv.ID,
			Data:      map[string]any{"conversationId": conv.ID, "messageId": msg.ID},
		}
		if err := s.Notifier.Notify(ctx, note, nil); err != nil {
			s.Log.Warn("notify_failed", zap.String("user_id", pid), zap.Error(err))
		}
	}
	return msg, nil
}

// MarkConversationRead clears the user's unread state for one conversation.
func (s *ChatService) MarkConversationRead(ctx context.Context, userID, conversationID string) error {
	if _, err := s.conversation(ctx, userID, conversationID); err != nil {
		return err
	}
	if _, err := s.Repo.UpdateConversations(ctx, userID, func(list []models.Conversation) []models.Conversation {
		for i := range list {
			if list[i].ID == conversationID {
				list[i].UnreadCount = 0
			}
		}
		return list
	}); err != nil {
		return err
	}
	return s.Repo.UpdateMessages(ctx, userID, func(list []models.Message) []models.Message {
		for i := range list {
			if list[i].ConversationID == conversationID {
				list[i].Read = true
			}
		}
		return list
	})
}

func (s *ChatService) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	return s.Repo.Conversations(ctx, userID)
}

// Messages returns the user's copy of a conversation, oldest first.
func (s *ChatService) Messages(ctx context.Context, userID, conversationID string) ([]models.Message, error) {
	if _, err := s.conversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	all, err := s.Repo.Messages(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := []models.Message{}
	for _, m := range all {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}
