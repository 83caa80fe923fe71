package services

import (
	"errors"
	"strings"
	"testing"

	"civiceye/models"
)

func TestCreateConversation(t *testing.T) {
	e := newTestEnv(t)
	ana := e.register(t, "ana@example.com", "Ana")
	luis := e.register(t, "luis@example.com", "Luis")
	eva := e.register(t, "eva@example.com", "Eva")

	c, err := e.chat.CreateConversation(e.ctx, ana.ID, CreateConversationInput{Participants: []string{luis.ID, ana.ID}})
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if c.Type != models.ConversationDirect || len(c.Participants) != 2 || c.ParticipantNames[1] != "Luis" {
		t.Errorf("conversation = %+v", c)
	}

	again, err := e.chat.CreateConversation(e.ctx, ana.ID, CreateConversationInput{Participants: []string{luis.ID}})
	if err != nil || again.ID != c.ID {
		t.Errorf("direct conversation not reused: %s vs %s (%v)", again.ID, c.ID, err)
	}

	group, err := e.chat.CreateConversation(e.ctx, ana.ID, CreateConversationInput{Participants: []string{luis.ID, eva.ID}, Title: "Barrio"})
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	if group.Type != models.ConversationGroup || group.ID == c.ID {
		t.Errorf("group = %+v", group)
	}
	if convs, _ := e.chat.ListConversations(e.ctx, eva.ID); len(convs) != 1 {
		t.Errorf("eva sees %d conversations, want 1", len(convs))
	}

	if _, err := e.chat.CreateConversation(e.ctx, ana.ID, CreateConversationInput{Participants: []string{ana.ID}}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("self conversation err = %v", err)
	}
}

func TestSendMessage(t *testing.T) {
	e := newTestEnv(t)
	ana := e.register(t, "ana@example.com", "Ana")
	luis := e.register(t, "luis@example.com", "Luis")
	eva := e.register(t, "eva@example.com", "Eva")
	c, err := e.chat.CreateConversation(e.ctx, ana.ID, CreateConversationInput{Participants: []string{luis.ID}})
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}

	long := strings.Repeat("x", 60)
	if _, err := e.chat.SendMessage(e.ctx, ana.ID, c.ID, long); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	convs, _ := e.chat.ListConversations(e.ctx, luis.ID)
	if len(convs) != 1 || convs[0].UnreadCount != 1 || convs[0].LastMessage == nil {
		t.Fatalf("luis conversations = %+v", convs)
	}
	mine, _ := e.chat.ListConversations(e.ctx, ana.ID)
	if mine[0].UnreadCount != 0 {
		t.Errorf("sender unread = %d, want 0", mine[0].UnreadCount)
	}

	notes, _ := e.notify.List(e.ctx, luis.ID)
	if len(notes) != 1 || notes[0].Type != models.NotificationMessage || notes[0].Message != "Ana: "+strings.Repeat("x", 50)+"..." {
		t.Errorf("notifications = %+v", notes)
	}

	if err := e.chat.MarkConversationRead(e.ctx, luis.ID, c.ID); err != nil {
		t.Fatalf("MarkConversationRead: %v", err)
	}
	msgs, err := e.chat.Messages(e.ctx, luis.ID, c.ID)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(msgs) != 1 || !msgs[0].Read {
		t.Errorf("messages = %+v", msgs)
	}

	if _, err := e.chat.SendMessage(e.ctx, ana.ID, c.ID, "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("empty message err = %v", err)
	}
	if _, err := e.chat.SendMessage(e.ctx, eva.ID, c.ID, "hola"); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("outsider err = %v", err)
	}
	if _, err := e.chat.Messages(e.ctx, eva.ID, c.ID); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("outsider read err = %v", err)
	}
}

func TestCommunicationStats_CountSharedRecordsOnce(t *testing.T) {
	e := newTestEnv(t)
	ana := e.register(t, "ana@example.com", "Ana")
	luis := e.register(t, "luis@example.com", "Luis")
	c, err := e.chat.CreateConversation(e.ctx, ana.ID, CreateConversationInput{Participants: []string{luis.ID}})
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	for _, text := range []string{"hola", "¿viste mi mochila?"} {
		if _, err := e.chat.SendMessage(e.ctx, ana.ID, c.ID, text); err != nil {
			t.Fatalf("SendMessage: %v", err)
		}
	}

	data, err := e.analytics.Refresh(e.ctx)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	got := data.Communication
	if got.Conversations != 1 || got.Messages != 2 || got.Notifications != 2 || got.UnreadNotifications != 2 {
		t.Errorf("communication = %+v", got)
	}
}
