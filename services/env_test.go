package services

import (
	"context"
	"testing"
	"time"

	"civiceye/models"
	"civiceye/repository"
	"civiceye/store"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// testEnv wires every service over one memory store and a fake clock.
type testEnv struct {
	ctx   context.Context
	clock *clockwork.FakeClock
	store store.Store

	users         *repository.Users
	publications  *repository.Publications
	comments      *repository.Comments
	tournaments   *repository.Tournaments
	missions      *repository.Missions
	notifications *repository.Notifications

	notify       *NotificationService
	gamification *GamificationService
	tournament   *TournamentService
	pubs         *PublicationService
	commentSvc   *CommentService
	userSvc      *UserService
	chat         *ChatService
	analytics    *AnalyticsService
}

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zap.NewNop()
	s := store.NewMemory()
	e := &testEnv{
		ctx:   context.Background(),
		clock: clockwork.NewFakeClockAt(testNow),
		store: s,

		users:         repository.NewUsers(s, log),
		publications:  repository.NewPublications(s, log),
		comments:      repository.NewComments(s, log),
		tournaments:   repository.NewTournaments(s, log),
		missions:      repository.NewMissions(s, log),
		notifications: repository.NewNotifications(s, log),
	}
	e.notify = NewNotificationService(e.notifications, e.clock, log)
	e.gamification = NewGamificationService(e.users, e.missions, e.tournaments, e.notify, e.clock, log)
	e.tournament = NewTournamentService(e.tournaments, e.gamification, e.clock, log)
	e.pubs = NewPublicationService(e.publications, e.comments, e.users, e.gamification, e.notify, e.clock, log)
	e.commentSvc = NewCommentService(e.comments, e.publications, e.users, e.gamification, e.notify, e.clock, log)
	isAdmin := func(email string) bool { return email == "admin@civiceye.com" }
	e.userSvc = NewUserService(e.users, e.publications, e.comments, isAdmin, e.clock, log)
	e.chat = NewChatService(e.notifications, e.users, e.notify, e.clock, log)
	e.analytics = NewAnalyticsService(e.users, e.publications, e.comments, e.notifications, s, e.clock, log)
	return e
}

func (e *testEnv) register(t *testing.T, email, name string) models.User {
	t.Helper()
	u, err := e.userSvc.Register(e.ctx, RegisterInput{Email: email, Name: name})
	if err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	return u
}

func (e *testEnv) publish(t *testing.T, userID, title, location string) models.Publication {
	t.Helper()
	p, _, err := e.pubs.Create(e.ctx, userID, CreatePublicationInput{Title: title, Location: location})
	if err != nil {
		t.Fatalf("Create(%s): %v", title, err)
	}
	return p
}

func (e *testEnv) user(t *testing.T, id string) models.User {
	t.Helper()
	u, err := e.users.Get(e.ctx, id)
	if err != nil {
		t.Fatalf("Get user %s: %v", id, err)
	}
	return u
}

func pub(id, title, location string, status models.PublicationStatus, created time.Time) models.Publication {
	return models.Publication{
		ID:        id,
		Title:     title,
		Location:  location,
		UserID:    "u1",
		Status:    status,
		CreatedAt: created,
	}
}
