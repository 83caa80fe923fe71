package services

import (
	"errors"
	"testing"

	"civiceye/repository"
)

func TestRegister(t *testing.T) {
	e := newTestEnv(t)

	u := e.register(t, " ana@example.com ", "Ana")
	if u.Email != "ana@example.com" || u.Level != 1 || u.IsAdmin || u.Points != 0 || u.Badges == nil {
		t.Errorf("user = %+v", u)
	}
	if !u.CreatedAt.Equal(testNow) {
		t.Errorf("createdAt = %v", u.CreatedAt)
	}

	admin := e.register(t, "admin@civiceye.com", "Admin")
	if !admin.IsAdmin {
		t.Errorf("configured admin email not flagged")
	}

	if _, err := e.userSvc.Register(e.ctx, RegisterInput{Email: "ana@example.com", Name: "Otra"}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate err = %v, want ErrEmailTaken", err)
	}
	if _, err := e.userSvc.Register(e.ctx, RegisterInput{Email: "not-an-email", Name: "X"}); !errors.Is(err, repository.ErrInvalidRecord) {
		t.Errorf("bad email err = %v", err)
	}
}

func TestDeleteUser_Cascades(t *testing.T) {
	e := newTestEnv(t)
	ana := e.register(t, "ana@example.com", "Ana")
	luis := e.register(t, "luis@example.com", "Luis")
	anaPub := e.publish(t, ana.ID, "Mochila", "Lima")
	luisPub := e.publish(t, luis.ID, "Llaves", "Lima")

	// luis comments on ana's report (removed with it), ana comments on luis's
	// report (removed as hers) and luis replies to ana there (removed as a
	// reply to her comment). luis's own top-level comment survives.
	if _, err := e.commentSvc.Add(e.ctx, luis.ID, anaPub.ID, AddCommentInput{Content: "La vi"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	anaComment, err := e.commentSvc.Add(e.ctx, ana.ID, luisPub.ID, AddCommentInput{Content: "Suerte"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := e.commentSvc.Add(e.ctx, luis.ID, luisPub.ID, AddCommentInput{Content: "Gracias", ParentID: anaComment.ID}); err != nil {
		t.Fatalf("reply: %v", err)
	}
	survivor, err := e.commentSvc.Add(e.ctx, luis.ID, luisPub.ID, AddCommentInput{Content: "Actualización"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := e.userSvc.DeleteUser(e.ctx, ana.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := e.users.Get(e.ctx, ana.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("user still stored: %v", err)
	}
	pubs, _ := e.publications.All(e.ctx)
	if len(pubs) != 1 || pubs[0].ID != luisPub.ID {
		t.Errorf("publications = %+v", pubs)
	}
	comments, _ := e.comments.All(e.ctx)
	if len(comments) != 1 || comments[0].ID != survivor.ID {
		t.Errorf("comments = %+v", comments)
	}

	if err := e.userSvc.DeleteUser(e.ctx, ana.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestResetReputation(t *testing.T) {
	e := newTestEnv(t)
	ana := e.register(t, "ana@example.com", "Ana")
	luis := e.register(t, "luis@example.com", "Luis")
	p := e.publish(t, luis.ID, "Llaves", "Lima")
	if _, err := e.commentSvc.Add(e.ctx, ana.ID, p.ID, AddCommentInput{Content: "La vi"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if e.user(t, ana.ID).Reputation != 1 {
		t.Fatalf("reputation not credited")
	}
	got, err := e.userSvc.ResetReputation(e.ctx, ana.ID)
	if err != nil || got.Reputation != 0 {
		t.Errorf("ResetReputation = %d, %v", got.Reputation, err)
	}
}
