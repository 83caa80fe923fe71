package store

import (
	"context"
	"testing"
	"time"
)

func TestMemory_GetAbsentReturnsNil(t *testing.T) {
	m := NewMemory()
	got, err := m.Get(context.Background(), UsersKey)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("Get = %q, want nil", got)
	}
}

func TestMemory_SetCopiesValue(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	v := []byte(`[1,2]`)
	if err := m.Set(ctx, "k", v); err != nil {
		t.Fatal(err)
	}
	v[1] = '9'
	got, _ := m.Get(ctx, "k")
	if string(got) != "[1,2]" {
		t.Errorf("Get = %s, want [1,2]", got)
	}
	got[1] = '7'
	again, _ := m.Get(ctx, "k")
	if string(again) != "[1,2]" {
		t.Errorf("stored value mutated through Get result: %s", again)
	}
	if len(m.Keys()) != 1 {
		t.Errorf("Keys = %v", m.Keys())
	}
}

func TestMissionsKey(t *testing.T) {
	day := time.Date(2026, time.October, 18, 15, 0, 0, 0, time.UTC)
	got := MissionsKey("u1", day)
	want := "civiceye_missions_u1_Sun Oct 18 2026"
	if got != want {
		t.Errorf("MissionsKey = %q, want %q", got, want)
	}
}

func TestPerUserKeys(t *testing.T) {
	cases := map[string]string{
		NotificationsKey("u1"): "notifications_u1",
		ConversationsKey("u1"): "conversations_u1",
		MessagesKey("u1"):      "messages_u1",
		PreferencesKey("u1"):   "notification_preferences_u1",
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("key = %q, want %q", got, want)
		}
	}
}
