package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type ReactionType string

const (
	ReactionLike  ReactionType = "like"
	ReactionLove  ReactionType = "love"
	ReactionHaha  ReactionType = "haha"
	ReactionWow   ReactionType = "wow"
	ReactionSad   ReactionType = "sad"
	ReactionAngry ReactionType = "angry"
)

func (t ReactionType) Valid() bool {
	switch t {
	case ReactionLike, ReactionLove, ReactionHaha, ReactionWow, ReactionSad, ReactionAngry:
		return true
	}
	return false
}

// Reaction.Timestamp is epoch milliseconds.
type Reaction struct {
	ID        string       `json:"id" validate:"required"`
	UserID    string       `json:"userId" validate:"required"`
	UserName  string       `json:"userName,omitempty"`
	Type      ReactionType `json:"type" validate:"oneof=like love haha wow sad angry"`
	Timestamp int64        `json:"timestamp"`
}

// UnmarshalJSON takes the timestamp as epoch milliseconds or as an RFC3339
// string.
func (r *Reaction) UnmarshalJSON(data []byte) error {
	type plain Reaction
	aux := struct {
		*plain
		Timestamp json.RawMessage `json:"timestamp"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	ms, err := parseMillis(aux.Timestamp)
	if err != nil {
		return fmt.Errorf("reaction %s timestamp: %w", r.ID, err)
	}
	r.Timestamp = ms
	return nil
}

func parseMillis(raw json.RawMessage) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		if s == "" {
			return 0, nil
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return 0, err
		}
		return t.UnixMilli(), nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, err
	}
	return int64(f), nil
}

// ReactionOutcome says what ApplyReaction did.
type ReactionOutcome string

const (
	ReactionAdded    ReactionOutcome = "added"
	ReactionReplaced ReactionOutcome = "replaced"
	ReactionRemoved  ReactionOutcome = "removed"
)

// ApplyReaction keeps at most one reaction per user: the same type toggles
// it off, a different type replaces it, otherwise it is appended.
func ApplyReaction(list []Reaction, r Reaction) ([]Reaction, ReactionOutcome) {
	for i, existing := range list {
		if existing.UserID != r.UserID {
			continue
		}
		if existing.Type == r.Type {
			return append(list[:i:i], list[i+1:]...), ReactionRemoved
		}
		out := append([]Reaction(nil), list...)
		out[i] = r
		return out, ReactionReplaced
	}
	return append(list, r), ReactionAdded
}
