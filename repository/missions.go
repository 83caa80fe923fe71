package repository

import (
	"context"
	"sync"
	"time"

	"civiceye/models"
	"civiceye/store"

	"go.uber.org/zap"
)

// MissionRepository stores each user's missions under a key scoped to the
// calendar day.
type MissionRepository interface {
	ForDay(ctx context.Context, userID string, day time.Time) ([]models.Mission, bool, error)
	// UpdateDay runs fn with the stored missions (exists=false when the day
	// has none yet) and persists what it returns.
	UpdateDay(ctx context.Context, userID string, day time.Time, fn func(missions []models.Mission, exists bool) ([]models.Mission, error)) ([]models.Mission, error)
}

type Missions struct {
	mu    sync.Mutex
	store store.Store
	log   *zap.Logger
}

func NewMissions(s store.Store, log *zap.Logger) *Missions {
	if log == nil {
		log = zap.NewNop()
	}
	return &Missions{store: s, log: log}
}

func (r *Missions) ForDay(ctx context.Context, userID string, day time.Time) ([]models.Mission, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx, store.MissionsKey(userID, day))
}

func (r *Missions) load(ctx context.Context, key string) ([]models.Mission, bool, error) {
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if raw == nil {
		return []models.Mission{}, false, nil
	}
	missions, err := loadList[models.Mission](ctx, r.store, key, r.log)
	if err != nil {
		return nil, false, err
	}
	return missions, len(missions) > 0, nil
}

func (r *Missions) UpdateDay(ctx context.Context, userID string, day time.Time, fn func([]models.Mission, bool) ([]models.Mission, error)) ([]models.Mission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := store.MissionsKey(userID, day)
	missions, exists, err := r.load(ctx, key)
	if err != nil {
		return nil, err
	}
	out, err := fn(missions, exists)
	if err != nil {
		return nil, err
	}
	for _, m := range out {
		if err := Validate(m); err != nil {
			return nil, err
		}
	}
	if err := saveList(ctx, r.store, key, out); err != nil {
		return nil, err
	}
	return out, nil
}
