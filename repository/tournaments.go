package repository

import (
	"context"

	"civiceye/models"
	"civiceye/store"

	"go.uber.org/zap"
)

type TournamentRepository interface {
	All(ctx context.Context) ([]models.Tournament, error)
	Get(ctx context.Context, id string) (models.Tournament, error)
	// Upsert replaces the tournament with the same id or appends it.
	Upsert(ctx context.Context, t models.Tournament) error
	Update(ctx context.Context, id string, fn func(*models.Tournament) error) (models.Tournament, error)
	UpdateAll(ctx context.Context, fn func([]models.Tournament) ([]models.Tournament, error)) error
}

type Tournaments struct {
	list *listRepo[models.Tournament]
}

func NewTournaments(s store.Store, log *zap.Logger) *Tournaments {
	return &Tournaments{list: newListRepo(s, store.TournamentsKey, log,
		func(t *models.Tournament) string { return t.ID },
		func(t *models.Tournament) {
			if t.Participants == nil {
				t.Participants = []models.TournamentParticipant{}
			}
		},
	)}
}

func (r *Tournaments) All(ctx context.Context) ([]models.Tournament, error) {
	return r.list.all(ctx)
}

func (r *Tournaments) Get(ctx context.Context, id string) (models.Tournament, error) {
	return r.list.get(ctx, id)
}

func (r *Tournaments) Upsert(ctx context.Context, t models.Tournament) error {
	if err := Validate(t); err != nil {
		return err
	}
	return r.list.mutate(ctx, func(items []models.Tournament) ([]models.Tournament, error) {
		for i := range items {
			if items[i].ID == t.ID {
				items[i] = t
				return items, nil
			}
		}
		return append(items, t), nil
	})
}

func (r *Tournaments) Update(ctx context.Context, id string, fn func(*models.Tournament) error) (models.Tournament, error) {
	return r.list.update(ctx, id, fn)
}

func (r *Tournaments) UpdateAll(ctx context.Context, fn func([]models.Tournament) ([]models.Tournament, error)) error {
	return r.list.mutate(ctx, fn)
}
