package repository

import (
	"context"
	"fmt"

	"civiceye/models"
	"civiceye/store"

	"go.uber.org/zap"
)

type PublicationRepository interface {
	All(ctx context.Context) ([]models.Publication, error)
	Get(ctx context.Context, id string) (models.Publication, error)
	Add(ctx context.Context, p models.Publication) error
	Update(ctx context.Context, id string, fn func(*models.Publication) error) (models.Publication, error)
	Delete(ctx context.Context, id string) error
	// DeleteByUser removes every publication authored by userID and
	// returns the removed ids.
	DeleteByUser(ctx context.Context, userID string) ([]string, error)
}

type Publications struct {
	list *listRepo[models.Publication]
}

func NewPublications(s store.Store, log *zap.Logger) *Publications {
	return &Publications{list: newListRepo(s, store.PublicationsKey, log,
		func(p *models.Publication) string { return p.ID },
		nil,
	)}
}

func (r *Publications) All(ctx context.Context) ([]models.Publication, error) {
	return r.list.all(ctx)
}

func (r *Publications) Get(ctx context.Context, id string) (models.Publication, error) {
	return r.list.get(ctx, id)
}

func (r *Publications) Add(ctx context.Context, p models.Publication) error {
	if p.Reactions == nil {
		p.Reactions = []models.Reaction{}
	}
	return r.list.add(ctx, p)
}

func (r *Publications) Update(ctx context.Context, id string, fn func(*models.Publication) error) (models.Publication, error) {
	return r.list.update(ctx, id, fn)
}

func (r *Publications) Delete(ctx context.Context, id string) error {
	removed, err := r.list.removeWhere(ctx, func(p *models.Publication) bool { return p.ID == id })
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		return fmt.Errorf("publication %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *Publications) DeleteByUser(ctx context.Context, userID string) ([]string, error) {
	removed, err := r.list.removeWhere(ctx, func(p *models.Publication) bool { return p.UserID == userID })
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(removed))
	for _, p := range removed {
		ids = append(ids, p.ID)
	}
	return ids, nil
}
