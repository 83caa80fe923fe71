package repository

import (
	"context"

	"civiceye/models"
	"civiceye/store"

	"go.uber.org/zap"
)

type CommentRepository interface {
	All(ctx context.Context) ([]models.Comment, error)
	Get(ctx context.Context, id string) (models.Comment, error)
	ByPublication(ctx context.Context, publicationID string) ([]models.Comment, error)
	Add(ctx context.Context, c models.Comment) error
	Update(ctx context.Context, id string, fn func(*models.Comment) error) (models.Comment, error)
	// DeleteWhere removes every matching comment and returns them.
	DeleteWhere(ctx context.Context, pred func(*models.Comment) bool) ([]models.Comment, error)
}

type Comments struct {
	list *listRepo[models.Comment]
}

func NewComments(s store.Store, log *zap.Logger) *Comments {
	return &Comments{list: newListRepo(s, store.CommentsKey, log,
		func(c *models.Comment) string { return c.ID },
		func(c *models.Comment) {
			if c.Reactions == nil {
				c.Reactions = []models.Reaction{}
			}
		},
	)}
}

func (r *Comments) All(ctx context.Context) ([]models.Comment, error) {
	return r.list.all(ctx)
}

func (r *Comments) Get(ctx context.Context, id string) (models.Comment, error) {
	return r.list.get(ctx, id)
}

func (r *Comments) ByPublication(ctx context.Context, publicationID string) ([]models.Comment, error) {
	all, err := r.list.all(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Comment{}
	for _, c := range all {
		if c.PublicationID == publicationID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *Comments) Add(ctx context.Context, c models.Comment) error {
	if c.Reactions == nil {
		c.Reactions = []models.Reaction{}
	}
	if c.Mentions == nil {
		c.Mentions = []string{}
	}
	if c.Images == nil {
		c.Images = []string{}
	}
	return r.list.add(ctx, c)
}

func (r *Comments) Update(ctx context.Context, id string, fn func(*models.Comment) error) (models.Comment, error) {
	return r.list.update(ctx, id, fn)
}

func (r *Comments) DeleteWhere(ctx context.Context, pred func(*models.Comment) bool) ([]models.Comment, error) {
	return r.list.removeWhere(ctx, pred)
}
