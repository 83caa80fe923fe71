package repository

import (
	"context"
	"fmt"
	"strings"

	"civiceye/models"
	"civiceye/store"

	"go.uber.org/zap"
)

type UserRepository interface {
	All(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Add(ctx context.Context, u models.User) error
	Update(ctx context.Context, id string, fn func(*models.User) error) (models.User, error)
	// UpdateAll rewrites every user in one write.
	UpdateAll(ctx context.Context, fn func([]models.User) ([]models.User, error)) error
	Delete(ctx context.Context, id string) error
}

type Users struct {
	list *listRepo[models.User]
}

func NewUsers(s store.Store, log *zap.Logger) *Users {
	return &Users{list: newListRepo(s, store.UsersKey, log,
		func(u *models.User) string { return u.ID },
		func(u *models.User) { u.Normalize() },
	)}
}

func (r *Users) All(ctx context.Context) ([]models.User, error) {
	return r.list.all(ctx)
}

func (r *Users) Get(ctx context.Context, id string) (models.User, error) {
	return r.list.get(ctx, id)
}

func (r *Users) FindByEmail(ctx context.Context, email string) (models.User, error) {
	users, err := r.list.all(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("user %s: %w", email, ErrNotFound)
}

// Add rejects a second account with the same email.
func (r *Users) Add(ctx context.Context, u models.User) error {
	u.Normalize()
	if err := Validate(u); err != nil {
		return err
	}
	return r.list.mutate(ctx, func(users []models.User) ([]models.User, error) {
		for _, existing := range users {
			if existing.ID == u.ID || strings.EqualFold(existing.Email, u.Email) {
				return nil, fmt.Errorf("user %s: %w", u.Email, ErrDuplicate)
			}
		}
		return append(users, u), nil
	})
}

func (r *Users) Update(ctx context.Context, id string, fn func(*models.User) error) (models.User, error) {
	return r.list.update(ctx, id, fn)
}

func (r *Users) UpdateAll(ctx context.Context, fn func([]models.User) ([]models.User, error)) error {
	return r.list.mutate(ctx, fn)
}

func (r *Users) Delete(ctx context.Context, id string) error {
	removed, err := r.list.removeWhere(ctx, func(u *models.User) bool { return u.ID == id })
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return nil
}
