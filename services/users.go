package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"civiceye/models"
	"civiceye/repository"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type UserService struct {
	Users        repository.UserRepository
	Publications repository.PublicationRepository
	Comments     repository.CommentRepository
	IsAdminEmail func(email string) bool
	Clock        clockwork.Clock
	Log          *zap.Logger
}

func NewUserService(
	users repository.UserRepository,
	pubs repository.PublicationRepository,
	comments repository.CommentRepository,
	isAdminEmail func(string) bool,
	clock clockwork.Clock,
	log *zap.Logger,
) *UserService {
	return &UserService{
		Users:        users,
		Publications: pubs,
		Comments:     comments,
		IsAdminEmail: isAdminEmail,
		Clock:        clock,
		Log:          log,
	}
}

type RegisterInput struct {
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name" validate:"required"`
	Avatar string `json:"avatar"`
}

// Register creates a user at level 1 with zero counters.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := repository.Validate(in); err != nil {
		return models.User{}, err
	}
	if _, err := s.Users.FindByEmail(ctx, in.Email); err == nil {
		return models.User{}, fmt.Errorf("%s: %w", in.Email, ErrEmailTaken)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return models.User{}, err
	}

	u := models.User{
		ID:        uuid.NewString(),
		Email:     in.Email,
		Name:      in.Name,
		Avatar:    in.Avatar,
		IsAdmin:   s.IsAdminEmail != nil && s.IsAdminEmail(in.Email),
		CreatedAt: s.Clock.Now(),
		Level:     1,
	}
	if err := s.Users.Add(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.User{}, fmt.Errorf("%s: %w", in.Email, ErrEmailTaken)
		}
		return models.User{}, err
	}
	u.Normalize()
	s.Log.Info("user_registered", zap.String("user_id", u.ID), zap.Bool("admin", u.IsAdmin))
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	return s.Users.Get(ctx, id)
}

// DeleteUser removes a user with their publications, every comment on those
// publications and every comment they wrote, replies included.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.Users.Get(ctx, id); err != nil {
		return err
	}
	pubIDs, err := s.Publications.DeleteByUser(ctx, id)
	if err != nil {
		return fmt.Errorf("delete publications of %s: %w", id, err)
	}
	removedPubs := make(map[string]bool, len(pubIDs))
	for _, p := range pubIDs {
		removedPubs[p] = true
	}

	all, err := s.Comments.All(ctx)
	if err != nil {
		return err
	}
	authored := make(map[string]bool)
	for _, c := range all {
		if c.UserID == id {
			authored[c.ID] = true
		}
	}
	removed, err := s.Comments.DeleteWhere(ctx, func(c *models.Comment) bool {
		return c.UserID == id || removedPubs[c.PublicationID] || authored[c.ParentID]
	})
	if err != nil {
		return fmt.Errorf("delete comments of %s: %w", id, err)
	}

	if err := s.Users.Delete(ctx, id); err != nil {
		return err
	}
	s.Log.Info("user_deleted",
		zap.String("user_id", id),
		zap.Int("publications", len(pubIDs)),
		zap.Int("comments", len(removed)),
	)
	return nil
}

func (s *UserService) ResetReputation(ctx context.Context, id string) (models.User, error) {
	return s.Users.Update(ctx, id, func(u *models.User) error {
		u.Reputation = 0
		return nil
	})
}
