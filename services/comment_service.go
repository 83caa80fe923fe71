package services

import (
	"context"
	"fmt"
	"strings"

	"civiceye/models"
	"civiceye/repository"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type CommentService struct {
	Comments     repository.CommentRepository
	Publications repository.PublicationRepository
	Users        repository.UserRepository
	Gamification *GamificationService
	Notifier     Notifier
	Clock        clockwork.Clock
	Log          *zap.Logger
}

func NewCommentService(
	comments repository.CommentRepository,
	pubs repository.PublicationRepository,
	users repository.UserRepository,
	gamification *GamificationService,
	notifier Notifier,
	clock clockwork.Clock,
	log *zap.Logger,
) *CommentService {
	return &CommentService{
		Comments:     comments,
		Publications: pubs,
		Users:        users,
		Gamification: gamification,
		Notifier:     notifier,
		Clock:        clock,
		Log:          log,
	}
}

type AddCommentInput struct {
	Content  string   `json:"content" validate:"required"`
	ParentID string   `json:"parentId"`
	Mentions []string `json:"mentions"`
	Images   []string `json:"images"`
}

// Add posts a comment or a one-level reply on a publication.
func (s *CommentService) Add(ctx context.Context, userID, publicationID string, in AddCommentInput) (models.Comment, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := repository.Validate(in); err != nil {
		return models.Comment{}, err
	}
	pub, err := s.Publications.Get(ctx, publicationID)
	if err != nil {
		return models.Comment{}, err
	}
	var parent models.Comment
	if in.ParentID != "" {
		parent, err = s.Comments.Get(ctx, in.ParentID)
		if err != nil || parent.PublicationID != pub.ID || parent.IsReply() {
			return models.Comment{}, fmt.Errorf("parent %s: %w", in.ParentID, ErrInvalidParent)
		}
	}
	author, err := s.Users.Get(ctx, userID)
	if err != nil {
		return models.Comment{}, err
	}

	c := models.Comment{
		ID:            uuid.NewString(),
		PublicationID: pub.ID,
		UserID:        author.ID,
		UserName:      author.Name,
		UserAvatar:    author.Avatar,
		Content:       in.Content,
		CreatedAt:     s.Clock.Now(),
		ParentID:      in.ParentID,
		Reactions:     []models.Reaction{},
		Mentions:      nonNil(in.Mentions),
		Images:        nonNil(in.Images),
	}
	if err := s.Comments.Add(ctx, c); err != nil {
		return models.Comment{}, err
	}
	if _, err := s.Users.Update(ctx, userID, func(u *models.User) error {
		u.Reputation++
		return nil
	}); err != nil {
		return c, err
	}
	if _, err := s.Gamification.ApplyAction(ctx, userID, models.ActionAddComment); err != nil {
		return c, err
	}

	newComment := func(p models.NotificationPreferences) bool { return p.InApp.NewComment }
	data := map[string]any{"publicationId": pub.ID, "commentId": c.ID}
	url := "/publicacion/" + pub.ID
	if pub.UserID != userID {
		s.notify(ctx, models.Notification{
			UserID:    pub.UserID,
			Type:      models.NotificationComment,
			Title:     "Nuevo comentario",
			Message:   fmt.Sprintf("%s comentó en \"%s\"", author.Name, pub.Title),
			ActionURL: url,
			Data:      data,
		}, newComment)
	}
	if in.ParentID != "" && parent.UserID != userID && parent.UserID != pub.UserID {
		s.notify(ctx, models.Notification{
			UserID:    parent.UserID,
			Type:      models.NotificationComment,
			Title:     "Nueva respuesta",
			Message:   fmt.Sprintf("%s respondió a tu comentario", author.Name),
			ActionURL: url,
			Data:      data,
		}, newComment)
	}
	for _, m := range c.Mentions {
		if m == userID {
			continue
		}
		s.notify(ctx, models.Notification{
			UserID:    m,
			Type:      models.NotificationComment,
			Title:     "Te mencionaron",
			Message:   fmt.Sprintf("%s te mencionó en un comentario", author.Name),
			ActionURL: url,
			Data:      data,
		}, newComment)
	}
	return c, nil
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

// List returns a publication's comments in posting order.
func (s *CommentService) List(ctx context.Context, publicationID string) ([]models.Comment, error) {
	return s.Comments.ByPublication(ctx, publicationID)
}

func (s *CommentService) Edit(ctx context.Context, userID, id, content string) (models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Comment{}, fmt.Errorf("empty comment: %w", ErrInvalidInput)
	}
	now := s.Clock.Now()
	return s.Comments.Update(ctx, id, func(c *models.Comment) error {
		if c.UserID != userID {
			return ErrNotAuthor
		}
		c.Content = content
		c.IsEdited = true
		c.UpdatedAt = &now
		return nil
	})
}

// Delete removes a comment and its replies. Only the author or an admin may
// do it.
func (s *CommentService) Delete(ctx context.Context, actorID string, admin bool, id string) (int, error) {
	c, err := s.Comments.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if !admin && c.UserID != actorID {
		return 0, ErrForbidden
	}
	removed, err := s.Comments.DeleteWhere(ctx, func(x *models.Comment) bool {
		return x.ID == id || x.ParentID == id
	})
	if err != nil {
		return 0, err
	}
	s.Log.Info("comment_deleted", zap.String("comment_id", id), zap.String("actor_id", actorID), zap.Int("removed", len(removed)))
	return len(removed), nil
}

func (s *CommentService) React(ctx context.Context, userID, id string, t models.ReactionType) (models.Comment, models.ReactionOutcome, error) {
	if !t.Valid() {
		return models.Comment{}, "", fmt.Errorf("%q: %w", t, ErrInvalidReaction)
	}
	var outcome models.ReactionOutcome
	c, err := s.Comments.Update(ctx, id, func(c *models.Comment) error {
		c.Reactions, outcome = models.ApplyReaction(c.Reactions, models.Reaction{
			ID:        uuid.NewString(),
			UserID:    userID,
			Type:      t,
			Timestamp: s.Clock.Now().UnixMilli(),
		})
		return nil
	})
	if err != nil {
		return c, "", err
	}
	return c, outcome, nil
}

func (s *CommentService) notify(ctx context.Context, n models.Notification, allowed func(models.NotificationPreferences) bool) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(ctx, n, allowed); err != nil {
		s.Log.Warn("notify_failed", zap.String("user_id", n.UserID), zap.Error(err))
	}
}
