package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"civiceye/models"
	"civiceye/repository"
	"civiceye/utils"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type PublicationService struct {
	Publications repository.PublicationRepository
	Comments     repository.CommentRepository
	Users        repository.UserRepository
	Gamification *GamificationService
	Notifier     Notifier
	Clock        clockwork.Clock
	Log          *zap.Logger
}

func NewPublicationService(
	pubs repository.PublicationRepository,
	comments repository.CommentRepository,
	users repository.UserRepository,
	gamification *GamificationService,
	notifier Notifier,
	clock clockwork.Clock,
	log *zap.Logger,
) *PublicationService {
	return &PublicationService{
		Publications: pubs,
		Comments:     comments,
		Users:        users,
		Gamification: gamification,
		Notifier:     notifier,
		Clock:        clock,
		Log:          log,
	}
}

type CreatePublicationInput struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Location    string   `json:"location" validate:"required"`
	Date        string   `json:"date"`
	Image       string   `json:"image"`
	Category    string   `json:"category"`
	Hashtags    []string `json:"hashtags"`
	Privacy     string   `json:"privacy"`
	Priority    string   `json:"priority"`
}

// NormalizeHashtags slugs every tag and drops empties and repeats.
func NormalizeHashtags(tags []string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, t := range tags {
		s := slug.Make(strings.TrimLeft(strings.TrimSpace(t), "#"))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Create publishes a new active report and credits publish_report.
func (s *PublicationService) Create(ctx context.Context, userID string, in CreatePublicationInput) (models.Publication, models.ActionResult, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Location = strings.TrimSpace(in.Location)
	if err := repository.Validate(in); err != nil {
		return models.Publication{}, models.ActionResult{}, err
	}
	author, err := s.Users.Get(ctx, userID)
	if err != nil {
		return models.Publication{}, models.ActionResult{}, err
	}

	p := models.Publication{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Location:    in.Location,
		Date:        in.Date,
		Image:       in.Image,
		UserID:      author.ID,
		UserName:    author.Name,
		Status:      models.PublicationActive,
		CreatedAt:   s.Clock.Now(),
		Reactions:   []models.Reaction{},
		Category:    in.Category,
		Hashtags:    NormalizeHashtags(in.Hashtags),
		Privacy:     in.Privacy,
		Priority:    in.Priority,
	}
	if err := s.Publications.Add(ctx, p); err != nil {
		return models.Publication{}, models.ActionResult{}, err
	}
	s.Log.Info("publication_created", zap.String("publication_id", p.ID), zap.String("user_id", userID))

	res, err := s.Gamification.ApplyAction(ctx, userID, models.ActionPublishReport)
	if err != nil {
		return p, models.ActionResult{}, err
	}
	return p, res, nil
}

func (s *PublicationService) Get(ctx context.Context, id string) (models.Publication, error) {
	return s.Publications.Get(ctx, id)
}

// List returns every publication, newest first.
func (s *PublicationService) List(ctx context.Context) ([]models.Publication, error) {
	pubs, err := s.Publications.All(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(pubs, func(i, j int) bool { return pubs[i].CreatedAt.After(pubs[j].CreatedAt) })
	return pubs, nil
}

type SearchQuery struct {
	Q      string `query:"q"`
	Status string `query:"status"`
}

// Search matches the query against title, description and location,
// ignoring case and accents.
func (s *PublicationService) Search(ctx context.Context, q SearchQuery) ([]models.Publication, error) {
	var status models.PublicationStatus
	if q.Status != "" {
		st, ok := models.ParsePublicationStatus(q.Status)
		if !ok {
			return nil, fmt.Errorf("status %q: %w", q.Status, ErrInvalidInput)
		}
		status = st
	}
	pubs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	needle := utils.Fold(strings.TrimSpace(q.Q))
	out := []models.Publication{}
	for _, p := range pubs {
		if status != "" && p.Status != status {
			continue
		}
		if needle != "" {
			hay := utils.Fold(p.Title + " " + p.Description + " " + p.Location)
			if !strings.Contains(hay, needle) {
				continue
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// View counts a view. Views by someone other than the author advance their
// daily view mission.
func (s *PublicationService) View(ctx context.Context, viewerID, id string) (models.Publication, error) {
	p, err := s.Publications.Update(ctx, id, func(p *models.Publication) error {
		p.Views++
		return nil
	})
	if err != nil {
		return p, err
	}
	if viewerID != "" && viewerID != p.UserID {
		if _, err := s.Gamification.ApplyAction(ctx, viewerID, models.ActionViewPublication); err != nil {
			s.Log.Warn("view_action_failed", zap.String("user_id", viewerID), zap.Error(err))
		}
	}
	return p, nil
}

// MarkRecovered is the author's one-way active → recovered transition.
func (s *PublicationService) MarkRecovered(ctx context.Context, userID, id string) (models.Publication, models.ActionResult, error) {
	now := s.Clock.Now()
	p, err := s.Publications.Update(ctx, id, func(p *models.Publication) error {
		if p.UserID != userID {
			return ErrNotAuthor
		}
		if p.Status != models.PublicationActive {
			return fmt.Errorf("%s → %s: %w", p.Status, models.PublicationRecovered, ErrInvalidTransition)
		}
		p.Status = models.PublicationRecovered
		p.RecoveredAt = &now
		return nil
	})
	if err != nil {
		return models.Publication{}, models.ActionResult{}, err
	}
	s.Log.Info("publication_recovered", zap.String("publication_id", id), zap.String("user_id", userID))

	res, err := s.Gamification.ApplyAction(ctx, userID, models.ActionRecoverObject)
	if err != nil {
		return p, models.ActionResult{}, err
	}
	for _, follower := range p.FollowedBy {
		if follower == userID {
			continue
		}
		s.notify(ctx, models.Notification{
			UserID:    follower,
			Type:      models.NotificationPublication,
			Title:     "¡Objeto recuperado!",
			Message:   fmt.Sprintf("\"%s\" fue marcado como recuperado", p.Title),
			ActionURL: "/publicacion/" + p.ID,
			Data:      map[string]any{"publicationId": p.ID},
		}, func(pr models.NotificationPreferences) bool { return pr.InApp.ObjectRecovered })
	}
	return p, res, nil
}

// SetStatus is the moderation override; it may move a report either way.
func (s *PublicationService) SetStatus(ctx context.Context, id, status string) (models.Publication, error) {
	st, ok := models.ParsePublicationStatus(status)
	if !ok || status == "" {
		return models.Publication{}, fmt.Errorf("status %q: %w", status, ErrInvalidTransition)
	}
	now := s.Clock.Now()
	return s.Publications.Update(ctx, id, func(p *models.Publication) error {
		p.Status = st
		if st == models.PublicationRecovered {
			if p.RecoveredAt == nil {
				p.RecoveredAt = &now
			}
		} else {
			p.RecoveredAt = nil
		}
		return nil
	})
}

func (s *PublicationService) Share(ctx context.Context, userID, id string) (models.Publication, error) {
	p, err := s.Publications.Update(ctx, id, func(p *models.Publication) error {
		p.Shares++
		return nil
	})
	if err != nil {
		return p, err
	}
	if _, err := s.Gamification.ApplyAction(ctx, userID, models.ActionSharePublication); err != nil {
		return p, err
	}
	return p, nil
}

// ToggleSave adds or removes the publication from the user's saved list.
func (s *PublicationService) ToggleSave(ctx context.Context, userID, id string) (models.Publication, bool, error) {
	var on bool
	p, err := s.Publications.Update(ctx, id, func(p *models.Publication) error {
		p.SavedBy, on = models.ToggleString(p.SavedBy, userID)
		return nil
	})
	return p, on, err
}

func (s *PublicationService) ToggleFollow(ctx context.Context, userID, id string) (models.Publication, bool, error) {
	var on bool
	p, err := s.Publications.Update(ctx, id, func(p *models.Publication) error {
		p.FollowedBy, on = models.ToggleString(p.FollowedBy, userID)
		return nil
	})
	return p, on, err
}

func (s *PublicationService) React(ctx context.Context, userID, id string, t models.ReactionType) (models.Publication, models.ReactionOutcome, error) {
	if !t.Valid() {
		return models.Publication{}, "", fmt.Errorf("%q: %w", t, ErrInvalidReaction)
	}
	var outcome models.ReactionOutcome
	p, err := s.Publications.Update(ctx, id, func(p *models.Publication) error {
		p.Reactions, outcome = models.ApplyReaction(p.Reactions, models.Reaction{
			ID:        uuid.NewString(),
			UserID:    userID,
			Type:      t,
			Timestamp: s.Clock.Now().UnixMilli(),
		})
		return nil
	})
	if err != nil {
		return p, "", err
	}
	if outcome == models.ReactionAdded && p.UserID != userID {
		s.notify(ctx, models.Notification{
			UserID:    p.UserID,
			Type:      models.NotificationLike,
			Title:     "Nueva reacción",
			Message:   fmt.Sprintf("Alguien reaccionó a \"%s\"", p.Title),
			ActionURL: "/publicacion/" + p.ID,
			Priority:  models.PriorityLow,
		}, nil)
	}
	return p, outcome, nil
}

// Delete removes a publication and all of its comments. Only the author or
// an admin may do it.
func (s *PublicationService) Delete(ctx context.Context, actorID string, admin bool, id string) error {
	p, err := s.Publications.Get(ctx, id)
	if err != nil {
		return err
	}
	if !admin && p.UserID != actorID {
		return ErrForbidden
	}
	if err := s.Publications.Delete(ctx, id); err != nil {
		return err
	}
	removed, err := s.Comments.DeleteWhere(ctx, func(c *models.Comment) bool { return c.PublicationID == id })
	if err != nil {
		return fmt.Errorf("delete comments of %s: %w", id, err)
	}
	s.Log.Info("publication_deleted",
		zap.String("publication_id", id),
		zap.String("actor_id", actorID),
		zap.Bool("admin", admin),
		zap.Int("comments", len(removed)),
	)
	return nil
}

// AdoptEmbeddedComments moves comment threads stored inline on publications
// into the comments collection. Comments already present are skipped, so a
// run interrupted between the two writes is safe to repeat. A publication
// keeps its inline threads while any of them fails validation.
func (s *PublicationService) AdoptEmbeddedComments(ctx context.Context) (int, error) {
	pubs, err := s.Publications.All(ctx)
	if err != nil {
		return 0, err
	}
	adopted := 0
	for _, p := range pubs {
		if len(p.Comments) == 0 {
			continue
		}
		_, err := s.Publications.Update(ctx, p.ID, func(p *models.Publication) error {
			rejected := 0
			for _, c := range p.FlatComments() {
				err := s.Comments.Add(ctx, c)
				switch {
				case err == nil:
					adopted++
				case errors.Is(err, repository.ErrDuplicate):
				case errors.Is(err, repository.ErrInvalidRecord):
					rejected++
					s.Log.Warn("embedded_comment_rejected",
						zap.String("publication_id", p.ID),
						zap.String("comment_id", c.ID),
						zap.Error(err),
					)
				default:
					return err
				}
			}
			if rejected == 0 {
				p.Comments = nil
			}
			return nil
		})
		if err != nil {
			return adopted, fmt.Errorf("adopt comments of %s: %w", p.ID, err)
		}
	}
	if adopted > 0 {
		s.Log.Info("embedded_comments_adopted", zap.Int("count", adopted))
	}
	return adopted, nil
}

func (s *PublicationService) notify(ctx context.Context, n models.Notification, allowed func(models.NotificationPreferences) bool) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(ctx, n, allowed); err != nil {
		s.Log.Warn("notify_failed", zap.String("user_id", n.UserID), zap.Error(err))
	}
}
