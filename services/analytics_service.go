package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"civiceye/models"
	"civiceye/repository"
	"civiceye/store"
	"civiceye/utils"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// AnalyticsService computes and caches the analytics snapshot.
type AnalyticsService struct {
	Users         repository.UserRepository
	Publications  repository.PublicationRepository
	Comments      repository.CommentRepository
	Notifications repository.NotificationRepository
	Store         store.Store
	Clock         clockwork.Clock
	Log           *zap.Logger

	mu       sync.RWMutex
	snapshot *models.AnalyticsData
}

func NewAnalyticsService(
	users repository.UserRepository,
	pubs repository.PublicationRepository,
	comments repository.CommentRepository,
	notifications repository.NotificationRepository,
	s store.Store,
	clock clockwork.Clock,
	log *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		Users:         users,
		Publications:  pubs,
		Comments:      comments,
		Notifications: notifications,
		Store:         s,
		Clock:         clock,
		Log:           log,
	}
}

func (s *AnalyticsService) load(ctx context.Context) ([]models.User, []models.Publication, []models.Comment, error) {
	users, err := s.Users.All(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load users: %w", err)
	}
	pubs, err := s.Publications.All(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load publications: %w", err)
	}
	comments, err := s.Comments.All(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load comments: %w", err)
	}
	return users, pubs, withEmbeddedComments(comments, pubs), nil
}

// withEmbeddedComments appends inline threads that have not been adopted
// into the comments collection yet.
func withEmbeddedComments(comments []models.Comment, pubs []models.Publication) []models.Comment {
	seen := make(map[string]struct{}, len(comments))
	for _, c := range comments {
		seen[c.ID] = struct{}{}
	}
	for i := range pubs {
		for _, c := range pubs[i].FlatComments() {
			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = struct{}{}
			comments = append(comments, c)
		}
	}
	return comments
}

// Refresh recomputes the snapshot from the stored collections.
func (s *AnalyticsService) Refresh(ctx context.Context) (models.AnalyticsData, error) {
	start := time.Now()
	users, pubs, comments, err := s.load(ctx)
	if err != nil {
		return models.AnalyticsData{}, err
	}

	data := ComputeAnalytics(s.Clock.Now(), users, pubs, comments)
	if s.Notifications != nil {
		comm, err := s.communication(ctx, users)
		if err != nil {
			return models.AnalyticsData{}, err
		}
		data.Communication = comm
	}

	s.mu.Lock()
	s.snapshot = &data
	s.mu.Unlock()

	utils.AnalyticsRefreshDuration.Observe(time.Since(start).Seconds())
	s.Log.Debug("analytics_refreshed",
		zap.Int("users", data.TotalUsers),
		zap.Int("publications", data.TotalPublications),
		zap.Int("comments", data.TotalComments),
		zap.Duration("took", time.Since(start)),
	)
	return data, nil
}

// communication totals chat and notification records. Conversations and
// messages are copied into every participant's key, so they are counted
// once by id.
func (s *AnalyticsService) communication(ctx context.Context, users []models.User) (models.CommunicationStats, error) {
	var stats models.CommunicationStats
	convs := make(map[string]struct{})
	msgs := make(map[string]struct{})
	for _, u := range users {
		notes, err := s.Notifications.Notifications(ctx, u.ID)
		if err != nil {
			return stats, err
		}
		stats.Notifications += len(notes)
		for _, n := range notes {
			if !n.Read {
				stats.UnreadNotifications++
			}
		}
		cs, err := s.Notifications.Conversations(ctx, u.ID)
		if err != nil {
			return stats, err
		}
		for _, c := range cs {
			convs[c.ID] = struct{}{}
		}
		ms, err := s.Notifications.Messages(ctx, u.ID)
		if err != nil {
			return stats, err
		}
		for _, m := range ms {
			msgs[m.ID] = struct{}{}
		}
	}
	stats.Conversations = len(convs)
	stats.Messages = len(msgs)
	return stats, nil
}

// Snapshot returns the last computed data, computing it on first use.
func (s *AnalyticsService) Snapshot(ctx context.Context) (models.AnalyticsData, error) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	if snap != nil {
		return *snap, nil
	}
	return s.Refresh(ctx)
}

// Persist refreshes and writes the snapshot to the store.
func (s *AnalyticsService) Persist(ctx context.Context) (models.AnalyticsData, error) {
	data, err := s.Refresh(ctx)
	if err != nil {
		return data, err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return data, fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.Store.Set(ctx, store.AnalyticsSnapshotKey, raw); err != nil {
		return data, fmt.Errorf("store snapshot: %w", err)
	}
	return data, nil
}

func (s *AnalyticsService) GenerateReport(ctx context.Context, t models.ReportType, filters models.ReportFilters) (any, error) {
	data, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return BuildReport(t, data, filters), nil
}

func (s *AnalyticsService) Predictions(ctx context.Context, t models.PredictionType) (any, error) {
	data, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return Predict(t, data)
}

// AdminStats computes the moderation dashboard figures. It always reads the
// store directly.
func (s *AnalyticsService) AdminStats(ctx context.Context) (models.AdminStats, error) {
	users, pubs, comments, err := s.load(ctx)
	if err != nil {
		return models.AdminStats{}, err
	}
	return ComputeAdminStats(s.Clock.Now(), users, pubs, comments), nil
}

func ComputeAdminStats(now time.Time, users []models.User, pubs []models.Publication, comments []models.Comment) models.AdminStats {
	recovered := countRecovered(pubs)
	stats := models.AdminStats{
		TotalUsers:            len(users),
		TotalPublications:     len(pubs),
		TotalComments:         len(comments),
		ActivePublications:    len(pubs) - recovered,
		RecoveredPublications: recovered,
		RecoveryRate:          rate(recovered, len(pubs)),
	}

	ranked := append([]models.User(nil), users...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Reputation > ranked[j].Reputation })
	stats.TopUsers = make([]models.AdminTopUser, 0, 5)
	for _, u := range head(ranked, 5) {
		stats.TopUsers = append(stats.TopUsers, models.AdminTopUser{
			UserID: u.ID, Name: u.Name, Email: u.Email, Reputation: u.Reputation,
		})
	}

	stats.TopLocations = make([]models.AdminLocationCount, 0, 5)
	for _, loc := range head(LocationStats(pubs, nil), 5) {
		stats.TopLocations = append(stats.TopLocations, models.AdminLocationCount{Location: loc.Location, Count: loc.Count})
	}

	if len(pubs) > 0 {
		stats.AvgCommentsPerPublication = math.Round(float64(len(comments))/float64(len(pubs))*10) / 10
	}

	weekAgo := now.AddDate(0, 0, -7)
	for i := range pubs {
		if pubs[i].CreatedAt.After(weekAgo) {
			stats.RecentActivity.Publications++
		}
	}
	for i := range comments {
		if comments[i].CreatedAt.After(weekAgo) {
			stats.RecentActivity.Comments++
		}
	}
	for i := range users {
		if users[i].CreatedAt.After(weekAgo) {
			stats.RecentActivity.NewUsers++
		}
	}
	return stats
}
