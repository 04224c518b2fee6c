package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/praktis/backend/internal/domain/activity"
	"github.com/praktis/backend/internal/domain/identity"
	"github.com/praktis/backend/internal/domain/shared"
)

// FeedInput contains the activity feed query options
type FeedInput struct {
	Type          string
	ImportantOnly bool
	Page          int
	PageSize      int
}

// Entry is one activity feed item
type Entry struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Type         string
	Action       string
	Description  string
	Priority     activity.Priority
	RelatedModel string
	RelatedID    *uuid.UUID
	CreatedAt    time.Time
}

// FeedResult is a page of the activity feed
type FeedResult struct {
	Entries    []Entry
	TotalCount int64
	Page       int
	PageSize   int
}

// FeedService serves the practice activity feed
type FeedService struct {
	repo   activity.ActivityRepository
	logger *zap.Logger
}

// NewFeedService creates a new activity feed service
func NewFeedService(repo activity.ActivityRepository, logger *zap.Logger) *FeedService {
	return &FeedService{repo: repo, logger: logger}
}

// Recent returns the newest activity records for the practice
func (s *FeedService) Recent(ctx context.Context, actor identity.Actor, input FeedInput) (*FeedResult, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	filter := activity.NewFilter()
	filter.Type = input.Type
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	if input.ImportantOnly {
		filter = filter.ImportantOnly()
	}

	records, total, err := s.repo.FindRecentForOwner(ctx, actor.AdminID, filter)
	if err != nil {
		s.logger.Error("Failed to load activity feed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load activity feed")
	}

	entries := make([]Entry, 0, len(records))
	for _, record := range records {
		entries = append(entries, Entry{
			ID:           record.ID,
			UserID:       record.UserID,
			Type:         record.Type,
			Action:       record.Action,
			Description:  record.Description,
			Priority:     record.Priority,
			RelatedModel: record.RelatedModel,
			RelatedID:    record.RelatedID,
			CreatedAt:    record.CreatedAt,
		})
	}

	return &FeedResult{
		Entries:    entries,
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.Limit(),
	}, nil
}

// Prune removes activity records past their retention expiry. Invoked
// by the daily scheduler and by the admin maintenance endpoint.
func (s *FeedService) Prune(ctx context.Context) (int64, error) {
	pruned, err := s.repo.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("Failed to prune expired activities", zap.Error(err))
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to prune expired activities")
	}
	if pruned > 0 {
		s.logger.Info("Pruned expired activities", zap.Int64("count", pruned))
	}
	return pruned, nil
}
