package activity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/praktis/backend/internal/domain/activity"
	"github.com/praktis/backend/internal/domain/identity"
	"github.com/praktis/backend/internal/domain/shared"
)

func TestFeedService_Recent(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()
	actor := identity.Actor{ID: adminID, AdminID: adminID, Role: identity.RoleAdmin}

	record, err := activity.New(adminID, adminID, activity.TypeTask, "TaskCreated", "Task \"GST Filing Q1\" created", activity.PriorityInfo)
	require.NoError(t, err)

	t.Run("returns recent records", func(t *testing.T) {
		repo := new(MockActivityRepository)
		svc := NewFeedService(repo, zap.NewNop())

		repo.On("FindRecentForOwner", ctx, adminID, mock.AnythingOfType("activity.Filter")).
			Return([]*activity.Activity{record}, int64(1), nil)

		result, err := svc.Recent(ctx, actor, FeedInput{})
		require.NoError(t, err)
		require.Len(t, result.Entries, 1)
		assert.Equal(t, "TaskCreated", result.Entries[0].Action)
		assert.Equal(t, int64(1), result.TotalCount)
	})

	t.Run("important only raises the priority floor", func(t *testing.T) {
		repo := new(MockActivityRepository)
		svc := NewFeedService(repo, zap.NewNop())

		var captured activity.Filter
		repo.On("FindRecentForOwner", ctx, adminID, mock.AnythingOfType("activity.Filter")).
			Run(func(args mock.Arguments) { captured = args.Get(2).(activity.Filter) }).
			Return([]*activity.Activity{}, int64(0), nil)

		_, err := svc.Recent(ctx, actor, FeedInput{ImportantOnly: true})
		require.NoError(t, err)
		require.NotNil(t, captured.MinPriority)
		assert.Equal(t, activity.PriorityImportant, *captured.MinPriority)
	})

	t.Run("forbidden for staff", func(t *testing.T) {
		svc := NewFeedService(new(MockActivityRepository), zap.NewNop())
		staff := identity.Actor{ID: uuid.New(), AdminID: adminID, Role: identity.RoleStaff}

		_, err := svc.Recent(ctx, staff, FeedInput{})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestFeedService_Prune(t *testing.T) {
	ctx := context.Background()
	repo := new(MockActivityRepository)
	svc := NewFeedService(repo, zap.NewNop())

	repo.On("DeleteExpired", ctx, mock.AnythingOfType("time.Time")).Return(int64(12), nil)

	pruned, err := svc.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(12), pruned)
	repo.AssertExpectations(t)
}
