package service_test

import (
	"fmt"
	"testing"

	"github.com/taskrail/taskrail/internal/domain"
	"github.com/taskrail/taskrail/internal/service"
	"github.com/stretchr/testify/require"
)

func newTaskFixture(t *testing.T) (*service.TaskService, int64) {
	t.Helper()

	st := newTestStore(t)
	user, err := st.Users().CreateUser(t.Context(), "owner@example.com", "x")
	require.NoError(t, err)

	return &service.TaskService{Store: st}, user.ID
}

func strPtr(s string) *string { return &s }

func statusPtr(s domain.TaskStatus) *domain.TaskStatus { return &s }

func TestTaskCreate(t *testing.T) {
	t.Parallel()
	svc, userID := newTaskFixture(t)
	ctx := t.Context()

	t.Run("new tasks start pending", func(t *testing.T) {
		task, err := svc.Create(ctx, userID, "Buy milk", strPtr("2 litres"))
		require.NoError(t, err)
		require.NotZero(t, task.ID)
		require.Equal(t, userID, task.UserID)
		require.Equal(t, domain.TaskPending, task.Status)
		require.NotNil(t, task.Description)
		require.Equal(t, "2 litres", *task.Description)
	})

	t.Run("description is optional", func(t *testing.T) {
		task, err := svc.Create(ctx, userID, "Walk dog", nil)
		require.NoError(t, err)
		require.Nil(t, task.Description)
	})

	t.Run("title is required", func(t *testing.T) {
		_, err := svc.Create(ctx, userID, "", nil)
		require.ErrorIs(t, err, service.ErrTitleRequired)
	})
}

func TestTaskOwnership(t *testing.T) {
	t.Parallel()
	svc, ownerID := newTaskFixture(t)
	ctx := t.Context()

	other, err := svc.Store.Users().CreateUser(ctx, "intruder@example.com", "x")
	require.NoError(t, err)

	task, err := svc.Create(ctx, ownerID, "Private", nil)
	require.NoError(t, err)

	// Every operation scoped to a different user reports not found.
	_, err = svc.Get(ctx, other.ID, task.ID)
	require.ErrorIs(t, err, service.ErrTaskNotFound)

	_, err = svc.Update(ctx, other.ID, task.ID, service.UpdateParams{Title: strPtr("stolen")})
	require.ErrorIs(t, err, service.ErrTaskNotFound)

	_, err = svc.Toggle(ctx, other.ID, task.ID)
	require.ErrorIs(t, err, service.ErrTaskNotFound)

	err = svc.Delete(ctx, other.ID, task.ID)
	require.ErrorIs(t, err, service.ErrTaskNotFound)

	// The owner still sees the untouched task.
	got, err := svc.Get(ctx, ownerID, task.ID)
	require.NoError(t, err)
	require.Equal(t, "Private", got.Title)
	require.Equal(t, domain.TaskPending, got.Status)
}

func TestTaskUpdate(t *testing.T) {
	t.Parallel()
	svc, userID := newTaskFixture(t)
	ctx := t.Context()

	task, err := svc.Create(ctx, userID, "Original", strPtr("keep me"))
	require.NoError(t, err)

	t.Run("nil fields keep their value", func(t *testing.T) {
		updated, err := svc.Update(ctx, userID, task.ID, service.UpdateParams{
			Status: statusPtr(domain.TaskCompleted),
		})
		require.NoError(t, err)
		require.Equal(t, "Original", updated.Title)
		require.NotNil(t, updated.Description)
		require.Equal(t, "keep me", *updated.Description)
		require.Equal(t, domain.TaskCompleted, updated.Status)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := svc.Update(ctx, userID, task.ID, service.UpdateParams{Title: strPtr("")})
		require.ErrorIs(t, err, service.ErrTitleRequired)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := svc.Update(ctx, userID, task.ID, service.UpdateParams{
			Status: statusPtr(domain.TaskStatus("DOING")),
		})
		require.ErrorIs(t, err, service.ErrInvalidStatus)
	})
}

func TestTaskToggle(t *testing.T) {
	t.Parallel()
	svc, userID := newTaskFixture(t)
	ctx := t.Context()

	task, err := svc.Create(ctx, userID, "Flip me", nil)
	require.NoError(t, err)

	toggled, err := svc.Toggle(ctx, userID, task.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TaskCompleted, toggled.Status)

	back, err := svc.Toggle(ctx, userID, task.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TaskPending, back.Status)
}

func TestTaskList(t *testing.T) {
	t.Parallel()
	svc, userID := newTaskFixture(t)
	ctx := t.Context()

	for i := 0; i < 25; i++ {
		task, err := svc.Create(ctx, userID, fmt.Sprintf("Task %02d", i), nil)
		require.NoError(t, err)
		if i%2 == 0 {
			_, err = svc.Toggle(ctx, userID, task.ID)
			require.NoError(t, err)
		}
	}

	t.Run("defaults to page 1 of 10", func(t *testing.T) {
		page, err := svc.List(ctx, userID, service.ListParams{})
		require.NoError(t, err)
		require.Len(t, page.Items, 10)
		require.Equal(t, 1, page.Page)
		require.Equal(t, 10, page.PageSize)
		require.EqualValues(t, 25, page.Total)
	})

	t.Run("pages do not overlap", func(t *testing.T) {
		first, err := svc.List(ctx, userID, service.ListParams{Page: 1, PageSize: 10})
		require.NoError(t, err)
		third, err := svc.List(ctx, userID, service.ListParams{Page: 3, PageSize: 10})
		require.NoError(t, err)
		require.Len(t, third.Items, 5)

		seen := map[int64]bool{}
		for _, item := range first.Items {
			seen[item.ID] = true
		}
		for _, item := range third.Items {
			require.False(t, seen[item.ID])
		}
	})

	t.Run("page size is capped", func(t *testing.T) {
		page, err := svc.List(ctx, userID, service.ListParams{PageSize: 10_000})
		require.NoError(t, err)
		require.Equal(t, service.MaxPageSize, page.PageSize)
	})

	t.Run("filters by status", func(t *testing.T) {
		page, err := svc.List(ctx, userID, service.ListParams{Status: domain.TaskCompleted, PageSize: 50})
		require.NoError(t, err)
		require.EqualValues(t, 13, page.Total)
		for _, item := range page.Items {
			require.Equal(t, domain.TaskCompleted, item.Status)
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := svc.List(ctx, userID, service.ListParams{Status: domain.TaskStatus("DONE")})
		require.ErrorIs(t, err, service.ErrInvalidStatus)
	})

	t.Run("search matches title case-insensitively", func(t *testing.T) {
		_, err := svc.Create(ctx, userID, "Deploy the Widget", nil)
		require.NoError(t, err)

		page, err := svc.List(ctx, userID, service.ListParams{Search: "widget"})
		require.NoError(t, err)
		require.EqualValues(t, 1, page.Total)
		require.Equal(t, "Deploy the Widget", page.Items[0].Title)
	})

	t.Run("empty result is a page not an error", func(t *testing.T) {
		page, err := svc.List(ctx, userID, service.ListParams{Search: "no-such-task"})
		require.NoError(t, err)
		require.Empty(t, page.Items)
		require.EqualValues(t, 0, page.Total)
	})
}

// Listing is newest-first with ID as tiebreak, so a fresh task appears on
// page one.
func TestTaskListOrder(t *testing.T) {
	t.Parallel()
	svc, userID := newTaskFixture(t)
	ctx := t.Context()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, userID, fmt.Sprintf("old %d", i), nil)
		require.NoError(t, err)
	}
	newest, err := svc.Create(ctx, userID, "newest", nil)
	require.NoError(t, err)

	page, err := svc.List(ctx, userID, service.ListParams{})
	require.NoError(t, err)
	require.Equal(t, newest.ID, page.Items[0].ID)
}
