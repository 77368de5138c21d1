package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"taskmanager/internal/models"
	"taskmanager/internal/repositories"
)

const (
	DefaultPage  = 1
	DefaultLimit = 6
)

var (
	ErrTaskFieldsMissing = errors.New("enter all details")
	ErrOwnerNotFound     = errors.New("owner does not resolve to an existing user")
	ErrTaskNotFound      = errors.New("task not found or not owned by user")
	ErrUpdateFailed      = errors.New("update failed - no rows affected")
)

// TaskService defines the interface for task-related business logic.
type TaskService interface {
	AddTask(ctx context.Context, ownerID int64, title string, priority models.TaskPriority, content string, dueDate time.Time) (*models.Task, error)
	ListTasks(ctx context.Context, filter models.TaskFilter) (*models.TaskPage, error)
	ChangeStatus(ctx context.Context, ownerID, taskID int64, to models.TaskStatus) (*models.Task, bool, error)
	ChangePriority(ctx context.Context, ownerID, taskID int64, to models.TaskPriority) (*models.Task, bool, error)
	CountsByBucket(ctx context.Context, ownerID int64) (*models.BucketCounts, error)
}

type taskService struct {
	repo  repositories.TaskRepository
	users repositories.UserRepository
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(repo repositories.TaskRepository, users repositories.UserRepository) TaskService {
	return &taskService{repo: repo, users: users}
}

func (s *taskService) AddTask(ctx context.Context, ownerID int64, title string, priority models.TaskPriority, content string, dueDate time.Time) (*models.Task, error) {
	if strings.TrimSpace(title) == "" || priority == "" || strings.TrimSpace(content) == "" || dueDate.IsZero() {
		return nil, ErrTaskFieldsMissing
	}

	// the token may outlive the account; the row must still exist
	// before we attach tasks to it
	exists, err := s.users.ExistsByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrOwnerNotFound
	}

	now := time.Now().UTC()
	task := &models.Task{
		UserID:    ownerID,
		Title:     title,
		Content:   content,
		Priority:  priority,
		Status:    models.StatusTodo,
		DueDate:   dueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Store(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasks issues the page query and the count query concurrently and
// waits for both; either failure fails the whole listing.
func (s *taskService) ListTasks(ctx context.Context, filter models.TaskFilter) (*models.TaskPage, error) {
	if filter.Page < 1 {
		filter.Page = DefaultPage
	}
	if filter.Limit < 1 {
		filter.Limit = DefaultLimit
	}
	now := time.Now().UTC()

	var (
		tasks []models.Task
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = s.repo.ListPage(gctx, filter, now)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, filter, now)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if tasks == nil {
		tasks = []models.Task{}
	}
	return &models.TaskPage{
		Tasks:       tasks,
		TotalPages:  (total + filter.Limit - 1) / filter.Limit,
		CurrentPage: filter.Page,
		TotalTasks:  total,
	}, nil
}

// ChangeStatus reports (task, false, nil) without writing when the new
// value equals the current one. The existence check and the update are
// separate statements; the update re-states the ownership predicate, so
// a row deleted in between surfaces as ErrUpdateFailed.
func (s *taskService) ChangeStatus(ctx context.Context, ownerID, taskID int64, to models.TaskStatus) (*models.Task, bool, error) {
	current, err := s.repo.FindOwned(ctx, taskID, ownerID)
	if err != nil {
		return nil, false, err
	}
	if current == nil {
		return nil, false, ErrTaskNotFound
	}
	if current.Status == to {
		return current, false, nil
	}

	updated, err := s.repo.UpdateStatus(ctx, taskID, ownerID, to)
	if err != nil {
		return nil, false, err
	}
	if updated == nil {
		return nil, false, ErrUpdateFailed
	}
	return updated, true, nil
}

func (s *taskService) ChangePriority(ctx context.Context, ownerID, taskID int64, to models.TaskPriority) (*models.Task, bool, error) {
	current, err := s.repo.FindOwned(ctx, taskID, ownerID)
	if err != nil {
		return nil, false, err
	}
	if current == nil {
		return nil, false, ErrTaskNotFound
	}
	if current.Priority == to {
		return current, false, nil
	}

	updated, err := s.repo.UpdatePriority(ctx, taskID, ownerID, to)
	if err != nil {
		return nil, false, err
	}
	if updated == nil {
		return nil, false, ErrUpdateFailed
	}
	return updated, true, nil
}

// CountsByBucket computes the three badge counters independently and
// concurrently; all must succeed.
func (s *taskService) CountsByBucket(ctx context.Context, ownerID int64) (*models.BucketCounts, error) {
	now := time.Now().UTC()
	counts := &models.BucketCounts{}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range []struct {
		bucket models.Bucket
		dst    *int
	}{
		{models.BucketToday, &counts.TodayCount},
		{models.BucketUpcoming, &counts.UpcomingCount},
		{models.BucketCompleted, &counts.CompletedCount},
	} {
		c := c
		g.Go(func() error {
			n, err := s.repo.Count(gctx, models.TaskFilter{OwnerID: ownerID, Bucket: c.bucket}, now)
			if err != nil {
				return err
			}
			*c.dst = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}
