package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"taskmanager/internal/models"
	"taskmanager/internal/services"
)

type fakeTaskService struct {
	addTask        func(ctx context.Context, ownerID int64, title string, priority models.TaskPriority, content string, dueDate time.Time) (*models.Task, error)
	listTasks      func(ctx context.Context, filter models.TaskFilter) (*models.TaskPage, error)
	changeStatus   func(ctx context.Context, ownerID, taskID int64, to models.TaskStatus) (*models.Task, bool, error)
	changePriority func(ctx context.Context, ownerID, taskID int64, to models.TaskPriority) (*models.Task, bool, error)
	countsByBucket func(ctx context.Context, ownerID int64) (*models.BucketCounts, error)
}

func (f *fakeTaskService) AddTask(ctx context.Context, ownerID int64, title string, priority models.TaskPriority, content string, dueDate time.Time) (*models.Task, error) {
	if f.addTask == nil {
		panic("unexpected AddTask call")
	}
	return f.addTask(ctx, ownerID, title, priority, content, dueDate)
}

func (f *fakeTaskService) ListTasks(ctx context.Context, filter models.TaskFilter) (*models.TaskPage, error) {
	if f.listTasks == nil {
		panic("unexpected ListTasks call")
	}
	return f.listTasks(ctx, filter)
}

func (f *fakeTaskService) ChangeStatus(ctx context.Context, ownerID, taskID int64, to models.TaskStatus) (*models.Task, bool, error) {
	if f.changeStatus == nil {
		panic("unexpected ChangeStatus call")
	}
	return f.changeStatus(ctx, ownerID, taskID, to)
}

func (f *fakeTaskService) ChangePriority(ctx context.Context, ownerID, taskID int64, to models.TaskPriority) (*models.Task, bool, error) {
	if f.changePriority == nil {
		panic("unexpected ChangePriority call")
	}
	return f.changePriority(ctx, ownerID, taskID, to)
}

func (f *fakeTaskService) CountsByBucket(ctx context.Context, ownerID int64) (*models.BucketCounts, error) {
	if f.countsByBucket == nil {
		panic("unexpected CountsByBucket call")
	}
	return f.countsByBucket(ctx, ownerID)
}

var _ services.TaskService = (*fakeTaskService)(nil)

// setupTaskRouter mounts the task routes behind a stub session gate
// that injects a fixed principal.
func setupTaskRouter(t *testing.T, svc services.TaskService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewTaskHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		principalContext(c, 9, "alice")
	})
	r.POST("/add_new_task", h.AddNewTask)
	r.GET("/today_task", h.TodayTask)
	r.GET("/upcoming_task", h.UpcomingTask)
	r.GET("/completed_task", h.CompletedTask)
	r.GET("/all_task_count", h.AllTasksCount)
	r.PATCH("/tasks_status_change/:id", h.ChangeStatus)
	r.PATCH("/tasks_priority_change/:id", h.ChangePriority)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAddNewTaskCreated(t *testing.T) {
	due := time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)
	r := setupTaskRouter(t, &fakeTaskService{
		addTask: func(ctx context.Context, ownerID int64, title string, priority models.TaskPriority, content string, dueDate time.Time) (*models.Task, error) {
			require.Equal(t, int64(9), ownerID)
			require.Equal(t, "T1", title)
			require.Equal(t, models.PriorityHigh, priority)
			require.Equal(t, "<p>x</p>", content)
			require.True(t, due.Equal(dueDate))
			return &models.Task{ID: 1}, nil
		},
	})

	w := doJSON(r, http.MethodPost, "/add_new_task",
		`{"title":"T1","priority":"high","editorContent":"<p>x</p>","dueDate":"2025-03-14T18:00:00Z"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "Task added successfully")
}

func TestAddNewTaskMissingFields(t *testing.T) {
	r := setupTaskRouter(t, &fakeTaskService{}) // service must not be reached

	cases := []string{
		`{"priority":"high","editorContent":"x","dueDate":"2025-03-14T18:00:00Z"}`,
		`{"title":"T1","editorContent":"x","dueDate":"2025-03-14T18:00:00Z"}`,
		`{"title":"T1","priority":"high","dueDate":"2025-03-14T18:00:00Z"}`,
		`{"title":"T1","priority":"high","editorContent":"x"}`,
	}
	for _, body := range cases {
		w := doJSON(r, http.MethodPost, "/add_new_task", body)
		require.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestAddNewTaskInvalidInput(t *testing.T) {
	r := setupTaskRouter(t, &fakeTaskService{})

	w := doJSON(r, http.MethodPost, "/add_new_task",
		`{"title":"T1","priority":"urgent","editorContent":"x","dueDate":"2025-03-14T18:00:00Z"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/add_new_task",
		`{"title":"T1","priority":"high","editorContent":"x","dueDate":"tomorrow"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddNewTaskUnresolvedOwner(t *testing.T) {
	r := setupTaskRouter(t, &fakeTaskService{
		addTask: func(ctx context.Context, ownerID int64, title string, priority models.TaskPriority, content string, dueDate time.Time) (*models.Task, error) {
			return nil, services.ErrOwnerNotFound
		},
	})

	w := doJSON(r, http.MethodPost, "/add_new_task",
		`{"title":"T1","priority":"high","editorContent":"x","dueDate":"2025-03-14T18:00:00Z"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListBucketsPassFilterThrough(t *testing.T) {
	var got models.TaskFilter
	page := &models.TaskPage{Tasks: []models.Task{}, TotalPages: 0, CurrentPage: 3, TotalTasks: 0}
	r := setupTaskRouter(t, &fakeTaskService{
		listTasks: func(ctx context.Context, filter models.TaskFilter) (*models.TaskPage, error) {
			got = filter
			return page, nil
		},
	})

	cases := []struct {
		path   string
		bucket models.Bucket
	}{
		{"/today_task", models.BucketToday},
		{"/upcoming_task", models.BucketUpcoming},
		{"/completed_task", models.BucketCompleted},
	}
	for _, tc := range cases {
		w := doJSON(r, http.MethodGet, tc.path+"?page=3&limit=10&priority=high", "")
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, tc.bucket, got.Bucket)
		require.Equal(t, int64(9), got.OwnerID)
		require.Equal(t, 3, got.Page)
		require.Equal(t, 10, got.Limit)
		require.Equal(t, "high", got.Priority)
	}
}

func TestListBucketDefaultsPaging(t *testing.T) {
	r := setupTaskRouter(t, &fakeTaskService{
		listTasks: func(ctx context.Context, filter models.TaskFilter) (*models.TaskPage, error) {
			require.Equal(t, services.DefaultPage, filter.Page)
			require.Equal(t, services.DefaultLimit, filter.Limit)
			return &models.TaskPage{Tasks: []models.Task{}, CurrentPage: filter.Page}, nil
		},
	})

	// non-numeric values fall back to the defaults
	w := doJSON(r, http.MethodGet, "/today_task?page=abc&limit=-1", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestListBucketResponseShape(t *testing.T) {
	r := setupTaskRouter(t, &fakeTaskService{
		listTasks: func(ctx context.Context, filter models.TaskFilter) (*models.TaskPage, error) {
			return &models.TaskPage{
				Tasks:       []models.Task{{ID: 1, Title: "T1"}},
				TotalPages:  1,
				CurrentPage: 1,
				TotalTasks:  1,
			}, nil
		},
	})

	w := doJSON(r, http.MethodGet, "/today_task", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, key := range []string{"tasks", "totalPages", "currentPage", "totalTasks"} {
		require.Contains(t, resp, key)
	}
}

func TestAllTasksCount(t *testing.T) {
	r := setupTaskRouter(t, &fakeTaskService{
		countsByBucket: func(ctx context.Context, ownerID int64) (*models.BucketCounts, error) {
			require.Equal(t, int64(9), ownerID)
			return &models.BucketCounts{TodayCount: 1, UpcomingCount: 2, CompletedCount: 3}, nil
		},
	})

	w := doJSON(r, http.MethodGet, "/all_task_count", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"todayCount":1,"upcomingCount":2,"completedCount":3}`, w.Body.String())
}

func TestChangeStatusUpdated(t *testing.T) {
	r := setupTaskRouter(t, &fakeTaskService{
		changeStatus: func(ctx context.Context, ownerID, taskID int64, to models.TaskStatus) (*models.Task, bool, error) {
			require.Equal(t, int64(9), ownerID)
			require.Equal(t, int64(5), taskID)
			require.Equal(t, models.StatusDone, to)
			return &models.Task{ID: taskID, Status: to}, true, nil
		},
	})

	w := doJSON(r, http.MethodPatch, "/tasks_status_change/5", `{"status":"done"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "status updated successfully")
	require.Contains(t, w.Body.String(), `"data"`)
}

func TestChangeStatusUnchanged(t *testing.T) {
	r := setupTaskRouter(t, &fakeTaskService{
		changeStatus: func(ctx context.Context, ownerID, taskID int64, to models.TaskStatus) (*models.Task, bool, error) {
			return &models.Task{ID: taskID, Status: to}, false, nil
		},
	})

	w := doJSON(r, http.MethodPatch, "/tasks_status_change/5", `{"status":"done"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "status unchanged")
	require.NotContains(t, w.Body.String(), `"data"`)
}

func TestChangeStatusValidation(t *testing.T) {
	r := setupTaskRouter(t, &fakeTaskService{})

	w := doJSON(r, http.MethodPatch, "/tasks_status_change/abc", `{"status":"done"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPatch, "/tasks_status_change/5", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPatch, "/tasks_status_change/5", `{"status":"cancelled"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChangeStatusNotFound(t *testing.T) {
	r := setupTaskRouter(t, &fakeTaskService{
		changeStatus: func(ctx context.Context, ownerID, taskID int64, to models.TaskStatus) (*models.Task, bool, error) {
			return nil, false, services.ErrTaskNotFound
		},
	})

	w := doJSON(r, http.MethodPatch, "/tasks_status_change/5", `{"status":"done"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestChangeStatusUpdateFailed(t *testing.T) {
	r := setupTaskRouter(t, &fakeTaskService{
		changeStatus: func(ctx context.Context, ownerID, taskID int64, to models.TaskStatus) (*models.Task, bool, error) {
			return nil, false, services.ErrUpdateFailed
		},
	})

	w := doJSON(r, http.MethodPatch, "/tasks_status_change/5", `{"status":"done"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestChangePriorityUpdated(t *testing.T) {
	r := setupTaskRouter(t, &fakeTaskService{
		changePriority: func(ctx context.Context, ownerID, taskID int64, to models.TaskPriority) (*models.Task, bool, error) {
			require.Equal(t, models.PriorityLow, to)
			return &models.Task{ID: taskID, Priority: to}, true, nil
		},
	})

	w := doJSON(r, http.MethodPatch, "/tasks_priority_change/5", `{"priority":"low"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "priority updated successfully")
}

func TestChangePriorityRejectsUnknownValue(t *testing.T) {
	r := setupTaskRouter(t, &fakeTaskService{})

	w := doJSON(r, http.MethodPatch, "/tasks_priority_change/5", `{"priority":"urgent"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
