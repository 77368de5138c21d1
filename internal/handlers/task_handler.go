package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/models"
	"taskmanager/internal/services"
)

type TaskHandler struct {
	service services.TaskService
}

func NewTaskHandler(service services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// @Summary      Add a new task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /add_new_task [post]
func (h *TaskHandler) AddNewTask(c *gin.Context) {
	userID, _ := currentUser(c)

	var req struct {
		Title         string              `json:"title"`
		Priority      models.TaskPriority `json:"priority"`
		EditorContent string              `json:"editorContent"`
		DueDate       string              `json:"dueDate"` // RFC3339
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][add][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "enter all details"})
		return
	}
	if req.Title == "" || req.Priority == "" || req.EditorContent == "" || req.DueDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "enter all details"})
		return
	}
	if !isAllowedTaskPriority(req.Priority) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority"})
		return
	}
	due, err := time.Parse(time.RFC3339, req.DueDate)
	if err != nil {
		log.Printf("[task][add][err] invalid dueDate=%q: %v", req.DueDate, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dueDate (RFC3339)"})
		return
	}

	task, err := h.service.AddTask(c.Request.Context(), userID, req.Title, req.Priority, req.EditorContent, due)
	switch {
	case err == nil:
		log.Printf("[task][add][ok] id=%d userID=%d", task.ID, userID)
		c.JSON(http.StatusCreated, gin.H{"message": "Task added successfully"})
	case errors.Is(err, services.ErrTaskFieldsMissing):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrOwnerNotFound):
		log.Printf("[task][add][deny] unresolved owner userID=%d", userID)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Something went wrong"})
	default:
		respondStoreError(c, "[task][add]", err)
	}
}

// @Summary      List today's open tasks
// @Tags         Tasks
// @Produce      json
// @Param        page      query  int     false  "page number"
// @Param        limit     query  int     false  "page size"
// @Param        priority  query  string  false  "low|medium|high|all"
// @Success      200  {object}  models.TaskPage
// @Router       /today_task [get]
func (h *TaskHandler) TodayTask(c *gin.Context) {
	h.listBucket(c, models.BucketToday)
}

// @Summary      List upcoming open tasks
// @Tags         Tasks
// @Produce      json
// @Success      200  {object}  models.TaskPage
// @Router       /upcoming_task [get]
func (h *TaskHandler) UpcomingTask(c *gin.Context) {
	h.listBucket(c, models.BucketUpcoming)
}

// @Summary      List completed tasks
// @Tags         Tasks
// @Produce      json
// @Success      200  {object}  models.TaskPage
// @Router       /completed_task [get]
func (h *TaskHandler) CompletedTask(c *gin.Context) {
	h.listBucket(c, models.BucketCompleted)
}

func (h *TaskHandler) listBucket(c *gin.Context, bucket models.Bucket) {
	userID, _ := currentUser(c)

	filter := models.TaskFilter{
		OwnerID:  userID,
		Bucket:   bucket,
		Priority: c.Query("priority"),
		Page:     queryIntDefault(c, "page", services.DefaultPage),
		Limit:    queryIntDefault(c, "limit", services.DefaultLimit),
	}

	page, err := h.service.ListTasks(c.Request.Context(), filter)
	if err != nil {
		respondStoreError(c, "[task]["+string(bucket)+"]", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// @Summary      Bucket counters for the navigation badges
// @Tags         Tasks
// @Produce      json
// @Success      200  {object}  models.BucketCounts
// @Router       /all_task_count [get]
func (h *TaskHandler) AllTasksCount(c *gin.Context) {
	userID, _ := currentUser(c)

	counts, err := h.service.CountsByBucket(c.Request.Context(), userID)
	if err != nil {
		respondStoreError(c, "[task][count]", err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// PATCH /tasks_status_change/:id
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	userID, _ := currentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req struct {
		Status models.TaskStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status and task ID are required"})
		return
	}
	if !isAllowedTaskStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	task, changed, err := h.service.ChangeStatus(c.Request.Context(), userID, id, req.Status)
	h.respondChange(c, "status", task, changed, err)
}

// PATCH /tasks_priority_change/:id
func (h *TaskHandler) ChangePriority(c *gin.Context) {
	userID, _ := currentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req struct {
		Priority models.TaskPriority `json:"priority"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Priority == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Priority and task ID are required"})
		return
	}
	if !isAllowedTaskPriority(req.Priority) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority"})
		return
	}

	task, changed, err := h.service.ChangePriority(c.Request.Context(), userID, id, req.Priority)
	h.respondChange(c, "priority", task, changed, err)
}

func (h *TaskHandler) respondChange(c *gin.Context, field string, task *models.Task, changed bool, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found or not owned by user"})
	case err != nil:
		respondStoreError(c, "[task]["+field+"]", err)
	case !changed:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": field + " unchanged (already set to this value)",
		})
	default:
		log.Printf("[task][%s][ok] id=%d", field, task.ID)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": field + " updated successfully",
			"data":    task,
		})
	}
}
