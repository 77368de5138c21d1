package models

import "time"

// TaskStatus defines the possible statuses for a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Bucket is one of the three mutually exclusive task views computed
// from due_date and status.
type Bucket string

const (
	BucketToday     Bucket = "today"
	BucketUpcoming  Bucket = "upcoming"
	BucketCompleted Bucket = "completed"
)

// Task represents the structure of a task in the system. Content holds
// the rich-text editor output and may be large.
type Task struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"user_id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Priority  TaskPriority `json:"priority"`
	Status    TaskStatus   `json:"status"`
	DueDate   time.Time    `json:"due_date"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TaskFilter defines the available parameters for a bucket listing.
// Priority "" or "all" means no priority filter.
type TaskFilter struct {
	OwnerID  int64
	Bucket   Bucket
	Priority string
	Page     int
	Limit    int
}

// TaskPage is one page of a bucket listing plus its totals.
type TaskPage struct {
	Tasks       []Task `json:"tasks"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
	TotalTasks  int    `json:"totalTasks"`
}

// BucketCounts carries the navigational badge counters.
type BucketCounts struct {
	TodayCount     int `json:"todayCount"`
	UpcomingCount  int `json:"upcomingCount"`
	CompletedCount int `json:"completedCount"`
}
