package routes

import (
	"github.com/gin-gonic/gin"

	"taskmanager/internal/handlers"
	"taskmanager/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	taskHandler *handlers.TaskHandler,
	jwtSecret []byte,
) *gin.Engine {
	api := r.Group("/tasks")

	// ---- public
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)

	// ---- protected (session gate on every request below)
	protected := api.Group("", middleware.AuthMiddleware(jwtSecret))
	{
		protected.GET("/user", authHandler.User)
		protected.GET("/protected", authHandler.Protected)

		protected.POST("/add_new_task", taskHandler.AddNewTask)
		protected.GET("/today_task", taskHandler.TodayTask)
		protected.GET("/upcoming_task", taskHandler.UpcomingTask)
		protected.GET("/completed_task", taskHandler.CompletedTask)
		protected.GET("/all_task_count", taskHandler.AllTasksCount)

		protected.PATCH("/tasks_status_change/:id", taskHandler.ChangeStatus)
		protected.PATCH("/tasks_priority_change/:id", taskHandler.ChangePriority)
	}

	return r
}
