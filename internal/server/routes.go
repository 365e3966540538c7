package server

import (
	"github.com/labstack/echo/v4"

	"example.com/roomkit/backend/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	roomHandler *handlers.RoomHandler,
	memberHandler *handlers.MemberHandler,
	expenseHandler *handlers.ExpenseHandler,
	pollHandler *handlers.PollHandler,
	habitHandler *handlers.HabitHandler,
	scheduleHandler *handlers.ScheduleHandler,
	noteHandler *handlers.NoteHandler,
	statsHandler *handlers.StatsHandler,
	notificationHandler *handlers.NotificationHandler,
	adminHandler *handlers.AdminHandler,
	authMiddleware echo.MiddlewareFunc,
	authRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)

	api := e.Group("/api/v1")
	roomsGroup := api.Group("/rooms", authRateLimiter)

	roomsGroup.POST("", roomHandler.Create)
	roomsGroup.POST("/join", roomHandler.Join)
	roomsGroup.POST("/refresh", roomHandler.Refresh)
	roomsGroup.POST("/logout", roomHandler.Logout)
	roomsGroup.GET("/me", roomHandler.Me, authMiddleware)

	members := api.Group("/members", authMiddleware)
	members.GET("", memberHandler.List)
	members.POST("", memberHandler.Create)
	members.DELETE("/:memberId", memberHandler.Delete)

	expenses := api.Group("/expenses", authMiddleware)
	expenses.GET("", expenseHandler.List)
	expenses.POST("", expenseHandler.Create)
	expenses.GET("/settlement", expenseHandler.Settlement)
	expenses.GET("/export/json", expenseHandler.ExportJSON)
	expenses.GET("/export/csv", expenseHandler.ExportCSV)
	expenses.PUT("/:expenseId", expenseHandler.Update)
	expenses.DELETE("/:expenseId", expenseHandler.Delete)

	polls := api.Group("/polls", authMiddleware)
	polls.GET("", pollHandler.List)
	polls.POST("", pollHandler.Create)
	polls.GET("/:pollId", pollHandler.Get)
	polls.POST("/:pollId/votes", pollHandler.Vote)
	polls.PATCH("/:pollId/close", pollHandler.Close)
	polls.DELETE("/:pollId", pollHandler.Delete)

	habits := api.Group("/habits", authMiddleware)
	habits.GET("", habitHandler.List)
	habits.POST("", habitHandler.Create)
	habits.GET("/stats", habitHandler.Stats)
	habits.PUT("/:habitId", habitHandler.Update)
	habits.DELETE("/:habitId", habitHandler.Delete)
	habits.PATCH("/:habitId/toggle", habitHandler.Toggle)

	schedule := api.Group("/schedule", authMiddleware)
	schedule.GET("/groups", scheduleHandler.ListGroups)
	schedule.POST("/groups", scheduleHandler.CreateGroup)
	schedule.DELETE("/groups/:groupId", scheduleHandler.DeleteGroup)
	schedule.GET("/tasks", scheduleHandler.ListTasks)
	schedule.POST("/tasks", scheduleHandler.CreateTask)
	schedule.PUT("/tasks/:taskId", scheduleHandler.UpdateTask)
	schedule.PATCH("/tasks/:taskId/toggle", scheduleHandler.ToggleTask)
	schedule.DELETE("/tasks/:taskId", scheduleHandler.DeleteTask)
	schedule.GET("/layout", scheduleHandler.Layout)

	notes := api.Group("/notes", authMiddleware)
	notes.GET("", noteHandler.List)
	notes.POST("", noteHandler.Create)
	notes.PUT("/:noteId", noteHandler.Update)
	notes.DELETE("/:noteId", noteHandler.Delete)
	notes.PATCH("/reorder", noteHandler.Reorder)

	stats := api.Group("/stats", authMiddleware)
	stats.GET("/overview", statsHandler.Overview)

	notifications := api.Group("/notifications", authMiddleware)
	notifications.GET("/stream", notificationHandler.Stream)

	admin := api.Group("/admin", authMiddleware, adminHandler.Middleware)
	admin.GET("/rooms", adminHandler.ListRooms)
	admin.GET("/usage", adminHandler.Usage)
}
