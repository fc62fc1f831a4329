package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/campusbeacon/api/internal/app/controllers"
	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers groups everything the router dispatches to
type Handlers struct {
	Auth        *controllers.AuthController
	Users       *controllers.UserController
	LostFound   *controllers.LostFoundController
	Marketplace *controllers.MarketplaceController
	Rides       *controllers.RideController
	Attendance  *controllers.AttendanceController
	Hostels     *controllers.HostelController
	Resources   *controllers.ResourceController
	Chat        *controllers.ChatController
	ChatSocket  gin.HandlerFunc
	Metrics     http.Handler
	Database    Pinger
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	v1.GET("/health", healthHandler(h.Database))

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
	}

	v1.GET("/subjects", h.Attendance.Catalog)
	v1.GET("/hostels", h.Hostels.List)
	v1.GET("/hostels/:id", h.Hostels.Get)
	v1.GET("/hostels/:id/officials", h.Hostels.Officials)
	v1.GET("/hostels/:id/notifications", h.Hostels.Notifications)
	v1.GET("/hostels/:id/menu", h.Hostels.Menu)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	admin := authenticated.Group("")
	admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))

	authenticated.POST("/auth/logout-all", h.Auth.LogoutAll)

	users := authenticated.Group("/users")
	{
		users.GET("/me", h.Users.GetProfile)
		users.PUT("/me", h.Users.UpdateProfile)
	}

	lostItems := authenticated.Group("/lost-and-found/lost-items")
	{
		lostItems.GET("", h.LostFound.List)
		lostItems.POST("", h.LostFound.Create)
		lostItems.GET("/:id", h.LostFound.Get)
		lostItems.PATCH("/:id/status", h.LostFound.UpdateStatus)
		lostItems.DELETE("/:id", h.LostFound.Delete)
	}

	marketplace := authenticated.Group("/marketplace")
	{
		marketplace.GET("/items", h.Marketplace.List)
		marketplace.POST("/items", h.Marketplace.Create)
		marketplace.GET("/items/:id", h.Marketplace.Get)
		marketplace.PUT("/items/:id", h.Marketplace.Update)
		marketplace.PATCH("/items/:id/sold", h.Marketplace.MarkSold)
		marketplace.DELETE("/items/:id", h.Marketplace.Delete)
		marketplace.GET("/my-items", h.Marketplace.MyItems)
	}

	rides := authenticated.Group("/rides")
	{
		rides.GET("", h.Rides.List)
		rides.POST("", h.Rides.Create)
		rides.GET("/mine", h.Rides.Mine)
		rides.GET("/:id", h.Rides.Get)
		rides.POST("/:id/join", h.Rides.Join)
		rides.POST("/:id/leave", h.Rides.Leave)
		rides.DELETE("/:id", h.Rides.Delete)
	}

	admin.POST("/subjects", h.Attendance.CreateSubject)

	attendance := authenticated.Group("/attendance")
	{
		attendance.GET("/subjects", h.Attendance.TrackedSubjects)
		attendance.POST("/subjects", h.Attendance.AddSubject)
		attendance.DELETE("/subjects/:subjectId", h.Attendance.RemoveSubject)
		attendance.PUT("/subjects/:subjectId/records", h.Attendance.Mark)
		attendance.GET("/subjects/:subjectId/records", h.Attendance.Calendar)
		attendance.DELETE("/subjects/:subjectId/records/:date", h.Attendance.Unmark)
		attendance.POST("/subjects/:subjectId/import", h.Attendance.Import)
		attendance.GET("/summary", h.Attendance.Summary)
		attendance.GET("/export", h.Attendance.Export)
	}

	// Hostel administration
	admin.POST("/hostels", h.Hostels.Create)
	admin.PUT("/hostels/:id", h.Hostels.Update)
	admin.DELETE("/hostels/:id", h.Hostels.Delete)
	admin.POST("/hostels/:id/officials", h.Hostels.AddOfficial)
	admin.DELETE("/hostels/:id/officials/:officialId", h.Hostels.RemoveOfficial)
	admin.POST("/hostels/:id/notifications", h.Hostels.PostNotification)
	admin.DELETE("/hostels/:id/notifications/:notificationId", h.Hostels.RemoveNotification)
	admin.PUT("/hostels/:id/menu", h.Hostels.UpdateMenu)
	admin.GET("/hostels/:id/complaints", h.Hostels.HostelComplaints)
	admin.PATCH("/complaints/:id/status", h.Hostels.UpdateComplaintStatus)

	authenticated.POST("/hostels/:id/complaints", h.Hostels.FileComplaint)
	authenticated.GET("/complaints/mine", h.Hostels.MyComplaints)

	resources := authenticated.Group("/resources")
	{
		resources.GET("", h.Resources.List)
		resources.POST("", h.Resources.Upload)
		resources.GET("/:id", h.Resources.Get)
		resources.POST("/:id/download", h.Resources.Download)
		resources.DELETE("/:id", h.Resources.Delete)
	}

	chat := authenticated.Group("/chat")
	{
		chat.GET("/rooms", h.Chat.Rooms)
		chat.GET("/rooms/:id/messages", h.Chat.History)
		chat.POST("/rooms/:id/messages", h.Chat.Send)
		chat.PUT("/messages/:messageId", h.Chat.Edit)
		chat.DELETE("/messages/:messageId", h.Chat.Delete)
		if h.ChatSocket != nil {
			chat.GET("/rooms/:id/ws", h.ChatSocket)
		}
	}
	admin.POST("/chat/rooms", h.Chat.CreateRoom)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})
	if h.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.Metrics))
	}
}

func healthHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := gin.H{"status": "ok", "database": "up"}
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database unavailable")
				c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(errorDetail))
				return
			}
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(status, ""))
	}
}
