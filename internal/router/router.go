package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kriti-labs/jobportal/internal/auth"
	"github.com/kriti-labs/jobportal/internal/handlers"
	"github.com/kriti-labs/jobportal/internal/middleware"
	"github.com/kriti-labs/jobportal/internal/types"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Health        *handlers.HealthHandler
	Socket        *handlers.SocketHandler
	Auth          *handlers.AuthHandler
	Jobs          *handlers.JobHandler
	Applications  *handlers.ApplicationHandler
	Companies     *handlers.CompanyHandler
	Candidate     *handlers.CandidateHandler
	Employer      *handlers.EmployerHandler
	Chat          *handlers.ChatHandler
	Notifications *handlers.NotificationHandler
	Admin         *handlers.AdminHandler
}

func NewRouter(origins []string, issuer *auth.Issuer, users middleware.UserLoader, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), middleware.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.NoRoute(middleware.NotFound())

	protect := middleware.Authenticate(issuer, users)
	candidate := middleware.Authorize(types.RoleCandidate)
	employer := middleware.Authorize(types.RoleEmployer)
	employerOrAdmin := middleware.Authorize(types.RoleEmployer, types.RoleAdmin)
	admin := middleware.Authorize(types.RoleAdmin)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health.Check)
		api.GET("/ws", h.Socket.WebSocket)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", h.Auth.Signup)
			authGroup.POST("/login", h.Auth.Login)
			authGroup.POST("/refresh-token", h.Auth.Refresh)
			authGroup.POST("/forgot-password", h.Auth.ForgotPassword)
			authGroup.POST("/reset-password", h.Auth.ResetPassword)
			authGroup.POST("/reset-password/:token", h.Auth.ResetPassword)
			authGroup.GET("/me", protect, h.Auth.Me)
			authGroup.GET("/logout", protect, h.Auth.Logout)
		}

		jobs := api.Group("/jobs")
		{
			jobs.GET("", h.Jobs.List)
			jobs.GET("/feed", protect, candidate, h.Jobs.Feed)
			jobs.GET("/my-jobs", protect, employer, h.Jobs.Mine)
			jobs.GET("/:id", h.Jobs.Get)
			jobs.POST("", protect, employerOrAdmin, h.Jobs.Create)
			jobs.PUT("/:id", protect, employerOrAdmin, h.Jobs.Update)
			jobs.DELETE("/:id", protect, employerOrAdmin, h.Jobs.Delete)
		}

		applications := api.Group("/applications", protect)
		{
			applications.POST("", candidate, h.Applications.Apply)
			applications.GET("/my-applications", candidate, h.Applications.Mine)
			applications.GET("/check/:jobId", candidate, h.Applications.Check)
			applications.GET("/employer", employer, h.Applications.ForEmployer)
			applications.GET("/job/:jobId", employerOrAdmin, h.Applications.ForJob)
			applications.PUT("/:id/status", employerOrAdmin, h.Applications.UpdateStatus)
		}

		company := api.Group("/company")
		{
			company.GET("/me", protect, h.Companies.Mine)
			company.GET("", h.Companies.List)
			company.GET("/:id", h.Companies.Get)
			company.POST("", protect, employerOrAdmin, h.Companies.Create)
			company.PUT("/:id", protect, employerOrAdmin, h.Companies.Update)
		}

		candidateGroup := api.Group("/candidate", protect, candidate)
		{
			candidateGroup.GET("/profile", h.Candidate.Profile)
			candidateGroup.PUT("/profile", h.Candidate.UpdateProfile)
			candidateGroup.POST("/resume", h.Candidate.AddResume)
			candidateGroup.DELETE("/resume/:resumeId", h.Candidate.RemoveResume)
			candidateGroup.GET("/saved-jobs", h.Candidate.SavedJobs)
			candidateGroup.POST("/saved-jobs", h.Candidate.SaveJob)
			candidateGroup.DELETE("/saved-jobs/:jobId", h.Candidate.RemoveSavedJob)
		}

		employerGroup := api.Group("/employer", protect, employer)
		{
			employerGroup.GET("/candidates", h.Employer.SearchCandidates)
			employerGroup.GET("/candidates/:id", h.Employer.Candidate)
		}

		chat := api.Group("/chat", protect)
		{
			chat.GET("/conversations", h.Chat.Conversations)
			chat.POST("/conversations", h.Chat.Initiate)
			chat.GET("/:conversationId/messages", h.Chat.Messages)
			chat.POST("/messages", h.Chat.Send)
		}

		notifications := api.Group("/notifications", protect)
		{
			notifications.POST("/register-token", h.Notifications.RegisterToken)
			notifications.DELETE("/unregister-token", h.Notifications.UnregisterToken)
			notifications.GET("", h.Notifications.List)
			notifications.GET("/unread-count", h.Notifications.UnreadCount)
			notifications.PUT("/mark-read", h.Notifications.MarkManyRead)
			notifications.PUT("/mark-all-read", h.Notifications.MarkAllRead)
			notifications.PUT("/:id/read", h.Notifications.MarkRead)
			notifications.DELETE("/clear-all", h.Notifications.Clear)
			notifications.DELETE("/:id", h.Notifications.Delete)
		}

		users := api.Group("/users", protect, admin)
		{
			users.GET("", h.Admin.Users)
			users.GET("/:id", h.Admin.User)
			users.PUT("/:id", h.Admin.UpdateUser)
			users.DELETE("/:id", h.Admin.DeleteUser)
		}

		api.GET("/reports/stats", protect, admin, h.Admin.Stats)

		content := api.Group("/content", protect, admin)
		{
			content.GET("", h.Admin.Content)
			content.PUT("", h.Admin.UpdateContent)
		}
	}

	return r
}
