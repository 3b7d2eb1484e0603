package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/sunsetmemories/backend/internal/handler"
	"github.com/sunsetmemories/backend/internal/middleware"
	"github.com/sunsetmemories/backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	memoirHandler *handler.MemoirHandler,
	collabHandler *handler.CollaborationHandler,
	communityHandler *handler.CommunityHandler,
	requestHandler *handler.ServiceRequestHandler,
	orderHandler *handler.PublishOrderHandler,
	mediaHandler *handler.MediaHandler,
	jwtManager *jwt.Manager,
	redisClient *redis.Client,
) {
	api := router.Group("/api/v1")
	authed := middleware.JWTAuth(jwtManager)

	// Authentication (no auth required)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/login/code", authHandler.LoginWithCode)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authed, authHandler.Me)

	// SMS code requests get a tight per-caller limit on top of the global one
	auth.POST("/code",
		middleware.RateLimitPerUser(redisClient, 3, "api:ratelimit:smscode:"),
		authHandler.SendCode)

	// Users
	users := api.Group("/users")
	users.GET("/:id", userHandler.GetProfile)
	users.PUT("/me", authed, userHandler.UpdateMe)

	// Memoirs and nested chapters (all private, auth required)
	memoirs := api.Group("/memoirs", authed)
	{
		memoirs.GET("", memoirHandler.ListMine)
		memoirs.GET("/shared", memoirHandler.ListShared)
		memoirs.POST("", memoirHandler.Create)
		memoirs.POST("/outline", memoirHandler.GenerateOutline)
		memoirs.GET("/:id", memoirHandler.Get)
		memoirs.PUT("/:id", memoirHandler.Update)
		memoirs.DELETE("/:id", memoirHandler.Delete)

		chapters := memoirs.Group("/:id/chapters")
		{
			chapters.POST("", memoirHandler.AddChapter)
			chapters.PUT("/reorder", memoirHandler.ReorderChapters)
			chapters.PUT("/:chapter_id", memoirHandler.UpdateChapter)
			chapters.DELETE("/:chapter_id", memoirHandler.DeleteChapter)
		}

		// Collaborator management, scoped to an owned memoir
		memoirs.GET("/:id/collaborations", collabHandler.ListForMemoir)
		memoirs.POST("/:id/collaborations", collabHandler.Invite)
	}

	// Invitations received by the caller
	collabs := api.Group("/collaborations", authed)
	{
		collabs.GET("", collabHandler.ListMine)
		collabs.PUT("/:id", collabHandler.Respond)
		collabs.PUT("/:id/role", collabHandler.UpdateRole)
		collabs.DELETE("/:id", collabHandler.Remove)
	}

	// Community (reads public, writes require auth)
	community := api.Group("/community")
	{
		community.GET("/memoirs", communityHandler.Feed)
		// Detail personalizes user_liked when a valid token is present
		community.GET("/memoirs/:id", middleware.OptionalJWTAuth(jwtManager), communityHandler.Detail)
		community.GET("/search", communityHandler.Search)
		community.GET("/memoirs/:id/comments", communityHandler.ListComments)

		community.POST("/memoirs/:id/comments", authed, communityHandler.AddComment)
		community.DELETE("/comments/:id", authed, communityHandler.DeleteComment)
		community.POST("/memoirs/:id/like", authed, communityHandler.Like)
		community.DELETE("/memoirs/:id/like", authed, communityHandler.Unlike)
	}

	// Service requests
	requests := api.Group("/service-requests", authed)
	{
		requests.POST("", requestHandler.Create)
		requests.GET("", requestHandler.ListMine)
		requests.GET("/:id", requestHandler.Get)
		requests.POST("/:id/cancel", requestHandler.Cancel)
	}

	// Publish orders
	orders := api.Group("/publish-orders", authed)
	{
		orders.POST("", orderHandler.Create)
		orders.GET("", orderHandler.ListMine)
		orders.GET("/:id", orderHandler.Get)
		orders.POST("/:id/cancel", orderHandler.Cancel)
	}

	// Media uploads and transcription
	media := api.Group("/media", authed)
	{
		media.POST("/recordings", mediaHandler.UploadRecording)
		media.GET("/recordings", mediaHandler.ListRecordings)
		media.GET("/recordings/:id", mediaHandler.GetRecording)
		media.DELETE("/recordings/:id", mediaHandler.DeleteRecording)
		media.POST("/recordings/:id/transcribe", mediaHandler.Transcribe)
	}
}
