package router

import (
	"github.com/gin-gonic/gin"
	"github.com/play-builder/layer-x-forum/internal/handlers"
	"github.com/play-builder/layer-x-forum/internal/middleware"
	"github.com/play-builder/layer-x-forum/internal/storage"
)

// Register wires the API route table. LoadUser runs on every request so
// public reads can still annotate the viewer's votes.
func Register(r *gin.Engine, store storage.BlobStore) {
	r.Use(middleware.LoadUser())

	authHandler := handlers.NewAuthHandler()
	forumHandler := handlers.NewForumHandler(store)
	postHandler := handlers.NewPostHandler()
	commentHandler := handlers.NewCommentHandler()
	voteHandler := handlers.NewVoteHandler()
	userHandler := handlers.NewUserHandler()

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/verify-email", authHandler.VerifyEmail)
		auth.POST("/resend-verification", authHandler.ResendVerification)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)

		auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
		auth.POST("/change-password", middleware.AuthRequired(), authHandler.ChangePassword)
	}

	forums := api.Group("/forums")
	{
		forums.GET("", forumHandler.List)
		forums.GET("/top", forumHandler.Top)
		forums.GET("/:name", forumHandler.Get)

		forums.POST("", middleware.AuthRequired(), forumHandler.Create)
		forums.POST("/:name/upload", middleware.AuthRequired(), forumHandler.Upload)
	}

	posts := api.Group("/posts")
	{
		posts.GET("", postHandler.List)
		posts.GET("/:identifier/:slug", postHandler.Get)
		posts.GET("/:identifier/:slug/comments", postHandler.ListComments)

		posts.POST("", middleware.AuthRequired(), postHandler.Create)
		posts.PUT("/:identifier/:slug", middleware.AuthRequired(), postHandler.Update)
		posts.DELETE("/:identifier/:slug", middleware.AuthRequired(), postHandler.Delete)
		posts.POST("/:identifier/:slug/comments", middleware.AuthRequired(), postHandler.CreateComment)
	}

	comments := api.Group("/comments")
	{
		comments.GET("/:identifier", commentHandler.Get)
		comments.PUT("/:identifier", middleware.AuthRequired(), commentHandler.Update)
		comments.DELETE("/:identifier", middleware.AuthRequired(), commentHandler.Delete)
	}

	api.POST("/votes", middleware.AuthRequired(), voteHandler.Cast)
	api.GET("/users/:username", userHandler.Profile)
}
