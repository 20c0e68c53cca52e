package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ikkim/wallhub-backend/config"
	"github.com/ikkim/wallhub-backend/internal/app/controller"
	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Controllers 라우터에 연결되는 컨트롤러 묶음
type Controllers struct {
	Auth       *controller.AuthController
	User       *controller.UserController
	Wallpaper  *controller.WallpaperController
	Tag        *controller.TagController
	Post       *controller.PostController
	Comment    *controller.CommentController
	Report     *controller.ReportController
	Admin      *controller.AdminController
	Upload     *controller.UploadController
	Moderation *controller.ModerationController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.IPRateLimiter
	config         *config.Config
}

// NewRouter rateLimiter가 nil이면 요청 제한 없음
func NewRouter(
	controllers Controllers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.IPRateLimiter,
	cfg *config.Config,
) *Router {
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		config:         cfg,
	}
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "Cache-Control", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			// credentials와 와일드카드는 함께 쓸 수 없어 요청 Origin을 그대로 허용
			cfg.AllowOriginFunc = func(string) bool { return true }
			return cfg
		}
	}
	cfg.AllowOrigins = allowedOrigins
	return cfg
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	if len(r.config.CORS.AllowedOrigins) > 0 {
		router.Use(cors.New(corsConfig(r.config.CORS.AllowedOrigins)))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "WallHub API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 로컬 스토리지일 때만 업로드 파일을 직접 서빙
	if r.config.Storage.Driver != "s3" {
		router.Static(r.config.Storage.BaseURL, r.config.Storage.LocalDir)
	}

	ctrl := r.controllers
	authn := r.authMiddleware.Authenticate()
	optional := r.authMiddleware.OptionalAuthenticate()

	v1 := router.Group("/api/v1")
	if r.rateLimiter != nil {
		v1.Use(middleware.RateLimitMiddleware(r.rateLimiter))
	}
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", ctrl.Auth.Register)
			auth.POST("/login", ctrl.Auth.Login)
			auth.POST("/refresh", ctrl.Auth.Refresh)
			auth.POST("/logout", authn, ctrl.Auth.Logout)
			auth.GET("/me", authn, ctrl.Auth.GetMe)
			auth.PUT("/me", authn, ctrl.Auth.UpdateMe)
		}

		users := v1.Group("/users")
		{
			me := users.Group("/me", authn)
			{
				me.GET("/likes", ctrl.User.GetMyLikes)
				me.GET("/favorites", ctrl.User.GetMyFavorites)
				me.GET("/liked-comments", ctrl.User.GetMyLikedComments)
				me.GET("/views", ctrl.User.GetMyViewHistory)
				me.DELETE("/views", ctrl.User.ClearMyViewHistory)
			}
			users.GET("/:id/wallpapers", ctrl.User.GetUserWallpapers)
			users.GET("/:id/posts", ctrl.User.GetUserPosts)
			users.GET("/:id/comments", ctrl.User.GetUserComments)
		}

		wallpapers := v1.Group("/wallpapers")
		{
			wallpapers.GET("", ctrl.Wallpaper.ListWallpapers)
			wallpapers.GET("/popular", ctrl.Wallpaper.GetPopularWallpapers)
			wallpapers.GET("/:id", optional, ctrl.Wallpaper.GetWallpaper)
			wallpapers.GET("/:id/tags", ctrl.Wallpaper.GetWallpaperTags)
			wallpapers.POST("/:id/view", optional, ctrl.Wallpaper.RecordView)

			wallpapers.POST("", authn, ctrl.Wallpaper.UploadWallpaper)
			wallpapers.PUT("/:id", authn, ctrl.Wallpaper.UpdateWallpaper)
			wallpapers.PUT("/:id/tags", authn, ctrl.Wallpaper.SetWallpaperTags)
			wallpapers.DELETE("/:id", authn, ctrl.Wallpaper.DeleteWallpaper)
			wallpapers.GET("/:id/state", authn, ctrl.Wallpaper.GetInteractionState)
			wallpapers.POST("/:id/like", authn, ctrl.Wallpaper.LikeWallpaper)
			wallpapers.DELETE("/:id/like", authn, ctrl.Wallpaper.UnlikeWallpaper)
			wallpapers.POST("/:id/favorite", authn, ctrl.Wallpaper.FavoriteWallpaper)
			wallpapers.DELETE("/:id/favorite", authn, ctrl.Wallpaper.UnfavoriteWallpaper)
		}

		tags := v1.Group("/tags")
		{
			tags.GET("", ctrl.Tag.ListTags)
			tags.GET("/popular", ctrl.Tag.GetPopularTags)
			tags.GET("/:id", ctrl.Tag.GetTag)
		}

		posts := v1.Group("/posts")
		{
			posts.GET("", ctrl.Post.ListPosts)
			posts.GET("/popular", ctrl.Post.GetPopularPosts)
			posts.GET("/latest", ctrl.Post.GetLatestPosts)
			posts.GET("/:id", optional, ctrl.Post.GetPost)
			posts.GET("/:id/comments", ctrl.Post.ListPostComments)
			posts.GET("/:id/comments/stats", ctrl.Post.GetCommentStats)

			posts.POST("", authn, ctrl.Post.CreatePost)
			posts.PUT("/:id", authn, ctrl.Post.UpdatePost)
			posts.DELETE("/:id", authn, ctrl.Post.DeletePost)
			posts.POST("/:id/like", authn, ctrl.Post.LikePost)
			posts.DELETE("/:id/like", authn, ctrl.Post.UnlikePost)
		}

		comments := v1.Group("/comments")
		{
			comments.GET("/latest", ctrl.Comment.GetLatestComments)
			comments.GET("/:id", optional, ctrl.Comment.GetComment)

			comments.POST("", authn, ctrl.Comment.CreateComment)
			comments.PUT("/:id", authn, ctrl.Comment.UpdateComment)
			comments.DELETE("/:id", authn, ctrl.Comment.DeleteComment)
			comments.POST("/:id/like", authn, ctrl.Comment.ToggleLike)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/reasons", ctrl.Report.GetReasons)
			reports.POST("", authn, ctrl.Report.CreateReport)
			reports.GET("/check", authn, ctrl.Report.CanReport)
			reports.GET("/me", authn, ctrl.Report.GetMyReports)
			reports.GET("/:id", authn, ctrl.Report.GetReport)
		}

		uploads := v1.Group("/uploads", authn)
		{
			uploads.POST("/presigned-url", ctrl.Upload.GeneratePresignedURL)
		}

		admin := v1.Group("/admin", authn, r.authMiddleware.RequireRole(model.RoleAdmin))
		{
			admin.GET("/dashboard/stats", ctrl.Admin.GetDashboardStats)
			admin.GET("/dashboard/activity", ctrl.Admin.GetRecentActivity)

			admin.GET("/users", ctrl.Admin.ListUsers)
			admin.POST("/users", ctrl.Admin.CreateUser)
			admin.GET("/users/:id", ctrl.Admin.GetUser)
			admin.PUT("/users/:id", ctrl.Admin.UpdateUser)
			admin.PATCH("/users/:id/status", ctrl.Admin.UpdateUserStatus)
			admin.DELETE("/users/:id", ctrl.Admin.DeleteUser)

			admin.GET("/wallpapers", ctrl.Admin.ListWallpapers)

			admin.POST("/tags", ctrl.Tag.CreateTag)
			admin.PUT("/tags/:id", ctrl.Tag.UpdateTag)
			admin.DELETE("/tags/:id", ctrl.Tag.DeleteTag)

			admin.GET("/reports", ctrl.Report.ListReports)
			admin.GET("/reports/stats", ctrl.Report.GetReportStats)
			admin.GET("/reports/export", ctrl.Report.ExportReports)
			admin.PATCH("/reports/:id", ctrl.Report.UpdateReportStatus)

			admin.GET("/ws", ctrl.Moderation.Feed)
		}
	}

	return router
}
