package app

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/wallhub-backend/config"
	"github.com/ikkim/wallhub-backend/internal/app/controller"
	"github.com/ikkim/wallhub-backend/internal/app/repository"
	"github.com/ikkim/wallhub-backend/internal/app/service"
	"github.com/ikkim/wallhub-backend/internal/middleware"
	"github.com/ikkim/wallhub-backend/internal/router"
	"github.com/ikkim/wallhub-backend/internal/scheduler"
	"github.com/ikkim/wallhub-backend/internal/storage"
	ws "github.com/ikkim/wallhub-backend/internal/websocket"
	"github.com/ikkim/wallhub-backend/pkg/redis"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Services 조립된 서비스 계층 (CLI와 테스트에서도 사용)
type Services struct {
	Auth        service.AuthService
	User        service.UserService
	Tag         service.TagService
	Wallpaper   service.WallpaperService
	Upload      service.UploadService
	Post        service.PostService
	Comment     service.CommentService
	Report      service.ReportService
	Dashboard   service.DashboardService
	ViewHistory service.ViewHistoryService
}

type App struct {
	Engine    *gin.Engine
	Services  Services
	Hub       *ws.Hub
	Scheduler *scheduler.CleanupScheduler
}

// NewServices store가 nil이면 토큰 블랙리스트와 조회수 중복 방지 없이 동작
func NewServices(cfg *config.Config, database *gorm.DB, fileStorage storage.FileStorage, store *redis.Store, notifier service.ModerationNotifier) Services {
	userRepo := repository.NewUserRepository(database)
	tagRepo := repository.NewTagRepository(database)
	wallpaperRepo := repository.NewWallpaperRepository(database)
	viewRepo := repository.NewViewHistoryRepository(database)
	postRepo := repository.NewPostRepository(database)
	commentRepo := repository.NewCommentRepository(database)
	reportRepo := repository.NewReportRepository(database)
	dashboardRepo := repository.NewDashboardRepository(database)

	// nil *redis.Store를 인터페이스에 담으면 nil 비교가 깨지므로 분기
	var blacklist service.TokenBlacklist
	var throttle service.ViewThrottle
	if store != nil {
		blacklist = store
		throttle = store
	}

	tagService := service.NewTagService(tagRepo)
	uploadService := service.NewUploadService(fileStorage, cfg.Upload.MaxFileSize, cfg.Upload.ThumbnailWidth)

	return Services{
		Auth:        service.NewAuthService(userRepo, blacklist, cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry),
		User:        service.NewUserService(userRepo),
		Tag:         tagService,
		Wallpaper:   service.NewWallpaperService(wallpaperRepo, viewRepo, tagService, uploadService, throttle, cfg.ViewHistory.ViewThrottle),
		Upload:      uploadService,
		Post:        service.NewPostService(postRepo),
		Comment:     service.NewCommentService(commentRepo, postRepo),
		Report:      service.NewReportService(reportRepo, notifier),
		Dashboard:   service.NewDashboardService(dashboardRepo, reportRepo),
		ViewHistory: service.NewViewHistoryService(viewRepo),
	}
}

// New 서비스, 컨트롤러, 라우터, 관리자 피드, 정리 스케줄러 조립
func New(cfg *config.Config, database *gorm.DB, fileStorage storage.FileStorage, store *redis.Store) *App {
	hub := ws.NewHub()
	services := NewServices(cfg, database, fileStorage, store, hub)

	var revoked middleware.TokenRevocationChecker
	if store != nil {
		revoked = store
	}
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, revoked)

	var limiter *middleware.IPRateLimiter
	var sweeper scheduler.IdleSweeper
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		sweeper = limiter
	}

	controllers := router.Controllers{
		Auth:       controller.NewAuthController(services.Auth),
		User:       controller.NewUserController(services.Wallpaper, services.Post, services.Comment, services.ViewHistory),
		Wallpaper:  controller.NewWallpaperController(services.Wallpaper, services.Tag),
		Tag:        controller.NewTagController(services.Tag),
		Post:       controller.NewPostController(services.Post, services.Comment),
		Comment:    controller.NewCommentController(services.Comment),
		Report:     controller.NewReportController(services.Report),
		Admin:      controller.NewAdminController(services.Dashboard, services.User, services.Wallpaper),
		Upload:     controller.NewUploadController(services.Upload),
		Moderation: controller.NewModerationController(hub, cfg.CORS.AllowedOrigins),
	}

	return &App{
		Engine:    router.NewRouter(controllers, authMiddleware, limiter, cfg).Setup(),
		Services:  services,
		Hub:       hub,
		Scheduler: scheduler.NewCleanupScheduler(services.ViewHistory, sweeper, cfg.ViewHistory.CleanupSpec, cfg.ViewHistory.RetentionDays),
	}
}
