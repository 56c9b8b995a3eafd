package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"

	"github.com/MatsalakO/social-meda-api/config"
	"github.com/MatsalakO/social-meda-api/controllers"
	"github.com/MatsalakO/social-meda-api/middleware"
	"github.com/MatsalakO/social-meda-api/services"
	"github.com/MatsalakO/social-meda-api/store"
	"github.com/MatsalakO/social-meda-api/storage"
	"github.com/MatsalakO/social-meda-api/utils"
)

// Deps are the collaborators the router hands to controllers. Images and
// Cache may be nil; uploads and caching are then disabled.
type Deps struct {
	Store     store.Store
	Images    storage.ImageStore
	Cache     utils.Cache
	Blacklist *utils.TokenBlacklist
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, deps Deps) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file, leveled like the app log
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(ginzap.Ginzap(gl, time.RFC3339, true))
		r.Use(ginzap.RecoveryWithZap(gl, false))
	} else {
		utils.Sugar.Warnf("gin logger init failed, falling back to default recovery: %v", err)
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		// wildcard origins cannot be combined with credentials
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	if cfg.StorageDriver == "local" && cfg.StorageDir != "" {
		r.Static(cfg.StorageURLPrefix, cfg.StorageDir)
	}

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	logger := utils.Logger
	accounts := services.NewAccountService(deps.Store, logger)
	social := services.NewSocialService(deps.Store, logger)
	query := services.NewQueryService(deps.Store)
	profiles := services.NewProfileService(deps.Store, deps.Images, logger)
	posts := services.NewPostService(deps.Store, deps.Images, logger)

	blacklist := deps.Blacklist
	if blacklist == nil {
		blacklist = utils.NewTokenBlacklist(nil)
	}
	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour

	authController := controllers.NewAuthController(accounts, cfg.JWTSecret, ttl, blacklist)
	profileController := controllers.NewProfileController(profiles, social, query, deps.Cache)
	postController := controllers.NewPostController(posts, social, query, deps.Cache)

	authRequired := middleware.AuthRequired(cfg.JWTSecret, blacklist)
	rateLimit := middleware.RateLimitMiddleware(cfg.RateLimitPerMinute)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(rateLimit)
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", authRequired, authController.Logout)
	authGroup.GET("/me", authRequired, authController.Me)

	protected := api.Group("")
	protected.Use(authRequired, rateLimit)

	profilesGroup := protected.Group("/profiles")
	profilesGroup.GET("", profileController.ListProfiles)
	profilesGroup.POST("", profileController.CreateProfile)
	profilesGroup.GET("/:id", profileController.GetProfile)
	profilesGroup.PUT("/:id", profileController.UpdateProfile)
	profilesGroup.PATCH("/:id", profileController.UpdateProfile)
	profilesGroup.DELETE("/:id", profileController.DeleteProfile)
	profilesGroup.POST("/:id/upload-image", profileController.UploadImage)
	profilesGroup.POST("/:id/follow", profileController.Follow)
	profilesGroup.POST("/:id/unfollow", profileController.Unfollow)
	profilesGroup.GET("/:id/all-likes", profileController.AllLikes)

	postsGroup := protected.Group("/posts")
	postsGroup.GET("", postController.ListPosts)
	postsGroup.POST("", postController.CreatePost)
	postsGroup.GET("/:id", postController.GetPost)
	postsGroup.PUT("/:id", postController.UpdatePost)
	postsGroup.PATCH("/:id", postController.UpdatePost)
	postsGroup.DELETE("/:id", postController.DeletePost)
	postsGroup.POST("/:id/upload-image", postController.UploadImage)
	postsGroup.POST("/:id/like", postController.Like)
	postsGroup.POST("/:id/unlike", postController.Unlike)
	postsGroup.POST("/:id/add-comment", postController.AddComment)
	postsGroup.GET("/:id/comments", postController.ListComments)
	postsGroup.GET("/:id/likes", postController.ListLikes)
	postsGroup.GET("/:id/comments/:commentId", postController.GetComment)
	postsGroup.PUT("/:id/comments/:commentId", postController.EditComment)
	postsGroup.PATCH("/:id/comments/:commentId", postController.EditComment)
	postsGroup.DELETE("/:id/comments/:commentId", postController.DeleteComment)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
	})

	return r
}
