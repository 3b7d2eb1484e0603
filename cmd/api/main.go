package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	_ "github.com/sunsetmemories/backend/docs"
	"github.com/sunsetmemories/backend/internal/config"
	"github.com/sunsetmemories/backend/internal/handler"
	"github.com/sunsetmemories/backend/internal/middleware"
	"github.com/sunsetmemories/backend/internal/migration"
	"github.com/sunsetmemories/backend/internal/repository"
	"github.com/sunsetmemories/backend/internal/routes"
	"github.com/sunsetmemories/backend/internal/search"
	"github.com/sunsetmemories/backend/internal/service"
	"github.com/sunsetmemories/backend/internal/sms"
	pkgcache "github.com/sunsetmemories/backend/pkg/cache"
	"github.com/sunsetmemories/backend/pkg/jwt"
	pkglogger "github.com/sunsetmemories/backend/pkg/logger"
	pkgredis "github.com/sunsetmemories/backend/pkg/redis"
	pkgstorage "github.com/sunsetmemories/backend/pkg/storage"
)

// @title           Sunset Memories API
// @version         1.0
// @description     Memoir writing and publishing platform backend
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.GetLogger().Info().
		Str("env", env).
		Strs("env_files", dotenvFiles).
		Msg("starting")

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// MySQL
	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	pkglogger.GetLogger().Info().Msg("connected to MySQL")

	// Redis (optional; SMS login and caching degrade without it)
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("Redis unavailable, continuing without it")
		redisClient = nil
	} else {
		pkglogger.GetLogger().Info().Msg("connected to Redis")
	}

	var cacheService pkgcache.Service
	var codeStore *sms.CodeStore
	if redisClient != nil {
		cacheService = pkgcache.NewService(redisClient)
		codeStore = sms.NewCodeStore(redisClient)
	}

	// SMS sender
	var smsSender sms.Sender = sms.NewLogSender()
	if cfg.SMS.Provider == "aliyun" {
		aliyunSender, smsErr := sms.NewAliyunSender(sms.AliyunConfig{
			AccessKeyID:     cfg.SMS.AccessKeyID,
			AccessKeySecret: cfg.SMS.AccessKeySecret,
			SignName:        cfg.SMS.SignName,
			TemplateCode:    cfg.SMS.TemplateCode,
		})
		if smsErr != nil {
			log.Fatalf("Failed to init Aliyun SMS: %v", smsErr)
		}
		smsSender = aliyunSender
	}
	if cfg.SMS.DevCode != "" && env != "local" && env != "development" {
		log.Fatalf("SMS_DEV_CODE must not be set outside development")
	}

	// Elasticsearch (optional; search falls back to SQL LIKE)
	var memoirIndex *search.MemoirIndex
	if cfg.Elasticsearch.Enabled && len(cfg.Elasticsearch.Addresses) > 0 {
		memoirIndex, err = search.NewMemoirIndex(
			cfg.Elasticsearch.Addresses,
			cfg.Elasticsearch.Username,
			cfg.Elasticsearch.Password,
		)
		if err != nil {
			pkglogger.GetLogger().Warn().Err(err).Msg("Elasticsearch unavailable, continuing without it")
			memoirIndex = nil
		} else {
			pkglogger.GetLogger().Info().Msg("connected to Elasticsearch")
		}
	}

	// Object storage: S3-compatible when configured, local disk otherwise
	var store pkgstorage.ObjectStore
	if cfg.Storage.Enabled && cfg.Storage.Bucket != "" {
		s3Client, s3Err := pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if s3Err != nil {
			log.Fatalf("Failed to init S3 storage: %v", s3Err)
		}
		store = s3Client
		pkglogger.GetLogger().Info().Str("bucket", cfg.Storage.Bucket).Msg("using S3 storage")
	} else {
		localStore, localErr := pkgstorage.NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.LocalBaseURL)
		if localErr != nil {
			log.Fatalf("Failed to init local storage: %v", localErr)
		}
		store = localStore
		pkglogger.GetLogger().Info().Str("dir", cfg.Storage.LocalDir).Msg("using local storage")
	}

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.RefreshIn)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	memoirRepo := repository.NewMemoirRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	collabRepo := repository.NewCollaborationRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	requestRepo := repository.NewServiceRequestRepository(db)
	orderRepo := repository.NewPublishOrderRepository(db)
	recordingRepo := repository.NewRecordingRepository(db)

	// Services
	authSvc := service.NewAuthService(userRepo, jwtManager, codeStore, smsSender, redisClient, cfg.SMS.DevCode)
	userSvc := service.NewUserService(userRepo)
	memoirSvc := service.NewMemoirService(memoirRepo, chapterRepo, memoirIndex, cacheService)
	collabSvc := service.NewCollaborationService(collabRepo, memoirRepo, userRepo)
	communitySvc := service.NewCommunityService(memoirRepo, commentRepo, likeRepo, memoirIndex, cacheService)
	requestSvc := service.NewServiceRequestService(requestRepo, memoirRepo)
	orderSvc := service.NewPublishOrderService(orderRepo, memoirRepo)
	mediaSvc := service.NewMediaService(recordingRepo, store, cfg.Upload.MaxSizeBytes)
	transcriptionSvc := service.NewTranscriptionService(recordingRepo)

	// Handlers
	handler.RegisterValidators()
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	memoirHandler := handler.NewMemoirHandler(memoirSvc, transcriptionSvc)
	collabHandler := handler.NewCollaborationHandler(collabSvc)
	communityHandler := handler.NewCommunityHandler(communitySvc)
	requestHandler := handler.NewServiceRequestHandler(requestSvc)
	orderHandler := handler.NewPublishOrderHandler(orderSvc)
	mediaHandler := handler.NewMediaHandler(mediaSvc, transcriptionSvc)

	if env != "local" && env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     splitAndTrim(cfg.CORS.AllowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining"},
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	if redisClient != nil {
		rlCfg := middleware.DefaultRateLimitConfig()
		rlCfg.RequestsPerMinute = cfg.RateLimit.RequestsPerMinute
		router.Use(middleware.RateLimit(redisClient, rlCfg))
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "sunset-backend",
			"time":    time.Now().Unix(),
		})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Serve local uploads when not using S3
	if !cfg.Storage.Enabled {
		router.Static("/uploads", cfg.Storage.LocalDir)
	}

	routes.Setup(
		router,
		authHandler,
		userHandler,
		memoirHandler,
		collabHandler,
		communityHandler,
		requestHandler,
		orderHandler,
		mediaHandler,
		jwtManager,
		redisClient,
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	pkglogger.GetLogger().Info().Str("addr", addr).Msg("listening")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
