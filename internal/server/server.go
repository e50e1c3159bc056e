package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/meilisearch/meilisearch-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"anoa.com/qaforum/internal/config"
	"anoa.com/qaforum/internal/middleware"
	"anoa.com/qaforum/pkg/database"
	"anoa.com/qaforum/pkg/metrics"

	contentHttp "anoa.com/qaforum/internal/modules/content/delivery/http"
	contentRepo "anoa.com/qaforum/internal/modules/content/repository"
	contentService "anoa.com/qaforum/internal/modules/content/service"

	notifHttp "anoa.com/qaforum/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/qaforum/internal/modules/notification/repository"
	notifService "anoa.com/qaforum/internal/modules/notification/service"

	searchHttp "anoa.com/qaforum/internal/modules/search/delivery/http"
	searchService "anoa.com/qaforum/internal/modules/search/service"

	userHttp "anoa.com/qaforum/internal/modules/user/delivery/http"
	userRepo "anoa.com/qaforum/internal/modules/user/repository"
	userService "anoa.com/qaforum/internal/modules/user/service"

	voteHttp "anoa.com/qaforum/internal/modules/vote/delivery/http"
	voteRepo "anoa.com/qaforum/internal/modules/vote/repository"
	voteService "anoa.com/qaforum/internal/modules/vote/service"
)

type Server struct {
	engine *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// Deps are the already-connected backing services. RedisClient and MeiliClient may be nil.
type Deps struct {
	DB          *gorm.DB
	RedisClient *redis.Client
	MeiliClient meilisearch.ServiceManager
	Registry    *prometheus.Registry
	Clock       clockwork.Clock
	Logger      *zap.Logger
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	db, logger := deps.DB, deps.Logger

	contentRepository := contentRepo.NewRepository(db)

	indexer := searchService.NewIndexer(deps.MeiliClient, logger)
	searchHandler := searchHttp.NewSearchHandler(indexer, logger)

	// Notification Module
	notificationRepository := notifRepo.NewNotificationRepository(db)
	notificationSvc := notifService.NewNotificationService(
		notificationRepository,
		contentRepository,
		deps.Clock,
		metrics.NewNotificationMetrics(deps.Registry),
		logger,
	)
	notificationHandler := notifHttp.NewNotificationHandler(notificationSvc, logger)

	contentSvc := contentService.NewService(contentRepository, notificationSvc, indexer, logger)
	contentHandler := contentHttp.NewContentHandler(contentSvc, logger)

	// Vote Module
	voteRepository := voteRepo.NewVoteRepository(db)
	voteSvc := voteService.NewVoteService(
		voteRepository,
		contentRepository,
		deps.RedisClient,
		cfg.VoteTallyTTL,
		metrics.NewVoteMetrics(deps.Registry),
		logger,
	)
	voteHandler := voteHttp.NewVoteHandler(voteSvc, logger)

	userSvc := userService.NewUserService(userRepo.NewUserRepository(db))
	userHandler := userHttp.NewUserHandler(userSvc, logger)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))

	router.GET("/healthz", healthHandler(db))
	router.GET("/metrics", gin.WrapH(metrics.Handler(deps.Registry)))

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api")

	// Public reads
	api.GET("/posts/:slug", contentHandler.GetPost)
	api.GET("/questions/:slug", contentHandler.GetQuestion)
	api.GET("/tags", contentHandler.ListTags)
	api.GET("/search", searchHandler.Search)
	api.GET("/votes/tally/:target_kind/:target_id", voteHandler.GetTally)

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/posts", contentHandler.CreatePost)
		protected.POST("/posts/:slug/comments", contentHandler.AddComment)
		protected.POST("/questions", contentHandler.CreateQuestion)
		protected.POST("/questions/:slug/answers", contentHandler.AddAnswer)

		protected.POST("/votes", voteHandler.CastVote)
		protected.GET("/votes/mine", voteHandler.ReadMyVotes)

		protected.POST("/notifications", notificationHandler.Emit)
		protected.GET("/notifications", notificationHandler.List)
		protected.DELETE("/notifications", notificationHandler.Clear)

		protected.GET("/users/me", userHandler.GetMe)
		protected.PUT("/users/me/bio", userHandler.UpdateBio)
	}

	return &Server{
		engine: router,
		logger: logger,
		http: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run blocks until the server stops. http.ErrServerClosed after Shutdown is not an error.
func (s *Server) Run() error {
	s.logger.Info("http server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.Ping(ctx, db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
