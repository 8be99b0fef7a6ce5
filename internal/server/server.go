package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"anoa.com/kgscp/internal/config"
	"anoa.com/kgscp/internal/middleware"
	"anoa.com/kgscp/pkg/logger"
	"anoa.com/kgscp/pkg/ratelimiter"
	"anoa.com/kgscp/pkg/storage"

	attachmentHttp "anoa.com/kgscp/internal/modules/attachment/delivery/http"
	attachmentRepo "anoa.com/kgscp/internal/modules/attachment/repository"
	attachmentService "anoa.com/kgscp/internal/modules/attachment/service"

	commentHttp "anoa.com/kgscp/internal/modules/comment/delivery/http"
	commentRepo "anoa.com/kgscp/internal/modules/comment/repository"
	commentService "anoa.com/kgscp/internal/modules/comment/service"

	messageHttp "anoa.com/kgscp/internal/modules/message/delivery/http"
	messageRepo "anoa.com/kgscp/internal/modules/message/repository"
	messageService "anoa.com/kgscp/internal/modules/message/service"

	postHttp "anoa.com/kgscp/internal/modules/post/delivery/http"
	postRepo "anoa.com/kgscp/internal/modules/post/repository"
	postService "anoa.com/kgscp/internal/modules/post/service"

	profileHttp "anoa.com/kgscp/internal/modules/profile/delivery/http"
	profileRepo "anoa.com/kgscp/internal/modules/profile/repository"
	profileService "anoa.com/kgscp/internal/modules/profile/service"

	reactionHttp "anoa.com/kgscp/internal/modules/reaction/delivery/http"
	reactionRepo "anoa.com/kgscp/internal/modules/reaction/repository"
	reactionService "anoa.com/kgscp/internal/modules/reaction/service"

	searchService "anoa.com/kgscp/internal/modules/search/service"

	viewService "anoa.com/kgscp/internal/modules/view/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	engine        *gin.Engine
	db            *gorm.DB
	redisClient   *redis.Client
	cfg           *config.Config
	attachmentSvc attachmentService.AttachmentService
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	blobStore, err := storage.NewCloudinaryStore(cfg.CloudinaryCloudName)
	if err != nil {
		return nil, err
	}

	searchSvc := newSearchService(cfg)
	limiter := ratelimiter.New(redisClient)

	profileRepo := profileRepo.NewProfileRepository(db)
	profileSvc := profileService.NewProfileService(profileRepo)
	session := profileService.NewSessionCache(profileRepo, redisClient)

	postRepo := postRepo.NewPostRepository(db)
	commentRepo := commentRepo.NewCommentRepository(db)
	reactionRepo := reactionRepo.NewReactionRepository(db)
	messageRepo := messageRepo.NewMessageRepository(db)

	attachmentRepo := attachmentRepo.NewAttachmentRepository(db)
	attachmentSvc := attachmentService.NewAttachmentService(attachmentRepo, blobStore)
	attachmentHandler := attachmentHttp.NewAttachmentHandler(attachmentSvc)

	reactionSvc := reactionService.NewReactionService(reactionRepo, postRepo, redisClient)
	postSvc := postService.NewPostService(
		postRepo, attachmentRepo, attachmentSvc, profileRepo, blobStore, searchSvc, reactionSvc,
		limiter, cfg.RateLimitPost, cfg.PostImageBucket,
	)
	commentSvc := commentService.NewCommentService(commentRepo, postRepo, profileRepo, limiter, cfg.RateLimitComment)
	messageSvc := messageService.NewMessageService(messageRepo, profileRepo, limiter, cfg.RateLimitMessage)

	views := viewService.NewViewService(
		viewService.NewGuard(),
		postSvc, commentSvc, reactionSvc, attachmentSvc, profileSvc, session, messageSvc,
	)

	postHandler := postHttp.NewPostHandler(postSvc, views)
	commentHandler := commentHttp.NewCommentHandler(commentSvc, views)
	reactionHandler := reactionHttp.NewReactionHandler(reactionSvc, views)
	messageHandler := messageHttp.NewMessageHandler(messageSvc, views)
	profileHandler := profileHttp.NewProfileHandler(profileSvc, session, views)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(requestLogger())
	router.Use(middleware.NewIPRateLimiter(cfg.RequestsPerMinute).Middleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMiddleware := middleware.NewAuthMiddleware(session, cfg.JWTSecret)

	api := router.Group("/api")
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Profile routes
		protected.GET("/profile/me", profileHandler.GetCurrentProfile)
		protected.PUT("/profile", profileHandler.UpdateProfile)
		protected.POST("/profile/interests", profileHandler.AddInterest)
		protected.DELETE("/profile/interests/:interest", profileHandler.RemoveInterest)
		protected.GET("/profiles", profileHandler.Directory)
		protected.GET("/profiles/:id", profileHandler.GetProfileByID)
		protected.POST("/auth/signout", profileHandler.SignOut)

		// Board and post routes
		protected.GET("/boards", postHandler.GetBoard)
		protected.POST("/posts", postHandler.CreatePost)
		protected.GET("/posts/:post_id", postHandler.GetPostPage)
		protected.DELETE("/posts/:post_id", postHandler.DeletePost)
		protected.GET("/posts/:post_id/attachments", attachmentHandler.ListPostAttachments)
		protected.POST("/posts/:post_id/reactions", reactionHandler.ToggleReaction)
		protected.POST("/posts/:post_id/comments", commentHandler.CreateComment)
		protected.DELETE("/comments/:comment_id", commentHandler.DeleteComment)

		// Message routes
		protected.GET("/messages", messageHandler.GetInbox)
		protected.POST("/messages", messageHandler.SendRequest)
		protected.POST("/messages/:message_id/accept", messageHandler.Accept)
		protected.POST("/messages/:message_id/reject", messageHandler.Reject)
		protected.POST("/messages/:message_id/hold", messageHandler.Hold)
		protected.POST("/messages/chat/:partner_id", messageHandler.SendChat)
	}

	admin := protected.Group("/admin")
	admin.Use(authMiddleware.RequireAdmin())
	{
		admin.POST("/attachments/cleanup", attachmentHandler.CleanupOrphans)
	}

	return &Server{
		engine:        router,
		db:            db,
		redisClient:   redisClient,
		cfg:           cfg,
		attachmentSvc: attachmentSvc,
	}, nil
}

// Run starts the orphan cleanup job and serves HTTP until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go s.runOrphanCleanup(ctx)

	srv := &http.Server{
		Addr:    ":" + s.cfg.Port,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) runOrphanCleanup(ctx context.Context) {
	if s.cfg.OrphanCleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.OrphanCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logger.L.Info("running orphan attachment cleanup")
			if err := s.attachmentSvc.CleanupOrphanAttachments(ctx); err != nil {
				logger.L.Error("orphan attachment cleanup failed", zap.Error(err))
			}
		}
	}
}

func newSearchService(cfg *config.Config) searchService.SearchService {
	host := cfg.MeiliSearchHost
	if host == "" {
		logger.L.Info("MEILISEARCH_HOST not set, board search uses the database")
		return searchService.NewDisabledSearchService()
	}
	if !strings.HasPrefix(host, "http") {
		host = fmt.Sprintf("http://%s:7700", host)
	}

	client := meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	return searchService.NewMeiliSearchService(client)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.L.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
