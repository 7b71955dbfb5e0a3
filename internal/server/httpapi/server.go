// Package httpapi exposes the forum over HTTP with JSON bodies and
// cookie-carried sessions.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oakbb/oakboard/internal/logging"
	"github.com/oakbb/oakboard/internal/server/config"
	"github.com/oakbb/oakboard/internal/server/models"
	"github.com/oakbb/oakboard/internal/server/services"
)

type Server struct {
	engine   *gin.Engine
	config   *config.Config
	logger   logging.Logger
	accounts *services.AccountService
	sessions *services.SessionService
	forum    *services.ForumService
	unread   *services.UnreadService
}

func NewServer(cfg *config.Config, l logging.Logger, accounts *services.AccountService, sessions *services.SessionService, forum *services.ForumService, unread *services.UnreadService) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:   engine,
		config:   cfg,
		logger:   l.With("module", "http_server"),
		accounts: accounts,
		sessions: sessions,
		forum:    forum,
		unread:   unread,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.engine.Use(s.requestLogger())
	s.engine.Use(s.resolveSession())

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := s.engine.Group("/api")

	// Account and session endpoints.
	api.POST("/register", s.register)
	api.POST("/login", s.login)
	api.POST("/logout", s.logout)

	me := api.Group("", s.requireUser())
	{
		me.GET("/me", s.me)
		me.PUT("/profile", s.updateProfile)
		me.POST("/password", s.changePassword)
		me.GET("/unread", s.unreadCount)
	}

	// Public profile pages.
	api.GET("/users/:username", s.getUser)

	// User management, Administrator and up.
	manage := api.Group("/users", s.requireUser())
	{
		manage.PUT("/:username/role", s.changeRole)
		manage.POST("/:username/password-reset", s.resetPassword)
		manage.DELETE("/:username", s.deleteUser)
	}

	// Boards.
	api.GET("/boards", s.listBoards)
	api.GET("/boards/:id/threads", s.listThreads)

	admin := api.Group("/boards", s.requireRole(models.RoleAdministrator))
	{
		admin.POST("", s.createBoard)
		admin.POST("/reorder", s.reorderBoards)
		admin.PUT("/:id", s.updateBoard)
		admin.DELETE("/:id", s.deleteBoard)
	}

	// Threads and replies.
	api.GET("/threads/:id", s.viewThread)
	posting := api.Group("", s.requireUser())
	{
		posting.POST("/boards/:id/threads", s.createThread)
		posting.POST("/threads/:id/replies", s.createReply)
		posting.DELETE("/threads/:id", s.deleteThread)
		posting.DELETE("/replies/:id", s.deleteReply)
		posting.PUT("/threads/:id/follow", s.follow)
		posting.DELETE("/threads/:id/follow", s.unfollow)
	}
}

// Handler exposes the routing tree for tests and for embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.config.Addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.config.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
