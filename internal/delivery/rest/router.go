package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the API routes.
func NewRouter(games *GameController, leaderboard *LeaderboardController, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(TraceIDMiddleware(), LoggerMiddleware(logger), RecoveryMiddleware(logger))

	r.NoRoute(func(c *gin.Context) {
		RespondError(c, http.StatusNotFound, "Route not found")
	})

	api := r.Group("/api")
	api.GET("/categories", games.ListCategoriesHandler)
	api.GET("/leaderboard", leaderboard.TopHandler)

	gamesGroup := api.Group("/games")
	gamesGroup.POST("", games.StartGameHandler)
	gamesGroup.GET("/:id", games.GetGameHandler)
	gamesGroup.DELETE("/:id", games.QuitHandler)
	gamesGroup.POST("/:id/answer", games.AnswerHandler)
	gamesGroup.POST("/:id/next", games.NextHandler)
	gamesGroup.POST("/:id/lifelines/:kind", games.LifelineHandler)

	return r
}

// Server runs the HTTP API until its context is cancelled.
type Server struct {
	srv             *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

func NewServer(addr string, handler http.Handler, shutdownTimeout time.Duration, logger *zap.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
	}
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server started", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}
