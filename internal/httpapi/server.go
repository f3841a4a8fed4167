// Package httpapi exposes a read-only operations view of the bot over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jose-valero/pitchduel-bot/internal/app"
	"github.com/jose-valero/pitchduel-bot/internal/pvp"
	"github.com/jose-valero/pitchduel-bot/internal/shootout"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type MatchLister interface {
	List() []pvp.View
}

type ShootoutLister interface {
	List() []shootout.View
}

type ResultFeed interface {
	Recent() []app.Result
}

type Dependencies struct {
	DB        Pinger
	Matches   MatchLister
	Shootouts ShootoutLister
	Results   ResultFeed
	Logger    *zap.Logger
}

type Server struct {
	deps Dependencies
	log  *zap.Logger
}

func NewServer(deps Dependencies) *Server {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{deps: deps, log: log.Named("http")}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	r.GET("/healthz", s.health)
	v1 := r.Group("/v1")
	v1.GET("/matches", s.matches)
	v1.GET("/shootouts", s.shootouts)
	v1.GET("/results", s.results)
	return r
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)))
	}
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if s.deps.DB != nil {
		if err := s.deps.DB.Ping(ctx); err != nil {
			s.log.Warn("health check", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) matches(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"matches": s.deps.Matches.List()})
}

func (s *Server) shootouts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"shootouts": s.deps.Shootouts.List()})
}

func (s *Server) results(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"results": s.deps.Results.Recent()})
}
