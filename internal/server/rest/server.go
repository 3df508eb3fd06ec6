// Package rest exposes the Second Brain services over a JSON HTTP API.
package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/dmitrijs2005/secondbrain/internal/common"
	"github.com/dmitrijs2005/secondbrain/internal/logging"
	"github.com/dmitrijs2005/secondbrain/internal/server/config"
	"github.com/dmitrijs2005/secondbrain/internal/server/models"
	"github.com/dmitrijs2005/secondbrain/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	sloghttp "github.com/samber/slog-http"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second

	rateLimitCacheSize = 10000
	rateLimitTTL       = 10 * time.Minute
)

type UserService interface {
	Signup(ctx context.Context, userName, email, password string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Exists(ctx context.Context, userID string) (bool, error)
	Profile(ctx context.Context, userID string) (*services.Profile, error)
	UpdateProfile(ctx context.Context, userID string, ch services.ProfileChanges) (*models.User, error)
}

type ContentService interface {
	List(ctx context.Context, userID string, q services.ListQuery) ([]*models.Content, error)
	Get(ctx context.Context, userID, id string) (*models.Content, error)
	Create(ctx context.Context, userID string, in services.ContentInput) (*models.Content, error)
	Update(ctx context.Context, userID, id string, in services.ContentInput) (*models.Content, error)
	Delete(ctx context.Context, userID, id string) error
	Tags(ctx context.Context, userID string) ([]string, error)
}

type ShareService interface {
	Create(ctx context.Context, userID string, contentIDs []string, expiresInHours *float64) (*models.Share, error)
	Resolve(ctx context.Context, shareID string) (*models.SharedBrain, error)
}

type ExportService interface {
	Export(ctx context.Context, userID string) (*services.ExportResult, error)
}

// Pinger reports database liveness.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps bundles the collaborators the HTTP layer dispatches to.
type Deps struct {
	Users    UserService
	Contents ContentService
	Shares   ShareService
	Exports  ExportService
	DB       Pinger
}

type Server struct {
	address        string
	logger         logging.Logger
	deps           Deps
	jwtSecret      []byte
	publicBaseURL  string
	corsOrigins    []string
	trustedProxies []string
	rateInterval   time.Duration
	rateBurst      int
	handler        http.Handler
}

func NewServer(cfg *config.Config, l logging.Logger, deps Deps) *Server {
	s := &Server{
		address:        cfg.EndpointAddrHTTP,
		logger:         l.With("module", "rest_server"),
		deps:           deps,
		jwtSecret:      []byte(cfg.SecretKey),
		publicBaseURL:  cfg.PublicBaseURL,
		corsOrigins:    cfg.CORSOrigins,
		trustedProxies: cfg.TrustedProxies,
		rateInterval:   cfg.RateLimitInterval,
		rateBurst:      cfg.RateLimitBurst,
	}

	var h http.Handler = s.router()
	if sl, ok := l.(interface{ Slog() *slog.Logger }); ok {
		h = sloghttp.NewWithConfig(sl.Slog().With("module", "http"), sloghttp.Config{
			DefaultLevel:     slog.LevelInfo,
			ClientErrorLevel: slog.LevelWarn,
			ServerErrorLevel: slog.LevelError,
			WithRequestID:    true,
		})(h)
	}
	s.handler = h

	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(s.trustedProxies); err != nil {
		s.logger.Error(context.Background(), "invalid trusted proxies, forwarding headers ignored", "error", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(cors.New(s.corsConfig()))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", s.healthz)

	api := r.Group(common.APIPrefix)
	api.POST("/signup", s.signup)
	api.POST("/login", s.login)
	api.GET("/signin", s.signin)
	api.GET("/brain/:shareId", rateLimit(s.rateInterval, s.rateBurst, rateLimitCacheSize, rateLimitTTL), s.resolveShare)

	authed := api.Group("", s.authGuard())
	authed.GET("/content", s.listContents)
	authed.GET("/content/:id", s.getContent)
	authed.POST("/content", s.createContent)
	authed.PUT("/content/:id", s.updateContent)
	authed.DELETE("/content/:id", s.deleteContent)
	authed.POST("/brain/share", s.createShare)
	authed.GET("/tags", s.listTags)
	authed.GET("/user/profile", s.getProfile)
	authed.PUT("/user/profile", s.updateProfile)
	authed.POST("/export", s.export)

	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", common.AuthorizationHeaderName},
		ExposeHeaders: []string{"Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(s.corsOrigins) == 0 || slices.Contains(s.corsOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.corsOrigins
	}
	return cfg
}

func (s *Server) healthz(c *gin.Context) {
	if s.deps.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.DB.PingContext(ctx); err != nil {
			s.logger.Warn(ctx, "health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(sctx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdownErr
}
