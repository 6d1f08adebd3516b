package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nekogravitycat/jsonapi-server/internal/auth"
	"github.com/nekogravitycat/jsonapi-server/internal/image"
	imageHttp "github.com/nekogravitycat/jsonapi-server/internal/image/http"
	"github.com/nekogravitycat/jsonapi-server/internal/jsonapi/routing"
	"github.com/nekogravitycat/jsonapi-server/internal/middleware"
	"github.com/nekogravitycat/jsonapi-server/internal/pkg/response"
	"github.com/nekogravitycat/jsonapi-server/internal/post"
	postHttp "github.com/nekogravitycat/jsonapi-server/internal/post/http"
	"github.com/nekogravitycat/jsonapi-server/internal/tag"
	tagHttp "github.com/nekogravitycat/jsonapi-server/internal/tag/http"
	"github.com/nekogravitycat/jsonapi-server/internal/user"
	userHttp "github.com/nekogravitycat/jsonapi-server/internal/user/http"
)

// Config holds the services and settings the router is assembled from.
type Config struct {
	IsProduction    bool
	ProdOrigins     string
	APIPrefix       string
	NotFoundMessage string
	RateLimitRPS    int
	RateLimitBurst  int

	// Logger and Registry default to a no-op logger and a fresh registry.
	Logger   *zap.Logger
	Registry *prometheus.Registry

	TagService   tag.Service
	PostService  post.Service
	UserService  user.Service
	ImageService image.Service
	JWTManager   *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Metrics) and
// registering the JSON:API resources.
func NewRouter(cfg Config) (*gin.Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	r := gin.New()

	// Global Middleware:
	// - Logging: assigns a request id and logs each request through zap.
	// - Recovery: captures panics and answers with a JSON:API 500 error.
	// - Metrics: counts requests per matched route.
	metrics := middleware.NewMetrics(registry)
	r.Use(middleware.Logging(logger), middleware.Recovery(logger), metrics.Handler())
	r.Use(cors.New(corsConfig(cfg)))

	r.NoRoute(response.NotFound(cfg.NotFoundMessage))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	controllers := routing.NewControllers()
	registrar := routing.NewRegistrar(r.Group(cfg.APIPrefix), controllers,
		routing.WithMiddlewareAliases(map[string]gin.HandlerFunc{
			"auth":     auth.AuthRequired(cfg.JWTManager),
			"throttle": limiter.Handler(),
		}),
		routing.WithServerMiddleware("throttle"),
		routing.WithLogger(logger),
	)
	server := routing.NewServer("api", registrar, logger)

	// Handlers build links from the server's route collection, which is
	// filled in by the flush below.
	links := server.Routes()
	controllers.
		Bind("tags", tagHttp.NewHandler(cfg.TagService, cfg.PostService, links)).
		Bind("posts", postHttp.NewHandler(cfg.PostService, cfg.TagService, cfg.UserService, links)).
		Bind("users", userHttp.NewHandler(cfg.UserService, cfg.JWTManager, links)).
		Bind("images", imageHttp.NewHandler(cfg.ImageService, links))

	routes, err := server.Resources(defineResources)
	if err != nil {
		return nil, fmt.Errorf("failed to register resources: %w", err)
	}

	counts := make(map[string]int)
	for _, route := range routes.All() {
		counts[route.ResourceType]++
	}
	for resourceType, n := range counts {
		metrics.SetRegisteredRoutes(resourceType, n)
	}

	return r, nil
}

func corsConfig(cfg Config) cors.Config {
	config := cors.DefaultConfig()
	if cfg.IsProduction {
		config.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		config.AllowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:8081", // Swagger
		}
	}
	config.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	config.AllowHeaders = []string{"Origin", "Accept", "Content-Type", "Authorization", middleware.RequestIDHeader}
	config.ExposeHeaders = []string{"Location", middleware.RequestIDHeader}
	config.MaxAge = 12 * time.Hour
	return config
}

func splitOrigins(origins string) []string {
	var out []string
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}
