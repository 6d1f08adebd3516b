package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/nekogravitycat/jsonapi-server/internal/api"
	"github.com/nekogravitycat/jsonapi-server/internal/auth"
	"github.com/nekogravitycat/jsonapi-server/internal/image"
	"github.com/nekogravitycat/jsonapi-server/internal/pkg/storage"
	"github.com/nekogravitycat/jsonapi-server/internal/post"
	"github.com/nekogravitycat/jsonapi-server/internal/tag"
	"github.com/nekogravitycat/jsonapi-server/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction    bool
	ProdOrigins     string
	DBPool          *pgxpool.Pool
	JWTSecret       string
	JWTTTL          time.Duration
	BcryptCost      int
	APIPrefix       string
	NotFoundMessage string
	RateLimitRPS    int
	RateLimitBurst  int
	StoragePath     string
	Logger          *zap.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	// Tag Module
	tagService := tag.NewService(tag.NewPgxRepository(cfg.DBPool))

	// Post Module
	postService := post.NewService(post.NewPgxRepository(cfg.DBPool))

	// User Module
	userService := user.NewService(user.NewPgxRepository(cfg.DBPool), passwordHasher, logger.Named("user"))

	// Image Module
	imageService := image.NewService(image.NewPgxRepository(cfg.DBPool), store, image.Config{}, logger.Named("image"))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router, err := api.NewRouter(api.Config{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.ProdOrigins,
		APIPrefix:       cfg.APIPrefix,
		NotFoundMessage: cfg.NotFoundMessage,
		RateLimitRPS:    cfg.RateLimitRPS,
		RateLimitBurst:  cfg.RateLimitBurst,
		Logger:          logger,
		Registry:        registry,
		TagService:      tagService,
		PostService:     postService,
		UserService:     userService,
		ImageService:    imageService,
		JWTManager:      jwtManager,
	})
	if err != nil {
		return nil, err
	}

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}, nil
}
