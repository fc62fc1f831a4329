// Package bootstrap builds the application graph from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	appControllers "github.com/campusbeacon/api/internal/app/controllers"
	appMigrations "github.com/campusbeacon/api/internal/app/migrations"
	appRepos "github.com/campusbeacon/api/internal/app/repositories"
	appRoutes "github.com/campusbeacon/api/internal/app/routes"
	appServices "github.com/campusbeacon/api/internal/app/services"
	"github.com/campusbeacon/api/internal/config"
	"github.com/campusbeacon/api/internal/db"
	appMiddleware "github.com/campusbeacon/api/internal/middleware"
	pkgAuth "github.com/campusbeacon/api/internal/pkg/auth"
	"github.com/campusbeacon/api/internal/pkg/cache"
	"github.com/campusbeacon/api/internal/pkg/filestorage"
	"github.com/campusbeacon/api/internal/pkg/helpers"
	"github.com/campusbeacon/api/internal/pkg/logger"
	"github.com/campusbeacon/api/internal/pkg/metrics"
	"github.com/campusbeacon/api/internal/pkg/validation"
	"github.com/campusbeacon/api/internal/pkg/websocket"
	"github.com/campusbeacon/api/internal/seed"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos       *appRepos.Repositories
	JWTService  *pkgAuth.JWTService
	FileStorage *filestorage.LocalStorage
	Metrics     *metrics.Metrics
	Cache       cache.Cache

	// Chat fan-out. Relay is nil when redis is disabled.
	Hub   *websocket.Hub
	Relay *websocket.RedisRelay

	AuthService        *appServices.AuthService
	UserService        *appServices.UserService
	LostFoundService   *appServices.LostFoundService
	MarketplaceService *appServices.MarketplaceService
	RideService        *appServices.RideService
	AttendanceService  *appServices.AttendanceService
	HostelService      *appServices.HostelService
	ResourceService    *appServices.ResourceService
	ChatService        *appServices.ChatService

	Handlers       appRoutes.Handlers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.EqualFold(cfg.Logging.Format, "text"),
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database, nil
}

// RunMigrations applies the embedded SQL migrations.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	applied, err := appMigrations.NewMigrator(pool, lgr).Migrate(ctx, appMigrations.Files())
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")
	return nil
}

// SeedDefaults inserts the default admin, subjects, hostels and chat room.
func SeedDefaults(ctx context.Context, pool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	repos := appRepos.NewRepositories(pool)
	stores := seed.Stores{
		Users:    repos.UserRepository,
		Subjects: repos.AttendanceRepository,
		Hostels:  repos.HostelRepository,
		Rooms:    repos.ChatRepository,
	}
	admin := seed.Admin{Email: cfg.Seed.AdminEmail, Password: cfg.Seed.AdminPassword}
	return seed.Run(ctx, stores, admin, logger.Component("seed"))
}

// SetupRedis connects to redis when it is enabled; it returns nil otherwise.
func SetupRedis(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*redis.Client, error) {
	if !cfg.Redis.Enabled {
		lgr.Info().Msg("Redis disabled; using in-process cache and chat fan-out")
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to redis")
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")
	return client, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
// redisClient may be nil.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, redisClient *redis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Metrics: metrics.New()}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := validation.RegisterCustomValidators(v); err != nil {
			return nil, fmt.Errorf("failed to register validators: %w", err)
		}
	}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(
		cfg.Server.StoragePath,
		cfg.Server.PublicURL,
		int64(cfg.Server.MaxUploadMB)<<20,
	)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	// Chat fan-out goes through redis when several instances share it
	deps.Hub = websocket.NewHub(logger.Component("chat-hub"), deps.Metrics)
	var publisher websocket.Publisher = deps.Hub
	deps.Cache = cache.NoopCache{}
	if redisClient != nil {
		deps.Relay = websocket.NewRedisRelay(redisClient, cfg.Chat.RedisChannel, deps.Hub, logger.Component("chat-relay"))
		publisher = deps.Relay
		deps.Cache = cache.NewRedisCache(redisClient, "campusbeacon", logger.Component("cache"))
	}

	repos := deps.Repos
	deps.AuthService = appServices.NewAuthService(repos.UserRepository, repos.TokenRepository, deps.JWTService, logger.Component("auth"))
	deps.UserService = appServices.NewUserService(repos.UserRepository, logger.Component("users"))
	deps.LostFoundService = appServices.NewLostFoundService(repos.LostItemRepository, deps.FileStorage, logger.Component("lost-found"))
	deps.MarketplaceService = appServices.NewMarketplaceService(repos.ItemRepository, deps.FileStorage, logger.Component("marketplace"))
	deps.RideService = appServices.NewRideService(
		repos.RideRepository,
		deps.Cache,
		helpers.ParseDuration(cfg.Redis.CacheTTL, 30*time.Second),
		deps.Metrics,
		logger.Component("rides"),
	)
	deps.AttendanceService = appServices.NewAttendanceService(repos.AttendanceRepository, repos.UserRepository, cfg.Attendance.DefaultGoal, logger.Component("attendance"))
	deps.HostelService = appServices.NewHostelService(repos.HostelRepository, repos.UserRepository, logger.Component("hostels"))
	deps.ResourceService = appServices.NewResourceService(repos.MaterialRepository, deps.FileStorage, logger.Component("resources"))
	deps.ChatService = appServices.NewChatService(repos.ChatRepository, publisher, logger.Component("chat"))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	socket := websocket.NewHandler(deps.Hub, deps.ChatService, func(c *gin.Context) (int64, bool) {
		p, ok := appMiddleware.CurrentPrincipal(c)
		return p.UserID, ok
	}, cfg.Origins(), logger.Component("chat-socket"))
	socket.SetInboundHandler(deps.ChatService.HandleInbound)

	deps.Handlers = appRoutes.Handlers{
		Auth: appControllers.NewAuthController(deps.AuthService, appControllers.CookieConfig{
			Domain: cfg.JWT.CookieDomain,
			Secure: cfg.JWT.CookieSecure,
		}, logger.Component("auth-http")),
		Users:       appControllers.NewUserController(deps.UserService),
		LostFound:   appControllers.NewLostFoundController(deps.LostFoundService),
		Marketplace: appControllers.NewMarketplaceController(deps.MarketplaceService),
		Rides:       appControllers.NewRideController(deps.RideService),
		Attendance:  appControllers.NewAttendanceController(deps.AttendanceService),
		Hostels:     appControllers.NewHostelController(deps.HostelService),
		Resources:   appControllers.NewResourceController(deps.ResourceService),
		Chat:        appControllers.NewChatController(deps.ChatService),
		ChatSocket:  socket.HandleConnection,
		Metrics:     deps.Metrics.Handler(),
		Database:    database,
	}

	return deps, nil
}

// corsConfig allows the configured origins with credentials so the token
// cookies travel; an empty list reflects any origin.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowOriginFunc = func(string) bool { return true }
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.MaxMultipartMemory = int64(cfg.Server.MaxUploadMB) << 20
	router.Use(
		appMiddleware.Recovery(lgr),
		appMiddleware.RequestLogger(logger.Component("http")),
		appMiddleware.Metrics(deps.Metrics),
		cors.New(corsConfig(cfg.Origins())),
	)

	router.Static(filestorage.PublicPrefix, deps.FileStorage.BasePath())
	lgr.Info().Str("path", deps.FileStorage.BasePath()).Msg("Static file serving configured for uploads directory")

	appRoutes.SetupRouter(router, deps.Handlers, deps.AuthMiddleware)
	return router
}
