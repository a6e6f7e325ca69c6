package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"coin-admin/internal/backend"
	common_api "coin-admin/internal/common/api"
	"coin-admin/internal/config"
	"coin-admin/internal/database"
	cron_feature "coin-admin/internal/features/cron"
	"coin-admin/internal/features/listing"
	"coin-admin/internal/features/screen"
	"coin-admin/internal/features/session"
	"coin-admin/internal/features/system"
	"coin-admin/internal/logger"
	"coin-admin/internal/middleware"
	"coin-admin/pkg/utils"

	_ "coin-admin/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance with the console
// middleware chain in front of every route.
func NewFiberServer(cfg *config.Config, sessions middleware.SessionLookup) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// Until rehydration completes every screen answers with the loading placeholder.
	app.Use(middleware.LoadingGate(sessions))

	app.Use(middleware.SessionMiddleware(sessions, cfg.SessionTTL, cfg.IsProduction()))

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one. The route guard fallback goes last.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for i, route := range routes {
		log.Printf("Setting up route %d: %T\n", i+1, route)
		route.Setup(app)
	}
	app.Use(middleware.NotFound())
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// RehydrateSessions loads persisted sessions in the background. The
// loading gate holds requests until it finishes.
func RehydrateSessions(lc fx.Lifecycle, store *session.Store, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := store.Rehydrate(ctx); err != nil {
					logger.Error("Failed to rehydrate sessions", zap.Error(err))
				}
			}()
			return nil
		},
	})
}

// storage selects where sessions (and, with Mongo, log entries) persist.
func storage(cfg *config.Config) fx.Option {
	noSink := func() logger.Sink { return nil }

	switch cfg.SessionStore {
	case "redis":
		return fx.Provide(database.NewRedis, session.NewRedisRepository, noSink)
	case "memory":
		return fx.Provide(session.NewMemoryRepository, noSink)
	default:
		return fx.Provide(
			database.NewDatabase,
			session.NewMongoRepository,
			logger.NewDBLogWriter,
			func(w *logger.DBLogWriter) logger.Sink { return w },
		)
	}
}

// @title           Coin Admin Console API
// @version         1.0
// @description     Session, route guard and screen proxy for the coin platform admin console.

// @host            localhost:8080
// @BasePath        /
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	utils.SetSecret(cfg.SessionSecret)

	app := fx.New(
		fx.Supply(cfg),
		storage(cfg),
		fx.Provide(
			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// REST backend
			backend.NewClient,

			session.NewStore,
			session.NewHub,
			func(cfg *config.Config) *listing.Registry { return listing.NewRegistry(cfg.ListIdleTTL) },

			session.NewSessionService,
			screen.NewScreenService,
			cron_feature.NewCronService,

			// Interface Adapters
			func(c *backend.Client) session.Authenticator { return c },
			func(c *backend.Client) screen.Backend { return c },
			func(s session.SessionService) screen.Sessions { return s },
			func(s *session.Store) middleware.SessionLookup { return s },
			func(s *session.Store) system.Readiness { return s },

			// Initialize Controller
			session.NewSessionController,
			screen.NewScreenController,
			cron_feature.NewCronController,

			// Initialize API Routes
			AsRoute(session.NewSessionApi),
			AsRoute(screen.NewScreenApi),
			AsRoute(cron_feature.NewCronApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			RehydrateSessions,
			func(lc fx.Lifecycle, cronService cron_feature.CronService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return cronService.InitializeScheduler(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return cronService.StopScheduler()
					},
				})
			},
		),
	)

	app.Run()
}
