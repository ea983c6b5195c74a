package container

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdugdh24/techmate-hunt/internal/config"
	"github.com/gdugdh24/techmate-hunt/internal/delivery/http"
	"github.com/gdugdh24/techmate-hunt/internal/delivery/http/handler"
	"github.com/gdugdh24/techmate-hunt/internal/delivery/http/middleware"
	"github.com/gdugdh24/techmate-hunt/internal/infrastructure/database"
	"github.com/gdugdh24/techmate-hunt/internal/infrastructure/events"
	"github.com/gdugdh24/techmate-hunt/internal/infrastructure/gemini"
	"github.com/gdugdh24/techmate-hunt/internal/infrastructure/scheduler"
	"github.com/gdugdh24/techmate-hunt/internal/infrastructure/server"
	"github.com/gdugdh24/techmate-hunt/internal/repository"
	"github.com/gdugdh24/techmate-hunt/internal/repository/memory"
	"github.com/gdugdh24/techmate-hunt/internal/repository/mongodb"
	"github.com/gdugdh24/techmate-hunt/internal/repository/postgres"
	redisrepo "github.com/gdugdh24/techmate-hunt/internal/repository/redis"
	"github.com/gdugdh24/techmate-hunt/internal/usecase/auth"
	"github.com/gdugdh24/techmate-hunt/internal/usecase/matchmaking"
	"github.com/gdugdh24/techmate-hunt/internal/usecase/participant"
	"github.com/gdugdh24/techmate-hunt/internal/usecase/question"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Log       *slog.Logger
	DB        *sqlx.DB
	Mongo     *mongo.Client
	Redis     *redis.Client
	Server    *server.Server
	Gemini    *gemini.GeminiClient
	Scheduler *scheduler.RedisScheduler
	Matches   *matchmaking.MatchUseCase
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}

	store, err := c.openStore(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}

	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}
	c.Redis = redisClient

	// Hints are optional; questions without any are rejected instead
	var hints question.HintGenerator
	geminiClient, err := gemini.NewGeminiClient(cfg.GeminiAPIKey)
	if err != nil {
		log.Warn("gemini client unavailable, hint generation disabled", "error", err)
	} else {
		c.Gemini = geminiClient
		hints = geminiClient
	}

	c.Scheduler = scheduler.NewRedisScheduler(redisClient, cfg.Scheduler.PollInterval, log)
	bus := events.NewRedisBus(redisClient, log)
	sessionRepo := redisrepo.NewSessionRepository(redisClient)

	// Initialize use cases
	matchUseCase := matchmaking.NewMatchUseCase(
		store,
		c.Scheduler,
		bus,
		matchmaking.Config{
			Delay:          cfg.Match.Delay,
			ByTechStack:    cfg.Match.ByTechStack,
			AssignLocation: cfg.Match.AssignLocation,
			MaxRetries:     cfg.Match.MaxRetries,
			Locations:      cfg.Match.Locations,
		},
		log,
	)
	c.Matches = matchUseCase

	participantUseCase := participant.NewParticipantUseCase(store, matchUseCase, log)
	questionUseCase := question.NewQuestionUseCase(store, hints, log)
	authUseCase := auth.NewAuthUseCase(
		store,
		sessionRepo,
		matchUseCase,
		cfg.JWT.AccessSecret,
		time.Duration(cfg.JWT.AccessExpiryMin)*time.Minute,
		cfg.AdminEmails,
		log,
	)

	if _, err := questionUseCase.Bootstrap(ctx); err != nil {
		c.Close()
		return nil, err
	}

	if err := http.RegisterValidators(); err != nil {
		c.Close()
		return nil, err
	}

	// Initialize router
	router := http.NewRouter(
		handler.NewAuthHandler(authUseCase),
		handler.NewMatchHandler(matchUseCase, participantUseCase),
		handler.NewAdminHandler(matchUseCase, participantUseCase, authUseCase),
		handler.NewQuestionHandler(questionUseCase),
		handler.NewEventsHandler(authUseCase, bus, cfg.Server.AllowedOrigins, log),
		middleware.NewAuthMiddleware(authUseCase),
	)

	c.Server = server.NewServer(&cfg.Server, router.Setup(), log)
	return c, nil
}

func (c *Container) openStore(ctx context.Context) (repository.Store, error) {
	switch c.Config.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgresDB(&c.Config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			return nil, err
		}
		return postgres.NewStore(db), nil

	case config.StoreDriverMongo:
		client, db, err := database.NewMongoClient(&c.Config.Mongo)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mongo: %w", err)
		}
		c.Mongo = client
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			return nil, err
		}
		return mongodb.NewStore(client, db), nil

	case config.StoreDriverMemory:
		c.Log.Warn("using in-memory store, data is lost on restart")
		return memory.NewStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", c.Config.StoreDriver)
}

// RunScheduler fires deferred matches until ctx is cancelled.
func (c *Container) RunScheduler(ctx context.Context) {
	c.Scheduler.Run(ctx, c.Matches.HandleDeferred)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Gemini != nil {
		c.Gemini.Close()
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Log.Error("error closing redis", "error", err)
		}
	}

	if c.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Mongo.Disconnect(ctx); err != nil {
			c.Log.Error("error closing mongo", "error", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
