package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"exam-battle-service/internal/app"
	"exam-battle-service/internal/config"
	"exam-battle-service/internal/infra/memory"
	mongoinfra "exam-battle-service/internal/infra/mongo"
	pginfra "exam-battle-service/internal/infra/postgres"
	redisinfra "exam-battle-service/internal/infra/redis"
	transport "exam-battle-service/internal/transport/http"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the battle server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	// Backends are picked by configured availability. An unreachable store is
	// treated the same as an unconfigured one, with a log line.
	var mongoDB *mongodrv.Database
	if cfg.Mongo.URI != "" {
		if cfg.Mongo.Database == "" {
			cfg.Mongo.Database = "exam_battle"
		}
		db, err := mongoinfra.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			log.Printf("mongo unavailable, falling back: %v", err)
		} else {
			mongoDB = db
		}
	}

	var redisClient *redis.Client
	if mongoDB == nil && cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var bank app.QuestionBank
	switch {
	case mongoDB != nil:
		bank = mongoinfra.NewQuestionBank(mongoDB)
	case pool != nil:
		bank = pginfra.NewQuestionBank(pool)
	default:
		bank = memory.NewQuestionBank(app.FallbackPool())
	}
	source := app.NewQuestionSource(bank)

	var rooms app.RoomRegistry
	switch {
	case mongoDB != nil:
		rooms = mongoinfra.NewRoomRegistry(mongoDB)
		log.Printf("room registry: mongo (%s)", cfg.Mongo.Database)
	case redisClient != nil:
		rooms = redisinfra.NewRoomRegistry(redisClient, config.TTLDuration(cfg.Redis.TTL, 2*time.Hour))
		log.Printf("room registry: redis (%s)", cfg.Redis.Addr)
	default:
		rooms = memory.NewRoomRegistry()
		log.Printf("room registry: in-memory")
	}

	service := app.NewBattleService(rooms, source)
	handler := transport.NewHandler(service)

	engine := gin.New()
	engine.Use(gin.Recovery())
	handler.Register(engine)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	var eg errgroup.Group
	eg.Go(func() error {
		log.Printf("starting battle service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-stop:
			log.Println("shutting down server...")
		case <-ctx.Done():
			log.Println("context canceled, shutting down server...")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
