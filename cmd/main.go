package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oksasatya/go-places-api/config"
	"github.com/oksasatya/go-places-api/internal/container"
	"github.com/oksasatya/go-places-api/internal/infrastructure/filestore"
	"github.com/oksasatya/go-places-api/internal/infrastructure/geocode"
	"github.com/oksasatya/go-places-api/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-places-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-places-api/internal/infrastructure/search"
	"github.com/oksasatya/go-places-api/internal/interface/middleware"
	"github.com/oksasatya/go-places-api/internal/router"
	"github.com/oksasatya/go-places-api/pkg/helpers"
	"github.com/oksasatya/go-places-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Entity store
	switch cfg.StoreDriver {
	case "memory":
		mem := memory.NewStore()
		container.SetStore(container.Store{Users: mem.Users(), Places: mem.Places(), Tx: mem})
		logger.Warn("using in-memory entity store; data is lost on restart")
	case "postgres":
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolConfig{
			MaxConns:    cfg.DBMaxConns,
			MinConns:    cfg.DBMinConns,
			MaxConnLife: cfg.DBMaxConnLife,
			AppName:     cfg.AppName,
		})
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()

		// Run migrations using database/sql with pgx stdlib
		if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("migration failed: %v", err)
		}
		container.SetStore(container.Store{
			Users:  pginfra.NewUserRepository(pool),
			Places: pginfra.NewPlaceRepository(pool),
			Tx:     pginfra.NewTransactor(pool),
		})
	default:
		log.Fatalf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	// Redis (sessions, rate limit, geocode cache). Empty REDIS_ADDR disables it.
	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		if err := helpers.RedisPing(ctx, rdb, 2*time.Second); err != nil {
			logger.WithError(err).Warn("redis not reachable at startup; sessions fail until it is")
		}
		container.SetRedis(rdb)
	}

	// Uploaded images
	files, closeFiles, err := filestore.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to init file store: %v", err)
	}
	defer func() { _ = closeFiles() }()
	container.SetFiles(files)

	// Geocoder with Redis cache
	geo := geocode.NewLocationIQ(cfg.GeocoderAPIKey, cfg.GeocoderURL, cfg.GeocodeTimeout)
	container.SetGeocoder(geocode.NewCached(geo, container.GetRedis(), cfg.GeocodeCacheTTL, logger))

	// Optional Elasticsearch place index
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			log.Fatalf("failed to init elasticsearch: %v", err)
		}
		ensureCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := search.NewPlaceIndex(es, cfg.ESPlacesIndex).EnsureIndex(ensureCtx); err != nil {
			logger.WithError(err).Warn("elasticsearch index not ready; search results may be empty")
		}
		cancel()
		container.SetES(es)
	}

	// Optional RabbitMQ job publisher
	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQJobsQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; background jobs disabled")
		} else {
			defer pub.Close()
			container.SetRabbitPub(pub)
		}
	}

	// JWT
	container.SetJWT(helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.AccessTTL))

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	// CORS
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}
	if cfg.FileDriver == "" || cfg.FileDriver == filestore.DriverLocal {
		r.Static("/"+cfg.UploadDir, cfg.UploadDir)
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()
	for _, rt := range reg.Routes() {
		logger.Debugf("route %s", rt)
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	// Open sql DB via pgx stdlib
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
