package main

import (
	"context"
	"log"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/choiby7/kickboard-rental-service/internal/notifications"
	"github.com/choiby7/kickboard-rental-service/internal/payments"
	"github.com/choiby7/kickboard-rental-service/internal/pricing"
	"github.com/choiby7/kickboard-rental-service/internal/promos"
	"github.com/choiby7/kickboard-rental-service/internal/rentals"
	"github.com/choiby7/kickboard-rental-service/internal/simulator"
	"github.com/choiby7/kickboard-rental-service/internal/users"
	"github.com/choiby7/kickboard-rental-service/internal/vehicles"
	"github.com/choiby7/kickboard-rental-service/pkg/common"
	"github.com/choiby7/kickboard-rental-service/pkg/config"
	"github.com/choiby7/kickboard-rental-service/pkg/database"
	"github.com/choiby7/kickboard-rental-service/pkg/eventbus"
	"github.com/choiby7/kickboard-rental-service/pkg/logger"
	"github.com/choiby7/kickboard-rental-service/pkg/middleware"
	redispkg "github.com/choiby7/kickboard-rental-service/pkg/redis"
)

func main() {
	cfg, err := config.Load("rental-engine")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	// Backing services are optional: the engine runs self-contained with
	// in-memory stores when they are not configured.
	var history rentals.HistoryRepository = rentals.NewMemoryRepository()
	if cfg.Database.Enabled {
		pool, err := database.NewPostgresPool(ctx, &cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to postgres: %v", err)
		}
		defer database.Close(pool)

		repo := rentals.NewPostgresRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare schema: %v", err)
		}
		history = repo
		logger.Info("connected to postgres")
	}

	var snapshots rentals.SnapshotStore = rentals.NoopSnapshotStore{}
	if cfg.Redis.Enabled {
		redisClient, err := redispkg.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		snapshots = rentals.NewRedisSnapshotStore(redisClient)
		logger.Info("connected to redis")
	}

	var notifier rentals.Notifier = notifications.LogPublisher{}
	if cfg.NATS.Enabled {
		bus, err := eventbus.Connect(cfg.NATS.URL)
		if err != nil {
			log.Fatalf("Failed to connect to nats: %v", err)
		}
		defer bus.Close()
		notifier = notifications.NewBusPublisher(bus)
		logger.Info("connected to nats")
	}

	vehicleRegistry := vehicles.NewRegistry()
	vehicleRegistry.SeedDefaultFleet()

	userStore := users.NewStore()
	seedUsers(userStore)

	promoService := promos.NewService(promos.DefaultCardTable, userStore)
	processor := payments.NewProcessor()
	bridge := simulator.NewBridge(&cfg.Simulator)
	strategies := []pricing.Strategy{
		pricing.NewTimeStrategy(cfg.Pricing.RatePerMinute),
		pricing.NewDistanceStrategy(cfg.Pricing.RatePerKm),
	}

	engine := rentals.NewService(
		vehicleRegistry, userStore, bridge, notifier, snapshots, history,
		promoService, processor, strategies, cfg.Rental.MinBatteryLevel,
	)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.CORSOrigins, ",")
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", middleware.CorrelationIDHeader}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(cfg.Server.ServiceName))
	router.Use(middleware.Recovery())

	// Connectivity was verified once at boot; the report reflects wiring,
	// not a live ping.
	checks := map[string]string{"postgres": "disabled", "redis": "disabled", "nats": "disabled"}
	if cfg.Database.Enabled {
		checks["postgres"] = "configured"
	}
	if cfg.Redis.Enabled {
		checks["redis"] = "configured"
	}
	if cfg.NATS.Enabled {
		checks["nats"] = "configured"
	}
	router.GET("/healthz", common.HealthCheck(cfg.Server.ServiceName, checks))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	rentals.NewHandler(engine).RegisterRoutes(api)
	vehicles.NewHandler(vehicleRegistry).RegisterRoutes(api)
	users.NewHandler(userStore).RegisterRoutes(api)

	addr := ":" + cfg.Server.Port
	logger.Info("rental engine listening on " + addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// seedUsers loads a demo rider so the engine is usable out of the box.
func seedUsers(store *users.Store) {
	store.Add(&users.User{
		ID:    "rider-001",
		Email: "rider001@example.com",
		Coupons: map[string]float64{
			"WELCOME5": 0.05,
		},
		Instruments: []*payments.Instrument{
			{Number: "1234-5678-9012-3456", CVC: "123", Alias: "Personal Card", Balance: 50000},
			{Number: "9876-5432-1098-7654", CVC: "456", Alias: "Spare Card", Balance: 1000},
		},
	})
}
