package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	internalaws "github.com/bendito/catalog-api/internal/aws"
	"github.com/bendito/catalog-api/internal/catalog"
	"github.com/bendito/catalog-api/internal/handlers"
	"github.com/bendito/catalog-api/internal/orders"
	"github.com/bendito/catalog-api/internal/storage"
)

// Config is read from the environment. The AWS collaborators stay off unless
// a queue URL or metrics namespace is configured.
type Config struct {
	Addr                string `envconfig:"ADDR" default:":8080"`
	DBPath              string `envconfig:"DB_PATH" default:"bendito.db"`
	ReleaseMode         bool   `envconfig:"RELEASE_MODE"`
	OrderEventsQueueURL string `envconfig:"ORDER_EVENTS_QUEUE_URL"`
	MetricsNamespace    string `envconfig:"METRICS_NAMESPACE"`
}

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handlers.RequestID())
	r.Use(handlers.RequestLogger(cfg.Logger))

	handlers.RegisterRoutes(r, cfg)

	return r
}

func main() {
	log := logrus.New()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	catalogStore := catalog.NewStore(db)
	orderStore := orders.NewStore(db, catalogStore)

	hcfg := handlers.HandlerConfig{
		Catalog: catalogStore,
		Orders:  orderStore,
		Logger:  log,
	}

	if cfg.OrderEventsQueueURL != "" || cfg.MetricsNamespace != "" {
		clients, err := internalaws.NewClients(context.Background())
		if err != nil {
			log.Fatalf("failed to init aws clients: %v", err)
		}
		if cfg.OrderEventsQueueURL != "" {
			hcfg.Publisher = internalaws.NewPublisher(clients.SQS, cfg.OrderEventsQueueURL)
		}
		if cfg.MetricsNamespace != "" {
			hcfg.Metrics = internalaws.NewMetrics(clients.CloudWatch, cfg.MetricsNamespace)
		}
	}

	r := setupRouter(hcfg)

	log.WithFields(logrus.Fields{
		"addr":       cfg.Addr,
		"db_path":    cfg.DBPath,
		"build_mode": storage.BuildMode,
	}).Info("starting api server")
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
