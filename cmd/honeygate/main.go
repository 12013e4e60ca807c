package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	appEvent "github.com/honeyguard/honeygate/pkg/app/event"
	"github.com/honeyguard/honeygate/pkg/cache"
	"github.com/honeyguard/honeygate/pkg/common"
	"github.com/honeyguard/honeygate/pkg/config"
	"github.com/honeyguard/honeygate/pkg/decoy"
	"github.com/honeyguard/honeygate/pkg/detect"
	alertDomain "github.com/honeyguard/honeygate/pkg/domain/alert"
	exportDomain "github.com/honeyguard/honeygate/pkg/domain/export"
	handlers "github.com/honeyguard/honeygate/pkg/handlers/http"
	wsHandlers "github.com/honeyguard/honeygate/pkg/handlers/websocket"
	"github.com/honeyguard/honeygate/pkg/i18n"
	infraAlert "github.com/honeyguard/honeygate/pkg/infra/alert"
	"github.com/honeyguard/honeygate/pkg/infra/alert/email"
	"github.com/honeyguard/honeygate/pkg/infra/alert/webhook"
	infraCache "github.com/honeyguard/honeygate/pkg/infra/cache"
	"github.com/honeyguard/honeygate/pkg/infra/cache/channel"
	cacheEvent "github.com/honeyguard/honeygate/pkg/infra/cache/event"
	"github.com/honeyguard/honeygate/pkg/infra/cache/subscriber"
	"github.com/honeyguard/honeygate/pkg/infra/database"
	infraExport "github.com/honeyguard/honeygate/pkg/infra/export"
	"github.com/honeyguard/honeygate/pkg/infra/export/kafka"
	"github.com/honeyguard/honeygate/pkg/infra/fingerprint"
	"github.com/honeyguard/honeygate/pkg/infra/jwt"
	infraLogger "github.com/honeyguard/honeygate/pkg/infra/logger"
	_ "github.com/honeyguard/honeygate/pkg/infra/migrations"
	"github.com/honeyguard/honeygate/pkg/infra/rendertoken"
	"github.com/honeyguard/honeygate/pkg/infra/repository"
	"github.com/honeyguard/honeygate/pkg/infra/stream"
	"github.com/honeyguard/honeygate/pkg/middleware"
	"github.com/honeyguard/honeygate/pkg/server"
	"github.com/honeyguard/honeygate/pkg/server/router"
	"github.com/joho/godotenv"
)

const (
	serverTypeTrap  = "trap"
	serverTypeAdmin = "admin"
	serverTypeToken = "token"

	alertWorkers = 4

	defaultTokenTTL = 24 * time.Hour
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverType := getServerType()
	envFile := os.Getenv("ENV_FILE")

	if envFile == "" {
		envFile = ".env"
	}
	err := godotenv.Load(envFile)
	if err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	// Load configuration
	if err := config.Load("../../config"); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	logger := infraLogger.NewLogger(serverType, cfg.Logging)

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	// The token command mints an operator token and exits; it never
	// touches the database or redis.
	if serverType == serverTypeToken {
		mintOperatorToken(cfg)
		return
	}

	// Initialize database
	db, err := database.NewDB(logger, &database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	cacheConfig := common.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
	}
	cacheInstance, err := cache.NewCache(cacheConfig)
	if err != nil {
		logger.Fatalf("Failed to initialize cache: %v", err)
	}

	initializeMemoryCache(cacheInstance)

	// locales
	bundle := i18n.Default()
	if err := bundle.SetFallback(cfg.Locales.Default); err != nil {
		logger.WithError(err).Warn("unknown default locale, keeping en")
	}
	if err := bundle.Register(); err != nil {
		logger.Fatalf("Failed to register locales: %v", err)
	}

	registry, err := decoy.NewRegistry(cfg.Decoys)
	if err != nil {
		logger.Fatalf("Failed to load decoy profiles: %v", err)
	}

	// repository
	trapEventRepository := repository.NewTrapEventRepository(db.DB)

	// detection
	tokens := rendertoken.NewManager(cfg.Server.SecretKey, cfg.Detection.RenderTokenMaxAge)
	chain := detect.NewChain(
		logger,
		detect.NewHoneypotDetector(),
		detect.NewTimingDetector(tokens, cfg.Detection),
		detect.NewUserAgentDetector(),
	)
	tracker := fingerprint.NewTracker(cacheInstance.Client(), cfg.Detection)

	// alerting
	channelLocator := infraAlert.NewChannelLocator(
		infraAlert.WithChannel(email.ChannelName, email.NewEmailChannel()),
		infraAlert.WithChannel(webhook.ChannelName, webhook.NewWebhookChannel()),
	)
	exporterLocator := infraExport.NewExporterLocator(
		infraExport.WithExporter(kafka.ExporterName, kafka.NewKafkaExporter()),
	)

	channels := make([]alertDomain.Channel, 0, len(cfg.Alerts.Channels))
	for _, channelCfg := range cfg.Alerts.Channels {
		ch, err := channelLocator.GetChannel(channelCfg)
		if err != nil {
			logger.Fatalf("Failed to configure alert channel %s: %v", channelCfg.Name, err)
		}
		channels = append(channels, ch)
	}

	exporters := make([]exportDomain.Exporter, 0, len(cfg.Exporters.Exporters))
	for _, exporterCfg := range cfg.Exporters.Exporters {
		exporter, err := exporterLocator.GetExporter(exporterCfg)
		if err != nil {
			logger.Fatalf("Failed to configure exporter %s: %v", exporterCfg.Name, err)
		}
		exporters = append(exporters, exporter)
	}

	dispatcher := infraAlert.NewDispatcher(logger, cfg.Alerts, channels, exporters)

	// redis publisher
	redisPublisher := infraCache.NewRedisEventPublisher(cacheInstance.Client())
	redisListener := infraCache.NewRedisEventListener(logger, cacheInstance.Client())

	hub := stream.NewHub(logger)

	// subscribers
	trapEventRecordedSubscriber := subscriber.NewTrapEventRecordedSubscriber(logger, hub, cacheInstance)
	infraCache.RegisterEventSubscriber[cacheEvent.TrapEventRecordedEvent](redisListener, trapEventRecordedSubscriber)

	// event services
	activity := appEvent.NewPathActivity(cacheInstance.GetTTLMap(cache.PathActivityTTLName))
	recorder := appEvent.NewRecorder(
		logger, trapEventRepository, chain, tracker, dispatcher, redisPublisher, activity, cfg.Detection,
	)
	csvExporter := appEvent.NewCSVExporter(logger, trapEventRepository)
	archiver := appEvent.NewArchiver(logger, trapEventRepository, cacheInstance)
	statsProvider := appEvent.NewStatsProvider(
		logger, trapEventRepository, cacheInstance, cacheInstance.GetTTLMap(cache.StatsTTLName), activity,
	)

	jwtManager := jwt.NewJwtManager(&cfg.Server)

	//middleware
	middlewareTransport := middleware.Transport{
		PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(logger),
		AuthMiddleware:         middleware.NewAdminAuthMiddleware(logger, jwtManager),
		CORSMiddleware:         middleware.NewCORSMiddleware(cfg.Server.AdminCORSOrigins),
		StreamMiddleware:       middleware.NewStreamMiddleware(cfg, logger),
		DecoyHeadersMiddleware: middleware.NewDecoyHeadersMiddleware(registry),
	}

	// Handler Transport
	handlerTransport := &handlers.HandlerTransportDTO{
		TrapPageHandler:      handlers.NewTrapPageHandler(logger, registry, bundle, tokens, recorder),
		TrapSubmitHandler:    handlers.NewTrapSubmitHandler(logger, registry, bundle, tokens, recorder),
		ListEventsHandler:    handlers.NewListEventsHandler(logger, trapEventRepository),
		GetEventHandler:      handlers.NewGetEventHandler(logger, trapEventRepository, cacheInstance),
		DeleteEventHandler:   handlers.NewDeleteEventHandler(logger, trapEventRepository, cacheInstance),
		ExportEventsHandler:  handlers.NewExportEventsHandler(logger, csvExporter),
		ArchiveEventsHandler: handlers.NewArchiveEventsHandler(logger, archiver),
		GetStatsHandler:      handlers.NewGetStatsHandler(logger, statsProvider),
		GetVersionHandler:    handlers.NewGetVersionHandler(logger),
	}

	wsHandlerTransport := &wsHandlers.HandlerTransportDTO{
		StreamHandler: wsHandlers.NewStreamHandler(cfg, logger, hub),
	}

	trapServerDI := server.TrapServerDI{
		Config: cfg,
		Logger: logger,
		Routers: []router.ServerRouter{
			router.NewTrapRouter(&middlewareTransport, handlerTransport, registry),
		},
	}

	adminServerDI := server.AdminServerDI{
		Config: cfg,
		Logger: logger,
		Routers: []router.ServerRouter{
			router.NewAdminRouter(&middlewareTransport, handlerTransport, wsHandlerTransport),
		},
	}

	// Only the trap role records events, so only it needs alert workers.
	// Admin replicas follow the trap's output over redis instead.
	if serverType == serverTypeTrap {
		dispatcher.StartWorkers(alertWorkers)
	}

	if serverType == serverTypeAdmin {
		go func() {
			fmt.Println("starting listening redis events...")
			redisListener.Listen(ctx, channel.TrapEventsChannel)
		}()
	}

	srv := initializeServer(trapServerDI, adminServerDI)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	fmt.Println("shutting down server...")
	if err := srv.Shutdown(); err != nil {
		fmt.Println("error shutting down server:", err)
		os.Exit(1)
	}
	cancel()
	if serverType == serverTypeTrap {
		dispatcher.Shutdown()
	}
	fmt.Println("server gracefully stopped")
}

func initializeMemoryCache(cacheInstance *cache.Cache) {
	// memoryCache
	_ = cacheInstance.CreateTTLMap(cache.StatsTTLName, common.StatsCacheTTL)
	_ = cacheInstance.CreateTTLMap(cache.PathActivityTTLName, common.ActivityCacheTTL)
}

// mintOperatorToken prints a signed admin API token. The optional second
// argument is the token lifetime, e.g. "720h"; the default is 24h.
func mintOperatorToken(cfg *config.Config) {
	ttl := defaultTokenTTL
	if len(os.Args) > 2 {
		parsed, err := time.ParseDuration(os.Args[2])
		if err != nil {
			log.Fatalf("invalid token ttl %q: %v", os.Args[2], err)
		}
		ttl = parsed
	}

	token, err := jwt.NewJwtManager(&cfg.Server).CreateToken(ttl)
	if err != nil {
		log.Fatalf("Failed to create token: %v", err)
	}
	fmt.Println(token)
}

func getServerType() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	return serverTypeTrap
}

func initializeServer(
	trapServerDi server.TrapServerDI,
	adminServerDi server.AdminServerDI,
) server.Server {
	serverType := getServerType()

	switch serverType {
	case serverTypeAdmin:
		return server.NewAdminServer(adminServerDi)
	default:
		return server.NewTrapServer(trapServerDi)
	}
}
