package main

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/middleware"
	aqmtemplate "github.com/aquamarinepk/aqm/template"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/appetiteclub/storefront/pkg"
	"github.com/appetiteclub/storefront/services/storefront/internal/backend"
	"github.com/appetiteclub/storefront/services/storefront/internal/identity"
	"github.com/appetiteclub/storefront/services/storefront/internal/metrics"
	"github.com/appetiteclub/storefront/services/storefront/internal/mongo"
	"github.com/appetiteclub/storefront/services/storefront/internal/storefront"
)

//go:embed assets
var assetsFS embed.FS

const (
	appNamespace = "STOREFRONT"
	appName      = "storefront"
	appVersion   = "0.1.0"
)

func main() {
	config, err := aqm.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := aqm.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	tmplMgr := aqmtemplate.NewManager(assetsFS, aqmtemplate.WithLogger(logger))

	staticFS, err := fs.Sub(assetsFS, "assets/static")
	if err != nil {
		log.Fatalf("%s(%s) cannot open static assets: %v", appName, appVersion, err)
	}

	lifecycles := []interface{}{tmplMgr}

	// Credentials live in memory unless a shared store is configured.
	credentialTTL := durationOrDef(config, "credentials.ttl", 24*time.Hour, logger)
	var creds identity.CredentialStore
	if kind, _ := config.GetString("credentials.store"); kind == "redis" {
		redisAddr, _ := config.GetString("credentials.redis.addr")
		if redisAddr == "" {
			redisAddr = "localhost:6379"
		}
		redisStore := identity.NewRedisStore(redisAddr, appName, credentialTTL)
		creds = redisStore
		lifecycles = append(lifecycles, redisStore)
	} else {
		memStore := identity.NewMemoryStore(credentialTTL)
		creds = memStore
		lifecycles = append(lifecycles, memStore)
	}

	client, err := backend.NewClient(config, logger)
	if err != nil {
		log.Fatalf("%s(%s) cannot create backend client: %v", appName, appVersion, err)
	}

	jwtSecret, _ := config.GetString("auth.jwt.secret")
	gateOpts := []identity.GateOption{identity.WithClaimsReader(identity.NewClaimsReader(jwtSecret))}
	if strict, _ := config.GetString("auth.validate"); strict == "true" {
		gateOpts = append(gateOpts, identity.WithResolver(client))
	}
	gate := identity.NewGate(creds, logger, gateOpts...)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	storefrontMetrics := metrics.New(registry)

	sessions := storefront.NewSessionStore(durationOrDef(config, "auth.session.ttl", 8*time.Hour, logger))
	lifecycles = append(lifecycles, sessions)

	hd := storefront.HandlerDeps{
		Renderer:       storefront.NewTemplateRenderer(tmplMgr),
		Backend:        client,
		Gate:           gate,
		Sessions:       sessions,
		Metrics:        storefrontMetrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Static:         staticFS,
	}

	natsURL, _ := config.GetString("nats.url")
	if natsURL != "" {
		pub, err := pkg.NewNATSPublisher(natsURL, appName)
		if err != nil {
			log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
		}
		hd.Publisher = pub

		lifecycles = append(lifecycles, aqm.LifecycleHooks{
			OnStop: func(context.Context) error {
				return pub.Close()
			},
		})
	}

	if enabled, _ := config.GetString("receipts.enabled"); enabled == "true" {
		baseRepo := mongo.NewBaseRepo(config, logger)
		if err := baseRepo.Start(ctx); err != nil {
			log.Fatalf("%s(%s) cannot start base repository: %v", appName, appVersion, err)
		}

		db := baseRepo.GetDatabase()
		if db == nil {
			log.Fatalf("%s(%s) cannot initialize repository database: %v", appName, appVersion, errors.New("repository database is nil"))
		}
		hd.Receipts = mongo.NewReceiptRepo(db)

		lifecycles = append(lifecycles, aqm.LifecycleHooks{
			OnStop: baseRepo.Stop,
		})
	}

	handler := storefront.NewHandler(hd, config, logger)

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: true,
	})

	options := []aqm.Option{
		aqm.WithConfig(config),
		aqm.WithLogger(logger),
		aqm.WithHTTPMiddleware(stack...),
		aqm.WithHTTPServerModules("web.port", handler),
		aqm.WithLifecycle(lifecycles...),
		aqm.WithHealthChecks(appName),
		aqm.WithRouterConfigurator(func(mux *chi.Mux) {
			aqm.RedirectNotFound(mux, "/menu")
		}),
	}

	ms := aqm.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	if err := ms.Run(ctx); err != nil {
		log.Fatalf("%s(%s) stopped: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}

func durationOrDef(config *aqm.Config, key string, def time.Duration, logger aqm.Logger) time.Duration {
	raw, ok := config.GetString(key)
	if !ok || raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		logger.Info("invalid duration, using default", "key", key, "value", raw, "default", def.String())
		return def
	}
	return d
}
