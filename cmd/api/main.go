package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/recordar/contact-gateway/internal/config"
	"github.com/recordar/contact-gateway/internal/dispatch"
	"github.com/recordar/contact-gateway/internal/handlers"
	"github.com/recordar/contact-gateway/internal/providers"
	"github.com/recordar/contact-gateway/internal/repository"
	"github.com/recordar/contact-gateway/internal/services"
	xhttp "github.com/recordar/contact-gateway/pkg/http"
	"github.com/recordar/contact-gateway/pkg/logger"
	"github.com/recordar/contact-gateway/pkg/pg"
	"github.com/recordar/contact-gateway/pkg/prom"
	"github.com/recordar/contact-gateway/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	// transport (tcp for now)
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 30))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	pgDebug := false
	if config.Get().AppEnv == "dev" {
		pgDebug = true
	}
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	redisAdap, err := redis.NewRedisAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{config.Get().RedisAddr},
		ClientName: "default",
		DB:         config.Get().RedisDatabase,
		Username:   config.Get().RedisUsername,
		Password:   config.Get().RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	if config.Get().PromNamespace != "" {
		hostname, _ := os.Hostname()
		if err := prom.Create(hostname, config.Get().AppEnv, config.Get().PromNamespace); err != nil {
			logger.Error("failed creating metrics registry", "error", err)
			return
		}
		if err := dispatch.RegisterMetrics(); err != nil {
			logger.Error("failed registering dispatch metrics", "error", err)
			return
		}
		if addr := config.Get().AppDebugMetricsAddr; addr != "" {
			go prom.ListenAndServer(addr, config.Get().AppDebugMetricsURI)
		}
	}

	email, err := providers.NewEmailProvider(config.Get())
	if err != nil {
		logger.Error("failed creating email provider", "error", err)
		return
	}
	messaging, err := providers.NewMessagingProvider(config.Get())
	if err != nil {
		logger.Error("failed creating messaging provider", "error", err)
		return
	}

	contactRepo := repository.NewContactRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	commRepo := repository.NewCommunicationRepository(db)
	logRepo := repository.NewDeliveryLogRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	templateRepo := repository.NewTemplateRepository(db)

	resolver := dispatch.NewResolver(contactRepo, groupRepo)
	locker := dispatch.NewLocker(redisAdap, dispatch.DefaultLockTTL)
	engine := dispatch.NewEngine(commRepo, logRepo, resolver, email, messaging, locker, dispatch.Config{
		EmailEnabled:    config.Get().EmailEnabled,
		WhatsappEnabled: config.Get().WhatsappEnabled,
		Workers:         config.Get().DispatchWorkers,
		RateLimit:       config.Get().DispatchRateLimit,
		Timeout:         config.Get().DispatchTimeout,
	})

	var scheduler *dispatch.Scheduler
	if config.Get().SchedulerEnabled {
		scheduler = dispatch.NewScheduler(engine, commRepo, config.Get().SchedulerCheckInterval)
		if err := scheduler.Start(context.Background()); err != nil {
			logger.Error("failed starting scheduler", "error", err)
			return
		}
	}

	// services
	contactService := services.NewContactService(contactRepo)
	groupService := services.NewGroupService(groupRepo, contactRepo)
	communicationService := services.NewCommunicationService(commRepo, logRepo, engine, resolver)
	taskService := services.NewTaskService(taskRepo)
	templateService := services.NewTemplateService(templateRepo)
	healthService := services.NewHealthService(db)

	// v1 handlers
	contactHandler := handlers.NewContactHandler(contactService)
	groupHandler := handlers.NewGroupHandler(groupService)
	communicationHandler := handlers.NewCommunicationHandler(communicationService)
	taskHandler := handlers.NewTaskHandler(taskService)
	templateHandler := handlers.NewTemplateHandler(templateService)
	var healthHandler *handlers.HealthHandler
	if scheduler != nil {
		healthHandler = handlers.NewHealthHandler(healthService, scheduler)
	} else {
		healthHandler = handlers.NewHealthHandler(healthService, nil)
	}

	g := s.Router.Group("/api/v1")
	handlers.RegisterContactRoutes(g, contactHandler)
	handlers.RegisterGroupRoutes(g, groupHandler)
	handlers.RegisterCommunicationRoutes(g, communicationHandler)
	handlers.RegisterTaskRoutes(g, taskHandler)
	handlers.RegisterTemplateRoutes(g, templateHandler)
	handlers.RegisterHealthRoutes(g, healthHandler)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		var err = s.ListenAndServe(config.Get().HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	logger.Info("contact-gateway up", "version", version, "commit", commit, "built", date)

	<-c
	if scheduler != nil {
		if err := scheduler.Stop(); err != nil {
			logger.Error("failed stopping scheduler", "error", err)
		}
	}
	s.Shutdown()
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
