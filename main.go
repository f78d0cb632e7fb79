package main

import (
	"flag"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/finvault/dashboard-core/api"
	"github.com/finvault/dashboard-core/internal/backend"
	"github.com/finvault/dashboard-core/internal/budget"
	"github.com/finvault/dashboard-core/internal/cache"
	"github.com/finvault/dashboard-core/internal/config"
	"github.com/finvault/dashboard-core/internal/logging"
	"github.com/finvault/dashboard-core/internal/service"
	"github.com/finvault/dashboard-core/internal/session"
	"github.com/finvault/dashboard-core/internal/workflow"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	logger := logging.SetupLogging()
	logrus.Info("dashboard-core starting")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("config.Load")
		return
	}

	cacheStore, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		logrus.WithError(err).Fatal("cache.Open")
		return
	}
	defer func() { _ = cacheStore.Close() }()

	sessions := session.NewStore()
	client := backend.NewClient(cfg.Backend.BaseURL, sessions, time.Duration(cfg.Backend.TimeoutSeconds)*time.Second)

	budgetStore := budget.NewStore()

	pipeline := workflow.NewPipeline(client, budgetStore, logger, 2)
	pipeline.Start()
	defer pipeline.Stop()

	svc := service.NewService(service.Deps{
		Backend:  client,
		Budgets:  budgetStore,
		Sessions: sessions,
		Cache:    cacheStore,
		Pipeline: pipeline,
		Logger:   logger,
	})

	// start from the last known snapshot so budget checks work before the
	// first sync completes
	if err := svc.Budget.LoadCached(); err != nil {
		logger.WithError(err).Warn("cache.LoadBudgets")
	}

	wg := sync.WaitGroup{}
	wg.Add(1)

	go func() {
		httpRest := api.Rest{
			Logger:   logger,
			Port:     cfg.Gateway.Port,
			Service:  svc,
			Sessions: sessions,
		}
		httpRest.Serve()
	}()

	wg.Wait()
}
