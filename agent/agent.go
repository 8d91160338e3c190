package agent

import (
	"fmt"
	"sync"
	"time"

	"github.com/flowly-io/flowly/analytics"
	"github.com/flowly-io/flowly/cache"
	"github.com/flowly-io/flowly/config"
	"github.com/flowly-io/flowly/invoker"
	"github.com/flowly-io/flowly/logger"
	"github.com/flowly-io/flowly/metadata"
	"github.com/flowly-io/flowly/persistence/inmem"
	"github.com/flowly-io/flowly/persistence/redis"
	"github.com/flowly-io/flowly/rest"
	"github.com/flowly-io/flowly/service"
	"github.com/flowly-io/flowly/suggest"
)

type Agent struct {
	Config           config.Config
	metadataStorage  metadata.MetadataStorage
	executionArchive service.ExecutionArchive
	metadataService  metadata.MetadataService
	executionService *service.WorkflowExecutionService
	suggestServices  *suggest.Services
	httpServer       *rest.Server
	shutdown         bool
	shutdowns        chan struct{}
	shutdownLock     sync.Mutex
	wg               sync.WaitGroup
}

func New(config config.Config) (*Agent, error) {
	a := &Agent{
		Config:    config,
		shutdowns: make(chan struct{}),
	}
	setup := []func() error{
		a.setupAnalytics,
		a.setupStorage,
		a.setupMetadataService,
		a.setupExecutionService,
		a.setupSuggestServices,
		a.setupHttpServer,
	}
	for _, fn := range setup {
		if err := fn(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Agent) setupAnalytics() error {
	return analytics.InitDataCollector(a.Config.AnalyticsConfig)
}

func (a *Agent) setupStorage() error {
	switch a.Config.StorageType {
	case config.STORAGE_TYPE_REDIS:
		conf := redis.Config{
			Addrs:     a.Config.RedisConfig.Addrs,
			Namespace: a.Config.RedisConfig.Namespace,
			PoolSize:  a.Config.RedisConfig.PoolSize,
			Password:  a.Config.RedisConfig.Password,
			DB:        a.Config.RedisConfig.DB,
		}
		retention := time.Duration(a.Config.ExecutionRetentionDays) * 24 * time.Hour
		a.metadataStorage = redis.NewRedisMetadataStorage(conf)
		a.executionArchive = redis.NewRedisExecutionArchive(conf, retention)
	case config.STORAGE_TYPE_INMEM:
		a.metadataStorage = inmem.NewInMemMetadataStorage()
		a.executionArchive = inmem.NewInMemExecutionArchive()
	default:
		return fmt.Errorf("unsupported storage type %s", a.Config.StorageType)
	}
	return nil
}

func (a *Agent) setupMetadataService() error {
	ttl := time.Duration(a.Config.DefinitionCacheTtlSec) * time.Second
	a.metadataService = metadata.NewMetadataService(a.metadataStorage, cache.NewDefinitionCache(ttl))
	return nil
}

func (a *Agent) setupExecutionService() error {
	timeout := time.Duration(a.Config.InvokerConfig.TimeoutSec) * time.Second
	httpInvoker := invoker.NewHttpInvoker(a.metadataStorage, a.Config.InvokerConfig.BaseUrl, timeout)
	executionCache := cache.NewExecutionCache(time.Duration(a.Config.ExecutionCacheTtlSec) * time.Second)
	a.executionService = service.NewWorkflowExecutionService(a.metadataService, httpInvoker,
		a.executionArchive, executionCache, a.Config.ExecutorCapacity, &a.wg)
	return a.executionService.Start()
}

func (a *Agent) setupSuggestServices() error {
	if a.Config.AIConfig.ApiKey == "" {
		logger.Info("ai api key not configured, suggestion services disabled")
		return nil
	}
	provider, err := suggest.NewOpenAiProvider(a.Config.AIConfig.ApiKey, a.Config.AIConfig.BaseUrl, a.Config.AIConfig.Model)
	if err != nil {
		return err
	}
	a.suggestServices = suggest.NewServices(provider)
	return nil
}

func (a *Agent) setupHttpServer() error {
	var err error
	a.httpServer, err = rest.NewServer(a.Config.HttpPort, a.metadataService, a.executionService, a.suggestServices)
	if err != nil {
		return err
	}
	return nil
}

func (a *Agent) Start() error {
	go func() {
		if err := a.httpServer.Start(); err != nil {
			_ = a.Shutdown()
			panic(err)
		}
	}()
	return nil
}

func (a *Agent) Shutdown() error {
	logger.Info("shutting down server")
	a.shutdownLock.Lock()
	defer a.shutdownLock.Unlock()
	if a.shutdown {
		return nil
	}
	a.shutdown = true
	close(a.shutdowns)

	shutdown := []func() error{
		a.httpServer.Stop,
		a.executionService.Stop,
	}
	for _, fn := range shutdown {
		if err := fn(); err != nil {
			return err
		}
	}
	logger.Info("waiting for all services to shutdown...")
	a.wg.Wait()
	logger.Sync()
	return nil
}
