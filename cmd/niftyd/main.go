package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/nifty-network/nifty-daemon/internal/config"
	"github.com/nifty-network/nifty-daemon/internal/core/application"
	"github.com/nifty-network/nifty-daemon/internal/core/ports"
	"github.com/nifty-network/nifty-daemon/internal/infrastructure/pubsub"
	registryinmemory "github.com/nifty-network/nifty-daemon/internal/infrastructure/registry/inmemory"
	dbbadger "github.com/nifty-network/nifty-daemon/internal/infrastructure/storage/db/badger"
	dbinmemory "github.com/nifty-network/nifty-daemon/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/nifty-network/nifty-daemon/internal/interfaces/http"
	"github.com/nifty-network/nifty-daemon/pkg/stats"
)

func main() {
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	operatorAddress := config.GetString(config.OperatorAddressKey)

	repoManager, dbDir, err := createRepoManager()
	if err != nil {
		log.WithError(err).Panic("error while opening database")
	}
	defer repoManager.Close()

	pubsubSvc, err := createPubSubService(dbDir)
	if err != nil {
		log.WithError(err).Panic("error while setting up pubsub service")
	}
	defer pubsubSvc.Close()

	registry := registryinmemory.NewRegistry(operatorAddress)

	marketplaceSvc := application.NewMarketplaceService(
		repoManager,
		registry,
		registry,
		pubsubSvc,
		operatorAddress,
		config.GetDuration(config.LockTimeoutKey),
	)

	opts := httpinterface.ServiceOpts{
		Port:               config.GetInt(config.ListeningPortKey),
		MarketplaceService: marketplaceSvc,
		PubSub:             pubsubSvc,
	}
	if config.GetBool(config.DevRegistryKey) {
		log.Warn(
			"running with the dev registry enabled, " +
				"tokens and balances are not persisted",
		)
		opts.DevRegistry = registry
	}

	httpSvc, err := httpinterface.NewService(opts)
	if err != nil {
		log.WithError(err).Panic("error while setting up http interface")
	}

	log.Debug("starting daemon")

	if interval := config.GetDuration(config.StatsIntervalKey); interval > 0 {
		statsCtx, stopStats := context.WithCancel(context.Background())
		defer stopStats()
		stats.EnableMemoryStatistics(statsCtx, interval)
	}

	go func() {
		if err := httpSvc.Start(); err != nil {
			log.WithError(err).Panic("error listening on http interface")
		}
	}()
	defer httpSvc.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Debug("exiting")
}

func createRepoManager() (ports.RepoManager, string, error) {
	if config.GetBool(config.NoPersistenceKey) {
		log.Warn("running with no persistence, data is lost on restart")
		return dbinmemory.NewRepoManager(), "", nil
	}

	datadir, err := config.GetDatadir()
	if err != nil {
		return nil, "", err
	}
	dbDir := filepath.Join(datadir, config.DbLocation)
	repoManager, err := dbbadger.NewRepoManager(dbDir, log.New())
	if err != nil {
		return nil, "", err
	}
	return repoManager, dbDir, nil
}

func createPubSubService(dbDir string) (ports.SecurePubSub, error) {
	var store pubsub.SubscriptionStore
	if len(dbDir) <= 0 {
		store = pubsub.NewInMemorySubscriptionStore()
	} else {
		var err error
		store, err = pubsub.NewBadgerSubscriptionStore(dbDir, log.New())
		if err != nil {
			return nil, err
		}
	}
	return pubsub.NewService(store)
}
