package main

import (
	"context"
	"fmt"
	"os"
	"time"

	bidding "lot-bidding/internal/biddingService"
	"lot-bidding/internal/config"
	"lot-bidding/internal/events"
	"lot-bidding/internal/repository"
	"lot-bidding/internal/server"
	"lot-bidding/utils"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := utils.SetLevel(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	store, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		utils.Fatal("main: cannot open storage", map[string]any{"driver": cfg.StorageDriver, "error": err.Error()})
	}
	defer cleanup()

	publisher, closePublisher, err := openPublisher(cfg)
	if err != nil {
		utils.Fatal("main: cannot open event publisher", map[string]any{"driver": cfg.EventsDriver, "error": err.Error()})
	}
	defer closePublisher()

	schedule, err := cfg.Increment()
	if err != nil {
		utils.Fatal("main: invalid increment schedule", map[string]any{"error": err.Error()})
	}

	biddingSvc := bidding.NewBiddingService(repository.WithRetry(store, cfg.PersistRetries, cfg.PersistBackoff), publisher, bidding.Config{
		AllowSelfOutbid:  cfg.AllowSelfOutbid,
		DefaultIncrement: schedule,
		DefaultCurrency:  cfg.DefaultCurrency,
	})

	if cfg.StorageDriver == config.StorageMemory {
		prepopulateLots(ctx, biddingSvc)
	}

	router := server.SetupRouter(biddingSvc, server.HeaderAuthenticator{})

	utils.Info("main: starting auction server", map[string]any{
		"address": cfg.ServerAddress,
		"storage": cfg.StorageDriver,
		"events":  cfg.EventsDriver,
	})
	if err := router.Run(cfg.ServerAddress); err != nil {
		utils.Error("main: server stopped", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg config.Config) (repository.AuctionDB, func(), error) {
	if cfg.StorageDriver != config.StoragePostgres {
		return repository.NewMemoryRepo(), func() {}, nil
	}

	if err := repository.RunMigrations(cfg.MigrationURL, cfg.PostgresConn); err != nil {
		return nil, nil, err
	}
	utils.Info("main: db migrated successfully", map[string]any{"migration_url": cfg.MigrationURL})

	pool, err := repository.NewPool(ctx, cfg.PostgresConn)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewPostgresRepo(pool), pool.Close, nil
}

func openPublisher(cfg config.Config) (events.Publisher, func(), error) {
	if cfg.EventsDriver != config.EventsAMQP {
		return events.NewLogPublisher(), func() {}, nil
	}

	codec, err := events.NewCodec(cfg.EventEncoding)
	if err != nil {
		return nil, nil, err
	}
	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, codec)
	if err != nil {
		return nil, nil, err
	}
	return publisher, publisher.Close, nil
}

// prepopulateLots registers a few open sample lots in the in-memory store
func prepopulateLots(ctx context.Context, svc *bidding.BiddingService) {
	now := time.Now().UTC()
	reserve := int64(250000)
	lots := []bidding.LotSpec{
		{LotID: "lot1", AuctionID: "auction1", Title: "Victorian writing desk", StartingBid: 50000},
		{LotID: "lot2", AuctionID: "auction1", Title: "Silver tea service", StartingBid: 100000, ReservePrice: &reserve},
		{LotID: "lot3", AuctionID: "auction1", Title: "Framed botanical prints", StartingBid: 15000},
	}

	for _, spec := range lots {
		spec.StartsAt = now
		if _, err := svc.CreateLot(ctx, spec); err != nil {
			utils.Warn("main: cannot create sample lot", map[string]any{"lot_id": spec.LotID, "error": err.Error()})
			continue
		}
		if _, err := svc.ActivateLot(ctx, spec.LotID, now); err != nil {
			utils.Warn("main: cannot open sample lot", map[string]any{"lot_id": spec.LotID, "error": err.Error()})
		}
	}
}
