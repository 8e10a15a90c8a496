package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ticketd/internal/domain/ticket"
	"ticketd/internal/infrastructure/config"
	"ticketd/internal/infrastructure/pubsub"
	"ticketd/internal/shared/logger"
)

// The worker follows ticket transfer events on Redis and writes one audit log line
// per transfer.
func main() {
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env, os.Getenv("TICKETD_CONFIG"))
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger()
	log.Infow("starting ticket event worker", "environment", env)

	client := pubsub.NewRedisClient(cfg.Redis.GetAddr(), cfg.Redis.Password, cfg.Redis.DB)
	defer client.Close()

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Errorw("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	audit := log.Named("ticket.audit")
	bus := pubsub.NewRedisTicketEventBus(client, log)
	err = bus.Subscribe(ctx, func(_ context.Context, ev ticket.TicketTransferredEvent) {
		audit.Infow("ticket transferred",
			"ticket_key", ev.TicketKey,
			"order_id", ev.OrderID,
			"product_id", ev.ProductID,
			"previous_owner_id", ev.PreviousOwnerID,
			"new_owner_id", ev.NewOwnerID,
			"at", ev.Timestamp,
		)
	})
	if err != nil && ctx.Err() == nil {
		log.Errorw("ticket event worker failed", "error", err)
		os.Exit(1)
	}

	log.Infow("ticket event worker stopped")
}
