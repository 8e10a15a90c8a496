// Package ticket exposes the ticket lifecycle on the command line.
package ticket

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	ticketApp "ticketd/internal/application/ticket"
	"ticketd/internal/application/ticket/usecases"
	"ticketd/internal/domain/event"
	"ticketd/internal/infrastructure/cache"
	"ticketd/internal/infrastructure/config"
	"ticketd/internal/infrastructure/database"
	"ticketd/internal/infrastructure/migration"
	"ticketd/internal/infrastructure/notification"
	"ticketd/internal/infrastructure/pubsub"
	"ticketd/internal/infrastructure/qrcode"
	"ticketd/internal/infrastructure/repository"
	sharedDB "ticketd/internal/shared/db"
	"ticketd/internal/shared/logger"
)

var (
	env         string
	configPath  string
	autoMigrate bool
	timeout     time.Duration
	output      string

	orderID    uint
	productID  uint
	customerID uint
	ticketKey  string
	uniqueCode string
	fromOwner  uint
	toOwner    uint
	status     string
	outFile    string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ticket",
		Short: "Issue, look up, transfer and render tickets",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.PersistentFlags().BoolVar(&autoMigrate, "auto-migrate", false, "Migrate the database before running the command")
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Deadline for the whole command")
	cmd.PersistentFlags().StringVarP(&output, "output", "o", formatTable, "Output format (table, json, yaml)")

	cmd.AddCommand(
		newIssueCommand(),
		newGetCommand(),
		newListCommand(),
		newStatusCommand(),
		newTransferCommand(),
		newDeleteByOrderCommand(),
		newQRCodeCommand(),
	)

	return cmd
}

func newIssueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue the tickets of a paid order",
		Long:  `Create one ticket per purchased unit of the order. Running it again for the same order issues nothing.`,
		RunE: withService(func(ctx context.Context, cmd *cobra.Command, svc *ticketApp.ServiceDDD) error {
			result, err := svc.IssueTickets(ctx, orderID)
			if err != nil {
				return err
			}
			if result.AlreadyIssued {
				fmt.Fprintf(cmd.ErrOrStderr(), "tickets for order %d were already issued\n", orderID)
				return nil
			}
			return render(cmd.OutOrStdout(), output, result.Tickets)
		}),
	}
	cmd.Flags().UintVar(&orderID, "order", 0, "Order ID")
	_ = cmd.MarkFlagRequired("order")
	return cmd
}

func newGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show a ticket by key, or by product and unique code",
		RunE: withService(func(ctx context.Context, cmd *cobra.Command, svc *ticketApp.ServiceDDD) error {
			if ticketKey != "" {
				t, err := svc.GetByKey(ctx, ticketKey)
				if err != nil {
					return err
				}
				return renderOne(cmd.OutOrStdout(), output, t)
			}
			t, err := svc.GetByProductAndCode(ctx, productID, uniqueCode)
			if err != nil {
				return err
			}
			return renderOne(cmd.OutOrStdout(), output, t)
		}),
	}
	cmd.Flags().StringVar(&ticketKey, "key", "", "Ticket key")
	cmd.Flags().UintVar(&productID, "product", 0, "Product ID")
	cmd.Flags().StringVar(&uniqueCode, "code", "", "Unique code")
	cmd.MarkFlagsMutuallyExclusive("key", "code")
	cmd.MarkFlagsRequiredTogether("product", "code")
	return cmd
}

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tickets by order, product, customer or status",
		RunE: withService(func(ctx context.Context, cmd *cobra.Command, svc *ticketApp.ServiceDDD) error {
			tickets, err := svc.List(ctx, usecases.ListTicketsQuery{
				OrderID:    orderID,
				ProductID:  productID,
				CustomerID: customerID,
				Status:     status,
			})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), output, tickets)
		}),
	}
	cmd.Flags().UintVar(&orderID, "order", 0, "Order ID")
	cmd.Flags().UintVar(&productID, "product", 0, "Product ID")
	cmd.Flags().UintVar(&customerID, "customer", 0, "Owning customer ID")
	cmd.Flags().StringVar(&status, "status", "", "Status (open, scanned, void)")
	return cmd
}

func newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Move a ticket to a later status",
		RunE: withService(func(ctx context.Context, cmd *cobra.Command, svc *ticketApp.ServiceDDD) error {
			result, err := svc.UpdateStatus(ctx, ticketKey, status)
			if err != nil {
				return err
			}
			if !result.Changed {
				fmt.Fprintf(cmd.ErrOrStderr(), "ticket %s already %s\n", ticketKey, result.OldStatus)
			}
			return renderOne(cmd.OutOrStdout(), output, result.Ticket)
		}),
	}
	cmd.Flags().StringVar(&ticketKey, "key", "", "Ticket key")
	cmd.Flags().StringVar(&status, "set", "", "New status (open, scanned, void)")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("set")
	return cmd
}

func newTransferCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Hand a ticket to another customer",
		Long:  `Transfer a ticket to another customer. The ticket receives a new unique code and the old one stops working.`,
		RunE: withService(func(ctx context.Context, cmd *cobra.Command, svc *ticketApp.ServiceDDD) error {
			result, err := svc.Transfer(ctx, usecases.TransferTicketCommand{
				TicketKey:      ticketKey,
				CurrentOwnerID: fromOwner,
				NewOwnerID:     toOwner,
			})
			if err != nil {
				return err
			}
			if !result.Notified {
				fmt.Fprintln(cmd.ErrOrStderr(), "transfer completed but the confirmation could not be delivered")
			}
			return renderOne(cmd.OutOrStdout(), output, result.Ticket)
		}),
	}
	cmd.Flags().StringVar(&ticketKey, "key", "", "Ticket key")
	cmd.Flags().UintVar(&fromOwner, "from", 0, "Current owner customer ID")
	cmd.Flags().UintVar(&toOwner, "to", 0, "New owner customer ID")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newDeleteByOrderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete-by-order",
		Short: "Delete every ticket of an order",
		RunE: withService(func(ctx context.Context, cmd *cobra.Command, svc *ticketApp.ServiceDDD) error {
			result, err := svc.DeleteByOrder(ctx, orderID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d tickets of order %d\n", result.Deleted, result.OrderID)
			return nil
		}),
	}
	cmd.Flags().UintVar(&orderID, "order", 0, "Order ID")
	_ = cmd.MarkFlagRequired("order")
	return cmd
}

func newQRCodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qrcode",
		Short: "Write the QR code of a ticket as PNG",
		RunE: withService(func(ctx context.Context, cmd *cobra.Command, svc *ticketApp.ServiceDDD) error {
			result, err := svc.GenerateQRCode(ctx, ticketKey)
			if err != nil {
				return err
			}
			if outFile == "" || outFile == "-" {
				_, err = cmd.OutOrStdout().Write(result.PNG)
				return err
			}
			if err := os.WriteFile(outFile, result.PNG, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outFile, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", outFile, len(result.PNG))
			return nil
		}),
	}
	cmd.Flags().StringVar(&ticketKey, "key", "", "Ticket key")
	cmd.Flags().StringVar(&outFile, "out", "", "Output file, - for stdout")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

type serviceFunc func(ctx context.Context, cmd *cobra.Command, svc *ticketApp.ServiceDDD) error

// withService wires the ticket service from configuration, runs fn under the command
// deadline and releases every connection afterwards.
func withService(fn serviceFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(env, configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		log := logger.NewLogger()

		if err := database.Init(&cfg.Database); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.Close()

		db := database.Get()
		if autoMigrate {
			if err := migration.NewManager(env, log).Migrate(db); err != nil {
				return err
			}
		}

		encoder, err := qrcode.NewEncoderFromConfig(&cfg.Ticket)
		if err != nil {
			return err
		}

		var events event.Resolver = repository.NewEventRepository(db)
		if cfg.Ticket.EventCacheTTL > 0 {
			client := pubsub.NewRedisClient(cfg.Redis.GetAddr(), cfg.Redis.Password, cfg.Redis.DB)
			defer client.Close()
			events = cache.NewCachedEventResolver(events, client, cfg.Ticket.EventCacheTTL, log)
		}

		notifier, closeNotifier, err := notification.NewFromConfig(cfg, encoder, log)
		if err != nil {
			return err
		}
		defer closeNotifier()

		svc := ticketApp.NewServiceDDD(ticketApp.Dependencies{
			TicketRepo:      repository.NewTicketRepository(db),
			OrderRepo:       repository.NewOrderRepository(db),
			CustomerRepo:    repository.NewCustomerRepository(db),
			EventResolver:   events,
			TxManager:       sharedDB.NewTransactionManager(db),
			Notifier:        notifier,
			Encoder:         encoder,
			CodeMaxAttempts: cfg.Ticket.CodeMaxAttempts,
		}, log)

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		return fn(ctx, cmd, svc)
	}
}
