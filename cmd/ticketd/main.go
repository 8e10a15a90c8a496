package main

import (
	"os"

	"github.com/spf13/cobra"

	"ticketd/internal/interfaces/cli/migrate"
	"ticketd/internal/interfaces/cli/ticket"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "ticketd",
		Short:        "ticketd - event ticket issuance and transfer",
		Long:         `ticketd issues tickets for paid orders, renders their QR codes, tracks their status and transfers them between customers.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		ticket.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
