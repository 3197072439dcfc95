package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dtroode/authsys-server/internal/config"
	"github.com/dtroode/authsys-server/internal/logger"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

// app carries what every command needs once the config is loaded.
type app struct {
	cfg    *config.Config
	logger *logger.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		log.Printf("authsys: %v", err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "authsys",
		Short:         "JWT authentication and RBAC scope resolution server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return fmt.Errorf("failed to parse config: %w", err)
			}
			a.cfg = cfg
			a.logger = logger.New(cfg.LogLevel)
			return nil
		},
	}

	serve := newServeCommand(a)
	root.RunE = serve.RunE
	root.AddCommand(serve, newMigrateCommand(a), newSeedCommand(a))

	return root
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
