package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jmartel/sitetext/internal/logging"
	"github.com/jmartel/sitetext/pkg/config"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitetext",
		Short: "A concurrent, domain-scoped site crawler that saves pages as cleaned text.",
		Long: `sitetext discovers and fetches every reachable page of a site within the
same origin up to a bounded depth, converts each page to cleaned plain text,
and persists one markdown artifact per page.`,

		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logging.InitLogger(viper.GetBool("logging.development"))
		},
	}

	// Initialize Viper configuration.
	cobra.OnInitialize(initConfig)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
	config.InitConfig()
}

// Execute is the main entry point. The command context is canceled on
// SIGINT/SIGTERM so long crawls and the HTTP server shut down cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logging.L.Error("Command execution failed", zap.Error(err))
		os.Exit(1)
	}
}
