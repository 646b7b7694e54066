package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"emailbuilder/config"
)

const programName = "emailbuilder"

var (
	configFile string
	cfg        *config.Config
	logger     *logrus.Logger
)

// @title Email Builder API
// @version 1.0
// @description Backend of the email template editor: layout, image uploads, template storage and HTML export.
// @BasePath /
func main() {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Email template builder backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveRun,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to YAML config file")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger = config.NewLogger(cfg.LogLevel)

		if _, err := maxprocs.Set(maxprocs.Logger(logger.Debugf)); err != nil {
			logger.WithField("error", err.Error()).Warn("Could not set GOMAXPROCS")
		}
		return nil
	}

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(renderCommand())

	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.WithField("error", err.Error()).Error("Command failed")
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
