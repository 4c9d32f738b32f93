package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/evesrp/evesrp/internal/config"
)

func main() {
	var configFile string
	rootCmd := &cobra.Command{
		Use:   "evesrp",
		Short: "Ship replacement program request tracker",
		Long:  "EVE-SRP tracks ship loss reimbursement requests through review and payout.",
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a YAML config file")

	load := func() (*config.Config, logrus.FieldLogger, error) {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, nil, err
		}
		log := logrus.StandardLogger()
		log.SetLevel(cfg.LogLevel)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return cfg, log, nil
	}

	rootCmd.AddCommand(newServeCmd(load))
	rootCmd.AddCommand(newMigrateCmd(load))
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loader reads the config named by --config and sets up logging from it.
type loader func() (*config.Config, logrus.FieldLogger, error)
