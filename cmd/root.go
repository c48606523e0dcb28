package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdme/floodwatch/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "floodwatch",
	Short: "Flood monitoring API for Pakistan river and dam levels",
	Long:  "Scrapes the daily IRSA water bulletin, caches a structured snapshot, and serves it alongside a historical flood knowledge-base query surface.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
