package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdme/floodwatch/internal/chat"
	"github.com/pdme/floodwatch/internal/corpus"
	"github.com/pdme/floodwatch/internal/observability"
)

var askLocation string

var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Query the historical flood knowledge base from the terminal",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := chat.NewEngine(corpus.Load(cfg.Corpus.Path), observability.NewForTesting())

		if askLocation != "" {
			fmt.Println(engine.LocationSummary(askLocation))
			return nil
		}

		query := strings.Join(args, " ")
		if query == "" {
			return cmd.Help()
		}
		fmt.Println(engine.Ask(query))
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askLocation, "location", "", "summarize historical risk for a location")
	rootCmd.AddCommand(askCmd)
}
