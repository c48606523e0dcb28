package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pdme/floodwatch/internal/observability"
)

var (
	fetchProbe   bool
	fetchNoCache bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the current flood snapshot and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := buildEnv(cmd.Context(), observability.NewForTesting())
		if err != nil {
			return err
		}
		defer e.Close()

		if fetchProbe {
			for _, r := range e.Pipeline.Diagnose(cmd.Context(), e.Fetcher) {
				if r.Err != nil {
					fmt.Fprintf(os.Stderr, "%-12s %-60s error: %v\n", r.Candidate.Label, r.Candidate.URL, r.Err)
					continue
				}
				fmt.Printf("%-12s %-60s status %d\n", r.Candidate.Label, r.Candidate.URL, r.Status)
			}
			return nil
		}

		var snap any
		if fetchNoCache {
			snap = e.Pipeline.Fetch(cmd.Context())
		} else {
			snap = e.Cache.Get(cmd.Context())
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return eris.Wrap(err, "encode snapshot")
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchProbe, "probe", false, "probe candidate bulletin URLs without downloading")
	fetchCmd.Flags().BoolVar(&fetchNoCache, "no-cache", false, "bypass the snapshot cache")
	rootCmd.AddCommand(fetchCmd)
}
