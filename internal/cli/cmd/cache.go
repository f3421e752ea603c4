package cmd

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the extraction cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached extractions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		entries := app.Cache.List()
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].ExtractedAt.After(entries[j].ExtractedAt)
		})

		if len(entries) == 0 {
			cmd.Println("cache is empty")
			return nil
		}
		for _, e := range entries {
			status := "ok"
			if e.Failed() {
				status = "failed: " + e.Error
			}
			cmd.Printf("%s  %-50s  %s  (%s)\n",
				e.ExtractedAt.Format("2006-01-02 15:04"), e.URL, e.Title, status)
		}
		return nil
	},
}

var pruneOlderThanHours int

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete cache entries older than a cutoff",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := context.Background()
		cutoff := time.Now().Add(-time.Duration(pruneOlderThanHours) * time.Hour)

		pruned, err := app.Repo.PruneOlderThan(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("prune cache: %w", err)
		}
		for _, e := range app.Cache.List() {
			if e.ExtractedAt.Before(cutoff) {
				app.Cache.Delete(ctx, e.URL)
			}
		}
		app.Cache.Flush()

		cmd.Printf("pruned %d entries older than %s\n", pruned, cutoff.Format(time.RFC3339))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cache entry",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := context.Background()
		entries := app.Cache.List()
		for _, e := range entries {
			app.Cache.Delete(ctx, e.URL)
		}
		app.Cache.Flush()
		cmd.Printf("removed %d entries\n", len(entries))
		return nil
	},
}

func init() {
	cachePruneCmd.Flags().IntVar(&pruneOlderThanHours, "older-than", 168,
		"age cutoff in hours")

	cacheCmd.AddCommand(cacheListCmd, cachePruneCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
