package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/chromekit/internal/logging"
	"github.com/bnema/chromekit/internal/services"
)

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Extract readable content from a URL into the cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithContext(context.Background(), app.Logger)
		pageURL := args[0]

		extractor := services.NewReadabilityExtractor()
		content, err := extractor.Extract(ctx, pageURL)
		if err != nil {
			return fmt.Errorf("extract %s: %w", pageURL, err)
		}

		app.Cache.Set(ctx, content)
		app.Cache.Flush()

		cmd.Printf("title:   %s\n", content.Title)
		if content.Byline != "" {
			cmd.Printf("byline:  %s\n", content.Byline)
		}
		if content.SiteName != "" {
			cmd.Printf("site:    %s\n", content.SiteName)
		}
		cmd.Printf("content: %d bytes (cached)\n", len(content.Content))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
