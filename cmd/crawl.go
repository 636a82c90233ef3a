// Package cmd defines and implements the CLI commands for the sitetext executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jmartel/sitetext/internal/clock/system"
	"github.com/jmartel/sitetext/internal/crawler"
	"github.com/jmartel/sitetext/internal/logging"
)

// newCrawlCmd creates and configures the 'crawl' subcommand. It reads a list
// of start URLs from a file (one absolute http(s) URL per line) and crawls
// each site sequentially, pages within a site in parallel.
func newCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <urls-file>",
		Short: "Crawls every site listed in a URL file",
		Long: `Reads start URLs from a file, one per line, and crawls each site in turn.
Pages within a site are fetched concurrently up to the configured cap; each
page is converted to cleaned text and saved under the output directory.`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCommand,
	}

	cmd.Flags().String("output-dir", "", "directory receiving one subdirectory per site")
	cmd.Flags().Int("max-depth", -1, "link-following hops from each seed (0 = seed only)")
	cmd.Flags().Int("max-concurrency", 0, "maximum simultaneous fetches per site")
	return cmd
}

func runCrawlCommand(cmd *cobra.Command, args []string) error {
	logger := logging.L

	cfg, err := crawler.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load crawler config: %w", err)
	}
	params := cfg.Params()
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		params.OutputDir = dir
	}
	if depth, _ := cmd.Flags().GetInt("max-depth"); depth >= 0 {
		params.MaxDepth = depth
	}
	if conc, _ := cmd.Flags().GetInt("max-concurrency"); conc > 0 {
		params.MaxConcurrency = conc
	}

	urlsFile, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open urls file: %w", err)
	}
	defer urlsFile.Close() //nolint:errcheck // read-only file

	urls, skipped := crawler.ParseURLList(urlsFile)
	for _, diag := range skipped {
		logger.Warn("skipping url list entry", zap.String("reason", diag))
	}
	if len(urls) == 0 {
		return fmt.Errorf("no valid start URLs in %s", args[0])
	}

	fetcher, err := crawler.NewCollyFetcher(cfg, logger)
	if err != nil {
		return fmt.Errorf("init fetcher: %w", err)
	}
	sink := crawler.NewFileSystemSink(logger)
	batch := crawler.NewBatch(fetcher, sink, system.New(), logger)

	result, err := batch.Run(cmd.Context(), urls, params)
	if err != nil {
		return fmt.Errorf("run batch: %w", err)
	}

	logger.Info("Crawl command finished.",
		zap.Int("sites", len(result.Sites)),
		zap.String("metadata_path", result.MetadataPath),
	)
	return nil
}
