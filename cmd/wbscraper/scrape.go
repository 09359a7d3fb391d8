package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"wbscraper/pkg/config"
	"wbscraper/pkg/logger"
	"wbscraper/pkg/scraper"
	"wbscraper/pkg/storage"
)

var (
	// Scrape command flags
	outputPath      string
	csvFile         string
	txtFile         string
	minSteps        int
	maxSteps        int
	minDelay        int
	maxDelay        int
	seed            int64
	resolveLongText bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape [uid...]",
	Short: "Collect all original posts of the given users",
	Long: `Collect every original post of the given Weibo users and write them
as JSONL, one post per line, merged round-robin across users.

User ids are passed as arguments, or read from a CSV file with an "id"
column, or from a plain text file with one id per line. The three
sources may be combined; duplicate ids are collected once.

Output goes to stdout by default; logs go to stderr, so the record
stream stays clean for piping.`,
	Example: `  # Collect two users, merged, to stdout
  wbscraper scrape 1669879400 2830678474 > posts.jsonl

  # Read the user list from a CSV and write to a file
  wbscraper scrape --csv users.csv --out posts.jsonl

  # Slow the pace down and skip long-post reconstruction
  wbscraper scrape 1669879400 --min-delay 20 --max-delay 40 --resolve-long-text=false`,
	Args: cobra.ArbitraryArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVarP(&outputPath, "out", "o", "", "output file for JSONL records (default: stdout)")
	scrapeCmd.Flags().StringVar(&csvFile, "csv", "", "CSV file with an \"id\" column of user ids")
	scrapeCmd.Flags().StringVar(&txtFile, "txt", "", "text file with one user id per line")
	scrapeCmd.Flags().IntVar(&minSteps, "min-steps", 0, "fewest requests between pauses")
	scrapeCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "most requests between pauses")
	scrapeCmd.Flags().IntVar(&minDelay, "min-delay", 0, "shortest pause in seconds")
	scrapeCmd.Flags().IntVar(&maxDelay, "max-delay", 0, "longest pause in seconds")
	scrapeCmd.Flags().Int64Var(&seed, "seed", 0, "fix the pacing schedule for reproducible runs")
	scrapeCmd.Flags().BoolVar(&resolveLongText, "resolve-long-text", true, "fetch detail pages to reconstruct truncated posts")
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyFlagOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("starting collection")

	uids, err := collectUserIDs(args, csvFile, txtFile)
	if err != nil {
		return err
	}
	if len(uids) == 0 {
		return fmt.Errorf("no user ids given: pass them as arguments or via --csv/--txt")
	}

	sink, err := openSink(cfg.Output.Path)
	if err != nil {
		return err
	}
	defer sink.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := scraper.New(cfg)
	summary, err := s.Run(ctx, uids, sink)
	if err != nil {
		log.WithError(err).Error("collection failed")
		return err
	}

	if summary.Interrupted {
		fmt.Fprintf(os.Stderr, "Interrupted after round %d: %d records from %d users\n",
			summary.Rounds, summary.Records, summary.Users)
		return nil
	}
	fmt.Fprintf(os.Stderr, "Done: %d records from %d users in %d rounds\n",
		summary.Records, summary.Users, summary.Rounds)
	return nil
}

// applyFlagOverrides layers explicitly set flags over the loaded config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if outputPath != "" {
		cfg.Output.Path = outputPath
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if cmd.Flags().Changed("min-steps") {
		cfg.RateLimit.MinSteps = minSteps
	}
	if cmd.Flags().Changed("max-steps") {
		cfg.RateLimit.MaxSteps = maxSteps
	}
	if cmd.Flags().Changed("min-delay") {
		cfg.RateLimit.MinDelaySeconds = minDelay
	}
	if cmd.Flags().Changed("max-delay") {
		cfg.RateLimit.MaxDelaySeconds = maxDelay
	}
	if cmd.Flags().Changed("seed") {
		cfg.RateLimit.Seed = seed
	}
	if cmd.Flags().Changed("resolve-long-text") {
		cfg.Output.ResolveLongText = resolveLongText
	}
}

// openSink opens the record stream: a file when path is set, stdout
// otherwise. Stdout is never closed.
func openSink(path string) (*storage.Writer, error) {
	if path == "" {
		return storage.NewWriter(os.Stdout), nil
	}
	w, err := storage.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}
	return w, nil
}
