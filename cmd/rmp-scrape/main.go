package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/Sternrassler/rmp-client/internal/config"
	"github.com/Sternrassler/rmp-client/pkg/aggregator"
	"github.com/Sternrassler/rmp-client/pkg/client"
	"github.com/Sternrassler/rmp-client/pkg/export"
	"github.com/Sternrassler/rmp-client/pkg/logging"
	"github.com/Sternrassler/rmp-client/pkg/metrics"
	"github.com/Sternrassler/rmp-client/pkg/progress"
	"github.com/Sternrassler/rmp-client/pkg/rmp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// ErrScrape wraps every failure of a scrape run.
var ErrScrape = errors.New("scraping school")

type options struct {
	config.Config

	envFile        string
	progress       string
	reuseFirstPage bool
}

func newRootCmd() *cobra.Command {
	opts := &options{Config: config.Default()}
	defaults := opts.Config

	cmd := &cobra.Command{
		Use:          "rmp-scrape SCHOOL_ID",
		Short:        "Download every professor and review of a school from RateMyProfessors",
		Args:         cobra.ExactArgs(1),
		Version:      "0.1.0",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			schoolID, err := strconv.Atoi(args[0])
			if err != nil || schoolID <= 0 {
				return fmt.Errorf("%w: invalid school id %q", ErrScrape, args[0])
			}
			if err := opts.applyEnv(cmd); err != nil {
				return fmt.Errorf("%w: %w", ErrScrape, err)
			}
			return run(cmd.Context(), opts, schoolID, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.envFile, "env-file", ".env", "file with environment variables to load")
	flags.StringVarP(&opts.OutDir, "out-dir", "o", defaults.OutDir, "directory the tables are written to")
	flags.StringVarP(&opts.Format, "format", "f", defaults.Format, "output format: csv, parquet or sqlite")
	flags.StringVar(&opts.BaseURL, "base-url", defaults.BaseURL, "RateMyProfessors base URL")
	flags.StringVar(&opts.UserAgent, "user-agent", defaults.UserAgent, "User-Agent header")
	flags.StringVar(&opts.RedisAddr, "redis-addr", defaults.RedisAddr, "Redis address for the response cache (disabled when empty)")
	flags.DurationVar(&opts.CacheTTL, "cache-ttl", defaults.CacheTTL, "how long cached responses stay valid")
	flags.StringVar(&opts.LogLevel, "log-level", defaults.LogLevel, "debug, info, warn or error")
	flags.BoolVar(&opts.LogPretty, "pretty", defaults.LogPretty, "human readable log output")
	flags.StringVar(&opts.progress, "progress", "bars", "progress display: bars, log or none")
	flags.BoolVar(&opts.reuseFirstPage, "reuse-first-page", false, "reuse the counting request as page 1")
	flags.StringVar(&opts.MetricsFile, "metrics-file", defaults.MetricsFile, "write Prometheus metrics to this textfile on exit")

	return cmd
}

// applyEnv loads the env file and fills every flag the user did not set
// from the environment.
func (o *options) applyEnv(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return err
	}
	env, err := config.FromEnv()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	fill := func(name string, set func()) {
		if !flags.Changed(name) {
			set()
		}
	}
	fill("out-dir", func() { o.OutDir = env.OutDir })
	fill("format", func() { o.Format = env.Format })
	fill("base-url", func() { o.BaseURL = env.BaseURL })
	fill("user-agent", func() { o.UserAgent = env.UserAgent })
	fill("redis-addr", func() { o.RedisAddr = env.RedisAddr })
	fill("cache-ttl", func() { o.CacheTTL = env.CacheTTL })
	fill("log-level", func() { o.LogLevel = env.LogLevel })
	fill("pretty", func() { o.LogPretty = env.LogPretty })
	fill("metrics-file", func() { o.MetricsFile = env.MetricsFile })
	return nil
}

func run(ctx context.Context, opts *options, schoolID int, stdout, stderr io.Writer) error {
	logging.Setup(logging.Config{
		Level:  logging.LogLevel(opts.LogLevel),
		Pretty: opts.LogPretty,
		Output: stderr,
	})
	logger := logging.NewLogger(logging.ComponentCLI)

	if opts.MetricsFile != "" {
		defer func() {
			if werr := metrics.WriteTextfile(opts.MetricsFile); werr != nil {
				logger.Warn().Err(werr).Msg("Could not write metrics file")
			}
		}()
	}

	exporter, err := export.ForFormat(opts.Format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrScrape, err)
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return fmt.Errorf("%w: creating output directory: %w", ErrScrape, err)
	}

	clientCfg := opts.ClientConfig()

	if opts.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("%w: connecting to Redis at %s: %w", ErrScrape, opts.RedisAddr, err)
		}
		logger.Info().Str("addr", opts.RedisAddr).Dur("ttl", opts.CacheTTL).Msg("Response cache enabled")
		clientCfg.Redis = redisClient
	}

	rmpClient, err := client.New(clientCfg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrScrape, err)
	}

	display, err := progressFactory(opts.progress, stdout, logger)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrScrape, err)
	}

	agg := aggregator.New(schoolID, rmp.NewAPI(rmpClient),
		aggregator.WithProgress(display),
		aggregator.WithFirstPageReuse(opts.reuseFirstPage),
	)

	profs, err := agg.FetchProfessors(ctx)
	if err != nil {
		return fmt.Errorf("%w %d: %w", ErrScrape, schoolID, err)
	}
	fmt.Fprintf(stdout, "Found %d professors at %s\n", len(profs.Professors), profs.SchoolName)

	reviews, err := profs.FetchReviews(ctx)
	if err != nil {
		return fmt.Errorf("%w %d: %w", ErrScrape, schoolID, err)
	}
	if len(reviews.Skipped) > 0 {
		fmt.Fprintf(stdout, "Skipped %d professors whose reviews could not be fetched\n", len(reviews.Skipped))
	}

	out, err := reviews.Export(ctx, exporter, opts.OutDir)
	if err != nil {
		return fmt.Errorf("%w %d: %w", ErrScrape, schoolID, err)
	}
	fmt.Fprintf(stdout, "Review table successfully saved to %s\n", out.ReviewsPath)
	fmt.Fprintf(stdout, "Professor table successfully saved to %s\n", out.ProfessorsPath)

	return nil
}

func progressFactory(name string, out io.Writer, logger zerolog.Logger) (progress.Factory, error) {
	switch name {
	case "bars":
		width := 0
		if f, ok := out.(*os.File); ok {
			if w, _, err := terminal.GetSize(int(f.Fd())); err == nil {
				width = w
			}
		}
		return progress.Bars{Output: out, Width: width}, nil
	case "log":
		return progress.Log{Logger: logger}, nil
	case "none":
		return progress.Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown progress display %q", name)
	}
}
