package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sternrassler/confluence-crawler/internal/config"
	"github.com/Sternrassler/confluence-crawler/pkg/client"
	"github.com/Sternrassler/confluence-crawler/pkg/confluence"
	"github.com/Sternrassler/confluence-crawler/pkg/logging"
	"github.com/Sternrassler/confluence-crawler/pkg/metrics"
	"github.com/Sternrassler/confluence-crawler/pkg/sink"
	"github.com/fatih/color"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const version = "0.1.0"

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitPartial = 2
)

// errPartial marks a crawl that finished but skipped failed enumerations.
var errPartial = errors.New("crawl completed with failures")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errPartial):
		return exitPartial
	default:
		return exitFailure
	}
}

// Run executes the CLI with the given arguments. Records go to stdout,
// logs and the run summary to stderr.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// flagValues holds raw flag values. Only flags set on the command line
// override the loaded configuration.
type flagValues struct {
	configPath      string
	baseURL         string
	apiPath         string
	mediaTypes      []string
	pageSize        int
	maxPages        int
	timeout         string
	pageTimeout     string
	userAgent       string
	continueOnError bool
	metricsFile     string
	logLevel        string
	logPretty       bool
	redisAddr       string
	redisKey        string
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	defaults := config.Default()
	flags := &flagValues{}

	rootCmd := &cobra.Command{
		Use:   "confluence-crawler",
		Short: "List Confluence attachments of selected media types",
		Long: "Walks every current page of a Confluence site and prints one line per attachment\n" +
			"matching the configured media types: \"space/page/attachment\" download-url raw-data-url",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd.Flags(), cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return crawl(cmd.Context(), cfg, stdout, stderr)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	f := rootCmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", "", "YAML config file")
	f.StringVarP(&flags.baseURL, "base-url", "u", defaults.BaseURL, "Confluence site origin")
	f.StringVar(&flags.apiPath, "api-path", defaults.APIPath, "REST API root below the base URL")
	f.StringSliceVarP(&flags.mediaTypes, "media-type", "m", defaults.MediaTypes, "Attachment media type (repeatable or comma-separated)")
	f.IntVarP(&flags.pageSize, "page-size", "n", defaults.PageSize, "Items per requested page (1-1000)")
	f.IntVar(&flags.maxPages, "max-pages", defaults.MaxPages, "Page limit per walk (0 = unlimited)")
	f.StringVar(&flags.timeout, "timeout", defaults.Timeout.String(), "Per-request transport timeout")
	f.StringVar(&flags.pageTimeout, "page-timeout", "0s", "Per-page deadline (0 = none)")
	f.StringVar(&flags.userAgent, "user-agent", defaults.UserAgent, "User-Agent header")
	f.BoolVar(&flags.continueOnError, "continue-on-error", false, "Skip failed attachment enumerations instead of aborting")
	f.StringVar(&flags.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")
	f.StringVar(&flags.logLevel, "log-level", defaults.Log.Level, "Log level: debug, info, warn, error")
	f.BoolVar(&flags.logPretty, "log-pretty", false, "Human-readable logs")
	f.StringVar(&flags.redisAddr, "redis-addr", "", "Also push records to this Redis server")
	f.StringVar(&flags.redisKey, "redis-key", defaults.Redis.Key, "Redis list key")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "confluence-crawler version %s\n", version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

// apply copies changed flags onto cfg.
func (v *flagValues) apply(fs *pflag.FlagSet, cfg *config.Config) error {
	set := func(name string, fn func()) {
		if fs.Changed(name) {
			fn()
		}
	}
	setDuration := func(name, value string, dst *time.Duration) error {
		if !fs.Changed(name) {
			return nil
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid --%s: %w", name, err)
		}
		*dst = d
		return nil
	}

	set("base-url", func() { cfg.BaseURL = v.baseURL })
	set("api-path", func() { cfg.APIPath = v.apiPath })
	set("media-type", func() { cfg.MediaTypes = v.mediaTypes })
	set("page-size", func() { cfg.PageSize = v.pageSize })
	set("max-pages", func() { cfg.MaxPages = v.maxPages })
	set("user-agent", func() { cfg.UserAgent = v.userAgent })
	set("continue-on-error", func() { cfg.ContinueOnError = v.continueOnError })
	set("metrics-file", func() { cfg.MetricsFile = v.metricsFile })
	set("log-level", func() { cfg.Log.Level = v.logLevel })
	set("log-pretty", func() { cfg.Log.Pretty = v.logPretty })
	set("redis-addr", func() { cfg.Redis.Addr = v.redisAddr })
	set("redis-key", func() { cfg.Redis.Key = v.redisKey })

	if err := setDuration("timeout", v.timeout, &cfg.Timeout); err != nil {
		return err
	}
	return setDuration("page-timeout", v.pageTimeout, &cfg.PageTimeout)
}

// crawl wires the client, sinks and crawler from cfg and runs one crawl.
func crawl(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) error {
	logging.Setup(cfg.Logging(stderr))
	logger := logging.NewLogger("cli")

	httpClient, err := client.New(cfg.Client())
	if err != nil {
		return err
	}

	var out sink.Sink = sink.NewWriterSink(stdout)
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info().Str("addr", cfg.Redis.Addr).Str("key", cfg.Redis.Key).Msg("Connected to Redis")

		out = sink.Tee{out, sink.NewRedisSink(rdb, cfg.RedisSink())}
	}

	crawler, err := confluence.NewCrawler(httpClient, out, cfg.Crawl())
	if err != nil {
		return err
	}

	stats, runErr := crawler.Run(ctx)
	printSummary(stderr, stats, runErr)

	if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
		logger.Warn().Err(err).Str("path", cfg.MetricsFile).Msg("Failed to export metrics")
	}

	if runErr != nil {
		return runErr
	}
	if n := len(stats.Failures); n > 0 {
		return fmt.Errorf("%w: %d of %d attachment enumerations skipped", errPartial, n, stats.Enumerations)
	}
	return nil
}

func printSummary(w io.Writer, stats *confluence.Stats, runErr error) {
	if stats == nil {
		return
	}

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	switch {
	case runErr != nil:
		red.Fprintf(w, "✗ Crawl %s aborted\n", stats.RunID)
	case len(stats.Failures) > 0:
		yellow.Fprintf(w, "⚠ Crawl %s completed with %d skipped enumerations\n", stats.RunID, len(stats.Failures))
	default:
		green.Fprintf(w, "✓ Crawl %s completed\n", stats.RunID)
	}

	fmt.Fprintf(w, "  • Content pages: %d\n", stats.ContentPages)
	fmt.Fprintf(w, "  • Content items: %d\n", stats.ContentItems)
	fmt.Fprintf(w, "  • Enumerations: %d\n", stats.Enumerations)
	fmt.Fprintf(w, "  • Records: %d\n", stats.Records)
	fmt.Fprintf(w, "  • Duration: %s\n", stats.Duration.Round(time.Millisecond))

	for _, failure := range stats.Failures {
		yellow.Fprintf(w, "  ⚠ %v\n", failure)
	}
}
