// Command fixhub serves the repair-guide API: device search, normalized
// guide retrieval, and optional AI-generated summaries.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/fixhub"
	"github.com/fwojciec/fixhub/gemini"
	fixhubhttp "github.com/fwojciec/fixhub/http"
	"github.com/fwojciec/fixhub/ifixit"
	"github.com/fwojciec/fixhub/repair"
	fixhubslog "github.com/fwojciec/fixhub/slog"
	"google.golang.org/genai"
)

// CLI defines the fixhub command line. All configuration is consumed once
// at construction time.
type CLI struct {
	Addr            string        `help:"Bind address." default:":8080"`
	UpstreamURL     string        `help:"iFixit API base URL." default:"${upstream_url}"`
	UpstreamTimeout time.Duration `help:"Per-request upstream timeout." default:"10s"`
	UpstreamRPS     float64       `help:"Outbound requests per second to upstream (0 = unlimited)." default:"0"`
	CacheTTL        time.Duration `help:"Lifetime of cached search results, guides, and summaries." default:"15m"`
	Concurrency     int           `help:"Concurrent upstream calls per expanded search." default:"4"`
	GeminiAPIKey    string        `env:"GEMINI_API_KEY" help:"Gemini API key; summarization is disabled when unset."`
	Verbose         bool          `short:"v" help:"Enable debug logging."`
}

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("fixhub"),
		kong.Description("Repair-guide search, retrieval, and summarization API."),
		kong.Vars{"upstream_url": ifixit.DefaultBaseURL},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}
	if _, err := parser.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sourceOpts := []ifixit.Option{
		ifixit.WithBaseURL(cli.UpstreamURL),
		ifixit.WithTimeout(cli.UpstreamTimeout),
	}
	if cli.UpstreamRPS > 0 {
		sourceOpts = append(sourceOpts, ifixit.WithRateLimit(cli.UpstreamRPS))
	}
	source := ifixit.NewClient(sourceOpts...)

	summarizer, err := newSummarizer(ctx, cli.GeminiAPIKey, logger)
	if err != nil {
		return err
	}

	service := repair.NewService(source, summarizer,
		repair.WithCacheTTL(cli.CacheTTL),
		repair.WithConcurrency(cli.Concurrency),
	)

	server := fixhubhttp.NewServer(fixhubslog.NewGuideService(service, logger), logger)
	server.Addr = cli.Addr

	if err := server.Open(); err != nil {
		return fmt.Errorf("failed to listen on %q: %w", cli.Addr, err)
	}
	logger.Info("listening", "url", server.URL())

	<-ctx.Done()
	logger.Info("shutting down")
	return server.Close()
}

// newSummarizer builds the summarization pipeline. A missing API key
// disables summarization instead of failing startup: summaries are then
// returned with status "unavailable".
func newSummarizer(ctx context.Context, apiKey string, logger *slog.Logger) (fixhub.Summarizer, error) {
	if apiKey == "" {
		logger.Warn("GEMINI_API_KEY not set; summarization disabled")
		return gemini.NewSummarizer(nil), nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return gemini.NewSummarizer(client), nil
}
