package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"bookrest/internal/book"
	"bookrest/internal/client"
	"bookrest/internal/config"
	"bookrest/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type options struct {
	url       string
	count     int
	workers   int
	rps       float64
	logLevel  string
	logFormat string
}

func main() {
	config.LoadEnvFiles()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the sample books, plus optional generated ones, into a running bookrest server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.count < 0 || opts.workers < 1 {
				return fmt.Errorf("--count must be >= 0 and --workers >= 1")
			}
			logger, err := logging.New(logging.Config{Level: opts.logLevel, Format: logging.Format(opts.logFormat), Output: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts, logger)
		},
	}
	cmd.SilenceUsage = true

	cmd.Flags().StringVar(&opts.url, "url", getEnv("BOOKREST_URL", "http://localhost:8080"), "Base URL of the bookrest server")
	cmd.Flags().IntVar(&opts.count, "count", 0, "Number of generated books to insert after the sample set")
	cmd.Flags().IntVar(&opts.workers, "workers", 4, "Concurrent insert requests")
	cmd.Flags().Float64Var(&opts.rps, "rps", 10, "Client side request rate limit, 0 to disable")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", getEnv("LOG_LEVEL", "info"), "Log level")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", getEnv("LOG_FORMAT", "console"), "Log format: console or json")
	return cmd
}

func run(ctx context.Context, opts options, logger *zap.Logger) error {
	c := client.New(opts.url, "bookrest-seed", opts.rps, 3)
	books := append(append([]book.Insert(nil), book.SampleBooks...), generateBooks(opts.count, rand.New(rand.NewSource(1)))...)

	logger.Info("seeding", zap.String("url", opts.url), zap.Int("books", len(books)), zap.Int("workers", opts.workers))
	inserted, err := seed(ctx, c, books, opts.workers, logger)
	if err != nil {
		logger.Error("seeding failed", zap.Int("inserted", inserted), zap.Error(err))
		return err
	}

	all, err := c.List(ctx)
	if err != nil {
		return fmt.Errorf("list books: %w", err)
	}
	logger.Info("seeding complete", zap.Int("inserted", inserted), zap.Int("total", len(all)))
	return nil
}

type inserter interface {
	Insert(ctx context.Context, in book.Insert) (book.Book, bool, error)
}

// seed inserts books with at most workers requests in flight. ISBNs already
// present are skipped. It returns the number of books inserted.
func seed(ctx context.Context, c inserter, books []book.Insert, workers int, logger *zap.Logger) (int, error) {
	var inserted, done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, in := range books {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, ok, err := c.Insert(gctx, in)
			if err != nil {
				return fmt.Errorf("insert %s: %w", in.ISBN, err)
			}
			if ok {
				inserted.Add(1)
			} else {
				logger.Debug("book already present", zap.String("isbn", in.ISBN))
			}
			if n := done.Add(1); n%1000 == 0 {
				logger.Info("progress", zap.Int64("done", n), zap.Int("of", len(books)))
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return int(inserted.Load()), err
}

// generateBooks returns n books with 13 digit ISBNs under the 979 prefix,
// which the sample set never uses.
func generateBooks(n int, rng *rand.Rand) []book.Insert {
	out := make([]book.Insert, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, book.Insert{
			ISBN:  fmt.Sprintf("979%010d", i+1),
			Title: fmt.Sprintf("Book Title %d - %s", i+1, randomWord(rng)),
		})
	}
	return out
}

func randomWord(rng *rand.Rand) string {
	words := []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
		"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
		"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
	}
	return words[rng.Intn(len(words))]
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
