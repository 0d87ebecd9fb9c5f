package pagination

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for pagination walks.
var (
	pagesFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crawler_pages_fetched_total",
		Help: "Total pages fetched by collection",
	}, []string{"collection"})

	itemsYieldedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crawler_items_yielded_total",
		Help: "Total items received by collection",
	}, []string{"collection"})

	emptyPagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crawler_empty_pages_total",
		Help: "Pages with no results that still carried a next link",
	}, []string{"collection"})
)

// ErrPageLimitExceeded is returned when a walk would fetch more than
// Config.MaxPages pages.
var ErrPageLimitExceeded = errors.New("page limit exceeded")

// DefaultMaxPages bounds a single walk unless configured otherwise.
const DefaultMaxPages = 10000

// Config holds walker configuration.
type Config struct {
	// Collection names the walked collection in logs, errors and metrics.
	Collection string

	// MaxPages stops a walk that keeps returning next links.
	// Zero disables the limit.
	MaxPages int

	// PageTimeout bounds each page fetch. Zero leaves it to the fetcher.
	PageTimeout time.Duration

	// Logger overrides the component logger.
	Logger *zerolog.Logger
}

// DefaultConfig returns the default walker configuration.
func DefaultConfig() Config {
	return Config{
		Collection: "items",
		MaxPages:   DefaultMaxPages,
	}
}

// Fetcher performs a single GET and decodes the JSON body into target.
// *client.Client implements it.
type Fetcher interface {
	GetJSON(ctx context.Context, url string, target any) error
}

// WalkError reports the page that ended a walk.
type WalkError struct {
	Collection string
	URL        string
	Page       int
	Err        error
}

// Error implements the error interface.
func (e *WalkError) Error() string {
	return fmt.Sprintf("walk %s: page %d (%s): %v", e.Collection, e.Page, e.URL, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *WalkError) Unwrap() error {
	return e.Err
}

// Walker follows next links across the pages of a collection of T.
type Walker[T any] struct {
	fetcher Fetcher
	origin  string
	config  Config
	logger  zerolog.Logger
}

// NewWalker creates a walker. origin is prefixed to every next link and
// must be the origin the start URLs are built from.
func NewWalker[T any](fetcher Fetcher, origin string, config Config) *Walker[T] {
	if config.Collection == "" {
		config.Collection = "items"
	}
	if config.MaxPages < 0 {
		config.MaxPages = 0
	}

	logger := log.With().Str("component", "walker").Logger()
	if config.Logger != nil {
		logger = *config.Logger
	}

	return &Walker[T]{
		fetcher: fetcher,
		origin:  origin,
		config:  config,
		logger:  logger.With().Str("collection", config.Collection).Logger(),
	}
}

// NextURL stitches a next link onto the walker's origin.
func (w *Walker[T]) NextURL(next string) string {
	return w.origin + next
}

// Pages returns a lazy sequence of pages starting at startURL. Each pull
// performs one fetch. A failure is yielded once as a *WalkError and ends
// the sequence. Every call starts a new walk.
func (w *Walker[T]) Pages(ctx context.Context, startURL string) iter.Seq2[*Page[T], error] {
	return func(yield func(*Page[T], error) bool) {
		url := startURL

		for pageNum := 1; ; pageNum++ {
			if err := ctx.Err(); err != nil {
				w.logger.Debug().Int("page", pageNum).Msg("Walk stopping (context cancelled)")
				yield(nil, w.walkError(url, pageNum, err))
				return
			}

			if w.config.MaxPages > 0 && pageNum > w.config.MaxPages {
				w.logger.Warn().
					Int("max_pages", w.config.MaxPages).
					Str("url", url).
					Msg("Page limit reached")
				yield(nil, w.walkError(url, pageNum, fmt.Errorf("%w: %d", ErrPageLimitExceeded, w.config.MaxPages)))
				return
			}

			page, err := w.fetch(ctx, url)
			if err != nil {
				yield(nil, w.walkError(url, pageNum, err))
				return
			}

			pagesFetchedTotal.WithLabelValues(w.config.Collection).Inc()
			itemsYieldedTotal.WithLabelValues(w.config.Collection).Add(float64(len(page.Results)))
			if len(page.Results) == 0 && page.HasNext() {
				emptyPagesTotal.WithLabelValues(w.config.Collection).Inc()
			}

			w.logger.Debug().
				Int("page", pageNum).
				Int("items", len(page.Results)).
				Str("next", page.Links.Next).
				Msg("Page fetched")

			if !yield(page, nil) {
				return
			}

			if !page.HasNext() {
				return
			}
			url = w.NextURL(page.Links.Next)
		}
	}
}

// Items flattens Pages into a sequence of items in server order.
func (w *Walker[T]) Items(ctx context.Context, startURL string) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for page, err := range w.Pages(ctx, startURL) {
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range page.Results {
				if !yield(item, nil) {
					return
				}
			}
		}
	}
}

// Collect walks the whole collection and returns every item in order.
func (w *Walker[T]) Collect(ctx context.Context, startURL string) ([]T, error) {
	var all []T
	for item, err := range w.Items(ctx, startURL) {
		if err != nil {
			return nil, err
		}
		all = append(all, item)
	}
	return all, nil
}

// fetch requests a single page, bounded by PageTimeout when set.
func (w *Walker[T]) fetch(ctx context.Context, url string) (*Page[T], error) {
	if w.config.PageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.config.PageTimeout)
		defer cancel()
	}

	var page Page[T]
	if err := w.fetcher.GetJSON(ctx, url, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (w *Walker[T]) walkError(url string, pageNum int, err error) *WalkError {
	return &WalkError{
		Collection: w.config.Collection,
		URL:        url,
		Page:       pageNum,
		Err:        err,
	}
}
