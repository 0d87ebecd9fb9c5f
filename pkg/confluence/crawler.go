package confluence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Sternrassler/confluence-crawler/pkg/pagination"
	"github.com/Sternrassler/confluence-crawler/pkg/sink"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Reference crawl settings.
const (
	DefaultBaseURL   = "https://wiki.onap.org"
	DefaultAPIPath   = "rest/api"
	DefaultMediaType = "video/mp4"
	DefaultPageSize  = 50

	// MaxPageSize is the largest limit the content API accepts.
	MaxPageSize = 1000
)

// Config holds crawl configuration.
type Config struct {
	// BaseURL is the site origin, e.g. https://wiki.onap.org.
	BaseURL string

	// APIPath is the REST API root below BaseURL, e.g. rest/api.
	APIPath string

	// MediaTypes are enumerated per content item in this order.
	// Duplicates are dropped.
	MediaTypes []string

	// PageSize is the limit sent on every first-page request.
	PageSize int

	// MaxPages bounds every individual walk (0 = unlimited).
	MaxPages int

	// PageTimeout bounds each page fetch (0 = transport timeout only).
	PageTimeout time.Duration

	// ContinueOnError skips a failed attachment enumeration instead of
	// aborting the run. Content walk and sink failures always abort.
	ContinueOnError bool

	// Logger overrides the component logger.
	Logger *zerolog.Logger
}

// DefaultConfig returns the reference crawl configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		APIPath:    DefaultAPIPath,
		MediaTypes: []string{DefaultMediaType},
		PageSize:   DefaultPageSize,
		MaxPages:   pagination.DefaultMaxPages,
	}
}

// Validate checks the configuration and normalizes MediaTypes.
func (c *Config) Validate() error {
	if c.PageSize <= 0 || c.PageSize > MaxPageSize {
		return fmt.Errorf("page size must be between 1 and %d (got %d)", MaxPageSize, c.PageSize)
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("max pages must be >= 0 (got %d)", c.MaxPages)
	}
	if c.PageTimeout < 0 {
		return fmt.Errorf("page timeout must be >= 0 (got %s)", c.PageTimeout)
	}

	seen := make(map[string]bool, len(c.MediaTypes))
	mediaTypes := make([]string, 0, len(c.MediaTypes))
	for _, mt := range c.MediaTypes {
		mt = strings.TrimSpace(mt)
		if mt == "" || seen[mt] {
			continue
		}
		seen[mt] = true
		mediaTypes = append(mediaTypes, mt)
	}
	if len(mediaTypes) == 0 {
		return errors.New("at least one media type is required")
	}
	c.MediaTypes = mediaTypes

	return nil
}

// Stats summarizes a crawl run.
type Stats struct {
	RunID        string
	ContentPages int
	ContentItems int
	Enumerations int
	Records      int
	// Failures holds enumeration errors skipped under ContinueOnError.
	Failures []error
	Duration time.Duration
}

// Crawler drives the two-level content and attachment walk.
type Crawler struct {
	api        *API
	contents   *pagination.Walker[Content]
	enumerator *Enumerator
	sink       sink.Sink
	config     Config
	logger     zerolog.Logger
}

// NewCrawler creates a crawler fetching through fetcher and emitting to out.
func NewCrawler(fetcher pagination.Fetcher, out sink.Sink, cfg Config) (*Crawler, error) {
	if fetcher == nil {
		return nil, errors.New("fetcher is required")
	}
	if out == nil {
		return nil, errors.New("sink is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	api, err := NewAPI(cfg.BaseURL, cfg.APIPath)
	if err != nil {
		return nil, err
	}

	logger := log.With().Str("component", "crawler").Logger()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	walkConfig := func(collection string) pagination.Config {
		return pagination.Config{
			Collection:  collection,
			MaxPages:    cfg.MaxPages,
			PageTimeout: cfg.PageTimeout,
			Logger:      &logger,
		}
	}

	return &Crawler{
		api:        api,
		contents:   pagination.NewWalker[Content](fetcher, api.BaseURL(), walkConfig("content")),
		enumerator: NewEnumerator(api, fetcher, walkConfig("attachment")),
		sink:       out,
		config:     cfg,
		logger:     logger,
	}, nil
}

// API returns the URL builder of the crawled site.
func (c *Crawler) API() *API {
	return c.api
}

// Run crawls every content item and emits its matching attachments.
//
// The first failure aborts the run and is returned together with the
// stats gathered so far; records already emitted stay emitted. Under
// ContinueOnError, failed enumerations are collected in Stats.Failures
// instead.
func (c *Crawler) Run(ctx context.Context) (*Stats, error) {
	start := time.Now()
	stats := &Stats{RunID: uuid.NewString()}
	logger := c.logger.With().Str("run_id", stats.RunID).Logger()

	defer func() {
		stats.Duration = time.Since(start)
		crawlRunDuration.Observe(stats.Duration.Seconds())
	}()

	startURL := c.api.ContentURL(c.config.PageSize)
	logger.Info().
		Str("url", startURL).
		Strs("media_types", c.config.MediaTypes).
		Int("page_size", c.config.PageSize).
		Msg("Starting crawl")

	for page, err := range c.contents.Pages(ctx, startURL) {
		if err != nil {
			crawlRunsTotal.WithLabelValues("failed").Inc()
			logger.Error().Err(err).Msg("Crawl aborted")
			return stats, err
		}
		stats.ContentPages++

		for _, content := range page.Results {
			if err := c.processContent(ctx, logger, content, stats); err != nil {
				crawlRunsTotal.WithLabelValues("failed").Inc()
				logger.Error().Err(err).Str("content_id", content.ID).Msg("Crawl aborted")
				return stats, err
			}
		}

		if page.HasNext() {
			logger.Info().
				Int("content_pages", stats.ContentPages).
				Int("records", stats.Records).
				Msg("Fetching next page of contents")
		}
	}

	result := "success"
	if len(stats.Failures) > 0 {
		result = "partial"
	}
	crawlRunsTotal.WithLabelValues(result).Inc()

	logger.Info().
		Int("content_pages", stats.ContentPages).
		Int("content_items", stats.ContentItems).
		Int("records", stats.Records).
		Int("failures", len(stats.Failures)).
		Dur("duration", time.Since(start)).
		Msg("All contents processed")

	return stats, nil
}

// processContent enumerates and emits the attachments of one content item,
// one media type after another.
func (c *Crawler) processContent(ctx context.Context, logger zerolog.Logger, content Content, stats *Stats) error {
	stats.ContentItems++
	contentItemsTotal.Inc()

	logger.Debug().
		Str("content_id", content.ID).
		Str("title", content.Title).
		Msg("Processing content")

	for _, mediaType := range c.config.MediaTypes {
		stats.Enumerations++

		attachments, err := c.enumerator.Enumerate(ctx, content.ID, mediaType, c.config.PageSize)
		if err != nil {
			if !c.config.ContinueOnError || ctx.Err() != nil {
				return err
			}
			enumerationFailuresTotal.Inc()
			stats.Failures = append(stats.Failures, err)
			logger.Warn().
				Err(err).
				Str("content_id", content.ID).
				Str("media_type", mediaType).
				Msg("Skipping failed attachment enumeration")
			continue
		}

		for _, att := range attachments {
			rec := c.record(content, mediaType, att)
			if err := c.sink.Emit(ctx, rec); err != nil {
				return fmt.Errorf("emit %s: %w", rec.Path(), err)
			}
			stats.Records++
			recordsEmittedTotal.WithLabelValues(mediaType).Inc()
		}
	}

	return nil
}

func (c *Crawler) record(content Content, mediaType string, att Attachment) sink.Record {
	return sink.Record{
		SpaceKey:        content.Space.Key,
		ContentID:       content.ID,
		ContentTitle:    content.Title,
		AttachmentID:    att.ID,
		AttachmentTitle: att.Title,
		MediaType:       mediaType,
		DownloadURL:     c.api.DownloadURL(att),
		RawDataURL:      c.api.RawDataURL(content.ID, att.ID),
	}
}
