package confluence

import (
	"context"
	"fmt"

	"github.com/Sternrassler/confluence-crawler/pkg/pagination"
)

// EnumerationError is a failed attachment enumeration for one content item
// and media type.
type EnumerationError struct {
	ContentID string
	MediaType string
	Err       error
}

// Error implements the error interface.
func (e *EnumerationError) Error() string {
	return fmt.Sprintf("enumerate %s attachments of content %s: %v", e.MediaType, e.ContentID, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *EnumerationError) Unwrap() error {
	return e.Err
}

// Enumerator lists the attachments of a content item. It keeps nothing
// between calls.
type Enumerator struct {
	api    *API
	walker *pagination.Walker[Attachment]
}

// NewEnumerator creates an enumerator fetching through fetcher.
func NewEnumerator(api *API, fetcher pagination.Fetcher, cfg pagination.Config) *Enumerator {
	if cfg.Collection == "" {
		cfg.Collection = "attachment"
	}
	return &Enumerator{
		api:    api,
		walker: pagination.NewWalker[Attachment](fetcher, api.BaseURL(), cfg),
	}
}

// Enumerate returns every attachment of contentID with the given media
// type, across all pages, in arrival order.
func (e *Enumerator) Enumerate(ctx context.Context, contentID, mediaType string, pageSize int) ([]Attachment, error) {
	startURL := e.api.AttachmentsURL(contentID, mediaType, pageSize)

	attachments, err := e.walker.Collect(ctx, startURL)
	if err != nil {
		return nil, &EnumerationError{ContentID: contentID, MediaType: mediaType, Err: err}
	}
	return attachments, nil
}
