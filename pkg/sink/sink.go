// Package sink receives the attachment records produced by a crawl.
package sink

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Record is one matched attachment of one content item.
type Record struct {
	SpaceKey        string `json:"space_key"`
	ContentID       string `json:"content_id"`
	ContentTitle    string `json:"content_title"`
	AttachmentID    string `json:"attachment_id"`
	AttachmentTitle string `json:"attachment_title"`
	MediaType       string `json:"media_type"`
	DownloadURL     string `json:"download_url"`
	RawDataURL      string `json:"raw_data_url"`
}

// Path is the space/content/attachment display path of the record.
func (r Record) Path() string {
	return r.SpaceKey + "/" + r.ContentTitle + "/" + r.AttachmentTitle
}

// Line renders the record in the crawler's text output format:
//
//	"{space}/{content}/{attachment}" {download_url} {raw_data_url}
//
// The path is wrapped in plain double quotes without escaping, so existing
// consumers of the format parse it unchanged.
func (r Record) Line() string {
	return fmt.Sprintf(`"%s" %s %s`, r.Path(), r.DownloadURL, r.RawDataURL)
}

// Sink consumes records in crawl order.
type Sink interface {
	Emit(ctx context.Context, rec Record) error
}

// WriterSink writes one line per record to an io.Writer. Lines are written
// as they arrive, so output survives a later failure.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Emit writes rec as a single line.
func (s *WriterSink) Emit(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.WriteString(s.w, rec.Line()+"\n"); err != nil {
		sinkErrorsTotal.WithLabelValues("writer").Inc()
		return fmt.Errorf("write record: %w", err)
	}
	recordsWrittenTotal.WithLabelValues("writer").Inc()
	return nil
}

// Tee emits every record to each sink in order, stopping at the first error.
type Tee []Sink

// Emit implements Sink.
func (t Tee) Emit(ctx context.Context, rec Record) error {
	for _, s := range t {
		if err := s.Emit(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// Func adapts a function to the Sink interface.
type Func func(ctx context.Context, rec Record) error

// Emit calls f.
func (f Func) Emit(ctx context.Context, rec Record) error {
	return f(ctx, rec)
}
