package confluence

import "github.com/Sternrassler/confluence-crawler/pkg/pagination"

// Space is the space a content item belongs to.
type Space struct {
	ID  int64  `json:"id"`
	Key string `json:"key"`
}

// ContentLinks holds the links of a content item.
type ContentLinks struct {
	WebUI string `json:"webui"`
}

// Content is a page returned by the content collection.
type Content struct {
	ID    string       `json:"id"`
	Space Space        `json:"space"`
	Title string       `json:"title"`
	Links ContentLinks `json:"_links"`
}

// AttachmentLinks holds the links of an attachment.
type AttachmentLinks struct {
	// Download is relative to the site base URL.
	Download string `json:"download"`
}

// Attachment is a file attached to a content item.
type Attachment struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Links AttachmentLinks `json:"_links"`
}

// ContentPage is one page of the content collection.
type ContentPage = pagination.Page[Content]

// AttachmentPage is one page of a content item's attachments.
type AttachmentPage = pagination.Page[Attachment]
