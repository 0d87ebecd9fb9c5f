package confluence

import (
	"fmt"
	"net/url"
	"strings"
)

// API builds request and output URLs for one Confluence site.
type API struct {
	baseURL string
	root    string
}

// NewAPI validates baseURL (scheme and host, no query) and joins it with
// apiPath. Trailing slashes on baseURL and surrounding slashes on apiPath
// are dropped so stitched URLs never contain "//".
func NewAPI(baseURL, apiPath string) (*API, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https (got %q)", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url has no host (got %q)", baseURL)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return nil, fmt.Errorf("base url must not have a query or fragment (got %q)", baseURL)
	}

	root := baseURL
	if p := strings.Trim(strings.TrimSpace(apiPath), "/"); p != "" {
		root = baseURL + "/" + p
	}

	return &API{baseURL: baseURL, root: root}, nil
}

// BaseURL is the site origin next links and download links are relative to.
func (a *API) BaseURL() string {
	return a.baseURL
}

// Root is the REST API root, e.g. https://wiki.example.org/rest/api.
func (a *API) Root() string {
	return a.root
}

// ContentURL is the first page of current pages with their space expanded.
func (a *API) ContentURL(pageSize int) string {
	return fmt.Sprintf("%s/content?type=page&expand=space&limit=%d&status=current&start=0", a.root, pageSize)
}

// AttachmentsURL is the first page of a content item's attachments of one
// media type.
func (a *API) AttachmentsURL(contentID, mediaType string, pageSize int) string {
	return fmt.Sprintf("%s/content/%s/child/attachment?limit=%d&mediaType=%s",
		a.root, contentID, pageSize, url.QueryEscape(mediaType))
}

// DownloadURL is the browser download link of an attachment.
func (a *API) DownloadURL(att Attachment) string {
	return a.baseURL + att.Links.Download
}

// RawDataURL is the REST endpoint serving an attachment's bytes.
func (a *API) RawDataURL(contentID, attachmentID string) string {
	return fmt.Sprintf("%s/content/%s/child/attachment/%s/data", a.root, contentID, attachmentID)
}
