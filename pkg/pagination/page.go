package pagination

// Links is the pagination block of a response page.
type Links struct {
	// Next is the relative URL of the following page. Empty when the
	// collection is exhausted.
	Next string `json:"next,omitempty"`

	// Base is the server's idea of its own origin. Informational only.
	Base string `json:"base,omitempty"`
}

// Page is one server-returned batch of T plus its pagination links.
type Page[T any] struct {
	Results []T   `json:"results"`
	Links   Links `json:"_links"`
}

// HasNext reports whether another page follows this one.
func (p *Page[T]) HasNext() bool {
	return p.Links.Next != ""
}
