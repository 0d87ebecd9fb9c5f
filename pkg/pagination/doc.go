// Package pagination walks cursor-paginated REST collections.
//
// Each response page carries a batch of results and an optional relative
// "next" link. The walker requests the start URL, yields the page, and then
// requests origin+next until a page arrives without a next link:
//
//	walker := pagination.NewWalker[confluence.Content](httpClient, "https://wiki.example.org", pagination.DefaultConfig())
//	for item, err := range walker.Items(ctx, startURL) {
//		if err != nil {
//			return err
//		}
//		// use item
//	}
//
// The walker:
//   - Fetches pages strictly one after another, in server order
//   - Keeps going across empty pages that still carry a next link
//   - Never rewrites the server's next link beyond prefixing the origin
//   - Stops at the first failure and reports the page URL that failed
//   - Checks the context before every request
//   - Enforces an optional upper bound on pages per walk
package pagination
