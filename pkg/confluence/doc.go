// Package confluence crawls a Confluence REST API for attachments.
//
// The Crawler walks every current page in the content collection, and for
// each one asks the Enumerator for the attachments of every configured media
// type. Each attachment becomes a sink.Record with a browser download URL
// and a raw data URL under the REST API root.
//
// Traversal order is content page order, then content order within a page,
// then media type order as configured, then attachment arrival order.
package confluence
