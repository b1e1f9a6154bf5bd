// Package releases selects stale GitHub releases page by page and removes them,
// optionally together with their tags.
package releases
