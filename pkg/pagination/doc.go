// Package pagination walks "remaining"-style paginated endpoints page by page.
//
// The remote API reports how many records exist beyond the current page. The
// total is therefore remaining + len(page), and the number of pages to request
// is ceil(total / pageSize). Pages are requested strictly in order, one at a
// time:
//
//	pages := pagination.PageCount(remaining+len(first), pagination.DefaultPageSize)
//	rows, err := pagination.Collect(ctx, pages, fetchPage, nil)
//
// A failing page stops the walk; rows collected so far are discarded by
// Collect and the error carries the page number.
package pagination
