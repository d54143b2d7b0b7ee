package pagination

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultPageSize is the fixed page size of the listing and ratings endpoints.
const DefaultPageSize = 20

// PageCount returns ceil(total / pageSize). Non-positive totals yield 0 pages.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Total combines the "remaining" field of a page with the records on it.
func Total(remaining, onPage int) int {
	if remaining < 0 {
		remaining = 0
	}
	return remaining + onPage
}

// PageError reports which page of a walk failed.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}

// Walk calls fetch for pages 1..pages in order and stops at the first error.
// The context is checked before every page.
func Walk(ctx context.Context, pages int, fetch func(ctx context.Context, page int) error) error {
	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			return &PageError{Page: page, Err: err}
		}
		if err := fetch(ctx, page); err != nil {
			return &PageError{Page: page, Err: err}
		}
	}
	return nil
}

// Collect walks pages 1..pages and concatenates the records of every page in
// arrival order. onPage, if set, is called after each page with the page number
// and the number of records it contributed.
func Collect[T any](ctx context.Context, pages int, fetch func(ctx context.Context, page int) ([]T, error), onPage func(page, n int)) ([]T, error) {
	start := time.Now()
	var out []T

	err := Walk(ctx, pages, func(ctx context.Context, page int) error {
		records, err := fetch(ctx, page)
		if err != nil {
			return err
		}
		out = append(out, records...)

		log.Debug().
			Int("page", page).
			Int("pages", pages).
			Int("records", len(records)).
			Msg("Page fetched")

		if onPage != nil {
			onPage(page, len(records))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("pages", pages).
		Int("records", len(out)).
		Dur("duration", time.Since(start)).
		Msg("Pagination complete")

	return out, nil
}
