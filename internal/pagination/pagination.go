// Package pagination drains page-numbered collections such as the GitHub
// REST listings into a single ordered slice.
package pagination

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Page is one fetched page of a collection. Links carries the raw pagination
// metadata returned with it, usually the HTTP Link header.
type Page[T any] struct {
	Items []T
	Links string
}

// FetchFunc fetches a single page. Page 0 requests the collection without a
// page parameter, which the server answers with its first page.
type FetchFunc[T any] func(ctx context.Context, page int) (*Page[T], error)

// Drain fetches the un-paged first page, discovers the referenced page
// numbers from its links and fetches every page in that range in order.
// Errors are returned as-is from the first failing fetch; nothing is retried.
func Drain[T any](ctx context.Context, fetch FetchFunc[T]) ([]T, error) {
	first, err := fetch(ctx, 0)
	if err != nil {
		return nil, err
	}
	if first == nil {
		return nil, nil
	}

	items := append([]T(nil), first.Items...)

	low, high, ok := PageRange(first.Links)
	if !ok {
		return items, nil
	}

	// the un-paged request already returned page 1
	if low < 2 {
		low = 2
	}

	for page := low; page <= high; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next, err := fetch(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		if next != nil {
			items = append(items, next.Items...)
		}
	}

	return items, nil
}

// PageRange returns the lowest and highest page number referenced by links
func PageRange(links string) (int, int, bool) {
	pages := ParsePageNumbers(links)
	if len(pages) == 0 {
		return 0, 0, false
	}
	return pages[0], pages[len(pages)-1], true
}

// ParsePageNumbers returns the sorted, distinct page numbers referenced by a
// pagination link string. It looks at query parameters only, so it accepts a
// full Link header, a partial one, or bare URLs.
func ParsePageNumbers(links string) []int {
	tokens := strings.FieldsFunc(links, isLinkSeparator)

	seen := make(map[int]struct{})
	var pages []int
	for _, token := range tokens {
		value, ok := strings.CutPrefix(token, "page=")
		if !ok {
			continue
		}
		page, err := strconv.Atoi(value)
		if err != nil || page < 1 {
			continue
		}
		if _, dup := seen[page]; dup {
			continue
		}
		seen[page] = struct{}{}
		pages = append(pages, page)
	}

	sort.Ints(pages)
	return pages
}

func isLinkSeparator(r rune) bool {
	switch r {
	case '?', '&', ';', ',', '<', '>', '"', '\'', '#':
		return true
	}
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
