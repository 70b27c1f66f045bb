// Package paging slices datastore results into pages, either by bookmark (resume at a key)
// or by page number.
package paging

import (
	"context"
	"encoding/base64"

	serverError "github.com/supakorn-kn/go-sketchpatch/errors"
	"github.com/supakorn-kn/go-sketchpatch/keys"
)

var bookmarkEncoding = base64.RawURLEncoding

// Keyed is implemented by every row that can be paged by bookmark. GetID returns its ordering key.
type Keyed interface {
	GetID() string
}

// RangeFetcher reads at most limit rows with start <= key < end in ascending key order.
// An empty end leaves the range open.
type RangeFetcher[T Keyed] interface {
	FetchRange(ctx context.Context, start, end string, limit int) ([]T, error)
}

// CursorPage is one page of a bookmark paged listing. Next is empty on the last page.
type CursorPage[T any] struct {
	Items    []T    `json:"items"`
	Bookmark string `json:"bookmark"`
	Next     string `json:"next,omitempty"`
}

func (p CursorPage[T]) HasNext() bool {
	return p.Next != ""
}

func EncodeBookmark(key string) string {
	return bookmarkEncoding.EncodeToString([]byte(key))
}

func DecodeBookmark(bookmark string) (string, error) {

	b, err := bookmarkEncoding.DecodeString(bookmark)
	if err != nil || len(b) == 0 {
		return "", serverError.InvalidBookmarkError.New(bookmark)
	}

	return string(b), nil
}

// FetchPage reads one page of scope starting at bookmark, inclusive.
//
// One extra row is read to learn whether another page exists. Its key becomes the next bookmark
// verbatim, so that row opens the following page. Writes between calls can make rows appear
// twice or be skipped: ordering across pages is best effort.
func FetchPage[T Keyed](ctx context.Context, src RangeFetcher[T], scope keys.Range, bookmark string, size int) (CursorPage[T], error) {

	if size < 1 {
		return CursorPage[T]{}, serverError.CurrentPageInvalidError.New()
	}

	start := scope.Start
	if bookmark != "" {

		key, err := DecodeBookmark(bookmark)
		if err != nil {
			return CursorPage[T]{}, err
		}

		// a bookmark from another scope restarts the listing
		if scope.Contains(key) {
			start = key
		}
	}

	items, err := src.FetchRange(ctx, start, scope.End, size+1)
	if err != nil {
		return CursorPage[T]{}, err
	}

	page := CursorPage[T]{
		Items:    items,
		Bookmark: EncodeBookmark(start),
	}

	if len(items) > size {
		page.Next = EncodeBookmark(items[size].GetID())
		page.Items = items[:size]
	}

	if page.Items == nil {
		page.Items = make([]T, 0)
	}

	return page, nil
}
