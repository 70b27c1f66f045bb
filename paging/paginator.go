package paging

import (
	"context"

	serverError "github.com/supakorn-kn/go-sketchpatch/errors"
)

const (
	DefaultAdjacentPages = 10
	DefaultPageOffset    = 2
)

// Query is the datastore side of the offset paginator.
type Query[T any] interface {
	Count(ctx context.Context) (int, error)
	Fetch(ctx context.Context, offset, limit int) ([]T, error)
}

type Option func(*options)

type options struct {
	orphans             int
	allowEmptyFirstPage bool
	countCap            int
	adjacentPages       int
	pageOffset          int
}

// WithOrphans merges a last page of at most n items into the page before it.
func WithOrphans(n int) Option {
	return func(o *options) { o.orphans = max(n, 0) }
}

func WithAllowEmptyFirstPage(allow bool) Option {
	return func(o *options) { o.allowEmptyFirstPage = allow }
}

// WithCountCap declares the most items the backing store will ever count.
// A count reaching the cap is reported as approximate.
func WithCountCap(n int) Option {
	return func(o *options) { o.countCap = n }
}

// WithWindow sets how many page numbers a page shows around itself
// and how many of them come before the current one. The offset is capped at adjacentPages-1 so
// that the window always holds the current page.
func WithWindow(adjacentPages, pageOffset int) Option {
	return func(o *options) {
		if adjacentPages > 0 {
			o.adjacentPages = adjacentPages
		}
		if pageOffset >= 0 {
			o.pageOffset = pageOffset
		}
		o.pageOffset = min(o.pageOffset, o.adjacentPages-1)
	}
}

// Paginator splits the result of a query in numbered pages. It memoizes the count and is meant to
// live for a single request; it is not safe for concurrent use.
type Paginator[T any] struct {
	query   Query[T]
	perPage int
	opts    options

	count *int
}

func NewPaginator[T any](query Query[T], perPage int, opts ...Option) (*Paginator[T], error) {

	if perPage < 1 {
		return nil, serverError.CurrentPageInvalidError.New()
	}

	o := options{
		allowEmptyFirstPage: true,
		adjacentPages:       DefaultAdjacentPages,
		pageOffset:          DefaultPageOffset,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Paginator[T]{query: query, perPage: perPage, opts: o}, nil
}

func (p *Paginator[T]) PerPage() int {
	return p.perPage
}

func (p *Paginator[T]) Count(ctx context.Context) (int, error) {

	if p.count != nil {
		return *p.count, nil
	}

	count, err := p.query.Count(ctx)
	if err != nil {
		return 0, err
	}

	if p.opts.countCap > 0 && count > p.opts.countCap {
		count = p.opts.countCap
	}

	p.count = &count
	return count, nil
}

// Approximate reports whether the count hit the store's count cap, in which case totals and page
// counts are lower bounds.
func (p *Paginator[T]) Approximate(ctx context.Context) (bool, error) {

	count, err := p.Count(ctx)
	if err != nil {
		return false, err
	}

	return p.opts.countCap > 0 && count >= p.opts.countCap, nil
}

func (p *Paginator[T]) NumPages(ctx context.Context) (int, error) {

	count, err := p.Count(ctx)
	if err != nil {
		return 0, err
	}

	if count == 0 && !p.opts.allowEmptyFirstPage {
		return 0, nil
	}

	hits := max(1, count-p.opts.orphans)
	return (hits + p.perPage - 1) / p.perPage, nil
}

func (p *Paginator[T]) ValidateNumber(ctx context.Context, number int) (int, error) {

	if number < 1 {
		return 0, serverError.InvalidPageError.New(number)
	}

	numPages, err := p.NumPages(ctx)
	if err != nil {
		return 0, err
	}

	if number > numPages {

		count, err := p.Count(ctx)
		if err != nil {
			return 0, err
		}

		if number == 1 && p.opts.allowEmptyFirstPage && count == 0 {
			return number, nil
		}

		return 0, serverError.InvalidPageError.New(number)
	}

	return number, nil
}

// Page returns the 1-based page number. The last page also carries the orphans.
func (p *Paginator[T]) Page(ctx context.Context, number int) (*Page[T], error) {

	number, err := p.ValidateNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	count, err := p.Count(ctx)
	if err != nil {
		return nil, err
	}

	numPages, err := p.NumPages(ctx)
	if err != nil {
		return nil, err
	}

	approximate, err := p.Approximate(ctx)
	if err != nil {
		return nil, err
	}

	bottom := (number - 1) * p.perPage
	top := bottom + p.perPage
	if top+p.opts.orphans >= count {
		top = count
	}

	items := make([]T, 0)
	if top > bottom {

		items, err = p.query.Fetch(ctx, bottom, top-bottom)
		if err != nil {
			return nil, err
		}
	}

	page := &Page[T]{
		Items:       items,
		Number:      number,
		NumPages:    numPages,
		Count:       count,
		Approximate: approximate,
		PerPage:     p.perPage,
		paginator:   p,
	}
	page.FromPage, page.ToPage = Window(number, numPages, p.opts.adjacentPages, p.opts.pageOffset)
	page.HasNext = number < numPages
	page.HasPrevious = number > 1
	page.ShowFirst = page.FromPage > 1
	page.ShowLast = page.ToPage < numPages

	return page, nil
}

// Window returns the page numbers shown around current: adjacent pages starting offset pages
// before it, shifted to stay within [1, numPages].
func Window(current, numPages, adjacent, offset int) (from, to int) {

	if numPages < 1 {
		return 1, 1
	}

	if numPages <= adjacent {
		return 1, numPages
	}

	offset = max(min(offset, adjacent-1), 0)

	from = current - offset
	to = from + adjacent - 1

	if from < 1 {
		from, to = 1, adjacent
	}

	if to > numPages {
		from, to = numPages-adjacent+1, numPages
	}

	return from, to
}
