package paging

// Page is one numbered page. Every field is exported so that a page can be cached as JSON;
// the paginator back reference does not survive that round trip.
type Page[T any] struct {
	Items       []T  `json:"items"`
	Number      int  `json:"number"`
	NumPages    int  `json:"num_pages"`
	Count       int  `json:"count"`
	Approximate bool `json:"approximate,omitempty"`
	PerPage     int  `json:"per_page"`

	FromPage    int  `json:"from_page"`
	ToPage      int  `json:"to_page"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
	ShowFirst   bool `json:"show_first"`
	ShowLast    bool `json:"show_last"`

	paginator *Paginator[T]
}

// Paginator is nil for pages restored from a cache.
func (p *Page[T]) Paginator() *Paginator[T] {
	return p.paginator
}

func (p *Page[T]) PageNumbers() []int {

	numbers := make([]int, 0, p.ToPage-p.FromPage+1)
	for n := p.FromPage; n <= p.ToPage; n++ {
		numbers = append(numbers, n)
	}

	return numbers
}

func (p *Page[T]) NextPageNumber() int {
	return p.Number + 1
}

func (p *Page[T]) PreviousPageNumber() int {
	return p.Number - 1
}

// StartIndex is the 1-based index of the first item of the page, 0 for an empty result.
func (p *Page[T]) StartIndex() int {

	if p.Count == 0 {
		return 0
	}

	return (p.Number-1)*p.PerPage + 1
}

// EndIndex is the 1-based index of the last item of the page.
func (p *Page[T]) EndIndex() int {

	if p.Number >= p.NumPages {
		return p.Count
	}

	return p.Number * p.PerPage
}
