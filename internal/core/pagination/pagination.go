// Package pagination does the fixed-size windowing arithmetic behind every listing.
package pagination

import (
	"math"
	"strconv"
)

// DefaultSize is the number of items on one listing page.
const DefaultSize = 10

// Page describes one window over an ordered result set of Total items.
type Page struct {
	Number int
	Size   int
	Total  int64
}

// New builds a page; numbers below 1 select the first page.
func New(number, size int, total int64) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultSize
	}
	if total < 0 {
		total = 0
	}
	return Page{Number: number, Size: size, Total: total}
}

// ParseNumber reads a ?page= value; anything unusable means page 1.
func ParseNumber(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Offset saturates at math.MaxInt so huge page numbers stay past the end.
func (p Page) Offset() int {
	if p.Number-1 > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Size
}

func (p Page) Limit() int {
	return p.Size
}

// NumPages is never below 1, an empty listing still has one (empty) page.
func (p Page) NumPages() int {
	if p.Total == 0 {
		return 1
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}

// InRange reports whether the page holds any items at all.
func (p Page) InRange() bool {
	return int64(p.Offset()) < p.Total
}

// Len is the number of items that fall on this page.
func (p Page) Len() int {
	if !p.InRange() {
		return 0
	}
	rest := p.Total - int64(p.Offset())
	if rest > int64(p.Size) {
		return p.Size
	}
	return int(rest)
}

func (p Page) HasNext() bool {
	return p.Number < p.NumPages()
}

func (p Page) HasPrevious() bool {
	return p.Number > 1
}
