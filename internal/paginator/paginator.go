// Package paginator splits ordered sequences into fixed-size pages.
//
// Page numbers are 1-indexed and come from an untrusted request parameter.
// Parsing and clamping never fail: a missing or non-numeric number selects the
// first page, and a number outside [1, NumPages] selects the last page.
package paginator

import (
	"errors"
	"strconv"
	"strings"
)

// Window describes one page of a sequence of Total items.
type Window struct {
	// Number is the 1-indexed page number after clamping.
	Number int

	// NumPages is the total number of pages. Always at least 1.
	NumPages int

	// Size is the configured page size.
	Size int

	// Total is the number of items in the whole sequence.
	Total int
}

// ParseNumber reads a raw page parameter.
// Empty or non-numeric input yields 1. Numeric input is returned unchanged,
// including zero and negative values, so that Clamp can move them to the last page.
// Integers too large for an int saturate at the int bounds.
func ParseNumber(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) {
		return n
	}
	if err != nil {
		return 1
	}
	return n
}

// Clamp returns the window for the requested page of a sequence of total items.
func Clamp(total, size, requested int) Window {
	if size < 1 {
		size = 1
	}
	if total < 0 {
		total = 0
	}
	numPages := (total + size - 1) / size
	if numPages < 1 {
		numPages = 1
	}
	number := requested
	if number < 1 || number > numPages {
		number = numPages
	}
	return Window{
		Number:   number,
		NumPages: numPages,
		Size:     size,
		Total:    total,
	}
}

// Offset is the index of the first item on the page.
func (w Window) Offset() int {
	return (w.Number - 1) * w.Size
}

// Limit is the maximum number of items on the page.
func (w Window) Limit() int {
	return w.Size
}

// Len is the number of items actually on the page.
func (w Window) Len() int {
	n := w.Total - w.Offset()
	if n > w.Size {
		return w.Size
	}
	if n < 0 {
		return 0
	}
	return n
}

func (w Window) HasNext() bool     { return w.Number < w.NumPages }
func (w Window) HasPrevious() bool { return w.Number > 1 }

// HasOtherPages reports whether there is more than one page.
func (w Window) HasOtherPages() bool { return w.NumPages > 1 }

// NextNumber returns the following page number. Only meaningful when HasNext.
func (w Window) NextNumber() int { return w.Number + 1 }

// PreviousNumber returns the preceding page number. Only meaningful when HasPrevious.
func (w Window) PreviousNumber() int { return w.Number - 1 }

// StartIndex is the 1-based position of the first item on the page, or 0 when empty.
func (w Window) StartIndex() int {
	if w.Total == 0 {
		return 0
	}
	return w.Offset() + 1
}

// EndIndex is the 1-based position of the last item on the page.
func (w Window) EndIndex() int {
	return w.Offset() + w.Len()
}

// Page is a window together with the items it contains.
type Page[T any] struct {
	Window
	Items []T
}

// Paginate slices items into the page selected by the raw page parameter.
// The returned Items share the backing array of items.
func Paginate[T any](items []T, size int, raw string) Page[T] {
	w := Clamp(len(items), size, ParseNumber(raw))
	start := w.Offset()
	return Page[T]{
		Window: w,
		Items:  items[start : start+w.Len()],
	}
}
