package paginator

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"  ", 1},
		{"1", 1},
		{"2", 2},
		{" 3 ", 3},
		{"0", 0},
		{"-4", -4},
		{"abc", 1},
		{"2.5", 1},
		{"last", 1},
		{"99999999999999999999", math.MaxInt},
		{"-99999999999999999999", math.MinInt},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.raw))
		})
	}
}

func TestPaginateThirteenByTen(t *testing.T) {
	items := seq(13)

	first := Paginate(items, 10, "1")
	require.Len(t, first.Items, 10)
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, 2, first.NumPages)
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrevious())
	assert.Equal(t, 2, first.NextNumber())

	second := Paginate(items, 10, "2")
	require.Len(t, second.Items, 3)
	assert.Equal(t, []int{11, 12, 13}, second.Items)
	assert.False(t, second.HasNext())
	assert.True(t, second.HasPrevious())
	assert.Equal(t, 1, second.PreviousNumber())
	assert.Equal(t, 11, second.StartIndex())
	assert.Equal(t, 13, second.EndIndex())

	third := Paginate(items, 10, "3")
	assert.Equal(t, 2, third.Number)
	assert.Equal(t, second.Items, third.Items)
}

func TestPaginateDegradesGracefully(t *testing.T) {
	items := seq(25)
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"missing", "", 1},
		{"non-numeric", "abc", 1},
		{"zero", "0", 3},
		{"negative", "-1", 3},
		{"beyond last", "99", 3},
		{"last", "3", 3},
		{"overflowing", "99999999999999999999", 3},
		{"overflowing negative", "-99999999999999999999", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Paginate(items, 10, tt.raw)
			assert.Equal(t, tt.want, page.Number)
		})
	}
}

func TestPaginatePartitionsEverySize(t *testing.T) {
	for m := 0; m <= 31; m++ {
		for n := 1; n <= 12; n++ {
			items := seq(m)
			wantPages := (m + n - 1) / n
			if wantPages == 0 {
				wantPages = 1
			}

			var seen []int
			for p := 1; p <= wantPages; p++ {
				page := Paginate(items, n, strconv.Itoa(p))
				if page.NumPages != wantPages {
					t.Fatalf("m=%d n=%d: NumPages = %d, want %d", m, n, page.NumPages, wantPages)
				}
				wantLen := n
				if p == wantPages && m%n != 0 {
					wantLen = m % n
				}
				if m == 0 {
					wantLen = 0
				}
				if len(page.Items) != wantLen {
					t.Fatalf("m=%d n=%d page=%d: len = %d, want %d", m, n, p, len(page.Items), wantLen)
				}
				seen = append(seen, page.Items...)
			}
			if m > 0 {
				assert.Equal(t, items, seen, "m=%d n=%d", m, n)
			}
		}
	}
}

func TestPaginateEmpty(t *testing.T) {
	page := Paginate([]string{}, 10, "5")
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.NumPages)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasOtherPages())
	assert.Equal(t, 0, page.StartIndex())
	assert.Equal(t, 0, page.EndIndex())
}

func TestClampNonPositiveSize(t *testing.T) {
	w := Clamp(3, 0, 2)
	assert.Equal(t, 1, w.Size)
	assert.Equal(t, 3, w.NumPages)
	assert.Equal(t, 1, w.Offset())
}
