package availability

import (
	"sort"
	"strings"

	"github.com/localnerve/unilib/internal/models"
)

// Pagination bounds
const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// Sort keys accepted by search
const (
	SortTitle      = ""
	SortRating     = "rating"
	SortPopularity = "popularity"
)

// ListOptions carries the search/listing parameters after clamping
type ListOptions struct {
	Query  string
	Genres []string
	Sort   string
	Page   int
	Limit  int
}

// Clamp normalizes page and limit to the allowed bounds
func (o ListOptions) Clamp() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = DefaultPageSize
	}
	if o.Limit > MaxPageSize {
		o.Limit = MaxPageSize
	}
	return o
}

// EscapeLike escapes the SQL LIKE wildcards in a user-supplied search term so
// it matches as a literal substring. Queries using the result must carry
// ESCAPE '\'.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// MatchesGenres reports whether the book's tag set intersects the requested
// set. An empty request matches everything.
func MatchesGenres(genres models.StringList, requested []string) bool {
	if len(requested) == 0 {
		return true
	}
	for _, want := range requested {
		if genres.Contains(want) {
			return true
		}
	}
	return false
}

// FilterGenres keeps the views whose genre tags intersect the requested set
func FilterGenres(items []BookView, requested []string) []BookView {
	if len(requested) == 0 {
		return items
	}
	out := items[:0]
	for _, it := range items {
		if MatchesGenres(it.Genres, requested) {
			out = append(out, it)
		}
	}
	return out
}

// Sort orders the views by the given key: rating descending, popularity
// (borrow count) descending, or title ascending by default. Ties fall back to
// title so the ordering is stable across calls.
func Sort(items []BookView, key string) {
	byTitle := func(a, b BookView) bool {
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	}
	switch key {
	case SortRating:
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Rating != items[j].Rating {
				return items[i].Rating > items[j].Rating
			}
			return byTitle(items[i], items[j])
		})
	case SortPopularity:
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].BorrowCount != items[j].BorrowCount {
				return items[i].BorrowCount > items[j].BorrowCount
			}
			return byTitle(items[i], items[j])
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return byTitle(items[i], items[j])
		})
	}
}

// Paginate slices one page out of the ordered views and reports the totals
func Paginate(items []BookView, page, limit int) (pageItems []BookView, total, totalPages int) {
	total = len(items)
	if limit < 1 {
		limit = DefaultPageSize
	}
	totalPages = (total + limit - 1) / limit
	start := (page - 1) * limit
	if start >= total {
		return []BookView{}, total, totalPages
	}
	end := start + limit
	if end > total {
		end = total
	}
	return items[start:end], total, totalPages
}
