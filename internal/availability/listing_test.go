package availability

import (
	"testing"

	"github.com/localnerve/unilib/internal/models"
	"github.com/stretchr/testify/assert"
)

func view(title string, rating float64, borrowCount int, genres ...string) BookView {
	return BookView{BookItem: models.BookItem{
		Title:       title,
		Rating:      rating,
		BorrowCount: borrowCount,
		Genres:      models.StringList(genres),
	}}
}

func titles(items []BookView) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestClamp(t *testing.T) {
	opts := ListOptions{Page: 0, Limit: 0}.Clamp()
	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, DefaultPageSize, opts.Limit)

	opts = ListOptions{Page: 3, Limit: 500}.Clamp()
	assert.Equal(t, 3, opts.Page)
	assert.Equal(t, MaxPageSize, opts.Limit)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, EscapeLike(`100%`))
	assert.Equal(t, `a\_b`, EscapeLike(`a_b`))
	assert.Equal(t, `c:\\dir`, EscapeLike(`c:\dir`))
	assert.Equal(t, `plain`, EscapeLike(`plain`))
}

func TestMatchesGenres(t *testing.T) {
	genres := models.StringList{"fantasy", "sci-fi"}
	assert.True(t, MatchesGenres(genres, nil))
	assert.True(t, MatchesGenres(genres, []string{"sci-fi"}))
	assert.True(t, MatchesGenres(genres, []string{"horror", "fantasy"}))
	assert.False(t, MatchesGenres(genres, []string{"horror"}))
	assert.False(t, MatchesGenres(nil, []string{"horror"}))
}

func TestSort(t *testing.T) {
	items := func() []BookView {
		return []BookView{
			view("Charlie", 3.0, 10),
			view("alpha", 5.0, 2),
			view("Bravo", 3.0, 7),
		}
	}

	byTitle := items()
	Sort(byTitle, SortTitle)
	assert.Equal(t, []string{"alpha", "Bravo", "Charlie"}, titles(byTitle))

	byRating := items()
	Sort(byRating, SortRating)
	// Rating desc, title breaks the tie
	assert.Equal(t, []string{"alpha", "Bravo", "Charlie"}, titles(byRating))

	byPopularity := items()
	Sort(byPopularity, SortPopularity)
	assert.Equal(t, []string{"Charlie", "Bravo", "alpha"}, titles(byPopularity))
}

func TestPaginate(t *testing.T) {
	items := []BookView{
		view("a", 0, 0), view("b", 0, 0), view("c", 0, 0),
		view("d", 0, 0), view("e", 0, 0),
	}

	page, total, pages := Paginate(items, 1, 2)
	assert.Equal(t, []string{"a", "b"}, titles(page))
	assert.Equal(t, 5, total)
	assert.Equal(t, 3, pages)

	page, _, _ = Paginate(items, 3, 2)
	assert.Equal(t, []string{"e"}, titles(page))

	// Past the end: empty page, totals intact
	page, total, pages = Paginate(items, 9, 2)
	assert.Empty(t, page)
	assert.Equal(t, 5, total)
	assert.Equal(t, 3, pages)

	page, total, pages = Paginate(nil, 1, 2)
	assert.Empty(t, page)
	assert.Equal(t, 0, total)
	assert.Equal(t, 0, pages)
}
