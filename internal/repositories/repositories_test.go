package repositories_test

import (
	"context"
	"math"
	"testing"

	"yamdb/internal/apperror"
	"yamdb/internal/database"
	"yamdb/internal/models"
	"yamdb/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	users      *repositories.GORMUserRepository
	categories *repositories.GORMCategoryRepository
	genres     *repositories.GORMGenreRepository
	titles     *repositories.GORMTitleRepository
	reviews    *repositories.GORMReviewRepository
	comments   *repositories.GORMCommentRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	return &fixture{
		db:         db,
		users:      repositories.NewGORMUserRepository(db),
		categories: repositories.NewGORMCategoryRepository(db),
		genres:     repositories.NewGORMGenreRepository(db),
		titles:     repositories.NewGORMTitleRepository(db),
		reviews:    repositories.NewGORMReviewRepository(db),
		comments:   repositories.NewGORMCommentRepository(db),
	}
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) title(t *testing.T, name string, year int, category *models.Category, genres ...models.Genre) *models.Title {
	t.Helper()
	title := &models.Title{Name: name, Year: year, Genres: genres}
	if category != nil {
		title.CategoryID = &category.ID
	}
	require.NoError(t, f.titles.Create(context.Background(), title))
	return title
}

func (f *fixture) review(t *testing.T, author *models.User, title *models.Title, score int) *models.Review {
	t.Helper()
	r := &models.Review{AuthorID: author.ID, TitleID: title.ID, Text: "text", Score: score}
	require.NoError(t, f.reviews.Create(context.Background(), r))
	return r
}

func TestUserRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "alice")
	assert.NotZero(t, alice.ID)
	assert.Equal(t, models.RoleUser, alice.Role)

	got, err := f.users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.Email, got.Email)

	_, err = f.users.GetByEmail(ctx, "nobody@example.com")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	dup := &models.User{Username: "alice", Email: "other@example.com"}
	err = f.users.Create(ctx, dup)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	dupEmail := &models.User{Username: "alice2", Email: "alice@example.com"}
	assert.True(t, apperror.Is(f.users.Create(ctx, dupEmail), apperror.KindConflict))

	got.Bio = "reader"
	got.Role = models.RoleModerator
	require.NoError(t, f.users.Update(ctx, got))
	reloaded, err := f.users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "reader", reloaded.Bio)
	assert.Equal(t, models.RoleModerator, reloaded.Role)
}

func TestUserRepositoryListSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, name := range []string{"anna", "bob", "hannah", "zed"} {
		f.user(t, name)
	}

	users, total, err := f.users.List(ctx, "ANN", repositories.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, users, 2)
	assert.Equal(t, "anna", users[0].Username)
	assert.Equal(t, "hannah", users[1].Username)

	users, total, err = f.users.List(ctx, "", repositories.Page{Number: 2, Size: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, users, 1)
	assert.Equal(t, "zed", users[0].Username)
}

func TestUserDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author")
	reader := f.user(t, "reader")
	title := f.title(t, "Dune", 1965, nil)

	own := f.review(t, author, title, 9)
	other := f.review(t, reader, title, 7)
	require.NoError(t, f.comments.Create(ctx, &models.Comment{AuthorID: reader.ID, ReviewID: own.ID, Text: "agree"}))
	require.NoError(t, f.comments.Create(ctx, &models.Comment{AuthorID: author.ID, ReviewID: other.ID, Text: "no"}))

	require.NoError(t, f.users.Delete(ctx, "author"))

	var reviews, comments int64
	f.db.Model(&models.Review{}).Count(&reviews)
	f.db.Model(&models.Comment{}).Count(&comments)
	assert.EqualValues(t, 1, reviews)
	assert.Zero(t, comments)

	assert.True(t, apperror.Is(f.users.Delete(ctx, "author"), apperror.KindNotFound))
}

func TestCatalogRepositories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.categories.Create(ctx, &models.Category{Name: "Books", Slug: "books"}))
	require.NoError(t, f.categories.Create(ctx, &models.Category{Name: "Films", Slug: "films"}))
	err := f.categories.Create(ctx, &models.Category{Name: "Books again", Slug: "books"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	cats, total, err := f.categories.List(ctx, "fil", repositories.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "films", cats[0].Slug)

	require.NoError(t, f.genres.Create(ctx, &models.Genre{Name: "Drama", Slug: "drama"}))
	require.NoError(t, f.genres.Create(ctx, &models.Genre{Name: "Comedy", Slug: "comedy"}))

	genres, err := f.genres.GetBySlugs(ctx, []string{"comedy", "drama"})
	require.NoError(t, err)
	assert.Len(t, genres, 2)

	_, err = f.genres.GetBySlugs(ctx, []string{"drama", "horror"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.genres.GetBySlug(ctx, "horror")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestCategoryDeleteDetachesTitles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	books := &models.Category{Name: "Books", Slug: "books"}
	require.NoError(t, f.categories.Create(ctx, books))
	title := f.title(t, "Dune", 1965, books)

	require.NoError(t, f.categories.Delete(ctx, "books"))

	got, err := f.titles.GetByID(ctx, title.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.Category)
	assert.True(t, apperror.Is(f.categories.Delete(ctx, "books"), apperror.KindNotFound))
}

func TestGenreDeleteDetachesTitles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	drama := models.Genre{Name: "Drama", Slug: "drama"}
	scifi := models.Genre{Name: "Sci-Fi", Slug: "sci-fi"}
	require.NoError(t, f.genres.Create(ctx, &drama))
	require.NoError(t, f.genres.Create(ctx, &scifi))
	title := f.title(t, "Dune", 1965, nil, drama, scifi)

	require.NoError(t, f.genres.Delete(ctx, "drama"))

	got, err := f.titles.GetByID(ctx, title.ID)
	require.NoError(t, err)
	require.Len(t, got.Genres, 1)
	assert.Equal(t, "sci-fi", got.Genres[0].Slug)
}

func TestTitleRating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	title := f.title(t, "Dune", 1965, nil)

	got, err := f.titles.GetByID(ctx, title.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Rating)

	scores := []int{10, 7, 8}
	for i, score := range scores {
		f.review(t, f.user(t, "critic"+string(rune('a'+i))), title, score)
	}

	got, err = f.titles.GetByID(ctx, title.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 25.0/3.0, *got.Rating, 1e-9)

	list, _, err := f.titles.List(ctx, repositories.TitleFilter{}, repositories.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Rating)
	assert.InDelta(t, 25.0/3.0, *list[0].Rating, 1e-9)
}

func TestTitleFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	books := &models.Category{Name: "Books", Slug: "books"}
	films := &models.Category{Name: "Films", Slug: "films"}
	require.NoError(t, f.categories.Create(ctx, books))
	require.NoError(t, f.categories.Create(ctx, films))
	drama := models.Genre{Name: "Drama", Slug: "drama"}
	scifi := models.Genre{Name: "Sci-Fi", Slug: "sci-fi"}
	require.NoError(t, f.genres.Create(ctx, &drama))
	require.NoError(t, f.genres.Create(ctx, &scifi))

	f.title(t, "Dune", 1965, books, scifi, drama)
	f.title(t, "Dune", 1984, films, scifi)
	f.title(t, "The Godfather", 1972, films, drama)

	cases := []struct {
		name   string
		filter repositories.TitleFilter
		want   int64
	}{
		{"all", repositories.TitleFilter{}, 3},
		{"category", repositories.TitleFilter{CategorySlug: "films"}, 2},
		{"genre", repositories.TitleFilter{GenreSlug: "drama"}, 2},
		{"name", repositories.TitleFilter{Name: "dUN"}, 2},
		{"year", repositories.TitleFilter{Year: 1972}, 1},
		{"combined", repositories.TitleFilter{GenreSlug: "sci-fi", CategorySlug: "films"}, 1},
		{"unknown genre", repositories.TitleFilter{GenreSlug: "horror"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			titles, total, err := f.titles.List(ctx, tc.filter, repositories.Page{Number: 1, Size: 10})
			require.NoError(t, err)
			assert.Equal(t, tc.want, total)
			assert.Len(t, titles, int(tc.want))
		})
	}

	titles, _, err := f.titles.List(ctx, repositories.TitleFilter{GenreSlug: "sci-fi", Year: 1965}, repositories.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, titles, 1)
	assert.Len(t, titles[0].Genres, 2)
	require.NotNil(t, titles[0].Category)
	assert.Equal(t, "books", titles[0].Category.Slug)
}

func TestTitleUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	drama := models.Genre{Name: "Drama", Slug: "drama"}
	scifi := models.Genre{Name: "Sci-Fi", Slug: "sci-fi"}
	require.NoError(t, f.genres.Create(ctx, &drama))
	require.NoError(t, f.genres.Create(ctx, &scifi))
	title := f.title(t, "Dune", 1965, nil, drama)

	title.Name = "Dune Messiah"
	title.Year = 1969
	require.NoError(t, f.titles.Update(ctx, title, nil))
	got, err := f.titles.GetByID(ctx, title.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", got.Name)
	require.Len(t, got.Genres, 1)

	require.NoError(t, f.titles.Update(ctx, title, []models.Genre{scifi}))
	got, err = f.titles.GetByID(ctx, title.ID)
	require.NoError(t, err)
	require.Len(t, got.Genres, 1)
	assert.Equal(t, "sci-fi", got.Genres[0].Slug)

	require.NoError(t, f.titles.Update(ctx, title, []models.Genre{}))
	got, err = f.titles.GetByID(ctx, title.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Genres)

	missing := &models.Title{ID: 999, Name: "x", Year: 2000}
	assert.True(t, apperror.Is(f.titles.Update(ctx, missing, nil), apperror.KindNotFound))
}

func TestTitleDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author")
	title := f.title(t, "Dune", 1965, nil)
	keep := f.title(t, "Solaris", 1961, nil)
	review := f.review(t, author, title, 8)
	f.review(t, author, keep, 6)
	require.NoError(t, f.comments.Create(ctx, &models.Comment{AuthorID: author.ID, ReviewID: review.ID, Text: "self"}))

	require.NoError(t, f.titles.Delete(ctx, title.ID))

	var reviews, comments int64
	f.db.Model(&models.Review{}).Count(&reviews)
	f.db.Model(&models.Comment{}).Count(&comments)
	assert.EqualValues(t, 1, reviews)
	assert.Zero(t, comments)

	_, err := f.titles.GetByID(ctx, title.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestReviewUniquePerAuthorAndTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author")
	title := f.title(t, "Dune", 1965, nil)
	f.review(t, author, title, 8)

	exists, err := f.reviews.ExistsForAuthor(ctx, author.ID, title.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	err = f.reviews.Create(ctx, &models.Review{AuthorID: author.ID, TitleID: title.ID, Text: "again", Score: 3})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, repositories.ReviewConflict, appErr.Message)
}

func TestReviewAndCommentScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author")
	dune := f.title(t, "Dune", 1965, nil)
	solaris := f.title(t, "Solaris", 1961, nil)
	review := f.review(t, author, dune, 8)

	got, err := f.reviews.GetByID(ctx, dune.ID, review.ID)
	require.NoError(t, err)
	assert.Equal(t, "author", got.Author.Username)
	assert.Equal(t, "Dune", got.Title.Name)
	assert.False(t, got.PubDate.IsZero())

	_, err = f.reviews.GetByID(ctx, solaris.ID, review.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	comment := &models.Comment{AuthorID: author.ID, ReviewID: review.ID, Text: "first"}
	require.NoError(t, f.comments.Create(ctx, comment))
	comment.Text = "edited"
	require.NoError(t, f.comments.Update(ctx, comment))

	comments, total, err := f.comments.ListByReview(ctx, review.ID, repositories.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "edited", comments[0].Text)
	assert.Equal(t, "author", comments[0].Author.Username)

	assert.True(t, apperror.Is(f.comments.Delete(ctx, review.ID+1, comment.ID), apperror.KindNotFound))
	require.NoError(t, f.comments.Delete(ctx, review.ID, comment.ID))

	review.Score = 10
	review.Text = "better"
	require.NoError(t, f.reviews.Update(ctx, review))
	got, err = f.reviews.GetByID(ctx, dune.ID, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Score)

	require.NoError(t, f.reviews.Delete(ctx, dune.ID, review.ID))
	assert.True(t, apperror.Is(f.reviews.Delete(ctx, dune.ID, review.ID), apperror.KindNotFound))
}

func TestPageOffset(t *testing.T) {
	assert.Equal(t, int64(0), repositories.Page{Number: 0, Size: 10}.Offset())
	assert.Equal(t, int64(0), repositories.Page{Number: 1, Size: 10}.Offset())
	assert.Equal(t, int64(20), repositories.Page{Number: 3, Size: 10}.Offset())
	assert.Equal(t, int64(math.MaxInt64), repositories.Page{Number: math.MaxInt, Size: 2}.Offset())
}

func TestSearchMatchesWildcardsLiterally(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	page := repositories.Page{Number: 1, Size: 10}

	for _, name := range []string{"anna", "bob_smith", "carl"} {
		f.user(t, name)
	}
	for _, g := range []models.Genre{{Name: "Drama", Slug: "drama"}, {Name: "Sci_Fi", Slug: "sci-fi"}, {Name: "100% Horror", Slug: "horror"}} {
		genre := g
		require.NoError(t, f.genres.Create(ctx, &genre))
	}
	f.title(t, "Take_Off", 1999, nil)
	f.title(t, "Takeoff", 2001, nil)

	users, total, err := f.users.List(ctx, "_", page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "bob_smith", users[0].Username)

	genres, total, err := f.genres.List(ctx, "_", page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "sci-fi", genres[0].Slug)

	genres, total, err = f.genres.List(ctx, "%", page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "horror", genres[0].Slug)

	_, total, err = f.genres.List(ctx, `\`, page)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	titles, total, err := f.titles.List(ctx, repositories.TitleFilter{Name: "e_o"}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Take_Off", titles[0].Name)
}
