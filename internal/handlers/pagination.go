package handlers

import (
	"math"
	"net/url"
	"strconv"

	"yamdb/internal/apperror"
	"yamdb/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// Paginated is the envelope of every list reply.
type Paginated struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// Paginator reads ?page= and builds list envelopes.
type Paginator struct {
	size int
}

// NewPaginator creates a Paginator with the given page size.
func NewPaginator(size int) Paginator {
	if size <= 0 {
		size = 10
	}
	return Paginator{size: size}
}

// Page reads the requested page. A missing page means the first one. Page
// numbers whose offset would not fit in an int are not found.
func (p Paginator) Page(c *fiber.Ctx) (repositories.Page, error) {
	page := repositories.Page{Number: 1, Size: p.size}
	raw := c.Query("page")
	if raw == "" {
		return page, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n-1 > math.MaxInt/p.size {
		return page, apperror.NotFound("page")
	}
	page.Number = n
	return page, nil
}

// Respond writes results as a page of count items. Pages past the end are
// not found, except the first page of an empty list.
func (p Paginator) Respond(c *fiber.Ctx, page repositories.Page, count int64, results interface{}) error {
	if page.Number > 1 && page.Offset() >= count {
		return handleError(c, apperror.NotFound("page"))
	}

	body := Paginated{Count: count, Results: results}
	if page.Offset()+int64(page.Size) < count {
		body.Next = pageURL(c, page.Number+1)
	}
	if page.Number > 1 {
		body.Previous = pageURL(c, page.Number-1)
	}
	return c.JSON(body)
}

func pageURL(c *fiber.Ctx, number int) *string {
	query := url.Values{}
	for k, v := range c.Queries() {
		query.Set(k, v)
	}
	if number == 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(number))
	}

	link := c.BaseURL() + c.Path()
	if encoded := query.Encode(); encoded != "" {
		link += "?" + encoded
	}
	return &link
}
