package handlers

import (
	"time"

	"yamdb/internal/models"
)

// CatalogResponse is the representation of a category or genre.
type CatalogResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TitleResponse is the representation of a title.
type TitleResponse struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"`
	Description string            `json:"description"`
	Genre       []CatalogResponse `json:"genre"`
	Category    *CatalogResponse  `json:"category"`
}

func newTitleResponse(t models.Title) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       make([]CatalogResponse, 0, len(t.Genres)),
	}
	for _, g := range t.Genres {
		resp.Genre = append(resp.Genre, CatalogResponse{Name: g.Name, Slug: g.Slug})
	}
	if t.Category != nil {
		resp.Category = &CatalogResponse{Name: t.Category.Name, Slug: t.Category.Slug}
	}
	return resp
}

func newTitleResponses(titles []models.Title) []TitleResponse {
	out := make([]TitleResponse, 0, len(titles))
	for _, t := range titles {
		out = append(out, newTitleResponse(t))
	}
	return out
}

// ReviewResponse is the representation of a review.
type ReviewResponse struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
	Title   string    `json:"title"`
}

func newReviewResponse(r models.Review) ReviewResponse {
	return ReviewResponse{
		ID:      r.ID,
		Text:    r.Text,
		Author:  r.Author.Username,
		Score:   r.Score,
		PubDate: r.PubDate,
		Title:   r.Title.Name,
	}
}

func newReviewResponses(reviews []models.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, newReviewResponse(r))
	}
	return out
}

// CommentResponse is the representation of a comment.
type CommentResponse struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
	Review  uint      `json:"review"`
}

func newCommentResponse(c models.Comment) CommentResponse {
	return CommentResponse{
		ID:      c.ID,
		Text:    c.Text,
		Author:  c.Author.Username,
		PubDate: c.PubDate,
		Review:  c.ReviewID,
	}
}

func newCommentResponses(comments []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, newCommentResponse(c))
	}
	return out
}
