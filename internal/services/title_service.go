package services

import (
	"context"
	"fmt"

	"yamdb/internal/apperror"
	"yamdb/internal/models"
	"yamdb/internal/repositories"
	"yamdb/internal/validation"
)

// TitleInput is the body for creating a title. Genres and category are slugs.
type TitleInput struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        *int     `json:"year" validate:"required,min=0,notfutureyear"`
	Description string   `json:"description"`
	Genre       []string `json:"genre" validate:"dive,required,max=50,slug"`
	Category    *string  `json:"category" validate:"omitempty,max=50,slug"`
}

// TitlePatch is a partial title update. A non-nil Genre replaces all genres.
type TitlePatch struct {
	Name        *string  `json:"name" validate:"omitempty,max=256"`
	Year        *int     `json:"year" validate:"omitempty,min=0,notfutureyear"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre" validate:"dive,required,max=50,slug"`
	Category    *string  `json:"category" validate:"omitempty,max=50,slug"`
}

// TitleService handles business logic related to titles.
type TitleService struct {
	titles     repositories.TitleRepository
	genres     repositories.GenreRepository
	categories repositories.CategoryRepository
}

// NewTitleService creates a new TitleService.
func NewTitleService(titles repositories.TitleRepository, genres repositories.GenreRepository, categories repositories.CategoryRepository) *TitleService {
	return &TitleService{titles: titles, genres: genres, categories: categories}
}

func (s *TitleService) List(ctx context.Context, filter repositories.TitleFilter, page repositories.Page) ([]models.Title, int64, error) {
	return s.titles.List(ctx, filter, page)
}

func (s *TitleService) Get(ctx context.Context, id uint) (*models.Title, error) {
	return s.titles.GetByID(ctx, id)
}

func (s *TitleService) Create(ctx context.Context, in TitleInput) (*models.Title, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	title := &models.Title{Name: in.Name, Year: *in.Year, Description: in.Description}
	genres, err := s.genres.GetBySlugs(ctx, in.Genre)
	if err != nil {
		return nil, err
	}
	title.Genres = genres
	if in.Category != nil {
		if title.CategoryID, err = s.categoryID(ctx, *in.Category); err != nil {
			return nil, err
		}
	}

	if err := s.titles.Create(ctx, title); err != nil {
		return nil, err
	}
	return s.titles.GetByID(ctx, title.ID)
}

func (s *TitleService) Update(ctx context.Context, id uint, patch TitlePatch) (*models.Title, error) {
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}
	title, err := s.titles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		title.Name = *patch.Name
	}
	if patch.Year != nil {
		title.Year = *patch.Year
	}
	if patch.Description != nil {
		title.Description = *patch.Description
	}
	if patch.Category != nil {
		if title.CategoryID, err = s.categoryID(ctx, *patch.Category); err != nil {
			return nil, err
		}
	}

	var genres []models.Genre
	if patch.Genre != nil {
		if genres, err = s.genres.GetBySlugs(ctx, patch.Genre); err != nil {
			return nil, err
		}
	}

	if err := s.titles.Update(ctx, title, genres); err != nil {
		return nil, err
	}
	return s.titles.GetByID(ctx, id)
}

func (s *TitleService) Delete(ctx context.Context, id uint) error {
	return s.titles.Delete(ctx, id)
}

// categoryID resolves a category slug; an unknown slug is a validation error.
func (s *TitleService) categoryID(ctx context.Context, slug string) (*uint, error) {
	category, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			msg := fmt.Sprintf("category %q does not exist", slug)
			return nil, apperror.Validation(msg, map[string]string{"category": msg})
		}
		return nil, err
	}
	return &category.ID, nil
}
