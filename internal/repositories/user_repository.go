package repositories

import (
	"context"

	"yamdb/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, search string, page Page) ([]models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
	// Delete removes the user together with their reviews and comments.
	Delete(ctx context.Context, username string) error
}
