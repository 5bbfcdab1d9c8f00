package repositories

import (
	"context"

	"yamdb/internal/models"

	"gorm.io/gorm"
)

const userConflict = "a user with this username or email already exists"

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return wrapError(err, "create user", "user", userConflict)
	}
	return nil
}

func (r *GORMUserRepository) first(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, query, arg).Error; err != nil {
		return nil, wrapError(err, "get user", "user", userConflict)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username = ?", username)
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

// List returns one page of users ordered by ID, optionally filtered by a
// case-insensitive username substring.
func (r *GORMUserRepository) List(ctx context.Context, search string, page Page) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if search != "" {
		query = query.Where(likeContains("username"), containsPattern(search))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapError(err, "count users", "user", userConflict)
	}

	var users []models.User
	if err := page.apply(query.Order("id")).Find(&users).Error; err != nil {
		return nil, 0, wrapError(err, "list users", "user", userConflict)
	}
	return users, total, nil
}

// Update writes every column of user, including zero values.
func (r *GORMUserRepository) Update(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).Save(user)
	if res.Error != nil {
		return wrapError(res.Error, "update user", "user", userConflict)
	}
	return nil
}

// Delete removes a user and everything they authored in one transaction.
func (r *GORMUserRepository) Delete(ctx context.Context, username string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "username = ?", username).Error; err != nil {
			return wrapError(err, "delete user", "user", userConflict)
		}

		ownReviews := tx.Model(&models.Review{}).Select("id").Where("author_id = ?", user.ID)
		if err := tx.Where("author_id = ? OR review_id IN (?)", user.ID, ownReviews).Delete(&models.Comment{}).Error; err != nil {
			return wrapError(err, "delete user comments", "comment", userConflict)
		}
		if err := tx.Where("author_id = ?", user.ID).Delete(&models.Review{}).Error; err != nil {
			return wrapError(err, "delete user reviews", "review", userConflict)
		}
		if err := tx.Delete(&user).Error; err != nil {
			return wrapError(err, "delete user", "user", userConflict)
		}
		return nil
	})
}
