package services

import (
	"context"

	"yamdb/internal/access"
	"yamdb/internal/models"
	"yamdb/internal/repositories"
	"yamdb/internal/validation"
)

// UserInput is the body used by administrators to create a user.
type UserInput struct {
	Username  string      `json:"username" validate:"required,max=150,username"`
	Email     string      `json:"email" validate:"required,max=254,email"`
	FirstName string      `json:"first_name" validate:"max=150"`
	LastName  string      `json:"last_name" validate:"max=150"`
	Bio       string      `json:"bio"`
	Role      models.Role `json:"role" validate:"omitempty,role"`
}

// UserPatch is a partial update of a user. Nil fields are left unchanged.
type UserPatch struct {
	Username  *string      `json:"username" validate:"omitempty,max=150,username"`
	Email     *string      `json:"email" validate:"omitempty,max=254,email"`
	FirstName *string      `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string      `json:"last_name" validate:"omitempty,max=150"`
	Bio       *string      `json:"bio"`
	Role      *models.Role `json:"role" validate:"omitempty,role"`
}

// UserService handles user management and the self-service profile.
type UserService struct {
	repo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) List(ctx context.Context, search string, page repositories.Page) ([]models.User, int64, error) {
	return s.repo.List(ctx, search, page)
}

func (s *UserService) Get(ctx context.Context, username string) (*models.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// Create adds a user on behalf of an administrator.
func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
		Role:      role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update applies patch to the user named username. The role field is only
// applied when actor may change roles.
func (s *UserService) Update(ctx context.Context, actor access.Identity, username string, patch UserPatch) (*models.User, error) {
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	applyUserPatch(user, patch, access.CanChangeRole(actor))
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, username string) error {
	return s.repo.Delete(ctx, username)
}

// Me returns the actor's own record.
func (s *UserService) Me(ctx context.Context, actor access.Identity) (*models.User, error) {
	return s.repo.GetByID(ctx, actor.UserID)
}

// UpdateMe lets the actor edit their own record.
func (s *UserService) UpdateMe(ctx context.Context, actor access.Identity, patch UserPatch) (*models.User, error) {
	me, err := s.repo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, actor, me.Username, patch)
}

func applyUserPatch(u *models.User, p UserPatch, canChangeRole bool) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Role != nil && canChangeRole {
		u.Role = *p.Role
	}
}
