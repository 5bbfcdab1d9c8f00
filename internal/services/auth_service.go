package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"yamdb/internal/access"
	"yamdb/internal/apperror"
	"yamdb/internal/models"
	"yamdb/internal/repositories"
	"yamdb/internal/validation"

	"github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// CodeLength is the number of digits in a confirmation code.
const CodeLength = 6

// ConfirmationSender delivers a confirmation code to a user out of band.
type ConfirmationSender interface {
	SendConfirmationCode(ctx context.Context, email, username, code string) error
}

// SignupInput is the body of a signup request.
type SignupInput struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email" validate:"required,max=254,email"`
}

// TokenInput is the body of a token exchange request.
type TokenInput struct {
	Username         string `json:"username" validate:"required"`
	ConfirmationCode string `json:"confirmation_code" validate:"required"`
}

// AuthService handles signup, confirmation codes and access tokens.
type AuthService struct {
	userRepo      repositories.UserRepository
	sender        ConfirmationSender
	jwtSecret     []byte
	tokenDurat    time.Duration // Duration for which JWT is valid
	codeTTL       time.Duration
	codeSingleUse bool
	generateCode  func() (string, error)
	now           func() time.Time
}

// AuthOption customizes an AuthService.
type AuthOption func(*AuthService)

// WithTokenTTL sets the access token lifetime.
func WithTokenTTL(d time.Duration) AuthOption {
	return func(s *AuthService) { s.tokenDurat = d }
}

// WithCodeTTL expires confirmation codes after d. Zero disables expiry.
func WithCodeTTL(d time.Duration) AuthOption {
	return func(s *AuthService) { s.codeTTL = d }
}

// WithSingleUseCodes clears a confirmation code once it has been exchanged.
func WithSingleUseCodes(enabled bool) AuthOption {
	return func(s *AuthService) { s.codeSingleUse = enabled }
}

// WithCodeGenerator replaces the random code source.
func WithCodeGenerator(fn func() (string, error)) AuthOption {
	return func(s *AuthService) { s.generateCode = fn }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, sender ConfirmationSender, jwtSecret string, opts ...AuthOption) *AuthService {
	s := &AuthService{
		userRepo:     userRepo,
		sender:       sender,
		jwtSecret:    []byte(jwtSecret),
		tokenDurat:   24 * time.Hour,
		generateCode: GenerateConfirmationCode,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateConfirmationCode returns a random numeric code of CodeLength digits.
func GenerateConfirmationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate confirmation code: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n.Int64()), nil
}

// lookup returns nil, nil when the repository reports not-found.
func lookup(u *models.User, err error) (*models.User, error) {
	if apperror.Is(err, apperror.KindNotFound) {
		return nil, nil
	}
	return u, err
}

// Signup registers the user, or reuses the record when both username and
// email match an existing one, then issues a fresh confirmation code. The
// new code replaces any previously issued one.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	byUsername, err := lookup(s.userRepo.GetByUsername(ctx, in.Username))
	if err != nil {
		return nil, err
	}

	user := byUsername
	if user == nil || user.Email != in.Email {
		byEmail, err := lookup(s.userRepo.GetByEmail(ctx, in.Email))
		if err != nil {
			return nil, err
		}
		if byEmail != nil {
			return nil, apperror.Validation("email already registered", map[string]string{"email": "email already registered"})
		}
		if byUsername != nil {
			return nil, apperror.Validation("username already taken", map[string]string{"username": "username already taken"})
		}

		user = &models.User{Username: in.Username, Email: in.Email, Role: models.RoleUser}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		log.Info().Str("username", user.Username).Msg("user signed up")
	}

	code, err := s.generateCode()
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if err := s.storeCode(ctx, user, code); err != nil {
		return nil, err
	}

	if s.sender != nil {
		if err := s.sender.SendConfirmationCode(ctx, user.Email, user.Username, code); err != nil {
			log.Error().Err(err).Str("username", user.Username).Msg("failed to dispatch confirmation code")
		}
	}
	return user, nil
}

func (s *AuthService) storeCode(ctx context.Context, user *models.User, code string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Internal(fmt.Errorf("failed to hash confirmation code: %w", err))
	}
	hashed := string(hash)
	issuedAt := s.now()
	user.ConfirmationCode = &hashed
	user.CodeIssuedAt = &issuedAt
	return s.userRepo.Update(ctx, user)
}

var errInvalidCode = apperror.Validation("invalid confirmation code", map[string]string{"confirmation_code": "invalid confirmation code"})

// ObtainToken exchanges a confirmation code for an access token.
func (s *AuthService) ObtainToken(ctx context.Context, in TokenInput) (string, error) {
	if err := validation.Struct(in); err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return "", err
	}

	if user.ConfirmationCode == nil {
		return "", errInvalidCode
	}
	if s.codeTTL > 0 && user.CodeIssuedAt != nil && s.now().Sub(*user.CodeIssuedAt) > s.codeTTL {
		return "", apperror.Validation("confirmation code expired", map[string]string{"confirmation_code": "confirmation code expired"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.ConfirmationCode), []byte(in.ConfirmationCode)); err != nil {
		return "", errInvalidCode
	}

	if s.codeSingleUse {
		user.ConfirmationCode = nil
		user.CodeIssuedAt = nil
		if err := s.userRepo.Update(ctx, user); err != nil {
			return "", err
		}
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return "", apperror.Internal(err)
	}
	log.Info().Str("username", user.Username).Msg("access token issued")
	return token, nil
}

// GenerateToken mints a signed access token for user.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      now.Add(s.tokenDurat).Unix(),
		"iat":      now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// Authenticate resolves a bearer token to the identity of a current user.
// The user is reloaded so role changes and deletions apply immediately.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (access.Identity, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return access.Anonymous(), apperror.Unauthenticated("invalid or expired token")
	}

	rawID, ok := claims["user_id"].(float64)
	if !ok || rawID <= 0 {
		return access.Anonymous(), apperror.Unauthenticated("token carries no user")
	}

	user, err := s.userRepo.GetByID(ctx, uint(rawID))
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return access.Anonymous(), apperror.Unauthenticated("user no longer exists")
		}
		return access.Anonymous(), err
	}
	return access.NewIdentity(user), nil
}
