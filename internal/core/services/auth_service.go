package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"clubhub/internal/adapters/persistence/models"
	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/config"
	"clubhub/internal/core/domain"
	"clubhub/internal/pkg/jwt"
	"clubhub/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
)

// AuthService handles registration and authentication business logic
type AuthService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	verifier         HandleVerifier
	cfg              *config.Config
}

// NewAuthService creates a new auth service. verifier may be nil, in which
// case handle verification is skipped entirely.
func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	verifier HandleVerifier,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		verifier:         verifier,
		cfg:              cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	FullName string `json:"full_name"`
	Handle   string `json:"handle"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// Register creates a new user account. Self-registration always yields a
// member: a privileged role in an anonymous request is silently pinned back
// to member rather than rejected. Only an authenticated owner may assign a
// different role (an authenticated non-owner trying to escalate is refused),
// and the owner role itself can never be assigned — it is seeded once at
// startup.
func (s *AuthService) Register(ctx context.Context, actor *domain.Actor, input *RegisterInput) (*models.UserResponse, error) {
	role := domain.RoleMember
	if input.Role != "" && input.Role != string(domain.RoleMember) {
		switch {
		case actor == nil:
			// pinned to member
		case actor.Role != domain.RoleOwner:
			return nil, domain.ErrForbidden
		default:
			requested := domain.Role(input.Role)
			if !requested.Valid() {
				return nil, domain.ErrInvalidInput
			}
			if requested == domain.RoleOwner {
				return nil, domain.ErrOwnerExists
			}
			role = requested
		}
	}

	// Uniqueness checks
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	exists, err = s.userRepo.ExistsByHandle(ctx, input.Handle)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	// External handle verification, skipped for the reserved bootstrap handle
	var rating *int
	if info, err := s.verifyHandle(ctx, input.Handle); err != nil {
		return nil, err
	} else if info != nil {
		rating = info.Rating
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName: strings.TrimSpace(input.FullName),
		Handle:   strings.TrimSpace(input.Handle),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: hashed,
		Role:     string(role),
		Rating:   rating,
		OwnerKey: models.OwnerKeyFor(string(role)),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, err
	}

	log.Printf("User registered: %s (role: %s)", user.Handle, user.Role)
	return user.ToResponse(), nil
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("User logged in: %s", user.Handle)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// RefreshToken rotates the refresh token and issues a new access token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	tokenHash := password.HashToken(refreshToken)

	storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if storedToken.IsRevoked() {
		return nil, ErrTokenRevoked
	}
	if storedToken.IsExpired() {
		return nil, ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	// Token rotation
	if err := s.refreshTokenRepo.Revoke(ctx, storedToken.ID); err != nil {
		return nil, err
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := password.HashToken(refreshToken)
	return s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash)
}

// LogoutAll revokes all refresh tokens for a user
func (s *AuthService) LogoutAll(ctx context.Context, userID uint) error {
	return s.refreshTokenRepo.RevokeAllByUserID(ctx, userID)
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}

// GetUserByID gets a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// verifyHandle runs the external check unless the verifier is disabled or
// the handle is the reserved bootstrap handle. Returns domain.ErrInvalidHandle
// when the handle does not resolve.
func (s *AuthService) verifyHandle(ctx context.Context, handle string) (*HandleInfo, error) {
	if s.verifier == nil || handle == s.cfg.Owner.Handle {
		return nil, nil
	}
	info, err := s.verifier.Verify(ctx, handle)
	if err != nil || info == nil {
		return nil, domain.ErrInvalidHandle
	}
	return info, nil
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(user *models.User) (*domain.TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Handle,
		user.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID,
		uuid.New().String(),
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken stores a refresh token in the database
func (s *AuthService) storeRefreshToken(ctx context.Context, userID uint, refreshToken string) error {
	token := &models.RefreshToken{
		UserID:    userID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	return s.refreshTokenRepo.Create(ctx, token)
}
