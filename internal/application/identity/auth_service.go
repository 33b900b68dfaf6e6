package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/identity"
	"github.com/mediaassoc/backend/internal/domain/shared"
	"github.com/mediaassoc/backend/internal/infrastructure/auth"
	"github.com/mediaassoc/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
// Both cases share one error so the response does not reveal which accounts exist.
var ErrInvalidCredentials = shared.NewDomainError(shared.ErrUnauthorized.Code, "Invalid email or password")

// AuthService handles admin sessions
type AuthService struct {
	adminRepo  identity.AdminUserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	adminRepo identity.AdminUserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		adminRepo:  adminRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Login checks the credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, shared.InvalidInput("email and password are required")
	}

	user, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown email", zap.String("email", email), zap.String("ip", input.IP))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CanLogin() {
		s.logger.Warn("Login attempt for deactivated account", zap.String("email", email))
		return nil, shared.NewDomainError(shared.ErrUnauthorized.Code, "Account has been deactivated")
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("email", email), zap.String("ip", input.IP))
		return nil, ErrInvalidCredentials
	}

	session, err := s.jwtService.GenerateToken(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate session token", zap.Error(err))
		return nil, err
	}

	user.RecordLogin()
	if err := s.adminRepo.Update(ctx, user); err != nil {
		// the session is valid, only the audit stamp is lost
		s.logger.Error("Failed to record login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	s.logger.Info("Admin logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return &LoginResult{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		TokenType: session.TokenType,
		User:      toAdminInfo(user),
	}, nil
}

// Logout revokes the session token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI == "" {
		return shared.InvalidInput("token id is required")
	}
	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.TTL); err != nil {
		s.logger.Error("Failed to revoke session", zap.String("user_id", input.UserID.String()), zap.Error(err))
		return err
	}
	s.logger.Info("Admin logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

// Me returns the account behind a session
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*AdminInfo, error) {
	user, err := s.adminRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NotFound("admin user")
		}
		return nil, err
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError(shared.ErrUnauthorized.Code, "Account has been deactivated")
	}
	info := toAdminInfo(user)
	return &info, nil
}

// ChangePassword replaces the password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.adminRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if !user.VerifyPassword(input.OldPassword) {
		return ErrInvalidCredentials
	}
	if err := user.SetPassword(input.NewPassword); err != nil {
		return err
	}
	if err := s.adminRepo.Update(ctx, user); err != nil {
		return err
	}
	s.logger.Info("Admin password changed", zap.String("user_id", user.ID.String()))
	return nil
}

// EnsureBootstrapAdmin creates the configured admin account on first start.
// An empty email disables it and an existing account is left untouched.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, cfg config.AdminConfig) error {
	if strings.TrimSpace(cfg.Email) == "" {
		return nil
	}
	exists, err := s.adminRepo.ExistsByEmail(ctx, strings.ToLower(strings.TrimSpace(cfg.Email)))
	if err != nil {
		return err
	}
	if exists {
		s.logger.Debug("Bootstrap admin already present", zap.String("email", cfg.Email))
		return nil
	}

	user, err := identity.NewAdminUser(cfg.Email, cfg.Name, cfg.Password, identity.RoleAdmin)
	if err != nil {
		return err
	}
	if err := s.adminRepo.Create(ctx, user); err != nil {
		// another instance created it first
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil
		}
		return err
	}
	s.logger.Info("Bootstrap admin created", zap.String("email", user.Email), zap.String("user_id", user.ID.String()))
	return nil
}
