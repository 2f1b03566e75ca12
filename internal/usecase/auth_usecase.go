package usecase

import (
	"context"
	"errors"
	"strings"

	"car-rental-admin/config"
	"car-rental-admin/internal/converter"
	"car-rental-admin/internal/delivery/dto"
	"car-rental-admin/internal/domain/entity"
	"car-rental-admin/internal/domain/repository"
	"car-rental-admin/internal/service"
	"car-rental-admin/pkg/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccessDenied       = errors.New("only admins and suppliers can sign in")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found, are the migrations applied?")
)

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	jwtService   *jwt.JWTService
	tokenService service.TokenService
	auditService service.AuditService
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	jwtService *jwt.JWTService,
	tokenService service.TokenService,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		jwtService:   jwtService,
		tokenService: tokenService,
		auditService: auditService,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), strings.ToLower(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsAdmin() && !user.IsSupplier() {
		return nil, ErrAccessDenied
	}

	tokens, err := u.issueTokens(ctx, jwt.Subject{UserID: user.ID, Email: user.Email, RoleID: user.RoleID})
	if err != nil {
		return nil, err
	}

	if err := u.auditService.LogAction(ctx, u.db, &user.ID, entity.AuditActionUserLogin, entity.JSON{"email": user.Email}); err != nil {
		u.log.Warnf("Failed to audit login: %+v", err)
	}

	return tokens, nil
}

func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error {
	if err := u.tokenService.Revoke(ctx, userID, accessTokenID, jwt.AccessToken); err != nil {
		return err
	}

	if refreshTokenID != "" {
		if err := u.tokenService.Revoke(ctx, userID, refreshTokenID, jwt.RefreshToken); err != nil {
			return err
		}
	}

	if err := u.auditService.LogAction(ctx, u.db, &userID, entity.AuditActionUserLogout, nil); err != nil {
		u.log.Warnf("Failed to audit logout: %+v", err)
	}

	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	// Refresh tokens are single use
	consumed, err := u.tokenService.Consume(ctx, claims.UserID, claims.TokenID, jwt.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, ErrTokenRevoked
	}

	return u.issueTokens(ctx, jwt.Subject{UserID: claims.UserID, Email: claims.Email, RoleID: claims.RoleID})
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

// EnsureAdmin creates the configured admin account when it does not exist yet
func (u *authUsecase) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		u.log.Info("Admin bootstrap skipped: ADMIN_EMAIL or ADMIN_PASSWORD not set")
		return nil
	}

	email := strings.ToLower(cfg.Email)
	existing, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), email)
	if err != nil {
		u.log.Warnf("Failed to look up admin account: %+v", err)
		return err
	}
	if existing != nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return err
	}

	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role, err := u.roleRepo.FindByName(ctx, tx, entity.RoleAdmin)
		if err != nil {
			u.log.Warnf("Failed to find admin role: %+v", err)
			return err
		}
		if role == nil {
			return ErrRoleNotFound
		}

		admin := &entity.User{
			Email:    email,
			Password: string(hashedPassword),
			FullName: cfg.FullName,
			RoleID:   role.ID,
			Language: "en",
			IsActive: true,
		}

		if err := u.userRepo.Create(tx, admin); err != nil {
			if isDuplicateKeyError(err, "email") {
				return ErrEmailAlreadyExists
			}
			u.log.Warnf("Failed to create admin account: %+v", err)
			return err
		}

		u.log.Infof("Admin account %s created", email)
		return u.auditService.LogAction(ctx, tx, &admin.ID, entity.AuditActionUserBootstrap, entity.JSON{"email": email})
	})
}

func (u *authUsecase) issueTokens(ctx context.Context, sub jwt.Subject) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(sub)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(sub)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenService.Store(ctx, sub.UserID, accessTokenID, jwt.AccessToken, u.jwtService.GetAccessExpiry()); err != nil {
		return nil, err
	}

	if err := u.tokenService.Store(ctx, sub.UserID, refreshTokenID, jwt.RefreshToken, u.jwtService.GetRefreshExpiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
