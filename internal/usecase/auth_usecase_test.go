package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"car-rental-admin/config"
	"car-rental-admin/internal/delivery/dto"
	"car-rental-admin/internal/domain/entity"
	"car-rental-admin/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	usecase AuthUsecase
	users   *fakeUserRepo
	tokens  *fakeTokenService
	audit   *fakeAuditService
	jwt     *jwt.JWTService
}

func newAuthFixture(t *testing.T, users ...*entity.User) *authFixture {
	db, _ := newTxDB(t)
	f := &authFixture{
		users:  newFakeUserRepo(users...),
		tokens: newFakeTokenService(),
		audit:  &fakeAuditService{},
		jwt: jwt.NewJWTService(config.JWTConfig{
			Secret:        "test-secret",
			AccessExpiry:  time.Minute,
			RefreshExpiry: time.Hour,
		}),
	}
	f.usecase = NewAuthUsecase(db, newTestLogger(), f.users, seededRoles(), f.jwt, f.tokens, f.audit)
	return f
}

func newUser(t *testing.T, email, password string, roleID int) *entity.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &entity.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
		FullName: "Test " + email,
		RoleID:   roleID,
		IsActive: true,
	}
}

func TestLogin_Success(t *testing.T) {
	supplier := newUser(t, "supplier@example.com", "secret", entity.RoleIDSupplier)
	f := newAuthFixture(t, supplier)

	tokens, err := f.usecase.Login(context.Background(), &dto.LoginRequest{Email: "Supplier@Example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, int64(60), tokens.ExpiresIn)

	claims, err := f.jwt.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, supplier.ID, claims.UserID)
	assert.Equal(t, entity.RoleIDSupplier, claims.RoleID)
	assert.Len(t, f.tokens.tokens, 2)
	assert.Equal(t, []string{entity.AuditActionUserLogin}, f.audit.actions)
}

func TestLogin_Rejections(t *testing.T) {
	inactive := newUser(t, "inactive@example.com", "secret", entity.RoleIDAdmin)
	inactive.IsActive = false
	driver := newUser(t, "driver@example.com", "secret", entity.RoleIDUser)
	admin := newUser(t, "admin@example.com", "secret", entity.RoleIDAdmin)
	f := newAuthFixture(t, inactive, driver, admin)

	cases := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"unknown email", "nobody@example.com", "secret", ErrInvalidCredentials},
		{"wrong password", "admin@example.com", "wrong", ErrInvalidCredentials},
		{"inactive", "inactive@example.com", "secret", ErrInvalidCredentials},
		{"plain user", "driver@example.com", "secret", ErrAccessDenied},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.usecase.Login(context.Background(), &dto.LoginRequest{Email: tc.email, Password: tc.password})
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, f.tokens.tokens)
}

func TestRefreshToken_RotatesAndIsSingleUse(t *testing.T) {
	admin := newUser(t, "admin@example.com", "secret", entity.RoleIDAdmin)
	f := newAuthFixture(t, admin)

	tokens, err := f.usecase.Login(context.Background(), &dto.LoginRequest{Email: admin.Email, Password: "secret"})
	require.NoError(t, err)

	rotated, err := f.usecase.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	_, err = f.usecase.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRefreshToken_ConcurrentUseRotatesOnce(t *testing.T) {
	admin := newUser(t, "admin@example.com", "secret", entity.RoleIDAdmin)
	f := newAuthFixture(t, admin)

	tokens, err := f.usecase.Login(context.Background(), &dto.LoginRequest{Email: admin.Email, Password: "secret"})
	require.NoError(t, err)

	const callers = 8
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.usecase.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrTokenRevoked)
	}
	assert.Equal(t, 1, succeeded)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	admin := newUser(t, "admin@example.com", "secret", entity.RoleIDAdmin)
	f := newAuthFixture(t, admin)

	tokens, err := f.usecase.Login(context.Background(), &dto.LoginRequest{Email: admin.Email, Password: "secret"})
	require.NoError(t, err)

	_, err = f.usecase.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: tokens.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = f.usecase.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout_RevokesBothTokens(t *testing.T) {
	admin := newUser(t, "admin@example.com", "secret", entity.RoleIDAdmin)
	f := newAuthFixture(t, admin)

	tokens, err := f.usecase.Login(context.Background(), &dto.LoginRequest{Email: admin.Email, Password: "secret"})
	require.NoError(t, err)
	access, err := f.jwt.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	refresh, err := f.jwt.ValidateToken(tokens.RefreshToken)
	require.NoError(t, err)

	require.NoError(t, f.usecase.Logout(context.Background(), admin.ID, access.TokenID, refresh.TokenID))
	assert.Empty(t, f.tokens.tokens)
	assert.Contains(t, f.audit.actions, entity.AuditActionUserLogout)
}

func TestGetCurrentUser(t *testing.T) {
	supplier := newUser(t, "supplier@example.com", "secret", entity.RoleIDSupplier)
	supplier.Avatar = "logo.png"
	f := newAuthFixture(t, supplier)

	me, err := f.usecase.GetCurrentUser(context.Background(), supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleSupplier, me.Role)
	assert.Equal(t, "logo.png", me.Avatar)

	_, err = f.usecase.GetCurrentUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestEnsureAdmin_CreatesOnce(t *testing.T) {
	db, mock := newTxDB(t)
	users := newFakeUserRepo()
	audit := &fakeAuditService{}
	uc := NewAuthUsecase(db, newTestLogger(), users, seededRoles(), jwt.NewJWTService(config.JWTConfig{Secret: "s"}), newFakeTokenService(), audit)

	mock.ExpectBegin()
	mock.ExpectCommit()

	cfg := config.AdminConfig{Email: "Root@Example.com", Password: "changeme", FullName: "Root"}
	require.NoError(t, uc.EnsureAdmin(context.Background(), cfg))
	require.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, users.created, 1)
	assert.Equal(t, "root@example.com", users.created[0].Email)
	assert.True(t, users.created[0].IsAdmin())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users.created[0].Password), []byte("changeme")))
	assert.Equal(t, []string{entity.AuditActionUserBootstrap}, audit.actions)

	// Existing account: no transaction, no second user
	require.NoError(t, uc.EnsureAdmin(context.Background(), cfg))
	assert.Len(t, users.created, 1)
}

func TestEnsureAdmin_MissingRoleRollsBack(t *testing.T) {
	db, mock := newTxDB(t)
	users := newFakeUserRepo()
	uc := NewAuthUsecase(db, newTestLogger(), users, &fakeRoleRepo{}, jwt.NewJWTService(config.JWTConfig{Secret: "s"}), newFakeTokenService(), &fakeAuditService{})

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := uc.EnsureAdmin(context.Background(), config.AdminConfig{Email: "root@example.com", Password: "changeme"})
	assert.ErrorIs(t, err, ErrRoleNotFound)
	assert.Empty(t, users.created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureAdmin_SkippedWithoutCredentials(t *testing.T) {
	f := newAuthFixture(t)
	require.NoError(t, f.usecase.EnsureAdmin(context.Background(), config.AdminConfig{Email: "a@b.c"}))
	assert.Empty(t, f.users.created)
}
