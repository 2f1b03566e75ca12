package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"car-rental-admin/internal/delivery/dto"
	"car-rental-admin/internal/domain/entity"
	"car-rental-admin/internal/service"
	"car-rental-admin/pkg/jwt"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTxDB returns a gorm handle whose only SQL traffic is transaction control;
// repositories are faked so no statements reach the mock.
func newTxDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

type fakeBookingRepo struct {
	bookings map[uuid.UUID]entity.Booking

	pageCalls    int
	lastFilter   *entity.BookingFilter
	lastLimit    int
	lastOffset   int
	updateErr    error
	updatedIDs   []uuid.UUID
	updatedTo    entity.BookingStatus
	deletedIDs   []uuid.UUID
	findByIDsErr error
}

func newFakeBookingRepo(bookings ...entity.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{bookings: map[uuid.UUID]entity.Booking{}}
	for _, b := range bookings {
		r.bookings[b.ID] = b
	}
	return r
}

func (r *fakeBookingRepo) FindPage(ctx context.Context, db *gorm.DB, filter *entity.BookingFilter, limit, offset int) ([]entity.Booking, int64, error) {
	r.pageCalls++
	r.lastFilter = filter
	r.lastLimit = limit
	r.lastOffset = offset

	var out []entity.Booking
	for _, b := range r.bookings {
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) FindByIDs(db *gorm.DB, ids []uuid.UUID) ([]entity.Booking, error) {
	if r.findByIDsErr != nil {
		return nil, r.findByIDsErr
	}
	var out []entity.Booking
	for _, id := range ids {
		if b, ok := r.bookings[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) UpdateStatus(db *gorm.DB, ids []uuid.UUID, status entity.BookingStatus) (int64, error) {
	if r.updateErr != nil {
		return 0, r.updateErr
	}
	r.updatedIDs = ids
	r.updatedTo = status
	return int64(len(ids)), nil
}

func (r *fakeBookingRepo) DeleteByIDs(db *gorm.DB, ids []uuid.UUID) (int64, error) {
	r.deletedIDs = ids
	return int64(len(ids)), nil
}

type fakeAuditService struct {
	actions []string
	entries []service.AuditEntry
	err     error
}

func (s *fakeAuditService) LogAction(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, metadata entity.JSON) error {
	s.actions = append(s.actions, action)
	return s.err
}

func (s *fakeAuditService) LogUpdates(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entries []service.AuditEntry) error {
	s.actions = append(s.actions, action)
	s.entries = append(s.entries, entries...)
	return s.err
}

func (s *fakeAuditService) LogDeletes(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entries []service.AuditEntry) error {
	s.actions = append(s.actions, action)
	s.entries = append(s.entries, entries...)
	return s.err
}

type fakeCacheService struct {
	pages       map[string]*dto.BookingPageResponse
	keys        []string
	invalidated int
}

func newFakeCacheService() *fakeCacheService {
	return &fakeCacheService{pages: map[string]*dto.BookingPageResponse{}}
}

func (c *fakeCacheService) PageKey(ctx context.Context, scope string, req *dto.GetBookingsRequest, page, size int) (string, error) {
	key := fmt.Sprintf("%s:%v:%d:%d", scope, req.Companies, page, size)
	c.keys = append(c.keys, key)
	return key, nil
}

func (c *fakeCacheService) GetPage(ctx context.Context, key string) (*dto.BookingPageResponse, bool) {
	p, ok := c.pages[key]
	return p, ok
}

func (c *fakeCacheService) SetPage(ctx context.Context, key string, page *dto.BookingPageResponse) {
	c.pages[key] = page
}

func (c *fakeCacheService) Invalidate(ctx context.Context) error {
	c.invalidated++
	c.pages = map[string]*dto.BookingPageResponse{}
	return nil
}

type fakeEventService struct {
	published []dto.BookingEvent
}

func (e *fakeEventService) Publish(ctx context.Context, event dto.BookingEvent) error {
	e.published = append(e.published, event)
	return nil
}

func (e *fakeEventService) Subscribe(ctx context.Context) (<-chan dto.BookingEvent, error) {
	ch := make(chan dto.BookingEvent)
	close(ch)
	return ch, nil
}

type fakeTokenService struct {
	mu     sync.Mutex
	tokens map[string]bool
}

func newFakeTokenService() *fakeTokenService {
	return &fakeTokenService{tokens: map[string]bool{}}
}

func (s *fakeTokenService) key(userID uuid.UUID, tokenID string, tokenType jwt.TokenType) string {
	return string(tokenType) + ":" + userID.String() + ":" + tokenID
}

func (s *fakeTokenService) Store(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[s.key(userID, tokenID, tokenType)] = true
	return nil
}

func (s *fakeTokenService) IsValid(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[s.key(userID, tokenID, tokenType)], nil
}

func (s *fakeTokenService) Revoke(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, s.key(userID, tokenID, tokenType))
	return nil
}

func (s *fakeTokenService) Consume(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.key(userID, tokenID, tokenType)
	listed := s.tokens[key]
	delete(s.tokens, key)
	return listed, nil
}

type fakeUserRepo struct {
	users   map[uuid.UUID]*entity.User
	created []*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uuid.UUID]*entity.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(db *gorm.DB, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	r.created = append(r.created, user)
	return nil
}

func (r *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) FindByRole(db *gorm.DB, roleID int) ([]entity.User, error) {
	var out []entity.User
	for _, u := range r.users {
		if u.RoleID == roleID && u.IsActive {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeRoleRepo struct {
	roles map[string]*entity.Role
}

func seededRoles() *fakeRoleRepo {
	return &fakeRoleRepo{roles: map[string]*entity.Role{
		entity.RoleAdmin:    {ID: entity.RoleIDAdmin, RoleName: entity.RoleAdmin},
		entity.RoleSupplier: {ID: entity.RoleIDSupplier, RoleName: entity.RoleSupplier},
		entity.RoleUser:     {ID: entity.RoleIDUser, RoleName: entity.RoleUser},
	}}
}

func (r *fakeRoleRepo) FindByName(ctx context.Context, db *gorm.DB, name string) (*entity.Role, error) {
	return r.roles[name], nil
}

var (
	_ service.AuditService        = (*fakeAuditService)(nil)
	_ service.BookingCacheService = (*fakeCacheService)(nil)
	_ service.BookingEventService = (*fakeEventService)(nil)
	_ service.TokenService        = (*fakeTokenService)(nil)
)
