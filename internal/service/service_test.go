package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renthub/internal/auth"
	"renthub/internal/database"
	"renthub/internal/mailer"
	"renthub/internal/models"
)

type noopCache struct{ invalidated int }

func (c *noopCache) Get(ctx context.Context, key string) ([]byte, bool)                  { return nil, false }
func (c *noopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {}
func (c *noopCache) Invalidate(ctx context.Context)                                      { c.invalidated++ }

func setupDB(t *testing.T) *database.DB {
	t.Helper()
	logger := zerolog.New(os.Stdout)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testLogger() *zerolog.Logger {
	l := zerolog.New(os.Stdout)
	return &l
}

func registerUser(t *testing.T, svc *AuthService, email, role string) *models.User {
	t.Helper()
	u, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    email,
		Password: "secret123",
		Name:     "Test " + role,
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

func seedListing(t *testing.T, db *database.DB, ownerID int64) *models.Property {
	t.Helper()
	p := &models.Property{
		OwnerID:      ownerID,
		Title:        "Sunny flat",
		Rent:         900,
		Location:     "Riga",
		Bedrooms:     2,
		Bathrooms:    1,
		PropertyType: models.PropertyApartment,
		IsAvailable:  true,
	}
	require.NoError(t, db.CreateProperty(context.Background(), p))
	return p
}

func TestAuthRegisterAndLogin(t *testing.T) {
	db := setupDB(t)
	tokens := auth.NewTokenManager("test-secret", "renthub", time.Hour)
	svc := NewAuthService(db, tokens, testLogger())
	ctx := context.Background()

	user, token, err := svc.Register(ctx, RegisterInput{
		Email:    "Anna@Test.com",
		Password: "secret123",
		Name:     "Anna",
		Role:     models.RoleTenant,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "anna@test.com", user.Email)

	// Пароль проверяется, адрес нормализуется
	_, _, err = svc.Login(ctx, "ANNA@test.com", "secret123")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "anna@test.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@test.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthRegisterValidation(t *testing.T) {
	db := setupDB(t)
	svc := NewAuthService(db, auth.NewTokenManager("s", "renthub", time.Hour), testLogger())
	ctx := context.Background()

	cases := []RegisterInput{
		{Email: "no-at-sign", Password: "secret123", Name: "X", Role: models.RoleTenant},
		{Email: "a@b.com", Password: "short", Name: "X", Role: models.RoleTenant},
		{Email: "a@b.com", Password: "secret123", Name: "", Role: models.RoleTenant},
		{Email: "a@b.com", Password: "secret123", Name: "X", Role: models.RoleAdmin},
	}
	for _, in := range cases {
		_, _, err := svc.Register(ctx, in)
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestBookingWorkflow(t *testing.T) {
	db := setupDB(t)
	logger := testLogger()
	authSvc := NewAuthService(db, auth.NewTokenManager("s", "renthub", time.Hour), logger)
	bookings := NewBookingService(db, mailer.NewTemplates(""), logger)
	ctx := context.Background()

	owner := registerUser(t, authSvc, "owner@test.com", models.RoleOwner)
	tenant := registerUser(t, authSvc, "tenant@test.com", models.RoleTenant)
	prop := seedListing(t, db, owner.ID)

	b, err := bookings.Create(ctx, tenant, CreateInput{PropertyID: prop.ID, Message: "hello", DurationMonths: 6})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, b.Status)

	// Владелец не может бронировать свой объект
	_, err = bookings.Create(ctx, owner, CreateInput{PropertyID: prop.ID, DurationMonths: 3})
	assert.ErrorIs(t, err, database.ErrOwnProperty)

	// Чужой пользователь не может решать судьбу заявки
	stranger := registerUser(t, authSvc, "other@test.com", models.RoleOwner)
	_, err = bookings.Decide(ctx, stranger, b.ID, models.StatusApproved, "")
	assert.ErrorIs(t, err, ErrForbidden)

	decided, err := bookings.Decide(ctx, owner, b.ID, models.StatusApproved, "welcome")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, decided.Status)
	assert.Equal(t, "welcome", decided.OwnerNotes)

	// Повторное решение просто перезаписывает статус
	again, err := bookings.Decide(ctx, owner, b.ID, models.StatusApproved, "welcome")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, again.Status)

	// Approved уже нельзя отменить
	err = bookings.Cancel(ctx, tenant, b.ID)
	assert.ErrorIs(t, err, database.ErrNotPending)
}

func TestBookingCancelPending(t *testing.T) {
	db := setupDB(t)
	logger := testLogger()
	authSvc := NewAuthService(db, auth.NewTokenManager("s", "renthub", time.Hour), logger)
	bookings := NewBookingService(db, mailer.NewTemplates(""), logger)
	ctx := context.Background()

	owner := registerUser(t, authSvc, "owner@test.com", models.RoleOwner)
	tenant := registerUser(t, authSvc, "tenant@test.com", models.RoleTenant)
	prop := seedListing(t, db, owner.ID)

	b, err := bookings.Create(ctx, tenant, CreateInput{PropertyID: prop.ID, DurationMonths: 3})
	require.NoError(t, err)

	other := registerUser(t, authSvc, "other@test.com", models.RoleTenant)
	assert.ErrorIs(t, bookings.Cancel(ctx, other, b.ID), ErrForbidden)

	require.NoError(t, bookings.Cancel(ctx, tenant, b.ID))
	_, err = db.GetBooking(ctx, b.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRatingRequiresApprovedBooking(t *testing.T) {
	db := setupDB(t)
	logger := testLogger()
	authSvc := NewAuthService(db, auth.NewTokenManager("s", "renthub", time.Hour), logger)
	bookings := NewBookingService(db, mailer.NewTemplates(""), logger)
	ratings := NewRatingService(db, logger)
	ctx := context.Background()

	owner := registerUser(t, authSvc, "owner@test.com", models.RoleOwner)
	tenant := registerUser(t, authSvc, "tenant@test.com", models.RoleTenant)
	prop := seedListing(t, db, owner.ID)

	// Без одобренной брони оценка запрещена
	_, err := ratings.RateProperty(ctx, tenant, prop.ID, 5, "great")
	assert.ErrorIs(t, err, ErrRatingNotAllowed)
	_, err = ratings.RateUser(ctx, tenant, owner.ID, 4, "")
	assert.ErrorIs(t, err, ErrRatingNotAllowed)

	b, err := bookings.Create(ctx, tenant, CreateInput{PropertyID: prop.ID, DurationMonths: 6})
	require.NoError(t, err)
	_, err = bookings.Decide(ctx, owner, b.ID, models.StatusApproved, "")
	require.NoError(t, err)

	r, err := ratings.RateProperty(ctx, tenant, prop.ID, 5, "great")
	require.NoError(t, err)
	assert.NotZero(t, r.ID)

	// Общая одобренная бронь открывает оценку в обе стороны
	_, err = ratings.RateUser(ctx, tenant, owner.ID, 4, "responsive")
	require.NoError(t, err)
	_, err = ratings.RateUser(ctx, owner, tenant.ID, 5, "tidy")
	require.NoError(t, err)

	summary, reviews, err := ratings.PropertyRatings(ctx, prop.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.RatingCount)
	require.Len(t, reviews, 1)
	assert.Equal(t, "great", reviews[0].Comment)
}

func TestRatingValidation(t *testing.T) {
	db := setupDB(t)
	logger := testLogger()
	authSvc := NewAuthService(db, auth.NewTokenManager("s", "renthub", time.Hour), logger)
	ratings := NewRatingService(db, logger)
	ctx := context.Background()

	tenant := registerUser(t, authSvc, "tenant@test.com", models.RoleTenant)
	owner := registerUser(t, authSvc, "owner@test.com", models.RoleOwner)
	prop := seedListing(t, db, owner.ID)

	_, err := ratings.RateProperty(ctx, tenant, prop.ID, 0, "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = ratings.RateProperty(ctx, tenant, prop.ID, 6, "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = ratings.RateUser(ctx, tenant, tenant.ID, 3, "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = ratings.RateProperty(ctx, tenant, 9999, 4, "")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestPropertyOwnershipChecks(t *testing.T) {
	db := setupDB(t)
	logger := testLogger()
	cache := &noopCache{}
	authSvc := NewAuthService(db, auth.NewTokenManager("s", "renthub", time.Hour), logger)
	props := NewPropertyService(db, cache, mailer.NewTemplates(""), logger)
	ctx := context.Background()

	owner := registerUser(t, authSvc, "owner@test.com", models.RoleOwner)
	other := registerUser(t, authSvc, "other@test.com", models.RoleOwner)
	admin := registerUser(t, authSvc, "boss@test.com", models.RoleOwner)
	require.NoError(t, db.UpdateUserRole(ctx, admin.ID, models.RoleAdmin))
	admin.Role = models.RoleAdmin

	p := &models.Property{
		Title:        "Loft",
		Rent:         1500,
		Location:     "Jurmala",
		PropertyType: models.PropertyApartment,
	}
	require.NoError(t, props.Create(ctx, owner, p))
	assert.True(t, p.IsAvailable)
	assert.Equal(t, 1, cache.invalidated)

	p.Title = "Loft updated"
	assert.ErrorIs(t, props.Update(ctx, other, p), ErrForbidden)
	require.NoError(t, props.Update(ctx, owner, p))

	assert.ErrorIs(t, props.Delete(ctx, other, p.ID), ErrForbidden)
	require.NoError(t, props.Delete(ctx, admin, p.ID))
	_, err := props.Get(ctx, p.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestPropertyValidation(t *testing.T) {
	db := setupDB(t)
	logger := testLogger()
	authSvc := NewAuthService(db, auth.NewTokenManager("s", "renthub", time.Hour), logger)
	props := NewPropertyService(db, &noopCache{}, mailer.NewTemplates(""), logger)
	ctx := context.Background()

	owner := registerUser(t, authSvc, "owner@test.com", models.RoleOwner)

	bad := []*models.Property{
		{Rent: 100, Location: "Riga", PropertyType: models.PropertyApartment},
		{Title: "X", Rent: 0, Location: "Riga", PropertyType: models.PropertyApartment},
		{Title: "X", Rent: 100, PropertyType: models.PropertyApartment},
		{Title: "X", Rent: 100, Location: "Riga", PropertyType: "castle"},
	}
	for _, p := range bad {
		assert.ErrorIs(t, props.Create(ctx, owner, p), ErrValidation)
	}
}

func TestAdminUserManagement(t *testing.T) {
	db := setupDB(t)
	logger := testLogger()
	cache := &noopCache{}
	authSvc := NewAuthService(db, auth.NewTokenManager("s", "renthub", time.Hour), logger)
	adminSvc := NewAdminService(db, cache, logger)
	ctx := context.Background()

	admin := registerUser(t, authSvc, "boss@test.com", models.RoleOwner)
	require.NoError(t, db.UpdateUserRole(ctx, admin.ID, models.RoleAdmin))
	admin.Role = models.RoleAdmin
	tenant := registerUser(t, authSvc, "tenant@test.com", models.RoleTenant)

	updated, err := adminSvc.UpdateUserRole(ctx, admin, tenant.ID, models.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, updated.Role)

	_, err = adminSvc.UpdateUserRole(ctx, admin, tenant.ID, "superuser")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = adminSvc.UpdateUserRole(ctx, admin, admin.ID, models.RoleTenant)
	assert.ErrorIs(t, err, ErrValidation)

	assert.ErrorIs(t, adminSvc.DeleteUser(ctx, admin, admin.ID), ErrValidation)
	require.NoError(t, adminSvc.DeleteUser(ctx, admin, tenant.ID))
	_, err = db.GetUserByID(ctx, tenant.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.Equal(t, 1, cache.invalidated)
}

func TestAdminExports(t *testing.T) {
	db := setupDB(t)
	logger := testLogger()
	authSvc := NewAuthService(db, auth.NewTokenManager("s", "renthub", time.Hour), logger)
	bookings := NewBookingService(db, mailer.NewTemplates(""), logger)
	adminSvc := NewAdminService(db, &noopCache{}, logger)
	ctx := context.Background()

	owner := registerUser(t, authSvc, "owner@test.com", models.RoleOwner)
	tenant := registerUser(t, authSvc, "tenant@test.com", models.RoleTenant)
	prop := seedListing(t, db, owner.ID)
	_, err := bookings.Create(ctx, tenant, CreateInput{PropertyID: prop.ID, DurationMonths: 6})
	require.NoError(t, err)

	data, name, err := adminSvc.ExportBookings(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Contains(t, name, "bookings_export_")

	data, name, err = adminSvc.ExportUsers(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Contains(t, name, "users_export_")
}

func TestAnalyticsRevenue(t *testing.T) {
	db := setupDB(t)
	logger := testLogger()
	authSvc := NewAuthService(db, auth.NewTokenManager("s", "renthub", time.Hour), logger)
	bookings := NewBookingService(db, mailer.NewTemplates(""), logger)
	analytics := NewAnalyticsService(db, logger)
	ctx := context.Background()

	owner := registerUser(t, authSvc, "owner@test.com", models.RoleOwner)
	tenant := registerUser(t, authSvc, "tenant@test.com", models.RoleTenant)
	prop := seedListing(t, db, owner.ID)

	b, err := bookings.Create(ctx, tenant, CreateInput{PropertyID: prop.ID, DurationMonths: 6})
	require.NoError(t, err)
	_, err = bookings.Decide(ctx, owner, b.ID, models.StatusApproved, "")
	require.NoError(t, err)

	fin, err := analytics.Financial(ctx, owner)
	require.NoError(t, err)
	assert.InDelta(t, 5400.0, fin.TotalRevenue, 0.01)

	acts, err := analytics.Activities(ctx, owner, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, acts)
}
