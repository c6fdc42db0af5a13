package database

import (
	"context"
	"testing"

	"renthub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAdminStats(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@test.com", models.RoleOwner)
	tenant := seedUser(t, db, "tenant@test.com", models.RoleTenant)
	seedUser(t, db, "admin@test.com", models.RoleAdmin)
	p := seedProperty(t, db, owner.ID)

	b := &models.Booking{PropertyID: p.ID, TenantID: tenant.ID}
	require.NoError(t, db.CreateBooking(ctx, b, nil))
	require.NoError(t, db.UpsertPropertyRating(ctx, &models.PropertyRating{PropertyID: p.ID, TenantID: tenant.ID, Rating: 5}))

	stats, err := db.GetAdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalUsers)
	assert.Equal(t, 1, stats.TotalOwners)
	assert.Equal(t, 1, stats.TotalTenants)
	assert.Equal(t, 1, stats.TotalProperties)
	assert.Equal(t, 1, stats.TotalBookings)
	assert.Equal(t, 1, stats.PendingBookings)
	assert.Equal(t, 1, stats.TotalRatings)
	require.Len(t, stats.MonthlyBookings, 1)
	assert.Equal(t, 1, stats.MonthlyBookings[0].Count)
}

func TestGetAdminStatsEmpty(t *testing.T) {
	db := setupTestDB(t)

	stats, err := db.GetAdminStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalUsers)
	assert.Zero(t, stats.TotalBookings)
	assert.Empty(t, stats.MonthlyBookings)
}

func TestGetFinancialAnalytics(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@test.com", models.RoleOwner)
	t1 := seedUser(t, db, "t1@test.com", models.RoleTenant)
	t2 := seedUser(t, db, "t2@test.com", models.RoleTenant)
	p := seedProperty(t, db, owner.ID) // rent 1200

	approved := &models.Booking{PropertyID: p.ID, TenantID: t1.ID, DurationMonths: 6}
	require.NoError(t, db.CreateBooking(ctx, approved, nil))
	require.NoError(t, db.UpdateBookingStatus(ctx, approved.ID, models.StatusApproved, "", nil))

	pending := &models.Booking{PropertyID: p.ID, TenantID: t2.ID, DurationMonths: 3}
	require.NoError(t, db.CreateBooking(ctx, pending, nil))

	a, err := db.GetFinancialAnalytics(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 7200.0, a.TotalRevenue)
	assert.Equal(t, 7200.0, a.MonthlyRevenue) // approved this month
	assert.Equal(t, 3600.0, a.PendingRevenue)
	require.Len(t, a.TopProperties, 1)
	assert.Equal(t, p.ID, a.TopProperties[0].PropertyID)
	assert.Equal(t, 7200.0, a.TopProperties[0].Revenue)
	require.Len(t, a.MonthlyRevenues, 1)
}

func TestGetPropertyAnalytics(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@test.com", models.RoleOwner)
	tenant := seedUser(t, db, "tenant@test.com", models.RoleTenant)
	p := seedProperty(t, db, owner.ID)

	hidden := &models.Property{
		OwnerID: owner.ID, Title: "Off market", Rent: 800, Location: "Riga",
		Bedrooms: 1, Bathrooms: 1, PropertyType: models.PropertyStudio, IsAvailable: false,
	}
	require.NoError(t, db.CreateProperty(ctx, hidden))

	b := &models.Booking{PropertyID: p.ID, TenantID: tenant.ID}
	require.NoError(t, db.CreateBooking(ctx, b, nil))
	require.NoError(t, db.UpdateBookingStatus(ctx, b.ID, models.StatusApproved, "", nil))
	require.NoError(t, db.UpsertPropertyRating(ctx, &models.PropertyRating{PropertyID: p.ID, TenantID: tenant.ID, Rating: 5}))

	a, err := db.GetPropertyAnalytics(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, a.TotalProperties)
	assert.Equal(t, 1, a.ActiveProperties)
	assert.Equal(t, 1000.0, a.AverageRent)
	require.Len(t, a.Performance, 2)

	var perf *models.PropertyPerformance
	for i := range a.Performance {
		if a.Performance[i].PropertyID == p.ID {
			perf = &a.Performance[i]
		}
	}
	require.NotNil(t, perf)
	assert.Equal(t, 1, perf.Inquiries)
	assert.Equal(t, 1, perf.Bookings)
	assert.Equal(t, 5.0, perf.AverageRating)
	assert.Equal(t, 1, perf.RatingCount)
}

func TestGetRecentActivities(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@test.com", models.RoleOwner)
	tenant := seedUser(t, db, "tenant@test.com", models.RoleTenant)
	p := seedProperty(t, db, owner.ID)

	b := &models.Booking{PropertyID: p.ID, TenantID: tenant.ID}
	require.NoError(t, db.CreateBooking(ctx, b, nil))
	require.NoError(t, db.UpdateBookingStatus(ctx, b.ID, models.StatusApproved, "", nil))

	activities, err := db.GetRecentActivities(ctx, owner.ID, 10)
	require.NoError(t, err)
	require.Len(t, activities, 2)

	types := []string{activities[0].Type, activities[1].Type}
	assert.Contains(t, types, "booking_request")
	assert.Contains(t, types, "booking_approved")
	assert.Contains(t, activities[0].Description, tenant.Name)
}
