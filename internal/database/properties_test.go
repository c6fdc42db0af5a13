package database

import (
	"context"
	"testing"

	"renthub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPropertyByID(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@test.com", models.RoleOwner)
	p := seedProperty(t, db, owner.ID)

	got, err := db.GetPropertyByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Title, got.Title)
	assert.Equal(t, owner.Name, got.OwnerName)
	assert.Equal(t, []string{"wifi", "parking"}, got.Amenities)
	assert.Nil(t, got.AverageRating)
	assert.Equal(t, 0, got.RatingCount)

	_, err = db.GetPropertyByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPropertiesFilters(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@test.com", models.RoleOwner)

	cheap := seedProperty(t, db, owner.ID)

	expensive := &models.Property{
		OwnerID: owner.ID, Title: "Luxury Villa", Rent: 5000, Location: "Jurmala",
		Bedrooms: 4, Bathrooms: 3, PropertyType: models.PropertyVilla, IsAvailable: true,
	}
	require.NoError(t, db.CreateProperty(ctx, expensive))

	hidden := &models.Property{
		OwnerID: owner.ID, Title: "Hidden Flat", Rent: 900, Location: "Riga",
		Bedrooms: 1, Bathrooms: 1, PropertyType: models.PropertyStudio, IsAvailable: false,
	}
	require.NoError(t, db.CreateProperty(ctx, hidden))

	// Unavailable listings never appear in the public list
	all, total, err := db.ListProperties(ctx, models.PropertyFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, all, 2)

	// Rent range
	got, total, err := db.ListProperties(ctx, models.PropertyFilter{MaxRent: 2000, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, cheap.ID, got[0].ID)

	// Location substring
	got, total, err = db.ListProperties(ctx, models.PropertyFilter{Location: "jurm", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, expensive.ID, got[0].ID)

	// Type + bedrooms
	got, total, err = db.ListProperties(ctx, models.PropertyFilter{
		PropertyType: models.PropertyVilla, Bedrooms: 3, Page: 1, Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "Luxury Villa", got[0].Title)
}

func TestListPropertiesPagination(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@test.com", models.RoleOwner)
	for i := 0; i < 5; i++ {
		seedProperty(t, db, owner.ID)
	}

	page1, total, err := db.ListProperties(ctx, models.PropertyFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, page1, 2)

	page3, total, err := db.ListProperties(ctx, models.PropertyFilter{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, page3, 1)
}

func TestUpdateProperty(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@test.com", models.RoleOwner)
	p := seedProperty(t, db, owner.ID)

	p.Title = "Renovated Apartment"
	p.Rent = 1500
	p.IsAvailable = false
	require.NoError(t, db.UpdateProperty(ctx, p))

	got, err := db.GetPropertyByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renovated Apartment", got.Title)
	assert.Equal(t, 1500.0, got.Rent)
	assert.False(t, got.IsAvailable)
}

func TestGetOwnerPropertiesCounters(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@test.com", models.RoleOwner)
	tenant := seedUser(t, db, "tenant@test.com", models.RoleTenant)
	other := seedUser(t, db, "other@test.com", models.RoleTenant)
	p := seedProperty(t, db, owner.ID)

	b1 := &models.Booking{PropertyID: p.ID, TenantID: tenant.ID}
	require.NoError(t, db.CreateBooking(ctx, b1, nil))
	b2 := &models.Booking{PropertyID: p.ID, TenantID: other.ID}
	require.NoError(t, db.CreateBooking(ctx, b2, nil))
	require.NoError(t, db.UpdateBookingStatus(ctx, b2.ID, models.StatusApproved, "", nil))

	props, err := db.GetOwnerProperties(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, 1, props[0].PendingRequests)
	assert.Equal(t, 1, props[0].ApprovedBookings)
}
