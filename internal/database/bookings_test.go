package database

import (
	"context"
	"testing"
	"time"

	"renthub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookingChecks(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@test.com", models.RoleOwner)
	tenant := seedUser(t, db, "tenant@test.com", models.RoleTenant)
	p := seedProperty(t, db, owner.ID)

	// Missing property
	err := db.CreateBooking(ctx, &models.Booking{PropertyID: 9999, TenantID: tenant.ID}, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	// Owner booking own listing
	err = db.CreateBooking(ctx, &models.Booking{PropertyID: p.ID, TenantID: owner.ID}, nil)
	assert.ErrorIs(t, err, ErrOwnProperty)

	// First request succeeds
	b := &models.Booking{PropertyID: p.ID, TenantID: tenant.ID, Message: "Hello"}
	require.NoError(t, db.CreateBooking(ctx, b, nil))
	assert.NotZero(t, b.ID)
	assert.Equal(t, models.StatusPending, b.Status)
	assert.Equal(t, models.DefaultDurationMonths, b.DurationMonths)

	// Second Pending request for the same pair is rejected
	err = db.CreateBooking(ctx, &models.Booking{PropertyID: p.ID, TenantID: tenant.ID}, nil)
	assert.ErrorIs(t, err, ErrDuplicatePending)

	// Unavailable listing cannot be booked
	p.IsAvailable = false
	require.NoError(t, db.UpdateProperty(ctx, p))
	other := seedUser(t, db, "other@test.com", models.RoleTenant)
	err = db.CreateBooking(ctx, &models.Booking{PropertyID: p.ID, TenantID: other.ID}, nil)
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestCreateBookingQueuesNotification(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@test.com", models.RoleOwner)
	tenant := seedUser(t, db, "tenant@test.com", models.RoleTenant)
	p := seedProperty(t, db, owner.ID)

	notify := &models.OutboxEmail{
		Kind:      models.EmailBookingCreated,
		Recipient: owner.Email,
		Subject:   "New booking request",
		Body:      "<p>hi</p>",
	}
	b := &models.Booking{PropertyID: p.ID, TenantID: tenant.ID}
	require.NoError(t, db.CreateBooking(ctx, b, notify))

	emails, err := db.GetPendingEmails(ctx, 10)
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, owner.Email, emails[0].Recipient)
	assert.Equal(t, models.EmailBookingCreated, emails[0].Kind)
}

func TestUpdateBookingStatus(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@test.com", models.RoleOwner)
	tenant := seedUser(t, db, "tenant@test.com", models.RoleTenant)
	p := seedProperty(t, db, owner.ID)

	b := &models.Booking{PropertyID: p.ID, TenantID: tenant.ID}
	require.NoError(t, db.CreateBooking(ctx, b, nil))

	notify := &models.OutboxEmail{
		Kind:      models.EmailBookingStatus,
		Recipient: tenant.Email,
		Subject:   "Booking approved",
		Body:      "<p>approved</p>",
	}
	require.NoError(t, db.UpdateBookingStatus(ctx, b.ID, models.StatusApproved, "Welcome", notify))

	got, err := db.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.Equal(t, "Welcome", got.OwnerNotes)
	require.NotNil(t, got.ResponseTime)

	emails, err := db.GetPendingEmails(ctx, 10)
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, tenant.Email, emails[0].Recipient)

	assert.ErrorIs(t, db.UpdateBookingStatus(ctx, 9999, models.StatusRejected, "", nil), ErrNotFound)
}

func TestTenantAndOwnerBookingLists(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@test.com", models.RoleOwner)
	tenant := seedUser(t, db, "tenant@test.com", models.RoleTenant)
	p := seedProperty(t, db, owner.ID)

	b := &models.Booking{PropertyID: p.ID, TenantID: tenant.ID, Message: "Interested"}
	require.NoError(t, db.CreateBooking(ctx, b, nil))

	mine, err := db.GetTenantBookings(ctx, tenant.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, p.Title, mine[0].PropertyTitle)
	assert.Equal(t, owner.Name, mine[0].OwnerName)

	incoming, err := db.GetOwnerBookings(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, tenant.Name, incoming[0].TenantName)
	assert.Equal(t, "Interested", incoming[0].Message)

	// Other users see nothing
	none, err := db.GetTenantBookings(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetOwnerStats(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@test.com", models.RoleOwner)
	t1 := seedUser(t, db, "t1@test.com", models.RoleTenant)
	t2 := seedUser(t, db, "t2@test.com", models.RoleTenant)
	p := seedProperty(t, db, owner.ID)
	seedProperty(t, db, owner.ID)

	b1 := &models.Booking{PropertyID: p.ID, TenantID: t1.ID}
	require.NoError(t, db.CreateBooking(ctx, b1, nil))
	b2 := &models.Booking{PropertyID: p.ID, TenantID: t2.ID}
	require.NoError(t, db.CreateBooking(ctx, b2, nil))
	require.NoError(t, db.UpdateBookingStatus(ctx, b2.ID, models.StatusRejected, "", nil))

	stats, err := db.GetOwnerStats(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalProperties)
	assert.Equal(t, 2, stats.TotalRequests)
	assert.Equal(t, 1, stats.PendingRequests)
	assert.Equal(t, 0, stats.ApprovedBookings)
	assert.Equal(t, 1, stats.RejectedRequests)
}

func TestHasApprovedBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@test.com", models.RoleOwner)
	tenant := seedUser(t, db, "tenant@test.com", models.RoleTenant)
	p := seedProperty(t, db, owner.ID)

	b := &models.Booking{PropertyID: p.ID, TenantID: tenant.ID}
	require.NoError(t, db.CreateBooking(ctx, b, nil))

	ok, err := db.HasApprovedBooking(ctx, p.ID, tenant.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.UpdateBookingStatus(ctx, b.ID, models.StatusApproved, "", nil))

	ok, err = db.HasApprovedBooking(ctx, p.ID, tenant.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasSharedApprovedBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@test.com", models.RoleOwner)
	tenant := seedUser(t, db, "tenant@test.com", models.RoleTenant)
	stranger := seedUser(t, db, "stranger@test.com", models.RoleTenant)
	p := seedProperty(t, db, owner.ID)

	b := &models.Booking{PropertyID: p.ID, TenantID: tenant.ID}
	require.NoError(t, db.CreateBooking(ctx, b, nil))
	require.NoError(t, db.UpdateBookingStatus(ctx, b.ID, models.StatusApproved, "", nil))

	// Both directions of the approved pair
	ok, err := db.HasSharedApprovedBooking(ctx, tenant.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = db.HasSharedApprovedBooking(ctx, owner.ID, tenant.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = db.HasSharedApprovedBooking(ctx, stranger.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetStalePendingBookings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@test.com", models.RoleOwner)
	tenant := seedUser(t, db, "tenant@test.com", models.RoleTenant)
	p := seedProperty(t, db, owner.ID)

	b := &models.Booking{PropertyID: p.ID, TenantID: tenant.ID}
	require.NoError(t, db.CreateBooking(ctx, b, nil))

	stale, err := db.GetStalePendingBookings(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, owner.Email, stale[0].OwnerEmail)

	// Nothing predates an old cutoff
	stale, err = db.GetStalePendingBookings(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, stale)
}
