package notify_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vee4group/order-tracker-api/models"
	"github.com/vee4group/order-tracker-api/notify"
	"github.com/vee4group/order-tracker-api/tests/testutil"
)

func TestRecipientResolver(t *testing.T) {
	db := testutil.OpenTestDB(t)

	customer := testutil.CreateUser(t, db, "auth0|cust", "Asha", "asha@example.com", models.RoleCustomer)
	require.NoError(t, db.Model(&customer).Update("phone", "9876543210").Error)
	admin1 := testutil.CreateUser(t, db, "auth0|a1", "Admin One", "a1@vee4.com", models.RoleAdmin)
	admin2 := testutil.CreateUser(t, db, "auth0|a2", "Admin Two", "a2@vee4.com", models.RoleAdmin)
	require.NoError(t, db.Model(&admin2).Update("phone", "+15551234567").Error)
	testutil.CreateUser(t, db, "auth0|other", "Other Customer", "other@example.com", models.RoleCustomer)

	require.NoError(t, db.First(&customer, customer.ID).Error)
	order := models.Order{ID: 1, OrderNumber: "ORD-2026-01", Customer: customer, CustomerID: customer.ID}

	resolver := notify.NewRecipientResolver(db, "client@vee4.com", "09876500000")
	ctx := context.Background()

	t.Run("status update reaches customer, admins and extras", func(t *testing.T) {
		got, err := resolver.Resolve(ctx, notify.Event{Kind: notify.KindStatusUpdate, Order: order})
		require.NoError(t, err)
		require.Len(t, got, 5)

		assert.Equal(t, notify.CategoryCustomer, got[0].Category)
		assert.Equal(t, "asha@example.com", got[0].Email)
		assert.Equal(t, "9876543210", got[0].Phone)

		assert.Equal(t, admin1.ID, *got[1].UserID)
		assert.Empty(t, got[1].Phone)
		assert.Equal(t, admin2.ID, *got[2].UserID)
		assert.Equal(t, "+15551234567", got[2].Phone)

		assert.Equal(t, notify.Recipient{Name: "Client", Category: notify.CategoryAdmin, Email: "client@vee4.com"}, got[3])
		assert.Equal(t, notify.Recipient{Name: "Client", Category: notify.CategoryAdmin, Phone: "09876500000"}, got[4])
	})

	t.Run("customer message goes to staff only", func(t *testing.T) {
		got, err := resolver.Resolve(ctx, notify.Event{Kind: notify.KindNewMessage, Order: order, Actor: &customer})
		require.NoError(t, err)
		for _, r := range got {
			assert.Equal(t, notify.CategoryAdmin, r.Category)
		}
		assert.Len(t, got, 4)
	})

	t.Run("admin message excludes the author", func(t *testing.T) {
		got, err := resolver.Resolve(ctx, notify.Event{Kind: notify.KindNewMessage, Order: order, Actor: &admin1, FromStaff: true})
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, notify.CategoryCustomer, got[0].Category)
		for _, r := range got {
			if r.UserID != nil {
				assert.NotEqual(t, admin1.ID, *r.UserID)
			}
		}
	})

	t.Run("admins are read on every call", func(t *testing.T) {
		testutil.CreateUser(t, db, "auth0|a3", "Admin Three", "a3@vee4.com", models.RoleAdmin)
		got, err := resolver.Resolve(ctx, notify.Event{Kind: notify.KindCancellation, Order: order})
		require.NoError(t, err)
		assert.Len(t, got, 6)
	})

	t.Run("no extras configured", func(t *testing.T) {
		plain := notify.NewRecipientResolver(db, "", "")
		got, err := plain.Resolve(ctx, notify.Event{Kind: notify.KindNewOrder, Order: order})
		require.NoError(t, err)
		for _, r := range got {
			assert.NotNil(t, r.UserID)
		}
	})
}
