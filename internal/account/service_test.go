package account

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careplus/pharmacy-api/internal/cart"
	"github.com/careplus/pharmacy-api/internal/catalog"
	"github.com/careplus/pharmacy-api/internal/kvstore"
	"github.com/careplus/pharmacy-api/internal/model"
)

func newTestService(t *testing.T) (*Service, *cart.Service, kvstore.Store, *slog.Logger) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	products := catalog.NewService(store, log, 1)
	carts := cart.NewService(store, products, log)
	var next int64 = 100
	svc := NewService(store, carts, log, func() int64 { next++; return next })
	return svc, carts, store, log
}

func seedOrder(t *testing.T, store kvstore.Store, log *slog.Logger, userID int64, order model.Order) {
	t.Helper()
	ctx := context.Background()
	key := kvstore.Key("orders", userID)
	orders := kvstore.Load(ctx, store, log, key, []model.Order(nil))
	kvstore.Save(ctx, store, log, key, append([]model.Order{order}, orders...))
}

func TestOrdersEmpty(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	assert.Empty(t, svc.Orders(context.Background(), 7))
}

func TestOrderLookup(t *testing.T) {
	svc, _, store, log := newTestService(t)
	seedOrder(t, store, log, 7, model.Order{ID: 42, UserID: 7, Status: model.OrderStatusPending, Date: time.Now()})

	order, err := svc.Order(context.Background(), 7, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), order.ID)

	_, err = svc.Order(context.Background(), 7, 99)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	// Another user cannot see it.
	_, err = svc.Order(context.Background(), 8, 42)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestReorder(t *testing.T) {
	svc, carts, store, log := newTestService(t)
	ctx := context.Background()
	seedOrder(t, store, log, 7, model.Order{
		ID: 42, UserID: 7,
		Items: []model.CartLine{
			{ProductID: 1, Title: "Aspirin", Price: decimal.NewFromInt(10), Quantity: 3},
			{ProductID: 2, Title: "Vitamin C", Price: decimal.NewFromInt(5), Quantity: 1},
		},
	})

	summary, err := svc.Reorder(ctx, 7, 42)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalItems)

	// Reordering again merges into the existing lines.
	summary, err = svc.Reorder(ctx, 7, 42)
	require.NoError(t, err)
	assert.Equal(t, 8, summary.TotalItems)
	assert.Len(t, carts.Summary(ctx, 7).Items, 2)

	_, err = svc.Reorder(ctx, 7, 99)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestAddAddressClearsOtherDefaults(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	first := svc.AddAddress(ctx, 7, model.Address{Label: "Home", IsDefault: true})
	second := svc.AddAddress(ctx, 7, model.Address{Label: "Work", IsDefault: true})

	addrs := svc.Addresses(ctx, 7)
	require.Len(t, addrs, 2)
	for _, a := range addrs {
		if a.ID == second.ID {
			assert.True(t, a.IsDefault)
		} else {
			assert.False(t, a.IsDefault, "address %d should have lost the default flag", first.ID)
		}
	}
}

func TestUpdateAddress(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	addr := svc.AddAddress(ctx, 7, model.Address{Label: "Home", City: "Springfield"})
	addr.City = "Shelbyville"
	updated, err := svc.UpdateAddress(ctx, 7, addr)
	require.NoError(t, err)
	assert.Equal(t, "Shelbyville", updated.City)

	addr.ID = 9999
	_, err = svc.UpdateAddress(ctx, 7, addr)
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestSetDefaultAddressExactlyOne(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	a := svc.AddAddress(ctx, 7, model.Address{Label: "Home", IsDefault: true})
	b := svc.AddAddress(ctx, 7, model.Address{Label: "Work"})

	require.NoError(t, svc.SetDefaultAddress(ctx, 7, b.ID))

	defaults := 0
	for _, addr := range svc.Addresses(ctx, 7) {
		if addr.IsDefault {
			defaults++
			assert.Equal(t, b.ID, addr.ID)
		}
	}
	assert.Equal(t, 1, defaults)

	assert.ErrorIs(t, svc.SetDefaultAddress(ctx, 7, 9999), ErrAddressNotFound)
	_ = a
}

func TestDeleteAddress(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	addr := svc.AddAddress(ctx, 7, model.Address{Label: "Home"})
	require.NoError(t, svc.DeleteAddress(ctx, 7, addr.ID))
	assert.Empty(t, svc.Addresses(ctx, 7))
	assert.ErrorIs(t, svc.DeleteAddress(ctx, 7, addr.ID), ErrAddressNotFound)
}

func TestSettingsMerge(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	assert.Empty(t, svc.Settings(ctx, 7))

	svc.UpdateSettings(ctx, 7, model.UserSettings{"email_notifications": true, "sms_notifications": false})
	settings := svc.UpdateSettings(ctx, 7, model.UserSettings{"sms_notifications": true})

	assert.True(t, settings["email_notifications"])
	assert.True(t, settings["sms_notifications"])
}
