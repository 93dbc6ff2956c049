// Package account covers the signed-in user's self-service surface:
// order history, saved prescriptions, delivery addresses, and
// notification settings.
package account

import (
	"context"
	"errors"
	"log/slog"

	"github.com/careplus/pharmacy-api/internal/cart"
	"github.com/careplus/pharmacy-api/internal/kvstore"
	"github.com/careplus/pharmacy-api/internal/model"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrAddressNotFound      = errors.New("address not found")
)

const (
	ordersCollection        = "orders"
	prescriptionsCollection = "prescriptions"
	addressesCollection     = "addresses"
	settingsCollection      = "settings"
)

type Service struct {
	store kvstore.Store
	carts *cart.Service
	log   *slog.Logger
	nowID func() int64
}

func NewService(store kvstore.Store, carts *cart.Service, log *slog.Logger, nowID func() int64) *Service {
	return &Service{store: store, carts: carts, log: log, nowID: nowID}
}

// Orders returns the user's order history, newest first (placement order
// is preserved as stored).
func (s *Service) Orders(ctx context.Context, userID int64) []model.Order {
	orders := kvstore.Load(ctx, s.store, s.log, kvstore.Key(ordersCollection, userID), []model.Order(nil))
	if orders == nil {
		orders = []model.Order{}
	}
	return orders
}

func (s *Service) Order(ctx context.Context, userID, orderID int64) (*model.Order, error) {
	for _, o := range s.Orders(ctx, userID) {
		if o.ID == orderID {
			return &o, nil
		}
	}
	return nil, ErrOrderNotFound
}

// Reorder copies every line of a past order back into the cart at its
// recorded quantity, merging with whatever is already there.
func (s *Service) Reorder(ctx context.Context, userID, orderID int64) (*cart.Summary, error) {
	order, err := s.Order(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	var summary *cart.Summary
	for _, line := range order.Items {
		summary = s.carts.AddLine(ctx, userID, line)
	}
	return summary, nil
}

func (s *Service) Prescriptions(ctx context.Context, userID int64) []model.Prescription {
	recs := kvstore.Load(ctx, s.store, s.log, kvstore.Key(prescriptionsCollection, userID), []model.Prescription(nil))
	if recs == nil {
		recs = []model.Prescription{}
	}
	return recs
}

func (s *Service) Prescription(ctx context.Context, userID, prescriptionID int64) (*model.Prescription, error) {
	for _, p := range s.Prescriptions(ctx, userID) {
		if p.ID == prescriptionID {
			return &p, nil
		}
	}
	return nil, ErrPrescriptionNotFound
}

func (s *Service) Addresses(ctx context.Context, userID int64) []model.Address {
	addrs := kvstore.Load(ctx, s.store, s.log, kvstore.Key(addressesCollection, userID), []model.Address(nil))
	if addrs == nil {
		addrs = []model.Address{}
	}
	return addrs
}

// AddAddress appends the address. When the new address is marked default
// the flag is cleared on every other saved address.
func (s *Service) AddAddress(ctx context.Context, userID int64, addr model.Address) model.Address {
	addrs := s.Addresses(ctx, userID)
	addr.ID = s.nowID()
	if addr.IsDefault {
		for i := range addrs {
			addrs[i].IsDefault = false
		}
	}
	addrs = append(addrs, addr)
	s.saveAddresses(ctx, userID, addrs)
	return addr
}

func (s *Service) UpdateAddress(ctx context.Context, userID int64, addr model.Address) (*model.Address, error) {
	addrs := s.Addresses(ctx, userID)
	for i := range addrs {
		if addrs[i].ID == addr.ID {
			if addr.IsDefault {
				for j := range addrs {
					addrs[j].IsDefault = false
				}
			}
			addrs[i] = addr
			s.saveAddresses(ctx, userID, addrs)
			return &addrs[i], nil
		}
	}
	return nil, ErrAddressNotFound
}

func (s *Service) DeleteAddress(ctx context.Context, userID, addressID int64) error {
	addrs := s.Addresses(ctx, userID)
	for i := range addrs {
		if addrs[i].ID == addressID {
			addrs = append(addrs[:i], addrs[i+1:]...)
			s.saveAddresses(ctx, userID, addrs)
			return nil
		}
	}
	return ErrAddressNotFound
}

// SetDefaultAddress marks exactly one address as default.
func (s *Service) SetDefaultAddress(ctx context.Context, userID, addressID int64) error {
	addrs := s.Addresses(ctx, userID)
	found := false
	for i := range addrs {
		addrs[i].IsDefault = addrs[i].ID == addressID
		if addrs[i].IsDefault {
			found = true
		}
	}
	if !found {
		return ErrAddressNotFound
	}
	s.saveAddresses(ctx, userID, addrs)
	return nil
}

func (s *Service) saveAddresses(ctx context.Context, userID int64, addrs []model.Address) {
	kvstore.Save(ctx, s.store, s.log, kvstore.Key(addressesCollection, userID), addrs)
}

func (s *Service) Settings(ctx context.Context, userID int64) model.UserSettings {
	settings := kvstore.Load(ctx, s.store, s.log, kvstore.Key(settingsCollection, userID), model.UserSettings{})
	if settings == nil {
		settings = model.UserSettings{}
	}
	return settings
}

// UpdateSettings merges the given toggles into the stored map.
func (s *Service) UpdateSettings(ctx context.Context, userID int64, patch model.UserSettings) model.UserSettings {
	settings := s.Settings(ctx, userID)
	for k, v := range patch {
		settings[k] = v
	}
	kvstore.Save(ctx, s.store, s.log, kvstore.Key(settingsCollection, userID), settings)
	return settings
}
