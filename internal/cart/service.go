// Package cart manages per-user shopping carts: line items merged by
// product, a snapshotted discount, and derived totals. Every mutation is
// persisted as a whole document and followed by a coarse change
// notification that carries no payload beyond the owning user.
package cart

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/careplus/pharmacy-api/internal/catalog"
	"github.com/careplus/pharmacy-api/internal/kvstore"
	"github.com/careplus/pharmacy-api/internal/model"
)

var ErrLineNotFound = errors.New("cart line not found")

const cartCollection = "cart"

// Summary is the cart plus everything derived from it, recomputed from
// scratch on every read.
type Summary struct {
	Items                []model.CartLine `json:"items"`
	TotalItems           int              `json:"total_items"`
	Subtotal             decimal.Decimal  `json:"subtotal"`
	Shipping             decimal.Decimal  `json:"shipping"`
	Tax                  decimal.Decimal  `json:"tax"`
	Discount             decimal.Decimal  `json:"discount"`
	Total                decimal.Decimal  `json:"total"`
	DiscountCode         string           `json:"discount_code,omitempty"`
	HasPrescriptionItems bool             `json:"has_prescription_items"`
}

type Service struct {
	store    kvstore.Store
	products *catalog.Service
	log      *slog.Logger

	mu   sync.Mutex
	subs []func(userID int64)
}

func NewService(store kvstore.Store, products *catalog.Service, log *slog.Logger) *Service {
	return &Service{store: store, products: products, log: log}
}

// Subscribe registers a cart-change listener. The signal is deliberately
// coarse: listeners re-read the cart they care about.
func (s *Service) Subscribe(fn func(userID int64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Service) notify(userID int64) {
	s.mu.Lock()
	subs := make([]func(int64), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(userID)
	}
}

func (s *Service) load(ctx context.Context, userID int64) model.CartDoc {
	return kvstore.Load(ctx, s.store, s.log, kvstore.Key(cartCollection, userID), model.CartDoc{})
}

func (s *Service) save(ctx context.Context, userID int64, doc model.CartDoc) {
	kvstore.Save(ctx, s.store, s.log, kvstore.Key(cartCollection, userID), doc)
}

// Add merges qty of the given product into the cart, appending a new line
// when none exists for that product.
func (s *Service) Add(ctx context.Context, userID, productID int64, qty int) (*Summary, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if qty < 1 {
		qty = 1
	}

	doc := s.load(ctx, userID)
	doc.Items = mergeLine(doc.Items, model.CartLine{
		ProductID:    product.ID,
		Title:        product.Title,
		Price:        product.Price,
		Image:        product.Image,
		Brand:        product.Brand,
		Prescription: product.Prescription,
		Quantity:     qty,
	})
	s.save(ctx, userID, doc)
	s.notify(userID)
	return s.summarize(doc), nil
}

// AddLine merges a snapshotted line (reorder path: the saved price wins
// over the current catalog price).
func (s *Service) AddLine(ctx context.Context, userID int64, line model.CartLine) *Summary {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	doc := s.load(ctx, userID)
	doc.Items = mergeLine(doc.Items, line)
	s.save(ctx, userID, doc)
	s.notify(userID)
	return s.summarize(doc)
}

func mergeLine(items []model.CartLine, line model.CartLine) []model.CartLine {
	for i := range items {
		if items[i].ProductID == line.ProductID {
			items[i].Quantity += line.Quantity
			return items
		}
	}
	return append(items, line)
}

func (s *Service) Remove(ctx context.Context, userID, productID int64) *Summary {
	doc := s.load(ctx, userID)
	kept := doc.Items[:0]
	for _, line := range doc.Items {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	doc.Items = kept
	s.save(ctx, userID, doc)
	s.notify(userID)
	return s.summarize(doc)
}

// UpdateQuantity sets the line's quantity; zero or negative removes it.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID int64, qty int) (*Summary, error) {
	if qty <= 0 {
		return s.Remove(ctx, userID, productID), nil
	}
	doc := s.load(ctx, userID)
	found := false
	for i := range doc.Items {
		if doc.Items[i].ProductID == productID {
			doc.Items[i].Quantity = qty
			found = true
			break
		}
	}
	if !found {
		return nil, ErrLineNotFound
	}
	s.save(ctx, userID, doc)
	s.notify(userID)
	return s.summarize(doc), nil
}

func (s *Service) Clear(ctx context.Context, userID int64) *Summary {
	doc := model.CartDoc{}
	s.save(ctx, userID, doc)
	s.notify(userID)
	return s.summarize(doc)
}

// ApplyDiscount matches code case-sensitively against the fixed table.
// Unknown codes leave the cart untouched and report false. The discount
// amount is snapshotted from the subtotal at apply time.
func (s *Service) ApplyDiscount(ctx context.Context, userID int64, code string) (*Summary, bool) {
	rate, ok := discountCodes[code]
	if !ok {
		return s.Summary(ctx, userID), false
	}
	doc := s.load(ctx, userID)
	doc.DiscountCode = code
	doc.DiscountAmount = Subtotal(doc.Items).Mul(rate)
	s.save(ctx, userID, doc)
	s.notify(userID)
	return s.summarize(doc), true
}

func (s *Service) RemoveDiscount(ctx context.Context, userID int64) *Summary {
	doc := s.load(ctx, userID)
	doc.DiscountCode = ""
	doc.DiscountAmount = decimal.Zero
	s.save(ctx, userID, doc)
	s.notify(userID)
	return s.summarize(doc)
}

func (s *Service) Summary(ctx context.Context, userID int64) *Summary {
	return s.summarize(s.load(ctx, userID))
}

// Doc exposes the raw persisted cart for checkout snapshotting.
func (s *Service) Doc(ctx context.Context, userID int64) model.CartDoc {
	return s.load(ctx, userID)
}

func (s *Service) summarize(doc model.CartDoc) *Summary {
	subtotal := Subtotal(doc.Items)
	shipping := Shipping(subtotal)
	tax := Tax(subtotal)
	items := doc.Items
	if items == nil {
		items = []model.CartLine{}
	}
	return &Summary{
		Items:                items,
		TotalItems:           TotalItems(doc.Items),
		Subtotal:             subtotal,
		Shipping:             shipping,
		Tax:                  tax,
		Discount:             doc.DiscountAmount,
		Total:                subtotal.Add(shipping).Add(tax).Sub(doc.DiscountAmount),
		DiscountCode:         doc.DiscountCode,
		HasPrescriptionItems: hasPrescriptionItems(doc.Items),
	}
}
