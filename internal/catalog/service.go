package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/careplus/pharmacy-api/internal/kvstore"
	"github.com/careplus/pharmacy-api/internal/model"
)

var ErrProductNotFound = errors.New("product not found")

const (
	productsKey = "products"
	faqKey      = "faq"
)

// Service owns the read-only catalog. The product list is loaded from the
// store or generated on first use; after that it is cached in memory and
// never mutated.
type Service struct {
	store kvstore.Store
	log   *slog.Logger
	seed  int64

	mu       sync.Mutex
	products []model.Product
}

func NewService(store kvstore.Store, log *slog.Logger, seed int64) *Service {
	return &Service{store: store, log: log, seed: seed}
}

// Products returns the full catalog, generating and persisting it if the
// store has none.
func (s *Service) Products(ctx context.Context) []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.products != nil {
		return s.products
	}

	products := kvstore.Load(ctx, s.store, s.log, productsKey, []model.Product(nil))
	if len(products) == 0 {
		products = Generate(s.seed)
		kvstore.Save(ctx, s.store, s.log, productsKey, products)
		s.log.Info("generated demo catalog", "products", len(products))
	}
	s.products = products
	return s.products
}

func (s *Service) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	for _, p := range s.Products(ctx) {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}

func (s *Service) Browse(ctx context.Context, q Query) *Result {
	filtered := Filter(s.Products(ctx), q)
	Sort(filtered, q.Sort)

	page := q.Page
	if page < 1 {
		page = 1
	}
	items, totalPages := Paginate(filtered, page)

	return &Result{
		Products:   items,
		Total:      len(filtered),
		Page:       page,
		TotalPages: totalPages,
		PageWindow: PageWindow(page, totalPages),
	}
}

// Featured returns up to limit featured products, catalog order.
func (s *Service) Featured(ctx context.Context, limit int) []model.Product {
	out := make([]model.Product, 0, limit)
	for _, p := range s.Products(ctx) {
		if p.Featured {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// Offers returns up to limit discounted products, catalog order.
func (s *Service) Offers(ctx context.Context, limit int) []model.Product {
	out := make([]model.Product, 0, limit)
	for _, p := range s.Products(ctx) {
		if p.Discount > 0 {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func (s *Service) Brands(ctx context.Context) []string {
	return Brands(s.Products(ctx))
}

// FAQ returns the canned question list, generating it on first use.
func (s *Service) FAQ(ctx context.Context) []model.FAQ {
	faq := kvstore.Load(ctx, s.store, s.log, faqKey, []model.FAQ(nil))
	if len(faq) == 0 {
		faq = GenerateFAQ()
		kvstore.Save(ctx, s.store, s.log, faqKey, faq)
	}
	return faq
}
