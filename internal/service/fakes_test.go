package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/amiraesya/glowmart-golang/internal/models"
	"github.com/amiraesya/glowmart-golang/internal/repository"
)

// In-memory stores implementing the repository interfaces. The order
// store honors the same contract as the SQL layer: CreateOrder checks
// and decrements stock under one lock, so the concurrency tests exercise
// the real all-or-nothing semantics.

type fakeCatalog struct {
	mu       sync.Mutex
	products map[string]models.Product
}

func newFakeCatalog(products ...models.Product) *fakeCatalog {
	f := &fakeCatalog{products: make(map[string]models.Product)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := p
	return &copied, nil
}

func (f *fakeCatalog) GetProductBySlug(_ context.Context, slug string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.Slug == slug {
			copied := p
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCatalog) ListProducts(_ context.Context, filter models.ProductFilter) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.FeaturedOnly && !p.Featured {
			continue
		}
		if filter.Query != "" && !strings.Contains(p.Name, filter.Query) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCatalog) CreateProduct(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = *p
	return nil
}

func (f *fakeCatalog) UpdateProduct(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	f.products[p.ID] = *p
	return nil
}

func (f *fakeCatalog) DeleteProduct(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeCatalog) DecrementStock(_ context.Context, id string, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.decrementLocked(id, qty)
}

func (f *fakeCatalog) decrementLocked(id string, qty int) error {
	p, ok := f.products[id]
	if !ok || p.StockQuantity < qty {
		return repository.ErrStockConflict
	}
	p.StockQuantity -= qty
	f.products[id] = p
	return nil
}

func (f *fakeCatalog) IncrementStock(_ context.Context, id string, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.StockQuantity += qty
	f.products[id] = p
	return nil
}

func (f *fakeCatalog) stock(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].StockQuantity
}

func (f *fakeCatalog) setPrice(id string, price float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.products[id]
	p.Price = price
	f.products[id] = p
}

func (f *fakeCatalog) setStock(id string, stock int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.products[id]
	p.StockQuantity = stock
	f.products[id] = p
}

type fakeCartStore struct {
	mu    sync.Mutex
	items map[string]map[string]int // userID -> productID -> qty
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{items: make(map[string]map[string]int)}
}

func (f *fakeCartStore) UpsertItem(_ context.Context, userID, productID string, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.items[userID] == nil {
		f.items[userID] = make(map[string]int)
	}
	f.items[userID][productID] = qty
	return nil
}

func (f *fakeCartStore) GetQuantity(_ context.Context, userID, productID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[userID][productID], nil
}

func (f *fakeCartStore) RemoveItem(_ context.Context, userID, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items[userID], productID)
	return nil
}

func (f *fakeCartStore) ListItems(_ context.Context, userID string) ([]models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CartItem
	for productID, qty := range f.items[userID] {
		out = append(out, models.CartItem{UserID: userID, ProductID: productID, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (f *fakeCartStore) ClearCart(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, userID)
	return nil
}

func (f *fakeCartStore) size(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items[userID])
}

type fakeOrderStore struct {
	mu      sync.Mutex
	catalog *fakeCatalog
	carts   *fakeCartStore
	orders  map[string]models.Order
	items   map[string][]models.OrderItem // orderID -> items
}

func newFakeOrderStore(catalog *fakeCatalog, carts *fakeCartStore) *fakeOrderStore {
	return &fakeOrderStore{
		catalog: catalog,
		carts:   carts,
		orders:  make(map[string]models.Order),
		items:   make(map[string][]models.OrderItem),
	}
}

// CreateOrder mirrors the SQL transaction: all stock checks and
// decrements happen under the catalog lock, and nothing is recorded
// unless every line passes.
func (f *fakeOrderStore) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	f.catalog.mu.Lock()
	for _, item := range items {
		p, ok := f.catalog.products[item.ProductID]
		if !ok || p.StockQuantity < item.Quantity {
			f.catalog.mu.Unlock()
			return repository.ErrStockConflict
		}
	}
	for _, item := range items {
		p := f.catalog.products[item.ProductID]
		p.StockQuantity -= item.Quantity
		f.catalog.products[item.ProductID] = p
	}
	f.catalog.mu.Unlock()

	f.mu.Lock()
	f.orders[order.ID] = *order
	f.items[order.ID] = append([]models.OrderItem(nil), items...)
	f.mu.Unlock()

	return f.carts.ClearCart(ctx, order.UserID)
}

func (f *fakeOrderStore) GetOrder(_ context.Context, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o.Items = append([]models.OrderItem(nil), f.items[id]...)
	return &o, nil
}

func (f *fakeOrderStore) ListUserOrders(_ context.Context, userID string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeOrderStore) ListOrders(_ context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeOrderStore) UpdateStatus(_ context.Context, id string, from, to models.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	if o.Status != from {
		return repository.ErrStatusConflict
	}
	o.Status = to
	f.orders[id] = o
	return nil
}

func (f *fakeOrderStore) CancelOrder(ctx context.Context, id string, from models.OrderStatus) error {
	f.mu.Lock()
	o, ok := f.orders[id]
	if !ok {
		f.mu.Unlock()
		return repository.ErrNotFound
	}
	if o.Status != from {
		f.mu.Unlock()
		return repository.ErrStatusConflict
	}
	o.Status = models.StatusCancelled
	f.orders[id] = o
	items := append([]models.OrderItem(nil), f.items[id]...)
	f.mu.Unlock()

	for _, item := range items {
		if err := f.catalog.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeOrderStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

// recordingPublisher captures events for assertions.
type recordingPublisher struct {
	mu      sync.Mutex
	created []string
	changes []string // "orderID:from->to"
}

func (r *recordingPublisher) OrderCreated(_ context.Context, order *models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, order.ID)
}

func (r *recordingPublisher) OrderStatusChanged(_ context.Context, orderID string, from, to models.OrderStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, orderID+":"+string(from)+"->"+string(to))
}
