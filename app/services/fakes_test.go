package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dlatelier/storefront/app/models"
	"github.com/dlatelier/storefront/pkg/apperr"
	"github.com/dlatelier/storefront/pkg/gateway"
	"github.com/dlatelier/storefront/pkg/orm"
)

// In-memory stores backing the service tests.

type fakeCarts struct {
	mu     sync.Mutex
	nextID uint
	carts  []*models.Cart
}

func newFakeCarts() *fakeCarts { return &fakeCarts{nextID: 1} }

func (f *fakeCarts) ForUser(userID uint) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.carts {
		if c.UserID != nil && *c.UserID == userID {
			return c, nil
		}
	}
	c := &models.Cart{ID: f.nextID, UserID: &userID}
	f.nextID++
	f.carts = append(f.carts, c)
	return c, nil
}

func (f *fakeCarts) ForGuest(guestID string) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.carts {
		if c.GuestID != nil && *c.GuestID == guestID {
			return c, nil
		}
	}
	c := &models.Cart{ID: f.nextID, GuestID: &guestID}
	f.nextID++
	f.carts = append(f.carts, c)
	return c, nil
}

func (f *fakeCarts) FindGuest(guestID string) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.carts {
		if c.GuestID != nil && *c.GuestID == guestID {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCarts) Save(cart *models.Cart) error { return nil }

func (f *fakeCarts) Clear(cart *models.Cart) error {
	cart.Items = nil
	return nil
}

func (f *fakeCarts) DeleteGuest(guestID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.carts {
		if c.GuestID != nil && *c.GuestID == guestID {
			f.carts = append(f.carts[:i], f.carts[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeProducts struct {
	products map[string]*models.Product
}

func newFakeProducts(products ...*models.Product) *fakeProducts {
	m := map[string]*models.Product{}
	for _, p := range products {
		m[p.Slug] = p
	}
	return &fakeProducts{products: m}
}

func (f *fakeProducts) FindBySlug(slug string) (*models.Product, error) {
	if p, ok := f.products[slug]; ok {
		return p, nil
	}
	return nil, apperr.New(apperr.NotFound, "Product not found")
}

func (f *fakeProducts) TagsBySlugs(slugs []string) (map[string][]string, error) {
	out := map[string][]string{}
	for _, slug := range slugs {
		if p, ok := f.products[slug]; ok {
			out[slug] = p.TagList()
		}
	}
	return out, nil
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[uint]*models.User
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	m := map[uint]*models.User{}
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUsers{users: m}
}

func (f *fakeUsers) FindByID(id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, apperr.New(apperr.NotFound, "User not found")
}

func (f *fakeUsers) DebitBarry(userID uint, n int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok || u.BarryEntitlements < n {
		return false, nil
	}
	u.BarryEntitlements -= n
	return true, nil
}

func (f *fakeUsers) CreditBarry(userID uint, n int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		u.BarryEntitlements += n
	}
	return nil
}

func (f *fakeUsers) IncrementPrive(userID uint) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return 0, apperr.New(apperr.NotFound, "User not found")
	}
	u.PrivePurchases++
	return u.PrivePurchases, nil
}

func (f *fakeUsers) get(id uint) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id]
}

type fakeOrders struct {
	mu     sync.Mutex
	nextID uint
	orders []*models.Order
}

func newFakeOrders() *fakeOrders { return &fakeOrders{nextID: 1} }

func (f *fakeOrders) Create(order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order.ID = f.nextID
	f.nextID++
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeOrders) ByUser(userID uint) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for i := len(f.orders) - 1; i >= 0; i-- {
		if f.orders[i].UserID == userID {
			out = append(out, *f.orders[i])
		}
	}
	return out, nil
}

func (f *fakeOrders) ByIDForUser(id, userID uint) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.ID == id && o.UserID == userID {
			return o, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "Order not found")
}

func (f *fakeOrders) ByID(id uint) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "Order not found")
}

func (f *fakeOrders) ByGatewayOrderForUser(gatewayOrderID string, userID uint) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.GatewayOrderID == gatewayOrderID && o.UserID == userID {
			return o, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "Order not found")
}

func (f *fakeOrders) MarkPaid(order *models.Order, paymentID, signature string) error {
	order.Status = models.OrderPaid
	order.GatewayPaymentID = paymentID
	order.GatewaySignature = signature
	return nil
}

func (f *fakeOrders) UpdateStatus(order *models.Order, status string) error {
	order.Status = status
	return nil
}

func (f *fakeOrders) All(page, limit int) ([]models.Order, orm.Pagination, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Order, 0, len(f.orders))
	for i := len(f.orders) - 1; i >= 0; i-- {
		out = append(out, *f.orders[i])
	}
	return out, orm.Pagination{Page: 1, PerPage: limit, Total: int64(len(out)), TotalPages: 1}, nil
}

const (
	testGatewayKey    = "rzp_test_key"
	testGatewaySecret = "test_secret"
)

type fakeGateway struct {
	mu      sync.Mutex
	nextID  int
	created []createdGatewayOrder
	fail    error
}

type createdGatewayOrder struct {
	amountMinor int64
	currency    string
	receipt     string
}

func (f *fakeGateway) CreateOrder(_ context.Context, amountMinor int64, currency, receipt string) (*gateway.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	f.nextID++
	f.created = append(f.created, createdGatewayOrder{amountMinor, currency, receipt})
	return &gateway.Order{
		ID:       fmt.Sprintf("gw_order_%d", f.nextID),
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}, nil
}

func (f *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return gateway.Sign(orderID, paymentID, testGatewaySecret) == signature
}

func (f *fakeGateway) Key() string { return testGatewayKey }

type fakeNotifier struct {
	mu            sync.Mutex
	paid          []uint // order ids
	statusChanged []uint
}

func (f *fakeNotifier) OrderPaid(_ *models.User, order *models.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paid = append(f.paid, order.ID)
}

func (f *fakeNotifier) OrderStatusChanged(_ *models.User, order *models.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusChanged = append(f.statusChanged, order.ID)
}
