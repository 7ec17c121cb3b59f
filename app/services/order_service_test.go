package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlatelier/storefront/app/models"
	"github.com/dlatelier/storefront/pkg/apperr"
	"github.com/dlatelier/storefront/pkg/gateway"
)

type orderFixture struct {
	svc      *OrderService
	carts    *fakeCarts
	users    *fakeUsers
	orders   *fakeOrders
	gateway  *fakeGateway
	notifier *fakeNotifier
	products *fakeProducts
}

func newOrderFixture(products *fakeProducts, users *fakeUsers) *orderFixture {
	f := &orderFixture{
		carts:    newFakeCarts(),
		users:    users,
		orders:   newFakeOrders(),
		gateway:  &fakeGateway{},
		notifier: &fakeNotifier{},
		products: products,
	}
	f.svc = NewOrderService(f.orders, f.carts, f.users,
		NewEntitlementEngine(f.users, f.products), f.gateway, f.notifier)
	return f
}

func userWithAddress(id uint) *models.User {
	return &models.User{
		ID: id,
		Addresses: []models.Address{
			{Street: "2 Rue Cambon", City: "Paris", PostalCode: "75001", Country: "FR", IsDefault: true},
		},
	}
}

func (f *orderFixture) fillUserCart(t *testing.T, userID uint, items ...models.CartItem) {
	t.Helper()
	cart, err := f.carts.ForUser(userID)
	require.NoError(t, err)
	cart.Items = append(cart.Items, items...)
}

func TestCreateOrderRequiresAuth(t *testing.T) {
	f := newOrderFixture(newFakeProducts(), newFakeUsers())
	_, err := f.svc.Create(context.Background(), 0, "")
	assert.True(t, apperr.Is(err, apperr.Unauthorized))
}

func TestCreateOrderRequiresAddress(t *testing.T) {
	f := newOrderFixture(newFakeProducts(), newFakeUsers(&models.User{ID: 7}))
	_, err := f.svc.Create(context.Background(), 7, "")
	require.True(t, apperr.Is(err, apperr.InvalidState))
	assert.Equal(t, "No default address set", apperr.MessageOf(err))
}

func TestCreateOrderLegacyAddressFallback(t *testing.T) {
	f := newOrderFixture(
		newFakeProducts(plainProduct("belt", 60)),
		newFakeUsers(&models.User{ID: 7, LegacyAddress: "Old Street 1"}))
	f.fillUserCart(t, 7, models.CartItem{ProductSlug: "belt", Price: 60, Quantity: 1})

	res, err := f.svc.Create(context.Background(), 7, "")
	require.NoError(t, err)
	assert.Equal(t, "Old Street 1", res.Order.ShippingStreet)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	f := newOrderFixture(newFakeProducts(), newFakeUsers(userWithAddress(7)))
	_, err := f.svc.Create(context.Background(), 7, "")
	require.True(t, apperr.Is(err, apperr.InvalidState))
	assert.Equal(t, "Cart is empty", apperr.MessageOf(err))
}

func TestCreateOrderMigratesGuestCart(t *testing.T) {
	f := newOrderFixture(
		newFakeProducts(plainProduct("silk-scarf", 120)),
		newFakeUsers(userWithAddress(7)))

	guestCart, err := f.carts.ForGuest("g1")
	require.NoError(t, err)
	guestCart.Items = []models.CartItem{
		{ProductSlug: "silk-scarf", Name: "Piece silk-scarf", Price: 120, Quantity: 2},
	}

	res, err := f.svc.Create(context.Background(), 7, "g1")
	require.NoError(t, err)
	assert.True(t, res.MigratedGuestCart)

	require.Len(t, res.Order.Items, 1)
	assert.Equal(t, "silk-scarf", res.Order.Items[0].ProductSlug)
	assert.Equal(t, 2, res.Order.Items[0].Quantity)

	// the guest cart document is gone
	gone, err := f.carts.FindGuest("g1")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestCreateOrderBarryPreflight(t *testing.T) {
	f := newOrderFixture(
		newFakeProducts(barryProduct("barry-coat", 900)),
		newFakeUsers(func() *models.User {
			u := userWithAddress(7)
			u.BarryEntitlements = 1
			return u
		}()))
	f.fillUserCart(t, 7, models.CartItem{ProductSlug: "barry-coat", Price: 900, Quantity: 2})

	_, err := f.svc.Create(context.Background(), 7, "")
	require.True(t, apperr.Is(err, apperr.Forbidden))
	msg := apperr.MessageOf(err)
	assert.Contains(t, msg, "1 entitlement(s)")
	assert.Contains(t, msg, "2")

	// nothing persisted and no gateway order registered
	assert.Empty(t, f.orders.orders)
	assert.Empty(t, f.gateway.created)
}

func TestCreateOrderSubtotalIsServerComputed(t *testing.T) {
	f := newOrderFixture(
		newFakeProducts(plainProduct("silk-scarf", 120), plainProduct("belt", 60.5)),
		newFakeUsers(userWithAddress(7)))
	f.fillUserCart(t, 7,
		models.CartItem{ProductSlug: "silk-scarf", Price: 120, Quantity: 2},
		models.CartItem{ProductSlug: "belt", Price: 60.5, Quantity: 1},
	)

	res, err := f.svc.Create(context.Background(), 7, "")
	require.NoError(t, err)

	assert.Equal(t, 300.5, res.Order.Subtotal)
	require.Len(t, f.gateway.created, 1)
	assert.Equal(t, int64(30050), f.gateway.created[0].amountMinor)
}

func TestCreateOrderReceiptShape(t *testing.T) {
	f := newOrderFixture(
		newFakeProducts(plainProduct("belt", 60)),
		newFakeUsers(userWithAddress(7)))
	f.fillUserCart(t, 7, models.CartItem{ProductSlug: "belt", Price: 60, Quantity: 1})

	_, err := f.svc.Create(context.Background(), 7, "")
	require.NoError(t, err)

	require.Len(t, f.gateway.created, 1)
	r := f.gateway.created[0].receipt
	assert.LessOrEqual(t, len(r), 40)
	assert.Contains(t, r, "7") // user id tail
}

func TestCreateOrderGatewayFailureDoesNotPersist(t *testing.T) {
	f := newOrderFixture(
		newFakeProducts(plainProduct("belt", 60)),
		newFakeUsers(userWithAddress(7)))
	f.fillUserCart(t, 7, models.CartItem{ProductSlug: "belt", Price: 60, Quantity: 1})
	f.gateway.fail = apperr.New(apperr.Upstream, "gateway down")

	_, err := f.svc.Create(context.Background(), 7, "")
	require.True(t, apperr.Is(err, apperr.Upstream))
	assert.Empty(t, f.orders.orders)
}

func TestCreateOrderPersistsCreatedStatus(t *testing.T) {
	f := newOrderFixture(
		newFakeProducts(plainProduct("belt", 60)),
		newFakeUsers(userWithAddress(7)))
	f.fillUserCart(t, 7, models.CartItem{ProductSlug: "belt", Price: 60, Quantity: 1})

	res, err := f.svc.Create(context.Background(), 7, "")
	require.NoError(t, err)

	assert.Equal(t, models.OrderCreated, res.Order.Status)
	assert.NotEmpty(t, res.Order.GatewayOrderID)
	assert.Len(t, res.Order.OrderNumber, 10)
	// The publishable key comes from the injected gateway, not global config.
	assert.Equal(t, testGatewayKey, res.Key)
}

func (f *orderFixture) placeOrder(t *testing.T, userID uint, items ...models.CartItem) *models.Order {
	t.Helper()
	f.fillUserCart(t, userID, items...)
	res, err := f.svc.Create(context.Background(), userID, "")
	require.NoError(t, err)
	return res.Order
}

func signFor(orderID, paymentID string) string {
	return gateway.Sign(orderID, paymentID, testGatewaySecret)
}

func TestVerifyPaymentHappyPath(t *testing.T) {
	f := newOrderFixture(
		newFakeProducts(plainProduct("belt", 60)),
		newFakeUsers(userWithAddress(7)))
	order := f.placeOrder(t, 7, models.CartItem{ProductSlug: "belt", Price: 60, Quantity: 1})

	got, err := f.svc.Verify(context.Background(), 7, VerifyInput{
		OrderID:   order.GatewayOrderID,
		PaymentID: "pay_1",
		Signature: signFor(order.GatewayOrderID, "pay_1"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, got.Status)
	assert.Equal(t, "pay_1", got.GatewayPaymentID)

	// cart cleared, owner notified
	cart, err := f.carts.ForUser(7)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, []uint{got.ID}, f.notifier.paid)
}

func TestVerifyPaymentBadSignature(t *testing.T) {
	f := newOrderFixture(
		newFakeProducts(plainProduct("belt", 60)),
		newFakeUsers(userWithAddress(7)))
	order := f.placeOrder(t, 7, models.CartItem{ProductSlug: "belt", Price: 60, Quantity: 1})

	_, err := f.svc.Verify(context.Background(), 7, VerifyInput{
		OrderID:   order.GatewayOrderID,
		PaymentID: "pay_1",
		Signature: "forged",
	})
	assert.True(t, apperr.Is(err, apperr.InvalidSignature))
}

func TestVerifyPaymentMissingFields(t *testing.T) {
	f := newOrderFixture(newFakeProducts(), newFakeUsers(userWithAddress(7)))
	_, err := f.svc.Verify(context.Background(), 7, VerifyInput{OrderID: "x"})
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
}

func TestVerifyPaymentOwnerScoped(t *testing.T) {
	f := newOrderFixture(
		newFakeProducts(plainProduct("belt", 60)),
		newFakeUsers(userWithAddress(7), userWithAddress(8)))
	order := f.placeOrder(t, 7, models.CartItem{ProductSlug: "belt", Price: 60, Quantity: 1})

	// user 8 presents a valid signature for user 7's order
	_, err := f.svc.Verify(context.Background(), 8, VerifyInput{
		OrderID:   order.GatewayOrderID,
		PaymentID: "pay_1",
		Signature: signFor(order.GatewayOrderID, "pay_1"),
	})
	assert.True(t, apperr.Is(err, apperr.NotFound))
	assert.Equal(t, models.OrderCreated, order.Status)
}

func TestVerifyPaymentDebitsBarry(t *testing.T) {
	user := userWithAddress(7)
	user.BarryEntitlements = 2
	f := newOrderFixture(newFakeProducts(barryProduct("barry-coat", 900)), newFakeUsers(user))
	order := f.placeOrder(t, 7, models.CartItem{ProductSlug: "barry-coat", Price: 900, Quantity: 2})

	_, err := f.svc.Verify(context.Background(), 7, VerifyInput{
		OrderID:   order.GatewayOrderID,
		PaymentID: "pay_1",
		Signature: signFor(order.GatewayOrderID, "pay_1"),
	})
	require.NoError(t, err)

	// the preflight allowed 2, so settlement must debit exactly 2
	assert.Equal(t, 0, f.users.get(7).BarryEntitlements)
}

func TestAdminUpdateStatus(t *testing.T) {
	f := newOrderFixture(
		newFakeProducts(plainProduct("belt", 60)),
		newFakeUsers(userWithAddress(7)))
	order := f.placeOrder(t, 7, models.CartItem{ProductSlug: "belt", Price: 60, Quantity: 1})

	// any declared status is reachable from any other
	for _, status := range []string{models.OrderShipped, models.OrderRefunded, models.OrderCreated} {
		got, err := f.svc.AdminUpdateStatus(order.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, got.Status)
	}
	assert.Len(t, f.notifier.statusChanged, 3)

	_, err := f.svc.AdminUpdateStatus(order.ID, "teleported")
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
}

func TestMineIsOwnerScoped(t *testing.T) {
	f := newOrderFixture(
		newFakeProducts(plainProduct("belt", 60)),
		newFakeUsers(userWithAddress(7), userWithAddress(8)))
	f.placeOrder(t, 7, models.CartItem{ProductSlug: "belt", Price: 60, Quantity: 1})

	mine, err := f.svc.Mine(8)
	require.NoError(t, err)
	assert.Empty(t, mine)

	mine, err = f.svc.Mine(7)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestReceiptAndOrderNumberShape(t *testing.T) {
	now := time.Unix(1756500000, 0)

	r := receipt(123456789, now)
	assert.Equal(t, "23456789"+"500000", r)
	assert.LessOrEqual(t, len(r), 40)

	n := orderNumber(now)
	assert.Len(t, n, 10)
}
