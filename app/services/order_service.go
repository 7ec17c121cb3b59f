package services

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/dlatelier/storefront/app/models"
	"github.com/dlatelier/storefront/config"
	"github.com/dlatelier/storefront/pkg/apperr"
	"github.com/dlatelier/storefront/pkg/gateway"
	"github.com/dlatelier/storefront/pkg/logger"
	"github.com/dlatelier/storefront/pkg/metrics"
	"github.com/dlatelier/storefront/pkg/orm"
)

// receiptMaxLen is the gateway-imposed limit on receipt identifiers.
const receiptMaxLen = 40

// OrderService runs the checkout and payment-verification workflow.
type OrderService struct {
	orders       OrderStore
	carts        CartStore
	users        UserStore
	entitlements *EntitlementEngine
	gateway      Gateway
	notifier     Notifier
	now          func() time.Time
}

func NewOrderService(orders OrderStore, carts CartStore, users UserStore,
	entitlements *EntitlementEngine, gw Gateway, notifier Notifier) *OrderService {
	return &OrderService{
		orders:       orders,
		carts:        carts,
		users:        users,
		entitlements: entitlements,
		gateway:      gw,
		notifier:     notifier,
		now:          time.Now,
	}
}

// CreateResult is what a successful checkout returns to the client: the
// persisted order, the raw gateway order and the gateway's publishable key.
type CreateResult struct {
	Order        *models.Order
	GatewayOrder *gateway.Order
	Key          string
	// MigratedGuestCart signals the controller to clear the guest cookie.
	MigratedGuestCart bool
}

// Create runs the checkout steps in order, each a hard stop on failure:
// resolve the shipping address, load (and if needed migrate) the cart, run
// the entitlement preflight, recompute the subtotal server-side, register a
// gateway order and only then persist. The ordering guarantees no order row
// exists without a paired gateway order id.
func (s *OrderService) Create(ctx context.Context, userID uint, guestID string) (*CreateResult, error) {
	if userID == 0 {
		return nil, apperr.New(apperr.Unauthorized, "Sign in to place an order")
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}

	address, ok := user.DefaultAddress()
	if !ok && user.LegacyAddress != "" {
		address = models.Address{Street: user.LegacyAddress}
	}
	if address.Street == "" {
		return nil, apperr.New(apperr.InvalidState, "No default address set")
	}

	cart, err := s.carts.ForUser(userID)
	if err != nil {
		return nil, err
	}

	migrated := false
	if cart.IsEmpty() && guestID != "" {
		migrated, err = s.migrateGuestCart(cart, guestID)
		if err != nil {
			return nil, err
		}
	}
	if cart.IsEmpty() {
		return nil, apperr.New(apperr.InvalidState, "Cart is empty")
	}

	if err := s.entitlements.Preflight(user, cart); err != nil {
		return nil, err
	}

	// Client-snapshotted prices are what lands in the order, but the total
	// is always recomputed here, never taken from the request.
	subtotal := 0.0
	for _, item := range cart.Items {
		subtotal += item.Price * float64(item.Quantity)
	}

	currency := config.PaymentCurrency()
	amountMinor := int64(math.Round(subtotal * 100))

	gwOrder, err := s.gateway.CreateOrder(ctx, amountMinor, currency, receipt(userID, s.now()))
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNumber:        orderNumber(s.now()),
		UserID:             userID,
		ShippingStreet:     address.Street,
		ShippingCity:       address.City,
		ShippingState:      address.State,
		ShippingPostalCode: address.PostalCode,
		ShippingCountry:    address.Country,
		ShippingPhone:      address.Phone,
		Subtotal:           subtotal,
		Currency:           currency,
		Status:             models.OrderCreated,
		GatewayOrderID:     gwOrder.ID,
	}
	for _, item := range cart.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductSlug: item.ProductSlug,
			Size:        item.Size,
			Name:        item.Name,
			Price:       item.Price,
			Image:       item.Image,
			Quantity:    item.Quantity,
		})
	}

	if err := s.orders.Create(order); err != nil {
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	logger.Info("order created",
		"order_id", order.ID, "user_id", userID, "subtotal", subtotal)

	return &CreateResult{
		Order:             order,
		GatewayOrder:      gwOrder,
		Key:               s.gateway.Key(),
		MigratedGuestCart: migrated,
	}, nil
}

// migrateGuestCart copies a non-empty guest cart into the user cart and
// deletes the guest document. The two writes are not transactional; an
// orphaned guest cart is harmless since the client drops the cookie.
func (s *OrderService) migrateGuestCart(userCart *models.Cart, guestID string) (bool, error) {
	guestCart, err := s.carts.FindGuest(guestID)
	if err != nil {
		return false, err
	}
	if guestCart == nil || guestCart.IsEmpty() {
		return false, nil
	}

	for _, item := range guestCart.Items {
		item.ID = 0
		item.CartID = userCart.ID
		userCart.Items = append(userCart.Items, item)
	}
	if err := s.carts.Save(userCart); err != nil {
		return false, err
	}

	if err := s.carts.DeleteGuest(guestID); err != nil {
		logger.Warn("guest cart delete failed after migration",
			"guest_id", guestID, "error", err)
	}
	return true, nil
}

// VerifyInput is the payment callback body.
type VerifyInput struct {
	OrderID   string `json:"orderId" validate:"required"`
	PaymentID string `json:"paymentId" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// Verify authenticates a payment callback and settles the order. The HMAC
// signature is the sole authenticity check; no other callback field is
// trusted. Entitlement bookkeeping and the confirmation notification are
// best-effort: their failures are logged, never propagated, because the
// payment has already cleared.
func (s *OrderService) Verify(ctx context.Context, userID uint, in VerifyInput) (*models.Order, error) {
	if userID == 0 {
		return nil, apperr.New(apperr.Unauthorized, "Sign in to verify a payment")
	}
	if in.OrderID == "" || in.PaymentID == "" || in.Signature == "" {
		return nil, apperr.New(apperr.InvalidInput, "orderId, paymentId and signature are required")
	}

	if !s.gateway.VerifySignature(in.OrderID, in.PaymentID, in.Signature) {
		metrics.PaymentsVerified.WithLabelValues("bad_signature").Inc()
		return nil, apperr.New(apperr.InvalidSignature, "Payment signature verification failed")
	}

	order, err := s.orders.ByGatewayOrderForUser(in.OrderID, userID)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			metrics.PaymentsVerified.WithLabelValues("not_found").Inc()
		}
		return nil, err
	}

	if err := s.orders.MarkPaid(order, in.PaymentID, in.Signature); err != nil {
		return nil, err
	}
	metrics.PaymentsVerified.WithLabelValues("ok").Inc()
	logger.Info("payment verified", "order_id", order.ID, "user_id", userID)

	user, err := s.users.FindByID(userID)
	if err != nil {
		// The payment is recorded; report success and skip the side effects.
		logger.Error("post-payment user load failed", "user_id", userID, "error", err)
		return order, nil
	}

	if cart, err := s.carts.ForUser(userID); err == nil {
		if err := s.carts.Clear(cart); err != nil {
			logger.Warn("cart clear failed after payment", "user_id", userID, "error", err)
		}
	}

	if err := s.entitlements.Settle(user, order, s.now()); err != nil {
		logger.Error("entitlement settlement failed",
			"order_id", order.ID, "user_id", userID, "error", err)
	}

	s.notifier.OrderPaid(user, order)

	return order, nil
}

// Mine lists the caller's orders newest first.
func (s *OrderService) Mine(userID uint) ([]models.Order, error) {
	if userID == 0 {
		return nil, apperr.New(apperr.Unauthorized, "Sign in to view orders")
	}
	return s.orders.ByUser(userID)
}

// MineByID returns one of the caller's orders.
func (s *OrderService) MineByID(userID, orderID uint) (*models.Order, error) {
	if userID == 0 {
		return nil, apperr.New(apperr.Unauthorized, "Sign in to view orders")
	}
	return s.orders.ByIDForUser(orderID, userID)
}

// AdminAll lists all orders, paginated.
func (s *OrderService) AdminAll(page, limit int) ([]models.Order, orm.Pagination, error) {
	return s.orders.All(page, limit)
}

// AdminByID returns any order.
func (s *OrderService) AdminByID(orderID uint) (*models.Order, error) {
	return s.orders.ByID(orderID)
}

// AdminUpdateStatus overwrites an order's status. Any declared status is
// accepted from any current status; there is no transition graph. The owner
// is notified best-effort.
func (s *OrderService) AdminUpdateStatus(orderID uint, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, apperr.New(apperr.InvalidInput, "Unknown order status %q", status)
	}

	order, err := s.orders.ByID(orderID)
	if err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(order, status); err != nil {
		return nil, err
	}

	if user, err := s.users.FindByID(order.UserID); err == nil {
		s.notifier.OrderStatusChanged(user, order)
	}
	return order, nil
}

// receipt builds the gateway receipt identifier: the tail of the user id
// plus the tail of the unix timestamp, well under the 40-char gateway limit.
func receipt(userID uint, now time.Time) string {
	id := fmt.Sprintf("%d", userID)
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	ts := fmt.Sprintf("%d", now.Unix())
	if len(ts) > 6 {
		ts = ts[len(ts)-6:]
	}
	r := id + ts
	if len(r) > receiptMaxLen {
		r = r[:receiptMaxLen]
	}
	return r
}

// orderNumber generates the human-facing 10-digit order number: eight
// timestamp digits plus a two-digit random suffix. Display-only and
// best-effort unique, separate from the primary key.
func orderNumber(now time.Time) string {
	ts := fmt.Sprintf("%d", now.Unix())
	if len(ts) > 8 {
		ts = ts[len(ts)-8:]
	}
	return fmt.Sprintf("%s%02d", ts, rand.Intn(100))
}
